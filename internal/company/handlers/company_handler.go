// Package handlers serves the company REST API. Handlers validate untrusted
// input, call the CompanyService and translate its results into
// httpresponse records; the router adapts them to net/http so the same
// routes run behind API Gateway and as a standalone server.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/auth"
	e "github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/errors"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/pkg/httpresponse"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface
// that the HTTP handlers will invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, input *models.CreateCompanyInput) (*models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string) error
	QueryCompanies(ctx context.Context, input *models.QueryCompaniesInput) ([]*models.Company, error)
	ScanCompanies(ctx context.Context, input *models.ScanCompaniesInput) ([]*models.Company, error)
}

// CompanyHandler provides the HTTP methods for Company operations,
// mapping requests to a CompanyController interface.
type CompanyHandler struct {
	service  CompanyController
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCompanyHandler constructs a new CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service:  service,
		validate: newValidator(),
		logger:   logger.Named("http_handler"),
	}
}

// CreateCompany handles POST /companies.
func (h *CompanyHandler) CreateCompany(ctx context.Context, body []byte) httpresponse.Response {
	input, err := h.parseCreateCompany(body)
	if err != nil {
		return h.badRequest(err)
	}

	created, err := h.service.CreateCompany(ctx, input)
	if err != nil {
		return h.serviceError("Create company failed", err)
	}

	h.logger.Info("Company created",
		zap.String("company_id", created.ID),
		zap.String("user", auth.UserFromContext(ctx)),
	)

	resp, err := h.jsonResponse(created)
	if err != nil {
		return h.mapServiceError(err)
	}
	resp.Headers["Location"] = "/companies/" + created.ID
	return httpresponse.Created(resp.Body, resp.Headers)
}

// GetCompany handles GET /companies/{id}.
func (h *CompanyHandler) GetCompany(ctx context.Context, id string) httpresponse.Response {
	if err := h.validateCompanyID(id); err != nil {
		return h.badRequest(err)
	}

	company, err := h.service.GetCompany(ctx, id)
	if err != nil {
		return h.serviceError("Get company failed", err, zap.String("company_id", id))
	}

	resp, err := h.jsonResponse(company)
	if err != nil {
		return h.mapServiceError(err)
	}
	return resp
}

// DeleteCompany handles DELETE /companies/{id}.
func (h *CompanyHandler) DeleteCompany(ctx context.Context, id string) httpresponse.Response {
	if err := h.validateCompanyID(id); err != nil {
		return h.badRequest(err)
	}

	if err := h.service.DeleteCompany(ctx, id); err != nil {
		return h.serviceError("Delete company failed", err, zap.String("company_id", id))
	}
	h.logger.Info("Company deleted",
		zap.String("company_id", id),
		zap.String("user", auth.UserFromContext(ctx)),
	)
	return httpresponse.NoContent("", nil)
}

// ListCompanies handles GET /companies. An industry filter selects the
// index query, otherwise the whole table is scanned.
func (h *CompanyHandler) ListCompanies(ctx context.Context, query url.Values) httpresponse.Response {
	params, err := h.parseListCompanies(query)
	if err != nil {
		return h.badRequest(err)
	}

	var companies []*models.Company
	if params.Industry != nil {
		companies, err = h.service.QueryCompanies(ctx, &models.QueryCompaniesInput{
			Industry:      *params.Industry,
			CreatedAfter:  params.CreatedAfter,
			CreatedBefore: params.CreatedBefore,
			MaxItems:      &params.MaxItems,
		})
	} else {
		companies, err = h.service.ScanCompanies(ctx, &models.ScanCompaniesInput{
			MaxItems: &params.MaxItems,
		})
	}
	if err != nil {
		return h.serviceError("List companies failed", err)
	}

	if companies == nil {
		companies = []*models.Company{}
	}
	resp, err := h.jsonResponse(companies)
	if err != nil {
		return h.mapServiceError(err)
	}
	return resp
}

func (h *CompanyHandler) jsonResponse(v any) (httpresponse.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		return httpresponse.Response{}, err
	}
	return httpresponse.OK(string(body), httpresponse.JSONHeaders()), nil
}

func (h *CompanyHandler) badRequest(err error) httpresponse.Response {
	h.logger.Info("Validation error.", zap.Error(err))
	return httpresponse.BadRequest("", nil)
}

// serviceError logs err and maps it to a response. An absent company is an
// expected outcome and is logged at info.
func (h *CompanyHandler) serviceError(msg string, err error, fields ...zap.Field) httpresponse.Response {
	fields = append(fields, zap.Error(err))
	if errors.Is(err, e.ErrNotFound) {
		h.logger.Info("Not exists error.", fields...)
	} else {
		h.logger.Error(msg, fields...)
	}
	return h.mapServiceError(err)
}

// mapServiceError translates a service error into a response.
func (h *CompanyHandler) mapServiceError(err error) httpresponse.Response {
	switch {
	case isValidationError(err):
		return httpresponse.BadRequest("", nil)
	case errors.Is(err, e.ErrAlreadyExists):
		return httpresponse.Conflict("", nil)
	case errors.Is(err, e.ErrNotFound):
		return httpresponse.NotFound("", nil)
	default:
		return httpresponse.InternalServerError("", nil)
	}
}
