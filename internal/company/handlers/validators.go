package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	e "github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/errors"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/pkg/utils"
	"github.com/go-playground/validator/v10"
)

const (
	defaultMaxItems = 3
	maxMaxItems     = 5
)

var (
	companyIDPattern   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	epochMillisPattern = regexp.MustCompile(`^[1-9][0-9]{12}$`)
	maxItemsPattern    = regexp.MustCompile(`^[1-9][0-9]*$`)
)

type createCompanyRequest struct {
	Name     string  `json:"name" validate:"required"`
	Industry *string `json:"industry" validate:"omitnil,industry"`
}

// listCompaniesQuery holds the raw query parameters of GET /companies.
// A nil field means the parameter was absent.
type listCompaniesQuery struct {
	Industry      *string `validate:"omitnil,industry"`
	CreatedAfter  *string `validate:"omitnil,epoch_millis"`
	CreatedBefore *string `validate:"omitnil,epoch_millis"`
	MaxItems      *string `validate:"omitnil,max_items"`
}

// listQueryKeys are the parameters GET /companies reads. Each may appear at
// most once.
var listQueryKeys = []string{"industry", "created_after", "created_before", "max_items"}

// listCompaniesParams is a validated listCompaniesQuery.
type listCompaniesParams struct {
	Industry      *models.Industry
	CreatedAfter  *int64
	CreatedBefore *int64
	MaxItems      int
}

// refinement is a cross-field rule checked after every field is valid.
type refinement struct {
	name  string
	check func(*listCompaniesParams) bool
}

var listRefinements = []refinement{
	{"created range requires industry", rangeRequiresIndustry},
	{"created_after before created_before", createdAfterBeforeCreatedBefore},
}

func rangeRequiresIndustry(p *listCompaniesParams) bool {
	return p.Industry != nil || (p.CreatedAfter == nil && p.CreatedBefore == nil)
}

func createdAfterBeforeCreatedBefore(p *listCompaniesParams) bool {
	return p.CreatedAfter == nil || p.CreatedBefore == nil || *p.CreatedAfter < *p.CreatedBefore
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "company_id", func(fl validator.FieldLevel) bool {
		return companyIDPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "industry", func(fl validator.FieldLevel) bool {
		return models.Industry(fl.Field().String()).Valid()
	})
	mustRegister(v, "epoch_millis", func(fl validator.FieldLevel) bool {
		return epochMillisPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "max_items", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !maxItemsPattern.MatchString(s) {
			return false
		}
		n, err := strconv.Atoi(s)
		return err == nil && n <= maxMaxItems
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (h *CompanyHandler) validateCompanyID(id string) error {
	if err := h.validate.Var(id, "company_id"); err != nil {
		return invalid("company id %q: %v", id, err)
	}
	return nil
}

func (h *CompanyHandler) parseCreateCompany(body []byte) (*models.CreateCompanyInput, error) {
	if len(body) == 0 {
		return nil, invalid("request body required")
	}

	var req createCompanyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalid("request body: %v", err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, invalid("request body: %v", err)
	}

	input := &models.CreateCompanyInput{Name: req.Name}
	if req.Industry != nil {
		input.Industry = utils.Ptr(models.Industry(*req.Industry))
	}
	return input, nil
}

func (h *CompanyHandler) parseListCompanies(query url.Values) (*listCompaniesParams, error) {
	for _, key := range listQueryKeys {
		if len(query[key]) > 1 {
			return nil, invalid("%s: repeated parameter", key)
		}
	}

	raw := listCompaniesQuery{
		Industry:      queryParam(query, "industry"),
		CreatedAfter:  queryParam(query, "created_after"),
		CreatedBefore: queryParam(query, "created_before"),
		MaxItems:      queryParam(query, "max_items"),
	}
	if err := h.validate.Struct(&raw); err != nil {
		return nil, invalid("query: %v", err)
	}

	params := &listCompaniesParams{MaxItems: defaultMaxItems}
	if raw.Industry != nil {
		params.Industry = utils.Ptr(models.Industry(*raw.Industry))
	}
	var err error
	if params.CreatedAfter, err = parseEpochMillis(raw.CreatedAfter); err != nil {
		return nil, invalid("created_after: %v", err)
	}
	if params.CreatedBefore, err = parseEpochMillis(raw.CreatedBefore); err != nil {
		return nil, invalid("created_before: %v", err)
	}
	if raw.MaxItems != nil {
		if params.MaxItems, err = strconv.Atoi(*raw.MaxItems); err != nil {
			return nil, invalid("max_items: %v", err)
		}
	}

	for _, r := range listRefinements {
		if !r.check(params) {
			return nil, invalid("query: %s", r.name)
		}
	}
	return params, nil
}

func queryParam(query url.Values, key string) *string {
	if !query.Has(key) {
		return nil
	}
	return utils.Ptr(query.Get(key))
}

func parseEpochMillis(s *string) (*int64, error) {
	if s == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// isValidationError reports whether err was produced by request parsing.
func isValidationError(err error) bool {
	return errors.Is(err, e.ErrInvalidInput)
}
