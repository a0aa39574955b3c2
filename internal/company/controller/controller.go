// Package controller implements the core business logic (service layer)
// for managing Company entities, orchestrating companies table operations
// and sending relevant events.
package controller

import (
	"context"
	"errors"

	e "github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/errors"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/events"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, company *models.Company)
}

// Repository defines the storage interface for Company objects.
type Repository interface {
	PutItem(ctx context.Context, company *models.Company) error
	GetItem(ctx context.Context, id string) (*models.Company, error)
	DeleteItem(ctx context.Context, id string) error
	PaginateScanItems(ctx context.Context) ([]*models.Company, error)
	PaginateQueryItems(ctx context.Context, industry models.Industry, createdAfter, createdBefore *int64) ([]*models.Company, error)
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger

	now   func() int64
	newID func() string
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
		now:      utils.NowUnixMilli,
		newID:    uuid.NewString,
	}
}

// CreateCompany assigns an ID and creation time to a new Company, stores it
// and triggers an event. A conflicting ID is returned as the table error.
func (s *CompanyService) CreateCompany(ctx context.Context, input *models.CreateCompanyInput) (*models.Company, error) {
	company := &models.Company{
		ID:        s.newID(),
		CreatedAt: s.now(),
		Name:      input.Name,
		Industry:  input.Industry,
	}

	if err := s.repo.PutItem(ctx, company); err != nil {
		if errors.Is(err, e.ErrAlreadyExists) {
			return nil, err
		}
		return nil, s.unknown(err)
	}

	s.producer.Produce(events.CompanyCreated, company)
	return company, nil
}

// GetCompany retrieves a Company by ID, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, s.unknown(err)
	}
	if company == nil {
		return nil, e.NewServiceNotExistsError(id)
	}
	return company, nil
}

// DeleteCompany removes a Company by ID and fires a deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.NewServiceNotExistsError(id)
		}
		return s.unknown(err)
	}

	s.producer.Produce(events.CompanyDeleted, &models.Company{ID: id})
	return nil
}

// QueryCompanies lists the companies of one industry in ascending
// creation order, truncated to MaxItems.
func (s *CompanyService) QueryCompanies(ctx context.Context, input *models.QueryCompaniesInput) ([]*models.Company, error) {
	companies, err := s.repo.PaginateQueryItems(ctx, input.Industry, input.CreatedAfter, input.CreatedBefore)
	if err != nil {
		return nil, s.unknown(err)
	}
	return truncate(companies, input.MaxItems), nil
}

// ScanCompanies lists every company, truncated to MaxItems.
func (s *CompanyService) ScanCompanies(ctx context.Context, input *models.ScanCompaniesInput) ([]*models.Company, error) {
	companies, err := s.repo.PaginateScanItems(ctx)
	if err != nil {
		return nil, s.unknown(err)
	}
	return truncate(companies, input.MaxItems), nil
}

func (s *CompanyService) unknown(err error) error {
	s.logger.Error("Companies table operation failed", zap.Error(err))
	return e.NewServiceUnknownError(err)
}

func truncate(companies []*models.Company, maxItems *int) []*models.Company {
	if maxItems == nil || len(companies) <= *maxItems {
		return companies
	}
	return companies[:*maxItems]
}
