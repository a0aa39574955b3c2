package controller

import (
	"context"
	"errors"
	"testing"

	e "github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/errors"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/events"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testTable = "companies"
	testID    = "e3162725-4b5b-4779-bf13-14d55d63a584"
	testNow   = int64(1704034800000)
)

// MockRepository implements the Repository interface for testing
type MockRepository struct {
	putItem            func(context.Context, *models.Company) error
	getItem            func(context.Context, string) (*models.Company, error)
	deleteItem         func(context.Context, string) error
	paginateScanItems  func(context.Context) ([]*models.Company, error)
	paginateQueryItems func(context.Context, models.Industry, *int64, *int64) ([]*models.Company, error)
}

func (m *MockRepository) PutItem(ctx context.Context, c *models.Company) error {
	return m.putItem(ctx, c)
}

func (m *MockRepository) GetItem(ctx context.Context, id string) (*models.Company, error) {
	return m.getItem(ctx, id)
}

func (m *MockRepository) DeleteItem(ctx context.Context, id string) error {
	return m.deleteItem(ctx, id)
}

func (m *MockRepository) PaginateScanItems(ctx context.Context) ([]*models.Company, error) {
	return m.paginateScanItems(ctx)
}

func (m *MockRepository) PaginateQueryItems(ctx context.Context, industry models.Industry, after, before *int64) ([]*models.Company, error) {
	return m.paginateQueryItems(ctx, industry, after, before)
}

type producedEvent struct {
	EventType events.EventType
	Company   *models.Company
}

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	producedEvents []producedEvent
}

func (m *MockProducer) Produce(eventType events.EventType, company *models.Company) {
	m.producedEvents = append(m.producedEvents, producedEvent{eventType, company})
}

func newTestService(t *testing.T, repo *MockRepository, producer *MockProducer) *CompanyService {
	s := NewCompanyService(repo, producer, zaptest.NewLogger(t))
	s.now = func() int64 { return testNow }
	s.newID = func() string { return testID }
	return s
}

func companies(n int) []*models.Company {
	out := make([]*models.Company, n)
	for i := range out {
		out[i] = &models.Company{ID: string(rune('a' + i)), CreatedAt: testNow + int64(i)}
	}
	return out
}

func TestCompanyService_CreateCompany(t *testing.T) {
	it := models.IndustryIT
	storeErr := errors.New("dynamodb unavailable")

	tests := []struct {
		name          string
		input         *models.CreateCompanyInput
		putItem       func(context.Context, *models.Company) error
		expected      *models.Company
		expectedError error
	}{
		{
			name:  "successful creation",
			input: &models.CreateCompanyInput{Name: "Classmethod"},
			putItem: func(context.Context, *models.Company) error {
				return nil
			},
			expected: &models.Company{ID: testID, CreatedAt: testNow, Name: "Classmethod"},
		},
		{
			name:  "successful creation with industry",
			input: &models.CreateCompanyInput{Name: "Classmethod", Industry: &it},
			putItem: func(context.Context, *models.Company) error {
				return nil
			},
			expected: &models.Company{ID: testID, CreatedAt: testNow, Name: "Classmethod", Industry: &it},
		},
		{
			name:  "id collision",
			input: &models.CreateCompanyInput{Name: "Classmethod"},
			putItem: func(_ context.Context, c *models.Company) error {
				return e.NewTableAlreadyExistsError(testTable, c)
			},
			expectedError: e.ErrAlreadyExists,
		},
		{
			name:  "repository error",
			input: &models.CreateCompanyInput{Name: "Classmethod"},
			putItem: func(context.Context, *models.Company) error {
				return e.NewTableUnknownError(testTable, storeErr)
			},
			expectedError: e.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *models.Company
			repo := &MockRepository{putItem: func(ctx context.Context, c *models.Company) error {
				stored = c
				return tt.putItem(ctx, c)
			}}
			producer := &MockProducer{}
			service := newTestService(t, repo, producer)

			result, err := service.CreateCompany(context.Background(), tt.input)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				assert.Empty(t, producer.producedEvents)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.expected, stored)
			require.Len(t, producer.producedEvents, 1)
			assert.Equal(t, events.CompanyCreated, producer.producedEvents[0].EventType)
		})
	}

	t.Run("conflict is returned unchanged", func(t *testing.T) {
		var conflict *e.TableError
		repo := &MockRepository{putItem: func(_ context.Context, c *models.Company) error {
			conflict = e.NewTableAlreadyExistsError(testTable, c)
			return conflict
		}}
		_, err := newTestService(t, repo, &MockProducer{}).CreateCompany(context.Background(), &models.CreateCompanyInput{Name: "x"})

		assert.Same(t, conflict, err)
	})

	t.Run("unknown error keeps its cause", func(t *testing.T) {
		repo := &MockRepository{putItem: func(context.Context, *models.Company) error {
			return e.NewTableUnknownError(testTable, storeErr)
		}}
		_, err := newTestService(t, repo, &MockProducer{}).CreateCompany(context.Background(), &models.CreateCompanyInput{Name: "x"})

		var serviceErr *e.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("default id generator and clock", func(t *testing.T) {
		repo := &MockRepository{putItem: func(context.Context, *models.Company) error { return nil }}
		service := NewCompanyService(repo, &MockProducer{}, zaptest.NewLogger(t))

		before := utils.NowUnixMilli()
		result, err := service.CreateCompany(context.Background(), &models.CreateCompanyInput{Name: "x"})
		after := utils.NowUnixMilli()

		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, result.ID)
		assert.GreaterOrEqual(t, result.CreatedAt, before)
		assert.LessOrEqual(t, result.CreatedAt, after)
	})
}

func TestCompanyService_GetCompany(t *testing.T) {
	validCompany := &models.Company{ID: testID, CreatedAt: testNow, Name: "Existing Company"}

	tests := []struct {
		name          string
		getItem       func(context.Context, string) (*models.Company, error)
		expected      *models.Company
		expectedError error
	}{
		{
			name: "existing company",
			getItem: func(context.Context, string) (*models.Company, error) {
				return validCompany, nil
			},
			expected: validCompany,
		},
		{
			name: "non-existent company",
			getItem: func(context.Context, string) (*models.Company, error) {
				return nil, nil
			},
			expectedError: e.ErrNotFound,
		},
		{
			name: "database error",
			getItem: func(context.Context, string) (*models.Company, error) {
				return nil, e.NewTableUnknownError(testTable, errors.New("timeout"))
			},
			expectedError: e.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{getItem: func(ctx context.Context, id string) (*models.Company, error) {
				assert.Equal(t, testID, id)
				return tt.getItem(ctx, id)
			}}
			service := newTestService(t, repo, &MockProducer{})

			result, err := service.GetCompany(context.Background(), testID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("not found carries the id", func(t *testing.T) {
		repo := &MockRepository{getItem: func(context.Context, string) (*models.Company, error) { return nil, nil }}
		_, err := newTestService(t, repo, &MockProducer{}).GetCompany(context.Background(), testID)

		var serviceErr *e.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, testID, serviceErr.ID)
	})
}

func TestCompanyService_DeleteCompany(t *testing.T) {
	tests := []struct {
		name          string
		deleteItem    func(context.Context, string) error
		expectedError error
	}{
		{
			name:       "successful deletion",
			deleteItem: func(context.Context, string) error { return nil },
		},
		{
			name: "not found",
			deleteItem: func(_ context.Context, id string) error {
				return e.NewTableNotExistsError(testTable, id)
			},
			expectedError: e.ErrNotFound,
		},
		{
			name: "delete error",
			deleteItem: func(context.Context, string) error {
				return e.NewTableUnknownError(testTable, errors.New("throttled"))
			},
			expectedError: e.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer := &MockProducer{}
			service := newTestService(t, &MockRepository{deleteItem: tt.deleteItem}, producer)

			err := service.DeleteCompany(context.Background(), testID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				var serviceErr *e.ServiceError
				assert.ErrorAs(t, err, &serviceErr)
				assert.Empty(t, producer.producedEvents)
				return
			}
			require.NoError(t, err)
			require.Len(t, producer.producedEvents, 1)
			assert.Equal(t, events.CompanyDeleted, producer.producedEvents[0].EventType)
			assert.Equal(t, testID, producer.producedEvents[0].Company.ID)
		})
	}
}

func TestCompanyService_QueryCompanies(t *testing.T) {
	after, before := int64(1709218800000), int64(1725116400000)

	tests := []struct {
		name     string
		stored   int
		maxItems *int
		expected int
	}{
		{"no limit returns everything", 7, nil, 7},
		{"fewer than limit", 2, utils.Ptr(3), 2},
		{"exactly limit", 3, utils.Ptr(3), 3},
		{"more than limit", 5, utils.Ptr(3), 3},
		{"empty", 0, utils.Ptr(5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := companies(tt.stored)
			repo := &MockRepository{
				paginateQueryItems: func(_ context.Context, industry models.Industry, a, b *int64) ([]*models.Company, error) {
					assert.Equal(t, models.IndustryIT, industry)
					assert.Equal(t, &after, a)
					assert.Equal(t, &before, b)
					return stored, nil
				},
			}
			service := newTestService(t, repo, &MockProducer{})

			result, err := service.QueryCompanies(context.Background(), &models.QueryCompaniesInput{
				Industry:      models.IndustryIT,
				CreatedAfter:  &after,
				CreatedBefore: &before,
				MaxItems:      tt.maxItems,
			})

			require.NoError(t, err)
			assert.Equal(t, stored[:tt.expected], result)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		repo := &MockRepository{
			paginateQueryItems: func(context.Context, models.Industry, *int64, *int64) ([]*models.Company, error) {
				return nil, e.NewTableUnknownError(testTable, errors.New("page failed"))
			},
		}
		result, err := newTestService(t, repo, &MockProducer{}).QueryCompanies(context.Background(), &models.QueryCompaniesInput{Industry: models.IndustryOther})

		assert.ErrorIs(t, err, e.ErrUnknown)
		assert.Nil(t, result)
	})
}

func TestCompanyService_ScanCompanies(t *testing.T) {
	t.Run("truncates in received order", func(t *testing.T) {
		stored := companies(5)
		repo := &MockRepository{paginateScanItems: func(context.Context) ([]*models.Company, error) {
			return stored, nil
		}}

		result, err := newTestService(t, repo, &MockProducer{}).ScanCompanies(context.Background(), &models.ScanCompaniesInput{MaxItems: utils.Ptr(2)})

		require.NoError(t, err)
		assert.Equal(t, stored[:2], result)
	})

	t.Run("no limit", func(t *testing.T) {
		stored := companies(4)
		repo := &MockRepository{paginateScanItems: func(context.Context) ([]*models.Company, error) {
			return stored, nil
		}}

		result, err := newTestService(t, repo, &MockProducer{}).ScanCompanies(context.Background(), &models.ScanCompaniesInput{})

		require.NoError(t, err)
		assert.Equal(t, stored, result)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &MockRepository{paginateScanItems: func(context.Context) ([]*models.Company, error) {
			return nil, e.NewTableUnknownError(testTable, errors.New("page failed"))
		}}

		result, err := newTestService(t, repo, &MockProducer{}).ScanCompanies(context.Background(), &models.ScanCompaniesInput{})

		assert.ErrorIs(t, err, e.ErrUnknown)
		assert.Nil(t, result)
	})
}
