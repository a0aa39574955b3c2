package db

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	dbmodels "github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/db/models"
	e "github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/errors"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
	"go.uber.org/zap"
)

// API is the part of the DynamoDB client used by the companies table.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

type Config struct {
	TableName                  string
	IndustryCreatedAtIndexName string
}

// Repository is the gateway to the companies table.
type Repository struct {
	client API
	table  string
	index  string
	logger *zap.Logger
}

func NewRepository(client API, cfg *Config, logger *zap.Logger) *Repository {
	return &Repository{
		client: client,
		table:  cfg.TableName,
		index:  cfg.IndustryCreatedAtIndexName,
		logger: logger.Named("companies_table"),
	}
}

// PutItem inserts a company unless an item with the same id already exists,
// in which case a TableError of kind ErrAlreadyExists is returned.
func (r *Repository) PutItem(ctx context.Context, company *models.Company) error {
	item, err := attributevalue.MarshalMap(dbmodels.FromModel(company))
	if err != nil {
		return r.unknown(err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(dbmodels.AttrID))).
		Build()
	if err != nil {
		return r.unknown(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return e.NewTableAlreadyExistsError(r.table, company)
		}
		return r.unknown(err)
	}
	return nil
}

// GetItem fetches a company by id. A missing item is reported as a nil
// company with a nil error.
func (r *Repository) GetItem(ctx context.Context, id string) (*models.Company, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, r.unknown(err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item dbmodels.Company
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, r.unknown(err)
	}
	return item.ToModel(), nil
}

// DeleteItem removes a company, failing with a TableError of kind
// ErrNotFound when the id does not exist.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(dbmodels.AttrID))).
		Build()
	if err != nil {
		return r.unknown(err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      idKey(id),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return e.NewTableNotExistsError(r.table, id)
		}
		return r.unknown(err)
	}
	return nil
}

// PaginateScanItems reads the whole table, following LastEvaluatedKey until
// the last page. Any page failure discards what was read so far.
func (r *Repository) PaginateScanItems(ctx context.Context) ([]*models.Company, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})

	companies := make([]*models.Company, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, r.unknown(err)
		}
		items, err := unmarshalCompanies(page.Items)
		if err != nil {
			return nil, r.unknown(err)
		}
		companies = append(companies, items...)
	}
	return companies, nil
}

// PaginateQueryItems reads every company of an industry from the
// industry/createdAt index, ascending by createdAt. The bounds are inclusive.
func (r *Repository) PaginateQueryItems(ctx context.Context, industry models.Industry, createdAfter, createdBefore *int64) ([]*models.Company, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(industryKeyCondition(industry, createdAfter, createdBefore)).
		Build()
	if err != nil {
		return nil, r.unknown(err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	companies := make([]*models.Company, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, r.unknown(err)
		}
		items, err := unmarshalCompanies(page.Items)
		if err != nil {
			return nil, r.unknown(err)
		}
		companies = append(companies, items...)
	}
	return companies, nil
}

func industryKeyCondition(industry models.Industry, createdAfter, createdBefore *int64) expression.KeyConditionBuilder {
	keyCond := expression.Key(dbmodels.AttrIndustry).Equal(expression.Value(string(industry)))
	createdAt := expression.Key(dbmodels.AttrCreatedAt)

	switch {
	case createdAfter != nil && createdBefore != nil:
		return keyCond.And(createdAt.Between(expression.Value(*createdAfter), expression.Value(*createdBefore)))
	case createdAfter != nil:
		return keyCond.And(createdAt.GreaterThanEqual(expression.Value(*createdAfter)))
	case createdBefore != nil:
		return keyCond.And(createdAt.LessThanEqual(expression.Value(*createdBefore)))
	}
	return keyCond
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		dbmodels.AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

func unmarshalCompanies(items []map[string]types.AttributeValue) ([]*models.Company, error) {
	var rows []dbmodels.Company
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}
	companies := make([]*models.Company, 0, len(rows))
	for i := range rows {
		companies = append(companies, rows[i].ToModel())
	}
	return companies, nil
}

func (r *Repository) unknown(err error) error {
	fields := []zap.Field{zap.Error(err), zap.String("table", r.table)}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("aws_error_code", apiErr.ErrorCode()))
	}
	r.logger.Error("Companies table operation failed", fields...)
	return e.NewTableUnknownError(r.table, err)
}
