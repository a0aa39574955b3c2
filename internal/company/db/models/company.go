// Package models contains the persisted layout of the companies table,
// configured to work with the DynamoDB attributevalue codec.
package models

import (
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
)

// Attribute names of the companies table and its industry/createdAt index.
const (
	AttrID        = "id"
	AttrCreatedAt = "createdAt"
	AttrName      = "name"
	AttrIndustry  = "industry"
)

// Company is one item of the companies table. The primary key is id; the
// secondary index uses industry as partition key and createdAt as sort key,
// so items without an industry are left out of the index.
type Company struct {
	ID        string  `dynamodbav:"id"`
	CreatedAt int64   `dynamodbav:"createdAt"`
	Name      string  `dynamodbav:"name"`
	Industry  *string `dynamodbav:"industry,omitempty"`
}

// FromModel converts a domain company into its table item.
func FromModel(c *models.Company) *Company {
	item := &Company{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Name:      c.Name,
	}
	if c.Industry != nil {
		industry := string(*c.Industry)
		item.Industry = &industry
	}
	return item
}

// ToModel converts a table item into a domain company.
func (c *Company) ToModel() *models.Company {
	company := &models.Company{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Name:      c.Name,
	}
	if c.Industry != nil {
		industry := models.Industry(*c.Industry)
		company.Industry = &industry
	}
	return company
}
