// Package models defines the core domain models for the Company entity.
// It includes definitions for Company, the Industry enumeration and the
// inputs accepted by the company service operations.
package models

// Industry represents the business sector a company belongs to.
type Industry string

const (
	IndustryIT            Industry = "IT"
	IndustryManufacturing Industry = "Manufacturing"
	IndustryFinance       Industry = "Finance"
	IndustryMedical       Industry = "Medical"
	IndustryOther         Industry = "Other"
)

// Industries lists every accepted Industry value.
var Industries = []Industry{
	IndustryIT,
	IndustryManufacturing,
	IndustryFinance,
	IndustryMedical,
	IndustryOther,
}

// Valid reports whether i is one of the known industries.
func (i Industry) Valid() bool {
	for _, known := range Industries {
		if i == known {
			return true
		}
	}
	return false
}

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the unique identifier for the company (UUID v4).
	ID string `json:"id"`
	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
	// Name is the company’s name.
	Name string `json:"name"`
	// Industry is optional; companies without one are only reachable by scan.
	Industry *Industry `json:"industry,omitempty"`
}

// CreateCompanyInput carries the caller supplied fields of a new company.
type CreateCompanyInput struct {
	Name     string
	Industry *Industry
}

// QueryCompaniesInput selects companies of one industry, optionally
// restricted to an inclusive creation time range.
type QueryCompaniesInput struct {
	Industry      Industry
	CreatedAfter  *int64
	CreatedBefore *int64
	// MaxItems truncates the result when set.
	MaxItems *int
}

// ScanCompaniesInput lists every company.
type ScanCompaniesInput struct {
	MaxItems *int
}
