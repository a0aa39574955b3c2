package errors

import (
	"fmt"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/models"
)

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrAlreadyExists = fmt.Errorf("already exists")
	ErrUnknown       = fmt.Errorf("unknown error")
	ErrInvalidInput  = fmt.Errorf("invalid input")
)

// TableError is raised by the companies table gateway. Kind is one of
// ErrAlreadyExists, ErrNotFound or ErrUnknown.
type TableError struct {
	Kind  error
	Table string
	// ID is set for ErrNotFound.
	ID string
	// Company is set for ErrAlreadyExists.
	Company *models.Company
	// Err is the store failure behind ErrUnknown.
	Err error
}

func NewTableAlreadyExistsError(table string, company *models.Company) *TableError {
	return &TableError{Kind: ErrAlreadyExists, Table: table, Company: company}
}

func NewTableNotExistsError(table, id string) *TableError {
	return &TableError{Kind: ErrNotFound, Table: table, ID: id}
}

func NewTableUnknownError(table string, err error) *TableError {
	return &TableError{Kind: ErrUnknown, Table: table, Err: err}
}

func (e *TableError) Error() string {
	switch e.Kind {
	case ErrAlreadyExists:
		id := ""
		if e.Company != nil {
			id = e.Company.ID
		}
		return fmt.Sprintf("table %s: company %s %v", e.Table, id, e.Kind)
	case ErrNotFound:
		return fmt.Sprintf("table %s: company %s %v", e.Table, e.ID, e.Kind)
	default:
		return fmt.Sprintf("table %s: %v: %v", e.Table, e.Kind, e.Err)
	}
}

func (e *TableError) Is(target error) bool {
	return target == e.Kind
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// ServiceError is raised by the company service. Kind is ErrNotFound or ErrUnknown.
type ServiceError struct {
	Kind error
	ID   string
	Err  error
}

func NewServiceNotExistsError(id string) *ServiceError {
	return &ServiceError{Kind: ErrNotFound, ID: id}
}

func NewServiceUnknownError(err error) *ServiceError {
	return &ServiceError{Kind: ErrUnknown, Err: err}
}

func (e *ServiceError) Error() string {
	if e.Kind == ErrNotFound {
		return fmt.Sprintf("company service: company %s %v", e.ID, e.Kind)
	}
	return fmt.Sprintf("company service: %v: %v", e.Kind, e.Err)
}

func (e *ServiceError) Is(target error) bool {
	return target == e.Kind
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
