package model

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Genders lists the accepted gender values
var Genders = []string{GenderMale, GenderFemale, GenderOther}

// Employee is the managed business record, distinct from User accounts
type Employee struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	FullName     string     `json:"fullName" validate:"required,max=200"`
	Gender       string     `json:"gender" validate:"omitempty,gender"`
	DOB          *time.Time `json:"dob"`
	State        string     `json:"state" validate:"max=100"`
	ProfileImage *string    `json:"profileImage"` // Filename under the uploads dir, null when none
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// EmployeeInput carries create/update fields. Nil pointers mean "not supplied".
type EmployeeInput struct {
	FullName *string    `json:"fullName,omitempty"`
	Gender   *string    `json:"gender,omitempty"`
	DOB      *time.Time `json:"dob,omitempty"`
	State    *string    `json:"state,omitempty"`
	IsActive *bool      `json:"isActive,omitempty"`
}

// EmployeeFilters contains list filters and pagination
type EmployeeFilters struct {
	Search   string
	Gender   string
	IsActive *bool
	Page     int
	Limit    int
}

func (f EmployeeFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	TotalRecords int64 `json:"totalRecords"`
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	Limit        int   `json:"limit"`
}

// NewPagination computes page metadata; TotalPages is ceil(total/limit).
func NewPagination(total int64, page, limit int) Pagination {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		TotalRecords: total,
		CurrentPage:  page,
		TotalPages:   pages,
		Limit:        limit,
	}
}

type EmployeeList struct {
	Employees  []Employee
	Pagination Pagination
}

// DashboardSummary holds active/inactive employee counts
type DashboardSummary struct {
	TotalEmployees         int64 `json:"totalEmployees"`
	TotalActiveEmployees   int64 `json:"totalActiveEmployees"`
	TotalInActiveEmployees int64 `json:"totalInActiveEmployees"`
}
