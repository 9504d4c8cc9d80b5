package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"employee_manager/internal/model"
	"employee_manager/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const profileImageField = "profileImage"

// ImageStore persists uploaded profile images
type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

// EmployeeHandler handles employee related requests
type EmployeeHandler struct {
	service service.EmployeeService
	images  ImageStore
	log     *zap.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(s service.EmployeeService, images ImageStore, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: s, images: images, log: log}
}

type employeeRequest struct {
	FullName *string `json:"fullName"`
	Gender   *string `json:"gender"`
	DOB      *string `json:"dob"`
	State    *string `json:"state"`
	IsActive *bool   `json:"isActive"`
}

func isForm(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEMultipartPOSTForm || ct == gin.MIMEPOSTForm
}

func parseDOB(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, &service.ValidationError{Fields: map[string]string{"dob": "must be a date in YYYY-MM-DD format"}}
	}
	return &t, nil
}

// bindEmployeeInput reads employee fields from a multipart/urlencoded form or a JSON body.
// Fields that are absent stay nil so updates only touch what was sent.
func bindEmployeeInput(c *gin.Context) (model.EmployeeInput, error) {
	var in model.EmployeeInput
	var dob *string

	if isForm(c) {
		if v, ok := c.GetPostForm("fullName"); ok {
			in.FullName = &v
		}
		if v, ok := c.GetPostForm("gender"); ok {
			in.Gender = &v
		}
		if v, ok := c.GetPostForm("dob"); ok {
			dob = &v
		}
		if v, ok := c.GetPostForm("state"); ok {
			in.State = &v
		}
		if v, ok := c.GetPostForm("isActive"); ok {
			active, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return in, &service.ValidationError{Fields: map[string]string{"isActive": "must be true or false"}}
			}
			in.IsActive = &active
		}
	} else {
		var req employeeRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			return in, &service.ValidationError{Fields: map[string]string{"body": "must be valid JSON"}}
		}
		in.FullName, in.Gender, in.State, in.IsActive = req.FullName, req.Gender, req.State, req.IsActive
		dob = req.DOB
	}

	if dob != nil {
		parsed, err := parseDOB(*dob)
		if err != nil {
			return in, err
		}
		in.DOB = parsed
	}
	return in, nil
}

// saveImage stores the optional profile image; nil means none was sent
func (h *EmployeeHandler) saveImage(c *gin.Context) (*string, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fh, err := c.FormFile(profileImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, &service.ValidationError{Fields: map[string]string{profileImageField: "could not be read"}}
	}
	name, err := h.images.Save(fh)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func (h *EmployeeHandler) discardImage(name *string) {
	if name == nil {
		return
	}
	if err := h.images.Remove(*name); err != nil {
		h.log.Warn("failed to remove orphaned upload", zap.String("file", *name), zap.Error(err))
	}
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	in, err := bindEmployeeInput(c)
	if err != nil {
		handleError(c, h.log, err, "Failed to create employee")
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		handleError(c, h.log, err, "Failed to create employee")
		return
	}

	employee, err := h.service.Create(c.Request.Context(), in, image)
	if err != nil {
		h.discardImage(image)
		handleError(c, h.log, err, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Employee created successfully",
		"data":    employee,
	})
}

func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	active, err := service.ParseStatus(c.Query("status"))
	if err != nil {
		handleError(c, h.log, err, "Failed to fetch employees")
		return
	}

	// Non-numeric values fall back to the defaults
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	filters := model.EmployeeFilters{
		Search:   c.Query("search"),
		Gender:   c.Query("gender"),
		IsActive: active,
		Page:     page,
		Limit:    limit,
	}

	result, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handleError(c, h.log, err, "Failed to fetch employees")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Employees fetched successfully",
		"data":       result.Employees,
		"pagination": result.Pagination,
	})
}

func (h *EmployeeHandler) GetEmployeeByID(c *gin.Context) {
	employee, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, "Failed to fetch employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": employee})
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	in, err := bindEmployeeInput(c)
	if err != nil {
		handleError(c, h.log, err, "Failed to update employee")
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		handleError(c, h.log, err, "Failed to update employee")
		return
	}

	employee, err := h.service.Update(c.Request.Context(), c.Param("id"), in, image)
	if err != nil {
		h.discardImage(image)
		handleError(c, h.log, err, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee updated successfully",
		"data":    employee,
	})
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.log, err, "Failed to delete employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Employee deleted successfully"})
}

func (h *EmployeeHandler) GetDashboard(c *gin.Context) {
	summary, err := h.service.DashboardSummary(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err, "Failed to load data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dashboardData": summary})
}

// RegisterEmployeeRoutes registers the admin-only employee routes
func (h *EmployeeHandler) RegisterEmployeeRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	employees := rg.Group("/employees", authMW, adminMW)
	{
		employees.POST("", h.CreateEmployee)
		employees.GET("", h.GetEmployees)
		employees.GET("/dashboard", h.GetDashboard)
		employees.GET("/:id", h.GetEmployeeByID)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}
}
