package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"employee-portal/internal/domain"
	"employee-portal/internal/transport/http/ez"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EmployeeService interface {
	Create(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error)
	Update(ctx context.Context, email string, p domain.EmployeePatch) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Delete(ctx context.Context, email string) (*domain.Employee, error)
	Export(ctx context.Context) (*bytes.Buffer, error)
}

type EmployeeHandler struct {
	svc EmployeeService
}

func NewEmployeeHandler(svc EmployeeService) *EmployeeHandler { return &EmployeeHandler{svc: svc} }

type employeeOut struct {
	Message  string           `json:"message"`
	Employee *domain.Employee `json:"employee"`
}

type employeesOut struct {
	Message   string            `json:"message"`
	Employees []domain.Employee `json:"employees"`
}

func (h *EmployeeHandler) Priority() int { return 10 }

func (h *EmployeeHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.Register(e, ez.Action[domain.NewEmployee, employeeOut]{
		Method: http.MethodPost,
		Path:   "/createEmployee",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.NewEmployee) (employeeOut, error) {
			emp, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return employeeOut{}, employeeErr(err, "Failed to create employee")
			}
			return employeeOut{Message: "Employee created successfully", Employee: emp}, nil
		},
	})

	ez.Register(e, ez.Action[domain.EmployeePatch, employeeOut]{
		Method: http.MethodPut,
		Path:   "/updateEmployee/:email",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.EmployeePatch) (employeeOut, error) {
			emp, err := h.svc.Update(c.Request.Context(), c.Param("email"), *in)
			if err != nil {
				return employeeOut{}, employeeErr(err, "Failed to update employee")
			}
			return employeeOut{Message: "Employee updated successfully", Employee: emp}, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, employeesOut]{
		Method: http.MethodGet,
		Path:   "/listEmployees",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (employeesOut, error) {
			list, err := h.svc.List(c.Request.Context())
			if err != nil {
				return employeesOut{}, employeeErr(err, "Failed to retrieve employees")
			}
			return employeesOut{Message: "Employees retrieved successfully", Employees: list}, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, employeeOut]{
		Method: http.MethodDelete,
		Path:   "/deleteEmployee/:email",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (employeeOut, error) {
			emp, err := h.svc.Delete(c.Request.Context(), c.Param("email"))
			if err != nil {
				return employeeOut{}, employeeErr(err, "Failed to delete employee")
			}
			return employeeOut{Message: "Employee deleted successfully", Employee: emp}, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodGet,
		Path:   "/exportEmployees",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			buf, err := h.svc.Export(c.Request.Context())
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return struct{}{}, ez.NotFound("No employees to export")
			case err != nil:
				return struct{}{}, employeeErr(err, "Failed to export employees")
			}
			name := fmt.Sprintf("employees-%s.xlsx", time.Now().Format("20060102"))
			c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
			c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
			return struct{}{}, nil
		},
	})
}
