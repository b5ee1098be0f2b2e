package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"employee-portal/internal/core/metrics"
	"employee-portal/internal/domain"
	"employee-portal/internal/report"
)

const defaultTimeout = 5 * time.Second

type EmployeeOptions struct {
	// Timeout bounds each store call.
	Timeout      time.Duration
	Designations []string
	Genders      []string
	Metrics      *metrics.Metrics
}

type EmployeeService struct {
	repo     domain.EmployeeRepository
	validate *validator.Validate
	opts     EmployeeOptions
}

func NewEmployeeService(repo domain.EmployeeRepository, opts EmployeeOptions) *EmployeeService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &EmployeeService{repo: repo, validate: newValidator(), opts: opts}
}

func (s *EmployeeService) Create(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error) {
	in = normalizeNew(in)
	if err := s.check(in, nil); err != nil {
		return nil, err
	}

	e := &domain.Employee{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Email:       in.Email,
		MobileNo:    in.MobileNo,
		Designation: in.Designation,
		Gender:      in.Gender,
		Course:      in.Course,
		ImgBytes:    in.ImgBytes,
		Version:     1,
	}
	if e.Course == nil {
		e.Course = domain.CourseList{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	start := time.Now()
	err := storeErr("create employee", s.repo.Create(ctx, e))
	s.opts.Metrics.ObserveStore("create_employee", start, err)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Update applies a merge-patch to the employee stored under email.
func (s *EmployeeService) Update(ctx context.Context, email string, p domain.EmployeePatch) (*domain.Employee, error) {
	if p.Empty() {
		return nil, domain.NewValidationError(domain.FieldError{Field: "body", Rule: "required"})
	}
	p = normalizePatch(p)

	var (
		in     domain.NewEmployee
		fields []string
	)
	if p.Name != nil {
		in.Name, fields = *p.Name, append(fields, "Name")
	}
	if p.Email != nil {
		in.Email, fields = *p.Email, append(fields, "Email")
	}
	if p.MobileNo != nil {
		in.MobileNo, fields = *p.MobileNo, append(fields, "MobileNo")
	}
	if p.Designation != nil {
		in.Designation, fields = *p.Designation, append(fields, "Designation")
	}
	if p.Gender != nil {
		in.Gender, fields = *p.Gender, append(fields, "Gender")
	}
	if p.Course != nil {
		in.Course, fields = *p.Course, append(fields, "Course")
	}
	if p.ImgBytes != nil {
		in.ImgBytes, fields = *p.ImgBytes, append(fields, "ImgBytes")
	}
	if err := s.check(in, fields); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	start := time.Now()
	e, err := s.repo.Update(ctx, email, p)
	err = storeErr("update employee", err)
	s.opts.Metrics.ObserveStore("update_employee", start, err)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns every employee, oldest first. The result is never nil.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	start := time.Now()
	list, err := s.repo.List(ctx)
	err = storeErr("list employees", err)
	s.opts.Metrics.ObserveStore("list_employees", start, err)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Employee{}
	}
	return list, nil
}

func (s *EmployeeService) Delete(ctx context.Context, email string) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	start := time.Now()
	e, err := s.repo.Delete(ctx, email)
	err = storeErr("delete employee", err)
	s.opts.Metrics.ObserveStore("delete_employee", start, err)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Export renders the whole directory as an xlsx workbook. An empty directory
// is reported as ErrNotFound.
func (s *EmployeeService) Export(ctx context.Context) (*bytes.Buffer, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	buf, err := report.GenerateEmployeeWorkbook(list)
	if errors.Is(err, report.ErrNoEmployees) {
		return nil, fmt.Errorf("export employees: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("export employees: %w", err)
	}
	return buf, nil
}

// check validates in, restricted to fields when fields is non-nil, and
// applies the configured allow-lists.
func (s *EmployeeService) check(in domain.NewEmployee, fields []string) error {
	var err error
	if fields == nil {
		err = s.validate.Struct(in)
	} else {
		err = s.validate.StructPartial(in, fields...)
	}

	var out []domain.FieldError
	if err != nil {
		out = fieldErrors(err)
	}
	out = append(out, allowList("designation", in.Designation, s.opts.Designations)...)
	out = append(out, allowList("gender", in.Gender, s.opts.Genders)...)
	if len(out) > 0 {
		return domain.NewValidationError(out...)
	}
	return nil
}

func normalizeNew(in domain.NewEmployee) domain.NewEmployee {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.MobileNo = strings.TrimSpace(in.MobileNo)
	in.Designation = strings.TrimSpace(in.Designation)
	in.Gender = strings.TrimSpace(in.Gender)
	in.ImgBytes = strings.TrimSpace(in.ImgBytes)
	return in
}

func normalizePatch(p domain.EmployeePatch) domain.EmployeePatch {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	p.Name = trim(p.Name)
	p.Email = trim(p.Email)
	p.MobileNo = trim(p.MobileNo)
	p.Designation = trim(p.Designation)
	p.Gender = trim(p.Gender)
	p.ImgBytes = trim(p.ImgBytes)
	return p
}
