package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"employee-portal/internal/core/metrics"
	"employee-portal/internal/domain"
	"employee-portal/pkg/utils"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 64
)

type AdminOptions struct {
	Timeout time.Duration
	Metrics *metrics.Metrics
}

type AdminService struct {
	repo domain.AdminRepository
	opts AdminOptions

	dummyOnce sync.Once
	dummyHash string
}

func NewAdminService(repo domain.AdminRepository, opts AdminOptions) *AdminService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &AdminService{repo: repo, opts: opts}
}

// Verify reports whether username exists and password matches its hash.
// Unknown users and wrong passwords give the same answer, and both pay for a
// bcrypt comparison.
func (s *AdminService) Verify(ctx context.Context, username, password string) (bool, error) {
	var missing []domain.FieldError
	if strings.TrimSpace(username) == "" {
		missing = append(missing, domain.FieldError{Field: "username", Rule: "required"})
	}
	if password == "" {
		missing = append(missing, domain.FieldError{Field: "password", Rule: "required"})
	}
	if len(missing) > 0 {
		return false, domain.NewValidationError(missing...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	start := time.Now()
	a, err := s.repo.FindByUsername(ctx, username)
	err = storeErr("find admin", err)
	s.opts.Metrics.ObserveStore("find_admin", start, err)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.CheckPassword(password, s.dummy())
		s.opts.Metrics.ObserveVerify(false)
		return false, nil
	case err != nil:
		return false, err
	}

	ok := utils.CheckPassword(password, a.PasswordHash)
	s.opts.Metrics.ObserveVerify(ok)
	return ok, nil
}

// Provision creates an admin with a freshly hashed password.
func (s *AdminService) Provision(ctx context.Context, username, password string) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	if err := checkCredentials(username, password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	a := &domain.Admin{Username: username, PasswordHash: hash}
	if err = storeErr("create admin", s.repo.Create(ctx, a)); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AdminService) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := checkCredentials(username, password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	return storeErr("update admin password", s.repo.UpdatePassword(ctx, username, hash))
}

func (s *AdminService) Remove(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	return storeErr("delete admin", s.repo.Delete(ctx, strings.TrimSpace(username)))
}

func (s *AdminService) List(ctx context.Context) ([]domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list admins", err)
	}
	return list, nil
}

func (s *AdminService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("not-a-real-password")
	})
	return s.dummyHash
}

func checkCredentials(username, password string) error {
	var fields []domain.FieldError
	switch {
	case username == "":
		fields = append(fields, domain.FieldError{Field: "username", Rule: "required"})
	case len(username) > maxUsernameLen:
		fields = append(fields, domain.FieldError{Field: "username", Rule: "max"})
	}
	if len(password) < minPasswordLen {
		fields = append(fields, domain.FieldError{Field: "password", Rule: "min"})
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", domain.NewValidationError(domain.FieldError{Field: "password", Rule: "max"})
	}
	return hash, err
}
