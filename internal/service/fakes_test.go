package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"employee-portal/internal/domain"
)

// memEmployees is an in-memory EmployeeRepository. err, when set, is
// returned by every call; block makes calls wait for ctx.
type memEmployees struct {
	mu    sync.Mutex
	byKey map[string]domain.Employee
	err   error
	block bool
	calls int
}

func newMemEmployees() *memEmployees {
	return &memEmployees{byKey: map[string]domain.Employee{}}
}

func (m *memEmployees) enter(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	block, err := m.block, m.err
	m.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (m *memEmployees) Create(ctx context.Context, e *domain.Employee) error {
	if err := m.enter(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[e.Email]; ok {
		return domain.ErrDuplicateKey
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.byKey[e.Email] = *e
	return nil
}

func (m *memEmployees) Update(ctx context.Context, email string, p domain.EmployeePatch) (*domain.Employee, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byKey[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Version != nil && *p.Version != e.Version {
		return nil, domain.ErrVersionConflict
	}
	if p.Email != nil && *p.Email != email {
		if _, taken := m.byKey[*p.Email]; taken {
			return nil, domain.ErrDuplicateKey
		}
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.MobileNo != nil {
		e.MobileNo = *p.MobileNo
	}
	if p.Designation != nil {
		e.Designation = *p.Designation
	}
	if p.Gender != nil {
		e.Gender = *p.Gender
	}
	if p.Course != nil {
		e.Course = *p.Course
	}
	if p.ImgBytes != nil {
		e.ImgBytes = *p.ImgBytes
	}
	e.Version++
	delete(m.byKey, email)
	m.byKey[e.Email] = e
	return &e, nil
}

func (m *memEmployees) List(ctx context.Context) ([]domain.Employee, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Employee
	for _, e := range m.byKey {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memEmployees) Delete(ctx context.Context, email string) (*domain.Employee, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byKey[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(m.byKey, email)
	return &e, nil
}

type memAdmins struct {
	mu     sync.Mutex
	byName map[string]domain.Admin
	err    error
}

func newMemAdmins() *memAdmins { return &memAdmins{byName: map[string]domain.Admin{}} }

func (m *memAdmins) FindByUsername(_ context.Context, username string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *memAdmins) Create(_ context.Context, a *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byName[a.Username]; ok {
		return domain.ErrDuplicateKey
	}
	m.byName[a.Username] = *a
	return nil
}

func (m *memAdmins) UpdatePassword(_ context.Context, username, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byName[username]
	if !ok {
		return domain.ErrNotFound
	}
	a.PasswordHash = hash
	m.byName[username] = a
	return nil
}

func (m *memAdmins) Delete(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byName, username)
	return nil
}

func (m *memAdmins) List(_ context.Context) ([]domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Admin, 0, len(m.byName))
	for _, a := range m.byName {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
