package repo_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employee-portal/internal/core/database"
	"employee-portal/internal/domain"
	"employee-portal/internal/repo"
)

func newSQLiteStores(t *testing.T) *repo.Stores {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
		Log:          zap.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	s := repo.NewGormStores(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleEmployee(email string) *domain.Employee {
	return &domain.Employee{
		ID:          uuid.NewString(),
		Name:        "Ann",
		Email:       email,
		MobileNo:    "9876543210",
		Designation: "HR",
		Gender:      "F",
		Course:      domain.CourseList{"MCA", "BSC"},
		Version:     1,
	}
}

func ptr[T any](v T) *T { return &v }

func TestEmployeeRepo_CreateAndList(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)
	ctx := t.Context()

	emails := []string{"a@x.io", "b@x.io", "c@x.io"}
	for _, em := range emails {
		e := sampleEmployee(em)
		require.NoError(t, s.Employees.Create(ctx, e))
		assert.False(t, e.CreatedAt.IsZero())
	}

	list, err := s.Employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, em := range emails {
		assert.Equal(t, em, list[i].Email, "oldest first")
		assert.Equal(t, domain.CourseList{"MCA", "BSC"}, list[i].Course)
		assert.Equal(t, int64(1), list[i].Version)
	}
}

func TestEmployeeRepo_ListEmpty(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)

	list, err := s.Employees.List(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestEmployeeRepo_CreateDuplicate(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)
	ctx := t.Context()

	require.NoError(t, s.Employees.Create(ctx, sampleEmployee("a@x.io")))

	dup := sampleEmployee("a@x.io")
	dup.Name = "Bob"
	err := s.Employees.Create(ctx, dup)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	list, err := s.Employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ann", list[0].Name)
}

func TestEmployeeRepo_ConcurrentCreate(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)
	ctx := t.Context()

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		dups int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Employees.Create(ctx, sampleEmployee("race@x.io"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDuplicateKey):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dups)
}

// updateConcurrently fires n version-less updates at one record and fails the
// test on any error: without a version the last write wins.
func updateConcurrently(t *testing.T, r domain.EmployeeRepository, email string, n int) {
	t.Helper()
	ctx := t.Context()
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("writer-%d", i)
			if _, err := r.Update(ctx, email, domain.EmployeePatch{Name: &name}); err != nil {
				t.Errorf("update %s: %v", name, err)
			}
		}()
	}
	wg.Wait()
}

func TestEmployeeRepo_ConcurrentUpdateFileDB(t *testing.T) {
	t.Parallel()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "portal.db"),
		MaxOpenConns: 8,
		LogLevel:     "silent",
		Log:          zap.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	s := repo.NewGormStores(db)
	t.Cleanup(func() { _ = s.Close() })
	ctx := t.Context()

	require.NoError(t, s.Employees.Create(ctx, sampleEmployee("busy@x.io")))
	const n = 8
	updateConcurrently(t, s.Employees, "busy@x.io", n)

	list, err := s.Employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1+n), list[0].Version, "every update applied")

	// a delete racing an update resolves to one of NotFound or success, never a lock error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := s.Employees.Delete(ctx, "busy@x.io"); err != nil {
			t.Errorf("delete: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		_, err := s.Employees.Update(ctx, "busy@x.io", domain.EmployeePatch{Name: ptr("late")})
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("update: %v", err)
		}
	}()
	wg.Wait()
}

func TestEmployeeRepo_Update(t *testing.T) {
	t.Parallel()

	t.Run("partial patch keeps other fields", func(t *testing.T) {
		t.Parallel()
		s := newSQLiteStores(t)
		ctx := t.Context()
		orig := sampleEmployee("a@x.io")
		require.NoError(t, s.Employees.Create(ctx, orig))

		got, err := s.Employees.Update(ctx, "a@x.io", domain.EmployeePatch{Designation: ptr("Manager")})
		require.NoError(t, err)
		assert.Equal(t, "Manager", got.Designation)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.MobileNo, got.MobileNo)
		assert.Equal(t, orig.Course, got.Course)
		assert.Equal(t, orig.ID, got.ID)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s := newSQLiteStores(t)

		_, err := s.Employees.Update(t.Context(), "ghost@x.io", domain.EmployeePatch{Name: ptr("X")})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("stale version", func(t *testing.T) {
		t.Parallel()
		s := newSQLiteStores(t)
		ctx := t.Context()
		require.NoError(t, s.Employees.Create(ctx, sampleEmployee("a@x.io")))

		_, err := s.Employees.Update(ctx, "a@x.io", domain.EmployeePatch{Name: ptr("B"), Version: ptr(int64(1))})
		require.NoError(t, err)
		_, err = s.Employees.Update(ctx, "a@x.io", domain.EmployeePatch{Name: ptr("C"), Version: ptr(int64(1))})
		require.ErrorIs(t, err, domain.ErrVersionConflict)

		list, err := s.Employees.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "B", list[0].Name)
		assert.Equal(t, int64(2), list[0].Version)
	})

	t.Run("email change", func(t *testing.T) {
		t.Parallel()
		s := newSQLiteStores(t)
		ctx := t.Context()
		require.NoError(t, s.Employees.Create(ctx, sampleEmployee("a@x.io")))
		require.NoError(t, s.Employees.Create(ctx, sampleEmployee("b@x.io")))

		_, err := s.Employees.Update(ctx, "a@x.io", domain.EmployeePatch{Email: ptr("b@x.io")})
		require.ErrorIs(t, err, domain.ErrDuplicateKey)

		got, err := s.Employees.Update(ctx, "a@x.io", domain.EmployeePatch{Email: ptr("z@x.io")})
		require.NoError(t, err)
		assert.Equal(t, "z@x.io", got.Email)

		_, err = s.Employees.Delete(ctx, "a@x.io")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("course cleared", func(t *testing.T) {
		t.Parallel()
		s := newSQLiteStores(t)
		ctx := t.Context()
		require.NoError(t, s.Employees.Create(ctx, sampleEmployee("a@x.io")))

		got, err := s.Employees.Update(ctx, "a@x.io", domain.EmployeePatch{Course: &domain.CourseList{}})
		require.NoError(t, err)
		assert.Empty(t, got.Course)
	})
}

func TestEmployeeRepo_Delete(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)
	ctx := t.Context()
	require.NoError(t, s.Employees.Create(ctx, sampleEmployee("a@x.io")))

	got, err := s.Employees.Delete(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got.Email)
	assert.Equal(t, "Ann", got.Name)

	_, err = s.Employees.Delete(ctx, "a@x.io")
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.Employees.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmployeeRepo_EmailIsCaseSensitive(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)
	ctx := t.Context()
	require.NoError(t, s.Employees.Create(ctx, sampleEmployee("Ann@x.io")))

	_, err := s.Employees.Delete(ctx, "ann@x.io")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeRepo_CancelledContext(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := s.Employees.List(ctx)
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestAdminRepo_Gorm(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)
	ctx := t.Context()

	a := &domain.Admin{Username: "root", PasswordHash: "$2a$10$hash"}
	require.NoError(t, s.Admins.Create(ctx, a))
	assert.False(t, a.CreatedAt.IsZero())

	err := s.Admins.Create(ctx, &domain.Admin{Username: "root", PasswordHash: "x"})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	got, err := s.Admins.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	_, err = s.Admins.FindByUsername(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Admins.UpdatePassword(ctx, "root", "$2a$10$other"))
	got, err = s.Admins.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$other", got.PasswordHash)
	require.ErrorIs(t, s.Admins.UpdatePassword(ctx, "nobody", "x"), domain.ErrNotFound)

	require.NoError(t, s.Admins.Create(ctx, &domain.Admin{Username: "alice", PasswordHash: "y"}))
	list, err := s.Admins.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)

	require.NoError(t, s.Admins.Delete(ctx, "alice"))
	require.ErrorIs(t, s.Admins.Delete(ctx, "alice"), domain.ErrNotFound)
}

func TestGormStores_Ping(t *testing.T) {
	t.Parallel()
	s := newSQLiteStores(t)
	require.NoError(t, s.Pinger.Ping(t.Context()))
}
