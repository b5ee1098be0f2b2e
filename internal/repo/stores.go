package repo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"employee-portal/internal/core/config"
	"employee-portal/internal/core/database"
	"employee-portal/internal/domain"
	"employee-portal/internal/feature/admin"
	"employee-portal/internal/feature/employee"
)

// Stores bundles the repositories of one backend.
type Stores struct {
	Employees domain.EmployeeRepository
	Admins    domain.AdminRepository
	Pinger    domain.Pinger
	close     func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewGormStores wraps an open gorm handle. Closing the stores closes db.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Employees: NewEmployeeRepo(db),
		Admins:    NewAdminRepo(db),
		Pinger:    database.GormPinger{DB: db},
		close:     func() error { return database.CloseGorm(db) },
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&employee.EmployeeModel{}, &admin.AdminModel{})
}

// Open connects the backend selected by db.driver: "pgx" uses a native pgx
// pool, everything else goes through gorm.
func Open(ctx context.Context, c config.DB, l *zap.Logger) (*Stores, error) {
	if c.Driver == "pgx" {
		maxConns, minConns := int32(c.MaxOpenConns), int32(min(c.MaxIdleConns, c.MaxOpenConns)) //nolint:gosec // bounded by config
		pool, err := database.NewPool(ctx, database.PoolOpts{
			URL:             c.DSN,
			MaxConns:        maxConns,
			MinConns:        minConns,
			MaxConnIdleTime: time.Duration(c.ConnMaxLifetimeMin) * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		if c.AutoMigrate {
			if err = EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Stores{
			Employees: NewPgEmployeeRepo(pool),
			Admins:    NewPgAdminRepo(pool),
			Pinger:    pool,
			close:     func() error { pool.Close(); return nil },
		}, nil
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		Username:           c.Username,
		Password:           c.Password,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, err
	}
	if c.AutoMigrate {
		if err = AutoMigrate(db.WithContext(ctx)); err != nil {
			_ = database.CloseGorm(db)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return NewGormStores(db), nil
}
