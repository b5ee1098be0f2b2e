package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"employee-portal/internal/domain"
	"employee-portal/internal/feature/employee"
)

type EmployeeRepo struct{ db *gorm.DB }

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	m := employee.FromDomain(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate("create employee", err)
	}
	*e = m.ToDomain()
	return nil
}

// Update holds a row lock from the read to the write, so concurrent updates
// without a version queue up and the last one wins. SQLite has no row locks;
// its write transactions are serialised by the connection (see database.NewGorm).
func (r *EmployeeRepo) Update(ctx context.Context, email string, p domain.EmployeePatch) (*domain.Employee, error) {
	var out domain.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m employee.EmployeeModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", email).First(&m).Error; err != nil {
			return err
		}
		if p.Version != nil && *p.Version != m.Version {
			return domain.ErrVersionConflict
		}

		q := tx.Model(&employee.EmployeeModel{}).Where("id = ?", m.ID)
		if p.Version != nil {
			q = q.Where("version = ?", *p.Version)
		}
		res := q.Updates(patchColumns(p))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if p.Version != nil {
				return domain.ErrVersionConflict
			}
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("id = ?", m.ID).First(&m).Error; err != nil {
			return err
		}
		out = m.ToDomain()
		return nil
	})
	if err != nil {
		return nil, translate("update employee", err)
	}
	return &out, nil
}

func (r *EmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	var rows []employee.EmployeeModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate("list employees", err)
	}
	out := make([]domain.Employee, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, email string) (*domain.Employee, error) {
	var out domain.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m employee.EmployeeModel
		if err := tx.Where("email = ?", email).First(&m).Error; err != nil {
			return err
		}
		res := tx.Delete(&employee.EmployeeModel{}, "id = ?", m.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		out = m.ToDomain()
		return nil
	})
	if err != nil {
		return nil, translate("delete employee", err)
	}
	return &out, nil
}

// patchColumns turns the present fields of p into an Updates map. version is
// always bumped so every successful write is observable.
func patchColumns(p domain.EmployeePatch) map[string]any {
	cols := map[string]any{"version": gorm.Expr("version + 1")}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.MobileNo != nil {
		cols["mobile_no"] = *p.MobileNo
	}
	if p.Designation != nil {
		cols["designation"] = *p.Designation
	}
	if p.Gender != nil {
		cols["gender"] = *p.Gender
	}
	if p.Course != nil {
		cols["course"] = p.Course.Join()
	}
	if p.ImgBytes != nil {
		cols["img_bytes"] = *p.ImgBytes
	}
	return cols
}
