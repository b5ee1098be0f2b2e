package repo

import (
	"context"

	"gorm.io/gorm"

	"employee-portal/internal/domain"
	"employee-portal/internal/feature/admin"
)

type AdminRepo struct{ db *gorm.DB }

func NewAdminRepo(db *gorm.DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var m admin.AdminModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, translate("find admin", err)
	}
	a := m.ToDomain()
	return &a, nil
}

func (r *AdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	m := admin.AdminModel{Username: a.Username, PasswordHash: a.PasswordHash}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("create admin", err)
	}
	*a = m.ToDomain()
	return nil
}

func (r *AdminRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&admin.AdminModel{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return translate("update admin password", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("update admin password", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *AdminRepo) Delete(ctx context.Context, username string) error {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&admin.AdminModel{})
	if res.Error != nil {
		return translate("delete admin", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete admin", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *AdminRepo) List(ctx context.Context) ([]domain.Admin, error) {
	var rows []admin.AdminModel
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, translate("list admins", err)
	}
	out := make([]domain.Admin, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}
