package admin

import (
	"time"

	"employee-portal/internal/domain"
)

type AdminModel struct {
	Username     string `gorm:"primaryKey;size:64"`
	PasswordHash string `gorm:"size:100;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AdminModel) TableName() string { return "admins" }

func (m *AdminModel) ToDomain() domain.Admin {
	return domain.Admin{
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
