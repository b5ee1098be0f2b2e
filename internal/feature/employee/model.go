package employee

import (
	"time"

	"employee-portal/internal/domain"
)

type EmployeeModel struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"size:128;not null"`
	Email       string `gorm:"uniqueIndex;size:254;not null"`
	MobileNo    string `gorm:"size:32;not null"`
	Designation string `gorm:"size:64;not null"`
	Gender      string `gorm:"size:16;not null"`
	Course      string `gorm:"type:text;not null"`
	ImgBytes    string `gorm:"not null"` // base64, unbounded
	Version     int64  `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (EmployeeModel) TableName() string { return "employees" }

func FromDomain(e *domain.Employee) *EmployeeModel {
	return &EmployeeModel{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		MobileNo:    e.MobileNo,
		Designation: e.Designation,
		Gender:      e.Gender,
		Course:      e.Course.Join(),
		ImgBytes:    e.ImgBytes,
		Version:     e.Version,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *EmployeeModel) ToDomain() domain.Employee {
	return domain.Employee{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		MobileNo:    m.MobileNo,
		Designation: m.Designation,
		Gender:      m.Gender,
		Course:      domain.ParseCourses(m.Course),
		ImgBytes:    m.ImgBytes,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
