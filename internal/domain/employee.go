package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"
)

type Employee struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	MobileNo    string     `json:"mobileNo"`
	Designation string     `json:"designation"`
	Gender      string     `json:"gender"`
	Course      CourseList `json:"course"`
	ImgBytes    string     `json:"imgBytes,omitempty"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewEmployee is the create payload. Tags are checked by the service before
// anything reaches the store.
type NewEmployee struct {
	Name        string     `json:"name"        validate:"required,max=128"`
	Email       string     `json:"email"       validate:"required,email,max=254"`
	MobileNo    string     `json:"mobileNo"    validate:"required,mobile"`
	Designation string     `json:"designation" validate:"required,max=64"`
	Gender      string     `json:"gender"      validate:"required,max=16"`
	Course      CourseList `json:"course"      validate:"omitempty,dive,required,max=32,excludesall=0x2C"`
	ImgBytes    string     `json:"imgBytes"    validate:"omitempty,base64"`
}

// EmployeePatch is a merge-patch: nil fields are left untouched.
type EmployeePatch struct {
	Name        *string     `json:"name"`
	Email       *string     `json:"email"`
	MobileNo    *string     `json:"mobileNo"`
	Designation *string     `json:"designation"`
	Gender      *string     `json:"gender"`
	Course      *CourseList `json:"course"`
	ImgBytes    *string     `json:"imgBytes"`
	// Version, when set, must equal the stored version for the patch to apply.
	Version *int64 `json:"version"`
}

func (p EmployeePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.MobileNo == nil && p.Designation == nil &&
		p.Gender == nil && p.Course == nil && p.ImgBytes == nil
}

// CourseList travels and is stored as a comma-joined string ("MCA,BSC").
// Requests may also send a JSON array.
type CourseList []string

func ParseCourses(s string) CourseList {
	out := CourseList{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c CourseList) Join() string { return strings.Join(c, ",") }

func (c CourseList) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Join())
}

func (c *CourseList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = CourseList{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ParseCourses(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	out := make(CourseList, 0, len(list))
	for _, item := range list {
		out = append(out, strings.TrimSpace(item))
	}
	*c = out
	return nil
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, email string, p EmployeePatch) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Delete(ctx context.Context, email string) (*Employee, error)
}
