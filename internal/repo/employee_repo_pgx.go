package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"employee-portal/internal/domain"
)

// PgEmployeeRepo stores employees through pgx without an ORM.
type PgEmployeeRepo struct {
	db Database
}

func NewPgEmployeeRepo(db Database) *PgEmployeeRepo { return &PgEmployeeRepo{db: db} }

func (r *PgEmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	err := r.db.QueryRow(ctx, InsertEmployeeSQL,
		e.ID, e.Name, e.Email, e.MobileNo, e.Designation, e.Gender, e.Course.Join(), e.ImgBytes, e.Version,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return translate("create employee", err)
	}
	return nil
}

// Update locks the row, checks the optional version and applies the present
// fields in one statement.
func (r *PgEmployeeRepo) Update(ctx context.Context, email string, p domain.EmployeePatch) (*domain.Employee, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, translate("update employee", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	cur, err := scanEmployee(tx.QueryRow(ctx, SelectEmployeeForUpdateSQL, email))
	if err != nil {
		return nil, translate("update employee", err)
	}
	if p.Version != nil && *p.Version != cur.Version {
		return nil, domain.ErrVersionConflict
	}

	query, args := buildUpdate(cur.ID, p)
	out, err := scanEmployee(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate("update employee", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, translate("update employee", fmt.Errorf("failed to commit: %w", err))
	}
	return &out, nil
}

func (r *PgEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.Query(ctx, ListEmployeesSQL)
	if err != nil {
		return nil, translate("list employees", err)
	}
	defer rows.Close()

	out := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, translate("list employees", err)
		}
		out = append(out, e)
	}
	if err = rows.Err(); err != nil {
		return nil, translate("list employees", err)
	}
	return out, nil
}

func (r *PgEmployeeRepo) Delete(ctx context.Context, email string) (*domain.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, DeleteEmployeeSQL, email))
	if err != nil {
		return nil, translate("delete employee", err)
	}
	return &e, nil
}

func scanEmployee(row pgx.Row) (domain.Employee, error) {
	var (
		e      domain.Employee
		course string
	)
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.MobileNo, &e.Designation, &e.Gender,
		&course, &e.ImgBytes, &e.Version, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Employee{}, err
	}
	e.Course = domain.ParseCourses(course)
	return e, nil
}

// buildUpdate renders the UPDATE for the present fields of p, in a fixed
// column order so the statement text is stable.
func buildUpdate(id string, p domain.EmployeePatch) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.MobileNo != nil {
		add("mobile_no", *p.MobileNo)
	}
	if p.Designation != nil {
		add("designation", *p.Designation)
	}
	if p.Gender != nil {
		add("gender", *p.Gender)
	}
	if p.Course != nil {
		add("course", p.Course.Join())
	}
	if p.ImgBytes != nil {
		add("img_bytes", *p.ImgBytes)
	}
	sets = append(sets, "version = version + 1", "updated_at = now()")
	args = append(args, id)

	q := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), employeeColumns)
	return q, args
}
