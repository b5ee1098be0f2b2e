package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"employee-portal/internal/domain"
)

type PgAdminRepo struct {
	db Database
}

func NewPgAdminRepo(db Database) *PgAdminRepo { return &PgAdminRepo{db: db} }

func (r *PgAdminRepo) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	a, err := scanAdmin(r.db.QueryRow(ctx, SelectAdminSQL, username))
	if err != nil {
		return nil, translate("find admin", err)
	}
	return &a, nil
}

func (r *PgAdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	if err := r.db.QueryRow(ctx, InsertAdminSQL, a.Username, a.PasswordHash).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return translate("create admin", err)
	}
	return nil
}

func (r *PgAdminRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	tag, err := r.db.Exec(ctx, UpdateAdminPasswordSQL, username, passwordHash)
	if err != nil {
		return translate("update admin password", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("update admin password", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgAdminRepo) Delete(ctx context.Context, username string) error {
	tag, err := r.db.Exec(ctx, DeleteAdminSQL, username)
	if err != nil {
		return translate("delete admin", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete admin", pgx.ErrNoRows)
	}
	return nil
}

func (r *PgAdminRepo) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.db.Query(ctx, ListAdminsSQL)
	if err != nil {
		return nil, translate("list admins", err)
	}
	defer rows.Close()

	out := []domain.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, translate("list admins", err)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, translate("list admins", err)
	}
	return out, nil
}

func scanAdmin(row pgx.Row) (domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(&a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
