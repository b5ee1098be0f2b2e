package repo

// schemaSQL mirrors the gorm models so both backends can share a database.
var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS employees (
    id          varchar(36)  PRIMARY KEY,
    name        varchar(128) NOT NULL,
    email       varchar(254) NOT NULL,
    mobile_no   varchar(32)  NOT NULL,
    designation varchar(64)  NOT NULL,
    gender      varchar(16)  NOT NULL,
    course      text         NOT NULL,
    img_bytes   text         NOT NULL,
    version     bigint       NOT NULL DEFAULT 1,
    created_at  timestamptz  NOT NULL DEFAULT now(),
    updated_at  timestamptz  NOT NULL DEFAULT now()
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_email ON employees (email)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_created_at ON employees (created_at)`,
	`CREATE TABLE IF NOT EXISTS admins (
    username      varchar(64)  PRIMARY KEY,
    password_hash varchar(100) NOT NULL,
    created_at    timestamptz  NOT NULL DEFAULT now(),
    updated_at    timestamptz  NOT NULL DEFAULT now()
)`,
}

const employeeColumns = `id, name, email, mobile_no, designation, gender, course, img_bytes, version, created_at, updated_at`

const InsertEmployeeSQL = `
INSERT INTO employees (id, name, email, mobile_no, designation, gender, course, img_bytes, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
RETURNING created_at, updated_at`

const SelectEmployeeForUpdateSQL = `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1 FOR UPDATE`

const ListEmployeesSQL = `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at ASC, id ASC`

const DeleteEmployeeSQL = `DELETE FROM employees WHERE email = $1 RETURNING ` + employeeColumns

const SelectAdminSQL = `SELECT username, password_hash, created_at, updated_at FROM admins WHERE username = $1`

const InsertAdminSQL = `
INSERT INTO admins (username, password_hash, created_at, updated_at)
VALUES ($1, $2, now(), now())
RETURNING created_at, updated_at`

const UpdateAdminPasswordSQL = `UPDATE admins SET password_hash = $2, updated_at = now() WHERE username = $1`

const DeleteAdminSQL = `DELETE FROM admins WHERE username = $1`

const ListAdminsSQL = `SELECT username, password_hash, created_at, updated_at FROM admins ORDER BY username ASC`
