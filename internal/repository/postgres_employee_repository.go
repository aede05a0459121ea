package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresEmployeeRepository struct {
	pool *pgxpool.Pool
	db   querier
}

// NewPostgresEmployeeRepository builds the repository.
func NewPostgresEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &postgresEmployeeRepository{pool: pool, db: pool}
}

const employeeColumns = `id, name, designation, date_of_birth, years_of_experience, reporting_manager_id, image_path`

func (r *postgresEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees ORDER BY seq`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func (r *postgresEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	emp, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return emp, err
}

func (r *postgresEmployeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (` + employeeColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	id := uuid.NewString()
	if _, err := r.db.Exec(ctx, query,
		id,
		emp.Name,
		emp.Designation,
		emp.DateOfBirth,
		emp.YearsOfExperience,
		emp.ReportingManagerID,
		emp.ImagePath,
	); err != nil {
		return err
	}
	emp.ID = id
	return nil
}

func (r *postgresEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE employees SET name=$1, designation=$2, date_of_birth=$3, years_of_experience=$4,
            reporting_manager_id=$5, image_path=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.db.Exec(ctx, query,
		emp.Name,
		emp.Designation,
		emp.DateOfBirth,
		emp.YearsOfExperience,
		emp.ReportingManagerID,
		emp.ImagePath,
		emp.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresEmployeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresEmployeeRepository) DetachReports(ctx context.Context, managerID string) ([]string, error) {
	const query = `
        UPDATE employees SET reporting_manager_id=NULL, updated_at=NOW()
        WHERE reporting_manager_id=$1
        RETURNING id`
	rows, err := r.db.Query(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detached []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		detached = append(detached, id)
	}
	return detached, rows.Err()
}

func (r *postgresEmployeeRepository) WithinTx(ctx context.Context, fn func(EmployeeRepository) error) error {
	if _, inTx := r.db.(pgx.Tx); inTx {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&postgresEmployeeRepository{pool: r.pool, db: tx})
	})
}

func (r *postgresEmployeeRepository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return r.pool.Ping(ctx)
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Designation,
		&emp.DateOfBirth,
		&emp.YearsOfExperience,
		&emp.ReportingManagerID,
		&emp.ImagePath,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}
