package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/platform/hash"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Repository defines persistence operations for users. Every query is scoped
// to a tenant; lookups and uniqueness apply to active rows only.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByID(ctx context.Context, id, tenantID string) (*User, error)
	FindByEmail(ctx context.Context, email, tenantID string) (*User, error)
	FindByRole(ctx context.Context, role, tenantID string) ([]User, error)
	Search(ctx context.Context, filters SearchFilters) (SearchResult, error)
	UpdateUser(ctx context.Context, id, tenantID string, updates UpdateUserInput) (User, error)
	DeleteUser(ctx context.Context, id, tenantID string) (bool, error)
	ValidateCredentials(ctx context.Context, email, password, tenantID string) (*User, error)
	UpdateLastLogin(ctx context.Context, id, tenantID string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool   *pgxpool.Pool
	hasher hash.Service
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool, hasher hash.Service) *PGRepository {
	return &PGRepository{pool: pool, hasher: hasher}
}

const userColumns = `id, name, nickname, phone, email, role, created_at, active, tenant_id, last_login_at`

func (r *PGRepository) Create(ctx context.Context, user User) (User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, nickname, phone, email, role, password_hash, tenant_id, created_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), TRUE)
		RETURNING `+userColumns,
		user.ID, user.Name, user.Nickname, user.Phone, user.Email, user.Role, user.PasswordHash, user.TenantID)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, fmt.Errorf("%w: user %s", shared.ErrDuplicate, user.ID)
		}
		return User{}, err
	}
	return created, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id, tenantID string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND tenant_id = $2 AND active = TRUE`,
		id, tenantID)
	return scanOptionalUser(row)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email, tenantID string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND tenant_id = $2 AND active = TRUE`,
		email, tenantID)
	return scanOptionalUser(row)
}

func (r *PGRepository) FindByRole(ctx context.Context, role, tenantID string) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 AND tenant_id = $2 AND active = TRUE ORDER BY created_at DESC`,
		role, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (r *PGRepository) Search(ctx context.Context, filters SearchFilters) (SearchResult, error) {
	where := []string{"tenant_id = $1", "active = TRUE"}
	args := []any{filters.TenantID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filters.ID != "" {
		where = append(where, "id = "+arg(filters.ID))
	}
	if filters.Name != "" {
		where = append(where, "name ILIKE "+arg("%"+filters.Name+"%"))
	}
	if filters.Email != "" {
		where = append(where, "email ILIKE "+arg("%"+filters.Email+"%"))
	}
	if filters.Role != "" {
		where = append(where, "role = "+arg(filters.Role))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+clause, args...).Scan(&total); err != nil {
		return SearchResult{}, err
	}

	page := shared.NewPagination(filters.Page, filters.Limit, total)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		userColumns, clause, arg(page.Limit), arg(page.Offset()))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return SearchResult{}, err
	}
	defer rows.Close()
	matched := make([]User, 0, page.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return SearchResult{}, err
		}
		matched = append(matched, user)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Users:      matched,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}

func (r *PGRepository) UpdateUser(ctx context.Context, id, tenantID string, updates UpdateUserInput) (User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($3, name),
			nickname = COALESCE($4, nickname),
			phone = COALESCE($5, phone),
			email = COALESCE($6, email),
			role = COALESCE($7, role),
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND active = TRUE
		RETURNING `+userColumns,
		id, tenantID, updates.Name, updates.Nickname, updates.Phone, updates.Email, updates.Role)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, fmt.Errorf("%w: email", shared.ErrDuplicate)
		}
		return User{}, err
	}
	return user, nil
}

func (r *PGRepository) DeleteUser(ctx context.Context, id, tenantID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1 AND tenant_id = $2 AND active = TRUE`,
		id, tenantID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ValidateCredentials fetches the account regardless of its active flag so
// the caller can tell an inactive account apart from a credential mismatch.
func (r *PGRepository) ValidateCredentials(ctx context.Context, email, password, tenantID string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1 AND tenant_id = $2`,
		email, tenantID)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Nickname, &u.Phone, &u.Email, &u.Role,
		&u.CreatedAt, &u.Active, &u.TenantID, &u.LastLoginAt, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !r.hasher.Verify(password, u.PasswordHash) {
		return nil, nil
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *PGRepository) UpdateLastLogin(ctx context.Context, id, tenantID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = NOW() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	return err
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Nickname, &u.Phone, &u.Email, &u.Role,
		&u.CreatedAt, &u.Active, &u.TenantID, &u.LastLoginAt)
	return u, err
}

func scanOptionalUser(row pgx.Row) (*User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
