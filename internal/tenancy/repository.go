package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Repository defines persistence operations for tenants.
type Repository interface {
	Create(ctx context.Context, tenant Tenant) (Tenant, error)
	FindByID(ctx context.Context, id string) (*Tenant, error)
	FindByOwnerEmail(ctx context.Context, email string) (*Tenant, error)
	Update(ctx context.Context, id string, updates UpdateTenantInput) (Tenant, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, filters SearchFilters) (SearchResult, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const tenantColumns = `id, name, business_name, owner_name, owner_email, phone, address, tax_id, subscription_plan, status, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, tenant Tenant) (Tenant, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tenants (id, name, business_name, owner_name, owner_email, phone, address, tax_id, subscription_plan, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING `+tenantColumns,
		tenant.ID, tenant.Name, tenant.BusinessName, tenant.OwnerName, tenant.OwnerEmail,
		tenant.Phone, tenant.Address, tenant.TaxID, tenant.SubscriptionPlan, tenant.Status)
	created, err := scanTenant(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Tenant{}, fmt.Errorf("%w: tenant %s", shared.ErrDuplicate, tenant.ID)
		}
		return Tenant{}, err
	}
	return created, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	tenant, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *PGRepository) FindByOwnerEmail(ctx context.Context, email string) (*Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE owner_email = $1`, email)
	tenant, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *PGRepository) Update(ctx context.Context, id string, updates UpdateTenantInput) (Tenant, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tenants SET
			name = COALESCE($2, name),
			business_name = COALESCE($3, business_name),
			owner_name = COALESCE($4, owner_name),
			owner_email = COALESCE($5, owner_email),
			phone = COALESCE($6, phone),
			address = COALESCE($7, address),
			tax_id = COALESCE($8, tax_id),
			subscription_plan = COALESCE($9, subscription_plan),
			status = COALESCE($10, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+tenantColumns,
		id, updates.Name, updates.BusinessName, updates.OwnerName, updates.OwnerEmail,
		updates.Phone, updates.Address, updates.TaxID, updates.SubscriptionPlan, updates.Status)
	tenant, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, id)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Tenant{}, fmt.Errorf("%w: owner email", shared.ErrDuplicate)
		}
		return Tenant{}, err
	}
	return tenant, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepository) Search(ctx context.Context, filters SearchFilters) (SearchResult, error) {
	where := []string{"TRUE"}
	var args []any
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
	if filters.OwnerEmail != "" {
		where = append(where, "owner_email ILIKE "+arg("%"+filters.OwnerEmail+"%"))
	}
	if filters.Status != "" {
		where = append(where, "status = "+arg(filters.Status))
	}
	if filters.Plan != "" {
		where = append(where, "subscription_plan = "+arg(filters.Plan))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE `+clause, args...).Scan(&total); err != nil {
		return SearchResult{}, err
	}

	page := shared.NewPagination(filters.Page, filters.Limit, total)
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		tenantColumns, clause, arg(page.Limit), arg(page.Offset()))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return SearchResult{}, err
	}
	defer rows.Close()
	matched := make([]Tenant, 0, page.Limit)
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return SearchResult{}, err
		}
		matched = append(matched, tenant)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Tenants:    matched,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}

func scanTenant(row pgx.Row) (Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.BusinessName, &t.OwnerName, &t.OwnerEmail,
		&t.Phone, &t.Address, &t.TaxID, &t.SubscriptionPlan, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

var _ Repository = (*PGRepository)(nil)
