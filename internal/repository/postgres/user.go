package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertUserQuery = `
INSERT INTO users(id, tenant_id, name, email, role, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectUserQuery = `
SELECT id, tenant_id, name, email, role, is_active, created_at
FROM users WHERE tenant_id=$1 AND id=$2`
	listUsersQuery = `
SELECT id, tenant_id, name, email, role, is_active, created_at
FROM users WHERE tenant_id=$1 ORDER BY created_at, id`
	setUserRoleQuery = `
UPDATE users SET role=$3 WHERE tenant_id=$1 AND id=$2
RETURNING id, tenant_id, name, email, role, is_active, created_at`
	saveUserQuery = `
UPDATE users SET name=$3, email=$4 WHERE tenant_id=$1 AND id=$2
RETURNING id, tenant_id, name, email, role, is_active, created_at`
	staffIDsQuery = `SELECT id FROM users WHERE tenant_id=$1 AND role IN ('admin', 'manager') ORDER BY id`
)

// CreateUser inserts a user. Emails are unique across tenants.
func (p *Postgres) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	_, err := p.db.Exec(ctx, insertUserQuery,
		user.ID, user.TenantID, user.Name, user.Email, user.Role, user.IsActive, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrUserExists
		}
		p.log.Errorw("failed to insert user", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	p.log.Infow("user created", "tenant_id", user.TenantID, "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// GetUser fetches a user of the tenant.
func (p *Postgres) GetUser(ctx context.Context, tenantID, userID string) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserQuery, tenantID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers returns the tenant's users ordered by creation time.
func (p *Postgres) ListUsers(ctx context.Context, tenantID string) ([]entities.User, error) {
	rows, err := p.db.Query(ctx, listUsersQuery, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// SetUserRole changes the role of a user.
func (p *Postgres) SetUserRole(ctx context.Context, tenantID, userID string, role entities.Role) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, setUserRoleQuery, tenantID, userID, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to set user role", "error", err, "user_id", userID)
		return nil, fmt.Errorf("set user role: %w", err)
	}

	p.log.Infow("user role updated", "tenant_id", tenantID, "user_id", userID, "role", role)
	return u, nil
}

// SaveUser updates the name and email of a user.
func (p *Postgres) SaveUser(ctx context.Context, user entities.User) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, saveUserQuery, user.TenantID, user.ID, user.Name, user.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, entities.ErrUserExists
		}
		p.log.Errorw("failed to save user", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("save user: %w", err)
	}

	p.log.Infow("user profile updated", "tenant_id", user.TenantID, "user_id", user.ID)
	return u, nil
}

// StaffIDs returns the admins and managers of the tenant.
func (p *Postgres) StaffIDs(ctx context.Context, tenantID string) ([]string, error) {
	return p.queryIDs(ctx, staffIDsQuery, tenantID)
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}
