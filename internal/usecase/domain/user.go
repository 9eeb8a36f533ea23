package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sahil-1827/task-management-system-backend/internal/authz"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/go-playground/validator/v10"
)

const maxUserNameLength = 100

var validate = validator.New()

// CreateUser adds a manager or user to the actor's tenant.
func (u *Usecase) CreateUser(ctx context.Context, actor entities.Actor, user entities.User) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	if err := validate.Var(user.Email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: email is invalid", entities.ErrInvalidArgument)
	}
	if user.Role == "" {
		user.Role = entities.RoleUser
	}
	if user.Role != entities.RoleManager && user.Role != entities.RoleUser {
		return nil, fmt.Errorf("%w: role must be manager or user", entities.ErrInvalidArgument)
	}
	if err := u.authorize(actor, authz.ActionCreate, authz.ResourceUser, authz.Facts{IsCreator: true}, nil); err != nil {
		return nil, err
	}

	user.ID = u.newID()
	user.TenantID = actor.TenantID
	user.IsActive = true
	user.CreatedAt = u.now()

	created, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, u.persistErr("create user", err)
	}

	entry := entities.ActivityLogEntry{
		Action:   entities.ActionCreate,
		Entity:   entities.EntityUser,
		EntityID: created.ID,
		Details:  fmt.Sprintf("User %q was created with role %s by %s", created.Name, created.Role, actor.DisplayName()),
	}
	u.record(ctx, actor, []entities.ActivityLogEntry{entry}, nil)

	u.log.Infow("user created", "tenant_id", actor.TenantID, "user_id", created.ID, "role", created.Role)
	return created, nil
}

// ChangeUserRole is the explicit admin action that changes a role.
func (u *Usecase) ChangeUserRole(ctx context.Context, actor entities.Actor, userID string, role entities.Role) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", entities.ErrInvalidArgument)
	}
	if role != entities.RoleManager && role != entities.RoleUser {
		return nil, fmt.Errorf("%w: role must be manager or user", entities.ErrInvalidArgument)
	}
	if userID == actor.ID {
		return nil, fmt.Errorf("%w: cannot change your own role", entities.ErrInvalidArgument)
	}
	if err := u.authorize(actor, authz.ActionUpdate, authz.ResourceUser, authz.Facts{}, []string{entities.FieldRole}); err != nil {
		return nil, err
	}

	before, err := u.repo.GetUser(ctx, actor.TenantID, userID)
	if err != nil {
		return nil, u.persistErr("get user", err)
	}
	if before.Role == entities.RoleAdmin {
		return nil, fmt.Errorf("%w: the tenant admin role is fixed", entities.ErrInvalidArgument)
	}
	updated, err := u.repo.SetUserRole(ctx, actor.TenantID, userID, role)
	if err != nil {
		return nil, u.persistErr("set user role", err)
	}

	entry := entities.ActivityLogEntry{
		Action:   entities.ActionUpdate,
		Entity:   entities.EntityUser,
		EntityID: updated.ID,
		Details:  fmt.Sprintf("Role of %q changed from %s to %s by %s", updated.Name, before.Role, updated.Role, actor.DisplayName()),
	}
	u.record(ctx, actor, []entities.ActivityLogEntry{entry}, nil)

	u.log.Infow("user role changed", "tenant_id", actor.TenantID, "user_id", userID, "from", before.Role, "to", role)
	return updated, nil
}

// UpdateProfile changes the actor's own name and email. Nil fields are kept.
func (u *Usecase) UpdateProfile(ctx context.Context, actor entities.Actor, name, email *string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	fields := make([]string, 0, 2)
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" || len(trimmed) > maxUserNameLength {
			return nil, fmt.Errorf("%w: name must be 1-%d characters", entities.ErrInvalidArgument, maxUserNameLength)
		}
		name = &trimmed
		fields = append(fields, entities.FieldName)
	}
	if email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		if err := validate.Var(normalized, "required,email"); err != nil {
			return nil, fmt.Errorf("%w: email is invalid", entities.ErrInvalidArgument)
		}
		email = &normalized
		fields = append(fields, entities.FieldEmail)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", entities.ErrInvalidArgument)
	}
	if err := u.authorize(actor, authz.ActionUpdate, authz.ResourceProfile, authz.Facts{IsSelf: true}, fields); err != nil {
		return nil, err
	}

	user, err := u.repo.GetUser(ctx, actor.TenantID, actor.ID)
	if err != nil {
		return nil, u.persistErr("get user", err)
	}
	if name != nil {
		user.Name = *name
	}
	if email != nil {
		user.Email = *email
	}
	updated, err := u.repo.SaveUser(ctx, *user)
	if err != nil {
		return nil, u.persistErr("save user", err)
	}

	entry := entities.ActivityLogEntry{
		Action:   entities.ActionUpdate,
		Entity:   entities.EntityUser,
		EntityID: updated.ID,
		Details:  fmt.Sprintf("User profile for %q was updated by %s", updated.Name, actor.DisplayName()),
	}
	u.record(ctx, actor, []entities.ActivityLogEntry{entry}, nil)

	u.log.Infow("user profile updated", "tenant_id", actor.TenantID, "user_id", updated.ID, "fields", fields)
	return updated, nil
}

// ListUsers returns the tenant's users to admins and managers; plain users
// get an empty list.
func (u *Usecase) ListUsers(ctx context.Context, actor entities.Actor) ([]entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() {
		return []entities.User{}, nil
	}
	users, err := u.repo.ListUsers(ctx, actor.TenantID)
	if err != nil {
		return nil, u.persistErr("list users", err)
	}
	return users, nil
}
