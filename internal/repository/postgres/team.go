package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	teamColumns = `
t.id, t.tenant_id, t.name, t.description, t.created_by, t.created_at, t.updated_at,
ARRAY(SELECT m.user_id FROM team_members m WHERE m.team_id = t.id ORDER BY m.position),
ARRAY(SELECT g.user_id FROM team_managers g WHERE g.team_id = t.id ORDER BY g.position)`
	insertTeamQuery = `
INSERT INTO teams(id, tenant_id, name, description, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateTeamQuery = `
UPDATE teams SET name=$3, description=$4, updated_at=$5
WHERE tenant_id=$1 AND id=$2`
	selectTeamQuery = `SELECT` + teamColumns + ` FROM teams t WHERE t.tenant_id=$1 AND t.id=$2`
	listTeamsQuery  = `SELECT` + teamColumns + ` FROM teams t
WHERE t.tenant_id=$1 AND ($2::text = '' OR t.created_by=$2
    OR EXISTS (SELECT 1 FROM team_members m WHERE m.team_id = t.id AND m.user_id=$2)
    OR EXISTS (SELECT 1 FROM team_managers g WHERE g.team_id = t.id AND g.user_id=$2))
ORDER BY t.created_at, t.id
LIMIT NULLIF($3::int, 0) OFFSET $4::int`
	deleteTeamQuery       = `DELETE FROM teams WHERE tenant_id=$1 AND id=$2`
	teamIDsForMemberQuery = `
SELECT t.id FROM teams t JOIN team_members m ON m.team_id = t.id
WHERE t.tenant_id=$1 AND m.user_id=$2 ORDER BY t.id`
	teamMemberIDsQuery = `
SELECT m.user_id FROM team_members m JOIN teams t ON t.id = m.team_id
WHERE t.tenant_id=$1 AND t.id=$2 ORDER BY m.position`
)

// CreateTeam inserts a team with its members and managers.
func (p *Postgres) CreateTeam(ctx context.Context, team entities.Team) (*entities.Team, error) {
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertTeamQuery,
			team.ID, team.TenantID, team.Name, team.Description, team.CreatedBy, team.CreatedAt, team.UpdatedAt); err != nil {
			return fmt.Errorf("insert team: %w", err)
		}
		return writeTeamMembership(ctx, tx, team)
	})
	if err != nil {
		p.log.Errorw("failed to create team", "error", err, "team_id", team.ID)
		return nil, err
	}

	p.log.Infow("team created", "tenant_id", team.TenantID, "team_id", team.ID, "members", len(team.MemberIDs))
	out := team.Clone()
	return &out, nil
}

// GetTeam fetches a team with members and managers.
func (p *Postgres) GetTeam(ctx context.Context, tenantID, teamID string) (*entities.Team, error) {
	t, err := scanTeam(p.db.QueryRow(ctx, selectTeamQuery, tenantID, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

// ListTeams returns teams ordered by creation time.
func (p *Postgres) ListTeams(ctx context.Context, tenantID string, filter entities.TeamFilter) ([]entities.Team, error) {
	rows, err := p.db.Query(ctx, listTeamsQuery, tenantID, filter.VisibleTo, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return teams, nil
}

// SaveTeam replaces the team row and its membership in one transaction.
func (p *Postgres) SaveTeam(ctx context.Context, team entities.Team) (*entities.Team, error) {
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateTeamQuery, team.TenantID, team.ID, team.Name, team.Description, team.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update team: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return entities.ErrTeamNotFound
		}
		return writeTeamMembership(ctx, tx, team)
	})
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			p.log.Errorw("failed to save team", "error", err, "team_id", team.ID)
		}
		return nil, err
	}

	p.log.Infow("team saved", "tenant_id", team.TenantID, "team_id", team.ID)
	out := team.Clone()
	return &out, nil
}

// DeleteTeam removes a team. Task references to it are left in place.
func (p *Postgres) DeleteTeam(ctx context.Context, tenantID, teamID string) error {
	tag, err := p.db.Exec(ctx, deleteTeamQuery, tenantID, teamID)
	if err != nil {
		p.log.Errorw("failed to delete team", "error", err, "team_id", teamID)
		return fmt.Errorf("delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrTeamNotFound
	}

	p.log.Infow("team deleted", "tenant_id", tenantID, "team_id", teamID)
	return nil
}

// TeamIDsForMember returns the teams userID belongs to.
func (p *Postgres) TeamIDsForMember(ctx context.Context, tenantID, userID string) ([]string, error) {
	return p.queryIDs(ctx, teamIDsForMemberQuery, tenantID, userID)
}

// TeamMemberIDs returns a team's members; a missing team has none.
func (p *Postgres) TeamMemberIDs(ctx context.Context, tenantID, teamID string) ([]string, error) {
	return p.queryIDs(ctx, teamMemberIDsQuery, tenantID, teamID)
}

func writeTeamMembership(ctx context.Context, tx pgx.Tx, team entities.Team) error {
	if err := replaceIDs(ctx, tx, "team_members", "team_id", team.ID, team.MemberIDs); err != nil {
		return err
	}
	return replaceIDs(ctx, tx, "team_managers", "team_id", team.ID, team.ManagerIDs)
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	if err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		&t.MemberIDs, &t.ManagerIDs); err != nil {
		return nil, err
	}
	return &t, nil
}
