package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/pkg/composables"
	"github.com/cleanops/erp-sdk/pkg/eventbus"
)

// PgAssignmentRepository unions the two reachability paths (role grants and
// direct user grants) in one query and de-duplicates by policy id there, so
// a grant reachable both ways is counted once everywhere downstream.
type PgAssignmentRepository struct {
	publisher eventbus.EventBus
}

func NewAssignmentRepository(publisher eventbus.EventBus) policy.AssignmentRepository {
	return &PgAssignmentRepository{publisher: publisher}
}

func (r *PgAssignmentRepository) CandidatePolicies(ctx context.Context, userID uint, roleIDs []uuid.UUID, resource, action string) ([]policy.Policy, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if roleIDs == nil {
		roleIDs = []uuid.UUID{}
	}

	rows, err := tx.Query(ctx, `
SELECT DISTINCT p.id, p.name, p.description, rt.name, a.name, p.scope_type, p.scope_config, p.priority, p.is_active
FROM permission_policies p
JOIN permission_resource_types rt ON rt.id = p.resource_type_id
JOIN permission_actions a ON a.id = p.action_id
WHERE p.is_active
  AND rt.name = $1
  AND a.name = $2
  AND (
	EXISTS (
		SELECT 1 FROM role_policies rp
		WHERE rp.policy_id = p.id AND rp.role_id = ANY($3)
	)
	OR EXISTS (
		SELECT 1 FROM user_policies up
		WHERE up.policy_id = p.id
		  AND up.user_id = $4
		  AND (up.expires_at IS NULL OR up.expires_at > NOW())
	)
  )
ORDER BY p.priority, p.id
`, resource, action, roleIDs, int64(userID))
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to load candidate policies")
	}
	defer rows.Close()

	out := make([]policy.Policy, 0, 8)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PgAssignmentRepository) AssignToRole(ctx context.Context, roleID, policyID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO role_policies (role_id, policy_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, roleID, policyID)
	if err != nil {
		return err
	}
	r.publisher.Publish(policy.RolePolicyChangedEvent{RoleID: roleID, PolicyID: policyID})
	return nil
}

func (r *PgAssignmentRepository) RevokeFromRole(ctx context.Context, roleID, policyID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
DELETE FROM role_policies
WHERE role_id = $1 AND policy_id = $2
`, roleID, policyID)
	if err != nil {
		return err
	}
	r.publisher.Publish(policy.RolePolicyChangedEvent{RoleID: roleID, PolicyID: policyID})
	return nil
}

func (r *PgAssignmentRepository) AssignToUser(ctx context.Context, userID uint, policyID uuid.UUID, expiresAt *time.Time) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO user_policies (user_id, policy_id, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, policy_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
`, int64(userID), policyID, expiresAt)
	if err != nil {
		return err
	}
	r.publisher.Publish(policy.UserPolicyChangedEvent{UserID: userID, PolicyID: policyID})
	return nil
}

func (r *PgAssignmentRepository) RevokeFromUser(ctx context.Context, userID uint, policyID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
DELETE FROM user_policies
WHERE user_id = $1 AND policy_id = $2
`, int64(userID), policyID)
	if err != nil {
		return err
	}
	r.publisher.Publish(policy.UserPolicyChangedEvent{UserID: userID, PolicyID: policyID})
	return nil
}
