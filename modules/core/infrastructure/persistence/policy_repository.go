package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/pkg/composables"
)

var ErrPolicyNotFound = gerrors.New("policy not found")

type PgCatalogRepository struct{}

func NewCatalogRepository() policy.CatalogRepository {
	return &PgCatalogRepository{}
}

func (r *PgCatalogRepository) ResourceTypes(ctx context.Context) ([]policy.ResourceType, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, name
FROM permission_resource_types
ORDER BY name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]policy.ResourceType, 0, 16)
	for rows.Next() {
		var (
			rt policy.ResourceType
			id int64
		)
		if err := rows.Scan(&id, &rt.Name); err != nil {
			return nil, err
		}
		rt.ID = uint(id)
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *PgCatalogRepository) Actions(ctx context.Context) ([]policy.Action, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, name
FROM permission_actions
ORDER BY name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]policy.Action, 0, 8)
	for rows.Next() {
		var (
			a  policy.Action
			id int64
		)
		if err := rows.Scan(&id, &a.Name); err != nil {
			return nil, err
		}
		a.ID = uint(id)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PgCatalogRepository) Policies(ctx context.Context) ([]policy.Policy, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT p.id, p.name, p.description, rt.name, a.name, p.scope_type, p.scope_config, p.priority, p.is_active
FROM permission_policies p
JOIN permission_resource_types rt ON rt.id = p.resource_type_id
JOIN permission_actions a ON a.id = p.action_id
ORDER BY rt.name, a.name, p.priority
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]policy.Policy, 0, 32)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PgCatalogRepository) GetPolicy(ctx context.Context, id uuid.UUID) (policy.Policy, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return policy.Policy{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT p.id, p.name, p.description, rt.name, a.name, p.scope_type, p.scope_config, p.priority, p.is_active
FROM permission_policies p
JOIN permission_resource_types rt ON rt.id = p.resource_type_id
JOIN permission_actions a ON a.id = p.action_id
WHERE p.id = $1
`, id)

	p, err := scanPolicy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.Policy{}, gerrors.Wrapf(ErrPolicyNotFound, "id %s", id)
		}
		return policy.Policy{}, err
	}
	return p, nil
}

func (r *PgCatalogRepository) CreatePolicy(ctx context.Context, p policy.Policy) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
INSERT INTO permission_policies (id, name, description, resource_type_id, action_id, scope_type, scope_config, priority, is_active)
VALUES (
	$1, $2, $3,
	(SELECT id FROM permission_resource_types WHERE name = $4),
	(SELECT id FROM permission_actions WHERE name = $5),
	$6, $7, $8, $9
)
`, p.ID, p.Name, p.Description, p.Resource, p.Action, p.ScopeType.String(), p.ScopeConfig, p.Priority, p.IsActive)
	if err != nil {
		return gerrors.Wrap(err, "failed to create policy")
	}
	return nil
}

func scanPolicy(row pgx.Row) (policy.Policy, error) {
	var (
		p       policy.Policy
		rawType string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description,
		&p.Resource, &p.Action,
		&rawType, &p.ScopeConfig, &p.Priority, &p.IsActive,
	); err != nil {
		return policy.Policy{}, err
	}
	scopeType, err := policy.ParseScopeType(rawType)
	if err != nil {
		return policy.Policy{}, err
	}
	p.ScopeType = scopeType
	return p, nil
}
