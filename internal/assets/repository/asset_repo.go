package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/assets/domain"
	gendomain "github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssetRepository persists completed generation results in Postgres.
type AssetRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

// EnsureSchema creates the assets table when it does not exist yet.
func (r *AssetRepository) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists assets (
  id         bigserial primary key,
  project_id text        not null,
  task_id    text        not null unique,
  kind       text        not null,
  payload    jsonb       not null,
  created_at timestamptz not null default now()
);
create index if not exists assets_project_idx on assets (project_id, created_at desc);
`
	if _, err := r.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("ensure assets schema: %w", err)
	}
	return nil
}

// SaveAsset inserts a result; a rerun of the same task overwrites its payload.
func (r *AssetRepository) SaveAsset(ctx context.Context, projectID, taskID string, kind gendomain.GenerationType, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	const q = `
insert into assets (project_id, task_id, kind, payload)
values ($1, $2, $3, $4)
on conflict (task_id) do update set payload = excluded.payload
`
	if _, err := r.pool.Exec(ctx, q, projectID, taskID, string(kind), data); err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	return nil
}

// ListByProject returns a project's assets, newest first.
func (r *AssetRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Asset, error) {
	const q = `
select id, project_id, task_id, kind, payload, created_at
from assets
where project_id = $1
order by created_at desc
`
	rows, err := r.pool.Query(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return out, nil
}

// GetByTaskID returns the asset persisted for a task.
func (r *AssetRepository) GetByTaskID(ctx context.Context, taskID string) (*domain.Asset, error) {
	const q = `
select id, project_id, task_id, kind, payload, created_at
from assets
where task_id = $1
`
	rows, err := r.pool.Query(ctx, q, taskID)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get asset: %w", err)
		}
		return nil, domain.ErrAssetNotFound
	}

	a, err := scanAsset(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteOlderThan removes assets created before the cutoff. Returns how many
// rows were deleted.
func (r *AssetRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `delete from assets where created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old assets: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAsset(rows pgx.Rows) (domain.Asset, error) {
	var (
		a       domain.Asset
		kind    string
		payload []byte
	)
	if err := rows.Scan(&a.ID, &a.ProjectID, &a.TaskID, &kind, &payload, &a.CreatedAt); err != nil {
		return a, fmt.Errorf("scan asset: %w", err)
	}
	a.Kind = gendomain.GenerationType(kind)
	if err := json.Unmarshal(payload, &a.Payload); err != nil {
		return a, fmt.Errorf("unmarshal payload: %w", err)
	}
	return a, nil
}
