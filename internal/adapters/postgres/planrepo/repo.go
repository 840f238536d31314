package planrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomrally/escapade-planner-api/internal/adapters/plandoc"
	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/planrepo"
)

// Repo is a Postgres implementation of planrepo.Repository. Each plan is
// one JSONB document; the version column carries the optimistic check.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// InitSchema creates the plans table when missing. Intended for local
// runs; production deployments manage migrations externally.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS plans (
			id         TEXT PRIMARY KEY,
			version    BIGINT NOT NULL,
			doc        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("init plans schema: %w", err)
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, p domain.Plan) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	body, err := json.Marshal(plandoc.FromDomain(p))
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO plans (id, version, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, string(p.ID), p.Version, body, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return planrepo.ErrAlreadyExists
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, p domain.Plan) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	next := p
	next.Version = p.Version + 1
	body, err := json.Marshal(plandoc.FromDomain(next))
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE plans
		SET version = version + 1, doc = $1, updated_at = $2
		WHERE id = $3 AND version = $4
	`, body, p.UpdatedAt, string(p.ID), p.Version)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Distinguish a missing row from a stale version.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM plans WHERE id = $1)`, string(p.ID)).Scan(&exists); err != nil {
			return fmt.Errorf("check plan existence: %w", err)
		}
		if !exists {
			return planrepo.ErrNotFound
		}
		return planrepo.ErrVersionConflict
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	if r.pool == nil {
		return domain.Plan{}, errors.New("nil postgres pool")
	}
	var body []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM plans WHERE id = $1`, string(id)).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("select plan: %w", err)
	}
	var doc plandoc.Doc
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.Plan{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	return plandoc.ToDomain(doc)
}
