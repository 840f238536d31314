package planrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/roomrally/escapade-planner-api/internal/adapters/plandoc"
	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/planrepo"
)

// Repo is a Redis implementation of planrepo.Repository. Plans are JSON
// documents under plan:{id}; optimistic saves rely on WATCH so that a
// concurrent writer aborts the transaction.
type Repo struct {
	client *redis.Client
}

func NewRepo(client *redis.Client) *Repo {
	return &Repo{client: client}
}

func key(id domain.PlanID) string { return "plan:" + string(id) }

func (r *Repo) Create(ctx context.Context, p domain.Plan) error {
	body, err := json.Marshal(plandoc.FromDomain(p))
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	ok, err := r.client.SetNX(ctx, key(p.ID), body, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx plan: %w", err)
	}
	if !ok {
		return planrepo.ErrAlreadyExists
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, p domain.Plan) error {
	k := key(p.ID)
	txn := func(tx *redis.Tx) error {
		body, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return planrepo.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		var stored plandoc.Doc
		if err := json.Unmarshal(body, &stored); err != nil {
			return fmt.Errorf("unmarshal plan: %w", err)
		}
		if stored.Version != p.Version {
			return planrepo.ErrVersionConflict
		}

		next := p
		next.Version = p.Version + 1
		out, err := json.Marshal(plandoc.FromDomain(next))
		if err != nil {
			return fmt.Errorf("marshal plan: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, out, 0)
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txn, k)
	if errors.Is(err, redis.TxFailedErr) {
		// Another writer touched the key between GET and EXEC.
		return planrepo.ErrVersionConflict
	}
	return err
}

func (r *Repo) GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	body, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	var doc plandoc.Doc
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.Plan{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	return plandoc.ToDomain(doc)
}
