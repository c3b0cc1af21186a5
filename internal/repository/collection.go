package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stwalsh4118/rentaltax/internal/store"
)

// collection maps one entity type onto one store namespace. The store
// version is authoritative and is copied onto the entity after every read
// and successful write.
type collection[T any] struct {
	store   store.Store
	ns      store.Namespace
	id      func(*T) string
	version func(*T) *int64
}

func (c collection[T]) decode(rec store.Record) (*T, error) {
	var entity T
	if err := json.Unmarshal(rec.Data, &entity); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", c.ns, rec.ID, err)
	}
	if c.version != nil {
		*c.version(&entity) = rec.Version
	}
	return &entity, nil
}

// get returns nil, nil when the record does not exist.
func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	rec, err := c.store.Get(ctx, c.ns, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return c.decode(*rec)
}

// list returns every entity accepted by keep, in store order.
func (c collection[T]) list(ctx context.Context, keep func(*T) bool) ([]*T, error) {
	records, err := c.store.List(ctx, c.ns)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(records))
	for _, rec := range records {
		entity, err := c.decode(rec)
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(entity) {
			out = append(out, entity)
		}
	}
	return out, nil
}

// save writes entity conditionally on its current version and updates the
// version on success. Entities without a version are insert-only.
func (c collection[T]) save(ctx context.Context, entity *T) error {
	var expected int64
	if c.version != nil {
		expected = *c.version(entity)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", c.ns, c.id(entity), err)
	}

	next, err := c.store.Put(ctx, c.ns, store.Record{ID: c.id(entity), Data: data, Version: expected})
	if err != nil {
		return err
	}
	if c.version != nil {
		*c.version(entity) = next
	}
	return nil
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.ns, id)
}
