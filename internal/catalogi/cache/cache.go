// Package cache adds a Redis read-through cache in front of the catalogi
// store. Only published definitions are cached: they are immutable, so a
// cached copy can never go stale. Drafts always hit the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/catalogi/store"
)

const defaultTTL = 15 * time.Minute

// Store wraps a catalogi store with cached reads for published definitions.
// All other operations pass through.
type Store struct {
	store.Store
	rdb *redis.Client
	log *slog.Logger
	ttl time.Duration
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func New(inner store.Store, rdb *redis.Client, log *slog.Logger, opts ...Option) *Store {
	s := &Store{Store: inner, rdb: rdb, log: log, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(kind models.TypeKind, id uuid.UUID) string {
	return "catalogi:" + string(kind) + ":" + id.String()
}

// get loads a cached entity into dst, reporting a hit.
func (s *Store) get(ctx context.Context, k string, dst any) bool {
	raw, err := s.rdb.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache read failed", "key", k, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("cache entry corrupt, dropping", "key", k, "error", err)
		s.rdb.Del(ctx, k)
		return false
	}
	return true
}

// put stores a published entity. Cache failures only cost performance.
func (s *Store) put(ctx context.Context, k string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, k, raw, s.ttl).Err(); err != nil {
		s.log.Warn("cache write failed", "key", k, "error", err)
	}
}

func (s *Store) invalidate(ctx context.Context, kind models.TypeKind, id uuid.UUID) {
	if err := s.rdb.Del(ctx, key(kind, id)).Err(); err != nil {
		s.log.Warn("cache invalidation failed", "kind", kind, "id", id, "error", err)
	}
}

func (s *Store) GetZaakType(ctx context.Context, id uuid.UUID) (*models.ZaakType, error) {
	k := key(models.KindZaakType, id)
	var cached models.ZaakType
	if s.get(ctx, k, &cached) {
		return &cached, nil
	}
	zt, err := s.Store.GetZaakType(ctx, id)
	if err != nil {
		return nil, err
	}
	if !zt.IsConcept() {
		s.put(ctx, k, zt)
	}
	return zt, nil
}

func (s *Store) GetBesluitType(ctx context.Context, id uuid.UUID) (*models.BesluitType, error) {
	k := key(models.KindBesluitType, id)
	var cached models.BesluitType
	if s.get(ctx, k, &cached) {
		return &cached, nil
	}
	bt, err := s.Store.GetBesluitType(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bt.IsConcept() {
		s.put(ctx, k, bt)
	}
	return bt, nil
}

func (s *Store) GetInformatieObjectType(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error) {
	k := key(models.KindInformatieObjectType, id)
	var cached models.InformatieObjectType
	if s.get(ctx, k, &cached) {
		return &cached, nil
	}
	iot, err := s.Store.GetInformatieObjectType(ctx, id)
	if err != nil {
		return nil, err
	}
	if !iot.IsConcept() {
		s.put(ctx, k, iot)
	}
	return iot, nil
}

func (s *Store) DeleteZaakType(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteZaakType(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, models.KindZaakType, id)
	return nil
}

func (s *Store) DeleteBesluitType(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteBesluitType(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, models.KindBesluitType, id)
	return nil
}

func (s *Store) DeleteInformatieObjectType(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteInformatieObjectType(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, models.KindInformatieObjectType, id)
	return nil
}
