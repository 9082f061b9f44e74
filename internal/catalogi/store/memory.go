package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/pkg/platform/sentinel"
	txcontext "opencatalogi/pkg/platform/tx"
)

// InMemoryStore keeps everything in maps behind a single mutex. RunInTx holds
// the write lock for the whole callback, which gives the same serialization
// guarantee the PostgreSQL store gets from row locks.
type InMemoryStore struct {
	mu sync.RWMutex

	catalogussen          map[uuid.UUID]*models.Catalogus
	zaaktypen             map[uuid.UUID]*models.ZaakType
	besluittypen          map[uuid.UUID]*models.BesluitType
	informatieobjecttypen map[uuid.UUID]*models.InformatieObjectType
	statustypen           map[uuid.UUID]*models.StatusType
	roltypen              map[uuid.UUID]*models.RolType
	resultaattypen        map[uuid.UUID]*models.ResultaatType
	zaaktypeIOTs          map[uuid.UUID]*models.ZaakTypeInformatieObjectType
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		catalogussen:          make(map[uuid.UUID]*models.Catalogus),
		zaaktypen:             make(map[uuid.UUID]*models.ZaakType),
		besluittypen:          make(map[uuid.UUID]*models.BesluitType),
		informatieobjecttypen: make(map[uuid.UUID]*models.InformatieObjectType),
		statustypen:           make(map[uuid.UUID]*models.StatusType),
		roltypen:              make(map[uuid.UUID]*models.RolType),
		resultaattypen:        make(map[uuid.UUID]*models.ResultaatType),
		zaaktypeIOTs:          make(map[uuid.UUID]*models.ZaakTypeInformatieObjectType),
	}
}

type memTxKey struct{}

// RunInTx serializes the callback under the write lock and flushes post-commit
// hooks after it returns without error. There is no rollback of map mutations;
// callers mutate through the store methods which only write on success.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx := context.WithValue(ctx, memTxKey{}, struct{}{})
	txCtx, hooks := txcontext.WithHooks(txCtx)

	s.mu.Lock()
	err := fn(txCtx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	// hooks run outside the lock, against the caller's context
	hooks.Flush(ctx)
	return nil
}

// lock takes the read or write lock unless we are already inside RunInTx.
func (s *InMemoryStore) lock(ctx context.Context, write bool) func() {
	if ctx.Value(memTxKey{}) != nil {
		return func() {}
	}
	if write {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// ----------------------------------------------------------------------------
// Catalogussen
// ----------------------------------------------------------------------------

func (s *InMemoryStore) CreateCatalogus(ctx context.Context, c *models.Catalogus) error {
	defer s.lock(ctx, true)()
	if _, ok := s.catalogussen[c.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *c
	s.catalogussen[c.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetCatalogus(ctx context.Context, id uuid.UUID) (*models.Catalogus, error) {
	defer s.lock(ctx, false)()
	c, ok := s.catalogussen[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) ListCatalogussen(ctx context.Context) ([]*models.Catalogus, error) {
	defer s.lock(ctx, false)()
	out := make([]*models.Catalogus, 0, len(s.catalogussen))
	for _, c := range s.catalogussen {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ----------------------------------------------------------------------------
// ZaakTypen
// ----------------------------------------------------------------------------

func (s *InMemoryStore) CreateZaakType(ctx context.Context, zt *models.ZaakType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.zaaktypen[zt.ID]; ok {
		return sentinel.ErrConflict
	}
	if _, ok := s.catalogussen[zt.CatalogusID]; !ok {
		return sentinel.ErrNotFound
	}
	s.zaaktypen[zt.ID] = zt.Clone()
	return nil
}

func (s *InMemoryStore) GetZaakType(ctx context.Context, id uuid.UUID) (*models.ZaakType, error) {
	defer s.lock(ctx, false)()
	zt, ok := s.zaaktypen[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return zt.Clone(), nil
}

func (s *InMemoryStore) UpdateZaakType(ctx context.Context, zt *models.ZaakType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.zaaktypen[zt.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.zaaktypen[zt.ID] = zt.Clone()
	return nil
}

func (s *InMemoryStore) DeleteZaakType(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx, true)()
	if _, ok := s.zaaktypen[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.zaaktypen, id)
	for stID, st := range s.statustypen {
		if st.ZaakTypeID == id {
			delete(s.statustypen, stID)
		}
	}
	for rtID, rt := range s.roltypen {
		if rt.ZaakTypeID == id {
			delete(s.roltypen, rtID)
		}
	}
	for rtID, rt := range s.resultaattypen {
		if rt.ZaakTypeID == id {
			delete(s.resultaattypen, rtID)
		}
	}
	for jID, j := range s.zaaktypeIOTs {
		if j.ZaakTypeID == id {
			delete(s.zaaktypeIOTs, jID)
		}
	}
	// shared reference: drop the M2M link, keep the besluittype
	for _, bt := range s.besluittypen {
		bt.ZaakTypeIDs = removeID(bt.ZaakTypeIDs, id)
	}
	return nil
}

func (s *InMemoryStore) ListZaakTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.ZaakType, error) {
	defer s.lock(ctx, false)()
	var out []*models.ZaakType
	for _, zt := range s.zaaktypen {
		if zt.CatalogusID == catalogusID {
			out = append(out, zt.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ----------------------------------------------------------------------------
// BesluitTypen
// ----------------------------------------------------------------------------

func (s *InMemoryStore) CreateBesluitType(ctx context.Context, bt *models.BesluitType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.besluittypen[bt.ID]; ok {
		return sentinel.ErrConflict
	}
	if _, ok := s.catalogussen[bt.CatalogusID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, ztID := range bt.ZaakTypeIDs {
		if _, ok := s.zaaktypen[ztID]; !ok {
			return sentinel.ErrNotFound
		}
	}
	s.besluittypen[bt.ID] = bt.Clone()
	return nil
}

func (s *InMemoryStore) GetBesluitType(ctx context.Context, id uuid.UUID) (*models.BesluitType, error) {
	defer s.lock(ctx, false)()
	bt, ok := s.besluittypen[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return bt.Clone(), nil
}

func (s *InMemoryStore) UpdateBesluitType(ctx context.Context, bt *models.BesluitType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.besluittypen[bt.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.besluittypen[bt.ID] = bt.Clone()
	return nil
}

func (s *InMemoryStore) DeleteBesluitType(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx, true)()
	if _, ok := s.besluittypen[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.besluittypen, id)
	return nil
}

func (s *InMemoryStore) ListBesluitTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.BesluitType, error) {
	defer s.lock(ctx, false)()
	var out []*models.BesluitType
	for _, bt := range s.besluittypen {
		if bt.CatalogusID == catalogusID {
			out = append(out, bt.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ----------------------------------------------------------------------------
// InformatieObjectTypen
// ----------------------------------------------------------------------------

func (s *InMemoryStore) CreateInformatieObjectType(ctx context.Context, iot *models.InformatieObjectType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.informatieobjecttypen[iot.ID]; ok {
		return sentinel.ErrConflict
	}
	if _, ok := s.catalogussen[iot.CatalogusID]; !ok {
		return sentinel.ErrNotFound
	}
	s.informatieobjecttypen[iot.ID] = iot.Clone()
	return nil
}

func (s *InMemoryStore) GetInformatieObjectType(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error) {
	defer s.lock(ctx, false)()
	iot, ok := s.informatieobjecttypen[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return iot.Clone(), nil
}

func (s *InMemoryStore) UpdateInformatieObjectType(ctx context.Context, iot *models.InformatieObjectType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.informatieobjecttypen[iot.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.informatieobjecttypen[iot.ID] = iot.Clone()
	return nil
}

func (s *InMemoryStore) DeleteInformatieObjectType(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx, true)()
	if _, ok := s.informatieobjecttypen[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.informatieobjecttypen, id)
	for jID, j := range s.zaaktypeIOTs {
		if j.InformatieObjectTypeID == id {
			delete(s.zaaktypeIOTs, jID)
		}
	}
	return nil
}

func (s *InMemoryStore) ListInformatieObjectTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.InformatieObjectType, error) {
	defer s.lock(ctx, false)()
	var out []*models.InformatieObjectType
	for _, iot := range s.informatieobjecttypen {
		if iot.CatalogusID == catalogusID {
			out = append(out, iot.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ----------------------------------------------------------------------------
// Sub-resources
// ----------------------------------------------------------------------------

func (s *InMemoryStore) CreateStatusType(ctx context.Context, st *models.StatusType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.zaaktypen[st.ZaakTypeID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *st
	s.statustypen[st.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListStatusTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.StatusType, error) {
	defer s.lock(ctx, false)()
	var out []*models.StatusType
	for _, st := range s.statustypen {
		if st.ZaakTypeID == zaaktypeID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Volgnummer < out[j].Volgnummer })
	return out, nil
}

func (s *InMemoryStore) CreateRolType(ctx context.Context, rt *models.RolType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.zaaktypen[rt.ZaakTypeID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *rt
	s.roltypen[rt.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListRolTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.RolType, error) {
	defer s.lock(ctx, false)()
	var out []*models.RolType
	for _, rt := range s.roltypen {
		if rt.ZaakTypeID == zaaktypeID {
			cp := *rt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Omschrijving < out[j].Omschrijving })
	return out, nil
}

func (s *InMemoryStore) CreateResultaatType(ctx context.Context, rt *models.ResultaatType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.zaaktypen[rt.ZaakTypeID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *rt
	s.resultaattypen[rt.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListResultaatTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ResultaatType, error) {
	defer s.lock(ctx, false)()
	var out []*models.ResultaatType
	for _, rt := range s.resultaattypen {
		if rt.ZaakTypeID == zaaktypeID {
			cp := *rt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Omschrijving < out[j].Omschrijving })
	return out, nil
}

func (s *InMemoryStore) CreateZaakTypeInformatieObjectType(ctx context.Context, j *models.ZaakTypeInformatieObjectType) error {
	defer s.lock(ctx, true)()
	if _, ok := s.zaaktypen[j.ZaakTypeID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := s.informatieobjecttypen[j.InformatieObjectTypeID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *j
	s.zaaktypeIOTs[j.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListZaakTypeInformatieObjectTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ZaakTypeInformatieObjectType, error) {
	defer s.lock(ctx, false)()
	var out []*models.ZaakTypeInformatieObjectType
	for _, j := range s.zaaktypeIOTs {
		if j.ZaakTypeID == zaaktypeID {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Volgnummer < out[j].Volgnummer })
	return out, nil
}

// ----------------------------------------------------------------------------
// PublishStore
// ----------------------------------------------------------------------------

func (s *InMemoryStore) GetZaakTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.ZaakType, error) {
	return s.GetZaakType(ctx, id)
}

func (s *InMemoryStore) GetBesluitTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.BesluitType, error) {
	return s.GetBesluitType(ctx, id)
}

func (s *InMemoryStore) GetInformatieObjectTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error) {
	return s.GetInformatieObjectType(ctx, id)
}

func (s *InMemoryStore) CountZaakTypeChildren(ctx context.Context, zaaktypeID uuid.UUID) (ChildCounts, error) {
	defer s.lock(ctx, false)()
	var counts ChildCounts
	for _, st := range s.statustypen {
		if st.ZaakTypeID == zaaktypeID {
			counts.StatusTypen++
		}
	}
	for _, rt := range s.roltypen {
		if rt.ZaakTypeID == zaaktypeID {
			counts.RolTypen++
		}
	}
	for _, rt := range s.resultaattypen {
		if rt.ZaakTypeID == zaaktypeID {
			counts.ResultaatTypen++
		}
	}
	return counts, nil
}

func (s *InMemoryStore) ListRelatedBesluitTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.BesluitType, error) {
	defer s.lock(ctx, false)()
	var out []*models.BesluitType
	for _, bt := range s.besluittypen {
		for _, ztID := range bt.ZaakTypeIDs {
			if ztID == zaaktypeID {
				out = append(out, bt.Clone())
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Omschrijving < out[j].Omschrijving })
	return out, nil
}

func (s *InMemoryStore) ListRelatedInformatieObjectTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.InformatieObjectType, error) {
	defer s.lock(ctx, false)()
	seen := make(map[uuid.UUID]bool)
	var out []*models.InformatieObjectType
	for _, j := range s.zaaktypeIOTs {
		if j.ZaakTypeID != zaaktypeID || seen[j.InformatieObjectTypeID] {
			continue
		}
		seen[j.InformatieObjectTypeID] = true
		if iot, ok := s.informatieobjecttypen[j.InformatieObjectTypeID]; ok {
			out = append(out, iot.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Omschrijving < out[j].Omschrijving })
	return out, nil
}

func (s *InMemoryStore) ListVersionFamily(ctx context.Context, kind models.TypeKind, catalogusID uuid.UUID, omschrijving string) ([]Version, error) {
	defer s.lock(ctx, false)()
	var out []Version
	switch kind {
	case models.KindZaakType:
		for _, zt := range s.zaaktypen {
			if zt.CatalogusID == catalogusID && zt.Omschrijving == omschrijving {
				out = append(out, Version{ID: zt.ID, Concept: zt.Concept, Geldigheid: zt.Geldigheid})
			}
		}
	case models.KindBesluitType:
		for _, bt := range s.besluittypen {
			if bt.CatalogusID == catalogusID && bt.Omschrijving == omschrijving {
				out = append(out, Version{ID: bt.ID, Concept: bt.Concept, Geldigheid: bt.Geldigheid})
			}
		}
	case models.KindInformatieObjectType:
		for _, iot := range s.informatieobjecttypen {
			if iot.CatalogusID == catalogusID && iot.Omschrijving == omschrijving {
				out = append(out, Version{ID: iot.ID, Concept: iot.Concept, Geldigheid: iot.Geldigheid})
			}
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(ctx context.Context, refs []models.TypeRef, now time.Time) error {
	defer s.lock(ctx, true)()
	for _, ref := range refs {
		switch ref.Kind {
		case models.KindZaakType:
			zt, ok := s.zaaktypen[ref.ID]
			if !ok {
				return sentinel.ErrNotFound
			}
			zt.ApplyPublish(now)
		case models.KindBesluitType:
			bt, ok := s.besluittypen[ref.ID]
			if !ok {
				return sentinel.ErrNotFound
			}
			bt.ApplyPublish(now)
		case models.KindInformatieObjectType:
			iot, ok := s.informatieobjecttypen[ref.ID]
			if !ok {
				return sentinel.ErrNotFound
			}
			iot.ApplyPublish(now)
		}
	}
	return nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
