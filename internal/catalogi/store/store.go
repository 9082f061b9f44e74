// Package store persists catalogi type definitions. Two implementations:
// an in-memory store for unit tests and development, and a PostgreSQL store
// for production. Services depend on the interfaces only.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"opencatalogi/internal/catalogi/models"
)

// Store is the full persistence surface of the catalogi component.
//
// RunInTx runs fn inside a transaction. Post-commit hooks registered through
// pkg/platform/tx during fn are flushed only after a successful commit, which
// is what keeps notification dispatch ordered after the durable change.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	Catalogussen
	ZaakTypen
	BesluitTypen
	InformatieObjectTypen
	SubResources
	PublishStore
}

type Catalogussen interface {
	CreateCatalogus(ctx context.Context, c *models.Catalogus) error
	GetCatalogus(ctx context.Context, id uuid.UUID) (*models.Catalogus, error)
	ListCatalogussen(ctx context.Context) ([]*models.Catalogus, error)
}

type ZaakTypen interface {
	CreateZaakType(ctx context.Context, zt *models.ZaakType) error
	GetZaakType(ctx context.Context, id uuid.UUID) (*models.ZaakType, error)
	UpdateZaakType(ctx context.Context, zt *models.ZaakType) error
	// DeleteZaakType cascades to owned sub-resources and join rows; related
	// besluittypen and informatieobjecttypen are left intact.
	DeleteZaakType(ctx context.Context, id uuid.UUID) error
	ListZaakTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.ZaakType, error)
}

type BesluitTypen interface {
	CreateBesluitType(ctx context.Context, bt *models.BesluitType) error
	GetBesluitType(ctx context.Context, id uuid.UUID) (*models.BesluitType, error)
	UpdateBesluitType(ctx context.Context, bt *models.BesluitType) error
	DeleteBesluitType(ctx context.Context, id uuid.UUID) error
	ListBesluitTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.BesluitType, error)
}

type InformatieObjectTypen interface {
	CreateInformatieObjectType(ctx context.Context, iot *models.InformatieObjectType) error
	GetInformatieObjectType(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error)
	UpdateInformatieObjectType(ctx context.Context, iot *models.InformatieObjectType) error
	DeleteInformatieObjectType(ctx context.Context, id uuid.UUID) error
	ListInformatieObjectTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.InformatieObjectType, error)
}

type SubResources interface {
	CreateStatusType(ctx context.Context, st *models.StatusType) error
	ListStatusTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.StatusType, error)
	CreateRolType(ctx context.Context, rt *models.RolType) error
	ListRolTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.RolType, error)
	CreateResultaatType(ctx context.Context, rt *models.ResultaatType) error
	ListResultaatTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ResultaatType, error)
	CreateZaakTypeInformatieObjectType(ctx context.Context, j *models.ZaakTypeInformatieObjectType) error
	ListZaakTypeInformatieObjectTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ZaakTypeInformatieObjectType, error)
}

// ChildCounts summarizes the owned sub-resources of a zaaktype.
type ChildCounts struct {
	StatusTypen    int
	RolTypen       int
	ResultaatTypen int
}

// Version is a published-or-draft version of a type definition within a
// version family (same omschrijving, same catalogus).
type Version struct {
	ID         uuid.UUID
	Concept    bool
	Geldigheid models.Geldigheid
}

// PublishStore is the locked read/write surface the cascade publisher uses.
// Every method must be called inside RunInTx; the PostgreSQL implementation
// takes row locks (SELECT ... FOR UPDATE) so concurrent publishes of
// overlapping batches serialize instead of jointly violating the
// validity-overlap invariant.
type PublishStore interface {
	GetZaakTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.ZaakType, error)
	GetBesluitTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.BesluitType, error)
	GetInformatieObjectTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error)

	CountZaakTypeChildren(ctx context.Context, zaaktypeID uuid.UUID) (ChildCounts, error)
	ListRelatedBesluitTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.BesluitType, error)
	ListRelatedInformatieObjectTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.InformatieObjectType, error)

	// ListVersionFamily returns all versions sharing (kind, catalogus,
	// omschrijving), locking them so a concurrent publish of a sibling cannot
	// slip an overlapping published version in between check and update.
	ListVersionFamily(ctx context.Context, kind models.TypeKind, catalogusID uuid.UUID, omschrijving string) ([]Version, error)

	// MarkPublished flips concept to false for every ref in the batch.
	MarkPublished(ctx context.Context, refs []models.TypeRef, now time.Time) error
}
