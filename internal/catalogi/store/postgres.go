package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/pkg/platform/sentinel"
	txcontext "opencatalogi/pkg/platform/tx"
)

//go:embed schema.sql
var Schema string

// PostgresStore persists catalogi entities in PostgreSQL via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if t, ok := txcontext.From(ctx); ok {
		return t
	}
	return s.pool
}

// RunInTx wraps fn in a transaction and flushes post-commit hooks only after
// the commit succeeded. Serialization and lock failures surface as
// sentinel.ErrSerialization so callers can translate them into a retryable
// error.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = t.Rollback(ctx)
	}()

	txCtx := txcontext.WithTx(ctx, t)
	txCtx, hooks := txcontext.WithHooks(txCtx)
	if err := fn(txCtx); err != nil {
		return mapPgError(err)
	}
	if err := t.Commit(ctx); err != nil {
		return mapPgError(fmt.Errorf("commit tx: %w", err))
	}
	hooks.Flush(ctx)
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03": // serialization failure, deadlock, lock not available
		return fmt.Errorf("%w: %v", sentinel.ErrSerialization, err)
	case "23505":
		return fmt.Errorf("%w: %v", sentinel.ErrConflict, err)
	case "23503":
		return fmt.Errorf("%w: %v", sentinel.ErrNotFound, err)
	}
	return err
}

// ----------------------------------------------------------------------------
// Catalogussen
// ----------------------------------------------------------------------------

func (s *PostgresStore) CreateCatalogus(ctx context.Context, c *models.Catalogus) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO catalogussen (id, domein, rsin, naam, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Domein, c.RSIN, c.Naam, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert catalogus: %w", mapPgError(err))
	}
	return nil
}

func (s *PostgresStore) GetCatalogus(ctx context.Context, id uuid.UUID) (*models.Catalogus, error) {
	var c models.Catalogus
	err := s.q(ctx).QueryRow(ctx, `
		SELECT id, domein, rsin, naam, created_at
		FROM catalogussen WHERE id = $1`, id,
	).Scan(&c.ID, &c.Domein, &c.RSIN, &c.Naam, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get catalogus: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) ListCatalogussen(ctx context.Context) ([]*models.Catalogus, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT id, domein, rsin, naam, created_at
		FROM catalogussen ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list catalogussen: %w", err)
	}
	defer rows.Close()

	var out []*models.Catalogus
	for rows.Next() {
		var c models.Catalogus
		if err := rows.Scan(&c.ID, &c.Domein, &c.RSIN, &c.Naam, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan catalogus: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// ----------------------------------------------------------------------------
// ZaakTypen
// ----------------------------------------------------------------------------

const zaaktypeColumns = `id, catalogus_id, identificatie, omschrijving, doel,
	vertrouwelijkheidaanduiding, concept, begin_geldigheid, einde_geldigheid,
	created_at, updated_at`

func scanZaakType(row pgx.Row) (*models.ZaakType, error) {
	var zt models.ZaakType
	err := row.Scan(
		&zt.ID, &zt.CatalogusID, &zt.Identificatie, &zt.Omschrijving, &zt.Doel,
		&zt.Vertrouwelijkheidaanduiding, &zt.Concept,
		&zt.Geldigheid.Begin, &zt.Geldigheid.Einde, &zt.CreatedAt, &zt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &zt, nil
}

func (s *PostgresStore) CreateZaakType(ctx context.Context, zt *models.ZaakType) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO zaaktypen (`+zaaktypeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		zt.ID, zt.CatalogusID, zt.Identificatie, zt.Omschrijving, zt.Doel,
		zt.Vertrouwelijkheidaanduiding, zt.Concept,
		zt.Geldigheid.Begin, zt.Geldigheid.Einde, zt.CreatedAt, zt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert zaaktype: %w", mapPgError(err))
	}
	return nil
}

func (s *PostgresStore) getZaakType(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.ZaakType, error) {
	query := `SELECT ` + zaaktypeColumns + ` FROM zaaktypen WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	zt, err := scanZaakType(s.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get zaaktype: %w", mapPgError(err))
	}
	return zt, nil
}

func (s *PostgresStore) GetZaakType(ctx context.Context, id uuid.UUID) (*models.ZaakType, error) {
	return s.getZaakType(ctx, id, false)
}

func (s *PostgresStore) GetZaakTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.ZaakType, error) {
	return s.getZaakType(ctx, id, true)
}

func (s *PostgresStore) UpdateZaakType(ctx context.Context, zt *models.ZaakType) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE zaaktypen SET
			identificatie = $2, omschrijving = $3, doel = $4,
			vertrouwelijkheidaanduiding = $5, concept = $6,
			begin_geldigheid = $7, einde_geldigheid = $8, updated_at = $9
		WHERE id = $1`,
		zt.ID, zt.Identificatie, zt.Omschrijving, zt.Doel,
		zt.Vertrouwelijkheidaanduiding, zt.Concept,
		zt.Geldigheid.Begin, zt.Geldigheid.Einde, zt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update zaaktype: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteZaakType(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM zaaktypen WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete zaaktype: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListZaakTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.ZaakType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+zaaktypeColumns+` FROM zaaktypen
		WHERE catalogus_id = $1 ORDER BY created_at`, catalogusID)
	if err != nil {
		return nil, fmt.Errorf("list zaaktypen: %w", err)
	}
	defer rows.Close()

	var out []*models.ZaakType
	for rows.Next() {
		zt, err := scanZaakType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zaaktype: %w", err)
		}
		out = append(out, zt)
	}
	return out, rows.Err()
}

// ----------------------------------------------------------------------------
// BesluitTypen
// ----------------------------------------------------------------------------

const besluittypeColumns = `id, catalogus_id, omschrijving, publicatieindicatie,
	concept, begin_geldigheid, einde_geldigheid, created_at, updated_at`

func scanBesluitType(row pgx.Row) (*models.BesluitType, error) {
	var bt models.BesluitType
	err := row.Scan(
		&bt.ID, &bt.CatalogusID, &bt.Omschrijving, &bt.Publicatieindicatie,
		&bt.Concept, &bt.Geldigheid.Begin, &bt.Geldigheid.Einde,
		&bt.CreatedAt, &bt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bt, nil
}

func (s *PostgresStore) CreateBesluitType(ctx context.Context, bt *models.BesluitType) error {
	q := s.q(ctx)
	_, err := q.Exec(ctx, `
		INSERT INTO besluittypen (`+besluittypeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		bt.ID, bt.CatalogusID, bt.Omschrijving, bt.Publicatieindicatie,
		bt.Concept, bt.Geldigheid.Begin, bt.Geldigheid.Einde, bt.CreatedAt, bt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert besluittype: %w", mapPgError(err))
	}
	for _, ztID := range bt.ZaakTypeIDs {
		if _, err := q.Exec(ctx, `
			INSERT INTO besluittype_zaaktypen (besluittype_id, zaaktype_id)
			VALUES ($1, $2)`, bt.ID, ztID); err != nil {
			return fmt.Errorf("link besluittype zaaktype: %w", mapPgError(err))
		}
	}
	return nil
}

func (s *PostgresStore) getBesluitType(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.BesluitType, error) {
	query := `SELECT ` + besluittypeColumns + ` FROM besluittypen WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	bt, err := scanBesluitType(s.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get besluittype: %w", mapPgError(err))
	}
	if err := s.loadBesluitTypeLinks(ctx, bt); err != nil {
		return nil, err
	}
	return bt, nil
}

func (s *PostgresStore) loadBesluitTypeLinks(ctx context.Context, bt *models.BesluitType) error {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT zaaktype_id FROM besluittype_zaaktypen
		WHERE besluittype_id = $1 ORDER BY zaaktype_id`, bt.ID)
	if err != nil {
		return fmt.Errorf("list besluittype links: %w", err)
	}
	defer rows.Close()

	bt.ZaakTypeIDs = nil
	for rows.Next() {
		var ztID uuid.UUID
		if err := rows.Scan(&ztID); err != nil {
			return fmt.Errorf("scan besluittype link: %w", err)
		}
		bt.ZaakTypeIDs = append(bt.ZaakTypeIDs, ztID)
	}
	return rows.Err()
}

func (s *PostgresStore) GetBesluitType(ctx context.Context, id uuid.UUID) (*models.BesluitType, error) {
	return s.getBesluitType(ctx, id, false)
}

func (s *PostgresStore) GetBesluitTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.BesluitType, error) {
	return s.getBesluitType(ctx, id, true)
}

func (s *PostgresStore) UpdateBesluitType(ctx context.Context, bt *models.BesluitType) error {
	q := s.q(ctx)
	tag, err := q.Exec(ctx, `
		UPDATE besluittypen SET
			omschrijving = $2, publicatieindicatie = $3, concept = $4,
			begin_geldigheid = $5, einde_geldigheid = $6, updated_at = $7
		WHERE id = $1`,
		bt.ID, bt.Omschrijving, bt.Publicatieindicatie, bt.Concept,
		bt.Geldigheid.Begin, bt.Geldigheid.Einde, bt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update besluittype: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	if _, err := q.Exec(ctx, `DELETE FROM besluittype_zaaktypen WHERE besluittype_id = $1`, bt.ID); err != nil {
		return fmt.Errorf("clear besluittype links: %w", mapPgError(err))
	}
	for _, ztID := range bt.ZaakTypeIDs {
		if _, err := q.Exec(ctx, `
			INSERT INTO besluittype_zaaktypen (besluittype_id, zaaktype_id)
			VALUES ($1, $2)`, bt.ID, ztID); err != nil {
			return fmt.Errorf("link besluittype zaaktype: %w", mapPgError(err))
		}
	}
	return nil
}

func (s *PostgresStore) DeleteBesluitType(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM besluittypen WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete besluittype: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListBesluitTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.BesluitType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+besluittypeColumns+` FROM besluittypen
		WHERE catalogus_id = $1 ORDER BY created_at`, catalogusID)
	if err != nil {
		return nil, fmt.Errorf("list besluittypen: %w", err)
	}
	defer rows.Close()

	var out []*models.BesluitType
	for rows.Next() {
		bt, err := scanBesluitType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan besluittype: %w", err)
		}
		out = append(out, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, bt := range out {
		if err := s.loadBesluitTypeLinks(ctx, bt); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// InformatieObjectTypen
// ----------------------------------------------------------------------------

const iotColumns = `id, catalogus_id, omschrijving, vertrouwelijkheidaanduiding,
	concept, begin_geldigheid, einde_geldigheid, created_at, updated_at`

func scanInformatieObjectType(row pgx.Row) (*models.InformatieObjectType, error) {
	var iot models.InformatieObjectType
	err := row.Scan(
		&iot.ID, &iot.CatalogusID, &iot.Omschrijving, &iot.Vertrouwelijkheidaanduiding,
		&iot.Concept, &iot.Geldigheid.Begin, &iot.Geldigheid.Einde,
		&iot.CreatedAt, &iot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &iot, nil
}

func (s *PostgresStore) CreateInformatieObjectType(ctx context.Context, iot *models.InformatieObjectType) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO informatieobjecttypen (`+iotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		iot.ID, iot.CatalogusID, iot.Omschrijving, iot.Vertrouwelijkheidaanduiding,
		iot.Concept, iot.Geldigheid.Begin, iot.Geldigheid.Einde, iot.CreatedAt, iot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert informatieobjecttype: %w", mapPgError(err))
	}
	return nil
}

func (s *PostgresStore) getInformatieObjectType(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.InformatieObjectType, error) {
	query := `SELECT ` + iotColumns + ` FROM informatieobjecttypen WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	iot, err := scanInformatieObjectType(s.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get informatieobjecttype: %w", mapPgError(err))
	}
	return iot, nil
}

func (s *PostgresStore) GetInformatieObjectType(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error) {
	return s.getInformatieObjectType(ctx, id, false)
}

func (s *PostgresStore) GetInformatieObjectTypeForUpdate(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error) {
	return s.getInformatieObjectType(ctx, id, true)
}

func (s *PostgresStore) UpdateInformatieObjectType(ctx context.Context, iot *models.InformatieObjectType) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE informatieobjecttypen SET
			omschrijving = $2, vertrouwelijkheidaanduiding = $3, concept = $4,
			begin_geldigheid = $5, einde_geldigheid = $6, updated_at = $7
		WHERE id = $1`,
		iot.ID, iot.Omschrijving, iot.Vertrouwelijkheidaanduiding, iot.Concept,
		iot.Geldigheid.Begin, iot.Geldigheid.Einde, iot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update informatieobjecttype: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteInformatieObjectType(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM informatieobjecttypen WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete informatieobjecttype: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListInformatieObjectTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.InformatieObjectType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+iotColumns+` FROM informatieobjecttypen
		WHERE catalogus_id = $1 ORDER BY created_at`, catalogusID)
	if err != nil {
		return nil, fmt.Errorf("list informatieobjecttypen: %w", err)
	}
	defer rows.Close()

	var out []*models.InformatieObjectType
	for rows.Next() {
		iot, err := scanInformatieObjectType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan informatieobjecttype: %w", err)
		}
		out = append(out, iot)
	}
	return out, rows.Err()
}

// ----------------------------------------------------------------------------
// Sub-resources
// ----------------------------------------------------------------------------

func (s *PostgresStore) CreateStatusType(ctx context.Context, st *models.StatusType) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO statustypen (id, zaaktype_id, omschrijving, volgnummer)
		VALUES ($1, $2, $3, $4)`,
		st.ID, st.ZaakTypeID, st.Omschrijving, st.Volgnummer,
	)
	if err != nil {
		return fmt.Errorf("insert statustype: %w", mapPgError(err))
	}
	return nil
}

func (s *PostgresStore) ListStatusTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.StatusType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT id, zaaktype_id, omschrijving, volgnummer
		FROM statustypen WHERE zaaktype_id = $1 ORDER BY volgnummer`, zaaktypeID)
	if err != nil {
		return nil, fmt.Errorf("list statustypen: %w", err)
	}
	defer rows.Close()

	var out []*models.StatusType
	for rows.Next() {
		var st models.StatusType
		if err := rows.Scan(&st.ID, &st.ZaakTypeID, &st.Omschrijving, &st.Volgnummer); err != nil {
			return nil, fmt.Errorf("scan statustype: %w", err)
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateRolType(ctx context.Context, rt *models.RolType) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO roltypen (id, zaaktype_id, omschrijving, omschrijving_generiek)
		VALUES ($1, $2, $3, $4)`,
		rt.ID, rt.ZaakTypeID, rt.Omschrijving, rt.OmschrijvingGeneriek,
	)
	if err != nil {
		return fmt.Errorf("insert roltype: %w", mapPgError(err))
	}
	return nil
}

func (s *PostgresStore) ListRolTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.RolType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT id, zaaktype_id, omschrijving, omschrijving_generiek
		FROM roltypen WHERE zaaktype_id = $1 ORDER BY omschrijving`, zaaktypeID)
	if err != nil {
		return nil, fmt.Errorf("list roltypen: %w", err)
	}
	defer rows.Close()

	var out []*models.RolType
	for rows.Next() {
		var rt models.RolType
		if err := rows.Scan(&rt.ID, &rt.ZaakTypeID, &rt.Omschrijving, &rt.OmschrijvingGeneriek); err != nil {
			return nil, fmt.Errorf("scan roltype: %w", err)
		}
		out = append(out, &rt)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateResultaatType(ctx context.Context, rt *models.ResultaatType) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO resultaattypen (id, zaaktype_id, omschrijving, selectielijstklasse)
		VALUES ($1, $2, $3, $4)`,
		rt.ID, rt.ZaakTypeID, rt.Omschrijving, rt.Selectielijstklasse,
	)
	if err != nil {
		return fmt.Errorf("insert resultaattype: %w", mapPgError(err))
	}
	return nil
}

func (s *PostgresStore) ListResultaatTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ResultaatType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT id, zaaktype_id, omschrijving, selectielijstklasse
		FROM resultaattypen WHERE zaaktype_id = $1 ORDER BY omschrijving`, zaaktypeID)
	if err != nil {
		return nil, fmt.Errorf("list resultaattypen: %w", err)
	}
	defer rows.Close()

	var out []*models.ResultaatType
	for rows.Next() {
		var rt models.ResultaatType
		if err := rows.Scan(&rt.ID, &rt.ZaakTypeID, &rt.Omschrijving, &rt.Selectielijstklasse); err != nil {
			return nil, fmt.Errorf("scan resultaattype: %w", err)
		}
		out = append(out, &rt)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateZaakTypeInformatieObjectType(ctx context.Context, j *models.ZaakTypeInformatieObjectType) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO zaaktype_informatieobjecttypen
			(id, zaaktype_id, informatieobjecttype_id, volgnummer, richting)
		VALUES ($1, $2, $3, $4, $5)`,
		j.ID, j.ZaakTypeID, j.InformatieObjectTypeID, j.Volgnummer, j.Richting,
	)
	if err != nil {
		return fmt.Errorf("insert zaaktype-informatieobjecttype: %w", mapPgError(err))
	}
	return nil
}

func (s *PostgresStore) ListZaakTypeInformatieObjectTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ZaakTypeInformatieObjectType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT id, zaaktype_id, informatieobjecttype_id, volgnummer, richting
		FROM zaaktype_informatieobjecttypen
		WHERE zaaktype_id = $1 ORDER BY volgnummer`, zaaktypeID)
	if err != nil {
		return nil, fmt.Errorf("list zaaktype-informatieobjecttypen: %w", err)
	}
	defer rows.Close()

	var out []*models.ZaakTypeInformatieObjectType
	for rows.Next() {
		var j models.ZaakTypeInformatieObjectType
		if err := rows.Scan(&j.ID, &j.ZaakTypeID, &j.InformatieObjectTypeID, &j.Volgnummer, &j.Richting); err != nil {
			return nil, fmt.Errorf("scan zaaktype-informatieobjecttype: %w", err)
		}
		out = append(out, &j)
	}
	return out, rows.Err()
}

// ----------------------------------------------------------------------------
// PublishStore
// ----------------------------------------------------------------------------

func (s *PostgresStore) CountZaakTypeChildren(ctx context.Context, zaaktypeID uuid.UUID) (ChildCounts, error) {
	var counts ChildCounts
	err := s.q(ctx).QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM statustypen WHERE zaaktype_id = $1),
			(SELECT count(*) FROM roltypen WHERE zaaktype_id = $1),
			(SELECT count(*) FROM resultaattypen WHERE zaaktype_id = $1)`,
		zaaktypeID,
	).Scan(&counts.StatusTypen, &counts.RolTypen, &counts.ResultaatTypen)
	if err != nil {
		return ChildCounts{}, fmt.Errorf("count zaaktype children: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) ListRelatedBesluitTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.BesluitType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+besluittypeColumns+` FROM besluittypen
		WHERE id IN (
			SELECT besluittype_id FROM besluittype_zaaktypen WHERE zaaktype_id = $1
		)
		ORDER BY omschrijving
		FOR UPDATE`, zaaktypeID)
	if err != nil {
		return nil, fmt.Errorf("list related besluittypen: %w", mapPgError(err))
	}
	defer rows.Close()

	var out []*models.BesluitType
	for rows.Next() {
		bt, err := scanBesluitType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan related besluittype: %w", err)
		}
		out = append(out, bt)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListRelatedInformatieObjectTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.InformatieObjectType, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+iotColumns+` FROM informatieobjecttypen
		WHERE id IN (
			SELECT informatieobjecttype_id FROM zaaktype_informatieobjecttypen
			WHERE zaaktype_id = $1
		)
		ORDER BY omschrijving
		FOR UPDATE`, zaaktypeID)
	if err != nil {
		return nil, fmt.Errorf("list related informatieobjecttypen: %w", mapPgError(err))
	}
	defer rows.Close()

	var out []*models.InformatieObjectType
	for rows.Next() {
		iot, err := scanInformatieObjectType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan related informatieobjecttype: %w", err)
		}
		out = append(out, iot)
	}
	return out, rows.Err()
}

var familyTables = map[models.TypeKind]string{
	models.KindZaakType:             "zaaktypen",
	models.KindBesluitType:          "besluittypen",
	models.KindInformatieObjectType: "informatieobjecttypen",
}

func (s *PostgresStore) ListVersionFamily(ctx context.Context, kind models.TypeKind, catalogusID uuid.UUID, omschrijving string) ([]Version, error) {
	table, ok := familyTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown type kind %q", kind)
	}
	rows, err := s.q(ctx).Query(ctx, `
		SELECT id, concept, begin_geldigheid, einde_geldigheid
		FROM `+table+`
		WHERE catalogus_id = $1 AND omschrijving = $2
		FOR UPDATE`, catalogusID, omschrijving)
	if err != nil {
		return nil, fmt.Errorf("list version family: %w", mapPgError(err))
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.ID, &v.Concept, &v.Geldigheid.Begin, &v.Geldigheid.Einde); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkPublished(ctx context.Context, refs []models.TypeRef, now time.Time) error {
	q := s.q(ctx)
	for _, ref := range refs {
		table, ok := familyTables[ref.Kind]
		if !ok {
			return fmt.Errorf("unknown type kind %q", ref.Kind)
		}
		tag, err := q.Exec(ctx, `
			UPDATE `+table+` SET concept = FALSE, updated_at = $2
			WHERE id = $1`, ref.ID, now)
		if err != nil {
			return fmt.Errorf("mark %s published: %w", ref.Kind, mapPgError(err))
		}
		if tag.RowsAffected() == 0 {
			return sentinel.ErrNotFound
		}
	}
	return nil
}
