package accounts

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Materials is the per-user material store. Every operation is scoped by the
// owning user; rows owned by someone else behave as if they do not exist.
type Materials interface {
	List(ctx context.Context, userID uuid.UUID, search string) ([]*Material, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Material, error)
	Create(ctx context.Context, record *Material) (*Material, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Material) (*Material, error)
	Update(ctx context.Context, record *Material) (*Material, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type materials struct {
	db *bun.DB
}

var _ Materials = (*materials)(nil)

func NewMaterialsRepository(db *bun.DB) Materials {
	return &materials{db: db}
}

// List returns the user's materials newest first, optionally filtered by a
// case-insensitive name match.
func (r *materials) List(ctx context.Context, userID uuid.UUID, search string) ([]*Material, error) {
	var records []*Material
	q := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID)

	if search != "" {
		q = q.Where("LOWER(?TableAlias.name) LIKE LOWER(?)", "%"+search+"%")
	}

	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}

	if records == nil {
		records = []*Material{}
	}

	return records, nil
}

func (r *materials) GetByID(ctx context.Context, userID, id uuid.UUID) (*Material, error) {
	record := &Material{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ? AND ?TableAlias.user_id = ?", id, userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id":      id.String(),
					"user_id": userID.String(),
				})
		}
		return nil, err
	}
	return record, nil
}

func (r *materials) Create(ctx context.Context, record *Material) (*Material, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *materials) CreateTx(ctx context.Context, tx bun.IDB, record *Material) (*Material, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.RefreshMarketPrice()

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *materials) Update(ctx context.Context, record *Material) (*Material, error) {
	record.RefreshMarketPrice()
	now := time.Now()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		Column("name", "unit", "price_amount", "price_quantity", "market_price_per_unit", "updated_at").
		Where("?TableAlias.id = ? AND ?TableAlias.user_id = ?", record.ID, record.UserID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id":      record.ID.String(),
				"user_id": record.UserID.String(),
			})
	}

	return record, nil
}

func (r *materials) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Material)(nil)).
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id":      id.String(),
				"user_id": userID.String(),
			})
	}

	return nil
}

// DeleteMany removes the given ids, or every material the user owns when ids
// is empty. Missing ids are ignored.
func (r *materials) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	q := r.db.NewDelete().
		Model((*Material)(nil)).
		Where("user_id = ?", userID)

	if len(ids) > 0 {
		q = q.Where("id IN (?)", bun.In(ids))
	}

	_, err := q.Exec(ctx)
	return err
}
