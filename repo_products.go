package accounts

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Products stores costed recipes with their entry and snapshot children.
// Children are replaced wholesale on update and removed with the product.
type Products interface {
	List(ctx context.Context, userID uuid.UUID, search string) ([]*Product, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, record *Product) (*Product, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Product) (*Product, error)
	Update(ctx context.Context, record *Product) (*Product, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Product) (*Product, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type products struct {
	db *bun.DB
}

var _ Products = (*products)(nil)

func NewProductsRepository(db *bun.DB) Products {
	return &products{db: db}
}

// List returns the user's products most recently updated first, optionally
// filtered by a case-insensitive name match. Children are not loaded.
func (r *products) List(ctx context.Context, userID uuid.UUID, search string) ([]*Product, error) {
	var records []*Product
	q := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID)

	if search != "" {
		q = q.Where("LOWER(?TableAlias.product_name) LIKE LOWER(?)", "%"+search+"%")
	}

	if err := q.Order("updated_at DESC").Scan(ctx); err != nil {
		return nil, err
	}

	if records == nil {
		records = []*Product{}
	}

	return records, nil
}

func (r *products) GetByID(ctx context.Context, userID, id uuid.UUID) (*Product, error) {
	record := &Product{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Entries").
		Relation("MaterialSnapshots").
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

func (r *products) Create(ctx context.Context, record *Product) (*Product, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := r.CreateTx(ctx, tx, record)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *products) CreateTx(ctx context.Context, tx bun.IDB, record *Product) (*Product, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	if err := r.insertChildrenTx(ctx, tx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *products) Update(ctx context.Context, record *Product) (*Product, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := r.UpdateTx(ctx, tx, record)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateTx rewrites the product row and replaces every child row. Partial
// child updates are not supported, the caller always sends the full set.
func (r *products) UpdateTx(ctx context.Context, tx bun.IDB, record *Product) (*Product, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(record).
		Column(
			"product_name",
			"batch_output_quantity",
			"packaging_cost_per_unit",
			"margin_percentage",
			"total_material_cost",
			"cost_per_unit",
			"final_cost_per_unit",
			"selling_price",
			"updated_at",
		).
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

	if err := r.deleteChildrenTx(ctx, tx, []uuid.UUID{record.ID}); err != nil {
		return nil, err
	}

	if err := r.insertChildrenTx(ctx, tx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *products) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*Product)(nil)).
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

		return r.deleteChildrenTx(ctx, tx, []uuid.UUID{id})
	})
}

// DeleteMany removes the given ids, or every product the user owns when ids
// is empty. Missing ids are ignored.
func (r *products) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var targets []uuid.UUID
		q := tx.NewSelect().
			Model((*Product)(nil)).
			Column("id").
			Where("user_id = ?", userID)

		if len(ids) > 0 {
			q = q.Where("id IN (?)", bun.In(ids))
		}

		if err := q.Scan(ctx, &targets); err != nil {
			return err
		}

		if len(targets) == 0 {
			return nil
		}

		if err := r.deleteChildrenTx(ctx, tx, targets); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*Product)(nil)).
			Where("user_id = ?", userID).
			Where("id IN (?)", bun.In(targets)).
			Exec(ctx)
		return err
	})
}

func (r *products) insertChildrenTx(ctx context.Context, tx bun.IDB, record *Product) error {
	for _, entry := range record.Entries {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		entry.ProductID = record.ID
	}

	for _, snap := range record.MaterialSnapshots {
		if snap.ID == uuid.Nil {
			snap.ID = uuid.New()
		}
		snap.ProductID = record.ID
	}

	if len(record.Entries) > 0 {
		if _, err := tx.NewInsert().Model(&record.Entries).Exec(ctx); err != nil {
			return err
		}
	}

	if len(record.MaterialSnapshots) > 0 {
		if _, err := tx.NewInsert().Model(&record.MaterialSnapshots).Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *products) deleteChildrenTx(ctx context.Context, tx bun.IDB, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}

	if _, err := tx.NewDelete().
		Model((*ProductEntry)(nil)).
		Where("product_id IN (?)", bun.In(productIDs)).
		Exec(ctx); err != nil {
		return err
	}

	_, err := tx.NewDelete().
		Model((*MaterialSnapshot)(nil)).
		Where("product_id IN (?)", bun.In(productIDs)).
		Exec(ctx)
	return err
}
