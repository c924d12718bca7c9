package accounts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Deleting a user is terminal, there is no
// soft delete and no tombstone.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	FullName      string     `bun:"full_name" json:"full_name,omitempty"`
	IsActive      bool       `bun:"is_active,notnull" json:"is_active"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// NormalizeEmail lowercases and trims an email so lookups and the unique
// constraint agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Material is a priced ingredient owned by a single user.
type Material struct {
	bun.BaseModel `bun:"table:materials,alias:mat"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Unit          string     `bun:"unit,notnull" json:"unit,omitempty"`
	PriceAmount   float64    `bun:"price_amount,notnull" json:"price_amount"`
	PriceQuantity float64    `bun:"price_quantity,notnull" json:"price_quantity"`
	MarketPrice   float64    `bun:"market_price_per_unit,notnull" json:"market_price_per_unit"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// RefreshMarketPrice recomputes the derived per unit price. A zero purchase
// quantity yields zero instead of dividing.
func (m *Material) RefreshMarketPrice() {
	if m.PriceQuantity == 0 {
		m.MarketPrice = 0
		return
	}
	m.MarketPrice = m.PriceAmount / m.PriceQuantity
}

// Product is a costed recipe owned by a single user. The costing results are
// flattened onto the row; entries and snapshots are replaced wholesale on
// every update.
type Product struct {
	bun.BaseModel     `bun:"table:products,alias:prd"`
	ID                uuid.UUID           `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID            uuid.UUID           `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	ProductName       string              `bun:"product_name,notnull" json:"product_name,omitempty"`
	BatchOutputQty    float64             `bun:"batch_output_quantity,notnull" json:"batch_output_quantity"`
	PackagingCost     float64             `bun:"packaging_cost_per_unit,notnull" json:"packaging_cost_per_unit"`
	MarginPercentage  float64             `bun:"margin_percentage,notnull" json:"margin_percentage"`
	TotalMaterialCost float64             `bun:"total_material_cost,notnull" json:"total_material_cost"`
	CostPerUnit       float64             `bun:"cost_per_unit,notnull" json:"cost_per_unit"`
	FinalCostPerUnit  float64             `bun:"final_cost_per_unit,notnull" json:"final_cost_per_unit"`
	SellingPrice      float64             `bun:"selling_price,notnull" json:"selling_price"`
	Entries           []*ProductEntry     `bun:"rel:has-many,join:id=product_id" json:"entries,omitempty"`
	MaterialSnapshots []*MaterialSnapshot `bun:"rel:has-many,join:id=product_id" json:"material_snapshots,omitempty"`
	CreatedAt         *time.Time          `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time          `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Result returns the flattened costing figures.
func (p *Product) Result() CalculationResult {
	return CalculationResult{
		TotalMaterialCost: p.TotalMaterialCost,
		CostPerUnit:       p.CostPerUnit,
		FinalCostPerUnit:  p.FinalCostPerUnit,
		SellingPrice:      p.SellingPrice,
	}
}

// CalculationResult holds the derived costing figures of a product batch.
type CalculationResult struct {
	TotalMaterialCost float64 `json:"total_material_cost"`
	CostPerUnit       float64 `json:"cost_per_unit"`
	FinalCostPerUnit  float64 `json:"final_cost_per_unit"`
	SellingPrice      float64 `json:"selling_price"`
}

// ProductEntry links a product to a material with the quantity expression the
// user typed. MaterialID is nil when the referenced material was removed.
type ProductEntry struct {
	bun.BaseModel `bun:"table:product_entries,alias:pent"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProductID     uuid.UUID  `bun:"product_id,notnull,type:uuid" json:"product_id,omitempty"`
	MaterialID    *uuid.UUID `bun:"material_id,type:uuid" json:"material_id,omitempty"`
	QuantityStr   string     `bun:"quantity_str,notnull" json:"quantity_str"`
}

// MaterialSnapshot freezes the material pricing a product was costed with so
// later material edits do not rewrite history.
type MaterialSnapshot struct {
	bun.BaseModel `bun:"table:material_snapshots,alias:msnp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProductID     uuid.UUID  `bun:"product_id,notnull,type:uuid" json:"product_id,omitempty"`
	MaterialID    *uuid.UUID `bun:"material_id,type:uuid" json:"material_id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name"`
	Unit          string     `bun:"unit,notnull" json:"unit"`
	PriceAmount   float64    `bun:"price_amount,notnull" json:"price_amount"`
	PriceQuantity float64    `bun:"price_quantity,notnull" json:"price_quantity"`
	MarketPrice   float64    `bun:"market_price_per_unit,notnull" json:"market_price_per_unit"`
	QuantityUsed  float64    `bun:"quantity_used,notnull" json:"quantity_used"`
	LineCost      float64    `bun:"line_cost,notnull" json:"line_cost"`
}
