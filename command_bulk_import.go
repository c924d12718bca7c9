package accounts

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ImportMaterialLine is one material row of a bulk import payload.
type ImportMaterialLine struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	PriceAmount   float64 `json:"price_amount"`
	PriceQuantity float64 `json:"price_quantity"`
}

// ImportProductLine is one product row of a bulk import payload. Rows sharing
// a product name form the entries of a single product.
type ImportProductLine struct {
	ProductName      string  `json:"product_name"`
	BatchOutputQty   float64 `json:"batch_output_quantity"`
	PackagingCost    float64 `json:"packaging_cost_per_unit"`
	MarginPercentage float64 `json:"margin_percentage"`
	MaterialName     string  `json:"material_name"`
	QuantityUsed     float64 `json:"quantity_used"`
}

// ImportRowError describes one rejected import row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	MaterialsAdded      int              `json:"materials_added"`
	MaterialsDuplicated int              `json:"materials_duplicated"`
	ProductsAdded       int              `json:"products_added"`
	ProductsSkipped     int              `json:"products_skipped"`
	Errors              []ImportRowError `json:"errors"`
}

type BulkImportMessage struct {
	UserID       uuid.UUID           `json:"user_id"`
	Materials    []ImportMaterialLine `json:"materials"`
	ProductLines []ImportProductLine  `json:"product_lines"`
	OnResponse   func(*ImportResult)
}

func (e BulkImportMessage) Type() string { return "costing.bulk_import" }

type BulkImportHandler struct {
	repo RepositoryManager
}

func NewBulkImportHandler(repo RepositoryManager) *BulkImportHandler {
	return &BulkImportHandler{repo: repo}
}

func (h *BulkImportHandler) Execute(ctx context.Context, event BulkImportMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during bulk import",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *BulkImportHandler) execute(ctx context.Context, event BulkImportMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	result := &ImportResult{Errors: []ImportRowError{}}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		byName, err := h.importMaterials(ctx, tx, event, result)
		if err != nil {
			return err
		}
		return h.importProducts(ctx, tx, event, byName, result)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "bulk import transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(result)
	}

	return nil
}

// importMaterials inserts the incoming materials, skipping rows whose name
// already exists for this user under case-insensitive comparison. It returns
// the combined lookup table keyed by lowercase name.
func (h *BulkImportHandler) importMaterials(ctx context.Context, tx bun.Tx, event BulkImportMessage, result *ImportResult) (map[string]*Material, error) {
	var existing []*Material
	if err := tx.NewSelect().
		Model(&existing).
		Where("?TableAlias.user_id = ?", event.UserID).
		Scan(ctx); err != nil {
		return nil, err
	}

	byName := make(map[string]*Material, len(existing)+len(event.Materials))
	for _, mat := range existing {
		byName[strings.ToLower(mat.Name)] = mat
	}

	for _, line := range event.Materials {
		key := strings.ToLower(line.Name)
		if _, ok := byName[key]; ok {
			result.MaterialsDuplicated++
			continue
		}

		record := &Material{
			UserID:        event.UserID,
			Name:          line.Name,
			Unit:          line.Unit,
			PriceAmount:   line.PriceAmount,
			PriceQuantity: line.PriceQuantity,
		}

		record, err := h.repo.Materials().CreateTx(ctx, tx, record)
		if err != nil {
			return nil, err
		}

		byName[key] = record
		result.MaterialsAdded++
	}

	return byName, nil
}

// importProducts groups the product lines by name, prices each group off the
// material table, and skips any product referencing an unknown material while
// recording a row error for it.
func (h *BulkImportHandler) importProducts(ctx context.Context, tx bun.Tx, event BulkImportMessage, byName map[string]*Material, result *ImportResult) error {
	var order []string
	groups := map[string][]ImportProductLine{}
	for _, line := range event.ProductLines {
		if _, ok := groups[line.ProductName]; !ok {
			order = append(order, line.ProductName)
		}
		groups[line.ProductName] = append(groups[line.ProductName], line)
	}

	for rowOffset, productName := range order {
		lines := groups[productName]
		first := lines[0]

		var entries []*ProductEntry
		var snapshots []*MaterialSnapshot
		totalMaterialCost := 0.0
		skip := false

		for lineIdx, line := range lines {
			mat, ok := byName[strings.ToLower(line.MaterialName)]
			if !ok {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowOffset + lineIdx,
					Field:   "material_name",
					Message: fmt.Sprintf("Material '%s' not found", line.MaterialName),
				})
				skip = true
				continue
			}

			marketPrice := 0.0
			if mat.PriceQuantity != 0 {
				marketPrice = mat.PriceAmount / mat.PriceQuantity
			}
			lineCost := marketPrice * line.QuantityUsed
			totalMaterialCost += lineCost

			materialID := mat.ID
			entries = append(entries, &ProductEntry{
				MaterialID:  &materialID,
				QuantityStr: strconv.FormatFloat(line.QuantityUsed, 'f', -1, 64),
			})
			snapshots = append(snapshots, &MaterialSnapshot{
				MaterialID:    &materialID,
				Name:          mat.Name,
				Unit:          mat.Unit,
				PriceAmount:   mat.PriceAmount,
				PriceQuantity: mat.PriceQuantity,
				MarketPrice:   marketPrice,
				QuantityUsed:  line.QuantityUsed,
				LineCost:      lineCost,
			})
		}

		if skip {
			result.ProductsSkipped++
			continue
		}

		costing := CostBatch(totalMaterialCost, first.BatchOutputQty, first.PackagingCost, first.MarginPercentage)

		product := &Product{
			UserID:            event.UserID,
			ProductName:       productName,
			BatchOutputQty:    first.BatchOutputQty,
			PackagingCost:     first.PackagingCost,
			MarginPercentage:  first.MarginPercentage,
			TotalMaterialCost: costing.TotalMaterialCost,
			CostPerUnit:       costing.CostPerUnit,
			FinalCostPerUnit:  costing.FinalCostPerUnit,
			SellingPrice:      costing.SellingPrice,
			Entries:           entries,
			MaterialSnapshots: snapshots,
		}

		if _, err := h.repo.Products().CreateTx(ctx, tx, product); err != nil {
			return err
		}

		result.ProductsAdded++
	}

	return nil
}

// CostBatch derives the per unit costing figures for a product batch. A zero
// batch output yields a zero unit cost instead of dividing.
func CostBatch(totalMaterialCost, batchOutputQty, packagingCost, marginPercentage float64) CalculationResult {
	costPerUnit := 0.0
	if batchOutputQty != 0 {
		costPerUnit = totalMaterialCost / batchOutputQty
	}

	finalCostPerUnit := costPerUnit + packagingCost
	sellingPrice := finalCostPerUnit * (1 + marginPercentage/100.0)

	return CalculationResult{
		TotalMaterialCost: totalMaterialCost,
		CostPerUnit:       costPerUnit,
		FinalCostPerUnit:  finalCostPerUnit,
		SellingPrice:      sellingPrice,
	}
}
