package accounts_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkImportMaterialsAndProducts(t *testing.T) {
	db := setupTestDB(t)
	repo := accounts.NewRepositoryManager(db)
	handler := accounts.NewBulkImportHandler(repo)
	ctx := context.Background()
	userID := uuid.New()

	var result *accounts.ImportResult
	err := handler.Execute(ctx, accounts.BulkImportMessage{
		UserID: userID,
		Materials: []accounts.ImportMaterialLine{
			{Name: "Flour", Unit: "g", PriceAmount: 10, PriceQuantity: 1000},
			{Name: "Sugar", Unit: "g", PriceAmount: 8, PriceQuantity: 1000},
		},
		ProductLines: []accounts.ImportProductLine{
			{ProductName: "Bread", BatchOutputQty: 10, PackagingCost: 0.5, MarginPercentage: 40, MaterialName: "Flour", QuantityUsed: 500},
			{ProductName: "Bread", BatchOutputQty: 10, PackagingCost: 0.5, MarginPercentage: 40, MaterialName: "Sugar", QuantityUsed: 100},
		},
		OnResponse: func(r *accounts.ImportResult) { result = r },
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.MaterialsAdded)
	assert.Zero(t, result.MaterialsDuplicated)
	assert.Equal(t, 1, result.ProductsAdded)
	assert.Zero(t, result.ProductsSkipped)
	assert.Empty(t, result.Errors)

	materials, err := repo.Materials().List(ctx, userID, "")
	require.NoError(t, err)
	assert.Len(t, materials, 2)

	productsList, err := repo.Products().List(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, productsList, 1)

	product, err := repo.Products().GetByID(ctx, userID, productsList[0].ID)
	require.NoError(t, err)

	assert.Equal(t, "Bread", product.ProductName)
	require.Len(t, product.Entries, 2)
	require.Len(t, product.MaterialSnapshots, 2)

	// flour 500g at 0.01/g plus sugar 100g at 0.008/g
	assert.InDelta(t, 5.8, product.TotalMaterialCost, 1e-9)
	assert.InDelta(t, 0.58, product.CostPerUnit, 1e-9)
	assert.InDelta(t, 1.08, product.FinalCostPerUnit, 1e-9)
	assert.InDelta(t, 1.08*1.4, product.SellingPrice, 1e-9)
}

func TestBulkImportSkipsDuplicateMaterials(t *testing.T) {
	db := setupTestDB(t)
	repo := accounts.NewRepositoryManager(db)
	handler := accounts.NewBulkImportHandler(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Materials().Create(ctx, &accounts.Material{
		UserID:        userID,
		Name:          "Flour",
		Unit:          "g",
		PriceAmount:   10,
		PriceQuantity: 1000,
	})
	require.NoError(t, err)

	var result *accounts.ImportResult
	err = handler.Execute(ctx, accounts.BulkImportMessage{
		UserID: userID,
		Materials: []accounts.ImportMaterialLine{
			{Name: "FLOUR", Unit: "g", PriceAmount: 99, PriceQuantity: 1},
			{Name: "Sugar", Unit: "g", PriceAmount: 8, PriceQuantity: 1000},
		},
		OnResponse: func(r *accounts.ImportResult) { result = r },
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.MaterialsAdded)
	assert.Equal(t, 1, result.MaterialsDuplicated)

	materials, err := repo.Materials().List(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, materials, 2)

	flour, err := repo.Materials().List(ctx, userID, "flour")
	require.NoError(t, err)
	require.Len(t, flour, 1)
	assert.InDelta(t, 10, flour[0].PriceAmount, 1e-9)
}

func TestBulkImportUnknownMaterialSkipsProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := accounts.NewRepositoryManager(db)
	handler := accounts.NewBulkImportHandler(repo)
	ctx := context.Background()
	userID := uuid.New()

	var result *accounts.ImportResult
	err := handler.Execute(ctx, accounts.BulkImportMessage{
		UserID: userID,
		Materials: []accounts.ImportMaterialLine{
			{Name: "Flour", Unit: "g", PriceAmount: 10, PriceQuantity: 1000},
		},
		ProductLines: []accounts.ImportProductLine{
			{ProductName: "Bread", BatchOutputQty: 10, MaterialName: "Flour", QuantityUsed: 500},
			{ProductName: "Mystery Cake", BatchOutputQty: 5, MaterialName: "Unicorn Dust", QuantityUsed: 1},
		},
		OnResponse: func(r *accounts.ImportResult) { result = r },
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.ProductsAdded)
	assert.Equal(t, 1, result.ProductsSkipped)
	require.Len(t, result.Errors, 1)

	rowErr := result.Errors[0]
	assert.Equal(t, "material_name", rowErr.Field)
	assert.Equal(t, "Material 'Unicorn Dust' not found", rowErr.Message)

	productsList, err := repo.Products().List(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, productsList, 1)
	assert.Equal(t, "Bread", productsList[0].ProductName)
}

func TestBulkImportCancelledContext(t *testing.T) {
	db := setupTestDB(t)
	repo := accounts.NewRepositoryManager(db)
	handler := accounts.NewBulkImportHandler(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, accounts.BulkImportMessage{UserID: uuid.New()})
	require.Error(t, err)
}

func TestCostBatch(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		batch     float64
		packaging float64
		margin    float64
		want      accounts.CalculationResult
	}{
		{
			name:      "typical batch",
			total:     100,
			batch:     50,
			packaging: 0.5,
			margin:    40,
			want: accounts.CalculationResult{
				TotalMaterialCost: 100,
				CostPerUnit:       2,
				FinalCostPerUnit:  2.5,
				SellingPrice:      3.5,
			},
		},
		{
			name:   "zero batch output",
			total:  100,
			batch:  0,
			margin: 40,
			want: accounts.CalculationResult{
				TotalMaterialCost: 100,
				CostPerUnit:       0,
				FinalCostPerUnit:  0,
				SellingPrice:      0,
			},
		},
		{
			name:  "zero margin sells at cost",
			total: 10,
			batch: 10,
			want: accounts.CalculationResult{
				TotalMaterialCost: 10,
				CostPerUnit:       1,
				FinalCostPerUnit:  1,
				SellingPrice:      1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounts.CostBatch(tt.total, tt.batch, tt.packaging, tt.margin)
			assert.InDelta(t, tt.want.TotalMaterialCost, got.TotalMaterialCost, 1e-9)
			assert.InDelta(t, tt.want.CostPerUnit, got.CostPerUnit, 1e-9)
			assert.InDelta(t, tt.want.FinalCostPerUnit, got.FinalCostPerUnit, 1e-9)
			assert.InDelta(t, tt.want.SellingPrice, got.SellingPrice, 1e-9)
		})
	}
}
