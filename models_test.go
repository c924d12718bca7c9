package accounts_test

import (
	"testing"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, accounts.NormalizeEmail(tt.in))
	}
}

func TestMaterialRefreshMarketPrice(t *testing.T) {
	m := &accounts.Material{PriceAmount: 10, PriceQuantity: 1000}
	m.RefreshMarketPrice()
	assert.InDelta(t, 0.01, m.MarketPrice, 1e-9)

	m.PriceQuantity = 0
	m.RefreshMarketPrice()
	assert.Zero(t, m.MarketPrice)
}

func TestProductResult(t *testing.T) {
	p := &accounts.Product{
		TotalMaterialCost: 5.8,
		CostPerUnit:       0.58,
		FinalCostPerUnit:  1.08,
		SellingPrice:      1.512,
	}

	got := p.Result()
	assert.InDelta(t, 5.8, got.TotalMaterialCost, 1e-9)
	assert.InDelta(t, 0.58, got.CostPerUnit, 1e-9)
	assert.InDelta(t, 1.08, got.FinalCostPerUnit, 1e-9)
	assert.InDelta(t, 1.512, got.SellingPrice, 1e-9)
}
