package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
)

func TestSalePerOunce(t *testing.T) {
	assert.Equal(t, 0.875, engine.SalePerOunce(0.35, 150))
	assert.Equal(t, 0.35, engine.SalePerOunce(0.35, 0))
	assert.Equal(t, 0.0, engine.SalePerOunce(0, 150))
}

func TestTrayPrice(t *testing.T) {
	cfg := engine.DefaultPricingConfig()

	tests := []struct {
		name string
		cost float64
		want map[model.TraySize]float64
	}{
		{
			name: "cheap dish hits minimums except small",
			cost: 0.12,
			want: map[model.TraySize]float64{
				model.TraySmall: 30, model.TrayMedium: 50, model.TrayLarge: 80, model.TrayExtraLarge: 125,
			},
		},
		{
			name: "in band rounds up to ten",
			cost: 0.21,
			want: map[model.TraySize]float64{
				model.TraySmall: 40, model.TrayMedium: 70, model.TrayLarge: 120, model.TrayExtraLarge: 180,
			},
		},
		{
			name: "exact multiple stays",
			cost: 0.2,
			want: map[model.TraySize]float64{
				model.TraySmall: 40, model.TrayMedium: 60, model.TrayLarge: 110, model.TrayExtraLarge: 170,
			},
		},
		{
			name: "expensive dish capped",
			cost: 0.35,
			want: map[model.TraySize]float64{
				model.TraySmall: 40, model.TrayMedium: 80, model.TrayLarge: 150, model.TrayExtraLarge: 250,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, spec := range cfg.Trays {
				got := engine.TrayPrice(tt.cost, spec, cfg.MarginPct)
				assert.Equal(t, tt.want[spec.Size], got, string(spec.Size))
				assert.GreaterOrEqual(t, got, spec.MinPrice)
				assert.LessOrEqual(t, got, spec.MaxPrice)
			}
		})
	}
}

func TestPiecePrice(t *testing.T) {
	cfg := engine.DefaultPricingConfig()

	tests := []struct {
		name     string
		cost     float64
		minPrice float64
		want     float64
	}{
		{name: "rounds up", cost: 1.5, minPrice: 1, want: 4},
		{name: "whole dollars stay", cost: 1.2, minPrice: 1, want: 3},
		{name: "below a dollar ceils to one", cost: 0.1, minPrice: 1, want: 1},
		{name: "minimum wins", cost: 0.1, minPrice: 1.5, want: 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.MinPiecePrice = tt.minPrice
			assert.Equal(t, tt.want, engine.PiecePrice(tt.cost, cfg))
		})
	}
}

func TestDerivePrices(t *testing.T) {
	cfg := engine.DefaultPricingConfig()
	now := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)

	t.Run("tray dish", func(t *testing.T) {
		got := engine.DerivePrices(model.MenuItem{ID: "bc", Name: "Butter Chicken", Category: "Main Course", Cost: 0.21}, cfg, now)
		assert.Equal(t, model.KindTray, got.Kind)
		assert.Equal(t, model.CourseMain, got.Course)
		assert.Equal(t, model.TierA, got.Tier)
		assert.True(t, got.NonVeg)
		assert.Equal(t, 0.525, got.SalePrice)
		assert.Equal(t, 120.0, got.PriceFor(model.TrayLarge))
		assert.Zero(t, got.PiecePrice)
		assert.Equal(t, now, got.UpdatedAt)
	})

	t.Run("per piece dish", func(t *testing.T) {
		got := engine.DerivePrices(model.MenuItem{ID: "samosa", Name: "Samosa", Category: "Appetizers", Kind: model.KindPerPiece, Cost: 0.6}, cfg, now)
		assert.Equal(t, model.CourseAppetizer, got.Course)
		assert.Equal(t, 2.0, got.PiecePrice)
		assert.Nil(t, got.TrayPrices)
		assert.False(t, got.NonVeg)
	})

	t.Run("deterministic", func(t *testing.T) {
		in := model.MenuItem{ID: "dal", Name: "Dal", Category: "Curries", Cost: 0.17, Tier: "b"}
		assert.Equal(t, engine.DerivePrices(in, cfg, now), engine.DerivePrices(in, cfg, now))
	})
}
