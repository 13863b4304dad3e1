package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformOther(t *testing.T) {
	assert.Equal(t, PlatformEbay, PlatformAmazon.Other())
	assert.Equal(t, PlatformAmazon, PlatformEbay.Other())
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"amazon", PlatformAmazon, false},
		{" EBAY ", PlatformEbay, false},
		{"walmart", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductIdentifier(t *testing.T) {
	t.Run("prefers UPC over EAN", func(t *testing.T) {
		p := Product{UPC: "012345678905", EAN: "4006381333931"}
		assert.Equal(t, "012345678905", p.Identifier())
	})

	t.Run("falls back to EAN", func(t *testing.T) {
		p := Product{EAN: "4006381333931"}
		assert.Equal(t, "4006381333931", p.Identifier())
	})

	t.Run("blank UPC is treated as absent", func(t *testing.T) {
		p := Product{UPC: "  ", EAN: "4006381333931"}
		assert.Equal(t, "4006381333931", p.Identifier())
	})

	t.Run("empty when neither is present", func(t *testing.T) {
		p := Product{}
		assert.Empty(t, p.Identifier())
	})
}

func TestValidateProduct(t *testing.T) {
	valid := func() *Product {
		return &Product{
			Platform:   PlatformAmazon,
			PlatformID: "B08N5WRWNW",
			Title:      "Echo Dot",
			Price:      NewMoney(49.99, "USD"),
			Rating:     Rating{Average: 4.7, Count: 1200},
		}
	}

	t.Run("accepts a well formed product", func(t *testing.T) {
		assert.NoError(t, ValidateProduct(valid()))
	})

	t.Run("rejects nil", func(t *testing.T) {
		assert.ErrorIs(t, ValidateProduct(nil), ErrInvalidProduct)
	})

	tests := []struct {
		name   string
		mutate func(p *Product)
	}{
		{"missing platform id", func(p *Product) { p.PlatformID = "" }},
		{"missing title", func(p *Product) { p.Title = "" }},
		{"unknown platform", func(p *Product) { p.Platform = "walmart" }},
		{"negative price", func(p *Product) { p.Price.Amount = decimal.NewFromInt(-1) }},
		{"rating above five", func(p *Product) { p.Rating.Average = 5.5 }},
		{"negative review count", func(p *Product) { p.Rating.Count = -3 }},
		{"negative shipping", func(p *Product) {
			m := NewMoney(-2, "USD")
			p.ShippingCost = &m
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			assert.ErrorIs(t, ValidateProduct(p), ErrInvalidProduct)
		})
	}
}
