package client

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/storefront/internal/config"
)

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"12.9":    "R$ 12,90",
		"0":       "R$ 0,00",
		"4.5":     "R$ 4,50",
		"7.255":   "R$ 7,26",
		"12345.5": "R$ 12.345,50",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(decimal.RequireFromString(in)), in)
	}
}

func TestPalette(t *testing.T) {
	cfg := config.Client{
		BrandColors:  map[string]string{"PIPPOS": "33", " Café Brasil ": "31"},
		DefaultColor: "36",
	}

	p := NewPalette(cfg, true)
	assert.Equal(t, "33", p.Color("pippos"))
	assert.Equal(t, "31", p.Color("CAFÉ BRASIL"))
	assert.Equal(t, "36", p.Color("Outra"))
	assert.Equal(t, "\x1b[33mPIPPOS\x1b[0m", p.Paint("PIPPOS", "PIPPOS"))

	plain := NewPalette(cfg, false)
	assert.Equal(t, "PIPPOS", plain.Paint("PIPPOS", "PIPPOS"))
}

func TestRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, NewPalette(config.Client{}, false))

	t.Run("Should print the count and one line per product", func(t *testing.T) {
		buf.Reset()
		r.Snapshot(Snapshot{State: StateReady, Items: []Product{
			{ID: 1, Name: "Pipoca", Price: decimal.RequireFromString("4.5"), BrandName: "PIPPOS"},
		}})

		out := buf.String()
		assert.Contains(t, out, "1 produto encontrados\n")
		assert.Contains(t, out, "Pipoca")
		assert.Contains(t, out, "R$ 4,50")
		assert.Contains(t, out, "PIPPOS")
	})

	t.Run("Should print the empty message", func(t *testing.T) {
		buf.Reset()
		r.Snapshot(Snapshot{State: StateReady, Items: []Product{}, Message: EmptyMessage})
		assert.Equal(t, "0 produtos encontrados\n"+EmptyMessage+"\n", buf.String())
	})

	t.Run("Should offer a retry after a failure", func(t *testing.T) {
		buf.Reset()
		r.Snapshot(Snapshot{State: StateFailed, Message: "falhou", CanRetry: true})
		assert.Equal(t, "falhou\nTente novamente.\n", buf.String())
	})

	t.Run("Should print brands and categories", func(t *testing.T) {
		buf.Reset()
		r.Brands([]Brand{{Name: "PIPPOS", Products: []Product{{ID: 1, Name: "Pipoca"}}}})
		r.Categories([]Category{{ID: 2, Name: "Bebidas", Icon: "🥤"}})

		out := buf.String()
		assert.Contains(t, out, "PIPPOS (1)\n")
		assert.Contains(t, out, "R$ 0,00")
		assert.Contains(t, out, "2   🥤 Bebidas\n")
	})
}
