package client

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatPrice renders price in Brazilian reais, e.g. "R$ 12,90".
func FormatPrice(price decimal.Decimal) string {
	return "R$ " + ptBR.Sprint(number.Decimal(price.Round(2).InexactFloat64(), number.Scale(2)))
}

// Renderer prints catalog views as plain terminal text.
type Renderer struct {
	w       io.Writer
	palette Palette
}

func NewRenderer(w io.Writer, palette Palette) *Renderer {
	return &Renderer{w: w, palette: palette}
}

// Snapshot prints the state of a product view.
func (r *Renderer) Snapshot(snap Snapshot) {
	switch snap.State {
	case StateLoading:
		fmt.Fprintln(r.w, snap.Message)
	case StateFailed:
		fmt.Fprintln(r.w, snap.Message)
		if snap.CanRetry {
			fmt.Fprintln(r.w, "Tente novamente.")
		}
	case StateReady:
		r.Products(snap.Items)
		if len(snap.Items) == 0 {
			fmt.Fprintln(r.w, snap.Message)
		}
	}
}

func (r *Renderer) Products(items []Product) {
	noun := "produtos"
	if len(items) == 1 {
		noun = "produto"
	}
	fmt.Fprintf(r.w, "%d %s encontrados\n", len(items), noun)
	for _, p := range items {
		label := p.Label()
		line := fmt.Sprintf("#%-4d %-32s %12s", p.ID, p.Name, FormatPrice(p.Price))
		if label != "" {
			line += "  " + r.palette.Paint(label, label)
		}
		fmt.Fprintln(r.w, line)
	}
}

func (r *Renderer) Brands(brands []Brand) {
	for _, b := range brands {
		fmt.Fprintf(r.w, "%s (%d)\n", r.palette.Paint(b.Name, b.Name), len(b.Products))
		for _, p := range b.Products {
			fmt.Fprintf(r.w, "  #%-4d %-30s %12s\n", p.ID, p.Name, FormatPrice(p.Price))
		}
	}
}

func (r *Renderer) Categories(categories []Category) {
	for _, c := range categories {
		fmt.Fprintf(r.w, "%-3d %s %s\n", c.ID, c.Icon, c.Name)
	}
}
