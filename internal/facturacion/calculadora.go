// Package facturacion computes invoice numbers and sale totals.
// Everything here is pure: no I/O, no clock, no store access.
package facturacion

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// PrefijoDefault is used when the tenant never configured a prefix.
	PrefijoDefault = "FAC"
	// IVADefault is the fallback tax rate percentage.
	IVADefault = "19"

	numeroDigits = 6
)

// Linea is one requested sale line. Subtotal arrives precomputed by the
// caller (cantidad × precio − descuento) and is summed as-is.
type Linea struct {
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Descuento      decimal.Decimal
	Subtotal       decimal.Decimal
}

// Totales is the result of computing one invoice.
type Totales struct {
	NumeroFactura string
	// Contador is the advanced counter value, to be persisted back to the
	// tenant configuration (stored as a string there).
	Contador  int64
	Subtotal  decimal.Decimal
	IVA       decimal.Decimal
	Descuento decimal.Decimal
	Total     decimal.Decimal
}

// ParseContador parses the stored invoice counter. Absent or malformed
// values count as 0 — a fresh tenant has no configuracion row yet.
func ParseContador(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseIVA parses the stored tax rate percentage, falling back to the
// default when absent or malformed.
func ParseIVA(s string) decimal.Decimal {
	if s == "" {
		s = IVADefault
	}
	pct, err := decimal.NewFromString(s)
	if err != nil {
		pct, _ = decimal.NewFromString(IVADefault)
	}
	return pct
}

// FormatContador renders the counter back to its stored string form.
func FormatContador(n int64) string {
	return strconv.FormatInt(n, 10)
}

// NumeroFactura formats an invoice number: prefix plus the counter
// zero-padded to six digits.
func NumeroFactura(prefijo string, contador int64) string {
	if prefijo == "" {
		prefijo = PrefijoDefault
	}
	return fmt.Sprintf("%s%0*d", prefijo, numeroDigits, contador)
}

// Calcular advances the counter and computes the invoice totals:
//
//	subtotal = Σ linea.Subtotal
//	iva      = (subtotal − descuento) × pct/100
//	total    = subtotal + iva − descuento
//
// There is deliberately no check that descuento ≤ subtotal: an over-discount
// produces a negative total, matching the issued-invoice arithmetic this
// system has always used.
func Calcular(contadorPrevio string, prefijo string, ivaPct string, lineas []Linea, descuento decimal.Decimal) Totales {
	contador := ParseContador(contadorPrevio) + 1

	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(l.Subtotal)
	}

	pct := ParseIVA(ivaPct)
	iva := subtotal.Sub(descuento).Mul(pct).Div(decimal.NewFromInt(100))
	total := subtotal.Add(iva).Sub(descuento)

	return Totales{
		NumeroFactura: NumeroFactura(prefijo, contador),
		Contador:      contador,
		Subtotal:      subtotal,
		IVA:           iva,
		Descuento:     descuento,
		Total:         total,
	}
}
