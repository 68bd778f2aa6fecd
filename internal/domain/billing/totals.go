package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/veterinaria-api/internal/domain"
)

// Line entrada del cálculo de totales: una línea de factura con su total
// ya calculado por el caller. El total se verifica contra quantity*unit_price.
type Line struct {
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// Totals montos de la factura. TotalAmount = Subtotal + TaxAmount - DiscountAmount.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// moneyScale precisión monetaria: dos decimales, redondeo mitad-arriba
// (decimal.Round redondea la mitad alejándose de cero; con montos no
// negativos equivale a mitad-arriba).
const moneyScale = 2

// round2 aplica la regla de redondeo monetario.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// CalculateTotals calcula subtotal, impuesto y total de forma pura y determinista.
//
//	subtotal = Σ total_price
//	tax      = round2(subtotal * taxRate)
//	total    = round2(subtotal + tax - discount)
//
// Valida antes de calcular: líneas no vacías, cantidades positivas, precios y
// descuento no negativos, y que cada total_price coincida con
// round2(quantity*unit_price). Un descuento mayor que subtotal+impuesto
// produce total negativo; no se rechaza.
func CalculateTotals(lines []Line, discount, taxRate decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, fmt.Errorf("%w: factura sin líneas", domain.ErrInvalidInput)
	}
	if discount.LessThan(decimal.Zero) {
		return Totals{}, fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	if taxRate.LessThan(decimal.Zero) {
		return Totals{}, fmt.Errorf("%w: tasa de impuesto negativa", domain.ErrInvalidInput)
	}

	subtotal := decimal.Zero
	for i, line := range lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return Totals{}, fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if line.UnitPrice.LessThan(decimal.Zero) {
			return Totals{}, fmt.Errorf("%w: línea %d con precio unitario negativo", domain.ErrInvalidInput, i+1)
		}
		if line.TotalPrice.LessThan(decimal.Zero) {
			return Totals{}, fmt.Errorf("%w: línea %d con total negativo", domain.ErrInvalidInput, i+1)
		}
		// Verificación servidor: el total de línea debe ser cantidad*precio redondeado
		expected := round2(line.Quantity.Mul(line.UnitPrice))
		if !line.TotalPrice.Equal(expected) {
			return Totals{}, fmt.Errorf("%w: línea %d con total %s, esperado %s",
				domain.ErrInvalidInput, i+1, line.TotalPrice.StringFixed(2), expected.StringFixed(2))
		}
		subtotal = subtotal.Add(line.TotalPrice)
	}

	tax := round2(subtotal.Mul(taxRate))
	total := round2(subtotal.Add(tax).Sub(discount))

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    total,
	}, nil
}
