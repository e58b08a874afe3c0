// Package billing contiene las reglas puras de facturación de encomiendas:
// cálculo de totales, formato de correlativos y transiciones de estado.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ComputeTotals resuelve el descuento efectivo y el total a cobrar:
//
//	subtotal = flete + manejo + seguro + ipostel
//	descuento = DiscountAmount si > 0; si no, subtotal * DiscountPercentage / 100 (2 decimales)
//	total = subtotal - descuento
//
// El total que envíe el cliente HTTP nunca se usa.
func ComputeTotals(c entity.Charges) (entity.Charges, decimal.Decimal, error) {
	var bad []string
	check := func(name string, v decimal.Decimal) {
		if v.IsNegative() {
			bad = append(bad, name+" no puede ser negativo")
		}
	}
	check("montoFlete", c.Freight)
	check("montoManejo", c.Handling)
	check("seguro", c.Insurance)
	check("ipostel", c.Ipostel)
	check("descuento", c.DiscountAmount)
	check("porcentajeDescuento", c.DiscountPercentage)
	if c.DiscountPercentage.GreaterThan(hundred) {
		bad = append(bad, "porcentajeDescuento no puede superar 100")
	}
	if len(bad) > 0 {
		return entity.Charges{}, decimal.Zero, domain.NewValidationError(bad...)
	}

	subtotal := c.Freight.Add(c.Handling).Add(c.Insurance).Add(c.Ipostel)
	discount := c.DiscountAmount
	if !discount.IsPositive() && c.DiscountPercentage.IsPositive() {
		discount = subtotal.Mul(c.DiscountPercentage).Div(hundred).Round(2)
	}
	if discount.GreaterThan(subtotal) {
		return entity.Charges{}, decimal.Zero, domain.NewValidationError("el descuento no puede superar la suma de los cargos")
	}
	c.DiscountAmount = discount.Round(2)
	return c, subtotal.Sub(c.DiscountAmount).Round(2), nil
}
