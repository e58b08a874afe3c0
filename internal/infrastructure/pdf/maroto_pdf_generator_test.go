package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/pdf"
)

func sampleInvoice() *entity.Invoice {
	d := decimal.RequireFromString
	return &entity.Invoice{
		InvoiceNumber: "A-000042",
		ControlNumber: "00000042",
		Date:          time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Guide: entity.Guide{
			Sender:   entity.Party{IDNumber: "V-12345678", Name: "María Pérez"},
			Receiver: entity.Party{IDNumber: "V-87654321", Name: "José Rodríguez", Address: "Maracay"},
			Merchandise: []entity.MerchandiseItem{
				{Quantity: d("2"), Weight: d("4.5"), Description: "Cajas"},
			},
		},
		Charges:      entity.Charges{Freight: d("800"), Handling: d("100"), Insurance: d("60"), Ipostel: d("30"), DiscountAmount: d("45")},
		TotalAmount:  d("945"),
		ExchangeRate: decimal.NewNullDecimal(d("36.5")),
		HKAStatus:    entity.HKAStatusSent,
	}
}

func TestGenerate_ProducePDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	out, err := g.Generate(sampleInvoice(), &entity.Office{Code: "A", Name: "La Guaira"}, &entity.CompanyInfo{
		RIF: "J-50123456-7", Name: "Cooperativa", Address: "La Guaira",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerate_SinEmpresaNiMercancia(t *testing.T) {
	inv := sampleInvoice()
	inv.Guide.Merchandise = nil
	inv.ExchangeRate = decimal.NullDecimal{}
	inv.Status = entity.InvoiceStatusVoided

	out, err := pdf.NewMarotoPDFGenerator().Generate(inv, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerate_FacturaNula(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().Generate(nil, nil, nil)
	assert.Error(t, err)
}
