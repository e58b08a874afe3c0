package hka_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/encomiendas-api/pkg/hka"
)

func TestNormalizeBuyerID(t *testing.T) {
	cases := []struct {
		raw, wantType, wantNumber string
	}{
		{"J-12345678-9", "J", "123456789"},
		{"v12345678", "V", "12345678"},
		{"e-8.123.456", "E", "8123456"},
		{"12.345.678", "V", "12345678"},
		{"X-999", "V", "999"},
		{"", "V", "00000000"},
		{"sin cédula", "V", "00000000"},
		{"G", "G", "00000000"},
	}
	for _, tc := range cases {
		gotType, gotNumber := hka.NormalizeBuyerID(tc.raw)
		assert.Equal(t, tc.wantType, gotType, "tipo de %q", tc.raw)
		assert.Equal(t, tc.wantNumber, gotNumber, "número de %q", tc.raw)
	}
}

func TestParseRIF(t *testing.T) {
	idType, number, err := hka.ParseRIF("J-50123456-7")
	require.NoError(t, err)
	assert.Equal(t, "J", idType)
	assert.Equal(t, "501234567", number)

	_, _, err = hka.ParseRIF("")
	assert.Error(t, err, "el RIF del emisor es obligatorio")

	_, _, err = hka.ParseRIF("X-50123456-7")
	assert.Error(t, err, "prefijo fuera del catálogo")

	_, _, err = hka.ParseRIF("J-123")
	assert.Error(t, err, "muy pocos dígitos")
}

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		cur    hka.CurrencyWords
		want   string
	}{
		{"945", hka.Bolivares, "NOVECIENTOS CUARENTA Y CINCO BOLÍVARES"},
		{"990.50", hka.Bolivares, "NOVECIENTOS NOVENTA BOLÍVARES CON CINCUENTA CÉNTIMOS"},
		{"1", hka.Bolivares, "UN BOLÍVAR"},
		{"0.01", hka.Bolivares, "CERO BOLÍVARES CON UN CÉNTIMO"},
		{"100", hka.Dolares, "CIEN DÓLARES"},
		{"101", hka.Dolares, "CIENTO UN DÓLARES"},
		{"21", hka.Dolares, "VEINTIÚN DÓLARES"},
		{"31.21", hka.Dolares, "TREINTA Y UN DÓLARES CON VEINTIÚN CENTAVOS"},
		{"1000", hka.Bolivares, "MIL BOLÍVARES"},
		{"21500", hka.Bolivares, "VEINTIÚN MIL QUINIENTOS BOLÍVARES"},
		{"1000000", hka.Bolivares, "UN MILLÓN DE BOLÍVARES"},
		{"2000000", hka.Dolares, "DOS MILLONES DE DÓLARES"},
		{"3000000.25", hka.Bolivares, "TRES MILLONES DE BOLÍVARES CON VEINTICINCO CÉNTIMOS"},
		{"1500000", hka.Bolivares, "UN MILLÓN QUINIENTOS MIL BOLÍVARES"},
		{"2345678.9", hka.Bolivares, "DOS MILLONES TRESCIENTOS CUARENTA Y CINCO MIL SEISCIENTOS SETENTA Y OCHO BOLÍVARES CON NOVENTA CÉNTIMOS"},
		{"16", hka.Bolivares, "DIECISÉIS BOLÍVARES"},
	}
	for _, tc := range cases {
		got := hka.AmountInWords(decimal.RequireFromString(tc.amount), tc.cur)
		assert.Equal(t, tc.want, got, "monto %s", tc.amount)
	}
}

func TestFormatDateTime_Caracas(t *testing.T) {
	loc, err := hka.LoadLocation("")
	require.NoError(t, err)

	// 2024-03-05 18:07:09 UTC = 14:07:09 en Caracas (UTC-4)
	ts := time.Date(2024, 3, 5, 18, 7, 9, 0, time.UTC).In(loc)
	assert.Equal(t, "05/03/2024", hka.FormatDate(ts))
	assert.Equal(t, "02:07:09 pm", hka.FormatTime(ts))

	morning := time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "09:00:00 am", hka.FormatTime(morning))
}

func TestLoadLocation_Invalida(t *testing.T) {
	_, err := hka.LoadLocation("Marte/Olympus")
	assert.Error(t, err)
}
