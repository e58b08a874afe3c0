package hka

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CurrencyWords nombres de la moneda para MontoEnLetras.
type CurrencyWords struct {
	Singular      string
	Plural        string
	CentsSingular string
	CentsPlural   string
}

var (
	// Bolivares moneda de curso legal.
	Bolivares = CurrencyWords{Singular: "bolívar", Plural: "bolívares", CentsSingular: "céntimo", CentsPlural: "céntimos"}
	// Dolares moneda del bloque TotalesOtraMoneda.
	Dolares = CurrencyWords{Singular: "dólar", Plural: "dólares", CentsSingular: "centavo", CentsPlural: "centavos"}
)

var upperES = cases.Upper(language.Spanish)

var (
	unidades = [...]string{"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	especiales = [...]string{
		"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve",
		"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve",
	}
	decenas  = [...]string{"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	centenas = [...]string{"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}
)

// AmountInWords expresa un monto en letras (mayúsculas), p.ej. 990.50 →
// "NOVECIENTOS NOVENTA BOLÍVARES CON CINCUENTA CÉNTIMOS". El monto se redondea a 2 decimales;
// los negativos se expresan por su valor absoluto.
func AmountInWords(amount decimal.Decimal, cur CurrencyWords) string {
	amount = amount.Abs().Round(2)
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	if whole == 0 {
		b.WriteString("cero")
	} else {
		b.WriteString(integerWords(whole, true))
		if whole%1_000_000 == 0 {
			// "un millón de bolívares", "dos millones de dólares"
			b.WriteString(" de")
		}
	}
	b.WriteByte(' ')
	if whole == 1 {
		b.WriteString(cur.Singular)
	} else {
		b.WriteString(cur.Plural)
	}
	if cents > 0 {
		b.WriteString(" con ")
		b.WriteString(integerWords(cents, true))
		b.WriteByte(' ')
		if cents == 1 {
			b.WriteString(cur.CentsSingular)
		} else {
			b.WriteString(cur.CentsPlural)
		}
	}
	return upperES.String(b.String())
}

// integerWords convierte n (0 < n < 10^12) a letras. apocope: "uno" final pasa a "un"
// (se usa cuando sigue un sustantivo: "un bolívar", "veintiún mil").
func integerWords(n int64, apocope bool) string {
	if n <= 0 {
		return ""
	}
	var parts []string
	millones := n / 1_000_000
	resto := n % 1_000_000
	if millones > 0 {
		if millones == 1 {
			parts = append(parts, "un millón")
		} else {
			parts = append(parts, integerWords(millones, true)+" millones")
		}
	}
	miles := resto / 1000
	unidadesResto := int(resto % 1000)
	if miles > 0 {
		if miles == 1 {
			parts = append(parts, "mil")
		} else {
			parts = append(parts, hundredsWords(int(miles), true)+" mil")
		}
	}
	if unidadesResto > 0 {
		parts = append(parts, hundredsWords(unidadesResto, apocope))
	}
	return strings.Join(parts, " ")
}

// hundredsWords convierte 0 < n < 1000.
func hundredsWords(n int, apocope bool) string {
	if n == 100 {
		return "cien"
	}
	var parts []string
	if c := n / 100; c > 0 {
		parts = append(parts, centenas[c])
	}
	if r := n % 100; r > 0 {
		parts = append(parts, tensWords(r, apocope))
	}
	return strings.Join(parts, " ")
}

// tensWords convierte 0 < n < 100.
func tensWords(n int, apocope bool) string {
	var w string
	switch {
	case n < 10:
		w = unidades[n]
	case n < 30:
		w = especiales[n-10]
	default:
		w = decenas[n/10]
		if u := n % 10; u > 0 {
			w += " y " + unidades[u]
		}
	}
	if apocope {
		switch {
		case w == "veintiuno":
			w = "veintiún"
		case strings.HasSuffix(w, "uno"):
			w = strings.TrimSuffix(w, "uno") + "un"
		}
	}
	return w
}
