package layout

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney importe con dos decimales seguido de la moneda.
func FormatMoney(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

// FormatPhone agrupa por pares un teléfono de exactamente 10 dígitos; otro valor se devuelve tal cual.
func FormatPhone(phone string) string {
	digits := stripSeparators(phone)
	if len(digits) != 10 || !allDigits(digits) {
		return phone
	}
	return groupEvery(digits, 2)
}

// FormatSIRET agrupa un SIRET de 14 dígitos como "123 456 789 00012".
func FormatSIRET(siret string) string {
	digits := stripSeparators(siret)
	if len(digits) != 14 || !allDigits(digits) {
		return siret
	}
	return digits[0:3] + " " + digits[3:6] + " " + digits[6:9] + " " + digits[9:14]
}

// FormatIBAN agrupa el IBAN en bloques de 4 caracteres.
func FormatIBAN(iban string) string {
	compact := strings.ToUpper(stripSeparators(iban))
	if compact == "" {
		return ""
	}
	return groupEvery(compact, 4)
}

// FormatDate convierte YYYY-MM-DD en DD/MM/YYYY; si no se puede, devuelve el valor original.
func FormatDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// FormatQuantity cantidad sin ceros superfluos ("2", "1.5").
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

// FormatRate tasa de IVA en porcentaje.
func FormatRate(d decimal.Decimal) string {
	return d.String() + " %"
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '\t':
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func groupEvery(s string, n int) string {
	var b strings.Builder
	for i := 0; i < len(s); i += n {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := min(i+n, len(s))
		b.WriteString(s[i:end])
	}
	return b.String()
}
