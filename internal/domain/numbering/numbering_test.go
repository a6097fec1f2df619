package numbering_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/numbering"
)

func TestNext_RellenaASeisDigitos(t *testing.T) {
	n, err := numbering.Next(entity.KindQuote, 0)
	require.NoError(t, err)
	assert.Equal(t, "Q000001", n)

	n, err = numbering.Next(entity.KindInvoice, 41)
	require.NoError(t, err)
	assert.Equal(t, "I000042", n)
}

func TestNext_SecuenciaAgotada(t *testing.T) {
	_, err := numbering.Next(entity.KindInvoice, numbering.Max)
	assert.True(t, errors.Is(err, numbering.ErrExhausted))
}

func TestParse(t *testing.T) {
	cases := []struct {
		name   string
		kind   entity.Kind
		numero string
		want   int64
		ok     bool
	}{
		{"presupuesto", entity.KindQuote, "Q000042", 42, true},
		{"factura", entity.KindInvoice, "I000007", 7, true},
		{"prefijo de otro tipo", entity.KindQuote, "I000042", 0, false},
		{"cinco dígitos", entity.KindQuote, "Q00042", 0, false},
		{"siete dígitos", entity.KindQuote, "Q0000042", 0, false},
		{"letras", entity.KindInvoice, "I00004A", 0, false},
		{"vacío", entity.KindInvoice, "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := numbering.Parse(tc.kind, tc.numero)
			assert.Equal(t, tc.ok, numbering.IsWellFormed(tc.kind, tc.numero))
			if !tc.ok {
				assert.True(t, errors.Is(err, numbering.ErrMalformed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatParse_IdaYVuelta(t *testing.T) {
	for _, n := range []int64{1, 9, 10, 999, 123456, numbering.Max} {
		s, err := numbering.Format(entity.KindInvoice, n)
		require.NoError(t, err)
		got, err := numbering.Parse(entity.KindInvoice, s)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
