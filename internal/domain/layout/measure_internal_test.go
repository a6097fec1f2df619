package layout

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

type runeMeasurer struct{}

func (runeMeasurer) StringWidth(s string, _ TextStyle) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrap(t *testing.T) {
	m := runeMeasurer{}
	st := TextStyle{Size: 10}

	cases := []struct {
		name  string
		in    string
		width float64
		want  []string
	}{
		{"cabe en una línea", "hola mundo", 20, []string{"hola mundo"}},
		{"corta por palabras", "uno dos tres cuatro", 8, []string{"uno dos", "tres", "cuatro"}},
		{"respeta saltos de línea", "uno\n\ndos", 20, []string{"uno", "", "dos"}},
		{"palabra más ancha que la columna", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"runas multibyte", "éèêëàâ", 4, []string{"éèêë", "àâ"}},
		{"ancho menor que un carácter", "ab", 0.5, []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wrap(m, tc.in, tc.width, st))
		})
	}
}

func TestFitPrefix_UTF8Invalido(t *testing.T) {
	m := runeMeasurer{}
	st := TextStyle{Size: 10}

	// Un byte suelto cuenta como un carácter de ancho uno.
	assert.Equal(t, 2, fitPrefix(m, "a\xff", 10, st))
	assert.Equal(t, 2, fitPrefix(m, "a\xffbcd", 2, st))
	assert.Equal(t, []string{"a\xff", "bc", "d"}, wrap(m, "a\xffbcd", 2, st))
}

func TestTruncate(t *testing.T) {
	m := runeMeasurer{}
	st := TextStyle{Size: 10}

	assert.Equal(t, "corto", truncate(m, "corto", 10, st))
	assert.Equal(t, "abc...", truncate(m, "abcdefghij", 6, st))
	assert.Equal(t, "hola...", truncate(m, "hola mundo cruel", 8, st))
}
