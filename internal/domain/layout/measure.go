package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer mide el ancho de una cadena con las métricas de la fuente del estilo.
// La implementación real vive en infrastructure/pdf; debe ser segura para uso concurrente.
type Measurer interface {
	StringWidth(s string, style TextStyle) float64
}

// wrap corta s en líneas de ancho ≤ width. Respeta los saltos de línea del
// texto; una palabra más ancha que width se corta por caracteres.
func wrap(m Measurer, s string, width float64, st TextStyle) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			candidate := w
			if cur != "" {
				candidate = cur + " " + w
			}
			if m.StringWidth(candidate, st) <= width {
				cur = candidate
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			for m.StringWidth(w, st) > width {
				cut := fitPrefix(m, w, width, st)
				lines = append(lines, w[:cut])
				w = w[cut:]
			}
			cur = w
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}

// fitPrefix longitud en bytes del prefijo más largo de w que cabe en width (mínimo una runa).
func fitPrefix(m Measurer, w string, width float64, st TextStyle) int {
	end := 0
	for i := range w {
		_, size := utf8.DecodeRuneInString(w[i:])
		next := i + size
		if m.StringWidth(w[:next], st) > width {
			break
		}
		end = next
	}
	if end == 0 {
		_, size := utf8.DecodeRuneInString(w)
		end = size
	}
	return end
}

// truncate recorta s con "..." hasta que quepa en width.
func truncate(m Measurer, s string, width float64, st TextStyle) string {
	if m.StringWidth(s, st) <= width {
		return s
	}
	const ellipsis = "..."
	cut := fitPrefix(m, s, width-m.StringWidth(ellipsis, st), st)
	return strings.TrimRight(s[:cut], " ") + ellipsis
}
