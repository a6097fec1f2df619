package legacy

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText devuelve el contenido en UTF-8 (NFC). Los archivos que no son UTF-8 válido
// se leen como Windows-1252, la codificación de los equipos donde se crearon.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return norm.NFC.Bytes(data), nil
}

// Equivalencias del formato heredado (francés) al actual. Los valores ya traducidos pasan sin cambios.
var (
	clientTypes = map[string]string{
		"particulier":    entity.ClientIndividual,
		"professionnel":  entity.ClientBusiness,
		"administration": entity.ClientGovernment,
	}
	units = map[string]string{
		"heure":   entity.UnitHour,
		"pièce":   entity.UnitPiece,
		"piece":   entity.UnitPiece,
		"jour":    entity.UnitDay,
		"forfait": entity.UnitFlat,
	}
	statuses = map[string]string{
		"brouillon": entity.StatusDraft,
		"envoyé":    entity.StatusSent,
		"accepté":   entity.StatusAccepted,
		"refusé":    entity.StatusRefused,
		"payée":     entity.StatusPaid,
		"payé":      entity.StatusPaid,
		"en retard": entity.StatusOverdue,
		"rejeté":    entity.StatusRejected,
	}
	prefixes = map[entity.Kind]string{
		entity.KindQuote:   "D",
		entity.KindInvoice: "F",
	}
)

// translate reescribe en sitio un documento heredado decodificado como JSON genérico.
func translate(kind entity.Kind, doc map[string]any) {
	doc["type"] = string(kind)
	for _, key := range []string{"id", "numero"} {
		if s, ok := doc[key].(string); ok {
			doc[key] = renumber(kind, s)
		}
	}
	if s, ok := doc["associatedQuote"].(string); ok {
		doc["associatedQuote"] = renumber(entity.KindQuote, s)
	}
	mapString(doc, "status", statuses)
	if date, ok := doc["date"].(string); ok {
		if _, has := doc["createdAt"]; !has && len(date) == len("2006-01-02") {
			doc["createdAt"] = date + "T00:00:00Z"
		}
	}

	if c, ok := doc["customer"].(map[string]any); ok {
		mapString(c, "clientType", clientTypes)
	}
	if lines, ok := doc["services"].([]any); ok {
		for _, l := range lines {
			if line, ok := l.(map[string]any); ok {
				mapString(line, "unit", units)
			}
		}
	}
	if cp, ok := doc["chorusPro"].(map[string]any); ok {
		mapString(cp, "status", statuses)
	}
}

// renumber sustituye el prefijo heredado (D, F) por el actual (Q, I).
func renumber(kind entity.Kind, numero string) string {
	if old := prefixes[kind]; strings.HasPrefix(numero, old) {
		return kind.Prefix() + strings.TrimPrefix(numero, old)
	}
	return numero
}

func mapString(m map[string]any, key string, table map[string]string) {
	s, ok := m[key].(string)
	if !ok {
		return
	}
	if v, found := table[strings.ToLower(strings.TrimSpace(s))]; found {
		m[key] = v
	}
}
