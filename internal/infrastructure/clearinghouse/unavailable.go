// Package clearinghouse agrupa los clientes de la plataforma pública de
// facturación electrónica (Chorus Pro).
package clearinghouse

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appbilling "github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// Unavailable implementa billing.ClearinghouseSubmitter cuando no hay
// credenciales de la plataforma configuradas: todo envío devuelve domain.ErrNotSupported.
type Unavailable struct {
	log zerolog.Logger
}

var _ appbilling.ClearinghouseSubmitter = (*Unavailable)(nil)

// NewUnavailable crea el cliente.
func NewUnavailable(log zerolog.Logger) *Unavailable {
	return &Unavailable{log: log}
}

// Submit no envía nada.
func (u *Unavailable) Submit(_ context.Context, doc *entity.Document, xml []byte) (*entity.ClearinghouseStatus, error) {
	u.log.Debug().Str("numero", doc.Numero).Int("bytes", len(xml)).Msg("envío a la plataforma no disponible")
	return nil, fmt.Errorf("%w: envío a Chorus Pro no configurado", domain.ErrNotSupported)
}
