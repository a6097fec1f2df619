package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Toutiscope/Facturation/internal/application/billing"
)

// ExchangeHandler facturación electrónica: Factur-X y plataforma pública.
type ExchangeHandler struct {
	uc *billing.ExchangeUseCase
}

// NewExchangeHandler construye el handler.
func NewExchangeHandler(uc *billing.ExchangeUseCase) *ExchangeHandler {
	return &ExchangeHandler{uc: uc}
}

// FacturX descarga el XML CII de la factura.
// @Summary  Exportar Factur-X
// @Tags     exchange
// @Produce  application/xml
// @Param    id path string true "Número de factura"
// @Success  200 {file} binary
// @Failure  404 {object} dto.ErrorResponse
// @Router   /documents/invoice/{id}/facturx [get]
func (h *ExchangeHandler) FacturX(c *fiber.Ctx) error {
	out, filename, err := h.uc.ExportFacturX(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, fiber.MIMEApplicationXMLCharsetUTF8, filename, out)
}

// Submit envía la factura a la plataforma pública.
// @Summary  Enviar a la plataforma pública
// @Tags     exchange
// @Produce  json
// @Param    id path string true "Número de factura"
// @Success  200 {object} entity.ClearinghouseStatus
// @Failure  501 {object} dto.ErrorResponse
// @Router   /documents/invoice/{id}/clearinghouse [post]
func (h *ExchangeHandler) Submit(c *fiber.Ctx) error {
	status, err := h.uc.SubmitToClearinghouse(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status)
}
