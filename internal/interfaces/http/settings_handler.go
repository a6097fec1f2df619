package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// SettingsHandler lectura y actualización del registro de configuración.
type SettingsHandler struct {
	uc *billing.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *billing.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get devuelve la configuración.
// @Summary  Configuración del negocio
// @Tags     settings
// @Produce  json
// @Success  200 {object} entity.Settings
// @Router   /settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(s)
}

// Update reemplaza la configuración; los contadores de numeración no cambian.
// @Summary  Actualizar configuración
// @Tags     settings
// @Accept   json
// @Produce  json
// @Param    body body entity.Settings true "Configuración"
// @Success  200 {object} entity.Settings
// @Failure  400 {object} dto.ErrorResponse
// @Router   /settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in entity.Settings
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	s, err := h.uc.Update(c.UserContext(), &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(s)
}
