package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/application/dto"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

// DocumentHandler maneja presupuestos y facturas (:kind = quote | invoice).
type DocumentHandler struct {
	docs *billing.DocumentUseCase
	pdf  *billing.PDFUseCase
	now  func() time.Time
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(docs *billing.DocumentUseCase, pdf *billing.PDFUseCase) *DocumentHandler {
	return &DocumentHandler{docs: docs, pdf: pdf, now: time.Now}
}

// List lista documentos del tipo.
// @Summary  Listar documentos
// @Tags     documents
// @Produce  json
// @Param    kind   path  string true  "quote | invoice"
// @Param    year   query int    false "Año de creación (0 = todos)"
// @Param    status query string false "Estado"
// @Param    search query string false "Texto en número, cliente o empresa"
// @Success  200 {object} dto.DocumentListResponse
// @Failure  400 {object} dto.ErrorResponse
// @Router   /documents/{kind} [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	filter := repository.DocumentFilter{Status: c.Query("status"), Search: c.Query("search")}
	if y := c.Query("year"); y != "" {
		filter.Year, err = strconv.Atoi(y)
		if err != nil || filter.Year < 0 {
			return badRequest(c, "INVALID_YEAR", "year debe ser un año")
		}
	}
	docs, err := h.docs.List(c.UserContext(), kind, filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DocumentListResponse{Items: docs, Count: len(docs)})
}

// Get devuelve un documento.
// @Summary  Obtener documento
// @Tags     documents
// @Produce  json
// @Param    kind path string true "quote | invoice"
// @Param    id   path string true "Número"
// @Success  200 {object} entity.Document
// @Failure  404 {object} dto.ErrorResponse
// @Router   /documents/{kind}/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	doc, err := h.docs.Get(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// NextNumber devuelve el número que recibiría el próximo documento, sin reservarlo.
// @Summary  Próximo número
// @Tags     documents
// @Produce  json
// @Param    kind path string true "quote | invoice"
// @Success  200 {object} dto.NextNumberResponse
// @Router   /documents/{kind}/next-number [get]
func (h *DocumentHandler) NextNumber(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	numero, err := h.docs.NextNumber(c.UserContext(), kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NextNumberResponse{Kind: kind, Numero: numero})
}

// Validate valida el cuerpo sin guardarlo. Siempre 200; el informe indica si es válido.
// @Summary  Validar documento
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    kind path string true "quote | invoice"
// @Success  200 {object} dto.ValidationResponse
// @Router   /documents/{kind}/validate [post]
func (h *DocumentHandler) Validate(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	res := h.docs.Validate(kind, c.Body())
	return c.JSON(dto.NewValidationResponse(res))
}

// Save valida y guarda el documento, y confirma su número.
// @Summary  Guardar documento
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    kind path string true "quote | invoice"
// @Success  200 {object} entity.Document
// @Failure  409 {object} dto.ErrorResponse
// @Failure  422 {object} dto.ValidationErrorResponse
// @Router   /documents/{kind} [post]
func (h *DocumentHandler) Save(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	doc, err := h.docs.Save(c.UserContext(), kind, c.Body())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// Delete elimina un documento.
// @Summary  Eliminar documento
// @Tags     documents
// @Param    kind path string true "quote | invoice"
// @Param    id   path string true "Número"
// @Success  204
// @Failure  404 {object} dto.ErrorResponse
// @Router   /documents/{kind}/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	if err := h.docs.Delete(c.UserContext(), kind, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF genera el PDF del documento.
// @Summary  PDF del documento
// @Tags     documents
// @Produce  application/pdf
// @Param    kind path string true "quote | invoice"
// @Param    id   path string true "Número"
// @Success  200 {file} binary
// @Failure  404 {object} dto.ErrorResponse
// @Failure  422 {object} dto.ErrorResponse
// @Router   /documents/{kind}/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	out, filename, err := h.pdf.ExportPDF(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", filename, out)
}

// Register genera el registro anual de documentos en PDF.
// @Summary  Registro anual
// @Tags     documents
// @Produce  application/pdf
// @Param    kind path  string true  "quote | invoice"
// @Param    year query int    false "Año (por defecto el actual)"
// @Success  200 {file} binary
// @Router   /documents/{kind}/register.pdf [get]
func (h *DocumentHandler) Register(c *fiber.Ctx) error {
	kind, err := entity.ParseKind(c.Params("kind"))
	if err != nil {
		return badRequest(c, "INVALID_KIND", err.Error())
	}
	year := c.QueryInt("year", h.now().Year())
	out, filename, err := h.pdf.ExportRegister(c.UserContext(), kind, year)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", filename, out)
}

func sendFile(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
