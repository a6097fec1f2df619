package dto

import (
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/validation"
)

// ValidationResponse informe de validación. Valid ⇔ Errors vacío.
type ValidationResponse struct {
	Valid  bool                         `json:"valid"`
	Errors []validation.ValidationError `json:"errors"`
}

// NewValidationResponse convierte el resultado del validador.
func NewValidationResponse(res validation.Result) ValidationResponse {
	errs := res.Errors
	if errs == nil {
		errs = []validation.ValidationError{}
	}
	return ValidationResponse{Valid: res.Valid(), Errors: errs}
}

// NextNumberResponse número que recibiría el próximo documento.
type NextNumberResponse struct {
	Kind   entity.Kind `json:"kind"`
	Numero string      `json:"numero"`
}

// DocumentListResponse listado de documentos.
type DocumentListResponse struct {
	Items []*entity.Document `json:"items"`
	Count int                `json:"count"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
