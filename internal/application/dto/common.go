package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse error 422 con el informe completo.
type ValidationErrorResponse struct {
	ErrorResponse
	ValidationResponse
}
