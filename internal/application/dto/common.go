package dto

// ErrorResponse cuerpo de error que devuelve el servidor en respuestas no-2xx.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
