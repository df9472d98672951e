package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/logger"
)

// Response representa la estructura estándar de respuesta de la API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code"`
}

// SuccessResponse envía una respuesta exitosa
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// OK envía un 200 con datos
func OK(c *gin.Context, data interface{}) {
	SuccessResponse(c, http.StatusOK, "", data)
}

// Created envía un 201 con el recurso creado
func Created(c *gin.Context, message string, data interface{}) {
	SuccessResponse(c, http.StatusCreated, message, data)
}

// Deleted envía un 200 sin datos; los borrados no usan 204
func Deleted(c *gin.Context, message string) {
	SuccessResponse(c, http.StatusOK, message, nil)
}

// ErrorResponseWithMessage envía una respuesta de error con mensaje personalizado
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

// StatusOf traduce el tipo de error a un código HTTP
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidTarget, apperr.KindAlreadyInState, apperr.KindDuplicateConstraint:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindPermissionDenied:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error envía el error de un servicio con el código que corresponde a su tipo.
// Los errores internos se registran y se responden con un mensaje genérico.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)
	if status == http.StatusInternalServerError {
		logger.HTTP().Error("Unhandled error", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   apperr.MessageOf(err),
		Kind:    string(kind),
		Code:    status,
	})
}

// AbortWithError corta la cadena de middleware con el error dado
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// BadRequestError envía un error 400
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

// NotFoundError envía un error 404
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

// InternalServerError envía un error 500
func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

// UnauthorizedError envía un error 401
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusUnauthorized, message)
}

// ForbiddenError envía un error 403
func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusForbidden, message)
}
