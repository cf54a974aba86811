package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every successful JSON answer.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type ErrorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"error_code"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

var errorCodes = map[int]string{
	fiber.StatusBadRequest:            "BAD_REQUEST",
	fiber.StatusUnauthorized:          "UNAUTHORIZED",
	fiber.StatusForbidden:             "FORBIDDEN",
	fiber.StatusNotFound:              "NOT_FOUND",
	fiber.StatusConflict:              "CONFLICT",
	fiber.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	fiber.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
	fiber.StatusUnprocessableEntity:   "VALIDATION_ERROR",
	fiber.StatusTooManyRequests:       "RATE_LIMITED",
}

func errorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	if status >= 500 {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}

func orDefault(message, def string) string {
	if strings.TrimSpace(message) == "" {
		return def
	}
	return message
}

func send(c *fiber.Ctx, status int, body any) error {
	return c.Status(status).JSON(body)
}

// JsonError answers {success:false, message, error_code}.
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	def := "Erreur interne du serveur"
	if status < 500 {
		def = "Requête invalide"
	}
	return send(c, status, ErrorBody{Message: orDefault(message, def), Code: errorCode(status)})
}

// JsonValidationError answers 422 with a field → failed rules map.
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string][]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return send(c, fiber.StatusUnprocessableEntity, ErrorBody{
		Message: "Données invalides",
		Code:    errorCode(fiber.StatusUnprocessableEntity),
		Errors:  fieldErrors,
	})
}

// FiberErrorHandler is the app-wide ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

func JsonList(c *fiber.Ctx, message string, data any, pagination *Pagination) error {
	return send(c, fiber.StatusOK, Envelope{Success: true, Message: orDefault(message, "ok"), Data: data, Pagination: pagination})
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusOK, Envelope{Success: true, Message: orDefault(message, "ok"), Data: data})
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusCreated, Envelope{Success: true, Message: orDefault(message, "Créé"), Data: data})
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusOK, Envelope{Success: true, Message: orDefault(message, "Mis à jour"), Data: data})
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusOK, Envelope{Success: true, Message: orDefault(message, "Supprimé"), Data: data})
}
