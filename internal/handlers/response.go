package handlers

import (
	"errors"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(dto.Envelope{Success: true, Message: message, Data: data})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.Envelope{Success: false, Message: message})
}

var kindStatus = map[services.Kind]int{
	services.KindValidation:   fiber.StatusBadRequest,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindForbidden:    fiber.StatusForbidden,
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindConflict:     fiber.StatusConflict,
}

// respondError writes a domain error using the sentinel's own message.
// Anything unclassified goes to the app ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	sentinel := services.Sentinel(err)
	if sentinel == nil {
		return err
	}
	status, known := kindStatus[services.KindOf(sentinel)]
	if !known {
		return err
	}
	return fail(c, status, sentence(sentinel.Error()))
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// parseBody decodes and validates the request body into out. It writes the
// 400 response itself and reports false when the handler should stop.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, err
		}
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{
			Success: false,
			Message: "Validation failed",
			Errors:  fields,
		})
	}
	return true, nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Valid email is required"
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must be at least " + fe.Param() + " characters"
		}
		return field + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return field + " must be at most " + fe.Param() + " characters"
		}
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return field + " is invalid"
}

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *fiber.Ctx, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	v := uint(id)
	return &v
}

// ErrorHandler is the terminal handler for errors that no route mapped.
// Details of 5xx errors are only exposed in development.
func ErrorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		body := dto.Envelope{Success: false, Message: message}
		if code >= fiber.StatusInternalServerError {
			slog.Error("unhandled server error",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
				"error", err.Error(),
			)
			body.Message = "Internal server error"
			if dev {
				body.Error = err.Error()
			}
		}
		return c.Status(code).JSON(body)
	}
}

func NotFound(c *fiber.Ctx) error {
	return fail(c, fiber.StatusNotFound, "Route not found")
}
