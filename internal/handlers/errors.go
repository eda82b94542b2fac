package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/h4ks-com/croptrack/internal/middleware"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/services"
)

const dateLayout = "2006-01-02"

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"oneof":    "select a valid choice",
	"datetime": "enter a valid date",
	"gte":      "ensure this value is greater than or equal to %s",
	"lte":      "ensure this value is less than or equal to %s",
	"min":      "ensure this value is at least %s",
	"max":      "ensure this value has at most %s characters",
}

func fieldMessage(fe validator.FieldError) string {
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return "invalid value"
	}
	if strings.Contains(msg, "%s") {
		return strings.Replace(msg, "%s", fe.Param(), 1)
	}
	return msg
}

// bindError turns a binding failure into a 400 response, listing offending
// fields by their JSON names when the validator can tell them apart.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := models.FieldErrors{}
		for _, fe := range verrs {
			fields[jsonFieldName(fe)] = fieldMessage(fe)
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
}

// jsonFieldName converts a Go field name like AreaPlanted into area_planted.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// serviceError maps service and model errors onto HTTP responses.
func serviceError(c *gin.Context, err error) {
	var fields models.FieldErrors
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, services.ErrFarmNotFound),
		errors.Is(err, services.ErrCropNotFound),
		errors.Is(err, services.ErrIrrigationNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrDuplicateWeather):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidReport):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		return 0, false
	}
	return uint(id), true
}

func ownerID(c *gin.Context) (uint, bool) {
	id, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}
	return id, ok
}

// parseDate reads an optional YYYY-MM-DD value. Empty means absent.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
