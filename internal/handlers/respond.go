package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/taskforge-dev/taskforge/internal/logger"
	"github.com/taskforge-dev/taskforge/internal/services"
	"github.com/taskforge-dev/taskforge/internal/types"
)

// Debug controls whether 500 responses carry the underlying error message.
var Debug bool

func respondSuccess(ctx *gin.Context, code int, message string, data interface{}) {
	ctx.JSON(code, types.Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func respondError(ctx *gin.Context, code int, message string, data interface{}) {
	ctx.JSON(code, types.Envelope{
		Status:  "error",
		Message: message,
		Data:    data,
	})
}

func respondForbidden(ctx *gin.Context) {
	respondError(ctx, http.StatusForbidden, "You are not authorized to perform this action.", nil)
}

// respondServiceError translates service-layer errors into the envelope.
func respondServiceError(ctx *gin.Context, err error) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		respondError(ctx, http.StatusUnprocessableEntity, "Validation Error", verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		respondError(ctx, http.StatusNotFound, "Not Found", nil)
	case errors.Is(err, services.ErrGone):
		respondError(ctx, http.StatusGone, "Resource has already been deleted", nil)
	default:
		logger.Error("unexpected error", "path", ctx.FullPath(), "error", err)
		message := "Internal Server Error"
		if Debug {
			message = err.Error()
		}
		respondError(ctx, http.StatusInternalServerError, message, nil)
	}
}

// respondBindingError renders gin binding failures as field-level 422s.
func respondBindingError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors

	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		respondError(ctx, http.StatusUnprocessableEntity, "Validation Error", fields)
		return
	}

	respondError(ctx, http.StatusUnprocessableEntity, "Invalid request body", nil)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "may not be greater than " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
