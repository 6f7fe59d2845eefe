package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/voice"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// DecodeJSON reads the request body into dst and runs its validate tags.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid request: %s", describe(verrs))
		}

		return err
	}

	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, len(verrs))

	for i, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fe.Field() + " is required"
		case "min", "gte":
			msgs[i] = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "oneof":
			msgs[i] = fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
		default:
			msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
	}

	return strings.Join(msgs, ", ")
}

// ServiceError maps a domain error to its HTTP status. Unknown errors are
// logged and reported as 500 without detail.
func ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrInvalidInput),
		errors.Is(err, product.ErrInsufficientStock),
		errors.Is(err, sale.ErrInvalidInput),
		errors.Is(err, sale.ErrEmptyCart),
		errors.Is(err, dashboard.ErrInvalidPeriod),
		errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, voice.ErrEmptyCommand):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, sale.ErrNotFound),
		errors.Is(err, sale.ErrProductNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, voice.ErrProductNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, product.ErrDuplicateName),
		errors.Is(err, product.ErrDuplicateBarcode),
		errors.Is(err, user.ErrUsernameTaken):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
