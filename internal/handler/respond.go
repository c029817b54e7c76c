// Package handler provides shared request decoding and JSON response
// helpers for the public and admin API handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skagen/norna/internal/domain"
	"github.com/skagen/norna/internal/middleware"
)

// maxBodyBytes caps request bodies. Carts and settings documents are small;
// anything past this is abuse.
const maxBodyBytes = 1 << 20

// validate is the shared validator. Struct tags on request types drive it.
var validate = validator.New(validator.WithRequiredStructEnabled())

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// errorBody is the API error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondError writes a structured JSON error response, mapping domain error
// codes onto HTTP status codes. Typed checkout and lifecycle errors carry
// machine-readable details so clients can react per product or transition.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	if oos, ok := domain.IsOutOfStock(err); ok {
		ids := make([]string, len(oos.ProductIDs))
		for i, id := range oos.ProductIDs {
			ids[i] = id.String()
		}
		logError(r, err, http.StatusConflict)
		RespondJSON(w, http.StatusConflict, errorBody{Error: errorDetail{
			Code:    domain.ECONFLICT,
			Message: "Some items are no longer available in the requested quantity",
			Details: map[string]any{"out_of_stock_product_ids": ids},
		}})
		return
	}

	if it, ok := domain.IsInvalidTransition(err); ok {
		logError(r, err, http.StatusConflict)
		RespondJSON(w, http.StatusConflict, errorBody{Error: errorDetail{
			Code:    domain.ECONFLICT,
			Message: fmt.Sprintf("Cannot change order status from %s to %s", it.From, it.To),
			Details: map[string]any{"from": it.From, "to": it.To},
		}})
		return
	}

	code := domain.ErrorCode(err)
	status := statusForCode(code)
	logError(r, err, status)
	RespondJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: domain.ErrorMessage(err),
	}})
}

func statusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func logError(r *http.Request, err error, status int) {
	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"status", status,
		"path", r.URL.Path,
		"method", r.Method,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}
}

// DecodeJSON decodes and validates a JSON request body into dst.
// Returns a domain validation error suitable for RespondError.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("", "Request body is not valid JSON: "+jsonErrorHint(err))
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag())
			}
			return domain.Invalid("", "Invalid request: "+strings.Join(fields, ", "))
		}
		return domain.Invalid("", "Invalid request")
	}

	return nil
}

// jsonErrorHint converts decoder errors into messages safe to echo back.
func jsonErrorHint(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("syntax error at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("wrong type for field %q", typeErr.Field)
	case errors.Is(err, io.EOF):
		return "empty body"
	default:
		return err.Error()
	}
}
