package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode reads a JSON request body into dst and validates it against its
// `validate` struct tags. On failure it writes a 400 response and returns
// false.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	corrID := CorrelationID(r.Context())
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, NewValidationError("Invalid JSON body", corrID, nil))
		return false
	}
	if details := ValidationDetails(dst); len(details) > 0 {
		WriteError(w, http.StatusBadRequest, NewValidationError(
			fmt.Sprintf("%d validation error(s)", len(details)), corrID, details))
		return false
	}
	return true
}

// ValidationDetails validates v and returns one ErrorDetail per failing
// field. It returns nil when v is valid.
func ValidationDetails(v any) []ErrorDetail {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Message: err.Error(), Code: "INVALID"}}
	}
	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, ErrorDetail{
			Message: fieldMessage(fe),
			Code:    strings.ToUpper(fe.Tag()),
			In:      fe.Field(),
		})
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
	}
}
