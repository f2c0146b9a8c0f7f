package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/utils"
	"github.com/subtrack-dev/subtrack/internal/pkg/validator"
)

// decodeAndValidate decodes the request body into dst and runs struct
// validation. Any failure is written to w and reported via the return value.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, val *validator.Validator, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}
	if validationErrs := val.Validate(dst); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return false
	}
	return true
}

// idParam parses a numeric URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("Invalid " + name + " parameter")
	}
	return id, nil
}
