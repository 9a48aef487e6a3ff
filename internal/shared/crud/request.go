package crud

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"starwars-api/internal/shared/errors"
)

const maxBodyBytes = 1 << 20 // 1 MB

// DecodeJSON reads a single JSON document from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.Validation("request body is required")
		}
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.WrapValidation("request body too large", err)
		}
		return errors.WrapValidation("invalid JSON in request body", err)
	}

	return nil
}

// MaxID is the largest value a SERIAL/INTEGER column can hold.
const MaxID = math.MaxInt32

// PathID parses a positive integer path parameter that fits an INTEGER key.
func PathID(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, errors.Validationf("%s is required", name)
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || id > MaxID {
		return 0, errors.Validationf("invalid %s format", name)
	}

	return id, nil
}

// MissingFields builds the validation error for absent required fields, or
// returns nil when none are missing.
func MissingFields(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return errors.Validationf("missing required fields: %s", strings.Join(fields, ", "))
}

// CheckLength rejects a value with more than max characters, matching a
// VARCHAR(max) column.
func CheckLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return errors.Validationf("%s must be at most %d characters", field, max)
	}
	return nil
}

// CheckInt32 rejects values that do not fit an INTEGER column.
func CheckInt32(field string, value int) error {
	if value > math.MaxInt32 || value < math.MinInt32 {
		return errors.Validationf("%s is out of range", field)
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
