package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParseOptionalInt32 reads an optional integer query parameter.
// An absent parameter yields a nil pointer so that callers can apply
// their own defaults. A parameter that is present but not an integer
// is rejected with a 400 response.
func ParseOptionalInt32(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (*int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return nil, false
	}
	v := int32(intValue)
	return &v, true
}
