package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ordering-be/internal/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// Accepted date-time layouts, most specific first. Values without an offset
// are read in the server's local zone.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(fmt.Sprintf("Invalid %s: %s", name, raw))
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int, required bool) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		if required {
			return 0, badRequest(fmt.Sprintf("Missing required parameter: %s", name))
		}
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("Invalid %s: %s", name, raw))
	}
	return v, nil
}

func queryString(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", badRequest(fmt.Sprintf("Missing required parameter: %s", name))
	}
	return v, nil
}

func queryDecimal(r *http.Request, name string) (decimal.Decimal, error) {
	raw, err := queryString(r, name)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, badRequest(fmt.Sprintf("Invalid %s: %s", name, raw))
	}
	return d, nil
}

func queryDateTime(r *http.Request, name string) (time.Time, error) {
	raw, err := queryString(r, name)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, badRequest(fmt.Sprintf("Invalid %s: %s", name, raw))
}

// pageRequest reads page, size, sortBy and sortDirection. The sort falls back
// to the endpoint's default when sortBy is absent.
func pageRequest(r *http.Request, defaultSort, defaultDirection string) (utils.PageRequest, error) {
	page, err := queryInt(r, "page", 0, false)
	if err != nil {
		return utils.PageRequest{}, err
	}
	size, err := queryInt(r, "size", utils.DefaultPageSize, false)
	if err != nil {
		return utils.PageRequest{}, err
	}

	q := r.URL.Query()
	req := utils.PageRequest{
		Page:      page,
		Size:      size,
		SortBy:    q.Get("sortBy"),
		Direction: q.Get("sortDirection"),
	}
	if req.SortBy == "" {
		req.SortBy = defaultSort
		if req.Direction == "" {
			req.Direction = defaultDirection
		}
	}
	return req.Normalize(), nil
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return badRequest("Malformed request body: " + err.Error())
	}
	return validate.Struct(dst)
}
