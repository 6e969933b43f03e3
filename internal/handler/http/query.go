package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

func optionalQuery(r *http.Request, name string) *string {
	if value := r.URL.Query().Get(name); value != "" {
		return &value
	}
	return nil
}

// optionalDateQuery parses a YYYY-MM-DD query parameter, collecting a field
// error instead of failing fast so every bad parameter is reported at once.
func optionalDateQuery(r *http.Request, name string, errs validator.ValidationErrors) (*time.Time, validator.ValidationErrors) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, errs
	}
	date, ok := validator.IsValidDate(value)
	if !ok {
		return nil, append(errs, validator.ValidationError{Field: name, Message: "must be a valid date (YYYY-MM-DD)"})
	}
	return &date, errs
}

func pagination(r *http.Request) (page, limit int) {
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	return page, limit
}
