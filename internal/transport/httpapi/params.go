package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date or a full RFC 3339 timestamp
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// dateField parses an optional date into dst, recording a field error when
// the value is present but malformed
func dateField(fields map[string]string, name, value string, dst *time.Time) {
	if strings.TrimSpace(value) == "" {
		return
	}
	t, ok := parseDate(value)
	if !ok {
		fields[name] = "must be a date (YYYY-MM-DD)"
		return
	}
	*dst = t
}

// verificationAction maps the status an admin asks for onto the action that
// reaches it
func verificationAction(status string) (model.VerificationAction, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "verified", "approved", "verify", "approve":
		return model.VerificationVerify, true
	case "rejected", "reject":
		return model.VerificationReject, true
	}
	return "", false
}

// hostelFilter reads the public listing query string
func hostelFilter(c *gin.Context) (model.HostelFilter, error) {
	f := model.HostelFilter{
		City:   strings.TrimSpace(c.Query("city")),
		County: strings.TrimSpace(c.Query("county")),
		Type:   model.HostelType(c.Query("type")),
	}
	fields := map[string]string{}

	switch f.Type {
	case "", model.HostelMale, model.HostelFemale, model.HostelMixed:
	default:
		fields["type"] = "must be one of: male female mixed"
	}

	if v := c.Query("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil || price.IsNegative() {
			fields["max_price"] = "must be a non-negative amount"
		} else {
			f.MaxPrice = &price
		}
	}

	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields[name] = "must be a non-negative integer"
			continue
		}
		*dst = n
	}

	if len(fields) > 0 {
		return f, apperror.Validation("validation failed", fields)
	}
	return f, nil
}
