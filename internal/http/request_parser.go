package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"entrepreedge/internal/core"
	"entrepreedge/internal/finance"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var (
	errBadRequest   = errors.New("bad request")
	errBodyTooLarge = errors.New("request body too large")
)

// RequestBodyParser reads a JSON or form-encoded body once and serves its
// fields as trimmed strings.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads up to maxBodyBytes of the request body.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse decodes the body as JSON when it is declared or looks like JSON,
// and as a form otherwise.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: invalid JSON body", errBadRequest)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	if p.err != nil {
		p.err = fmt.Errorf("%w: invalid form body", errBadRequest)
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab and newlines and trims.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

// ParseFilter reads the optional type and month (YYYY-MM) query parameters.
func ParseFilter(q url.Values) (finance.Filter, error) {
	var f finance.Filter
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			return finance.Filter{}, fmt.Errorf("%w: type must be income or expense", errBadRequest)
		}
		f.Type = t
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if _, err := time.Parse(core.MonthLayout, v); err != nil {
			return finance.Filter{}, fmt.Errorf("%w: month must be YYYY-MM", errBadRequest)
		}
		f.Month = v
	}
	return f, nil
}

// requiredType reads the mandatory type query parameter.
func requiredType(q url.Values) (core.TransactionType, error) {
	t, err := core.ParseTransactionType(strings.TrimSpace(q.Get("type")))
	if err != nil {
		return "", fmt.Errorf("%w: type must be income or expense", errBadRequest)
	}
	return t, nil
}

// parseBoolParam treats a missing value as false.
func parseBoolParam(q url.Values, key string) (bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", errBadRequest, key)
	}
	return b, nil
}
