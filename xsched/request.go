package xsched

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/blacktop/xsched/internal/logutil"
	"github.com/google/uuid"
)

// Query holds optional query parameters. Nil values and nil pointers are
// treated as absent and never reach the URL.
type Query map[string]any

func (q Query) encode() string {
	if len(q) == 0 {
		return ""
	}
	values := url.Values{}
	for key, raw := range q {
		if s, ok := queryValue(raw); ok {
			values.Set(key, s)
		}
	}
	return values.Encode()
}

func queryValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch x := rv.Interface().(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339), true
	case fmt.Stringer:
		return x.String(), true
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return fmt.Sprint(rv.Interface()), true
}

// pathf formats a path template, escaping every segment.
func pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

// do performs a single API round-trip. body is sent as JSON when non-nil and
// the response is decoded into out when out is non-nil.
func (c *Client) do(parent context.Context, method, path string, body any, query Query, out any) error {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if encoded := query.encode(); encoded != "" {
		target += "?" + encoded
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("encode request body: %v", err), Code: CodeNetworkError, Err: err}
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return &APIError{Message: err.Error(), Code: CodeNetworkError, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	logutil.Debug("request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(parent, ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(parent, ctx, err)
	}
	logutil.Debug("response", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Message: fmt.Sprintf("decode response: %v", err), Code: CodeNetworkError, Err: err}
	}
	return nil
}

// transportError maps a failed round-trip. ctx is the request context derived
// from parent; an expired parent deadline is reported as the caller's.
func (c *Client) transportError(parent, ctx context.Context, err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		message := fmt.Sprintf("request timed out after %dms", c.timeout.Milliseconds())
		if errors.Is(parent.Err(), context.DeadlineExceeded) {
			message = "request deadline exceeded"
		}
		return &APIError{
			Message: message,
			Code:    CodeTimeout,
			Status:  http.StatusRequestTimeout,
			Err:     err,
		}
	}
	return &APIError{Message: err.Error(), Code: CodeNetworkError, Err: err}
}

func errorFromResponse(status int, data []byte) *APIError {
	apiErr := &APIError{
		Message: fmt.Sprintf("HTTP %d", status),
		Code:    CodeHTTPError,
		Status:  status,
	}

	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Error == nil {
		return apiErr
	}
	if env.Error.Code != "" {
		apiErr.Code = env.Error.Code
	}
	if env.Error.Message != "" {
		apiErr.Message = env.Error.Message
	}
	apiErr.Details = env.Error.Details
	return apiErr
}
