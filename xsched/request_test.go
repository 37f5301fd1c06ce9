package xsched

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	opts = append([]Option{WithBaseURL(ts.URL)}, opts...)
	client, err := New("sk_test", opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client, ts
}

func asAPIError(t *testing.T, err error) *APIError {
	t.Helper()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	return apiErr
}

func TestRequestHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing X-Request-Id")
		}
		w.Write([]byte(`{"data":{"plan":"pro"}}`))
	})

	res, err := client.Usage.Get(context.Background())
	if err != nil {
		t.Fatalf("Usage.Get failed: %v", err)
	}
	if res.Data.Plan != "pro" {
		t.Fatalf("expected plan=pro, got %q", res.Data.Plan)
	}
}

func TestRequestOmitsBodyWhenAbsent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("expected empty body, got %q", body)
		}
		w.Write([]byte(`{"data":{"id":"post_1"}}`))
	})

	if _, err := client.Posts.Get(context.Background(), "post_1"); err != nil {
		t.Fatalf("Posts.Get failed: %v", err)
	}
}

func TestQueryOmitsAbsentValues(t *testing.T) {
	var limit *int
	offset := 20
	q := Query{
		"limit":    limit,
		"offset":   &offset,
		"status":   PostStatusDraft,
		"tenantId": nil,
		"active":   false,
		"ratio":    0.5,
	}

	got := q.encode()
	want := "active=false&offset=20&ratio=0.5&status=draft"
	if got != want {
		t.Fatalf("encode() = %q, want %q", got, want)
	}
}

func TestQueryEncodesTimeAsRFC3339(t *testing.T) {
	from := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := Query{"from": &from}.encode()
	if got != "from=2026-01-02T03%3A04%3A05Z" {
		t.Fatalf("encode() = %q", got)
	}
}

func TestListQueryParameters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "10" || q.Get("status") != "scheduled" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		for _, key := range []string{"offset", "platform", "accountId", "tenantId"} {
			if _, ok := q[key]; ok {
				t.Errorf("query should not contain %q: %q", key, r.URL.RawQuery)
			}
		}
		if len(q["limit"]) != 1 {
			t.Errorf("limit encoded %d times", len(q["limit"]))
		}
		w.Write([]byte(`{"data":[],"pagination":{"total":0,"limit":10,"offset":0,"hasMore":false}}`))
	})

	res, err := client.Posts.List(context.Background(), ListPostsParams{
		PageParams: PageParams{Limit: 10},
		Status:     PostStatusScheduled,
	})
	if err != nil {
		t.Fatalf("Posts.List failed: %v", err)
	}
	if res.Pagination.Limit != 10 {
		t.Fatalf("expected pagination.limit=10, got %d", res.Pagination.Limit)
	}
}

func TestStructuredErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"validation_error","message":"content is required","details":{"field":"content"}}}`))
	})

	_, err := client.Posts.Create(context.Background(), CreatePostInput{})
	apiErr := asAPIError(t, err)
	if apiErr.Code != "validation_error" {
		t.Fatalf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "content is required" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("Status = %d", apiErr.Status)
	}
	if !reflect.DeepEqual(apiErr.Details, map[string]any{"field": "content"}) {
		t.Fatalf("Details = %#v", apiErr.Details)
	}
}

func TestStructuredErrorWithoutCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"plan limit reached"}}`))
	})

	_, err := client.Tenants.Create(context.Background(), CreateTenantInput{ExternalID: "ext_1"})
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeHTTPError || apiErr.Message != "plan limit reached" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestUnparseableErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.Accounts.Get(context.Background(), "acc_1")
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeHTTPError {
		t.Fatalf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "HTTP 502" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("Status = %d", apiErr.Status)
	}
	if apiErr.Details != nil {
		t.Fatalf("expected nil details, got %#v", apiErr.Details)
	}
}

func TestTimeoutAbortsRequest(t *testing.T) {
	var finished atomic.Bool
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-release:
		}
		finished.Store(true)
		w.Write([]byte(`{"data":{}}`))
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := client.Usage.Get(context.Background())
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeTimeout {
		t.Fatalf("Code = %q", apiErr.Code)
	}
	if apiErr.Status != http.StatusRequestTimeout {
		t.Fatalf("Status = %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Message, "50ms") {
		t.Fatalf("Message = %q", apiErr.Message)
	}
	if !IsTimeout(err) {
		t.Fatalf("IsTimeout should report true")
	}
	if finished.Load() {
		t.Fatalf("handler completed after abort")
	}
}

func blockingHandler(release <-chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}
}

func TestCallerCancel(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, blockingHandler(release))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := client.Usage.Get(ctx)
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeNetworkError {
		t.Fatalf("Code = %q", apiErr.Code)
	}
	if apiErr.Status != 0 {
		t.Fatalf("Status = %d", apiErr.Status)
	}
	if apiErr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
	if IsTimeout(err) {
		t.Fatalf("cancellation must not be reported as a timeout")
	}
}

func TestCallerDeadline(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, blockingHandler(release))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.Usage.Get(ctx)
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeTimeout {
		t.Fatalf("Code = %q", apiErr.Code)
	}
	if apiErr.Status != http.StatusRequestTimeout {
		t.Fatalf("Status = %d", apiErr.Status)
	}
	if apiErr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
	if apiErr.Message != "request deadline exceeded" {
		t.Fatalf("Message = %q, want the caller deadline, not the client timeout", apiErr.Message)
	}
}

func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client, err := New("sk_test", WithBaseURL(url))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Usage.Get(context.Background())
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeNetworkError || apiErr.Status != 0 {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if apiErr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
}

func TestSuccessBodyPassesThrough(t *testing.T) {
	const body = `{"data":{"id":"wh_1","url":"https://example.com/hook","events":["post.published"],"maxRetries":3,"timeoutSeconds":10,"stats":{"totalDeliveries":5,"successfulDeliveries":4,"failedDeliveries":1},"active":true,"createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-02T00:00:00Z"}}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	res, err := client.Webhooks.Get(context.Background(), "wh_1")
	if err != nil {
		t.Fatalf("Webhooks.Get failed: %v", err)
	}

	encoded, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var want, got map[string]any
	if err := json.Unmarshal([]byte(body), &want); err != nil {
		t.Fatalf("decode want: %v", err)
	}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("decode got: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("payload changed:\nwant %v\ngot  %v", want, got)
	}
}

func TestUndecodableSuccessBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Usage.Get(context.Background())
	if code := ErrorCode(err); code != CodeNetworkError {
		t.Fatalf("ErrorCode = %q", code)
	}
}
