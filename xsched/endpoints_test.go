package xsched

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// recordingClient answers every request with the given body and hands what it
// saw to the returned function.
func recordingClient(t *testing.T, response string) (*Client, func() recordedRequest) {
	t.Helper()
	seen := make(chan recordedRequest, 1)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		seen <- rec
		w.Write([]byte(response))
	})
	return client, func() recordedRequest { return <-seen }
}

func TestPostsCreateExample(t *testing.T) {
	client, last := recordingClient(t, `{"data":{"id":"post_1","content":"hi","status":"publishing","accountIds":["acc_1"],"createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}}`)

	res, err := client.Posts.Create(context.Background(), CreatePostInput{
		Content:    "hi",
		AccountIDs: []string{"acc_1"},
		PublishNow: true,
	})
	if err != nil {
		t.Fatalf("Posts.Create failed: %v", err)
	}
	rec := last()

	if rec.Method != http.MethodPost || rec.Path != "/posts" {
		t.Fatalf("got %s %s", rec.Method, rec.Path)
	}
	want := map[string]any{"content": "hi", "accountIds": []any{"acc_1"}, "publishNow": true}
	if !reflect.DeepEqual(rec.Body, want) {
		t.Fatalf("body = %#v", rec.Body)
	}
	if res.Data.ID != "post_1" || res.Data.Status != PostStatusPublishing {
		t.Fatalf("unexpected post %+v", res.Data)
	}
}

func TestEndpointRouting(t *testing.T) {
	ctx := context.Background()
	client, last := recordingClient(t, `{"data":null}`)
	active := true

	cases := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
	}{
		{"posts.get", func() error { _, err := client.Posts.Get(ctx, "p 1"); return err }, "GET", "/posts/p%201", ""},
		{"posts.update", func() error { _, err := client.Posts.Update(ctx, "p1", UpdatePostInput{}); return err }, "PUT", "/posts/p1", ""},
		{"posts.delete", func() error { _, err := client.Posts.Delete(ctx, "p1"); return err }, "DELETE", "/posts/p1", ""},
		{"posts.publish", func() error { _, err := client.Posts.Publish(ctx, "p1"); return err }, "POST", "/posts/p1/publish", ""},
		{"accounts.get", func() error { _, err := client.Accounts.Get(ctx, "a1"); return err }, "GET", "/accounts/a1", ""},
		{"accounts.boards", func() error { _, err := client.Accounts.GetPlatformBoards(ctx, "a1"); return err }, "GET", "/accounts/a1/boards", ""},
		{"analytics.overview", func() error {
			_, err := client.Analytics.Overview(ctx, AnalyticsParams{Platform: "bluesky"})
			return err
		}, "GET", "/analytics/overview", "platform=bluesky"},
		{"analytics.account", func() error {
			_, err := client.Analytics.Account(ctx, "a1", AnalyticsParams{})
			return err
		}, "GET", "/analytics/accounts/a1", ""},
		{"media.upload-url", func() error {
			_, err := client.Media.GetUploadURL(ctx, UploadURLInput{Filename: "a.png", ContentType: "image/png"})
			return err
		}, "POST", "/media/upload-url", ""},
		{"usage.get", func() error { _, err := client.Usage.Get(ctx); return err }, "GET", "/usage", ""},
		{"queue.get-slots", func() error { _, err := client.Queue.GetSlots(ctx, "prof_1"); return err }, "GET", "/queue/slots", "profileId=prof_1"},
		{"queue.set-slots", func() error {
			_, err := client.Queue.SetSlots(ctx, SetSlotsInput{ProfileID: "prof_1", Timezone: "UTC", Active: &active})
			return err
		}, "PUT", "/queue/slots", ""},
		{"queue.delete-slots", func() error { _, err := client.Queue.DeleteSlots(ctx, "prof_1"); return err }, "DELETE", "/queue/slots", "profileId=prof_1"},
		{"queue.next-slot", func() error { _, err := client.Queue.GetNextSlot(ctx, "prof_1"); return err }, "GET", "/queue/next-slot", "profileId=prof_1"},
		{"queue.preview", func() error { _, err := client.Queue.Preview(ctx, "prof_1", 5); return err }, "GET", "/queue/preview", "count=5&profileId=prof_1"},
		{"queue.preview-default", func() error { _, err := client.Queue.Preview(ctx, "prof_1", 0); return err }, "GET", "/queue/preview", "profileId=prof_1"},
		{"queue.all", func() error { _, err := client.Queue.GetAll(ctx); return err }, "GET", "/queue/schedules", ""},
		{"webhooks.get", func() error { _, err := client.Webhooks.Get(ctx, "w1"); return err }, "GET", "/webhooks/w1", ""},
		{"webhooks.create", func() error {
			_, err := client.Webhooks.Create(ctx, CreateWebhookInput{URL: "https://example.com", Events: []string{"post.failed"}})
			return err
		}, "POST", "/webhooks", ""},
		{"webhooks.update", func() error { _, err := client.Webhooks.Update(ctx, "w1", UpdateWebhookInput{Active: &active}); return err }, "PUT", "/webhooks/w1", ""},
		{"webhooks.delete", func() error { _, err := client.Webhooks.Delete(ctx, "w1"); return err }, "DELETE", "/webhooks/w1", ""},
		{"webhooks.rotate", func() error { _, err := client.Webhooks.RotateSecret(ctx, "w1"); return err }, "POST", "/webhooks/w1/rotate-secret", ""},
		{"webhooks.test", func() error { _, err := client.Webhooks.Test(ctx, "w1"); return err }, "POST", "/webhooks/w1/test", ""},
		{"webhooks.event-types", func() error { _, err := client.Webhooks.GetEventTypes(ctx); return err }, "GET", "/webhooks/event-types", ""},
		{"tenants.get", func() error { _, err := client.Tenants.Get(ctx, "t1"); return err }, "GET", "/tenants/t1", ""},
		{"tenants.create", func() error { _, err := client.Tenants.Create(ctx, CreateTenantInput{ExternalID: "x"}); return err }, "POST", "/tenants", ""},
		{"tenants.update", func() error { _, err := client.Tenants.Update(ctx, "t1", UpdateTenantInput{}); return err }, "PUT", "/tenants/t1", ""},
		{"tenants.delete", func() error { _, err := client.Tenants.Delete(ctx, "t1"); return err }, "DELETE", "/tenants/t1", ""},
		{"tenants.connect-url", func() error {
			_, err := client.Tenants.GetConnectURL(ctx, "t1", ConnectURLParams{Platform: "linkedin"})
			return err
		}, "GET", "/tenants/t1/connect-url", "platform=linkedin"},
		{"tenants.accounts", func() error { _, err := client.Tenants.ListAccounts(ctx, "t1"); return err }, "GET", "/tenants/t1/accounts", ""},
		{"tenants.disconnect", func() error { _, err := client.Tenants.DisconnectAccount(ctx, "t1", "a1"); return err }, "DELETE", "/tenants/t1/accounts/a1", ""},
		{"tenants.bluesky", func() error {
			_, err := client.Tenants.ConnectBluesky(ctx, "t1", ConnectBlueskyInput{Handle: "me.bsky.social", AppPassword: "pw"})
			return err
		}, "POST", "/tenants/t1/connect/bluesky", ""},
		{"tenants.mastodon", func() error {
			_, err := client.Tenants.ConnectMastodon(ctx, "t1", ConnectMastodonInput{InstanceURL: "https://mastodon.social", AccessToken: "tok"})
			return err
		}, "POST", "/tenants/t1/connect/mastodon", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			rec := last()
			if rec.Method != tc.method || rec.Path != tc.path || rec.Query != tc.query {
				t.Fatalf("got %s %s?%s, want %s %s?%s", rec.Method, rec.Path, rec.Query, tc.method, tc.path, tc.query)
			}
		})
	}
}

func TestListEndpoints(t *testing.T) {
	ctx := context.Background()
	client, last := recordingClient(t, `{"data":[{"id":"x1"}],"pagination":{"total":3,"limit":1,"offset":2,"hasMore":false}}`)

	accounts, err := client.Accounts.List(ctx, ListAccountsParams{Platform: "mastodon"})
	if err != nil {
		t.Fatalf("Accounts.List failed: %v", err)
	}
	rec := last()
	if rec.Path != "/accounts" || rec.Query != "platform=mastodon" {
		t.Fatalf("got %s?%s", rec.Path, rec.Query)
	}
	if len(accounts.Data) != 1 || accounts.Data[0].ID != "x1" || accounts.Pagination.Total != 3 {
		t.Fatalf("unexpected page %+v", accounts)
	}

	if _, err := client.Webhooks.List(ctx, PageParams{Limit: 1, Offset: 2}); err != nil {
		t.Fatalf("Webhooks.List failed: %v", err)
	}
	rec = last()
	if rec.Path != "/webhooks" || rec.Query != "limit=1&offset=2" {
		t.Fatalf("got %s?%s", rec.Path, rec.Query)
	}

	if _, err := client.Webhooks.GetEvents(ctx, "w1", WebhookEventsParams{Status: "failed"}); err != nil {
		t.Fatalf("Webhooks.GetEvents failed: %v", err)
	}
	rec = last()
	if rec.Path != "/webhooks/w1/events" || rec.Query != "status=failed" {
		t.Fatalf("got %s?%s", rec.Path, rec.Query)
	}

	if _, err := client.Tenants.List(ctx, PageParams{}); err != nil {
		t.Fatalf("Tenants.List failed: %v", err)
	}
	rec = last()
	if rec.Path != "/tenants" || rec.Query != "" {
		t.Fatalf("got %s?%s", rec.Path, rec.Query)
	}

	if _, err := client.Analytics.List(ctx, ListAnalyticsParams{AccountID: "a1", PageParams: PageParams{Limit: 5}}); err != nil {
		t.Fatalf("Analytics.List failed: %v", err)
	}
	rec = last()
	if rec.Path != "/analytics" || rec.Query != "accountId=a1&limit=5" {
		t.Fatalf("got %s?%s", rec.Path, rec.Query)
	}
}

func TestConnectBlueskyBody(t *testing.T) {
	client, last := recordingClient(t, `{"data":{"id":"acc_9","platform":"bluesky"}}`)

	res, err := client.Tenants.ConnectBluesky(context.Background(), "t1", ConnectBlueskyInput{Handle: "me.bsky.social", AppPassword: "abcd-efgh"})
	if err != nil {
		t.Fatalf("ConnectBluesky failed: %v", err)
	}
	rec := last()
	want := map[string]any{"handle": "me.bsky.social", "appPassword": "abcd-efgh"}
	if !reflect.DeepEqual(rec.Body, want) {
		t.Fatalf("body = %#v", rec.Body)
	}
	if res.Data.Platform != "bluesky" {
		t.Fatalf("unexpected account %+v", res.Data)
	}
}

func TestEmptyRequiredParameters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL)
	})
	ctx := context.Background()
	noPlatform := ConnectURLParams{RedirectURL: "https://app.example.com"}

	calls := map[string]func() error{
		"queue.get-slots":     func() error { _, err := client.Queue.GetSlots(ctx, ""); return err },
		"queue.set-slots":     func() error { _, err := client.Queue.SetSlots(ctx, SetSlotsInput{Timezone: "UTC"}); return err },
		"queue.delete-slots":  func() error { _, err := client.Queue.DeleteSlots(ctx, " "); return err },
		"queue.next-slot":     func() error { _, err := client.Queue.GetNextSlot(ctx, ""); return err },
		"queue.preview":       func() error { _, err := client.Queue.Preview(ctx, "", 3); return err },
		"tenants.connect-url": func() error { _, err := client.Tenants.GetConnectURL(ctx, "t1", noPlatform); return err },
	}
	for name, call := range calls {
		if _, ok := call().(ValidationError); !ok {
			t.Fatalf("%s: expected ValidationError", name)
		}
	}
}
