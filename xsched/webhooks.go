package xsched

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// WebhooksService manages outgoing event subscriptions.
type WebhooksService struct {
	client *Client
}

// CreateWebhookInput is the body of POST /webhooks.
type CreateWebhookInput struct {
	URL            string   `json:"url"`
	Events         []string `json:"events"`
	MaxRetries     *int     `json:"maxRetries,omitempty"`
	TimeoutSeconds *int     `json:"timeoutSeconds,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

// UpdateWebhookInput is the body of PUT /webhooks/{id}. Nil fields are left unchanged.
type UpdateWebhookInput struct {
	URL            *string  `json:"url,omitempty"`
	Events         []string `json:"events,omitempty"`
	MaxRetries     *int     `json:"maxRetries,omitempty"`
	TimeoutSeconds *int     `json:"timeoutSeconds,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

// WebhookEventsParams filters the delivery log.
type WebhookEventsParams struct {
	PageParams
	Status string
}

func (s *WebhooksService) List(ctx context.Context, params PageParams) (*ListResponse[Webhook], error) {
	var out ListResponse[Webhook]
	if err := s.client.do(ctx, http.MethodGet, "/webhooks", nil, params.query(Query{}), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhooksService) Get(ctx context.Context, id string) (*Response[Webhook], error) {
	var out Response[Webhook]
	if err := s.client.do(ctx, http.MethodGet, pathf("/webhooks/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a webhook. The response carries the signing secret.
func (s *WebhooksService) Create(ctx context.Context, input CreateWebhookInput) (*Response[Webhook], error) {
	var out Response[Webhook]
	if err := s.client.do(ctx, http.MethodPost, "/webhooks", input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhooksService) Update(ctx context.Context, id string, input UpdateWebhookInput) (*Response[Webhook], error) {
	var out Response[Webhook]
	if err := s.client.do(ctx, http.MethodPut, pathf("/webhooks/%s", id), input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhooksService) Delete(ctx context.Context, id string) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, pathf("/webhooks/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RotateSecret invalidates the current signing secret and returns a new one.
func (s *WebhooksService) RotateSecret(ctx context.Context, id string) (*Response[WebhookSecret], error) {
	var out Response[WebhookSecret]
	if err := s.client.do(ctx, http.MethodPost, pathf("/webhooks/%s/rotate-secret", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Test sends a synthetic event to the webhook URL.
func (s *WebhooksService) Test(ctx context.Context, id string) (*Response[WebhookTestResult], error) {
	var out Response[WebhookTestResult]
	if err := s.client.do(ctx, http.MethodPost, pathf("/webhooks/%s/test", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhooksService) GetEvents(ctx context.Context, id string, params WebhookEventsParams) (*ListResponse[WebhookEvent], error) {
	q := params.PageParams.query(Query{})
	if params.Status != "" {
		q["status"] = params.Status
	}
	var out ListResponse[WebhookEvent]
	if err := s.client.do(ctx, http.MethodGet, pathf("/webhooks/%s/events", id), nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhooksService) GetEventTypes(ctx context.Context) (*Response[[]EventType], error) {
	var out Response[[]EventType]
	if err := s.client.do(ctx, http.MethodGet, "/webhooks/event-types", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyWebhookSignature checks the hex HMAC-SHA256 of payload, with or
// without a "sha256=" prefix, against the webhook secret.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	got, err := hex.DecodeString(signature)
	if err != nil || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}
