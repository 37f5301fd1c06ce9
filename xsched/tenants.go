package xsched

import (
	"context"
	"net/http"
)

// TenantsService manages end customers and the accounts they connect.
type TenantsService struct {
	client *Client
}

// CreateTenantInput is the body of POST /tenants.
type CreateTenantInput struct {
	ExternalID string            `json:"externalId"`
	Name       string            `json:"name,omitempty"`
	Email      string            `json:"email,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// UpdateTenantInput is the body of PUT /tenants/{id}. Nil fields are left unchanged.
type UpdateTenantInput struct {
	Name     *string           `json:"name,omitempty"`
	Email    *string           `json:"email,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ConnectURLParams selects the platform and post-connect redirect.
type ConnectURLParams struct {
	Platform    string
	RedirectURL string
}

// ConnectBlueskyInput carries a Bluesky handle and app password.
type ConnectBlueskyInput struct {
	Handle      string `json:"handle"`
	AppPassword string `json:"appPassword"`
}

// ConnectMastodonInput carries a Mastodon instance and user access token.
type ConnectMastodonInput struct {
	InstanceURL string `json:"instanceUrl"`
	AccessToken string `json:"accessToken"`
}

func (s *TenantsService) List(ctx context.Context, params PageParams) (*ListResponse[Tenant], error) {
	var out ListResponse[Tenant]
	if err := s.client.do(ctx, http.MethodGet, "/tenants", nil, params.query(Query{}), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TenantsService) Get(ctx context.Context, id string) (*Response[Tenant], error) {
	var out Response[Tenant]
	if err := s.client.do(ctx, http.MethodGet, pathf("/tenants/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TenantsService) Create(ctx context.Context, input CreateTenantInput) (*Response[Tenant], error) {
	var out Response[Tenant]
	if err := s.client.do(ctx, http.MethodPost, "/tenants", input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TenantsService) Update(ctx context.Context, id string, input UpdateTenantInput) (*Response[Tenant], error) {
	var out Response[Tenant]
	if err := s.client.do(ctx, http.MethodPut, pathf("/tenants/%s", id), input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a tenant together with its connected accounts.
func (s *TenantsService) Delete(ctx context.Context, id string) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, pathf("/tenants/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConnectURL returns an OAuth link the tenant opens to connect an account.
func (s *TenantsService) GetConnectURL(ctx context.Context, id string, params ConnectURLParams) (*Response[ConnectURL], error) {
	if params.Platform == "" {
		return nil, ValidationError{Field: "platform", Reason: "must not be empty"}
	}
	q := Query{"platform": params.Platform}
	if params.RedirectURL != "" {
		q["redirectUrl"] = params.RedirectURL
	}
	var out Response[ConnectURL]
	if err := s.client.do(ctx, http.MethodGet, pathf("/tenants/%s/connect-url", id), nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TenantsService) ListAccounts(ctx context.Context, id string) (*Response[[]Account], error) {
	var out Response[[]Account]
	if err := s.client.do(ctx, http.MethodGet, pathf("/tenants/%s/accounts", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TenantsService) DisconnectAccount(ctx context.Context, id, accountID string) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, pathf("/tenants/%s/accounts/%s", id, accountID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectBluesky connects a Bluesky account with an app password; no OAuth redirect is involved.
func (s *TenantsService) ConnectBluesky(ctx context.Context, id string, input ConnectBlueskyInput) (*Response[Account], error) {
	var out Response[Account]
	if err := s.client.do(ctx, http.MethodPost, pathf("/tenants/%s/connect/bluesky", id), input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectMastodon connects a Mastodon account with an existing access token.
func (s *TenantsService) ConnectMastodon(ctx context.Context, id string, input ConnectMastodonInput) (*Response[Account], error) {
	var out Response[Account]
	if err := s.client.do(ctx, http.MethodPost, pathf("/tenants/%s/connect/mastodon", id), input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
