package xsched

import (
	"context"
	"net/http"
)

// AccountsService groups the /accounts endpoints.
type AccountsService struct {
	client *Client
}

// ListAccountsParams filters an account listing.
type ListAccountsParams struct {
	PageParams
	Platform string
	TenantID string
}

func (p ListAccountsParams) query() Query {
	q := p.PageParams.query(Query{})
	if p.Platform != "" {
		q["platform"] = p.Platform
	}
	if p.TenantID != "" {
		q["tenantId"] = p.TenantID
	}
	return q
}

func (s *AccountsService) List(ctx context.Context, params ListAccountsParams) (*ListResponse[Account], error) {
	var out ListResponse[Account]
	if err := s.client.do(ctx, http.MethodGet, "/accounts", nil, params.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AccountsService) Get(ctx context.Context, id string) (*Response[Account], error) {
	var out Response[Account]
	if err := s.client.do(ctx, http.MethodGet, pathf("/accounts/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPlatformBoards lists the boards an account can post into.
func (s *AccountsService) GetPlatformBoards(ctx context.Context, id string) (*Response[[]Board], error) {
	var out Response[[]Board]
	if err := s.client.do(ctx, http.MethodGet, pathf("/accounts/%s/boards", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
