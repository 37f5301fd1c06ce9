package xsched

import (
	"context"
	"net/http"
	"time"
)

// AnalyticsService groups the /analytics endpoints.
type AnalyticsService struct {
	client *Client
}

// AnalyticsParams narrows analytics to a date range and platform.
type AnalyticsParams struct {
	From     *time.Time
	To       *time.Time
	Platform string
}

func (p AnalyticsParams) query(q Query) Query {
	q["from"] = p.From
	q["to"] = p.To
	if p.Platform != "" {
		q["platform"] = p.Platform
	}
	return q
}

// ListAnalyticsParams filters per-post analytics.
type ListAnalyticsParams struct {
	AnalyticsParams
	PageParams
	AccountID string
}

func (p ListAnalyticsParams) query() Query {
	q := p.PageParams.query(p.AnalyticsParams.query(Query{}))
	if p.AccountID != "" {
		q["accountId"] = p.AccountID
	}
	return q
}

func (s *AnalyticsService) Overview(ctx context.Context, params AnalyticsParams) (*Response[AnalyticsOverview], error) {
	var out Response[AnalyticsOverview]
	if err := s.client.do(ctx, http.MethodGet, "/analytics/overview", nil, params.query(Query{}), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Account returns analytics for a single connected account.
func (s *AnalyticsService) Account(ctx context.Context, accountID string, params AnalyticsParams) (*Response[AccountAnalytics], error) {
	var out Response[AccountAnalytics]
	if err := s.client.do(ctx, http.MethodGet, pathf("/analytics/accounts/%s", accountID), nil, params.query(Query{}), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AnalyticsService) List(ctx context.Context, params ListAnalyticsParams) (*ListResponse[PostAnalytics], error) {
	var out ListResponse[PostAnalytics]
	if err := s.client.do(ctx, http.MethodGet, "/analytics", nil, params.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
