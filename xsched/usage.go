package xsched

import (
	"context"
	"net/http"
)

// UsageService exposes plan consumption.
type UsageService struct {
	client *Client
}

func (s *UsageService) Get(ctx context.Context) (*Response[Usage], error) {
	var out Response[Usage]
	if err := s.client.do(ctx, http.MethodGet, "/usage", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
