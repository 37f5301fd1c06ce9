package xsched

import (
	"context"
	"net/http"
	"time"
)

// PostsService groups the /posts endpoints.
type PostsService struct {
	client *Client
}

// ListPostsParams filters a post listing.
type ListPostsParams struct {
	PageParams
	Status    PostStatus
	Platform  string
	AccountID string
	TenantID  string
}

func (p ListPostsParams) query() Query {
	q := p.PageParams.query(Query{})
	if p.Status != "" {
		q["status"] = p.Status
	}
	if p.Platform != "" {
		q["platform"] = p.Platform
	}
	if p.AccountID != "" {
		q["accountId"] = p.AccountID
	}
	if p.TenantID != "" {
		q["tenantId"] = p.TenantID
	}
	return q
}

// CreatePostInput is the body of POST /posts.
type CreatePostInput struct {
	Content         string            `json:"content"`
	AccountIDs      []string          `json:"accountIds"`
	MediaItems      []MediaItem       `json:"mediaItems,omitempty"`
	ScheduledFor    *time.Time        `json:"scheduledFor,omitempty"`
	Timezone        string            `json:"timezone,omitempty"`
	PublishNow      bool              `json:"publishNow,omitempty"`
	IsDraft         bool              `json:"isDraft,omitempty"`
	PlatformContent map[string]string `json:"platformContent,omitempty"`
	TenantID        string            `json:"tenantId,omitempty"`
}

// UpdatePostInput is the body of PUT /posts/{id}. Nil fields are left unchanged.
type UpdatePostInput struct {
	Content         *string           `json:"content,omitempty"`
	AccountIDs      []string          `json:"accountIds,omitempty"`
	MediaItems      []MediaItem       `json:"mediaItems,omitempty"`
	ScheduledFor    *time.Time        `json:"scheduledFor,omitempty"`
	Timezone        *string           `json:"timezone,omitempty"`
	PlatformContent map[string]string `json:"platformContent,omitempty"`
}

func (s *PostsService) List(ctx context.Context, params ListPostsParams) (*ListResponse[Post], error) {
	var out ListResponse[Post]
	if err := s.client.do(ctx, http.MethodGet, "/posts", nil, params.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostsService) Get(ctx context.Context, id string) (*Response[Post], error) {
	var out Response[Post]
	if err := s.client.do(ctx, http.MethodGet, pathf("/posts/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create schedules, drafts or immediately publishes a post.
func (s *PostsService) Create(ctx context.Context, input CreatePostInput) (*Response[Post], error) {
	var out Response[Post]
	if err := s.client.do(ctx, http.MethodPost, "/posts", input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostsService) Update(ctx context.Context, id string, input UpdatePostInput) (*Response[Post], error) {
	var out Response[Post]
	if err := s.client.do(ctx, http.MethodPut, pathf("/posts/%s", id), input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostsService) Delete(ctx context.Context, id string) (*Ack, error) {
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, pathf("/posts/%s", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Publish publishes a draft or scheduled post right away.
func (s *PostsService) Publish(ctx context.Context, id string) (*Response[Post], error) {
	var out Response[Post]
	if err := s.client.do(ctx, http.MethodPost, pathf("/posts/%s/publish", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
