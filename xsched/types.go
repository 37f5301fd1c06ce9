package xsched

import (
	"encoding/json"
	"time"
)

// Response wraps a single resource returned under "data".
type Response[T any] struct {
	Data T `json:"data"`
}

// ListResponse is the envelope of every paginated list endpoint.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes a page of a list endpoint. Callers page with limit/offset.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// Ack is returned by endpoints that only confirm an action.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PageParams are the shared limit/offset query parameters.
type PageParams struct {
	Limit  int
	Offset int
}

func (p PageParams) query(q Query) Query {
	if p.Limit > 0 {
		q["limit"] = p.Limit
	}
	if p.Offset > 0 {
		q["offset"] = p.Offset
	}
	return q
}

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusDraft      PostStatus = "draft"
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusPublishing PostStatus = "publishing"
	PostStatusPublished  PostStatus = "published"
	PostStatusFailed     PostStatus = "failed"
)

// MediaType classifies a media attachment.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeGIF      MediaType = "gif"
	MediaTypeDocument MediaType = "document"
)

// MediaItem references an uploaded file by its public URL.
type MediaItem struct {
	Type    MediaType `json:"type"`
	URL     string    `json:"url"`
	AltText string    `json:"altText,omitempty"`
}

// Post is a piece of content targeted at one or more accounts.
type Post struct {
	ID              string            `json:"id"`
	Content         string            `json:"content"`
	MediaItems      []MediaItem       `json:"mediaItems,omitempty"`
	Status          PostStatus        `json:"status"`
	ScheduledFor    *time.Time        `json:"scheduledFor,omitempty"`
	Timezone        string            `json:"timezone,omitempty"`
	AccountIDs      []string          `json:"accountIds"`
	PlatformContent map[string]string `json:"platformContent,omitempty"`
	PublishedAt     *time.Time        `json:"publishedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Account is a connected social profile.
type Account struct {
	ID                string `json:"id"`
	Platform          string `json:"platform"`
	PlatformAccountID string `json:"platformAccountId"`
	DisplayName       string `json:"displayName"`
	Username          string `json:"username,omitempty"`
	IsActive          bool   `json:"isActive"`
}

// Board is a platform-side collection an account can post into (e.g. a Pinterest board).
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// QueueSlot is a weekly posting slot. DayOfWeek is 0 (Sunday) through 6, Time is HH:MM.
type QueueSlot struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Time      string `json:"time"`
}

// QueueSchedule is the ordered set of slots of one profile.
type QueueSchedule struct {
	ProfileID string      `json:"profileId"`
	Timezone  string      `json:"timezone"`
	Slots     []QueueSlot `json:"slots"`
	Active    bool        `json:"active"`
}

// NextSlot is the next free queue slot of a profile.
type NextSlot struct {
	ProfileID string    `json:"profileId"`
	NextSlot  time.Time `json:"nextSlot"`
	Timezone  string    `json:"timezone"`
}

// QueuePreview lists upcoming slot times.
type QueuePreview struct {
	ProfileID string      `json:"profileId"`
	Timezone  string      `json:"timezone"`
	Slots     []time.Time `json:"slots"`
}

// WebhookStats summarizes deliveries of a webhook.
type WebhookStats struct {
	TotalDeliveries      int        `json:"totalDeliveries"`
	SuccessfulDeliveries int        `json:"successfulDeliveries"`
	FailedDeliveries     int        `json:"failedDeliveries"`
	LastDeliveryAt       *time.Time `json:"lastDeliveryAt,omitempty"`
}

// Webhook is an outgoing event subscription.
type Webhook struct {
	ID             string       `json:"id"`
	URL            string       `json:"url"`
	Events         []string     `json:"events"`
	MaxRetries     int          `json:"maxRetries"`
	TimeoutSeconds int          `json:"timeoutSeconds"`
	Stats          WebhookStats `json:"stats"`
	Secret         string       `json:"secret,omitempty"`
	Active         bool         `json:"active"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// WebhookEvent is one delivery attempt log entry.
type WebhookEvent struct {
	ID             string          `json:"id"`
	WebhookID      string          `json:"webhookId"`
	EventType      string          `json:"eventType"`
	Status         string          `json:"status"`
	Attempts       int             `json:"attempts"`
	ResponseStatus int             `json:"responseStatus,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// EventType names an event a webhook can subscribe to.
type EventType struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WebhookSecret is returned when a secret is rotated.
type WebhookSecret struct {
	Secret string `json:"secret"`
}

// WebhookTestResult reports a synthetic delivery.
type WebhookTestResult struct {
	Success        bool   `json:"success"`
	StatusCode     int    `json:"statusCode"`
	ResponseTimeMs int    `json:"responseTimeMs"`
	Error          string `json:"error,omitempty"`
}

// Tenant is an end customer managed under the API key's organization.
type Tenant struct {
	ID         string            `json:"id"`
	ExternalID string            `json:"externalId"`
	Name       string            `json:"name,omitempty"`
	Email      string            `json:"email,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// ConnectURL is an OAuth link a tenant follows to connect a platform account.
type ConnectURL struct {
	URL       string     `json:"url"`
	Platform  string     `json:"platform"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Quota is a used/limit pair.
type Quota struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// Usage reports plan consumption for the current billing period.
type Usage struct {
	Plan        string    `json:"plan"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Posts       Quota     `json:"posts"`
	Accounts    Quota     `json:"accounts"`
	Tenants     Quota     `json:"tenants"`
}

// PlatformStats aggregates engagement for one platform.
type PlatformStats struct {
	Posts       int   `json:"posts"`
	Impressions int64 `json:"impressions"`
	Engagements int64 `json:"engagements"`
}

// AnalyticsOverview aggregates engagement over a date range.
type AnalyticsOverview struct {
	TotalPosts     int                      `json:"totalPosts"`
	PublishedPosts int                      `json:"publishedPosts"`
	FailedPosts    int                      `json:"failedPosts"`
	Impressions    int64                    `json:"impressions"`
	Engagements    int64                    `json:"engagements"`
	EngagementRate float64                  `json:"engagementRate"`
	ByPlatform     map[string]PlatformStats `json:"byPlatform,omitempty"`
}

// AccountAnalytics is engagement for a single account.
type AccountAnalytics struct {
	AccountID   string `json:"accountId"`
	Platform    string `json:"platform"`
	Followers   int64  `json:"followers"`
	Posts       int    `json:"posts"`
	Impressions int64  `json:"impressions"`
	Engagements int64  `json:"engagements"`
}

// PostAnalytics is engagement for one published post on one platform.
type PostAnalytics struct {
	PostID      string     `json:"postId"`
	AccountID   string     `json:"accountId"`
	Platform    string     `json:"platform"`
	Impressions int64      `json:"impressions"`
	Likes       int64      `json:"likes"`
	Comments    int64      `json:"comments"`
	Shares      int64      `json:"shares"`
	Clicks      int64      `json:"clicks"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
