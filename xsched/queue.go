package xsched

import (
	"context"
	"net/http"
	"strings"
)

// QueueService manages recurring weekly posting slots.
type QueueService struct {
	client *Client
}

// SetSlotsInput replaces the slots of a profile.
type SetSlotsInput struct {
	ProfileID string      `json:"profileId"`
	Timezone  string      `json:"timezone"`
	Slots     []QueueSlot `json:"slots"`
	Active    *bool       `json:"active,omitempty"`
}

func requireProfileID(profileID string) error {
	if strings.TrimSpace(profileID) == "" {
		return ValidationError{Field: "profileId", Reason: "must not be empty"}
	}
	return nil
}

func (s *QueueService) GetSlots(ctx context.Context, profileID string) (*Response[QueueSchedule], error) {
	if err := requireProfileID(profileID); err != nil {
		return nil, err
	}
	var out Response[QueueSchedule]
	if err := s.client.do(ctx, http.MethodGet, "/queue/slots", nil, Query{"profileId": profileID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *QueueService) SetSlots(ctx context.Context, input SetSlotsInput) (*Response[QueueSchedule], error) {
	if err := requireProfileID(input.ProfileID); err != nil {
		return nil, err
	}
	var out Response[QueueSchedule]
	if err := s.client.do(ctx, http.MethodPut, "/queue/slots", input, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *QueueService) DeleteSlots(ctx context.Context, profileID string) (*Ack, error) {
	if err := requireProfileID(profileID); err != nil {
		return nil, err
	}
	var out Ack
	if err := s.client.do(ctx, http.MethodDelete, "/queue/slots", nil, Query{"profileId": profileID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *QueueService) GetNextSlot(ctx context.Context, profileID string) (*Response[NextSlot], error) {
	if err := requireProfileID(profileID); err != nil {
		return nil, err
	}
	var out Response[NextSlot]
	if err := s.client.do(ctx, http.MethodGet, "/queue/next-slot", nil, Query{"profileId": profileID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Preview lists the next count slot times; count <= 0 leaves the server default.
func (s *QueueService) Preview(ctx context.Context, profileID string, count int) (*Response[QueuePreview], error) {
	if err := requireProfileID(profileID); err != nil {
		return nil, err
	}
	q := Query{"profileId": profileID}
	if count > 0 {
		q["count"] = count
	}
	var out Response[QueuePreview]
	if err := s.client.do(ctx, http.MethodGet, "/queue/preview", nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAll returns the queue schedules of every profile.
func (s *QueueService) GetAll(ctx context.Context) (*Response[[]QueueSchedule], error) {
	var out Response[[]QueueSchedule]
	if err := s.client.do(ctx, http.MethodGet, "/queue/schedules", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
