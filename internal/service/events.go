package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/edge-risk/backend/internal/model"
)

// EventRepo is the storage slice for monitoring events.
type EventRepo interface {
	InsertEvent(ctx context.Context, event *model.Event) (*model.Event, error)
	ListEventsByRange(ctx context.Context, start, end time.Time) ([]*model.Event, error)
}

// EventService validates and records detections sent by edge devices and
// serves the dashboard range query.
type EventService struct {
	repo EventRepo
}

func NewEventService(repo EventRepo) *EventService {
	return &EventService{repo: repo}
}

// Ingest validates one detection and persists it. Evidence arrives as a
// base64-encoded image.
func (s *EventService) Ingest(ctx context.Context, req *model.EventCreateRequest) (*model.Event, error) {
	mac, err := net.ParseMAC(strings.TrimSpace(req.MACAddress))
	if err != nil || len(mac) != 6 {
		return nil, fmt.Errorf("%w: mac_address", ErrInvalidInput)
	}

	class := strings.TrimSpace(req.DetectedClass)
	if class == "" || len(class) > 100 {
		return nil, fmt.Errorf("%w: detected_class", ErrInvalidInput)
	}

	detectedAt, err := time.Parse(time.RFC3339, req.DetectedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: detected_at", ErrInvalidInput)
	}

	evidence, err := base64.StdEncoding.DecodeString(req.Evidence)
	if err != nil || len(evidence) == 0 {
		return nil, fmt.Errorf("%w: evidence", ErrInvalidInput)
	}

	return s.repo.InsertEvent(ctx, &model.Event{
		MACAddress:    strings.ToUpper(mac.String()),
		DetectedClass: class,
		DetectedAt:    detectedAt,
		Evidence:      evidence,
	})
}

// QueryRange returns events detected between two YYYY-MM-DD dates, end day
// inclusive, newest first.
func (s *EventService) QueryRange(ctx context.Context, startDate, endDate string) ([]*model.Event, error) {
	if startDate == "" || endDate == "" {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date", ErrInvalidInput)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date", ErrInvalidInput)
	}

	// Make the end bound cover the whole day.
	end = end.Add(24*time.Hour - time.Second)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}

	return s.repo.ListEventsByRange(ctx, start, end)
}

// EventResponses renders events for the dashboard, evidence re-encoded as
// base64.
func EventResponses(events []*model.Event) []model.EventResponse {
	out := make([]model.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, model.EventResponse{
			ID:            e.ID,
			MACAddress:    e.MACAddress,
			DetectedClass: e.DetectedClass,
			DetectedAt:    e.DetectedAt,
			Evidence:      base64.StdEncoding.EncodeToString(e.Evidence),
			CreatedAt:     e.CreatedAt,
		})
	}
	return out
}
