package service

import (
	"context"
	"fmt"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/pkg/idx"
)

// SOSService keeps the append-only emergency alert log.
type SOSService struct {
	Store store.Store
}

// AlertInput carries an optional location fix from the client.
type AlertInput struct {
	Message   string
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64
}

func (s *SOSService) Record(ctx context.Context, userID string, in AlertInput) (domain.SOSAlert, error) {
	alert := domain.SOSAlert{
		ID:        idx.MustNew().String(),
		UserID:    userID,
		Message:   in.Message,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Accuracy:  in.Accuracy,
		CreatedAt: time.Now().UTC(),
	}
	if in.Latitude != nil && in.Longitude != nil {
		alert.MapsLink = fmt.Sprintf("https://maps.google.com/?q=%f,%f", *in.Latitude, *in.Longitude)
	}

	if err := s.Store.SOSAlerts().CreateAlert(ctx, alert); err != nil {
		return domain.SOSAlert{}, err
	}
	return alert, nil
}

func (s *SOSService) List(ctx context.Context, userID string) ([]domain.SOSAlert, error) {
	return s.Store.SOSAlerts().ListAlertsByUser(ctx, userID)
}
