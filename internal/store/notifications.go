package store

import (
	"context"

	"github.com/metgo3d/fieldsync/internal/models"
)

// maxNotifications caps the local notification log.
const maxNotifications = 100

// AppendNotification prepends n to the local notification log, keeping the
// newest maxNotifications entries.
func (s *Store) AppendNotification(ctx context.Context, n models.Alert) error {
	var log []models.Alert
	if _, err := s.GetPlain(ctx, KeyNotifications, &log); err != nil {
		return err
	}

	log = append([]models.Alert{n}, log...)
	if len(log) > maxNotifications {
		log = log[:maxNotifications]
	}

	return s.SetPlain(ctx, KeyNotifications, log)
}

// Notifications returns the local notification log, newest first.
func (s *Store) Notifications(ctx context.Context) ([]models.Alert, error) {
	var log []models.Alert
	if _, err := s.GetPlain(ctx, KeyNotifications, &log); err != nil {
		return nil, err
	}
	return log, nil
}
