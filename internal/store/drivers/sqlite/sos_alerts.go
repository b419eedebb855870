package sqlite

import (
	"context"
	"database/sql"

	"github.com/triptab/triptab/internal/domain"
)

type sosAlertsRepo struct {
	db dbtx
}

func (r *sosAlertsRepo) CreateAlert(ctx context.Context, a domain.SOSAlert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sos_alerts (id, user_id, message, latitude, longitude, accuracy, maps_link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Message,
		mapOptionalFloat(a.Latitude), mapOptionalFloat(a.Longitude), mapOptionalFloat(a.Accuracy),
		a.MapsLink, a.CreatedAt)
	return mapConflict(err)
}

func (r *sosAlertsRepo) ListAlertsByUser(ctx context.Context, userID string) ([]domain.SOSAlert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, message, latitude, longitude, accuracy, maps_link, created_at
		FROM sos_alerts WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.SOSAlert
	for rows.Next() {
		var (
			a             domain.SOSAlert
			lat, lng, acc sql.NullFloat64
		)
		err := rows.Scan(&a.ID, &a.UserID, &a.Message, &lat, &lng, &acc, &a.MapsLink, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		a.Latitude = mapNullFloatPtr(lat)
		a.Longitude = mapNullFloatPtr(lng)
		a.Accuracy = mapNullFloatPtr(acc)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
