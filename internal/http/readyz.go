package http

import (
	"net/http"
	"time"

	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/pkg/httpx"
)

// ReadyzHandler checks the critical dependencies, currently just the
// database.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		statusCode := http.StatusOK
		database := "ok"

		if err := st.Ping(r.Context()); err != nil {
			database = "error: " + err.Error()
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, map[string]any{
			"status":  status,
			"uptime":  time.Since(startTime).String(),
			"version": version,
			"checks":  map[string]string{"database": database},
		})
	}
}
