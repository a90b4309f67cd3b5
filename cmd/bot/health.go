package main

import (
	"net/http"
	"time"
)

// @Summary		Health check
// @Description	returns the status of the service and the size of the loaded table
// @Tags			Health
// @Produce		json
// @Success		200	{object}	map[string]any
// @Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"status":   "available",
		"version":  version,
		"records":  app.store.Len(),
		"sessions": app.sessions.Count(),
	}
	if loadedAt := app.store.LoadedAt(); !loadedAt.IsZero() {
		data["loaded_at"] = loadedAt.Format(time.RFC3339)
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
