package main

import "net/http"

type ReloadResult struct {
	Records int `json:"records"`
}

type ReloadResponse = APIResponse[ReloadResult]

// @Summary		Reload records
// @Description	Reloads the installation table from its source. On failure the table is left empty.
// @Tags			Records
// @Produce		json
// @Success		200	{object}	ReloadResponse	"Table reloaded"
// @Failure		500	{object}	ErrorResponse	"Failed to load table"
// @Router			/reload [post]
func (app *application) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := app.reloader.Reload(r.Context()); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to reload records: "+err.Error())
		return
	}

	response := &ReloadResponse{
		Success: true,
		Data:    ReloadResult{Records: app.store.Len()},
		Message: "Successfully reloaded records",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
