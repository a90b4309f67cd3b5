package main

import (
	"errors"
	"net/http"

	"github.com/farxc/consulta-energia/internal/bot"
	"github.com/farxc/consulta-energia/internal/region"
)

type SpeciesItem struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount,omitempty"`
}

type Installation struct {
	Region  string              `json:"region"`
	Record  map[string]string   `json:"record"`
	Species []SpeciesItem       `json:"species"`
	History []map[string]string `json:"history"`
	Text    string              `json:"text"`
}

type GetInstallationResponse = APIResponse[Installation]

// @Summary		Look up an installation
// @Description	Finds an installation by installation or meter number within a region.
// @Tags			Records
// @Produce		json
// @Param			estado	query		string					true	"Region code (MA, PA, PI, AL)"
// @Param			numero	query		string					true	"Installation or meter number; non-digits are ignored"
// @Success		200		{object}	GetInstallationResponse	"Installation found"
// @Failure		400		{object}	ErrorResponse			"Invalid region or number"
// @Failure		404		{object}	ErrorResponse			"Installation not found"
// @Router			/installations [get]
func (app *application) handleGetInstallation(w http.ResponseWriter, r *http.Request) {
	estadoParam := r.URL.Query().Get("estado")
	numeroParam := r.URL.Query().Get("numero")

	code, err := region.Parse(estadoParam)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid estado parameter")
		return
	}

	res, err := app.handler.Query(code, numeroParam)
	switch {
	case errors.Is(err, bot.ErrInvalidQuery):
		writeJSONError(w, http.StatusBadRequest, "invalid numero parameter")
		return
	case errors.Is(err, bot.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "installation not found")
		return
	case err != nil:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data := Installation{
		Region:  string(res.Region),
		Record:  res.Record.Map(),
		Species: make([]SpeciesItem, 0, len(res.Species)),
		History: make([]map[string]string, 0, len(res.History)),
		Text:    res.Text(),
	}
	for _, it := range res.Species {
		data.Species = append(data.Species, SpeciesItem{Code: it.Code, Description: it.Description, Amount: it.Amount})
	}
	for _, ev := range res.History {
		data.History = append(data.History, ev.Map())
	}

	response := &GetInstallationResponse{
		Success: true,
		Data:    data,
		Message: "Successfully found installation",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
