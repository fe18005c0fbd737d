package main

import (
	"net/http"

	"github.com/fieldworks/skiptrace/internal/errors"
)

type chatRequest struct {
	TargetName string `json:"targetName"`
	Message    string `json:"message"`
}

type chatResponse struct {
	Reply   string   `json:"reply"`
	Applied []string `json:"applied,omitempty"`
}

func (app *application) chat(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	var req chatRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}
	app.rememberCase(r.Context(), caseID)

	currentIntel, err := app.intelStore.Load(r.Context(), caseID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "load case intel"))
		return
	}

	o := app.orchestratorFor(caseID, req.TargetName)
	reply, applied, err := o.Chat(r.Context(), currentIntel, req.Message)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "chat"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, chatResponse{Reply: reply, Applied: applied})
}
