package main

import (
	"net/http"

	"github.com/fieldworks/skiptrace/internal/brain"
)

type ingestDocumentRequest struct {
	TargetName string `json:"targetName"`
	Name       string `json:"name"`
	Text       string `json:"text"`
}

func (app *application) ingestDocument(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	var req ingestDocumentRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Text == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}
	app.rememberCase(r.Context(), caseID)

	o := app.orchestratorFor(caseID, req.TargetName)
	if err := o.IngestDocument(r.Context(), req.Name, req.Text); err != nil {
		// The failure is already on the task ledger; the client polls it.
		app.writeJSON(w, r, http.StatusAccepted, o.Context())
		return
	}
	app.writeJSON(w, r, http.StatusOK, o.Context())
}

type ingestImageRequest struct {
	TargetName  string `json:"targetName"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (app *application) ingestImage(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	var req ingestImageRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}
	app.rememberCase(r.Context(), caseID)

	o := app.orchestratorFor(caseID, req.TargetName)
	if err := o.IngestImage(r.Context(), req.Name, req.Description); err != nil {
		app.writeJSON(w, r, http.StatusAccepted, o.Context())
		return
	}
	app.writeJSON(w, r, http.StatusOK, o.Context())
}

type ingestFindingRequest struct {
	TargetName string `json:"targetName"`
	Source     string `json:"source"`
	Summary    string `json:"summary"`
	URL        string `json:"url"`
	Detail     string `json:"detail"`
}

func (app *application) ingestFinding(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	var req ingestFindingRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if req.Summary == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}
	app.rememberCase(r.Context(), caseID)

	o := app.orchestratorFor(caseID, req.TargetName)
	if err := o.IngestWebFinding(r.Context(), brain.WebFinding{
		Source:  req.Source,
		Summary: req.Summary,
		URL:     req.URL,
		Detail:  req.Detail,
	}); err != nil {
		app.writeJSON(w, r, http.StatusAccepted, o.Context())
		return
	}
	app.writeJSON(w, r, http.StatusOK, o.Context())
}
