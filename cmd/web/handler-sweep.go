package main

import (
	"net/http"

	"github.com/fieldworks/skiptrace/internal/errors"
	"github.com/fieldworks/skiptrace/internal/osint"
)

type sweepRequest struct {
	TargetName string `json:"targetName"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// runSweep fans the target's identifiers out to the OSINT backend and feeds
// every finding into the case.
func (app *application) runSweep(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	var req sweepRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if req.Username == "" && req.Email == "" && req.Phone == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}
	app.rememberCase(r.Context(), caseID)

	sweep := app.osintClient.FullSweep(r.Context(), osint.Target{
		Name:     req.TargetName,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	findings := app.osintClient.Findings(r.Context(), sweep)

	o := app.orchestratorFor(caseID, req.TargetName)
	for _, finding := range findings {
		if err := o.IngestWebFinding(r.Context(), finding); err != nil {
			app.serverError(w, r, errors.Wrap(err, "ingest web finding"))
			return
		}
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"findings": len(findings),
		"errors":   sweep.Errors,
	})
}
