package main

import (
	"net/http"

	"github.com/fieldworks/skiptrace/internal/errors"
	"github.com/fieldworks/skiptrace/internal/intel"
)

func (app *application) locations(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	o := app.orchestratorFor(caseID, r.URL.Query().Get("targetName"))
	snapshot := o.Context()
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"topLocations": snapshot.TopLocations,
		"confidence":   snapshot.Confidence,
		"actionPlan":   snapshot.ActionPlan,
	})
}

func (app *application) report(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	targetName := r.URL.Query().Get("targetName")

	state, err := app.intelStore.Load(r.Context(), caseID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "load case intel"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(intel.BuildReport(targetName, state)))
}

func (app *application) tasks(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	o := app.orchestratorFor(caseID, r.URL.Query().Get("targetName"))
	app.writeJSON(w, r, http.StatusOK, o.Tasks())
}

func (app *application) lastCase(w http.ResponseWriter, r *http.Request) {
	caseID := app.sessionManager.GetString(r.Context(), "lastCaseID")
	app.writeJSON(w, r, http.StatusOK, map[string]string{"caseId": caseID})
}
