package main

import (
	"context"

	"github.com/fieldworks/skiptrace/internal/brain"
	"github.com/fieldworks/skiptrace/internal/extract"
	"github.com/fieldworks/skiptrace/internal/orchestrator"
)

// orchestratorFor returns the live orchestrator for a case, creating it on
// first use. Orchestrators live for the process lifetime; the curated case
// intelligence is what persists across restarts.
func (app *application) orchestratorFor(caseID string, targetName string) *orchestrator.Orchestrator {
	app.mu.Lock()
	defer app.mu.Unlock()

	if existing, ok := app.orchestrators[caseID]; ok {
		return existing
	}

	extractor := extract.NewLLMExtractor(app.completer, app.logger)
	o := orchestrator.New(
		caseID,
		targetName,
		extractor,
		extractor,
		brain.NewEngine(app.completer, app.logger),
		app.completer,
		app.intelStore,
		app.logger,
	)
	o.SetMessageSink(func(message orchestrator.Message) {
		app.events.Publish(caseID, message)
	})
	app.orchestrators[caseID] = o
	return o
}

// rememberCase records the case the operator last touched in their session so
// the UI can reopen it.
func (app *application) rememberCase(ctx context.Context, caseID string) {
	app.sessionManager.Put(ctx, "lastCaseID", caseID)
}
