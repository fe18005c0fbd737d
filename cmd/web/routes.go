package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave)
	// scs's LoadAndSave buffers the response, which breaks streaming.
	stream := alice.New(app.serverSentEventMiddleware)

	mux.Handle("GET /api/healthy", session.ThenFunc(app.healthy))
	mux.Handle("GET /api/cases/last", session.ThenFunc(app.lastCase))

	mux.Handle("POST /api/cases/{caseID}/documents", session.ThenFunc(app.ingestDocument))
	mux.Handle("POST /api/cases/{caseID}/images", session.ThenFunc(app.ingestImage))
	mux.Handle("POST /api/cases/{caseID}/findings", session.ThenFunc(app.ingestFinding))
	mux.Handle("POST /api/cases/{caseID}/sweep", session.ThenFunc(app.runSweep))
	mux.Handle("POST /api/cases/{caseID}/chat", session.ThenFunc(app.chat))

	mux.Handle("GET /api/cases/{caseID}/locations", session.ThenFunc(app.locations))
	mux.Handle("GET /api/cases/{caseID}/report", session.ThenFunc(app.report))
	mux.Handle("GET /api/cases/{caseID}/tasks", session.ThenFunc(app.tasks))
	mux.Handle("GET /api/cases/{caseID}/stream", stream.ThenFunc(app.streamEvents))

	return alice.New(app.recoverPanic, app.logRequest, secureHeaders, noSurf).Then(mux)
}
