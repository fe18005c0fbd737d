package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// streamEvents pushes the case activity feed to the client as Server Sent
// Events. The connection stays open until the client disconnects.
func (app *application) streamEvents(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		app.clientError(w, r, http.StatusNotAcceptable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	messages, cancel := app.events.Subscribe(caseID)
	defer cancel()

	controller := http.NewResponseController(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case message, open := <-messages:
			if !open {
				return
			}
			payload, err := json.Marshal(message)
			if err != nil {
				continue
			}
			// Push the write deadline forward so the server's write timeout
			// does not sever a healthy stream.
			_ = controller.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if _, err = fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
