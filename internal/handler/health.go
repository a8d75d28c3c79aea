package handler

import "net/http"

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to TDD AI Assistant Backend"

// HandleRoot greets API clients.
func HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

// Health reports liveness and the backend in use. A backend that failed its
// availability probe never gets this far: the process does not start.
func Health(backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"backend": backend,
		})
	}
}
