package handler

import "net/http"

// HandleRoot handles GET / with a plain-text banner.
func HandleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Job Portal API is running"))
}

// HandleHealth handles GET /health.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
