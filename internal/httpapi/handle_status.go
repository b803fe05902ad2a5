package httpapi

import "net/http"

func handleStatus(b Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.Status())
	}
}

func handleHealth(b Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := b.Status()
		if st.Map == "" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "map": st.Map})
	}
}
