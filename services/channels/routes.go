package channels

import (
	"net/http"

	"telechan-backend/lib/httputil"

	"github.com/go-chi/chi/v5"
)

func (s Service) RegisterRoutes(r chi.Router) {
	r.Get("/", s.handleRoot())
}

// handleRoot serves both the health check (no `chan` param) and the channel
// report.
func (s Service) handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("chan")
		if username == "" {
			httputil.OK(w, map[string]string{"status": "ok", "service": "telechan"})
			return
		}
		if !UsernameRegex.MatchString(username) {
			httputil.BadRequest(w, "invalid channel username")
			return
		}

		report, err := s.Report(r.Context(), username)
		if err != nil {
			httputil.BadGateway(w, "failed to scrape channel")
			return
		}
		httputil.OK(w, report)
	}
}
