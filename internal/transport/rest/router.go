package rest

import "net/http"

// Handlers groups the REST handlers mounted by NewRouter.
type Handlers struct {
	Auth      *AuthHandler
	Interview *InterviewHandler
	Export    *ExportHandler
	Voice     *VoiceHandler
	Health    *HealthHandler
}

// NewRouter registers all routes on a fresh ServeMux. Authentication is not
// enforced here: the auth middleware resolves the bearer token into the
// context and each service rejects anonymous callers itself.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /auth/logout", h.Auth.Logout)

	mux.HandleFunc("POST /interviews", h.Interview.Create)
	mux.HandleFunc("GET /interviews", h.Interview.List)
	mux.HandleFunc("GET /interviews/{id}", h.Interview.Get)
	mux.HandleFunc("POST /interviews/respond", h.Interview.Respond)
	mux.HandleFunc("POST /interviews/{id}/answers", h.Interview.UpdateAnswer)

	mux.HandleFunc("GET /interviews/{id}/document", h.Export.Document)
	mux.HandleFunc("GET /interviews/{id}/transcript", h.Export.Transcript)

	mux.HandleFunc("POST /voice/transcriptions", h.Voice.Transcriptions)
	mux.HandleFunc("POST /voice/speech", h.Voice.Speech)
	mux.HandleFunc("POST /voice/realtime-sessions", h.Voice.RealtimeSessions)

	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	return mux
}
