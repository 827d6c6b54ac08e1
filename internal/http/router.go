package http

import (
	"net/http"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/config"
	"shiftgrab/internal/http/handler"
	mw "shiftgrab/internal/http/middleware"
	"shiftgrab/internal/shift"
	"shiftgrab/internal/sms"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, smsClient *sms.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	svc := &shift.Service{DB: db}

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)
	r.With(auth.RequireAuth(jwtSvc)).Get("/auth/user", ah.User)

	sh := &handler.SettingsHandler{DB: db}
	r.Route("/settings", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Get("/", sh.Get)
		r.Post("/", sh.Update)
	})

	jh := &handler.JobsHandler{Svc: svc, SMS: smsClient, BaseURL: cfg.BaseURL}
	r.With(auth.RequireAuth(jwtSvc)).Post("/jobs", jh.Create)
	r.Get("/jobs/{id}", jh.Get)

	ch := &handler.ClaimHandler{Svc: svc, SMS: smsClient, BaseURL: cfg.BaseURL}
	r.Post("/claim", ch.Claim)
	r.Post("/unclaim", ch.Unclaim)

	st := &handler.StatusHandler{Svc: svc, SMS: smsClient}
	r.Route("/status", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Get("/", st.Get)
		r.Delete("/", st.Delete)
	})

	ph := &handler.PhonesHandler{DB: db}
	r.Route("/phone-numbers", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Get("/", ph.List)
		r.Post("/", ph.Create)
		r.Put("/", ph.Update)
		r.Delete("/", ph.Delete)
	})
	r.Get("/public-phone-numbers", ph.PublicList)
	r.Post("/opt-out", ph.OptOut)
	r.Post("/opt-in", ph.OptIn)

	return r
}
