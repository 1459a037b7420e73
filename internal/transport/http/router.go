package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bdgram/api/internal/application/auth"
	"github.com/bdgram/api/internal/application/contact"
	"github.com/bdgram/api/internal/application/profile"
	"github.com/bdgram/api/internal/config"
	"github.com/bdgram/api/internal/transport/http/handler"
	appmiddleware "github.com/bdgram/api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	authSvc := auth.NewService(deps.UserRepo, deps.Mailer, deps.JWTProvider, deps.GoogleVerifier)
	profileSvc := profile.NewService(deps.UserRepo, deps.Images, deps.JWTProvider)
	contactSvc := contact.NewService(deps.ContactRepo, deps.UserRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthenticationHandler(authSvc, deps.JWTProvider.CookieExpiry(), cfg.AppEnv == "production")
	profileH := handler.NewProfileHandler(profileSvc)
	contactH := handler.NewContactHandler(contactSvc)
	imageH := handler.NewImageHandler(profileSvc)
	logH := handler.NewLogHandler(profileSvc)

	// ── Public routes (no auth) ──────────────────────────────────────────────
	r.Get("/health-check/ping", healthH.Ping)
	r.Post("/authentication/sign-up", authH.SignUp)
	r.Post("/authentication/login", authH.Login)
	r.Post("/authentication/google", authH.Google)
	r.Post("/authentication/change-password", authH.ChangePassword)
	r.Post("/authentication/forgot-password", authH.ForgotPassword)
	r.Post("/authentication/resend-otp", authH.ResendOTP)
	r.Post("/authentication/verify-otp", authH.VerifyOTP)
	r.Post("/authentication/reset-password", authH.ResetPassword)

	r.Put("/authentication/profile", profileH.Update)

	r.Get("/contact", contactH.List)
	r.Post("/contact", contactH.Add)
	r.Delete("/contact", contactH.Delete)
	r.Delete("/contact/{id}", contactH.Delete)

	r.Get("/image", imageH.Get)
	r.Get("/log", logH.Get)

	// ── Authenticated routes ─────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Get("/authentication/session", authH.Session)
	})

	// Locally stored profile pictures are served straight off disk.
	if cfg.ImageStoreType == "local" {
		fs := http.StripPrefix(cfg.UploadBaseURL, http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get(cfg.UploadBaseURL+"/*", func(w http.ResponseWriter, req *http.Request) {
			fs.ServeHTTP(w, req)
		})
	}

	return r
}
