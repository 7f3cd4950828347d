package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/marcyannick1/roomly-backend-go/internal/handler/http/middleware"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	Env         string
	FrontendURL string
}

func NewRouter(
	JWTService jwt.Service,
	visitHandler VisitHandler,
	notificationHandler NotificationHandler,
	cfg RouterConfig,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "roomly-backend"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE stream authenticates with its own short-lived token
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/visits", func(r chi.Router) {
				r.Post("/", visitHandler.Create)
				r.Get("/decline-reasons", visitHandler.DeclineReasons)

				r.Route("/my", func(r chi.Router) {
					r.Get("/", visitHandler.ListMy)
					r.Get("/calendar", visitHandler.Calendar)
				})

				r.Post("/{visitID}/transition", visitHandler.Transition)
			})

			r.Get("/matches/{matchID}/visits", visitHandler.ListForMatch)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/read", notificationHandler.MarkRead)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Post("/stream-token", notificationHandler.StreamToken)
			})
		})
	})

	return r
}
