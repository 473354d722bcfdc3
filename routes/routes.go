package routes

import (
	"net/http"

	"github.com/Dosada05/groupcup/handlers"
	"github.com/Dosada05/groupcup/middleware"
	"github.com/Dosada05/groupcup/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/groupcup/docs" // регистрирует swagger-спецификацию
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	admin := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.RequireRole(services.RoleAdmin))
	}

	router.Post("/auth/login", authHandler.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Group(func(r chi.Router) {
			admin(r)
			r.Post("/", tournamentHandler.CreateHandler)
		})

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Get("/knockout", matchHandler.GetKnockout)

			r.Group(func(r chi.Router) {
				admin(r)
				r.Delete("/", tournamentHandler.DeleteHandler)
				r.Post("/archive", tournamentHandler.ArchiveHandler)

				r.Put("/matches/{index}/score", matchHandler.RecordGroupScore)
				r.Delete("/matches/{index}/score", matchHandler.ClearGroupScore)

				r.Put("/knockout/{stage}/{index}/score", matchHandler.RecordKnockoutScore)
				r.Delete("/knockout/{stage}/{index}/score", matchHandler.ClearKnockoutScore)
			})
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
