package routes

import (
	"github.com/Asadbek07/event-match-system/handlers"
	"github.com/Asadbek07/event-match-system/middleware"
	"github.com/Asadbek07/event-match-system/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

// Deps - всё, что нужно маршрутизатору: обработчики, аутентификация и
// ограничитель частоты запросов.
type Deps struct {
	Auth               *middleware.Auth
	RateGate           ratelimit.Gate
	AuthHandler        *handlers.AuthHandler
	ParticipantHandler *handlers.ParticipantHandler
	SelectionHandler   *handlers.SelectionHandler
	AdminHandler       *handlers.AdminHandler
	EventHandler       *handlers.EventHandler
	LiveHandler        *handlers.LiveHandler
}

func SetupRoutes(router *chi.Mux, deps Deps) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/participants", func(r chi.Router) {
		// Публичные ручки прикрыты лимитами, чтобы стойку регистрации
		// нельзя было завалить перебором номеров.
		r.With(middleware.RateLimit(deps.RateGate, ratelimit.PresetRegistration)).
			Post("/register", deps.ParticipantHandler.Register)
		r.With(middleware.RateLimit(deps.RateGate, ratelimit.PresetLogin)).
			Post("/login", deps.AuthHandler.ParticipantLogin)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(middleware.Authorize(middleware.RoleParticipant))
			r.Use(middleware.RateLimit(deps.RateGate, ratelimit.PresetAPI))

			r.Get("/approved", deps.ParticipantHandler.ListApproved)
		})
	})

	// Собственные выборки участника.
	router.Route("/selections", func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(middleware.Authorize(middleware.RoleParticipant))
		r.Use(middleware.RateLimit(deps.RateGate, ratelimit.PresetAPI))

		r.Post("/", deps.SelectionHandler.Create)
		r.Get("/", deps.SelectionHandler.ListMine)
		r.Delete("/{selectionID}", deps.SelectionHandler.Revoke)
	})

	// Админские маршруты. Взаимность видна только здесь.
	router.Route("/admin", func(r chi.Router) {
		r.With(middleware.RateLimit(deps.RateGate, ratelimit.PresetLogin)).
			Post("/login", deps.AuthHandler.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(middleware.Authorize(middleware.RoleAdmin))

			r.Route("/participants", func(r chi.Router) {
				r.Get("/", deps.AdminHandler.ListParticipants)
				r.Get("/{participantID}", deps.AdminHandler.GetParticipant)
				r.Patch("/{participantID}", deps.AdminHandler.UpdateParticipant)
				r.Delete("/{participantID}", deps.AdminHandler.DeleteParticipant)
			})

			r.Get("/selections", deps.AdminHandler.ListSelections)
			r.Get("/stats", deps.AdminHandler.GetStats)
			r.Get("/export", deps.AdminHandler.ExportSelections)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", deps.EventHandler.List)
				r.Post("/", deps.EventHandler.Create)
				r.Get("/{eventID}", deps.EventHandler.Get)
				r.Patch("/{eventID}", deps.EventHandler.Update)
				r.Delete("/{eventID}", deps.EventHandler.Delete)
			})

			r.Post("/reset/selections", deps.AdminHandler.ResetSelections)
			r.Post("/reset/participants", deps.AdminHandler.ResetParticipants)

			r.Get("/live", deps.LiveHandler.ServeWs)
		})
	})
}
