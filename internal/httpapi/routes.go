package httpapi

import (
	"github.com/go-chi/chi/v5"

	"github.com/sauerbraten/frontline/internal/auth"
	"github.com/sauerbraten/frontline/internal/definitions/privilege"
)

func addRoutes(r chi.Router, b Backend, users auth.Provider) {
	r.Get("/healthz", handleHealth(b))
	r.Get("/api/status", handleStatus(b))

	// Engine bridge: player lifecycle, zone occupancy and bomb interaction.
	r.Group(func(r chi.Router) {
		r.Use(requirePrivilege(users, privilege.Bridge))

		r.Post("/api/players", handleJoin(b))
		r.Route("/api/players/{id}", func(r chi.Router) {
			r.Delete("/", handleLeave(b))
			r.Put("/team", handleChangeTeam(b))
			r.Put("/class", handleSetClass(b))
			r.Put("/position", handleUpdatePosition(b))
			r.Post("/killed", handleKilled(b))
			r.Post("/chat", handleChat(b))
		})
		r.Put("/api/areas/{name}/occupants", handleOccupants(b))
		r.Post("/api/bombs/{name}/plant", handlePlant(b))
		r.Post("/api/bombs/{name}/defuse", handleDefuse(b))

		r.Get("/api/events", handleEvents(b))
		r.Get("/api/events/stream", handleEventStream(b))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requirePrivilege(users, privilege.Admin))

		r.Post("/restart", handleRestartRound(b))
		r.Post("/readyrestart", handleReadyRestart(b))
		r.Put("/warmup", handleWarmup(b))
		r.Post("/timer", handleAddTime(b))
		r.Post("/winner", handleDeclareWinner(b))
		r.Put("/points/{name}/owner", handlePointOwner(b))
		r.Put("/areas/{name}/enabled", handleAreaEnabled(b))
		r.Put("/bombs/{name}/enabled", handleBombEnabled(b))
		r.Put("/masters/{name}/active", handleMasterActive(b))
		r.Post("/maps/queue", handleQueueMap(b))
		r.Post("/maps/change", handleChangeMap(b))
		r.Post("/pause", handlePause(b))
		r.Post("/resume", handleResume(b))
	})
}
