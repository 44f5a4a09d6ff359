package server

import (
	"net/http"

	"storyforge/internal/gateway/handler"
	"storyforge/internal/gateway/middleware"
)

func NewMux(
	jobHandler *handler.JobHandler,
	promptHandler *handler.PromptHandler,
	watchHandler *handler.WatchHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Jobs
	mux.HandleFunc("POST /v1/jobs", jobHandler.HandleCreate)
	mux.HandleFunc("GET /v1/jobs/{id}", jobHandler.HandleGet)
	mux.HandleFunc("POST /v1/jobs/{id}/retry", jobHandler.HandleRetry)
	mux.HandleFunc("GET /v1/jobs/watch", watchHandler.HandleWatchWS)

	// Universes
	mux.HandleFunc("GET /v1/universes/{id}", jobHandler.HandleUniverse)

	// Prompt composition & continuity
	mux.HandleFunc("POST /v1/prompts/compose", promptHandler.HandleCompose)
	mux.HandleFunc("POST /v1/prompts/visual", promptHandler.HandleVisual)
	mux.HandleFunc("POST /v1/continuity/check", promptHandler.HandleContinuity)

	// Middleware
	return middleware.CORS(mux)
}
