package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the query surface and the websocket endpoint onto one mux.
func NewRouter(h *Handler, ws http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/messages", h.GetMessages)
	r.Get("/messages/search", h.SearchMessages)
	r.Get("/users", h.ListUsers)
	r.Post("/register", h.Register)
	r.Handle("/ws", ws)

	return r
}
