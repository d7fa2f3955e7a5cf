package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blockfall/internal/game"
	"blockfall/views/pages"
)

type HomeHandler struct {
	store *game.Store
}

func NewHomeHandler(store *game.Store) *HomeHandler {
	return &HomeHandler{store: store}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/games", h.createGame)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.HomePage())
}

func (h *HomeHandler) createGame(w http.ResponseWriter, r *http.Request) {
	instance := h.store.CreateGame()
	setOwnerCookie(w, instance.ID, instance.OwnerID)
	http.Redirect(w, r, "/game/"+instance.ID, http.StatusSeeOther)
}
