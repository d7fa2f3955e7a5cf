package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"blockfall/internal/engine"
	"blockfall/internal/game"
	"blockfall/internal/viewmodel"
	"blockfall/views/components"
	"blockfall/views/pages"
)

type GameHandler struct {
	store *game.Store
}

func NewGameHandler(store *game.Store) *GameHandler {
	return &GameHandler{store: store}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.gamePage)
		r.Post("/start", h.startGame)
		r.Post("/restart", h.restartGame)
		r.Post("/input", h.input)
		r.Get("/board", h.boardFragment)
		r.Get("/scores", h.scoresFragment)
		r.Get("/state", h.state)
		r.Get("/stream", h.stream)
	})
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	isOwner := instance.IsOwner(ownerIDFromCookie(r, gameID))
	snapshot := instance.Snapshot(time.Now().UTC())
	data := viewmodel.GamePage{
		Title:     "Blockfall",
		GameID:    gameID,
		InviteURL: buildInviteURL(r, gameID),
		IsOwner:   isOwner,
		Status:    buildStatusBar(snapshot, isOwner),
		Board:     buildBoard(snapshot),
		Scores:    buildScorePanel(snapshot),
	}
	render(w, r, pages.GamePage(data))
}

func (h *GameHandler) startGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	err := h.store.Start(gameID, ownerIDFromCookie(r, gameID), time.Now().UTC())
	h.finishCommand(w, r, gameID, "start", err)
}

func (h *GameHandler) restartGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	err := h.store.Restart(gameID, ownerIDFromCookie(r, gameID), time.Now().UTC())
	h.finishCommand(w, r, gameID, "restart", err)
}

// finishCommand answers a start/restart form post: scripts get a status code,
// browsers get redirected back to the game page.
func (h *GameHandler) finishCommand(w http.ResponseWriter, r *http.Request, gameID, command string, err error) {
	if err != nil {
		log.Printf("%s error game=%s err=%v", command, gameID, err)
	}
	if errors.Is(err, game.ErrGameNotFound) {
		http.NotFound(w, r)
		return
	}
	if wantsScript(r) {
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/game/"+gameID, http.StatusSeeOther)
}

func (h *GameHandler) input(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	action := r.FormValue("action")
	_, err := h.store.Input(gameID, ownerIDFromCookie(r, gameID), action, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, game.ErrUnknownAction) {
			log.Printf("input error game=%s action=%q err=%v", gameID, action, err)
		}
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	snapshot := instance.Snapshot(time.Now().UTC())
	render(w, r, components.Board(buildBoard(snapshot)))
}

func (h *GameHandler) scoresFragment(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	snapshot := instance.Snapshot(time.Now().UTC())
	render(w, r, components.ScorePanel(buildScorePanel(snapshot)))
}

func (h *GameHandler) state(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	snapshot := instance.Snapshot(time.Now().UTC())
	writeJSON(w, buildGameState(snapshot))
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	isOwner := instance.IsOwner(ownerIDFromCookie(r, gameID))

	hub := h.store.Broadcaster(gameID)
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	send := func(events ...string) {
		snapshot := instance.Snapshot(time.Now().UTC())
		for _, event := range events {
			switch event {
			case game.EventBoard:
				writeSSE(w, event, renderToString(r, components.Board(buildBoard(snapshot))))
			case game.EventScore:
				writeSSE(w, event, renderToString(r, components.ScorePanel(buildScorePanel(snapshot))))
			case game.EventStatus:
				writeSSE(w, event, renderToString(r, components.StatusBar(buildStatusBar(snapshot, isOwner))))
			}
		}
		flusher.Flush()
	}

	send(game.EventStatus, game.EventBoard, game.EventScore)

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			send(event)
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, game.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrAlreadyStarted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func wantsScript(r *http.Request) bool {
	return r.Header.Get("Hx-Request") == "true" || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func ownerIDFromCookie(r *http.Request, gameID string) string {
	cookie, err := r.Cookie(ownerCookieName(gameID))
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setOwnerCookie(w http.ResponseWriter, gameID string, ownerID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ownerCookieName(gameID),
		Value:    ownerID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

func ownerCookieName(gameID string) string {
	return "blockfall_owner_" + gameID
}

func buildInviteURL(r *http.Request, gameID string) string {
	if baseURL := strings.TrimSpace(os.Getenv("BASE_URL")); baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/game/" + gameID
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/game/" + gameID
}

func buildBoard(snapshot game.Snapshot) viewmodel.Board {
	board := snapshot.Board
	tiles := board.Compose()
	rows := make([][]viewmodel.Tile, len(tiles))
	for y, row := range tiles {
		rows[y] = make([]viewmodel.Tile, len(row))
		for x, tile := range row {
			rows[y][x] = viewmodel.Tile{Class: tileClass(tile)}
		}
	}
	return viewmodel.Board{
		GameID: snapshot.ID,
		Status: snapshot.Status,
		Width:  board.Width,
		Height: board.Height,
		Rows:   rows,
	}
}

func tileClass(tile engine.Tile) string {
	color := "c" + strconv.Itoa(int(tile.Cell))
	switch tile.Layer {
	case engine.LayerSettled:
		return "cell " + color
	case engine.LayerFlash:
		return "cell flash"
	case engine.LayerGhost:
		return "cell ghost " + color
	case engine.LayerActive:
		return "cell active " + color
	default:
		return "cell"
	}
}

func buildScorePanel(snapshot game.Snapshot) viewmodel.ScorePanel {
	board := snapshot.Board
	pieces := make([]viewmodel.PieceCount, 0, len(board.Pieces))
	for _, pc := range board.Pieces {
		pieces = append(pieces, viewmodel.PieceCount{Name: pc.Type.String(), Count: pc.Count})
	}
	return viewmodel.ScorePanel{
		GameID:      snapshot.ID,
		Score:       board.Score,
		Level:       board.Level,
		Lines:       board.Lines,
		Best:        snapshot.Best,
		GamesPlayed: snapshot.GamesPlayed,
		DropMs:      board.DropInterval.Milliseconds(),
		Pieces:      pieces,
	}
}

func buildStatusBar(snapshot game.Snapshot, isOwner bool) viewmodel.StatusBar {
	return viewmodel.StatusBar{
		GameID:  snapshot.ID,
		Status:  snapshot.Status,
		IsOwner: isOwner,
	}
}

func buildGameState(snapshot game.Snapshot) viewmodel.GameState {
	board := snapshot.Board
	grid := make([][]int, len(board.Rows))
	for y, row := range board.Rows {
		grid[y] = make([]int, len(row))
		for x, c := range row {
			grid[y][x] = int(c)
		}
	}
	state := viewmodel.GameState{
		ID:             snapshot.ID,
		Status:         snapshot.Status,
		Width:          board.Width,
		Height:         board.Height,
		Grid:           grid,
		Flashing:       append([]int{}, board.Flashing...),
		FlashVisible:   board.FlashVisible,
		Score:          board.Score,
		Level:          board.Level,
		Lines:          board.Lines,
		Best:           snapshot.Best,
		DropIntervalMs: board.DropInterval.Milliseconds(),
		ClockMs:        board.Clock.Milliseconds(),
	}
	if board.HasPiece {
		shape := board.Piece.Shape.Rows()
		cells := make([][]int, len(shape))
		for y, row := range shape {
			cells[y] = make([]int, len(row))
			for x, c := range row {
				cells[y][x] = int(c)
			}
		}
		state.Piece = &viewmodel.PieceState{
			Type:  board.Piece.Type.String(),
			Pos:   viewmodel.Point{X: board.Piece.Pos.X, Y: board.Piece.Pos.Y},
			Cells: cells,
			Ghost: viewmodel.Point{X: board.Ghost.X, Y: board.Ghost.Y},
		}
	}
	return state
}
