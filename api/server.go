package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ocastro/magnate/game/service"
	"github.com/ocastro/magnate/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game lifecycle
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")

	// Turn actions
	api.HandleFunc("/games/{id}/roll", s.handleRoll).Methods("POST")
	api.HandleFunc("/games/{id}/buy", s.handleBuy).Methods("POST")
	api.HandleFunc("/games/{id}/build-house", s.handleBuildHouse).Methods("POST")
	api.HandleFunc("/games/{id}/build-hotel", s.handleBuildHotel).Methods("POST")
	api.HandleFunc("/games/{id}/sell", s.handleSell).Methods("POST")
	api.HandleFunc("/games/{id}/end-turn", s.handleEndTurn).Methods("POST")

	// Queries
	api.HandleFunc("/games/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/games/{id}/properties", s.handleCurrentPlayerProperties).Methods("GET")
	api.HandleFunc("/games/{id}/properties/{index}", s.handleGetProperty).Methods("GET")

	// Persistence
	api.HandleFunc("/games/{id}/save", s.handleSaveGame).Methods("POST")
	api.HandleFunc("/games/{id}/load", s.handleLoadGame).Methods("POST")
	api.HandleFunc("/saves", s.handleListSaves).Methods("GET")

	// Board and deck definitions
	api.HandleFunc("/definitions", s.handleListDefinitions).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// No web UI ships with the server, so the root answers with a
	// pointer to the API instead of a file tree.
	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "magnate",
		"api":     "/api",
		"ws":      "/ws",
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// broadcastState pushes the post-action state to WebSocket followers.
func (s *Server) broadcastState(gameID string, result *service.ActionResult) {
	if s.hub != nil && result != nil && result.State != nil {
		s.hub.BroadcastState(gameID, result.State, result.Transactions)
	}
}

// Game Lifecycle Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Definition  string               `json:"definition,omitempty"`
		Players     []service.PlayerSpec `json:"players"`
		InitialCash int                  `json:"initial_cash,omitempty"`
		BankCash    int                  `json:"bank_cash,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	game, err := s.service.CreateGame(r.Context(), req.Definition, req.Players, req.InitialCash, req.BankCash)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	game, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := s.service.DeleteGame(r.Context(), gameID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %s deleted", gameID),
	})
}

// Turn Action Handlers

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.RollDice(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.broadcastState(gameID, &result.ActionResult)

	if result.Roll != nil {
		log.Info().
			Str("game_id", gameID).
			Int("d1", result.Roll.D1).
			Int("d2", result.Roll.D2).
			Str("landed", result.LandedSquare).
			Msg("Dice rolled")
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTurnAction(w, r, s.service.BuyProperty)
}

func (s *Server) handleBuildHouse(w http.ResponseWriter, r *http.Request) {
	s.handleTurnAction(w, r, s.service.BuildHouse)
}

func (s *Server) handleBuildHotel(w http.ResponseWriter, r *http.Request) {
	s.handleTurnAction(w, r, s.service.BuildHotel)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.handleTurnAction(w, r, s.service.EndTurn)
}

func (s *Server) handleTurnAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, gameID string) (*service.ActionResult, error)) {
	gameID := mux.Vars(r)["id"]

	result, err := action(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.broadcastState(gameID, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		BoardIndex int `json:"board_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.SellProperty(r.Context(), gameID, req.BoardIndex)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.broadcastState(gameID, result)

	respondJSON(w, http.StatusOK, result)
}

// Query Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleCurrentPlayerProperties(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	properties, err := s.service.CurrentPlayerProperties(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(properties),
		"properties": properties,
	})
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid board index")
		return
	}

	property, err := s.service.PropertyAt(r.Context(), gameID, index)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, property)
}

// Persistence Handlers

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := s.service.SaveGame(r.Context(), gameID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %s saved", gameID),
	})
}

func (s *Server) handleLoadGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	game, err := s.service.LoadGame(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, game)
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := s.service.ListSavedGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(saves),
		"saves": saves,
	})
}

// Definition Handlers

func (s *Server) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	definitions, err := s.service.ListDefinitions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, definitions)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "gameId parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetGame(r.Context(), gameID); err != nil {
		http.Error(w, "Invalid game", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, gameID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
