package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"gameframe/game"
	"gameframe/searcher"
	"gameframe/searcher/agent"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/exp/slices"
)

var ErrNotYourTurn = errors.New("it is the opponent's turn")

// Snapshot is what clients see of the current game.
type Snapshot[S game.State] struct {
	Game         string   `json:"game"`
	State        S        `json:"state"`
	ActivePlayer string   `json:"activePlayer"`
	LastMove     string   `json:"lastMove"`
	Moves        []string `json:"moves"`
	Over         bool     `json:"over"`
	Winner       string   `json:"winner,omitempty"`
}

type MoveRequest struct {
	Move string `json:"move"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Server holds one game and accepts moves over HTTP. It has no game logic of its own: a move is
// accepted when it matches the description of one of the successors listed by the rules.
type Server[S game.State] struct {
	rules    game.Rules[S]
	initial  S
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	opponent       agent.Agent[S]
	opponentPlayer int

	mu          sync.RWMutex
	state       S
	updates     []searcher.Segment // Played since the opponent last searched
	subscribers map[*websocket.Conn]struct{}
}

type Option[S game.State] func(s *Server[S])

// WithOpponent lets agent answer every move made for the other role.
func WithOpponent[S game.State](opponent agent.Agent[S], player int) Option[S] {
	return func(s *Server[S]) {
		s.opponent = opponent
		s.opponentPlayer = player
	}
}

func WithLogger[S game.State](logger zerolog.Logger) Option[S] {
	return func(s *Server[S]) {
		s.logger = logger
	}
}

func New[S game.State](ctx context.Context, rules game.Rules[S], initial S, options ...Option[S]) (*Server[S], error) {
	s := &Server[S]{
		rules:       rules,
		initial:     initial,
		state:       initial,
		logger:      zerolog.Nop(),
		subscribers: make(map[*websocket.Conn]struct{}),
	}
	for _, option := range options {
		option(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.respond(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server[S]) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("POST /move", s.handleMove)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /ws", s.handleSubscribe)
	return hlog.NewHandler(s.logger)(mux)
}

// State returns the current state.
func (s *Server[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Server[S]) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snapshot := s.snapshot()
	s.mu.RUnlock()

	writeJSON(w, r, http.StatusOK, snapshot)
}

func (s *Server[S]) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("bad request: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, updates := s.state, s.updates
	if err := s.play(req.Move); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("move", req.Move).Msg("rejected move")
		status := http.StatusBadRequest
		if errors.Is(err, game.ErrGameOver) || errors.Is(err, ErrNotYourTurn) {
			status = http.StatusConflict
		}
		writeError(w, r, status, err)
		return
	}
	hlog.FromRequest(r).Info().Str("move", req.Move).Msg("accepted move")

	if err := s.respond(r.Context()); err != nil {
		// The move is taken back so the client can retry it
		s.state, s.updates = previous, updates
		hlog.FromRequest(r).Error().Err(err).Msg("opponent failed to move")
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	snapshot := s.snapshot()
	s.broadcast(snapshot)
	writeJSON(w, r, http.StatusOK, snapshot)
}

func (s *Server[S]) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, updates := s.state, s.updates
	s.state = s.initial
	s.updates = nil
	if err := s.respond(r.Context()); err != nil {
		s.state, s.updates = previous, updates
		hlog.FromRequest(r).Error().Err(err).Msg("opponent failed to move")
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	hlog.FromRequest(r).Info().Msg("game reset")

	snapshot := s.snapshot()
	s.broadcast(snapshot)
	writeJSON(w, r, http.StatusOK, snapshot)
}

func (s *Server[S]) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.mu.Lock()
	err = conn.WriteJSON(s.snapshot())
	if err == nil {
		s.subscribers[conn] = struct{}{}
	}
	s.mu.Unlock()
	if err != nil {
		conn.Close()
		return
	}
	hlog.FromRequest(r).Debug().Msg("subscriber connected")

	// Clients only listen; reading detects when they leave
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.subscribers, conn)
	s.mu.Unlock()
	conn.Close()
}

// play applies the move a client asked for. Callers hold the write lock.
func (s *Server[S]) play(move string) error {
	if _, decided := s.rules.DetermineWinner(s.state); decided {
		return game.ErrGameOver
	}
	if s.opponent != nil && s.state.ActivePlayer() == s.opponentPlayer {
		return ErrNotYourTurn
	}

	successors := s.rules.Expand(s.state)
	i := slices.IndexFunc(successors, func(successor S) bool {
		return successor.LastMoveDescription() == move
	})
	if i < 0 {
		return fmt.Errorf("%w: %q", game.ErrInvalidMove, move)
	}
	s.advance(successors[i])
	return nil
}

// respond lets the opponent move while it is its turn. Callers hold the write lock.
func (s *Server[S]) respond(ctx context.Context) error {
	for s.opponent != nil && s.state.ActivePlayer() == s.opponentPlayer {
		if _, decided := s.rules.DetermineWinner(s.state); decided {
			return nil
		}
		next, _, err := s.opponent.FindMove(ctx, s.state, s.updates)
		if err != nil {
			return fmt.Errorf("opponent: %w", err)
		}
		if !game.IsSuccessor(s.rules, s.state, next) {
			return fmt.Errorf("opponent: %w: %q is not a legal successor", game.ErrInvalidMove, next.LastMoveDescription())
		}
		s.updates = nil
		s.advance(next)
		s.logger.Info().Str("move", next.LastMoveDescription()).Msg("opponent moved")
	}
	return nil
}

func (s *Server[S]) advance(next S) {
	s.state = next
	s.updates = append(s.updates, searcher.SegmentOf(next))
}

func (s *Server[S]) snapshot() Snapshot[S] {
	snapshot := Snapshot[S]{
		Game:         s.rules.Name(),
		State:        s.state,
		ActivePlayer: game.RoleName(s.rules, s.state.ActivePlayer()),
		LastMove:     s.state.LastMoveDescription(),
		Moves:        []string{},
	}
	if winner, decided := s.rules.WinningPlayerNumber(s.state); decided {
		snapshot.Over = true
		snapshot.Winner = game.RoleName(s.rules, winner)
		return snapshot
	}
	for _, successor := range s.rules.Expand(s.state) {
		snapshot.Moves = append(snapshot.Moves, successor.LastMoveDescription())
	}
	return snapshot
}

// broadcast pushes a snapshot to every subscriber. Callers hold the write lock.
func (s *Server[S]) broadcast(snapshot Snapshot[S]) {
	for conn := range s.subscribers {
		if err := conn.WriteJSON(snapshot); err != nil {
			s.logger.Debug().Err(err).Msg("dropping subscriber")
			delete(s.subscribers, conn)
			conn.Close()
		}
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, ErrorResponse{Error: err.Error()})
}
