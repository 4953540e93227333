// Package server serves level previews over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/seed"
	"github.com/samdwyer/dungeongen/internal/store"
	"github.com/samdwyer/dungeongen/internal/telemetry"
	"github.com/samdwyer/dungeongen/internal/world"
)

// Error codes sent in ErrorMessage.
const (
	CodeBadMessage      = "BAD_MESSAGE"
	CodeUnknownType     = "UNKNOWN_MESSAGE_TYPE"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeStorageDisabled = "STORAGE_DISABLED"
	CodeInternal        = "INTERNAL"
)

// MaxBoardArea caps the number of tiles a client may request.
const MaxBoardArea = 1 << 20

// Server upgrades HTTP requests on /ws and answers generate requests.
type Server struct {
	upgrader websocket.Upgrader
	defaults generate.Config
	storage  store.Storage
}

// New creates a server. Requests fill unset fields from defaults.
// storage may be nil, in which case save requests are refused.
func New(defaults generate.Config, storage store.Storage) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			// Previews are read-only, so any origin may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		defaults: defaults,
		storage:  storage,
	}
}

// Handler returns the HTTP routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	log.Printf("New connection from %s", ws.RemoteAddr())

	conn := NewConnection(ws)
	go conn.WritePump()
	conn.ReadPump(&clientHandler{server: s, ctx: r.Context()})
}

// clientHandler handles the messages of a single connection
type clientHandler struct {
	server *Server
	ctx    context.Context
}

// HandleMessage handles incoming messages from the client
func (h *clientHandler) HandleMessage(conn *Connection, message []byte) {
	var msg incomingMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		conn.SendMessage(errorMessage(CodeBadMessage, err.Error()))
		return
	}

	switch msg.Type {
	case MessageTypeGenerate:
		conn.SendMessage(h.handleGenerate(msg.Payload))
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		conn.SendMessage(errorMessage(CodeUnknownType, "Unknown message type received"))
	}
}

// handleGenerate builds a level with its own random source and returns the reply.
func (h *clientHandler) handleGenerate(payload json.RawMessage) BaseMessage {
	tracer := telemetry.Tracer("server")
	ctx, span := tracer.Start(h.ctx, "server.generate")
	defer span.End()

	var req GenerateRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return errorMessage(CodeBadMessage, err.Error())
		}
	}

	algo, s, cfg, err := h.server.resolve(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errorMessage(CodeInvalidConfig, err.Error())
	}
	rng, err := seed.NewRand(s)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errorMessage(CodeInvalidConfig, err.Error())
	}

	level, err := generate.Generate(ctx, algo, s, cfg, rng)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errorMessage(CodeInvalidConfig, err.Error())
	}

	reply := LevelMessage{Level: level.Export()}
	if req.Save {
		if h.server.storage == nil {
			return errorMessage(CodeStorageDisabled, "server has no level archive")
		}
		id, err := h.server.storage.Save(ctx, level)
		if err != nil {
			log.Printf("Error saving level: %v", err)
			span.RecordError(err)
			return errorMessage(CodeInternal, "could not save level")
		}
		reply.ID = id
	}

	span.SetAttributes(
		attribute.String("dungeon.seed", s),
		attribute.Bool("dungeon.saved", reply.ID != ""),
	)
	return BaseMessage{Type: MessageTypeLevel, Payload: reply}
}

// resolve turns a request into generator inputs.
func (s *Server) resolve(req GenerateRequest) (world.Algorithm, string, generate.Config, error) {
	cfg := s.defaults
	if req.Width != 0 {
		cfg.Width = req.Width
	}
	if req.Height != 0 {
		cfg.Height = req.Height
	}
	if req.MinRoomWidth != 0 {
		cfg.MinRoomWidth = req.MinRoomWidth
	}
	if req.MinRoomHeight != 0 {
		cfg.MinRoomHeight = req.MinRoomHeight
	}
	if cfg.Width > 0 && cfg.Height > 0 && cfg.Width > MaxBoardArea/cfg.Height {
		return 0, "", cfg, fmt.Errorf("board %dx%d exceeds %d tiles: %w",
			cfg.Width, cfg.Height, MaxBoardArea, world.ErrInvalidConfig)
	}
	cfg.Walls = cfg.Walls || req.Walls
	if req.Moore {
		cfg.Neighborhood = generate.NeighborhoodMoore
	}

	algo := world.AlgorithmRooms
	if req.Algorithm != "" {
		var err error
		if algo, err = world.ParseAlgorithm(req.Algorithm); err != nil {
			return 0, "", cfg, err
		}
	}

	sd, err := seed.Resolve(req.Seed, req.Text)
	if err != nil {
		return 0, "", cfg, errors.Join(err, world.ErrInvalidConfig)
	}
	return algo, sd, cfg, nil
}
