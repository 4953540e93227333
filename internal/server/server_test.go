package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/seed"
	"github.com/samdwyer/dungeongen/internal/store"
	"github.com/samdwyer/dungeongen/internal/world"
)

type reply struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func startServer(t *testing.T, storage store.Storage) string {
	t.Helper()
	ts := httptest.NewServer(New(generate.DefaultConfig(), storage).Handler())
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func roundTrip(t *testing.T, ws *websocket.Conn, msg any) reply {
	t.Helper()
	require.NoError(t, ws.WriteJSON(msg))
	var r reply
	require.NoError(t, ws.ReadJSON(&r))
	return r
}

func generateMessage(req GenerateRequest) BaseMessage {
	return BaseMessage{Type: MessageTypeGenerate, Payload: req}
}

func TestGenerateMatchesLocalGeneration(t *testing.T) {
	ws := dial(t, startServer(t, nil))
	s := seed.FromText("server")

	r := roundTrip(t, ws, generateMessage(GenerateRequest{Seed: s, Algorithm: "bsp", Walls: true}))
	require.Equal(t, MessageTypeLevel, r.Type)

	var got LevelMessage
	require.NoError(t, json.Unmarshal(r.Payload, &got))
	require.Empty(t, got.ID)

	cfg := generate.DefaultConfig()
	cfg.Walls = true
	rng, err := seed.NewRand(s)
	require.NoError(t, err)
	want, err := generate.Generate(context.Background(), world.AlgorithmBSP, s, cfg, rng)
	require.NoError(t, err)

	require.Equal(t, want.Export(), got.Level)
}

func TestGenerateFromText(t *testing.T) {
	ws := dial(t, startServer(t, nil))

	r := roundTrip(t, ws, generateMessage(GenerateRequest{Text: "hello", Width: 30, Height: 20}))
	require.Equal(t, MessageTypeLevel, r.Type)

	var got LevelMessage
	require.NoError(t, json.Unmarshal(r.Payload, &got))
	require.Equal(t, seed.FromText("hello"), got.Level.Seed)
	require.Equal(t, 30, got.Level.Width)
	require.Equal(t, 20, got.Level.Height)
}

func TestErrors(t *testing.T) {
	ws := dial(t, startServer(t, nil))

	tests := []struct {
		name string
		msg  any
		code string
	}{
		{"unknown type", BaseMessage{Type: "move"}, CodeUnknownType},
		{"short seed", generateMessage(GenerateRequest{Seed: "abc"}), CodeInvalidConfig},
		{"bad algorithm", generateMessage(GenerateRequest{Algorithm: "cave"}), CodeInvalidConfig},
		{"room wider than board", generateMessage(GenerateRequest{Width: 10, MinRoomWidth: 12}), CodeInvalidConfig},
		{"board too large", generateMessage(GenerateRequest{Width: 200000, Height: 200000}), CodeInvalidConfig},
		{"board area just over the cap", generateMessage(GenerateRequest{Width: MaxBoardArea, Height: 2}), CodeInvalidConfig},
		{"save without archive", generateMessage(GenerateRequest{Save: true}), CodeStorageDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := roundTrip(t, ws, tt.msg)
			require.Equal(t, MessageTypeError, r.Type)

			var e ErrorMessage
			require.NoError(t, json.Unmarshal(r.Payload, &e))
			require.Equal(t, tt.code, e.Code)
			require.NotEmpty(t, e.Message)
		})
	}

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	var r reply
	require.NoError(t, ws.ReadJSON(&r))
	require.Equal(t, MessageTypeError, r.Type)
}

func TestGenerateAndSave(t *testing.T) {
	storage, err := store.NewJSONStore(filepath.Join(t.TempDir(), "levels.json"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	ws := dial(t, startServer(t, storage))
	r := roundTrip(t, ws, generateMessage(GenerateRequest{Text: "keep me", Save: true}))
	require.Equal(t, MessageTypeLevel, r.Type)

	var got LevelMessage
	require.NoError(t, json.Unmarshal(r.Payload, &got))
	require.NotEmpty(t, got.ID)

	level, err := storage.Load(context.Background(), got.ID)
	require.NoError(t, err)
	require.Equal(t, got.Level, level.Export())
}

func TestConcurrentClients(t *testing.T) {
	url := startServer(t, nil)
	s := seed.FromText("shared")

	const clients = 8
	results := make([]world.Export, clients)
	var wg sync.WaitGroup
	for i := range clients {
		ws := dial(t, url)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ws.WriteJSON(generateMessage(GenerateRequest{Seed: s})); err != nil {
				t.Error(err)
				return
			}
			var r reply
			if err := ws.ReadJSON(&r); err != nil {
				t.Error(err)
				return
			}
			var lm LevelMessage
			if err := json.Unmarshal(r.Payload, &lm); err != nil {
				t.Error(err)
				return
			}
			results[i] = lm.Level
		}()
	}
	wg.Wait()

	for i := 1; i < clients; i++ {
		require.Equal(t, results[0], results[i])
	}
}

func TestResolveBoardArea(t *testing.T) {
	s := New(generate.DefaultConfig(), nil)

	_, _, cfg, err := s.resolve(GenerateRequest{Width: 1024, Height: 1024})
	require.NoError(t, err)
	require.Equal(t, 1024, cfg.Width)

	_, _, _, err = s.resolve(GenerateRequest{Width: 1025, Height: 1024})
	require.ErrorIs(t, err, world.ErrInvalidConfig)
}
