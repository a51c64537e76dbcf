package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideavine-backend/application/services"
	"ideavine-backend/domain/core/valueobjects"
	"ideavine-backend/infrastructure/persistence/memory"
)

type scriptedAI struct {
	transcript string
	reply      json.RawMessage
	err        error
}

func (s *scriptedAI) Transcribe(context.Context, []byte, string) (string, error) {
	return s.transcript, s.err
}

func (s *scriptedAI) GenerateStructured(context.Context, string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

type testEnv struct {
	handler http.Handler
	users   *memory.UserRepository
	ai      *scriptedAI
}

func newTestEnv() *testEnv {
	logger := zap.NewNop()
	users := memory.NewUserRepository()
	mindmaps := memory.NewMindMapRepository()
	nodes := memory.NewNodeRepository()
	ai := &scriptedAI{}

	router := NewRouter(
		services.NewUserService(users, mindmaps, nodes, nil, logger),
		services.NewMindMapService(users, mindmaps, nodes, nil, logger),
		services.NewIdeaService(ai, logger),
		false,
		logger,
	)
	return &testEnv{handler: router.Setup(), users: users, ai: ai}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *testEnv) createUser(t *testing.T, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", map[string]string{"email": email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode(t, rec)["user"].(map[string]interface{})
	return user["_id"].(string)
}

func TestCreateUserEndpoint(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/users", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "User created successfully", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "alice", user["name"], "name defaults to the email local part")
	assert.Contains(t, user["created_at"], "T", "timestamps serialize as RFC3339")

	t.Run("missing email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/users", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing required field: email", decode(t, rec)["error"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/users", map[string]string{"email": "alice@example.com"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "User with this email already exists", decode(t, rec)["error"])
	})
}

func TestUserLookupAndDelete(t *testing.T) {
	env := newTestEnv()
	env.createUser(t, "bob@example.com")

	rec := env.do(t, http.MethodPost, "/users/lookup", map[string]string{"email": "bob@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/users/bob@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", decode(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/users/lookup", map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode(t, rec)["error"])
}

func TestMindMapLifecycle(t *testing.T) {
	env := newTestEnv()
	userID := env.createUser(t, "alice@example.com")
	mindmapID := valueobjects.NewMindMapID(userID, 1000).String()

	rec := env.do(t, http.MethodPost, "/mindmaps", map[string]interface{}{
		"mindmap_id": mindmapID,
		"user_email": "alice@example.com",
		"title":      "Plan",
		"nodes": []map[string]interface{}{
			{"title": "a", "content": "a", "position": map[string]float64{"x": 0, "y": 0}},
			{"title": "b", "content": "b", "position": map[string]float64{"x": 10, "y": 0}},
			{"title": "c", "content": "c", "position": map[string]float64{"x": 20, "y": 0}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	mindmap := body["mindmap"].(map[string]interface{})
	meta := mindmap["metadata"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total_nodes"])
	assert.Equal(t, float64(0), meta["max_depth"])
	assert.Len(t, body["nodes"], 3)

	t.Run("duplicate id conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/mindmaps", map[string]interface{}{
			"mindmap_id": mindmapID,
			"user_email": "alice@example.com",
			"title":      "Plan again",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed id rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/mindmaps", map[string]interface{}{
			"mindmap_id": "plan-map",
			"user_email": "alice@example.com",
			"title":      "Plan",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list mindmaps", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/users/%s/mindmaps", userID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec)["mindmaps"], 1)
	})

	t.Run("list nodes", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/mindmaps/%s/nodes", mindmapID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec)["nodes"], 3)
	})

	t.Run("bulk update", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/mindmaps/"+mindmapID, map[string]interface{}{
			"title": "Renamed",
			"nodes_to_add": []map[string]interface{}{
				{"title": "d", "content": "d", "position": map[string]float64{"x": 30, "y": 0}},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		mindmap := body["mindmap"].(map[string]interface{})
		assert.Equal(t, "Renamed", mindmap["title"])
		assert.Equal(t, float64(4), mindmap["metadata"].(map[string]interface{})["total_nodes"])
	})

	t.Run("delete cascades", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/mindmaps/"+mindmapID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Mindmap deleted successfully", body["message"])
		assert.Equal(t, float64(4), body["deleted_nodes_count"])

		rec = env.do(t, http.MethodDelete, "/mindmaps/"+mindmapID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Mindmap not found", decode(t, rec)["error"])
	})
}

func TestSynthesizeEndpoint(t *testing.T) {
	env := newTestEnv()
	env.ai.reply = json.RawMessage(`{"title": "Fusion", "content": "One idea"}`)

	rec := env.do(t, http.MethodPost, "/synthesize", map[string]interface{}{
		"nodes": []map[string]interface{}{
			{"id": "n1", "title": "a", "content": "a", "position": map[string]float64{"x": 100, "y": 100}},
			{"id": "n2", "title": "b", "content": "b", "position": map[string]float64{"x": 200, "y": 100}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "-1", body["id"])
	assert.Equal(t, []interface{}{"n1", "n2"}, body["parents"])
	position := body["position"].(map[string]interface{})
	assert.Equal(t, float64(150), position["x"])
	assert.Equal(t, float64(200), position["y"])
}

func TestWriteEndpointUpstreamFailure(t *testing.T) {
	env := newTestEnv()
	env.ai.reply = json.RawMessage(`not json at all`)

	// The scripted reply bypasses extraction, so make it fail at the
	// unmarshal step instead.
	rec := env.do(t, http.MethodPost, "/write", map[string]interface{}{
		"nodes": []map[string]interface{}{{"id": "n1", "title": "a", "content": "a"}},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "openai")
}

func TestProcessAudioRequiresFile(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/process_audio", strings.NewReader(""))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No audio file provided", decode(t, rec)["error"])
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv()

	for _, path := range []string{"/health", "/ready"} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
