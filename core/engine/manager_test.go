package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Malowking/docchat/core/config"
)

// fakeOllama serves tags and generate endpoints for manager tests.
// Models in broken refuse to generate.
func fakeOllama(t *testing.T, installed []string, broken map[string]bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			models := make([]map[string]interface{}, 0, len(installed))
			for _, name := range installed {
				models = append(models, map[string]interface{}{"name": name, "size": 1000})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"models": models})
		case "/api/generate":
			var req GenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if broken[req.Model] {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "model crashed"})
				return
			}
			json.NewEncoder(w).Encode(GenerateResponse{Model: req.Model, Response: "OK", Done: true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testConfig(baseURL string) config.OllamaConfig {
	return config.OllamaConfig{
		BaseURL:         baseURL,
		RequestTimeout:  10 * time.Second,
		QuickTimeout:    5 * time.Second,
		HealthTimeout:   5 * time.Second,
		DefaultModel:    "llama3.2",
		PreferredModels: []string{"llama3.2:1b", "phi3.5:mini", "gemma2:2b", "llama3.2:3b"},
	}
}

func TestInitializeDefaultPicksConfiguredModel(t *testing.T) {
	srv := fakeOllama(t, []string{"phi3.5:mini", "llama3.2:latest"}, nil)
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	err := m.InitializeDefault(context.Background())

	assert.NoError(t, err)
	name, verified := m.Current()
	assert.Equal(t, "llama3.2:latest", name)
	assert.True(t, verified)
}

func TestInitializeDefaultFallsBackToPreferred(t *testing.T) {
	srv := fakeOllama(t, []string{"qwen2:7b", "gemma2:2b"}, nil)
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	err := m.InitializeDefault(context.Background())

	assert.NoError(t, err)
	name, _ := m.Current()
	assert.Equal(t, "gemma2:2b", name)
}

func TestInitializeDefaultSkipsBrokenModels(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3.2:latest", "gemma2:2b"}, map[string]bool{
		"llama3.2:latest": true,
	})
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	err := m.InitializeDefault(context.Background())

	assert.NoError(t, err)
	name, verified := m.Current()
	assert.Equal(t, "gemma2:2b", name)
	assert.True(t, verified)
}

func TestInitializeDefaultNoModels(t *testing.T) {
	srv := fakeOllama(t, nil, nil)
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	err := m.InitializeDefault(context.Background())

	assert.Error(t, err)
	name, _ := m.Current()
	assert.Empty(t, name)
}

func TestSetEngineRollsBackOnFailure(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3.2:latest", "bad:model"}, map[string]bool{
		"bad:model": true,
	})
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	assert.NoError(t, m.InitializeDefault(context.Background()))

	err := m.SetEngine(context.Background(), "bad:model")

	assert.Error(t, err)
	name, verified := m.Current()
	assert.Equal(t, "llama3.2:latest", name)
	assert.True(t, verified)
}

func TestSetEngineSwitches(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3.2:latest", "gemma2:2b"}, nil)
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	assert.NoError(t, m.InitializeDefault(context.Background()))

	err := m.SetEngine(context.Background(), "gemma2:2b")

	assert.NoError(t, err)
	name, _ := m.Current()
	assert.Equal(t, "gemma2:2b", name)
}

func TestEngineStatus(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3.2:latest", "gemma2:2b"}, nil)
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	assert.NoError(t, m.InitializeDefault(context.Background()))

	status := m.EngineStatus(context.Background())

	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalModels)
	assert.Contains(t, status.LocalModels, "gemma2:2b")
	assert.Equal(t, "llama3.2:latest", status.Engine.Name)
	assert.True(t, status.Engine.Available)
	assert.True(t, status.Engine.Responding)
	assert.True(t, status.Engine.Verified)
}

func TestEngineStatusDisconnected(t *testing.T) {
	m := NewManager(testConfig("http://127.0.0.1:1"))

	status := m.EngineStatus(context.Background())

	assert.False(t, status.Connected)
	assert.Empty(t, status.LocalModels)
}

func TestHealthCheck(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3.2:latest"}, nil)
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	assert.NoError(t, m.InitializeDefault(context.Background()))

	health := m.HealthCheck(context.Background())

	assert.True(t, health.Responding)
	assert.Equal(t, "llama3.2:latest", health.Model)
	assert.GreaterOrEqual(t, health.ResponseTime, 0.0)
}

func TestHealthCheckWithoutEngine(t *testing.T) {
	m := NewManager(testConfig("http://127.0.0.1:1"))

	health := m.HealthCheck(context.Background())

	assert.False(t, health.Responding)
	assert.Empty(t, health.Model)
}

func TestManualVerifyKeepsHealthyEngine(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3.2:latest"}, nil)
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	assert.NoError(t, m.InitializeDefault(context.Background()))

	result, err := m.ManualVerify(context.Background())

	assert.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, "llama3.2:latest", result.Engine)
	assert.False(t, result.Reinitialized)
}

func TestManualVerifyReinitializesOnFailure(t *testing.T) {
	srv := fakeOllama(t, []string{"llama3.2:latest", "ghost:model"}, map[string]bool{
		"ghost:model": true,
	})
	defer srv.Close()

	m := NewManager(testConfig(srv.URL))
	m.mu.Lock()
	m.current = "ghost:model"
	m.verified = true
	m.mu.Unlock()

	result, err := m.ManualVerify(context.Background())

	assert.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, "llama3.2:latest", result.Engine)
	assert.Equal(t, "ghost:model", result.PreviousEngine)
	assert.True(t, result.Reinitialized)
}

func TestMatchLocal(t *testing.T) {
	local := []ModelInfo{
		{Name: "llama3.2:latest"},
		{Name: "phi3.5:mini"},
		{Name: "qwen2:7b-instruct"},
	}

	assert.Equal(t, "llama3.2:latest", matchLocal(local, "llama3.2"))
	assert.Equal(t, "phi3.5:mini", matchLocal(local, "phi3.5:mini"))
	assert.Equal(t, "qwen2:7b-instruct", matchLocal(local, "qwen2"))
	assert.Equal(t, "", matchLocal(local, "mistral"))
	assert.Equal(t, "", matchLocal(local, ""))
}
