package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Malowking/docchat/core/errors"
)

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req GenerateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2:1b", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 2048, req.Options.NumPredict)

		json.NewEncoder(w).Encode(GenerateResponse{
			Model:    req.Model,
			Response: "hello",
			Done:     true,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Generate(context.Background(), &GenerateRequest{
		Model:   "llama3.2:1b",
		Prompt:  "hi",
		Stream:  false,
		Options: &GenerateOptions{Temperature: 0.7, TopP: 0.9, NumCtx: 12288, NumPredict: 2048},
	})

	assert.NoError(t, err)
	assert.Equal(t, "hello", resp.Response)
	assert.True(t, resp.Done)
}

func TestClientGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "model 'missing' not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Generate(context.Background(), &GenerateRequest{Model: "missing", Prompt: "hi"})

	assert.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrGenerateFailed, appErr.Code)
	assert.Contains(t, appErr.Message, "model 'missing' not found")
}

func TestClientTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]interface{}{
				{"name": "llama3.2:1b", "size": 1300000000},
				{"name": "phi3.5:mini", "size": 2200000000},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	models, err := client.Tags(context.Background())

	assert.NoError(t, err)
	assert.Len(t, models, 2)
	assert.Equal(t, "llama3.2:1b", models[0].Name)
	assert.Equal(t, int64(1300000000), models[0].Size)
}

func TestClientPullStreamsProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pull", r.URL.Path)
		w.Write([]byte(`{"status":"pulling manifest"}` + "\n"))
		w.Write([]byte(`{"status":"downloading","total":1000,"completed":250}` + "\n"))
		w.Write([]byte(`{"status":"downloading","total":1000,"completed":1000}` + "\n"))
		w.Write([]byte(`{"status":"success"}` + "\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	var frames []PullProgress
	err := client.Pull(context.Background(), "llama3.2:1b", func(p PullProgress) error {
		frames = append(frames, p)
		return nil
	})

	assert.NoError(t, err)
	assert.Len(t, frames, 4)
	assert.Equal(t, "pulling manifest", frames[0].Status)
	assert.Equal(t, int64(250), frames[1].Completed)
	assert.Equal(t, "success", frames[3].Status)
}

func TestClientPullReportsStreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"pulling manifest"}` + "\n"))
		w.Write([]byte(`{"error":"pull model manifest: file does not exist"}` + "\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Pull(context.Background(), "nope", func(p PullProgress) error { return nil })

	assert.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrModelPullFailed, appErr.Code)
}

func TestClientDeleteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Delete(context.Background(), "ghost")

	appErr := apperrors.GetAppError(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrModelNotFound, appErr.Code)
}

func TestClientUnreachableEngine(t *testing.T) {
	// Port 1 is never listening.
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Tags(context.Background())

	appErr := apperrors.GetAppError(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrEngineUnavailable, appErr.Code)
}
