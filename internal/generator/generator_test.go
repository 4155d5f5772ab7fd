package generator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("")

	assert.Contains(t, p, "blank T-Shirt")
	assert.Contains(t, p, "moderately sized")
}

func TestBuildPromptAppendsInjection(t *testing.T) {
	p := BuildPrompt("add a dragon")

	assert.Contains(t, p, "add a dragon")
	assert.Contains(t, p, "blank T-Shirt")
}

func TestGenerate(t *testing.T) {
	want := []byte("fake-image-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/responses", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req responsesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-4.1", req.Model)
		require.Len(t, req.Input, 1)
		require.Len(t, req.Input[0].Content, 3, "prompt plus two input images")
		assert.Equal(t, "input_text", req.Input[0].Content[0].Type)
		assert.Equal(t, "input_image", req.Input[0].Content[1].Type)
		assert.Equal(t, "input_image", req.Input[0].Content[2].Type)

		resp := responsesResponse{Output: []outputItem{
			{Type: "message"},
			{Type: "image_generation_call", Result: base64.StdEncoding.EncodeToString(want)},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4.1", srv.URL, 5*time.Second)

	got, err := c.Generate(context.Background(), "a prompt", []byte("design"), []byte("model"))

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGenerateEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(responsesResponse{Output: []outputItem{{Type: "message"}}})
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4.1", srv.URL, 5*time.Second)

	_, err := c.Generate(context.Background(), "a prompt", []byte("design"), []byte("model"))

	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestGenerateBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4.1", srv.URL, 5*time.Second)

	_, err := c.Generate(context.Background(), "a prompt", []byte("design"), []byte("model"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4.1", srv.URL, 5*time.Second)

	_, err := c.Generate(context.Background(), "a prompt", []byte("design"), []byte("model"))

	assert.Error(t, err)
}
