// Package generator drives the external image-generation backend. The
// backend is the OpenAI Responses API with the image_generation tool:
// one text prompt plus two input images (the user's design and the
// reference model) in, generated image bytes out.
package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ErrEmptyResult means the backend answered without producing an image.
var ErrEmptyResult = errors.New("generation response contained no image")

// Client calls the OpenAI Responses API. One call per branch; failures
// are never retried here.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewClient builds a generation client. An empty baseURL selects the
// public OpenAI endpoint; a zero timeout disables the client timeout.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type inputMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type toolSpec struct {
	Type string `json:"type"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
	Tools []toolSpec     `json:"tools"`
}

type outputItem struct {
	Type   string `json:"type"`
	Result string `json:"result"`
}

type responsesResponse struct {
	Output []outputItem `json:"output"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func imageDataURL(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}

// Generate composites the design onto the reference model per the
// prompt and returns the generated image bytes.
func (c *Client) Generate(ctx context.Context, prompt string, inputImage, referenceImage []byte) ([]byte, error) {
	reqBody := responsesRequest{
		Model: c.model,
		Input: []inputMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "input_text", Text: prompt},
				{Type: "input_image", ImageURL: imageDataURL(inputImage)},
				{Type: "input_image", ImageURL: imageDataURL(referenceImage)},
			},
		}},
		Tools: []toolSpec{{Type: "image_generation"}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation backend returned %s: %s", resp.Status, truncate(body, 300))
	}

	var decoded responsesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("generation backend error: %s", decoded.Error.Message)
	}

	for _, item := range decoded.Output {
		if item.Type != "image_generation_call" || item.Result == "" {
			continue
		}
		img, err := base64.StdEncoding.DecodeString(item.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to decode generated image: %w", err)
		}
		return img, nil
	}

	return nil, ErrEmptyResult
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
