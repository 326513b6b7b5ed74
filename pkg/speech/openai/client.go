// Package openai implements the speech contracts over the OpenAI audio
// endpoints (whisper transcription, tts synthesis).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	defaultBaseURL         = "https://api.openai.com/v1"
	defaultTranscribeModel = "whisper-1"
	defaultTTSModel        = "tts-1"
)

type Client struct {
	apiKey          string
	baseURL         string
	transcribeModel string
	ttsModel        string
	client          *http.Client
}

func NewClient(apiKey, transcribeModel, ttsModel string) *Client {
	if transcribeModel == "" {
		transcribeModel = defaultTranscribeModel
	}
	if ttsModel == "" {
		ttsModel = defaultTTSModel
	}
	return &Client{
		apiKey:          apiKey,
		baseURL:         defaultBaseURL,
		transcribeModel: transcribeModel,
		ttsModel:        ttsModel,
		client:          &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("buffer audio: %w", err)
	}
	if err := writer.WriteField("model", c.transcribeModel); err != nil {
		return "", err
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai transcription: status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return parsed.Text, nil
}

func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = "nova"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"model": c.ttsModel,
		"voice": voice,
		"input": text,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai tts: status %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
