package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// GatewayClient implements Adapter against the internal storage gateway's
// REST surface.
type GatewayClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGatewayClient(baseURL, apiKey string) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GatewayClient) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"key":         key,
		"ttl_seconds": int(ttl.Seconds()),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/presign", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.setHeaders(req, "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("presign request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage gateway presign: status %d", resp.StatusCode)
	}

	var parsed struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode presign response: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("storage gateway presign: empty url")
	}
	return parsed.URL, nil
}

func (c *GatewayClient) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectURL(key), body)
	if err != nil {
		return err
	}
	c.setHeaders(req, contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("storage gateway upload: status %d", resp.StatusCode)
	}
	return nil
}

func (c *GatewayClient) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(key), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("storage gateway delete: status %d", resp.StatusCode)
	}
	return nil
}

// ExtractText runs the gateway's OCR/text-extraction pipeline on a stored
// object. Extraction is slow for large scans; the caller owns the timeout.
func (c *GatewayClient) ExtractText(ctx context.Context, key string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{"key": key})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract-text", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.setHeaders(req, "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage gateway extract: status %d", resp.StatusCode)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode extract response: %w", err)
	}
	return parsed.Text, nil
}

func (c *GatewayClient) objectURL(key string) string {
	return c.baseURL + "/v1/objects/" + url.PathEscape(key)
}

func (c *GatewayClient) setHeaders(req *http.Request, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}
