package neynar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.neynar.com/v2"

// Client posts casts to Farcaster through the Neynar API. There is no Go SDK
// for Neynar; this is a thin REST client with an injected http.Client.
type Client struct {
	apiKey     string
	signerUUID string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func New(apiKey, signerUUID string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		signerUUID: signerUUID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type castEmbed struct {
	URL string `json:"url"`
}

type postCastRequest struct {
	SignerUUID string      `json:"signer_uuid"`
	Text       string      `json:"text"`
	Parent     string      `json:"parent,omitempty"`
	Embeds     []castEmbed `json:"embeds,omitempty"`
}

type postCastResponse struct {
	Cast struct {
		Hash string `json:"hash"`
	} `json:"cast"`
}

// PostCast publishes a cast, optionally as a reply to parentHash and with a
// single embed URL. It returns the new cast's hash.
func (c *Client) PostCast(ctx context.Context, parentHash, text, embedURL string) (string, error) {
	reqBody := postCastRequest{
		SignerUUID: c.signerUUID,
		Text:       text,
		Parent:     parentHash,
	}
	if embedURL != "" {
		reqBody.Embeds = []castEmbed{{URL: embedURL}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode cast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/farcaster/cast", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build cast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("neynar returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed postCastResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode cast response: %w", err)
	}
	return parsed.Cast.Hash, nil
}
