// Package generator fetches fresh facility listings from the Gemini API and
// normalizes them into catalog records.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/medimatch/api/model"
	"github.com/medimatch/api/util"
)

// Client calls the Gemini generateContent REST endpoint. One invocation per
// user action: a failed call is never retried here, the caller degrades to an
// empty batch and the user can trigger another fetch.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// New builds a generator client. baseURL points at the API root
// (https://generativelanguage.googleapis.com in production, an httptest server
// in tests).
func New(baseURL, modelName, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   modelName,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchProfiles generates a batch of facility listings for the given user.
// mode is ModeStrict or ModeDiscovery. On any failure (transport, status,
// malformed payload) it logs a generation-failure security event and returns
// an empty batch together with the error.
func (c *Client) FetchProfiles(ctx context.Context, user model.User, mode string) ([]model.HospitalProfile, error) {
	profiles, err := c.fetch(ctx, user, mode)
	if err != nil {
		util.LogGenerationFailure(user.Email, mode, err.Error())
		return nil, err
	}
	return profiles, nil
}

func (c *Client) fetch(ctx context.Context, user model.User, mode string) ([]model.HospitalProfile, error) {
	var prompt string
	switch mode {
	case ModeStrict:
		prompt = strictPrompt(user.Specialty, user.PreferredSize, user.PreferredVibe, user.Leisure, user.WorkLife)
	case ModeDiscovery:
		prompt = discoveryPrompt(user.Specialty, user.PreferredVibe)
	default:
		return nil, fmt.Errorf("unknown generation mode %q", mode)
	}

	reqBody := geminiRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig:  generationConfig{ResponseMimeType: "application/json"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call generation api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("generation api status %d: %s", resp.StatusCode, body)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("generation api returned no candidates")
	}

	var payloads []facilityPayload
	text := geminiResp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &payloads); err != nil {
		return nil, fmt.Errorf("decode generated listings: %w", err)
	}
	return normalize(payloads, mode), nil
}
