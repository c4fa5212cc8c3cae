package common

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/janani-health/janani/core/config"
	"github.com/janani-health/janani/core/errors"
)

// SeverityClient 症状严重度打分客户端
// Calls an external classifier and returns a risk score in [0,1].
type SeverityClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type severityRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type severityResponse struct {
	Score float64 `json:"score"`
}

type severityErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewSeverityClient 创建严重度打分客户端
func NewSeverityClient(ctx context.Context, conf *config.SafetyHTTPConfig) (*SeverityClient, error) {
	if conf.BaseURL == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "safety baseURL is required")
	}
	model := conf.Model
	if model == "" {
		model = "severity-v1"
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			Dial: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).Dial,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 8 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
		},
	}

	return &SeverityClient{
		apiKey:     conf.APIKey,
		baseURL:    conf.BaseURL,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// ClassifySeverity scores text for medical urgency, returning a value in [0,1].
func (c *SeverityClient) ClassifySeverity(ctx context.Context, text string) (float64, error) {
	req := severityRequest{
		Model: c.model,
		Input: text,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return 0, errors.Newf(errors.ErrSafetyClassifierFailed, "failed to marshal request: %v", err)
	}

	url := c.baseURL + "/classify"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, errors.Newf(errors.ErrSafetyClassifierFailed, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, errors.Newf(errors.ErrSafetyClassifierFailed, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp severityErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return 0, errors.Newf(errors.ErrSafetyClassifierFailed, "HTTP %d: failed to decode error response: %v", resp.StatusCode, err)
		}
		return 0, errors.Newf(errors.ErrSafetyClassifierFailed, "API error (HTTP %d): %s", resp.StatusCode, errResp.Error.Message)
	}

	var sevResp severityResponse
	if err := json.NewDecoder(resp.Body).Decode(&sevResp); err != nil {
		return 0, errors.Newf(errors.ErrSafetyClassifierFailed, "failed to decode response: %v", err)
	}

	// clamp，上游偶尔返回轻微越界的分数
	score := sevResp.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}
