package voice

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/janani-health/janani/core/config"
	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

// Client 语音服务客户端，speech-to-text 与 text-to-speech 共用一个端点。
type Client struct {
	apiKey     string
	baseURL    string
	sttModel   string
	ttsModel   string
	httpClient *http.Client
}

type transcribeRequest struct {
	Model    string `json:"model"`
	Language string `json:"language"`
	// Audio is base64-encoded; clips are short enough that inlining beats
	// multipart here.
	Audio string `json:"audio"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

type synthesizeRequest struct {
	Model    string `json:"model"`
	Language string `json:"language"`
	Input    string `json:"input"`
}

type synthesizeResponse struct {
	Audio string `json:"audio"`
}

type voiceErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient 创建语音客户端
func NewClient(ctx context.Context, conf *config.VoiceHTTPConfig) (*Client, error) {
	if conf.BaseURL == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "voice baseURL is required")
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Dial: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).Dial,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 20 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
		},
	}

	return &Client{
		apiKey:     conf.APIKey,
		baseURL:    conf.BaseURL,
		sttModel:   conf.SttModel,
		ttsModel:   conf.TtsModel,
		httpClient: httpClient,
	}, nil
}

// Transcribe converts a spoken query to text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, language schema.Language) (string, error) {
	req := transcribeRequest{
		Model:    c.sttModel,
		Language: string(language),
		Audio:    base64.StdEncoding.EncodeToString(audio),
	}

	var resp transcribeResponse
	if err := c.post(ctx, "/transcribe", req, &resp, errors.ErrVoiceTranscription); err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", errors.New(errors.ErrVoiceTranscription, "transcription returned empty text")
	}
	return resp.Text, nil
}

// Synthesize converts answer text to spoken audio.
func (c *Client) Synthesize(ctx context.Context, text string, language schema.Language) ([]byte, error) {
	req := synthesizeRequest{
		Model:    c.ttsModel,
		Language: string(language),
		Input:    text,
	}

	var resp synthesizeResponse
	if err := c.post(ctx, "/synthesize", req, &resp, errors.ErrVoiceSynthesis); err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, errors.Newf(errors.ErrVoiceSynthesis, "failed to decode audio payload: %v", err)
	}
	if len(audio) == 0 {
		return nil, errors.New(errors.ErrVoiceSynthesis, "synthesis returned empty audio")
	}
	return audio, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody interface{}, respBody interface{}, code errors.ErrCode) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return errors.Newf(code, "failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return errors.Newf(code, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Newf(code, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp voiceErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return errors.Newf(code, "HTTP %d: failed to decode error response: %v", resp.StatusCode, err)
		}
		return errors.Newf(code, "API error (HTTP %d): %s", resp.StatusCode, errResp.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return errors.Newf(code, "failed to decode response: %v", err)
	}
	return nil
}
