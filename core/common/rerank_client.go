package common

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janani-health/janani/core/errors"
)

// RerankConfig 接口，用于提取rerank配置
type RerankConfig interface {
	GetRerankAPIKey() string
	GetRerankBaseURL() string
	GetRerankModel() string
}

// CrossEncoderClient 交叉编码器打分客户端
// Calls an OpenAI-style /rerank endpoint and returns one relevance score per
// (query, passage) pair.
type CrossEncoderClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// rerankRequest rerank API请求结构
type rerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	ReturnDocuments bool     `json:"return_documents"`
}

// rerankResult rerank结果项
type rerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// rerankResponse rerank API响应结构
type rerankResponse struct {
	ID      string          `json:"id"`
	Results []*rerankResult `json:"results"`
}

// rerankErrorResponse API错误响应
type rerankErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
}

// scoreBatchSize bounds the documents sent per API call; larger candidate
// sets are scored in parallel batches.
const scoreBatchSize = 32

// NewCrossEncoderClient 创建交叉编码器客户端
func NewCrossEncoderClient(ctx context.Context, conf RerankConfig) (*CrossEncoderClient, error) {
	apiKey := conf.GetRerankAPIKey()
	baseURL := conf.GetRerankBaseURL()
	model := conf.GetRerankModel()

	if apiKey == "" {
		apiKey = os.Getenv("RERANK_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("RERANK_BASE_URL")
		if baseURL == "" {
			return nil, errors.New(errors.ErrInvalidParameter, "rerank baseURL is required")
		}
	}
	if model == "" {
		model = "rerank-v1"
	}

	// 创建自定义HTTP客户端，优化连接复用和超时
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Dial: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).Dial,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
		},
	}

	return &CrossEncoderClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// ScoreRelevance scores every (query, document) pair and returns one score
// per input document, in input order. The stage timeout is carried by ctx.
func (c *CrossEncoderClient) ScoreRelevance(ctx context.Context, query string, documents []string) ([]float64, error) {
	if len(documents) == 0 {
		return []float64{}, nil
	}

	scores := make([]float64, len(documents))

	eg, gCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(documents); start += scoreBatchSize {
		start := start
		end := start + scoreBatchSize
		if end > len(documents) {
			end = len(documents)
		}
		eg.Go(func() error {
			batch, err := c.scoreBatch(gCtx, query, documents[start:end])
			if err != nil {
				return err
			}
			copy(scores[start:end], batch)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return scores, nil
}

// scoreBatch 单批打分
func (c *CrossEncoderClient) scoreBatch(ctx context.Context, query string, documents []string) ([]float64, error) {
	req := rerankRequest{
		Model:           c.model,
		Query:           query,
		Documents:       documents,
		TopN:            len(documents), // all scores, ordering is done locally
		ReturnDocuments: false,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Newf(errors.ErrRerankUnavailable, "failed to marshal request: %v", err)
	}

	url := c.baseURL + "/rerank"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Newf(errors.ErrRerankUnavailable, "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Newf(errors.ErrRerankUnavailable, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp rerankErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return nil, errors.Newf(errors.ErrRerankUnavailable, "HTTP %d: failed to decode error response: %v", resp.StatusCode, err)
		}
		return nil, errors.Newf(errors.ErrRerankUnavailable, "API error (HTTP %d): %s", resp.StatusCode, errResp.Error.Message)
	}

	var rerankResp rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, errors.Newf(errors.ErrRerankUnavailable, "failed to decode response: %v", err)
	}

	scores := make([]float64, len(documents))
	for _, res := range rerankResp.Results {
		if res.Index < 0 || res.Index >= len(documents) {
			return nil, errors.Newf(errors.ErrRerankUnavailable, "invalid result index: %d", res.Index)
		}
		scores[res.Index] = res.RelevanceScore
	}

	return scores, nil
}
