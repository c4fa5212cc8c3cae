package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrUnauthorized     ErrCode = 1002 // 未授权
	ErrInternalError    ErrCode = 1003 // 内部错误
	ErrNotFound         ErrCode = 1004 // 资源未找到
	ErrOperationFailed  ErrCode = 1005 // 操作失败

	// 语言路由 2000-2999
	ErrLanguageDetectionFailed ErrCode = 2001 // script and classifier both failed, recovered to English

	// 检索相关 3000-3999
	ErrRetrievalUnavailable ErrCode = 3001 // vector index capability down
	ErrEmbeddingFailed      ErrCode = 3002 // embedding call failed
	ErrVectorSearch         ErrCode = 3003 // search executed but failed
	ErrVectorStoreInit      ErrCode = 3004 // 向量库初始化失败

	// 重排相关 4000-4999
	ErrRerankUnavailable ErrCode = 4001 // cross-encoder down, unranked order used

	// 生成相关 5000-5999
	ErrGenerationFailed   ErrCode = 5001 // LLM调用失败
	ErrGenerationTimeout  ErrCode = 5002 // stage timeout hit
	ErrGroundingViolation ErrCode = 5003 // answer cited an unsupplied source

	// 安全相关 6000-6999
	ErrSafetyClassifierFailed ErrCode = 6001 // model scorer failed, fail-safe medium applied

	// 档案与缓存 7000-7999
	ErrProfileStoreFailed ErrCode = 7001 // profile store unreachable
	ErrCacheMiss          ErrCode = 7002 // response cache had no usable entry
	ErrCacheUnavailable   ErrCode = 7003 // redis unreachable

	// 流水线 8000-8999
	ErrPipelineDeadline ErrCode = 8001 // overall request deadline exceeded
	ErrPipelineFailed   ErrCode = 8002 // no retrieval, no cache, no fallback text

	// 语音边界 9000-9999
	ErrVoiceTranscription ErrCode = 9001 // speech-to-text failed, user asked to repeat
	ErrVoiceSynthesis     ErrCode = 9002 // text-to-speech failed, degraded to text-only
	ErrAudioStoreFailed   ErrCode = 9003 // audio object store write failed
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch e {
	case ErrInvalidParameter:
		return 422
	case ErrUnauthorized:
		return 401
	case ErrNotFound:
		return 404
	case ErrPipelineFailed, ErrRetrievalUnavailable, ErrCacheUnavailable:
		// total failure with no cache hit surfaces as service unavailable
		return 503
	default:
		return 500
	}
}
