package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/cache"
	"github.com/janani-health/janani/core/common"
	"github.com/janani-health/janani/core/config"
	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

// Capability interfaces consumed by the orchestrator. Concrete
// implementations live in their stage packages; the orchestrator only sees
// behavior, which keeps the degradation paths testable with fakes.

type LanguageRouter interface {
	Route(ctx context.Context, query *schema.Query, profile *schema.UserProfile) (schema.Language, bool)
}

type ProfileProvider interface {
	Get(ctx context.Context, userID string) (*schema.UserProfile, error)
	Touch(ctx context.Context, userID string, language schema.Language) error
}

type Retriever interface {
	Retrieve(ctx context.Context, text string, language schema.Language, topK int, trimester schema.Trimester) ([]*schema.Passage, error)
}

type Reranker interface {
	Rerank(ctx context.Context, query string, passages []*schema.Passage, topN int) ([]*schema.RankedPassage, bool)
}

type Generator interface {
	Generate(ctx context.Context, queryText string, passages []*schema.RankedPassage, language schema.Language, profile *schema.UserProfile, mode schema.Mode) (*schema.GenerationResult, error)
	Canned(language schema.Language) *schema.GenerationResult
}

type SafetyClassifier interface {
	Classify(ctx context.Context, queryText, answerText string, language schema.Language) *schema.SafetyAssessment
}

type Synthesizer interface {
	SynthesizeAnswer(ctx context.Context, userID, text string, language schema.Language) (string, error)
}

type QueryLogger interface {
	LogQuery(ctx context.Context, entry *schema.QueryLogEntry) error
}

// Orchestrator drives one query through routing, retrieval, re-ranking,
// generation, safety classification and finalization.
//
// Degradation follows a fixed priority: the safety check and disclaimer are
// never skipped; a generation failure falls back to the top passage; voice
// synthesis is dropped before anything user-visible; audit logging is
// sacrificed last and silently.
type Orchestrator struct {
	conf *config.PipelineConfig

	router    LanguageRouter
	profiles  ProfileProvider
	retriever Retriever
	reranker  Reranker
	generator Generator
	safety    SafetyClassifier

	// Optional capabilities; nil disables the concern.
	synthesizer Synthesizer
	logger      QueryLogger
	responses   *cache.ResponseCache
}

// New 创建查询编排器
func New(conf *config.PipelineConfig, router LanguageRouter, profiles ProfileProvider, retriever Retriever, reranker Reranker, generator Generator, safety SafetyClassifier) *Orchestrator {
	return &Orchestrator{
		conf:      conf,
		router:    router,
		profiles:  profiles,
		retriever: retriever,
		reranker:  reranker,
		generator: generator,
		safety:    safety,
	}
}

// WithSynthesizer enables the voice boundary.
func (o *Orchestrator) WithSynthesizer(s Synthesizer) *Orchestrator {
	o.synthesizer = s
	return o
}

// WithQueryLogger enables audit logging.
func (o *Orchestrator) WithQueryLogger(l QueryLogger) *Orchestrator {
	o.logger = l
	return o
}

// WithResponseCache enables the finished-answer cache.
func (o *Orchestrator) WithResponseCache(c *cache.ResponseCache) *Orchestrator {
	o.responses = c
	return o
}

// Process answers one query. It returns an error only when every fallback is
// exhausted; every degraded outcome still produces a usable response.
func (o *Orchestrator) Process(ctx context.Context, query *schema.Query) (*schema.QueryResponse, error) {
	if err := validate(query); err != nil {
		return nil, err
	}
	if query.Mode == "" {
		query.Mode = schema.ModeStandard
	}

	ctx, cancel := context.WithTimeout(ctx, o.conf.Deadline)
	defer cancel()

	trace := NewTrace()
	degraded := false

	// 用户画像：失败时继续走无个性化路径
	profile, err := o.profiles.Get(ctx, query.UserID)
	if err != nil {
		g.Log().Warningf(ctx, "[%s] profile load failed, continuing without personalization: %v", trace.RequestID, err)
		profile = nil
	}

	// 低带宽档案：改用短回答预算，且不做语音合成
	mode := query.Mode
	if profile != nil && profile.LowBandwidth {
		g.Log().Infof(ctx, "[%s] low-bandwidth profile, short answer budget and no voice", trace.RequestID)
		mode = schema.ModeShort
	}

	trace.Enter(StateRouting)
	language, uncertain := o.router.Route(ctx, query, profile)

	fingerprint := cache.Fingerprint(normalize(query.Text), language, mode)

	trace.Enter(StateRetrieving)
	passages, err := o.retrieve(ctx, query, language, profile)
	if err != nil {
		// retrieval outage: a recent identical query may still be served
		if resp := o.cachedResponse(ctx, fingerprint); resp != nil {
			g.Log().Warningf(ctx, "[%s] retrieval unavailable, serving cached response: %v", trace.RequestID, err)
			trace.Finish(StateDegraded, err)
			o.finish(ctx, trace, query, language, mode, resp, nil, len(resp.Sources))
			return resp, nil
		}
		trace.Finish(StateFailed, err)
		o.finish(ctx, trace, query, language, mode, nil, nil, 0)
		return nil, errors.Newf(errors.ErrRetrievalUnavailable, "retrieval unavailable and no cached response: %v", err)
	}

	trace.Enter(StateReranking)
	ranked, wasRanked := o.rerank(ctx, query.Text, passages)
	if !wasRanked {
		degraded = true
	}
	ranked = o.applyScoreThreshold(ranked)

	trace.Enter(StateGenerating)
	result, genErr := o.generate(ctx, query.Text, ranked, language, profile, mode)
	if genErr != nil {
		// fallback: surface the best passage verbatim rather than fail
		g.Log().Errorf(ctx, "[%s] generation failed after retries, falling back to top passage: %v", trace.RequestID, genErr)
		result = o.passageFallback(ranked, language)
		degraded = true
	}

	// Safety runs on every response, including degraded ones.
	trace.Enter(StateClassifying)
	assessment := o.classify(ctx, query.Text, result.AnswerText, language)

	trace.Enter(StateFinalizing)
	resp := &schema.QueryResponse{
		Answer:            result.AnswerText + "\n\n" + common.GetDisclaimer(language),
		Sources:           result.SourcesUsed,
		Language:          language,
		SafetyAlert:       assessment.Alert,
		LanguageUncertain: uncertain,
		Degraded:          degraded,
	}

	if mode == schema.ModeVoice {
		resp.AudioURL = o.synthesize(ctx, trace, query.UserID, resp.Answer, language)
	}

	terminal := StateComplete
	if degraded {
		terminal = StateDegraded
	} else if o.responses != nil {
		o.responses.Put(ctx, fingerprint, resp)
	}
	trace.Finish(terminal, genErr)

	o.finish(ctx, trace, query, language, mode, resp, assessment, len(ranked))
	return resp, nil
}

func validate(query *schema.Query) error {
	if query == nil || strings.TrimSpace(query.Text) == "" {
		return errors.New(errors.ErrInvalidParameter, "query text is required")
	}
	if query.UserID == "" {
		return errors.New(errors.ErrInvalidParameter, "user id is required")
	}
	if query.ExplicitLanguage != "" && !query.ExplicitLanguage.Valid() {
		return errors.Newf(errors.ErrInvalidParameter, "unsupported language %q", query.ExplicitLanguage)
	}
	if query.Mode != "" && !query.Mode.Valid() {
		return errors.Newf(errors.ErrInvalidParameter, "unsupported mode %q", query.Mode)
	}
	return nil
}

// normalize collapses whitespace so trivially different phrasings share a
// cache fingerprint.
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func (o *Orchestrator) retrieve(ctx context.Context, query *schema.Query, language schema.Language, profile *schema.UserProfile) ([]*schema.Passage, error) {
	stageCtx, cancel := context.WithTimeout(ctx, o.conf.RetrieveTimeout)
	defer cancel()

	var trimester schema.Trimester
	if profile != nil {
		trimester = profile.Trimester
	}
	return o.retriever.Retrieve(stageCtx, query.Text, language, o.conf.TopK, trimester)
}

func (o *Orchestrator) rerank(ctx context.Context, queryText string, passages []*schema.Passage) ([]*schema.RankedPassage, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, o.conf.RerankTimeout)
	defer cancel()
	return o.reranker.Rerank(stageCtx, queryText, passages, o.conf.TopN)
}

// applyScoreThreshold drops passages whose retrieval similarity is below the
// floor. Applied after re-ranking so weak candidates still get a chance to be
// rescored; an empty survivor set routes to the canned answer.
func (o *Orchestrator) applyScoreThreshold(ranked []*schema.RankedPassage) []*schema.RankedPassage {
	out := ranked[:0]
	for _, p := range ranked {
		if float64(p.Score) >= o.conf.ScoreThreshold {
			out = append(out, p)
		}
	}
	return out
}

// generate runs the generation stage with bounded retries and exponential
// backoff. Each attempt gets a fresh stage timeout; the overall deadline
// still caps the total.
func (o *Orchestrator) generate(ctx context.Context, queryText string, ranked []*schema.RankedPassage, language schema.Language, profile *schema.UserProfile, mode schema.Mode) (*schema.GenerationResult, error) {
	var lastErr error
	backoff := o.conf.RetryBackoff

	for attempt := 0; attempt <= o.conf.GenerateRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Newf(errors.ErrGenerationTimeout, "deadline exceeded before retry %d: %v", attempt, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		stageCtx, cancel := context.WithTimeout(ctx, o.conf.GenerateTimeout)
		result, err := o.generator.Generate(stageCtx, queryText, ranked, language, profile, mode)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// passageFallback builds the degraded answer from the best surviving passage.
func (o *Orchestrator) passageFallback(ranked []*schema.RankedPassage, language schema.Language) *schema.GenerationResult {
	if len(ranked) == 0 {
		return o.generator.Canned(language)
	}
	top := ranked[0]
	return &schema.GenerationResult{
		AnswerText: top.Content,
		SourcesUsed: []*schema.Source{{
			Title: top.SourceTitle,
			URL:   top.SourceURL,
		}},
	}
}

func (o *Orchestrator) classify(ctx context.Context, queryText, answerText string, language schema.Language) *schema.SafetyAssessment {
	stageCtx, cancel := context.WithTimeout(ctx, o.conf.SafetyTimeout)
	defer cancel()
	return o.safety.Classify(stageCtx, queryText, answerText, language)
}

// synthesize renders the voice clip. Any failure keeps the text answer.
func (o *Orchestrator) synthesize(ctx context.Context, trace *Trace, userID, answer string, language schema.Language) string {
	if o.synthesizer == nil {
		return ""
	}
	audioURL, err := o.synthesizer.SynthesizeAnswer(ctx, userID, answer, language)
	if err != nil {
		g.Log().Warningf(ctx, "[%s] voice synthesis failed, returning text only: %v", trace.RequestID, err)
		return ""
	}
	return audioURL
}

// finish handles the off-path bookkeeping: profile touch and audit record.
// Both run detached from the request so they never delay the response, and
// both are best-effort.
func (o *Orchestrator) finish(ctx context.Context, trace *Trace, query *schema.Query, language schema.Language, mode schema.Mode, resp *schema.QueryResponse, assessment *schema.SafetyAssessment, passageCount int) {
	entry := &schema.QueryLogEntry{
		RequestID:      trace.RequestID,
		UserID:         query.UserID,
		QueryHash:      cache.Fingerprint(normalize(query.Text), language, mode),
		Language:       language,
		Mode:           mode,
		State:          string(trace.Terminal),
		SafetySeverity: assessment.RiskBucket(),
		PassageCount:   passageCount,
		LatencyMs:      trace.Elapsed().Milliseconds(),
		CreatedAt:      time.Now(),
	}
	if resp != nil {
		entry.Degraded = resp.Degraded
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if resp != nil {
			if err := o.profiles.Touch(bgCtx, query.UserID, language); err != nil {
				g.Log().Warningf(bgCtx, "[%s] profile touch failed: %v", trace.RequestID, err)
			}
		}
		if o.logger != nil {
			if err := o.logger.LogQuery(bgCtx, entry); err != nil {
				g.Log().Warningf(bgCtx, "[%s] query log write failed: %v", trace.RequestID, err)
			}
		}
	}()

	g.Log().Infof(ctx, "[%s] query finished: state=%s language=%s mode=%s passages=%d latency=%dms",
		trace.RequestID, trace.Terminal, language, mode, passageCount, entry.LatencyMs)
}

func (o *Orchestrator) cachedResponse(ctx context.Context, fingerprint string) *schema.QueryResponse {
	if o.responses == nil {
		return nil
	}
	resp := o.responses.Get(ctx, fingerprint)
	if resp == nil {
		return nil
	}
	cp := *resp
	cp.Degraded = true
	// a cached clip URL may have been purged since; do not resurface it
	cp.AudioURL = ""
	return &cp
}
