package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// State 流水线状态机
type State string

const (
	StateRouting     State = "routing"
	StateRetrieving  State = "retrieving"
	StateReranking   State = "reranking"
	StateGenerating  State = "generating"
	StateClassifying State = "classifying"
	StateFinalizing  State = "finalizing"

	// Terminal states. Degraded means the answer came through a fallback
	// path; Failed means no answer at all could be produced.
	StateComplete State = "complete"
	StateDegraded State = "degraded"
	StateFailed   State = "failed"
)

// StageRecord is one stage's timing entry in the trace.
type StageRecord struct {
	State    State
	Start    time.Time
	Duration time.Duration
	Err      error
}

// Trace follows one query through the pipeline for logging and the audit
// record. Not safe for concurrent use; each request owns its trace.
type Trace struct {
	RequestID string
	Start     time.Time
	Stages    []StageRecord
	Terminal  State

	current *StageRecord
}

// NewTrace 创建请求跟踪
func NewTrace() *Trace {
	return &Trace{
		RequestID: uuid.New().String(),
		Start:     time.Now(),
	}
}

// Enter closes the current stage and opens the next one.
func (t *Trace) Enter(state State) {
	t.closeCurrent(nil)
	t.Stages = append(t.Stages, StageRecord{State: state, Start: time.Now()})
	t.current = &t.Stages[len(t.Stages)-1]
}

// Finish records the terminal state. err annotates the stage that was
// running when the pipeline ended.
func (t *Trace) Finish(terminal State, err error) {
	t.closeCurrent(err)
	t.Terminal = terminal
}

// Elapsed 请求总耗时
func (t *Trace) Elapsed() time.Duration {
	return time.Since(t.Start)
}

func (t *Trace) closeCurrent(err error) {
	if t.current != nil {
		t.current.Duration = time.Since(t.current.Start)
		t.current.Err = err
		t.current = nil
	}
}
