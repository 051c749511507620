package minutes

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Unknown is the placeholder for optional fields the model could not fill in
// (assignee, deadline, rationale).
const Unknown = "unknown"

// Priority classifies how urgent an action item is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// NormalizePriority maps arbitrary model output to a valid Priority.
// Anything unrecognized becomes medium.
func NormalizePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// StageStatus is the outcome of one attempted stage.
type StageStatus string

const (
	StageSuccess  StageStatus = "success"
	StageDegraded StageStatus = "degraded"
	StageFailed   StageStatus = "failed"
)

// RunStatus is the overall state of a pipeline run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunHalted    RunStatus = "halted"
)

// SpeakerTurn is one speaker contribution from the structured transcript.
// Order is stable and strictly increasing within a run.
type SpeakerTurn struct {
	Speaker   string `json:"speaker"`
	Utterance string `json:"utterance"`
	Order     int    `json:"order"`
}

// ActionItem is a task extracted from the meeting.
type ActionItem struct {
	Description string   `json:"description"`
	Assignee    string   `json:"assignee"`
	Deadline    string   `json:"deadline"`
	Priority    Priority `json:"priority"`
}

// Decision is a conclusion or agreement reached during the meeting.
type Decision struct {
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
}

// StageResult records one attempted stage in the stage log.
type StageResult struct {
	Stage       string        `json:"stage"`
	Status      StageStatus   `json:"status"`
	Attempts    int           `json:"attempts"`
	Duration    time.Duration `json:"duration"`
	ErrorDetail string        `json:"error_detail,omitempty"`
}

// State is the single data object threaded through all four stages.
// Each stage writes only its own output fields; fields are never overwritten
// once set, and the stage log is append-only.
type State struct {
	RunID         string `json:"run_id"`
	RawTranscript string `json:"raw_transcript"`
	WordCount     int    `json:"word_count"`

	// Stage 1: transcript processor
	CleanedTranscript string        `json:"cleaned_transcript,omitempty"`
	Speakers          []SpeakerTurn `json:"speakers,omitempty"`

	// Stage 2: content analyzer
	ActionItems []ActionItem `json:"action_items,omitempty"`
	Decisions   []Decision   `json:"decisions,omitempty"`
	KeyPoints   []string     `json:"key_points,omitempty"`

	// Stage 3: summary writer
	ExecutiveSummary string   `json:"executive_summary,omitempty"`
	Insights         []string `json:"insights,omitempty"`

	// Stage 4: minutes formatter
	FormattedMinutes string `json:"formatted_minutes,omitempty"`

	StageLog    []StageResult `json:"stage_log"`
	Status      RunStatus     `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at,omitzero"`
}

// NewState creates the initial state for one run. Only the raw transcript
// and run metadata are set; stage fields are filled as stages complete.
func NewState(rawTranscript string) *State {
	return &State{
		RunID:         uuid.New().String(),
		RawTranscript: rawTranscript,
		WordCount:     len(strings.Fields(rawTranscript)),
		Status:        RunPending,
		StartedAt:     time.Now(),
	}
}

// AppendResult adds a stage result to the log. The log is never re-ordered
// or truncated.
func (s *State) AppendResult(r StageResult) {
	s.StageLog = append(s.StageLog, r)
}

// LastResult returns the most recent stage result, or nil if no stage has
// been attempted yet.
func (s *State) LastResult() *StageResult {
	if len(s.StageLog) == 0 {
		return nil
	}
	return &s.StageLog[len(s.StageLog)-1]
}

// Completed reports whether every stage was attempted and none failed.
func (s *State) Completed() bool {
	return s.Status == RunCompleted
}
