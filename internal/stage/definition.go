package stage

import (
	"github.com/nguyentantai21042004/minutes-flow/internal/gateway"
	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

// Stage names, in pipeline order.
const (
	NameTranscriptProcessor = "transcript_processor"
	NameContentAnalyzer     = "content_analyzer"
	NameSummaryWriter       = "summary_writer"
	NameMinutesFormatter    = "minutes_formatter"
)

// Definition describes one pipeline stage. The prompt builders are pure
// functions of the state and the stage identity; parsing and state mutation
// are combined so each stage writes only its own designated fields.
type Definition struct {
	Name   string
	Params gateway.GenerationParams

	// BuildPrompt renders the stage prompt from the current state.
	BuildPrompt func(s *minutes.State) string

	// RepairPrompt renders the one-shot correction prompt, embedding the
	// malformed reply.
	RepairPrompt func(s *minutes.State, malformed string) string

	// ParseApply validates the raw reply and writes the stage's output
	// fields into s. Returns a *parser.ParseError on schema failure, in
	// which case s is untouched.
	ParseApply func(s *minutes.State, raw string) error

	// Degrade writes the best-effort minimal output derived from raw into
	// s. Returns false only when no valid minimal value can be produced,
	// which fails the stage.
	Degrade func(s *minutes.State, raw string) bool
}
