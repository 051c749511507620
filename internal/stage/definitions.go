package stage

import (
	"github.com/nguyentantai21042004/minutes-flow/internal/gateway"
	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
	"github.com/nguyentantai21042004/minutes-flow/internal/parser"
)

// Definitions returns the four pipeline stages in execution order.
// maxOutputTokens applies to every stage. The extraction stages run at a
// fixed low temperature; writingTemperature applies to the summary and
// formatting stages (0 falls back to a moderate default).
func Definitions(writingTemperature float64, maxOutputTokens int) []Definition {
	if writingTemperature <= 0 {
		writingTemperature = 0.3
	}
	return []Definition{
		transcriptProcessor(maxOutputTokens),
		contentAnalyzer(maxOutputTokens),
		summaryWriter(writingTemperature, maxOutputTokens),
		minutesFormatter(writingTemperature, maxOutputTokens),
	}
}

func transcriptProcessor(maxTokens int) Definition {
	def := Definition{
		Name:        NameTranscriptProcessor,
		Params:      gateway.GenerationParams{Temperature: 0.1, MaxOutputTokens: maxTokens},
		BuildPrompt: buildTranscriptPrompt,
		ParseApply: func(s *minutes.State, raw string) error {
			result, err := parser.ParseTranscript(raw)
			if err != nil {
				return err
			}
			s.CleanedTranscript = result.Cleaned
			s.Speakers = result.Speakers
			return nil
		},
		Degrade: func(s *minutes.State, raw string) bool {
			result := parser.FallbackTranscript(raw, s.RawTranscript)
			if result.Cleaned == "" {
				return false
			}
			s.CleanedTranscript = result.Cleaned
			s.Speakers = result.Speakers
			return true
		},
	}
	def.RepairPrompt = func(s *minutes.State, malformed string) string {
		return repairPrompt(buildTranscriptPrompt(s), malformed)
	}
	return def
}

func contentAnalyzer(maxTokens int) Definition {
	def := Definition{
		Name:        NameContentAnalyzer,
		Params:      gateway.GenerationParams{Temperature: 0.1, MaxOutputTokens: maxTokens},
		BuildPrompt: buildAnalysisPrompt,
		ParseApply: func(s *minutes.State, raw string) error {
			result, err := parser.ParseAnalysis(raw)
			if err != nil {
				return err
			}
			s.ActionItems = result.ActionItems
			s.Decisions = result.Decisions
			s.KeyPoints = result.KeyPoints
			return nil
		},
		Degrade: func(s *minutes.State, raw string) bool {
			result := parser.FallbackAnalysis(raw)
			if len(result.KeyPoints) == 0 {
				return false
			}
			s.ActionItems = result.ActionItems
			s.Decisions = result.Decisions
			s.KeyPoints = result.KeyPoints
			return true
		},
	}
	def.RepairPrompt = func(s *minutes.State, malformed string) string {
		return repairPrompt(buildAnalysisPrompt(s), malformed)
	}
	return def
}

func summaryWriter(temperature float64, maxTokens int) Definition {
	def := Definition{
		Name:        NameSummaryWriter,
		Params:      gateway.GenerationParams{Temperature: temperature, MaxOutputTokens: maxTokens},
		BuildPrompt: buildSummaryPrompt,
		ParseApply: func(s *minutes.State, raw string) error {
			result, err := parser.ParseSummary(raw)
			if err != nil {
				return err
			}
			s.ExecutiveSummary = result.ExecutiveSummary
			s.Insights = result.Insights
			return nil
		},
		Degrade: func(s *minutes.State, raw string) bool {
			result := parser.FallbackSummary(raw)
			if result.ExecutiveSummary == "" {
				return false
			}
			s.ExecutiveSummary = result.ExecutiveSummary
			s.Insights = result.Insights
			return true
		},
	}
	def.RepairPrompt = func(s *minutes.State, malformed string) string {
		return repairPrompt(buildSummaryPrompt(s), malformed)
	}
	return def
}

func minutesFormatter(temperature float64, maxTokens int) Definition {
	def := Definition{
		Name:        NameMinutesFormatter,
		Params:      gateway.GenerationParams{Temperature: temperature, MaxOutputTokens: maxTokens},
		BuildPrompt: buildMinutesPrompt,
		ParseApply: func(s *minutes.State, raw string) error {
			result, err := parser.ParseMinutes(raw)
			if err != nil {
				return err
			}
			s.FormattedMinutes = result.FormattedMinutes
			return nil
		},
		Degrade: func(s *minutes.State, raw string) bool {
			result := parser.FallbackMinutes(raw)
			if result.FormattedMinutes == "" {
				return false
			}
			s.FormattedMinutes = result.FormattedMinutes
			return true
		},
	}
	def.RepairPrompt = func(s *minutes.State, malformed string) string {
		return repairPrompt(buildMinutesPrompt(s), malformed)
	}
	return def
}
