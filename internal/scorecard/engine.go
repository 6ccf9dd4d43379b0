// Package scorecard turns a fetched scorecard page into MatchState updates.
package scorecard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/markup"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// Report describes one Apply call.
type Report struct {
	Roles    Roles    `json:"roles"`
	Failed   []string `json:"failed,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// pass carries one document through the stages.
type pass struct {
	doc    *markup.Document
	state  *models.MatchState
	roles  Roles
	report *Report
	logger *slog.Logger
}

type stage struct {
	name string
	run  func(p *pass) error
}

// Stages assign their section only after it has been fully built, so a
// failing stage leaves the previous value in place.
var defaultStages = []stage{
	{"match_info", applyMatchInfo},
	{"teams", applyTeams},
	{"roles", applyRoles},
	{"batting", applyBatting},
	{"bowling", applyBowling},
	{"commentary", applyCommentary},
	{"validate", applyValidation},
}

// Engine applies fetched documents to match state. It holds no match data
// of its own and may be shared across matches.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
	stages []stage
}

// NewEngine creates an engine that logs through logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger.With("component", "scorecard"),
		now:    time.Now,
		stages: defaultStages,
	}
}

// Apply extracts every section from document into state. A document that
// cannot be parsed returns an error and leaves state untouched. Failures
// inside individual stages are recorded in the report and never returned.
func (e *Engine) Apply(state *models.MatchState, document string) (Report, error) {
	doc, err := markup.ParseString(document)
	if err != nil {
		return Report{}, fmt.Errorf("normalizing document: %w", err)
	}

	report := Report{}
	p := &pass{
		doc:    doc,
		state:  state,
		roles:  defaultRoles(),
		report: &report,
		logger: e.logger.With("match", state.MatchInfo.MatchID),
	}

	for _, s := range e.stages {
		e.runStage(p, s)
	}
	report.Roles = p.roles

	state.LastUpdated = e.now()
	return report, nil
}

func (e *Engine) runStage(p *pass, s stage) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("stage panicked", "stage", s.name, "panic", r)
			p.report.Failed = append(p.report.Failed, s.name)
		}
	}()

	if err := s.run(p); err != nil {
		p.logger.Error("stage failed", "stage", s.name, "error", err)
		p.report.Failed = append(p.report.Failed, s.name)
	}
}

func applyMatchInfo(p *pass) error {
	p.state.MatchInfo = ExtractMatchInfo(p.doc, p.state.MatchInfo)
	return nil
}

func applyTeams(p *pass) error {
	teams := ExtractTeams(p.doc)
	if len(teams) == 0 {
		p.logger.Warn("no team sections found, keeping previous teams")
		return nil
	}
	p.state.Teams = teams
	return nil
}

func applyRoles(p *pass) error {
	p.roles = ResolveRoles(p.state.MatchInfo.Status, p.state.Teams)
	return nil
}

func applyBatting(p *pass) error {
	p.state.BattingStats = ExtractBatting(p.doc, p.state.Teams, p.roles, p.logger)
	return nil
}

func applyBowling(p *pass) error {
	p.state.BowlingStats = ExtractBowling(p.doc, p.state.Teams, p.state.BattingStats, p.roles, p.logger)
	return nil
}

func applyCommentary(p *pass) error {
	entries, ok := ExtractCommentary(p.doc)
	if !ok {
		p.logger.Warn("no commentary items found, keeping previous commentary")
		return nil
	}
	p.state.Commentary = entries
	return nil
}

func applyValidation(p *pass) error {
	warnings := Validate(p.state)
	for _, w := range warnings {
		p.logger.Warn("validation", "detail", w)
	}
	p.report.Warnings = append(p.report.Warnings, warnings...)
	return nil
}
