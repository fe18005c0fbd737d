// Package orchestrator owns the live working memory for one case and routes
// new evidence through extraction, visual analysis, and cross-referencing.
// One orchestrator instance is constructed when a case opens and discarded
// when it closes; there is no process-wide state.
package orchestrator

import (
	"time"

	"github.com/fieldworks/skiptrace/internal/brain"
	"github.com/fieldworks/skiptrace/internal/extract"
)

// MessageType distinguishes routine summaries from alerts the operator should
// read immediately.
type MessageType string

const (
	MessageInfo  MessageType = "info"
	MessageAlert MessageType = "alert"
	MessageChat  MessageType = "chat"
)

// Message is one entry of the human-readable activity feed for the case.
type Message struct {
	Type   MessageType `json:"type"`
	Agent  string      `json:"agent"`
	Text   string      `json:"text"`
	SentAt time.Time   `json:"sentAt"`
}

// SharedContext is the orchestrator's in-memory working aggregate for one
// case during an active session. It is ephemeral: the caller persists the
// curated case intelligence separately.
type SharedContext struct {
	CaseID           string                   `json:"caseId"`
	TargetName       string                   `json:"targetName"`
	ExtractedData    extract.Data             `json:"extractedData"`
	VisualAnalysis   []extract.VisualAnalysis `json:"visualAnalysis"`
	WebFindings      []brain.WebFinding       `json:"webFindings"`
	CrossReferences  []brain.CrossReference   `json:"crossReferences"`
	TopLocations     []brain.RankedLocation   `json:"topLocations"`
	ActionPlan       []string                 `json:"actionPlan"`
	Confidence       int                      `json:"confidence"`
	Messages         []Message                `json:"messages"`
	PendingQuestions []string                 `json:"pendingQuestions"`
}

func newSharedContext(caseID string, targetName string) SharedContext {
	return SharedContext{
		CaseID:           caseID,
		TargetName:       targetName,
		ExtractedData:    extract.NewData(),
		VisualAnalysis:   []extract.VisualAnalysis{},
		WebFindings:      []brain.WebFinding{},
		CrossReferences:  []brain.CrossReference{},
		TopLocations:     []brain.RankedLocation{},
		ActionPlan:       []string{},
		Confidence:       0,
		Messages:         []Message{},
		PendingQuestions: []string{},
	}
}

// hasEvidence reports whether cross-referencing has anything to work with.
func (c *SharedContext) hasEvidence() bool {
	return len(c.ExtractedData.Addresses) > 0 ||
		len(c.VisualAnalysis) > 0 ||
		len(c.WebFindings) > 0
}
