package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fieldworks/skiptrace/internal/brain"
	"github.com/fieldworks/skiptrace/internal/command"
	"github.com/fieldworks/skiptrace/internal/extract"
	"github.com/fieldworks/skiptrace/internal/intel"
)

// Reasoner is the slice of the cross-reference engine the orchestrator needs.
type Reasoner interface {
	Analyze(ctx context.Context, evidence brain.Evidence) (brain.Analysis, error)
	UpdateProbabilities(ctx context.Context, locations []brain.RankedLocation, newEvidence string) ([]brain.RankedLocation, error)
}

// ActionApplier persists parsed commands into the case intelligence.
type ActionApplier interface {
	ApplyActions(ctx context.Context, caseID string, actions []command.Action, source intel.Source) (intel.CaseIntel, []string, error)
}

// Chatter is the free-text side of the completion provider.
type Chatter interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// Orchestrator coordinates all analysis stages for one case. All mutation is
// serialized through its mutex: ingestion calls for the same case must not
// interleave because the merge and dedup logic assumes a single writer.
type Orchestrator struct {
	mu sync.Mutex

	logger    *slog.Logger
	extractor extract.DocumentExtractor
	analyzer  extract.VisualAnalyzer
	reasoner  Reasoner
	chatter   Chatter
	intel     ActionApplier

	context SharedContext
	tasks   []AgentTask

	// isProcessing short-circuits cross-referencing: a new ranking pass is
	// skipped, not queued, while one is already in flight.
	isProcessing atomic.Bool

	// onMessage, when set, receives every appended message. The web layer
	// uses it to stream the activity feed to connected clients.
	onMessage func(Message)
}

// SetMessageSink registers a callback invoked for every new message. Set it
// before the orchestrator starts receiving inputs; the callback runs with the
// orchestrator mutex held and must not call back into the orchestrator.
func (o *Orchestrator) SetMessageSink(sink func(Message)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onMessage = sink
}

func New(
	caseID string,
	targetName string,
	extractor extract.DocumentExtractor,
	analyzer extract.VisualAnalyzer,
	reasoner Reasoner,
	chatter Chatter,
	actionApplier ActionApplier,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		logger:    logger.With("source", "Orchestrator", "caseID", caseID),
		extractor: extractor,
		analyzer:  analyzer,
		reasoner:  reasoner,
		chatter:   chatter,
		intel:     actionApplier,
		context:   newSharedContext(caseID, targetName),
	}
}

// Context returns a snapshot of the shared context.
func (o *Orchestrator) Context() SharedContext {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.context
}

// Tasks returns a snapshot of the task ledger.
func (o *Orchestrator) Tasks() []AgentTask {
	o.mu.Lock()
	defer o.mu.Unlock()
	tasks := make([]AgentTask, len(o.tasks))
	copy(tasks, o.tasks)
	return tasks
}

// IngestDocument runs document extraction for one file and merges the result
// into the running aggregate. A failure marks the task failed and appends an
// alert; it never prevents ingestion of subsequent inputs.
func (o *Orchestrator) IngestDocument(ctx context.Context, name string, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	task := o.startTask("extractor", "document", name)
	data, err := o.extractor.ExtractDocument(ctx, name, text)
	if err != nil {
		o.failTask(task, err)
		o.appendMessage(MessageAlert, "extractor", fmt.Sprintf("Extraction failed for %s: %v", name, err))
		return err
	}

	o.context.ExtractedData = extract.Merge(o.context.ExtractedData, data)
	summary := fmt.Sprintf("Extracted %s: %s", name, summarizeCounts(data.Counts()))
	o.completeTask(task, summary)
	o.appendMessage(MessageInfo, "extractor", summary)

	o.crossReference(ctx)
	return nil
}

// IngestImage runs visual analysis for one photo.
func (o *Orchestrator) IngestImage(ctx context.Context, name string, description string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	task := o.startTask("vision", "image", name)
	analysis, err := o.analyzer.AnalyzeImage(ctx, name, description)
	if err != nil {
		o.failTask(task, err)
		o.appendMessage(MessageAlert, "vision", fmt.Sprintf("Photo analysis failed for %s: %v", name, err))
		return err
	}

	o.context.VisualAnalysis = append(o.context.VisualAnalysis, analysis)
	summary := fmt.Sprintf("Analyzed %s: %s", name, analysis.Summary)
	o.completeTask(task, summary)
	o.appendMessage(MessageInfo, "vision", summary)

	o.crossReference(ctx)
	return nil
}

// IngestWebFinding records one piece of web evidence. When a ranking already
// exists the finding adjusts it incrementally instead of re-deriving the
// whole analysis.
func (o *Orchestrator) IngestWebFinding(ctx context.Context, finding brain.WebFinding) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	task := o.startTask("web", "finding", finding.Summary)
	o.context.WebFindings = append(o.context.WebFindings, finding)
	summary := fmt.Sprintf("Web finding from %s: %s", finding.Source, finding.Summary)
	o.completeTask(task, summary)
	o.appendMessage(MessageInfo, "web", summary)

	if len(o.context.TopLocations) > 0 {
		o.incrementalRerank(ctx, summary)
		return nil
	}
	o.crossReference(ctx)
	return nil
}

// crossReference triggers a full ranking pass when there is evidence to rank.
// Callers must hold the mutex.
func (o *Orchestrator) crossReference(ctx context.Context) {
	if !o.context.hasEvidence() {
		return
	}
	if !o.isProcessing.CompareAndSwap(false, true) {
		// Favor freshness on the next call over queuing a backlog.
		o.logger.LogAttrs(ctx, slog.LevelDebug, "cross-reference already in flight, skipping")
		return
	}
	defer o.isProcessing.Store(false)

	task := o.startTask("brain", "cross-reference", o.context.TargetName)
	analysis, err := o.reasoner.Analyze(ctx, brain.Evidence{
		TargetName:     o.context.TargetName,
		Extracted:      o.context.ExtractedData,
		VisualAnalyses: o.context.VisualAnalysis,
		WebFindings:    o.context.WebFindings,
	})
	if err != nil {
		o.failTask(task, err)
		o.appendMessage(MessageAlert, "brain", fmt.Sprintf("Cross-referencing failed: %v", err))
		return
	}

	o.context.CrossReferences = analysis.CrossReferences
	o.context.TopLocations = analysis.Locations
	o.context.ActionPlan = analysis.ActionPlan
	o.context.PendingQuestions = analysis.OpenQuestions
	o.context.Confidence = brain.MeanConfidence(analysis.Locations)

	summary := fmt.Sprintf("Cross-referenced evidence: %d claims, %d candidate locations",
		len(analysis.CrossReferences), len(analysis.Locations))
	o.completeTask(task, summary)
	o.appendMessage(MessageInfo, "brain", summary)
}

// incrementalRerank adjusts the existing ranking against one new piece of
// evidence without re-deriving the full analysis. A failed adjustment keeps
// the previous ranking. Callers must hold the mutex.
func (o *Orchestrator) incrementalRerank(ctx context.Context, newEvidence string) {
	if !o.isProcessing.CompareAndSwap(false, true) {
		o.logger.LogAttrs(ctx, slog.LevelDebug, "ranking pass already in flight, skipping")
		return
	}
	defer o.isProcessing.Store(false)

	task := o.startTask("brain", "rerank", newEvidence)
	locations, err := o.reasoner.UpdateProbabilities(ctx, o.context.TopLocations, newEvidence)
	if err != nil {
		o.failTask(task, err)
		o.appendMessage(MessageAlert, "brain", fmt.Sprintf("Ranking adjustment failed: %v", err))
		return
	}

	o.context.TopLocations = locations
	o.context.Confidence = brain.MeanConfidence(locations)

	summary := fmt.Sprintf("Adjusted ranking for new evidence: %d candidate locations", len(locations))
	o.completeTask(task, summary)
	o.appendMessage(MessageInfo, "brain", summary)
}

const chatSystemPromptFormat = `You are the investigation assistant on a fugitive-recovery case.
Target: %s

Current case intelligence:
%s

Evidence summary:
%s

When the operator confirms a fact worth persisting, embed commands in your reply using markers like
[ACTION:ADD_ADDRESS]{"address":"123 Main St","type":"family"}[/ACTION]
Available tags: ADD_ADDRESS, REMOVE_ADDRESS, MARK_IMPORTANT, ADD_CONTACT, REMOVE_CONTACT, ADD_VEHICLE, ADD_NOTE, ADD_FLAG, EXCLUDE_PATTERN, CLEAR_EXCLUSIONS, SET_POSTER_DESCRIPTION, SET_POSTER_LAST_SEEN, SET_POSTER_ADDITIONAL_INFO.
Keep the visible reply short and operational.`

// Chat handles one free-text exchange. Operator field reports (no-go and
// confirmed sightings) are applied deterministically without a provider
// round-trip; command markers in the operator text or in the provider reply
// are parsed and folded into the persisted case intelligence.
func (o *Orchestrator) Chat(ctx context.Context, currentIntel intel.CaseIntel, userText string) (string, []string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Operator ground truth outranks any model-derived probability.
	if feedback := detectFeedback(userText); feedback.Kind != feedbackNone {
		reply := o.applyFeedback(feedback)
		o.appendMessage(MessageChat, "operator", userText)
		o.appendMessage(MessageChat, "brain", reply)
		return reply, nil, nil
	}

	// Commands typed directly by the operator skip the provider.
	if clean, actions := command.Parse(userText); len(actions) > 0 {
		task := o.startTask("intel", "command", userText)
		_, descriptions, err := o.intel.ApplyActions(ctx, o.context.CaseID, actions, intel.SourceUser)
		if err != nil {
			o.failTask(task, err)
			return "", nil, err
		}
		o.completeTask(task, strings.Join(descriptions, "; "))
		reply := strings.TrimSpace(clean + "\n" + strings.Join(descriptions, "\n"))
		o.appendMessage(MessageChat, "operator", userText)
		return reply, descriptions, nil
	}

	task := o.startTask("chat", "completion", userText)
	systemPrompt := fmt.Sprintf(chatSystemPromptFormat,
		o.context.TargetName,
		intel.BuildReport(o.context.TargetName, currentIntel),
		brain.BuildEvidenceSummary(brain.Evidence{
			TargetName:     o.context.TargetName,
			Extracted:      o.context.ExtractedData,
			VisualAnalyses: o.context.VisualAnalysis,
			WebFindings:    o.context.WebFindings,
		}))

	response, err := o.chatter.Complete(ctx, systemPrompt, userText)
	if err != nil {
		o.failTask(task, err)
		o.appendMessage(MessageAlert, "chat", fmt.Sprintf("Assistant unavailable: %v", err))
		return "", nil, err
	}

	clean, actions := command.Parse(response)
	var descriptions []string
	if len(actions) > 0 {
		if _, descriptions, err = o.intel.ApplyActions(ctx, o.context.CaseID, actions, intel.SourceAI); err != nil {
			o.failTask(task, err)
			return "", nil, err
		}
	}

	o.completeTask(task, clean)
	o.appendMessage(MessageChat, "operator", userText)
	o.appendMessage(MessageChat, "assistant", clean)
	return clean, descriptions, nil
}

func (o *Orchestrator) appendMessage(messageType MessageType, agent string, text string) {
	message := Message{
		Type:   messageType,
		Agent:  agent,
		Text:   text,
		SentAt: time.Now(),
	}
	o.context.Messages = append(o.context.Messages, message)
	if o.onMessage != nil {
		o.onMessage(message)
	}
}

func summarizeCounts(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, key := range []string{"subjects", "addresses", "phones", "vehicles", "relatives", "employers", "socialMedia"} {
		if counts[key] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[key], key))
		}
	}
	if len(parts) == 0 {
		return "no structured data found"
	}
	return strings.Join(parts, ", ")
}
