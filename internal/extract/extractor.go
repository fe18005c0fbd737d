package extract

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fieldworks/skiptrace/internal/ai"
	"github.com/fieldworks/skiptrace/internal/errors"
)

// DocumentExtractor turns raw document text into structured records.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, sourceName string, text string) (Data, error)
}

// VisualAnalysis is the structured result of one photo analysis pass.
type VisualAnalysis struct {
	Source       string   `json:"source"`
	Summary      string   `json:"summary"`
	People       []string `json:"people"`
	Locations    []string `json:"locations"`
	Vehicles     []string `json:"vehicles"`
	Observations []string `json:"observations"`
}

// VisualAnalyzer turns an image description (OCR text, caption, EXIF notes)
// into a visual-analysis record.
type VisualAnalyzer interface {
	AnalyzeImage(ctx context.Context, sourceName string, description string) (VisualAnalysis, error)
}

const extractionSystemPrompt = `You are an investigative data extractor for a fugitive-recovery team.
Extract every subject, address, phone number, vehicle, relative, employer, and social media handle from the document.
Respond with a single JSON object using exactly these keys:
{"subjects":[{"name":"","details":""}],
 "addresses":[{"address":"","label":""}],
 "phones":[{"number":"","label":""}],
 "vehicles":[{"description":"","plate":""}],
 "relatives":[{"description":""}],
 "employers":[{"description":""}],
 "socialMedia":[{"platform":"","username":"","url":""}]}
Omit nothing that could locate the subject. Use empty arrays when a category has no entries.`

const visualSystemPrompt = `You are an investigative photo analyst for a fugitive-recovery team.
Given a description of a photo, respond with a single JSON object:
{"summary":"","people":[],"locations":[],"vehicles":[],"observations":[]}
Note identifying marks, location clues, and anything time-stamping the photo.`

// LLMExtractor implements DocumentExtractor and VisualAnalyzer on top of the
// completion provider.
type LLMExtractor struct {
	completer ai.Completer
	logger    *slog.Logger
}

func NewLLMExtractor(completer ai.Completer, logger *slog.Logger) *LLMExtractor {
	return &LLMExtractor{
		completer: completer,
		logger:    logger.With("source", "LLMExtractor"),
	}
}

func (e *LLMExtractor) ExtractDocument(ctx context.Context, sourceName string, text string) (Data, error) {
	raw, err := e.completer.CompleteJSON(ctx, extractionSystemPrompt, text)
	if err != nil {
		return Data{}, errors.Wrap(err, "document extraction completion", slog.String("document", sourceName))
	}

	// The provider occasionally returns partial or malformed JSON. Degrade to
	// an empty typed result so ingestion of other inputs continues.
	var data Data
	if err = json.Unmarshal([]byte(raw), &data); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "malformed extraction payload, using empty result",
			slog.String("document", sourceName), errors.SlogError(err))
		return NewData(), nil
	}

	stampSource(&data, sourceName)
	return data, nil
}

func (e *LLMExtractor) AnalyzeImage(ctx context.Context, sourceName string, description string) (VisualAnalysis, error) {
	raw, err := e.completer.CompleteJSON(ctx, visualSystemPrompt, description)
	if err != nil {
		return VisualAnalysis{}, errors.Wrap(err, "visual analysis completion", slog.String("image", sourceName))
	}

	var analysis VisualAnalysis
	if err = json.Unmarshal([]byte(raw), &analysis); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "malformed visual analysis payload, using empty result",
			slog.String("image", sourceName), errors.SlogError(err))
		return VisualAnalysis{Source: sourceName}, nil
	}

	analysis.Source = sourceName
	return analysis, nil
}

// stampSource records the originating document on every extracted record.
func stampSource(data *Data, sourceName string) {
	for i := range data.Subjects {
		data.Subjects[i].Source = sourceName
	}
	for i := range data.Addresses {
		data.Addresses[i].Source = sourceName
	}
	for i := range data.Phones {
		data.Phones[i].Source = sourceName
	}
	for i := range data.Vehicles {
		data.Vehicles[i].Source = sourceName
	}
	for i := range data.Relatives {
		data.Relatives[i].Source = sourceName
	}
	for i := range data.Employers {
		data.Employers[i].Source = sourceName
	}
	for i := range data.SocialMedia {
		data.SocialMedia[i].Source = sourceName
	}
}
