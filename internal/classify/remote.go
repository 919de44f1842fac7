package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"

	"tidy-go/internal/model"
	"tidy-go/internal/tidy"
)

// RemoteClassifier refines heuristic classifications with an OpenAI-compatible
// chat model. The heuristic result is always computed first and serves as the
// fallback: a remote failure degrades to it rather than surfacing an error,
// so a single file can never abort a scan.
type RemoteClassifier struct {
	client    *openai.Client
	model     string
	fallback  *HeuristicClassifier
	logger    tidy.Logger
	telemetry tidy.Telemetry
}

// NewRemoteClassifier creates a remote classifier. baseURL overrides the API
// endpoint when non-empty (for self-hosted compatible servers and tests).
func NewRemoteClassifier(apiKey, modelName, baseURL string, logger tidy.Logger, telemetry tidy.Telemetry) *RemoteClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &RemoteClassifier{
		client:    openai.NewClientWithConfig(cfg),
		model:     modelName,
		fallback:  NewHeuristicClassifier(),
		logger:    logger,
		telemetry: telemetry,
	}
}

// Classify runs the heuristic, then asks the remote model to refine it.
func (c *RemoteClassifier) Classify(ctx context.Context, fp model.FileFingerprint, textSample string) model.ClassificationResult {
	heuristic := c.fallback.Classify(ctx, fp, textSample)

	result, err := c.callModel(ctx, fp, textSample, heuristic)
	if err != nil {
		c.telemetry.TrackEvent("classifier_fallback", map[string]any{"path": fp.Path, "error": err.Error()})
		c.logger.Warn("remote classification failed, using heuristic", "path", fp.Path, "error", err)
		return heuristic
	}
	return result
}

// remoteVerdict is the JSON shape the model is asked to return.
type remoteVerdict struct {
	Category         string  `json:"category"`
	ConfidenceScore  float64 `json:"confidence_score"`
	RequiresDeepScan bool    `json:"requires_deep_scan"`
}

func (c *RemoteClassifier) callModel(ctx context.Context, fp model.FileFingerprint, textSample string, heuristic model.ClassificationResult) (model.ClassificationResult, error) {
	sample := textSample
	if sample == "" {
		sample = "N/A"
	}

	prompt := fmt.Sprintf(`Analyze this file to categorize it for a file organizer.
Filename: %s
Content Sample (first/last 4KB):
%s

Current Heuristic Category: %s

Return a JSON object with:
- category: A single word folder name (e.g. Financial, Personal, Work, Images, Code)
- confidence_score: Float between 0.0 and 1.0
- requires_deep_scan: Boolean`, filepath.Base(fp.Path), sample, heuristic.Category)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful file organization assistant. Respond only in JSON."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.ClassificationResult{}, fmt.Errorf("chat completion returned no choices")
	}

	var verdict remoteVerdict
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &verdict); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("decoding model response: %w", err)
	}
	if verdict.Category == "" {
		return model.ClassificationResult{}, fmt.Errorf("model returned empty category")
	}

	return model.ClassificationResult{
		Category:         verdict.Category,
		ConfidenceScore:  min(max(verdict.ConfidenceScore, 0.0), 1.0),
		RequiresDeepScan: verdict.RequiresDeepScan,
		Path:             fp.Path,
	}, nil
}

// Compile-time check that RemoteClassifier implements tidy.Classifier
var _ tidy.Classifier = (*RemoteClassifier)(nil)
