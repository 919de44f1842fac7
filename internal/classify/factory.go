package classify

import (
	"fmt"
	"os"

	"tidy-go/internal/config"
	"tidy-go/internal/tidy"
)

// NewClassifierFromConfig creates a Classifier implementation based on the
// classifier config type.
//
// The "remote" type needs an API key in the configured environment variable;
// without one it degrades to the heuristic classifier with a warning, so a
// missing key never blocks scanning.
func NewClassifierFromConfig(cfg config.ClassifierConfig, logger tidy.Logger, telemetry tidy.Telemetry) (tidy.Classifier, error) {
	switch cfg.Type {
	case "", "heuristic":
		return NewHeuristicClassifier(), nil
	case "remote":
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		apiKey := os.Getenv(keyEnv)
		if apiKey == "" {
			logger.Warn("no API key set, falling back to heuristic classifier", "env", keyEnv)
			return NewHeuristicClassifier(), nil
		}
		return NewRemoteClassifier(apiKey, cfg.Model, cfg.BaseURL, logger, telemetry), nil
	default:
		return nil, fmt.Errorf("unknown classifier type: %s", cfg.Type)
	}
}
