package defaults

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// loadDocument reads the defaults file into a nested mapping. An absent
// file, an empty file and a non-mapping top level all degrade to an empty
// document, so resolution simply installs nothing; only the real parse can
// fail the invocation.
func loadDocument(path string, logger *slog.Logger) map[string]any {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no defaults file", slog.String("path", path))
		} else {
			logger.Warn("failed reading defaults file", slog.String("path", path), slog.Any("error", err))
		}
		return map[string]any{}
	}

	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		logger.Warn("skipping malformed defaults file", slog.String("path", path), slog.Any("error", err))
		return map[string]any{}
	}
	if doc == nil {
		logger.Info("empty defaults file", slog.String("path", path))
		return map[string]any{}
	}
	mapping, ok := doc.(map[string]any)
	if !ok {
		logger.Warn("skipping defaults file since it does not contain a mapping", slog.String("path", path))
		return map[string]any{}
	}
	logger.Info("using defaults file", slog.String("path", path))
	return mapping
}
