package render

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nkaramanos/lettergen/internal/docx"
)

// LoadTemplates reads the configured template files into a TemplateSet.
// files maps category name to a filename inside dir; defaultFile, when
// non-empty, becomes the fallback entry. Unreadable files are a hard
// error; a file that does not open as a document only logs a warning
// here and surfaces as a per-row failure during rendering.
func LoadTemplates(dir string, files map[string]string, defaultFile string, logger *zap.Logger) (TemplateSet, error) {
	set := make(TemplateSet, len(files)+1)

	load := func(category, name string) error {
		path := filepath.Join(dir, name)
		blob, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template for category %q: %w", category, err)
		}
		if _, err := docx.Open(blob); err != nil {
			logger.Warn("Template does not parse as a document",
				zap.String("category", category),
				zap.String("path", path),
				zap.Error(err))
		}
		set[category] = blob
		return nil
	}

	for category, name := range files {
		if err := load(category, name); err != nil {
			return nil, err
		}
	}
	if defaultFile != "" {
		if err := load(DefaultTemplateKey, defaultFile); err != nil {
			return nil, err
		}
	}

	logger.Info("Templates loaded",
		zap.Int("count", len(set)),
		zap.String("dir", dir))
	return set, nil
}
