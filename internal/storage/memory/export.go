// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	v1 "github.com/corsair-bot/corsair/internal/storage/memory/export/v1"
)

// exportJSON writes the match to <outputDir>/<start>_<id>.json[.gz].
// Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := v1.Build(&v1.MatchData{
		Match:    b.match,
		Result:   b.result,
		Settings: b.settings,
		Turns:    b.turns,
		Commands: b.commands,
	})

	timestamp := b.match.StartTime.UTC().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.json", timestamp, b.match.ID)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	dir := b.cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(dir, filename)

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func writeJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(data); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return gzWriter.Close()
}
