// internal/collector/collector.go
// Package collector normalizes user-selected files and free-text input
// into the document payload shape the gateway ingests.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ragdeck/internal/gateway"
)

// DefaultManualLabel names the synthetic document holding pasted text
// when the caller supplies no label.
const DefaultManualLabel = "manual-input.txt"

// Collect reads every path as text and appends trimmed manual text, if
// any, as one additional document. A failure reading any file aborts
// the whole build; partial batches are never returned.
func Collect(paths []string, manualText, manualLabel string) ([]gateway.Document, error) {
	documents := make([]gateway.Document, 0, len(paths)+1)

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}
		name := filepath.Base(path)
		documents = append(documents, gateway.Document{
			Name:    name,
			Content: string(content),
			Metadata: map[string]string{
				"source": name,
				"path":   path,
			},
		})
	}

	if text := strings.TrimSpace(manualText); text != "" {
		label := strings.TrimSpace(manualLabel)
		if label == "" {
			label = DefaultManualLabel
		}
		documents = append(documents, gateway.Document{
			Name:    label,
			Content: text,
			Metadata: map[string]string{
				"source": label,
				"origin": "manual",
			},
		})
	}

	return documents, nil
}
