package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

// WriteAll writes every export format for s into destDir using baseName for
// the file stem. Returns the paths written.
func WriteAll(s *minutes.State, destDir, baseName string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string

	mdPath := filepath.Join(destDir, baseName+".md")
	if err := os.WriteFile(mdPath, []byte(Markdown(s)), 0644); err != nil {
		return written, fmt.Errorf("write markdown: %w", err)
	}
	written = append(written, mdPath)

	txtPath := filepath.Join(destDir, baseName+".txt")
	if err := os.WriteFile(txtPath, []byte(PlainText(s)), 0644); err != nil {
		return written, fmt.Errorf("write plain text: %w", err)
	}
	written = append(written, txtPath)

	jsonData, err := JSON(s)
	if err != nil {
		return written, fmt.Errorf("render json: %w", err)
	}
	jsonPath := filepath.Join(destDir, baseName+".json")
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return written, fmt.Errorf("write json: %w", err)
	}
	written = append(written, jsonPath)

	docxPath := filepath.Join(destDir, baseName+".docx")
	if err := Docx(s, baseName, docxPath); err != nil {
		return written, fmt.Errorf("write docx: %w", err)
	}
	written = append(written, docxPath)

	return written, nil
}
