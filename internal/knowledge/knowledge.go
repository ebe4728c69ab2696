// File: internal/knowledge/knowledge.go
package knowledge

import (
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Base is the local knowledge store: markdown files under a directory,
// searched by simple term-frequency scoring.
type Base struct {
	dir    string
	logger *zap.Logger
}

// Result is one ranked knowledge-base hit.
type Result struct {
	File    string
	Score   int
	Snippet string
}

// New returns a Base rooted at dir. The directory may not exist yet; Search
// then returns no results and Ingest creates it on demand.
func New(dir string, logger *zap.Logger) *Base {
	return &Base{dir: dir, logger: logger.Named("knowledge")}
}

// Search scans every *.md under the base directory, scores each file by the
// case-insensitive occurrence count of query, and returns the topK hits with
// a 500-byte snippet, highest score first.
func (b *Base) Search(query string, topK int) []Result {
	if query == "" || topK <= 0 {
		return nil
	}
	needle := strings.ToLower(query)

	var results []Result
	_ = filepath.WalkDir(b.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil // unreadable entries are skipped, not fatal
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		text := string(data)
		score := strings.Count(strings.ToLower(text), needle)
		if score == 0 {
			return nil
		}
		snippet := text
		if len(snippet) > 500 {
			snippet = snippet[:500]
		}
		results = append(results, Result{
			File:    path,
			Score:   score,
			Snippet: strings.ReplaceAll(snippet, "\n", " "),
		})
		return nil
	})

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Ingest reads the file at path in full and records it as a markdown document
// under <base>/ingested, making its content searchable. Text files are kept
// verbatim; binary content is stored as base64. Returns the output path.
func (b *Base) Ingest(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("arquivo '%s' não encontrado", path)
	}

	ingestedDir := filepath.Join(b.dir, "ingested")
	if err := os.MkdirAll(ingestedDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create ingested directory: %w", err)
	}

	safeName := strings.Trim(unsafeNameChars.ReplaceAllString(filepath.Base(path), "_"), "_")
	if safeName == "" {
		safeName = "arquivo"
	}
	outPath := filepath.Join(ingestedDir, safeName+".md")

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var md string
	if utf8.Valid(data) {
		md = fmt.Sprintf(
			"# Ingested: %s\n\n- Caminho: `%s`\n- Tamanho: %d bytes\n- Tipo: texto\n\n## Conteúdo\n\n```\n%s\n```\n",
			filepath.Base(path), path, info.Size(), string(data),
		)
	} else {
		md = fmt.Sprintf(
			"# Ingested: %s\n\n- Caminho: `%s`\n- Tamanho: %d bytes\n- Tipo: binário\n\n## Conteúdo (base64)\n\n```\n%s\n```\n",
			filepath.Base(path), path, info.Size(), base64.StdEncoding.EncodeToString(data),
		)
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	b.logger.Info("Ingested file into knowledge base", zap.String("source", path), zap.String("output", outPath))
	return outPath, nil
}
