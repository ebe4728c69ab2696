// File: internal/agent/searchactions.go
package agent

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

const regexMatchLimit = 200

func (d *Dispatcher) handleSearchFiles(_ context.Context, params action.Params) (string, bool) {
	pattern, ok := params.String("pattern")
	if !ok {
		return "Erro na busca de arquivos: padrão não informado.", false
	}

	var files []string
	_ = filepath.WalkDir(".", func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		matched, matchErr := filepath.Match(pattern, de.Name())
		if matchErr != nil {
			return matchErr
		}
		if matched && path != "." {
			files = append(files, path)
		}
		return nil
	})
	return fmt.Sprintf("Arquivos encontrados para o padrão '%s':\n%s", pattern, strings.Join(files, "\n")), true
}

func (d *Dispatcher) handleSearchContent(_ context.Context, params action.Params) (string, bool) {
	term, ok := params.String("term")
	if !ok {
		return "Erro na busca de conteúdo: termo não informado.", false
	}
	ext := params.StringOr("extension", "")

	var results []string
	_ = filepath.WalkDir(".", func(path string, de fs.DirEntry, err error) error {
		if err != nil || de.IsDir() {
			return nil
		}
		if ext != "" && !strings.HasSuffix(de.Name(), ext) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil || !utf8.Valid(data) {
			return nil
		}
		content := string(data)
		if !strings.Contains(content, term) {
			return nil
		}
		firstLine := content
		if idx := strings.IndexByte(firstLine, '\n'); idx != -1 {
			firstLine = firstLine[:idx]
		}
		results = append(results, fmt.Sprintf("- %s:\n%s...", path, firstLine))
		return nil
	})

	if len(results) == 0 {
		return "Nenhum resultado encontrado.", false
	}
	return fmt.Sprintf("Resultados da busca por '%s':\n%s", term, strings.Join(results, "\n")), true
}

func (d *Dispatcher) handleSearchRegex(_ context.Context, params action.Params) (string, bool) {
	pattern, ok := params.String("pattern")
	if !ok {
		return "Erro na busca regex: padrão não informado.", false
	}
	rx, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return fmt.Sprintf("Erro na busca regex: %v", err), false
	}
	ext := params.StringOr("extension", "")

	var results []string
	_ = filepath.WalkDir(".", func(path string, de fs.DirEntry, walkErr error) error {
		if walkErr != nil || de.IsDir() || len(results) >= regexMatchLimit {
			return nil
		}
		if ext != "" && !strings.HasSuffix(de.Name(), ext) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil || !utf8.Valid(data) {
			return nil
		}
		text := string(data)
		for _, loc := range rx.FindAllStringIndex(text, -1) {
			lineNo := strings.Count(text[:loc[0]], "\n") + 1
			lo := loc[0] - 40
			if lo < 0 {
				lo = 0
			}
			hi := loc[1] + 40
			if hi > len(text) {
				hi = len(text)
			}
			snippet := strings.ReplaceAll(text[lo:hi], "\n", " ")
			results = append(results, fmt.Sprintf("%s:%d: %s", path, lineNo, snippet))
			if len(results) >= regexMatchLimit {
				break
			}
		}
		return nil
	})

	if len(results) == 0 {
		return "Nenhuma correspondência.", false
	}
	return "Resultados de regex:\n" + strings.Join(results, "\n"), true
}

func (d *Dispatcher) handleKnowledgeSearch(_ context.Context, params action.Params) (string, bool) {
	query := params.StringOr("query", "")
	topK := params.Int("top_k", 5)

	results := d.knowledge.Search(query, topK)
	if len(results) == 0 {
		return fmt.Sprintf("Nenhum conhecimento relevante encontrado para '%s'.", query), false
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("- %s\n  %s", r.File, r.Snippet))
	}
	return fmt.Sprintf("Resultados da base de conhecimento para '%s':\n%s", query, strings.Join(lines, "\n")), true
}
