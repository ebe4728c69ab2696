// File: internal/agent/fsactions.go
package agent

import (
	"archive/zip"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

func (d *Dispatcher) handleReadFile(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Sprintf("Erro: Arquivo '%s' não encontrado.", path), false
	}

	fullBinary := params.Bool("full_binary")
	maxBytes := params.Int("max_bytes", 4096)
	if maxBytes <= 0 {
		maxBytes = 4096
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Erro ao ler o arquivo: %v", err), false
	}

	if utf8.Valid(data) {
		return fmt.Sprintf("Conteúdo (texto, utf-8) de '%s':\n%s", path, string(data)), true
	}

	// Binary content is reported as base64, truncated unless asked for in full.
	if fullBinary {
		return fmt.Sprintf("Conteúdo binário de '%s' (tamanho total %d bytes).\nBase64 (%d bytes):\n%s",
			path, info.Size(), len(data), base64.StdEncoding.EncodeToString(data)), true
	}
	chunk := data
	if len(chunk) > maxBytes {
		chunk = chunk[:maxBytes]
	}
	return fmt.Sprintf("Conteúdo binário de '%s' (tamanho total %d bytes).\nBase64 dos primeiros %d bytes:\n%s",
		path, info.Size(), len(chunk), base64.StdEncoding.EncodeToString(chunk)), true
}

func (d *Dispatcher) handleIngestFile(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	out, err := d.knowledge.Ingest(path)
	if err != nil {
		return fmt.Sprintf("Erro ao ingerir arquivo: %v", err), false
	}
	return fmt.Sprintf("Arquivo ingerido em '%s'. O conteúdo agora faz parte do conhecimento local.", out), true
}

func (d *Dispatcher) handleWriteFile(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	content := params.StringOr("content", "")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Erro ao salvar o arquivo: %v", err), false
	}
	return fmt.Sprintf("Arquivo '%s' salvo com sucesso.", path), true
}

func (d *Dispatcher) handleCreateFile(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	content := params.StringOr("content", "")
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Sprintf("Erro ao criar o arquivo: %v", err), false
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Erro ao criar o arquivo: %v", err), false
	}
	return fmt.Sprintf("Arquivo '%s' criado com sucesso.", path), true
}

func (d *Dispatcher) handleAppendFile(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	content := params.StringOr("content", "")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Sprintf("Erro ao anexar conteúdo: %v", err), false
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Sprintf("Erro ao anexar conteúdo: %v", err), false
	}
	return fmt.Sprintf("Conteúdo anexado em '%s'.", path), true
}

func (d *Dispatcher) handleDeleteFile(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("Erro: Caminho '%s' não existe.", path), false
	}
	if info.IsDir() {
		return fmt.Sprintf("Erro: '%s' é um diretório. Use uma ação específica para diretórios.", path), false
	}
	if !d.gate.Confirm(path, "Deleção de arquivo") {
		return fmt.Sprintf("Ação sensível não confirmada pelo usuário: deleção de '%s'.", path), false
	}
	if err := os.Remove(path); err != nil {
		return fmt.Sprintf("Erro ao deletar o arquivo: %v", err), false
	}
	return fmt.Sprintf("Arquivo '%s' deletado com sucesso.", path), true
}

func (d *Dispatcher) handleListDir(_ context.Context, params action.Params) (string, bool) {
	base := params.StringOr("path", ".")
	recursive := params.Bool("recursive")

	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Erro: Diretório '%s' inválido.", base), false
	}

	var entries []string
	if recursive {
		err = filepath.WalkDir(base, func(path string, de fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			if path != base {
				entries = append(entries, path)
			}
			return nil
		})
	} else {
		var dirEntries []fs.DirEntry
		dirEntries, err = os.ReadDir(base)
		for _, e := range dirEntries {
			entries = append(entries, filepath.Join(base, e.Name()))
		}
	}
	if err != nil {
		return fmt.Sprintf("Erro ao listar diretório: %v", err), false
	}
	return "Itens do diretório:\n" + strings.Join(entries, "\n"), true
}

func (d *Dispatcher) handleCreateDir(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Sprintf("Erro ao criar diretório: %v", err), false
	}
	return fmt.Sprintf("Diretório '%s' criado/garantido com sucesso.", path), true
}

func (d *Dispatcher) handleDeleteDir(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	recursive := params.BoolOr("recursive", true)

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Erro: Diretório '%s' inválido.", path), false
	}

	reason := "Deleção de diretório"
	if recursive {
		reason = "Deleção de diretório (recursiva)"
	}
	if !d.gate.Confirm(path, reason) {
		return fmt.Sprintf("Ação sensível não confirmada: deleção de diretório '%s'.", path), false
	}

	if recursive {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return fmt.Sprintf("Erro ao remover diretório: %v", err), false
	}
	return fmt.Sprintf("Diretório '%s' removido com sucesso.", path), true
}

func (d *Dispatcher) handleCopyFile(_ context.Context, params action.Params) (string, bool) {
	src := params.StringOr("src", "")
	dst := params.StringOr("dst", "")

	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		return fmt.Sprintf("Erro: Origem '%s' inválida.", src), false
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Sprintf("Erro ao copiar arquivo: %v", err), false
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Sprintf("Erro ao copiar arquivo: %v", err), false
	}
	return fmt.Sprintf("Arquivo copiado: '%s' -> '%s'.", src, dst), true
}

func (d *Dispatcher) handleMoveFile(_ context.Context, params action.Params) (string, bool) {
	src := params.StringOr("src", "")
	dst := params.StringOr("dst", "")

	if _, err := os.Stat(src); err != nil {
		return fmt.Sprintf("Erro: Origem '%s' não existe.", src), false
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Sprintf("Erro ao mover: %v", err), false
	}
	if err := os.Rename(src, dst); err != nil {
		// Rename fails across filesystems; fall back to copy+remove.
		if copyErr := copyFile(src, dst); copyErr != nil {
			return fmt.Sprintf("Erro ao mover: %v", err), false
		}
		if rmErr := os.Remove(src); rmErr != nil {
			return fmt.Sprintf("Erro ao mover: %v", rmErr), false
		}
	}
	return fmt.Sprintf("Movido: '%s' -> '%s'.", src, dst), true
}

func (d *Dispatcher) handleRenameFile(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	newPath := params.StringOr("new_path", "")
	if err := os.Rename(path, newPath); err != nil {
		return fmt.Sprintf("Erro ao renomear: %v", err), false
	}
	return fmt.Sprintf("Renomeado: '%s' -> '%s'.", path, newPath), true
}

func (d *Dispatcher) handleFileHash(_ context.Context, params action.Params) (string, bool) {
	path := params.StringOr("path", "")
	algorithm := strings.ToLower(params.StringOr("algorithm", "sha256"))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Sprintf("Erro: Arquivo '%s' inválido.", path), false
	}

	var h hash.Hash
	switch algorithm {
	case "md5":
		h = md5.New()
	case "sha1":
		h = sha1.New()
	case "sha256":
		h = sha256.New()
	default:
		return fmt.Sprintf("Erro ao calcular hash: algoritmo '%s' não suportado.", algorithm), false
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("Erro ao calcular hash: %v", err), false
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Sprintf("Erro ao calcular hash: %v", err), false
	}
	return fmt.Sprintf("Hash (%s) de '%s': %s", algorithm, path, hex.EncodeToString(h.Sum(nil))), true
}

func (d *Dispatcher) handleZipCreate(_ context.Context, params action.Params) (string, bool) {
	source := params.StringOr("source", "")
	zipPath := params.StringOr("zip_path", "")

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Sprintf("Erro: Caminho de origem '%s' não existe.", source), false
	}
	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return fmt.Sprintf("Erro ao criar ZIP: %v", err), false
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Sprintf("Erro ao criar ZIP: %v", err), false
	}
	defer out.Close()
	zw := zip.NewWriter(out)

	addFile := func(path, name string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w, err := zw.Create(filepath.ToSlash(name))
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		return err
	}

	if info.IsDir() {
		err = filepath.WalkDir(source, func(path string, de fs.DirEntry, walkErr error) error {
			if walkErr != nil || de.IsDir() {
				return walkErr
			}
			rel, relErr := filepath.Rel(source, path)
			if relErr != nil {
				return relErr
			}
			return addFile(path, rel)
		})
	} else {
		err = addFile(source, filepath.Base(source))
	}
	if err == nil {
		err = zw.Close()
	}
	if err != nil {
		return fmt.Sprintf("Erro ao criar ZIP: %v", err), false
	}
	return fmt.Sprintf("Arquivo ZIP criado em '%s'.", zipPath), true
}

func (d *Dispatcher) handleZipExtract(_ context.Context, params action.Params) (string, bool) {
	zipPath := params.StringOr("zip_path", "")
	dest := params.StringOr("dest", "")

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Sprintf("Erro: '%s' não é um ZIP válido.", zipPath), false
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Sprintf("Erro ao extrair ZIP: %v", err), false
	}

	for _, entry := range zr.File {
		target := filepath.Join(dest, filepath.FromSlash(entry.Name))
		// Entries must stay inside the destination directory.
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Sprintf("Erro ao extrair ZIP: entrada '%s' fora do destino.", entry.Name), false
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Sprintf("Erro ao extrair ZIP: %v", err), false
			}
			continue
		}
		if err := extractZipEntry(entry, target); err != nil {
			return fmt.Sprintf("Erro ao extrair ZIP: %v", err), false
		}
	}
	return fmt.Sprintf("ZIP extraído para '%s'.", dest), true
}

func (d *Dispatcher) handleDownloadFile(ctx context.Context, params action.Params) (string, bool) {
	url := params.StringOr("url", "")
	dest := params.StringOr("dest", "")

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Sprintf("Erro no download: %v", err), false
	}
	resp, err := d.http.R().SetContext(ctx).SetOutput(dest).Get(url)
	if err != nil {
		return fmt.Sprintf("Erro no download: %v", err), false
	}
	if resp.StatusCode() >= 400 {
		return fmt.Sprintf("Erro no download: status HTTP %d", resp.StatusCode()), false
	}
	return fmt.Sprintf("Download concluído: %s -> '%s'.", url, dest), true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func extractZipEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	r, err := entry.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := os.Create(target)
	if err != nil {
		return err
	}
	defer w.Close()
	if _, err := io.Copy(w, r); err != nil {
		return err
	}
	return w.Close()
}
