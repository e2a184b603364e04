package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ircbridge/internal/app/ports"
	"ircbridge/pkg/logger"
)

// Scrollback is the durable chat history: one append-only JSONL file
// per (connection identity, target). Each session has at most one live
// worker, so a given file never sees concurrent writers.
type Scrollback struct {
	log     logger.Logger
	baseDir string
}

func NewScrollback(log logger.Logger, baseDir string) (*Scrollback, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create scrollback directory %s: %w", baseDir, err)
	}
	return &Scrollback{log: log, baseDir: baseDir}, nil
}

func (s *Scrollback) targetPath(storageKey, target string) string {
	return filepath.Join(s.baseDir, sanitizeComponent(storageKey), sanitizeComponent(target)+".jsonl")
}

// Append writes one message as a single JSON line under the message's
// target, creating directories on demand.
func (s *Scrollback) Append(storageKey string, msg ports.ChatMessage) error {
	path := s.targetPath(storageKey, msg.Target)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create scrollback directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open scrollback file %s: %w", path, err)
	}
	defer f.Close()

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal scrollback message: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write scrollback file %s: %w", path, err)
	}
	return nil
}

// ReadLast returns the stored messages for a target oldest-first,
// truncated to the most recent limit entries when limit > 0. A missing
// file means no history, not an error; unparseable lines are skipped.
func (s *Scrollback) ReadLast(storageKey, target string, limit int) ([]ports.ChatMessage, error) {
	path := s.targetPath(storageKey, target)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []ports.ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open scrollback file %s: %w", path, err)
	}
	defer f.Close()

	messages := make([]ports.ChatMessage, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var msg ports.ChatMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			s.log.Warn("failed to parse scrollback line", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}
		messages = append(messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scrollback file %s: %w", path, err)
	}

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// sanitizeComponent keeps path components filesystem-safe: anything
// outside [a-zA-Z0-9._-] becomes an underscore.
func sanitizeComponent(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, c := range input {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
