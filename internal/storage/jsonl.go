package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"liquidityCore/internal/model"
)

// JsonlEventSink writes engine events to a JSONL file.
type JsonlEventSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlEventSink(path string) *JsonlEventSink {
	return &JsonlEventSink{path: path}
}

// PutEventBatch appends a batch of events as JSON lines.
func (s *JsonlEventSink) PutEventBatch(events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]interface{}, 0, len(events))
	for _, event := range events {
		lines = append(lines, event)
	}
	return appendJSONLines(s.path, lines)
}

// JsonlRejectSink writes reject records to a JSONL file.
type JsonlRejectSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlRejectSink(path string) *JsonlRejectSink {
	return &JsonlRejectSink{path: path}
}

// PutRejectBatch appends a batch of reject records as JSON lines.
func (s *JsonlRejectSink) PutRejectBatch(rejects []model.RejectRecord) error {
	if len(rejects) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]interface{}, 0, len(rejects))
	for _, reject := range rejects {
		lines = append(lines, reject)
	}
	return appendJSONLines(s.path, lines)
}

func appendJSONLines(path string, lines []interface{}) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range lines {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
