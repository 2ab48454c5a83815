// Package transcript stores call transcripts as JSON documents on local disk.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const (
	filePrefix = "call_"
	fileSuffix = ".json"
)

// FileStore writes one document per call at <dir>/call_<id>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("transcript store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("transcript store: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the document atomically (temp file then rename) and returns its
// file name relative to the store directory.
func (s *FileStore) Save(_ context.Context, t *domain.Transcript) (string, error) {
	path, err := s.path(t.Metadata.CallID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+filePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save transcript: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save transcript: %w", err)
	}
	return filepath.Base(path), nil
}

func (s *FileStore) Load(_ context.Context, callID string) (*domain.Transcript, error) {
	path, err := s.path(callID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	var t domain.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", callID, err)
	}
	return &t, nil
}

// List returns every stored transcript, most recently modified first.
func (s *FileStore) List(_ context.Context) ([]domain.TranscriptInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	out := make([]domain.TranscriptInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, domain.TranscriptInfo{
			CallID:     strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix),
			File:       name,
			ModifiedAt: info.ModTime().UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.After(out[j].ModifiedAt) })
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, callID string) (bool, error) {
	path, err := s.path(callID)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete transcript: %w", err)
	}
	return true, nil
}

// path rejects ids that would escape the store directory.
func (s *FileStore) path(callID string) (string, error) {
	if callID == "" || strings.ContainsAny(callID, `/\`) || strings.Contains(callID, "..") {
		return "", domain.NewValidationError("call_id", "invalid call id")
	}
	return filepath.Join(s.dir, filePrefix+callID+fileSuffix), nil
}

var _ ports.TranscriptStore = (*FileStore)(nil)
