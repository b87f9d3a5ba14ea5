package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores all slots as one JSON object in a file on disk. Writes replace the file
// atomically through a temporary file and rename.
type FileKV struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

// NewFileKV creates a FileKV backed by path. The file is created on the first Set.
func NewFileKV(path string, log *slog.Logger) *FileKV {
	return &FileKV{path: path, log: log}
}

// Get returns the value stored under key and whether it was set.
func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.read()
	if err != nil {
		return "", false, err
	}

	value, ok := slots[key]
	return value, ok, nil
}

// Set stores value under key, rewriting the slot file.
func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.read()
	if err != nil {
		// Unreadable slot files are replaced.
		f.log.WarnContext(ctx, "Slot file is unreadable, starting from scratch", "path", f.path, "error", err)
		slots = make(map[string]string)
	}
	slots[key] = value

	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to encode slot file: %w", err)
	}

	return f.writeAtomic(data)
}

// Ping checks that the directory holding the slot file is reachable.
func (f *FileKV) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("slot directory unavailable: %w", err)
	}
	return nil
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot file: %w", err)
	}

	slots := make(map[string]string)
	if len(data) == 0 {
		return slots, nil
	}
	if err = json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slot file: %w", err)
	}

	return slots, nil
}

func (f *FileKV) writeAtomic(data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary slot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write slot file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close slot file: %w", err)
	}
	if err = os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace slot file: %w", err)
	}

	return nil
}
