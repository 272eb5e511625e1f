package wal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/khel-bhoomi/backend/pkg/logger"
	"go.uber.org/zap"
)

// WALEntry records a created post before it reaches the database. It carries
// every author-supplied field so a replayed post is identical to one that
// reached the database directly.
type WALEntry struct {
	PostID     string    `json:"post_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	UserRole   string    `json:"user_role"`
	Content    string    `json:"content"`
	PostType   string    `json:"post_type"`
	ImageURL   *string   `json:"image_url,omitempty"`
	VideoURL   *string   `json:"video_url,omitempty"`
	SportsTags []string  `json:"sports_tags,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// WAL is a durable append-only log of created posts. Entries are removed
// once the matching rows are confirmed in the database.
type WAL struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func NewWAL(filePath string) (*WAL, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &WAL{
		filePath: filePath,
		file:     file,
	}, nil
}

// Write appends an entry and fsyncs before returning.
func (w *WAL) Write(entry WALEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("WAL: failed to marshal entry",
			zap.String("post_id", entry.PostID),
			zap.Error(err),
		)
		return err
	}

	if _, err := w.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("WAL: failed to write to file",
			zap.String("post_id", entry.PostID),
			zap.Error(err),
		)
		return err
	}

	syncStart := time.Now()
	if err := w.file.Sync(); err != nil {
		logger.Log.Error("WAL: failed to sync to disk",
			zap.String("post_id", entry.PostID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Debug("WAL: entry written and synced",
		zap.String("post_id", entry.PostID),
		zap.Duration("sync_duration", time.Since(syncStart)),
	)

	return nil
}

// ReadAll returns every entry currently in the log.
func (w *WAL) ReadAll() ([]WALEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.readAllUnsafe()
}

// Cleanup drops entries whose posts have been persisted. The log file is
// rewritten atomically via a temp file rename.
func (w *WAL) Cleanup(persistedIDs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	allEntries, err := w.readAllUnsafe()
	if err != nil {
		logger.Log.Error("WAL: failed to read entries for cleanup", zap.Error(err))
		return err
	}

	persisted := make(map[string]bool, len(persistedIDs))
	for _, id := range persistedIDs {
		persisted[id] = true
	}

	var remaining []WALEntry
	for _, entry := range allEntries {
		if !persisted[entry.PostID] {
			remaining = append(remaining, entry)
		}
	}

	if err := w.file.Close(); err != nil {
		logger.Log.Error("WAL: failed to close file for cleanup", zap.Error(err))
		return err
	}

	// The rename only happens after the snapshot is fully written and
	// synced; any snapshot failure leaves the original log untouched.
	tempFile := w.filePath + ".tmp"
	if err := writeSnapshot(tempFile, remaining); err != nil {
		logger.Log.Error("WAL: failed to write snapshot",
			zap.String("temp_file", tempFile),
			zap.Error(err),
		)
		os.Remove(tempFile)
		if reopenErr := w.reopen(); reopenErr != nil {
			return reopenErr
		}
		return err
	}

	if err := os.Rename(tempFile, w.filePath); err != nil {
		logger.Log.Error("WAL: failed to rename temp file",
			zap.String("temp_file", tempFile),
			zap.Error(err),
		)
		os.Remove(tempFile)
		if reopenErr := w.reopen(); reopenErr != nil {
			return reopenErr
		}
		return err
	}

	if err := w.reopen(); err != nil {
		return err
	}

	logger.Log.Info("WAL: cleanup completed",
		zap.Int("before_count", len(allEntries)),
		zap.Int("deleted_count", len(allEntries)-len(remaining)),
		zap.Int("remaining_count", len(remaining)),
	)

	return nil
}

// writeSnapshot writes entries to path and syncs before returning. Every
// write error is reported so a partial snapshot is never renamed over the log.
func writeSnapshot(path string, entries []WALEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			f.Close()
			return err
		}
		if _, err := f.WriteString(string(data) + "\n"); err != nil {
			f.Close()
			return err
		}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// reopen restores w.file with the append flags Write expects. Caller holds
// the lock.
func (w *WAL) reopen() error {
	file, err := os.OpenFile(w.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		logger.Log.Error("WAL: failed to reopen file",
			zap.String("file_path", w.filePath),
			zap.Error(err),
		)
		return err
	}
	w.file = file
	return nil
}

// readAllUnsafe reads all entries without locking (internal use only).
// Lines that fail to decode are skipped, a torn final write is not fatal.
func (w *WAL) readAllUnsafe() ([]WALEntry, error) {
	file, err := os.Open(w.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []WALEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []WALEntry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry WALEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the WAL file.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
