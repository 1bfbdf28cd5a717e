package batch

import (
	"fmt"
	"os"
	"sync"
)

// WriteConfig controls atomic writing behavior (spec §2.10), adapted from
// the teacher's core.AtomicWriteConfig. The teacher's cross-process
// lock-file machinery (PID-stamped .lock files, staleness detection) is
// dropped here: a batch run's files are each touched by exactly one worker,
// so only in-process write/write races on the SAME path need guarding, and
// an in-memory mutex table covers that.
type WriteConfig struct {
	UseFsync       bool   // force fsync for durability
	TempSuffix     string // suffix for the temp file before rename
	BackupOriginal bool   // copy the existing file to path+".bak" before rewriting it
}

// DefaultWriteConfig mirrors the teacher's DefaultAtomicConfig, renamed to
// this module's suffix.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{
		UseFsync:       false,
		TempSuffix:     ".extracti18n.tmp",
		BackupOriginal: true,
	}
}

// AtomicWriter writes file contents via a temp-file-then-rename, guarding
// concurrent writers to the same path with an in-process mutex per path.
type AtomicWriter struct {
	config WriteConfig
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewAtomicWriter constructs a writer with config.
func NewAtomicWriter(config WriteConfig) *AtomicWriter {
	return &AtomicWriter{config: config, locks: make(map[string]*sync.Mutex)}
}

// WriteFile atomically replaces path's contents with data.
func (aw *AtomicWriter) WriteFile(path string, data []byte) error {
	lock := aw.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	fileMode := os.FileMode(0o644)
	originalInfo, statErr := os.Stat(path)
	if statErr == nil {
		fileMode = originalInfo.Mode()
	}

	if aw.config.BackupOriginal && statErr == nil {
		if err := aw.createBackup(path); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tempPath := path + aw.config.TempSuffix
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}
	tempFile.Close()

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}
	return nil
}

// createBackup copies path's current contents to path+".bak", overwriting
// any previous backup, the way the teacher's createBackup does before every
// rewrite.
func (aw *AtomicWriter) createBackup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read original for backup: %w", err)
	}
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path+".bak", data, mode)
}

func (aw *AtomicWriter) lockFor(path string) *sync.Mutex {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	lock, ok := aw.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		aw.locks[path] = lock
	}
	return lock
}
