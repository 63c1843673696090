package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Backup Service — scheduled snapshot backups + import-file watch
// ─────────────────────────────────────────────────────────────

// keepBackups bounds how many timestamped snapshots are retained.
const keepBackups = 20

// BackupService writes periodic export snapshots of the sheet and can
// watch a drop file: writing a snapshot to that path imports it into
// the live document.
type BackupService struct {
	sheets *SheetService
	codec  SnapshotCodec
	dir    string

	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewBackupService creates a BackupService writing into dir.
func NewBackupService(sheets *SheetService, codec SnapshotCodec, dir string) *BackupService {
	return &BackupService{sheets: sheets, codec: codec, dir: dir}
}

// WriteBackup exports the current document to a timestamped file and
// prunes old backups. Returns the written path.
func (s *BackupService) WriteBackup() (string, error) {
	data, err := s.sheets.ExportSnapshot(s.codec)
	if err != nil {
		return "", fmt.Errorf("export snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("sheet-%s.json", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	if err := s.prune(); err != nil {
		log.Printf("backup: prune failed: %v", err)
	}
	return path, nil
}

// prune removes the oldest backups beyond keepBackups. Timestamped names
// sort chronologically, so lexicographic order is enough.
func (s *BackupService) prune() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "sheet-*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= keepBackups {
		return nil
	}
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-keepBackups] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}

// Start schedules cron backups (cronSpec, empty disables) and watches
// importPath for dropped snapshots (empty disables).
func (s *BackupService) Start(ctx context.Context, cronSpec, importPath string) error {
	if cronSpec != "" {
		c := cron.New()
		_, err := c.AddFunc(cronSpec, func() {
			path, err := s.WriteBackup()
			if err != nil {
				log.Printf("backup: scheduled backup failed: %v", err)
				return
			}
			log.Printf("backup: wrote %s", path)
		})
		if err != nil {
			return fmt.Errorf("invalid backup cron %q: %w", cronSpec, err)
		}
		c.Start()
		s.cronSched = c
	}

	if importPath != "" {
		if err := s.watchImportFile(ctx, importPath); err != nil {
			s.Stop()
			return err
		}
	}
	return nil
}

// watchImportFile watches the directory of importPath (fsnotify watches
// dirs for file events) and imports the snapshot on write/create, with a
// short debounce so editors that write in bursts trigger one import.
func (s *BackupService) watchImportFile(ctx context.Context, importPath string) error {
	absPath, err := filepath.Abs(importPath)
	if err != nil {
		return fmt.Errorf("bad import path %q: %w", importPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("create import dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %q: %w", filepath.Dir(absPath), err)
	}
	s.watcher = watcher

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if eventPath, _ := filepath.Abs(event.Name); eventPath != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(500*time.Millisecond, func() {
					s.importFrom(ctx, absPath)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("import watcher: error: %v", err)
			}
		}
	}()

	log.Printf("import watcher: watching %s", absPath)
	return nil
}

func (s *BackupService) importFrom(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("import watcher: read %s: %v", path, err)
		return
	}
	if err := s.sheets.ImportSnapshot(ctx, s.codec, data); err != nil {
		log.Printf("import watcher: rejected %s: %v", path, err)
		return
	}
	log.Printf("import watcher: imported %s", path)
}

// Stop tears down the scheduler and watcher.
func (s *BackupService) Stop() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}
