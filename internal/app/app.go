package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "dsasheet/internal/mcp"
	"dsasheet/internal/domain"
	"dsasheet/internal/seed"
	"dsasheet/internal/service"
	"dsasheet/internal/storage"
)

// Options configures a run of the app.
type Options struct {
	DataDir     string // base data directory, defaults to ~/.local/share/dsasheet
	Store       string // "sqlite" (default) or "file"
	SeedURL     string // sheet endpoint, defaults to the public SDE sheet
	BackupCron  string // cron spec for scheduled backups, empty disables
	ImportWatch string // snapshot drop file to watch, empty disables
}

// Run wires storage, services and the MCP server, then serves on
// stdin/stdout until the client disconnects or the process is signalled.
func Run(opts Options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dataDir := opts.DataDir
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share", "dsasheet")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	var (
		store domain.SheetStore
		db    *storage.DB
	)
	switch opts.Store {
	case "", "sqlite":
		var err error
		db, err = storage.New(filepath.Join(dataDir, "dsasheet.db"))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		store = storage.NewSheetStore(db)
	case "file":
		store = storage.NewFileStore(filepath.Join(dataDir, "sheet.json"))
	default:
		return fmt.Errorf("unknown store %q (want sqlite or file)", opts.Store)
	}

	seeder := seed.NewAdapter(seed.NewClient(opts.SeedURL))
	sheets := service.NewSheetService(store, seeder, service.NoopEmitter{})

	// Load in the background so a slow seed fetch does not delay the
	// stdio handshake. Tools called before it finishes get a loading error.
	go func() {
		if err := sheets.InitSheet(ctx); err != nil {
			log.Printf("initial load failed (retry with the reload_sheet tool): %v", err)
			return
		}
		stats := sheets.SheetStats()
		log.Printf("sheet loaded: %d questions (%d solved)", stats.Total, stats.Solved)
	}()

	codec := service.SnapshotCodec{
		Encode: storage.EncodeSnapshot,
		Decode: storage.DecodeSnapshot,
	}

	backups := service.NewBackupService(sheets, codec, filepath.Join(dataDir, "backups"))
	if err := backups.Start(ctx, opts.BackupCron, opts.ImportWatch); err != nil {
		return fmt.Errorf("start backups: %w", err)
	}
	defer backups.Stop()

	srv := mcpserver.New(ctx, mcpserver.Deps{
		Sheets:  sheets,
		Backups: backups,
		Codec:   codec,
	})
	return srv.ServeStdio()
}
