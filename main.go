package main

import (
	"flag"
	"log"

	"dsasheet/internal/app"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.DataDir, "data-dir", "", "data directory (default ~/.local/share/dsasheet)")
	flag.StringVar(&opts.Store, "store", "sqlite", "persistence backend: sqlite or file")
	flag.StringVar(&opts.SeedURL, "seed-url", "", "sheet endpoint to seed from (default: public SDE sheet)")
	flag.StringVar(&opts.BackupCron, "backup-cron", "@daily", "cron spec for snapshot backups (empty disables)")
	flag.StringVar(&opts.ImportWatch, "import-watch", "", "snapshot file to watch for imports (empty disables)")
	flag.Parse()

	if err := app.Run(opts); err != nil {
		log.Fatalf("dsasheet: %v", err)
	}
}
