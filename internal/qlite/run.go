package qlite

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/qlite/qlite/internal/log"
	"github.com/qlite/qlite/internal/qlite/config"
	"github.com/qlite/qlite/internal/qlite/repl"
	"github.com/qlite/qlite/internal/sqlitedb"
	"github.com/qlite/qlite/internal/version"
)

// Run runs the qlite shell.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.ShellVersion())

	logger := log.NewLogger(os.Stderr)
	db, err := sqlitedb.Open(sqlitedb.Config{
		Logger:               logger,
		Path:                 conf.DatabasePath,
		CreateIfMissing:      conf.Create,
		DisableOptimizations: conf.DisableOptimizations,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database", log.KV{"error": err.Error()})
		}
	}()

	rp := repl.NewRepl(ctx, stop, conf, db)
	defer rp.Shutdown()
	go func() {
		if err := rp.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
