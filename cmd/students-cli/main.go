// Command students-cli is the text-menu front end of the records manager.
//
//	go run ./cmd/students-cli --config=config/local.yaml
//
// The menu uses stdout; logs go to stderr.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-records/internal/app"
	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/logging"
)

func main() {
	cfg := config.MustLoad()

	log := logging.New(os.Stderr, cfg.Env, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	store, st, err := app.NewStore(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	if err := console.New(store, os.Stdin, os.Stdout, log).Run(context.Background()); err != nil {
		log.Error("console stopped", slog.String("error", err.Error()))
		st.Close()
		os.Exit(1)
	}
}
