package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/austinraben/wordhunt/internal/httpserver"
	"github.com/austinraben/wordhunt/internal/store"
	"github.com/austinraben/wordhunt/internal/words"
)

const shutdownTimeout = 10 * time.Second

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket game server",
		RunE:  runServe,
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	lib, err := words.LoadLibrary(cfg.WordPaths())
	if err != nil {
		return err
	}
	for lang, n := range lib.Stats() {
		log.Info().Str("language", string(lang)).Int("words", n).Msg("dictionary loaded")
	}

	mem := store.NewMemoryStore(store.Options{
		TTL:           cfg.Game.SessionTTL,
		SweepInterval: cfg.Game.SweepInterval,
	})
	svc := newDailyService(conn)
	srv := httpserver.New(cfg, httpserver.Deps{DB: conn, Store: mem, Daily: svc, Words: lib})
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	mem.Start()
	g.Go(func() error {
		log.Info().Str("addr", httpSrv.Addr).Msg("starting wordhunt server")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		mem.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if cfg.Game.AutoGenerate {
		g.Go(func() error {
			// Warm today's grids so the first players do not wait on generation.
			for _, lang := range words.Languages() {
				if _, _, err := svc.Ensure(gctx, lang); err != nil {
					log.Warn().Err(err).Str("language", string(lang)).Msg("pre-generate daily grid")
				}
			}
			return nil
		})
	}
	return g.Wait()
}
