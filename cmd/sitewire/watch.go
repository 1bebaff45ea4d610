package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitewire/sitewire/internal/events"
	"github.com/sitewire/sitewire/internal/metrics"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll for notifications and stream session events over WebSocket",
	Long: `Run a long-lived watcher that polls the site for notifications on an
interval and serves:

  /events   WebSocket stream of session events (request:failed,
            response:handled, notification)
  /metrics  Prometheus metrics`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Notification poll interval")
}

func runWatch(cmd *cobra.Command, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := newLogger().With().Str("component", "watch").Logger()

	metrics.Init()
	broadcaster := events.NewBroadcaster(s.Bus(), log)
	broadcaster.Start()
	defer broadcaster.Stop()

	mux := http.NewServeMux()
	mux.Handle("/events", broadcaster)
	mux.Handle("/metrics", metrics.Handler())

	addr := s.Config().Watch.ListenAddr
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.Info().Str("addr", addr).Msg("watch server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("watch server failed")
			cancel()
		}
	}()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			server.Shutdown(shutdownCtx)
			return
		case <-ticker.C:
			if _, err := s.PollNotifications(ctx); err != nil {
				log.Warn().Err(err).Msg("notification poll failed")
			}
		}
	}
}
