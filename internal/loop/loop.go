// Package loop wires a local game server to a terminal client.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/loop/client"
	"github.com/tomz197/fruitarchery/internal/loop/server"
)

const shutdownTimeout = 15 * time.Second

// Run plays a single local game: the simulation runs on its own goroutine and
// the client owns the terminal until the player quits.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, s config.Settings, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	srv, err := server.NewServer(s, logger.WithPrefix("server"), logEvents(logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.Run(ctx)
		// Lets a still-attached client show the shutdown notice and leave.
		srv.Shutdown(shutdownTimeout)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		c := client.NewClient(srv, r, w, client.ClientOptions{Logger: logger.WithPrefix("client")})
		if err := c.Run(); err != nil {
			return fmt.Errorf("client: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// logEvents reports the lifecycle events at info level and the rest at debug.
func logEvents(logger *log.Logger) event.Listener {
	return event.ListenerFunc(func(e event.Event) {
		switch e := e.(type) {
		case event.GameStarted:
			logger.Info("game started")
		case event.GameOver:
			logger.Info("game over", "score", e.FinalScore)
		case event.TimerComplete:
			logger.Info("timer complete")
		case event.TargetHit:
			logger.Debug("target hit", "fruit", e.Name, "points", e.Points)
		case event.ProjectileDestroyed:
			logger.Debug("projectile destroyed", "reason", e.Reason)
		}
	})
}
