package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/fruitarchery/internal/config"
	"github.com/tomz197/fruitarchery/internal/draw"
	"github.com/tomz197/fruitarchery/internal/event"
	"github.com/tomz197/fruitarchery/internal/loop/client"
	"github.com/tomz197/fruitarchery/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	shutdownNoticeTimeout = 15 * time.Second
)

func main() {
	if _, err := config.LoadEnvFile(); err != nil {
		log.Fatal("failed to load .env", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	log.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	settings := config.Default()
	if path := config.GetEnv("ARCHERY_CONFIG", ""); path != "" {
		s, err := config.Load(path)
		if err != nil {
			log.Fatal("failed to load settings", "path", path, "err", err)
		}
		settings = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	games := newGameSet(settings, log.Default())

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("failed to create server", "err", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting ssh server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		// Notify players and wait for them to disconnect
		games.shutdown(shutdownNoticeTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

// gameSet runs one game server per SSH session.
type gameSet struct {
	settings config.Settings
	logger   *log.Logger

	mu     sync.Mutex
	active map[*server.Server]struct{}
}

func newGameSet(settings config.Settings, logger *log.Logger) *gameSet {
	return &gameSet{
		settings: settings,
		logger:   logger,
		active:   make(map[*server.Server]struct{}),
	}
}

func (gs *gameSet) add(s *server.Server) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.active[s] = struct{}{}
}

func (gs *gameSet) remove(s *server.Server) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	delete(gs.active, s)
}

// shutdown shows every connected player the shutdown notice and waits for them
// to leave, in parallel.
func (gs *gameSet) shutdown(timeout time.Duration) {
	gs.mu.Lock()
	servers := make([]*server.Server, 0, len(gs.active))
	for s := range gs.active {
		servers = append(servers, s)
	}
	gs.mu.Unlock()

	gs.logger.Info("notifying connected players about shutdown", "players", len(servers))
	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Go(func() { s.Shutdown(timeout) })
	}
	wg.Wait()
}

// middleware handles SSH sessions and runs the game client.
func (gs *gameSet) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := gs.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Each session gets its own simulation.
		srv, err := server.NewServer(gs.settings, logger.WithPrefix("server"), sessionLog(logger))
		if err != nil {
			logger.Error("failed to start game", "err", err)
			fmt.Fprintln(sess, "Error: failed to start game")
			return
		}
		gs.add(srv)
		defer gs.remove(srv)

		// Keeps ticking through a host shutdown until the player leaves.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan struct{})
		go func() {
			defer close(done)
			srv.Run(ctx)
		}()

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		clientOpts := client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Logger:       logger.WithPrefix("client"),
		}

		c := client.NewClient(srv, reader, sess, clientOpts)
		if err := c.Run(); err != nil {
			logger.Error("game error", "err", err)
		}

		cancel()
		<-done
		logger.Info("session ended")
		next(sess)
	}
}

// sessionLog records the score of each finished game.
func sessionLog(logger *log.Logger) event.Listener {
	return event.ListenerFunc(func(e event.Event) {
		switch e := e.(type) {
		case event.GameStarted:
			logger.Info("game started")
		case event.GameOver:
			logger.Info("game over", "score", e.FinalScore)
		}
	})
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
