/*
Package main is the entry point for the terminal chat client.

It loads configuration, initializes file-based logging, connects to the chat server,
starts the chat session (which registers the local user), and runs the terminal UI until
the user quits or the process receives SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"chatlink/internal/app/session"
	"chatlink/internal/app/transport"
	"chatlink/internal/app/user"
	"chatlink/internal/configs"
	"chatlink/internal/pkg/logx"
	"chatlink/internal/ui"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const (
	dialTimeout     = 10 * time.Second
	shutdownTimeout = 2 * time.Second
	inboxSize       = 256
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return exitConfig, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
	}
	defer logFile.Close()

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment(), logFile)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("server_url", cfg.ServerURL).
		Str("username", cfg.Username).
		Int("send_queue_size", cfg.SendQueueSize).
		Float64("send_rate", cfg.SendRate).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inbox := ui.NewInbox(inboxSize)

	dialCtx, cancelDial := context.WithTimeout(ctx, dialTimeout)
	conn, err := transport.Dial(dialCtx, cfg.ServerURL, transport.Options{
		SendQueueSize: cfg.SendQueueSize,
		SendRate:      rate.Limit(cfg.SendRate),
		SendBurst:     cfg.SendBurst,
		MaxFrameBytes: int64(cfg.MaxFrameBytes),
		OnFrame:       inbox.Frame,
		OnState:       inbox.State,
	})
	cancelDial()
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", cfg.ServerURL, err)
	}
	logx.Debug("Transport limits applied.",
		"max_frame_bytes", cfg.MaxFrameBytes,
		"send_queue_size", cfg.SendQueueSize,
		"send_burst", cfg.SendBurst,
	)

	sess, err := session.New(cfg.Username, conn, session.WithAvatar(user.AvatarFromTemplate(cfg.AvatarTemplate)))
	if err != nil {
		conn.Close()
		return exitConfig, err
	}
	logx.Info("Chat session started", "session_id", sess.ID())

	program := tea.NewProgram(ui.New(sess), tea.WithAltScreen(), tea.WithContext(ctx))
	go inbox.Forward(ctx, program)

	_, runErr := program.Run()

	conn.Close()
	select {
	case <-conn.Done():
	case <-time.After(shutdownTimeout):
		logx.Warn("Connection did not close in time.", "timeout", shutdownTimeout.String())
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return exitRuntime, fmt.Errorf("terminal UI failed: %w", runErr)
	}

	logx.Info("Chat client stopped.", "session_id", sess.ID())
	return exitOK, nil
}
