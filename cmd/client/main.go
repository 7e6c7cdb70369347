package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"chat-client/internal"
	"chat-client/restapi"
	"chat-client/runtime"
	"chat-client/session"
	"chat-client/transport"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles configuration loading, subsystem wiring, and the interactive
// loop. This pattern ensures clean resource management and error propagation.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := internal.NewLogger(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. The session comes from the identity collaborator; here that is the
	// configured token.
	sess, err := session.FromToken(config.SessionToken)
	if err != nil {
		return exitConfig, err
	}

	// 4. Wire the subsystem: one channel and one API client per session.
	channel := transport.NewChannel(log, config.ChannelURL)
	api := restapi.NewClient(config.APIBaseURL, sess)
	client := runtime.NewClient(log, sess, channel, api, runtime.Options{
		SearchDebounce:   config.SearchDebounce,
		TransitionBuffer: config.TransitionBuffer,
	})

	term := newTerminal(client, api, stop)
	client.SetAfterTransition(term.render)
	client.Start(ctx)
	defer client.Stop()

	fmt.Printf(">>> Connecting as %s (Ctrl+C or /quit to exit)...\n", sess.ParticipantID)

	// 5. Interactive loop. Blocks until stdin closes or the context ends.
	if err := term.ReadLoop(ctx, os.Stdin); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
