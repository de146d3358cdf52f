package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/recipehelper/backend/internal/gateway/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive recipe dialogue (default)",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	gateway := cli.NewGateway(a.recipes, os.Stdin, cmd.OutOrStdout(), a.logger)

	// Start blocks on stdin, so a signal has to be observed here.
	done := make(chan error, 1)
	go func() { done <- gateway.Start(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		gateway.Interrupt()
		return nil
	}
}
