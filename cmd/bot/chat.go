package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/xaenox/chatcore/internal/bot"
)

var chatSender string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot on stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := setup(ctx)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			a.shutdown(shutdownCtx)
		}()

		console := bot.NewConsole(a.core.Dispatcher, chatSender, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
		return console.Run(ctx)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSender, "sender", "console", "sender id used for conversation context")
}
