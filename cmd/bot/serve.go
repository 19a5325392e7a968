package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xaenox/chatcore/internal/bot"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot on Telegram",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
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

		if a.cfg.Telegram.Token == "" {
			return errors.New("telegram token is not configured (set TELEGRAM_TOKEN)")
		}

		// Initialize bot
		b, err := bot.New(a.cfg.Telegram.Token, a.core.Dispatcher, a.cfg.Bot.TypingDelay, a.cfg.Telegram.Timeout, a.logger)
		if err != nil {
			a.logger.Error("Failed to create bot", zap.Error(err))
			return err
		}

		a.logger.Info("Bot started", zap.String("name", a.cfg.Bot.Name))

		// Start the bot
		if err := b.Start(ctx); err != nil {
			a.logger.Error("Bot error", zap.Error(err))
			return err
		}

		a.logger.Info("Shutting down")
		return nil
	},
}
