package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/chatcore/internal/engine"
	"github.com/xaenox/chatcore/internal/models"
	"go.uber.org/zap"
)

// Console is a line-based transport over a reader/writer pair, one sender per session
type Console struct {
	dispatcher *engine.Dispatcher
	senderID   string
	in         io.Reader
	out        io.Writer
	logger     *zap.Logger
}

func NewConsole(dispatcher *engine.Dispatcher, senderID string, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		dispatcher: dispatcher,
		senderID:   senderID,
		in:         in,
		out:        out,
		logger:     logger,
	}
}

// Run answers each input line until EOF or ctx is cancelled
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		msg := models.Message{
			ID:         uuid.New().String(),
			SenderID:   c.senderID,
			ChatID:     c.senderID,
			Text:       scanner.Text(),
			ReceivedAt: time.Now(),
		}

		reply, ok := c.dispatcher.Handle(ctx, msg)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(c.out, reply); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	c.logger.Debug("Console session ended", zap.String("sender_id", c.senderID))
	return nil
}
