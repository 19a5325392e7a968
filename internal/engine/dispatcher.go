package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/chatcore/internal/classifier"
	"github.com/xaenox/chatcore/internal/models"
	"go.uber.org/zap"
)

// Responder produces the reply for a message no auto-reply handled
type Responder interface {
	Reply(senderID, text string) string
}

// Dispatcher is the entry point for the chat transport
type Dispatcher struct {
	autoReply *classifier.AutoReplyMatcher
	responder Responder
	botName   string
	logger    *zap.Logger
}

func NewDispatcher(autoReply *classifier.AutoReplyMatcher, responder Responder, botName string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		autoReply: autoReply,
		responder: responder,
		botName:   botName,
		logger:    logger,
	}
}

// Handle returns the reply to send for msg, or false when nothing should be sent.
// Keyword auto-replies always win over classification.
func (d *Dispatcher) Handle(ctx context.Context, msg models.Message) (reply string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Recovered from panic while handling message",
				zap.Any("panic", r),
				zap.String("message_id", msg.ID),
				zap.String("sender_id", msg.SenderID))
			reply, ok = "", false
		}
	}()

	if msg.FromBot || ctx.Err() != nil {
		return "", false
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return "", false
	}

	if reply, ok := d.autoReply.Match(text); ok {
		d.logger.Info("Auto-reply matched",
			zap.String("message_id", msg.ID),
			zap.String("sender_id", msg.SenderID),
			zap.Bool("group", msg.IsGroup))
		return reply, true
	}

	reply = d.responder.Reply(msg.SenderID, text)
	d.logger.Info("Generated reply",
		zap.String("message_id", msg.ID),
		zap.String("sender_id", msg.SenderID),
		zap.Bool("group", msg.IsGroup))
	return reply, true
}

// Welcome renders the greeting posted when members join a group
func (d *Dispatcher) Welcome(names []string) string {
	mentions := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			mentions = append(mentions, "@"+n)
		}
	}

	who := "everyone"
	if len(mentions) > 0 {
		who = strings.Join(mentions, ", ")
	}

	return fmt.Sprintf("👋 Welcome to the group, %s!\n\n"+
		"I'm %s. Type 'menu' to see what I can do!\n"+
		"Say 'help' for assistance. Enjoy your stay! 😊", who, d.botName)
}
