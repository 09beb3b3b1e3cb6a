package email

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const activationEmailTimeout = 10 * time.Second

// SendActivationEmail sends msg to recipient without blocking the caller.
// Failures are logged, never returned. The returned WaitGroup lets callers
// that care (tests, shutdown) wait for delivery to finish.
func SendActivationEmail(ctx context.Context, sender EmailSender, recipient string, msg Message, logger *zerolog.Logger) *sync.WaitGroup {
	var wg sync.WaitGroup
	if sender == nil {
		return &wg
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || msg.Subject == "" || msg.Body == "" {
		return &wg
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		sendCtx, cancel := newEmailContext(ctx, activationEmailTimeout)
		defer cancel()
		if err := sender.Send(sendCtx, recipient, msg.Subject, msg.Body); err != nil {
			if logger != nil {
				logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send activation email")
			}
			return
		}
		if logger != nil {
			logger.Info().Str("recipient", recipient).Msg("Activation email sent")
		}
	}()
	return &wg
}
