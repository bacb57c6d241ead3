package reminders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"wateryy/internal/metrics"
)

// ErrBlocked is returned when the user blocked the bot.
var ErrBlocked = errors.New("bot blocked by user")

// SenderConfig holds throttling settings for reminder delivery.
type SenderConfig struct {
	// SendsPerSecond is the global send rate. Telegram allows about 30 msg/s.
	SendsPerSecond float64
	Burst          int
	// DefaultRetryWait is used for 429 responses without retry_after.
	DefaultRetryWait time.Duration
	// MaxRetryWait caps how long a single 429 may stall a send.
	MaxRetryWait time.Duration
}

// DefaultSenderConfig returns the default sender configuration.
func DefaultSenderConfig() SenderConfig {
	return SenderConfig{
		SendsPerSecond:   25,
		Burst:            30,
		DefaultRetryWait: time.Second,
		MaxRetryWait:     30 * time.Second,
	}
}

// Sender wraps a Notifier with rate limiting and Telegram error handling.
type Sender struct {
	notifier Notifier
	limiter  *rate.Limiter
	config   SenderConfig
	logger   *zerolog.Logger
}

func NewSender(notifier Notifier, cfg SenderConfig, logger *zerolog.Logger) *Sender {
	def := DefaultSenderConfig()
	if cfg.SendsPerSecond <= 0 {
		cfg.SendsPerSecond = def.SendsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.DefaultRetryWait <= 0 {
		cfg.DefaultRetryWait = def.DefaultRetryWait
	}
	if cfg.MaxRetryWait <= 0 {
		cfg.MaxRetryWait = def.MaxRetryWait
	}
	return &Sender{
		notifier: notifier,
		limiter:  rate.NewLimiter(rate.Limit(cfg.SendsPerSecond), cfg.Burst),
		config:   cfg,
		logger:   logger,
	}
}

// Send delivers one reminder. A 429 is retried once after the advertised delay.
func (s *Sender) Send(ctx context.Context, userID int64, amount int) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	err := s.notifier.SendReminder(ctx, userID, amount)
	if err == nil {
		metrics.IncReminderSend("sent")
		return nil
	}

	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		switch tgErr.Code {
		case http.StatusTooManyRequests:
			wait := time.Duration(tgErr.RetryAfter) * time.Second
			if wait <= 0 {
				wait = s.config.DefaultRetryWait
			}
			wait = min(wait, s.config.MaxRetryWait)
			metrics.IncReminderSend("rate_limited")
			s.logger.Warn().
				Int64("user_id", userID).
				Dur("retry_after", wait).
				Msg("rate limited by Telegram, waiting")

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			if err = s.notifier.SendReminder(ctx, userID, amount); err == nil {
				metrics.IncReminderSend("sent")
				return nil
			}

		case http.StatusForbidden:
			metrics.IncReminderSend("blocked")
			s.logger.Warn().Int64("user_id", userID).Str("reason", tgErr.Message).Msg("user blocked bot")
			return fmt.Errorf("%w: %s", ErrBlocked, tgErr.Message)

		case http.StatusBadRequest:
			s.logger.Error().Err(err).Int64("user_id", userID).Msg("bad request to Telegram")
		}
	}

	metrics.IncReminderSend("failed")
	return err
}
