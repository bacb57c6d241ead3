package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"wateryy/internal/hydration"
	"wateryy/internal/metrics"
	"wateryy/internal/model"
	"wateryy/internal/stats"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	s, err := b.store.StartReminders(ctx, msg.From.ID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to start reminders")
		b.reply(ctx, msg.Chat.ID, msgStartFailed)
		return
	}
	b.reply(ctx, msg.Chat.ID, startText(s))
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.store.StopReminders(ctx, msg.From.ID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to stop reminders")
		b.reply(ctx, msg.Chat.ID, msgStopFailed)
		return
	}
	b.reply(ctx, msg.Chat.ID, stopText())
}

func (b *Bot) handleSet(ctx context.Context, msg *tgbotapi.Message, r SetRequest) {
	if err := b.store.UpdateReminderSettings(ctx, msg.From.ID, r.Timer, r.Amount); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to update settings")
		b.reply(ctx, msg.Chat.ID, msgSetFailed)
		return
	}
	b.reply(ctx, msg.Chat.ID, setText(r))
}

func (b *Bot) handleSetBMI(ctx context.Context, msg *tgbotapi.Message, r SetBMIRequest) {
	if err := b.store.UpdateBodyMetrics(ctx, msg.From.ID, r.Weight, r.Height); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to save BMI")
		b.reply(ctx, msg.Chat.ID, msgSetBMIFailed)
		return
	}
	bmi, _ := hydration.BMI(&r.Weight, &r.Height)
	goal := hydration.WaterGoal(&r.Weight, &r.Height)
	b.reply(ctx, msg.Chat.ID, setBMIText(bmi, goal))
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message, r AddRequest) {
	log := &model.WaterLog{UserID: msg.From.ID, Amount: r.Amount}
	if err := b.store.AddWaterLog(ctx, log); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to add water intake")
		b.reply(ctx, msg.Chat.ID, msgAddFailed)
		return
	}
	metrics.AddWaterLogged("command", r.Amount)
	b.reply(ctx, msg.Chat.ID, addText(r.Amount))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message, r StatsRequest) {
	l := zerolog.Ctx(ctx)
	_, _ = b.tg.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatUploadPhoto))

	report, err := b.stats.Report(ctx, msg.From.ID, r.Period)
	if err != nil {
		l.Error().Err(err).Int64("user_id", msg.From.ID).Str("period", string(r.Period)).Msg("Failed to build stats")
		if errors.Is(err, stats.ErrRender) {
			b.reply(ctx, msg.Chat.ID, msgChartFailed)
		} else {
			b.reply(ctx, msg.Chat.ID, msgStatsFailed)
		}
		return
	}
	if report.Empty() {
		b.reply(ctx, msg.Chat.ID, noStatsText(report.Title))
		return
	}
	b.send(ctx, photoMessage(msg.Chat.ID, statsFilename, report.Chart, statsCaption(report)))
}

func (b *Bot) handleWaterIntakeInfo(ctx context.Context, msg *tgbotapi.Message) {
	info, err := b.stats.Intake(ctx, msg.From.ID)
	if errors.Is(err, stats.ErrNoBodyMetrics) {
		b.reply(ctx, msg.Chat.ID, msgNoBMI)
		return
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to fetch water intake info")
		b.reply(ctx, msg.Chat.ID, msgInfoFailed)
		return
	}
	b.reply(ctx, msg.Chat.ID, intakeInfoText(info))
}

func (b *Bot) handleDonate(ctx context.Context, msg *tgbotapi.Message) {
	m := markdownMessage(msg.Chat.ID, donateText())
	m.ReplyMarkup = donateKeyboard()
	b.send(ctx, m)
}

func (b *Bot) handleSuggest(ctx context.Context, msg *tgbotapi.Message, r SuggestRequest) {
	s := &model.Suggestion{
		UserID:   msg.From.ID,
		Username: msg.From.String(),
		Type:     r.Type,
		Content:  r.Content,
	}
	if err := b.store.AddSuggestion(ctx, s); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to save suggestion")
		b.reply(ctx, msg.Chat.ID, msgSuggestFailed)
		return
	}
	zerolog.Ctx(ctx).Info().Int64("user_id", msg.From.ID).Str("type", string(s.Type)).Msg("Suggestion stored")
	b.reply(ctx, msg.Chat.ID, suggestText(s))
}
