package bot

import (
	"auroscope/internal/models"
	"auroscope/internal/providers"
	"auroscope/internal/services"
	"auroscope/internal/structures"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updatesTimeout = 60

var (
	ErrAccessDenied     = errors.New("access denied")
	ErrDuplicateCommand = errors.New("report is already being generated")
	ErrNotDelivered     = errors.New("report was not delivered to any chat")
)

type SenderInterface interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type UpdatesSourceInterface interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	sender       SenderInterface
	reports      services.ReportServiceInterface
	cache        providers.CacheProviderInterface
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	allowed      []int64
	scheduleTime string
	outputDir    string
	timeout      time.Duration
	now          func() time.Time
}

func NewBot(
	conf *structures.Config,
	sender SenderInterface,
	reports services.ReportServiceInterface,
	cache providers.CacheProviderInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Bot {
	return &Bot{
		sender:       sender,
		reports:      reports,
		cache:        cache,
		logger:       logger,
		metrics:      metrics,
		allowed:      conf.Telegram.AllowedUserIDs,
		scheduleTime: conf.Schedule.Time,
		outputDir:    conf.Reports.OutputDir,
		timeout:      conf.Reports.ReportTimeout(),
		now:          time.Now,
	}
}

// Run handles updates until ctx is cancelled or the source closes the channel.
func (b *Bot) Run(ctx context.Context, source UpdatesSourceInterface) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesTimeout
	updates := source.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	b.logger.Infof(providers.TypeBot, "Bot is listening for commands, allowed chats: %v", b.allowed)
	for {
		select {
		case <-ctx.Done():
			source.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID
	command := msg.Command()

	if err := b.checkAccess(chatID); err != nil {
		b.logger.Warnf(providers.TypeBot, "Rejected /%s from chat %d: %s", command, chatID, err)
		_ = b.reply(chatID, accessDeniedText)
		return
	}
	b.logger.Infof(providers.TypeBot, "Command /%s from chat %d", command, chatID)

	switch command {
	case "start":
		_ = b.reply(chatID, welcomeText(b.scheduleTime))
	case "help":
		_ = b.reply(chatID, helpText(b.scheduleTime))
	default:
		period, err := models.ParsePeriod(command)
		if err != nil {
			_ = b.reply(chatID, unknownCommandText)
			return
		}
		_ = b.SendReport(ctx, chatID, period)
	}
}

// An empty allow-list lets everyone in.
func (b *Bot) checkAccess(chatID int64) error {
	if len(b.allowed) == 0 || slices.Contains(b.allowed, chatID) {
		return nil
	}
	return fmt.Errorf("%w: chat %d", ErrAccessDenied, chatID)
}

// SendReport generates a report for period and delivers it to one chat. The same chat cannot run the same period twice at once.
func (b *Bot) SendReport(ctx context.Context, chatID int64, period models.Period) error {
	key := fmt.Sprintf("report:%d:%s", chatID, period)
	if !b.cache.Acquire(key) {
		b.metrics.IncDuplicateCommands()
		b.logger.Warnf(providers.TypeBot, "Duplicate /%s from chat %d ignored", period, chatID)
		_ = b.reply(chatID, busyText)
		return ErrDuplicateCommand
	}
	defer b.cache.Release(key)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	dr := period.Resolve(b.now())
	if err := b.reply(chatID, fmt.Sprintf(progressText, dr.Label)); err != nil {
		return err
	}

	csvPath, pdfPath, stats, err := b.reports.GenerateReport(ctx, period, b.outputDir)
	if err != nil {
		_ = b.reply(chatID, fmt.Sprintf(failedText, err))
		return err
	}

	if err = b.sendHTML(chatID, FormatStats(reportTitle, stats)); err != nil {
		return err
	}
	if err = b.reply(chatID, readyText); err != nil {
		return err
	}
	if err = b.sendFiles(chatID, csvPath, pdfPath); err != nil {
		return err
	}
	return b.reply(chatID, doneText)
}

// Broadcast sends one report for period to every allowed chat. Nothing is sent without an allow-list.
func (b *Bot) Broadcast(ctx context.Context, period models.Period) error {
	if len(b.allowed) == 0 {
		b.logger.Infof(providers.TypeBot, "No allowed users configured. Skipping scheduled reports.")
		return nil
	}

	dr := period.Resolve(b.now())
	csvPath, pdfPath, stats, err := b.reports.GenerateReport(ctx, period, b.outputDir)
	if err != nil {
		return fmt.Errorf("generate scheduled report: %w", err)
	}

	text := FormatStats(dailyTitle, stats)
	delivered := 0
	for _, chatID := range b.allowed {
		if err := b.deliver(chatID, text, dr.Label, csvPath, pdfPath); err != nil {
			b.logger.Errorf(providers.TypeBot, "Failed to send report to user %d: %s", chatID, err)
			continue
		}
		delivered++
		b.logger.Infof(providers.TypeBot, "Report sent to user %d", chatID)
	}

	if delivered == 0 {
		return fmt.Errorf("%w: %d chats failed", ErrNotDelivered, len(b.allowed))
	}
	return nil
}

func (b *Bot) deliver(chatID int64, text, label, csvPath, pdfPath string) error {
	if err := b.sendHTML(chatID, text); err != nil {
		return err
	}
	if err := b.reply(chatID, fmt.Sprintf(dailyFilesText, label)); err != nil {
		return err
	}
	return b.sendFiles(chatID, csvPath, pdfPath)
}

func (b *Bot) sendFiles(chatID int64, csvPath, pdfPath string) error {
	csvDoc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(csvPath))
	csvDoc.Caption = csvCaption
	if err := b.send(chatID, csvDoc); err != nil {
		return err
	}

	pdfDoc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(pdfPath))
	pdfDoc.Caption = pdfCaption
	return b.send(chatID, pdfDoc)
}

func (b *Bot) reply(chatID int64, text string) error {
	return b.send(chatID, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return b.send(chatID, msg)
}

func (b *Bot) send(chatID int64, c tgbotapi.Chattable) error {
	if _, err := b.sender.Send(c); err != nil {
		b.logger.Errorf(providers.TypeBot, "Send to chat %d failed: %s", chatID, err)
		return err
	}
	return nil
}
