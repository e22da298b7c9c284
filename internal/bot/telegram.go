package bot

import (
	"auroscope/internal/providers"
	"auroscope/internal/structures"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-cleanhttp"
)

// botLogger routes the library's own log lines into the bot log.
type botLogger struct {
	logger providers.Logger
}

func (l botLogger) Println(v ...interface{}) {
	l.logger.Debugf(providers.TypeBot, "%s", fmt.Sprint(v...))
}

func (l botLogger) Printf(format string, v ...interface{}) {
	l.logger.Debugf(providers.TypeBot, format, v...)
}

// NewTelegramAPI authorizes the bot token with a getMe call.
func NewTelegramAPI(conf *structures.Config, logger providers.Logger) (*tgbotapi.BotAPI, error) {
	if err := tgbotapi.SetLogger(botLogger{logger: logger}); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPIWithClient(conf.Telegram.Token, tgbotapi.APIEndpoint, cleanhttp.DefaultPooledClient())
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = conf.Debug

	logger.Infof(providers.TypeBot, "Authorized on account %s", api.Self.UserName)
	return api, nil
}
