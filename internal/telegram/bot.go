package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/jpateteg/ttbot/internal/config"
	"github.com/jpateteg/ttbot/internal/service"
)

// Bot wires the Telegram update loop to the war handlers.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	log     *logrus.Logger
}

func NewBot(cfg config.Config, svc service.WarServiceInterface, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	log.WithField("account", api.Self.UserName).Info("authorized on telegram")

	handler := NewHandler(api, svc, log, Options{
		DefaultTeam1: cfg.Team1Name,
		ForfeitScore: cfg.ForfeitScore,
	})
	return &Bot{api: api, handler: handler, log: log}, nil
}

// Start runs the long-polling update loop until the process exits.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range b.api.GetUpdatesChan(u) {
		switch {
		case update.CallbackQuery != nil:
			if strings.HasPrefix(update.CallbackQuery.Data, "war_") {
				b.handler.HandleConfirmCallback(update.CallbackQuery)
			}
		case update.Message != nil:
			b.route(update.Message)
		}
	}
}

func (b *Bot) route(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		if strings.TrimSpace(msg.Text) != "" {
			b.handler.HandleText(msg)
		}
		return
	}

	switch msg.Command() {
	case "war":
		b.handler.HandleWar(msg)
	case "wartable":
		b.handler.HandleWarTable(msg)
	case "warhistory":
		b.handler.HandleHistory(msg)
	case "warresults":
		b.handler.HandleResults(msg)
	case "warnormalize":
		b.handler.HandleNormalize(msg)
	case "warhelp", "help", "start":
		b.handler.HandleHelp(msg)
	}
}
