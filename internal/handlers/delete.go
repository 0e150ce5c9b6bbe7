package handlers

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tavares/listabot/internal/service"
)

// Deletion is a two-phase protocol: /dellist and /delitem stage the operation
// and hand the user a confirmation token; nothing is removed until /confirm
// echoes it back, and /cancel discards it.

// ---------------------------------------------------------------------------
// DeleteListHandler – /dellist <id>
// ---------------------------------------------------------------------------

// DeleteListHandler handles the /dellist command to stage the deletion of a
// list and all its items.
type DeleteListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteListHandler creates a new DeleteListHandler.
func NewDeleteListHandler(svc *service.Service, logger *logrus.Logger) *DeleteListHandler {
	return &DeleteListHandler{svc: svc, logger: logger}
}

// Handle processes the /dellist command.
func (h *DeleteListHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	id, ok := parseIDArg(bot, message, args, "/dellist 3")
	if !ok {
		return nil
	}

	conf := h.svc.RequestDeleteList(id)
	sendConfirmationPrompt(bot, message.Chat.ID, conf)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"list_id": id,
	}).Info("List deletion staged")

	return nil
}

// ---------------------------------------------------------------------------
// DeleteItemHandler – /delitem <id>
// ---------------------------------------------------------------------------

// DeleteItemHandler handles the /delitem command to stage the deletion of a
// single item.
type DeleteItemHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteItemHandler creates a new DeleteItemHandler.
func NewDeleteItemHandler(svc *service.Service, logger *logrus.Logger) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc, logger: logger}
}

// Handle processes the /delitem command.
func (h *DeleteItemHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	id, ok := parseIDArg(bot, message, args, "/delitem 3")
	if !ok {
		return nil
	}

	conf := h.svc.RequestDeleteItem(id)
	sendConfirmationPrompt(bot, message.Chat.ID, conf)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"item_id": id,
	}).Info("Item deletion staged")

	return nil
}

// ---------------------------------------------------------------------------
// ConfirmHandler – /confirm <token>
// ---------------------------------------------------------------------------

// ConfirmHandler handles the /confirm command, executing a staged deletion.
type ConfirmHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewConfirmHandler creates a new ConfirmHandler.
func NewConfirmHandler(svc *service.Service, logger *logrus.Logger) *ConfirmHandler {
	return &ConfirmHandler{svc: svc, logger: logger}
}

// Handle processes the /confirm command.
func (h *ConfirmHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	token, ok := parseTokenArg(bot, message, args, "/confirm")
	if !ok {
		return nil
	}

	if err := h.svc.ConfirmDelete(context.Background(), token); err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("❌ Could not delete: %s", err))
		bot.Send(msg)
		return nil
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "🗑 Deleted.")
	bot.Send(msg)

	return nil
}

// ---------------------------------------------------------------------------
// CancelHandler – /cancel <token>
// ---------------------------------------------------------------------------

// CancelHandler handles the /cancel command, discarding a staged deletion.
type CancelHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCancelHandler creates a new CancelHandler.
func NewCancelHandler(svc *service.Service, logger *logrus.Logger) *CancelHandler {
	return &CancelHandler{svc: svc, logger: logger}
}

// Handle processes the /cancel command.
func (h *CancelHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	token, ok := parseTokenArg(bot, message, args, "/cancel")
	if !ok {
		return nil
	}

	if !h.svc.CancelDelete(token) {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Unknown or already handled confirmation token.")
		bot.Send(msg)
		return nil
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "👍 Nothing was deleted.")
	bot.Send(msg)

	return nil
}

// ---------------------------------------------------------------------------
// Shared argument parsing
// ---------------------------------------------------------------------------

func parseIDArg(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("❌ Please provide an ID.\nUsage: `%s`", usage))
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return 0, false
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Invalid ID. Please provide a numeric ID.")
		bot.Send(msg)
		return 0, false
	}

	return id, true
}

func parseTokenArg(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string, command string) (uuid.UUID, bool) {
	if len(args) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("❌ Please provide the confirmation token.\nUsage: `%s <token>`", command))
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return uuid.Nil, false
	}

	token, err := uuid.Parse(args[0])
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ That does not look like a confirmation token.")
		bot.Send(msg)
		return uuid.Nil, false
	}

	return token, true
}

func sendConfirmationPrompt(bot *tgbotapi.BotAPI, chatID int64, conf service.Confirmation) {
	text := fmt.Sprintf("⚠️ *%s*\n%s\n\nConfirm with:\n`/confirm %s`\n\nOr keep everything with:\n`/cancel %s`",
		conf.Title, conf.Message, conf.Token, conf.Token)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}
