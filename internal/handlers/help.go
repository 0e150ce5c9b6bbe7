package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{logger: logger}
}

// Handle processes the /start command
func (h *StartHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	welcomeText := `🛒 *Welcome to ListaBot!*

I keep your shopping lists and turn them into spreadsheets or PDFs.

Get started:
• /newlist Groceries - Create a list
• /open <id> - Open it
• /additem Milk 2 3.50 - Add 2 units at R$3.50
• /bought <id> - Mark an item purchased

Use /help for the full command list.`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent start message")

	return nil
}

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	helpText := `📚 *ListaBot Help*

*Lists:*
• /newlist <name> - Create a list
• /lists [filter] - Show lists, newest first
• /open <id> - Open a list
• /home - Leave the open list
• /dellist <id> - Delete a list and its items

*Items (need an open list):*
• /additem <name> <qty> <price> - Add an item
• /bought <id> [off] - Mark/unmark as purchased
• /delitem <id> - Delete an item
• /total - Purchased total of the open list

*Export:*
• /select <id> - Mark/unmark a list for export
• /export excel - Selected lists as a spreadsheet
• /export pdf - Selected lists as a PDF

*Deleting is two-step:* /dellist and /delitem reply with a token;
nothing is removed until you /confirm it. /cancel discards it.`

	msg := tgbotapi.NewMessage(message.Chat.ID, helpText)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent help message")

	return nil
}
