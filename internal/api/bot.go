package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "teeth-classifier/internal/application"
	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/infrastructure/vision"
)

const (
	msgAwaitingPhoto   = "📸 Send a photo of the tooth condition to classify."
	msgCancelled       = "❌ Cancelled. Send /classify to start again."
	msgSendPhoto       = "📸 Please send an image (jpg, jpeg or png) of the tooth condition."
	msgUnsupportedFile = "⚠️ Only jpg, jpeg and png images are supported."
	msgUnknownCommand  = "❓ Unknown command. Use /help for usage."
	msgProcessing      = "⏳ Classifying image..."
	msgBadImage        = "⚠️ Could not read the image. Please send a jpg or png photo."
	msgModelHalted     = "⛔ The classification model failed to load. The service is halted, please contact the administrator."
	msgModelFetch      = "⚠️ The classification model could not be downloaded. Please try again later."
	msgShapeMismatch   = "⛔ The classifier is misconfigured (input shape mismatch). Please contact the administrator."
	msgProcessingError = "⚠️ Failed to classify the image. Please try another photo."
)

func startMessage() string {
	return fmt.Sprintf("🦷 %s\n\n%s\n\n📋 Commands:\n/classify — classify a photo\n/help — usage guide\n/cancel — cancel the current operation", app.Title, app.Intro)
}

func helpMessage() string {
	var b strings.Builder
	b.WriteString("ℹ️ How to Use\n\n")
	for i, step := range app.HelpSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\nIf you have any questions or need further assistance, feel free to reach out to us!")
	return b.String()
}

// errorMessage переводит ошибку конвейера в сообщение пользователю.
func errorMessage(err error) string {
	switch entity.Kind(err) {
	case "load":
		return msgModelHalted
	case "fetch":
		return msgModelFetch
	case "shape":
		return msgShapeMismatch
	case "image":
		return msgBadImage
	default:
		return msgProcessingError
	}
}

// Bot представляет Telegram-бота
type Bot struct {
	api            *tgbotapi.BotAPI
	client         *http.Client
	sessions       *app.SessionService
	classification *app.ClassificationService
}

// NewBot создаёт нового бота
func NewBot(token string, sessions *app.SessionService, classification *app.ClassificationService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("telegram authorized", "account", api.Self.UserName)

	return &Bot{
		api:            api,
		client:         &http.Client{},
		sessions:       sessions,
		classification: classification,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	sessionID := strconv.FormatInt(msg.From.ID, 10)

	session, err := b.sessions.Get(ctx, sessionID, msg.Chat.ID)
	if err != nil {
		slog.Error("get session", "session", sessionID, "error", err)
		return
	}
	slog.Debug("message", "session", sessionID, "state", session.State)

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, sessionID)
		return
	}

	// Обработка фото, берём максимальное разрешение
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleUpload(ctx, msg, sessionID, photo.FileID)
		return
	}

	// Изображение, отправленное файлом
	if msg.Document != nil {
		if !isSupportedDocument(msg.Document) {
			b.sendMessage(msg.Chat.ID, msgUnsupportedFile)
			return
		}
		b.handleUpload(ctx, msg, sessionID, msg.Document.FileID)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, sessionID string) {
	switch msg.Command() {
	case "start":
		b.reset(ctx, msg, sessionID)
		b.sendMessage(msg.Chat.ID, startMessage())

	case "help":
		b.sendMessage(msg.Chat.ID, helpMessage())

	case "classify":
		b.reset(ctx, msg, sessionID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		b.reset(ctx, msg, sessionID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) reset(ctx context.Context, msg *tgbotapi.Message, sessionID string) {
	if _, err := b.sessions.Reset(ctx, sessionID, msg.Chat.ID); err != nil {
		slog.Error("reset session", "session", sessionID, "error", err)
	}
}

// handleUpload скачивает изображение, классифицирует его и отправляет отчёт
func (b *Bot) handleUpload(ctx context.Context, msg *tgbotapi.Message, sessionID, fileID string) {
	chatID := msg.Chat.ID

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		slog.Error("download upload", "session", sessionID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	upload, err := b.classification.Accept(ctx, sessionID, chatID, data)
	if err != nil {
		b.fail(chatID, sessionID, err)
		return
	}

	b.sendMessage(chatID, msgProcessing)
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.Debug("chat action", "error", err)
	}

	report, err := b.classification.Classify(ctx, sessionID, chatID, upload)
	if err != nil {
		b.fail(chatID, sessionID, err)
		return
	}

	slog.Info("classified", "session", sessionID, "label", report.Label)
	b.sendMessage(chatID, report.Text())
}

func (b *Bot) fail(chatID int64, sessionID string, err error) {
	slog.Error("classification failed", "session", sessionID, "kind", entity.Kind(err), "error", err)
	b.sendMessage(chatID, errorMessage(err))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send message", "chat", chatID, "error", err)
	}
}

func isSupportedDocument(doc *tgbotapi.Document) bool {
	switch doc.MimeType {
	case "image/jpeg", "image/png":
		return true
	}
	return vision.IsSupportedFile(doc.FileName)
}
