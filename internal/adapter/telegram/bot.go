// Package telegram is the chat front-end. Every update is handled on its own
// goroutine and model calls go through a shared worker pool.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"vakil-core/internal/domain/entity"
	"vakil-core/internal/domain/repository"
	"vakil-core/internal/usecase"
	"vakil-core/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const frontend = "chat"

// Transport is the part of *tgbotapi.BotAPI the bot uses.
type Transport interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Options struct {
	ChunkLimit int
	HTTPClient *http.Client
	Recorder   repository.Recorder
	Logger     *zap.Logger
}

type Bot struct {
	api        Transport
	analyzer   *usecase.Analyzer
	pool       *worker.Pool
	httpClient *http.Client
	recorder   repository.Recorder
	chunkLimit int
	log        *zap.Logger

	wg sync.WaitGroup
}

func New(api Transport, analyzer *usecase.Analyzer, pool *worker.Pool, opts Options) *Bot {
	b := &Bot{
		api:        api,
		analyzer:   analyzer,
		pool:       pool,
		httpClient: opts.HTTPClient,
		recorder:   opts.Recorder,
		chunkLimit: opts.ChunkLimit,
		log:        opts.Logger,
	}
	if b.httpClient == nil {
		b.httpClient = http.DefaultClient
	}
	if b.chunkLimit <= 0 {
		b.chunkLimit = usecase.DefaultChunkLimit
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

// RegisterCommands publishes the command menu shown by chat clients.
func (b *Bot) RegisterCommands() error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}

// Run dispatches updates until ctx ends or the channel closes, then waits for
// in-flight handlers.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, u)
			}()
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	switch {
	case msg.IsCommand():
		b.handleCommand(msg)
	case msg.Document != nil:
		b.handleDocument(ctx, msg)
	case msg.Text != "":
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	var text string
	switch msg.Command() {
	case "start":
		name := "there"
		if msg.From != nil && msg.From.FirstName != "" {
			name = tgbotapi.EscapeText(tgbotapi.ModeMarkdown, msg.From.FirstName)
		}
		text = startText(name)
	case "help":
		text = helpText
	case "analyze":
		text = analyzeText
	case "languages":
		text = languagesText
	case "about":
		text = aboutText
	default:
		return
	}
	b.reply(msg.Chat.ID, text, true)
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	doc := msg.Document
	req := entity.DocumentRequest{
		RequestID: uuid.NewString(),
		FileName:  doc.FileName,
		MediaType: doc.MimeType,
		Size:      int64(doc.FileSize),
		Hint:      msg.Caption,
	}
	log := b.log.With(zap.String("request_id", req.RequestID), zap.Int64("chat_id", chatID))

	maxBytes := b.analyzer.Limits().MaxUploadBytes
	if err := req.Validate(maxBytes); err != nil {
		b.observe(usecase.KindContract, err)
		log.Info("document rejected", zap.String("filename", doc.FileName), zap.Error(err))
		if errors.Is(err, entity.ErrFileTooLarge) {
			b.reply(chatID, replyTooLarge(maxBytes), false)
		} else {
			b.reply(chatID, replyNotPDF, true)
		}
		return
	}

	b.typing(chatID)
	status, err := b.api.Send(tgbotapi.NewMessage(chatID, replyWorking))
	if err != nil {
		log.Warn("send status message", zap.Error(err))
	}

	result, err := b.analyzeDocument(ctx, req, doc.FileID, maxBytes)
	b.deleteMessage(chatID, status.MessageID)
	b.observe(usecase.KindContract, err)
	if err == nil {
		b.replyChunks(chatID, result)
		return
	}

	if ctx.Err() != nil {
		log.Info("document analysis abandoned", zap.Error(err))
		return
	}
	log.Error("document analysis failed", zap.String("failure", usecase.FailureKind(err)), zap.Error(err))
	switch {
	case errors.Is(err, entity.ErrFileTooLarge):
		b.reply(chatID, replyTooLarge(maxBytes), false)
	case errors.Is(err, entity.ErrRateLimitExceeded):
		b.reply(chatID, replyRateLimited, false)
	default:
		b.reply(chatID, replyPDFFailed, false)
	}
}

func (b *Bot) analyzeDocument(ctx context.Context, req entity.DocumentRequest, fileID string, maxBytes int64) (string, error) {
	data, err := b.download(ctx, fileID, maxBytes)
	if err != nil {
		return "", err
	}
	req.Data = data
	req.Size = int64(len(data))

	return worker.Run(ctx, b.pool, func(ctx context.Context) (string, error) {
		return b.analyzer.AnalyzeDocument(ctx, req)
	})
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	req := entity.TextRequest{RequestID: uuid.NewString(), Text: msg.Text}
	log := b.log.With(zap.String("request_id", req.RequestID), zap.Int64("chat_id", chatID))

	if err := req.Validate(b.analyzer.Limits().MinQuestionLength); err != nil {
		b.observe(usecase.KindQuestion, err)
		b.reply(chatID, replyAsk, false)
		return
	}

	b.typing(chatID)
	answer, err := worker.Run(ctx, b.pool, func(ctx context.Context) (string, error) {
		return b.analyzer.AnswerQuestion(ctx, req)
	})
	b.observe(usecase.KindQuestion, err)
	if err == nil {
		b.replyChunks(chatID, answer)
		return
	}

	if ctx.Err() != nil {
		log.Info("question abandoned", zap.Error(err))
		return
	}
	log.Error("question failed", zap.String("failure", usecase.FailureKind(err)), zap.Error(err))
	if errors.Is(err, entity.ErrRateLimitExceeded) {
		b.reply(chatID, replyRateLimited, false)
	} else {
		b.reply(chatID, replyQuestionFail, false)
	}
}

// download fetches the file body. The direct URL embeds the bot token and is
// never logged.
func (b *Bot) download(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	link, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, entity.WrapError(entity.ErrUpstream, "get file", withoutURL(err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, entity.WrapError(entity.ErrUpstream, "download", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, entity.WrapError(entity.ErrUpstream, "download", withoutURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, entity.WrapError(entity.ErrUpstream, "download", fmt.Errorf("status %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, entity.WrapError(entity.ErrUpstream, "download", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, entity.ErrFileTooLarge
	}
	return data, nil
}

// withoutURL drops the request URL, which carries the bot token, from
// transport errors.
func withoutURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func (b *Bot) replyChunks(chatID int64, text string) {
	for _, chunk := range usecase.ChunkText(text, b.chunkLimit) {
		if !b.reply(chatID, chunk, false) {
			return
		}
	}
}

func (b *Bot) reply(chatID int64, text string, markdown bool) bool {
	m := tgbotapi.NewMessage(chatID, text)
	if markdown {
		m.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := b.api.Send(m); err != nil {
		b.log.Warn("send message", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return true
}

func (b *Bot) typing(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("send chat action", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Debug("delete status message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) observe(kind string, err error) {
	if b.recorder != nil {
		b.recorder.ObserveRequest(frontend, kind, usecase.FailureKind(err))
	}
}
