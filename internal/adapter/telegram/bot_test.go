package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vakil-core/internal/domain/entity"
	"vakil-core/internal/usecase"
	"vakil-core/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatID int64 = 42

type fakeTransport struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	nextID  int
	fileURL string
}

func (f *fakeTransport) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeTransport) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTransport) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL + "/file/" + fileID, nil
}

func (f *fakeTransport) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTransport) texts() []string {
	var out []string
	for _, m := range f.messages() {
		out = append(out, m.Text)
	}
	return out
}

func (f *fakeTransport) deleted() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, c := range f.sent {
		if d, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			out = append(out, d.MessageID)
		}
	}
	return out
}

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	reqs  []entity.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req entity.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type outcome struct{ kind, result string }

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []outcome
}

func (r *fakeRecorder) ObserveRequest(frontend, kind, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if frontend == "chat" {
		r.outcomes = append(r.outcomes, outcome{kind, result})
	}
}

func (r *fakeRecorder) ObserveCompletion(string, time.Duration) {}
func (r *fakeRecorder) ObservePages(int) {}

type harness struct {
	bot       *Bot
	transport *fakeTransport
	completer *fakeCompleter
	recorder  *fakeRecorder
}

func newHarness(t *testing.T, c *fakeCompleter, maxBytes int64, fileBody []byte) *harness {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fileBody)
	}))
	t.Cleanup(srv.Close)

	tr := &fakeTransport{fileURL: srv.URL}
	rec := &fakeRecorder{}
	analyzer := usecase.NewAnalyzer(c, nil, nil, nil, usecase.Limits{
		MaxUploadBytes:    maxBytes,
		MinQuestionLength: 3,
	})
	bot := New(tr, analyzer, worker.NewPool(1, nil), Options{
		ChunkLimit: 4000,
		HTTPClient: srv.Client(),
		Recorder:   rec,
	})
	return &harness{bot: bot, transport: tr, completer: c, recorder: rec}
}

func chat() *tgbotapi.Chat { return &tgbotapi.Chat{ID: chatID} }

func commandUpdate(cmd string, from *tgbotapi.User) tgbotapi.Update {
	text := "/" + cmd
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 7,
		Chat:      chat(),
		From:      from,
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 7, Chat: chat(), Text: text}}
}

func documentUpdate(doc *tgbotapi.Document, caption string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 7, Chat: chat(), Document: doc, Caption: caption}}
}

func TestStartGreetsByName(t *testing.T) {
	h := newHarness(t, &fakeCompleter{}, 10<<20, nil)

	h.bot.HandleUpdate(context.Background(), commandUpdate("start", &tgbotapi.User{FirstName: "Asha_K"}))
	h.bot.HandleUpdate(context.Background(), commandUpdate("start", nil))

	msgs := h.transport.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, `Hey Asha\_K!`)
	assert.Equal(t, tgbotapi.ModeMarkdown, msgs[0].ParseMode)
	assert.Contains(t, msgs[1].Text, "Hey there!")
}

func TestStaticCommands(t *testing.T) {
	tests := map[string]string{
		"help":      "How to use VakilAI",
		"analyze":   "Tips for best results",
		"languages": "Supported Languages",
		"about":     "About VakilAI",
	}
	for cmd, want := range tests {
		t.Run(cmd, func(t *testing.T) {
			h := newHarness(t, &fakeCompleter{}, 10<<20, nil)
			h.bot.HandleUpdate(context.Background(), commandUpdate(cmd, nil))

			texts := h.transport.texts()
			require.Len(t, texts, 1)
			assert.Contains(t, texts[0], want)
		})
	}
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	h := newHarness(t, &fakeCompleter{reply: "answer"}, 10<<20, nil)
	h.bot.HandleUpdate(context.Background(), commandUpdate("weather", nil))

	assert.Empty(t, h.transport.texts())
	assert.Zero(t, h.completer.calls())
}

func TestRegisterCommands(t *testing.T) {
	h := newHarness(t, &fakeCompleter{}, 10<<20, nil)
	require.NoError(t, h.bot.RegisterCommands())

	require.Len(t, h.transport.sent, 1)
	cfg, ok := h.transport.sent[0].(tgbotapi.SetMyCommandsConfig)
	require.True(t, ok)
	var names []string
	for _, c := range cfg.Commands {
		names = append(names, c.Command)
	}
	assert.Equal(t, []string{"start", "help", "analyze", "languages", "about"}, names)
}

func TestDocumentRejectedBeforeModel(t *testing.T) {
	tests := []struct {
		name string
		doc  *tgbotapi.Document
		want string
	}{
		{"not a pdf", &tgbotapi.Document{FileID: "f", FileName: "notes.txt", MimeType: "text/plain", FileSize: 10}, replyNotPDF},
		{"too large", &tgbotapi.Document{FileID: "f", FileName: "lease.pdf", MimeType: "application/pdf", FileSize: 10*1024*1024 + 1}, "⚠️ File too large. Please send a PDF under 10MB."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, &fakeCompleter{reply: "review"}, 10<<20, []byte("%PDF"))
			h.bot.HandleUpdate(context.Background(), documentUpdate(tt.doc, ""))

			assert.Equal(t, []string{tt.want}, h.transport.texts())
			assert.Zero(t, h.completer.calls())
			assert.Equal(t, []outcome{{usecase.KindContract, "invalid_input"}}, h.recorder.outcomes)
		})
	}
}

func TestDocumentAnalysisChunksReply(t *testing.T) {
	long := strings.Repeat("a", 3990) + "\n" + strings.Repeat("b", 600)
	h := newHarness(t, &fakeCompleter{reply: long}, 10<<20, []byte("%PDF-1.4 lease"))

	doc := &tgbotapi.Document{FileID: "abc", FileName: "lease.pdf", MimeType: "application/pdf", FileSize: 14}
	h.bot.HandleUpdate(context.Background(), documentUpdate(doc, "मेरा अनुबंध"))

	texts := h.transport.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, replyWorking, texts[0])
	assert.Equal(t, strings.Repeat("a", 3990), texts[1])
	assert.Equal(t, strings.Repeat("b", 600), texts[2])
	assert.Equal(t, []int{1}, h.transport.deleted(), "status message is removed")

	require.Equal(t, 1, h.completer.calls())
	req := h.completer.reqs[0]
	require.NotNil(t, req.Attachment)
	assert.Equal(t, []byte("%PDF-1.4 lease"), req.Attachment.Data)
	assert.Contains(t, req.Prompt, "मेरा अनुबंध")
	assert.Equal(t, []outcome{{usecase.KindContract, "ok"}}, h.recorder.outcomes)
}

func TestDocumentDownloadOverLimit(t *testing.T) {
	body := make([]byte, 1<<20+1)
	h := newHarness(t, &fakeCompleter{reply: "review"}, 1<<20, body)

	doc := &tgbotapi.Document{FileID: "abc", FileName: "lease.pdf"}
	h.bot.HandleUpdate(context.Background(), documentUpdate(doc, ""))

	texts := h.transport.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "⚠️ File too large. Please send a PDF under 1MB.", texts[1])
	assert.Zero(t, h.completer.calls())
}

func TestDocumentFailureReplies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), replyRateLimited},
		{"quota", errors.New("daily Quota exceeded"), replyRateLimited},
		{"other", errors.New("connection reset by peer"), replyPDFFailed},
		{"credentials", entity.WrapError(entity.ErrInvalidCredentials, "gemini", errors.New("API key not valid")), replyPDFFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, &fakeCompleter{err: tt.err}, 10<<20, []byte("%PDF"))
			doc := &tgbotapi.Document{FileID: "abc", FileName: "lease.pdf", MimeType: "application/pdf", FileSize: 4}
			h.bot.HandleUpdate(context.Background(), documentUpdate(doc, ""))

			texts := h.transport.texts()
			require.Len(t, texts, 2)
			assert.Equal(t, tt.want, texts[1])
			assert.Equal(t, []int{1}, h.transport.deleted())
		})
	}
}

func TestTextQuestion(t *testing.T) {
	h := newHarness(t, &fakeCompleter{reply: "  You can ask for the deposit back.  "}, 10<<20, nil)
	h.bot.HandleUpdate(context.Background(), textUpdate("  Can my landlord keep my deposit?  "))

	assert.Equal(t, []string{"You can ask for the deposit back."}, h.transport.texts())
	require.Equal(t, 1, h.completer.calls())
	assert.True(t, strings.HasSuffix(h.completer.reqs[0].Prompt, "User question:\nCan my landlord keep my deposit?"))
	assert.Nil(t, h.completer.reqs[0].Attachment)
}

func TestTextTooShort(t *testing.T) {
	h := newHarness(t, &fakeCompleter{reply: "answer"}, 10<<20, nil)
	h.bot.HandleUpdate(context.Background(), textUpdate(" hi "))

	assert.Equal(t, []string{replyAsk}, h.transport.texts())
	assert.Zero(t, h.completer.calls())
}

func TestWhitespaceOnlyTextAsksForQuestion(t *testing.T) {
	h := newHarness(t, &fakeCompleter{reply: "answer"}, 10<<20, nil)
	h.bot.HandleUpdate(context.Background(), textUpdate("   "))

	assert.Equal(t, []string{replyAsk}, h.transport.texts())
	assert.Zero(t, h.completer.calls())
}

func TestTooLargeReplyBelowOneMegabyte(t *testing.T) {
	h := newHarness(t, &fakeCompleter{reply: "review"}, 512<<10, nil)
	doc := &tgbotapi.Document{FileID: "f", FileName: "lease.pdf", FileSize: 600 << 10}
	h.bot.HandleUpdate(context.Background(), documentUpdate(doc, ""))

	assert.Equal(t, []string{"⚠️ File too large. Please send a PDF under 512KB."}, h.transport.texts())
}

func TestTextFailureHidesUpstreamText(t *testing.T) {
	h := newHarness(t, &fakeCompleter{err: errors.New("backend exploded at node 7")}, 10<<20, nil)
	h.bot.HandleUpdate(context.Background(), textUpdate("What is a non-compete clause?"))

	assert.Equal(t, []string{replyQuestionFail}, h.transport.texts())
	assert.Equal(t, []outcome{{usecase.KindQuestion, "upstream_error"}}, h.recorder.outcomes)
}

func TestRunHandlesEveryUpdate(t *testing.T) {
	h := newHarness(t, &fakeCompleter{reply: "answer"}, 10<<20, nil)

	updates := make(chan tgbotapi.Update, 3)
	updates <- textUpdate("first question")
	updates <- textUpdate("second question")
	updates <- commandUpdate("help", nil)
	close(updates)

	h.bot.Run(context.Background(), updates)

	assert.Equal(t, 2, h.completer.calls())
	assert.Len(t, h.transport.texts(), 3)
}
