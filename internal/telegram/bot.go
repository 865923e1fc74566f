// Package telegram plays quiz sessions in Telegram chats. Each chat holds one
// session; cards are messages with inline keyboards that are edited in place
// once answered.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/session"
	"github.com/abhisek/quizcard/internal/store"
)

const (
	cmdStart = "start"
	cmdQuiz  = "quiz"
	cmdNext  = "next"
	cmdScore = "score"
	cmdHelp  = "help"
)

const helpText = `Commands:
/quiz - start a new quiz
/next - move to the next question
/score - show your score so far
/help - show this message

Tap an option to answer.`

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options configure a Bot.
type Options struct {
	Shuffle bool
	Logger  *log.Logger
}

type chatState struct {
	sess      *session.Session
	messageID int // the card currently on screen
}

// Bot routes Telegram updates to per-chat sessions.
type Bot struct {
	api  API
	bank *quiz.Bank
	repo store.EventRepo
	opts Options
	log  *log.Logger

	mu    sync.Mutex
	chats map[int64]*chatState
	rng   *rand.Rand
}

// New creates a bot over bank. repo may be nil, in which case nothing is
// recorded.
func New(api API, bank *quiz.Bank, repo store.EventRepo, opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := uint64(time.Now().UnixNano())
	return &Bot{
		api:   api,
		bank:  bank,
		repo:  repo,
		opts:  opts,
		log:   logger,
		chats: make(map[int64]*chatState),
		rng:   rand.New(rand.NewPCG(now, now>>13)),
	}
}

// Run handles updates until ctx is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	b.log.Printf("serving bank %q (%d questions)", b.bank.Title, len(b.bank.Items))
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate processes a single update.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.Chat != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !msg.IsCommand() {
		b.send(chatID, "Send /quiz to start a quiz or /help for commands.")
		return
	}

	switch msg.Command() {
	case cmdStart:
		b.send(chatID, fmt.Sprintf("Welcome to quizcard! This chat plays %q, %d questions.\n\n%s", b.bank.Title, len(b.bank.Items), helpText))
		b.startQuiz(ctx, chatID)
	case cmdQuiz:
		b.startQuiz(ctx, chatID)
	case cmdNext:
		b.advance(ctx, chatID, -1)
	case cmdScore:
		b.score(chatID)
	case cmdHelp:
		b.send(chatID, helpText)
	default:
		b.send(chatID, "Unknown command.\n\n"+helpText)
	}
}

func (b *Bot) reporter() session.Reporter {
	if b.repo == nil {
		return session.NopReporter{}
	}
	return session.NewEventReporter(b.repo)
}

// startQuiz replaces any running session in the chat with a fresh one.
func (b *Bot) startQuiz(ctx context.Context, chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.bank.Items
	if b.opts.Shuffle {
		items = quiz.ShuffleItems(items, true, b.rng)
	}
	sess, err := session.New(b.bank.Title, items, b.reporter())
	if err != nil {
		b.log.Printf("chat %d: %v", chatID, err)
		b.send(chatID, "Could not start a quiz.")
		return
	}
	if old, ok := b.chats[chatID]; ok && !old.sess.Done() {
		b.warn(chatID, old.sess.Finish(ctx))
	}
	b.warn(chatID, sess.Start(ctx))

	st := &chatState{sess: sess}
	b.chats[chatID] = st
	b.sendCard(chatID, st)
}

// advance moves to the next question. from is the position the request was
// made on, or -1 for the /next command.
func (b *Bot) advance(ctx context.Context, chatID int64, from int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.chats[chatID]
	if !ok || st.sess.Done() {
		b.send(chatID, "No quiz running. Send /quiz to start one.")
		return ""
	}
	if from >= 0 && from != st.sess.CurrentIndex() {
		return "This card is no longer active."
	}

	more, err := st.sess.Next(ctx)
	if errors.Is(err, session.ErrNotAnswered) {
		return b.notify(chatID, from, "Answer the current question first.")
	}
	if session.IsReportError(err) {
		b.warn(chatID, err)
		err = nil
	}
	if err != nil {
		b.log.Printf("chat %d: next: %v", chatID, err)
		return ""
	}

	if !more {
		b.send(chatID, RenderSummary(st.sess.Summary()))
		delete(b.chats, chatID)
		return ""
	}
	b.sendCard(chatID, st)
	return ""
}

// notify reports msg as a callback toast, or as a message for commands.
func (b *Bot) notify(chatID int64, from int, msg string) string {
	if from >= 0 {
		return msg
	}
	b.send(chatID, msg)
	return ""
}

func (b *Bot) score(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.chats[chatID]
	if !ok {
		b.send(chatID, "No quiz running. Send /quiz to start one.")
		return
	}
	p := st.sess.Progress()
	b.send(chatID, fmt.Sprintf("%s\nScore: %d/%d correct", p, p.Correct, p.Answered))
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil || q.Message.Chat == nil {
		b.ack(q.ID, "")
		return
	}
	chatID := q.Message.Chat.ID

	cb, err := ParseCallback(q.Data)
	if err != nil {
		b.log.Printf("chat %d: %v", chatID, err)
		b.ack(q.ID, "")
		return
	}

	if cb.Next {
		if !b.ownsCallback(chatID, cb) {
			b.ack(q.ID, "This card is no longer active.")
			return
		}
		b.ack(q.ID, b.advance(ctx, chatID, cb.Item))
		return
	}
	b.ack(q.ID, b.answer(ctx, chatID, cb))
}

func (b *Bot) ownsCallback(chatID int64, cb Callback) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	return ok && shortID(st.sess.ID) == cb.Session
}

// answer applies a pick and edits the card in place. It returns the toast
// text for the callback.
func (b *Bot) answer(ctx context.Context, chatID int64, cb Callback) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.chats[chatID]
	if !ok || shortID(st.sess.ID) != cb.Session || cb.Item != st.sess.CurrentIndex() {
		return "This card is no longer active."
	}

	vm, err := st.sess.Select(ctx, cb.Option)
	if session.IsReportError(err) {
		b.warn(chatID, err)
		err = nil
	}
	switch {
	case errors.Is(err, session.ErrAlreadyAnswered):
		return "Already answered."
	case err != nil:
		b.log.Printf("chat %d: answer: %v", chatID, err)
		return "That option is not available."
	}

	card := RenderCard(st.sess.ID, st.sess.CurrentIndex(), st.sess.Current(), vm, st.sess.Progress().String())
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, st.messageID, card.Text, card.Keyboard)
	if _, err := b.api.Send(edit); err != nil {
		b.log.Printf("chat %d: edit card: %v", chatID, err)
	}
	return verdictLine(vm.Verdict)
}

// sendCard posts the current item as a new message. Callers hold b.mu.
func (b *Bot) sendCard(chatID int64, st *chatState) {
	vm, err := st.sess.View()
	if err != nil {
		b.log.Printf("chat %d: view: %v", chatID, err)
		return
	}
	card := RenderCard(st.sess.ID, st.sess.CurrentIndex(), st.sess.Current(), vm, st.sess.Progress().String())
	msg := tgbotapi.NewMessage(chatID, card.Text)
	msg.ReplyMarkup = card.Keyboard
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Printf("chat %d: send card: %v", chatID, err)
		return
	}
	st.messageID = sent.MessageID
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Printf("chat %d: send: %v", chatID, err)
	}
}

func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Printf("callback %s: %v", callbackID, err)
	}
}

func (b *Bot) warn(chatID int64, err error) {
	if err != nil {
		b.log.Printf("chat %d: warning: %v", chatID, err)
	}
}

// Commands lists the bot commands for registration with BotFather.
func Commands() tgbotapi.SetMyCommandsConfig {
	cmds := []tgbotapi.BotCommand{
		{Command: cmdQuiz, Description: "Start a new quiz"},
		{Command: cmdNext, Description: "Next question"},
		{Command: cmdScore, Description: "Score so far"},
		{Command: cmdHelp, Description: "Show help"},
	}
	return tgbotapi.NewSetMyCommands(cmds...)
}
