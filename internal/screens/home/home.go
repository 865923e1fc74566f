// Package home is the landing screen: play the loaded bank, generate a new
// quiz or browse history.
package home

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/questiongen"
	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/screens/generate"
	"github.com/abhisek/quizcard/internal/screens/history"
	"github.com/abhisek/quizcard/internal/screens/notice"
	quizscreen "github.com/abhisek/quizcard/internal/screens/quiz"
	"github.com/abhisek/quizcard/internal/session"
	"github.com/abhisek/quizcard/internal/store"
	"github.com/abhisek/quizcard/internal/ui/components"
)

// Deps are the services the home screen hands to the screens it opens.
// Repo and Generator may be nil; their menu entries then explain what is
// missing.
type Deps struct {
	Bank      *quiz.Bank
	Shuffle   bool
	Rand      *rand.Rand
	Repo      store.EventRepo
	Generator questiongen.Generator
	SaveDir   string
}

type statsLoadedMsg struct {
	stats playStats
}

type HomeScreen struct {
	deps  Deps
	menu  components.Menu
	stats playStats
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(deps Deps) *HomeScreen {
	if deps.Shuffle && deps.Rand == nil {
		now := uint64(time.Now().UnixNano())
		deps.Rand = rand.New(rand.NewPCG(now, now>>32))
	}
	h := &HomeScreen{deps: deps}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "PLAY", Detail: bankDetail(deps.Bank), Action: h.startQuiz},
		{Label: "NEW QUIZ", Detail: "from a topic", Action: h.openGenerate},
		{Label: "HISTORY", Action: h.openHistory},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) reporter() session.Reporter {
	if h.deps.Repo == nil {
		return session.NopReporter{}
	}
	return session.NewEventReporter(h.deps.Repo)
}

func (h *HomeScreen) startQuiz() tea.Cmd {
	items := h.deps.Bank.Items
	if h.deps.Shuffle {
		items = quiz.ShuffleItems(items, true, h.deps.Rand)
	}
	sess, err := session.New(h.deps.Bank.Title, items, h.reporter())
	if err != nil {
		return router.Push(notice.NewError("Play", err))
	}
	return router.Push(quizscreen.New(sess))
}

func (h *HomeScreen) openGenerate() tea.Cmd {
	if h.deps.Generator == nil {
		return router.Push(notice.New("New Quiz",
			"No LLM provider is configured.\n\nSet QUIZCARD_LLM_PROVIDER and the matching API key,\nor one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY."))
	}
	return router.Push(generate.New(h.deps.Generator, h.reporter(), h.deps.SaveDir))
}

func (h *HomeScreen) openHistory() tea.Cmd {
	if h.deps.Repo == nil {
		return router.Push(notice.New("History", "History is unavailable without a database."))
	}
	return router.Push(history.New(h.deps.Repo))
}

func (h *HomeScreen) Init() tea.Cmd {
	repo := h.deps.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		recent, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: statsWindow})
		if err != nil {
			return statsLoadedMsg{}
		}
		return statsLoadedMsg{stats: summarize(recent)}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		h.stats = msg.stats
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)
	compact := height < 20 || width < 90

	sections := []string{
		renderTitle(cw, compact),
		renderStats(h.stats, cw),
		lipgloss.NewStyle().Width(cw).Render(h.menu.View()),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
