package home

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/quizcard/internal/questiongen"
	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/screens/generate"
	"github.com/abhisek/quizcard/internal/screens/history"
	"github.com/abhisek/quizcard/internal/screens/notice"
	quizscreen "github.com/abhisek/quizcard/internal/screens/quiz"
	"github.com/abhisek/quizcard/internal/store"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, questiongen.Input) ([]quiz.Item, error) {
	return nil, nil
}

func openRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

// selectItem moves the cursor down n times, presses Enter and returns the
// pushed screen.
func selectItem(t *testing.T, h *HomeScreen, n int) screen.Screen {
	t.Helper()
	for range n {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	return msg.Screen
}

func TestHome_Play(t *testing.T) {
	h := New(Deps{Bank: quiz.Builtin()})
	if _, ok := selectItem(t, h, 0).(*quizscreen.QuizScreen); !ok {
		t.Error("PLAY should open the quiz screen")
	}
}

func TestHome_PlayShuffled(t *testing.T) {
	h := New(Deps{Bank: quiz.Builtin(), Shuffle: true, Rand: rand.New(rand.NewPCG(1, 1))})
	scr, ok := selectItem(t, h, 0).(*quizscreen.QuizScreen)
	if !ok {
		t.Fatal("PLAY should open the quiz screen")
	}
	if scr.Title() != quiz.Builtin().Title {
		t.Errorf("unexpected title %q", scr.Title())
	}
}

func TestHome_GenerateNeedsProvider(t *testing.T) {
	h := New(Deps{Bank: quiz.Builtin()})
	if _, ok := selectItem(t, h, 1).(*notice.NoticeScreen); !ok {
		t.Error("expected a notice without a generator")
	}

	h = New(Deps{Bank: quiz.Builtin(), Generator: stubGenerator{}})
	if _, ok := selectItem(t, h, 1).(*generate.GenerateScreen); !ok {
		t.Error("expected the generate screen")
	}
}

func TestHome_History(t *testing.T) {
	h := New(Deps{Bank: quiz.Builtin()})
	if _, ok := selectItem(t, h, 2).(*notice.NoticeScreen); !ok {
		t.Error("expected a notice without a repo")
	}

	h = New(Deps{Bank: quiz.Builtin(), Repo: openRepo(t)})
	if _, ok := selectItem(t, h, 2).(*history.HistoryScreen); !ok {
		t.Error("expected the history screen")
	}
}

func TestHome_Stats(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	events := []store.SessionEventData{
		{SessionID: "a", Action: store.ActionStart, BankTitle: "t"},
		{SessionID: "a", Action: store.ActionEnd, QuestionsServed: 4, CorrectAnswers: 3},
	}
	for _, ev := range events {
		if err := repo.AppendSessionEvent(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	h := New(Deps{Bank: quiz.Builtin(), Repo: repo})
	h.Update(h.Init()())

	out := ansi.Strip(h.View(120, 40))
	if !strings.Contains(out, "1 PLAYED") || !strings.Contains(out, "75% CORRECT") {
		t.Errorf("unexpected stats:\n%s", out)
	}
	if !strings.Contains(out, "PLAY") || !strings.Contains(out, "questions") {
		t.Errorf("menu missing:\n%s", out)
	}
}

func TestHome_Quit(t *testing.T) {
	h := New(Deps{Bank: quiz.Builtin()})
	for range 3 {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
