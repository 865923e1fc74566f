package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizcard/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func titles(r *Router) []string {
	var out []string
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func TestNavigation(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	quiz := &stubScreen{title: "quiz"}
	r.Update(PushScreenMsg{Screen: quiz})
	if r.Depth() != 2 || !quiz.initRan {
		t.Fatalf("push failed: %v", titles(r))
	}

	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})
	if r.Depth() != 2 || r.Active() != summary || !summary.initRan {
		t.Fatalf("replace failed: %v", titles(r))
	}

	r.Update(PopScreenMsg{})
	if r.Active() != home {
		t.Fatalf("pop failed: %v", titles(r))
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 {
		t.Errorf("root must never be popped, depth %d", r.Depth())
	}
}

func TestPopToRoot(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "a"})
	r.Push(&stubScreen{title: "b"})

	r.Update(PopToRoot())
	if r.Depth() != 1 || r.Active() != home {
		t.Errorf("expected only home, got %v", titles(r))
	}
}

func TestReplaceRoot(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Replace(&stubScreen{title: "second"})
	if r.Depth() != 1 || r.Active().Title() != "second" {
		t.Errorf("unexpected stack %v", titles(r))
	}
}

func TestForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	top := &stubScreen{title: "top"}
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if len(top.got) != 1 || len(home.got) != 0 {
		t.Errorf("message should reach only the active screen: top=%d home=%d", len(top.got), len(home.got))
	}
	if r.View(10, 10) != "top" {
		t.Errorf("unexpected view %q", r.View(10, 10))
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "s"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Error("Push should emit PushScreenMsg")
	}
	if msg, ok := Replace(s)().(ReplaceScreenMsg); !ok || msg.Screen != s {
		t.Error("Replace should emit ReplaceScreenMsg")
	}
	if _, ok := Pop().(PopScreenMsg); !ok {
		t.Error("Pop should emit PopScreenMsg")
	}
}
