// Package router keeps the stack of screens and routes messages to the top
// one.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizcard/internal/screen"
)

// PushScreenMsg pushes Screen on top of the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg pops the top screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen, so Esc from the new
// screen returns to the one below.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// PopToRootMsg pops every screen but the first.
type PopToRootMsg struct{}

// Push, Pop and Replace return a command emitting the navigation message.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

func Pop() tea.Msg { return PopScreenMsg{} }

func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

func PopToRoot() tea.Msg { return PopToRootMsg{} }

type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

// Push adds s and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. The root is never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace swaps the top screen. Replacing the root keeps depth 1.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

func (r *Router) PopToRoot() tea.Cmd {
	r.stack = r.stack[:1]
	return nil
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
