// Package generate asks an LLM for a new quiz on a topic and lets the
// player start it straight away.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/questiongen"
	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	quizscreen "github.com/abhisek/quizcard/internal/screens/quiz"
	"github.com/abhisek/quizcard/internal/session"
	"github.com/abhisek/quizcard/internal/ui/components"
	"github.com/abhisek/quizcard/internal/ui/layout"
	"github.com/abhisek/quizcard/internal/ui/theme"
)

const (
	DefaultCount   = 5
	DefaultOptions = 4
)

type phase int

const (
	phaseInput phase = iota
	phaseGenerating
	phaseReady
)

type generatedMsg struct {
	Bank  *quiz.Bank
	Saved string
	Err   error
}

// GenerateScreen collects a topic, runs the generator and offers the new
// bank for play.
type GenerateScreen struct {
	generator questiongen.Generator
	reporter  session.Reporter
	saveDir   string

	phase   phase
	input   components.TextInput
	count   int
	spinner spinner.Model

	bank   *quiz.Bank
	saved  string
	errMsg string
}

var _ screen.Screen = (*GenerateScreen)(nil)
var _ screen.KeyHintProvider = (*GenerateScreen)(nil)

// New creates the screen. When saveDir is set, generated banks are written
// there as YAML.
func New(gen questiongen.Generator, reporter session.Reporter, saveDir string) *GenerateScreen {
	return &GenerateScreen{
		generator: gen,
		reporter:  reporter,
		saveDir:   saveDir,
		input:     components.NewTextInput("Topic", "e.g. the solar system", 80),
		count:     DefaultCount,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Cursor)),
	}
}

func (s *GenerateScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *GenerateScreen) Title() string {
	return "New Quiz"
}

func (s *GenerateScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseInput:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate"},
			{Key: "↑↓", Description: "Questions"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseReady:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Play"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (s *GenerateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		if msg.Err != nil {
			s.phase = phaseInput
			s.input.SetError(msg.Err.Error())
			return s, nil
		}
		s.phase = phaseReady
		s.bank = msg.Bank
		s.saved = msg.Saved
		return s, nil

	case spinner.TickMsg:
		if s.phase != phaseGenerating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseInput {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *GenerateScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseInput:
		switch msg.String() {
		case "up":
			s.count = min(s.count+1, questiongen.MaxCount)
			return s, nil
		case "down":
			s.count = max(s.count-1, 1)
			return s, nil
		case "enter":
			topic := s.input.Value()
			if topic == "" {
				s.input.SetError("topic is required")
				return s, nil
			}
			s.phase = phaseGenerating
			return s, tea.Batch(s.generate(topic, s.count), s.spinner.Tick)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseReady:
		if msg.String() == "enter" {
			sess, err := session.FromBank(s.bank, s.reporter)
			if err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			return s, router.Replace(quizscreen.New(sess))
		}
	}
	return s, nil
}

func (s *GenerateScreen) generate(topic string, count int) tea.Cmd {
	gen, dir := s.generator, s.saveDir
	return func() tea.Msg {
		items, err := gen.Generate(context.Background(), questiongen.Input{
			Topic:   topic,
			Count:   count,
			Options: DefaultOptions,
		})
		if err != nil {
			return generatedMsg{Err: err}
		}
		bank, err := questiongen.BuildBank(topic, items)
		if err != nil {
			return generatedMsg{Err: err}
		}
		saved, err := save(dir, bank)
		if err != nil {
			return generatedMsg{Err: err}
		}
		return generatedMsg{Bank: bank, Saved: saved}
	}
}

// save writes bank to dir/<topic slug>.yaml and returns the path,
// or "" when dir is empty.
func save(dir string, bank *quiz.Bank) (string, error) {
	if dir == "" {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save bank: %w", err)
	}
	name := strings.TrimSuffix(bank.Items[0].ID, "-1") + ".yaml"
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save bank: %w", err)
	}
	defer f.Close()
	if err := quiz.Write(f, bank, quiz.FormatYAML); err != nil {
		return "", fmt.Errorf("save bank: %w", err)
	}
	return path, nil
}

func (s *GenerateScreen) View(width, height int) string {
	var b strings.Builder

	switch s.phase {
	case phaseInput:
		b.WriteString(theme.Title.Render("Generate a quiz"))
		b.WriteString("\n\n")
		b.WriteString(s.input.View())
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render(fmt.Sprintf("Questions: %d", s.count)))
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   (%d options each)", DefaultOptions)))

	case phaseGenerating:
		b.WriteString(s.spinner.View())
		b.WriteString(" ")
		b.WriteString(theme.Body.Render(fmt.Sprintf("Writing %d questions about %s...", s.count, s.input.Value())))

	case phaseReady:
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Ready: %s", s.bank.Title)))
		b.WriteString("\n\n")
		for i, it := range s.bank.Items {
			b.WriteString(theme.Body.Render(fmt.Sprintf("%d. %s", i+1, it.Text)))
			b.WriteString("\n")
		}
		if s.saved != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("Saved to " + s.saved))
		}
		if s.errMsg != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Incorrect.Render(s.errMsg))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
