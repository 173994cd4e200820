package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/annals/lang"
	"github.com/ardnew/annals/log"
	"github.com/ardnew/annals/scribe"
)

// editGrammarMsg is sent when grammar editing completes successfully.
type editGrammarMsg struct{ scribe *scribe.Scribe }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a load
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-load error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help             Print this cruft
  list             List cognates
  tag KEY=VALUE    Set a context tag
  untag KEY        Remove a context tag
  bind NAME=VALUE  Bind a variable
  unbind NAME      Remove a variable
  seed [N]         Draw from a seeded source (no N: unseeded)
  context          Show context tags and variables
  edit             Edit the grammar in external $EDITOR
  clear            Clear screen
  quit             Exit REPL

Usage:
  Type a cognate name to generate it, or rule text to expand it
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between generate and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	scribe           *scribe.Scribe
	options          []scribe.Option // rebuild the grammar after edit
	session          *scribe.Context // tags and variables set by commands
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts the REPL over the grammar held by s.
//
// Every input is generated under a clone of session, so tags merged by a
// generation do not carry over to the next. The options are used to build
// a new grammar when it is edited.
func Run(
	ctx context.Context,
	s *scribe.Scribe,
	session *scribe.Context,
	cacheDir string,
	logger log.Logger,
	opts ...scribe.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("cognates", s.Len()),
	)

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, s, session, history, logger, opts...)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *scribe.Scribe,
	session *scribe.Context,
	history *History,
	logger log.Logger,
	opts ...scribe.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	if session == nil {
		session = scribe.NewContext()
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		scribe:     s,
		options:    opts,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editGrammarMsg:
		m.scribe = msg.scribe
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("cognates", m.scribe.Len()),
		)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("✔ grammar reloaded (%d cognates)", m.scribe.Len())))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	input := m.input.Value()
	cursor := m.input.Position()

	viewingHistory := m.historyIdx < m.history.Len()
	body, inSubst := openSubstitution(input, cursor)

	switch {
	case viewingHistory:
		pos := m.historyIdx + 1 // 1-based for display
		total := m.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render(
				"Type a cognate name or rule text, or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: help, list, tag, bind, context, quit (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))

	case inSubst && m.mode == modeEval:
		b.WriteString(renderHint(describe(body)))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			m.altNavActive = false

			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.altNavActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1)
		}

		return m.historyStep(-1)

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1)
		}

		return m.historyStep(1)

	case tea.KeyShiftUp:
		return m.historyInMode(-1)

	case tea.KeyShiftDown:
		return m.historyInMode(1)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Space breaks tab-cycling and keeps the current candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle steps the selected completion candidate by dir (1 or -1).
func (m model) cycle(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl generate",
		slog.String("input", input),
	)

	echoCmd := tea.Println(formatCommand(input))

	result, err := m.generate(input)
	if err != nil {
		return m, tea.Sequence(echoCmd, tea.Println(renderError(err)))
	}

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(result)))
}

// generate expands input under a clone of the session context. Input that
// names a cognate generates it; anything else is expanded as rule text.
func (m model) generate(input string) (string, error) {
	c := m.session.Clone()

	if lang.ValidName(input) {
		if _, ok := m.scribe.Cognate(input); ok {
			return m.scribe.GenerateWith(m.ctxFunc(), input, c)
		}
	}

	return m.scribe.ExpandWith(m.ctxFunc(), input, c)
}

// renderError renders err, followed by a caret diagnostic for rule syntax
// errors.
func renderError(err error) string {
	s := errorStyle.Render("error: " + err.Error())

	var perr *lang.ParseError
	if errors.As(err, &perr) && perr.HasSpan() {
		s += "\n" + hintStyle.Render(strings.TrimSuffix(perr.Diagnostic(), "\n"))
	}

	return s
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	reply := func(s string) (model, tea.Cmd) {
		return m, tea.Sequence(echoCmd, tea.Println(s))
	}

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return reply(helpMessage())

	case "l", "list":
		return reply(m.listCognates())

	case "tag", "bind":
		for _, arg := range args {
			key, val, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				return reply(errorStyle.Render("expected KEY=VALUE: " + arg))
			}

			if cmd == "tag" {
				m.session.Set(key, val)
			} else {
				m.session.Bind(key, val)
			}
		}

		return reply(m.contextView())

	case "untag", "unbind":
		for _, key := range args {
			if cmd == "untag" {
				m.session.Unset(key)
			} else {
				m.session.Unbind(key)
			}
		}

		return reply(m.contextView())

	case "seed":
		if len(args) == 0 {
			m.session.SetRand(nil)

			return reply(hintStyle.Render("unseeded"))
		}

		seed, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return reply(errorStyle.Render("invalid seed: " + args[0]))
		}

		m.session.SetRand(rand.New(rand.NewPCG(seed, 0))) //nolint:gosec

		return reply(hintStyle.Render("seeded with " + args[0]))

	case "context", "ctx":
		return reply(m.contextView())

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editGrammarCommand{
		scribe:  m.scribe,
		opts:    m.options,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.result == nil {
			return editCancelledMsg{}
		}

		return editGrammarMsg{scribe: cmd.result}
	})
}

// recall loads history entry i into the input, switching mode if needed.
func (m model) recall(i int, switchMode bool) model {
	entry, err := m.history.GetEntry(i)
	if err != nil {
		return m
	}

	if switchMode && m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// historyEnd leaves history navigation with input set to text.
func (m model) historyEnd(text string, cursor int) model {
	m.historyIdx = m.history.Len()
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	refreshMatches(&m, false)

	return m
}

// historyStep moves through the whole history by dir (1 or -1).
func (m model) historyStep(dir int) (model, tea.Cmd) {
	next := m.historyIdx + dir

	switch {
	case next < 0:
		return m, nil

	case next >= m.history.Len():
		if m.historyIdx < m.history.Len() {
			m = m.historyEnd("", 0)
		}

		return m, nil
	}

	return m.recall(next, true), nil
}

// find returns the next history index after from in direction dir whose
// entry was entered in mode, or -1.
func (m model) find(from, dir int, mode inputMode) int {
	for i := from + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == mode {
			return i
		}
	}

	return -1
}

// historyInMode moves through entries of the current mode only.
func (m model) historyInMode(dir int) (model, tea.Cmd) {
	if i := m.find(m.historyIdx, dir, m.mode); i >= 0 {
		return m.recall(i, false), nil
	}

	// Reached end of mode-specific history, clear input
	if dir > 0 && m.historyIdx < m.history.Len() {
		m = m.historyEnd("", 0)
	}

	return m, nil
}

// historyCtrl moves through command history from any mode, restoring the
// original mode and input when either end is reached.
func (m model) historyCtrl(dir int) (model, tea.Cmd) {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if i := m.find(m.historyIdx, dir, modeCtrl); i >= 0 {
		return m.recall(i, false), nil
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m, _ = m.switchToMode(m.altNavOrigMode)
	}

	return m.historyEnd(m.altNavOrigText, m.altNavOrigCursor), nil
}

func (m model) listCognates() string {
	var b strings.Builder

	for cog := range m.scribe.Cognates() {
		groups := 0
		tags := map[string]bool{}

		for g := range cog.Groups() {
			groups++

			for k, v := range g.Tags() {
				tags[k+"="+v] = true
			}
		}

		fmt.Fprintf(&b, "  %s %s\n", cog.Name(),
			hintStyle.Render(formatPreview(groups, cog.Len(), slices.Sorted(maps.Keys(tags)))))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no cognates)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// contextView lists the session tags and variables.
func (m model) contextView() string {
	var b strings.Builder

	section := func(title string, kv map[string]string) {
		b.WriteString(hintStyle.Render(title))
		b.WriteString("\n")

		if len(kv) == 0 {
			b.WriteString(hintStyle.Render("  (none)"))
			b.WriteString("\n")
		}

		for _, k := range slices.Sorted(maps.Keys(kv)) {
			fmt.Fprintf(&b, "  %s = %s\n", k, resultStyle.Render(kv[k]))
		}
	}

	section("tags:", m.session.Tags())
	section("variables:", m.session.Bindings())

	return strings.TrimSuffix(b.String(), "\n")
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
