// Package tui provides the Bubble Tea ear-training interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuear/internal/audio"
	"github.com/verte-zerg/tuear/internal/model"
	"github.com/verte-zerg/tuear/internal/quiz"
)

const (
	tabIntervals = iota
	tabNotes
	tabChords
	tabScales
	tabCount
)

var (
	tabTitles   = [tabCount]string{"Intervals", "Notes", "Chords", "Scales"}
	tabItems    = [tabCount]string{"an interval", "a note", "a chord", "a scale"}
	gridColumns = [tabCount]int{7, 8, 4, 3}
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	buttonStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	selectedButtonStyle = buttonStyle.Foreground(lipgloss.Color("#C89A3A")).Bold(true).Underline(true)
	correctStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBF7F"))
	incorrectStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	feedbackStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type playDoneMsg struct {
	err error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	engine *quiz.Engine
	player audio.Player
	logger *slog.Logger
	now    func() time.Time

	mode      model.Mode
	startedAt time.Time

	keys keyMap
	help help.Model

	width  int
	height int

	active   int
	options  [tabCount][]string
	cursor   [tabCount]int
	feedback [tabCount]string
	outcome  [tabCount]quiz.Verdict
	lastCue  [tabCount]model.Cue

	notes  model.Tally
	chords model.Tally
	scales model.Tally

	cancelPlay context.CancelFunc
	playErr    string
}

// NewModel constructs a practice TUI model. mode selects the first tab; a nil
// player makes the UI silent and a nil logger discards diagnostics.
func NewModel(engine *quiz.Engine, player audio.Player, mode model.Mode, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cat := engine.Catalog()
	m := &Model{
		engine: engine,
		player: player,
		logger: logger,
		now:    time.Now,
		mode:   mode,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	m.startedAt = m.now()
	m.options[tabIntervals] = cat.IntervalNames()
	m.options[tabNotes] = cat.NoteNames()
	for _, sh := range cat.Chords() {
		m.options[tabChords] = append(m.options[tabChords], sh.Name)
	}
	for _, sh := range cat.Scales() {
		m.options[tabScales] = append(m.options[tabScales], sh.Name)
	}
	m.active = tabForMode(mode)
	return m
}

func tabForMode(mode model.Mode) int {
	for i, md := range model.Modes {
		if md == mode {
			return i
		}
	}
	return tabIntervals
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case playDoneMsg:
		m.handlePlayDone(msg.err)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopPlayback()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextTab):
		m.active = (m.active + 1) % tabCount
	case key.Matches(msg, m.keys.PrevTab):
		m.active = (m.active + tabCount - 1) % tabCount
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-gridColumns[m.active])
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(gridColumns[m.active])
	case key.Matches(msg, m.keys.Play):
		return m, m.generate()
	case key.Matches(msg, m.keys.Answer):
		m.answer(m.cursor[m.active])
	case key.Matches(msg, m.keys.Replay):
		return m, m.replay()
	case key.Matches(msg, m.keys.Review):
		return m, m.review()
	case key.Matches(msg, m.keys.Achievements):
		m.showInfo(m.engine.Achievement().Message())
	case key.Matches(msg, m.keys.Focus):
		hardest := m.engine.HardestInterval()
		m.showInfo(fmt.Sprintf("Focus on: %s (based on performance)", m.options[tabIntervals][hardest]))
	case key.Matches(msg, m.keys.Stats):
		m.showInfo(formatStats(m.engine.Summary()))
	case key.Matches(msg, m.keys.Goal):
		p := m.engine.StreakAndGoal()
		m.showInfo(fmt.Sprintf("Streak: %d (Max: %d)\nDaily Progress: %d/%d", p.Streak, p.MaxStreak, p.DailyProgress, p.DailyGoal))
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.options[m.active])
	if n == 0 {
		return
	}
	next := m.cursor[m.active] + delta
	if next < 0 || next >= n {
		return
	}
	m.cursor[m.active] = next
}

// generate draws a new item for the active tab. The engine's pending question
// is set before the playback command is returned.
func (m *Model) generate() tea.Cmd {
	var cue model.Cue
	switch m.active {
	case tabIntervals:
		_, cue = m.engine.GenerateInterval()
	case tabNotes:
		_, cue = m.engine.GenerateNote()
	case tabChords:
		_, cue = m.engine.GenerateChord()
	case tabScales:
		_, cue = m.engine.GenerateScale()
	}
	m.lastCue[m.active] = cue
	m.setFeedback(m.active, fmt.Sprintf("%s played.", strings.TrimSuffix(tabTitles[m.active], "s")), quiz.NoQuestion)
	return m.play(cue)
}

func (m *Model) replay() tea.Cmd {
	cue := m.lastCue[m.active]
	if len(cue.Notes) == 0 {
		m.setFeedback(m.active, noQuestionText(m.active), quiz.NoQuestion)
		return nil
	}
	return m.play(cue)
}

func (m *Model) review() tea.Cmd {
	m.active = tabIntervals
	q, cue, ok := m.engine.ReviewNextMistake()
	if !ok {
		m.setFeedback(tabIntervals, "No mistakes to review!", quiz.NoQuestion)
		return nil
	}
	m.lastCue[tabIntervals] = cue
	m.setFeedback(tabIntervals, fmt.Sprintf("Reviewing: %s", m.options[tabIntervals][q.Interval]), quiz.NoQuestion)
	return m.play(cue)
}

func (m *Model) answer(choice int) {
	if choice < 0 || choice >= len(m.options[m.active]) {
		return
	}
	var out quiz.Outcome
	switch m.active {
	case tabIntervals:
		out = m.engine.CheckInterval(choice)
	case tabNotes:
		out = m.engine.CheckNote(choice)
		tally(&m.notes, out.Verdict)
	case tabChords:
		out = m.engine.CheckChord(m.options[tabChords][choice])
		tally(&m.chords, out.Verdict)
	case tabScales:
		out = m.engine.CheckScale(m.options[tabScales][choice])
		tally(&m.scales, out.Verdict)
	}
	switch out.Verdict {
	case quiz.Correct:
		m.setFeedback(m.active, "Correct!", out.Verdict)
	case quiz.Wrong:
		m.setFeedback(m.active, fmt.Sprintf("Wrong! It was: %s", out.AnswerName), out.Verdict)
	default:
		m.setFeedback(m.active, noQuestionText(m.active), out.Verdict)
	}
}

func tally(t *model.Tally, v quiz.Verdict) {
	switch v {
	case quiz.Correct:
		t.Correct++
	case quiz.Wrong:
		t.Wrong++
	}
}

func (m *Model) showInfo(text string) {
	m.active = tabIntervals
	m.setFeedback(tabIntervals, text, quiz.NoQuestion)
}

func (m *Model) setFeedback(tab int, text string, v quiz.Verdict) {
	m.feedback[tab] = text
	m.outcome[tab] = v
}

func noQuestionText(tab int) string {
	return fmt.Sprintf("Press space to play %s first.", tabItems[tab])
}

func (m *Model) play(cue model.Cue) tea.Cmd {
	if m.player == nil || len(cue.Notes) == 0 {
		return nil
	}
	m.stopPlayback()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelPlay = cancel
	player := m.player
	return func() tea.Msg {
		return playDoneMsg{err: player.Play(ctx, cue)}
	}
}

func (m *Model) stopPlayback() {
	if m.cancelPlay != nil {
		m.cancelPlay()
		m.cancelPlay = nil
	}
}

func (m *Model) handlePlayDone(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	m.logger.Error("playback failed", "err", err)
	m.playErr = err.Error()
}

// Session returns what was practiced since the model was created.
func (m *Model) Session() (model.SessionStats, []model.IntervalStats) {
	p := m.engine.StreakAndGoal()
	stats := model.SessionStats{
		StartedAt:     m.startedAt,
		EndedAt:       m.now(),
		Mode:          m.mode,
		DailyGoal:     p.DailyGoal,
		DailyProgress: p.DailyProgress,
		MaxStreak:     p.MaxStreak,
		Notes:         m.notes,
		Chords:        m.chords,
		Scales:        m.scales,
	}
	snapshot := m.engine.Snapshot()
	intervals := make([]model.IntervalStats, 0, len(snapshot))
	for i, s := range snapshot {
		intervals = append(intervals, model.IntervalStats{Interval: i, Correct: s.Correct, Wrong: s.Wrong})
	}
	return stats, intervals
}

// Answered reports whether anything was graded this session.
func (m *Model) Answered() bool {
	if m.notes != (model.Tally{}) || m.chords != (model.Tally{}) || m.scales != (model.Tally{}) {
		return true
	}
	return m.engine.Summary().Attempts > 0
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		m.renderTabs(),
		m.renderGrid(),
		m.renderFeedback(),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter() + "\n" + m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := max(m.height-footerHeight, 1)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, title := range tabTitles {
		if i == m.active {
			parts = append(parts, activeNavStyle.Render(title))
		} else {
			parts = append(parts, inactiveNavStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderGrid() string {
	opts := m.options[m.active]
	cols := gridColumns[m.active]
	width := 0
	for _, o := range opts {
		width = max(width, lipgloss.Width(o))
	}
	var rows []string
	for start := 0; start < len(opts); start += cols {
		end := min(start+cols, len(opts))
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			style := buttonStyle
			if i == m.cursor[m.active] {
				style = selectedButtonStyle
			}
			cells = append(cells, style.Width(width+2).Render(opts[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return "\n" + strings.Join(rows, "\n") + "\n"
}

func (m *Model) renderFeedback() string {
	text := m.feedback[m.active]
	if text == "" {
		text = fmt.Sprintf("Press space to play %s.", tabItems[m.active])
	}
	switch m.outcome[m.active] {
	case quiz.Correct:
		return correctStyle.Render(text)
	case quiz.Wrong:
		return incorrectStyle.Render(text)
	default:
		return feedbackStyle.Render(text)
	}
}

func (m *Model) renderFooter() string {
	p := m.engine.StreakAndGoal()
	r := m.engine.Summary()
	segments := []string{
		fmt.Sprintf("Streak %d (max %d)", p.Streak, p.MaxStreak),
		fmt.Sprintf("Goal %d/%d", p.DailyProgress, p.DailyGoal),
		fmt.Sprintf("Accuracy %.1f%%", r.Accuracy),
		m.engine.Achievement().String(),
	}
	if n := len(m.engine.Mistakes()); n > 0 {
		segments = append(segments, fmt.Sprintf("%d to review", n))
	}
	if m.playErr != "" {
		segments = append(segments, incorrectStyle.Render("audio: "+m.playErr))
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func formatStats(r quiz.Report) string {
	lines := []string{fmt.Sprintf("Stats: Total: %d, Correct: %d, Accuracy: %.1f%%", r.Attempts, r.Correct, r.Accuracy)}
	for _, line := range r.Intervals {
		lines = append(lines, fmt.Sprintf("%s: %d/%d (%d%%)", line.Name, line.Correct, line.Attempts, line.Accuracy))
	}
	return strings.Join(lines, "\n")
}
