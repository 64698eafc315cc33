// Package card is a terminal card for a single application: badge, stage
// track, progress and an animated match score.
package card

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/johnwards/niyog/pkg/domain"
	"github.com/johnwards/niyog/pkg/pipeline"
)

// MatchScoreDuration is how long the match score takes to count up.
const MatchScoreDuration = 1500 * time.Millisecond

const progressWidth = 30

// ApplicationClient is the subset of the API client the card needs.
type ApplicationClient interface {
	GetApplication(ctx context.Context, id string) (*domain.Application, error)
	AdvanceApplication(ctx context.Context, id string) (*domain.Application, error)
}

type loadedMsg struct {
	app *domain.Application
	err error
}

type advancedMsg struct {
	app *domain.Application
	err error
}

type copyResultMsg struct {
	err error
}

type frameMsg struct{}

// Model is the bubbletea model of the card.
type Model struct {
	client ApplicationClient
	id     string

	app     *domain.Application
	err     error
	flash   string
	loading bool

	frames []int
	frame  int

	// copy writes text to the system clipboard.
	copy func(string) error
}

// New creates a card for application id.
func New(c ApplicationClient, id string) Model {
	return Model{client: c, id: id, loading: true, copy: clipboard.WriteAll}
}

// Init loads the application.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	c, id := m.client, m.id
	return func() tea.Msg {
		app, err := c.GetApplication(context.Background(), id)
		return loadedMsg{app: app, err: err}
	}
}

func frameTickCmd() tea.Cmd {
	return tea.Tick(pipeline.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.app = msg.app
		m.frames = slices.Collect(pipeline.AnimateDisplayValue(msg.app.MatchScore, MatchScoreDuration))
		m.frame = 0
		return m, frameTickCmd()

	case frameMsg:
		if m.frame < len(m.frames)-1 {
			m.frame++
		}
		if m.frame < len(m.frames)-1 {
			return m, frameTickCmd()
		}
		return m, nil

	case advancedMsg:
		if msg.err != nil {
			m.flash = "Advance failed: " + msg.err.Error()
			return m, nil
		}
		m.app = msg.app
		m.flash = "Advanced to " + string(msg.app.Status)
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.flash = "Copy failed: " + msg.err.Error()
		} else {
			m.flash = "Copied summary to clipboard"
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.flash = ""
		return m, m.load()
	case "c":
		if m.app == nil {
			return m, nil
		}
		text, write := Summary(m.app), m.copy
		return m, func() tea.Msg {
			return copyResultMsg{err: write(text)}
		}
	case "a":
		if m.app == nil {
			return m, nil
		}
		c, id := m.client, m.app.ID
		return m, func() tea.Msg {
			app, err := c.AdvanceApplication(context.Background(), id)
			return advancedMsg{app: app, err: err}
		}
	}
	return m, nil
}

// DisplayedScore is the match score currently shown by the animation.
func (m Model) DisplayedScore() int {
	if len(m.frames) == 0 {
		return 0
	}
	return m.frames[m.frame]
}

// View renders the card.
func (m Model) View() string {
	if m.loading {
		return dimStyle.Render("Loading application " + m.id + "...")
	}
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n" + dimStyle.Render("r retry · q quit")
	}

	app := m.app
	var b strings.Builder
	b.WriteString(titleStyle.Render(app.Company+" - "+app.JobTitle) + "  ")
	if app.Pipeline != nil {
		b.WriteString(renderBadge(app.Pipeline.Badge))
	}
	b.WriteString("\n\n")
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%d%%", m.DisplayedScore())) + dimStyle.Render(" match"))
	b.WriteString("\n\n")
	b.WriteString(renderStages(app.Stages))
	b.WriteString("\n\n")
	if app.Pipeline != nil {
		b.WriteString(renderProgress(app.Pipeline.ProgressFraction, progressWidth))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d", app.Pipeline.CompletedCount, app.Pipeline.TotalStages)))
		b.WriteString("\n\n")
	}
	b.WriteString(dimStyle.Render(app.Location + "   " + app.Salary))

	out := frameStyle.Render(b.String()) + "\n"
	if m.flash != "" {
		out += m.flash + "\n"
	}
	return out + dimStyle.Render("a advance · c copy · r refresh · q quit")
}

// Summary is the plain-text form of an application copied by the card.
func Summary(app *domain.Application) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", app.Company, app.JobTitle)
	if app.Pipeline != nil {
		fmt.Fprintf(&b, "Status: %s (%d/%d stages, %.0f%%)\n",
			app.Pipeline.Badge, app.Pipeline.CompletedCount, app.Pipeline.TotalStages,
			app.Pipeline.ProgressFraction*100)
	}
	fmt.Fprintf(&b, "Match: %d%%\n", app.MatchScore)
	if app.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", app.Location)
	}
	if app.Salary != "" {
		fmt.Fprintf(&b, "Salary: %s\n", app.Salary)
	}
	return b.String()
}
