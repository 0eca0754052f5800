// ABOUTME: Intervention library picker as a bubbletea model
// ABOUTME: Loads the listing and lets the user choose an exercise to run

package intervention

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-health/firefly-cli/internal/client"
	"github.com/firefly-health/firefly-cli/internal/tui/icons"
	"github.com/firefly-health/firefly-cli/internal/tui/styles"
	"github.com/firefly-health/firefly-cli/internal/tui/widgets"
)

// PickedMsg is sent when the user selects an intervention to run
type PickedMsg struct {
	Intervention client.Intervention
}

// loadedMsg carries the library listing
type loadedMsg struct {
	interventions []client.Intervention
	err           error
}

// Picker lists the intervention library. A target emotion, usually carried
// over from the latest check-in, narrows the listing server-side.
type Picker struct {
	api    *client.Client
	filter client.InterventionFilter

	items   []client.Intervention
	cursor  int
	loading bool
	spin    spinner.Model
	errMsg  string
	width   int
}

// NewPicker creates a picker that loads on Init
func NewPicker(api *client.Client, filter client.InterventionFilter) *Picker {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Picker{api: api, filter: filter, loading: true, spin: sp}
}

// Selected returns the intervention under the cursor
func (p *Picker) Selected() (client.Intervention, bool) {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return client.Intervention{}, false
	}
	return p.items[p.cursor], true
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.load())
}

func (p *Picker) load() tea.Cmd {
	api := p.api
	filter := p.filter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		interventions, err := api.Interventions(ctx, filter)
		return loadedMsg{interventions: interventions, err: err}
	}
}

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case loadedMsg:
		p.loading = false
		if msg.err != nil {
			p.errMsg = errorMessage(msg.err)
			return p, nil
		}
		p.errMsg = ""
		p.items = msg.interventions
		if p.cursor >= len(p.items) {
			p.cursor = 0
		}
		return p, nil

	case spinner.TickMsg:
		if p.loading {
			var cmd tea.Cmd
			p.spin, cmd = p.spin.Update(msg)
			return p, cmd
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
		case "enter":
			if in, ok := p.Selected(); ok {
				return p, func() tea.Msg { return PickedMsg{Intervention: in} }
			}
		case "r":
			p.loading = true
			p.errMsg = ""
			return p, tea.Batch(p.spin.Tick, p.load())
		case "esc", "q":
			return p, func() tea.Msg { return CancelledMsg{} }
		}
	}
	return p, nil
}

// View implements tea.Model
func (p *Picker) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Intervention Library", icons.Wizard)))
	b.WriteString("\n")
	if p.filter.TargetEmotion != "" {
		b.WriteString(styles.Subtitle.Render("Suggested for feeling " + p.filter.TargetEmotion))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case p.loading:
		b.WriteString(fmt.Sprintf("%s Loading interventions...\n", p.spin.View()))
	case p.errMsg != "":
		b.WriteString(styles.ErrorBanner.Render(fmt.Sprintf("%s %s", icons.Warning, p.errMsg)))
		b.WriteString("\n")
		b.WriteString(styles.Help.Render(fmt.Sprintf("%s retry", styles.KeyStyle.Render("r"))))
	case len(p.items) == 0:
		b.WriteString(styles.Subtitle.Render("Nothing matched. Try widening the filters."))
	default:
		for i, in := range p.items {
			line := fmt.Sprintf("%s (%s · %s effort)", in.Name,
				widgets.FormatSeconds(in.DurationSeconds), in.EffortLevel)
			if i == p.cursor {
				b.WriteString(styles.KeyStyle.Render("> " + line))
				b.WriteString("\n")
				if in.ShortDescription != "" {
					b.WriteString("    " + styles.Subtitle.Render(in.ShortDescription))
					b.WriteString("\n")
				}
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(fmt.Sprintf("%s/%s move · %s start · %s back",
		styles.KeyStyle.Render("↑"), styles.KeyStyle.Render("↓"),
		styles.KeyStyle.Render("enter"), styles.KeyStyle.Render("esc"))))

	return b.String()
}
