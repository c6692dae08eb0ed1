package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/aura-go/internal/conversation"
	"github.com/raphaelgruber/aura-go/internal/fleet"
	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive concierge session",
	Long: `Start an interactive chat session with the Aura concierge.

Keys:
  enter      send message
  esc        cancel the in-flight request
  ctrl+r     retry the last message
  ctrl+n     start a new conversation
  f1..f3     pick a suggested follow-up
  ctrl+c     quit`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("chat requires an interactive terminal")
	}

	ctx := context.Background()
	manager, err := newManager(ctx)
	if err != nil {
		return err
	}
	fleetSvc, err := newFleetService(ctx)
	if err != nil {
		return err
	}

	model := newChatModel(manager, fleetSvc)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	// Archive and cancel whatever is still in flight.
	manager.Clear(ctx)
	return nil
}

// Theme holds the color scheme for the chat display.
type Theme struct {
	User    lipgloss.Color
	Agent   lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Widget  lipgloss.Color
	Pending lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:    lipgloss.Color("#5FAFD7"), // light blue
	Agent:   lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Widget:  lipgloss.Color("#AF87FF"), // purple
	Pending: lipgloss.Color("#FFAF00"), // amber
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) agentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Agent)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) widgetStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Widget)
}

// storeEventMsg carries one conversation store event into the UI loop.
type storeEventMsg conversation.Event

// chatModel is the bubbletea model for the chat session.
type chatModel struct {
	manager  *conversation.Manager
	fleet    *fleet.Service
	input    textinput.Model
	spinner  spinner.Model
	theme    Theme
	events   <-chan conversation.Event
	unsub    func()
	lastReq  string
	errLine  string
	quitting bool
}

func newChatModel(manager *conversation.Manager, fleetSvc *fleet.Service) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about your fleet, service, or test drives"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	events, unsub := manager.Store().Subscribe()

	return chatModel{
		manager: manager,
		fleet:   fleetSvc,
		input:   ti,
		spinner: sp,
		theme:   defaultTheme,
		events:  events,
		unsub:   unsub,
	}
}

// Init returns the initial commands (event pump and spinner).
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		m.waitForEvent(),
		m.spinner.Tick,
	)
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.unsub()
			return m, tea.Quit

		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			return m.send(prompt)

		case "esc":
			if m.lastReq != "" {
				m.manager.Cancel(m.lastReq)
				m.lastReq = ""
			}
			return m, nil

		case "ctrl+r":
			id, err := m.manager.Retry(context.Background())
			if err != nil {
				m.errLine = err.Error()
				return m, nil
			}
			m.errLine = ""
			m.lastReq = id
			return m, nil

		case "ctrl+n":
			m.manager.Clear(context.Background())
			m.lastReq = ""
			m.errLine = ""
			return m, nil

		case "f1", "f2", "f3":
			idx := int(msg.String()[1] - '1')
			if prompt := m.followUp(idx); prompt != "" {
				return m.send(prompt)
			}
			return m, nil
		}

	case storeEventMsg:
		// The transcript is re-read from the store on every render; the
		// event only wakes the loop.
		return m, m.waitForEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send submits a prompt, remembering the request id for esc cancellation.
func (m chatModel) send(prompt string) (tea.Model, tea.Cmd) {
	if prompt == "" {
		return m, nil
	}
	id, err := m.manager.Send(context.Background(), prompt, "")
	if err != nil {
		m.errLine = err.Error()
		return m, nil
	}
	m.errLine = ""
	m.lastReq = id
	return m, nil
}

// followUp returns the idx-th suggested follow-up of the last resolved agent
// turn, or empty.
func (m chatModel) followUp(idx int) string {
	turns := m.manager.Store().Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Sender != models.SenderAgent || turns[i].Tool == nil {
			continue
		}
		followUps := turns[i].Tool.SuggestedFollowUps()
		if idx < len(followUps) {
			return followUps[idx]
		}
		return ""
	}
	return ""
}

// waitForEvent blocks on the store subscription as a command.
func (m chatModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return storeEventMsg(ev)
	}
}

// View renders the chat display.
func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m chatModel) renderContent() string {
	if m.quitting {
		return m.theme.hintStyle().Render("Goodbye.\n")
	}

	var b strings.Builder
	b.WriteString(m.theme.agentStyle().Render("Aura Concierge") + "\n\n")

	turns := m.manager.Store().Turns()
	if len(turns) == 0 {
		b.WriteString(m.theme.hintStyle().Render("Say hello, or ask to see your fleet.") + "\n")
	}
	for i := range turns {
		b.WriteString(m.renderTurn(&turns[i]))
	}

	if m.manager.Store().Busy() {
		b.WriteString(m.spinner.View() + m.theme.hintStyle().Render(" thinking... (esc to cancel)") + "\n")
	}

	if m.errLine != "" {
		b.WriteString(m.theme.errorStyle().Render("! "+m.errLine) + "\n")
	}

	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(m.theme.hintStyle().Render("enter send · ctrl+r retry · ctrl+n new · ctrl+c quit") + "\n")
	return b.String()
}

// renderTurn formats one transcript entry.
func (m chatModel) renderTurn(t *models.Turn) string {
	if t.Sender == models.SenderUser {
		return m.theme.userStyle().Render("you ") + t.Text + "\n"
	}

	if t.Error != "" {
		return m.theme.errorStyle().Render("aura "+t.Error) + "\n"
	}
	if t.Pending() {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.agentStyle().Render("aura ") + t.Text + "\n")
	if t.Tool != nil {
		b.WriteString(m.renderWidget(t.Tool))
		for i, f := range t.Tool.SuggestedFollowUps() {
			b.WriteString(m.theme.hintStyle().Render(fmt.Sprintf("  f%d: %s", i+1, f)) + "\n")
		}
	}
	return b.String()
}

// renderWidget prints a text stand-in for the widget a browser client would
// show for the tool call.
func (m chatModel) renderWidget(tool *models.ToolCall) string {
	style := m.theme.widgetStyle()
	switch tool.Name {
	case intent.ToolViewFleet:
		var b strings.Builder
		for _, v := range m.fleet.Vehicles(context.Background()) {
			b.WriteString(style.Render(fmt.Sprintf("  %s  %s", v.Model, v.VIN)) + "\n")
		}
		return b.String()
	case intent.ToolAddVehicle:
		model, _ := tool.Payload["model"].(string)
		vin, _ := tool.Payload["vin"].(string)
		return style.Render(fmt.Sprintf("  [add vehicle] %s %s", model, vin)) + "\n"
	case intent.ToolBookService:
		vin, _ := tool.Payload["vin"].(string)
		urgency, _ := tool.Payload["urgency"].(string)
		return style.Render(fmt.Sprintf("  [book service] %s · %s", vin, urgency)) + "\n"
	case intent.ToolBookTestDrive:
		model, _ := tool.Payload["model"].(string)
		return style.Render("  [book test drive] "+model) + "\n"
	case intent.ToolRequestCall:
		topic, _ := tool.Payload["topic"].(string)
		return style.Render("  [request call] "+topic) + "\n"
	case intent.ToolShowGenericInfo:
		title, _ := tool.Payload["title"].(string)
		return style.Render("  "+title) + "\n"
	case intent.ToolViewVehicleDetails:
		vin, _ := tool.Payload["vin"].(string)
		if d := m.fleet.Details(context.Background(), vin); d != nil {
			return style.Render(fmt.Sprintf("  %s · %d %s range · %d %s battery",
				d.Model, d.Range.Estimate, d.Range.Unit, d.Battery.Capacity, d.Battery.Unit)) + "\n"
		}
		return style.Render("  [vehicle details] "+vin) + "\n"
	case intent.ToolViewServiceHistory:
		vin, _ := tool.Payload["vin"].(string)
		var b strings.Builder
		for _, r := range m.fleet.History(context.Background(), vin) {
			b.WriteString(style.Render(fmt.Sprintf("  %s  %s ($%.0f)", r.Date, r.Service, r.Cost)) + "\n")
		}
		return b.String()
	default:
		return style.Render("  [unknown tool: "+tool.Name+"]") + "\n"
	}
}
