package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/wasteland-engine/internal/handlers"
	"github.com/jwebster45206/wasteland-engine/internal/services/events"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
)

const (
	PlaceHolderText = "¿Qué haces? (/ayuda para ver los comandos)"
	healthBarWidth  = 14
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	api          *APIClient
	game         *handlers.GameView
	worldID      string
	logViewport  viewport.Model
	sideViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	pending      string
	notice       string
	lastEvent    string

	// World selection state
	showWorldModal bool
	worlds         []handlers.WorldSummary
	selectedWorld  int
	loadingWorlds  bool

	showQuitModal     bool
	showRestartPrompt bool

	events     chan events.Event
	stopEvents context.CancelFunc

	progressTick int
}

type worldsLoadedMsg struct {
	worlds []handlers.WorldSummary
	err    error
}

type gameCreatedMsg struct {
	resp *handlers.TurnResponse
	err  error
}

type turnMsg struct {
	resp *handlers.TurnResponse
	err  error
}

type eventMsg struct {
	ch chan events.Event
	ev events.Event
	ok bool
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // amber
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("130")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("214")).
				Bold(true)
)

// log entry colors by kind
var entryStyles = map[state.LogKind]lipgloss.Style{
	state.LogPlayer:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true), // teal
	state.LogSystem:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	state.LogInfo:      lipgloss.NewStyle().Foreground(lipgloss.Color("86")),  // green
	state.LogError:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
	state.LogCombat:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")), // orange
	state.LogEnemyTurn: lipgloss.NewStyle().Foreground(lipgloss.Color("161")), // crimson
}

func NewConsoleUI(cfg *ConsoleConfig, api *APIClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render("> ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	return ConsoleUI{
		config:         cfg,
		api:            api,
		worldID:        cfg.World,
		textarea:       ta,
		logViewport:    logVp,
		sideViewport:   viewport.New(20, 20),
		showWorldModal: true,
		loadingWorlds:  cfg.World == "",
		loading:        cfg.World != "",
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.worldID != "" {
		return m.createGame(m.worldID)
	}
	return m.loadWorlds()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// events arrive regardless of which screen is showing
	if msg, ok := msg.(eventMsg); ok {
		return m.handleEvent(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	if m.showWorldModal {
		return m.updateWorldModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.showQuitModal = true
			return m, nil
		}

		if m.showRestartPrompt {
			return m.updateRestartPrompt(msg)
		}

		if m.loading {
			// input is disabled while a turn is pending; scrolling still works
			switch msg.Type {
			case tea.KeyPgUp, tea.KeyPgDown:
				m.logViewport, vpCmd = m.logViewport.Update(msg)
			}
			return m, vpCmd
		}

		if msg.Type == tea.KeyEnter {
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.err = nil
			m.notice = ""
			m.loading = true
			m.pending = input
			m.progressTick = 0
			m.textarea.Blur()
			m.refresh()
			return m, tea.Batch(m.sendCommand(input), progressTick())
		}

		// letters belong to the input; only paging keys scroll the log
		switch msg.Type {
		case tea.KeyPgUp, tea.KeyPgDown:
			m.logViewport, vpCmd = m.logViewport.Update(msg)
			return m, vpCmd
		}
		m.textarea, tiCmd = m.textarea.Update(msg)
		return m, tiCmd

	case turnMsg:
		m.loading = false
		m.pending = ""
		m.textarea.Focus()
		if msg.err != nil {
			m.err = msg.err
			if IsStatus(msg.err, http.StatusNotFound) {
				// the session expired on the server
				m.notice = "La partida ya no existe en el servidor. Escribe /reiniciar para empezar otra."
			}
		} else {
			m.setGame(&msg.resp.Game)
		}
		m.refresh()
		return m, textarea.Blink

	case gameCreatedMsg:
		return m.handleGameCreated(msg)

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.refresh()
			return m, progressTick()
		}
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.Fields(input)[0])

	switch cmd {
	case "/ayuda", "/help":
		m.notice = helpText
	case "/reiniciar", "/restart":
		return m.restart()
	case "/salir", "/quit":
		m.stopListening()
		return m, tea.Quit
	case "/copiar", "/copy":
		if m.game == nil {
			break
		}
		if err := clipboard.WriteAll(plainLog(m.game.Log)); err != nil {
			m.notice = errorStyle.Render("No se pudo copiar el registro: " + err.Error())
		} else {
			m.notice = fmt.Sprintf("Registro copiado al portapapeles (%d entradas).", len(m.game.Log))
		}
	default:
		m.notice = errorStyle.Render("Comando desconocido: "+cmd) + "\nEscribe /ayuda para ver los comandos."
	}

	m.refresh()
	return m, nil
}

const helpText = `Comandos de la consola:
• /ayuda     muestra esta ayuda
• /reiniciar empieza una partida nueva
• /copiar    copia el registro al portapapeles
• /salir     cierra la consola

Cómo jugar:
• Escribe lo que quieres hacer: "mira", "ve al norte", "coge la llave", "ataca al mutante"
• Usa objetos del inventario: "usa la venda", "equipa la tubería"`

func (m ConsoleUI) restart() (tea.Model, tea.Cmd) {
	m.showRestartPrompt = false
	m.loading = true
	m.pending = ""
	m.notice = ""
	m.err = nil
	m.stopListening()

	old := m.game
	worldID := m.worldID
	api := m.api
	m.refresh()
	return m, tea.Batch(func() tea.Msg {
		ctx := context.Background()
		if old != nil {
			// a missing game is fine; expired sessions restart too
			if err := api.DeleteGame(ctx, old.ID); err != nil && !IsStatus(err, http.StatusNotFound) {
				return gameCreatedMsg{nil, err}
			}
		}
		resp, err := api.CreateGame(ctx, worldID)
		return gameCreatedMsg{resp, err}
	}, progressTick())
}

func (m ConsoleUI) updateRestartPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.restart()
	}
	switch strings.ToLower(msg.String()) {
	case "s", "y":
		return m.restart()
	case "n":
		m.stopListening()
		return m, tea.Quit
	}
	return m, nil
}

func (m ConsoleUI) handleGameCreated(msg gameCreatedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		m.refresh()
		return m, nil
	}

	m.showWorldModal = false
	m.err = nil
	m.worldID = msg.resp.Game.WorldID
	m.setGame(&msg.resp.Game)
	m.lastEvent = ""
	if m.width > 0 && m.height > 0 {
		m.resize()
		m.ready = true
	}
	m.textarea.Focus()
	m.refresh()

	listen := m.startListening()
	return m, tea.Batch(textarea.Blink, listen)
}

func (m *ConsoleUI) setGame(g *handlers.GameView) {
	m.game = g
	m.showRestartPrompt = g.Status.IsGameOver
}

// startListening opens the event stream for the current game. A failed
// stream only loses the side panel activity line.
func (m *ConsoleUI) startListening() tea.Cmd {
	if m.game == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan events.Event, 16)
	m.events = ch
	m.stopEvents = cancel

	api := m.api
	id := m.game.ID
	go func() {
		_ = api.ListenEvents(ctx, id, ch)
		close(ch)
	}()
	return waitForEvent(ch)
}

func (m *ConsoleUI) stopListening() {
	if m.stopEvents != nil {
		m.stopEvents()
		m.stopEvents = nil
	}
	m.events = nil
}

func waitForEvent(ch chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return eventMsg{ch: ch, ev: ev, ok: ok}
	}
}

func (m ConsoleUI) handleEvent(msg eventMsg) (tea.Model, tea.Cmd) {
	// events from a stream that was replaced by a restart are dropped
	if !msg.ok || msg.ch != m.events {
		return m, nil
	}
	m.lastEvent = describeEvent(msg.ev)
	m.refresh()
	return m, waitForEvent(msg.ch)
}

// describeEvent renders a turn event as a one-line activity note.
func describeEvent(ev events.Event) string {
	switch ev.Type {
	case events.EventTypeTurnProcessing:
		return fmt.Sprintf("Procesando: %v", ev.Data["command"])
	case events.EventTypeTurnCompleted:
		return fmt.Sprintf("Turno completado (%v entradas)", ev.Data["entries"])
	case events.EventTypeTurnFailed:
		return fmt.Sprintf("Turno fallido: %v", ev.Data["error"])
	case events.EventTypeGameOver:
		return "Fin de la partida"
	default:
		return string(ev.Type)
	}
}

func (m ConsoleUI) sendCommand(input string) tea.Cmd {
	api := m.api
	id := m.game.ID
	return func() tea.Msg {
		resp, err := api.SendCommand(context.Background(), id, input)
		return turnMsg{resp, err}
	}
}

func (m ConsoleUI) loadWorlds() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		worlds, err := api.ListWorlds(context.Background())
		return worldsLoadedMsg{worlds, err}
	}
}

func (m ConsoleUI) createGame(worldID string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		resp, err := api.CreateGame(context.Background(), worldID)
		return gameCreatedMsg{resp, err}
	}
}

func (m ConsoleUI) updateWorldModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case worldsLoadedMsg:
		m.loadingWorlds = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.worlds = msg.worlds
		}

	case gameCreatedMsg:
		return m.handleGameCreated(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.loadingWorlds || m.err != nil {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil
		}

		if m.loadingWorlds || m.loading || m.err != nil {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyUp:
			if m.selectedWorld > 0 {
				m.selectedWorld--
			}
		case tea.KeyDown:
			if m.selectedWorld < len(m.worlds)-1 {
				m.selectedWorld++
			}
		case tea.KeyEnter:
			if len(m.worlds) > 0 {
				m.loading = true
				return m, m.createGame(m.worlds[m.selectedWorld].ID)
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.showWorldModal {
			m.resize()
			m.refresh()
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			m.stopListening()
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
			return m, nil
		}
		switch strings.ToLower(msg.String()) {
		case "s", "y":
			m.stopListening()
			return m, tea.Quit
		case "n":
			m.showQuitModal = false
			if m.showWorldModal {
				return m, nil
			}
			m.textarea.Focus()
			return m, textarea.Blink
		}

	default:
		// keep async results flowing while the modal is up
		switch msg.(type) {
		case turnMsg, gameCreatedMsg, worldsLoadedMsg, progressTickMsg:
			m.showQuitModal = false
			next, cmd := m.Update(msg)
			ui := next.(ConsoleUI)
			ui.showQuitModal = true
			return ui, cmd
		}
	}

	return m, nil
}

// layout returns the widths of the log and side panels
func (m ConsoleUI) layout() (int, int) {
	logWidth := int(float64(m.width)*0.70) - 4
	sideWidth := m.width - logWidth - 6
	return logWidth, sideWidth
}

func (m *ConsoleUI) resize() {
	logWidth, sideWidth := m.layout()
	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 7
	m.sideViewport.Width = sideWidth - 2
	m.sideViewport.Height = m.height - 3
	m.textarea.SetWidth(logWidth - 4)
}

// refresh rebuilds both panels for the current width and state
func (m *ConsoleUI) refresh() {
	width := m.logViewport.Width - 4
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	if m.game != nil {
		content.WriteString(titleStyle.Render(strings.ToUpper(m.game.Title)) + "\n\n")
		content.WriteString(renderLog(m.game.Log, width))
	}

	if m.loading && m.pending != "" {
		content.WriteString("\n\n" + entryStyles[state.LogPlayer].Render(wordwrap.String("> "+m.pending, width)))
	}
	if m.loading {
		content.WriteString("\n\n" + m.renderProgressBar())
	}
	if m.err != nil {
		content.WriteString("\n\n" + errorStyle.Render(wordwrap.String("Error: "+m.err.Error(), width)))
	}
	if m.notice != "" {
		content.WriteString("\n\n" + wordwrap.String(m.notice, width))
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()

	if m.game != nil {
		m.sideViewport.SetContent(writeStatus(m.game, m.lastEvent, m.sideViewport.Width))
	}
}

// renderLog formats the adventure log. Each player command starts a new
// paragraph.
func renderLog(entries []state.LogEntry, width int) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			if e.Kind == state.LogPlayer {
				b.WriteString("\n\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(renderEntry(e, width))
	}
	return b.String()
}

func renderEntry(e state.LogEntry, width int) string {
	text := e.Text
	if e.Kind == state.LogPlayer {
		text = "> " + text
	}
	style, ok := entryStyles[e.Kind]
	if !ok {
		style = entryStyles[state.LogSystem]
	}
	return style.Render(wordwrap.String(text, width))
}

// plainLog is the log as plain text for the clipboard
func plainLog(entries []state.LogEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind == state.LogPlayer {
			lines = append(lines, "> "+e.Text)
			continue
		}
		lines = append(lines, e.Text)
	}
	return strings.Join(lines, "\n")
}

// healthBar draws a fixed width bar followed by "cur/max".
func healthBar(cur, max, width int) string {
	if max <= 0 {
		max = 1
	}
	if cur < 0 {
		cur = 0
	}
	filled := cur * width / max
	if cur > 0 && filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %d/%d", cur, max)
}

func healthStyle(cur, max int) lipgloss.Style {
	switch {
	case max > 0 && cur*2 > max:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	case max > 0 && cur*4 > max:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	}
}

func writeStatus(g *handlers.GameView, lastEvent string, width int) string {
	st := g.Status
	var content strings.Builder
	content.WriteString(titleStyle.Render("ESTADO") + "\n\n")

	content.WriteString(labelStyle.Render("Salud") + "\n")
	content.WriteString(healthStyle(st.PlayerHealth, st.MaxPlayerHealth).Render(healthBar(st.PlayerHealth, st.MaxPlayerHealth, healthBarWidth)) + "\n\n")

	content.WriteString(labelStyle.Render("Ubicación") + "\n")
	content.WriteString(wordwrap.String(st.Location, width) + "\n\n")

	content.WriteString(labelStyle.Render("Arma") + "\n")
	if st.Weapon != "" {
		content.WriteString(st.Weapon + "\n\n")
	} else {
		content.WriteString("Puños\n\n")
	}

	if st.Enemy != "" {
		content.WriteString(labelStyle.Render("En combate") + "\n")
		content.WriteString(wordwrap.String(st.Enemy, width) + "\n")
		content.WriteString(healthStyle(st.EnemyHealth, st.EnemyMaxHealth).Render(healthBar(st.EnemyHealth, st.EnemyMaxHealth, healthBarWidth)) + "\n\n")
	}

	content.WriteString(labelStyle.Render("Inventario") + "\n")
	if len(g.Inventory) == 0 {
		content.WriteString("Vacío\n")
	}
	for _, name := range g.Inventory {
		content.WriteString(wordwrap.String("• "+name, width) + "\n")
	}

	if st.IsGameOver {
		content.WriteString("\n" + errorStyle.Render("HAS MUERTO") + "\n")
	}

	if lastEvent != "" {
		content.WriteString("\n" + promptStyle.Render(wordwrap.String(lastEvent, width)) + "\n")
	}

	content.WriteString("\n" + promptStyle.Render("Partida "+g.ID.String()[:8]) + "\n")
	content.WriteString(promptStyle.Render("Esc: salir • /ayuda") + "\n")

	return content.String()
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Cargando..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("¿Salir?"))
	content.WriteString("\n\n")
	content.WriteString("La partida seguirá en el servidor hasta que caduque.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("S para salir, N para seguir jugando"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderWorldModal() string {
	if m.width == 0 || m.height == 0 {
		return "Cargando..."
	}

	var content strings.Builder

	switch {
	case m.loadingWorlds:
		content.WriteString(modalTitleStyle.Render("Cargando mundos..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
		content.WriteString("\n\n")
		content.WriteString("Pulsa Esc para salir")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Creando partida..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Preparando el páramo..."))
	default:
		content.WriteString(modalTitleStyle.Render("Elige un mundo"))
		content.WriteString("\n\n")
		for i, w := range m.worlds {
			line := fmt.Sprintf("%s (%s)", w.Title, w.ID)
			if i == m.selectedWorld {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
			} else {
				content.WriteString(modalItemStyle.Render("  " + line))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("↑/↓ para moverte, Enter para elegir, Esc para salir"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showWorldModal {
		return m.renderWorldModal()
	}

	if !m.ready {
		return "\n  Iniciando..."
	}

	logWidth, sideWidth := m.layout()

	input := m.textarea.View()
	if m.showRestartPrompt {
		input = errorStyle.Render("Fin de la partida.") + " " + loadingStyle.Render("¿Jugar de nuevo? (s/n)")
	}

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 1))),
			input,
		),
	)

	sidePanel := sidePanelStyle.Width(sideWidth).Height(m.height - 2).Render(
		m.sideViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, sidePanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 60 {
		usable = 60
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
