package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/five82/sugarscan/internal/decoder"
	"github.com/five82/sugarscan/internal/prefs"
	"github.com/five82/sugarscan/internal/report"
	"github.com/five82/sugarscan/internal/state"
	"github.com/five82/sugarscan/internal/sugarscan"
)

const demoHint = "Try: 737628064502 (Trader Joe's Pad Thai), 041520893164 (Clif Bar), or 0016000119178"

// Options configures the UI.
type Options struct {
	Context  context.Context
	Analyzer sugarscan.Analyzer
	// NewScanner builds a fresh camera session per scan. Nil disables the
	// camera.
	NewScanner func() decoder.Scanner
	// ScanFPS is only shown in the camera overlay.
	ScanFPS   int
	Endpoint  string
	ThemeName string
	PrefsPath string
	// NewToken overrides request token generation in tests.
	NewToken func() string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	analyzer   sugarscan.Analyzer
	newScanner func() decoder.Scanner
	newToken   func() string
	scanFPS    int
	endpoint   string
	prefsPath  string
	keys       keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	modal  Modal

	// Page state
	page     state.Page
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// Active camera session; scanID tags its messages so a closed
	// session's late events are dropped.
	scanner decoder.Scanner
	scanID  int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	newToken := opts.NewToken
	if newToken == nil {
		newToken = uuid.NewString
	}

	input := textinput.New()
	input.Placeholder = "Enter barcode (e.g., 737628064502)"
	input.Prompt = "› "
	input.Focus()

	return Model{
		ctx:        ctx,
		analyzer:   opts.Analyzer,
		newScanner: opts.NewScanner,
		newToken:   newToken,
		scanFPS:    opts.ScanFPS,
		endpoint:   opts.Endpoint,
		prefsPath:  opts.PrefsPath,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(themeName),
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:   viewport.New(0, 0),
	}
}

// Page returns the current page state.
func (m Model) Page() state.Page {
	return m.page
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case analysisMsg:
		return m.handleAnalysis(msg)

	case scannerOpenedMsg:
		return m.handleScannerOpened(msg)

	case scannerEventMsg:
		return m.handleScannerEvent(msg)

	case scannerClosedMsg:
		if msg.err != nil {
			log.Printf("scanner %d: close: %v", msg.id, msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.modal != nil {
			next, cmd, _ := m.modal.Update(msg, m.keys)
			m.modal = next
			cmds = append(cmds, cmd)
		}
		if m.page.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.syncViewport()
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.shutdownScanner()
		return m, tea.Quit
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if !done {
			m.modal = next
			return m, cmd
		}
		if _, ok := m.modal.(scannerModal); ok {
			return m.cancelScanner()
		}
		m.modal = nil
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.modal = helpModal{keys: m.keys}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				log.Printf("save prefs: %v", err)
			}
		}
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Scan):
		return m.openScanner()

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.page = m.page.SetValue(m.input.Value())
	return m, cmd
}

// submit starts an analysis of the typed barcode.
func (m Model) submit() (tea.Model, tea.Cmd) {
	next, req, err := m.page.Submit(m.newToken())
	if err != nil {
		if !errors.Is(err, state.ErrEmptyInput) {
			log.Printf("submit ignored: %v", err)
		}
		return m, nil
	}
	return m.startAnalysis(next, req)
}

func (m Model) startAnalysis(next state.Page, req sugarscan.Request) (tea.Model, tea.Cmd) {
	m.page = next
	m.syncViewport()
	if m.analyzer == nil {
		m.page, _ = m.page.Resolve(req.Token, sugarscan.TransportError())
		m.syncViewport()
		return m, nil
	}
	return m, tea.Batch(analyzeCmd(m.ctx, m.analyzer, req), m.spinner.Tick)
}

func (m Model) handleAnalysis(msg analysisMsg) (tea.Model, tea.Cmd) {
	next, applied := m.page.Resolve(msg.token, msg.result)
	if !applied {
		log.Printf("dropping stale result for request %s", msg.token)
		return m, nil
	}
	m.page = next
	m.syncViewport()
	m.viewport.GotoTop()
	return m, nil
}

// openScanner shows the camera overlay and starts a new session.
func (m Model) openScanner() (tea.Model, tea.Cmd) {
	if m.newScanner == nil {
		m.page = m.page.ScannerFailed("Camera scanning is not available")
		return m, nil
	}
	next, err := m.page.OpenScanner()
	if err != nil {
		log.Printf("open scanner ignored: %v", err)
		return m, nil
	}
	m.page = next
	m.scanID++
	m.scanner = m.newScanner()
	modal := newScannerModal(m.scanFPS)
	m.modal = modal
	m.input.Blur()
	return m, tea.Batch(openScannerCmd(m.ctx, m.scanID, m.scanner), modal.spinner.Tick)
}

// cancelScanner closes the overlay without a decode.
func (m Model) cancelScanner() (tea.Model, tea.Cmd) {
	m.page = m.page.CloseScanner()
	cmd := m.releaseScanner()
	m.input.SetValue(m.page.Barcode)
	m.input.CursorEnd()
	return m, tea.Batch(cmd, m.input.Focus())
}

// releaseScanner drops the active session and returns a command closing it.
func (m *Model) releaseScanner() tea.Cmd {
	m.modal = nil
	sc := m.scanner
	m.scanner = nil
	if sc == nil {
		return nil
	}
	return closeScannerCmd(m.scanID, sc)
}

func (m *Model) shutdownScanner() {
	if m.scanner == nil {
		return
	}
	if err := m.scanner.Close(); err != nil {
		log.Printf("scanner %d: close on quit: %v", m.scanID, err)
	}
	m.scanner = nil
}

func (m Model) handleScannerOpened(msg scannerOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.scanID || m.scanner == nil {
		return m, nil
	}
	if msg.err != nil {
		log.Printf("scanner %d: open: %v", msg.id, msg.err)
		m.page = m.page.ScannerFailed(cameraNotice(msg.err))
		cmd := m.releaseScanner()
		m.input.SetValue(m.page.Barcode)
		return m, tea.Batch(cmd, m.input.Focus())
	}
	if modal, ok := m.modal.(scannerModal); ok {
		modal.scanning = true
		m.modal = modal
	}
	return m, waitScannerCmd(msg.id, m.scanner)
}

func (m Model) handleScannerEvent(msg scannerEventMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.scanID || m.scanner == nil {
		return m, nil
	}

	if msg.ok && msg.event.Kind == decoder.EventDecoded {
		log.Printf("scanner %d: decoded %q", msg.id, msg.event.Text)
		next, req, err := m.page.Decoded(msg.event.Text, m.newToken())
		closeCmd := m.releaseScanner()
		m.input.SetValue(next.Barcode)
		m.input.CursorEnd()
		focus := m.input.Focus()
		if err != nil {
			m.page = next
			return m, tea.Batch(closeCmd, focus)
		}
		model, cmd := m.startAnalysis(next, req)
		return model, tea.Batch(closeCmd, focus, cmd)
	}

	notice := "Camera stopped"
	if msg.ok && msg.event.Err != nil {
		log.Printf("scanner %d: stopped: %v", msg.id, msg.event.Err)
		notice = cameraNotice(msg.event.Err)
	}
	m.page = m.page.ScannerFailed(notice)
	cmd := m.releaseScanner()
	m.input.SetValue(m.page.Barcode)
	return m, tea.Batch(cmd, m.input.Focus())
}

func cameraNotice(err error) string {
	msg := err.Error()
	if errors.Is(err, decoder.ErrCameraUnavailable) {
		msg = strings.TrimPrefix(msg, decoder.ErrCameraUnavailable.Error()+": ")
		return "Camera unavailable: " + truncate(msg, 80)
	}
	return truncate(msg, 96)
}

// resize fits the viewport to the window.
func (m *Model) resize() {
	w := m.contentWidth()
	m.viewport.Width = w
	m.viewport.Height = maxInt(m.height-chromeHeight, 1)
	m.input.Width = maxInt(w-8, 8)
	m.syncViewport()
}

func (m Model) contentWidth() int {
	return clampWidth(minInt(m.width, MaxContentWidth))
}

// syncViewport re-renders the result area for the current page.
func (m *Model) syncViewport() {
	styles := m.theme.Styles()
	w := m.contentWidth()

	var content string
	switch {
	case m.page.Loading:
		content = m.spinner.View() + " " +
			styles.MutedText.Render("Analyzing "+m.page.ResultBarcode+"...")
	case m.page.Result != nil:
		content = renderResultLine(styles, m.page.ResultBarcode, m.page.ResultAt, w) + "\n" +
			RenderReport(m.theme, report.Build(*m.page.Result), w)
	default:
		content = renderEmptyState(styles, w)
	}
	content += "\n\n" + styles.FaintText.Render(truncate(poweredBy, w))
	m.viewport.SetContent(content)
}

// renderResultLine labels the shown result with its barcode and time.
func renderResultLine(styles Styles, barcode string, at time.Time, width int) string {
	line := "Result for " + barcode
	if !at.IsZero() {
		line += " at " + at.Format("15:04:05")
	}
	return styles.FaintText.Render(truncate(line, width))
}

// renderMain renders the full screen.
func (m Model) renderMain() string {
	styles := m.theme.Styles()
	w := m.contentWidth()

	field := styles.Input.Width(w - 2).Render(m.input.View())

	var action string
	if m.page.Loading {
		action = styles.WarningText.Render(m.spinner.View() + "Analyzing...")
	} else if m.page.CanSubmit() {
		action = styles.AccentText.Bold(true).Render("enter") + styles.Text.Render(" Scan")
	} else {
		action = styles.FaintText.Render("enter Scan")
	}
	camera := styles.FaintText.Render("ctrl+s Use camera")
	if !m.page.Loading && m.newScanner != nil {
		camera = styles.AccentText.Render("ctrl+s") + styles.Text.Render(" Use camera")
	}
	hints := action + "   " + camera
	if rest := w - lipgloss.Width(hints) - 3; rest > 10 {
		hints += "   " + styles.FaintText.Render(truncate(demoHint, rest))
	}

	notice := ""
	if m.page.Notice != "" {
		notice = styles.WarningText.Render("! " + truncate(m.page.Notice, w-2))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		field,
		hints,
		notice,
		m.viewport.View(),
	)
	body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

// Messages

type analysisMsg struct {
	token  string
	result sugarscan.Result
}

type scannerOpenedMsg struct {
	id  int
	err error
}

type scannerEventMsg struct {
	id    int
	event decoder.Event
	ok    bool
}

type scannerClosedMsg struct {
	id  int
	err error
}

// Commands

func analyzeCmd(ctx context.Context, analyzer sugarscan.Analyzer, req sugarscan.Request) tea.Cmd {
	return func() tea.Msg {
		return analysisMsg{token: req.Token, result: analyzer.Analyze(ctx, req)}
	}
}

func openScannerCmd(ctx context.Context, id int, sc decoder.Scanner) tea.Cmd {
	return func() tea.Msg {
		return scannerOpenedMsg{id: id, err: sc.Open(ctx)}
	}
}

func waitScannerCmd(id int, sc decoder.Scanner) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sc.Events()
		return scannerEventMsg{id: id, event: ev, ok: ok}
	}
}

func closeScannerCmd(id int, sc decoder.Scanner) tea.Cmd {
	return func() tea.Msg {
		return scannerClosedMsg{id: id, err: sc.Close()}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.shutdownScanner()
	}
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
