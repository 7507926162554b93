// internal/wizard/wizard.go
// Package wizard implements the interactive four-step gateway workflow:
// Setup, Ingest, Query, Result. It owns the session state snapshot and
// converts every gateway call into an asynchronous command with a
// success/error message pair.
package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragdeck/internal/appconfig"
	"ragdeck/internal/collector"
	"ragdeck/internal/gateway"
	"ragdeck/internal/logging"
	"ragdeck/internal/session"
)

// gatewayAPI is the slice of the gateway client the wizard drives.
// Narrowing it here lets tests substitute a fake.
type gatewayAPI interface {
	Setup(ctx context.Context, req gateway.SetupRequest) (*gateway.SetupResult, error)
	Ingest(ctx context.Context, documents []gateway.Document) (*gateway.IngestResult, error)
	Query(ctx context.Context, req gateway.QueryRequest) (*gateway.QueryResult, error)
}

// dialFunc builds a gateway client for the given base address.
type dialFunc func(base string) gatewayAPI

// statusKind tags a status line for styling.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// slot names one of the three per-step status lines.
type slot int

const (
	slotSetup slot = iota
	slotIngest
	slotQuery
	slotCount
)

// statusLine is one status slot's visible text plus severity.
type statusLine struct {
	text string
	kind statusKind
}

// Setup form field indices.
const (
	fieldBase = iota
	fieldIndex
	fieldDimension
	fieldChunkSize
	fieldOverlap
	fieldEf
	fieldNLists
	fieldIterations
	fieldMaxTokens
	setupFieldCount
)

var setupFieldLabels = [setupFieldCount]string{
	"Gateway address",
	"Index kind (hnsw or ivf)",
	"Dimension",
	"Chunk size",
	"Overlap",
	"ef (hnsw only)",
	"n_lists (ivf only)",
	"iterations (ivf only)",
	"Generator max tokens",
}

// Query form field indices.
const (
	queryFieldQuestion = iota
	queryFieldK
	queryFieldNProbe
	queryFieldCount
)

var queryFieldLabels = [queryFieldCount]string{
	"Question",
	"Results (k)",
	"n_probe (ivf only)",
}

// Ingest form focus order: files, label, manual text.
const ingestFieldCount = 3

// Model is the Bubble Tea model for the wizard.
type Model struct {
	ctx    context.Context
	cfg    *appconfig.Config
	dial   dialFunc
	state  session.State
	status [slotCount]statusLine

	setupInputs [setupFieldCount]textinput.Model
	queryInputs [queryFieldCount]textinput.Model
	filesInput  textinput.Model
	labelInput  textinput.Model
	manualText  textarea.Model
	focusIndex  int

	viewport      viewport.Model
	spinner       spinner.Model
	isLoading     bool
	width, height int

	requestStartTime time.Time
}

// Messages produced by the asynchronous gateway commands.
type (
	setupDoneMsg  struct{ result *gateway.SetupResult }
	setupErrMsg   struct{ error }
	ingestDoneMsg struct{ result *gateway.IngestResult }
	ingestErrMsg  struct{ error }
	queryDoneMsg  struct{ result *gateway.QueryResult }
	queryErrMsg   struct{ error }
)

// New creates the wizard model in its initial state.
func New(cfg *appconfig.Config) *Model {
	timeout := cfg.RequestTimeout()
	m := &Model{
		ctx: context.Background(),
		cfg: cfg,
		dial: func(base string) gatewayAPI {
			return gateway.New(base, timeout)
		},
	}
	m.resetAll()
	return m
}

// resetAll restores the full initial state: session defaults, cleared
// forms, cleared status slots, empty result panel.
func (m *Model) resetAll() {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	m.spinner = s

	m.state = session.NewState()
	if m.cfg != nil {
		m.state = m.state.WithGatewayBase(m.cfg.GatewayBase())
	}
	m.status = [slotCount]statusLine{}
	m.isLoading = false

	for i := range m.setupInputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		m.setupInputs[i] = ti
	}
	m.setupInputs[fieldBase].SetValue(m.state.GatewayBase)
	m.setupInputs[fieldIndex].Placeholder = string(gateway.IndexHNSW)
	m.setupInputs[fieldDimension].Placeholder = strconv.Itoa(gateway.DefaultDimension)
	m.setupInputs[fieldChunkSize].Placeholder = strconv.Itoa(gateway.DefaultChunkSize)
	m.setupInputs[fieldOverlap].Placeholder = strconv.Itoa(gateway.DefaultOverlap)
	m.setupInputs[fieldEf].Placeholder = strconv.Itoa(gateway.DefaultHNSWEf)
	m.setupInputs[fieldNLists].Placeholder = strconv.Itoa(gateway.DefaultIVFNLists)
	m.setupInputs[fieldIterations].Placeholder = strconv.Itoa(gateway.DefaultIVFIters)

	for i := range m.queryInputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 512
		m.queryInputs[i] = ti
	}
	m.queryInputs[queryFieldQuestion].Placeholder = "Ask something about the ingested documents..."
	kDefault := gateway.DefaultQueryK
	if m.cfg != nil {
		kDefault = m.cfg.QueryK()
	}
	m.queryInputs[queryFieldK].Placeholder = strconv.Itoa(kDefault)

	m.filesInput = textinput.New()
	m.filesInput.Prompt = ""
	m.filesInput.CharLimit = 1024
	m.filesInput.Placeholder = "comma-separated file paths"

	m.labelInput = textinput.New()
	m.labelInput.Prompt = ""
	m.labelInput.CharLimit = 128
	m.labelInput.Placeholder = collector.DefaultManualLabel

	m.manualText = textarea.New()
	m.manualText.Placeholder = "Paste text to ingest..."
	m.manualText.SetHeight(5)

	m.viewport = viewport.New(80, 16)
	if m.width > 0 {
		m.resize(m.width, m.height)
	}
	m.viewport.SetContent(renderResult(nil, m.viewport.Width))

	m.focusIndex = 0
	m.syncFocus()
}

// setStatus writes a status slot. Empty text clears the slot; an
// out-of-range slot is ignored.
func (m *Model) setStatus(target slot, text string, kind statusKind) {
	if target < 0 || target >= slotCount {
		return
	}
	m.status[target] = statusLine{text: text, kind: kind}
}

// navigate maps an action token onto the session state. Unknown tokens
// are a no-op.
func (m *Model) navigate(action string) {
	if action == session.ActionRestart {
		m.resetAll()
		return
	}
	next := m.state.Navigate(action)
	if next.Step != m.state.Step {
		m.state = next
		m.focusIndex = 0
		m.syncFocus()
	}
}

// clampFocus wraps the focus index over the current step's field count.
func (m *Model) fieldCount() int {
	switch m.state.Step {
	case session.StepSetup:
		return setupFieldCount
	case session.StepIngest:
		return ingestFieldCount
	case session.StepQuery:
		return queryFieldCount
	default:
		return 0
	}
}

// cycleFocus moves field focus by delta, wrapping around the form.
func (m *Model) cycleFocus(delta int) {
	count := m.fieldCount()
	if count == 0 {
		return
	}
	m.focusIndex = (m.focusIndex + delta + count) % count
	m.syncFocus()
}

// syncFocus focuses exactly the field the focus index points at.
func (m *Model) syncFocus() {
	for i := range m.setupInputs {
		m.setupInputs[i].Blur()
	}
	for i := range m.queryInputs {
		m.queryInputs[i].Blur()
	}
	m.filesInput.Blur()
	m.labelInput.Blur()
	m.manualText.Blur()

	switch m.state.Step {
	case session.StepSetup:
		m.setupInputs[m.focusIndex].Focus()
	case session.StepIngest:
		switch m.focusIndex {
		case 0:
			m.filesInput.Focus()
		case 1:
			m.labelInput.Focus()
		case 2:
			m.manualText.Focus()
		}
	case session.StepQuery:
		m.queryInputs[m.focusIndex].Focus()
	}
}

// resize propagates terminal dimensions to the widgets.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	for i := range m.setupInputs {
		m.setupInputs[i].Width = inner
	}
	for i := range m.queryInputs {
		m.queryInputs[i].Width = inner
	}
	m.filesInput.Width = inner
	m.labelInput.Width = inner
	m.manualText.SetWidth(inner)
	m.viewport.Width = width - 2
	if h := height - 10; h > 4 {
		m.viewport.Height = h
	}
}

// parseOptionalInt parses a form value, treating blank as absent.
func parseOptionalInt(value, name string) (int, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer", name)
	}
	return n, true, nil
}

// buildSetupRequest assembles and locally validates the configuration
// payload from the setup form.
func (m *Model) buildSetupRequest() (gateway.SetupRequest, error) {
	var req gateway.SetupRequest

	kind := strings.ToLower(strings.TrimSpace(m.setupInputs[fieldIndex].Value()))
	if kind == "" {
		kind = string(gateway.IndexHNSW)
	}
	if kind != string(gateway.IndexHNSW) && kind != string(gateway.IndexIVF) {
		return req, fmt.Errorf("unsupported index kind %q", kind)
	}
	req.Index = gateway.IndexKind(kind)

	dimension, ok, err := parseOptionalInt(m.setupInputs[fieldDimension].Value(), "dimension")
	if err != nil {
		return req, err
	}
	if ok {
		req.Dimension = dimension
	}
	chunkSize, ok, err := parseOptionalInt(m.setupInputs[fieldChunkSize].Value(), "chunk_size")
	if err != nil {
		return req, err
	}
	if ok {
		req.ChunkSize = chunkSize
	}
	overlap, ok, err := parseOptionalInt(m.setupInputs[fieldOverlap].Value(), "overlap")
	if err != nil {
		return req, err
	}
	if ok {
		req.Overlap = &overlap
	}
	maxTokens, ok, err := parseOptionalInt(m.setupInputs[fieldMaxTokens].Value(), "generator_max_tokens")
	if err != nil {
		return req, err
	}
	if ok {
		req.GeneratorMaxTokens = &maxTokens
	}

	ef, efSet, err := parseOptionalInt(m.setupInputs[fieldEf].Value(), "ef")
	if err != nil {
		return req, err
	}
	nLists, nListsSet, err := parseOptionalInt(m.setupInputs[fieldNLists].Value(), "n_lists")
	if err != nil {
		return req, err
	}
	iterations, iterationsSet, err := parseOptionalInt(m.setupInputs[fieldIterations].Value(), "iterations")
	if err != nil {
		return req, err
	}

	switch req.Index {
	case gateway.IndexHNSW:
		if nListsSet || iterationsSet {
			return req, fmt.Errorf("n_lists and iterations apply to ivf indexes only")
		}
		if efSet {
			req.IndexParams = &gateway.IndexParams{HNSW: &gateway.HNSWParams{Ef: ef}}
		}
	case gateway.IndexIVF:
		if efSet {
			return req, fmt.Errorf("ef applies to hnsw indexes only")
		}
		if nListsSet || iterationsSet {
			if !nListsSet {
				nLists = gateway.DefaultIVFNLists
			}
			if !iterationsSet {
				iterations = gateway.DefaultIVFIters
			}
			req.IndexParams = &gateway.IndexParams{IVF: &gateway.IVFParams{NLists: nLists, Iterations: iterations}}
		}
	}

	return req, nil
}

// buildQueryRequest assembles the query payload from the query form.
func (m *Model) buildQueryRequest() (gateway.QueryRequest, error) {
	question := strings.TrimSpace(m.queryInputs[queryFieldQuestion].Value())
	if question == "" {
		return gateway.QueryRequest{}, fmt.Errorf("enter a question before submitting")
	}

	k := gateway.DefaultQueryK
	if m.cfg != nil {
		k = m.cfg.QueryK()
	}
	if parsed, ok, err := parseOptionalInt(m.queryInputs[queryFieldK].Value(), "k"); err != nil {
		return gateway.QueryRequest{}, err
	} else if ok {
		k = parsed
	}
	if k <= 0 {
		return gateway.QueryRequest{}, fmt.Errorf("k must be a positive integer")
	}

	req := gateway.QueryRequest{Question: question, K: k}
	if nProbe, ok, err := parseOptionalInt(m.queryInputs[queryFieldNProbe].Value(), "n_probe"); err != nil {
		return gateway.QueryRequest{}, err
	} else if ok {
		if nProbe <= 0 {
			return gateway.QueryRequest{}, fmt.Errorf("n_probe must be a positive integer")
		}
		req.Retrieval = &gateway.RetrievalParams{NProbe: nProbe}
	}
	return req, nil
}

// splitFilePaths splits the comma-separated file list into paths.
func splitFilePaths(value string) []string {
	parts := strings.Split(value, ",")
	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// setupCmd issues the setup request off the event loop.
func setupCmd(ctx context.Context, api gatewayAPI, req gateway.SetupRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := api.Setup(ctx, req)
		if err != nil {
			return setupErrMsg{err}
		}
		return setupDoneMsg{result}
	}
}

// ingestCmd issues the ingest request off the event loop.
func ingestCmd(ctx context.Context, api gatewayAPI, documents []gateway.Document) tea.Cmd {
	return func() tea.Msg {
		result, err := api.Ingest(ctx, documents)
		if err != nil {
			return ingestErrMsg{err}
		}
		return ingestDoneMsg{result}
	}
}

// queryCmd issues the query request off the event loop.
func queryCmd(ctx context.Context, api gatewayAPI, req gateway.QueryRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := api.Query(ctx, req)
		if err != nil {
			return queryErrMsg{err}
		}
		return queryDoneMsg{result}
	}
}

// submitSetup validates the setup form and, when valid, dispatches the
// configuration request.
func (m *Model) submitSetup() tea.Cmd {
	base := strings.TrimSpace(m.setupInputs[fieldBase].Value())
	if base == "" {
		m.setStatus(slotSetup, "gateway address is required", statusError)
		return nil
	}
	req, err := m.buildSetupRequest()
	if err != nil {
		m.setStatus(slotSetup, err.Error(), statusError)
		return nil
	}

	m.state = m.state.WithGatewayBase(base)
	m.setStatus(slotSetup, "Configuring gateway...", statusInfo)
	m.isLoading = true
	m.requestStartTime = time.Now()
	return setupCmd(m.ctx, m.dial(m.state.GatewayBase), req)
}

// submitIngest builds the document batch and dispatches it, guarding on
// a configured gateway first.
func (m *Model) submitIngest() tea.Cmd {
	if !m.state.Configured() {
		m.setStatus(slotIngest, "gateway is not configured; complete the setup step first", statusError)
		m.state = m.state.GoToStep(session.StepSetup)
		m.focusIndex = 0
		m.syncFocus()
		return nil
	}

	paths := splitFilePaths(m.filesInput.Value())
	documents, err := collector.Collect(paths, m.manualText.Value(), m.labelInput.Value())
	if err != nil {
		m.setStatus(slotIngest, err.Error(), statusError)
		return nil
	}
	if len(documents) == 0 {
		m.setStatus(slotIngest, "add at least one file or some manual text", statusError)
		return nil
	}

	m.setStatus(slotIngest, fmt.Sprintf("Ingesting %d document(s)...", len(documents)), statusInfo)
	m.isLoading = true
	m.requestStartTime = time.Now()
	return ingestCmd(m.ctx, m.dial(m.state.GatewayBase), documents)
}

// submitQuery validates the query form and dispatches it, guarding on a
// configured gateway first.
func (m *Model) submitQuery() tea.Cmd {
	if !m.state.Configured() {
		m.setStatus(slotQuery, "gateway is not configured; complete the setup step first", statusError)
		m.state = m.state.GoToStep(session.StepSetup)
		m.focusIndex = 0
		m.syncFocus()
		return nil
	}

	req, err := m.buildQueryRequest()
	if err != nil {
		m.setStatus(slotQuery, err.Error(), statusError)
		return nil
	}

	m.setStatus(slotQuery, "Querying gateway...", statusInfo)
	m.isLoading = true
	m.requestStartTime = time.Now()
	return queryCmd(m.ctx, m.dial(m.state.GatewayBase), req)
}

// Init starts the spinner animation.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+p":
			m.navigate(session.ActionBack)
			return m, nil
		case "ctrl+n":
			m.navigate(session.ActionNext)
			return m, nil
		case "ctrl+r":
			m.navigate(session.ActionRestart)
			return m, nil
		case "tab":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab":
			m.cycleFocus(-1)
			return m, nil
		case "down":
			if m.state.Step != session.StepResult && !m.manualText.Focused() {
				m.cycleFocus(1)
				return m, nil
			}
		case "up":
			if m.state.Step != session.StepResult && !m.manualText.Focused() {
				m.cycleFocus(-1)
				return m, nil
			}
		case "enter":
			if m.isLoading {
				return m, nil
			}
			switch m.state.Step {
			case session.StepSetup:
				if c := m.submitSetup(); c != nil {
					cmds = append(cmds, m.spinner.Tick, c)
				}
				return m, tea.Batch(cmds...)
			case session.StepQuery:
				if c := m.submitQuery(); c != nil {
					cmds = append(cmds, m.spinner.Tick, c)
				}
				return m, tea.Batch(cmds...)
			}
		case "ctrl+s":
			if m.isLoading {
				return m, nil
			}
			if m.state.Step == session.StepIngest {
				if c := m.submitIngest(); c != nil {
					cmds = append(cmds, m.spinner.Tick, c)
				}
				return m, tea.Batch(cmds...)
			}
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case setupDoneMsg:
		m.isLoading = false
		m.state = m.state.WithSetup(msg.result).GoToStep(session.StepIngest)
		m.setStatus(slotSetup, fmt.Sprintf("Gateway configured: %s index, dimension %d", msg.result.Index, msg.result.Dimension), statusSuccess)
		m.focusIndex = 0
		m.syncFocus()
		return m, nil

	case setupErrMsg:
		m.isLoading = false
		m.setStatus(slotSetup, msg.error.Error(), statusError)
		return m, nil

	case ingestDoneMsg:
		m.isLoading = false
		m.state = m.state.WithIngest(msg.result)
		text := fmt.Sprintf("Ingested %d chunk(s) from %d document(s)", msg.result.Chunks, len(msg.result.Documents))
		if n := len(msg.result.Duplicates); n > 0 {
			text += fmt.Sprintf(", %d duplicate group(s) skipped", n)
		}
		m.setStatus(slotIngest, text, statusSuccess)
		m.filesInput.Reset()
		m.labelInput.Reset()
		m.manualText.Reset()
		m.focusIndex = 0
		m.syncFocus()
		return m, nil

	case ingestErrMsg:
		m.isLoading = false
		m.setStatus(slotIngest, msg.error.Error(), statusError)
		return m, nil

	case queryDoneMsg:
		m.isLoading = false
		m.state = m.state.WithQuery(msg.result).GoToStep(session.StepResult)
		m.setStatus(slotQuery, fmt.Sprintf("Answer ready (%d citation(s))", len(msg.result.Citations)), statusSuccess)
		m.viewport.SetContent(renderResult(m.state.Query, m.viewport.Width))
		m.viewport.GotoTop()
		return m, nil

	case queryErrMsg:
		m.isLoading = false
		m.setStatus(slotQuery, msg.error.Error(), statusError)
		return m, nil

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Route remaining messages to the focused widget.
	switch m.state.Step {
	case session.StepSetup:
		m.setupInputs[m.focusIndex], cmd = m.setupInputs[m.focusIndex].Update(msg)
		cmds = append(cmds, cmd)
	case session.StepIngest:
		switch m.focusIndex {
		case 0:
			m.filesInput, cmd = m.filesInput.Update(msg)
		case 1:
			m.labelInput, cmd = m.labelInput.Update(msg)
		case 2:
			m.manualText, cmd = m.manualText.Update(msg)
		}
		cmds = append(cmds, cmd)
	case session.StepQuery:
		m.queryInputs[m.focusIndex], cmd = m.queryInputs[m.focusIndex].Update(msg)
		cmds = append(cmds, cmd)
	case session.StepResult:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// Start runs the wizard program until the user quits.
func Start(cfg *appconfig.Config) error {
	m := New(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard: %w", err)
	}
	logging.LogEvent("wizard session ended")
	return nil
}
