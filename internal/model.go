package internal

import (
	"fmt"
	"time"

	"dialtimer/internal/config"
	"dialtimer/internal/dial"
	"dialtimer/internal/preset"
	"dialtimer/internal/timelog"
	"dialtimer/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type MsgTick struct{}

// dialTop is the screen row of the dial's first line: the title and a blank
// line sit above it.
const dialTop = 2

type Model struct {
	Presets       []*preset.Preset
	SelectedIndex int
	ActivePreset  *preset.Preset
	ShowAddForm   bool
	ShowEditForm  bool
	EditingPreset *preset.Preset
	NewPresetName string
	NewPresetTime string
	InputFocus    int
	Err           error
	Dial          *dial.Controller
	frame         dial.Snapshot
	ui            config.UIConfig
	repo          *preset.Repository
	log           zerolog.Logger
	now           func() time.Time
	ticker        *timer.Timer

	// Run tracking for time logs
	running      bool
	runStart     time.Time
	runStartTime int // dial time when the run started

	// Tag input state (shown after a run ends)
	ShowTagInput bool
	TagInput     string
	PendingLog   *timelog.TimeLog

	// Time logs per preset
	TimeLogs map[int64][]timelog.TimeLog

	// All-logs viewer state
	ShowLogView   bool
	LogViewScroll int
	AllLogs       []preset.LogWithPreset
}

// NewModel builds the UI around a dial running the first preset. When the
// repository has no presets a "Default" one is created from cfg.Dial.
// Extra dial options are applied after the model's own.
func NewModel(cfg *config.Config, repo *preset.Repository, log zerolog.Logger, opts ...dial.Option) (*Model, error) {
	presets, err := repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	if len(presets) == 0 {
		p := preset.NewPreset("Default", cfg.Dial.FullTime)
		p.Countdown = cfg.Dial.Countdown
		p.AllowForward = cfg.Dial.AllowMoveForward
		p.AllowBackward = cfg.Dial.AllowMoveBackward
		if err := repo.Create(p); err != nil {
			return nil, fmt.Errorf("failed to create default preset: %w", err)
		}
		presets = append(presets, p)
	}

	ring, err := cfg.UI.Ring()
	if err != nil {
		return nil, err
	}

	timeLogs := make(map[int64][]timelog.TimeLog)
	for _, p := range presets {
		logs, err := repo.GetLogsByPreset(p.ID)
		if err == nil {
			timeLogs[p.ID] = logs
		}
	}

	m := &Model{
		Presets:      presets,
		ActivePreset: presets[0],
		ui:           cfg.UI,
		repo:         repo,
		log:          log,
		now:          time.Now,
		TimeLogs:     timeLogs,
	}

	dialOpts := append([]dial.Option{
		dial.WithRing(ring),
		dial.WithLogger(log.With().Str("component", "dial").Logger()),
		dial.WithListener(m.listener()),
		dial.WithRenderer(dial.RendererFunc(func(s dial.Snapshot) { m.frame = s })),
	}, opts...)
	// the dial runs the active preset; only the start position and the
	// enabled flag come from the config
	dialCfg := m.ActivePreset.DialConfig()
	dialCfg.CurTime = cfg.Dial.ToDial().CurTime
	dialCfg.Enabled = cfg.Dial.Enabled
	m.Dial, err = dial.New(dialCfg, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create dial: %w", err)
	}
	m.frame = m.Dial.Snapshot()

	return m, nil
}

func (m *Model) listener() *dial.Listener {
	return &dial.Listener{
		OnTimeChangedByUser: func(v int) {
			m.log.Debug().Int("time", v).Msg("time changed by user")
		},
		OnPlayStarted: m.startRun,
		OnPlayStopped: func() {
			m.endRun(timelog.OutcomeStopped, true)
		},
		OnPlayFinished: func() {
			m.endRun(timelog.OutcomeFinished, true)
		},
	}
}

func (m *Model) startRun() {
	m.running = true
	m.runStart = m.now()
	m.runStartTime = m.Dial.CurTime()
}

// endRun turns the current run into a log entry. With prompt the entry
// waits for a tag, otherwise it is saved right away.
func (m *Model) endRun(outcome timelog.Outcome, prompt bool) {
	if !m.running {
		return
	}
	m.running = false

	elapsed := m.Dial.CurTime() - m.runStartTime
	if elapsed < 0 {
		elapsed = 0
	}
	log := &timelog.TimeLog{
		PresetID:  m.ActivePreset.ID,
		StartedAt: m.runStart,
		StoppedAt: m.now(),
		Elapsed:   time.Duration(elapsed) * time.Millisecond,
		Outcome:   outcome,
	}
	m.log.Info().Str("preset", m.ActivePreset.Name).Str("outcome", string(outcome)).
		Dur("elapsed", log.Elapsed).Msg("run ended")

	if prompt {
		// a previous entry still waiting for its tag is saved as is
		m.savePendingLog()
		m.PendingLog = log
		m.TagInput = ""
		m.ShowTagInput = true
		return
	}
	m.saveLog(log)
}

func (m *Model) saveLog(log *timelog.TimeLog) {
	if err := m.repo.CreateLog(log); err != nil {
		m.Err = err
		m.log.Error().Err(err).Msg("failed to save time log")
		return
	}
	m.TimeLogs[log.PresetID] = append([]timelog.TimeLog{*log}, m.TimeLogs[log.PresetID]...)
}

func (m *Model) savePendingLog() {
	if m.PendingLog != nil {
		m.saveLog(m.PendingLog)
		m.PendingLog = nil
	}
}

func (m *Model) Init() tea.Cmd {
	m.Dial.Attach()
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		if !m.Dial.Tick() && m.ticker != nil {
			m.ticker.Stop()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		if !m.overlayShown() {
			m.handleMouse(msg)
		}
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowTagInput {
		return m.tagInputView()
	}

	if m.ShowLogView {
		return m.allLogsView()
	}

	if m.ShowAddForm {
		return m.addFormView()
	}

	if m.ShowEditForm {
		return m.editFormView()
	}

	return m.mainView()
}

func (m *Model) overlayShown() bool {
	return m.ShowTagInput || m.ShowLogView || m.ShowAddForm || m.ShowEditForm
}

// SetTicker hands the model the frame source posting MsgTick. It is
// stopped once the dial is detached.
func (m *Model) SetTicker(t *timer.Timer) {
	m.ticker = t
}

// Frame is the last snapshot the dial rendered.
func (m *Model) Frame() dial.Snapshot {
	return m.frame
}

func (m *Model) SelectedPreset() *preset.Preset {
	if m.SelectedIndex >= 0 && m.SelectedIndex < len(m.Presets) {
		return m.Presets[m.SelectedIndex]
	}
	return nil
}

// ApplyPreset loads p into the dial. A running dial is stopped first, which
// ends its run.
func (m *Model) ApplyPreset(p *preset.Preset) error {
	m.Dial.Stop()
	cfg := p.DialConfig()
	cfg.Enabled = m.Dial.Config().Enabled
	if err := m.Dial.Reconfigure(cfg); err != nil {
		return err
	}
	m.Dial.SetCurTime(0)
	m.ActivePreset = p
	return nil
}

func (m *Model) AddPreset(name string, fullTime time.Duration) error {
	p := preset.NewPreset(name, fullTime)
	if err := m.repo.Create(p); err != nil {
		return err
	}
	m.TimeLogs[p.ID] = nil
	m.Presets = append(m.Presets, p)
	m.SelectedIndex = len(m.Presets) - 1
	return nil
}

func (m *Model) UpdatePreset(p *preset.Preset) error {
	if err := m.repo.Update(p); err != nil {
		return err
	}
	if p == m.ActivePreset {
		cfg := p.DialConfig()
		cfg.Enabled = m.Dial.Config().Enabled
		return m.Dial.Reconfigure(cfg)
	}
	return nil
}

func (m *Model) DeletePreset(id int64) error {
	if len(m.Presets) <= 1 {
		return fmt.Errorf("cannot delete the last preset")
	}
	if m.ActivePreset.ID == id {
		// the run belongs to the preset going away, its log would be
		// deleted with it
		m.running = false
		m.Dial.Stop()
	}
	if err := m.repo.Delete(id); err != nil {
		return err
	}
	delete(m.TimeLogs, id)
	for i, p := range m.Presets {
		if p.ID == id {
			m.Presets = append(m.Presets[:i], m.Presets[i+1:]...)
			break
		}
	}
	if m.SelectedIndex >= len(m.Presets) {
		m.SelectedIndex = len(m.Presets) - 1
	}
	if m.ActivePreset.ID == id {
		return m.ApplyPreset(m.Presets[0])
	}
	return nil
}

// Close detaches the dial, logs a run still in progress and closes the
// repository.
func (m *Model) Close() error {
	m.Dial.Detach()
	m.endRun(timelog.OutcomeStopped, false)
	m.savePendingLog()
	return m.repo.Close()
}

// toDial maps a terminal cell to dial coordinates. A cell is one unit wide
// and two units tall, so the dial stays round on screen.
func toDial(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row-dialTop)*2 + 1
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := toDial(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.Dial.Press(x, y)
		}
	case tea.MouseActionMotion:
		m.Dial.Move(x, y)
	case tea.MouseActionRelease:
		m.Dial.Release(x, y)
	}
}

func (m *Model) nudge(sign int) {
	step := m.Dial.FullTime() / 12
	if step == 0 {
		step = 1
	}
	m.Dial.SetCurTime(m.Dial.CurTime() + sign*step)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowTagInput {
		return m.handleTagInput(msg)
	}

	if m.ShowLogView {
		return m.handleLogViewInput(msg)
	}

	if m.ShowAddForm || m.ShowEditForm {
		return m.handleFormInput(msg)
	}

	m.Err = nil
	switch msg.String() {
	case "ctrl+c", "q":
		m.Dial.Detach()
		return m, tea.Quit
	case " ", "space":
		s := m.Dial.Snapshot()
		if s.Playing || !s.ReachedEnd {
			m.Dial.Toggle()
		}
	case "r":
		m.Dial.Stop()
		m.Dial.SetCurTime(0)
	case "+", "=":
		m.nudge(1)
	case "-":
		m.nudge(-1)
	case "c":
		m.Dial.SetCountdown(!m.Dial.Snapshot().Countdown)
	case "up", "k":
		if m.SelectedIndex > 0 {
			m.SelectedIndex--
		}
	case "down", "j":
		if m.SelectedIndex < len(m.Presets)-1 {
			m.SelectedIndex++
		}
	case "enter":
		if p := m.SelectedPreset(); p != nil {
			m.Err = m.ApplyPreset(p)
		}
	case "n":
		m.ShowAddForm = true
		m.NewPresetName = ""
		m.NewPresetTime = ""
		m.InputFocus = 0
	case "e":
		if p := m.SelectedPreset(); p != nil {
			m.ShowEditForm = true
			m.EditingPreset = p
			m.NewPresetName = p.Name
			m.NewPresetTime = p.FullTime.String()
			m.InputFocus = 0
		}
	case "d":
		if p := m.SelectedPreset(); p != nil {
			m.Err = m.DeletePreset(p.ID)
		}
	case "l":
		// Open the all-logs viewer
		allLogs, err := m.repo.GetAllLogs()
		if err == nil {
			m.AllLogs = allLogs
		} else {
			m.AllLogs = nil
		}
		m.ShowLogView = true
		m.LogViewScroll = 0
	}
	return m, nil
}

func (m *Model) handleLogViewInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc", "l":
		m.ShowLogView = false
		m.AllLogs = nil
	case "up", "k":
		if m.LogViewScroll > 0 {
			m.LogViewScroll--
		}
	case "down", "j":
		maxScroll := len(m.AllLogs) - 1
		if maxScroll < 0 {
			maxScroll = 0
		}
		if m.LogViewScroll < maxScroll {
			m.LogViewScroll++
		}
	}
	return m, nil
}

func (m *Model) handleTagInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		// Save the log without a tag
		if m.PendingLog != nil {
			m.PendingLog.Tag = ""
		}
		m.savePendingLog()
		m.ShowTagInput = false
		m.TagInput = ""
	case "enter":
		if m.PendingLog != nil {
			m.PendingLog.Tag = m.TagInput
		}
		m.savePendingLog()
		m.ShowTagInput = false
		m.TagInput = ""
	case "backspace":
		if len(m.TagInput) > 0 {
			runes := []rune(m.TagInput)
			m.TagInput = string(runes[:len(runes)-1])
		}
	default:
		runes := []rune(msg.String())
		if len(runes) == 1 {
			m.TagInput += string(runes[0])
		}
	}
	return m, nil
}

func (m *Model) parseFormDuration() time.Duration {
	d, err := preset.ParseDuration(m.NewPresetTime)
	if err != nil || d <= 0 {
		return 25 * time.Minute
	}
	return d
}

func (m *Model) handleFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ShowAddForm = false
		m.ShowEditForm = false
		m.EditingPreset = nil
	case "enter":
		if m.InputFocus == 0 {
			m.InputFocus = 1
			break
		}
		name := m.NewPresetName
		if name == "" {
			name = "Untitled"
		}
		if m.ShowAddForm {
			m.Err = m.AddPreset(name, m.parseFormDuration())
		} else if m.ShowEditForm && m.EditingPreset != nil {
			m.EditingPreset.Name = name
			m.EditingPreset.FullTime = m.parseFormDuration()
			m.Err = m.UpdatePreset(m.EditingPreset)
		}
		m.ShowAddForm = false
		m.ShowEditForm = false
		m.EditingPreset = nil
	case "backspace":
		if m.InputFocus == 0 {
			if len(m.NewPresetName) > 0 {
				runes := []rune(m.NewPresetName)
				m.NewPresetName = string(runes[:len(runes)-1])
			}
		} else {
			if len(m.NewPresetTime) > 0 {
				m.NewPresetTime = m.NewPresetTime[:len(m.NewPresetTime)-1]
			}
		}
	case "tab", "shift+tab":
		m.InputFocus = 1 - m.InputFocus
	default:
		runes := []rune(msg.String())
		if len(runes) == 1 {
			if m.InputFocus == 0 {
				m.NewPresetName += string(runes[0])
			} else if (runes[0] >= '0' && runes[0] <= '9') || runes[0] == 'h' || runes[0] == 'm' || runes[0] == 's' {
				m.NewPresetTime += string(runes[0])
			}
		}
	}
	return m, nil
}
