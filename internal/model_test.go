package internal

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dialtimer/internal/config"
	"dialtimer/internal/dial"
	"dialtimer/internal/preset"
	"dialtimer/internal/timelog"
	"dialtimer/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newTestRepo(t *testing.T) *preset.Repository {
	t.Helper()
	repo, err := preset.NewRepository(filepath.Join(t.TempDir(), "dialtimer.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	return repo
}

func newTestModel(t *testing.T, fullTime time.Duration) (*Model, *fakeClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Dial.FullTime = fullTime
	return newTestModelWithRepo(t, cfg, newTestRepo(t))
}

func newTestModelWithRepo(t *testing.T, cfg *config.Config, repo *preset.Repository) (*Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	m, err := NewModel(cfg, repo, zerolog.Nop(), dial.WithClock(clock))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	m.now = clock.Now
	t.Cleanup(func() { m.Close() })
	m.Init()
	return m, clock
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: row, Action: action, Button: tea.MouseButtonLeft}
}

func TestNewModel_CreatesDefaultPreset(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	if len(m.Presets) != 1 || m.Presets[0].Name != "Default" {
		t.Fatalf("expected a single Default preset, got %v", m.Presets)
	}
	if m.Presets[0].FullTime != time.Minute {
		t.Errorf("expected full time 1m, got %v", m.Presets[0].FullTime)
	}
	if m.ActivePreset != m.Presets[0] {
		t.Error("expected the default preset to be active")
	}
	if got := m.Frame().DisplayTime; got != 60000 {
		t.Errorf("expected countdown display 60000, got %d", got)
	}
}

func TestNewModel_DialRunsStoredPreset(t *testing.T) {
	repo := newTestRepo(t)
	p := preset.NewPreset("Pomodoro", 25*time.Minute)
	p.Countdown = false
	p.AllowBackward = false
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cfg := config.Default()
	cfg.Dial.CurTime = 5 * time.Second
	cfg.Dial.Enabled = false
	m, _ := newTestModelWithRepo(t, cfg, repo)

	if len(m.Presets) != 1 || m.ActivePreset.Name != "Pomodoro" {
		t.Fatalf("expected the stored preset to be active, got %v", m.Presets)
	}
	got := m.Dial.Config()
	if got.FullTime != 1500000 || got.Countdown || got.AllowMoveBackward || !got.AllowMoveForward {
		t.Errorf("expected the dial to run Pomodoro, got %+v", got)
	}
	if got.CurTime != 5000 {
		t.Errorf("expected start position from config, got %d", got.CurTime)
	}
	if got.Enabled {
		t.Error("expected enabled flag from config")
	}
	if s := m.Frame(); s.DisplayTime != 5000 || s.FullTime != 1500000 {
		t.Errorf("expected the frame to show Pomodoro, got %+v", s)
	}
}

func TestModel_TickStopsTickerOnceDetached(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)
	tk := timer.New(time.Hour)
	m.SetTicker(tk)
	tk.Start(func() {})
	t.Cleanup(tk.Stop)

	m.Update(MsgTick{})
	if !tk.Running() {
		t.Fatal("expected the ticker to keep running while attached")
	}

	m.Dial.Detach()
	m.Update(MsgTick{})
	if tk.Running() {
		t.Error("expected the ticker to stop once the dial is detached")
	}
}

func TestModel_PlayStopPromptsForTag(t *testing.T) {
	m, clock := newTestModel(t, time.Minute)

	m.Update(key("space"))
	if !m.Dial.Playing() {
		t.Fatal("expected dial to be playing")
	}

	clock.advance(10 * time.Second)
	m.Update(MsgTick{})
	if got := m.Dial.CurTime(); got != 10000 {
		t.Fatalf("expected cur time 10000, got %d", got)
	}

	m.Update(key("space"))
	if m.Dial.Playing() {
		t.Fatal("expected dial to be stopped")
	}
	if !m.ShowTagInput || m.PendingLog == nil {
		t.Fatal("expected the tag prompt")
	}
	if m.PendingLog.Elapsed != 10*time.Second {
		t.Errorf("expected elapsed 10s, got %v", m.PendingLog.Elapsed)
	}
	if m.PendingLog.Outcome != timelog.OutcomeStopped {
		t.Errorf("expected outcome stopped, got %q", m.PendingLog.Outcome)
	}

	// the dial ignores the mouse while the prompt is open
	m.Update(mouse(tea.MouseActionPress, 12, dialTop))
	if m.Dial.Tracking() {
		t.Error("expected mouse to be ignored behind the prompt")
	}

	m.Update(key("f"))
	m.Update(key("o"))
	m.Update(key("o"))
	m.Update(key("enter"))
	if m.ShowTagInput {
		t.Error("expected the prompt to close")
	}

	logs, err := m.repo.GetLogsByPreset(m.ActivePreset.ID)
	if err != nil {
		t.Fatalf("GetLogsByPreset: %v", err)
	}
	if len(logs) != 1 || logs[0].Tag != "foo" {
		t.Fatalf("expected one log tagged foo, got %+v", logs)
	}
	if got := m.TimeLogs[m.ActivePreset.ID]; len(got) != 1 {
		t.Errorf("expected the log in the in-memory list, got %d", len(got))
	}
}

func TestModel_FinishLogsRun(t *testing.T) {
	m, clock := newTestModel(t, 2*time.Second)

	m.Update(key("space"))
	clock.advance(3 * time.Second)
	m.Update(MsgTick{})

	if m.Dial.Playing() {
		t.Fatal("expected dial to stop at the end")
	}
	if !m.Frame().ReachedEnd {
		t.Error("expected frame to show the end")
	}
	if m.PendingLog == nil || m.PendingLog.Outcome != timelog.OutcomeFinished {
		t.Fatalf("expected a finished run, got %+v", m.PendingLog)
	}
	if m.PendingLog.Elapsed != 2*time.Second {
		t.Errorf("expected elapsed 2s, got %v", m.PendingLog.Elapsed)
	}

	m.Update(key("esc"))
	logs, err := m.repo.GetLogsByPreset(m.ActivePreset.ID)
	if err != nil {
		t.Fatalf("GetLogsByPreset: %v", err)
	}
	if len(logs) != 1 || logs[0].Tag != "" {
		t.Errorf("expected one untagged log, got %+v", logs)
	}

	// space does nothing once the dial is at the end
	m.Update(key("space"))
	if m.Dial.Playing() {
		t.Error("expected space to be ignored at the end")
	}
}

func TestModel_MouseDrag(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	// top of the ring, just right of 12 o'clock
	m.Update(mouse(tea.MouseActionPress, 12, dialTop))
	if !m.Frame().Tracking {
		t.Fatal("expected press on the ring to start tracking")
	}
	m.Update(mouse(tea.MouseActionMotion, 12, dialTop))
	// 3 o'clock, about a quarter of the way round
	m.Update(mouse(tea.MouseActionMotion, 23, dialTop+5))

	got := m.Dial.CurTime()
	if got < 12000 || got > 16000 {
		t.Errorf("expected about a quarter of 60000, got %d", got)
	}

	m.Update(mouse(tea.MouseActionRelease, 23, dialTop+5))
	if m.Frame().Tracking {
		t.Error("expected release to stop tracking")
	}
	if m.Dial.Playing() {
		t.Error("expected a drag not to start the timer")
	}
}

func TestModel_TapCenterToggles(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	m.Update(mouse(tea.MouseActionPress, 12, dialTop+6))
	m.Update(mouse(tea.MouseActionRelease, 12, dialTop+6))
	if !m.Dial.Playing() {
		t.Fatal("expected a tap in the middle to start the timer")
	}

	m.Update(mouse(tea.MouseActionPress, 12, dialTop+6))
	m.Update(mouse(tea.MouseActionRelease, 12, dialTop+6))
	if m.Dial.Playing() {
		t.Error("expected a second tap to stop the timer")
	}
}

func TestModel_ApplyPreset(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	if err := m.AddPreset("tea", 5*time.Minute); err != nil {
		t.Fatalf("AddPreset: %v", err)
	}
	if m.SelectedIndex != 1 {
		t.Fatalf("expected new preset to be selected, got %d", m.SelectedIndex)
	}

	m.Dial.SetCurTime(30000)
	m.Update(key("enter"))
	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	if m.ActivePreset.Name != "tea" {
		t.Errorf("expected tea to be active, got %s", m.ActivePreset.Name)
	}
	if got := m.Dial.FullTime(); got != 300000 {
		t.Errorf("expected full time 300000, got %d", got)
	}
	if got := m.Dial.CurTime(); got != 0 {
		t.Errorf("expected dial reset to 0, got %d", got)
	}
}

func TestModel_AddPresetThroughForm(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	m.Update(key("n"))
	if !m.ShowAddForm {
		t.Fatal("expected the add form")
	}
	for _, r := range "eggs" {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))
	m.Update(key("7"))
	m.Update(key("enter"))

	if m.ShowAddForm {
		t.Error("expected the form to close")
	}
	if len(m.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(m.Presets))
	}
	p := m.Presets[1]
	if p.Name != "eggs" || p.FullTime != 7*time.Minute {
		t.Errorf("expected eggs 7m, got %s %v", p.Name, p.FullTime)
	}
}

func TestModel_DeleteLastPresetFails(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	m.Update(key("d"))
	if m.Err == nil {
		t.Fatal("expected an error deleting the last preset")
	}
	if len(m.Presets) != 1 {
		t.Errorf("expected the preset to remain, got %d", len(m.Presets))
	}
}

func TestModel_DeleteActivePreset(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)
	if err := m.AddPreset("tea", 5*time.Minute); err != nil {
		t.Fatalf("AddPreset: %v", err)
	}
	m.Update(key("enter"))
	m.Update(key("space"))

	m.Update(key("d"))
	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	if m.ActivePreset.Name != "Default" {
		t.Errorf("expected Default to become active, got %s", m.ActivePreset.Name)
	}
	if m.Dial.Playing() {
		t.Error("expected the dial to stop")
	}
	if m.ShowTagInput {
		t.Error("expected no tag prompt for a deleted preset")
	}

	// the interrupted run was never written, so the first log gets the
	// first row id
	m.Update(key("space"))
	m.Update(key("space"))
	m.Update(key("enter"))
	logs, err := m.repo.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Log.ID != 1 {
		t.Errorf("expected a single log with id 1, got %+v", logs)
	}
}

func TestModel_Nudge(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	m.Update(key("+"))
	if got := m.Dial.CurTime(); got != 5000 {
		t.Errorf("expected 5000, got %d", got)
	}
	m.Update(key("-"))
	m.Update(key("-"))
	if got := m.Dial.CurTime(); got != 0 {
		t.Errorf("expected clamp at 0, got %d", got)
	}
}

func TestModel_QuitDetaches(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if m.Dial.Attached() {
		t.Error("expected the dial to be detached")
	}
	if m.Dial.Tick() {
		t.Error("expected Tick to report false after detach")
	}
}

func TestToDial(t *testing.T) {
	tests := []struct {
		col, row int
		x, y     float64
	}{
		{0, dialTop, 0.5, 1},
		{12, dialTop + 5, 12.5, 11},
		{23, dialTop + 11, 23.5, 23},
	}
	for _, tt := range tests {
		x, y := toDial(tt.col, tt.row)
		if x != tt.x || y != tt.y {
			t.Errorf("toDial(%d, %d) = (%g, %g), want (%g, %g)", tt.col, tt.row, x, y, tt.x, tt.y)
		}
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, time.Minute)

	out := m.View()
	if !strings.Contains(out, "Dial Timer") {
		t.Error("expected the title")
	}
	if !strings.Contains(out, "01:00") {
		t.Error("expected the remaining time on the dial")
	}
	if !strings.Contains(out, "Default") {
		t.Error("expected the preset list")
	}

	m.Update(key("l"))
	if !strings.Contains(m.View(), "No runs logged yet.") {
		t.Error("expected the empty log view")
	}
}

func TestDialCells_Progress(t *testing.T) {
	s := dial.Snapshot{FullTime: 60000, DisplayTime: 30000, VisibleSweep: 180}
	grid := dialCells(s, 12, 3)

	// right half of the top row is inside the sweep, left half is not
	if c := grid[0][14]; c.kind != cellProgress {
		t.Errorf("expected progress at top right, got %v", c.kind)
	}
	if c := grid[0][9]; c.kind != cellGroove {
		t.Errorf("expected groove at top left, got %v", c.kind)
	}
	if c := grid[0][0]; c.kind != cellEmpty {
		t.Errorf("expected corner to be empty, got %v", c.kind)
	}

	var mid strings.Builder
	for _, c := range grid[5] {
		mid.WriteRune(c.r)
	}
	if !strings.Contains(mid.String(), "00:30") {
		t.Errorf("expected time in the middle row, got %q", mid.String())
	}
}
