package preset

import (
	"path/filepath"
	"testing"
	"time"

	"dialtimer/internal/timelog"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "dialtimer.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_PresetCRUD(t *testing.T) {
	repo := newTestRepository(t)

	p := NewPreset("tea", 3*time.Minute)
	p.AllowBackward = false
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected ID to be set")
	}

	got, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if *got != *p {
		t.Errorf("expected %+v, got %+v", *p, *got)
	}

	p.Name = "green tea"
	p.FullTime = 2 * time.Minute
	p.Countdown = false
	if err := repo.Update(p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || *all[0] != *p {
		t.Errorf("expected [%+v], got %v", *p, all)
	}

	if err := repo.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err = repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no presets, got %d", len(all))
	}
}

func TestRepository_RejectsFullTimeBelowMillisecond(t *testing.T) {
	repo := newTestRepository(t)
	for _, d := range []time.Duration{0, -time.Second, 500 * time.Microsecond} {
		if err := repo.Create(NewPreset("broken", d)); err == nil {
			t.Errorf("expected an error for full time %v", d)
		}
	}

	p := NewPreset("ok", time.Millisecond)
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.FullTime = 500 * time.Microsecond
	if err := repo.Update(p); err == nil {
		t.Error("expected Update to reject a sub-millisecond full time")
	}
	got, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FullTime != time.Millisecond {
		t.Errorf("expected stored full time 1ms, got %v", got.FullTime)
	}
}

func TestRepository_Logs(t *testing.T) {
	repo := newTestRepository(t)
	p := NewPreset("focus", 25*time.Minute)
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	first := &timelog.TimeLog{
		PresetID:  p.ID,
		StartedAt: start,
		StoppedAt: start.Add(10 * time.Minute),
		Elapsed:   10 * time.Minute,
		Outcome:   timelog.OutcomeStopped,
		Tag:       "interrupted",
	}
	second := &timelog.TimeLog{
		PresetID:  p.ID,
		StartedAt: start.Add(time.Hour),
		StoppedAt: start.Add(time.Hour + 25*time.Minute),
		Elapsed:   25 * time.Minute,
		Outcome:   timelog.OutcomeFinished,
	}
	for _, l := range []*timelog.TimeLog{first, second} {
		if err := repo.CreateLog(l); err != nil {
			t.Fatalf("CreateLog: %v", err)
		}
	}

	logs, err := repo.GetLogsByPreset(p.ID)
	if err != nil {
		t.Fatalf("GetLogsByPreset: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].ID != second.ID || logs[0].Outcome != timelog.OutcomeFinished {
		t.Errorf("expected newest log first, got %+v", logs[0])
	}
	if logs[1].Tag != "interrupted" || logs[1].Elapsed != 10*time.Minute {
		t.Errorf("unexpected log %+v", logs[1])
	}
	if !logs[1].StartedAt.Equal(start) {
		t.Errorf("expected start %v, got %v", start, logs[1].StartedAt)
	}

	all, err := repo.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs: %v", err)
	}
	if len(all) != 2 || all[0].PresetName != "focus" {
		t.Errorf("unexpected logs %+v", all)
	}

	if err := repo.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err = repo.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected logs to be removed with their preset, got %d", len(all))
	}
}

func TestPreset_DialConfig(t *testing.T) {
	p := NewPreset("egg", 90*time.Second)
	p.AllowForward = false
	cfg := p.DialConfig()
	if cfg.FullTime != 90000 || cfg.CurTime != 0 || !cfg.Countdown || cfg.AllowMoveForward || !cfg.AllowMoveBackward || !cfg.Enabled {
		t.Errorf("unexpected config %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"25", 25 * time.Minute, false},
		{"90s", 90 * time.Second, false},
		{"1h30m", 90 * time.Minute, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
