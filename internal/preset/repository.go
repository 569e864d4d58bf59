package preset

import (
	"database/sql"
	"fmt"
	"time"

	"dialtimer/internal/timelog"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// foreign_keys is per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *Repository) init() error {
	if _, err := r.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	presetsQuery := `
	CREATE TABLE IF NOT EXISTS presets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		full_time INTEGER NOT NULL,
		countdown INTEGER DEFAULT 1,
		allow_forward INTEGER DEFAULT 1,
		allow_backward INTEGER DEFAULT 1
	)
	`
	if _, err := r.db.Exec(presetsQuery); err != nil {
		return err
	}

	timeLogsQuery := `
	CREATE TABLE IF NOT EXISTS time_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		preset_id INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		stopped_at TEXT NOT NULL,
		elapsed INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		tag TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (preset_id) REFERENCES presets(id) ON DELETE CASCADE
	)
	`
	_, err := r.db.Exec(timeLogsQuery)
	return err
}

const presetColumns = "id, name, full_time, countdown, allow_forward, allow_backward"

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(s scanner) (*Preset, error) {
	var p Preset
	var fullTime int64
	var countdown, forward, backward int
	if err := s.Scan(&p.ID, &p.Name, &fullTime, &countdown, &forward, &backward); err != nil {
		return nil, err
	}
	p.FullTime = time.Duration(fullTime)
	p.Countdown = countdown == 1
	p.AllowForward = forward == 1
	p.AllowBackward = backward == 1
	return &p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *Repository) GetAll() ([]*Preset, error) {
	rows, err := r.db.Query("SELECT " + presetColumns + " FROM presets ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func (r *Repository) GetByID(id int64) (*Preset, error) {
	return scanPreset(r.db.QueryRow("SELECT "+presetColumns+" FROM presets WHERE id = ?", id))
}

// Create stores p and fills in its ID.
func (r *Repository) Create(p *Preset) error {
	if err := p.validate(); err != nil {
		return err
	}
	result, err := r.db.Exec(
		"INSERT INTO presets (name, full_time, countdown, allow_forward, allow_backward) VALUES (?, ?, ?, ?, ?)",
		p.Name, int64(p.FullTime), boolInt(p.Countdown), boolInt(p.AllowForward), boolInt(p.AllowBackward),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *Repository) Update(p *Preset) error {
	if err := p.validate(); err != nil {
		return err
	}
	_, err := r.db.Exec(
		"UPDATE presets SET name = ?, full_time = ?, countdown = ?, allow_forward = ?, allow_backward = ? WHERE id = ?",
		p.Name, int64(p.FullTime), boolInt(p.Countdown), boolInt(p.AllowForward), boolInt(p.AllowBackward), p.ID,
	)
	return err
}

func (r *Repository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM presets WHERE id = ?", id)
	return err
}

func (r *Repository) CreateLog(log *timelog.TimeLog) error {
	result, err := r.db.Exec(
		"INSERT INTO time_logs (preset_id, started_at, stopped_at, elapsed, outcome, tag) VALUES (?, ?, ?, ?, ?, ?)",
		log.PresetID,
		log.StartedAt.Format(time.RFC3339),
		log.StoppedAt.Format(time.RFC3339),
		int64(log.Elapsed),
		string(log.Outcome),
		log.Tag,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

func (r *Repository) GetLogsByPreset(presetID int64) ([]timelog.TimeLog, error) {
	rows, err := r.db.Query(
		"SELECT id, preset_id, started_at, stopped_at, elapsed, outcome, tag FROM time_logs WHERE preset_id = ? ORDER BY stopped_at DESC, id DESC",
		presetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []timelog.TimeLog
	for rows.Next() {
		var l timelog.TimeLog
		var startedAt, stoppedAt, outcome string
		var elapsed int64
		if err := rows.Scan(&l.ID, &l.PresetID, &startedAt, &stoppedAt, &elapsed, &outcome, &l.Tag); err != nil {
			return nil, err
		}
		l.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		l.StoppedAt, _ = time.Parse(time.RFC3339, stoppedAt)
		l.Elapsed = time.Duration(elapsed)
		l.Outcome = timelog.Outcome(outcome)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// LogWithPreset pairs a TimeLog with the preset name it belongs to.
type LogWithPreset struct {
	Log        timelog.TimeLog
	PresetName string
}

func (r *Repository) GetAllLogs() ([]LogWithPreset, error) {
	rows, err := r.db.Query(
		`SELECT tl.id, tl.preset_id, p.name, tl.started_at, tl.stopped_at, tl.elapsed, tl.outcome, tl.tag
		 FROM time_logs tl
		 JOIN presets p ON tl.preset_id = p.id
		 ORDER BY tl.stopped_at DESC, tl.id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []LogWithPreset
	for rows.Next() {
		var lp LogWithPreset
		var startedAt, stoppedAt, outcome string
		var elapsed int64
		if err := rows.Scan(
			&lp.Log.ID, &lp.Log.PresetID, &lp.PresetName,
			&startedAt, &stoppedAt, &elapsed, &outcome, &lp.Log.Tag,
		); err != nil {
			return nil, err
		}
		lp.Log.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		lp.Log.StoppedAt, _ = time.Parse(time.RFC3339, stoppedAt)
		lp.Log.Elapsed = time.Duration(elapsed)
		lp.Log.Outcome = timelog.Outcome(outcome)
		results = append(results, lp)
	}
	return results, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// ParseDuration accepts a bare number of minutes or a Go duration string.
func ParseDuration(input string) (time.Duration, error) {
	var d time.Duration
	_, err := fmt.Sscanf(input, "%d", &d)
	if err == nil && fmt.Sprint(int64(d)) == input {
		return d * time.Minute, nil
	}

	d, err = time.ParseDuration(input)
	if err == nil {
		return d, nil
	}

	return 0, fmt.Errorf("invalid duration format")
}
