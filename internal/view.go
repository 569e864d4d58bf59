package internal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dialtimer/internal/dial"
	"dialtimer/internal/timelog"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	presetItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	presetItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	grooveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("69"))
)

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellGroove
	cellProgress
	cellText
)

type cell struct {
	r    rune
	kind cellKind
}

// dialCells lays the dial out on a grid of radius rows by 2*radius
// columns. Rows are two units tall, matching toDial.
func dialCells(s dial.Snapshot, radius, ringWidth int) [][]cell {
	r := float64(radius)
	inner := r - float64(ringWidth)
	grid := make([][]cell, radius)
	for row := 0; row < radius; row++ {
		grid[row] = make([]cell, 2*radius)
		for col := 0; col < 2*radius; col++ {
			x, y := float64(col)+0.5, float64(row)*2+1
			d := math.Hypot(x-r, y-r)
			switch {
			case d > r || d < inner:
				grid[row][col] = cell{' ', cellEmpty}
			case dial.PointToAngle(x, y, r, r) < s.VisibleSweep:
				grid[row][col] = cell{'█', cellProgress}
			default:
				grid[row][col] = cell{'░', cellGroove}
			}
		}
	}

	mid := (radius - 1) / 2
	putText(grid, mid, formatDuration(millis(s.DisplayTime)))
	putText(grid, mid+1, dialIcon(s))
	return grid
}

func dialIcon(s dial.Snapshot) string {
	switch {
	case s.Playing:
		return "❚❚"
	case s.ReachedEnd && !s.Tracking:
		return "✓"
	}
	return "▶"
}

func putText(grid [][]cell, row int, text string) {
	if row < 0 || row >= len(grid) {
		return
	}
	runes := []rune(text)
	start := (len(grid[row]) - len(runes)) / 2
	for i, r := range runes {
		col := start + i
		if col >= 0 && col < len(grid[row]) {
			grid[row][col] = cell{r, cellText}
		}
	}
}

func (m *Model) dialView() string {
	s := m.frame
	textStyle := timerDisplayStyle
	if s.Playing {
		textStyle = timerRunningStyle
	}
	styles := map[cellKind]lipgloss.Style{
		cellGroove:   grooveStyle,
		cellProgress: progressStyle,
		cellText:     textStyle,
	}

	var sb strings.Builder
	for i, row := range dialCells(s, m.ui.Radius, m.ui.RingWidth) {
		if i > 0 {
			sb.WriteString("\n")
		}
		// render runs of equal kind in one go
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].kind == row[start].kind {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:j] {
				run.WriteRune(c.r)
			}
			if style, ok := styles[row[start].kind]; ok {
				sb.WriteString(style.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			start = j
		}
	}
	return sb.String()
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(80).Render("Dial Timer"))
	sb.WriteString("\n\n")

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.dialView(),
		"  ",
		m.presetListView(),
		" ",
		m.statusView(),
	)
	sb.WriteString(boxes)
	sb.WriteString("\n\n")
	if m.Err != nil {
		sb.WriteString(errorStyle.Render("Error: " + m.Err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("Drag ring / click center | Play: Space | +/-: Nudge | Reset: r | Countdown: c\n" +
		"Presets: Up/Down, Enter: Load | New: n | Edit: e | Delete: d | Logs: l | Quit: q"))

	return sb.String()
}

func (m *Model) presetListView() string {
	var sb strings.Builder

	sb.WriteString("Presets\n\n")

	for i, p := range m.Presets {
		active := ""
		if p == m.ActivePreset {
			active = " ●"
		}
		line := fmt.Sprintf("%s %s%s", p.Name, formatDuration(p.FullTime), active)

		if i == m.SelectedIndex {
			sb.WriteString(presetItemSelectedStyle.Render(line))
		} else {
			sb.WriteString(presetItemStyle.Render(inactiveStyle.Render(line)))
		}
		sb.WriteString("\n")
	}

	return boxStyle.Width(25).Height(m.ui.Radius).Render(sb.String())
}

func (m *Model) statusView() string {
	s := m.frame

	status := "Stopped"
	statusStyle := inactiveStyle
	switch {
	case s.Tracking:
		status = "Dragging"
		statusStyle = inputStyle
	case s.Playing:
		status = "Running"
		statusStyle = runningStyle
	case s.ReachedEnd:
		status = "Finished"
		statusStyle = runningStyle
	}

	mode := "Count up"
	if s.Countdown {
		mode = "Countdown"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Preset: %s\n\n", m.ActivePreset.Name))
	sb.WriteString(statusStyle.Render(status))
	sb.WriteString(fmt.Sprintf("\nFull: %s\n", formatDuration(millis(s.FullTime))))
	sb.WriteString(fmt.Sprintf("Mode: %s\n", mode))

	// Show recent time logs
	logs := m.TimeLogs[m.ActivePreset.ID]
	if len(logs) > 0 {
		sb.WriteString("\n")
		sb.WriteString(logHeaderStyle.Render("Recent Runs"))
		sb.WriteString("\n")
		displayCount := len(logs)
		if displayCount > 4 {
			displayCount = 4
		}
		for _, l := range logs[:displayCount] {
			sb.WriteString(m.formatLogEntry(l))
			sb.WriteString("\n")
		}
	}

	return boxStyle.Width(32).Height(m.ui.Radius).Render(sb.String())
}

func (m *Model) presetFormView(title string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(80).Render(title))
	sb.WriteString("\n\n")

	// Add a visible focus marker so it's obvious which field is active.
	nameMarker := "  "
	if m.InputFocus == 0 {
		nameMarker = "→ "
	}
	nameLabel := fmt.Sprintf("%sPreset Name: ", nameMarker)
	if m.InputFocus == 0 {
		nameLabel = inputStyle.Render(nameLabel)
	} else {
		nameLabel = inputInactiveStyle.Render(nameLabel)
	}

	timeMarker := "  "
	if m.InputFocus == 1 {
		timeMarker = "→ "
	}
	timeLabel := fmt.Sprintf("%sFull time (min or 1m30s): ", timeMarker)
	if m.InputFocus == 1 {
		timeLabel = inputStyle.Render(timeLabel)
	} else {
		timeLabel = inputInactiveStyle.Render(timeLabel)
	}

	nameValue := m.NewPresetName
	if m.InputFocus == 0 {
		nameValue = inputStyle.Render(nameValue + "█")
	}

	timeValue := m.NewPresetTime
	if m.InputFocus == 1 {
		timeValue = inputStyle.Render(timeValue + "█")
	}

	// Show which field is currently focused in the help line to make tab behavior explicit
	focusName := "Preset Name"
	if m.InputFocus == 1 {
		focusName = "Full time"
	}
	helpText := fmt.Sprintf("Tab: Switch (Focused: %s) | Enter: Save | Esc: Cancel", focusName)

	form := fmt.Sprintf("%s%s\n\n%s%s\n\n%s",
		nameLabel, nameValue,
		timeLabel, timeValue,
		helpStyle.Render(helpText),
	)

	sb.WriteString(lipgloss.Place(
		80, 20,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(60).Render(form),
	))
	return sb.String()
}

func (m *Model) addFormView() string {
	return m.presetFormView("Add New Preset")
}

func (m *Model) editFormView() string {
	return m.presetFormView("Edit Preset")
}

func (m *Model) tagInputView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(80).Render("Log Run"))
	sb.WriteString("\n\n")

	durationStr := ""
	outcome := ""
	if m.PendingLog != nil {
		durationStr = formatDuration(m.PendingLog.Elapsed)
		outcome = string(m.PendingLog.Outcome)
	}

	label := inputStyle.Render("→ Tag: ")
	value := inputStyle.Render(m.TagInput + "█")

	form := fmt.Sprintf(
		"%s\n\n%s%s\n\n%s",
		fmt.Sprintf("Run %s after %s", outcome, timerDisplayStyle.Render(durationStr)),
		label, value,
		helpStyle.Render("Enter: Save | Esc: Skip (no tag)"),
	)

	sb.WriteString(lipgloss.Place(
		80, 20,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(50).Render(form),
	))
	return sb.String()
}

const logPageSize = 15

func (m *Model) allLogsView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(80).Render("All Runs"))
	sb.WriteString("\n\n")

	if len(m.AllLogs) == 0 {
		sb.WriteString(inactiveStyle.Render("No runs logged yet."))
	} else {
		end := m.LogViewScroll + logPageSize
		if end > len(m.AllLogs) {
			end = len(m.AllLogs)
		}
		for _, lp := range m.AllLogs[m.LogViewScroll:end] {
			sb.WriteString(fmt.Sprintf("%-16s", lp.PresetName))
			sb.WriteString(m.formatLogEntry(lp.Log))
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("\n%d-%d of %d", m.LogViewScroll+1, end, len(m.AllLogs)))
	}

	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Close: Esc/l"))
	return sb.String()
}

func (m *Model) formatLogEntry(l timelog.TimeLog) string {
	timeStr := logTimeStyle.Render(l.StoppedAt.Format("Jan 02 15:04"))
	dur := formatDuration(l.Elapsed)
	mark := ""
	if l.Outcome == timelog.OutcomeFinished {
		mark = " ✓"
	}
	tag := ""
	if l.Tag != "" {
		tag = " " + logTagStyle.Render("["+l.Tag+"]")
	}
	return fmt.Sprintf("  %s  %s%s%s", timeStr, dur, mark, tag)
}

var (
	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)
)
