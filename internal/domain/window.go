package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Assumed window for stops that carry no opening hours.
const (
	assumedOpen  = 6 * 60
	assumedClose = 23 * 60
)

type WindowKind int

const (
	WindowBounded WindowKind = iota
	WindowAllDay
	WindowAssumed
)

// WindowClass is the urgency of a window relative to the pace cutoff.
type WindowClass int

const (
	ClassEarly WindowClass = iota
	ClassFlexible
	ClassLate
)

func (c WindowClass) String() string {
	switch c {
	case ClassEarly:
		return "early"
	case ClassLate:
		return "late"
	default:
		return "flexible"
	}
}

// Window is a feasibility interval in minutes after midnight. Close may exceed
// one day for venues that close after midnight.
type Window struct {
	Open  int
	Close int
	Kind  WindowKind
}

var rangePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*[-–—]\s*(\d{1,2}):(\d{2})$`)

// ParseWindow parses "HH:MM - HH:MM" or "24 Hours". Empty or unparseable input
// yields the wide assumed window.
func ParseWindow(s string) Window {
	s = strings.TrimSpace(s)
	if s == "" {
		return AssumedWindow()
	}
	if isAllDay(s) {
		return Window{Open: 0, Close: minutesPerDay, Kind: WindowAllDay}
	}

	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return AssumedWindow()
	}
	open, ok := clock(m[1], m[2])
	if !ok {
		return AssumedWindow()
	}
	closeAt, ok := clock(m[3], m[4])
	if !ok {
		return AssumedWindow()
	}

	if closeAt == open {
		return Window{Open: 0, Close: minutesPerDay, Kind: WindowAllDay}
	}
	if closeAt < open {
		closeAt += minutesPerDay
	}
	return Window{Open: open, Close: closeAt, Kind: WindowBounded}
}

func AssumedWindow() Window {
	return Window{Open: assumedOpen, Close: assumedClose, Kind: WindowAssumed}
}

// Classify buckets the window against the cutoff. Only explicit ranges can be
// early or late.
func (w Window) Classify(cutoff int) WindowClass {
	if w.Kind != WindowBounded {
		return ClassFlexible
	}
	if w.Close < cutoff {
		return ClassEarly
	}
	if w.Open > cutoff {
		return ClassLate
	}
	return ClassFlexible
}

func (w Window) String() string {
	if w.Kind == WindowAllDay {
		return "24 Hours"
	}
	return fmt.Sprintf("%s - %s", formatClock(w.Open), formatClock(w.Close%minutesPerDay))
}

func isAllDay(s string) bool {
	l := strings.ToLower(s)
	switch l {
	case "24 hours", "24hours", "24h", "24/7", "open 24 hours":
		return true
	}
	return false
}

func clock(hh, mm string) (int, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, false
	}
	return h*60 + m, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
