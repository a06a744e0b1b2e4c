package core

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd returns the module root, i.e. the closest parent directory holding a go.mod file.
// go test runs inside the package directory, so the current working directory cannot be used as is.
// Falls back to the current working directory when no go.mod is found (e.g. deployed binaries).
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}

// ClockMinutes converts a "HH:MM" clock time to minutes since midnight.
func ClockMinutes(hhmm string) (int, bool) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// DurationMinutes returns the minutes elapsed between two "HH:MM" clock times.
// Returns 0 when either time is malformed or end is not after start.
func DurationMinutes(start, end string) int {
	s, ok := ClockMinutes(start)
	if !ok {
		return 0
	}
	e, ok := ClockMinutes(end)
	if !ok || e <= s {
		return 0
	}
	return e - s
}

// IsDate reports whether s is a valid "YYYY-MM-DD" calendar date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
