package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix = "simdedit-"
	fileSuffix = ".log"
	dayLayout  = "2006-01-02"
	keepFor    = 30 * 24 * time.Hour
)

var (
	// L is the process-wide logger. Until Init enables it, records are dropped.
	L = discard()

	out *os.File
)

// Options selects where and how much simdedit logs.
type Options struct {
	Enabled bool
	LogDir  string // empty means ~/.simdedit/logs
	Level   slog.Level
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Init points L at today's log file, pruning files past the retention
// window. Calling it again replaces the previous file.
func Init(opts Options) error {
	Close()
	if !opts.Enabled {
		return nil
	}

	dir, err := resolveDir(opts.LogDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	now := time.Now()
	cleanOldLogs(dir, now)

	f, err := os.OpenFile(filepath.Join(dir, fileName(now)), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	out = f
	L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	return nil
}

// Close releases the log file, if any, and goes back to discarding.
func Close() error {
	L = discard()
	if out == nil {
		return nil
	}
	err := out.Close()
	out = nil
	return err
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".simdedit", "logs"), nil
}

func fileName(day time.Time) string {
	return filePrefix + day.Format(dayLayout) + fileSuffix
}

// fileDay reports the day a log file was written, if name is one of ours.
func fileDay(name string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, filePrefix)
	if !ok {
		return time.Time{}, false
	}
	rest, ok = strings.CutSuffix(rest, fileSuffix)
	if !ok {
		return time.Time{}, false
	}
	day, err := time.Parse(dayLayout, rest)
	return day, err == nil
}

func cleanOldLogs(dir string, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.Add(-keepFor)
	for _, entry := range entries {
		if day, ok := fileDay(entry.Name()); ok && day.Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
