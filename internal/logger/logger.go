package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var levelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type Options struct {
	// Level is one of debug, info, warn or error. Anything else means info.
	Level string
	// File, when set, also writes every record to a size rotated file.
	File  string
	Attrs []any
}

const (
	_maxFileSizeMB = 20
	_maxBackups    = 5
	_maxAgeDays    = 14
)

// Setup installs the process wide slog logger and returns the writer so the
// caller can close a rotated file on shutdown.
func Setup(opts Options) io.WriteCloser {
	var out io.WriteCloser = nopCloser{os.Stdout}
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    _maxFileSizeMB,
			MaxBackups: _maxBackups,
			MaxAge:     _maxAgeDays,
			Compress:   true,
		}
		out = multiCloser{Writer: io.MultiWriter(os.Stdout, rotated), closer: rotated}
	}

	slog.SetDefault(New(out, opts.Level, opts.Attrs...))
	return out
}

// New builds a text logger with trimmed source paths.
func New(w io.Writer, level string, attrs ...any) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       ParseLevel(level),
		ReplaceAttr: ReplaceAttr,
	})
	return slog.New(handler).With(attrs...)
}

func ParseLevel(value string) slog.Level {
	level, ok := levelMapping[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// ReplaceAttr keeps only the base name of the source file.
func ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		source.File = filepath.Base(source.File)
		return slog.Any(a.Key, source)
	}
	return a
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type multiCloser struct {
	io.Writer
	closer io.Closer
}

func (m multiCloser) Close() error { return m.closer.Close() }
