// Package logging wraps a zap sugared logger whose level and output can be
// changed while the shell runs.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger with a toggleable level and a swappable sink.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
	sink  *swapSink
}

// New creates a console logger writing to w. Verbose enables debug output,
// otherwise only warnings and errors are written.
func New(w io.Writer, verbose bool) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	sink := &swapSink{w: w}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(sink), level)

	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
		level:         level,
		sink:          sink,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, false)
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

// SetVerbose switches between debug and warning level.
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.level.SetLevel(zapcore.DebugLevel)
		return
	}
	l.level.SetLevel(zapcore.WarnLevel)
}

// Redirect sends subsequent log output to w. A previously opened log file is
// closed.
func (l *Logger) Redirect(w io.Writer) error {
	return l.sink.swap(w, nil)
}

// RedirectToFile appends subsequent log output to the file at path.
func (l *Logger) RedirectToFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open log file %s", path)
	}
	return l.sink.swap(f, f)
}

// Close flushes the logger and closes an open log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	return l.sink.swap(io.Discard, nil)
}

type swapSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

func (s *swapSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *swapSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(*os.File); ok && s.closer != nil {
		return f.Sync()
	}
	return nil
}

func (s *swapSink) swap(w io.Writer, closer io.Closer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.closer != nil {
		err = s.closer.Close()
	}
	s.w, s.closer = w, closer
	return err
}
