package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/radio-control/saltybridge/internal/adapter"
)

// FileName is the audit log file inside the log directory.
const FileName = "audit.jsonl"

// Actions recorded by the bridge.
const (
	ActionPluginState    = "plugin_state"
	ActionDisconnect     = "plugin_disconnect"
	ActionUnsupported    = "unsupported_call"
	ActionRadioEnabled   = "radio_enabled"
	ActionResourceUnload = "resource_unload"
	ActionCommand        = "command"
	ActionExport         = "export"
)

// Entry is a single audit record.
type Entry struct {
	Timestamp time.Time      `json:"ts"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Subject   string         `json:"subject,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Code      string         `json:"code"`
	Error     string         `json:"error,omitempty"`
}

// Options configures rotation. Zero values keep lumberjack's defaults.
type Options struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger appends audit entries to a rotating file.
type Logger struct {
	mu       sync.Mutex
	filePath string
	out      io.WriteCloser
	now      func() time.Time
}

// NewLogger creates an audit logger writing to logDir/audit.jsonl.
func NewLogger(logDir string, opts Options) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(logDir, FileName)
	return &Logger{
		filePath: filePath,
		out: &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		},
		now: time.Now,
	}, nil
}

// Record appends one entry. The actor is taken from ctx; err selects the code.
func (l *Logger) Record(ctx context.Context, action, subject string, params map[string]any, err error) {
	entry := Entry{
		Timestamp: l.now().UTC(),
		Actor:     ActorFrom(ctx),
		Action:    action,
		Subject:   subject,
		Params:    params,
		Code:      codeFromError(err),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

func (l *Logger) write(entry Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal audit entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return
	}
	if _, err := l.out.Write(append(data, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write audit entry: %v\n", err)
	}
}

// FilePath returns the active audit log file.
func (l *Logger) FilePath() string {
	return l.filePath
}

// Rotate closes the active file, renames it with a timestamp and starts a new one.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.out.(interface{ Rotate() error })
	if !ok {
		return errors.New("audit output does not support rotation")
	}
	if err := r.Rotate(); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}
	return nil
}

// Close closes the audit log. Later records are dropped.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	return err
}

func codeFromError(err error) string {
	switch {
	case err == nil:
		return "SUCCESS"
	case errors.Is(err, adapter.ErrUnsupported):
		return "UNSUPPORTED"
	case errors.Is(err, adapter.ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, adapter.ErrUnknownExport):
		return "UNKNOWN_EXPORT"
	case errors.Is(err, adapter.ErrUnknownCommand):
		return "UNKNOWN_COMMAND"
	case errors.Is(err, adapter.ErrRestrictedCommand):
		return "RESTRICTED_COMMAND"
	default:
		return "ERROR"
	}
}
