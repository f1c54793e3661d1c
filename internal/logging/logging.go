// Package logging configures the process wide logrus logger.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "metaai.log"

var (
	setupOnce sync.Once

	writerMu  sync.Mutex
	logWriter io.WriteCloser
)

// LogFormatter renders "[time] [level] [file:line] message key=value".
type LogFormatter struct{}

// Format implements log.Formatter.
func (f *LogFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestamp := entry.Time.Format("2006-01-02 15:04:05")
	message := strings.TrimRight(entry.Message, "\r\n")

	fmt.Fprintf(b, "[%s] [%s] ", timestamp, levelLabel(entry.Level))
	if entry.HasCaller() {
		fmt.Fprintf(b, "[%s:%d] ", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	b.WriteString(message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelLabel(level log.Level) string {
	switch level {
	case log.WarnLevel:
		return "warn"
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		return "error"
	case log.DebugLevel, log.TraceLevel:
		return "debug"
	default:
		return "info"
	}
}

// SetupBaseLogger installs the formatter and routes logs to stderr, leaving
// stdout to command output. It is safe to call more than once.
func SetupBaseLogger() {
	setupOnce.Do(func() {
		log.SetOutput(os.Stderr)
		log.SetReportCaller(true)
		log.SetFormatter(&LogFormatter{})
		log.SetLevel(log.InfoLevel)
	})
}

// SetDebug toggles debug level output.
func SetDebug(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.InfoLevel)
}

// ConfigureLogOutput switches between stderr and a rotating file under dir.
func ConfigureLogOutput(loggingToFile bool, dir string) error {
	writerMu.Lock()
	defer writerMu.Unlock()

	if !loggingToFile {
		closeWriterLocked()
		log.SetOutput(os.Stderr)
		return nil
	}

	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	closeWriterLocked()
	logWriter = &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}
	log.SetOutput(logWriter)
	return nil
}

// Close releases the log file, if any.
func Close() {
	writerMu.Lock()
	defer writerMu.Unlock()
	closeWriterLocked()
}

func closeWriterLocked() {
	if logWriter == nil {
		return
	}
	if errClose := logWriter.Close(); errClose != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", errClose)
	}
	logWriter = nil
}

type requestIDKey struct{}

// WithRequestID tags ctx so FromContext entries carry request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns a log entry scoped to the request in ctx.
func FromContext(ctx context.Context) *log.Entry {
	entry := log.NewEntry(log.StandardLogger())
	if id := RequestID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}
