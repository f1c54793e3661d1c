package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func TestLogFormatter(t *testing.T) {
	entry := &log.Entry{
		Logger:  log.New(),
		Time:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "retrying\n",
		Data:    log.Fields{"request_id": "r1", "attempt": 2},
	}
	out, err := (&LogFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "[2024-05-01 12:30:00] [warn] retrying attempt=2 request_id=r1\n"
	if string(out) != want {
		t.Fatalf("expected %q, got %q", want, string(out))
	}
}

func TestFromContextCarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	entry := FromContext(ctx)
	if entry.Data["request_id"] != "abc" {
		t.Fatalf("expected request_id field, got %v", entry.Data)
	}
	if len(FromContext(context.Background()).Data) != 0 {
		t.Fatal("expected no fields without a request id")
	}
}

func TestConfigureLogOutputToFile(t *testing.T) {
	dir := t.TempDir()
	logger := log.StandardLogger()
	prevOut, prevFormatter := logger.Out, logger.Formatter
	defer func() {
		Close()
		logger.SetOutput(prevOut)
		logger.SetFormatter(prevFormatter)
	}()

	if err := ConfigureLogOutput(true, dir); err != nil {
		t.Fatalf("ConfigureLogOutput: %v", err)
	}
	log.SetFormatter(&LogFormatter{})
	log.Info("written to file")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Fatalf("expected log line in file, got %q", string(data))
	}

	if err := ConfigureLogOutput(false, ""); err != nil {
		t.Fatalf("ConfigureLogOutput(false): %v", err)
	}
	if logger.Out != os.Stderr {
		t.Fatalf("expected logs back on stderr, got %T", logger.Out)
	}
}

func TestSetupBaseLoggerWritesToStderr(t *testing.T) {
	logger := log.StandardLogger()
	prevOut, prevFormatter, prevLevel, prevCaller := logger.Out, logger.Formatter, logger.Level, logger.ReportCaller
	defer func() {
		logger.SetOutput(prevOut)
		logger.SetFormatter(prevFormatter)
		logger.SetLevel(prevLevel)
		logger.SetReportCaller(prevCaller)
	}()

	SetupBaseLogger()
	if logger.Out != os.Stderr {
		t.Fatalf("expected logs on stderr, got %T", logger.Out)
	}
	if _, ok := logger.Formatter.(*LogFormatter); !ok {
		t.Fatalf("expected LogFormatter, got %T", logger.Formatter)
	}
}
