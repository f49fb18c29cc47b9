package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("converted") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("request") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("request") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Converted %d of %d dates", 2, 3)

	out := buf.String()
	if !strings.Contains(out, "Converted 2 of 3 dates") || !strings.Contains(out, "elapsed=") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should fall back to a default logger")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestVerboseTracesRequests(t *testing.T) {
	var errOut bytes.Buffer
	c := New(&errOut, LogDebug)
	c.SetOutput(&bytes.Buffer{})
	t.Setenv(configEnv, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := c.RootCommand()
	root.SetArgs([]string{"validate", "ad", "2024", "10", "15"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate error: %v", err)
	}
	for _, want := range []string{"conversion chain ready", "validated"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("debug log missing %q:\n%s", want, errOut.String())
		}
	}
}
