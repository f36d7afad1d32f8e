package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestTestLoggerCapture(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Info("annotation joined",
		WellsKey, 96,
		DroppedRowsKey, 1,
	)

	out := buffer.String()
	if !strings.Contains(out, "annotation joined") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, DroppedRowsKey) {
		t.Errorf("expected %q attribute in output, got %q", DroppedRowsKey, out)
	}

	entries, err := logger.Entries()
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entries[0]["level"])
	}
}

func TestTestLoggerLevelFiltering(t *testing.T) {
	logger, buffer := NewTestLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("dropped 3 wells")

	out := buffer.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "dropped 3 wells") {
		t.Errorf("warn message missing, got %q", out)
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)
	staged := logger.With(StageKey, "join")
	staged.Info("done")

	tl := staged.(*TestLogger)
	if !tl.Contains(`"pipeline.stage":"join"`) {
		t.Error("expected pre-populated stage field in output")
	}
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	err := errors.New("join failed")
	logger.Error("stage aborted", ErrAttr(err))

	var entry map[string]interface{}
	if jsonErr := json.Unmarshal(buf.Bytes(), &entry); jsonErr != nil {
		t.Fatalf("output is not JSON: %v", jsonErr)
	}
	if _, ok := entry[StacktraceAttrKey]; !ok {
		t.Errorf("expected %q attribute, got keys %v", StacktraceAttrKey, entry)
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "info", level: "info", want: slog.LevelInfo},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "unknown", level: "verbose", wantErr: true},
		{name: "empty", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToLogLevel(tt.level)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ToLogLevel(%q) should fail", tt.level)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToLogLevel(%q) error: %v", tt.level, err)
			}
			if got != tt.want {
				t.Errorf("ToLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestSetupLoggerRejectsInvalidLevel(t *testing.T) {
	if err := SetupLogger("verbose"); err == nil {
		t.Error("SetupLogger should reject an unknown level name")
	}
}

func TestLoggerEnabled(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at info level")
	}
}
