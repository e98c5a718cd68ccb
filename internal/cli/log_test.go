package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const danglingYAML = `stages:
  - build
jobs:
  compile:
    stage: build
    script:
      - make
    needs:
      - ghost
`

// runLogged runs the CLI with its logger writing to the returned buffer.
func runLogged(t *testing.T, level log.Level, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, level)
	c.Out = io.Discard
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return &logs, root.ExecuteContext(context.Background())
}

func TestCompileLogsProgress(t *testing.T) {
	dir := setupEnv(t)
	doc := writeFile(t, filepath.Join(dir, "ci.yml"), sampleYAML)

	logs, err := runLogged(t, LogInfo, "compile", doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Compiled 2 jobs (", "file=" + doc} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, logs)
		}
	}
}

func TestCompileLogsWarnings(t *testing.T) {
	dir := setupEnv(t)
	doc := writeFile(t, filepath.Join(dir, "ci.yml"), danglingYAML)
	snap := filepath.Join(dir, "canvas.json")
	if _, err := run(t, "import", doc, "-o", snap); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		level        log.Level
		wantProgress bool
	}{
		{"info", LogInfo, true},
		{"debug", LogDebug, true},
		{"warn only", log.WarnLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, err := runLogged(t, tt.level, "compile", snap)
			if err != nil {
				t.Fatal(err)
			}
			out := logs.String()
			if !strings.Contains(out, "kind=dangling_need") || !strings.Contains(out, "file="+snap) {
				t.Errorf("dangling need not logged:\n%s", out)
			}
			if got := strings.Contains(out, "Compiled 1 jobs"); got != tt.wantProgress {
				t.Errorf("progress line logged = %v, want %v:\n%s", got, tt.wantProgress, out)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at info level: %s", buf.String())
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("restored snapshot", "blocks", 4)
	if !strings.Contains(buf.String(), "blocks=4") {
		t.Errorf("debug line missing after --verbose: %s", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should fall back to log.Default()")
	}
	l := newLogger(io.Discard, LogInfo)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("attached logger not returned")
	}
}
