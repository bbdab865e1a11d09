package batch

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/extract"
)

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("error = %v, want a cli exit error", err)
	}
	return coder.ExitCode()
}

func TestExtractActionRequiresFlags(t *testing.T) {
	// Actions report failures through the cli error path so deferred
	// cleanup still runs; they never exit the process themselves.
	set := flag.NewFlagSet("extract", flag.ContinueOnError)
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	err := ExtractAction(ctx)
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestExtractFileMissingDocument(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	err := extractFile(filepath.Join(t.TempDir(), "absent.html"), extract.Default(), logger)
	if code := exitCode(t, err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}
