package separator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/vocalsep"))
	if cli.binary != "/opt/vocalsep" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestSeparateRequiresInput(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Separate(context.Background(), "", t.TempDir()); err == nil {
		t.Fatal("expected error when input path is empty")
	}
}

func TestSeparateRequiresOutputDir(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Separate(context.Background(), "/audio/ref.mp3", ""); err == nil {
		t.Fatal("expected error when output directory is empty")
	}
}

func TestSeparateCacheShortCircuit(t *testing.T) {
	outputDir := t.TempDir()
	cached := filepath.Join(outputDir, "ref.wav")
	if err := os.WriteFile(cached, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	spawned := false
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		spawned = true
		return exec.CommandContext(ctx, name, args...)
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI()
	got, err := cli.Separate(context.Background(), "/audio/ref.mp3", outputDir)
	if err != nil {
		t.Fatalf("Separate returned error: %v", err)
	}
	if got != cached {
		t.Fatalf("expected cached path %s, got %s", cached, got)
	}
	if spawned {
		t.Fatal("cache hit must not launch a subprocess")
	}
}

func TestSeparateSuccess(t *testing.T) {
	outputDir := t.TempDir()
	expected := filepath.Join(outputDir, "song.wav")

	var capturedArgs []string
	stubHelper(t, "success", expected, func(args []string) { capturedArgs = args })

	cli := NewCLI(WithModel("roformer.ckpt"))
	got, err := cli.Separate(context.Background(), "/audio/song.mp3", outputDir)
	if err != nil {
		t.Fatalf("Separate returned error: %v", err)
	}
	if got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}

	if findArg(capturedArgs, "--model") == -1 {
		t.Fatalf("expected --model flag in args %v", capturedArgs)
	}
}

func TestSeparateAppliesConfiguredTimeout(t *testing.T) {
	outputDir := t.TempDir()
	expected := filepath.Join(outputDir, "song.wav")

	var captured context.Context
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = ctx
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"VOCALSEP_HELPER_MODE=success",
			fmt.Sprintf("VOCALSEP_HELPER_OUT=%s", expected),
		)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(WithTimeout(15 * time.Minute))
	if _, err := cli.Separate(context.Background(), "/audio/song.mp3", outputDir); err != nil {
		t.Fatalf("Separate returned error: %v", err)
	}
	deadline, ok := captured.Deadline()
	if !ok {
		t.Fatal("expected subprocess context to carry a deadline")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > 15*time.Minute {
		t.Fatalf("unexpected deadline %v from now", remaining)
	}

	cli = NewCLI()
	captured = nil
	if _, err := cli.Separate(context.Background(), "/audio/other.mp3", outputDir); err != nil {
		t.Fatalf("Separate returned error: %v", err)
	}
	if _, ok := captured.Deadline(); ok {
		t.Fatal("zero timeout must not impose a deadline")
	}
}

func TestSeparateFailure(t *testing.T) {
	outputDir := t.TempDir()
	stubHelper(t, "failure", "", nil)

	cli := NewCLI()
	_, err := cli.Separate(context.Background(), "/audio/song.mp3", outputDir)
	var sepErr *SeparationError
	if !errors.As(err, &sepErr) {
		t.Fatalf("expected SeparationError, got %v", err)
	}
	if sepErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", sepErr.ExitCode)
	}
}

func TestSeparateMissingOutputFile(t *testing.T) {
	outputDir := t.TempDir()
	// Helper prints a path but never creates the file.
	stubHelper(t, "phantom", filepath.Join(outputDir, "ghost.wav"), nil)

	cli := NewCLI()
	_, err := cli.Separate(context.Background(), "/audio/song.mp3", outputDir)
	var sepErr *SeparationError
	if !errors.As(err, &sepErr) {
		t.Fatalf("expected SeparationError, got %v", err)
	}
}

func stubHelper(t *testing.T, mode, outPath string, capture func([]string)) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if capture != nil {
			capture(append([]string(nil), args...))
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("VOCALSEP_HELPER_MODE=%s", mode),
			fmt.Sprintf("VOCALSEP_HELPER_OUT=%s", outPath),
		)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	outPath := os.Getenv("VOCALSEP_HELPER_OUT")
	switch os.Getenv("VOCALSEP_HELPER_MODE") {
	case "success":
		if err := os.WriteFile(outPath, []byte("wav"), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "[vocalsep] separating vocals")
		fmt.Println(outPath)
		os.Exit(0)
	case "phantom":
		fmt.Println(outPath)
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "model load failed")
		os.Exit(3)
	default:
		os.Exit(0)
	}
}

func findArg(args []string, target string) int {
	for i, arg := range args {
		if arg == target {
			return i
		}
	}
	return -1
}
