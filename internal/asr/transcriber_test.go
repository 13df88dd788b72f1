package asr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"
)

func stubASR(t *testing.T, mode string, capture func([]string)) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if capture != nil {
			capture(append([]string(nil), args...))
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestASRHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("ASR_HELPER_MODE=%s", mode),
		)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestCLITranscribeMapsLanguage(t *testing.T) {
	var captured []string
	stubASR(t, "success", func(args []string) { captured = args })

	// os.Args[0] resolves via LookPath, standing in for the real command.
	cli := NewCLI(WithBinary(os.Args[0]), WithModel("Qwen/Qwen3-ASR-0.6B"))
	text, err := cli.Transcribe(context.Background(), "/audio/ref.wav", "ja")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "やったぜ" {
		t.Fatalf("unexpected transcript %q", text)
	}

	foundLang := false
	for i, arg := range captured {
		if arg == "--language" && i+1 < len(captured) {
			if captured[i+1] != "Japanese" {
				t.Fatalf("expected full language name, got %q", captured[i+1])
			}
			foundLang = true
		}
	}
	if !foundLang {
		t.Fatalf("expected --language flag in %v", captured)
	}
}

func TestCLITranscribeRequiresAudio(t *testing.T) {
	cli := NewCLI(WithBinary(os.Args[0]))
	if _, err := cli.Transcribe(context.Background(), "", "ja"); err == nil {
		t.Fatal("expected error for empty audio path")
	}
}

func TestCLITranscribeFailure(t *testing.T) {
	stubASR(t, "failure", nil)
	cli := NewCLI(WithBinary(os.Args[0]))
	if _, err := cli.Transcribe(context.Background(), "/audio/ref.wav", "ja"); err == nil {
		t.Fatal("expected error from failing command")
	}
}

func TestCLITranscribeAppliesConfiguredTimeout(t *testing.T) {
	var captured context.Context
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = ctx
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestASRHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"ASR_HELPER_MODE=success",
		)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(WithBinary(os.Args[0]), WithTimeout(10*time.Minute))
	if _, err := cli.Transcribe(context.Background(), "/audio/ref.wav", "ja"); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	deadline, ok := captured.Deadline()
	if !ok {
		t.Fatal("expected subprocess context to carry a deadline")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > 10*time.Minute {
		t.Fatalf("unexpected deadline %v from now", remaining)
	}

	cli = NewCLI(WithBinary(os.Args[0]))
	captured = nil
	if _, err := cli.Transcribe(context.Background(), "/audio/ref.wav", "ja"); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if _, ok := captured.Deadline(); ok {
		t.Fatal("zero timeout must not impose a deadline")
	}
}

func TestCLIResolveUnknownBinary(t *testing.T) {
	cli := NewCLI(WithBinary("definitely-not-a-real-asr-command"))
	if _, err := cli.Transcribe(context.Background(), "/audio/ref.wav", "ja"); err == nil {
		t.Fatal("expected lookup error")
	}
}

func TestASRHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("ASR_HELPER_MODE") {
	case "success":
		fmt.Println("やったぜ")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "model download failed")
		os.Exit(2)
	default:
		os.Exit(0)
	}
}
