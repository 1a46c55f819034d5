package exec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
}

func TestBasicExecution(t *testing.T) {
	cmd := New()
	result, err := cmd.Run("echo", "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "hello world") {
		t.Errorf("expected stdout to contain 'hello world', got: %s", result.Stdout)
	}

	if result.ExitCode != 0 || !result.Success() {
		t.Errorf("expected exit code 0, got: %d", result.ExitCode)
	}
}

func TestCommandFailure(t *testing.T) {
	cmd := New()
	result, err := cmd.Run("sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got: %T", err)
	}

	if execErr.ExitCode != 3 {
		t.Errorf("expected exit code 3, got: %d", execErr.ExitCode)
	}

	if execErr.StartFailed || IsStartFailure(err) {
		t.Error("a command that ran must not be reported as a start failure")
	}

	if !strings.Contains(execErr.Stderr, "oops") {
		t.Errorf("expected stderr to be captured, got: %q", execErr.Stderr)
	}

	if result == nil || result.Success() {
		t.Fatal("expected a failed result alongside the error")
	}
}

func TestStartFailure(t *testing.T) {
	t.Run("missing executable", func(t *testing.T) {
		result, err := New().Run("reposync-definitely-not-a-real-binary")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !IsStartFailure(err) {
			t.Errorf("expected start failure, got: %v", err)
		}
		if result != nil {
			t.Errorf("expected nil result, got: %+v", result)
		}
	})

	t.Run("missing working directory", func(t *testing.T) {
		_, err := New().WithDir("/nonexistent/reposync/dir").Run("true")
		if !IsStartFailure(err) {
			t.Errorf("expected start failure, got: %v", err)
		}
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := New().Run()
		if !IsStartFailure(err) {
			t.Errorf("expected start failure, got: %v", err)
		}
	})

	t.Run("non exec errors count as start failures", func(t *testing.T) {
		if !IsStartFailure(errors.New("something else")) {
			t.Error("expected plain error to be a start failure")
		}
		if IsStartFailure(nil) {
			t.Error("nil is not a failure")
		}
	})
}

func TestWithDir(t *testing.T) {
	dir := t.TempDir()
	result, err := New().WithDir(dir).Run("pwd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, dir) {
		t.Errorf("expected stdout to contain %q, got: %s", dir, result.Stdout)
	}
}

func TestWithEnv(t *testing.T) {
	result, err := New().WithEnv(map[string]string{
		"TEST_VAR": "test_value",
	}).Run("sh", "-c", "echo $TEST_VAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "test_value") {
		t.Errorf("expected stdout to contain 'test_value', got: %s", result.Stdout)
	}
}

func TestWithDisableColors(t *testing.T) {
	result, err := New().WithDisableColors().Run("sh", "-c", "echo $NO_COLOR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "1") {
		t.Errorf("expected NO_COLOR=1, got: %s", result.Stdout)
	}
}

func TestWithTimeout(t *testing.T) {
	_, err := New().WithTimeout(100 * time.Millisecond).Run("sleep", "5")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}

	if IsStartFailure(err) {
		t.Errorf("a killed process still ran, got start failure: %v", err)
	}
}

func TestWithContext(t *testing.T) {
	t.Run("canceled while running", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := New().WithContext(ctx).Run("sleep", "5")
		if err == nil {
			t.Fatal("expected context cancellation error, got nil")
		}
	})

	t.Run("child holding the output pipes", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := New(WithWaitDelay(200*time.Millisecond)).WithContext(ctx).Run("sh", "-c", "sleep 30 & sleep 30")
		if err == nil {
			t.Fatal("expected context cancellation error, got nil")
		}
		if IsStartFailure(err) {
			t.Errorf("a killed process still ran, got start failure: %v", err)
		}
		if elapsed := time.Since(start); elapsed > 10*time.Second {
			t.Errorf("Run returned after %v, want it bounded by the wait delay", elapsed)
		}
	})

	t.Run("canceled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New().WithContext(ctx).Run("true")
		if !IsStartFailure(err) {
			t.Errorf("expected start failure, got: %v", err)
		}
	})
}

func TestWithPassthrough(t *testing.T) {
	var stdout, stderr bytes.Buffer
	result, err := New().WithStdout(&stdout).WithStderr(&stderr).WithPassthrough().Run("echo", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "test") {
		t.Errorf("expected captured stdout to contain 'test', got: %s", result.Stdout)
	}

	if !strings.Contains(stdout.String(), "test") {
		t.Errorf("expected passthrough stdout to contain 'test', got: %s", stdout.String())
	}
}

func TestSeparateAndCombinedOutput(t *testing.T) {
	result, err := New().Run("sh", "-c", "echo stdout && echo stderr >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "stdout") || strings.Contains(result.Stdout, "stderr") {
		t.Errorf("unexpected stdout: %q", result.Stdout)
	}

	if !strings.Contains(result.Stderr, "stderr") {
		t.Errorf("expected stderr to contain 'stderr', got: %q", result.Stderr)
	}

	if !strings.Contains(result.Combined, "stdout") || !strings.Contains(result.Combined, "stderr") {
		t.Errorf("expected combined output to contain both streams, got: %q", result.Combined)
	}
}

func TestGlobalOptions(t *testing.T) {
	cmd := New(
		WithEnv(map[string]string{"GLOBAL_VAR": "global"}),
		WithDisableColors(),
	)

	for i := 0; i < 2; i++ {
		result, err := cmd.Run("sh", "-c", "echo $GLOBAL_VAR $NO_COLOR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(result.Stdout, "global 1") {
			t.Errorf("run %d: expected global settings to apply, got: %s", i, result.Stdout)
		}
	}
}

func TestLocalSettingsResetAfterRun(t *testing.T) {
	cmd := New(WithEnv(map[string]string{"TEST_VAR": "global"}))

	result, err := cmd.WithEnv(map[string]string{"TEST_VAR": "local"}).Run("sh", "-c", "echo $TEST_VAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "local") {
		t.Errorf("expected local value to override global, got: %s", result.Stdout)
	}

	result, err = cmd.Run("sh", "-c", "echo $TEST_VAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "global") {
		t.Errorf("expected local override to be cleared, got: %s", result.Stdout)
	}
}

func TestClone(t *testing.T) {
	exec1 := New(WithEnv(map[string]string{"GLOBAL_VAR": "global"}))
	exec2 := exec1.Clone()

	result, err := exec2.WithEnv(map[string]string{"LOCAL_VAR": "local"}).Run("sh", "-c", "echo $GLOBAL_VAR $LOCAL_VAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "global local") {
		t.Errorf("expected clone to inherit global config, got: %s", result.Stdout)
	}

	result, err = exec1.Run("sh", "-c", "echo $GLOBAL_VAR $LOCAL_VAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(result.Stdout, "local") {
		t.Errorf("expected original executor to be unaffected by clone, got: %s", result.Stdout)
	}
}

func TestInheritEnv(t *testing.T) {
	t.Setenv("TEST_INHERIT_VAR", "inherited")

	result, err := New().WithInheritEnv().Run("sh", "-c", "echo $TEST_INHERIT_VAR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "inherited") {
		t.Errorf("expected to inherit environment variable, got: %s", result.Stdout)
	}

	if os.Getenv("TEST_INHERIT_VAR") != "inherited" {
		t.Error("parent environment changed")
	}
}
