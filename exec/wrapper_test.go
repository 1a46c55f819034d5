package exec_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jmgilman/reposync/exec"
	"github.com/jmgilman/reposync/exec/mocks"
)

func TestWrapperBasicExecution(t *testing.T) {
	echo := exec.NewWrapper(exec.New(), "echo")

	if echo.Name() != "echo" {
		t.Errorf("expected name 'echo', got: %s", echo.Name())
	}

	result, err := echo.Run("hello", "world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "hello world") {
		t.Errorf("expected stdout to contain 'hello world', got: %s", result.Stdout)
	}
}

func TestWrapperChaining(t *testing.T) {
	sh := exec.NewWrapper(exec.New(), "sh")
	dir := t.TempDir()

	result, err := sh.
		WithEnv(map[string]string{"VAR1": "value1"}).
		WithEnv(map[string]string{"VAR2": "value2"}).
		WithDir(dir).
		Run("-c", "echo $VAR1 $VAR2 && pwd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "value1 value2") {
		t.Errorf("expected both env vars to be set, got: %s", result.Stdout)
	}

	if !strings.Contains(result.Stdout, dir) {
		t.Errorf("expected working directory %s, got: %s", dir, result.Stdout)
	}
}

func TestWrapperCloneIsIndependent(t *testing.T) {
	sh := exec.NewWrapper(exec.New(), "sh")
	clone := sh.Clone()

	if _, err := clone.WithEnv(map[string]string{"ONLY_CLONE": "yes"}).Run("-c", "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := sh.Run("-c", "echo ${ONLY_CLONE:-unset}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Stdout, "unset") {
		t.Errorf("expected clone settings to stay on the clone, got: %s", result.Stdout)
	}
}

func TestWrapperWithMock(t *testing.T) {
	var mockExec *mocks.ExecutorMock
	mockExec = &mocks.ExecutorMock{
		WithEnvFunc: func(env map[string]string) exec.Executor {
			if env["TEST_VAR"] != "test_value" {
				t.Errorf("expected TEST_VAR=test_value, got: %v", env)
			}
			return mockExec
		},
		WithDirFunc: func(dir string) exec.Executor {
			if dir != "/srv/repo" {
				t.Errorf("expected dir=/srv/repo, got: %s", dir)
			}
			return mockExec
		},
		WithContextFunc: func(ctx context.Context) exec.Executor {
			return mockExec
		},
		WithTimeoutFunc: func(timeout time.Duration) exec.Executor {
			if timeout != time.Minute {
				t.Errorf("expected 1m timeout, got: %s", timeout)
			}
			return mockExec
		},
		WithStdoutFunc: func(w io.Writer) exec.Executor {
			return mockExec
		},
		RunFunc: func(args ...string) (*exec.Result, error) {
			return &exec.Result{Stdout: "mock output"}, nil
		},
	}

	git := exec.NewWrapper(mockExec, "git")

	result, err := git.
		WithEnv(map[string]string{"TEST_VAR": "test_value"}).
		WithDir("/srv/repo").
		WithContext(context.Background()).
		WithTimeout(time.Minute).
		Run("fetch", "origin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stdout != "mock output" {
		t.Errorf("expected mock output, got: %s", result.Stdout)
	}

	runCalls := mockExec.RunCalls()
	if len(runCalls) != 1 {
		t.Fatalf("expected Run to be called once, got: %d", len(runCalls))
	}

	want := []string{"git", "fetch", "origin"}
	if strings.Join(runCalls[0].Args, " ") != strings.Join(want, " ") {
		t.Errorf("expected args %v, got: %v", want, runCalls[0].Args)
	}

	if len(mockExec.WithEnvCalls()) != 1 || len(mockExec.WithDirCalls()) != 1 {
		t.Error("expected WithEnv and WithDir to be called once each")
	}
}
