// Package exec provides a testable interface for running local commands.
//
// It wraps os/exec behind the Executor interface, implemented by Command and
// CommandWrapper. Production code builds a Command with New; tests substitute
// mocks.ExecutorMock. Output is captured separately per stream and combined,
// and can be streamed to writers at the same time (passthrough).
//
// # Basic Usage
//
//	cmd := exec.New()
//	result, err := cmd.Run("git", "--version")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Stdout)
//
// # Configuration
//
// Options passed to New are global and apply to every run. The With* methods
// are local and apply to the next Run only:
//
//	cmd := exec.New(
//		exec.WithInheritEnv(),
//		exec.WithDisableColors(),
//	)
//
//	result, err := cmd.
//		WithDir("/srv/repo").
//		WithTimeout(5 * time.Minute).
//		Run("git", "fetch", "origin")
//
// An Executor is not safe for concurrent use. Call Clone to obtain an
// independent copy per goroutine.
//
// # Command Wrappers
//
// A wrapper prepends a fixed command name:
//
//	git := exec.NewWrapper(exec.New(), "git")
//	result, err := git.WithDir("/srv/repo").Run("status")
//	// Equivalent to: exec.New().WithDir("/srv/repo").Run("git", "status")
//
// # Error Handling
//
// Every error returned by Run is an *ExecError. Two failure modes are kept
// apart because callers treat them differently:
//
//   - StartFailed: the process never ran (missing executable, bad working
//     directory, context already done). Result is nil and ExitCode is -1.
//   - exit failure: the process ran and exited non-zero, or was killed.
//     Result and ExecError both carry the exit code and captured output.
//
//	_, err := cmd.Run("git", "checkout", "deadbeef")
//	if exec.IsStartFailure(err) {
//		// git is not installed
//	}
//
// # Testing
//
// mocks.ExecutorMock is generated by moq from the Executor interface. Chaining
// methods should return the mock itself:
//
//	var mock *mocks.ExecutorMock
//	mock = &mocks.ExecutorMock{
//		WithDirFunc: func(string) exec.Executor { return mock },
//		RunFunc: func(args ...string) (*exec.Result, error) {
//			return &exec.Result{}, nil
//		},
//	}
package exec
