package lib

import (
	"errors"
	"fmt"
	"os"
)

// ExitCoder is implemented by errors that carry their own process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCode returns the exit code for err: 0 for nil, the code of the first
// ExitCoder in the chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// Exit prints the error and exits the program with its exit code
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}
