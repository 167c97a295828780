package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/snykaudit/cmd/cli"
	"github.com/temirov/snykaudit/internal/membership"
)

const (
	exitCodeSuccessConstant     = 0
	exitCodeFindingsConstant    = 1
	exitCodeInterruptedConstant = 130
	exitErrorTemplateConstant   = "%v\n"
	interruptedMessageConstant  = "interrupted"
)

// main executes the snykaudit command-line application and maps the outcome to a process exit code.
func main() {
	os.Exit(run())
}

func run() int {
	executionContext, stopSignalHandling := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignalHandling()

	return exitCode(cli.ExecuteWithContext(executionContext), os.Stderr)
}

// exitCode maps the execution outcome to the documented process exit codes:
// 0 clean run, 1 findings or failures, 130 interrupt.
func exitCode(executionError error, errorWriter io.Writer) int {
	switch {
	case executionError == nil:
		return exitCodeSuccessConstant
	case errors.Is(executionError, context.Canceled):
		fmt.Fprintf(errorWriter, exitErrorTemplateConstant, interruptedMessageConstant)
		return exitCodeInterruptedConstant
	case errors.Is(executionError, membership.ErrAuditFindings):
		fmt.Fprintf(errorWriter, exitErrorTemplateConstant, executionError)
		return exitCodeFindingsConstant
	default:
		fmt.Fprintf(errorWriter, exitErrorTemplateConstant, executionError)
		return exitCodeFindingsConstant
	}
}
