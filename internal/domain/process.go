package domain

import "strings"

// ProcessResult holds the captured outcome of one external process run.
type ProcessResult struct {
	Program  string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandLine renders the invocation for messages and history.
func (r ProcessResult) CommandLine() string {
	return CommandLine(r.Program, r.Args)
}

// Succeeded reports a zero exit code.
func (r ProcessResult) Succeeded() bool {
	return r.ExitCode == 0
}

// CommandLine joins a program and its arguments with spaces.
func CommandLine(program string, args []string) string {
	if len(args) == 0 {
		return program
	}
	return program + " " + strings.Join(args, " ")
}
