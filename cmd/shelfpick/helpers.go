package main

import (
	"fmt"
	"io"
	"time"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiBold  = "\x1b[1m"
)

// headline prints a bold line when stdout is a terminal, plain text otherwise.
func headline(out io.Writer, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if isTerminal(out) {
		fmt.Fprintf(out, "%s%s%s\n", ansiBold, line, ansiReset)
		return
	}
	fmt.Fprintln(out, line)
}

func okLine(out io.Writer, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if isTerminal(out) {
		fmt.Fprintf(out, "%s%s%s\n", ansiGreen, line, ansiReset)
		return
	}
	fmt.Fprintln(out, line)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
