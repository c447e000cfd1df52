package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/surf/internal/shared"
	"golang.org/x/term"
)

// prompt writes label and reads one trimmed line of input.
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s: ", label)
	line, err := r.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptDefault is [Runner.prompt] with a value used for empty input.
func (r *Runner) promptDefault(label, def string) (string, error) {
	v, err := r.prompt(fmt.Sprintf("%s [%s]", label, def))
	if err != nil || v != "" {
		return v, err
	}
	return def, nil
}

// promptSecret reads a password without echo when input is a terminal.
func (r *Runner) promptSecret(label string) (string, error) {
	if r.stdin == nil || !term.IsTerminal(int(r.stdin.Fd())) {
		return r.prompt(label)
	}

	r.writePlain("%s: ", label)
	b, err := term.ReadPassword(int(r.stdin.Fd()))
	r.writePlain("\n")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// promptConfirm asks a yes/no question. Empty input returns def.
func (r *Runner) promptConfirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	v, err := r.prompt(fmt.Sprintf("%s (%s)", label, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// promptChoice lists options and reads a 1-based index or the option text.
func (r *Runner) promptChoice(label string, options []string) (string, error) {
	for i, o := range options {
		r.writePlain("  %2d. %s\n", i+1, o)
	}
	for {
		v, err := r.prompt(label)
		if err != nil {
			return "", err
		}
		if choice, ok := pickOption(options, v); ok {
			return choice, nil
		}
		r.writePlain("Please choose 1-%d\n", len(options))
	}
}

// pickOption resolves v as a 1-based index or a case-insensitive option name.
func pickOption(options []string, v string) (string, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o, true
		}
	}
	return "", false
}
