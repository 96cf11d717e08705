// Package picker asks the operator to choose a trial when none was given.
package picker

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when in is not a terminal.
var ErrNotInteractive = errors.New("trial id required: no terminal to prompt on")

// ErrNoTrials is returned when there is nothing to choose from.
var ErrNoTrials = errors.New("no trials found")

// Test hooks for replacing the terminal check and the interactive form.
var (
	isTerminal  = func(fd int) bool { return term.IsTerminal(fd) }
	selectTrial = defaultSelectTrial
)

// IsInteractive reports whether in is a terminal.
func IsInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}

// Trial prompts for one of trials on in/out.
func Trial(in io.Reader, out io.Writer, title string, trials []string) (string, error) {
	if len(trials) == 0 {
		return "", ErrNoTrials
	}
	if !IsInteractive(in) {
		return "", ErrNotInteractive
	}
	return selectTrial(in, out, title, trials)
}

func defaultSelectTrial(in io.Reader, out io.Writer, title string, trials []string) (string, error) {
	var chosen string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(trials...)...).
				Height(min(len(trials)+2, 15)).
				Value(&chosen),
		),
	).WithInput(in).WithOutput(out).Run()
	if err != nil {
		return "", err
	}
	return chosen, nil
}
