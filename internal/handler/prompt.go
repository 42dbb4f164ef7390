package handlers

import (
	"errors"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
)

// ErrCancelled is returned when the user quits a prompt or declines a
// confirmation.
var ErrCancelled = errors.New("cancelled")

type Prompter interface {
	Input(question, def string) (string, error)
	Password(question string) (string, error)
}

// TermPrompter asks on the terminal.
type TermPrompter struct{}

func (TermPrompter) Input(question, def string) (string, error) {
	res, err := prompt.New().Ask(question).Input(def)
	return res, quitErr(err)
}

func (TermPrompter) Password(question string) (string, error) {
	res, err := prompt.New().Ask(question).Input("", input.WithEchoMode(input.EchoPassword))
	return res, quitErr(err)
}

func quitErr(err error) error {
	if err != nil && err.Error() == "user quit prompt" {
		return ErrCancelled
	}
	return err
}
