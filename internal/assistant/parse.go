package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCommand indicates a blank input line.
var ErrEmptyCommand = errors.New("assistant: no command entered")

// ErrUnknownCommand indicates a verb with no handler.
var ErrUnknownCommand = errors.New("assistant: unknown command")

// UsageError reports a command called with the wrong arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("assistant: usage: %s", e.Usage)
}

// Command is one tokenized input line.
type Command struct {
	Verb string
	Args []string
}

// twoWordVerbs are verbs written as two tokens.
var twoWordVerbs = map[string]bool{
	"show all": true,
}

// Parse splits line on whitespace. The verb is lower-cased; arguments keep
// their case.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]
	if len(args) > 0 {
		if pair := verb + " " + strings.ToLower(args[0]); twoWordVerbs[pair] {
			verb, args = pair, args[1:]
		}
	}
	return Command{Verb: verb, Args: args}, nil
}

// normalizePhrase lower-cases s and collapses runs of whitespace.
func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
