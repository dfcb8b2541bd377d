// Package assistant turns command lines into address book operations and
// renders the results as text.
package assistant

import (
	"time"

	"github.com/smileynet/phonebook/internal/contact"
)

// Response is the reply to one input line.
type Response struct {
	Text string
	Err  bool // Text describes a failure.
	Exit bool // The session should end.
}

// Handler answers input lines. Implemented by *Assistant.
type Handler interface {
	Handle(line string) Response
}

var _ Handler = (*Assistant)(nil)

// Assistant dispatches commands against an address book.
type Assistant struct {
	book        *contact.AddressBook
	now         func() time.Time
	exitPhrases map[string]bool
	exitList    []string
	window      int
	save        func() error
	autosave    bool
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithClock sets the source of "today" for birthday commands.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// WithExitPhrases replaces the phrases that end a session. Matching ignores
// case and repeated whitespace.
func WithExitPhrases(phrases ...string) Option {
	return func(a *Assistant) {
		a.exitPhrases = make(map[string]bool, len(phrases))
		for _, p := range phrases {
			a.exitPhrases[normalizePhrase(p)] = true
		}
		a.exitList = phrases
	}
}

// WithBirthdayWindow sets the default number of days "birthdays" looks ahead.
func WithBirthdayWindow(days int) Option {
	return func(a *Assistant) { a.window = days }
}

// WithSaver sets the function used by "save". With autosave, it also runs
// after every successful change and on exit.
func WithSaver(save func() error, autosave bool) Option {
	return func(a *Assistant) {
		a.save = save
		a.autosave = autosave
	}
}

// New creates an Assistant for book.
func New(book *contact.AddressBook, opts ...Option) *Assistant {
	a := &Assistant{
		book:   book,
		now:    time.Now,
		window: 7,
	}
	WithExitPhrases("good bye", "close", "exit")(a)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle runs one input line.
func (a *Assistant) Handle(line string) Response {
	if a.exitPhrases[normalizePhrase(line)] {
		return a.exit()
	}

	cmd, err := Parse(line)
	if err != nil {
		return Response{Text: Describe(err), Err: true}
	}
	if cmd.Verb == "help" {
		return Response{Text: helpText(a.exitList)}
	}
	c, ok := commands[cmd.Verb]
	if !ok {
		return Response{Text: Describe(ErrUnknownCommand), Err: true}
	}
	if len(cmd.Args) < c.minArgs || (c.maxArgs >= 0 && len(cmd.Args) > c.maxArgs) {
		return Response{Text: Describe(&UsageError{Usage: c.usage}), Err: true}
	}

	text, err := c.run(a, cmd.Args)
	if err != nil {
		return Response{Text: Describe(err), Err: true}
	}
	if c.mutates && a.autosave && a.save != nil {
		if err := a.save(); err != nil {
			return Response{Text: text + "\n" + Describe(err), Err: true}
		}
	}
	return Response{Text: text}
}

func (a *Assistant) exit() Response {
	if a.save != nil && a.autosave {
		if err := a.save(); err != nil {
			return Response{Text: "Good bye! " + Describe(err), Err: true, Exit: true}
		}
	}
	return Response{Text: "Good bye!", Exit: true}
}
