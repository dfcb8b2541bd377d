package tui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/phonebook/internal/assistant"
)

// Options configures a chat session.
type Options struct {
	Reader     io.Reader // Input source (default: os.Stdin).
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Use the line-oriented loop even on a terminal.
	Prompt     string
}

// Run starts a chat session with h. It uses the Bubble Tea interface when
// Writer is a terminal and the plain read-eval-print loop otherwise.
func Run(ctx context.Context, h assistant.Handler, opts Options) error {
	if opts.Reader == nil {
		opts.Reader = os.Stdin
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return assistant.Run(ctx, h, opts.Reader, opts.Writer, opts.Prompt)
	}

	var mopts []ModelOption
	if opts.Prompt != "" {
		mopts = append(mopts, WithPrompt(opts.Prompt))
	}
	p := tea.NewProgram(NewModel(h, mopts...),
		tea.WithContext(ctx),
		tea.WithInput(opts.Reader),
		tea.WithOutput(opts.Writer),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
