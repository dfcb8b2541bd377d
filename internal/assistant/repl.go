package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Run reads lines from r, writing prompt before each and the reply after.
// It returns when a reply asks to exit, at end of input or when ctx is done.
func Run(ctx context.Context, h Handler, r io.Reader, w io.Writer, prompt string) error {
	sc := bufio.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, prompt); err != nil {
			return err
		}
		if !sc.Scan() {
			fmt.Fprintln(w)
			return sc.Err()
		}

		resp := h.Handle(sc.Text())
		if resp.Text != "" {
			if _, err := fmt.Fprintln(w, resp.Text); err != nil {
				return err
			}
		}
		if resp.Exit {
			return nil
		}
	}
}
