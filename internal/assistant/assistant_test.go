package assistant

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smileynet/phonebook/internal/contact"
)

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(contact.BirthdayLayout, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestAssistant(t *testing.T, opts ...Option) (*Assistant, *contact.AddressBook) {
	t.Helper()
	book := contact.NewAddressBook(contact.WithPageSize(2))
	opts = append([]Option{WithClock(fixedClock("2024-03-10"))}, opts...)
	return New(book, opts...), book
}

func TestHandle_Replies(t *testing.T) {
	a, _ := newTestAssistant(t)

	steps := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{line: "hello", want: "How can I help you?"},
		{line: "HELLO", want: "How can I help you?"},
		{line: "add Ann 123-456-7890", want: "Contact Ann added."},
		{line: "add Ann 0987654321 2000-03-12", want: "Phone added to Ann."},
		{line: "phone Ann", want: "Contact name: Ann, phones: 1234567890; 0987654321, birthday: 2000-03-12"},
		{line: "change Ann 1111111111", want: "Phone number for Ann changed."},
		{line: "phone Ann", want: "Contact name: Ann, phones: 1111111111; 0987654321, birthday: 2000-03-12"},
		{line: "edit-phone Ann 0987654321 2222222222", want: "Phone updated for Ann."},
		{line: "remove-phone Ann 1111111111", want: "Phone removed from Ann."},
		{line: "phone Ann", want: "Contact name: Ann, phones: 2222222222, birthday: 2000-03-12"},
		{line: "birthday Ann", want: "Ann's birthday (2000-03-12) is in 2 days."},
		{line: "phone Bob", want: "No such contact found.", wantErr: true},
		{line: "add Bob 12345", want: "Invalid phone: must contain exactly 10 digits.", wantErr: true},
		{line: "add Bob", want: "Usage: add NAME PHONE [BIRTHDAY]", wantErr: true},
		{line: "fly", want: "Invalid command. Type 'help' to list them.", wantErr: true},
		{line: "   ", want: "Enter a command. Type 'help' to list them.", wantErr: true},
		{line: "delete Ann", want: "Contact Ann deleted."},
		{line: "show all", want: "No contacts saved."},
	}

	for _, s := range steps {
		got := a.Handle(s.line)
		if got.Text != s.want {
			t.Errorf("Handle(%q).Text = %q, want %q", s.line, got.Text, s.want)
		}
		if got.Err != s.wantErr {
			t.Errorf("Handle(%q).Err = %v, want %v", s.line, got.Err, s.wantErr)
		}
		if got.Exit {
			t.Errorf("Handle(%q).Exit = true, want false", s.line)
		}
	}
}

func TestHandle_ExitPhrases(t *testing.T) {
	for _, line := range []string{"exit", "close", "good bye", "  Good   Bye  ", "EXIT"} {
		t.Run(line, func(t *testing.T) {
			a, _ := newTestAssistant(t)
			got := a.Handle(line)
			if !got.Exit || got.Text != "Good bye!" {
				t.Errorf("Handle(%q) = %+v, want exit with Good bye!", line, got)
			}
		})
	}
}

func TestHandle_CustomExitPhrases(t *testing.T) {
	a, _ := newTestAssistant(t, WithExitPhrases("quit"))

	if got := a.Handle("quit"); !got.Exit {
		t.Error("quit should exit")
	}
	if got := a.Handle("exit"); got.Exit {
		t.Error("exit should no longer end the session")
	}
}

func TestHandle_ShowPages(t *testing.T) {
	// Given: three contacts with page size 2
	a, _ := newTestAssistant(t)
	for _, line := range []string{"add Ann 1111111111", "add Bob 2222222222", "add Cid 3333333333"} {
		if r := a.Handle(line); r.Err {
			t.Fatalf("Handle(%q) failed: %s", line, r.Text)
		}
	}

	// When/Then: each page lists its slice in insertion order
	got := a.Handle("show 2")
	want := "Page 2 of 2\nContact name: Cid, phones: 3333333333"
	if got.Text != want {
		t.Errorf("show 2 = %q, want %q", got.Text, want)
	}
	if got := a.Handle("page 1"); !strings.Contains(got.Text, "Ann") || !strings.Contains(got.Text, "Bob") {
		t.Errorf("page 1 = %q, want Ann and Bob", got.Text)
	}
	if got := a.Handle("show 3"); got.Text != "Page 3 not found. Pages: 1-2." || !got.Err {
		t.Errorf("show 3 = %+v", got)
	}
	if got := a.Handle("show x"); got.Text != "Usage: show PAGE" {
		t.Errorf("show x = %q", got.Text)
	}
	all := a.Handle("Show ALL")
	if lines := strings.Split(all.Text, "\n"); len(lines) != 3 {
		t.Errorf("show all returned %d lines, want 3: %q", len(lines), all.Text)
	}
}

func TestHandle_Search(t *testing.T) {
	a, _ := newTestAssistant(t)
	a.Handle("add Anna 1234567890")
	a.Handle("add Bob 5550001111")

	if got := a.Handle("search ANN"); got.Text != "Contact name: Anna, phones: 1234567890" {
		t.Errorf("search ANN = %q", got.Text)
	}
	if got := a.Handle("search 555"); !strings.HasPrefix(got.Text, "Contact name: Bob") {
		t.Errorf("search 555 = %q", got.Text)
	}
	if got := a.Handle("search zed"); got.Text != `No contacts match "zed".` || got.Err {
		t.Errorf("search zed = %+v", got)
	}
}

func TestHandle_Birthdays(t *testing.T) {
	// Given: today is 2024-03-10
	a, _ := newTestAssistant(t)
	a.Handle("add Ann 1111111111 1990-03-10")
	a.Handle("add Bob 2222222222 1985-03-11")
	a.Handle("add Cid 3333333333 1970-04-01")

	// Then: the default window of 7 days includes Ann and Bob only
	got := a.Handle("birthdays")
	want := "Ann: 2024-03-10 (today)\nBob: 2024-03-11 (tomorrow)"
	if got.Text != want {
		t.Errorf("birthdays = %q, want %q", got.Text, want)
	}

	if got := a.Handle("birthdays 30"); !strings.Contains(got.Text, "Cid: 2024-04-01 (in 22 days)") {
		t.Errorf("birthdays 30 = %q", got.Text)
	}
	if got := a.Handle("birthdays -1"); got.Text != "Usage: birthdays [DAYS]" {
		t.Errorf("birthdays -1 = %q", got.Text)
	}

	a.Handle("delete Ann")
	a.Handle("delete Bob")
	if got := a.Handle("birthdays"); got.Text != "No birthdays in the next 7 days." {
		t.Errorf("birthdays = %q", got.Text)
	}
}

func TestHandle_BirthdaySet(t *testing.T) {
	a, book := newTestAssistant(t)
	a.Handle("add Ann 1111111111")

	if got := a.Handle("birthday Ann"); got.Text != "Ann has no birthday set." {
		t.Errorf("birthday Ann = %q", got.Text)
	}
	if got := a.Handle("birthday Ann 2024-02-30"); !got.Err || !strings.HasPrefix(got.Text, "Invalid birthday:") {
		t.Errorf("invalid date = %+v", got)
	}
	if got := a.Handle("birthday Ann 2000-01-01"); got.Text != "Birthday for Ann set to 2000-01-01." {
		t.Errorf("set = %q", got.Text)
	}
	r, _ := book.FindExact("Ann")
	if bd, ok := r.Birthday(); !ok || bd.String() != "2000-01-01" {
		t.Errorf("stored birthday = %v, %v", bd, ok)
	}
}

func TestHandle_RemoveMissingPhone(t *testing.T) {
	a, _ := newTestAssistant(t)
	a.Handle("add Ann 1111111111")

	got := a.Handle("remove-phone Ann 9999999999")
	if got.Text != "No such phone found: 9999999999." || !got.Err {
		t.Errorf("remove-phone = %+v", got)
	}
}

func TestHandle_Help(t *testing.T) {
	a, _ := newTestAssistant(t)
	got := a.Handle("help")
	for _, want := range []string{"add NAME PHONE [BIRTHDAY]", "show all", "birthdays [DAYS]", "good bye | close | exit"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("help missing %q:\n%s", want, got.Text)
		}
	}
}

func TestHandle_Autosave(t *testing.T) {
	// Given: an assistant with autosave that counts saves
	saves := 0
	a, _ := newTestAssistant(t, WithSaver(func() error { saves++; return nil }, true))

	// When: a read and a change are issued
	a.Handle("show all")
	a.Handle("add Ann 1111111111")
	a.Handle("add Ann bad")

	// Then: only the successful change saved
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}

	// And: exit saves once more
	a.Handle("exit")
	if saves != 2 {
		t.Errorf("saves after exit = %d, want 2", saves)
	}
}

func TestHandle_SaveFailure(t *testing.T) {
	boom := errors.New("disk full")
	a, _ := newTestAssistant(t, WithSaver(func() error { return boom }, false))

	if got := a.Handle("add Ann 1111111111"); got.Err {
		t.Errorf("add without autosave should not save, got %+v", got)
	}
	if got := a.Handle("save"); !got.Err || got.Text != "disk full" {
		t.Errorf("save = %+v", got)
	}
	if got := a.Handle("exit"); !got.Exit || got.Err || got.Text != "Good bye!" {
		t.Errorf("exit without autosave = %+v", got)
	}
}

func TestHandle_ExitSaveFailure(t *testing.T) {
	a, _ := newTestAssistant(t, WithSaver(func() error { return errors.New("disk full") }, true))

	got := a.Handle("exit")
	if !got.Exit || !got.Err || got.Text != "Good bye! disk full" {
		t.Errorf("exit = %+v", got)
	}
}

func TestHandle_SaveWithoutSaver(t *testing.T) {
	a, _ := newTestAssistant(t)
	if got := a.Handle("save"); got.Text != "Saving is not configured." {
		t.Errorf("save = %q", got.Text)
	}
}
