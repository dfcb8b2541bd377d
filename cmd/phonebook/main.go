package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/natefinch/atomic"

	"github.com/smileynet/phonebook"
	"github.com/smileynet/phonebook/internal/assistant"
	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/logging"
	"github.com/smileynet/phonebook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitSuccess = 0
	exitUser    = 1 // Not found, validation and page errors.
	exitSetup   = 2 // Config, file and terminal errors.
)

// errUsage marks a flag value the command cannot use.
var errUsage = errors.New("invalid usage")

// Globals are flags shared by every command.
type Globals struct {
	Config   string `help:"Extra config file, applied after the user and project layers." type:"path"`
	Book     string `help:"Address book file (overrides book.path)." type:"path"`
	LogLevel string `help:"Log level: debug, info, warn or error (overrides log.level)."`
}

// CLI is the top-level command structure for phonebook.
type CLI struct {
	Globals

	Version     kong.VersionFlag `help:"Show version." short:"V"`
	Add         AddCmd           `cmd:"" help:"Add a contact, or another phone to an existing one."`
	Change      ChangeCmd        `cmd:"" help:"Replace a contact's first phone."`
	Phone       PhoneCmd         `cmd:"" help:"Show a contact's phones."`
	EditPhone   EditPhoneCmd     `cmd:"" name:"edit-phone" help:"Replace one phone of a contact."`
	RemovePhone RemovePhoneCmd   `cmd:"" name:"remove-phone" help:"Remove one phone from a contact."`
	Delete      DeleteCmd        `cmd:"" help:"Delete a contact."`
	Search      SearchCmd        `cmd:"" help:"Find contacts by name or phone."`
	List        ListCmd          `cmd:"" help:"List contacts."`
	Birthday    BirthdayCmd      `cmd:"" help:"Show or set a contact's birthday."`
	Birthdays   BirthdaysCmd     `cmd:"" help:"List upcoming birthdays."`
	Chat        ChatCmd          `cmd:"" help:"Start an interactive assistant session."`
	Init        InitCmd          `cmd:"" help:"Write a default project config."`
}

// projectConfig is the project-level config layer.
const projectConfig = ".phonebook/config.yaml"

// loadConfig loads layered config from user and project paths, the --config
// file and env overrides.
func loadConfig(extra string) (*config.Config, error) {
	if extra != "" {
		if _, err := os.Stat(extra); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/phonebook/config.yaml"),
		projectConfig,
		extra,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is a loaded config, logger and address book.
type session struct {
	cfg  *config.Config
	log  *slog.Logger
	book *contact.AddressBook
}

// open resolves config and flag overrides, then loads the address book.
func (g *Globals) open() (*session, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Book != "" {
		cfg.Book.Path = g.Book
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	book := contact.NewAddressBook(contact.WithPageSize(cfg.Book.PageSize))
	if err := book.Load(cfg.Book.Path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.Book.Path, err)
	}
	logger.Debug("book loaded", "path", cfg.Book.Path, "records", book.Len())
	return &session{cfg: cfg, log: logger, book: book}, nil
}

func (s *session) save() error {
	if err := s.book.Save(s.cfg.Book.Path); err != nil {
		return fmt.Errorf("saving %s: %w", s.cfg.Book.Path, err)
	}
	s.log.Debug("book saved", "path", s.cfg.Book.Path, "records", s.book.Len())
	return nil
}

// view runs fn against the loaded book.
func (g *Globals) view(fn func(s *session) error) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	return fn(s)
}

// mutate runs fn against the loaded book and saves it if fn succeeds.
func (g *Globals) mutate(fn func(s *session) error) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return s.save()
}

// --- Contact commands ---

// AddCmd adds a contact or appends a phone.
type AddCmd struct {
	Name     string `arg:"" help:"Contact name."`
	Phone    string `arg:"" help:"Phone number with 10 digits."`
	Birthday string `arg:"" optional:"" help:"Birthday as YYYY-MM-DD."`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals) error {
	return g.mutate(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *AddCmd) run(w io.Writer, book *contact.AddressBook) error {
	_, existed := book.FindExact(c.Name)
	r, err := book.AddOrUpdate(c.Name, c.Phone, c.Birthday)
	if err != nil {
		return err
	}
	if existed {
		fmt.Fprintf(w, "Phone added to %s.\n", r.Name())
		return nil
	}
	fmt.Fprintf(w, "Contact %s added.\n", r.Name())
	return nil
}

// ChangeCmd replaces a contact's first phone.
type ChangeCmd struct {
	Name     string `arg:"" help:"Contact name."`
	Phone    string `arg:"" help:"New phone number."`
	Birthday string `arg:"" optional:"" help:"New birthday as YYYY-MM-DD."`
}

// Run executes the change command.
func (c *ChangeCmd) Run(g *Globals) error {
	return g.mutate(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *ChangeCmd) run(w io.Writer, book *contact.AddressBook) error {
	if err := book.ChangePhone(c.Name, c.Phone, c.Birthday); err != nil {
		return err
	}
	fmt.Fprintf(w, "Phone number for %s changed.\n", c.Name)
	return nil
}

// PhoneCmd prints a contact's phones, one per line.
type PhoneCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the phone command.
func (c *PhoneCmd) Run(g *Globals) error {
	return g.view(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *PhoneCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findContact(book, c.Name)
	if err != nil {
		return err
	}
	for _, p := range r.PhoneNumbers() {
		fmt.Fprintln(w, p)
	}
	return nil
}

// EditPhoneCmd replaces one phone of a contact.
type EditPhoneCmd struct {
	Name string `arg:"" help:"Contact name."`
	Old  string `arg:"" help:"Phone to replace."`
	New  string `arg:"" help:"Replacement phone."`
}

// Run executes the edit-phone command.
func (c *EditPhoneCmd) Run(g *Globals) error {
	return g.mutate(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *EditPhoneCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findContact(book, c.Name)
	if err != nil {
		return err
	}
	if err := r.EditPhone(c.Old, c.New); err != nil {
		return err
	}
	fmt.Fprintf(w, "Phone updated for %s.\n", r.Name())
	return nil
}

// RemovePhoneCmd removes one phone from a contact.
type RemovePhoneCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone to remove."`
}

// Run executes the remove-phone command.
func (c *RemovePhoneCmd) Run(g *Globals) error {
	return g.mutate(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *RemovePhoneCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findContact(book, c.Name)
	if err != nil {
		return err
	}
	if !r.RemovePhone(c.Phone) {
		return &contact.NotFoundError{Kind: "phone", Key: c.Phone}
	}
	fmt.Fprintf(w, "Phone removed from %s.\n", r.Name())
	return nil
}

// DeleteCmd deletes a contact.
type DeleteCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the delete command.
func (c *DeleteCmd) Run(g *Globals) error {
	return g.mutate(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *DeleteCmd) run(w io.Writer, book *contact.AddressBook) error {
	if !book.Delete(c.Name) {
		return &contact.NotFoundError{Kind: "contact", Key: c.Name}
	}
	fmt.Fprintf(w, "Contact %s deleted.\n", c.Name)
	return nil
}

// SearchCmd lists contacts whose name or phone contains the query.
type SearchCmd struct {
	Query []string `arg:"" help:"Text to look for."`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	return g.view(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *SearchCmd) run(w io.Writer, book *contact.AddressBook) error {
	query := strings.Join(c.Query, " ")
	found := book.Search(query)
	if len(found) == 0 {
		fmt.Fprintf(w, "No contacts match %q.\n", query)
		return nil
	}
	fmt.Fprintln(w, renderTable(found))
	return nil
}

// ListCmd lists all contacts or one page of them.
type ListCmd struct {
	Page int `help:"Page to show; 0 lists every contact." default:"0"`
}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	return g.view(func(s *session) error { return c.run(os.Stdout, s.book) })
}

func (c *ListCmd) run(w io.Writer, book *contact.AddressBook) error {
	if c.Page == 0 {
		if book.Len() == 0 {
			fmt.Fprintln(w, "No contacts saved.")
			return nil
		}
		fmt.Fprintln(w, renderTable(book.Records()))
		return nil
	}

	records, err := book.ListPage(c.Page)
	if err != nil {
		return fmt.Errorf("list: %w (pages: %d)", err, book.PageCount())
	}
	fmt.Fprintln(w, renderTable(records))
	fmt.Fprintf(w, "Page %d of %d\n", c.Page, book.PageCount())
	return nil
}

// --- Birthday commands ---

// BirthdayCmd shows a contact's next birthday, or sets it with --set.
type BirthdayCmd struct {
	Name string `arg:"" help:"Contact name."`
	Set  string `help:"Birthday to store, as YYYY-MM-DD."`
}

// Run executes the birthday command.
func (c *BirthdayCmd) Run(g *Globals) error {
	if c.Set != "" {
		return g.mutate(func(s *session) error { return c.run(os.Stdout, s.book, time.Now()) })
	}
	return g.view(func(s *session) error { return c.run(os.Stdout, s.book, time.Now()) })
}

func (c *BirthdayCmd) run(w io.Writer, book *contact.AddressBook, today time.Time) error {
	r, err := findContact(book, c.Name)
	if err != nil {
		return err
	}
	if c.Set != "" {
		if err := r.SetBirthday(c.Set); err != nil {
			return err
		}
		fmt.Fprintf(w, "Birthday for %s set to %s.\n", r.Name(), strings.TrimSpace(c.Set))
		return nil
	}

	days, ok := r.DaysToBirthday(today)
	if !ok {
		fmt.Fprintf(w, "%s has no birthday set.\n", r.Name())
		return nil
	}
	next, _ := r.NextBirthday(today)
	fmt.Fprintf(w, "%s: %s (%d days)\n", r.Name(), next.Format(contact.BirthdayLayout), days)
	return nil
}

// BirthdaysCmd lists contacts whose birthday falls within the next days.
type BirthdaysCmd struct {
	Days int `help:"Days to look ahead (default: assistant.birthday_window)." default:"-1"`
}

// Run executes the birthdays command.
func (c *BirthdaysCmd) Run(g *Globals) error {
	return g.view(func(s *session) error {
		return c.run(os.Stdout, s.book, time.Now(), s.cfg.Assistant.BirthdayWindow)
	})
}

func (c *BirthdaysCmd) run(w io.Writer, book *contact.AddressBook, today time.Time, window int) error {
	days := c.Days
	if days == -1 {
		days = window
	}
	if days < 0 {
		return fmt.Errorf("birthdays: --days must not be negative: %w", errUsage)
	}

	upcoming := book.UpcomingBirthdays(today, days)
	if len(upcoming) == 0 {
		fmt.Fprintf(w, "No birthdays in the next %d days.\n", days)
		return nil
	}
	t := newTable("NAME", "DATE", "IN DAYS")
	for _, u := range upcoming {
		t.Row(u.Record.Name(), u.Date.Format(contact.BirthdayLayout), fmt.Sprint(u.Days))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

// --- Chat command ---

// ChatCmd starts the interactive assistant.
type ChatCmd struct {
	NoTUI bool `help:"Force the plain prompt even if stdout is a TTY." default:"false"`
}

// Run executes the chat command.
func (c *ChatCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = c.run(ctx, s, tui.Options{ForcePlain: c.NoTUI, Prompt: s.cfg.Assistant.Prompt})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *ChatCmd) run(ctx context.Context, s *session, opts tui.Options) error {
	saver := func() error {
		err := s.save()
		if err != nil {
			s.log.Error("save failed", "path", s.cfg.Book.Path, "err", err)
		}
		return err
	}
	a := assistant.New(s.book,
		assistant.WithExitPhrases(s.cfg.Assistant.ExitPhrases...),
		assistant.WithBirthdayWindow(s.cfg.Assistant.BirthdayWindow),
		assistant.WithSaver(saver, s.cfg.Book.Autosave),
	)
	return tui.Run(ctx, a, opts)
}

// --- Init command ---

// InitCmd writes the default config to the project config path.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config."`
}

// Run executes the init command.
func (c *InitCmd) Run() error {
	return c.run(os.Stdout, projectConfig, os.ExpandEnv("$HOME/.config/phonebook/templates"))
}

func (c *InitCmd) run(w io.Writer, path, templateDir string) error {
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("init: %s already exists (use --force to overwrite)", path)
	}
	data, err := phonebook.ConfigTemplate(templateDir)
	if err != nil {
		return fmt.Errorf("init: reading template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("init: writing %s: %w", path, err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// --- Helpers ---

func findContact(book *contact.AddressBook, name string) (*contact.Record, error) {
	r, ok := book.FindExact(name)
	if !ok {
		return nil, &contact.NotFoundError{Kind: "contact", Key: name}
	}
	return r, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// renderTable renders records as a NAME / PHONES / BIRTHDAY table.
func renderTable(records []*contact.Record) string {
	t := newTable("NAME", "PHONES", "BIRTHDAY")
	for _, r := range records {
		bd, _ := r.Birthday()
		t.Row(r.Name(), strings.Join(r.PhoneNumbers(), ", "), bd.String())
	}
	return t.Render()
}

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	// A bad file wraps the record's own validation error; it is still a file problem.
	if errors.Is(err, contact.ErrParse) || errors.Is(err, contact.ErrIO) {
		return exitSetup
	}
	if errors.Is(err, contact.ErrNotFound) ||
		errors.Is(err, contact.ErrValidation) ||
		errors.Is(err, contact.ErrPageNotFound) ||
		errors.Is(err, errUsage) {
		return exitUser
	}
	return exitSetup
}

// describe renders err for stderr.
func describe(err error) string {
	if errors.Is(err, contact.ErrParse) || errors.Is(err, contact.ErrIO) {
		return err.Error()
	}
	if errors.Is(err, contact.ErrNotFound) || errors.Is(err, contact.ErrValidation) {
		return assistant.Describe(err)
	}
	return err.Error()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("phonebook"),
		kong.Description("A personal contact directory."),
		kong.UsageOnError(),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		os.Exit(exitCode(err))
	}
}
