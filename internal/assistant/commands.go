package assistant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smileynet/phonebook/internal/contact"
)

type command struct {
	verb    string
	usage   string
	summary string
	minArgs int
	maxArgs int // -1 for no limit
	mutates bool
	run     func(a *Assistant, args []string) (string, error)
}

// commandList is in help order. "help" itself is answered by Handle.
var commandList = []command{
	{verb: "hello", usage: "hello", summary: "greet the assistant", maxArgs: 0, run: (*Assistant).hello},
	{verb: "add", usage: "add NAME PHONE [BIRTHDAY]", summary: "add a contact or another phone to it", minArgs: 2, maxArgs: 3, mutates: true, run: (*Assistant).add},
	{verb: "change", usage: "change NAME PHONE [BIRTHDAY]", summary: "replace a contact's first phone", minArgs: 2, maxArgs: 3, mutates: true, run: (*Assistant).change},
	{verb: "phone", usage: "phone NAME", summary: "show a contact's phones", minArgs: 1, maxArgs: 1, run: (*Assistant).phone},
	{verb: "edit-phone", usage: "edit-phone NAME OLD NEW", summary: "replace one phone of a contact", minArgs: 3, maxArgs: 3, mutates: true, run: (*Assistant).editPhone},
	{verb: "remove-phone", usage: "remove-phone NAME PHONE", summary: "remove one phone from a contact", minArgs: 2, maxArgs: 2, mutates: true, run: (*Assistant).removePhone},
	{verb: "birthday", usage: "birthday NAME [YYYY-MM-DD]", summary: "set or show a birthday", minArgs: 1, maxArgs: 2, mutates: true, run: (*Assistant).birthday},
	{verb: "birthdays", usage: "birthdays [DAYS]", summary: "list upcoming birthdays", maxArgs: 1, run: (*Assistant).birthdays},
	{verb: "search", usage: "search TEXT", summary: "find contacts by name or phone", minArgs: 1, maxArgs: -1, run: (*Assistant).search},
	{verb: "delete", usage: "delete NAME", summary: "delete a contact", minArgs: 1, maxArgs: 1, mutates: true, run: (*Assistant).delete},
	{verb: "show all", usage: "show all", summary: "list every contact", maxArgs: 0, run: (*Assistant).showAll},
	{verb: "show", usage: "show PAGE", summary: "list one page of contacts", minArgs: 1, maxArgs: 1, run: (*Assistant).page},
	{verb: "page", usage: "page PAGE", summary: "list one page of contacts", minArgs: 1, maxArgs: 1, run: (*Assistant).page},
	{verb: "save", usage: "save", summary: "write the address book to disk", maxArgs: 0, run: (*Assistant).saveNow},
}

var commands = indexCommands(commandList)

func indexCommands(list []command) map[string]command {
	m := make(map[string]command, len(list))
	for _, c := range list {
		m[c.verb] = c
	}
	return m
}

func helpText(exitPhrases []string) string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, c := range commandList {
		fmt.Fprintf(&b, "  %-30s %s\n", c.usage, c.summary)
	}
	fmt.Fprintf(&b, "  %-30s %s", "help", "show this list")
	if len(exitPhrases) > 0 {
		fmt.Fprintf(&b, "\n  %-30s %s", strings.Join(exitPhrases, " | "), "leave")
	}
	return b.String()
}

func (a *Assistant) hello(_ []string) (string, error) {
	return "How can I help you?", nil
}

func (a *Assistant) add(args []string) (string, error) {
	name, phone := args[0], args[1]
	birthday := optional(args, 2)
	_, existed := a.book.FindExact(name)
	r, err := a.book.AddOrUpdate(name, phone, birthday)
	if err != nil {
		return "", err
	}
	if existed {
		return fmt.Sprintf("Phone added to %s.", r.Name()), nil
	}
	return fmt.Sprintf("Contact %s added.", r.Name()), nil
}

func (a *Assistant) change(args []string) (string, error) {
	if err := a.book.ChangePhone(args[0], args[1], optional(args, 2)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Phone number for %s changed.", args[0]), nil
}

func (a *Assistant) phone(args []string) (string, error) {
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}
	return FormatRecord(r), nil
}

func (a *Assistant) editPhone(args []string) (string, error) {
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}
	if err := r.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return fmt.Sprintf("Phone updated for %s.", r.Name()), nil
}

func (a *Assistant) removePhone(args []string) (string, error) {
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}
	if !r.RemovePhone(args[1]) {
		return "", &contact.NotFoundError{Kind: "phone", Key: args[1]}
	}
	return fmt.Sprintf("Phone removed from %s.", r.Name()), nil
}

func (a *Assistant) birthday(args []string) (string, error) {
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}
	if len(args) == 2 {
		if err := r.SetBirthday(args[1]); err != nil {
			return "", err
		}
		bd, _ := r.Birthday()
		return fmt.Sprintf("Birthday for %s set to %s.", r.Name(), bd), nil
	}

	days, ok := r.DaysToBirthday(a.now())
	if !ok {
		return fmt.Sprintf("%s has no birthday set.", r.Name()), nil
	}
	bd, _ := r.Birthday()
	return fmt.Sprintf("%s's birthday (%s) is %s.", r.Name(), bd, inDays(days)), nil
}

func (a *Assistant) birthdays(args []string) (string, error) {
	window := a.window
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", &UsageError{Usage: "birthdays [DAYS]"}
		}
		window = n
	}
	upcoming := a.book.UpcomingBirthdays(a.now(), window)
	if len(upcoming) == 0 {
		return fmt.Sprintf("No birthdays in the next %d days.", window), nil
	}
	lines := make([]string, len(upcoming))
	for i, u := range upcoming {
		lines[i] = fmt.Sprintf("%s: %s (%s)", u.Record.Name(), u.Date.Format(contact.BirthdayLayout), inDays(u.Days))
	}
	return strings.Join(lines, "\n"), nil
}

func (a *Assistant) search(args []string) (string, error) {
	query := strings.Join(args, " ")
	found := a.book.Search(query)
	if len(found) == 0 {
		return fmt.Sprintf("No contacts match %q.", query), nil
	}
	return FormatRecords(found), nil
}

func (a *Assistant) delete(args []string) (string, error) {
	if !a.book.Delete(args[0]) {
		return "", &contact.NotFoundError{Kind: "contact", Key: args[0]}
	}
	return fmt.Sprintf("Contact %s deleted.", args[0]), nil
}

func (a *Assistant) showAll(_ []string) (string, error) {
	if a.book.Len() == 0 {
		return "No contacts saved.", nil
	}
	return FormatRecords(a.book.Records()), nil
}

func (a *Assistant) page(args []string) (string, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", &UsageError{Usage: "show PAGE"}
	}
	records, err := a.book.ListPage(n)
	if err != nil {
		return "", &pageError{page: n, pages: a.book.PageCount(), err: err}
	}
	return fmt.Sprintf("Page %d of %d\n%s", n, a.book.PageCount(), FormatRecords(records)), nil
}

func (a *Assistant) saveNow(_ []string) (string, error) {
	if a.save == nil {
		return "", errNoSaver
	}
	if err := a.save(); err != nil {
		return "", err
	}
	return "Address book saved.", nil
}

var errNoSaver = errors.New("assistant: saving is not configured")

func (a *Assistant) find(name string) (*contact.Record, error) {
	r, ok := a.book.FindExact(name)
	if !ok {
		return nil, &contact.NotFoundError{Kind: "contact", Key: name}
	}
	return r, nil
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func inDays(n int) string {
	switch n {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", n)
	}
}
