// Package assistant implements the interactive address book bot: it parses
// command lines, drives the contacts core, and turns outcomes into
// localized replies.
package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
)

var (
	// ErrContactNotFound is returned when a command names an unknown contact.
	ErrContactNotFound = errors.New("contact not found")
	// ErrMissingArgs is returned when a command lacks required arguments.
	ErrMissingArgs = errors.New("missing command arguments")
)

// Assistant answers commands against one directory. Like the directory
// itself it expects a single caller at a time.
type Assistant struct {
	Book        *contacts.Directory
	Clock       contacts.Clock
	HorizonDays int
	Messages    *Messages
}

// New builds an assistant with the real clock and the default horizon.
func New(book *contacts.Directory, msgs *Messages) *Assistant {
	return &Assistant{
		Book:        book,
		Clock:       contacts.RealClock{},
		HorizonDays: contacts.DefaultHorizonDays,
		Messages:    msgs,
	}
}

// ParseInput splits a line on whitespace and lower-cases the command.
// Blank input yields an empty command.
func ParseInput(line string) (string, []string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}
	return strings.ToLower(parts[0]), parts[1:]
}

// Run reads commands from in until exit, close or end of input, writing
// replies to out. Cancelling ctx ends the session without waiting for the
// next line.
func (a *Assistant) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, a.Messages.Get(config.TKeyWelcome, nil))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, config.Prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			break
		}

		reply, done := a.Handle(ParseInput(line))
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
		if done {
			return nil
		}
	}

	if err := <-readErr; err != nil {
		return fmt.Errorf("%s: %w", config.ErrReadInput, err)
	}
	fmt.Fprintln(out)
	return nil
}

// Handle executes one command and reports whether the session should end.
func (a *Assistant) Handle(command string, args []string) (string, bool) {
	var (
		key  string
		text string
		err  error
	)

	switch command {
	case config.CmdExit, config.CmdClose:
		return a.Messages.Get(config.TKeyGoodbye, nil), true
	case config.CmdHello:
		key = config.TKeyHello
	case config.CmdAdd:
		key, err = a.addContact(args)
	case config.CmdChange:
		key, err = a.changeContact(args)
	case config.CmdPhone:
		text, err = a.showPhone(args)
	case config.CmdAll:
		text = a.showAll()
	case config.CmdAddBirthday:
		key, err = a.addBirthday(args)
	case config.CmdShowBirthday:
		text, err = a.showBirthday(args)
	case config.CmdBirthdays:
		text = a.birthdays()
	case config.CmdDelete:
		key, err = a.deleteContact(args)
	default:
		key = config.TKeyInvalidCommand
	}

	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyCommand, command,
		config.LogKeyError, err,
	)

	switch {
	case err != nil:
		return a.errorReply(err), false
	case text != "":
		return text, false
	default:
		return a.Messages.Get(key, nil), false
	}
}

// errorReply maps every failure a command can produce onto a user message.
func (a *Assistant) errorReply(err error) string {
	var key string
	switch {
	case errors.Is(err, ErrMissingArgs):
		key = config.TKeyMissingArgs
	case errors.Is(err, ErrContactNotFound):
		key = config.TKeyContactNotFound
	case errors.Is(err, contacts.ErrInvalidName):
		key = config.TKeyErrInvalidName
	case errors.Is(err, contacts.ErrInvalidPhone):
		key = config.TKeyErrInvalidPhone
	case errors.Is(err, contacts.ErrInvalidDateFormat):
		key = config.TKeyErrInvalidDate
	case errors.Is(err, contacts.ErrPhoneNotFound):
		key = config.TKeyErrPhoneMissing
	default:
		slog.Error(config.ErrUnexpectedReply,
			config.LogKeyComponent, config.CompAssistant,
			config.LogKeyError, err,
		)
		key = config.TKeyErrInternal
	}
	return a.Messages.Get(key, nil)
}

func (a *Assistant) lookup(name string) (*contacts.Record, error) {
	r, ok := a.Book.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrContactNotFound, name)
	}
	return r, nil
}

// addContact creates the contact if needed, then appends the phone. A new
// contact is only stored once its first phone is valid.
func (a *Assistant) addContact(args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrMissingArgs
	}
	name, phone := args[0], args[1]

	if r, ok := a.Book.Find(name); ok {
		if err := r.AddPhone(phone); err != nil {
			return "", err
		}
		return config.TKeyContactUpdated, nil
	}

	r, err := contacts.NewRecord(name)
	if err != nil {
		return "", err
	}
	if err := r.AddPhone(phone); err != nil {
		return "", err
	}
	a.Book.AddRecord(r)
	return config.TKeyContactAdded, nil
}

func (a *Assistant) changeContact(args []string) (string, error) {
	if len(args) < 3 {
		return "", ErrMissingArgs
	}
	r, err := a.lookup(args[0])
	if err != nil {
		return "", err
	}
	if err := r.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return config.TKeyPhoneUpdated, nil
}

func (a *Assistant) showPhone(args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingArgs
	}
	r, err := a.lookup(args[0])
	if err != nil {
		return "", err
	}
	phones := r.Phones()
	if len(phones) == 0 {
		return a.Messages.Get(config.TKeyNoPhones, nil), nil
	}
	return strings.Join(phones, "; "), nil
}

func (a *Assistant) showAll() string {
	if a.Book.Len() == 0 {
		return a.Messages.Get(config.TKeyNoContacts, nil)
	}
	lines := make([]string, 0, a.Book.Len())
	for _, r := range a.Book.Records() {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

func (a *Assistant) addBirthday(args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrMissingArgs
	}
	r, err := a.lookup(args[0])
	if err != nil {
		return "", err
	}
	if err := r.AddBirthday(args[1]); err != nil {
		return "", err
	}
	return config.TKeyBirthdayAdded, nil
}

func (a *Assistant) showBirthday(args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingArgs
	}
	r, err := a.lookup(args[0])
	if err != nil {
		return "", err
	}
	b, ok := r.Birthday()
	if !ok {
		return a.Messages.Get(config.TKeyBirthdayMissing, nil), nil
	}
	return b.String(), nil
}

func (a *Assistant) birthdays() string {
	upcoming := a.Book.UpcomingBirthdays(a.Clock.Now(), a.HorizonDays)
	if len(upcoming) == 0 {
		return a.Messages.Get(config.TKeyNoBirthdays, nil)
	}
	lines := make([]string, 0, len(upcoming))
	for _, c := range upcoming {
		lines = append(lines, a.Messages.Get(config.TKeyCongratulate, map[string]any{
			"Name": c.Name,
			"Date": c.DateString(),
		}))
	}
	return strings.Join(lines, "\n")
}

func (a *Assistant) deleteContact(args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingArgs
	}
	if !a.Book.Delete(args[0]) {
		return "", fmt.Errorf("%w: %q", ErrContactNotFound, args[0])
	}
	return config.TKeyContactDeleted, nil
}
