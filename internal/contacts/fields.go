package contacts

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the only accepted textual birthday format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	datePattern  = regexp.MustCompile(`^[0-9]{2}\.[0-9]{2}\.[0-9]{4}$`)
)

// Name is a contact's display name, stored trimmed.
type Name struct {
	value string
}

// NewName validates raw and returns its trimmed form.
func NewName(raw string) (Name, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Name{}, ErrInvalidName
	}
	return Name{value: trimmed}, nil
}

func (n Name) String() string { return n.value }

// Phone is a number of exactly ten ASCII digits, stored verbatim.
type Phone struct {
	value string
}

// NewPhone rejects anything other than ten decimal digits.
// No separators or prefixes are stripped here.
func NewPhone(raw string) (Phone, error) {
	if !phonePattern.MatchString(raw) {
		return Phone{}, fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return Phone{value: raw}, nil
}

func (p Phone) String() string { return p.value }

// Birthday is a calendar date parsed from DD.MM.YYYY.
type Birthday struct {
	date time.Time
}

// NewBirthday parses raw strictly: two-digit day and month, four-digit year,
// no surrounding text, and a day that exists in that month.
func NewBirthday(raw string) (Birthday, error) {
	if !datePattern.MatchString(raw) {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
	}
	return Birthday{date: t}, nil
}

// Date returns the birthday at midnight UTC.
func (b Birthday) Date() time.Time { return b.date }

// String formats the birthday as DD.MM.YYYY.
func (b Birthday) String() string { return b.date.Format(DateLayout) }
