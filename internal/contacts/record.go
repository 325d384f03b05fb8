package contacts

import (
	"fmt"
	"strings"
)

const (
	noPhonesMarker   = "No phones"
	noBirthdayMarker = "no birthday listed"
	phoneSeparator   = "; "
)

// Record holds one contact: a fixed name, an ordered list of phones
// (duplicates allowed) and at most one birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates an empty record for the given name.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the trimmed contact name, which is also the directory key.
func (r *Record) Name() string { return r.name.String() }

// Phones returns a copy of the stored numbers in insertion order.
func (r *Record) Phones() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.String()
	}
	return out
}

// Birthday reports the birthday, if one has been set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates number and appends it.
func (r *Record) AddPhone(number string) error {
	p, err := NewPhone(number)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone drops the first phone equal to number.
// It reports whether anything was removed.
func (r *Record) RemovePhone(number string) bool {
	i := r.indexOf(number)
	if i < 0 {
		return false
	}
	r.phones = append(r.phones[:i], r.phones[i+1:]...)
	return true
}

// EditPhone replaces the first phone equal to oldNumber in place.
// It returns ErrPhoneNotFound when oldNumber is absent, and leaves the
// record untouched when newNumber is invalid.
func (r *Record) EditPhone(oldNumber, newNumber string) error {
	i := r.indexOf(oldNumber)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrPhoneNotFound, oldNumber)
	}
	p, err := NewPhone(newNumber)
	if err != nil {
		return err
	}
	r.phones[i] = p
	return nil
}

// FindPhone looks up a phone by exact value.
func (r *Record) FindPhone(number string) (string, bool) {
	if i := r.indexOf(number); i >= 0 {
		return r.phones[i].String(), true
	}
	return "", false
}

// AddBirthday sets or overwrites the birthday from a DD.MM.YYYY string.
func (r *Record) AddBirthday(raw string) error {
	b, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

func (r *Record) indexOf(number string) int {
	for i, p := range r.phones {
		if p.value == number {
			return i
		}
	}
	return -1
}

func (r *Record) String() string {
	phones := noPhonesMarker
	if len(r.phones) > 0 {
		phones = strings.Join(r.Phones(), phoneSeparator)
	}
	bday := noBirthdayMarker
	if r.birthday != nil {
		bday = r.birthday.String()
	}
	return fmt.Sprintf("Contact name: %s, phones: %s, birthday: %s", r.name, phones, bday)
}
