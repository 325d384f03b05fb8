package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
)

// Source points the importer at a local file or a remote address book.
// LocalPath wins when both are set.
type Source struct {
	LocalPath string
	WebURL    string
	WebUser   string
	WebPass   string
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Cards    int // vCards decoded
	Imported int // records added to the directory
	Skipped  int // cards or fields dropped as invalid
}

// Importer reads vCards from a Source into a directory.
type Importer struct {
	Fetcher VCardFetcher // Interface for network abstraction.
}

// Import opens src and merges its contacts into dir.
func (im *Importer) Import(ctx context.Context, src Source, dir *contacts.Directory) (ImportStats, error) {
	reader, err := im.acquireStream(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return ImportStats{}, ctx.Err()
		}
		return ImportStats{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	return ImportVCards(ctx, reader, dir)
}

// acquireStream opens the appropriate data source.
func (im *Importer) acquireStream(ctx context.Context, src Source) (io.ReadCloser, error) {
	switch {
	case src.LocalPath != "":
		return os.Open(src.LocalPath)
	case src.WebURL != "":
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, src.WebURL, src.WebUser, src.WebPass)
	default:
		return nil, errors.New(config.ErrSourceMissing)
	}
}

// ImportVCards decodes every card in r and adds it to dir as a new record,
// replacing any record with the same name. Phone separators are removed
// before validation; phones and birthdays that still fail are
// skipped, as are cards without a name.
func ImportVCards(ctx context.Context, r io.Reader, dir *contacts.Directory) (ImportStats, error) {
	decoder := vcard.NewDecoder(r)
	var stats ImportStats

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			stats.Skipped++
			if errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			continue
		}
		stats.Cards++

		record, skipped := recordFromCard(card)
		stats.Skipped += skipped
		if record == nil {
			continue
		}
		dir.AddRecord(record)
		stats.Imported++
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Cards),
			slog.Int(config.LogKeyImported, stats.Imported),
			slog.Int(config.LogKeySkipped, stats.Skipped),
		),
	)
	return stats, nil
}

// recordFromCard converts one card, returning how many parts were dropped.
func recordFromCard(card vcard.Card) (*contacts.Record, int) {
	record, err := contacts.NewRecord(cardName(card))
	if err != nil {
		slog.Warn(config.MsgSkippedName, config.LogKeyComponent, config.CompEngine)
		return nil, 1
	}

	skipped := 0
	for _, f := range card[vcard.FieldTelephone] {
		if err := record.AddPhone(stripSeparators(f.Value)); err != nil {
			slog.Debug(config.MsgSkippedPhone,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, record.Name(),
				config.LogKeyValue, f.Value)
			skipped++
		}
	}

	if bday := card.Get(vcard.FieldBirthday); bday != nil && bday.Value != "" {
		birthDate, err := parseDate(bday.Value)
		if err == nil {
			err = record.AddBirthday(birthDate.Format(config.DateFormatContact))
		}
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, record.Name(),
				config.LogKeyValue, bday.Value)
			skipped++
		}
	}
	return record, skipped
}

// cardName applies the strategy FN (Formatted) > N (Structured).
func cardName(card vcard.Card) string {
	if fn := card.PreferredValue(vcard.FieldFormattedName); strings.TrimSpace(fn) != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(n.GivenName + " " + n.FamilyName)
	}
	return ""
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		if unicode.IsSpace(r) || strings.ContainsRune("()-./", r) {
			return -1
		}
		// Keep anything else so validation rejects it instead of
		// silently turning "+44..." or "ext" into a different number.
		return r
	}, s)
}

// parseDate handles the vCard date formats. Year-less dates are placed in
// DefaultLeapYear so that --02-29 stays valid.
func parseDate(value string) (time.Time, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, errors.New(config.ErrDateParse)
}

// ExportVCards writes dir as vCard 4.0, one card per record in order.
func ExportVCards(w io.Writer, dir *contacts.Directory) error {
	enc := vcard.NewEncoder(w)
	for _, r := range dir.Records() {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, r.Name())
		for _, p := range r.Phones() {
			card.Add(vcard.FieldTelephone, &vcard.Field{Value: p})
		}
		if b, ok := r.Birthday(); ok {
			card.SetValue(vcard.FieldBirthday, b.Date().Format(config.DateFormatFullDash))
		}
		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %q: %w", config.ErrVCardEncode, r.Name(), err)
		}
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyRecords, dir.Len())
	return nil
}
