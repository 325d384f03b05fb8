package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
)

// Generator turns the upcoming-birthdays report into an iCalendar feed.
type Generator struct {
	Clock       contacts.Clock // Interface for time mocking.
	HorizonDays int            // Zero means contacts.DefaultHorizonDays.

	// FormatSummary allows callers to inject localized event titles.
	FormatSummary func(name string) string
}

// Calendar renders one all-day event per congratulation due within the
// horizon, dated on the (weekend-shifted) congratulation day. It returns the
// ICS data and the number of congratulations due today.
func (g *Generator) Calendar(ctx context.Context, dir *contacts.Directory, reminderTrigger string) ([]byte, int, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	// Use Local time for "today"; convert to UTC only for ICS stamping.
	now := g.Clock.Now()
	horizon := g.HorizonDays
	if horizon == 0 {
		horizon = contacts.DefaultHorizonDays
	}
	upcoming := dir.UpcomingBirthdays(now, horizon)

	if len(upcoming) == 0 {
		g.logSuccess(dir.Len(), 0, 0)
		return []byte(config.StubVCalendar), 0, nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	todayYear, todayMonth, todayDay := now.Date()
	today := 0

	for _, c := range upcoming {
		event := g.createEvent(c, reminderTrigger)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)

		y, m, d := c.Date.Date()
		if y == todayYear && m == todayMonth && d == todayDay {
			today++
			slog.Info(config.MsgCongratsToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, c.Name,
				config.LogKeyDate, c.DateString())
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(dir.Len(), len(upcoming), today)
	slog.Debug("Calendar rendered",
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), today, nil
}

// createEvent builds the VEVENT for one congratulation.
func (g *Generator) createEvent(c contacts.Congratulation, reminderTrigger string) *ical.Event {
	// Deterministic UID so calendar clients update instead of duplicating.
	input := fmt.Sprintf(config.FormatHashInput, c.Name, c.Birthday.Format(config.DateFormatFullDash), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	uid := fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)

	summary := fmt.Sprintf(config.FallbackSummary, c.Name)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(c.Name)
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropDescription, c.Birthday.Format(config.DateFormatContact))

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(c.Date)
	event.Props.Set(dtStartProp)

	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, summary)
	}
	return event
}

// logSuccess logs the final statistics of the generation process.
func (g *Generator) logSuccess(records, upcoming, today int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyRecords, records),
			slog.Int(config.LogKeyUpcoming, upcoming),
			slog.Int(config.LogKeyToday, today),
		),
	)
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
