// Package ics encodes calendars as iCalendar (RFC 5545) documents.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/emersion/go-ical"
)

const (
	ContentType = "text/calendar; charset=utf-8"
	ProductID   = "-//deppfellow//go-calendar//EN"

	// MeetingDuration is the length given to every exported meeting; meetings
	// only store a start time.
	MeetingDuration = time.Hour
)

// ErrNothingScheduled is returned for a calendar whose meetings all lack a
// dateTime, since a VCALENDAR needs at least one component.
var ErrNothingScheduled = errors.New("calendar has no scheduled meetings")

// Encode writes one VEVENT per scheduled meeting of c. stamp is used as
// DTSTAMP.
func Encode(c *calendar.Calendar, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText("X-WR-CALNAME", c.Title)
	if c.Details != "" {
		cal.Props.SetText("X-WR-CALDESC", c.Details)
	}

	for _, m := range c.Meetings {
		if m.DateTime == nil {
			continue
		}

		start := m.DateTime.UTC()

		event := ical.NewComponent(ical.CompEvent)
		event.Props.SetText(ical.PropUID, m.ID.String())
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC().Truncate(time.Second))
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(MeetingDuration))
		event.Props.SetText(ical.PropSummary, m.Title)

		if m.Details != "" {
			event.Props.SetText(ical.PropDescription, m.Details)
		}
		if m.Location != "" {
			event.Props.SetText(ical.PropLocation, m.Location)
		}

		for _, p := range m.Participants {
			if p.Email == "" {
				continue
			}
			attendee := ical.NewProp(ical.PropAttendee)
			attendee.Value = "mailto:" + p.Email
			if p.Name != "" {
				attendee.Params.Set(ical.ParamCommonName, p.Name)
			}
			event.Props.Add(attendee)
		}

		for _, a := range m.Attachments {
			attach := ical.NewProp(ical.PropAttach)
			attach.Value = a.URL
			event.Props.Add(attach)
		}

		cal.Children = append(cal.Children, event)
	}

	if len(cal.Children) == 0 {
		return nil, ErrNothingScheduled
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar id=%s: %w", c.ID, err)
	}

	return buf.Bytes(), nil
}
