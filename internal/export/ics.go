// Package export renders the merged calendar as an iCalendar feed.
package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// defaultDuration is the block length used for exported events; the
// calendar tracks start times only.
const defaultDuration = time.Hour

// Calendar serializes events into an iCalendar document. Events whose
// date or start time fail to parse are skipped.
func Calendar(name string, events []models.Event) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//evorgs//calendar-backend//EN")
	cal.SetXWRCalName(name)

	now := time.Now().UTC()
	for _, e := range events {
		start, err := time.Parse("2006-01-02 15:04", e.Date+" "+e.StartTime)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@evorgs", e.ID))
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(defaultDuration))
		ev.SetSummary(e.Title)
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.BookingID != "" {
			ev.SetDescription("Booking " + e.BookingID)
		}
	}

	return cal.Serialize(), nil
}
