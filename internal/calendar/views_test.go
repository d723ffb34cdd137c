package calendar

import (
	"testing"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return parsed
}

func event(id, day, start string) models.Event {
	return models.Event{
		ID:        id,
		Title:     "Event " + id,
		Date:      day,
		StartTime: start,
		Color:     models.ColorBlue,
	}
}

func TestMonthViewAlways42Cells(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"28-day february starting monday", "2021-02-10"},
		{"31-day month starting sunday", "2021-08-15"},
		{"leap february", "2024-02-01"},
		{"december", "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := BuildMonthView(date(t, tt.ref), nil, date(t, tt.ref))
			if len(view.Cells) != 42 {
				t.Fatalf("month view has %d cells, want 42", len(view.Cells))
			}
		})
	}
}

func TestMonthViewGridAlignment(t *testing.T) {
	// August 2021 starts on a Sunday, so the first row carries six
	// leading July days.
	view := BuildMonthView(date(t, "2021-08-15"), nil, date(t, "2021-08-15"))

	for i := 0; i < 6; i++ {
		if view.Cells[i].InMonth {
			t.Errorf("cell %d (%s) should belong to July", i, view.Cells[i].Date)
		}
	}
	if !view.Cells[6].InMonth || view.Cells[6].Day != 1 {
		t.Errorf("cell 6 = %+v, want August 1", view.Cells[6])
	}
	if view.Cells[41].InMonth {
		t.Errorf("final cell (%s) should belong to September", view.Cells[41].Date)
	}
}

func TestMonthViewSingleEventAppearsOnce(t *testing.T) {
	events := []models.Event{event("e1", "2024-06-12", "10:00")}
	view := BuildMonthView(date(t, "2024-06-01"), events, date(t, "2024-06-01"))

	seen := 0
	for _, cell := range view.Cells {
		for _, e := range cell.Events {
			if e.ID == "e1" {
				seen++
				if cell.Date != "2024-06-12" {
					t.Errorf("event placed in cell %s, want 2024-06-12", cell.Date)
				}
			}
		}
	}
	if seen != 1 {
		t.Errorf("event appears %d times, want exactly 1", seen)
	}
}

func TestMonthViewOverflow(t *testing.T) {
	events := []models.Event{
		event("e1", "2024-06-12", "08:00"),
		event("e2", "2024-06-12", "09:00"),
		event("e3", "2024-06-12", "10:00"),
		event("e4", "2024-06-12", "11:00"),
		event("e5", "2024-06-12", "12:00"),
	}
	view := BuildMonthView(date(t, "2024-06-01"), events, date(t, "2024-06-01"))

	for _, cell := range view.Cells {
		if cell.Date != "2024-06-12" {
			if cell.Overflow != 0 {
				t.Errorf("cell %s has overflow %d, want 0", cell.Date, cell.Overflow)
			}
			continue
		}
		if len(cell.Events) != 3 {
			t.Errorf("cell shows %d events, want 3", len(cell.Events))
		}
		if cell.Overflow != 2 {
			t.Errorf("cell overflow = %d, want 2", cell.Overflow)
		}
	}
}

func TestMonthViewAdjacentMonthCellsKeepEvents(t *testing.T) {
	// June 2024 starts on a Saturday, so May 27-31 lead the grid.
	events := []models.Event{event("e1", "2024-05-28", "10:00")}
	view := BuildMonthView(date(t, "2024-06-15"), events, date(t, "2024-06-15"))

	for _, cell := range view.Cells {
		if cell.Date != "2024-05-28" {
			continue
		}
		if cell.InMonth {
			t.Error("May cell marked as in-month inside June view")
		}
		if len(cell.Events) != 1 {
			t.Errorf("adjacent-month cell shows %d events, want 1", len(cell.Events))
		}
		return
	}
	t.Fatal("grid does not contain the 2024-05-28 leading cell")
}

func TestMonthViewTodayHighlight(t *testing.T) {
	now := date(t, "2024-06-12")
	view := BuildMonthView(date(t, "2024-06-01"), nil, now)

	for _, cell := range view.Cells {
		want := cell.Date == "2024-06-12"
		if cell.Today != want {
			t.Errorf("cell %s Today = %v, want %v", cell.Date, cell.Today, want)
		}
	}
}

func TestWeekViewPlacement(t *testing.T) {
	// 2024-06-05 is a Wednesday; its week starts Monday 2024-06-03.
	events := []models.Event{
		event("e1", "2024-06-05", "09:30"),
		event("e2", "2024-06-03", "00:00"),
	}
	view := BuildWeekView(date(t, "2024-06-05"), events, date(t, "2024-06-05"))

	if view.Start != "2024-06-03" {
		t.Fatalf("week starts %s, want 2024-06-03", view.Start)
	}
	if len(view.Columns) != 7 {
		t.Fatalf("week view has %d columns, want 7", len(view.Columns))
	}
	if view.RowHeight != 80 {
		t.Fatalf("row height = %d, want 80", view.RowHeight)
	}

	wednesday := view.Columns[2]
	if wednesday.Date != "2024-06-05" {
		t.Fatalf("column 2 is %s, want 2024-06-05", wednesday.Date)
	}
	if len(wednesday.Blocks) != 1 {
		t.Fatalf("wednesday has %d blocks, want 1", len(wednesday.Blocks))
	}
	if got := wednesday.Blocks[0].Offset; got != 760 {
		t.Errorf("09:30 block offset = %d, want 760", got)
	}

	monday := view.Columns[0]
	if len(monday.Blocks) != 1 || monday.Blocks[0].Offset != 0 {
		t.Errorf("midnight block misplaced: %+v", monday.Blocks)
	}
}

func TestWeekViewAcceptsOverlap(t *testing.T) {
	events := []models.Event{
		event("e1", "2024-06-05", "09:00"),
		event("e2", "2024-06-05", "09:15"),
	}
	view := BuildWeekView(date(t, "2024-06-05"), events, date(t, "2024-06-05"))

	blocks := view.Columns[2].Blocks
	if len(blocks) != 2 {
		t.Fatalf("column has %d blocks, want 2", len(blocks))
	}
	// Blocks are sorted by offset and may overlap; no lane assignment.
	if blocks[0].Offset > blocks[1].Offset {
		t.Errorf("blocks not sorted by offset: %d, %d", blocks[0].Offset, blocks[1].Offset)
	}
}

func TestDayView(t *testing.T) {
	events := []models.Event{
		event("e1", "2024-06-05", "09:30"),
		event("e2", "2024-06-06", "09:30"), // different day, excluded
	}
	view := BuildDayView(date(t, "2024-06-05"), events)

	if len(view.Hours) != 24 {
		t.Fatalf("day view has %d hour slots, want 24", len(view.Hours))
	}
	if view.Hours[0].Label != "12 AM" || view.Hours[12].Label != "12 PM" {
		t.Errorf("gutter labels wrong: %q, %q", view.Hours[0].Label, view.Hours[12].Label)
	}
	if len(view.Blocks) != 1 {
		t.Fatalf("day view has %d blocks, want 1", len(view.Blocks))
	}
	if view.Blocks[0].Offset != 760 {
		t.Errorf("block offset = %d, want 760", view.Blocks[0].Offset)
	}
}

func TestMiniMonth(t *testing.T) {
	// June 2024 starts on a Saturday: five leading May days.
	events := []models.Event{
		event("e1", "2024-06-12", "10:00"),
		event("e2", "2024-05-28", "10:00"), // adjacent month, no dot
	}
	ref := date(t, "2024-06-15")
	mini := BuildMiniMonth(ref, date(t, "2024-06-12"), events, date(t, "2024-06-15"))

	if len(mini.Weekdays) != 7 || mini.Weekdays[0] != "Mon" {
		t.Fatalf("weekday header = %v", mini.Weekdays)
	}
	if want := 5 + 30; len(mini.Days) != want {
		t.Fatalf("mini month has %d days, want %d", len(mini.Days), want)
	}

	for _, d := range mini.Days {
		switch d.Date {
		case "2024-06-12":
			if !d.HasEvents {
				t.Error("2024-06-12 missing event dot")
			}
			if !d.Selected {
				t.Error("2024-06-12 not marked selected")
			}
		case "2024-05-28":
			if d.HasEvents {
				t.Error("adjacent-month day 2024-05-28 should not carry a dot")
			}
			if d.InMonth {
				t.Error("2024-05-28 marked in-month")
			}
		case "2024-06-15":
			if !d.Today {
				t.Error("2024-06-15 not marked today")
			}
		}
	}
}
