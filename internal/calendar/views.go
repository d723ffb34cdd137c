package calendar

import (
	"sort"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// maxEventsPerCell caps how many events a month cell lists before
// collapsing the rest into an overflow count.
const maxEventsPerCell = 3

// MonthCell is one day slot in the 6x7 month grid.
type MonthCell struct {
	Date     string         `json:"date"`
	Day      int            `json:"day"`
	InMonth  bool           `json:"in_month"`
	Today    bool           `json:"today"`
	Events   []models.Event `json:"events"`
	Overflow int            `json:"overflow"`
}

// MonthView is a fixed 42-cell grid covering the reference month padded
// with adjacent-month days.
type MonthView struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Cells []MonthCell `json:"cells"`
}

// BuildMonthView renders the month containing ref. Cells for adjacent
// months are muted but still carry their events. now determines the
// today highlight.
func BuildMonthView(ref time.Time, events []models.Event, now time.Time) MonthView {
	year, month := ref.Year(), ref.Month()
	lead := MondayIndex(FirstWeekday(year, month))
	byDate := groupByDate(events)
	todayKey := DateKey(now)

	cells := make([]MonthCell, 0, 42)
	for i := 0; i < 42; i++ {
		day := time.Date(year, month, i-lead+1, 0, 0, 0, 0, time.UTC)
		key := DateKey(day)
		matched := byDate[key]

		cell := MonthCell{
			Date:    key,
			Day:     day.Day(),
			InMonth: day.Month() == month && day.Year() == year,
			Today:   key == todayKey,
			Events:  matched,
		}
		if len(matched) > maxEventsPerCell {
			cell.Events = matched[:maxEventsPerCell]
			cell.Overflow = len(matched) - maxEventsPerCell
		}
		if cell.Events == nil {
			cell.Events = []models.Event{}
		}
		cells = append(cells, cell)
	}

	return MonthView{Year: year, Month: month, Cells: cells}
}

// EventBlock is an absolutely positioned event in a day or week column.
type EventBlock struct {
	models.Event
	Offset int `json:"offset"` // px from the top of the 24h column
	Height int `json:"height"`
}

// WeekColumn is one day column of the week view.
type WeekColumn struct {
	Date    string       `json:"date"`
	Day     int          `json:"day"`
	Weekday string       `json:"weekday"`
	Today   bool         `json:"today"`
	Blocks  []EventBlock `json:"blocks"`
}

// WeekView is 7 Monday-first day columns over a 24-row hour grid.
type WeekView struct {
	Start     string       `json:"start"` // Monday of the week
	RowHeight int          `json:"row_height"`
	Columns   []WeekColumn `json:"columns"`
}

// BuildWeekView renders the week containing ref. Events with close start
// times may overlap visually; no lane assignment is applied.
func BuildWeekView(ref time.Time, events []models.Event, now time.Time) WeekView {
	monday := StartOfWeek(ref)
	byDate := groupByDate(events)
	todayKey := DateKey(now)

	columns := make([]WeekColumn, 0, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		key := DateKey(day)

		columns = append(columns, WeekColumn{
			Date:    key,
			Day:     day.Day(),
			Weekday: Weekdays[i],
			Today:   key == todayKey,
			Blocks:  placeBlocks(byDate[key]),
		})
	}

	return WeekView{Start: DateKey(monday), RowHeight: RowHeight, Columns: columns}
}

// HourSlot is one gutter row of the day view.
type HourSlot struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
}

// DayView is a single 24-hour column with an hour-label gutter.
type DayView struct {
	Date      string       `json:"date"`
	RowHeight int          `json:"row_height"`
	Hours     []HourSlot   `json:"hours"`
	Blocks    []EventBlock `json:"blocks"`
}

// BuildDayView renders the single day containing ref using the same
// offset placement as the week view.
func BuildDayView(ref time.Time, events []models.Event) DayView {
	key := DateKey(ref)

	hours := make([]HourSlot, 24)
	for h := 0; h < 24; h++ {
		hours[h] = HourSlot{Hour: h, Label: HourLabel(h)}
	}

	return DayView{
		Date:      key,
		RowHeight: RowHeight,
		Hours:     hours,
		Blocks:    placeBlocks(groupByDate(events)[key]),
	}
}

// MiniDay is one cell of the mini month picker.
type MiniDay struct {
	Date      string `json:"date"`
	Day       int    `json:"day"`
	InMonth   bool   `json:"in_month"`
	Today     bool   `json:"today"`
	Selected  bool   `json:"selected"`
	HasEvents bool   `json:"has_events"`
}

// MiniMonth is the single-month picker grid: the month's days preceded
// by enough previous-month days to align the first row on Monday.
type MiniMonth struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Weekdays []string   `json:"weekdays"`
	Days     []MiniDay  `json:"days"`
}

// BuildMiniMonth renders the picker for the month containing ref.
// The event dot only marks days of the current month.
func BuildMiniMonth(ref, selected time.Time, events []models.Event, now time.Time) MiniMonth {
	year, month := ref.Year(), ref.Month()
	lead := MondayIndex(FirstWeekday(year, month))
	byDate := groupByDate(events)
	todayKey := DateKey(now)
	selectedKey := DateKey(selected)

	total := lead + DaysInMonth(year, month)
	days := make([]MiniDay, 0, total)
	for i := 0; i < total; i++ {
		day := time.Date(year, month, i-lead+1, 0, 0, 0, 0, time.UTC)
		key := DateKey(day)
		inMonth := day.Month() == month && day.Year() == year

		days = append(days, MiniDay{
			Date:      key,
			Day:       day.Day(),
			InMonth:   inMonth,
			Today:     key == todayKey,
			Selected:  key == selectedKey,
			HasEvents: inMonth && len(byDate[key]) > 0,
		})
	}

	return MiniMonth{Year: year, Month: month, Weekdays: Weekdays, Days: days}
}

// groupByDate buckets events by their calendar-day key, preserving the
// input order inside each bucket.
func groupByDate(events []models.Event) map[string][]models.Event {
	byDate := make(map[string][]models.Event)
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return byDate
}

// placeBlocks converts a day's events into positioned blocks sorted by
// start time.
func placeBlocks(events []models.Event) []EventBlock {
	blocks := make([]EventBlock, 0, len(events))
	for _, e := range events {
		blocks = append(blocks, EventBlock{
			Event:  e,
			Offset: PixelOffset(e.Hour(), e.Minute()),
			Height: MinBlockHeight,
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Offset < blocks[j].Offset
	})

	return blocks
}
