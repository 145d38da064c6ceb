package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// CalendarEvent is a schedule entry the user wants to add to an external
// calendar. Date is YYYY-MM-DD; StartTime/EndTime are optional HH:MM
// strings. Without times the event is all-day.
type CalendarEvent struct {
	Title       string
	Description string
	Location    string
	Date        string
	StartTime   string
	EndTime     string
}

// GoogleCalendarURL builds a prefilled "add event" link for Google
// Calendar.
func GoogleCalendarURL(ev CalendarEvent) (string, error) {
	start, end, err := ev.timestamps()
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", ev.Title)
	params.Set("details", ev.Description)
	params.Set("dates", start+"/"+end)
	if ev.Location != "" {
		params.Set("location", ev.Location)
	}
	return "https://calendar.google.com/calendar/render?" + params.Encode(), nil
}

// YahooCalendarURL builds a prefilled "add event" link for Yahoo
// Calendar.
func YahooCalendarURL(ev CalendarEvent) (string, error) {
	start, end, err := ev.timestamps()
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("v", "60")
	params.Set("TITLE", ev.Title)
	params.Set("DESC", ev.Description)
	params.Set("ST", start)
	params.Set("ET", end)
	if ev.Location != "" {
		params.Set("in_loc", ev.Location)
	}
	return "https://calendar.yahoo.com/?" + params.Encode(), nil
}

// timestamps renders the event window in the compact format both
// providers accept: YYYYMMDD for all-day, YYYYMMDDTHHMMSS otherwise.
func (ev CalendarEvent) timestamps() (string, string, error) {
	day, err := time.Parse("2006-01-02", ev.Date)
	if err != nil {
		return "", "", fmt.Errorf("invalid event date %q: %w", ev.Date, err)
	}
	compact := day.Format("20060102")

	if ev.StartTime == "" || ev.EndTime == "" {
		// All-day events end on the following day, exclusive.
		next := day.AddDate(0, 0, 1).Format("20060102")
		return compact, next, nil
	}

	start, err := compactTime(compact, ev.StartTime)
	if err != nil {
		return "", "", err
	}
	end, err := compactTime(compact, ev.EndTime)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

func compactTime(compactDate, hhmm string) (string, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid time %q: want HH:MM", hhmm)
	}
	return compactDate + "T" + parts[0] + parts[1] + "00", nil
}
