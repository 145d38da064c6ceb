package celebration

import (
	"sort"
	"time"

	"github.com/oiwai-app/oiwai-server/internal/types"
)

const dateLayout = "2006-01-02"

const (
	planningWindowDays = 180
	minRecommended     = 3
	fallbackReason     = "多くの方が参加しやすい週末です"
)

// weekendCandidates enumerates every Saturday and Sunday in [today, today+12
// months] as zero-padded YYYY-MM-DD strings, in calendar order. Used both as
// prompt context and as fallback data when the model proposes too few dates.
func weekendCandidates(today time.Time) []string {
	start := today
	end := today.AddDate(1, 0, 0)

	var weekends []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekends = append(weekends, d.Format(dateLayout))
		}
	}
	return weekends
}

// planningWindow returns the [today, today+180 days] range the planning
// prompt asks the model to stay within.
func planningWindow(today time.Time) (string, string) {
	return today.Format(dateLayout), today.AddDate(0, 0, planningWindowDays).Format(dateLayout)
}

func defaultTimeSlots() []types.TimeSlot {
	return []types.TimeSlot{
		{StartTime: "10:00", EndTime: "12:00", Reason: "午前中は移動や準備に余裕があります"},
		{StartTime: "14:00", EndTime: "16:00", Reason: "午後は遠方からの参加もしやすい時間帯です"},
	}
}

// filterRecommendedDates discards entries whose date is not strictly after
// today and sorts the rest ascending. The string comparison is safe because
// both sides are zero-padded ISO dates.
func filterRecommendedDates(today time.Time, dates []types.RecommendedDate) []types.RecommendedDate {
	todayStr := today.Format(dateLayout)

	valid := make([]types.RecommendedDate, 0, len(dates))
	for _, d := range dates {
		if d.Date > todayStr {
			valid = append(valid, d)
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Date < valid[j].Date })
	return valid
}

// recommendDates applies the full post-processing pass: filter and sort the
// model's proposals, then fall back to the first three weekend candidates
// when fewer than three valid dates remain.
func recommendDates(today time.Time, proposed []types.RecommendedDate, weekends []string) []types.RecommendedDate {
	valid := filterRecommendedDates(today, proposed)
	if len(valid) >= minRecommended {
		return valid
	}

	fallback := make([]types.RecommendedDate, 0, minRecommended)
	for _, date := range weekends {
		if len(fallback) == minRecommended {
			break
		}
		fallback = append(fallback, types.RecommendedDate{
			Date:      date,
			Reason:    fallbackReason,
			TimeSlots: defaultTimeSlots(),
		})
	}
	return fallback
}

// attachWeather joins forecasts onto dates by exact ISO-date key. A date with
// no forecast gets an explicit nil, never an error.
func attachWeather(dates []types.RecommendedDate, byDate map[string]*types.WeatherSnapshot) []types.RecommendedDate {
	for i := range dates {
		dates[i].Weather = byDate[dates[i].Date]
	}
	return dates
}

// filterSchedule applies the same validity rule to plan schedule entries:
// strictly after today, ascending.
func filterSchedule(today time.Time, entries []types.ScheduleEntry) []types.ScheduleEntry {
	todayStr := today.Format(dateLayout)

	valid := make([]types.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date > todayStr {
			valid = append(valid, e)
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Date < valid[j].Date })
	return valid
}

// attachScheduleWeather is the schedule-entry variant of the weather join.
func attachScheduleWeather(entries []types.ScheduleEntry, byDate map[string]*types.WeatherSnapshot) []types.ScheduleEntry {
	for i := range entries {
		entries[i].Weather = byDate[entries[i].Date]
	}
	return entries
}
