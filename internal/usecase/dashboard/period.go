package dashboard

import (
	"time"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// monthKeyLayout formats a month as "YYYY-MM"
const monthKeyLayout = "2006-01"

// MonthStart returns 00:00:00 on the first day of t's calendar month in loc
func MonthStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// monthWindow returns the month that is offset months from t's month
// End is 23:59:59 on the month's last day (day 0 of the following month)
func monthWindow(t time.Time, offset int, loc *time.Location) domain.Period {
	t = t.In(loc)
	y, m := t.Year(), t.Month()+time.Month(offset)

	return domain.Period{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		End:   time.Date(y, m+1, 0, 23, 59, 59, 0, loc),
	}
}

// CurrentMonth returns the calendar month containing now
func CurrentMonth(now time.Time, loc *time.Location) domain.Period {
	return monthWindow(now, 0, loc)
}

// PreviousMonth returns the calendar month immediately before the one containing now
func PreviousMonth(now time.Time, loc *time.Location) domain.Period {
	return monthWindow(now, -1, loc)
}

// LastMonths returns the first instant of the n calendar months ending with now's month, oldest first
func LastMonths(now time.Time, n int, loc *time.Location) []time.Time {
	now = now.In(loc)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		// time.Date normalises month underflow into the previous year
		months[n-1-i] = time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
	}
	return months
}

// MonthKey formats t's calendar month in loc as "YYYY-MM"
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthKeyLayout)
}
