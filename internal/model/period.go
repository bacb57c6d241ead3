package model

// Period is a calendar-aligned reporting window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod maps user input to a Period. Empty input means today.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodToday:
		return PeriodToday, true
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), true
	default:
		return "", false
	}
}

// Title is the human label used in stats output.
func (p Period) Title() string {
	switch p {
	case PeriodWeek:
		return "This Week"
	case PeriodMonth:
		return "This Month"
	case PeriodYear:
		return "This Year"
	default:
		return "Today"
	}
}
