// ABOUTME: Time helpers for note timestamps and activity log filtering
// ABOUTME: Formats ISO-8601 instants and computes period starts from an explicit clock

package timeutil

import "time"

// ISOFormat matches the millisecond UTC shape used in note frontmatter.
const ISOFormat = "2006-01-02T15:04:05.000Z"

// FormatISO renders t as a UTC ISO-8601 timestamp with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOFormat)
}

// StartOfDay returns midnight (00:00:00) of the day containing now
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfYesterday returns midnight of the day before now
func StartOfYesterday(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, -1)
}

// StartOfWeek returns midnight of the most recent Sunday
// Note: Week starts on Sunday
func StartOfWeek(now time.Time) time.Time {
	today := StartOfDay(now)
	weekday := int(today.Weekday())
	return today.AddDate(0, 0, -weekday)
}

// StartOfMonth returns midnight of the first day of the month containing now
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod converts a period string to the cutoff it starts at.
// Supported values: "today", "yesterday", "week", "month"
func ParsePeriod(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "today":
		return StartOfDay(now), true
	case "yesterday":
		return StartOfYesterday(now), true
	case "week":
		return StartOfWeek(now), true
	case "month":
		return StartOfMonth(now), true
	default:
		return time.Time{}, false
	}
}
