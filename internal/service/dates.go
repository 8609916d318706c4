package service

import (
	"driveline/internal/apperrors"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDateRange validates and parses an inclusive calendar date range.
// Duration in days is end - start + 1.
func ParseDateRange(startStr, endStr string) (start, end time.Time, days int, err error) {
	if startStr == "" {
		return start, end, 0, apperrors.Validation("start_date", "start date is required")
	}
	if endStr == "" {
		return start, end, 0, apperrors.Validation("end_date", "end date is required")
	}
	start, parseErr := time.Parse(dateLayout, startStr)
	if parseErr != nil {
		return start, end, 0, apperrors.Validation("start_date", "start date must be in YYYY-MM-DD format")
	}
	end, parseErr = time.Parse(dateLayout, endStr)
	if parseErr != nil {
		return start, end, 0, apperrors.Validation("end_date", "end date must be in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return start, end, 0, apperrors.Validation("end_date", "end date must not be before start date")
	}
	days = int(end.Sub(start).Hours()/24) + 1
	return start, end, days, nil
}

// Overlaps reports whether two inclusive date intervals collide. A reservation
// ending on the day another begins counts as a conflict: vehicles are not
// turned over same-day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// DaysLate returns how many whole days `today` is past `endDate`, never
// negative. Completing on the end date itself is not late.
func DaysLate(endDate, today time.Time) int {
	late := int(today.Sub(endDate).Hours() / 24)
	if late < 0 {
		return 0
	}
	return late
}
