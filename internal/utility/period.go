package utility

import (
	"fmt"
	"time"
)

// PeriodLayout là định dạng kỳ tháng YYYY-MM
const PeriodLayout = "2006-01"

// PeriodOf trả về kỳ tháng của thời điểm t
func PeriodOf(t time.Time) string {
	return t.Format(PeriodLayout)
}

// MonthSpan trả về số tháng từ from tới to, bao gồm hai đầu (to trước from => <= 0)
func MonthSpan(from, to string) (int, error) {
	start, err := time.Parse(PeriodLayout, from)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", from, err)
	}
	end, err := time.Parse(PeriodLayout, to)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", to, err)
	}
	return (end.Year()-start.Year())*12 + int(end.Month()-start.Month()) + 1, nil
}

// MonthRange trả về danh sách kỳ tháng từ from tới to (bao gồm cả hai đầu)
func MonthRange(from, to string, loc *time.Location) ([]time.Time, error) {
	start, err := time.ParseInLocation(PeriodLayout, from, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid period %q: %w", from, err)
	}
	end, err := time.ParseInLocation(PeriodLayout, to, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid period %q: %w", to, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("period %s is before %s", to, from)
	}

	var months []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months, nil
}
