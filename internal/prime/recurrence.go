// Package prime chứa lõi tính thưởng định kỳ: quy tắc lặp lịch, công thức thưởng,
// job tính thưởng có theo dõi tiến độ và bộ lập lịch cron.
package prime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	primemodels "bearh/internal/api/prime/models"
	"bearh/internal/common"
)

// Frequency là tần suất chạy job tính thưởng
type Frequency string

const (
	Daily        Frequency = "daily"
	Weekly       Frequency = "weekly"
	Monthly      Frequency = "monthly"
	Quarterly    Frequency = "quarterly"
	SemiAnnually Frequency = "semi-annually"
	Annually     Frequency = "annually"
)

// LastDay là giá trị executionDay chỉ ngày cuối của chu kỳ
const LastDay = "last"

// RecurrenceRule là quy tắc lặp đã chuẩn hóa từ cấu hình {frequency, executionDay, executionTime}.
// Chỉ Expression() mới tuần tự hóa sang cú pháp cron năm trường.
type RecurrenceRule struct {
	Frequency Frequency
	Minute    int
	Hour      int
	LastDay   bool  // ngày cuối tháng (hoặc Chủ nhật với weekly)
	Day       int   // ngày trong tháng 1..31, hoặc thứ 0..6 (0 = Chủ nhật) với weekly
	Months    []int // nil = mọi tháng
}

// ParseRecurrence dựng RecurrenceRule từ cấu hình. Tần suất thiếu hoặc lạ => ErrUnsupportedFrequency.
func ParseRecurrence(s primemodels.BonusCalculationSettings) (*RecurrenceRule, error) {
	freq := Frequency(strings.ToLower(strings.TrimSpace(s.Frequency)))
	if !freq.valid() {
		return nil, fmt.Errorf("frequency %q: %w", s.Frequency, common.ErrUnsupportedFrequency)
	}

	hour, minute, err := parseClock(s.ExecutionTime)
	if err != nil {
		return nil, err
	}
	rule := &RecurrenceRule{Frequency: freq, Hour: hour, Minute: minute}

	day := strings.ToLower(strings.TrimSpace(s.ExecutionDay))
	switch freq {
	case Daily:
		return rule, nil
	case Weekly:
		if day == "" || day == LastDay {
			rule.LastDay = day == LastDay
			return rule, nil
		}
		n, err := strconv.Atoi(day)
		if err != nil || n < 0 || n > 7 {
			return nil, fmt.Errorf("weekday %q: %w", s.ExecutionDay, common.ErrInvalidSchedule)
		}
		rule.Day = n % 7
		return rule, nil
	}

	switch {
	case day == LastDay:
		rule.LastDay = true
	case day == "":
		rule.Day = 1
	default:
		n, err := strconv.Atoi(day)
		if err != nil || n < 1 || n > 31 {
			return nil, fmt.Errorf("day %q: %w", s.ExecutionDay, common.ErrInvalidSchedule)
		}
		rule.Day = n
	}
	rule.Months = periodMonths(freq, rule.LastDay)
	return rule, nil
}

func (f Frequency) valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, SemiAnnually, Annually:
		return true
	}
	return false
}

// parseClock đọc "HH:MM"
func parseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("execution time %q: %w", value, common.ErrInvalidSchedule)
	}
	return t.Hour(), t.Minute(), nil
}

// periodMonths chọn tháng chạy: ngày cố định rơi vào tháng đầu kỳ, "last" rơi vào tháng cuối kỳ
func periodMonths(f Frequency, last bool) []int {
	switch f {
	case Quarterly:
		if last {
			return []int{3, 6, 9, 12}
		}
		return []int{1, 4, 7, 10}
	case SemiAnnually:
		if last {
			return []int{6, 12}
		}
		return []int{1, 7}
	case Annually:
		if last {
			return []int{12}
		}
		return []int{1}
	}
	return nil
}

// Expression trả về biểu thức cron năm trường "minute hour day month weekday", L = ngày cuối tháng
func (r *RecurrenceRule) Expression() string {
	dom, month, dow := "*", "*", "*"
	switch r.Frequency {
	case Daily:
	case Weekly:
		dow = strconv.Itoa(r.Day)
	default:
		if r.LastDay {
			dom = "L"
		} else {
			dom = strconv.Itoa(r.Day)
		}
		if len(r.Months) > 0 {
			parts := make([]string, len(r.Months))
			for i, m := range r.Months {
				parts[i] = strconv.Itoa(m)
			}
			month = strings.Join(parts, ",")
		}
	}
	return fmt.Sprintf("%d %d %s %s %s", r.Minute, r.Hour, dom, month, dow)
}

// Schedule trả về cron.Schedule tương ứng. Cú pháp chuẩn của robfig/cron không có L
// nên ngày cuối tháng dùng lastDaySchedule.
func (r *RecurrenceRule) Schedule() (cron.Schedule, error) {
	if r.LastDay && r.Frequency != Weekly && r.Frequency != Daily {
		months := map[int]bool{}
		for _, m := range r.Months {
			months[m] = true
		}
		return &lastDaySchedule{hour: r.Hour, minute: r.Minute, months: months}, nil
	}
	sched, err := cron.ParseStandard(r.Expression())
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", r.Expression(), common.ErrInvalidSchedule)
	}
	return sched, nil
}

// WindowStart trả về đầu cửa sổ đánh giá kết thúc tại end, dài đúng một chu kỳ
func (r *RecurrenceRule) WindowStart(end time.Time) time.Time {
	switch r.Frequency {
	case Daily:
		return end.AddDate(0, 0, -1)
	case Weekly:
		return end.AddDate(0, 0, -7)
	case Monthly:
		return addMonthsClamped(end, -1)
	case Quarterly:
		return addMonthsClamped(end, -3)
	case SemiAnnually:
		return addMonthsClamped(end, -6)
	default:
		return addMonthsClamped(end, -12)
	}
}

// addMonthsClamped cộng n tháng, giữ ngày trong giới hạn tháng đích (31/03 - 1 tháng = 28/02)
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	lastDay := target.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return target.AddDate(0, 0, day-1)
}

// PreviousFire trả về lần kích hoạt gần nhất không sau now. Job in-progress có heartbeat
// trước mốc này thuộc chu kỳ đã qua và được coi là treo.
func (r *RecurrenceRule) PreviousFire(now time.Time) time.Time {
	sched, err := r.Schedule()
	if err != nil {
		return now.Add(-r.Period())
	}
	// lùi hai chu kỳ tối đa để chắc chắn có ít nhất một lần kích hoạt trước now
	t := now.Add(-2 * r.Period())
	prev := time.Time{}
	for i := 0; i < 1000; i++ {
		next := sched.Next(t)
		if next.IsZero() || next.After(now) {
			break
		}
		prev, t = next, next
	}
	if prev.IsZero() {
		return now.Add(-r.Period())
	}
	return prev
}

// Period trả về độ dài xấp xỉ (tối đa) của một chu kỳ, dùng làm khoảng tìm kiếm lịch
func (r *RecurrenceRule) Period() time.Duration {
	day := 24 * time.Hour
	switch r.Frequency {
	case Daily:
		return day
	case Weekly:
		return 7 * day
	case Monthly:
		return 31 * day
	case Quarterly:
		return 92 * day
	case SemiAnnually:
		return 184 * day
	default:
		return 366 * day
	}
}

// lastDaySchedule chạy lúc hour:minute ngày cuối các tháng trong months (rỗng = mọi tháng)
type lastDaySchedule struct {
	hour, minute int
	months       map[int]bool
}

// Next trả về lần chạy kế tiếp sau t, theo múi giờ của t
func (s *lastDaySchedule) Next(t time.Time) time.Time {
	loc := t.Location()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	for i := 0; i < 5*12; i++ {
		month := first.AddDate(0, i, 0)
		if len(s.months) > 0 && !s.months[int(month.Month())] {
			continue
		}
		last := month.AddDate(0, 1, -1)
		candidate := time.Date(last.Year(), last.Month(), last.Day(), s.hour, s.minute, 0, 0, loc)
		if candidate.After(t) {
			return candidate
		}
	}
	return time.Time{}
}

