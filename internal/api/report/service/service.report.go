// Package reportsvc - xuất báo cáo hoạt động nhân viên dạng CSV.
package reportsvc

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	hrmodels "bearh/internal/api/hr/models"
	hrsvc "bearh/internal/api/hr/service"
	kpisvc "bearh/internal/api/kpi/service"
	"bearh/internal/common"
	"bearh/internal/prime"
	"bearh/internal/utility"
)

// MaxMonths là số tháng tối đa của một báo cáo
const MaxMonths = 36

// Header là dòng tiêu đề của file CSV
var Header = []string{
	"Période",
	"Heures Travaillées",
	"Tâches Complétées",
	"Score KPI Moyen",
	"Observations Positives",
	"Observations Négatives",
	"Congés Totaux",
}

// Row là số liệu của một tháng
type Row struct {
	Period         string
	HoursWorked    float64
	TasksCompleted int
	KpiRatios      []float64
	Positive       int
	Negative       int
	LeaveDays      float64
}

// Record định dạng dòng CSV: giờ 2 chữ số thập phân, KPI theo phần trăm
func (r *Row) Record() []string {
	return []string{
		r.Period,
		strconv.FormatFloat(r.HoursWorked, 'f', 2, 64),
		strconv.Itoa(r.TasksCompleted),
		strconv.FormatFloat(prime.Mean(r.KpiRatios)*100, 'f', 2, 64) + "%",
		strconv.Itoa(r.Positive),
		strconv.Itoa(r.Negative),
		strconv.FormatFloat(r.LeaveDays, 'f', 1, 64),
	}
}

// Activity là dữ liệu thô của user trong khoảng báo cáo
type Activity struct {
	Attendances  []hrmodels.Attendance
	Kpis         []kpisvc.RatedValue
	Observations []hrmodels.Observation
	Leaves       []hrmodels.Leave
}

// BuildRows gom dữ liệu theo tháng; tháng không có dữ liệu vẫn có dòng (toàn 0)
func BuildRows(months []time.Time, data *Activity, loc *time.Location) []Row {
	rows := make([]Row, len(months))
	index := make(map[string]int, len(months))
	for i, m := range months {
		rows[i].Period = utility.PeriodOf(m)
		index[rows[i].Period] = i
	}

	bucket := func(period string) *Row {
		if i, ok := index[period]; ok {
			return &rows[i]
		}
		return nil
	}

	for _, a := range data.Attendances {
		if len(a.Date) < 7 {
			continue
		}
		if row := bucket(a.Date[:7]); row != nil {
			row.HoursWorked += a.HoursWorked
			row.TasksCompleted += a.TasksCompleted
		}
	}
	for _, k := range data.Kpis {
		if row := bucket(utility.PeriodOf(k.EvaluatedAt.In(loc))); row != nil {
			row.KpiRatios = append(row.KpiRatios, k.Ratio)
		}
	}
	for i := range data.Observations {
		o := &data.Observations[i]
		if row := bucket(utility.PeriodOf(time.UnixMilli(o.CreatedAt).In(loc))); row != nil {
			if o.Sign() > 0 {
				row.Positive++
			} else {
				row.Negative++
			}
		}
	}
	for _, l := range data.Leaves {
		if len(l.StartDate) < 7 {
			continue
		}
		if row := bucket(l.StartDate[:7]); row != nil {
			row.LeaveDays += l.Days
		}
	}
	return rows
}

// WriteCSV ghi header và các dòng, phân cách bằng dấu phẩy
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range rows {
		if err := cw.Write(rows[i].Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportService đọc dữ liệu hoạt động và dựng báo cáo tháng
type ReportService struct {
	attendances  *hrsvc.AttendanceService
	leaves       *hrsvc.LeaveService
	observations *hrsvc.ObservationService
	kpiValues    *kpisvc.KpiValueService
	loc          *time.Location
}

// NewReportService tạo ReportService; loc nil => UTC
func NewReportService(attendances *hrsvc.AttendanceService, leaves *hrsvc.LeaveService, observations *hrsvc.ObservationService, kpiValues *kpisvc.KpiValueService, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{attendances: attendances, leaves: leaves, observations: observations, kpiValues: kpiValues, loc: loc}
}

// ValidateRange kiểm tra khoảng from..to (YYYY-MM): to không trước from, tối đa MaxMonths tháng
func ValidateRange(from, to string) error {
	n, err := utility.MonthSpan(from, to)
	if err != nil {
		return common.NewValidationError(map[string]string{"from": "Période invalide"})
	}
	if n < 1 {
		return common.NewValidationError(map[string]string{"to": "La fin doit suivre le début"})
	}
	if n > MaxMonths {
		return common.NewValidationError(map[string]string{"to": fmt.Sprintf("La période ne peut dépasser %d mois", MaxMonths)})
	}
	return nil
}

// MonthlyRows trả về một dòng cho mỗi tháng từ from tới to (YYYY-MM, bao gồm hai đầu)
func (s *ReportService) MonthlyRows(ctx context.Context, userID primitive.ObjectID, from, to string) ([]Row, error) {
	if err := ValidateRange(from, to); err != nil {
		return nil, err
	}
	months, err := utility.MonthRange(from, to, s.loc)
	if err != nil {
		return nil, err
	}
	start := months[0]
	end := months[len(months)-1].AddDate(0, 1, 0)
	firstDay, lastDay := start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02")

	data := &Activity{}
	if data.Attendances, err = s.attendances.ListRange(ctx, userID, firstDay, lastDay); err != nil {
		return nil, fmt.Errorf("attendances: %w", err)
	}
	if data.Leaves, err = s.leaves.ListRange(ctx, userID, firstDay, lastDay); err != nil {
		return nil, fmt.Errorf("leaves: %w", err)
	}
	if data.Observations, err = s.observations.ListInWindow(ctx, userID, start, end); err != nil {
		return nil, fmt.Errorf("observations: %w", err)
	}
	if data.Kpis, err = s.kpiValues.Rated(ctx, userID, start, end, false); err != nil {
		return nil, fmt.Errorf("kpi: %w", err)
	}
	return BuildRows(months, data, s.loc), nil
}

// Filename tạo tên file tải về, ví dụ "rapport-dupont-2026-01-2026-03.csv"
func Filename(lastName, from, to string) string {
	return utility.SafeFilename("rapport", lastName, from, to) + ".csv"
}
