package hrsvc

import (
	"context"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "bearh/internal/api/base/service"
	hrdto "bearh/internal/api/hr/dto"
	models "bearh/internal/api/hr/models"
	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/utility"
)

const dateLayout = "2006-01-02"

// AttendanceService quản lý chấm công
type AttendanceService struct {
	*basesvc.BaseServiceMongoImpl[models.Attendance]
}

// NewAttendanceService tạo AttendanceService từ registry
func NewAttendanceService() (*AttendanceService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.Attendances)
	if err != nil {
		return nil, err
	}
	return &AttendanceService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Attendance](coll)}, nil
}

// Record ghi (hoặc ghi đè) chấm công của user cho một ngày
func (s *AttendanceService) Record(ctx context.Context, in *hrdto.AttendanceInput) (*models.Attendance, error) {
	user, err := utility.ParseObjectID(in.User)
	if err != nil {
		return nil, common.NewValidationError(map[string]string{"user": "Identifiant invalide"})
	}
	doc, err := s.Upsert(ctx, bson.M{"user": user, "date": in.Date}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"hoursWorked":    in.HoursWorked,
			"tasksCompleted": in.TasksCompleted,
			"note":           strings.TrimSpace(in.Note),
		},
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListRange trả về chấm công của user từ ngày from tới to (YYYY-MM-DD, bao gồm hai đầu)
func (s *AttendanceService) ListRange(ctx context.Context, userID primitive.ObjectID, from, to string) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return s.ReadMany(ctx, bson.M{"user": userID, "date": bson.M{"$gte": from, "$lte": to}}, opts)
}

// LeaveService quản lý nghỉ phép
type LeaveService struct {
	*basesvc.BaseServiceMongoImpl[models.Leave]
}

// NewLeaveService tạo LeaveService từ registry
func NewLeaveService() (*LeaveService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.Leaves)
	if err != nil {
		return nil, err
	}
	return &LeaveService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Leave](coll)}, nil
}

// LeaveDays trả về số ngày nghỉ: days nếu có, nếu không thì số ngày lịch từ start tới end.
// end trước start => ValidationError.
func LeaveDays(start, end string, days float64) (float64, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, common.NewValidationError(map[string]string{"startDate": "Date invalide"})
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, common.NewValidationError(map[string]string{"endDate": "Date invalide"})
	}
	if e.Before(s) {
		return 0, common.NewValidationError(map[string]string{"endDate": "La date de fin précède la date de début"})
	}
	if days > 0 {
		return days, nil
	}
	return math.Round(e.Sub(s).Hours()/24) + 1, nil
}

// Create tạo nghỉ phép
func (s *LeaveService) Create(ctx context.Context, in *hrdto.LeaveInput) (*models.Leave, error) {
	user, err := utility.ParseObjectID(in.User)
	if err != nil {
		return nil, common.NewValidationError(map[string]string{"user": "Identifiant invalide"})
	}
	days, err := LeaveDays(in.StartDate, in.EndDate, in.Days)
	if err != nil {
		return nil, err
	}
	return s.CreateOne(ctx, models.Leave{
		User:      user,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Days:      days,
		Reason:    strings.TrimSpace(in.Reason),
	})
}

// ListRange trả về nghỉ phép của user bắt đầu trong [from, to] (YYYY-MM-DD)
func (s *LeaveService) ListRange(ctx context.Context, userID primitive.ObjectID, from, to string) ([]models.Leave, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	return s.ReadMany(ctx, bson.M{"user": userID, "startDate": bson.M{"$gte": from, "$lte": to}}, opts)
}
