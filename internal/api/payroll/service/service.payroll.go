// Package payrollsvc - service bảng lương theo kỳ tháng.
package payrollsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	authmodels "bearh/internal/api/auth/models"
	basesvc "bearh/internal/api/base/service"
	payrolldto "bearh/internal/api/payroll/dto"
	models "bearh/internal/api/payroll/models"
	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/utility"
)

// UserReader đọc nhân viên còn hoạt động (lấy lương cơ bản)
type UserReader interface {
	FindActiveUser(ctx context.Context, id primitive.ObjectID) (*authmodels.User, error)
}

// PayrollService quản lý bảng lương; mỗi (user, period) có đúng một bản ghi
type PayrollService struct {
	*basesvc.BaseServiceMongoImpl[models.Payroll]
	users UserReader
}

// NewPayrollService tạo PayrollService từ registry
func NewPayrollService(users UserReader) (*PayrollService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Payrolls)
	if err != nil {
		return nil, fmt.Errorf("failed to get payrolls collection: %w", err)
	}
	return NewPayrollServiceWith(coll, users), nil
}

// NewPayrollServiceWith tạo PayrollService trên collection cho trước
func NewPayrollServiceWith(coll *mongo.Collection, users UserReader) *PayrollService {
	return &PayrollService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Payroll](coll), users: users}
}

// upsertRecompute ghi fields rồi tính lại netPay từ document sau khi ghi, trong cùng một update.
// Field thiếu (document mới) được coi là 0.
func (s *PayrollService) upsertRecompute(ctx context.Context, userID primitive.ObjectID, period string, fields bson.M) (*models.Payroll, error) {
	now := time.Now().UnixMilli()
	set := bson.M{
		"baseSalary": bson.M{"$ifNull": bson.A{"$baseSalary", 0.0}},
		"prime":      bson.M{"$ifNull": bson.A{"$prime", 0.0}},
		"deductions": bson.M{"$ifNull": bson.A{"$deductions", 0.0}},
		"createdAt":  bson.M{"$ifNull": bson.A{"$createdAt", now}},
		"updatedAt":  now,
	}
	for k, v := range fields {
		set[k] = bson.M{"$literal": v}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: set}},
		{{Key: "$set", Value: bson.M{"netPay": models.NetPayExpr()}}},
	}

	var payroll models.Payroll
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.Collection().FindOneAndUpdate(ctx, bson.M{"user": userID, "period": period}, pipeline, opts).Decode(&payroll)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &payroll, nil
}

// SavePrime ghi thưởng của job vào bảng lương kỳ period (tạo nếu chưa có) và tính lại netPay.
// Chạy lại cùng kỳ ghi đè giá trị cũ.
func (s *PayrollService) SavePrime(ctx context.Context, userID primitive.ObjectID, period string, amount float64, jobID string) error {
	_, err := s.upsertRecompute(ctx, userID, period, bson.M{
		"prime":      amount,
		"primeJobId": jobID,
	})
	return err
}

// Generate tính lương thực nhận của kỳ từ lương cơ bản hiện tại, thưởng đang lưu và khấu trừ
func (s *PayrollService) Generate(ctx context.Context, in *payrolldto.GenerateInput) (*models.Payroll, error) {
	userID, err := utility.ParseObjectID(in.User)
	if err != nil {
		return nil, common.NewValidationError(map[string]string{"user": "Identifiant invalide"})
	}
	user, err := s.users.FindActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	return s.upsertRecompute(ctx, userID, in.Period, bson.M{
		"baseSalary":  user.BaseSalary,
		"deductions":  in.Deductions,
		"generatedAt": time.Now().UnixMilli(),
	})
}

// ListForUser trả về bảng lương của user, kỳ mới nhất trước; period rỗng => mọi kỳ
func (s *PayrollService) ListForUser(ctx context.Context, userID primitive.ObjectID, period string) ([]models.Payroll, error) {
	filter := bson.M{"user": userID}
	if period != "" {
		filter["period"] = period
	}
	opts := options.Find().SetSort(bson.D{{Key: "period", Value: -1}})
	return s.ReadMany(ctx, filter, opts)
}
