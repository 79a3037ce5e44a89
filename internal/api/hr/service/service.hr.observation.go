package hrsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "bearh/internal/api/base/service"
	hrdto "bearh/internal/api/hr/dto"
	models "bearh/internal/api/hr/models"
	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/utility"
)

// ObservationService quản lý nhận xét
type ObservationService struct {
	*basesvc.BaseServiceMongoImpl[models.Observation]
}

// NewObservationService tạo ObservationService từ registry
func NewObservationService() (*ObservationService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.Observations)
	if err != nil {
		return nil, err
	}
	return NewObservationServiceWith(coll), nil
}

// NewObservationServiceWith tạo ObservationService trên collection cho trước
func NewObservationServiceWith(coll *mongo.Collection) *ObservationService {
	return &ObservationService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Observation](coll)}
}

// Create ghi nhận xét; author là user đang đăng nhập
func (s *ObservationService) Create(ctx context.Context, author primitive.ObjectID, in *hrdto.ObservationInput) (*models.Observation, error) {
	user, err := utility.ParseObjectID(in.User)
	if err != nil {
		return nil, common.NewValidationError(map[string]string{"user": "Identifiant invalide"})
	}
	return s.CreateOne(ctx, models.Observation{
		Author:  author,
		User:    user,
		Type:    in.Type,
		Content: strings.TrimSpace(in.Content),
	})
}

// ListForUser trả về nhận xét của user, mới nhất trước
func (s *ObservationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Observation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.ReadMany(ctx, bson.M{"user": userID}, opts)
}

// ListInWindow trả về nhận xét của user có createdAt trong [from, to)
func (s *ObservationService) ListInWindow(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.Observation, error) {
	return s.ReadMany(ctx, bson.M{
		"user":      userID,
		"createdAt": bson.M{"$gte": from.UnixMilli(), "$lt": to.UnixMilli()},
	}, nil)
}

// CountRemarks đếm nhận xét tích cực / tiêu cực trong [from, to)
func (s *ObservationService) CountRemarks(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (positive, negative int, err error) {
	list, err := s.ListInWindow(ctx, userID, from, to)
	if err != nil {
		return 0, 0, fmt.Errorf("list observations: %w", err)
	}
	for i := range list {
		if list[i].Sign() > 0 {
			positive++
		} else {
			negative++
		}
	}
	return positive, negative, nil
}
