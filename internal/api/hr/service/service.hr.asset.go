package hrsvc

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "bearh/internal/api/base/service"
	hrdto "bearh/internal/api/hr/dto"
	models "bearh/internal/api/hr/models"
	"bearh/internal/global"
)

// AssetService quản lý tài sản (patrimoine)
type AssetService struct {
	*basesvc.BaseServiceMongoImpl[models.Asset]
}

// NewAssetService tạo AssetService từ registry
func NewAssetService() (*AssetService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.Assets)
	if err != nil {
		return nil, err
	}
	return &AssetService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Asset](coll)}, nil
}

// Create tạo tài sản
func (s *AssetService) Create(ctx context.Context, in *hrdto.AssetInput) (*models.Asset, error) {
	return s.CreateOne(ctx, models.Asset{
		Name:         strings.TrimSpace(in.Name),
		Category:     strings.TrimSpace(in.Category),
		SerialNumber: strings.TrimSpace(in.SerialNumber),
		Value:        in.Value,
	})
}

// Update sửa tài sản; không có => nil, nil
func (s *AssetService) Update(ctx context.Context, id primitive.ObjectID, in *hrdto.AssetInput) (*models.Asset, error) {
	set := map[string]interface{}{}
	if in.Name != "" {
		set["name"] = strings.TrimSpace(in.Name)
	}
	if in.Category != "" {
		set["category"] = strings.TrimSpace(in.Category)
	}
	if in.SerialNumber != "" {
		set["serialNumber"] = strings.TrimSpace(in.SerialNumber)
	}
	if in.Value > 0 {
		set["value"] = in.Value
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}

// Assign giao tài sản cho user bằng một update có điều kiện duy nhất; user zero => thu hồi.
// Không có tài sản => nil, nil.
func (s *AssetService) Assign(ctx context.Context, assetID, userID primitive.ObjectID) (*models.Asset, error) {
	update := &basesvc.UpdateData{}
	if userID.IsZero() {
		update.Unset = map[string]interface{}{"assignedTo": "", "assignedAt": ""}
	} else {
		update.Set = map[string]interface{}{"assignedTo": userID, "assignedAt": time.Now().UnixMilli()}
	}
	return s.UpdateOneByID(ctx, assetID, update)
}

// ListAssignedTo trả về tài sản đang giao cho user
func (s *AssetService) ListAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]models.Asset, error) {
	return s.ReadMany(ctx, bson.M{"assignedTo": userID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// ReleaseAll thu hồi mọi tài sản của user (khi user bị xóa)
func (s *AssetService) ReleaseAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.UpdateMany(ctx, bson.M{"assignedTo": userID}, &basesvc.UpdateData{
		Unset: map[string]interface{}{"assignedTo": "", "assignedAt": ""},
	})
}
