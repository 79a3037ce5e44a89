// Package primesvc - service danh mục thưởng, bản ghi job tính thưởng và cấu hình lịch.
package primesvc

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "bearh/internal/api/base/service"
	primedto "bearh/internal/api/prime/dto"
	models "bearh/internal/api/prime/models"
	"bearh/internal/database"
	"bearh/internal/global"
)

// PointerBonusCategory là tên field con trỏ danh mục thưởng trên user
const PointerBonusCategory = "bonusCategory"

// BonusCategoryService quản lý danh mục thưởng và thành viên
type BonusCategoryService struct {
	*basesvc.GroupService[models.BonusCategory]
}

// NewBonusCategoryService tạo BonusCategoryService từ registry
func NewBonusCategoryService(users basesvc.PointerStore, tx database.Transactor) (*BonusCategoryService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.BonusCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to get bonus categories collection: %w", err)
	}
	return &BonusCategoryService{
		GroupService: basesvc.NewGroupService[models.BonusCategory](coll, users, tx, PointerBonusCategory),
	}, nil
}

func amount(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Create tạo danh mục thưởng
func (s *BonusCategoryService) Create(ctx context.Context, in *primedto.BonusCategoryInput) (*models.BonusCategory, error) {
	return s.CreateOne(ctx, models.BonusCategory{
		Name:              strings.TrimSpace(in.Name),
		BaseAmount:        amount(in.BaseAmount),
		RemarkBonusAmount: amount(in.RemarkBonusAmount),
		Coefficient:       amount(in.Coefficient),
		Members:           []primitive.ObjectID{},
	})
}

// Update sửa danh mục; không có => nil, nil
func (s *BonusCategoryService) Update(ctx context.Context, id primitive.ObjectID, in *primedto.BonusCategoryInput) (*models.BonusCategory, error) {
	set := map[string]interface{}{}
	if in.Name != "" {
		set["name"] = strings.TrimSpace(in.Name)
	}
	if in.BaseAmount != nil {
		set["baseAmount"] = *in.BaseAmount
	}
	if in.RemarkBonusAmount != nil {
		set["remarkBonusAmount"] = *in.RemarkBonusAmount
	}
	if in.Coefficient != nil {
		set["coefficient"] = *in.Coefficient
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}

// Categories trả về mọi danh mục theo thứ tự (createdAt, _id)
func (s *BonusCategoryService) Categories(ctx context.Context) ([]models.BonusCategory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return s.ReadMany(ctx, bson.M{}, opts)
}
