package primesvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "bearh/internal/api/base/service"
	models "bearh/internal/api/prime/models"
	"bearh/internal/global"
	"bearh/internal/prime"
)

// SystemConfigService đọc / ghi bản ghi cấu hình duy nhất (system_configs, key = "global")
type SystemConfigService struct {
	*basesvc.BaseServiceMongoImpl[models.SystemConfig]
}

// NewSystemConfigService tạo SystemConfigService từ registry
func NewSystemConfigService() (*SystemConfigService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.SystemConfigs)
	if err != nil {
		return nil, fmt.Errorf("failed to get system configs collection: %w", err)
	}
	return NewSystemConfigServiceWith(coll), nil
}

// NewSystemConfigServiceWith tạo SystemConfigService trên collection cho trước
func NewSystemConfigServiceWith(coll *mongo.Collection) *SystemConfigService {
	return &SystemConfigService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.SystemConfig](coll)}
}

// Get trả về cấu hình; chưa có bản ghi => cấu hình mặc định (chưa lưu)
func (s *SystemConfigService) Get(ctx context.Context) (*models.SystemConfig, error) {
	cfg, err := s.ReadOne(ctx, bson.M{"key": models.SystemConfigKey})
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &models.SystemConfig{
			Key:      models.SystemConfigKey,
			Settings: models.Settings{BonusCalculation: models.DefaultBonusCalculation()},
		}, nil
	}
	return cfg, nil
}

// BonusCalculation đọc lịch tính thưởng hiện tại
func (s *SystemConfigService) BonusCalculation(ctx context.Context) (models.BonusCalculationSettings, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return models.BonusCalculationSettings{}, err
	}
	return cfg.Settings.BonusCalculation, nil
}

// UpdateBonusCalculation kiểm tra rồi lưu lịch tính thưởng. Tần suất không hỗ trợ
// hoặc ngày / giờ sai => lỗi, cấu hình cũ giữ nguyên.
func (s *SystemConfigService) UpdateBonusCalculation(ctx context.Context, in models.BonusCalculationSettings) (*models.SystemConfig, error) {
	if err := global.ValidateStruct(in); err != nil {
		return nil, err
	}
	if _, err := prime.ParseRecurrence(in); err != nil {
		return nil, err
	}
	cfg, err := s.Upsert(ctx, bson.M{"key": models.SystemConfigKey}, &basesvc.UpdateData{
		Set: map[string]interface{}{"settings.bonusCalculation": in},
		SetOnInsert: map[string]interface{}{"key": models.SystemConfigKey},
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnsureDefault tạo bản ghi cấu hình mặc định nếu chưa có
func (s *SystemConfigService) EnsureDefault(ctx context.Context) error {
	_, err := s.Upsert(ctx, bson.M{"key": models.SystemConfigKey}, &basesvc.UpdateData{
		SetOnInsert: map[string]interface{}{
			"key":      models.SystemConfigKey,
			"settings": models.Settings{BonusCalculation: models.DefaultBonusCalculation()},
		},
	})
	return err
}
