package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SystemConfigKey là khóa của bản ghi cấu hình duy nhất
const SystemConfigKey = "global"

// BonusCalculationSettings là lịch chạy job tính thưởng
type BonusCalculationSettings struct {
	Frequency     string `json:"frequency" bson:"frequency" form:"frequency" validate:"required,oneof=daily weekly monthly quarterly semi-annually annually"`
	ExecutionDay  string `json:"executionDay" bson:"executionDay" form:"executionDay" validate:"omitempty,max=4"`
	ExecutionTime string `json:"executionTime" bson:"executionTime" form:"executionTime" validate:"required,hhmm"`
}

// Settings gom các nhóm cấu hình
type Settings struct {
	BonusCalculation BonusCalculationSettings `json:"bonusCalculation" bson:"bonusCalculation"`
}

// SystemConfig là cấu hình hệ thống (system_configs)
type SystemConfig struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key       string             `json:"key" bson:"key" index:"unique"`
	Settings  Settings           `json:"settings" bson:"settings"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// DefaultBonusCalculation là lịch mặc định khi chưa có cấu hình: cuối mỗi tháng lúc 18:00
func DefaultBonusCalculation() BonusCalculationSettings {
	return BonusCalculationSettings{Frequency: "monthly", ExecutionDay: "last", ExecutionTime: "18:00"}
}
