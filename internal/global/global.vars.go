package global

import (
	"bearh/config"
	"bearh/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users           string // Nhân viên (tài khoản đăng nhập)
	Access          string // Quyền của từng user
	Departments     string // Phòng ban
	Teams           string // Nhóm
	Positions       string // Chức vụ
	HourGroups      string // Nhóm giờ làm
	BonusCategories string // Danh mục thưởng (prime)
	PrimeCronJobs   string // Bản ghi mỗi lần chạy job tính thưởng
	SystemConfigs   string // Cấu hình hệ thống (lịch tính thưởng)
	Observations    string // Nhận xét tích cực / tiêu cực
	KpiForms        string // Mẫu đánh giá KPI
	KpiValues       string // Kết quả đánh giá KPI
	Payrolls        string // Bảng lương theo kỳ
	Assets          string // Tài sản (patrimoine)
	Attendances     string // Chấm công
	Leaves          string // Nghỉ phép
}

// Các biến toàn cục
var Validate *validator.Validate                                 // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                   // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName                      // Tên các collection
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections

// DefaultCollectionNames trả về tên collection mặc định
func DefaultCollectionNames() MongoDB_CollectionName {
	return MongoDB_CollectionName{
		Users:           "hr_users",
		Access:          "hr_access",
		Departments:     "hr_departments",
		Teams:           "hr_teams",
		Positions:       "hr_positions",
		HourGroups:      "hr_hour_groups",
		BonusCategories: "prime_bonus_categories",
		PrimeCronJobs:   "prime_cron_jobs",
		SystemConfigs:   "system_configs",
		Observations:    "hr_observations",
		KpiForms:        "kpi_forms",
		KpiValues:       "kpi_values",
		Payrolls:        "payrolls",
		Assets:          "assets",
		Attendances:     "hr_attendances",
		Leaves:          "hr_leaves",
	}
}
