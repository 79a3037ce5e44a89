// Package dto - DTO form cho domain nhân sự.
package dto

// GroupInput dữ liệu tạo / sửa phòng ban, nhóm, chức vụ, nhóm giờ làm.
// Id của nhóm nằm ở field mang tên resource (department, team, ...), handler tự đọc.
// Field không dùng cho loại nhóm tương ứng bị bỏ qua.
type GroupInput struct {
	Name        string  `form:"name" validate:"omitempty,max=120,no_xss"`
	Description string  `form:"description" validate:"omitempty,max=500,no_xss"`
	Manager     string  `form:"manager" validate:"omitempty,objectid"`
	Department  string  `form:"department" validate:"omitempty,objectid"`
	Level       int     `form:"level" validate:"gte=0,lte=20"`
	StartTime   string  `form:"startTime" validate:"omitempty,hhmm"`
	EndTime     string  `form:"endTime" validate:"omitempty,hhmm"`
	WeeklyHours float64 `form:"weeklyHours" validate:"gte=0,lte=168"`
}

// ObservationInput dữ liệu tạo nhận xét; author lấy từ phiên
type ObservationInput struct {
	User    string `form:"user" validate:"required,objectid"`
	Type    string `form:"type" validate:"required,oneof=Positive Negative"`
	Content string `form:"content" validate:"required,max=2000,no_xss"`
}

// AttendanceInput dữ liệu chấm công một ngày
type AttendanceInput struct {
	User           string  `form:"user" validate:"required,objectid"`
	Date           string  `form:"date" validate:"required,datetime=2006-01-02"`
	HoursWorked    float64 `form:"hoursWorked" validate:"gte=0,lte=24"`
	TasksCompleted int     `form:"tasksCompleted" validate:"gte=0"`
	Note           string  `form:"note" validate:"omitempty,max=500,no_xss"`
}

// LeaveInput dữ liệu tạo nghỉ phép
type LeaveInput struct {
	User      string  `form:"user" validate:"required,objectid"`
	StartDate string  `form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string  `form:"endDate" validate:"required,datetime=2006-01-02"`
	Days      float64 `form:"days" validate:"gte=0,lte=366"`
	Reason    string  `form:"reason" validate:"omitempty,max=500,no_xss"`
}

// AssetInput dữ liệu tạo / sửa tài sản
type AssetInput struct {
	Name         string  `form:"name" validate:"omitempty,max=120,no_xss"`
	Category     string  `form:"category" validate:"omitempty,max=60,no_xss"`
	SerialNumber string  `form:"serialNumber" validate:"omitempty,max=80,no_xss"`
	Value        float64 `form:"value" validate:"gte=0"`
}

// AssetAssignInput dữ liệu giao tài sản; user rỗng = thu hồi
type AssetAssignInput struct {
	Asset string `form:"asset" validate:"required,objectid"`
	User  string `form:"user" validate:"omitempty,objectid"`
}
