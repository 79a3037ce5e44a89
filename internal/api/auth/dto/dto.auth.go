// Package dto - DTO cho domain auth.
package dto

// LoginInput dữ liệu đăng nhập
type LoginInput struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// UserCreateInput dữ liệu tạo nhân viên
type UserCreateInput struct {
	FirstName   string  `form:"firstName" validate:"required,max=100,no_xss"`
	LastName    string  `form:"lastName" validate:"required,max=100,no_xss"`
	Email       string  `form:"email" validate:"required,email"`
	Password    string  `form:"password" validate:"required,min=8,max=72"`
	Phone       string  `form:"phone" validate:"omitempty,max=30"`
	JobTitle    string  `form:"jobTitle" validate:"omitempty,max=100,no_xss"`
	BaseSalary  float64 `form:"baseSalary" validate:"gte=0"`
	Permissions string  `form:"permissions"` // token phân cách bởi dấu phẩy
}

// UserUpdateInput dữ liệu cập nhật nhân viên; field rỗng được bỏ qua
type UserUpdateInput struct {
	ID        string `form:"user" validate:"required,objectid"`
	FirstName string `form:"firstName" validate:"omitempty,max=100,no_xss"`
	LastName  string `form:"lastName" validate:"omitempty,max=100,no_xss"`
	Phone     string `form:"phone" validate:"omitempty,max=30"`
	JobTitle  string `form:"jobTitle" validate:"omitempty,max=100,no_xss"`
	IsActive  string `form:"isActive" validate:"omitempty,oneof=true false"`
}

// BaseSalaryInput dữ liệu cập nhật lương cơ bản
type BaseSalaryInput struct {
	ID         string  `form:"user" validate:"required,objectid"`
	BaseSalary float64 `form:"baseSalary" validate:"gte=0"`
}

// PermissionsInput dữ liệu gán quyền cho user
type PermissionsInput struct {
	User        string `form:"user" validate:"required,objectid"`
	Permissions string `form:"permissions"` // token phân cách bởi dấu phẩy, rỗng = bỏ toàn bộ quyền
}

// PreferencesInput tùy chọn giao diện lưu trong phiên
type PreferencesInput struct {
	Theme         string `form:"theme" json:"theme" validate:"omitempty,oneof=light dark"`
	IsSidebarOpen string `form:"isSidebarOpen" json:"isSidebarOpen" validate:"omitempty,oneof=true false"`
}
