// Package router gom cấu hình route dùng chung: prefix /api/v1, đăng ký route kèm middleware
// và bộ service được chia sẻ giữa các domain.
package router

import (
	"github.com/gofiber/fiber/v3"

	authsvc "bearh/internal/api/auth/service"
	basehdl "bearh/internal/api/base/handler"
	hrsvc "bearh/internal/api/hr/service"
	kpisvc "bearh/internal/api/kpi/service"
	payrollsvc "bearh/internal/api/payroll/service"
	primesvc "bearh/internal/api/prime/service"
	reportsvc "bearh/internal/api/report/service"
	"bearh/internal/prime"
)

// Services là các service đã khởi tạo, dùng chung cho mọi handler trong tiến trình
type Services struct {
	Access *authsvc.AccessService
	Users  *authsvc.UserService

	Departments  *hrsvc.DepartmentService
	Teams        *hrsvc.TeamService
	Positions    *hrsvc.PositionService
	HourGroups   *hrsvc.HourGroupService
	Observations *hrsvc.ObservationService
	Attendances  *hrsvc.AttendanceService
	Leaves       *hrsvc.LeaveService
	Assets       *hrsvc.AssetService

	KpiForms  *kpisvc.KpiFormService
	KpiValues *kpisvc.KpiValueService

	BonusCategories *primesvc.BonusCategoryService
	PrimeJobs       *primesvc.PrimeJobService
	SystemConfig    *primesvc.SystemConfigService
	Calculator      *prime.Calculator
	Scheduler       *prime.Scheduler

	Payrolls *payrollsvc.PayrollService
	Reports  *reportsvc.ReportService
}

// Router giữ app cùng các phụ thuộc mà hàm đăng ký route của từng domain cần
type Router struct {
	app      *fiber.App
	Auth     basehdl.Authenticator
	Services *Services
}

type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

func NewRouter(app *fiber.App, auth basehdl.Authenticator, services *Services) *Router {
	return &Router{app: app, Auth: auth, Services: services}
}

// RegisterRouteWithMiddleware đăng ký route trong group prefix; middleware gắn qua Use() của group.
// Không truyền middleware trực tiếp vào router.Get/Post: fiber v3 bỏ qua chúng trong một số trường hợp.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterActions đăng ký POST <prefix>/actions điều phối theo "_action"
func (r *Router) RegisterActions(router fiber.Router, prefix, resource string, table basehdl.ActionTable) {
	RegisterRouteWithMiddleware(router, prefix, "POST", "/actions", nil, table.Handler(resource, r.Auth))
}

type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes tạo group /api/v1 rồi gọi lần lượt các hàm đăng ký của từng domain
func SetupRoutes(app *fiber.App, r *Router, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
