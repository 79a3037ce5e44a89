// Package router đăng ký các route thuộc domain nhân sự.
package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "bearh/internal/api/base/handler"
	hrdto "bearh/internal/api/hr/dto"
	hrhdl "bearh/internal/api/hr/handler"
	models "bearh/internal/api/hr/models"
	apirouter "bearh/internal/api/router"
	"bearh/internal/authz"
)

// Register đăng ký route nhân sự lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	s := r.Services

	departments := &basehdl.GroupResource[models.Department, hrdto.GroupInput]{
		Permission: "Department", Field: "department", Key: "department", ListKey: "departments",
		Ops: s.Departments, Create: s.Departments.Create, Update: s.Departments.Update, List: s.Departments.ReadMany,
	}
	teams := &basehdl.GroupResource[models.Team, hrdto.GroupInput]{
		Permission: "Team", Field: "team", Key: "team", ListKey: "teams",
		Ops: s.Teams, Create: s.Teams.Create, Update: s.Teams.Update, List: s.Teams.ReadMany,
	}
	positions := &basehdl.GroupResource[models.Position, hrdto.GroupInput]{
		Permission: "Position", Field: "position", Key: "position", ListKey: "positions", SortField: "title",
		Ops: s.Positions, Create: s.Positions.Create, Update: s.Positions.Update, List: s.Positions.ReadMany,
	}
	hourGroups := &basehdl.GroupResource[models.HourGroup, hrdto.GroupInput]{
		Permission: "HourGroup", Field: "hourGroup", Key: "hourGroup", ListKey: "hourGroups",
		Ops: s.HourGroups, Create: s.HourGroups.Create, Update: s.HourGroups.Update, List: s.HourGroups.ReadMany,
	}

	registerGroup(v1, r, "/departments", "departments", departments.Actions(), departments.ReadCondition(), departments.Loader)
	registerGroup(v1, r, "/teams", "teams", teams.Actions(), teams.ReadCondition(), teams.Loader)
	registerGroup(v1, r, "/positions", "positions", positions.Actions(), positions.ReadCondition(), positions.Loader)
	registerGroup(v1, r, "/hour-groups", "hour-groups", hourGroups.Actions(), hourGroups.ReadCondition(), hourGroups.Loader)

	h := hrhdl.NewHRHandler(s.Observations, s.Attendances, s.Leaves, s.Assets, s.Users)

	v1.Post("/observations", basehdl.Guard(r.Auth, authz.Permission("Observation.Create"), h.CreateObservation))
	v1.Get("/observations", basehdl.Loader(r.Auth, authz.Permission("Observation.Read"), h.ListObservations))

	r.RegisterActions(v1, "/attendances", "attendances", h.AttendanceActions())
	r.RegisterActions(v1, "/leaves", "leaves", h.LeaveActions())

	r.RegisterActions(v1, "/assets", "assets", h.AssetActions())
	v1.Get("/assets", basehdl.Loader(r.Auth, authz.Permission("Asset.Read"), h.ListAssets))
	return nil
}

func registerGroup(v1 fiber.Router, r *apirouter.Router, prefix, resource string, actions basehdl.ActionTable, read authz.Condition, load basehdl.LoaderFunc) {
	r.RegisterActions(v1, prefix, resource, actions)
	v1.Get(prefix, basehdl.Loader(r.Auth, read, load))
}
