// Package hrsvc - service phòng ban, nhóm, chức vụ, nhóm giờ làm, nhận xét, chấm công, nghỉ phép, tài sản.
package hrsvc

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "bearh/internal/api/base/service"
	hrdto "bearh/internal/api/hr/dto"
	models "bearh/internal/api/hr/models"
	"bearh/internal/database"
	"bearh/internal/global"
	"bearh/internal/utility"
)

// Tên field con trỏ trên user tương ứng với từng loại nhóm
const (
	PointerDepartment = "department"
	PointerTeam       = "team"
	PointerPosition   = "position"
	PointerHourGroup  = "hourGroup"
)

func groupCollection(name string) (*mongo.Collection, error) {
	coll, err := global.RegistryCollections.MustGet(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", name, err)
	}
	return coll, nil
}

// groupPatch gom các field chung của patch nhóm
func groupPatch(in *hrdto.GroupInput) map[string]interface{} {
	set := map[string]interface{}{}
	if in.Name != "" {
		set["name"] = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	return set
}

// ====================================
// DEPARTMENT
// ====================================

// DepartmentService quản lý phòng ban
type DepartmentService struct {
	*basesvc.GroupService[models.Department]
}

// NewDepartmentService tạo DepartmentService từ registry
func NewDepartmentService(users basesvc.PointerStore, tx database.Transactor) (*DepartmentService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.Departments)
	if err != nil {
		return nil, err
	}
	return &DepartmentService{GroupService: basesvc.NewGroupService[models.Department](coll, users, tx, PointerDepartment)}, nil
}

// Create tạo phòng ban
func (s *DepartmentService) Create(ctx context.Context, in *hrdto.GroupInput) (*models.Department, error) {
	return s.CreateOne(ctx, models.Department{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Manager:     utility.String2ObjectID(in.Manager),
		Members:     []primitive.ObjectID{},
	})
}

// Update sửa phòng ban; không có => nil, nil
func (s *DepartmentService) Update(ctx context.Context, id primitive.ObjectID, in *hrdto.GroupInput) (*models.Department, error) {
	set := groupPatch(in)
	if in.Manager != "" {
		set["manager"] = utility.String2ObjectID(in.Manager)
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}

// ====================================
// TEAM
// ====================================

// TeamService quản lý nhóm làm việc
type TeamService struct {
	*basesvc.GroupService[models.Team]
}

// NewTeamService tạo TeamService từ registry
func NewTeamService(users basesvc.PointerStore, tx database.Transactor) (*TeamService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.Teams)
	if err != nil {
		return nil, err
	}
	return &TeamService{GroupService: basesvc.NewGroupService[models.Team](coll, users, tx, PointerTeam)}, nil
}

// Create tạo nhóm
func (s *TeamService) Create(ctx context.Context, in *hrdto.GroupInput) (*models.Team, error) {
	return s.CreateOne(ctx, models.Team{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Department:  utility.String2ObjectID(in.Department),
		Leader:      utility.String2ObjectID(in.Manager),
		Members:     []primitive.ObjectID{},
	})
}

// Update sửa nhóm; không có => nil, nil
func (s *TeamService) Update(ctx context.Context, id primitive.ObjectID, in *hrdto.GroupInput) (*models.Team, error) {
	set := groupPatch(in)
	if in.Department != "" {
		set["department"] = utility.String2ObjectID(in.Department)
	}
	if in.Manager != "" {
		set["leader"] = utility.String2ObjectID(in.Manager)
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}

// ====================================
// POSITION
// ====================================

// PositionService quản lý chức vụ
type PositionService struct {
	*basesvc.GroupService[models.Position]
}

// NewPositionService tạo PositionService từ registry
func NewPositionService(users basesvc.PointerStore, tx database.Transactor) (*PositionService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.Positions)
	if err != nil {
		return nil, err
	}
	return &PositionService{GroupService: basesvc.NewGroupService[models.Position](coll, users, tx, PointerPosition)}, nil
}

// Create tạo chức vụ; tên chức vụ lấy từ field name
func (s *PositionService) Create(ctx context.Context, in *hrdto.GroupInput) (*models.Position, error) {
	return s.CreateOne(ctx, models.Position{
		Title:       strings.TrimSpace(in.Name),
		Level:       in.Level,
		Description: in.Description,
		Members:     []primitive.ObjectID{},
	})
}

// Update sửa chức vụ; không có => nil, nil
func (s *PositionService) Update(ctx context.Context, id primitive.ObjectID, in *hrdto.GroupInput) (*models.Position, error) {
	set := map[string]interface{}{}
	if in.Name != "" {
		set["title"] = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Level > 0 {
		set["level"] = in.Level
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}

// ====================================
// HOUR GROUP
// ====================================

// HourGroupService quản lý nhóm giờ làm
type HourGroupService struct {
	*basesvc.GroupService[models.HourGroup]
}

// NewHourGroupService tạo HourGroupService từ registry
func NewHourGroupService(users basesvc.PointerStore, tx database.Transactor) (*HourGroupService, error) {
	coll, err := groupCollection(global.MongoDB_ColNames.HourGroups)
	if err != nil {
		return nil, err
	}
	return &HourGroupService{GroupService: basesvc.NewGroupService[models.HourGroup](coll, users, tx, PointerHourGroup)}, nil
}

// Create tạo nhóm giờ làm
func (s *HourGroupService) Create(ctx context.Context, in *hrdto.GroupInput) (*models.HourGroup, error) {
	return s.CreateOne(ctx, models.HourGroup{
		Name:        strings.TrimSpace(in.Name),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		WeeklyHours: in.WeeklyHours,
		Members:     []primitive.ObjectID{},
	})
}

// Update sửa nhóm giờ làm; không có => nil, nil
func (s *HourGroupService) Update(ctx context.Context, id primitive.ObjectID, in *hrdto.GroupInput) (*models.HourGroup, error) {
	set := groupPatch(in)
	if in.StartTime != "" {
		set["startTime"] = in.StartTime
	}
	if in.EndTime != "" {
		set["endTime"] = in.EndTime
	}
	if in.WeeklyHours > 0 {
		set["weeklyHours"] = in.WeeklyHours
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}
