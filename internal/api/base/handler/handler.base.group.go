package basehdl

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bearh/internal/authz"
	"bearh/internal/common"
)

// GroupOps là thao tác thành viên chung của mọi loại nhóm
type GroupOps interface {
	AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error
	Assign(ctx context.Context, groupID, userID primitive.ObjectID) error
	Remove(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// GroupResource dựng bảng action và loader cho một loại nhóm.
// T là model, I là DTO form của create / update.
type GroupResource[T any, I any] struct {
	Permission string // tiền tố quyền, ví dụ "Department"
	Field      string // field form chứa id nhóm, ví dụ "department"
	Key        string // khóa JSON của một bản ghi
	ListKey    string // khóa JSON của danh sách
	SortField  string
	Ops        GroupOps
	Create     func(ctx context.Context, in *I) (*T, error)
	Update     func(ctx context.Context, id primitive.ObjectID, in *I) (*T, error)
	List       func(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error)
}

func (g *GroupResource[T, I]) perm(action string) authz.Condition {
	return authz.Permission(authz.Token(g.Permission, action))
}

// ReadCondition là quyền đọc của loại nhóm
func (g *GroupResource[T, I]) ReadCondition() authz.Condition {
	return g.perm("Read")
}

// Actions trả về bảng action create, update, delete, addMember, assign
func (g *GroupResource[T, I]) Actions() ActionTable {
	return ActionTable{
		"create":    {Permission: g.perm("Create"), Handle: g.create},
		"update":    {Permission: g.perm("Update"), Handle: g.update},
		"delete":    {Permission: g.perm("Delete"), Handle: g.delete},
		"addMember": {Permission: g.perm("AddMember"), Handle: g.addMember},
		"assign":    {Permission: g.perm("Assign"), Handle: g.assign},
	}
}

func (g *GroupResource[T, I]) create(c fiber.Ctx, _ *Principal) (fiber.Map, error) {
	input := new(I)
	if err := BindForm(c, input); err != nil {
		return nil, err
	}
	created, err := g.Create(c.Context(), input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgCreated, g.Key: created}, nil
}

func (g *GroupResource[T, I]) update(c fiber.Ctx, _ *Principal) (fiber.Map, error) {
	id, err := FormObjectID(c, g.Field)
	if err != nil {
		return nil, err
	}
	input := new(I)
	if err := BindForm(c, input); err != nil {
		return nil, err
	}
	updated, err := g.Update(c.Context(), id, input)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, common.ErrNotFound
	}
	return fiber.Map{"message": common.MsgUpdated, g.Key: updated}, nil
}

func (g *GroupResource[T, I]) delete(c fiber.Ctx, _ *Principal) (fiber.Map, error) {
	id, err := FormObjectID(c, g.Field)
	if err != nil {
		return nil, err
	}
	deleted, err := g.Ops.Remove(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := FoundOr404(deleted); err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgDeleted}, nil
}

// memberIDs đọc cặp (id nhóm, user) từ form
func (g *GroupResource[T, I]) memberIDs(c fiber.Ctx) (primitive.ObjectID, primitive.ObjectID, error) {
	groupID, err := FormObjectID(c, g.Field)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	userID, err := FormObjectID(c, "user")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return groupID, userID, nil
}

func (g *GroupResource[T, I]) addMember(c fiber.Ctx, _ *Principal) (fiber.Map, error) {
	groupID, userID, err := g.memberIDs(c)
	if err != nil {
		return nil, err
	}
	if err := g.Ops.AddMember(c.Context(), groupID, userID); err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgUpdated}, nil
}

func (g *GroupResource[T, I]) assign(c fiber.Ctx, _ *Principal) (fiber.Map, error) {
	groupID, userID, err := g.memberIDs(c)
	if err != nil {
		return nil, err
	}
	if err := g.Ops.Assign(c.Context(), groupID, userID); err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgUpdated}, nil
}

// Loader liệt kê mọi nhóm, sắp theo SortField
func (g *GroupResource[T, I]) Loader(c fiber.Ctx, _ *Principal) (fiber.Map, error) {
	sortField := g.SortField
	if sortField == "" {
		sortField = "name"
	}
	items, err := g.List(c.Context(), bson.M{}, options.Find().SetSort(bson.D{{Key: sortField, Value: 1}}))
	if err != nil {
		return nil, err
	}
	return fiber.Map{g.ListKey: items}, nil
}
