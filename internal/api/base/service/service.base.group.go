package basesvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bearh/internal/common"
	"bearh/internal/database"
)

// MemberStore thao tác trên mảng members của một collection nhóm
type MemberStore interface {
	// AddMember thêm userID vào members ($addToSet); false nếu nhóm không tồn tại
	AddMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error)
	// RemoveMemberFromOthers bỏ userID khỏi mọi nhóm khác keepGroupID
	RemoveMemberFromOthers(ctx context.Context, keepGroupID, userID primitive.ObjectID) error
	// RemoveMemberEverywhere bỏ userID khỏi mọi nhóm (khi user bị xóa)
	RemoveMemberEverywhere(ctx context.Context, userID primitive.ObjectID) error
}

// PointerStore cập nhật con trỏ nhóm trên bản ghi user
type PointerStore interface {
	UserExists(ctx context.Context, userID primitive.ObjectID) (bool, error)
	SetGroupPointer(ctx context.Context, userID primitive.ObjectID, field string, groupID primitive.ObjectID) (bool, error)
	ClearGroupPointer(ctx context.Context, field string, groupID primitive.ObjectID) (int64, error)
}

// MongoMemberStore là MemberStore trên một collection MongoDB
type MongoMemberStore struct {
	collection *mongo.Collection
}

// NewMongoMemberStore tạo MemberStore cho collection nhóm
func NewMongoMemberStore(collection *mongo.Collection) *MongoMemberStore {
	return &MongoMemberStore{collection: collection}
}

func (s *MongoMemberStore) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	update, err := ToUpdateData(bson.M{"$addToSet": bson.M{"members": userID}})
	if err != nil {
		return false, err
	}
	stampUpdatedAt(update)
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoMemberStore) RemoveMemberFromOthers(ctx context.Context, keepGroupID, userID primitive.ObjectID) error {
	_, err := s.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$ne": keepGroupID}, "members": userID},
		bson.M{"$pull": bson.M{"members": userID}})
	return common.ConvertMongoError(err)
}

func (s *MongoMemberStore) RemoveMemberEverywhere(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.collection.UpdateMany(ctx, bson.M{"members": userID}, bson.M{"$pull": bson.M{"members": userID}})
	return common.ConvertMongoError(err)
}

// GroupMembership gom các thao tác thành viên dùng chung cho department, team,
// position, hour group và bonus category.
type GroupMembership struct {
	members MemberStore
	users   PointerStore
	tx      database.Transactor
	field   string // tên field con trỏ trên user, ví dụ "department"
}

// NewGroupMembership tạo GroupMembership; tx nil => chạy tuần tự không transaction
func NewGroupMembership(members MemberStore, users PointerStore, tx database.Transactor, field string) *GroupMembership {
	return &GroupMembership{members: members, users: users, tx: tx, field: field}
}

// PointerField trả về tên field con trỏ trên user
func (g *GroupMembership) PointerField() string {
	return g.field
}

// requireUser chặn ghi members cho user không tồn tại
func (g *GroupMembership) requireUser(ctx context.Context, userID primitive.ObjectID) error {
	ok, err := g.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrUserNotFound
	}
	return nil
}

// AddMember thêm user vào nhóm. Thêm lần hai là no-op. Nhóm không tồn tại => ErrNotFound,
// user không tồn tại => ErrUserNotFound.
func (g *GroupMembership) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	if err := g.requireUser(ctx, userID); err != nil {
		return err
	}
	found, err := g.members.AddMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !found {
		return common.ErrNotFound
	}
	return nil
}

// Assign chuyển user sang nhóm groupID: thêm vào members, trỏ con trỏ của user về nhóm,
// rồi bỏ user khỏi các nhóm cùng loại khác. Thứ tự add -> pointer -> pull đảm bảo
// người đọc đồng thời không thấy con trỏ trỏ tới nhóm chưa chứa user.
func (g *GroupMembership) Assign(ctx context.Context, groupID, userID primitive.ObjectID) error {
	run := func(ctx context.Context) error {
		if err := g.requireUser(ctx, userID); err != nil {
			return err
		}
		found, err := g.members.AddMember(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if !found {
			return common.ErrNotFound
		}
		ok, err := g.users.SetGroupPointer(ctx, userID, g.field, groupID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrUserNotFound
		}
		return g.members.RemoveMemberFromOthers(ctx, groupID, userID)
	}

	if g.tx == nil {
		return run(ctx)
	}
	return g.tx.WithinTransaction(ctx, run)
}

// Detach bỏ con trỏ của mọi user đang trỏ vào nhóm (trước khi xóa nhóm)
func (g *GroupMembership) Detach(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return g.users.ClearGroupPointer(ctx, g.field, groupID)
}

// Forget bỏ user khỏi mọi nhóm cùng loại
func (g *GroupMembership) Forget(ctx context.Context, userID primitive.ObjectID) error {
	return g.members.RemoveMemberEverywhere(ctx, userID)
}

// GroupService là façade CRUD của một loại nhóm kèm thao tác thành viên
type GroupService[T any] struct {
	*BaseServiceMongoImpl[T]
	*GroupMembership
}

// NewGroupService tạo GroupService trên collection nhóm
func NewGroupService[T any](collection *mongo.Collection, users PointerStore, tx database.Transactor, field string) *GroupService[T] {
	return &GroupService[T]{
		BaseServiceMongoImpl: NewBaseServiceMongo[T](collection),
		GroupMembership:      NewGroupMembership(NewMongoMemberStore(collection), users, tx, field),
	}
}

// Remove xóa nhóm và gỡ con trỏ của các user đang thuộc nhóm; false nếu không tồn tại
func (s *GroupService[T]) Remove(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := s.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	if _, err := s.Detach(ctx, id); err != nil {
		return true, err
	}
	return true, nil
}
