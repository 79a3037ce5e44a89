package basehdl

import (
	"context"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bearh/internal/authz"
	"bearh/internal/common"
)

type testGroup struct {
	Name string `json:"name"`
}

type testGroupInput struct {
	Name string `form:"name" validate:"required"`
}

type fakeOps struct {
	members  map[primitive.ObjectID][]primitive.ObjectID
	assigned map[primitive.ObjectID]primitive.ObjectID
}

func (f *fakeOps) AddMember(_ context.Context, groupID, userID primitive.ObjectID) error {
	members, ok := f.members[groupID]
	if !ok {
		return common.ErrNotFound
	}
	for _, m := range members {
		if m == userID {
			return nil
		}
	}
	f.members[groupID] = append(members, userID)
	return nil
}

func (f *fakeOps) Assign(_ context.Context, groupID, userID primitive.ObjectID) error {
	if _, ok := f.members[groupID]; !ok {
		return common.ErrNotFound
	}
	f.assigned[userID] = groupID
	return nil
}

func (f *fakeOps) Remove(_ context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := f.members[id]
	delete(f.members, id)
	return ok, nil
}

func newGroupResource(ops *fakeOps) *GroupResource[testGroup, testGroupInput] {
	return &GroupResource[testGroup, testGroupInput]{
		Permission: "Department", Field: "department", Key: "department", ListKey: "departments",
		Ops: ops,
		Create: func(_ context.Context, in *testGroupInput) (*testGroup, error) {
			return &testGroup{Name: in.Name}, nil
		},
		Update: func(_ context.Context, _ primitive.ObjectID, in *testGroupInput) (*testGroup, error) {
			return &testGroup{Name: in.Name}, nil
		},
		List: func(_ context.Context, _ interface{}, _ *options.FindOptions) ([]testGroup, error) {
			return []testGroup{{Name: "RH"}}, nil
		},
	}
}

func TestGroupResource_AddMemberTwice(t *testing.T) {
	group, user := primitive.NewObjectID(), primitive.NewObjectID()
	ops := &fakeOps{members: map[primitive.ObjectID][]primitive.ObjectID{group: {}}, assigned: map[primitive.ObjectID]primitive.ObjectID{}}
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.AddMember")}
	app := newActionApp(auth, newGroupResource(ops).Actions())

	form := url.Values{"_action": {"addMember"}, "department": {group.Hex()}, "user": {user.Hex()}}
	for i := 0; i < 2; i++ {
		status, body := postAction(t, app, primitive.NewObjectID().Hex(), form)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["success"])
	}
	assert.Equal(t, []primitive.ObjectID{user}, ops.members[group])
}

func TestGroupResource_AssignRequiresUser(t *testing.T) {
	group := primitive.NewObjectID()
	ops := &fakeOps{members: map[primitive.ObjectID][]primitive.ObjectID{group: {}}, assigned: map[primitive.ObjectID]primitive.ObjectID{}}
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Assign")}
	app := newActionApp(auth, newGroupResource(ops).Actions())

	status, body := postAction(t, app, primitive.NewObjectID().Hex(),
		url.Values{"_action": {"assign"}, "department": {group.Hex()}})
	assert.Equal(t, fiber.StatusBadRequest, status)
	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "user")
	assert.Empty(t, ops.assigned)
}

func TestGroupResource_DeleteMissing(t *testing.T) {
	ops := &fakeOps{members: map[primitive.ObjectID][]primitive.ObjectID{}, assigned: map[primitive.ObjectID]primitive.ObjectID{}}
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Delete")}
	app := newActionApp(auth, newGroupResource(ops).Actions())

	status, body := postAction(t, app, primitive.NewObjectID().Hex(),
		url.Values{"_action": {"delete"}, "department": {primitive.NewObjectID().Hex()}})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, common.MsgNotFound, body["error"])
}

func TestGroupResource_PermissionPerAction(t *testing.T) {
	ops := &fakeOps{members: map[primitive.ObjectID][]primitive.ObjectID{}, assigned: map[primitive.ObjectID]primitive.ObjectID{}}
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Create")}
	app := newActionApp(auth, newGroupResource(ops).Actions())

	status, _ := postAction(t, app, primitive.NewObjectID().Hex(),
		url.Values{"_action": {"assign"}, "department": {primitive.NewObjectID().Hex()}, "user": {primitive.NewObjectID().Hex()}})
	assert.Equal(t, fiber.StatusForbidden, status)
}
