package basesvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"bearh/internal/common"
	"bearh/internal/database"
)

type fakeMembers struct {
	groups map[primitive.ObjectID][]primitive.ObjectID
	err    error
}

func newFakeMembers(groups ...primitive.ObjectID) *fakeMembers {
	f := &fakeMembers{groups: map[primitive.ObjectID][]primitive.ObjectID{}}
	for _, g := range groups {
		f.groups[g] = []primitive.ObjectID{}
	}
	return f
}

func (f *fakeMembers) AddMember(_ context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	members, ok := f.groups[groupID]
	if !ok {
		return false, nil
	}
	for _, m := range members {
		if m == userID {
			return true, nil
		}
	}
	f.groups[groupID] = append(members, userID)
	return true, nil
}

func (f *fakeMembers) RemoveMemberFromOthers(_ context.Context, keep, userID primitive.ObjectID) error {
	for g := range f.groups {
		if g != keep {
			f.groups[g] = without(f.groups[g], userID)
		}
	}
	return nil
}

func (f *fakeMembers) RemoveMemberEverywhere(_ context.Context, userID primitive.ObjectID) error {
	for g := range f.groups {
		f.groups[g] = without(f.groups[g], userID)
	}
	return nil
}

func without(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

type fakePointers struct {
	users map[primitive.ObjectID]map[string]primitive.ObjectID
}

func newFakePointers(users ...primitive.ObjectID) *fakePointers {
	f := &fakePointers{users: map[primitive.ObjectID]map[string]primitive.ObjectID{}}
	for _, u := range users {
		f.users[u] = map[string]primitive.ObjectID{}
	}
	return f
}

func (f *fakePointers) UserExists(_ context.Context, userID primitive.ObjectID) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakePointers) SetGroupPointer(_ context.Context, userID primitive.ObjectID, field string, groupID primitive.ObjectID) (bool, error) {
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	u[field] = groupID
	return true, nil
}

func (f *fakePointers) ClearGroupPointer(_ context.Context, field string, groupID primitive.ObjectID) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u[field] == groupID {
			delete(u, field)
			n++
		}
	}
	return n, nil
}

func TestGroupMembership_AddMemberIdempotent(t *testing.T) {
	group, user := primitive.NewObjectID(), primitive.NewObjectID()
	members := newFakeMembers(group)
	g := NewGroupMembership(members, newFakePointers(user), nil, "department")

	require.NoError(t, g.AddMember(context.Background(), group, user))
	first := append([]primitive.ObjectID(nil), members.groups[group]...)
	require.NoError(t, g.AddMember(context.Background(), group, user))

	assert.Equal(t, first, members.groups[group])
	assert.Len(t, members.groups[group], 1)
}

func TestGroupMembership_AddMemberUnknownGroup(t *testing.T) {
	g := NewGroupMembership(newFakeMembers(), newFakePointers(), nil, "team")
	err := g.AddMember(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGroupMembership_AssignRoundTrip(t *testing.T) {
	oldGroup, newGroup, user := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	members := newFakeMembers(oldGroup, newGroup)
	pointers := newFakePointers(user)
	g := NewGroupMembership(members, pointers, database.NewMongoTransactor(nil, false), "bonusCategory")

	require.NoError(t, g.Assign(context.Background(), oldGroup, user))
	require.NoError(t, g.Assign(context.Background(), newGroup, user))

	assert.Equal(t, newGroup, pointers.users[user]["bonusCategory"])
	assert.Contains(t, members.groups[newGroup], user)
	assert.NotContains(t, members.groups[oldGroup], user)
}

func TestGroupMembership_AssignMissingUser(t *testing.T) {
	group, member := primitive.NewObjectID(), primitive.NewObjectID()
	members := newFakeMembers(group)
	g := NewGroupMembership(members, newFakePointers(member), nil, "position")
	require.NoError(t, g.Assign(context.Background(), group, member))

	err := g.Assign(context.Background(), group, primitive.NewObjectID())
	assert.True(t, errors.Is(err, common.ErrUserNotFound))
	assert.Equal(t, []primitive.ObjectID{member}, members.groups[group])
}

func TestGroupMembership_AddMemberMissingUser(t *testing.T) {
	group := primitive.NewObjectID()
	members := newFakeMembers(group)
	g := NewGroupMembership(members, newFakePointers(), nil, "department")

	err := g.AddMember(context.Background(), group, primitive.NewObjectID())
	assert.True(t, errors.Is(err, common.ErrUserNotFound))
	assert.Empty(t, members.groups[group])
}

func TestGroupMembership_AssignMissingGroupLeavesUserUntouched(t *testing.T) {
	user := primitive.NewObjectID()
	pointers := newFakePointers(user)
	g := NewGroupMembership(newFakeMembers(), pointers, nil, "hourGroup")

	err := g.Assign(context.Background(), primitive.NewObjectID(), user)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Empty(t, pointers.users[user])
}

func TestGroupMembership_DetachAndForget(t *testing.T) {
	group, user := primitive.NewObjectID(), primitive.NewObjectID()
	members := newFakeMembers(group)
	pointers := newFakePointers(user)
	g := NewGroupMembership(members, pointers, nil, "team")
	require.NoError(t, g.Assign(context.Background(), group, user))

	n, err := g.Detach(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, pointers.users[user])

	require.NoError(t, g.Forget(context.Background(), user))
	assert.Empty(t, members.groups[group])
}

func TestMongoMemberStore_AddMember(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched group", func(mt *mtest.T) {
		store := NewMongoMemberStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))

		found, err := store.AddMember(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.True(t, found)
	})

	mt.Run("missing group", func(mt *mtest.T) {
		store := NewMongoMemberStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		found, err := store.AddMember(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.False(t, found)
	})
}
