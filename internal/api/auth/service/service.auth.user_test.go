package authsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserService_UserExists(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing user", func(mt *mtest.T) {
		svc := NewUserServiceWith(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bearh.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))

		ok, err := svc.UserExists(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		svc := NewUserServiceWith(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bearh.users", mtest.FirstBatch))

		ok, err := svc.UserExists(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
