package kpihdl

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	authmodels "bearh/internal/api/auth/models"
	basehdl "bearh/internal/api/base/handler"
	"bearh/internal/api/base/handler/handlertest"
	kpisvc "bearh/internal/api/kpi/service"
	"bearh/internal/common"
	"bearh/internal/global"
)

type fakeUsers map[primitive.ObjectID]*authmodels.User

func (f fakeUsers) FindActiveUser(_ context.Context, id primitive.ObjectID) (*authmodels.User, error) {
	return f[id], nil
}

func newKpisApp(mt *mtest.T, auth basehdl.Authenticator, users fakeUsers) *fiber.App {
	global.InitValidator()
	h := NewKpiHandler(kpisvc.NewKpiFormServiceWith(mt.Coll), nil, users)
	app := fiber.New()
	app.Get("/kpis", basehdl.Loader(auth, ReadKpis, h.KpisForUser))
	return app
}

func formDoc(name string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "name", Value: name},
		{Key: "criteria", Value: bson.A{bson.D{{Key: "name", Value: "Qualité"}, {Key: "maxScore", Value: 10.0}}}},
	}
}

func TestKpisForUser_DirectAndThroughPosition(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID, positionID := primitive.NewObjectID(), primitive.NewObjectID()
	users := fakeUsers{userID: {ID: userID, Position: positionID, IsActive: true}}

	mt.Run("forms found", func(mt *mtest.T) {
		app := newKpisApp(mt, handlertest.NewHeaderAuth("KpiValue.Submit"), users)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bearh.kpi_forms", mtest.FirstBatch, formDoc("Commercial"), formDoc("Support")))

		resp := handlertest.Get(t, app, "/kpis?user="+userID.Hex(), primitive.NewObjectID().Hex())
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := handlertest.JSON(t, resp)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "2 formulaire(s) KPI trouvé(s)", body["message"])
		kpis, ok := body["kpis"].([]interface{})
		require.True(t, ok)
		assert.Len(t, kpis, 2)

		evt := mt.GetStartedEvent()
		require.NotNil(t, evt)
		or, err := evt.Command.LookupErr("filter", "$or")
		require.NoError(t, err)
		values, err := or.Array().Values()
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.Equal(t, userID, values[0].Document().Lookup("users").ObjectID())
		assert.Equal(t, positionID, values[1].Document().Lookup("positions").ObjectID())
	})

	mt.Run("no forms", func(mt *mtest.T) {
		app := newKpisApp(mt, handlertest.NewHeaderAuth("KpiForm.Read"), users)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bearh.kpi_forms", mtest.FirstBatch))

		body := handlertest.JSON(t, handlertest.Get(t, app, "/kpis?user="+userID.Hex(), primitive.NewObjectID().Hex()))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Aucun formulaire KPI pour cet utilisateur", body["message"])
		assert.Equal(t, []interface{}{}, body["kpis"])
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		app := newKpisApp(mt, handlertest.NewHeaderAuth("KpiForm.Read"), users)

		resp := handlertest.Get(t, app, "/kpis?user="+primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, common.ErrUserNotFound.Error(), handlertest.JSON(t, resp)["error"])
	})

	mt.Run("missing user parameter", func(mt *mtest.T) {
		app := newKpisApp(mt, handlertest.NewHeaderAuth("KpiForm.Read"), users)

		resp := handlertest.Get(t, app, "/kpis", primitive.NewObjectID().Hex())
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, handlertest.JSON(t, resp)["fields"], "user")
	})

	mt.Run("needs read or submit permission", func(mt *mtest.T) {
		app := newKpisApp(mt, handlertest.NewHeaderAuth("KpiValue.Read"), users)

		resp := handlertest.Get(t, app, "/kpis?user="+userID.Hex(), primitive.NewObjectID().Hex())
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
