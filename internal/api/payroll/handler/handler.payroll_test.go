package payrollhdl

import (
	"context"
	"net/url"
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
	payrollsvc "bearh/internal/api/payroll/service"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/global"
)

type fakeUsers map[primitive.ObjectID]*authmodels.User

func (f fakeUsers) FindActiveUser(_ context.Context, id primitive.ObjectID) (*authmodels.User, error) {
	return f[id], nil
}

func newPayrollApp(mt *mtest.T, users fakeUsers, perms ...string) *fiber.App {
	global.InitValidator()
	h := NewPayrollHandler(payrollsvc.NewPayrollServiceWith(mt.Coll, users))
	auth := handlertest.NewHeaderAuth(perms...)
	app := fiber.New()
	app.Post("/payrolls/actions", h.Actions().Handler("payrolls", auth))
	app.Get("/payrolls", basehdl.Loader(auth, authz.Permission("Payroll.Read"), h.List))
	return app
}

func TestPayrollActions_Generate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()
	users := fakeUsers{userID: {ID: userID, BaseSalary: 1000, IsActive: true}}
	actor := primitive.NewObjectID().Hex()

	mt.Run("stored net pay returned", func(mt *mtest.T) {
		app := newPayrollApp(mt, users, "Payroll.Generate")
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: bson.D{
			{Key: "user", Value: userID}, {Key: "period", Value: "2026-04"},
			{Key: "baseSalary", Value: 1000.0}, {Key: "prime", Value: 500.0}, {Key: "deductions", Value: 100.0}, {Key: "netPay", Value: 1400.0},
		}}})

		resp := handlertest.PostForm(t, app, "/payrolls/actions", actor, url.Values{
			"_action": {"generate"}, "user": {userID.Hex()}, "period": {"2026-04"}, "deductions": {"100"},
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := handlertest.JSON(t, resp)
		payroll, ok := body["payroll"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 1400.0, payroll["netPay"])
		assert.Equal(t, 500.0, payroll["prime"])
	})

	mt.Run("negative deductions", func(mt *mtest.T) {
		app := newPayrollApp(mt, users, "Payroll.Generate")

		resp := handlertest.PostForm(t, app, "/payrolls/actions", actor, url.Values{
			"_action": {"generate"}, "user": {userID.Hex()}, "period": {"2026-04"}, "deductions": {"-5"},
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, handlertest.JSON(t, resp)["fields"], "deductions")
		assert.Nil(t, mt.GetStartedEvent())
	})

	mt.Run("inactive user", func(mt *mtest.T) {
		app := newPayrollApp(mt, users, "Payroll.Generate")

		resp := handlertest.PostForm(t, app, "/payrolls/actions", actor, url.Values{
			"_action": {"generate"}, "user": {primitive.NewObjectID().Hex()}, "period": {"2026-04"},
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, common.ErrUserNotFound.Error(), handlertest.JSON(t, resp)["error"])
	})
}

func TestPayrollList_FiltersByPeriod(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()

	mt.Run("period filter", func(mt *mtest.T) {
		app := newPayrollApp(mt, fakeUsers{}, "Payroll.Read")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bearh.payrolls", mtest.FirstBatch,
			bson.D{{Key: "user", Value: userID}, {Key: "period", Value: "2026-04"}, {Key: "netPay", Value: 1400.0}}))

		resp := handlertest.Get(t, app, "/payrolls?user="+userID.Hex()+"&period=2026-04", primitive.NewObjectID().Hex())
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		list, ok := handlertest.JSON(t, resp)["payrolls"].([]interface{})
		require.True(t, ok)
		assert.Len(t, list, 1)

		evt := mt.GetStartedEvent()
		require.NotNil(t, evt)
		assert.Equal(t, "2026-04", evt.Command.Lookup("filter", "period").StringValue())
		assert.Equal(t, userID, evt.Command.Lookup("filter", "user").ObjectID())
	})

	mt.Run("needs read permission", func(mt *mtest.T) {
		app := newPayrollApp(mt, fakeUsers{}, "Payroll.Generate")
		resp := handlertest.Get(t, app, "/payrolls?user="+userID.Hex(), primitive.NewObjectID().Hex())
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
