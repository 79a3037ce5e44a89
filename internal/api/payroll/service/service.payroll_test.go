package payrollsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	authmodels "bearh/internal/api/auth/models"
	payrolldto "bearh/internal/api/payroll/dto"
	"bearh/internal/common"
)

type fakeUsers map[primitive.ObjectID]*authmodels.User

func (f fakeUsers) FindActiveUser(_ context.Context, id primitive.ObjectID) (*authmodels.User, error) {
	return f[id], nil
}

// updateStages trả về các stage của update pipeline trong lệnh findAndModify vừa gửi
func updateStages(t *testing.T, mt *mtest.T) []bson.Raw {
	evt := mt.GetStartedEvent()
	require.NotNil(t, evt)
	require.Equal(t, "findAndModify", evt.CommandName)
	arr, ok := evt.Command.Lookup("update").ArrayOK()
	require.True(t, ok, "update must be a pipeline")
	values, err := arr.Values()
	require.NoError(t, err)
	stages := make([]bson.Raw, 0, len(values))
	for _, v := range values {
		stages = append(stages, bson.Raw(v.Document()))
	}
	return stages
}

func payrollReply(userID primitive.ObjectID, base, prime, deductions, net float64) bson.D {
	return bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: bson.D{
		{Key: "user", Value: userID}, {Key: "period", Value: "2026-09"},
		{Key: "baseSalary", Value: base}, {Key: "prime", Value: prime}, {Key: "deductions", Value: deductions}, {Key: "netPay", Value: net},
	}}}
}

func TestPayrollService_Generate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()
	users := fakeUsers{userID: {ID: userID, BaseSalary: 2000, IsActive: true}}

	mt.Run("net pay computed from stored prime", func(mt *mtest.T) {
		svc := NewPayrollServiceWith(mt.Coll, users)
		mt.AddMockResponses(payrollReply(userID, 2000, 600, 50, 2550))

		payroll, err := svc.Generate(context.Background(), &payrolldto.GenerateInput{User: userID.Hex(), Period: "2026-09", Deductions: 50})
		require.NoError(t, err)
		assert.Equal(t, 2550.0, payroll.NetPay)

		stages := updateStages(t, mt)
		require.Len(t, stages, 2)
		set := stages[0].Lookup("$set").Document()
		assert.Equal(t, 2000.0, set.Lookup("baseSalary", "$literal").Double())
		// prime không bị ghi đè: giữ giá trị đang lưu
		assert.Equal(t, "$prime", set.Lookup("prime", "$ifNull").Array().Index(0).Value().StringValue())
		_, err = stages[1].LookupErr("$set", "netPay", "$subtract")
		assert.NoError(t, err)
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		svc := NewPayrollServiceWith(mt.Coll, users)
		_, err := svc.Generate(context.Background(), &payrolldto.GenerateInput{User: primitive.NewObjectID().Hex(), Period: "2026-09"})
		assert.True(t, errors.Is(err, common.ErrUserNotFound))
	})
}

func TestPayrollService_SavePrimeRecomputesNetPay(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()

	mt.Run("prime after generate", func(mt *mtest.T) {
		svc := NewPayrollServiceWith(mt.Coll, fakeUsers{})
		mt.AddMockResponses(payrollReply(userID, 1000, 500, 0, 1500))

		require.NoError(t, svc.SavePrime(context.Background(), userID, "2026-09", 500, "job-1"))

		stages := updateStages(t, mt)
		require.Len(t, stages, 2)
		set := stages[0].Lookup("$set").Document()
		assert.Equal(t, 500.0, set.Lookup("prime", "$literal").Double())
		assert.Equal(t, "job-1", set.Lookup("primeJobId", "$literal").StringValue())
		assert.Equal(t, "$baseSalary", set.Lookup("baseSalary", "$ifNull").Array().Index(0).Value().StringValue())

		sub := stages[1].Lookup("$set", "netPay", "$subtract").Array()
		assert.Equal(t, "$deductions", sub.Index(1).Value().StringValue())
		add := sub.Index(0).Value().Document().Lookup("$add").Array()
		assert.Equal(t, "$baseSalary", add.Index(0).Value().StringValue())
		assert.Equal(t, "$prime", add.Index(1).Value().StringValue())
	})
}
