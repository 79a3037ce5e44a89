package reporthdl

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "bearh/internal/api/auth/models"
	basehdl "bearh/internal/api/base/handler"
	"bearh/internal/api/base/handler/handlertest"
	reportsvc "bearh/internal/api/report/service"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/global"
)

type fakeRows struct {
	calls int
}

func (f *fakeRows) MonthlyRows(_ context.Context, _ primitive.ObjectID, from, to string) ([]reportsvc.Row, error) {
	f.calls++
	return []reportsvc.Row{
		{Period: from, HoursWorked: 151.5, TasksCompleted: 12, KpiRatios: []float64{0.8, 0.9}, Positive: 2},
		{Period: to, Negative: 1, LeaveDays: 2},
	}, nil
}

type fakeUsers map[primitive.ObjectID]*authmodels.User

func (f fakeUsers) FindActiveUser(_ context.Context, id primitive.ObjectID) (*authmodels.User, error) {
	return f[id], nil
}

func newExportApp(rows *fakeRows, users fakeUsers) *fiber.App {
	global.InitValidator()
	h := NewReportHandler(rows, users)
	app := fiber.New()
	app.Get("/reports/users/:id/export", basehdl.Guard(handlertest.NewHeaderAuth("Report.Export"), authz.Permission("Report.Export"), h.Export))
	return app
}

func TestExport_CSVAttachment(t *testing.T) {
	userID := primitive.NewObjectID()
	rows := &fakeRows{}
	app := newExportApp(rows, fakeUsers{userID: {ID: userID, LastName: "Lefèvre", IsActive: true}})

	resp := handlertest.Get(t, app, "/reports/users/"+userID.Hex()+"/export?from=2026-01&to=2026-02", primitive.NewObjectID().Hex())
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="rapport-lefevre-2026-01-2026-02.csv"`, resp.Header.Get(fiber.HeaderContentDisposition))

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, reportsvc.Header, records[0])
	assert.Equal(t, []string{"2026-01", "151.50", "12", "85.00%", "2", "0", "0.0"}, records[1])
	assert.Equal(t, []string{"2026-02", "0.00", "0", "0.00%", "0", "1", "2.0"}, records[2])
}

func TestExport_RangeValidation(t *testing.T) {
	userID := primitive.NewObjectID()
	cases := []struct {
		name, query, field string
	}{
		{"to before from", "from=2026-03&to=2026-01", "to"},
		{"span above limit", "from=0001-01&to=9999-12", "to"},
		{"missing from", "to=2026-01", "from"},
		{"bad format", "from=2026-1&to=2026-02", "from"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := &fakeRows{}
			app := newExportApp(rows, fakeUsers{userID: {ID: userID, LastName: "Martin", IsActive: true}})

			resp := handlertest.Get(t, app, "/reports/users/"+userID.Hex()+"/export?"+tc.query, primitive.NewObjectID().Hex())
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			body := handlertest.JSON(t, resp)
			assert.Equal(t, common.MsgValidationError, body["error"])
			assert.Contains(t, body["fields"], tc.field)
			assert.Equal(t, 0, rows.calls)
		})
	}
}

func TestExport_UnknownUser(t *testing.T) {
	rows := &fakeRows{}
	app := newExportApp(rows, fakeUsers{})

	resp := handlertest.Get(t, app, "/reports/users/"+primitive.NewObjectID().Hex()+"/export?from=2026-01&to=2026-02", primitive.NewObjectID().Hex())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, rows.calls)
}
