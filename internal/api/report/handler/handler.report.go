// Package reporthdl - handler xuất báo cáo CSV.
package reporthdl

import (
	"bytes"
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "bearh/internal/api/auth/models"
	basehdl "bearh/internal/api/base/handler"
	reportdto "bearh/internal/api/report/dto"
	reportsvc "bearh/internal/api/report/service"
	"bearh/internal/common"
	"bearh/internal/logger"
)

// UserReader đọc user cần xuất báo cáo
type UserReader interface {
	FindActiveUser(ctx context.Context, id primitive.ObjectID) (*authmodels.User, error)
}

// RowSource dựng các dòng báo cáo tháng (ReportService)
type RowSource interface {
	MonthlyRows(ctx context.Context, userID primitive.ObjectID, from, to string) ([]reportsvc.Row, error)
}

// ReportHandler xử lý route báo cáo
type ReportHandler struct {
	reports RowSource
	users   UserReader
}

// NewReportHandler tạo ReportHandler
func NewReportHandler(reports RowSource, users UserReader) *ReportHandler {
	return &ReportHandler{reports: reports, users: users}
}

// Export trả file CSV báo cáo tháng của user /:id trong khoảng ?from= ?to=
func (h *ReportHandler) Export(c fiber.Ctx) error {
	userID, err := basehdl.ParamObjectID(c, "id")
	if err != nil {
		return basehdl.ActionFailure(c, err)
	}
	var query reportdto.ExportQuery
	if err := basehdl.BindQuery(c, &query); err != nil {
		return basehdl.ActionFailure(c, err)
	}
	if err := reportsvc.ValidateRange(query.From, query.To); err != nil {
		return basehdl.ActionFailure(c, err)
	}

	user, err := h.users.FindActiveUser(c.Context(), userID)
	if err != nil {
		return basehdl.ActionFailure(c, err)
	}
	if user == nil {
		return basehdl.ActionFailure(c, common.ErrUserNotFound)
	}

	rows, err := h.reports.MonthlyRows(c.Context(), userID, query.From, query.To)
	if err != nil {
		return basehdl.ActionFailure(c, err)
	}
	var buf bytes.Buffer
	if err := reportsvc.WriteCSV(&buf, rows); err != nil {
		return basehdl.ActionFailure(c, err)
	}

	p := basehdl.PrincipalFrom(c)
	logger.Audit(c, p.ID().Hex(), "report", "export", "success")

	c.Attachment(reportsvc.Filename(user.LastName, query.From, query.To))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
