// Package basehdl chứa các thành phần dùng chung cho handler: response JSON,
// ánh xạ lỗi, bind form và bộ điều phối action theo "_action".
package basehdl

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/logger"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// ActionSuccess trả về {success: true, ...payload}
func ActionSuccess(c fiber.Ctx, payload fiber.Map) error {
	body := fiber.Map{}
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	return JSONResponse(c, common.StatusOK, body)
}

// ActionFailure ánh xạ lỗi sang status và thông báo cho client.
// Chi tiết lỗi nội bộ chỉ được ghi log, không trả về client.
func ActionFailure(c fiber.Ctx, err error) error {
	status, body := failureBody(err)
	if status >= common.StatusInternalServerError || body["error"] == common.MsgInternalError {
		logger.WithRequest(c).WithError(err).Error("request failed")
	}
	return JSONResponse(c, status, body)
}

func failureBody(err error) (int, fiber.Map) {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		return common.StatusBadRequest, fiber.Map{
			"success": false,
			"error":   common.MsgValidationError,
			"fields":  verr.Fields,
		}
	}

	var cerr *common.Error
	if errors.As(err, &cerr) && cerr.StatusCode >= 400 && cerr.StatusCode < 500 {
		return cerr.StatusCode, fiber.Map{"success": false, "error": cerr.Message}
	}

	// Lỗi store hoặc lỗi không xác định: thông báo chung, status 400
	return common.StatusBadRequest, fiber.Map{"success": false, "error": common.MsgInternalError}
}

// BindForm đọc form body vào out rồi validate
func BindForm(c fiber.Ctx, out interface{}) error {
	if err := c.Bind().Form(out); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.ErrInvalidFormat.Error(), common.StatusBadRequest, err)
	}
	return global.ValidateStruct(out)
}

// BindQuery đọc query string vào out rồi validate
func BindQuery(c fiber.Ctx, out interface{}) error {
	if err := c.Bind().Query(out); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.ErrInvalidFormat.Error(), common.StatusBadRequest, err)
	}
	return global.ValidateStruct(out)
}
