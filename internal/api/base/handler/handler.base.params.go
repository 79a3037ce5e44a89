package basehdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bearh/internal/common"
	"bearh/internal/utility"
)

const msgInvalidID = "Identifiant invalide"

// FormObjectID đọc ObjectID từ field form; thiếu hoặc sai => ValidationError trên field đó
func FormObjectID(c fiber.Ctx, field string) (primitive.ObjectID, error) {
	return parseField(field, c.FormValue(field))
}

// QueryObjectID đọc ObjectID từ query string
func QueryObjectID(c fiber.Ctx, field string) (primitive.ObjectID, error) {
	return parseField(field, c.Query(field))
}

// ParamObjectID đọc ObjectID từ path param
func ParamObjectID(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	return parseField(name, c.Params(name))
}

func parseField(field, value string) (primitive.ObjectID, error) {
	if value == "" {
		return primitive.NilObjectID, common.NewValidationError(map[string]string{field: "Ce champ est obligatoire"})
	}
	id, err := utility.ParseObjectID(value)
	if err != nil {
		return primitive.NilObjectID, common.NewValidationError(map[string]string{field: msgInvalidID})
	}
	return id, nil
}

// FoundOr404 trả về ErrNotFound khi service báo không tìm thấy (nil hoặc false)
func FoundOr404(found bool) error {
	if !found {
		return common.ErrNotFound
	}
	return nil
}
