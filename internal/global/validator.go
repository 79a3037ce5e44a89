package global

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bearh/internal/common"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// InitValidator khởi tạo validator và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Tên field trong lỗi lấy theo tag form, query, rồi json
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "query", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("hhmm", validateHHMM)
	_ = Validate.RegisterValidation("objectid", validateObjectID)
}

// validateNoXSS chặn các pattern script phổ biến
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"eval(",
		"document.cookie",
		"<iframe",
		"<object",
		"<embed",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateHHMM kiểm tra giờ dạng HH:MM (24h)
func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

// validateObjectID kiểm tra chuỗi hex ObjectID; chuỗi rỗng do omitempty xử lý
func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

// ValidateStruct chạy validator và chuyển lỗi sang *common.ValidationError
func ValidateStruct(v interface{}) error {
	if Validate == nil {
		InitValidator()
	}
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return common.NewValidationError(fields)
}

// fieldMessage trả về thông báo lỗi tiếng Pháp theo tag
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_if":
		return "Ce champ est obligatoire"
	case "email":
		return "Adresse email invalide"
	case "min", "gte", "gt":
		return "Valeur trop petite (minimum " + fe.Param() + ")"
	case "max", "lte", "lt":
		return "Valeur trop grande (maximum " + fe.Param() + ")"
	case "oneof":
		return "Valeur non autorisée (attendu: " + fe.Param() + ")"
	case "no_xss":
		return "Contenu non autorisé"
	case "hhmm":
		return "Format HH:MM attendu"
	case "objectid":
		return "Identifiant invalide"
	default:
		return "Valeur invalide"
	}
}
