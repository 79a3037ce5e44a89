package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusNoContent = 204 // Không có nội dung

	StatusBadRequest          = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized        = 401 // Chưa xác thực
	StatusForbidden           = 403 // Không có quyền truy cập
	StatusNotFound            = 404 // Không tìm thấy tài nguyên
	StatusConflict            = 409 // Xung đột dữ liệu
	StatusTooManyRequests     = 429 // Quá nhiều yêu cầu
	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Thông báo trả về cho client (tiếng Pháp - ngôn ngữ của giao diện)
const (
	MsgSuccess            = "Opération réussie"
	MsgCreated            = "Création réussie"
	MsgUpdated            = "Mise à jour réussie"
	MsgDeleted            = "Suppression réussie"
	MsgBadRequest         = "Requête invalide"
	MsgUnauthorized       = "Authentification requise"
	MsgForbidden          = "Accès refusé"
	MsgNotFound           = "Ressource introuvable"
	MsgConflict           = "Conflit de données"
	MsgTooManyRequests    = "Trop de requêtes, veuillez réessayer plus tard"
	MsgInternalError      = "Une erreur est survenue, veuillez réessayer"
	MsgValidationError    = "Données invalides"
	MsgActionNotSupported = "Action not supported"
	MsgInvalidCredentials = "Email ou mot de passe incorrect"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: AUTH_001)
	Category    string // Phân loại lỗi
	SubCategory string // Phân loại con
	Description string // Mô tả chi tiết
}

// Các mã lỗi theo hệ thống phân cấp
var (
	ErrCodeInternalServer = ErrorCode{Code: "SYS_001", Category: "System", SubCategory: "Internal", Description: "Lỗi hệ thống nội bộ"}

	ErrCodeAuthSession     = ErrorCode{Code: "AUTH_001", Category: "Authentication", SubCategory: "Session", Description: "Thiếu hoặc sai phiên đăng nhập"}
	ErrCodeAuthCredentials = ErrorCode{Code: "AUTH_002", Category: "Authentication", SubCategory: "Credentials", Description: "Sai thông tin đăng nhập"}
	ErrCodeAuthPermission  = ErrorCode{Code: "AUTH_003", Category: "Authentication", SubCategory: "Permission", Description: "Không đủ quyền"}

	ErrCodeValidationInput  = ErrorCode{Code: "VAL_001", Category: "Validation", SubCategory: "Input", Description: "Lỗi dữ liệu đầu vào"}
	ErrCodeValidationFormat = ErrorCode{Code: "VAL_002", Category: "Validation", SubCategory: "Format", Description: "Lỗi định dạng dữ liệu"}
	ErrCodeValidationAction = ErrorCode{Code: "VAL_003", Category: "Validation", SubCategory: "Action", Description: "_action không được hỗ trợ"}

	ErrCodeDatabase           = ErrorCode{Code: "DB", Category: "Database", SubCategory: "General", Description: "Lỗi cơ sở dữ liệu chung"}
	ErrCodeDatabaseConnection = ErrorCode{Code: "DB_001", Category: "Database", SubCategory: "Connection", Description: "Lỗi kết nối cơ sở dữ liệu"}
	ErrCodeDatabaseQuery      = ErrorCode{Code: "DB_002", Category: "Database", SubCategory: "Query", Description: "Lỗi truy vấn dữ liệu"}

	ErrCodeBusinessState     = ErrorCode{Code: "BIZ_001", Category: "Business", SubCategory: "State", Description: "Lỗi trạng thái nghiệp vụ"}
	ErrCodeBusinessOperation = ErrorCode{Code: "BIZ_002", Category: "Business", SubCategory: "Operation", Description: "Lỗi thao tác nghiệp vụ"}
	ErrCodeBusinessSchedule  = ErrorCode{Code: "BIZ_003", Category: "Business", SubCategory: "Schedule", Description: "Lỗi cấu hình lịch chạy"}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is so sánh theo mã lỗi và message, cho phép errors.Is với các lỗi khai báo sẵn
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// Unwrap trả về lỗi gốc nếu Details là error
func (e *Error) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Các lỗi dùng chung
var (
	ErrAuthenticationRequired = NewError(ErrCodeAuthSession, MsgUnauthorized, StatusUnauthorized, nil)
	ErrInvalidCredentials     = NewError(ErrCodeAuthCredentials, MsgInvalidCredentials, StatusUnauthorized, nil)
	ErrAuthorizationDenied    = NewError(ErrCodeAuthPermission, MsgForbidden, StatusForbidden, nil)
	ErrUserNotFound           = NewError(ErrCodeAuthCredentials, "Utilisateur introuvable", StatusNotFound, nil)

	ErrUnsupportedAction = NewError(ErrCodeValidationAction, MsgActionNotSupported, StatusBadRequest, nil)
	ErrInvalidInput      = NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, nil)
	ErrInvalidFormat     = NewError(ErrCodeValidationFormat, "Format de données invalide", StatusBadRequest, nil)
	ErrInvalidID         = NewError(ErrCodeValidationFormat, "Identifiant invalide", StatusBadRequest, nil)

	ErrNotFound    = NewError(ErrCodeDatabaseQuery, MsgNotFound, StatusNotFound, nil)
	ErrDuplicate   = NewError(ErrCodeDatabaseQuery, "Cette donnée existe déjà", StatusConflict, nil)
	ErrConnection  = NewError(ErrCodeDatabaseConnection, "Base de données indisponible", StatusServiceUnavailable, nil)
	ErrTransaction = NewError(ErrCodeDatabaseQuery, "Échec de la transaction", StatusInternalServerError, nil)

	ErrJobAlreadyRunning    = NewError(ErrCodeBusinessState, "Un calcul des primes est déjà en cours", StatusConflict, nil)
	ErrUnsupportedFrequency = NewError(ErrCodeBusinessSchedule, "Fréquence de calcul non prise en charge", StatusBadRequest, nil)
	ErrInvalidSchedule      = NewError(ErrCodeBusinessSchedule, "Planification de calcul invalide", StatusBadRequest, nil)
)

// ValidationError chứa lỗi theo từng field, trả về 400 kèm "fields"
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError tạo ValidationError từ map field -> message
func NewValidationError(fields map[string]string) *ValidationError {
	if fields == nil {
		fields = map[string]string{}
	}
	return &ValidationError{Fields: fields}
}

// Error liệt kê các field lỗi theo thứ tự ổn định
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is cho phép errors.Is(err, ErrInvalidInput)
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StatusOf trả về HTTP status phù hợp với lỗi
func StatusOf(err error) int {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return StatusBadRequest
	}
	var cerr *Error
	if errors.As(err, &cerr) && cerr.StatusCode > 0 {
		return cerr.StatusCode
	}
	return StatusInternalServerError
}

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var cerr *Error
	if errors.As(err, &cerr) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return NewError(ErrCodeDatabaseQuery, ErrDuplicate.Error(), StatusConflict, err)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, ErrConnection.Error(), StatusServiceUnavailable, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewError(ErrCodeDatabaseQuery, "Erreur de requête en base de données", StatusInternalServerError, err)
	}

	return NewError(ErrCodeDatabase, "Erreur de base de données", StatusInternalServerError, err)
}

// IsDuplicate kiểm tra lỗi trùng khóa (đã hoặc chưa convert)
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.StatusCode == StatusConflict && cerr.Code.Code == ErrCodeDatabaseQuery.Code
	}
	return false
}
