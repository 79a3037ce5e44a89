package authsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	authdto "bearh/internal/api/auth/dto"
	models "bearh/internal/api/auth/models"
	basesvc "bearh/internal/api/base/service"
	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/logger"
	"bearh/internal/utility"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	access *AccessService
}

// NewUserService tạo mới UserService
func NewUserService(access *AccessService) (*UserService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to get users collection: %w", err)
	}
	return NewUserServiceWith(coll, access), nil
}

// NewUserServiceWith tạo UserService trên collection cho trước
func NewUserServiceWith(coll *mongo.Collection, access *AccessService) *UserService {
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](coll),
		access:               access,
	}
}

// HashPassword băm mật khẩu bằng bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindActiveUser tìm user còn hoạt động; không có => nil, nil
func (s *UserService) FindActiveUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.ReadOne(ctx, bson.M{"_id": id, "isActive": true})
}

// Authenticate kiểm tra email + mật khẩu. Mọi trường hợp sai đều trả ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.ReadOne(ctx, bson.M{"email": normalizeEmail(email)})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || user.PasswordHash == "" {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// Create tạo nhân viên mới, kèm bản ghi quyền nếu có
func (s *UserService) Create(ctx context.Context, input *authdto.UserCreateInput) (*models.User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.CreateOne(ctx, models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Phone:        input.Phone,
		JobTitle:     input.JobTitle,
		BaseSalary:   input.BaseSalary,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	if perms := utility.SplitCSV(input.Permissions); len(perms) > 0 && s.access != nil {
		access, err := s.access.SetPermissions(ctx, user.ID, perms)
		if err != nil {
			return nil, err
		}
		if updated, err := s.UpdateOneByID(ctx, user.ID, bson.M{"access": access.ID}); err == nil && updated != nil {
			user = updated
		}
	}

	logger.WithModule("auth").WithFields(logrus.Fields{"user_id": user.ID.Hex()}).Info("user created")
	return user, nil
}

// Update cập nhật các field được gửi (field rỗng giữ nguyên); không có => nil, nil
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, input *authdto.UserUpdateInput) (*models.User, error) {
	set := map[string]interface{}{}
	if input.FirstName != "" {
		set["firstName"] = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		set["lastName"] = strings.TrimSpace(input.LastName)
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.JobTitle != "" {
		set["jobTitle"] = input.JobTitle
	}
	if input.IsActive != "" {
		set["isActive"] = input.IsActive == "true"
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}

// SetBaseSalary cập nhật lương cơ bản
func (s *UserService) SetBaseSalary(ctx context.Context, id primitive.ObjectID, amount float64) (*models.User, error) {
	if amount < 0 {
		return nil, common.NewValidationError(map[string]string{"baseSalary": "La valeur doit être supérieure ou égale à 0"})
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"baseSalary": amount}})
}

// Remove xóa user cùng bản ghi quyền; false nếu không tồn tại
func (s *UserService) Remove(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := s.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	if s.access != nil {
		if err := s.access.DeleteForUser(ctx, id); err != nil {
			return true, err
		}
	}
	return true, nil
}

// UserExists kiểm tra user tồn tại trước khi ghi vào members của một nhóm
func (s *UserService) UserExists(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	n, err := s.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetGroupPointer gán con trỏ nhóm (department, team, ...) của user; false nếu user không tồn tại
func (s *UserService) SetGroupPointer(ctx context.Context, userID primitive.ObjectID, field string, groupID primitive.ObjectID) (bool, error) {
	user, err := s.UpdateOneByID(ctx, userID, &basesvc.UpdateData{Set: map[string]interface{}{field: groupID}})
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// ClearGroupPointer bỏ con trỏ nhóm ở mọi user đang trỏ vào groupID (khi nhóm bị xóa)
func (s *UserService) ClearGroupPointer(ctx context.Context, field string, groupID primitive.ObjectID) (int64, error) {
	return s.UpdateMany(ctx, bson.M{field: groupID}, &basesvc.UpdateData{Unset: map[string]interface{}{field: ""}})
}

// ListActive trả về danh sách nhân viên đang hoạt động, sắp theo tên
func (s *UserService) ListActive(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})
	return s.ReadMany(ctx, bson.M{"isActive": true}, opts)
}
