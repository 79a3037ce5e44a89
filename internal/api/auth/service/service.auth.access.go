// Package authsvc - service người dùng và quyền truy cập.
package authsvc

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "bearh/internal/api/auth/models"
	basesvc "bearh/internal/api/base/service"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/global"
)

// AccessService quản lý danh sách quyền của từng user (hr_access)
type AccessService struct {
	*basesvc.BaseServiceMongoImpl[models.Access]
	catalogue *authz.Catalogue
}

// NewAccessService tạo AccessService từ registry
func NewAccessService() (*AccessService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Access)
	if err != nil {
		return nil, fmt.Errorf("failed to get access collection: %w", err)
	}
	return NewAccessServiceWith(coll)
}

// NewAccessServiceWith tạo AccessService trên collection cho trước
func NewAccessServiceWith(coll *mongo.Collection) (*AccessService, error) {
	catalogue, err := authz.DefaultCatalogue()
	if err != nil {
		return nil, err
	}
	return &AccessService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Access](coll),
		catalogue:            catalogue,
	}, nil
}

// PermissionsForUser đọc tập quyền hiện tại của user; chưa có bản ghi => tập rỗng
func (s *AccessService) PermissionsForUser(ctx context.Context, userID primitive.ObjectID) (authz.PermissionSet, error) {
	access, err := s.ReadOne(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	if access == nil {
		return authz.NewPermissionSet(), nil
	}
	return authz.NewPermissionSet(access.Permissions...), nil
}

// SetPermissions thay toàn bộ quyền của user. Token ngoài danh mục => ValidationError.
func (s *AccessService) SetPermissions(ctx context.Context, userID primitive.ObjectID, tokens []string) (*models.Access, error) {
	perms := normalizeTokens(tokens)
	if unknown := s.catalogue.Unknown(perms); len(unknown) > 0 {
		return nil, common.NewValidationError(map[string]string{
			"permissions": "Permissions inconnues : " + strings.Join(unknown, ", "),
		})
	}

	access, err := s.Upsert(ctx, bson.M{"user": userID}, &basesvc.UpdateData{
		Set: map[string]interface{}{"permissions": perms},
	})
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// DeleteForUser xóa bản ghi quyền của user
func (s *AccessService) DeleteForUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.Collection().DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// Catalogue trả về danh mục quyền đang dùng
func (s *AccessService) Catalogue() *authz.Catalogue {
	return s.catalogue
}

// normalizeTokens bỏ khoảng trắng, token rỗng, trùng lặp và sắp xếp
func normalizeTokens(tokens []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
