// package basesvc cung cấp các service cơ bản cho việc tương tác với MongoDB
package basesvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "bearh/internal/api/base/models"
	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/utility"
)

// UpdateData định nghĩa kiểu dữ liệu cho partial update
type UpdateData struct {
	Set         map[string]interface{} `bson:"$set,omitempty"`
	SetOnInsert map[string]interface{} `bson:"$setOnInsert,omitempty"`
	Unset       map[string]interface{} `bson:"$unset,omitempty"`
	Push        map[string]interface{} `bson:"$push,omitempty"`
	AddToSet    map[string]interface{} `bson:"$addToSet,omitempty"`
	Pull        map[string]interface{} `bson:"$pull,omitempty"`
}

// ToUpdateData chuyển đổi interface{} thành UpdateData.
// Map đã có operator ($set, $pull, ...) được giữ nguyên, map thường được bọc trong $set.
func ToUpdateData(data interface{}) (*UpdateData, error) {
	switch v := data.(type) {
	case *UpdateData:
		return v, nil
	case UpdateData:
		return &v, nil
	}

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return nil, err
	}

	hasOperator := false
	for key := range dataMap {
		if strings.HasPrefix(key, "$") {
			hasOperator = true
			break
		}
	}
	if !hasOperator {
		return &UpdateData{Set: dataMap}, nil
	}

	update := &UpdateData{}
	for key, value := range dataMap {
		m, err := utility.ToMap(value)
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		switch key {
		case "$set":
			update.Set = m
		case "$setOnInsert":
			update.SetOnInsert = m
		case "$unset":
			update.Unset = m
		case "$push":
			update.Push = m
		case "$addToSet":
			update.AddToSet = m
		case "$pull":
			update.Pull = m
		default:
			return nil, common.ErrInvalidFormat
		}
	}
	return update, nil
}

// stampUpdatedAt thêm updatedAt vào $set
func stampUpdatedAt(update *UpdateData) {
	if update.Set == nil {
		update.Set = make(map[string]interface{})
	}
	update.Set["updatedAt"] = time.Now().UnixMilli()
}

// ====================================
// INTERFACE VÀ STRUCT
// ====================================

// EntityService là façade CRUD mà handler và các job sử dụng.
// Không tìm thấy => nil / false, không phải lỗi; dữ liệu sai => *common.ValidationError.
type EntityService[T any] interface {
	CreateOne(ctx context.Context, data T) (*T, error)
	ReadOne(ctx context.Context, filter interface{}) (*T, error)
	ReadMany(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error)
	UpdateOneByID(ctx context.Context, id primitive.ObjectID, patch interface{}) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// BaseServiceMongoImpl triển khai các phương thức cơ bản trên một collection
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo tạo mới một BaseServiceMongoImpl
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// NewBaseServiceFromRegistry lấy collection từ registry theo tên
func NewBaseServiceFromRegistry[T any](collectionName string) (*BaseServiceMongoImpl[T], error) {
	coll, err := global.RegistryCollections.MustGet(collectionName)
	if err != nil {
		return nil, err
	}
	return NewBaseServiceMongo[T](coll), nil
}

// Collection trả về collection MongoDB
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// ====================================
// NHÓM 1: FAÇADE CRUD
// ====================================

// CreateOne validate rồi tạo mới bản ghi
func (s *BaseServiceMongoImpl[T]) CreateOne(ctx context.Context, data T) (*T, error) {
	if err := global.ValidateStruct(data); err != nil {
		return nil, err
	}
	created, err := s.InsertOne(ctx, data)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ReadOne tìm một bản ghi; không có => nil, nil
func (s *BaseServiceMongoImpl[T]) ReadOne(ctx context.Context, filter interface{}) (*T, error) {
	doc, err := s.FindOne(ctx, filter, nil)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadMany tìm danh sách bản ghi (luôn trả mảng, không nil)
func (s *BaseServiceMongoImpl[T]) ReadMany(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	return s.Find(ctx, filter, opts)
}

// UpdateOneByID áp dụng patch; không có => nil, nil
func (s *BaseServiceMongoImpl[T]) UpdateOneByID(ctx context.Context, id primitive.ObjectID, patch interface{}) (*T, error) {
	doc, err := s.UpdateById(ctx, id, patch)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete xóa theo id; trả về false nếu không tồn tại
func (s *BaseServiceMongoImpl[T]) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.DeleteById(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ====================================
// NHÓM 2: CÁC HÀM MONGODB
// ====================================

// InsertOne tạo mới một bản ghi, gắn createdAt/updatedAt (unix millis)
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	now := time.Now().UnixMilli()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return created, nil
}

// FindOne tìm một document theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var result T
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	if err := s.collection.FindOne(ctx, filter, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find tìm tất cả bản ghi theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindOneById tìm theo _id
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindManyByIds tìm theo danh sách _id
func (s *BaseServiceMongoImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// FindWithPagination tìm có phân trang (page bắt đầu từ 1)
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	if filter == nil {
		filter = bson.D{}
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if opts == nil {
		opts = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	opts.SetSkip((page - 1) * limit).SetLimit(limit)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(items, page, limit, total), nil
}

// FindOneAndUpdate cập nhật nguyên tử và trả về document sau cập nhật
func (s *BaseServiceMongoImpl[T]) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (T, error) {
	var result T

	updateData, err := ToUpdateData(update)
	if err != nil {
		return result, common.ErrInvalidFormat
	}
	stampUpdatedAt(updateData)

	if opts == nil {
		opts = options.FindOneAndUpdate()
	}
	opts.SetReturnDocument(options.After)

	if err := s.collection.FindOneAndUpdate(ctx, filter, updateData, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// UpdateById cập nhật theo _id
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, update interface{}) (T, error) {
	return s.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, nil)
}

// UpdateMany cập nhật nhiều document, trả về số document đã sửa
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	updateData, err := ToUpdateData(update)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	stampUpdatedAt(updateData)

	result, err := s.collection.UpdateMany(ctx, filter, updateData)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

// Upsert cập nhật hoặc tạo mới theo filter; createdAt chỉ gắn khi tạo mới
func (s *BaseServiceMongoImpl[T]) Upsert(ctx context.Context, filter interface{}, update interface{}) (T, error) {
	var zero T
	updateData, err := ToUpdateData(update)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	if updateData.SetOnInsert == nil {
		updateData.SetOnInsert = make(map[string]interface{})
	}
	updateData.SetOnInsert["createdAt"] = time.Now().UnixMilli()
	return s.FindOneAndUpdate(ctx, filter, updateData, options.FindOneAndUpdate().SetUpsert(true))
}

// DeleteById xóa theo _id
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountDocuments đếm document theo filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}
