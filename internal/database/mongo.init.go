package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bearh/internal/logger"
)

// EnsureCollections tạo các collection còn thiếu trong database.
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range names {
		if name == "" || have[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s does not exist, creating", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	logger.GetAppLogger().Infof("Collections are ensured in database: %s", db.Name())
	return nil
}

// IndexSpec mô tả một index sinh ra từ struct tag
type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
}

// parseIndexTag tách tag index: các nhóm phân cách bởi ';', thuộc tính bởi ','
func parseIndexTag(tag string) []map[string]string {
	result := []map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			kv := strings.SplitN(strings.TrimSpace(sub), ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else if kv[0] != "" {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}
	return result
}

func order(value string) int {
	if value == "-1" {
		return -1
	}
	return 1
}

// IndexSpecsFromModel đọc tag `index` của model.
// Hỗ trợ: "single:1|-1", "unique", "unique,sparse", "compound:<tên>" (tên chứa "_unique" => unique).
func IndexSpecsFromModel(model interface{}) []IndexSpec {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []IndexSpec
	compounds := map[string]*IndexSpec{}
	var compoundOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := strings.SplitN(field.Tag.Get("bson"), ",", 2)[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, cfg := range parseIndexTag(tag) {
			if v, ok := cfg["single"]; ok {
				specs = append(specs, IndexSpec{Name: bsonField + "_single", Keys: bson.D{{Key: bsonField, Value: order(v)}}})
			}
			if _, ok := cfg["unique"]; ok {
				_, sparse := cfg["sparse"]
				specs = append(specs, IndexSpec{Name: bsonField + "_unique", Keys: bson.D{{Key: bsonField, Value: 1}}, Unique: true, Sparse: sparse})
			}
			if group, ok := cfg["compound"]; ok {
				spec, exists := compounds[group]
				if !exists {
					spec = &IndexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compounds[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: bsonField, Value: order(cfg["order"])})
			}
		}
	}

	for _, group := range compoundOrder {
		specs = append(specs, *compounds[group])
	}
	return specs
}

// CreateIndexes tạo các index khai báo trong model; index đã có cùng tên được bỏ qua.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("cannot list indexes of %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	existing := map[string]bool{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			return fmt.Errorf("cannot decode index info: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			existing[name] = true
		}
	}

	for _, spec := range IndexSpecsFromModel(model) {
		if existing[spec.Name] {
			continue
		}
		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts.SetUnique(true)
		}
		if spec.Sparse {
			opts.SetSparse(true)
		}
		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: opts}); err != nil {
			return fmt.Errorf("cannot create index %s on %s: %w", spec.Name, collection.Name(), err)
		}
		logger.WithFields(map[string]interface{}{
			"collection": collection.Name(),
			"index":      spec.Name,
		}).Info("Index created")
	}
	return nil
}
