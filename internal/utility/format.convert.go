package utility

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bearh/internal/common"
)

// String2ObjectID chuyển chuỗi hex thành ObjectID, sai định dạng trả về NilObjectID
func String2ObjectID(id string) primitive.ObjectID {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID
	}
	return objectID
}

// ParseObjectID chuyển chuỗi hex thành ObjectID, sai định dạng trả về common.ErrInvalidID
func ParseObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, common.ErrInvalidID
	}
	return objectID, nil
}

// StringArray2ObjectIDArray chuyển mảng chuỗi thành mảng ObjectID, bỏ qua phần tử sai định dạng
func StringArray2ObjectIDArray(ids []string) []primitive.ObjectID {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid := String2ObjectID(id); !oid.IsZero() {
			objectIDs = append(objectIDs, oid)
		}
	}
	return objectIDs
}

// SplitCSV tách chuỗi "a, b,,c" thành ["a","b","c"]
func SplitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
