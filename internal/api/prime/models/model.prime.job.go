package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trạng thái của PrimeCronJob
const (
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
	JobStatusAbandoned  = "abandoned" // in-progress quá một chu kỳ không có heartbeat
)

// JobLock là giá trị cố định của field lock; index unique partial trên
// {lock} với status = in-progress ngăn hai lần chạy chồng nhau.
const JobLock = "prime"

// JobError là lỗi khi tính thưởng cho một user
type JobError struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Error  string             `json:"error" bson:"error"`
}

// PrimeCronJob là bản ghi tiến độ một lần chạy job tính thưởng (prime_cron_jobs).
// remainingUsers chỉ giảm, completedUsers chỉ tăng; mỗi lần chuyển là một update nguyên tử.
type PrimeCronJob struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	JobID          string               `json:"jobId" bson:"jobId" index:"unique"`
	Lock           string               `json:"-" bson:"lock"`
	Trigger        string               `json:"trigger" bson:"trigger"` // "schedule" hoặc "manual"
	Status         string               `json:"status" bson:"status" index:"single:1"`
	Period         string               `json:"period" bson:"period"`
	WindowStart    int64                `json:"windowStart" bson:"windowStart"`
	WindowEnd      int64                `json:"windowEnd" bson:"windowEnd"`
	StartDate      int64                `json:"startDate" bson:"startDate" index:"single:-1"`
	EndDate        int64                `json:"endDate,omitempty" bson:"endDate,omitempty"`
	HeartbeatAt    int64                `json:"heartbeatAt" bson:"heartbeatAt"`
	RemainingUsers []primitive.ObjectID `json:"remainingUsers" bson:"remainingUsers"`
	CompletedUsers []primitive.ObjectID `json:"completedUsers" bson:"completedUsers"`
	ErrorsDetails  []JobError           `json:"errorsDetails" bson:"errorsDetails"`
	AlertedAt      int64                `json:"alertedAt,omitempty" bson:"alertedAt,omitempty"`
	CreatedAt      int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64                `json:"updatedAt" bson:"updatedAt"`
}

// Partial cho biết job đã xong nhưng có user lỗi
func (j *PrimeCronJob) Partial() bool {
	return j.Status == JobStatusCompleted && len(j.ErrorsDetails) > 0
}
