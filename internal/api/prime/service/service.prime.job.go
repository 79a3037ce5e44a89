package primesvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "bearh/internal/api/base/models"
	basesvc "bearh/internal/api/base/service"
	models "bearh/internal/api/prime/models"
	"bearh/internal/common"
	"bearh/internal/global"
)

// errJobNotRunning: bản ghi không còn in-progress (đã bị đánh dấu abandoned) hoặc user không còn trong remainingUsers
var errJobNotRunning = errors.New("prime job is no longer in progress")

// PrimeJobService lưu bản ghi tiến độ job tính thưởng (prime_cron_jobs)
type PrimeJobService struct {
	*basesvc.BaseServiceMongoImpl[models.PrimeCronJob]
	now func() time.Time
}

// NewPrimeJobService tạo PrimeJobService từ registry
func NewPrimeJobService() (*PrimeJobService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.PrimeCronJobs)
	if err != nil {
		return nil, fmt.Errorf("failed to get prime jobs collection: %w", err)
	}
	return NewPrimeJobServiceWith(coll), nil
}

// NewPrimeJobServiceWith tạo PrimeJobService trên collection cho trước
func NewPrimeJobServiceWith(coll *mongo.Collection) *PrimeJobService {
	return &PrimeJobService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.PrimeCronJob](coll), now: time.Now}
}

// LockIndex là index unique partial đảm bảo tối đa một job in-progress
func LockIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "lock", Value: 1}},
		Options: options.Index().
			SetName("lock_in_progress_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.JobStatusInProgress}),
	}
}

// Start tạo bản ghi in-progress; vi phạm index lock => ErrJobAlreadyRunning
func (s *PrimeJobService) Start(ctx context.Context, job *models.PrimeCronJob) error {
	created, err := s.InsertOne(ctx, *job)
	if err != nil {
		if common.IsDuplicate(err) {
			return common.ErrJobAlreadyRunning
		}
		return err
	}
	*job = created
	return nil
}

// move là một update nguyên tử: chỉ khớp khi job còn in-progress và user còn trong remainingUsers
func (s *PrimeJobService) move(ctx context.Context, jobID string, userID primitive.ObjectID, update *basesvc.UpdateData) error {
	now := s.now().UnixMilli()
	if update.Set == nil {
		update.Set = map[string]interface{}{}
	}
	update.Set["heartbeatAt"] = now
	update.Set["updatedAt"] = now
	update.Pull = map[string]interface{}{"remainingUsers": userID}

	result, err := s.Collection().UpdateOne(ctx, bson.M{
		"jobId":          jobID,
		"status":         models.JobStatusInProgress,
		"remainingUsers": userID,
	}, update)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: job %s user %s", errJobNotRunning, jobID, userID.Hex())
	}
	return nil
}

// Complete chuyển user từ remainingUsers sang completedUsers
func (s *PrimeJobService) Complete(ctx context.Context, jobID string, userID primitive.ObjectID) error {
	return s.move(ctx, jobID, userID, &basesvc.UpdateData{
		AddToSet: map[string]interface{}{"completedUsers": userID},
	})
}

// Fail chuyển user từ remainingUsers sang errorsDetails
func (s *PrimeJobService) Fail(ctx context.Context, jobID string, userID primitive.ObjectID, reason string) error {
	return s.move(ctx, jobID, userID, &basesvc.UpdateData{
		Push: map[string]interface{}{"errorsDetails": models.JobError{UserID: userID, Error: reason}},
	})
}

// Finish đóng job khi remainingUsers rỗng
func (s *PrimeJobService) Finish(ctx context.Context, jobID string) (*models.PrimeCronJob, error) {
	now := s.now().UnixMilli()
	job, err := s.FindOneAndUpdate(ctx, bson.M{
		"jobId":          jobID,
		"status":         models.JobStatusInProgress,
		"remainingUsers": bson.M{"$size": 0},
	}, &basesvc.UpdateData{Set: map[string]interface{}{
		"status":      models.JobStatusCompleted,
		"endDate":     now,
		"heartbeatAt": now,
	}}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: job %s", errJobNotRunning, jobID)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// AbandonStale đánh dấu abandoned các job in-progress không có heartbeat từ trước cutoff
func (s *PrimeJobService) AbandonStale(ctx context.Context, cutoff time.Time) ([]models.PrimeCronJob, error) {
	filter := bson.M{
		"status":      models.JobStatusInProgress,
		"heartbeatAt": bson.M{"$lt": cutoff.UnixMilli()},
	}
	stale, err := s.ReadMany(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	out := make([]models.PrimeCronJob, 0, len(stale))
	for _, job := range stale {
		updated, err := s.FindOneAndUpdate(ctx, bson.M{
			"_id":         job.ID,
			"status":      models.JobStatusInProgress,
			"heartbeatAt": job.HeartbeatAt,
		}, &basesvc.UpdateData{Set: map[string]interface{}{
			"status":  models.JobStatusAbandoned,
			"endDate": s.now().UnixMilli(),
		}}, nil)
		if errors.Is(err, common.ErrNotFound) {
			continue // job vừa có heartbeat mới
		}
		if err != nil {
			return out, err
		}
		out = append(out, updated)
	}
	return out, nil
}

// Running trả về job đang in-progress, nil nếu không có
func (s *PrimeJobService) Running(ctx context.Context) (*models.PrimeCronJob, error) {
	return s.ReadOne(ctx, bson.M{"lock": models.JobLock, "status": models.JobStatusInProgress})
}

// List trả về bản ghi job mới nhất trước
func (s *PrimeJobService) List(ctx context.Context, status string, page, limit int64) (*basemodels.PaginateResult[models.PrimeCronJob], error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// PendingAlerts trả về job abandoned hoặc hoàn tất có lỗi mà chưa gửi cảnh báo
func (s *PrimeJobService) PendingAlerts(ctx context.Context) ([]models.PrimeCronJob, error) {
	return s.ReadMany(ctx, bson.M{
		"alertedAt": bson.M{"$exists": false},
		"$or": bson.A{
			bson.M{"status": models.JobStatusAbandoned},
			bson.M{"status": models.JobStatusCompleted, "errorsDetails.0": bson.M{"$exists": true}},
		},
	}, options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}}))
}

// MarkAlerted ghi alertedAt để không cảnh báo lặp lại
func (s *PrimeJobService) MarkAlerted(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"alertedAt": s.now().UnixMilli()}})
	return err
}
