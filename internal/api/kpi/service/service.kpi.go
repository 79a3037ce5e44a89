// Package kpisvc - service mẫu KPI và kết quả đánh giá.
package kpisvc

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "bearh/internal/api/base/service"
	kpidto "bearh/internal/api/kpi/dto"
	models "bearh/internal/api/kpi/models"
	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/utility"
)

// parsePairs tách "Nom:valeur;Nom:valeur" thành các cặp (tên, số)
func parsePairs(field, raw string) ([]string, []float64, error) {
	var names []string
	var values []float64
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, ":")
		if idx <= 0 {
			return nil, nil, common.NewValidationError(map[string]string{field: fmt.Sprintf("Format attendu Nom:valeur (%q)", part)})
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(part[idx+1:]), 64)
		if err != nil {
			return nil, nil, common.NewValidationError(map[string]string{field: fmt.Sprintf("Valeur numérique attendue (%q)", part)})
		}
		names = append(names, strings.TrimSpace(part[:idx]))
		values = append(values, value)
	}
	if len(names) == 0 {
		return nil, nil, common.NewValidationError(map[string]string{field: "Ce champ est obligatoire"})
	}
	return names, values, nil
}

// ParseCriteria đọc danh sách tiêu chí "Nom:max;..."
func ParseCriteria(raw string) ([]models.Criterion, error) {
	names, values, err := parsePairs("criteria", raw)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]models.Criterion, 0, len(names))
	for i, name := range names {
		if seen[name] {
			return nil, common.NewValidationError(map[string]string{"criteria": "Critère en double : " + name})
		}
		seen[name] = true
		out = append(out, models.Criterion{Name: name, MaxScore: values[i]})
	}
	return out, nil
}

// ParseScores đọc điểm "Nom:score;..." và đối chiếu với tiêu chí của mẫu
func ParseScores(raw string, form *models.KpiForm) ([]models.Score, error) {
	names, values, err := parsePairs("scores", raw)
	if err != nil {
		return nil, err
	}
	maxByName := map[string]float64{}
	for _, c := range form.Criteria {
		maxByName[c.Name] = c.MaxScore
	}
	out := make([]models.Score, 0, len(names))
	for i, name := range names {
		max, ok := maxByName[name]
		if !ok {
			return nil, common.NewValidationError(map[string]string{"scores": "Critère inconnu : " + name})
		}
		if values[i] < 0 || values[i] > max {
			return nil, common.NewValidationError(map[string]string{"scores": fmt.Sprintf("Score hors limites pour %s (0-%g)", name, max)})
		}
		out = append(out, models.Score{Criterion: name, Score: values[i]})
	}
	return out, nil
}

// Ratio trả về tổng điểm / tổng điểm tối đa của mẫu
func Ratio(value *models.KpiValue, form *models.KpiForm) (float64, error) {
	max := form.MaxTotal()
	if max <= 0 {
		return 0, fmt.Errorf("kpi form %s has no scorable criteria", form.ID.Hex())
	}
	return value.Total() / max, nil
}

// ====================================
// KPI FORM
// ====================================

// KpiFormService quản lý mẫu KPI
type KpiFormService struct {
	*basesvc.BaseServiceMongoImpl[models.KpiForm]
}

// NewKpiFormService tạo KpiFormService từ registry
func NewKpiFormService() (*KpiFormService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.KpiForms)
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi forms collection: %w", err)
	}
	return NewKpiFormServiceWith(coll), nil
}

// NewKpiFormServiceWith tạo KpiFormService trên collection cho trước
func NewKpiFormServiceWith(coll *mongo.Collection) *KpiFormService {
	return &KpiFormService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.KpiForm](coll)}
}

// Create tạo mẫu KPI
func (s *KpiFormService) Create(ctx context.Context, in *kpidto.KpiFormInput) (*models.KpiForm, error) {
	criteria, err := ParseCriteria(in.Criteria)
	if err != nil {
		return nil, err
	}
	return s.CreateOne(ctx, models.KpiForm{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Criteria:    criteria,
		Users:       utility.StringArray2ObjectIDArray(utility.SplitCSV(in.Users)),
		Positions:   utility.StringArray2ObjectIDArray(utility.SplitCSV(in.Positions)),
	})
}

// Update sửa mẫu KPI; không có => nil, nil
func (s *KpiFormService) Update(ctx context.Context, id primitive.ObjectID, in *kpidto.KpiFormInput) (*models.KpiForm, error) {
	set := map[string]interface{}{}
	if in.Name != "" {
		set["name"] = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Criteria != "" {
		criteria, err := ParseCriteria(in.Criteria)
		if err != nil {
			return nil, err
		}
		set["criteria"] = criteria
	}
	if in.Users != "" {
		set["users"] = utility.StringArray2ObjectIDArray(utility.SplitCSV(in.Users))
	}
	if in.Positions != "" {
		set["positions"] = utility.StringArray2ObjectIDArray(utility.SplitCSV(in.Positions))
	}
	return s.UpdateOneByID(ctx, id, &basesvc.UpdateData{Set: set})
}

// ForUser trả về mẫu KPI áp dụng cho user: gán trực tiếp hoặc qua chức vụ
func (s *KpiFormService) ForUser(ctx context.Context, userID, positionID primitive.ObjectID) ([]models.KpiForm, error) {
	or := bson.A{bson.M{"users": userID}}
	if !positionID.IsZero() {
		or = append(or, bson.M{"positions": positionID})
	}
	return s.ReadMany(ctx, bson.M{"$or": or}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// ====================================
// KPI VALUE
// ====================================

// KpiValueService quản lý kết quả đánh giá KPI
type KpiValueService struct {
	*basesvc.BaseServiceMongoImpl[models.KpiValue]
	forms *KpiFormService
}

// NewKpiValueService tạo KpiValueService từ registry
func NewKpiValueService(forms *KpiFormService) (*KpiValueService, error) {
	coll, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.KpiValues)
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi values collection: %w", err)
	}
	return NewKpiValueServiceWith(coll, forms), nil
}

// NewKpiValueServiceWith tạo KpiValueService trên collection cho trước
func NewKpiValueServiceWith(coll *mongo.Collection, forms *KpiFormService) *KpiValueService {
	return &KpiValueService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.KpiValue](coll), forms: forms}
}

// Submit ghi kết quả chấm KPI của evaluator cho user; mẫu không tồn tại => ErrNotFound
func (s *KpiValueService) Submit(ctx context.Context, evaluator primitive.ObjectID, in *kpidto.KpiValueInput) (*models.KpiValue, error) {
	formID := utility.String2ObjectID(in.Form)
	userID := utility.String2ObjectID(in.User)
	form, err := s.forms.ReadOne(ctx, bson.M{"_id": formID})
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, common.ErrNotFound
	}
	scores, err := ParseScores(in.Scores, form)
	if err != nil {
		return nil, err
	}
	return s.CreateOne(ctx, models.KpiValue{
		Form:        formID,
		User:        userID,
		Evaluator:   evaluator,
		Scores:      scores,
		Comment:     strings.TrimSpace(in.Comment),
		EvaluatedAt: time.Now().UnixMilli(),
	})
}

// ListInWindow trả về kết quả của user có evaluatedAt trong [from, to)
func (s *KpiValueService) ListInWindow(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.KpiValue, error) {
	opts := options.Find().SetSort(bson.D{{Key: "evaluatedAt", Value: 1}})
	return s.ReadMany(ctx, bson.M{
		"user":        userID,
		"evaluatedAt": bson.M{"$gte": from.UnixMilli(), "$lt": to.UnixMilli()},
	}, opts)
}

// RatedValue là một kết quả đánh giá kèm tỉ lệ điểm
type RatedValue struct {
	EvaluatedAt time.Time
	Ratio       float64
}

// Rated trả về tỉ lệ điểm của từng kết quả trong [from, to), theo thứ tự evaluatedAt.
// strict: kết quả trỏ tới mẫu đã bị xóa => lỗi; ngược lại bỏ qua kết quả đó.
func (s *KpiValueService) Rated(ctx context.Context, userID primitive.ObjectID, from, to time.Time, strict bool) ([]RatedValue, error) {
	values, err := s.ListInWindow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []RatedValue{}, nil
	}

	formIDs := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		formIDs = append(formIDs, v.Form)
	}
	forms, err := s.forms.FindManyByIds(ctx, formIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.KpiForm, len(forms))
	for i := range forms {
		byID[forms[i].ID] = &forms[i]
	}

	out := make([]RatedValue, 0, len(values))
	for i := range values {
		form, ok := byID[values[i].Form]
		if !ok {
			if !strict {
				continue
			}
			return nil, fmt.Errorf("kpi form %s missing for value %s", values[i].Form.Hex(), values[i].ID.Hex())
		}
		ratio, err := Ratio(&values[i], form)
		if err != nil {
			if !strict {
				continue
			}
			return nil, err
		}
		out = append(out, RatedValue{EvaluatedAt: time.UnixMilli(values[i].EvaluatedAt), Ratio: ratio})
	}
	return out, nil
}

// Ratios trả về tỉ lệ điểm của từng kết quả trong [from, to); mẫu bị xóa => lỗi
func (s *KpiValueService) Ratios(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]float64, error) {
	rated, err := s.Rated(ctx, userID, from, to, true)
	if err != nil {
		return nil, err
	}
	ratios := make([]float64, 0, len(rated))
	for _, r := range rated {
		ratios = append(ratios, r.Ratio)
	}
	return ratios, nil
}
