package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
	"github.com/seojin-dev/moodshift-backend/internal/normalization"
	"github.com/seojin-dev/moodshift-backend/internal/platform/apierr"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/recommend"
	"github.com/seojin-dev/moodshift-backend/internal/repos"
	"github.com/seojin-dev/moodshift-backend/internal/types"
)

// diaryAnalysisTopK is how many picks each category contributes to a diary's
// recommendation snapshot.
const diaryAnalysisTopK = 2

// DiaryUpdate carries the optional fields of a diary edit.
type DiaryUpdate struct {
	Title     *string
	Content   *string
	DiaryDate *string
}

type DiaryService interface {
	CreateDiary(ctx context.Context, title, content, diaryDate string) (*types.Diary, error)
	GetDiary(ctx context.Context, diaryID uuid.UUID) (*types.Diary, error)
	ListDiaries(ctx context.Context, skip, limit int) ([]*types.Diary, error)
	Calendar(ctx context.Context, year, month int) ([]*types.Diary, error)
	UpdateDiary(ctx context.Context, diaryID uuid.UUID, upd DiaryUpdate) (*types.Diary, error)
	DeleteDiary(ctx context.Context, diaryID uuid.UUID) error
	RecommendForDiary(ctx context.Context, diaryID uuid.UUID) (*types.Diary, error)
}

type diaryService struct {
	log          *logger.Logger
	diaryRepo    repos.DiaryRepo
	chatSvc      ChatService
	recommendSvc recommend.Service
}

func NewDiaryService(log *logger.Logger, diaryRepo repos.DiaryRepo, chatSvc ChatService, recommendSvc recommend.Service) DiaryService {
	return &diaryService{
		log:          log.With("service", "DiaryService"),
		diaryRepo:    diaryRepo,
		chatSvc:      chatSvc,
		recommendSvc: recommendSvc,
	}
}

func validateDiaryDate(raw string) (string, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", apierr.New(http.StatusBadRequest, "invalid_date",
			fmt.Errorf("diary_date must be YYYY-MM-DD: %w", err))
	}
	return parsed.Format("2006-01-02"), nil
}

func validateDiaryFields(title, content string) error {
	if len(title) == 0 || len(title) > 200 {
		return apierr.New(http.StatusBadRequest, "invalid_title",
			fmt.Errorf("title must be 1 to 200 characters"))
	}
	if len(content) == 0 {
		return apierr.New(http.StatusBadRequest, "invalid_content",
			fmt.Errorf("content must not be empty"))
	}
	return nil
}

func (ds *diaryService) CreateDiary(ctx context.Context, title, content, diaryDate string) (*types.Diary, error) {
	rd, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	title = normalization.TrimInputString(title)
	content = normalization.TrimInputString(content)
	if err := validateDiaryFields(title, content); err != nil {
		return nil, err
	}
	date, err := validateDiaryDate(diaryDate)
	if err != nil {
		return nil, err
	}

	if _, err := ds.diaryRepo.GetByUserAndDate(ctx, nil, rd.UserID, date); err == nil {
		return nil, apierr.New(http.StatusConflict, "diary_exists",
			fmt.Errorf("a diary already exists for %s", date))
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, fmt.Errorf("check existing diary: %w", err)
	}

	diary := &types.Diary{
		ID:        uuid.New(),
		UserID:    rd.UserID,
		Title:     title,
		Content:   content,
		DiaryDate: date,
	}

	ds.analyze(ctx, diary)

	created, err := ds.diaryRepo.Create(ctx, nil, diary)
	if err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, apierr.New(http.StatusConflict, "diary_exists",
				fmt.Errorf("a diary already exists for %s", date))
		}
		return nil, fmt.Errorf("create diary: %w", err)
	}

	ds.log.Info("Diary created", "diary_id", created.ID.String(), "date", date)
	return created, nil
}

// analyze attaches the emotion label and recommendation snapshot to diary.
// Analysis is best-effort: a down oracle or unloaded index never blocks the
// write, it just leaves the JSON columns empty.
func (ds *diaryService) analyze(ctx context.Context, diary *types.Diary) {
	label := ds.chatSvc.ExtractEmotion(ctx, diary.Content)
	if raw, err := json.Marshal(map[string]float64{label: 1.0}); err == nil {
		diary.Emotion = datatypes.JSON(raw)
	}

	snapshot := map[string]any{
		"message": emotionMessage(label),
	}
	attached := false
	for _, cat := range catalog.Categories() {
		res, err := ds.recommendSvc.Recommend(ctx, diary.Content, string(cat), diaryAnalysisTopK)
		if err != nil {
			ds.log.Warn("Diary recommendation skipped",
				"diary_id", diary.ID.String(),
				"category", string(cat),
				"error", err.Error(),
			)
			continue
		}
		snapshot["current_emotion"] = res.CurrentEmotion
		snapshot["target_emotion"] = res.TargetEmotion
		snapshot[string(cat)] = res.Items
		attached = true
	}
	if !attached {
		return
	}
	if raw, err := json.Marshal(snapshot); err == nil {
		diary.RecommendContent = datatypes.JSON(raw)
	}
}

func (ds *diaryService) getOwned(ctx context.Context, diaryID uuid.UUID) (*types.Diary, error) {
	rd, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	diary, err := ds.diaryRepo.GetByID(ctx, nil, diaryID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apierr.New(http.StatusNotFound, "diary_not_found",
				fmt.Errorf("diary %s not found", diaryID))
		}
		return nil, fmt.Errorf("load diary: %w", err)
	}
	if diary.UserID != rd.UserID {
		// Hide other users' entries entirely.
		return nil, apierr.New(http.StatusNotFound, "diary_not_found",
			fmt.Errorf("diary %s not found", diaryID))
	}
	return diary, nil
}

func (ds *diaryService) GetDiary(ctx context.Context, diaryID uuid.UUID) (*types.Diary, error) {
	return ds.getOwned(ctx, diaryID)
}

func (ds *diaryService) ListDiaries(ctx context.Context, skip, limit int) ([]*types.Diary, error) {
	rd, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if skip < 0 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_skip",
			fmt.Errorf("skip must be non-negative"))
	}
	if limit < 1 || limit > 1000 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_limit",
			fmt.Errorf("limit must be between 1 and 1000"))
	}
	return ds.diaryRepo.ListByUser(ctx, nil, rd.UserID, skip, limit)
}

func (ds *diaryService) Calendar(ctx context.Context, year, month int) ([]*types.Diary, error) {
	rd, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if year < 1 || month < 1 || month > 12 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_month",
			fmt.Errorf("year and month must form a valid calendar month"))
	}
	return ds.diaryRepo.ListByMonth(ctx, nil, rd.UserID, year, month)
}

func (ds *diaryService) UpdateDiary(ctx context.Context, diaryID uuid.UUID, upd DiaryUpdate) (*types.Diary, error) {
	diary, err := ds.getOwned(ctx, diaryID)
	if err != nil {
		return nil, err
	}

	contentChanged := false
	if upd.Title != nil {
		diary.Title = normalization.TrimInputString(*upd.Title)
	}
	if upd.Content != nil {
		diary.Content = normalization.TrimInputString(*upd.Content)
		contentChanged = true
	}
	if err := validateDiaryFields(diary.Title, diary.Content); err != nil {
		return nil, err
	}
	if upd.DiaryDate != nil {
		date, err := validateDiaryDate(*upd.DiaryDate)
		if err != nil {
			return nil, err
		}
		if date != diary.DiaryDate {
			if _, err := ds.diaryRepo.GetByUserAndDate(ctx, nil, diary.UserID, date); err == nil {
				return nil, apierr.New(http.StatusConflict, "diary_exists",
					fmt.Errorf("a diary already exists for %s", date))
			} else if !errors.Is(err, repos.ErrNotFound) {
				return nil, fmt.Errorf("check existing diary: %w", err)
			}
			diary.DiaryDate = date
		}
	}

	if contentChanged {
		ds.analyze(ctx, diary)
	}

	saved, err := ds.diaryRepo.Save(ctx, nil, diary)
	if err != nil {
		return nil, fmt.Errorf("save diary: %w", err)
	}
	return saved, nil
}

func (ds *diaryService) DeleteDiary(ctx context.Context, diaryID uuid.UUID) error {
	diary, err := ds.getOwned(ctx, diaryID)
	if err != nil {
		return err
	}
	if err := ds.diaryRepo.Delete(ctx, nil, diary.ID); err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}
	ds.log.Info("Diary deleted", "diary_id", diary.ID.String())
	return nil
}

// RecommendForDiary re-runs analysis on demand and persists the refreshed
// snapshot.
func (ds *diaryService) RecommendForDiary(ctx context.Context, diaryID uuid.UUID) (*types.Diary, error) {
	diary, err := ds.getOwned(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	ds.analyze(ctx, diary)
	saved, err := ds.diaryRepo.Save(ctx, nil, diary)
	if err != nil {
		return nil, fmt.Errorf("save diary analysis: %w", err)
	}
	return saved, nil
}
