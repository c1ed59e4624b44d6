package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seojin-dev/moodshift-backend/internal/platform/apierr"
	"github.com/seojin-dev/moodshift-backend/internal/recommend"
	"github.com/seojin-dev/moodshift-backend/internal/services"
	"github.com/seojin-dev/moodshift-backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChatService struct {
	chatReply      services.ChatReply
	chatErr        error
	recommendReply services.RecommendReply
	recommendErr   error
}

func (f *fakeChatService) Chat(ctx context.Context, sentence, character string) (services.ChatReply, error) {
	return f.chatReply, f.chatErr
}

func (f *fakeChatService) RecommendWithNarration(ctx context.Context, conversation, category, character string, topK int) (services.RecommendReply, error) {
	return f.recommendReply, f.recommendErr
}

func (f *fakeChatService) ExtractEmotion(ctx context.Context, text string) string {
	return "calm"
}

type fakeDiaryService struct {
	diary *types.Diary
	err   error
}

func (f *fakeDiaryService) CreateDiary(ctx context.Context, title, content, diaryDate string) (*types.Diary, error) {
	return f.diary, f.err
}

func (f *fakeDiaryService) GetDiary(ctx context.Context, diaryID uuid.UUID) (*types.Diary, error) {
	return f.diary, f.err
}

func (f *fakeDiaryService) ListDiaries(ctx context.Context, skip, limit int) ([]*types.Diary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*types.Diary{f.diary}, nil
}

func (f *fakeDiaryService) Calendar(ctx context.Context, year, month int) ([]*types.Diary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*types.Diary{f.diary}, nil
}

func (f *fakeDiaryService) UpdateDiary(ctx context.Context, diaryID uuid.UUID, upd services.DiaryUpdate) (*types.Diary, error) {
	return f.diary, f.err
}

func (f *fakeDiaryService) DeleteDiary(ctx context.Context, diaryID uuid.UUID) error {
	return f.err
}

func (f *fakeDiaryService) RecommendForDiary(ctx context.Context, diaryID uuid.UUID) (*types.Diary, error) {
	return f.diary, f.err
}

func performJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHandler(t *testing.T) {
	ch := NewChatHandler(&fakeChatService{
		chatReply: services.ChatReply{Answer: "woof, that sounds rough", DetectedEmotion: "sadness"},
	})
	router := gin.New()
	router.POST("/api/chat", ch.Chat)

	w := performJSON(t, router, http.MethodPost, "/api/chat", `{"sentence":"bad day","character":"dog"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var got services.ChatReply
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DetectedEmotion != "sadness" {
		t.Fatalf("emotion: want=sadness got=%s", got.DetectedEmotion)
	}
}

func TestChatHandlerBadBody(t *testing.T) {
	ch := NewChatHandler(&fakeChatService{})
	router := gin.New()
	router.POST("/api/chat", ch.Chat)

	w := performJSON(t, router, http.MethodPost, "/api/chat", `{"sentence":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
}

func TestRecommendHandlerMapsServiceStatus(t *testing.T) {
	ch := NewChatHandler(&fakeChatService{
		recommendErr: apierr.New(http.StatusServiceUnavailable, "index_unavailable",
			fmt.Errorf("emotion index not loaded")),
	})
	router := gin.New()
	router.POST("/api/recommend", ch.Recommend)

	w := performJSON(t, router, http.MethodPost, "/api/recommend", `{"type":"book","character":"cat"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: want=503 got=%d body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "index_unavailable" {
		t.Fatalf("code: want=index_unavailable got=%v", body["code"])
	}
}

func TestRecommendHandlerOK(t *testing.T) {
	ch := NewChatHandler(&fakeChatService{
		recommendReply: services.RecommendReply{
			Answer: "try these",
			Recommendation: recommend.Result{
				CurrentEmotion: "sadness",
				TargetEmotion:  "joy",
			},
		},
	})
	router := gin.New()
	router.POST("/api/recommend", ch.Recommend)

	w := performJSON(t, router, http.MethodPost, "/api/recommend", `{"type":"music","character":"bear","top_k":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var got services.RecommendReply
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Recommendation.TargetEmotion != "joy" {
		t.Fatalf("target emotion: want=joy got=%s", got.Recommendation.TargetEmotion)
	}
}

func TestDiaryHandlerBadID(t *testing.T) {
	dh := NewDiaryHandler(&fakeDiaryService{})
	router := gin.New()
	router.GET("/diary/:id", dh.Get)

	w := performJSON(t, router, http.MethodGet, "/diary/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
}

func TestDiaryHandlerNotFoundStatus(t *testing.T) {
	dh := NewDiaryHandler(&fakeDiaryService{
		err: apierr.New(http.StatusNotFound, "diary_not_found", fmt.Errorf("diary not found")),
	})
	router := gin.New()
	router.GET("/diary/:id", dh.Get)

	w := performJSON(t, router, http.MethodGet, "/diary/"+uuid.NewString(), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDiaryHandlerCreate(t *testing.T) {
	diary := &types.Diary{ID: uuid.New(), Title: "long walk", Content: "walked by the river", DiaryDate: "2025-06-01"}
	dh := NewDiaryHandler(&fakeDiaryService{diary: diary})
	router := gin.New()
	router.POST("/diary", dh.Create)

	w := performJSON(t, router, http.MethodPost, "/diary",
		`{"title":"long walk","content":"walked by the river","diary_date":"2025-06-01"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: want=201 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCalendarHandlerBadMonth(t *testing.T) {
	dh := NewDiaryHandler(&fakeDiaryService{})
	router := gin.New()
	router.GET("/diary/calendar/:year/:month", dh.Calendar)

	w := performJSON(t, router, http.MethodGet, "/diary/calendar/2025/june", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	router := gin.New()
	router.GET("/healthcheck", HealthCheck)

	w := performJSON(t, router, http.MethodGet, "/healthcheck", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("body: got=%s", w.Body.String())
	}
}
