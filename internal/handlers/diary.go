package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seojin-dev/moodshift-backend/internal/services"
)

type DiaryHandler struct {
	diaryService services.DiaryService
}

func NewDiaryHandler(diaryService services.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

func diaryIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid diary id"})
		return uuid.Nil, false
	}
	return id, true
}

func (dh *DiaryHandler) Create(c *gin.Context) {
	var req struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		DiaryDate string `json:"diary_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	diary, err := dh.diaryService.CreateDiary(c.Request.Context(), req.Title, req.Content, req.DiaryDate)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"diary": diary})
}

func (dh *DiaryHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	diaries, err := dh.diaryService.ListDiaries(c.Request.Context(), skip, limit)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diaries": diaries})
}

func (dh *DiaryHandler) Calendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	diaries, err := dh.diaryService.Calendar(c.Request.Context(), year, month)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diaries": diaries})
}

func (dh *DiaryHandler) Get(c *gin.Context) {
	id, ok := diaryIDParam(c)
	if !ok {
		return
	}
	diary, err := dh.diaryService.GetDiary(c.Request.Context(), id)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diary": diary})
}

func (dh *DiaryHandler) Update(c *gin.Context) {
	id, ok := diaryIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		DiaryDate *string `json:"diary_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	diary, err := dh.diaryService.UpdateDiary(c.Request.Context(), id, services.DiaryUpdate{
		Title:     req.Title,
		Content:   req.Content,
		DiaryDate: req.DiaryDate,
	})
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diary": diary})
}

func (dh *DiaryHandler) Delete(c *gin.Context) {
	id, ok := diaryIDParam(c)
	if !ok {
		return
	}
	if err := dh.diaryService.DeleteDiary(c.Request.Context(), id); err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "diary deleted"})
}

func (dh *DiaryHandler) Recommend(c *gin.Context) {
	id, ok := diaryIDParam(c)
	if !ok {
		return
	}
	diary, err := dh.diaryService.RecommendForDiary(c.Request.Context(), id)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diary": diary})
}
