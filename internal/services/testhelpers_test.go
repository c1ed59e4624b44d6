package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/seojin-dev/moodshift-backend/internal/recommend"
	"github.com/seojin-dev/moodshift-backend/internal/requestdata"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A uniquely named shared in-memory database keeps every pooled
	// connection on the same data.
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	stmts := []string{
		`CREATE TABLE "user" (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			person_name TEXT NOT NULL,
			nick_name TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL,
			character TEXT,
			role TEXT NOT NULL DEFAULT 'member',
			emotion TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE "user_token" (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			access_token TEXT NOT NULL UNIQUE,
			refresh_token TEXT NOT NULL UNIQUE,
			expires_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE "diary" (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			emotion TEXT,
			recommend_content TEXT,
			diary_date TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE(user_id, diary_date)
		)`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	return gdb
}

func authedCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
	})
}

// fakeLLM answers GenerateText from a script and never embeds.
type fakeLLM struct {
	textReply string
	textErr   error
	calls     []string
}

func (f *fakeLLM) Embed(context.Context, []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding not supported in fake")
}

func (f *fakeLLM) GenerateText(_ context.Context, system, user string) (string, error) {
	f.calls = append(f.calls, system+"\n"+user)
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.textReply, nil
}

// fakeRecommender returns a fixed result or error.
type fakeRecommender struct {
	result recommend.Result
	err    error
}

func (f *fakeRecommender) Recommend(_ context.Context, _, category string, _ int) (recommend.Result, error) {
	if f.err != nil {
		return recommend.Result{}, f.err
	}
	res := f.result
	return res, nil
}
