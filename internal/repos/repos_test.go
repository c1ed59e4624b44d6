package repos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/types"
)

// setupDB opens an in-memory sqlite database with hand-written DDL. The
// production schema relies on Postgres defaults (uuid_generate_v4, now()),
// so tests create the tables explicitly and set IDs themselves.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A uniquely named shared in-memory database keeps every pooled
	// connection on the same data.
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	stmts := []string{
		`DROP TABLE IF EXISTS "diary"`,
		`DROP TABLE IF EXISTS "user_token"`,
		`DROP TABLE IF EXISTS "user"`,
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

func newUser(username string) *types.User {
	return &types.User{
		ID:         uuid.New(),
		Username:   username,
		Password:   "hashed",
		PersonName: "Person",
		NickName:   "nick-" + username,
		Email:      username + "@example.com",
		Phone:      "010-1234-5678",
		Role:       types.RoleMember,
	}
}

func TestUserRepoCreateAndGet(t *testing.T) {
	gdb := setupDB(t)
	ur := NewUserRepo(gdb, logger.NewNop())
	ctx := context.Background()

	created, err := ur.Create(ctx, nil, newUser("seojin"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := ur.GetByID(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Username != "seojin" {
		t.Fatalf("username: want=seojin got=%s", byID.Username)
	}

	byName, err := ur.GetByUsername(ctx, nil, "seojin")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("id mismatch: want=%s got=%s", created.ID, byName.ID)
	}

	exists, err := ur.UsernameExists(ctx, nil, "seojin")
	if err != nil || !exists {
		t.Fatalf("UsernameExists: want=true got=%v err=%v", exists, err)
	}
	exists, err = ur.UsernameExists(ctx, nil, "nobody")
	if err != nil || exists {
		t.Fatalf("UsernameExists(nobody): want=false got=%v err=%v", exists, err)
	}
}

func TestUserRepoGetMissing(t *testing.T) {
	gdb := setupDB(t)
	ur := NewUserRepo(gdb, logger.NewNop())

	_, err := ur.GetByID(context.Background(), nil, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUserRepoUpdateCharacter(t *testing.T) {
	gdb := setupDB(t)
	ur := NewUserRepo(gdb, logger.NewNop())
	ctx := context.Background()

	created, err := ur.Create(ctx, nil, newUser("seojin"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ur.UpdateCharacter(ctx, nil, created.ID, "racoon"); err != nil {
		t.Fatalf("UpdateCharacter: %v", err)
	}
	got, err := ur.GetByID(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Character != "racoon" {
		t.Fatalf("character: want=racoon got=%s", got.Character)
	}

	if err := ur.UpdateCharacter(ctx, nil, uuid.New(), "cat"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown user, got %v", err)
	}
}

func TestUserTokenRepoLifecycle(t *testing.T) {
	gdb := setupDB(t)
	ur := NewUserRepo(gdb, logger.NewNop())
	tr := NewUserTokenRepo(gdb, logger.NewNop())
	ctx := context.Background()

	user, err := ur.Create(ctx, nil, newUser("seojin"))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	tok := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}
	if _, err := tr.Create(ctx, nil, tok); err != nil {
		t.Fatalf("create token: %v", err)
	}

	byRefresh, err := tr.GetByRefreshToken(ctx, nil, "refresh-1")
	if err != nil {
		t.Fatalf("GetByRefreshToken: %v", err)
	}
	if byRefresh.UserID != user.ID {
		t.Fatalf("token user: want=%s got=%s", user.ID, byRefresh.UserID)
	}

	byAccess, err := tr.GetByAccessToken(ctx, nil, "access-1")
	if err != nil {
		t.Fatalf("GetByAccessToken: %v", err)
	}
	if byAccess.ID != tok.ID {
		t.Fatalf("token id mismatch")
	}

	if err := tr.DeleteByUserID(ctx, nil, user.ID); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}
	if _, err := tr.GetByRefreshToken(ctx, nil, "refresh-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestDiaryRepoCRUDAndQueries(t *testing.T) {
	gdb := setupDB(t)
	ur := NewUserRepo(gdb, logger.NewNop())
	dr := NewDiaryRepo(gdb, logger.NewNop())
	ctx := context.Background()

	user, err := ur.Create(ctx, nil, newUser("seojin"))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	dates := []string{"2026-08-03", "2026-08-15", "2026-09-01"}
	for _, d := range dates {
		_, err := dr.Create(ctx, nil, &types.Diary{
			ID:        uuid.New(),
			UserID:    user.ID,
			Title:     "entry " + d,
			Content:   "content",
			DiaryDate: d,
		})
		if err != nil {
			t.Fatalf("create diary %s: %v", d, err)
		}
	}

	byDate, err := dr.GetByUserAndDate(ctx, nil, user.ID, "2026-08-15")
	if err != nil {
		t.Fatalf("GetByUserAndDate: %v", err)
	}
	if byDate.Title != "entry 2026-08-15" {
		t.Fatalf("title: got=%s", byDate.Title)
	}

	if _, err := dr.GetByUserAndDate(ctx, nil, user.ID, "2026-08-16"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for empty date, got %v", err)
	}

	list, err := dr.ListByUser(ctx, nil, user.ID, 0, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list size: want=3 got=%d", len(list))
	}
	if list[0].DiaryDate != "2026-09-01" {
		t.Fatalf("newest first: got=%s", list[0].DiaryDate)
	}

	aug, err := dr.ListByMonth(ctx, nil, user.ID, 2026, 8)
	if err != nil {
		t.Fatalf("ListByMonth: %v", err)
	}
	if len(aug) != 2 {
		t.Fatalf("august entries: want=2 got=%d", len(aug))
	}
	if aug[0].DiaryDate != "2026-08-03" || aug[1].DiaryDate != "2026-08-15" {
		t.Fatalf("month order: got=%v, %v", aug[0].DiaryDate, aug[1].DiaryDate)
	}

	byDate.Title = "updated"
	if _, err := dr.Save(ctx, nil, byDate); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reread, err := dr.GetByID(ctx, nil, byDate.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reread.Title != "updated" {
		t.Fatalf("updated title: got=%s", reread.Title)
	}

	if err := dr.Delete(ctx, nil, byDate.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := dr.GetByID(ctx, nil, byDate.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestDiaryRepoPagination(t *testing.T) {
	gdb := setupDB(t)
	ur := NewUserRepo(gdb, logger.NewNop())
	dr := NewDiaryRepo(gdb, logger.NewNop())
	ctx := context.Background()

	user, err := ur.Create(ctx, nil, newUser("seojin"))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, d := range []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04"} {
		if _, err := dr.Create(ctx, nil, &types.Diary{
			ID: uuid.New(), UserID: user.ID, Title: d, Content: "c", DiaryDate: d,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := dr.ListByUser(ctx, nil, user.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(page) != 2 || page[0].DiaryDate != "2026-01-03" || page[1].DiaryDate != "2026-01-02" {
		t.Fatalf("page contents: got=%v", page)
	}
}
