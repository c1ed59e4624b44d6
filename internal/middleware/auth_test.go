package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/requestdata"
	"github.com/seojin-dev/moodshift-backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	userID    uuid.UUID
	tokenErr  error
	lastToken string
}

func (f *fakeAuthService) RegisterUser(ctx context.Context, user *types.User) error { return nil }

func (f *fakeAuthService) LoginUser(ctx context.Context, username, password string) (*types.User, string, string, error) {
	return nil, "", "", nil
}

func (f *fakeAuthService) RefreshUser(ctx context.Context) (string, string, error) {
	return "", "", nil
}

func (f *fakeAuthService) LogoutUser(ctx context.Context) error { return nil }

func (f *fakeAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	f.lastToken = tokenString
	if f.tokenErr != nil {
		return ctx, f.tokenErr
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      f.userID,
	}), nil
}

func (f *fakeAuthService) GetAccessTTL() time.Duration { return time.Hour }

func newProtectedRouter(auth *fakeAuthService) *gin.Engine {
	am := NewAuthMiddleware(logger.NewNop(), auth)
	router := gin.New()
	router.GET("/user", am.RequireAuth(), func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": rd.UserID.String()})
	})
	return router
}

func TestRequireAuthPassesToken(t *testing.T) {
	auth := &fakeAuthService{userID: uuid.New()}
	router := newProtectedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Bearer some.jwt.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastToken != "some.jwt.token" {
		t.Fatalf("token: got=%q", auth.lastToken)
	}
}

func TestRequireAuthMissingHeader(t *testing.T) {
	router := newProtectedRouter(&fakeAuthService{userID: uuid.New()})

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", w.Code)
	}
}

func TestRequireAuthRejectedToken(t *testing.T) {
	router := newProtectedRouter(&fakeAuthService{tokenErr: fmt.Errorf("token revoked")})

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Bearer stale.jwt.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", w.Code)
	}
}

func TestRequireAuthNilUser(t *testing.T) {
	// Token parsed but no user bound to the context.
	router := newProtectedRouter(&fakeAuthService{userID: uuid.Nil})

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Bearer some.jwt.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", w.Code)
	}
}
