package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmc-class/bmc-api/internal/middleware"
	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/service"
)

type authRepoStub struct {
	students map[string]*models.Student
}

func (s *authRepoStub) FindByPhone(ctx context.Context, phone string) (*models.Student, error) {
	for _, st := range s.students {
		if st.Phone == phone {
			copied := *st
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *st
	return &copied, nil
}

func (s *authRepoStub) ExistsByPhone(ctx context.Context, phone string, excludeID string) (bool, error) {
	for id, st := range s.students {
		if st.Phone == phone && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *authRepoStub) Create(ctx context.Context, student *models.Student) error {
	s.students[student.ID] = student
	return nil
}

func (s *authRepoStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return nil
}

func (s *authRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return nil, nil
}

func (s *authRepoStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	return nil
}

func newAuthHandler(repo *authRepoStub) *AuthHandler {
	svc := service.NewAuthService(repo, nil, zap.NewNop(), service.AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "bmc-api",
	})
	return NewAuthHandler(svc)
}

func jsonRequest(w *httptest.ResponseRecorder, method, target string, payload interface{}) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c
}

func TestAuthHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &authRepoStub{students: map[string]*models.Student{}}
	h := newAuthHandler(repo)

	w := httptest.NewRecorder()
	c := jsonRequest(w, http.MethodPost, "/auth/register", models.RegisterRequest{
		Name:      "김블로그",
		Phone:     "01012345678",
		Password:  "secret1",
		ClassType: models.ClassOnline,
	})

	h.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data struct {
			Name string          `json:"name"`
			Role models.UserRole `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "김블로그", body.Data.Name)
	assert.Equal(t, models.RoleStudent, body.Data.Role)
	assert.Len(t, repo.students, 1)
}

func TestAuthHandlerRegisterInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAuthHandler(&authRepoStub{students: map[string]*models.Student{}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &authRepoStub{students: map[string]*models.Student{
		"s1": {
			ID:           "s1",
			Name:         "김블로그",
			Phone:        "01012345678",
			PasswordHash: string(hash),
			Role:         models.RoleStudent,
			ClassType:    models.ClassOnline,
			Active:       true,
		},
	}}
	h := newAuthHandler(repo)

	w := httptest.NewRecorder()
	c := jsonRequest(w, http.MethodPost, "/auth/login", models.LoginRequest{
		Phone:    "01012345678",
		Password: "secret1",
	})

	h.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
			Student     struct {
				ID string `json:"id"`
			} `json:"student"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.AccessToken)
	assert.Equal(t, "s1", body.Data.Student.ID)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &authRepoStub{students: map[string]*models.Student{
		"s1": {
			ID:           "s1",
			Phone:        "01012345678",
			PasswordHash: string(hash),
			Role:         models.RoleStudent,
			Active:       true,
		},
	}}
	h := newAuthHandler(repo)

	w := httptest.NewRecorder()
	c := jsonRequest(w, http.MethodPost, "/auth/login", models.LoginRequest{
		Phone:    "01012345678",
		Password: "wrong-pass",
	})

	h.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAuthHandler(&authRepoStub{students: map[string]*models.Student{}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		StudentID: "s1",
		Name:      "김블로그",
		Role:      models.RoleStudent,
	})

	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.StudentInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "s1", body.Data.ID)
	assert.Equal(t, "김블로그", body.Data.Name)
}
