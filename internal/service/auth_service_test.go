package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bmc-class/bmc-api/internal/models"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type mockAuthRepo struct {
	students      map[string]*models.Student
	phoneIndex    map[string]string
	refreshTokens map[string]*models.RefreshToken
	revoked       []string
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		students:      make(map[string]*models.Student),
		phoneIndex:    make(map[string]string),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
}

func (m *mockAuthRepo) addStudent(student *models.Student) {
	m.students[student.ID] = student
	m.phoneIndex[student.Phone] = student.ID
}

func (m *mockAuthRepo) FindByPhone(ctx context.Context, phone string) (*models.Student, error) {
	if id, ok := m.phoneIndex[phone]; ok {
		cp := *m.students[id]
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if student, ok := m.students[id]; ok {
		cp := *student
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) ExistsByPhone(ctx context.Context, phone string, excludeID string) (bool, error) {
	owner, ok := m.phoneIndex[phone]
	if !ok {
		return false, nil
	}
	return excludeID == "" || owner != excludeID, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "generated"
	}
	cp := *student
	m.addStudent(&cp)
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	cp := *token
	m.refreshTokens[token.Token] = &cp
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := m.refreshTokens[token]; ok {
		cp := *stored
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	for _, stored := range m.refreshTokens {
		if stored.ID == id {
			stored.Revoked = true
		}
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "bmc-api-test",
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceRegister(t *testing.T) {
	repo := newMockAuthRepo()
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	student, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:      "김블로그",
		Phone:     "01012345678",
		Password:  "secret1",
		ClassType: models.ClassOnline,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.True(t, student.Active)
	assert.NotEqual(t, "secret1", student.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("secret1")))
}

func TestAuthServiceRegisterDuplicatePhone(t *testing.T) {
	repo := newMockAuthRepo()
	repo.addStudent(&models.Student{ID: "s1", Phone: "01012345678"})
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:      "김블로그",
		Phone:     "01012345678",
		Password:  "secret1",
		ClassType: models.ClassOnline,
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMockAuthRepo()
	repo.addStudent(&models.Student{
		ID:           "s1",
		Name:         "김블로그",
		Phone:        "01012345678",
		PasswordHash: hashPassword(t, "secret1"),
		Role:         models.RoleStudent,
		Active:       true,
	})
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Phone:    "01012345678",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "s1", resp.Student.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.StudentID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newMockAuthRepo()
	repo.addStudent(&models.Student{
		ID:           "s1",
		Phone:        "01012345678",
		PasswordHash: hashPassword(t, "secret1"),
		Active:       true,
	})
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Phone:    "01012345678",
		Password: "wrong",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newMockAuthRepo()
	repo.addStudent(&models.Student{
		ID:           "s1",
		Phone:        "01012345678",
		PasswordHash: hashPassword(t, "secret1"),
		Active:       false,
	})
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Phone:    "01012345678",
		Password: "secret1",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newMockAuthRepo()
	repo.addStudent(&models.Student{
		ID:     "s1",
		Phone:  "01012345678",
		Role:   models.RoleStudent,
		Active: true,
	})
	repo.refreshTokens["old-token"] = &models.RefreshToken{
		ID:        "rt1",
		StudentID: "s1",
		Token:     "old-token",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "old-token", resp.RefreshToken)
	assert.Contains(t, repo.revoked, "rt1")
}

func TestAuthServiceRefreshExpiredToken(t *testing.T) {
	repo := newMockAuthRepo()
	repo.refreshTokens["stale"] = &models.RefreshToken{
		ID:        "rt1",
		StudentID: "s1",
		Token:     "stale",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newMockAuthRepo(), nil, zap.NewNop(), testAuthConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
}
