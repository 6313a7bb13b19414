package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.TokenResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.TokenResponse)
	return resp, args.Error(1)
}

func (m *mockService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.TokenResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.TokenResponse)
	return resp, args.Error(1)
}

func (m *mockService) GetSession(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	session, _ := args.Get(0).(*model.Session)
	return session, args.Error(1)
}

func (m *mockService) InvalidateSession(userID uuid.UUID) {
	m.Called(userID)
}

func post(svc *mockService, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignUp(t *testing.T) {
	svc := &mockService{}
	svc.On("SignUp", mock.Anything, &model.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "s3cret-pass"}).
		Return(&model.TokenResponse{AccessToken: "token", ExpiresIn: 3600}, nil)

	w := post(svc, "/api/v1/auth/sign-up", `{"name":" Ana ","email":"ana@example.com","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"accessToken":"token"`)
	svc.AssertExpectations(t)
}

func TestSignUp_Invalid(t *testing.T) {
	svc := &mockService{}

	w := post(svc, "/api/v1/auth/sign-up", `{"name":"Ana","email":"ana@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"password"`)
	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_Duplicate(t *testing.T) {
	svc := &mockService{}
	svc.On("SignUp", mock.Anything, mock.Anything).Return(nil, apperrors.Conflict("email already registered", nil))

	w := post(svc, "/api/v1/auth/sign-up", `{"name":"Ana","email":"ana@example.com","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignIn(t *testing.T) {
	svc := &mockService{}
	svc.On("SignIn", mock.Anything, &model.SignInRequest{Email: "ana@example.com", Password: "s3cret-pass"}).
		Return(&model.TokenResponse{AccessToken: "token"}, nil)
	svc.On("SignIn", mock.Anything, &model.SignInRequest{Email: "ana@example.com", Password: "wrong"}).
		Return(nil, apperrors.Unauthorized(nil))

	w := post(svc, "/api/v1/auth/sign-in", `{"email":"ana@example.com","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(svc, "/api/v1/auth/sign-in", `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(svc, "/api/v1/auth/sign-in", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
