package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
	"github.com/yigit/examcraft/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func newAuthRouter(jwt *auth.JWTService) *gin.Engine {
	r := gin.New()
	r.GET("/me", NewAuthMiddleware(jwt).JWTAuth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "s", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	token, _, err := jwt.GenerateAccessToken(&models.User{ID: "3f1c3b8e-8a3e-4a57-9d1e-2b8f3f5c6a10", Email: "a@b.fr"})
	require.NoError(t, err)
	r := newAuthRouter(jwt)

	cases := []struct {
		name   string
		url    string
		header string
		status int
	}{
		{"missing", "/me", "", http.StatusUnauthorized},
		{"garbage", "/me", "Bearer nope", http.StatusUnauthorized},
		{"bare bearer", "/me", "Bearer", http.StatusUnauthorized},
		{"valid header", "/me", "Bearer " + token, http.StatusOK},
		{"valid query", "/me?token=" + token, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "3f1c3b8e-8a3e-4a57-9d1e-2b8f3f5c6a10", w.Body.String())
			}
		})
	}
}

func serveError(err error) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestHandleAPIErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrExamNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("loading: %w", apperrors.ErrExamNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrEmptyExam, http.StatusBadRequest, dto.ErrorCodeEmptyExam},
		{apperrors.ErrExportInProgress, http.StatusConflict, dto.ErrorCodeResourceInvalid},
		{fmt.Errorf("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tc := range cases {
		w := serveError(tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Equal(t, tc.code, decodeError(t, w).Error.Code)
	}
}

func TestRenderFailureHidesCause(t *testing.T) {
	w := serveError(fmt.Errorf("%w: fragment 2: %w", apperrors.ErrRenderFailed, fmt.Errorf("font missing")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, RenderFailedMessage, resp.Error.Message)
	assert.NotContains(t, w.Body.String(), "font missing")
}

func TestComponentIssuesAreReported(t *testing.T) {
	err := models.ValidateIdentity([]models.Component{
		&models.TextComponent{BaseComponent: models.BaseComponent{ID: "a"}},
		&models.TextComponent{BaseComponent: models.BaseComponent{ID: "a"}},
	})
	require.Error(t, err)

	w := serveError(err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate component id")
}

func TestHandleBindingErrorListsFields(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindingError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"not-an-email"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email must be a valid email address")
	assert.Contains(t, w.Body.String(), "Password is required")
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"path":"/health"`)
	assert.Contains(t, buf.String(), `"status":200`)
}
