package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository/sqlite"
	"github.com/dk8534/Automated-Asset-Management/internal/service"
)

type apiFixture struct {
	router *gin.Engine
	store  *sqlite.Store
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewStore(db)
	require.NoError(t, store.Init(context.Background()))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	handler := NewHandler(
		service.NewUserService(store),
		service.NewAssetService(store, logger),
		service.NewReportService(store),
		nil, "", "",
		"test-secret",
		time.Hour,
		logger,
	)
	router := gin.New()
	handler.RegisterRoutes(router)

	return &apiFixture{router: router, store: store}
}

func (f *apiFixture) seedUser(t *testing.T, username, password string, role domain.Role) int64 {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	id, err := f.store.Stores().Users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	require.NoError(t, err)
	require.NoError(t, f.store.Stores().Profiles.Upsert(ctx, &domain.UserProfile{
		UserID:     id,
		Role:       role,
		EmployeeID: "EMP-" + username,
	}))
	return id
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) login(t *testing.T, username, password string) string {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginAndToken(t *testing.T) {
	f := newAPIFixture(t)
	f.seedUser(t, "admin", "admin123", domain.RoleAdmin)

	token := f.login(t, "admin", "admin123")

	rec := f.do(t, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginBadPassword(t *testing.T) {
	f := newAPIFixture(t)
	f.seedUser(t, "admin", "admin123", domain.RoleAdmin)

	rec := f.do(t, http.MethodPost, "/api/login", "", gin.H{
		"username": "admin",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/assets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/assets", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingProfileForbidden(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = f.store.Stores().Users.Create(ctx, &domain.User{
		Username:     "orphan",
		PasswordHash: string(hash),
	})
	require.NoError(t, err)

	token := f.login(t, "orphan", "pw")
	rec := f.do(t, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateAssetRoleEnforcement(t *testing.T) {
	f := newAPIFixture(t)
	f.seedUser(t, "admin", "admin123", domain.RoleAdmin)
	f.seedUser(t, "incharge", "incharge123", domain.RoleAssetIncharge)

	payload := gin.H{
		"serial_number":  "LAP001",
		"display_name":   "Dell Latitude 7420",
		"department":     "Engineering",
		"model_category": "laptop",
		"company":        "Dell Inc.",
	}

	inchargeToken := f.login(t, "incharge", "incharge123")
	rec := f.do(t, http.MethodPost, "/api/assets", inchargeToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := f.login(t, "admin", "admin123")
	rec = f.do(t, http.MethodPost, "/api/assets", adminToken, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate serial is a validation error, not a 500.
	rec = f.do(t, http.MethodPost, "/api/assets", adminToken, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "serial_number")
}

func TestAssignAndReturnFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.seedUser(t, "admin", "admin123", domain.RoleAdmin)
	f.seedUser(t, "incharge", "incharge123", domain.RoleAssetIncharge)
	holderID := f.seedUser(t, "user1", "user123", domain.RoleUser)

	adminToken := f.login(t, "admin", "admin123")
	rec := f.do(t, http.MethodPost, "/api/assets", adminToken, gin.H{
		"serial_number":  "LAP001",
		"display_name":   "Dell Latitude 7420",
		"department":     "Engineering",
		"model_category": "laptop",
		"company":        "Dell Inc.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	inchargeToken := f.login(t, "incharge", "incharge123")
	rec = f.do(t, http.MethodPost, "/api/assets/LAP001/assign", inchargeToken, gin.H{
		"assigned_to": holderID,
		"notes":       "starter kit",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The holder can now see the asset.
	holderToken := f.login(t, "user1", "user123")
	rec = f.do(t, http.MethodGet, "/api/assets/LAP001", holderToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/assets/LAP001/return", inchargeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var asset struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	assert.Equal(t, "available", asset.Status)

	// A second return finds no open assignment.
	rec = f.do(t, http.MethodPost, "/api/assets/LAP001/return", inchargeToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPermissions(t *testing.T) {
	f := newAPIFixture(t)
	f.seedUser(t, "incharge", "incharge123", domain.RoleAssetIncharge)
	f.seedUser(t, "user1", "user123", domain.RoleUser)

	userToken := f.login(t, "user1", "user123")
	rec := f.do(t, http.MethodGet, "/api/assets/export", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	inchargeToken := f.login(t, "incharge", "incharge123")
	rec = f.do(t, http.MethodGet, "/api/assets/export", inchargeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="asset_report.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Body.Bytes())
}
