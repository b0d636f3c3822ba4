package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"bizportal/internal/common"
	"bizportal/internal/models"
	"bizportal/internal/repositories"
	"bizportal/internal/services"
)

const testUserHeader = "X-Test-User"

// withTestPrincipal stands in for the JWT middleware
func withTestPrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if userID := c.Request().Header.Get(testUserHeader); userID != "" {
			ctx := common.WithPrincipal(c.Request().Context(), &models.Principal{UserID: userID})
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}

type stubBackupService struct {
	receipt *models.BackupReceipt
	err     error
}

func (s *stubBackupService) Export(ctx context.Context, principal *models.Principal) (*models.BackupReceipt, error) {
	return s.receipt, s.err
}

func (s *stubBackupService) ExportNamespace(ctx context.Context, namespace, trigger string) (*models.BackupReceipt, error) {
	return s.receipt, s.err
}

func (s *stubBackupService) Enabled() bool { return s.err == nil }

type BusinessHandlersTestSuite struct {
	suite.Suite
	root         string
	echo         *echo.Echo
	configRepo   repositories.TenantConfigRepository
	businessRepo repositories.BusinessRepository
	backup       *stubBackupService
}

func (suite *BusinessHandlersTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.configRepo = repositories.NewFileTenantConfigRepo(suite.root)
	suite.businessRepo = repositories.NewFileBusinessRepo(suite.root, nil)
	suite.backup = &stubBackupService{err: common.ErrBackupDisabled}

	resolver := services.NewTenantResolver(suite.configRepo, services.DefaultNamespace, nil)
	businessHandlers := NewBusinessHandlers(services.NewBusinessService(resolver, suite.businessRepo, nil), suite.backup)
	configHandlers := NewTenantConfigHandlers(services.NewTenantConfigService(suite.configRepo, suite.businessRepo, resolver, services.DefaultNamespace))

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zap.NewNop())
	e.Validator = NewRequestValidator()

	v1 := e.Group("/v1", withTestPrincipal)
	v1.GET("/business", businessHandlers.GetBusinessInfo)
	v1.PUT("/business", businessHandlers.SaveBusinessInfo)
	v1.POST("/business", businessHandlers.SaveBusinessInfo)
	v1.GET("/business/template", businessHandlers.GetBusinessTemplate)
	v1.POST("/business/backup", businessHandlers.ExportBusinessInfo)
	v1.GET("/userconfig", configHandlers.GetTenantConfig)
	v1.PUT("/userconfig", configHandlers.UpdateTenantConfig)
	suite.echo = e
}

func TestBusinessHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(BusinessHandlersTestSuite))
}

func (suite *BusinessHandlersTestSuite) do(method, target, userID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *BusinessHandlersTestSuite) errorBody(rec *httptest.ResponseRecorder) string {
	var body common.ErrorResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func (suite *BusinessHandlersTestSuite) TestGetBusinessInfo_Unauthorized() {
	rec := suite.do(http.MethodGet, "/v1/business", "", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.Equal(suite.T(), "Unauthorized", suite.errorBody(rec))
}

func (suite *BusinessHandlersTestSuite) TestSaveBusinessInfo_Unauthorized() {
	rec := suite.do(http.MethodPut, "/v1/business", "", `{"business_name":"x"}`)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.Equal(suite.T(), "Unauthorized", suite.errorBody(rec))
}

func (suite *BusinessHandlersTestSuite) TestRoundTripThroughDefaultNamespace() {
	// a user with no config resolves to the shared default namespace
	rec := suite.do(http.MethodGet, "/v1/business", "u1", "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "Business information not found", suite.errorBody(rec))

	rec = suite.do(http.MethodPut, "/v1/business", "u1", `{"business_name":"Test Restaurant","email":"t@example.com"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var saved models.BusinessRecord
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(suite.T(), "Test Restaurant", saved.BusinessName)
	assert.Equal(suite.T(), "t@example.com", saved.Email)
	assert.NotEmpty(suite.T(), saved.UpdatedAt)
	assert.NotEmpty(suite.T(), saved.CreatedAt)
	assert.FileExists(suite.T(), repositories.RecordPath(suite.root, "defaultBPdata"))

	rec = suite.do(http.MethodGet, "/v1/business", "u1", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var loaded models.BusinessRecord
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(suite.T(), saved, loaded)
}

func (suite *BusinessHandlersTestSuite) TestSaveBusinessInfo_PostIsAccepted() {
	rec := suite.do(http.MethodPost, "/v1/business", "u1", `{"business_name":"Posted Cafe"}`)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *BusinessHandlersTestSuite) TestSaveBusinessInfo_EmptyPayload() {
	for _, body := range []string{"", "null", "{}", `{"unknown_field":1}`} {
		rec := suite.do(http.MethodPut, "/v1/business", "u1", body)
		assert.Equal(suite.T(), http.StatusBadRequest, rec.Code, body)
		assert.Equal(suite.T(), "Business information is required", suite.errorBody(rec), body)
	}

	ok, err := suite.businessRepo.Exists(context.Background(), services.DefaultNamespace)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
}

func (suite *BusinessHandlersTestSuite) TestSaveBusinessInfo_MalformedJSON() {
	rec := suite.do(http.MethodPut, "/v1/business", "u1", `{"business_name":`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "Invalid request format", suite.errorBody(rec))
}

func (suite *BusinessHandlersTestSuite) TestSaveBusinessInfo_ValidationErrors() {
	tests := []struct {
		body  string
		field string
	}{
		{`{"business_name":"x","email":"not-an-email"}`, "email"},
		{`{"business_name":"x","settings":{"tax_rate":150}}`, "settings.tax_rate"},
		{`{"business_name":"x","branding":{"primary_color":"blue"}}`, "branding.primary_color"},
		{`{"business_name":"x","business_hours":{"monday":{"open":"9am"}}}`, "business_hours[monday].open"},
	}
	for _, tt := range tests {
		rec := suite.do(http.MethodPut, "/v1/business", "u1", tt.body)
		assert.Equal(suite.T(), http.StatusBadRequest, rec.Code, tt.body)
		assert.Equal(suite.T(), "Invalid value for field '"+tt.field+"'", suite.errorBody(rec), tt.body)
	}
}

func (suite *BusinessHandlersTestSuite) TestTenantIsolationThroughUserConfig() {
	rec := suite.do(http.MethodPut, "/v1/userconfig", "u2", `{"customer_folder":"acme-grill"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPut, "/v1/business", "u2", `{"business_name":"Acme Grill"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.FileExists(suite.T(), repositories.RecordPath(suite.root, "acme-grill"))

	// u1 has no config and must not see u2's record
	rec = suite.do(http.MethodGet, "/v1/business", "u1", "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)

	rec = suite.do(http.MethodGet, "/v1/userconfig", "u2", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var cfg models.TenantConfig
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(suite.T(), "acme-grill", cfg.CustomerFolder)
}

func (suite *BusinessHandlersTestSuite) TestSecondUserCannotAttachToClaimedFolder() {
	rec := suite.do(http.MethodPut, "/v1/userconfig", "owner", `{"customer_folder":"acme-grill"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	rec = suite.do(http.MethodPut, "/v1/business", "owner", `{"business_name":"Acme Grill","email":"owner@acme.com"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPut, "/v1/userconfig", "intruder", `{"customer_folder":"acme-grill"}`)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "Customer folder already assigned", suite.errorBody(rec))

	// the intruder still resolves to the default folder and cannot touch the owner's record
	rec = suite.do(http.MethodGet, "/v1/business", "intruder", "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	rec = suite.do(http.MethodPut, "/v1/business", "intruder", `{"business_name":"Overwritten"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodGet, "/v1/business", "owner", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var record models.BusinessRecord
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(suite.T(), "Acme Grill", record.BusinessName)
	assert.Equal(suite.T(), "owner@acme.com", record.Email)
}

func (suite *BusinessHandlersTestSuite) TestUnclaimedFolderWithDataCannotBeClaimed() {
	_, err := suite.businessRepo.Save(context.Background(), "legacy-diner", &models.BusinessRecord{BusinessName: "Legacy Diner"})
	require.NoError(suite.T(), err)

	rec := suite.do(http.MethodPut, "/v1/userconfig", "u1", `{"customer_folder":"legacy-diner"}`)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)

	rec = suite.do(http.MethodPut, "/v1/userconfig", "u1", `{"customer_folder":"defaultBPdata"}`)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
}

func (suite *BusinessHandlersTestSuite) TestUpdateTenantConfig_SubjectOutsideFolderAlphabet() {
	rec := suite.do(http.MethodPut, "/v1/userconfig", "auth0|123", `{"customer_folder":"acme-grill"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodGet, "/v1/userconfig", "auth0|123", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var cfg models.TenantConfig
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(suite.T(), "acme-grill", cfg.CustomerFolder)
}

func (suite *BusinessHandlersTestSuite) TestUpdateTenantConfig_InvalidFolder() {
	rec := suite.do(http.MethodPut, "/v1/userconfig", "u1", `{"customer_folder":"../escape"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "Invalid customer folder", suite.errorBody(rec))
}

func (suite *BusinessHandlersTestSuite) TestGetTenantConfig_Default() {
	rec := suite.do(http.MethodGet, "/v1/userconfig", "u1", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var cfg models.TenantConfig
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(suite.T(), "defaultBPdata", cfg.CustomerFolder)
}

func (suite *BusinessHandlersTestSuite) TestCorruptRecordIsInternalError() {
	_, err := suite.businessRepo.Save(context.Background(), "defaultBPdata", &models.BusinessRecord{BusinessName: "x"})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), os.WriteFile(repositories.RecordPath(suite.root, "defaultBPdata"), []byte("{broken"), 0o644))

	rec := suite.do(http.MethodGet, "/v1/business", "u1", "")
	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	assert.Equal(suite.T(), "Internal server error", suite.errorBody(rec))
	assert.NotContains(suite.T(), rec.Body.String(), suite.root)
}

func (suite *BusinessHandlersTestSuite) TestGetBusinessTemplate() {
	rec := suite.do(http.MethodGet, "/v1/business/template", "u1", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var template models.BusinessRecord
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &template))
	assert.Equal(suite.T(), models.NewDefaultBusinessRecord(), &template)

	// the template is never persisted
	ok, err := suite.businessRepo.Exists(context.Background(), services.DefaultNamespace)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
}

func (suite *BusinessHandlersTestSuite) TestExportBusinessInfo() {
	rec := suite.do(http.MethodPost, "/v1/business/backup", "u1", "")
	assert.Equal(suite.T(), http.StatusServiceUnavailable, rec.Code)
	assert.Equal(suite.T(), "Backup storage not configured", suite.errorBody(rec))

	suite.backup.err = common.ErrNotFound
	rec = suite.do(http.MethodPost, "/v1/business/backup", "u1", "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)

	suite.backup.err = nil
	suite.backup.receipt = &models.BackupReceipt{Bucket: "business-backups", ObjectKey: "defaultBPdata/x.json", URL: "https://signed"}
	rec = suite.do(http.MethodPost, "/v1/business/backup", "u1", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var receipt models.BackupReceipt
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(suite.T(), *suite.backup.receipt, receipt)
}

func TestHTTPErrorHandler_MasksInternalErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zap.NewNop())
	e.GET("/plain", func(c echo.Context) error {
		return errors.New("open /srv/data/secret: permission denied")
	})
	e.GET("/http", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "open /srv/data/secret")
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	for _, path := range []string{"/plain", "/http"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.JSONEq(t, `{"error":"short and stout"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestBusinessError(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{common.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{common.ErrInvalidInput, http.StatusBadRequest, "Business information is required"},
		{common.ErrNotFound, http.StatusNotFound, "Business information not found"},
		{common.ErrCorruptRecord, http.StatusInternalServerError, "Internal server error"},
		{common.ErrStorageFailure, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		var he *echo.HTTPError
		require.ErrorAs(t, businessError(tt.err), &he)
		assert.Equal(t, tt.code, he.Code)
		assert.Equal(t, tt.message, he.Message)
	}
}
