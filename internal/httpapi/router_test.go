package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sporcu-lisans-takip/pkg/config"
	"sporcu-lisans-takip/pkg/health"
	"sporcu-lisans-takip/pkg/middleware"
	"sporcu-lisans-takip/pkg/sequence"
	"sporcu-lisans-takip/services/license"
	"sporcu-lisans-takip/services/refdata"
	"sporcu-lisans-takip/services/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	zap.ReplaceGlobals(zap.NewNop())
}

type fixture struct {
	handler    http.Handler
	db         *gorm.DB
	licenseTyp string
	category   string
	athlete    string
	sport      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t,
		&refdata.Athlete{}, &refdata.Sport{}, &refdata.Club{},
		&refdata.LicenseType{}, &refdata.LicenseCategory{},
		&license.License{}, &license.LicenseHistory{},
	)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	athlete := refdata.Athlete{ID: "athlete-1", FirstName: "Ayşe", LastName: "Demir", IsActive: true}
	sport := refdata.Sport{ID: "sport-1", Name: "Swimming", IsActive: true}
	typ := refdata.LicenseType{ID: "type-1", Name: "Annual", ValidityPeriodDays: 365, IsActive: true}
	cat := refdata.LicenseCategory{ID: "cat-1", Name: "Professional", IsActive: true}
	for _, m := range []any{&athlete, &sport, &typ, &cat} {
		require.NoError(t, db.Create(m).Error)
	}

	svc := license.NewService(license.ServiceParams{
		DB:   db,
		Node: node,
		Seq:  sequence.NewStoreAllocator(db),
		Refs: refdata.NewResolver(refdata.ResolverParams{DB: db}),
	})
	query := license.NewQuery(license.QueryParams{DB: db})
	refSvc := refdata.NewService(refdata.ServiceParams{DB: db, Node: node})

	cfg := &config.Config{AppEnv: "test"}
	handler := NewRouter(RouterParams{
		Config:   cfg,
		Licenses: NewLicenseHandler(LicenseHandlerParams{Service: svc, Query: query}),
		Refdata:  NewRefdataHandler(RefdataHandlerParams{Service: refSvc}),
		Health:   health.ProvideHealth(health.HealthParams{DB: db}),
	})

	return &fixture{
		handler:    handler,
		db:         db,
		licenseTyp: typ.ID,
		category:   cat.ID,
		athlete:    athlete.ID,
		sport:      sport.ID,
	}
}

func (f *fixture) do(t *testing.T, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.ActorIDHeader, actor)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) issue(t *testing.T) licenseResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/licenses", "admin-1", gin.H{
		"athlete_id":          f.athlete,
		"sport_id":            f.sport,
		"license_type_id":     f.licenseTyp,
		"license_category_id": f.category,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out licenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestIssueEndpoint(t *testing.T) {
	f := newFixture(t)

	lic := f.issue(t)
	require.Equal(t, fmt.Sprintf("L%d000001", time.Now().UTC().Year()), lic.LicenseNumber)
	require.Equal(t, license.StatusActive, lic.Status)
	require.Equal(t, "admin-1", lic.IssuedByID)
}

func TestIssueRequiresActor(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/licenses", "", gin.H{
		"athlete_id":          f.athlete,
		"sport_id":            f.sport,
		"license_type_id":     f.licenseTyp,
		"license_category_id": f.category,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIssueUnknownAthlete(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/licenses", "admin-1", gin.H{
		"athlete_id":          "nobody",
		"sport_id":            f.sport,
		"license_type_id":     f.licenseTyp,
		"license_category_id": f.category,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIssueSequenceExhausted(t *testing.T) {
	f := newFixture(t)

	now := time.Now().UTC()
	require.NoError(t, f.db.Create(&license.License{
		ID:                "ceiling",
		LicenseNumber:     fmt.Sprintf("L%d999999", now.Year()),
		AthleteID:         f.athlete,
		SportID:           f.sport,
		LicenseTypeID:     f.licenseTyp,
		LicenseCategoryID: f.category,
		IssueDate:         now,
		ExpiryDate:        now.AddDate(1, 0, 0),
		Status:            license.StatusActive,
		IsActive:          true,
	}).Error)

	rec := f.do(t, http.MethodPost, "/api/licenses", "admin-1", gin.H{
		"athlete_id":          f.athlete,
		"sport_id":            f.sport,
		"license_type_id":     f.licenseTyp,
		"license_category_id": f.category,
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestGetEndpoint(t *testing.T) {
	f := newFixture(t)
	lic := f.issue(t)

	rec := f.do(t, http.MethodGet, "/api/licenses/"+lic.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/licenses/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLookupByNumber(t *testing.T) {
	f := newFixture(t)
	lic := f.issue(t)

	rec := f.do(t, http.MethodGet, "/api/licenses?number="+lic.LicenseNumber, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/licenses?number=L1999000001", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuspendRequiresReason(t *testing.T) {
	f := newFixture(t)
	lic := f.issue(t)

	rec := f.do(t, http.MethodPost, "/api/licenses/"+lic.ID+"/suspend", "admin-1", gin.H{"reason": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/licenses/"+lic.ID+"/suspend", "admin-1", gin.H{"reason": "doping investigation"})
	require.Equal(t, http.StatusOK, rec.Code)

	var out licenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, license.StatusSuspended, out.Status)
}

func TestRenewCancelledConflicts(t *testing.T) {
	f := newFixture(t)
	lic := f.issue(t)

	rec := f.do(t, http.MethodPost, "/api/licenses/"+lic.ID+"/cancel", "admin-1", gin.H{"reason": "athlete retired"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/licenses/"+lic.ID+"/renew", "admin-1", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	f := newFixture(t)
	lic := f.issue(t)

	rec := f.do(t, http.MethodPost, "/api/licenses/"+lic.ID+"/suspend", "admin-1", gin.H{"reason": "doping investigation"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/licenses/"+lic.ID+"/history", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data []historyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data, 2)
	require.Equal(t, license.ActionCreated, out.Data[0].Action)
	require.Equal(t, license.ActionSuspended, out.Data[1].Action)
}

func TestPurgeEndpoint(t *testing.T) {
	f := newFixture(t)
	lic := f.issue(t)

	rec := f.do(t, http.MethodDelete, "/api/licenses/"+lic.ID, "admin-1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/licenses/"+lic.ID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.issue(t)

	rec := f.do(t, http.MethodGet, "/api/reports/licenses/statistics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats license.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, int64(1), stats.Total)
	require.Equal(t, int64(1), stats.Active)
}

func TestRefdataEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/sports", "admin-1", gin.H{"name": "Archery"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/license-types", "admin-1", gin.H{
		"name": "Seasonal", "validity_period_days": 180,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/license-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data []refdata.LicenseType `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data, 2)
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
