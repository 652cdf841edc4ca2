package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gym-desk-go/internal/config"
	checkindomain "gym-desk-go/internal/domain/checkin"
	membersdomain "gym-desk-go/internal/domain/members"
	reportsdomain "gym-desk-go/internal/domain/reports"
	checkinrepo "gym-desk-go/internal/repository/postgres/checkin"
	membersrepo "gym-desk-go/internal/repository/postgres/members"
	reportsrepo "gym-desk-go/internal/repository/postgres/reports"
	"gym-desk-go/internal/storage"
	"gym-desk-go/internal/transport/httpserver"
	"gym-desk-go/internal/transport/httpserver/handler"
	"gym-desk-go/pkg/logger"
)

const (
	testStaffEmail    = "staff@example.com"
	testStaffPassword = "front-desk-pass"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&membersdomain.Member{},
		&membersdomain.Membership{},
		&membersdomain.Payment{},
		&checkindomain.Event{},
	))

	hash, err := bcrypt.GenerateFromPassword([]byte(testStaffPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Config{
		ReceiptsDir:        t.TempDir(),
		CORSAllowedOrigins: []string{"*"},
		Auth: config.AuthConfig{
			JWTSecret:         "router-test-secret",
			StaffEmail:        testStaffEmail,
			StaffPasswordHash: string(hash),
			SessionTTL:        time.Hour,
		},
		Dashboard: config.DashboardConfig{ExpiringWindowDays: 7, ExpiredLookbackDays: 30, RecentCheckIns: 10},
	}

	log := logger.New(io.Discard, slog.LevelError, "json")

	receipts, err := storage.NewReceiptStore(cfg.ReceiptsDir)
	require.NoError(t, err)

	membersService := membersdomain.NewService(membersrepo.NewPostgres(db))
	checkinService := checkindomain.NewService(membersService, checkinrepo.NewPostgres(db))
	reportsService := reportsdomain.NewService(
		reportsrepo.NewPostgres(db),
		cfg.Dashboard.ExpiringWindowDays,
		cfg.Dashboard.ExpiredLookbackDays,
	)

	handlers := handler.New(membersService, checkinService, reportsService, receipts, cfg, log)
	server := httptest.NewServer(httpserver.NewRouter(cfg, handlers, log))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func getJSON(t *testing.T, url, token string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func loginToken(t *testing.T, baseURL string) string {
	t.Helper()

	resp, body := postJSON(t, baseURL+"/api/auth/login", "", map[string]string{
		"email":    testStaffEmail,
		"password": testStaffPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestHealthIsPublic(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestStaffRoutesRequireSession(t *testing.T) {
	server := newTestServer(t)

	resp, _ := getJSON(t, server.URL+"/api/members", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = getJSON(t, server.URL+"/api/members", "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := loginToken(t, server.URL)
	resp, body := getJSON(t, server.URL+"/api/members", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server := newTestServer(t)

	resp, _ := postJSON(t, server.URL+"/api/auth/login", "", map[string]string{
		"email":    testStaffEmail,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = postJSON(t, server.URL+"/api/auth/login", "", map[string]string{
		"email":    "someone@else.com",
		"password": testStaffPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestKioskCheckInFlow(t *testing.T) {
	server := newTestServer(t)
	token := loginToken(t, server.URL)

	resp, body := postJSON(t, server.URL+"/api/members", token, map[string]string{
		"first_name": "Ana",
		"last_name":  "García",
		"phone":      "5551234567",
		"email":      "ana@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var member struct {
		ID         string `json:"id"`
		AccessCode string `json:"access_code"`
	}
	require.NoError(t, json.Unmarshal(body, &member))
	require.Len(t, member.AccessCode, 5)

	// Without a membership the kiosk denies entry; no session needed.
	resp, body = postJSON(t, server.URL+"/api/checkin", "", map[string]string{
		"identifier": member.AccessCode,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var decision struct {
		Admitted bool   `json:"admitted"`
		Reason   string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(body, &decision))
	assert.False(t, decision.Admitted)
	assert.Equal(t, "never registered for a plan", decision.Reason)

	// Unknown identifiers get a kiosk-friendly 404.
	resp, _ = postJSON(t, server.URL+"/api/checkin", "", map[string]string{
		"identifier": "00000",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Blank identifiers are rejected outright.
	resp, _ = postJSON(t, server.URL+"/api/checkin", "", map[string]string{
		"identifier": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMembershipAndPaymentFlow(t *testing.T) {
	server := newTestServer(t)
	token := loginToken(t, server.URL)

	resp, body := postJSON(t, server.URL+"/api/members", token, map[string]string{
		"first_name": "Ana",
		"last_name":  "García",
		"phone":      "5551234567",
		"email":      "ana@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var member struct {
		ID         string `json:"id"`
		AccessCode string `json:"access_code"`
	}
	require.NoError(t, json.Unmarshal(body, &member))

	today := time.Now().UTC().Format("2006-01-02")
	resp, body = postJSON(t, server.URL+"/api/members/"+member.ID+"/memberships", token, map[string]string{
		"type":       "monthly",
		"start_date": today,
		"cost":       "500.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var membership struct {
		ID      string `json:"id"`
		EndDate string `json:"end_date"`
		Paid    bool   `json:"paid"`
	}
	require.NoError(t, json.Unmarshal(body, &membership))
	assert.False(t, membership.Paid)
	assert.NotEmpty(t, membership.EndDate)

	// Unknown plan types fail loudly.
	resp, body = postJSON(t, server.URL+"/api/members/"+member.ID+"/memberships", token, map[string]string{
		"type":       "quarterly",
		"start_date": today,
		"cost":       "500.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("amount", "500.00"))
	require.NoError(t, mw.WriteField("method", "card"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/memberships/"+membership.ID+"/payments", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	payResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	payBody, err := io.ReadAll(payResp.Body)
	require.NoError(t, err)
	payResp.Body.Close()
	require.Equal(t, http.StatusCreated, payResp.StatusCode, string(payBody))

	// The gate now admits the member.
	resp, body = postJSON(t, server.URL+"/api/checkin", "", map[string]string{
		"identifier": member.AccessCode,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var decision struct {
		Admitted       bool   `json:"admitted"`
		MembershipType string `json:"membership_type"`
	}
	require.NoError(t, json.Unmarshal(body, &decision))
	assert.True(t, decision.Admitted)
	assert.Equal(t, "monthly", decision.MembershipType)
}
