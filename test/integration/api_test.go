// Package integration provides end-to-end integration tests for the token API.
// Tests the full token lifecycle against both PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredock/sharetoken/internal/app"
	"github.com/caredock/sharetoken/internal/config"
	"github.com/caredock/sharetoken/internal/httputil"
	"github.com/caredock/sharetoken/internal/testutil"
	tokenDTO "github.com/caredock/sharetoken/internal/token/http/dto"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// issueToken issues a token through the API and returns the response.
func (ctx *integrationTestContext) issueToken(
	t *testing.T,
	subjectID uuid.UUID,
	scope string,
	ttlSeconds int64,
	maxUses *int,
) tokenDTO.IssueTokenResponse {
	t.Helper()

	requestBody := tokenDTO.IssueTokenRequest{
		SubjectID:  subjectID.String(),
		Scope:      scope,
		TTLSeconds: ttlSeconds,
		MaxUses:    maxUses,
	}

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens", requestBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "issue failed: %s", string(body))

	var response tokenDTO.IssueTokenResponse
	require.NoError(t, json.Unmarshal(body, &response))
	require.NotEmpty(t, response.TokenID)
	require.NotEmpty(t, response.QRPayload)

	return response
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Setup database
	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	// Create configuration
	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		BookingTokenMaxTTL:   168 * time.Hour,
		RecordTokenMaxTTL:    8760 * time.Hour,
		IssueMaxAttempts:     3,
		StoreTimeout:         3 * time.Second,
		StoreRetryAttempts:   2,
		StoreRetryBackoff:    10 * time.Millisecond,
		RecordFetchLimit:     10,
		AccessLogListLimit:   50,
	}

	// Create DI container
	container := app.NewContainer(cfg)

	// Setup HTTP server
	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil")

	// Create test server with the handler
	testServer := httptest.NewServer(handler)

	t.Logf("Integration test setup complete for %s", dbDriver)

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	t.Logf("Integration test teardown complete for %s", ctx.dbDriver)
}

func driverCases() []struct {
	name     string
	dbDriver string
} {
	return []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}
}

// TestIntegration_Health_BasicChecks validates infrastructure health and readiness endpoints.
func TestIntegration_Health_BasicChecks(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range driverCases() {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "healthy", response["status"])
			})

			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "ready", response["status"])
			})
		})
	}
}

// TestIntegration_Token_CompleteLifecycle exercises issue, validate, exhaustion,
// audit listing, and revocation through the HTTP API.
func TestIntegration_Token_CompleteLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range driverCases() {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			patientID := testutil.CreateTestPatient(t, ctx.db, tc.dbDriver, "Maria Santos")

			maxUses := 2
			issued := ctx.issueToken(t, patientID, "read_health_record", 3600, &maxUses)

			// [1/6] Validate consumes a use and returns the grant
			t.Run("01_ValidateConsumesUse", func(t *testing.T) {
				requestBody := tokenDTO.ValidateTokenRequest{
					TokenID:    issued.TokenID,
					ConsumerID: "clinic-a",
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/validate", requestBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.ValidateTokenResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, patientID.String(), response.SubjectID)
				assert.Equal(t, "read_health_record", response.Scope)
			})

			// [2/6] Subject mismatch is rejected without burning a use
			t.Run("02_SubjectMismatchDoesNotConsume", func(t *testing.T) {
				requestBody := tokenDTO.ValidateTokenRequest{
					TokenID:           issued.TokenID,
					ConsumerID:        "clinic-b",
					ExpectedSubjectID: uuid.New().String(),
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/validate", requestBody)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)

				var response httputil.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "subject_mismatch", response.Code)
			})

			// [3/6] Second valid use succeeds, third is exhausted
			t.Run("03_ExhaustionAfterMaxUses", func(t *testing.T) {
				requestBody := tokenDTO.ValidateTokenRequest{
					TokenID:    issued.TokenID,
					ConsumerID: "clinic-a",
				}

				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/validate", requestBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/validate", requestBody)
				assert.Equal(t, http.StatusGone, resp.StatusCode)

				var response httputil.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "exhausted_uses", response.Code)
			})

			// [4/6] Access log lists both successful redemptions, newest first
			t.Run("04_AccessLogListsRedemptions", func(t *testing.T) {
				path := fmt.Sprintf("/v1/tokens/%s/access-log?requested_by=%s", issued.TokenID, patientID)
				resp, body := ctx.makeRequest(t, http.MethodGet, path, nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.ListAccessLogResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response.Data, 2)
				for _, entry := range response.Data {
					assert.Equal(t, "clinic-a", entry.ConsumerID)
				}
			})

			// [5/6] Only the owner may revoke
			t.Run("05_RevokeByNonOwnerForbidden", func(t *testing.T) {
				requestBody := tokenDTO.RevokeTokenRequest{
					TokenID:     issued.TokenID,
					RequestedBy: uuid.New().String(),
				}

				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/revoke", requestBody)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			})

			// [6/6] Owner revocation deactivates the token for good
			t.Run("06_RevokeThenValidateGone", func(t *testing.T) {
				revokeBody := tokenDTO.RevokeTokenRequest{
					TokenID:     issued.TokenID,
					RequestedBy: patientID.String(),
				}

				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/revoke", revokeBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				// Revoking again is idempotent
				resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/tokens/revoke", revokeBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				validateBody := tokenDTO.ValidateTokenRequest{
					TokenID:    issued.TokenID,
					ConsumerID: "clinic-a",
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/validate", validateBody)
				assert.Equal(t, http.StatusGone, resp.StatusCode)

				var response httputil.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "revoked", response.Code)
			})
		})
	}
}

// TestIntegration_Redeem_BoundedViews exercises the one-shot redeem flow that
// consumes a token from its QR payload and returns the scoped resource view.
func TestIntegration_Redeem_BoundedViews(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range driverCases() {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			patientID := testutil.CreateTestPatient(t, ctx.db, tc.dbDriver, "Maria Santos")
			doctorID := testutil.CreateTestDoctor(t, ctx.db, tc.dbDriver, "Dr. Budi Rahman")
			testutil.CreateTestAppointment(t, ctx.db, tc.dbDriver, patientID, doctorID, time.Now().Add(-24*time.Hour))
			testutil.CreateTestPrescription(t, ctx.db, tc.dbDriver, patientID, doctorID, time.Now().Add(-12*time.Hour))

			// [1/3] Health record redemption returns the bounded patient summary
			t.Run("01_RedeemHealthRecord", func(t *testing.T) {
				issued := ctx.issueToken(t, patientID, "read_health_record", 3600, nil)

				requestBody := tokenDTO.RedeemTokenRequest{
					QRPayload:  issued.QRPayload,
					ConsumerID: "clinic-a",
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/redeem", requestBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.RedeemTokenResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, patientID.String(), response.SubjectID)
				require.NotNil(t, response.PatientSummary)
				assert.Equal(t, "Maria Santos", response.PatientSummary.Profile.FullName)
				assert.Len(t, response.PatientSummary.Appointments, 1)
				assert.Len(t, response.PatientSummary.Prescriptions, 1)
				assert.Nil(t, response.Doctor)
			})

			// [2/3] Booking redemption returns only the doctor's public profile
			t.Run("02_RedeemBookingProfile", func(t *testing.T) {
				issued := ctx.issueToken(t, doctorID, "booking_with_doctor", 3600, nil)

				requestBody := tokenDTO.RedeemTokenRequest{
					QRPayload:  issued.QRPayload,
					ConsumerID: "patient-scanner",
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/redeem", requestBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.RedeemTokenResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.NotNil(t, response.Doctor)
				assert.Equal(t, "Dr. Budi Rahman", response.Doctor.FullName)
				assert.Nil(t, response.PatientSummary)
			})

			// [3/3] A malformed payload is rejected before touching the store
			t.Run("03_RedeemMalformedPayload", func(t *testing.T) {
				requestBody := tokenDTO.RedeemTokenRequest{
					QRPayload:  "%%%not-a-payload%%%",
					ConsumerID: "clinic-a",
				}

				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/redeem", requestBody)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			})
		})
	}
}
