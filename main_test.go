package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"neogaming/internal/checkout"
	"neogaming/internal/config"
	"neogaming/internal/models"
	"neogaming/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(eventType string, payload any) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	zap.ReplaceGlobals(zap.NewNop())
	os.Exit(m.Run())
}

func newTestApp(t *testing.T, events services.EventPublisher) *fiber.App {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "file:"+t.Name()+"?mode=memory&cache=shared")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	db, err := openDatabase(cfg)
	require.NoError(t, err)

	app, err := NewApp(cfg, db, events)
	require.NoError(t, err)
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := get(t, app, "/api/health")
	assert.Equal(t, http.StatusOK, status)

	var health map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "OK", health["status"])
	assert.NotEmpty(t, health["timestamp"])
}

func TestSeededCatalog(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := get(t, app, "/api/products")
	require.Equal(t, http.StatusOK, status)
	var products []models.Product
	require.NoError(t, json.Unmarshal([]byte(body), &products))
	assert.Len(t, products, len(models.ExampleProducts()))
}

func TestUnknownAPIRoute(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := get(t, app, "/api/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"API endpoint not found"}`, body)
}

func TestPanicBecomesJSON500(t *testing.T) {
	app := newTestApp(t, nil)
	app.Get("/explode", func(*fiber.Ctx) error { panic("kaboom") })

	status, body := get(t, app, "/explode")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Something went wrong on the server"}`, body)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	get(t, app, "/api/health")

	status, body := get(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(body, "neogaming_http_requests_total"))
}

func TestRegisterPublishesEvent(t *testing.T) {
	events := new(MockPublisher)
	events.On("Publish", "user.registered", mock.Anything).Return(nil).Once()
	app := newTestApp(t, events)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"neo","email":"neo@example.com","password":"matrix"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	events.AssertExpectations(t)
}

func TestReceiptsUseConfiguredSecret(t *testing.T) {
	t.Setenv("RECEIPT_SECRET", "main-test-secret")
	app := newTestApp(t, nil)

	gw := checkout.NewSimulatedGateway(checkout.NewReceiptSigner("main-test-secret"))
	gw.Delay = 0
	conf, err := gw.Charge(context.Background(), checkout.ChargeRequest{ProductID: 1, Amount: 59.99})
	require.NoError(t, err)

	verify := func(receipt string) int {
		payload, err := json.Marshal(map[string]string{"receipt": receipt})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/receipts/verify", strings.NewReader(string(payload)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, verify(conf.Receipt))

	other, err := checkout.NewReceiptSigner(config.DefaultReceiptSecret).Sign(checkout.ReceiptClaims{TransactionID: conf.ID})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, verify(other))
}

func TestSetupLogger(t *testing.T) {
	cfg := &config.Config{Env: "production"}
	cfg.Log.Level = "info"
	logger, err := setupLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.Log.File = t.TempDir() + "/neogaming.log"
	logger, err = setupLogger(cfg)
	require.NoError(t, err)
	logger.Info("rotated")
	_ = logger.Sync()
	_, err = os.Stat(cfg.Log.File)
	assert.NoError(t, err)

	cfg.Log.Level = "loud"
	_, err = setupLogger(cfg)
	assert.Error(t, err)
}
