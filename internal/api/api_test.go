package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tagcly-telemetry-backend/config"
	"tagcly-telemetry-backend/internal/db"
	"tagcly-telemetry-backend/internal/generator"
	"tagcly-telemetry-backend/internal/model"
	"tagcly-telemetry-backend/internal/store"
	"tagcly-telemetry-backend/internal/telemetry"
	"tagcly-telemetry-backend/internal/trend"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  store.Store
}

func newTestServer(t *testing.T, environment string) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))

	cfg := &config.Config{
		Environment: environment,
		Server: config.ServerConfig{
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
			CacheTTLSeconds: 1,
		},
		Home: config.HomeConfig{Latitude: 40.7128, Longitude: -74.006},
		Analytics: config.AnalyticsConfig{
			ActivityLowThreshold:  30,
			ActivityHighThreshold: 70,
			PeriodDays:            7,
		},
	}

	s := store.NewGormStore(gdb)
	locator := telemetry.NewLocator(cfg.Home.Latitude, cfg.Home.Longitude)
	ingestor := telemetry.NewService(s, locator, nil)
	activity := trend.NewActivityAnalyzer(cfg.Analytics.ActivityLowThreshold, cfg.Analytics.ActivityHighThreshold, cfg.Analytics.PeriodDays)
	sleep := trend.NewSleepAnalyzer(cfg.Analytics.PeriodDays)
	gen := generator.NewService(s)
	webpushOptions := &webpush.Options{VAPIDPublicKey: "test-public-key"}

	h := NewHandler(cfg, s, ingestor, activity, sleep, gen, webpushOptions)
	return &testServer{router: NewRouter(h), store: s}
}

func (ts *testServer) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sensorPayload() map[string]interface{} {
	return map[string]interface{}{
		"timestamp":          "2026-08-30T12:00:00Z",
		"pet_id":             "PET123",
		"device_id":          "ESP32_001",
		"temperature":        38.5,
		"heart_rate":         80,
		"steps":              50,
		"activity_intensity": 4.2,
		"latitude":           40.7128,
		"longitude":          -74.006,
		"vocalization":       "bark",
		"loudness":           70,
		"status":             "ok",
	}
}

func TestPostSensorReading_Success(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodPost, "/api/sensors", sensorPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Data saved successfully", decodeBody(t, w)["message"])

	var count int64
	require.NoError(t, ts.store.DB().Model(&model.SensorReading{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPostSensorReading_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, "development")

	req := httptest.NewRequest(http.MethodPost, "/api/sensors", strings.NewReader(`{"pet_id": `))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostSensorReading_ValidationError(t *testing.T) {
	ts := newTestServer(t, "development")

	payload := sensorPayload()
	delete(payload, "device_id")

	w := ts.request(http.MethodPost, "/api/sensors", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "device_id")

	var count int64
	require.NoError(t, ts.store.DB().Model(&model.SensorReading{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPostSensorReading_RangeError(t *testing.T) {
	ts := newTestServer(t, "development")

	payload := sensorPayload()
	payload["temperature"] = 45.0

	w := ts.request(http.MethodPost, "/api/sensors", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "temperature")
}

func TestGetReadings(t *testing.T) {
	ts := newTestServer(t, "development")

	for i := 0; i < 3; i++ {
		payload := sensorPayload()
		payload["timestamp"] = time.Date(2026, 8, 30, 10+i, 0, 0, 0, time.UTC).Format(time.RFC3339)
		payload["steps"] = (i + 1) * 10
		w := ts.request(http.MethodPost, "/api/sensors", payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := ts.request(http.MethodGet, "/api/pets/PET123/readings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var readings []model.SensorReading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
	require.Len(t, readings, 3)
	// Newest first.
	assert.Equal(t, 30, readings[0].Steps)
	assert.Equal(t, 10, readings[2].Steps)
}

func TestGetReadings_InvalidWindow(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodGet, "/api/pets/PET123/readings?start=yesterday&end=2026-08-30T12:00:00Z", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetActivityTrends_NoData(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodGet, "/api/pets/PET123/activity", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No valid activity data with intensity values found", body["message"])
}

func TestGetActivityTrends_WithData(t *testing.T) {
	ts := newTestServer(t, "development")

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		payload := sensorPayload()
		payload["timestamp"] = now.AddDate(0, 0, -i).Format(time.RFC3339)
		payload["activity_intensity"] = 8.0
		w := ts.request(http.MethodPost, "/api/sensors", payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := ts.request(http.MethodGet, "/api/pets/PET123/activity?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["daysAnalyzed"])
	assert.Equal(t, 8.0, data["currentPeriodAverage"])
	assert.Equal(t, "low", data["activityLevel"])
	assert.Nil(t, data["previousPeriodAverage"])
}

func TestGetActivityTrends_BadDays(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodGet, "/api/pets/PET123/activity?days=9999", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.request(http.MethodGet, "/api/pets/PET123/activity?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetActivityTrends_BadResolution(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodGet, "/api/pets/PET123/activity?resolution=monthly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSleepTrends_NoData(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodGet, "/api/pets/PET123/sleep", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No valid sleep data found for this pet", body["message"])
}

func TestGetSleepTrends_WithData(t *testing.T) {
	ts := newTestServer(t, "development")

	night := time.Now().UTC().AddDate(0, 0, -1)
	require.NoError(t, ts.store.SaveSleepSessions(context.Background(), []model.SleepSession{
		{PetID: "PET123", StartTime: night, DurationMinutes: 60, Stage: model.SleepDeep},
		{PetID: "PET123", StartTime: night.Add(time.Hour), DurationMinutes: 40, Stage: model.SleepLight},
	}))

	w := ts.request(http.MethodGet, "/api/pets/PET123/sleep?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, 82.0, data["currentPeriodAverage"])
	assert.Equal(t, "excellent", data["sleepLevel"])
}

func TestGenerateData_ForbiddenInProduction(t *testing.T) {
	ts := newTestServer(t, "production")

	w := ts.request(http.MethodPost, "/api/dev/generate-data", map[string]interface{}{
		"petId": "PET123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerateData_Activity(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodPost, "/api/dev/generate-data", map[string]interface{}{
		"petId": "PET123",
		"days":  2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	count := body["data"].(map[string]interface{})["count"].(float64)
	assert.Greater(t, count, 0.0)

	var rows int64
	require.NoError(t, ts.store.DB().Model(&model.SensorReading{}).Count(&rows).Error)
	assert.Equal(t, int64(count), rows)
}

func TestGenerateData_Sleep(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodPost, "/api/dev/generate-data", map[string]interface{}{
		"petId":    "PET123",
		"days":     2,
		"dataType": "sleep",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var rows int64
	require.NoError(t, ts.store.DB().Model(&model.SleepSession{}).Count(&rows).Error)
	assert.Greater(t, rows, int64(0))
}

func TestGenerateData_MissingPetID(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodPost, "/api/dev/generate-data", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	ts := newTestServer(t, "development")

	require.NoError(t, ts.store.DB().Create(&model.Pet{
		PetID: "PET123", CurrentStatus: model.PresenceHome, LastUpdated: time.Now(),
	}).Error)

	endpoint := "https://push.example/sub-1"
	w := ts.request(http.MethodPut, "/api/subscriptions", map[string]interface{}{
		"endpoint":        endpoint,
		"p256dh":          "p256dh-key",
		"auth":            "auth-secret",
		"subscribed_pets": []string{"PET123"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	pets := body["subscribed_pets"].([]interface{})
	require.Len(t, pets, 1)
	assert.Equal(t, "PET123", pets[0])

	w = ts.request(http.MethodDelete, "/api/subscriptions", map[string]interface{}{
		"endpoint": endpoint,
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = ts.request(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	ts := newTestServer(t, "development")

	w := ts.request(http.MethodGet, "/api/vapid_public_key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-public-key", decodeBody(t, w)["public_key"])
}
