package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapfolio/backend/internal/models"
	"github.com/tapfolio/backend/internal/service"
)

type stubResolver struct {
	profiles map[uuid.UUID]*models.Profile
}

func (s *stubResolver) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, service.ErrNotFound
}

type recordedClick struct {
	ProfileID uuid.UUID
	LinkType  string
	LinkValue string
}

type stubSink struct {
	clicks []recordedClick
}

func (s *stubSink) Record(profileID uuid.UUID, linkType, linkValue string) {
	s.clicks = append(s.clicks, recordedClick{profileID, linkType, linkValue})
}

func setupCardRouter(t *testing.T, profiles ...*models.Profile) (*gin.Engine, *stubSink) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := &stubResolver{profiles: make(map[uuid.UUID]*models.Profile)}
	for _, p := range profiles {
		resolver.profiles[p.ID] = p
	}
	sink := &stubSink{}

	router := gin.New()
	NewCardHandler(resolver, sink).RegisterRoutes(router.Group("/api/v1"))
	return router, sink
}

func cardProfile() *models.Profile {
	return &models.Profile{
		ID:          uuid.New(),
		Email:       "asha@x.com",
		Name:        "Asha",
		Designation: "Architect",
		Phone:       "+911234567890",
		Website:     "https://asha.in",
		IsAdmin:     true,
	}
}

func TestGetCard(t *testing.T) {
	profile := cardProfile()
	router, _ := setupCardRouter(t, profile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/cards/"+profile.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, profile.ID, resp.ID)
	assert.Equal(t, "Asha", resp.Name)
	assert.Equal(t, map[string]string{
		models.LinkPhone:   "+911234567890",
		models.LinkWebsite: "https://asha.in",
	}, resp.Links)
}

func TestGetCardOmitsPrivateFields(t *testing.T) {
	profile := cardProfile()
	router, _ := setupCardRouter(t, profile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/cards/"+profile.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "asha@x.com")
	assert.NotContains(t, body, "is_admin")
	assert.NotContains(t, body, "password")
}

func TestGetCardNotFound(t *testing.T) {
	router, _ := setupCardRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/cards/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/cards/not-a-uuid", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordClick(t *testing.T) {
	profile := cardProfile()
	router, sink := setupCardRouter(t, profile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/cards/"+profile.ID.String()+"/clicks",
		strings.NewReader(`{"link_type":"phone"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, sink.clicks, 1)
	assert.Equal(t, profile.ID, sink.clicks[0].ProfileID)
	assert.Equal(t, models.LinkPhone, sink.clicks[0].LinkType)
	assert.Equal(t, "+911234567890", sink.clicks[0].LinkValue)
}

func TestRecordClickUnknownLinkType(t *testing.T) {
	profile := cardProfile()
	router, sink := setupCardRouter(t, profile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/cards/"+profile.ID.String()+"/clicks",
		strings.NewReader(`{"link_type":"telegram"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, sink.clicks)
}

func TestRecordClickUnsetLink(t *testing.T) {
	profile := cardProfile()
	router, sink := setupCardRouter(t, profile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/cards/"+profile.ID.String()+"/clicks",
		strings.NewReader(`{"link_type":"instagram"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, sink.clicks)
}

func TestClickLimitsSkipCardViews(t *testing.T) {
	gin.SetMode(gin.TestMode)
	profile := cardProfile()
	resolver := &stubResolver{profiles: map[uuid.UUID]*models.Profile{profile.ID: profile}}

	limited := 0
	limiter := func(c *gin.Context) { limited++ }

	router := gin.New()
	NewCardHandler(resolver, &stubSink{}).RegisterRoutes(router.Group("/api/v1"), limiter)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/cards/"+profile.ID.String(), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, limited, "card views bypass the click limiter")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/cards/"+profile.ID.String()+"/clicks",
		strings.NewReader(`{"link_type":"phone"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, limited)
}

func TestRecordClickMissingBody(t *testing.T) {
	profile := cardProfile()
	router, sink := setupCardRouter(t, profile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/cards/"+profile.ID.String()+"/clicks",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, sink.clicks)
}
