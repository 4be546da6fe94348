package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	"github.com/mamadbah2/dinopark/internal/domain/park"
	"github.com/mamadbah2/dinopark/internal/service/keeper"
	"github.com/mamadbah2/dinopark/internal/service/reporting"
)

type fakeRoster struct {
	appended []models.DinosaurSnapshot
	err      error
}

func (f *fakeRoster) Append(_ context.Context, d *models.Dinosaur) error {
	f.appended = append(f.appended, d.Snapshot())
	return f.err
}

func addRequest(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/dinosaurs", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func TestAddDinosaur_AppendsToRoster(t *testing.T) {
	k := keeper.New(park.New("Isla Nublar", 250), nil)
	roster := &fakeRoster{}
	h := NewParkHandler(k, reporting.NewService(k, nil, nil), roster, nil)

	c, rec := addRequest(`{"species":"Raptor","diet":"carnivore","daily_attraction":200}`)
	h.AddDinosaur(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []models.DinosaurSnapshot{{Species: "Raptor", Diet: models.DietCarnivore, DailyAttraction: 200}}, roster.appended)
	assert.Equal(t, 1, k.Len())
}

func TestAddDinosaur_RosterFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	k := keeper.New(park.New("Isla Nublar", 250), nil)
	h := NewParkHandler(k, reporting.NewService(k, nil, nil), &fakeRoster{err: errors.New("sheet offline")}, zap.New(core))

	c, rec := addRequest(`{"species":"Raptor","diet":"carnivore","daily_attraction":200}`)
	h.AddDinosaur(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, k.Len())
	assert.Equal(t, 1, logs.FilterMessage("roster append failed").Len())
}
