package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiresync/validation-queue-api/internal/models"
)

type productivityServiceMock struct {
	allResp     []models.AnalystProductivity
	allErr      error
	oneResp     *models.AnalystProductivity
	oneErr      error
	lastAnalyst string
}

func (m *productivityServiceMock) All(ctx context.Context) ([]models.AnalystProductivity, error) {
	return m.allResp, m.allErr
}

func (m *productivityServiceMock) ForAnalyst(ctx context.Context, analyst string) (*models.AnalystProductivity, error) {
	m.lastAnalyst = analyst
	return m.oneResp, m.oneErr
}

func TestProductivityHandlerAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &productivityServiceMock{
		allResp: []models.AnalystProductivity{
			{Analyst: "Ana Lima", TotalValidated: 12, AvgDurationSeconds: 84.5, TotalRollbacks: 1},
		},
	}
	handler := NewProductivityHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/productivity", nil)
	c.Request = req

	handler.All(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.AnalystProductivity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 12, body.Data[0].TotalValidated)
}

func TestProductivityHandlerForAnalyst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &productivityServiceMock{
		oneResp: &models.AnalystProductivity{Analyst: "Ana Lima", TotalValidated: 12},
	}
	handler := NewProductivityHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/productivity/Ana%20Lima", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "analyst", Value: "Ana Lima"}}

	handler.ForAnalyst(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana Lima", mockSvc.lastAnalyst)
}

func TestProductivityHandlerAllError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewProductivityHandler(&productivityServiceMock{allErr: errors.New("boom")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/productivity", nil)
	c.Request = req

	handler.All(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
