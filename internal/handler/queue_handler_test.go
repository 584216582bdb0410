package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiresync/validation-queue-api/internal/dto"
	"github.com/hiresync/validation-queue-api/internal/models"
)

type queueServiceMock struct {
	listResp   *dto.QueueResponse
	listErr    error
	lastQuery  dto.QueueQuery
	refreshErr error
	refreshed  bool
}

func (m *queueServiceMock) List(ctx context.Context, query dto.QueueQuery) (*dto.QueueResponse, error) {
	m.lastQuery = query
	return m.listResp, m.listErr
}

func (m *queueServiceMock) Refresh(ctx context.Context) error {
	m.refreshed = true
	return m.refreshErr
}

func newQueueContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	c.Request = req
	return c, w
}

func TestQueueHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &queueServiceMock{
		listResp: &dto.QueueResponse{
			Candidates: []models.Candidate{{Code: "REQ-1", Name: "Maria Silva"}},
			Total:      1,
			LoadedAt:   time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		},
	}
	handler := NewQueueHandler(mockSvc)

	c, w := newQueueContext("/queue?scope=pending&q=maria&status=all&responsible=ana,%20bruno&sort=progress&dir=desc")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ScopePending, mockSvc.lastQuery.Scope)
	assert.Equal(t, "maria", mockSvc.lastQuery.Search)
	assert.Equal(t, "all", mockSvc.lastQuery.Status)
	assert.Equal(t, []string{"ana", "bruno"}, mockSvc.lastQuery.Responsible)
	assert.Equal(t, dto.SortByProgress, mockSvc.lastQuery.SortBy)
	assert.Equal(t, dto.SortDesc, mockSvc.lastQuery.SortDirection)

	var body struct {
		Data dto.QueueResponse          `json:"data"`
		Meta map[string]json.RawMessage `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Candidates, 1)
	assert.Equal(t, "REQ-1", body.Data.Candidates[0].Code)
	assert.Contains(t, body.Meta, "loadedAt")
}

func TestQueueHandlerListDateRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &queueServiceMock{listResp: &dto.QueueResponse{}}
	handler := NewQueueHandler(mockSvc)

	c, w := newQueueContext("/queue?admitted_from=2024-01-01&admitted_to=2024-01-31")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastQuery.AdmittedFrom)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *mockSvc.lastQuery.AdmittedFrom)
	require.NotNil(t, mockSvc.lastQuery.AdmittedTo)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *mockSvc.lastQuery.AdmittedTo)
}

func TestQueueHandlerListRejectsBadParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewQueueHandler(&queueServiceMock{listResp: &dto.QueueResponse{}})

	for _, target := range []string{
		"/queue?scope=archived",
		"/queue?admitted_from=31-01-2024",
		"/queue?dir=sideways",
	} {
		c, w := newQueueContext(target)
		handler.List(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestQueueHandlerRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &queueServiceMock{}
	handler := NewQueueHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/queue/refresh", nil)
	c.Request = req

	handler.Refresh(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.refreshed)
}
