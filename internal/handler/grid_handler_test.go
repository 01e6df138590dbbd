package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/response"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newGridFixture() (*GridHandler, *store.AppState) {
	state := store.NewAppState()
	state.UpsertClass(models.ClassGroup{ID: "c-1", Name: "6A"})
	state.UpsertStudent(models.Student{ID: "s-1", Name: "Ana", ClassID: "c-1", Enrollment: models.EnrollmentActive})
	state.SelectClass("c-1")
	transitions := service.NewTransitionService(state, nil, nil, nil, nil)
	return NewGridHandler(transitions, nil, state.Pending), state
}

func TestGridHandlerToggle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, state := newGridFixture()

	payload, _ := json.Marshal(dto.ToggleRequest{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0})
	c, w := newGinContext(http.MethodPost, "/attendance/toggle", payload)

	handler.Toggle(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, _ := json.Marshal(envelope.Data)
	var result dto.ToggleResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, models.AttendancePresent, result.Status)
	assert.True(t, result.Changed)
	assert.Equal(t, 1, result.Pending)
	assert.Equal(t, models.AttendancePresent, state.StatusAt("s-1", "2025-03-10", 0))
}

func TestGridHandlerToggleRejectsBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newGridFixture()

	c, w := newGinContext(http.MethodPost, "/attendance/toggle", []byte("{not json"))
	handler.Toggle(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGridHandlerToggleUnknownStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newGridFixture()

	payload, _ := json.Marshal(dto.ToggleRequest{StudentID: "ghost", Date: "2025-03-10", LessonIndex: 0})
	c, w := newGinContext(http.MethodPost, "/attendance/toggle", payload)

	handler.Toggle(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGridHandlerBulkApply(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, state := newGridFixture()

	payload, _ := json.Marshal(dto.BulkApplyRequest{Date: "2025-03-10", LessonIndex: 0, Status: "P"})
	c, w := newGinContext(http.MethodPost, "/attendance/bulk", payload)

	handler.BulkApply(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AttendancePresent, state.StatusAt("s-1", "2025-03-10", 0))
}

func TestGridHandlerPending(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, state := newGridFixture()
	require.NoError(t, state.Pending.Enqueue(models.PendingChange{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: models.AttendancePresent}))

	c, w := newGinContext(http.MethodGet, "/attendance/pending", nil)
	handler.Pending(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.EqualValues(t, 1, envelope.Meta["count"])
}
