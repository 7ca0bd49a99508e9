package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gradeplanner/backend/internal/grading"
	"github.com/gradeplanner/backend/internal/services"
	"github.com/gradeplanner/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	planner := services.NewPlannerService(storage.NewMemoryStore(), nil, services.DefaultSeedTemplate(), 50, nil)
	subjects := NewSubjectHandler(planner)
	planners := NewPlannerHandler(planner)
	owner := uuid.New()

	r := gin.New()
	r.POST("/planner/evaluate", planners.Evaluate)
	api := r.Group("")
	api.Use(func(c *gin.Context) {
		c.Set("owner_id", owner)
		c.Next()
	})
	api.GET("/subjects", subjects.List)
	api.POST("/subjects", subjects.Create)
	api.DELETE("/subjects/:code", subjects.Delete)
	api.GET("/subjects/:code/planner", planners.Get)
	api.PUT("/subjects/:code/planner/settings", planners.UpdateSettings)
	api.POST("/subjects/:code/planner/items", planners.AddItem)
	api.POST("/subjects/:code/planner/items/move", planners.MoveItem)
	api.PATCH("/subjects/:code/planner/items/:itemID", planners.UpdateItem)
	api.DELETE("/subjects/:code/planner/items/:itemID", planners.RemoveItem)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) services.PlannerView {
	t.Helper()
	var view services.PlannerView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func TestSubjectHandler(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/subjects", `{"code":"cs101","name":"Intro to CS"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"Duplicate", http.MethodPost, "/subjects", `{"code":"CS101"}`, http.StatusConflict},
		{"Invalid Code", http.MethodPost, "/subjects", `{"code":"cs 101"}`, http.StatusBadRequest},
		{"Missing Code", http.MethodPost, "/subjects", `{"name":"x"}`, http.StatusBadRequest},
		{"List", http.MethodGet, "/subjects", "", http.StatusOK},
		{"Unknown Planner", http.MethodGet, "/subjects/NOPE/planner", "", http.StatusNotFound},
		{"Delete", http.MethodDelete, "/subjects/cs101", "", http.StatusOK},
		{"Delete Again", http.MethodDelete, "/subjects/cs101", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestPlannerHandler_Flow(t *testing.T) {
	r := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/subjects", `{"code":"MATH"}`).Code)

	w := do(r, http.MethodGet, "/subjects/math/planner", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeView(t, w)
	require.Len(t, view.State.Items, 3)
	assert.Equal(t, grading.OutcomeNeedsAverage, view.Summary.Outcome)

	for _, it := range view.State.Items[:2] {
		w = do(r, http.MethodPatch, "/subjects/MATH/planner/items/"+it.ID, `{"grade":"80"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = do(r, http.MethodPut, "/subjects/MATH/planner/settings", `{"targetPass":"50","finalSubjectGrade":"70","autoCalcExamFromFinal":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.True(t, view.ExamWritten)
	assert.Equal(t, "60.0", view.State.Items[2].Grade)

	w = do(r, http.MethodPost, "/subjects/MATH/planner/items", `{"name":"Quiz","weight":"10","type":"Quiz"}`)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	require.Len(t, view.State.Items, 4)
	assert.True(t, view.Summary.WeightWarning)

	w = do(r, http.MethodPost, "/subjects/MATH/planner/items/move", `{"from":3,"to":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Equal(t, "Quiz", view.State.Items[0].Name)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/subjects/MATH/planner/items/move", `{"from":0,"to":9}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/subjects/MATH/planner/items/move", `{"from":0}`).Code)

	w = do(r, http.MethodDelete, "/subjects/MATH/planner/items/"+view.State.Items[0].ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeView(t, w).State.Items, 3)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/subjects/MATH/planner/items/missing", "").Code)
}

func TestPlannerHandler_Evaluate(t *testing.T) {
	r := setupRouter(t)

	body := `{"items":[
		{"id":"a","name":"A1","weight":"50","grade":"90","type":"Assignment"},
		{"id":"b","name":"A2","weight":"50","grade":"80","type":"Assignment"}
	],"targetPass":50}`
	w := do(r, http.MethodPost, "/planner/evaluate", body)
	require.Equal(t, http.StatusOK, w.Code)

	view := decodeView(t, w)
	assert.Equal(t, grading.OutcomeAlreadyPassed, view.Summary.Outcome)
	assert.InDelta(t, 85, view.Summary.FinalMin, 1e-9)
	assert.InDelta(t, 85, view.Summary.FinalMax, 1e-9)

	w = do(r, http.MethodPost, "/planner/evaluate", `{"items":[{"id":"a","weight":"100","grade":"10","type":"Assignment"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	assert.Equal(t, grading.DefaultTargetPass, view.State.TargetPass)
	assert.Equal(t, grading.OutcomeFinalized, view.Summary.Outcome)

	w = do(r, http.MethodPost, "/planner/evaluate", `{"items":[{"id":"a","weight":"100","grade":"10","type":"Assignment"}],"targetPass":"5"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, grading.OutcomeAlreadyPassed, decodeView(t, w).Summary.Outcome)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/planner/evaluate", `{"items":`).Code)
}
