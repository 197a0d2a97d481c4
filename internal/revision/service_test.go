package revision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prep-system/internal/models"
)

type stubTopics struct {
	topics []models.Topic
	err    error
}

func (s stubTopics) GetRevisionTopics(context.Context) ([]models.Topic, error) {
	return s.topics, s.err
}

func sampleTopics() []models.Topic {
	return []models.Topic{
		{ID: "postal-manual", Name: "Postal Manual Vol. V", Category: "Paper I", DaysSinceStudied: 1},
		{ID: "rural-banking", Name: "Rural Banking", Category: "Paper II", DaysSinceStudied: 5},
		{ID: "gk", Name: "General Knowledge", Category: "Paper III", DaysSinceStudied: 60},
	}
}

func TestService_ListAndDue(t *testing.T) {
	svc := NewService(stubTopics{topics: sampleTopics()}, NewScheduler(fixedClock))

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Rural Banking", items[1].Topic.Name)
	assert.Equal(t, "Mar 7", items[1].Status.Label)

	due, err := svc.Due(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "postal-manual", due[0].Topic.ID)
	assert.Equal(t, "gk", due[1].Topic.ID)
}

func TestService_SourceFailure(t *testing.T) {
	boom := errors.New("content offline")
	svc := NewService(stubTopics{err: boom}, NewScheduler(fixedClock))

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestHandler_List(t *testing.T) {
	h := NewHandler(NewService(stubTopics{topics: sampleTopics()}, NewScheduler(fixedClock)))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/revision?due=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	assert.Len(t, items, 2)

	rec = httptest.NewRecorder()
	NewHandler(NewService(stubTopics{err: errors.New("down")}, NewScheduler(fixedClock))).
		List(rec, httptest.NewRequest(http.MethodGet, "/api/revision", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
