package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/luketurner/exercise-tracker/internal/sets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestExerciseHistory() {
	ctx := context.Background()
	t := s.T()

	token := s.registerUser(ctx, "history@tracker.com")
	benchPress := s.newExercise(ctx, token, "Bench Press", []string{"reps", "weight"})

	days := []string{"2024-01-01", "2024-01-08", "2024-01-15"}
	weights := []string{"100", "110", "120"}
	for i, day := range days {
		s.newSet(ctx, token, benchPress.ID, day, map[string]string{
			"reps":   "8",
			"weight": weights[i],
		})
	}

	resp := s.doRequest(
		ctx, token, "GET",
		fmt.Sprintf("/exercises/%d/history?lookback=all", benchPress.ID),
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeResponse[sets.HistoricalData](s, resp)

	assert.Equal(t, benchPress.ID, history.ExerciseID)
	assert.Equal(t, "Bench Press", history.ExerciseName)
	assert.Equal(t, 3, history.TotalSets)

	weightStats := history.Parameters["weight"]
	require.NotNil(t, weightStats.Min)
	assert.Equal(t, 100.0, *weightStats.Min)
	assert.Equal(t, 120.0, *weightStats.Max)
	assert.Equal(t, 110.0, *weightStats.Average)
	assert.Equal(t, 20.0, *weightStats.TotalChange)
	assert.Equal(t, 3, weightStats.Count)
	assert.Equal(t, "pound", string(weightStats.Unit))

	repsStats := history.Parameters["reps"]
	require.NotNil(t, repsStats.TotalChange)
	assert.Equal(t, 0.0, *repsStats.TotalChange)

	// switch to metric, the same history comes back in kilograms
	settingsResp := s.doRequest(ctx, token, "POST", "/settings", map[string]string{
		"weightUnit":   "kg",
		"distanceUnit": "km",
	})
	require.Equal(t, http.StatusOK, settingsResp.StatusCode)
	settingsResp.Body.Close()

	resp = s.doRequest(
		ctx, token, "GET",
		fmt.Sprintf("/exercises/%d/history?lookback=all", benchPress.ID),
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	metricHistory := decodeResponse[sets.HistoricalData](s, resp)

	metricWeight := metricHistory.Parameters["weight"]
	require.NotNil(t, metricWeight.Min)
	assert.InDelta(t, 45.3592, *metricWeight.Min, 0.001)
	assert.InDelta(t, 54.431, *metricWeight.Max, 0.001)
	assert.InDelta(t, 9.07184, *metricWeight.TotalChange, 0.001)
	assert.Equal(t, "kg", string(metricWeight.Unit))
}

func (s *IntegrationTestSuite) TestExerciseHistory_invalidLookback() {
	ctx := context.Background()
	t := s.T()

	token := s.registerUser(ctx, "lookback@tracker.com")
	rowing := s.newExercise(ctx, token, "Rowing", []string{"distance", "duration"})

	for _, lookback := range []string{"0", "-10", "forever"} {
		resp := s.doRequest(
			ctx, token, "GET",
			fmt.Sprintf("/exercises/%d/history?lookback=%s", rowing.ID, lookback),
			nil,
		)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func (s *IntegrationTestSuite) TestPreviousSession() {
	ctx := context.Background()
	t := s.T()

	token := s.registerUser(ctx, "previous@tracker.com")
	squat := s.newExercise(ctx, token, "Squat", []string{"reps", "weight"})

	s.newSet(ctx, token, squat.ID, "2024-02-01", map[string]string{"reps": "5", "weight": "130"})
	s.newSet(ctx, token, squat.ID, "2024-02-05", map[string]string{"reps": "5", "weight": "135"})
	s.newSet(ctx, token, squat.ID, "2024-02-05", map[string]string{"reps": "5", "weight": "135"})

	resp := s.doRequest(
		ctx, token, "GET",
		fmt.Sprintf("/exercises/%d/previous?before=2024-02-10", squat.ID),
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	previous := decodeResponse[[]setResponse](s, resp)

	require.Len(t, previous, 2)
	assert.Equal(t, "2024-02-05", previous[0].Date)
	assert.Equal(t, 1, previous[0].Order)
	assert.Equal(t, 2, previous[1].Order)
}
