package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestReorderSets() {
	ctx := context.Background()
	t := s.T()

	token := s.registerUser(ctx, "reorder@tracker.com")
	benchPress := s.newExercise(ctx, token, "Bench Press", []string{"reps", "weight"})

	const day = "2024-03-01"
	setIDs := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		added := s.newSet(ctx, token, benchPress.ID, day, map[string]string{
			"reps":   "10",
			"weight": "100",
		})
		require.Equal(t, i+1, added.Order)
		setIDs = append(setIDs, added.ID)
	}

	// drag the last set to the front
	resp := s.moveSet(ctx, token, setIDs[2], 3, 1)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	day1 := s.dayView(ctx, token, day)
	require.Len(t, day1.Sets, 3)
	assert.Equal(t, setIDs[2], day1.Sets[0].ID)
	assert.Equal(t, setIDs[0], day1.Sets[1].ID)
	assert.Equal(t, setIDs[1], day1.Sets[2].ID)
	for i, set := range day1.Sets {
		assert.Equal(t, i+1, set.Order)
	}
	assert.Equal(t, 4, day1.NextSetOrder)

	// a stale claimed order is rejected
	resp = s.moveSet(ctx, token, setIDs[2], 3, 2)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// nothing moved
	day2 := s.dayView(ctx, token, day)
	assert.Equal(t, setIDs[2], day2.Sets[0].ID)

	// a position outside the day is rejected
	resp = s.moveSet(ctx, token, setIDs[2], 1, 4)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestDeleteLeavesOrderGap() {
	ctx := context.Background()
	t := s.T()

	token := s.registerUser(ctx, "gaps@tracker.com")
	squat := s.newExercise(ctx, token, "Squat", []string{"reps", "weight"})

	const day = "2024-03-02"
	setIDs := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		added := s.newSet(ctx, token, squat.ID, day, map[string]string{
			"reps":   "5",
			"weight": "140",
		})
		setIDs = append(setIDs, added.ID)
	}

	resp := s.doRequest(ctx, token, "DELETE", fmt.Sprintf("/sets/%d", setIDs[1]), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	day1 := s.dayView(ctx, token, day)
	require.Len(t, day1.Sets, 2)
	assert.Equal(t, 1, day1.Sets[0].Order)
	assert.Equal(t, 3, day1.Sets[1].Order)
	// new sets go after the gap
	assert.Equal(t, 4, day1.NextSetOrder)

	added := s.newSet(ctx, token, squat.ID, day, map[string]string{
		"reps":   "5",
		"weight": "140",
	})
	assert.Equal(t, 4, added.Order)
}

func (s *IntegrationTestSuite) TestMoveInGappedDay() {
	ctx := context.Background()
	t := s.T()

	token := s.registerUser(ctx, "gapmoves@tracker.com")
	press := s.newExercise(ctx, token, "Overhead Press", []string{"reps", "weight"})

	const day = "2024-03-04"
	setIDs := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		added := s.newSet(ctx, token, press.ID, day, map[string]string{
			"reps":   "5",
			"weight": "60",
		})
		setIDs = append(setIDs, added.ID)
	}

	// orders are 1 and 3 after deleting the middle set
	resp := s.doRequest(ctx, token, "DELETE", fmt.Sprintf("/sets/%d", setIDs[1]), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// moving the last set onto its own position succeeds even though
	// its order exceeds the set count
	resp = s.moveSet(ctx, token, setIDs[2], 3, 3)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	day1 := s.dayView(ctx, token, day)
	require.Len(t, day1.Sets, 2)
	assert.Equal(t, 3, day1.Sets[1].Order)

	// the highest occupied order is a valid target across the gap
	resp = s.moveSet(ctx, token, setIDs[0], 1, 3)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	day2 := s.dayView(ctx, token, day)
	require.Len(t, day2.Sets, 2)
	assert.Equal(t, setIDs[2], day2.Sets[0].ID)
	assert.Equal(t, setIDs[0], day2.Sets[1].ID)

	// past the highest order is still rejected
	resp = s.moveSet(ctx, token, setIDs[0], 3, 4)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestReorder_usersAreIsolated() {
	ctx := context.Background()
	t := s.T()

	tokenA := s.registerUser(ctx, "usera@tracker.com")
	tokenB := s.registerUser(ctx, "userb@tracker.com")

	deadlift := s.newExercise(ctx, tokenA, "Deadlift", []string{"reps", "weight"})

	const day = "2024-03-03"
	added := s.newSet(ctx, tokenA, deadlift.ID, day, map[string]string{
		"reps":   "3",
		"weight": "180",
	})

	// another user cannot see or move the set
	resp := s.moveSet(ctx, tokenB, added.ID, 1, 1)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	dayB := s.dayView(ctx, tokenB, day)
	assert.Empty(t, dayB.Sets)
	assert.Equal(t, 1, dayB.NextSetOrder)
}
