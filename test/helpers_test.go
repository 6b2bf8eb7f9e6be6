package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/luketurner/exercise-tracker/internal/exercises"
	"github.com/luketurner/exercise-tracker/internal/middleware"
	"github.com/luketurner/exercise-tracker/internal/sets"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// registerUser creates a fresh account and returns its session token.
func (s *IntegrationTestSuite) registerUser(ctx context.Context, email string) string {
	reqJson, err := json.Marshal(registerRequest{
		Email:    email,
		Name:     gofakeit.Name(),
		Password: "super-secret-pass",
	})
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/a/register", serverEndpoint),
		bytes.NewReader(reqJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var registerResp tokenResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &registerResp))
	require.NotEmpty(s.T(), registerResp.Token)

	return registerResp.Token
}

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	token, method, path string,
	body any,
) *http.Response {
	var bodyReader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(s.T(), err)
		bodyReader = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AuthTokenHeader, token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func decodeResponse[T any](s *IntegrationTestSuite, resp *http.Response) T {
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var decoded T
	require.NoError(s.T(), json.Unmarshal(respBytes, &decoded), string(respBytes))
	return decoded
}

type exerciseResponse struct {
	ID         int                             `json:"id"`
	Name       string                          `json:"name"`
	Parameters []exercises.ParameterDefinition `json:"parameters"`
}

func (s *IntegrationTestSuite) newExercise(ctx context.Context, token, name string, parameters []string) exerciseResponse {
	resp := s.doRequest(ctx, token, "POST", "/exercises", map[string]any{
		"name":       name,
		"parameters": parameters,
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	return decodeResponse[exerciseResponse](s, resp)
}

type setResponse struct {
	ID    int    `json:"id"`
	Date  string `json:"date"`
	Order int    `json:"order"`
}

func (s *IntegrationTestSuite) newSet(
	ctx context.Context,
	token string,
	exerciseID int,
	date string,
	parameters map[string]string,
) setResponse {
	resp := s.doRequest(ctx, token, "POST", "/sets", map[string]any{
		"exerciseId": exerciseID,
		"date":       date,
		"parameters": parameters,
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	return decodeResponse[setResponse](s, resp)
}

type dayViewResponse struct {
	Date string `json:"date"`
	Sets []struct {
		ID         int             `json:"id"`
		ExerciseID int             `json:"exerciseId"`
		Order      int             `json:"order"`
		Parameters json.RawMessage `json:"parameters"`
	} `json:"sets"`
	NextSetOrder int `json:"nextSetOrder"`
}

func (s *IntegrationTestSuite) dayView(ctx context.Context, token, date string) dayViewResponse {
	resp := s.doRequest(ctx, token, "GET", "/sets/day/"+date, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	return decodeResponse[dayViewResponse](s, resp)
}

func (s *IntegrationTestSuite) moveSet(
	ctx context.Context,
	token string,
	setID, claimedOrder, newOrder int,
) *http.Response {
	return s.doRequest(ctx, token, "POST", fmt.Sprintf("/sets/%d/move", setID), sets.MoveParams{
		ClaimedOrder: claimedOrder,
		NewOrder:     newOrder,
	})
}
