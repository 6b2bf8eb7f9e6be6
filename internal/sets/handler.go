package sets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/luketurner/exercise-tracker/internal/auth"
	"github.com/luketurner/exercise-tracker/internal/exercises"
	"github.com/luketurner/exercise-tracker/internal/telemetry/metrics"
	"github.com/luketurner/exercise-tracker/internal/telemetry/tracing"
	"github.com/luketurner/exercise-tracker/internal/units"
	"github.com/luketurner/exercise-tracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultLookbackDays bounds the history window when the client does
// not ask for a specific one.
const DefaultLookbackDays = 365

//go:generate mockgen -source=$GOFILE -destination=sets_mocks_test.go -package=sets_test

type setsRepo interface {
	Add(ctx context.Context, set Set) (*Set, error)
	Get(ctx context.Context, id int, userID string) (*Set, error)
	Update(ctx context.Context, set *Set) error
	Delete(ctx context.Context, id int, userID string) error
	Move(ctx context.Context, params MoveParams) error
	ListForDay(ctx context.Context, userID, date string) ([]Set, error)
	ListLatestForExerciseBefore(ctx context.Context, userID string, exerciseID int, before string) ([]Set, error)
}

type setExercisesRepo interface {
	Get(ctx context.Context, id int, userID string) (*exercises.Exercise, error)
	TouchLastUsed(ctx context.Context, id int, usedAt time.Time) error
}

type preferencesProvider interface {
	PreferredUnits(ctx context.Context, userID string) (units.Preferences, error)
}

type historicalAnalyzer interface {
	HistoricalData(ctx context.Context, exercise *exercises.Exercise, prefs units.Preferences, lookbackDays int) (*HistoricalData, error)
}

type Handler struct {
	repo          setsRepo
	exercisesRepo setExercisesRepo
	prefs         preferencesProvider
	analyzer      historicalAnalyzer
	metrics       *metrics.Manager
}

func NewHandler(
	repo setsRepo,
	exercisesRepo setExercisesRepo,
	prefs preferencesProvider,
	analyzer historicalAnalyzer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:          repo,
		exercisesRepo: exercisesRepo,
		prefs:         prefs,
		analyzer:      analyzer,
		metrics:       metricsManager,
	}
}

type addSetRequest struct {
	ExerciseID int                       `json:"exerciseId"`
	Date       string                    `json:"date"`
	Parameters map[string]ParameterInput `json:"parameters"`
}

type updateSetRequest struct {
	Parameters map[string]ParameterInput `json:"parameters"`
}

type DayViewResponse struct {
	Date         string `json:"date"`
	Sets         []Set  `json:"sets"`
	NextSetOrder int    `json:"nextSetOrder"`
}

func (handler *Handler) HandleDayView(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sets.dayView")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	date := mux.Vars(r)["date"]
	if err := ValidateDate(date); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("date", date))

	daySets, err := handler.repo.ListForDay(ctx, userID, date)
	if err != nil {
		log.Errorf("failed to list sets for day %s: %s", date, err)
		http.Error(w, "error, failed to list sets", http.StatusInternalServerError)
		return
	}

	nextOrder := 1
	for _, s := range daySets {
		if s.Order >= nextOrder {
			nextOrder = s.Order + 1
		}
	}

	respJson, err := json.Marshal(DayViewResponse{
		Date:         date,
		Sets:         daySets,
		NextSetOrder: nextOrder,
	})
	if err != nil {
		log.Errorf("marshal day view: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sets.add")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req addSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add set, decode request: %s", err)
		http.Error(w, "add set failed", http.StatusBadRequest)
		return
	}

	if err := ValidateDate(req.Date); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercise, err := handler.exercisesRepo.Get(ctx, req.ExerciseID, userID)
	if err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("add set, get exercise %d: %s", req.ExerciseID, err)
		http.Error(w, "error, failed to add set", http.StatusInternalServerError)
		return
	}

	prefs, err := handler.prefs.PreferredUnits(ctx, userID)
	if err != nil {
		log.Errorf("add set, get unit preferences: %s", err)
		http.Error(w, "error, failed to add set", http.StatusInternalServerError)
		return
	}

	params, err := BuildParameters(exercise, req.Parameters, prefs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	addedSet, err := handler.repo.Add(ctx, Set{
		UserID:     userID,
		ExerciseID: req.ExerciseID,
		Date:       req.Date,
		Parameters: params,
	})
	if err != nil {
		if errors.Is(err, ErrOrderConflict) {
			http.Error(w, "set order conflict", http.StatusConflict)
			return
		}
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to add set: %s", err)
		http.Error(w, "error, failed to add set", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("set.id", addedSet.ID))
	handler.metrics.CounterSetsLogged.Inc()

	if err := handler.exercisesRepo.TouchLastUsed(ctx, req.ExerciseID, time.Now()); err != nil {
		log.Errorf("failed to mark exercise %d as used: %s", req.ExerciseID, err)
	}

	setJson, err := json.Marshal(addedSet)
	if err != nil {
		log.Errorf("marshal added set: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, setJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sets.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	id, err := setIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req updateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update set, decode request: %s", err)
		http.Error(w, "update set failed", http.StatusBadRequest)
		return
	}

	set, err := handler.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "set not found", http.StatusNotFound)
			return
		}
		log.Errorf("update set, get set %d: %s", id, err)
		http.Error(w, "error, failed to update set", http.StatusInternalServerError)
		return
	}

	exercise, err := handler.exercisesRepo.Get(ctx, set.ExerciseID, userID)
	if err != nil {
		log.Errorf("update set, get exercise %d: %s", set.ExerciseID, err)
		http.Error(w, "error, failed to update set", http.StatusInternalServerError)
		return
	}

	prefs, err := handler.prefs.PreferredUnits(ctx, userID)
	if err != nil {
		log.Errorf("update set, get unit preferences: %s", err)
		http.Error(w, "error, failed to update set", http.StatusInternalServerError)
		return
	}

	params, err := BuildParameters(exercise, req.Parameters, prefs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	set.Parameters = params
	if err := handler.repo.Update(ctx, set); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "set not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update set %d: %s", id, err)
		http.Error(w, "error, failed to update set", http.StatusInternalServerError)
		return
	}

	if err := handler.exercisesRepo.TouchLastUsed(ctx, set.ExerciseID, time.Now()); err != nil {
		log.Errorf("failed to mark exercise %d as used: %s", set.ExerciseID, err)
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", id))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sets.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	id, err := setIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "set not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete set %d: %s", id, err)
		http.Error(w, "error, failed to delete set", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func (handler *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sets.move")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	id, err := setIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var params MoveParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("move set, decode request: %s", err)
		http.Error(w, "move set failed", http.StatusBadRequest)
		return
	}
	params.ID = id
	params.UserID = userID

	if err := handler.repo.Move(ctx, params); err != nil {
		switch {
		case errors.Is(err, ErrSetNotFound):
			http.Error(w, "set not found", http.StatusNotFound)
		case errors.Is(err, ErrOrderConflict):
			handler.metrics.CounterSetMoveConflicts.Inc()
			http.Error(w, "set order conflict", http.StatusConflict)
		case errors.Is(err, ErrInvalidMove):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("failed to move set %d: %s", id, err)
			http.Error(w, "error, failed to move set", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterSetMoves.Inc()
	pkg.WriteTextResponseOK(w, fmt.Sprintf("moved:%d:%d", id, params.NewOrder))
}

// HandleHistorical serves the aggregated training history of one
// exercise. The lookback query param is either a number of days or
// "all"; it defaults to one year.
func (handler *Handler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sets.historical")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	exerciseID, err := setIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lookbackDays := DefaultLookbackDays
	if lookbackParam := r.URL.Query().Get("lookback"); lookbackParam != "" {
		if lookbackParam == "all" {
			lookbackDays = 0
		} else {
			lookbackDays, err = strconv.Atoi(lookbackParam)
			if err != nil || lookbackDays < 1 {
				http.Error(w, "error, invalid lookback", http.StatusBadRequest)
				return
			}
		}
	}

	exercise, err := handler.exercisesRepo.Get(ctx, exerciseID, userID)
	if err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("historical, get exercise %d: %s", exerciseID, err)
		http.Error(w, "error, failed to get history", http.StatusInternalServerError)
		return
	}

	prefs, err := handler.prefs.PreferredUnits(ctx, userID)
	if err != nil {
		log.Errorf("historical, get unit preferences: %s", err)
		http.Error(w, "error, failed to get history", http.StatusInternalServerError)
		return
	}

	historicalData, err := handler.analyzer.HistoricalData(ctx, exercise, prefs, lookbackDays)
	if err != nil {
		log.Errorf("failed to get history for exercise %d: %s", exerciseID, err)
		http.Error(w, "error, failed to get history", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(historicalData)
	if err != nil {
		log.Errorf("marshal historical data: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandlePreviousSession returns the sets of the most recent day the
// exercise was performed before the given one, for display next to
// the current day's log.
func (handler *Handler) HandlePreviousSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sets.previousSession")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	exerciseID, err := setIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	before := r.URL.Query().Get("before")
	if before == "" {
		before = time.Now().Format(DateLayout)
	}
	if err := ValidateDate(before); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	previousSets, err := handler.repo.ListLatestForExerciseBefore(ctx, userID, exerciseID, before)
	if err != nil {
		log.Errorf("failed to get previous session for exercise %d: %s", exerciseID, err)
		http.Error(w, "error, failed to get previous session", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(previousSets)
	if err != nil {
		log.Errorf("marshal previous session: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func setIDFromRequest(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id invalid")
	}
	return id, nil
}
