package sets

import (
	"context"
	"fmt"
	"time"

	"github.com/luketurner/exercise-tracker/internal/exercises"
	"github.com/luketurner/exercise-tracker/internal/telemetry/tracing"
	"github.com/luketurner/exercise-tracker/internal/units"

	"go.opentelemetry.io/otel/attribute"
)

// ParameterStats summarizes one parameter of an exercise across its
// recorded sets. All values are in the unit given by Unit (weights
// and distances get normalized to the user's preferred units before
// aggregating). A parameter that was never recorded, or one that has
// no aggregable value (intensity), yields the zero stats.
type ParameterStats struct {
	Min         *float64   `json:"min,omitempty"`
	Max         *float64   `json:"max,omitempty"`
	Average     *float64   `json:"average,omitempty"`
	TotalChange *float64   `json:"totalChange,omitempty"`
	Count       int        `json:"count,omitempty"`
	Unit        units.Unit `json:"unit,omitempty"`
}

// HistoricalData is the full training history summary of one exercise.
type HistoricalData struct {
	ExerciseID   int                       `json:"exerciseId"`
	ExerciseName string                    `json:"exerciseName"`
	LookbackDays int                       `json:"lookbackDays,omitempty"`
	TotalSets    int                       `json:"totalSets"`
	Parameters   map[string]ParameterStats `json:"parameters"`
}

// Analyze computes per-parameter stats over the given sets, which
// must be in chronological order: total change is the difference
// between the last and the first recorded value.
func Analyze(
	exercise *exercises.Exercise,
	sets []Set,
	prefs units.Preferences,
) (map[string]ParameterStats, error) {
	stats := make(map[string]ParameterStats, len(exercise.Parameters))

	for _, def := range exercise.Parameters {
		if def.DataType == exercises.DataTypeIntensity {
			stats[def.ID] = ParameterStats{}
			continue
		}

		var series []float64
		var unit units.Unit
		for _, set := range sets {
			value, ok := set.Parameters[def.ID]
			if !ok {
				continue
			}

			var normalized float64
			var err error
			switch v := value.(type) {
			case Weight:
				unit = prefs.WeightUnit()
				normalized, err = v.In(unit)
			case Distance:
				unit = prefs.DistanceUnit()
				normalized, err = v.In(unit)
			case Duration:
				normalized = v.Millis
			case Number:
				normalized = v.Value
			default:
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("normalize parameter %q of set %d: %w", def.ID, set.ID, err)
			}

			series = append(series, normalized)
		}

		if len(series) == 0 {
			stats[def.ID] = ParameterStats{}
			continue
		}

		min, max, sum := series[0], series[0], 0.0
		for _, v := range series {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		average := sum / float64(len(series))
		totalChange := series[len(series)-1] - series[0]

		stats[def.ID] = ParameterStats{
			Min:         &min,
			Max:         &max,
			Average:     &average,
			TotalChange: &totalChange,
			Count:       len(series),
			Unit:        unit,
		}
	}

	return stats, nil
}

type analyzerSetsRepo interface {
	ListForExercise(ctx context.Context, userID string, exerciseID int, since *time.Time) ([]Set, error)
}

type Analyzer struct {
	repo analyzerSetsRepo
	now  func() time.Time
}

func NewAnalyzer(repo analyzerSetsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
		now:  time.Now,
	}
}

// HistoricalData aggregates the training history of an exercise. A
// lookbackDays of zero means all time.
func (a *Analyzer) HistoricalData(
	ctx context.Context,
	exercise *exercises.Exercise,
	prefs units.Preferences,
	lookbackDays int,
) (_ *HistoricalData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.sets.historicalData")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("exercise_id", exercise.ID),
		attribute.Int("lookback_days", lookbackDays),
	)

	var since *time.Time
	if lookbackDays > 0 {
		s := a.now().AddDate(0, 0, -lookbackDays)
		since = &s
	}

	sets, err := a.repo.ListForExercise(ctx, exercise.UserID, exercise.ID, since)
	if err != nil {
		return nil, err
	}

	parameterStats, err := Analyze(exercise, sets, prefs)
	if err != nil {
		return nil, err
	}

	return &HistoricalData{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		LookbackDays: lookbackDays,
		TotalSets:    len(sets),
		Parameters:   parameterStats,
	}, nil
}
