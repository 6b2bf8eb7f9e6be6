package sets

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/luketurner/exercise-tracker/internal/exercises"
	"github.com/luketurner/exercise-tracker/internal/units"
)

// DateLayout is the day group key format. Sets are ordered within
// one (user, day) group.
const DateLayout = "2006-01-02"

type IntensityLevel string

const (
	IntensityLow    IntensityLevel = "low"
	IntensityMedium IntensityLevel = "medium"
	IntensityHigh   IntensityLevel = "high"
)

func ParseIntensityLevel(s string) (IntensityLevel, error) {
	switch level := IntensityLevel(strings.ToLower(s)); level {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return level, nil
	default:
		return "", fmt.Errorf("invalid intensity level: %q", s)
	}
}

// ParameterValue is one recorded measurement of a set, typed per the
// data type of its exercise parameter definition.
type ParameterValue interface {
	DataType() exercises.DataType
}

type Weight struct {
	Value float64    `json:"value"`
	Unit  units.Unit `json:"unit"`
}

func (Weight) DataType() exercises.DataType { return exercises.DataTypeWeight }

// In converts the weight to the given unit.
func (w Weight) In(unit units.Unit) (float64, error) {
	return units.Convert(w.Value, w.Unit, unit)
}

type Distance struct {
	Value float64    `json:"value"`
	Unit  units.Unit `json:"unit"`
}

func (Distance) DataType() exercises.DataType { return exercises.DataTypeDistance }

func (d Distance) In(unit units.Unit) (float64, error) {
	return units.Convert(d.Value, d.Unit, unit)
}

// Duration is stored in milliseconds.
type Duration struct {
	Millis float64 `json:"millis"`
}

func (Duration) DataType() exercises.DataType { return exercises.DataTypeDuration }

type Intensity struct {
	Level IntensityLevel `json:"level"`
}

func (Intensity) DataType() exercises.DataType { return exercises.DataTypeIntensity }

type Number struct {
	Value float64 `json:"value"`
}

func (Number) DataType() exercises.DataType { return exercises.DataTypeNumber }

// Set is one logged set of an exercise. Order is 1-based and
// contiguous within the (user, date) group.
type Set struct {
	ID         int                       `json:"id"`
	UserID     string                    `json:"-"`
	ExerciseID int                       `json:"exerciseId"`
	Date       string                    `json:"date"`
	Order      int                       `json:"order"`
	Parameters map[string]ParameterValue `json:"parameters"`
	CreatedAt  time.Time                 `json:"createdAt"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
}

func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

// EncodeParameters serializes set parameters for jsonb storage.
func EncodeParameters(params map[string]ParameterValue) ([]byte, error) {
	if params == nil {
		params = map[string]ParameterValue{}
	}
	return json.Marshal(params)
}

// DecodeParameters deserializes stored jsonb parameters into typed
// values, guided by the exercise parameter definitions. Values stored
// under a definition that was since removed from the exercise are
// dropped.
func DecodeParameters(defs []exercises.ParameterDefinition, raw []byte) (map[string]ParameterValue, error) {
	rawParams := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rawParams); err != nil {
			return nil, fmt.Errorf("unmarshal parameters: %w", err)
		}
	}

	params := make(map[string]ParameterValue, len(rawParams))
	for _, def := range defs {
		rawValue, ok := rawParams[def.ID]
		if !ok {
			continue
		}
		value, err := decodeParameterValue(def.DataType, rawValue)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", def.ID, err)
		}
		params[def.ID] = value
	}

	return params, nil
}

func decodeParameterValue(dataType exercises.DataType, raw json.RawMessage) (ParameterValue, error) {
	switch dataType {
	case exercises.DataTypeWeight:
		var w Weight
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return w, nil
	case exercises.DataTypeDistance:
		var d Distance
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case exercises.DataTypeDuration:
		var d Duration
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case exercises.DataTypeIntensity:
		var i Intensity
		if err := json.Unmarshal(raw, &i); err != nil {
			return nil, err
		}
		if _, err := ParseIntensityLevel(string(i.Level)); err != nil {
			return nil, err
		}
		return i, nil
	case exercises.DataTypeNumber:
		var n Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown data type: %q", dataType)
	}
}

// ParameterInput is a single raw parameter value as sent by the
// client: either a plain string / number, or, for durations, an
// object with hours, minutes and seconds fields.
type ParameterInput struct {
	text     string
	duration *durationInput
}

type durationInput struct {
	Hours   float64 `json:"hours"`
	Minutes float64 `json:"minutes"`
	Seconds float64 `json:"seconds"`
}

func (p *ParameterInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		p.duration = &durationInput{}
		return json.Unmarshal(data, p.duration)
	}
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &p.text)
	}
	// bare number
	p.text = trimmed
	return nil
}

func (p *ParameterInput) empty() bool {
	return p.duration == nil && strings.TrimSpace(p.text) == ""
}

func (p *ParameterInput) float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(p.text), 64)
}

// millis resolves a duration input to milliseconds. A bare number is
// taken as seconds.
func (p *ParameterInput) millis() (float64, error) {
	if p.duration != nil {
		return (p.duration.Hours*3600 + p.duration.Minutes*60 + p.duration.Seconds) * 1000, nil
	}
	seconds, err := p.float()
	if err != nil {
		return 0, err
	}
	return seconds * 1000, nil
}

var errUnknownParameter = errors.New("unknown parameter")

// BuildParameters turns raw client inputs into typed parameter
// values for the given exercise. Empty inputs are omitted, inputs not
// matching any parameter definition are rejected. Weights and
// distances are recorded in the user's preferred units.
func BuildParameters(
	exercise *exercises.Exercise,
	inputs map[string]ParameterInput,
	prefs units.Preferences,
) (map[string]ParameterValue, error) {
	for id := range inputs {
		if _, ok := exercise.Parameter(id); !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownParameter, id)
		}
	}

	params := make(map[string]ParameterValue, len(inputs))
	for _, def := range exercise.Parameters {
		input, ok := inputs[def.ID]
		if !ok || input.empty() {
			continue
		}

		value, err := buildParameterValue(def.DataType, input, prefs)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", def.ID, err)
		}
		params[def.ID] = value
	}

	return params, nil
}

func buildParameterValue(
	dataType exercises.DataType,
	input ParameterInput,
	prefs units.Preferences,
) (ParameterValue, error) {
	switch dataType {
	case exercises.DataTypeWeight:
		value, err := input.float()
		if err != nil {
			return nil, err
		}
		return Weight{Value: value, Unit: prefs.WeightUnit()}, nil
	case exercises.DataTypeDistance:
		value, err := input.float()
		if err != nil {
			return nil, err
		}
		return Distance{Value: value, Unit: prefs.DistanceUnit()}, nil
	case exercises.DataTypeDuration:
		millis, err := input.millis()
		if err != nil {
			return nil, err
		}
		if millis < 0 {
			return nil, errors.New("negative duration")
		}
		return Duration{Millis: millis}, nil
	case exercises.DataTypeIntensity:
		level, err := ParseIntensityLevel(input.text)
		if err != nil {
			return nil, err
		}
		return Intensity{Level: level}, nil
	case exercises.DataTypeNumber:
		value, err := input.float()
		if err != nil {
			return nil, err
		}
		return Number{Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown data type: %q", dataType)
	}
}
