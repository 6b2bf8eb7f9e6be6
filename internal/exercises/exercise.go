package exercises

import "time"

type DataType string

const (
	DataTypeWeight    DataType = "weight"
	DataTypeDistance  DataType = "distance"
	DataTypeDuration  DataType = "duration"
	DataTypeIntensity DataType = "intensity"
	DataTypeNumber    DataType = "number"
)

// ParameterDefinition describes one loggable parameter of an exercise,
// e.g. reps, weight, duration. The DataType dictates the shape of the
// values stored for it on every logged set.
type ParameterDefinition struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	DataType DataType `json:"dataType"`
}

type Exercise struct {
	ID         int                   `json:"id"`
	UserID     string                `json:"userId"`
	Name       string                `json:"name"`
	Parameters []ParameterDefinition `json:"parameters"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	LastUsedAt *time.Time            `json:"lastUsedAt,omitempty"`
}

// Parameter returns the definition with the given id, if the exercise has it.
func (e *Exercise) Parameter(id string) (ParameterDefinition, bool) {
	for _, p := range e.Parameters {
		if p.ID == id {
			return p, true
		}
	}
	return ParameterDefinition{}, false
}

// Catalog is the fixed set of parameters an exercise can be built from.
// The order here is the display order.
func Catalog() []ParameterDefinition {
	return []ParameterDefinition{
		{ID: "reps", Name: "Reps", DataType: DataTypeNumber},
		{ID: "weight", Name: "Weight", DataType: DataTypeWeight},
		{ID: "assisted", Name: "Assisted", DataType: DataTypeWeight},
		{ID: "distance", Name: "Distance", DataType: DataTypeDistance},
		{ID: "duration", Name: "Duration", DataType: DataTypeDuration},
		{ID: "intensity", Name: "Intensity", DataType: DataTypeIntensity},
	}
}

// CatalogParameter looks up a catalog entry by id.
func CatalogParameter(id string) (ParameterDefinition, bool) {
	for _, p := range Catalog() {
		if p.ID == id {
			return p, true
		}
	}
	return ParameterDefinition{}, false
}
