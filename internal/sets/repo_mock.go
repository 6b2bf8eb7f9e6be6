package sets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// repoMock mirrors the reorder semantics of the SQL repo in memory.
type repoMock struct {
	mutex  sync.Mutex
	sets   map[int]*Set
	nextID int
}

func NewMockSetsRepo() *repoMock {
	return &repoMock{
		sets:   make(map[int]*Set),
		nextID: 1,
	}
}

func (r *repoMock) Add(_ context.Context, set Set) (*Set, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	maxOrder := 0
	for _, s := range r.sets {
		if s.UserID == set.UserID && s.Date == set.Date && s.Order > maxOrder {
			maxOrder = s.Order
		}
	}

	set.ID = r.nextID
	r.nextID++
	set.Order = maxOrder + 1
	set.CreatedAt = time.Now()
	set.UpdatedAt = set.CreatedAt

	r.sets[set.ID] = &set
	added := set
	return &added, nil
}

func (r *repoMock) Get(_ context.Context, id int, userID string) (*Set, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, ok := r.sets[id]
	if !ok || set.UserID != userID {
		return nil, ErrSetNotFound
	}
	found := *set
	return &found, nil
}

func (r *repoMock) Update(ctx context.Context, set *Set) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.sets[set.ID]
	if !ok || stored.UserID != set.UserID {
		return ErrSetNotFound
	}
	stored.Parameters = set.Parameters
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int, userID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, ok := r.sets[id]
	if !ok || set.UserID != userID {
		return ErrSetNotFound
	}
	delete(r.sets, id)
	return nil
}

func (r *repoMock) Move(_ context.Context, params MoveParams) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	target, ok := r.sets[params.ID]
	if !ok || target.UserID != params.UserID {
		return ErrSetNotFound
	}

	if target.Order != params.ClaimedOrder {
		return ErrOrderConflict
	}

	currentOrder := target.Order
	if params.NewOrder == currentOrder {
		return nil
	}

	var group []*Set
	maxOrder := 0
	for _, s := range r.sets {
		if s.UserID == target.UserID && s.Date == target.Date {
			group = append(group, s)
			if s.Order > maxOrder {
				maxOrder = s.Order
			}
		}
	}

	if params.NewOrder < 1 || params.NewOrder > maxOrder {
		return fmt.Errorf("%w: %d, day orders end at %d", ErrInvalidMove, params.NewOrder, maxOrder)
	}

	for _, s := range group {
		switch {
		case params.NewOrder > currentOrder && s.Order > currentOrder && s.Order <= params.NewOrder:
			s.Order--
		case params.NewOrder < currentOrder && s.Order >= params.NewOrder && s.Order < currentOrder:
			s.Order++
		}
	}
	target.Order = params.NewOrder
	target.UpdatedAt = time.Now()

	return nil
}

func (r *repoMock) ListForDay(_ context.Context, userID, date string) ([]Set, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sets := make([]Set, 0)
	for _, s := range r.sets {
		if s.UserID == userID && s.Date == date {
			sets = append(sets, *s)
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Order < sets[j].Order
	})
	return sets, nil
}

func (r *repoMock) ListForExercise(_ context.Context, userID string, exerciseID int, since *time.Time) ([]Set, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sets := make([]Set, 0)
	for _, s := range r.sets {
		if s.UserID != userID || s.ExerciseID != exerciseID {
			continue
		}
		if since != nil && s.Date < since.Format(DateLayout) {
			continue
		}
		sets = append(sets, *s)
	}
	sortChronologically(sets)
	return sets, nil
}

func (r *repoMock) ListLatestForExerciseBefore(_ context.Context, userID string, exerciseID int, before string) ([]Set, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	latestDay := ""
	for _, s := range r.sets {
		if s.UserID == userID && s.ExerciseID == exerciseID && s.Date < before && s.Date > latestDay {
			latestDay = s.Date
		}
	}

	sets := make([]Set, 0)
	if latestDay == "" {
		return sets, nil
	}
	for _, s := range r.sets {
		if s.UserID == userID && s.ExerciseID == exerciseID && s.Date == latestDay {
			sets = append(sets, *s)
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Order < sets[j].Order
	})
	return sets, nil
}

func (r *repoMock) ListAll(_ context.Context, userID string) ([]Set, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sets := make([]Set, 0)
	for _, s := range r.sets {
		if s.UserID == userID {
			sets = append(sets, *s)
		}
	}
	sortChronologically(sets)
	return sets, nil
}

func sortChronologically(sets []Set) {
	sort.Slice(sets, func(i, j int) bool {
		if sets[i].Date != sets[j].Date {
			return sets[i].Date < sets[j].Date
		}
		return sets[i].Order < sets[j].Order
	})
}
