package sets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luketurner/exercise-tracker/internal/exercises"
	"github.com/luketurner/exercise-tracker/internal/telemetry/tracing"
	"github.com/luketurner/exercise-tracker/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSetNotFound = errors.New("set not found")

	// ErrOrderConflict: the client's view of the day is stale, or a
	// concurrent reorder collided with this one.
	ErrOrderConflict = errors.New("set order conflict")

	// ErrInvalidMove: the requested target position is outside the
	// day group.
	ErrInvalidMove = errors.New("invalid move target")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// MoveParams describes one drag-and-drop reorder. ClaimedOrder is the
// position the client believes the set currently holds, which guards
// against reordering on top of a stale day view.
type MoveParams struct {
	ID           int    `json:"-"`
	UserID       string `json:"-"`
	ClaimedOrder int    `json:"claimedOrder"`
	NewOrder     int    `json:"newOrder"`
}

func (r *Repo) Add(ctx context.Context, set Set) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	parametersJson, err := EncodeParameters(set.Parameters)
	if err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
			if pkg.IsUniqueViolationError(err) {
				err = ErrOrderConflict
			}
		}
	}()

	// append at the end of the day group
	err = tx.QueryRow(
		ctx,
		`INSERT INTO exercise_set (user_id, exercise_id, date, set_order, parameters)
			VALUES (
				$1, $2, $3,
				(SELECT COALESCE(MAX(set_order), 0) + 1
					FROM exercise_set
					WHERE user_id = $1 AND date = $3),
				$4
			)
		RETURNING id, set_order, created_at, updated_at;`,
		set.UserID, set.ExerciseID, set.Date, parametersJson,
	).Scan(&set.ID, &set.Order, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		// the exercise can vanish between the handler's lookup and
		// this insert
		if pkg.IsForeignKeyViolationError(err) {
			return nil, exercises.ErrExerciseNotFound
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("set.id", set.ID))

	return &set, nil
}

func (r *Repo) Update(ctx context.Context, set *Set) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", set.ID))

	parametersJson, err := EncodeParameters(set.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise_set SET parameters = $1, updated_at = now()
			WHERE id = $2 AND user_id = $3;`,
		parametersJson, set.ID, set.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

// Delete removes a set. Orders of the remaining sets in the day group
// are left untouched, so the group may keep a gap until the next move.
func (r *Repo) Delete(ctx context.Context, id int, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM exercise_set WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int, userID string) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		setSelect+`WHERE s.id = $1 AND s.user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets, err := r.rows2sets(rows)
	if err != nil {
		return nil, err
	}
	if len(sets) != 1 {
		return nil, ErrSetNotFound
	}
	return &sets[0], nil
}

// ListForDay returns the sets of one day group, in display order.
func (r *Repo) ListForDay(ctx context.Context, userID, date string) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.listForDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date))

	rows, err := r.db.Query(
		ctx,
		setSelect+`WHERE s.user_id = $1 AND s.date = $2
			ORDER BY s.set_order ASC;`,
		userID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2sets(rows)
}

// ListForExercise returns all sets of one exercise in chronological
// order. With a non-nil since, only sets logged on or after that day
// are returned.
func (r *Repo) ListForExercise(ctx context.Context, userID string, exerciseID int, since *time.Time) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.listForExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_id", exerciseID))

	query := setSelect + `WHERE s.user_id = $1 AND s.exercise_id = $2`
	args := []interface{}{userID, exerciseID}
	if since != nil {
		query += ` AND s.date >= $3`
		args = append(args, since.Format(DateLayout))
	}
	query += ` ORDER BY s.date ASC, s.set_order ASC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2sets(rows)
}

// ListLatestForExerciseBefore returns the sets of the most recent day
// before the given one on which the exercise was performed. Used to
// show the previous session next to today's log.
func (r *Repo) ListLatestForExerciseBefore(ctx context.Context, userID string, exerciseID int, before string) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.listLatestForExerciseBefore")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_id", exerciseID))

	rows, err := r.db.Query(
		ctx,
		setSelect+`WHERE s.user_id = $1 AND s.exercise_id = $2
			AND s.date = (
				SELECT MAX(date) FROM exercise_set
				WHERE user_id = $1 AND exercise_id = $2 AND date < $3
			)
			ORDER BY s.set_order ASC;`,
		userID, exerciseID, before,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2sets(rows)
}

// ListAll returns every set of a user, in chronological order.
func (r *Repo) ListAll(ctx context.Context, userID string) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.listAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		setSelect+`WHERE s.user_id = $1
			ORDER BY s.date ASC, s.set_order ASC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2sets(rows)
}

// Move repositions a set within its day group in one transaction:
// the sets between the old and the new position shift by one towards
// the vacated slot, then the moved set takes the new position. The
// whole day group is locked for the duration, and the claimed current
// position is verified first, so a stale client gets ErrOrderConflict
// instead of silently scrambling the order.
func (r *Repo) Move(ctx context.Context, params MoveParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.move")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("id", params.ID),
		attribute.Int("claimed_order", params.ClaimedOrder),
		attribute.Int("new_order", params.NewOrder),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
		}
	}()

	var currentOrder int
	var date string
	err = tx.QueryRow(
		ctx,
		`SELECT set_order, to_char(date, 'YYYY-MM-DD')
			FROM exercise_set
			WHERE id = $1 AND user_id = $2
			FOR UPDATE;`,
		params.ID, params.UserID,
	).Scan(&currentOrder, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSetNotFound
		}
		return err
	}

	if currentOrder != params.ClaimedOrder {
		return ErrOrderConflict
	}

	// moving a set onto its own position is a no-op, even when a
	// delete left the day with gaps and the position exceeds the
	// set count
	if params.NewOrder == currentOrder {
		if err = tx.Commit(ctx); err != nil {
			return err
		}
		committed = true
		return nil
	}

	// serialize against concurrent moves in the same day group
	var maxOrder int
	err = tx.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(set_order), 0) FROM (
			SELECT set_order FROM exercise_set
			WHERE user_id = $1 AND date = $2
			FOR UPDATE
		) AS locked;`,
		params.UserID, date,
	).Scan(&maxOrder)
	if err != nil {
		return err
	}

	if params.NewOrder < 1 || params.NewOrder > maxOrder {
		return fmt.Errorf("%w: %d, day orders end at %d", ErrInvalidMove, params.NewOrder, maxOrder)
	}

	if params.NewOrder > currentOrder {
		// moving down: everything in (current, new] shifts up
		_, err = tx.Exec(
			ctx,
			`UPDATE exercise_set SET set_order = set_order - 1
				WHERE user_id = $1 AND date = $2
				AND set_order > $3 AND set_order <= $4;`,
			params.UserID, date, currentOrder, params.NewOrder,
		)
	} else {
		// moving up: everything in [new, current) shifts down
		_, err = tx.Exec(
			ctx,
			`UPDATE exercise_set SET set_order = set_order + 1
				WHERE user_id = $1 AND date = $2
				AND set_order >= $3 AND set_order < $4;`,
			params.UserID, date, params.NewOrder, currentOrder,
		)
	}
	if err != nil {
		return err
	}

	if _, err = tx.Exec(
		ctx,
		`UPDATE exercise_set SET set_order = $1, updated_at = now()
			WHERE id = $2;`,
		params.NewOrder, params.ID,
	); err != nil {
		return err
	}

	// order uniqueness is deferred to commit; a serialization
	// failure means a concurrent move won the group, same remedy for
	// the client as a stale claim
	if err = tx.Commit(ctx); err != nil {
		if pkg.IsUniqueViolationError(err) || pkg.IsSerializationFailureError(err) {
			return ErrOrderConflict
		}
		return err
	}
	committed = true

	return nil
}

const setSelect = `
	SELECT
		s.id, s.user_id, s.exercise_id, to_char(s.date, 'YYYY-MM-DD'),
		s.set_order, s.parameters, s.created_at, s.updated_at,
		e.parameters
	FROM exercise_set s
	JOIN exercise e ON e.id = s.exercise_id
	`

func (r *Repo) rows2sets(rows pgx.Rows) ([]Set, error) {
	var sets []Set
	for rows.Next() {
		var s Set
		var parametersBytes, defsBytes []byte
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.ExerciseID, &s.Date,
			&s.Order, &parametersBytes, &s.CreatedAt, &s.UpdatedAt,
			&defsBytes,
		); err != nil {
			return nil, err
		}

		var defs []exercises.ParameterDefinition
		if len(defsBytes) > 0 {
			if err := json.Unmarshal(defsBytes, &defs); err != nil {
				return nil, fmt.Errorf("unmarshal parameter definitions for set %d: %w", s.ID, err)
			}
		}

		params, err := DecodeParameters(defs, parametersBytes)
		if err != nil {
			return nil, fmt.Errorf("decode parameters for set %d: %w", s.ID, err)
		}
		s.Parameters = params

		sets = append(sets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if sets == nil {
		sets = make([]Set, 0)
	}

	return sets, nil
}
