package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luketurner/exercise-tracker/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

const (
	oneHour         = 60 * 60
	listCacheExpire = oneHour * 1 // exercise lists change rarely, writes invalidate anyway
)

type Repo struct {
	db    *pgxpool.Pool
	cache *freecache.Cache
}

func NewRepo(db *pgxpool.Pool) *Repo {
	megabyte := 1024 * 1024
	return &Repo{
		db:    db,
		cache: freecache.NewCache(10 * megabyte),
	}
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	parametersJson, err := json.Marshal(exercise.Parameters)
	if err != nil {
		return nil, fmt.Errorf("marshal parameters: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise (user_id, name, parameters)
			VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at;`,
		exercise.UserID, exercise.Name, parametersJson,
	).Scan(&exercise.ID, &exercise.CreatedAt, &exercise.UpdatedAt)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))

	r.invalidateListCache(exercise.UserID)
	return &exercise, nil
}

func (r *Repo) Update(ctx context.Context, exercise *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", exercise.ID))

	parametersJson, err := json.Marshal(exercise.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise SET name = $1, parameters = $2, updated_at = now()
			WHERE id = $3 AND user_id = $4;`,
		exercise.Name, parametersJson, exercise.ID, exercise.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	r.invalidateListCache(exercise.UserID)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM exercise WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	r.invalidateListCache(userID)
	return nil
}

func (r *Repo) Get(ctx context.Context, id int, userID string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, parameters, created_at, updated_at, last_used_at
			FROM exercise
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}

	if len(exercises) != 1 {
		return nil, ErrExerciseNotFound
	}

	return &exercises[0], nil
}

// ListForUser returns all exercises of a user, ordered by name.
// Results are cached per user until the next write for that user.
func (r *Repo) ListForUser(ctx context.Context, userID string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	cacheKey := listCacheKey(userID)
	if cachedBytes, cacheErr := r.cache.Get(cacheKey); cacheErr == nil {
		var cached []Exercise
		if err := json.Unmarshal(cachedBytes, &cached); err == nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		} else {
			log.Errorf("failed to unmarshal cached exercise list for user %s: %s", userID, err)
		}
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, parameters, created_at, updated_at, last_used_at
			FROM exercise
			WHERE user_id = $1
			ORDER BY name ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2exercises: %w", err)
	}

	if listJson, err := json.Marshal(exercises); err == nil {
		if err := r.cache.Set(cacheKey, listJson, listCacheExpire); err != nil {
			log.Tracef("failed to cache exercise list for user %s: %s", userID, err)
		}
	}

	return exercises, nil
}

// TouchLastUsed stamps the exercise as used at the given time.
// Called whenever a set is logged or edited against it.
func (r *Repo) TouchLastUsed(ctx context.Context, id int, usedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.touchLastUsed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	_, err = r.db.Exec(
		ctx,
		`UPDATE exercise SET last_used_at = $1 WHERE id = $2;`,
		usedAt, id,
	)
	return err
}

func (r *Repo) rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		var parametersBytes []byte
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Name, &parametersBytes,
			&e.CreatedAt, &e.UpdatedAt, &e.LastUsedAt,
		); err != nil {
			return nil, err
		}

		if len(parametersBytes) > 0 {
			if err := json.Unmarshal(parametersBytes, &e.Parameters); err != nil {
				return nil, fmt.Errorf("unmarshal parameters for exercise %d: %w", e.ID, err)
			}
		}
		if e.Parameters == nil {
			e.Parameters = make([]ParameterDefinition, 0)
		}

		exercises = append(exercises, e)
	}

	if exercises == nil {
		exercises = make([]Exercise, 0)
	}

	return exercises, nil
}

func (r *Repo) invalidateListCache(userID string) {
	r.cache.Del(listCacheKey(userID))
}

func listCacheKey(userID string) []byte {
	return []byte("exercises::" + userID)
}
