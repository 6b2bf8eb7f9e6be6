package users

import (
	"context"
	"errors"

	"github.com/luketurner/exercise-tracker/internal/telemetry/tracing"
	"github.com/luketurner/exercise-tracker/internal/units"
	"github.com/luketurner/exercise-tracker/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO app_user (id, email, name, password_hash, weight_unit, distance_unit)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at;`,
		user.ID, user.Email, user.Name, user.PasswordHash,
		user.Preferences.WeightUnit(), user.Preferences.DistanceUnit(),
	).Scan(&user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	return &user, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getBy(ctx, `id = $1`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getBy(ctx, `email = $1`, email)
}

func (r *Repo) getBy(ctx context.Context, where string, arg interface{}) (*User, error) {
	user := &User{}
	err := r.db.QueryRow(
		ctx,
		`SELECT id, email, name, password_hash, weight_unit, distance_unit, created_at
			FROM app_user
			WHERE `+where+`;`,
		arg,
	).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.Preferences.Weight, &user.Preferences.Distance, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repo) UpdatePreferredUnits(ctx context.Context, userID string, prefs units.Preferences) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updatePreferredUnits")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET weight_unit = $1, distance_unit = $2 WHERE id = $3;`,
		prefs.WeightUnit(), prefs.DistanceUnit(), userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PreferredUnits returns the unit preferences of one user.
func (r *Repo) PreferredUnits(ctx context.Context, userID string) (_ units.Preferences, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.preferredUnits")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var prefs units.Preferences
	err = r.db.QueryRow(
		ctx,
		`SELECT weight_unit, distance_unit FROM app_user WHERE id = $1;`,
		userID,
	).Scan(&prefs.Weight, &prefs.Distance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return units.Preferences{}, ErrUserNotFound
		}
		return units.Preferences{}, err
	}
	return prefs, nil
}

// Delete removes the user account. Exercises and sets go with it,
// through the foreign keys.
func (r *Repo) Delete(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM app_user WHERE id = $1;`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM app_user;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
