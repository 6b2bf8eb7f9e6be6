package users

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/luketurner/exercise-tracker/internal/auth"
	"github.com/luketurner/exercise-tracker/internal/exercises"
	"github.com/luketurner/exercise-tracker/internal/middleware"
	"github.com/luketurner/exercise-tracker/internal/sets"
	"github.com/luketurner/exercise-tracker/internal/telemetry/metrics"
	"github.com/luketurner/exercise-tracker/internal/telemetry/tracing"
	"github.com/luketurner/exercise-tracker/internal/units"
	"github.com/luketurner/exercise-tracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=users_test

type usersRepo interface {
	Create(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePreferredUnits(ctx context.Context, userID string, prefs units.Preferences) error
	Delete(ctx context.Context, userID string) error
}

type loginService interface {
	Login(ctx context.Context, userID string) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type exportExercisesRepo interface {
	ListForUser(ctx context.Context, userID string) ([]exercises.Exercise, error)
}

type exportSetsRepo interface {
	ListAll(ctx context.Context, userID string) ([]sets.Set, error)
}

type Handler struct {
	repo          usersRepo
	authService   loginService
	exercisesRepo exportExercisesRepo
	setsRepo      exportSetsRepo
}

func NewHandler(
	repo usersRepo,
	authService loginService,
	exercisesRepo exportExercisesRepo,
	setsRepo exportSetsRepo,
) *Handler {
	return &Handler{
		repo:          repo,
		authService:   authService,
		exercisesRepo: exercisesRepo,
		setsRepo:      setsRepo,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
	metricsManager *metrics.Manager,
) {
	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/register", handler.HandleRegister).
		Methods("POST", "OPTIONS").Name("register")
	loginSubrouter.
		HandleFunc("/login", handler.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.HandleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the login endpoints to prevent brute forcing
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginAllowedPerMin, metricsManager))

	mainRouter.HandleFunc("/settings", handler.HandleGetSettings).Methods("GET", "OPTIONS").Name("settings-get")
	mainRouter.HandleFunc("/settings", handler.HandleUpdateSettings).Methods("POST").Name("settings-update")

	userSubrouter := mainRouter.PathPrefix("/user").Subrouter()
	userSubrouter.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export")
	userSubrouter.HandleFunc("/export.csv", handler.HandleExportCSV).Methods("GET", "OPTIONS").Name("export-csv")
	userSubrouter.HandleFunc("/delete", handler.HandleDelete).Methods("POST", "OPTIONS").Name("user-delete")
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.register")
	defer span.End()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("register, decode request: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if req.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "error, password too short", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("register, hash password: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	user, err := handler.repo.Create(ctx, User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, "error, email already taken", http.StatusConflict)
			return
		}
		log.Errorf("register, create user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	token, err := handler.authService.Login(ctx, user.ID)
	if err != nil {
		log.Errorf("register, generate token: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.JSON, fmt.Sprintf(`{"token":"%s"}`, token), http.StatusCreated)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		req = loginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	if req.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Tracef("[email] failed login attempt for: %s", req.Email)
			http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login, get user: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for: %s", req.Email)
		http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.authService.Login(ctx, user.ID)
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token":"%s"}`, token))
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	token := r.Header.Get(middleware.AuthTokenHeader)
	if token == "" {
		http.Error(w, "error, token empty", http.StatusBadRequest)
		return
	}

	loggedOut, err := handler.authService.Logout(ctx, token)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		http.Error(w, "error, not logged in", http.StatusBadRequest)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

type settingsResponse struct {
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	WeightUnit     units.Unit   `json:"weightUnit"`
	DistanceUnit   units.Unit   `json:"distanceUnit"`
	AvailableUnits []units.Info `json:"availableUnits"`
}

func (handler *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.getSettings")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	user, err := handler.repo.Get(ctx, userID)
	if err != nil {
		log.Errorf("get settings, get user: %s", err)
		http.Error(w, "error, failed to get settings", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(settingsResponse{
		Email:          user.Email,
		Name:           user.Name,
		WeightUnit:     user.Preferences.WeightUnit(),
		DistanceUnit:   user.Preferences.DistanceUnit(),
		AvailableUnits: units.All(),
	})
	if err != nil {
		log.Errorf("marshal settings: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

type updateSettingsRequest struct {
	WeightUnit   units.Unit `json:"weightUnit"`
	DistanceUnit units.Unit `json:"distanceUnit"`
}

func (handler *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.updateSettings")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update settings, decode request: %s", err)
		http.Error(w, "update settings failed", http.StatusBadRequest)
		return
	}

	if !units.IsWeight(req.WeightUnit) {
		http.Error(w, fmt.Sprintf("error, invalid weight unit: %s", req.WeightUnit), http.StatusBadRequest)
		return
	}
	if !units.IsDistance(req.DistanceUnit) {
		http.Error(w, fmt.Sprintf("error, invalid distance unit: %s", req.DistanceUnit), http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdatePreferredUnits(ctx, userID, units.Preferences{
		Weight:   req.WeightUnit,
		Distance: req.DistanceUnit,
	}); err != nil {
		log.Errorf("failed to update settings: %s", err)
		http.Error(w, "error, failed to update settings", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "updated")
}

type exportPayload struct {
	ExportedAt time.Time            `json:"exportedAt"`
	User       *User                `json:"user"`
	Exercises  []exercises.Exercise `json:"exercises"`
	Sets       []sets.Set           `json:"sets"`
}

// HandleExport sends the complete account data as a JSON download.
func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.export")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	payload, err := handler.exportPayload(ctx, userID)
	if err != nil {
		log.Errorf("export: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal export: %s", err)
		http.Error(w, "unexpected error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=user_%s_%d.json", userID, payload.ExportedAt.Unix()),
	)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payloadJson)
}

// HandleExportCSV sends the logged sets as a CSV download, one row
// per set, with parameters flattened to a JSON cell.
func (handler *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.exportCSV")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	payload, err := handler.exportPayload(ctx, userID)
	if err != nil {
		log.Errorf("export csv: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}

	exerciseNames := make(map[int]string, len(payload.Exercises))
	for _, ex := range payload.Exercises {
		exerciseNames[ex.ID] = ex.Name
	}

	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=user_%s_%d.csv", userID, payload.ExportedAt.Unix()),
	)
	w.Header().Set("Content-Type", pkg.ContentType.CSV)

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write([]string{"date", "order", "exercise", "parameters"}); err != nil {
		log.Errorf("export csv, write header: %s", err)
		return
	}
	for _, set := range payload.Sets {
		paramsJson, err := sets.EncodeParameters(set.Parameters)
		if err != nil {
			log.Errorf("export csv, encode parameters of set %d: %s", set.ID, err)
			return
		}
		if err := csvWriter.Write([]string{
			set.Date,
			fmt.Sprintf("%d", set.Order),
			exerciseNames[set.ExerciseID],
			string(paramsJson),
		}); err != nil {
			log.Errorf("export csv, write set %d: %s", set.ID, err)
			return
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		log.Errorf("export csv, flush: %s", err)
	}
}

func (handler *Handler) exportPayload(ctx context.Context, userID string) (*exportPayload, error) {
	user, err := handler.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	userExercises, err := handler.exercisesRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	userSets, err := handler.setsRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return &exportPayload{
		ExportedAt: time.Now(),
		User:       user,
		Exercises:  userExercises,
		Sets:       userSets,
	}, nil
}

// HandleDelete removes the account and everything logged with it.
func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "users.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if err := handler.repo.Delete(ctx, userID); err != nil {
		log.Errorf("failed to delete user %s: %s", userID, err)
		http.Error(w, "error, failed to delete account", http.StatusInternalServerError)
		return
	}

	token := r.Header.Get(middleware.AuthTokenHeader)
	if token != "" {
		if _, err := handler.authService.Logout(ctx, token); err != nil {
			log.Errorf("delete user, logout: %s", err)
		}
	}

	pkg.WriteTextResponseOK(w, "deleted")
}
