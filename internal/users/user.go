package users

import (
	"time"

	"github.com/luketurner/exercise-tracker/internal/units"
)

type User struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	PasswordHash string            `json:"-"`
	Preferences  units.Preferences `json:"preferences"`
	CreatedAt    time.Time         `json:"createdAt"`
}
