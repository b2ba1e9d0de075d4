package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
)

// UserDTO is the API-facing shape of an account. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

// ToUserDTO converts a stored user to its API shape. Auth uses it too.
func ToUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
