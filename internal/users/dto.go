package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	Phone     *string        `json:"phone,omitempty"`
	Village   *string        `json:"village,omitempty"`
	District  *string        `json:"district,omitempty"`
	State     *string        `json:"state,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Role         enums.UserRole
	Phone        *string
	Village      *string
	District     *string
	State        *string
}

// ToModel converts the create DTO into a persistable model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Phone:        d.Phone,
		Village:      d.Village,
		District:     d.District,
		State:        d.State,
	}
}

// FromModel maps a persisted user onto the transport DTO.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Village:   user.Village,
		District:  user.District,
		State:     user.State,
		CreatedAt: user.CreatedAt,
	}
}
