package repositories

import "neogaming/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts user, returning ErrDuplicate when the username or
	// email is taken.
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}
