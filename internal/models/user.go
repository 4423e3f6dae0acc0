package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей системы. Роль фиксируется при регистрации.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleReporter    = "reporter"
	RoleVolunteer   = "volunteer"
	RoleViewer      = "viewer"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Contact      string    `json:"contact,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity - идентичность запроса, извлеченная из токена.
// Передается в хендлеры явно через контекст запроса, без глобального состояния.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Contact  string    `json:"contact,omitempty"`
}
