package types

import "github.com/ratewise-dev/ratewise/internal/models"

type UserResponse struct {
	ID      uint        `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Address string      `json:"address"`
	Role    models.Role `json:"role"`
}

type LoginResponse struct {
	ID      uint        `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Address string      `json:"address"`
	Role    models.Role `json:"role"`
	Token   string      `json:"token"`

	// Only set when the account owns a store.
	StoreID   *uint   `json:"storeId,omitempty"`
	StoreName *string `json:"storeName,omitempty"`
}
