package dto

import "time"

// LoginRequest представляет запрос на вход администратора
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse содержит выданный токен
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateAdminRequest представляет запрос на создание администратора
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminUserResponse представляет администратора без хеша пароля
type AdminUserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
