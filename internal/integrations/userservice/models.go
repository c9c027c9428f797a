package userservice

// User модель пользователя из UserService
// Движку бронирования нужны только id и роль
type User struct {
	ID   int64  `json:"id"`
	Role string `json:"role"` // admin, club_owner, vessel_owner
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
