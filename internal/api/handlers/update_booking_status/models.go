package update_booking_status

// UpdateStatusRequest HTTP запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed active completed cancelled"`
}
