package cancel_booking

// CancelBookingRequest HTTP запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason" validate:"max=500"`
}
