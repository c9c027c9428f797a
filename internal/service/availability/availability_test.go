package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

func TestIsBookable(t *testing.T) {
	berth := &domain.Berth{ID: 1, ClubID: 1, IsAvailable: true}

	tests := []struct {
		name     string
		berth    *domain.Berth
		bookings []*domain.Booking
		want     bool
	}{
		{name: "no bookings", berth: berth, want: true},
		{name: "administratively unavailable", berth: &domain.Berth{ID: 1, IsAvailable: false}, want: false},
		{name: "pending booking holds the berth", berth: berth, bookings: []*domain.Booking{{BerthID: 1, Status: domain.StatusPending}}, want: false},
		{name: "confirmed booking", berth: berth, bookings: []*domain.Booking{{BerthID: 1, Status: domain.StatusConfirmed}}, want: false},
		{name: "active booking", berth: berth, bookings: []*domain.Booking{{BerthID: 1, Status: domain.StatusActive}}, want: false},
		{name: "completed and cancelled do not count", berth: berth, bookings: []*domain.Booking{
			{BerthID: 1, Status: domain.StatusCompleted},
			{BerthID: 1, Status: domain.StatusCancelled},
		}, want: true},
		{name: "other berth live booking", berth: berth, bookings: []*domain.Booking{{BerthID: 2, Status: domain.StatusActive}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBookable(tt.berth, tt.bookings))
		})
	}
}

func TestStatus(t *testing.T) {
	berth := &domain.Berth{ID: 1, IsAvailable: true}

	assert.Equal(t, StatusAvailable, Status(berth, nil))
	assert.Equal(t, StatusPending, Status(berth, []*domain.Booking{{BerthID: 1, Status: domain.StatusPending}}))
	assert.Equal(t, StatusBooked, Status(berth, []*domain.Booking{{BerthID: 1, Status: domain.StatusConfirmed}}))
	assert.Equal(t, StatusBooked, Status(berth, []*domain.Booking{{BerthID: 1, Status: domain.StatusActive}}))
	assert.Equal(t, StatusAvailable, Status(berth, []*domain.Booking{{BerthID: 1, Status: domain.StatusCancelled}}))

	unavailable := &domain.Berth{ID: 1, IsAvailable: false}
	assert.Equal(t, StatusUnavailable, Status(unavailable, []*domain.Booking{{BerthID: 1, Status: domain.StatusPending}}))
}
