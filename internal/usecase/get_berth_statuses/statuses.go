package get_berth_statuses

import (
	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/service/availability"
)

// buildStatuses сопоставляет причалам их живые бронирования
func buildStatuses(berths []*domain.Berth, bookings []*domain.Booking) ([]BerthStatus, int) {
	byBerth := make(map[int64][]*domain.Booking, len(bookings))
	for _, b := range bookings {
		byBerth[b.BerthID] = append(byBerth[b.BerthID], b)
	}

	statuses := make([]BerthStatus, 0, len(berths))
	available := 0

	for _, berth := range berths {
		live := byBerth[berth.ID]
		item := BerthStatus{
			BerthID:   berth.ID,
			Name:      berth.Name,
			Status:    availability.Status(berth, live),
			TariffIDs: berth.TariffIDs,
		}

		for _, b := range live {
			if b.IsLive() {
				id := b.ID
				item.BookingID = &id
				break
			}
		}

		if availability.IsBookable(berth, live) {
			available++
		}
		statuses = append(statuses, item)
	}

	return statuses, available
}
