package get_berth_statuses

import (
	getBerthStatuses "github.com/m04kA/SMC-MarinaService/internal/usecase/get_berth_statuses"
)

// BerthStatusResponse состояние причала
type BerthStatusResponse struct {
	BerthID   int64   `json:"berthId"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	BookingID *int64  `json:"bookingId,omitempty"`
	TariffIDs []int64 `json:"tariffIds"`
}

// BerthStatusesResponse HTTP ответ со состоянием причалов клуба
type BerthStatusesResponse struct {
	ClubID    int64                 `json:"clubId"`
	Available int                   `json:"available"`
	Berths    []BerthStatusResponse `json:"berths"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *getBerthStatuses.Response) *BerthStatusesResponse {
	out := &BerthStatusesResponse{
		ClubID:    resp.ClubID,
		Available: resp.Available,
		Berths:    make([]BerthStatusResponse, 0, len(resp.Berths)),
	}
	for _, b := range resp.Berths {
		tariffIDs := b.TariffIDs
		if tariffIDs == nil {
			tariffIDs = []int64{}
		}
		out.Berths = append(out.Berths, BerthStatusResponse{
			BerthID:   b.BerthID,
			Name:      b.Name,
			Status:    string(b.Status),
			BookingID: b.BookingID,
			TariffIDs: tariffIDs,
		})
	}
	return out
}
