package get_bookable_slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	getBookableSlots "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_bookable_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	ResourceID      int64          `json:"resourceId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	TotalPrice      float64        `json:"totalPrice"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse один кандидат сетки
type SlotResponse struct {
	StartTime string `json:"startTime"`
	Available bool   `json:"available"`
}

// ParseServiceIDs разбирает список "1,2,3"
func ParseServiceIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid service id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ToUseCaseRequest формирует запрос use case
func ToUseCaseRequest(resourceID int64, dateStr string, serviceIDs []int64) (*getBookableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getBookableSlots.Request{
		ResourceID: resourceID,
		Date:       date,
		ServiceIDs: serviceIDs,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getBookableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{StartTime: s.StartTime.String(), Available: s.Available})
	}

	return &SlotsResponse{
		ResourceID:      resp.ResourceID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		TotalPrice:      resp.TotalPrice,
		Slots:           slots,
	}
}
