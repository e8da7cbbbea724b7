package get_resource_reservations

import (
	"errors"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/reservations/models"
)

// ErrDateAndPeriod date нельзя совмещать с startDate/endDate
var ErrDateAndPeriod = errors.New("date cannot be combined with startDate or endDate")

// QueryParams query параметры запроса
type QueryParams struct {
	Date            string // "2026-03-10", один день
	StartDate       string
	EndDate         string
	Status          string
	IncludeInactive string // "true" / "false"
}

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(resourceID int64, actor domain.Actor, q QueryParams) (*models.GetResourceReservationsRequest, error) {
	req := &models.GetResourceReservationsRequest{
		Actor:      actor,
		ResourceID: resourceID,
	}

	if q.Date != "" {
		if q.StartDate != "" || q.EndDate != "" {
			return nil, ErrDateAndPeriod
		}
		date, err := time.Parse(domain.DateFormat, q.Date)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if q.StartDate != "" {
		start, err := time.Parse(domain.DateFormat, q.StartDate)
		if err != nil {
			return nil, err
		}
		req.StartDate = &start
	}

	if q.EndDate != "" {
		end, err := time.Parse(domain.DateFormat, q.EndDate)
		if err != nil {
			return nil, err
		}
		req.EndDate = &end
	}

	if q.Status != "" {
		status := q.Status
		req.Status = &status
	}

	if q.IncludeInactive != "" {
		includeInactive, err := strconv.ParseBool(q.IncludeInactive)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
