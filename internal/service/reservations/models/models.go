package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidPeriod конец периода раньше начала
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// GetUserReservationsRequest запрос на получение записей клиента
type GetUserReservationsRequest struct {
	Actor  domain.Actor
	UserID int64
	Status *string
}

// GetResourceReservationsRequest запрос на получение записей мастера/кресла
type GetResourceReservationsRequest struct {
	Actor           domain.Actor
	ResourceID      int64
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить отклонённые, завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetResourceReservationsRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		ResourceID:      r.ResourceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// фильтр по неактивному статусу сам по себе означает includeInactive
		if !status.IsActive() {
			filter.IncludeInactive = true
		}
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными записи
type ReservationResponse struct {
	ID              string    `json:"id"`
	ResourceID      int64     `json:"resourceId"`
	CustomerID      int64     `json:"customerId"`
	Date            string    `json:"date"`      // "2026-03-10"
	StartTime       string    `json:"startTime"` // "10:00"
	DurationMinutes int       `json:"durationMinutes"`
	StartsAt        time.Time `json:"startsAt"`
	EndsAt          time.Time `json:"endsAt"`
	Status          string    `json:"status"`
	ServiceIDs      []int64   `json:"serviceIds"`
	TotalPrice      float64   `json:"totalPrice"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком записей
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	serviceIDs := r.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}

	return &ReservationResponse{
		ID:              r.ID,
		ResourceID:      r.ResourceID,
		CustomerID:      r.CustomerID,
		Date:            r.Date.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		DurationMinutes: r.DurationMinutes,
		StartsAt:        r.StartsAt,
		EndsAt:          r.EndsAt,
		Status:          string(r.Status),
		ServiceIDs:      serviceIDs,
		TotalPrice:      r.TotalPrice,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}

	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
