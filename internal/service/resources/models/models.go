package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Request модели

// UpdateScheduleRequest частичное обновление политики расписания.
// Не указанные поля остаются прежними; WorkingHours заменяет только перечисленные дни.
type UpdateScheduleRequest struct {
	Actor                   domain.Actor  `json:"-"`
	ResourceID              int64         `json:"-"`
	Timezone                *string       `json:"timezone,omitempty"`
	SlotGranularityMinutes  *int          `json:"slotGranularityMinutes,omitempty"`
	AdvanceBookingDays      *int          `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int          `json:"minBookingNoticeMinutes,omitempty"`
	WorkingHours            []DaySchedule `json:"workingHours,omitempty"`
}

// ApplyTo накладывает изменения на копию ресурса
func (r *UpdateScheduleRequest) ApplyTo(res *domain.Resource) (*domain.Resource, error) {
	updated := *res

	if r.Timezone != nil {
		updated.Timezone = *r.Timezone
	}
	if r.SlotGranularityMinutes != nil {
		updated.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.AdvanceBookingDays != nil {
		updated.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		updated.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}

	seen := make(map[time.Weekday]bool, len(r.WorkingHours))
	for _, day := range r.WorkingHours {
		weekday, err := ParseWeekday(day.Weekday)
		if err != nil {
			return nil, err
		}
		if seen[weekday] {
			return nil, fmt.Errorf("weekday %s listed twice", day.Weekday)
		}
		seen[weekday] = true

		schedule, err := day.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day.Weekday, err)
		}
		updated.WorkingHours[weekday] = schedule
	}

	return &updated, nil
}

// DaySchedule часы работы одного дня недели
type DaySchedule struct {
	Weekday   string        `json:"weekday"` // "monday" ... "sunday"
	Open      bool          `json:"open"`
	OpenTime  string        `json:"openTime,omitempty"`  // "10:00"
	CloseTime string        `json:"closeTime,omitempty"` // "20:00"
	Breaks    []BreakWindow `json:"breaks,omitempty"`
}

// BreakWindow перерыв [start, end)
type BreakWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ToDomain конвертирует день в domain модель
func (d DaySchedule) ToDomain() (domain.DaySchedule, error) {
	if !d.Open {
		return domain.DaySchedule{}, nil
	}

	openTime, err := types.NewTimeStringFromString(d.OpenTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("openTime: %w", err)
	}
	closeTime, err := types.NewTimeStringFromString(d.CloseTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("closeTime: %w", err)
	}

	schedule := domain.DaySchedule{Open: true, OpenTime: openTime, CloseTime: closeTime}
	for _, b := range d.Breaks {
		start, err := types.NewTimeStringFromString(b.Start)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("break start: %w", err)
		}
		end, err := types.NewTimeStringFromString(b.End)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("break end: %w", err)
		}
		schedule.Breaks = append(schedule.Breaks, domain.BreakWindow{Start: start, End: end})
	}

	return schedule, nil
}

// ParseWeekday разбирает название дня недели ("monday")
func ParseWeekday(s string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), s) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// CreateServiceRequest новая услуга ресурса
type CreateServiceRequest struct {
	Actor           domain.Actor `json:"-"`
	ResourceID      int64        `json:"-"`
	Name            string       `json:"name"`
	Price           float64      `json:"price"`
	DurationMinutes int          `json:"durationMinutes"`
	Active          *bool        `json:"active,omitempty"` // по умолчанию true
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateServiceRequest) ToDomain() domain.ServiceSpec {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.ServiceSpec{
		ResourceID:      r.ResourceID,
		Name:            strings.TrimSpace(r.Name),
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		Active:          active,
	}
}

// UpdateServiceRequest частичное обновление услуги
type UpdateServiceRequest struct {
	Actor           domain.Actor `json:"-"`
	ResourceID      int64        `json:"-"`
	ServiceID       int64        `json:"-"`
	Name            *string      `json:"name,omitempty"`
	Price           *float64     `json:"price,omitempty"`
	DurationMinutes *int         `json:"durationMinutes,omitempty"`
	Active          *bool        `json:"active,omitempty"`
}

// ApplyTo накладывает изменения на копию услуги
func (r *UpdateServiceRequest) ApplyTo(spec domain.ServiceSpec) domain.ServiceSpec {
	if r.Name != nil {
		spec.Name = strings.TrimSpace(*r.Name)
	}
	if r.Price != nil {
		spec.Price = *r.Price
	}
	if r.DurationMinutes != nil {
		spec.DurationMinutes = *r.DurationMinutes
	}
	if r.Active != nil {
		spec.Active = *r.Active
	}
	return spec
}

// Response модели

// ScheduleResponse политика расписания ресурса и его услуги
type ScheduleResponse struct {
	ResourceID              int64         `json:"resourceId"`
	Name                    string        `json:"name"`
	Kind                    string        `json:"kind"`
	Timezone                string        `json:"timezone"`
	SlotGranularityMinutes  int           `json:"slotGranularityMinutes"`
	AdvanceBookingDays      int           `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int           `json:"minBookingNoticeMinutes"`
	WorkingHours            []DaySchedule `json:"workingHours"`
	Services                []Service     `json:"services"`
}

// Service услуга ресурса
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	Active          bool    `json:"active"`
}

// FromDomainService конвертирует услугу в DTO
func FromDomainService(spec domain.ServiceSpec) Service {
	return Service{
		ID:              spec.ID,
		Name:            spec.Name,
		Price:           spec.Price,
		DurationMinutes: spec.DurationMinutes,
		Active:          spec.Active,
	}
}

// FromDomainResource конвертирует ресурс и его активные услуги в DTO.
// Дни недели начинаются с понедельника.
func FromDomainResource(res *domain.Resource, services []domain.ServiceSpec) *ScheduleResponse {
	resp := &ScheduleResponse{
		ResourceID:              res.ID,
		Name:                    res.Name,
		Kind:                    string(res.Kind),
		Timezone:                res.Timezone,
		SlotGranularityMinutes:  res.SlotGranularityMinutes,
		AdvanceBookingDays:      res.AdvanceBookingDays,
		MinBookingNoticeMinutes: res.MinBookingNoticeMinutes,
		WorkingHours:            make([]DaySchedule, 0, 7),
		Services:                make([]Service, 0, len(services)),
	}

	for i := 1; i <= 7; i++ {
		weekday := time.Weekday(i % 7)
		resp.WorkingHours = append(resp.WorkingHours, fromDomainDay(weekday, res.WorkingHours.For(weekday)))
	}

	for _, spec := range services {
		resp.Services = append(resp.Services, FromDomainService(spec))
	}

	return resp
}

func fromDomainDay(weekday time.Weekday, d domain.DaySchedule) DaySchedule {
	day := DaySchedule{Weekday: strings.ToLower(weekday.String()), Open: d.Open}
	if !d.Open {
		return day
	}

	day.OpenTime = d.OpenTime.String()
	day.CloseTime = d.CloseTime.String()
	for _, b := range d.Breaks {
		day.Breaks = append(day.Breaks, BreakWindow{Start: b.Start.String(), End: b.End.String()})
	}
	return day
}
