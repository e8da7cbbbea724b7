package main

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
)

// seedDemoCatalog наполняет in-memory каталог одним мастером с услугами,
// чтобы сервис можно было попробовать без базы данных
func seedDemoCatalog(c *memory.Catalog) {
	weekday := domain.DaySchedule{
		Open:      true,
		OpenTime:  "10:00",
		CloseTime: "20:00",
		Breaks:    []domain.BreakWindow{{Start: "14:00", End: "15:00"}},
	}
	saturday := domain.DaySchedule{Open: true, OpenTime: "11:00", CloseTime: "17:00"}

	var hours domain.WorkingHours
	for day := 1; day <= 5; day++ {
		hours[day] = weekday
	}
	hours[6] = saturday

	c.PutResource(&domain.Resource{
		ID:                      1,
		OwnerUserID:             1,
		Name:                    "Demo barber",
		Kind:                    domain.ResourceKindBarber,
		Timezone:                domain.DefaultTimezone,
		SlotGranularityMinutes:  domain.DefaultSlotGranularityMinutes,
		AdvanceBookingDays:      30,
		MinBookingNoticeMinutes: 60,
		WorkingHours:            hours,
	})

	for _, spec := range []domain.ServiceSpec{
		{ID: 1, ResourceID: 1, Name: "Haircut", Price: 25, DurationMinutes: 45, Active: true},
		{ID: 2, ResourceID: 1, Name: "Beard trim", Price: 15, DurationMinutes: 20, Active: true},
		{ID: 3, ResourceID: 1, Name: "Hot towel shave", Price: 20, DurationMinutes: 30, Active: true},
	} {
		c.PutService(spec)
	}
}
