package memory

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/resource"
)

// Catalog ресурсы и услуги в памяти, контракт как у resource.Repository
type Catalog struct {
	mu        sync.RWMutex
	resources map[int64]*domain.Resource
	services  map[int64][]domain.ServiceSpec
	lastID    int64 // последний выданный ID услуги
	clock     Clock
}

// NewCatalog создает пустой каталог
func NewCatalog() *Catalog {
	return &Catalog{
		resources: make(map[int64]*domain.Resource),
		services:  make(map[int64][]domain.ServiceSpec),
		clock:     systemClock{},
	}
}

// PutResource добавляет или заменяет ресурс
func (c *Catalog) PutResource(res *domain.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := cloneResource(res)
	now := c.clock.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	c.resources[res.ID] = stored
}

// PutService добавляет услугу ресурса
func (c *Catalog) PutService(spec domain.ServiceSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if spec.ID > c.lastID {
		c.lastID = spec.ID
	}

	list := c.services[spec.ResourceID]
	for i := range list {
		if list[i].ID == spec.ID {
			list[i] = spec
			return
		}
	}
	c.services[spec.ResourceID] = append(list, spec)
}

// Exists реализует ResourceChecker для Ledger
func (c *Catalog) Exists(resourceID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.resources[resourceID]
	return ok
}

func (c *Catalog) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.resources[id]
	if !ok {
		return nil, resource.ErrResourceNotFound
	}
	return cloneResource(res), nil
}

func (c *Catalog) GetServices(ctx context.Context, resourceID int64, onlyActive bool) ([]domain.ServiceSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.ServiceSpec, 0, len(c.services[resourceID]))
	for _, s := range c.services[resourceID] {
		if onlyActive && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Catalog) GetService(ctx context.Context, resourceID, serviceID int64) (*domain.ServiceSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.services[resourceID] {
		if s.ID == serviceID {
			found := s
			return &found, nil
		}
	}
	return nil, resource.ErrServiceNotFound
}

func (c *Catalog) CreateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.resources[spec.ResourceID]; !ok {
		return nil, resource.ErrResourceNotFound
	}

	c.lastID++
	spec.ID = c.lastID
	c.services[spec.ResourceID] = append(c.services[spec.ResourceID], spec)

	return &spec, nil
}

func (c *Catalog) UpdateService(ctx context.Context, spec domain.ServiceSpec) (*domain.ServiceSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.services[spec.ResourceID]
	for i := range list {
		if list[i].ID == spec.ID {
			list[i] = spec
			return &spec, nil
		}
	}
	return nil, resource.ErrServiceNotFound
}

func (c *Catalog) UpdateSchedule(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.resources[res.ID]
	if !ok {
		return nil, resource.ErrResourceNotFound
	}

	stored.Timezone = res.Timezone
	stored.SlotGranularityMinutes = res.SlotGranularityMinutes
	stored.AdvanceBookingDays = res.AdvanceBookingDays
	stored.MinBookingNoticeMinutes = res.MinBookingNoticeMinutes
	stored.WorkingHours = cloneResource(res).WorkingHours
	stored.UpdatedAt = c.clock.Now()

	return cloneResource(stored), nil
}

func cloneResource(res *domain.Resource) *domain.Resource {
	c := *res
	for day := range c.WorkingHours {
		if breaks := res.WorkingHours[day].Breaks; breaks != nil {
			c.WorkingHours[day].Breaks = append([]domain.BreakWindow(nil), breaks...)
		}
	}
	return &c
}
