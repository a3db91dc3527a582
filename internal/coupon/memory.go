package coupon

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps coupons in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  int
	coupons map[int]Coupon
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, coupons: make(map[int]Coupon)}
}

func (m *MemoryRepository) List(_ context.Context) ([]Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Coupon, 0, len(m.coupons))
	for _, c := range m.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int) (Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.coupons[id]
	if !ok {
		return Coupon{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryRepository) GetByCode(_ context.Context, code string) (Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.findCode(code)
	if !ok {
		return Coupon{}, ErrNotFound
	}
	return m.coupons[id], nil
}

func (m *MemoryRepository) Create(_ context.Context, req Request) (Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.findCode(req.Code); ok {
		return Coupon{}, ErrDuplicate
	}

	now := time.Now().UTC()
	c := Coupon{
		ID:            m.nextID,
		Code:          req.Code,
		Discount:      req.Discount,
		MaxUsageCount: req.MaxUsageCount,
		DateCreated:   &now,
		DateUpdated:   &now,
	}
	m.coupons[c.ID] = c
	m.nextID++
	return c, nil
}

func (m *MemoryRepository) Update(_ context.Context, id int, req Request) (Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.coupons[id]
	if !ok {
		return Coupon{}, ErrNotFound
	}
	if other, ok := m.findCode(req.Code); ok && other != id {
		return Coupon{}, ErrDuplicate
	}

	now := time.Now().UTC()
	c.Code = req.Code
	c.Discount = req.Discount
	c.MaxUsageCount = req.MaxUsageCount
	c.DateUpdated = &now
	m.coupons[id] = c
	return c, nil
}

func (m *MemoryRepository) DeleteByID(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.coupons[id]; !ok {
		return ErrNotFound
	}
	delete(m.coupons, id)
	return nil
}

func (m *MemoryRepository) DeleteByCode(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.findCode(code)
	if !ok {
		return ErrNotFound
	}
	delete(m.coupons, id)
	return nil
}

// findCode must be called with mu held.
func (m *MemoryRepository) findCode(code string) (int, bool) {
	for id, c := range m.coupons {
		if c.Code == code {
			return id, true
		}
	}
	return 0, false
}
