package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/domain"
	"github.com/MPanduranga55/Contact-Book/internal/models"
)

// MemoryContactsRepo supports the API when DB is disabled (DB_ENABLED=false).
// Data lives only as long as the process.
type MemoryContactsRepo struct {
	mu       sync.RWMutex
	nextID   int64
	contacts map[int64]domain.Contact
	byEmail  map[string]int64
	now      func() time.Time
}

func NewMemoryContactsRepo() *MemoryContactsRepo {
	return &MemoryContactsRepo{
		nextID:   1,
		contacts: map[int64]domain.Contact{},
		byEmail:  map[string]int64{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ ContactsRepository = (*MemoryContactsRepo)(nil)

func (r *MemoryContactsRepo) EnsureSchema(_ context.Context) error { return nil }

func (r *MemoryContactsRepo) ListContacts(_ context.Context, page, limit int) ([]*domain.Contact, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	start := models.Offset(page, limit)
	if start < 0 || start > total {
		start = total
	}
	end := total
	if limit < total-start {
		end = start + limit
	}

	out := make([]*domain.Contact, 0, end-start)
	for i := start; i < end; i++ {
		c := all[i]
		out = append(out, &c)
	}
	return out, total, nil
}

func (r *MemoryContactsRepo) GetContact(_ context.Context, id int64) (*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrContactNotFound
	}
	return &c, nil
}

func (r *MemoryContactsRepo) CreateContact(_ context.Context, contact *domain.Contact) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[contact.Email]; taken {
		return nil, ErrDuplicateEmail
	}

	c := domain.Contact{
		ID:        r.nextID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		CreatedAt: r.now(),
	}
	r.nextID++
	r.contacts[c.ID] = c
	r.byEmail[c.Email] = c.ID
	return &c, nil
}

func (r *MemoryContactsRepo) DeleteContact(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok {
		return false, nil
	}
	delete(r.contacts, id)
	delete(r.byEmail, c.Email)
	return true, nil
}
