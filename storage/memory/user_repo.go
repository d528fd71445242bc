package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type userRepo struct {
	m *MemStorage
}

func (r userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return nil, storage.ErrConflict
		}
	}

	r.m.userSeq++
	created := *user
	created.ID = r.m.userSeq
	created.CreatedAt = r.m.now()
	created.UpdatedAt = created.CreatedAt
	r.m.users[created.ID] = created
	return &created, nil
}

func (r userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, u := range r.m.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r userRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.users[user.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for id, u := range r.m.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return nil, storage.ErrConflict
		}
	}

	updated := *user
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.m.now()
	r.m.users[updated.ID] = updated
	return &updated, nil
}

func (r userRepo) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	users := make([]*models.User, 0, len(r.m.users))
	for _, u := range r.m.users {
		if role != "" && u.Role != role {
			continue
		}
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
