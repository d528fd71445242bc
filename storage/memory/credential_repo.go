package memory

import (
	"context"
	"sort"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

type credentialRepo struct {
	m *MemStorage
}

func (r credentialRepo) Create(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.providers[credential.ProviderID]; !ok {
		return nil, storage.ErrNotFound
	}

	r.m.credentialSeq++
	created := *credential
	created.ID = r.m.credentialSeq
	if created.Status == "" {
		created.Status = models.CredentialPending
	}
	created.CreatedAt = r.m.now()
	r.m.credentials[created.ID] = created
	return &created, nil
}

func (r credentialRepo) GetByID(ctx context.Context, id uint) (*models.Credential, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	c, ok := r.m.credentials[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (r credentialRepo) ListByProvider(ctx context.Context, providerID uint) ([]*models.Credential, error) {
	return r.list(func(c models.Credential) bool { return c.ProviderID == providerID }), nil
}

func (r credentialRepo) ListByStatus(ctx context.Context, status models.CredentialStatus) ([]*models.Credential, error) {
	return r.list(func(c models.Credential) bool { return c.Status == status }), nil
}

func (r credentialRepo) list(keep func(models.Credential) bool) []*models.Credential {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]*models.Credential, 0)
	for _, c := range r.m.credentials {
		if !keep(c) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r credentialRepo) Update(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.credentials[credential.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	updated := *credential
	updated.ProviderID = existing.ProviderID
	updated.CreatedAt = existing.CreatedAt
	r.m.credentials[updated.ID] = updated
	return &updated, nil
}

func (r credentialRepo) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.credentials[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.m.credentials, id)
	return nil
}
