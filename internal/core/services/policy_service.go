package services

import (
	"fmt"
	"log"

	"insurtech-portal/internal/adapters/persistence/csvstore"
	"insurtech-portal/internal/core/domain"
)

// PolicyService handles reading, recommending and (for admins) mutating the
// policy table. Every mutation follows the same contract: commit to the
// backing file first, then invalidate the read cache, so the next view is
// re-derived from durable state.
type PolicyService struct {
	store           *csvstore.Store
	defaultTermMode domain.TermMatchMode
}

// NewPolicyService creates a new policy service
func NewPolicyService(store *csvstore.Store, defaultTermMode domain.TermMatchMode) *PolicyService {
	return &PolicyService{
		store:           store,
		defaultTermMode: defaultTermMode,
	}
}

// List returns the full policy table
func (s *PolicyService) List() ([]domain.Policy, error) {
	return s.store.Load()
}

// Get returns one policy by id
func (s *PolicyService) Get(id uint) (*domain.Policy, error) {
	records, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Recommend runs the filter/sort engine over the current table. A criteria
// without an explicit payment-term mode uses the configured default.
func (s *PolicyService) Recommend(criteria domain.Criteria) ([]domain.Policy, error) {
	if criteria.PaymentTermMode == "" {
		criteria.PaymentTermMode = s.defaultTermMode
	}

	records, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return Recommend(records, criteria)
}

// Create appends a record with the next sequential id and persists
func (s *PolicyService) Create(record domain.Policy) (*domain.Policy, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	records, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	record.ID = 0 // id is assigned by the store, never by the caller
	records = append(records, record)

	saved, err := s.commit(records)
	if err != nil {
		return nil, err
	}

	created := saved[len(saved)-1]
	log.Printf("✅ Policy created: #%d %s %s", created.ID, created.Company, created.Product)
	return &created, nil
}

// Update replaces the record with the given id wholesale and persists.
// Returns domain.ErrNotFound when no record carries the id.
func (s *PolicyService) Update(id uint, newValues domain.Policy) (*domain.Policy, error) {
	if err := newValues.Validate(); err != nil {
		return nil, err
	}

	records, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	found := false
	for i := range records {
		if records[i].ID == id {
			newValues.ID = id
			records[i] = newValues
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	if _, err := s.commit(records); err != nil {
		return nil, err
	}

	log.Printf("✅ Policy updated: #%d", id)
	return &newValues, nil
}

// Delete removes the record with the given id and persists. Deleting an id
// that does not exist is a no-op, not an error.
func (s *PolicyService) Delete(id uint) error {
	records, err := s.store.Load()
	if err != nil {
		return err
	}

	kept := records[:0]
	removed := false
	for _, record := range records {
		if record.ID == id {
			removed = true
			continue
		}
		kept = append(kept, record)
	}
	if !removed {
		return nil
	}

	if _, err := s.commit(kept); err != nil {
		return err
	}

	log.Printf("✅ Policy deleted: #%d", id)
	return nil
}

// Duplicate appends a deep copy of the record with the given id under a fresh
// id and persists
func (s *PolicyService) Duplicate(id uint) (*domain.Policy, error) {
	records, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	var source *domain.Policy
	for i := range records {
		if records[i].ID == id {
			source = &records[i]
			break
		}
	}
	if source == nil {
		return nil, domain.ErrNotFound
	}

	duplicate := *source
	duplicate.ID = 0
	records = append(records, duplicate)

	saved, err := s.commit(records)
	if err != nil {
		return nil, err
	}

	created := saved[len(saved)-1]
	log.Printf("✅ Policy duplicated: #%d -> #%d", id, created.ID)
	return &created, nil
}

// ReplaceAll writes a fully edited table back, the save action of the admin
// grid. Records without an id are treated as new rows and assigned fresh ids.
func (s *PolicyService) ReplaceAll(records []domain.Policy) ([]domain.Policy, error) {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	saved, err := s.commit(records)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Policy table saved: %d records", len(saved))
	return saved, nil
}

// commit persists the table, invalidates the cache so the caller's next read
// re-derives its view from durable state, and returns the table as persisted
// (with assigned ids). On persistence failure the store keeps the attempted
// table as a pending edit for retry.
func (s *PolicyService) commit(records []domain.Policy) ([]domain.Policy, error) {
	saved, err := s.store.SaveAll(records)
	if err != nil {
		log.Printf("❌ Policy save failed, edit kept in memory for retry: %v", err)
		return nil, err
	}
	s.store.Invalidate()
	return saved, nil
}
