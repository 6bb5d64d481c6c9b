// Package crm provides the customer directory the orchestrator
// qualifies leads against. The default implementation serves an
// embedded seed file; a real deployment would swap in a CRM API client
// behind the same interface.
package crm

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/finbotics/loanflow/internal/domain"
)

//go:embed seed.json
var seedData []byte

// Directory looks up customer profiles by phone number.
type Directory interface {
	// LookupByPhone returns the profile for a phone number, or
	// domain.ErrCustomerNotFound. A miss is a terminal outcome for the
	// conversation, not a system error.
	LookupByPhone(ctx context.Context, phone string) (*domain.CustomerProfile, error)
}

// SeedDirectory is a Directory backed by the embedded seed records.
type SeedDirectory struct {
	byPhone map[string]*domain.CustomerProfile
}

type seedFile struct {
	Customers []domain.CustomerProfile `json:"customers"`
}

// NewSeedDirectory loads the embedded customer records.
func NewSeedDirectory() (*SeedDirectory, error) {
	var f seedFile
	if err := json.Unmarshal(seedData, &f); err != nil {
		return nil, fmt.Errorf("decode customer seed: %w", err)
	}

	d := &SeedDirectory{byPhone: make(map[string]*domain.CustomerProfile, len(f.Customers))}
	for i := range f.Customers {
		c := f.Customers[i]
		d.byPhone[c.Phone] = &c
	}
	return d, nil
}

// LookupByPhone returns the profile for a phone number.
func (d *SeedDirectory) LookupByPhone(_ context.Context, phone string) (*domain.CustomerProfile, error) {
	c, ok := d.byPhone[phone]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

// Len returns the number of seeded customers.
func (d *SeedDirectory) Len() int {
	return len(d.byPhone)
}
