// Package jurisdiction translates jurisdiction-agnostic rental summaries into
// the field sets of a tax authority's return forms. Field keys produced here
// are the wire contract with the filing system.
package jurisdiction

import (
	"errors"
	"fmt"
	"sort"

	"github.com/stwalsh4118/rentaltax/internal/models"
)

// ErrUnsupported is returned for a jurisdiction with no registered mapper.
var ErrUnsupported = errors.New("Unsupported jurisdiction")

// Mapper maps rental summaries into one jurisdiction's return layout and
// checks a mapped section for internal consistency.
type Mapper interface {
	Jurisdiction() models.Jurisdiction

	// Map builds the rental section. The returned section carries an empty
	// validation; callers run Validate separately.
	Map(taxYear string, summaries []models.RentalSummary, inputs models.RentalInputs) *models.RentalSection

	// Validate never fails; findings are returned as data.
	Validate(section *models.RentalSection) models.Validation
}

// Registry selects a Mapper by jurisdiction.
type Registry struct {
	mappers map[models.Jurisdiction]Mapper
}

// NewRegistry creates a registry of the given mappers.
func NewRegistry(mappers ...Mapper) *Registry {
	r := &Registry{mappers: make(map[models.Jurisdiction]Mapper, len(mappers))}
	for _, m := range mappers {
		r.mappers[m.Jurisdiction()] = m
	}
	return r
}

// DefaultRegistry returns a registry with every built-in mapper.
func DefaultRegistry() *Registry {
	return NewRegistry(NewNZIRD())
}

// Lookup returns the mapper for j, or an error wrapping ErrUnsupported.
func (r *Registry) Lookup(j models.Jurisdiction) (Mapper, error) {
	m, ok := r.mappers[j]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, j)
	}
	return m, nil
}

// Jurisdictions lists the supported jurisdictions in sorted order.
func (r *Registry) Jurisdictions() []models.Jurisdiction {
	out := make([]models.Jurisdiction, 0, len(r.mappers))
	for j := range r.mappers {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i] < out[k] })
	return out
}
