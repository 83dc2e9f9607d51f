package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Directory holds the patient roster, loaded once at startup from a static
// JSON document. Records are immutable after load and keep their load
// order; filtering never re-sorts.
type Directory struct {
	patients []*Patient
	byID     map[string]*Patient
}

// rosterDocument is the on-disk shape: {"patients": [...]}.
type rosterDocument struct {
	Patients []*Patient `json:"patients"`
}

// Load reads the roster document at path.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(data)
}

// Parse builds a Directory from a raw roster document.
func Parse(data []byte) (*Directory, error) {
	var doc rosterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	d := &Directory{
		patients: doc.Patients,
		byID:     make(map[string]*Patient, len(doc.Patients)),
	}
	for _, p := range doc.Patients {
		if p.ID == "" {
			return nil, fmt.Errorf("roster record for %q is missing an id", p.Name)
		}
		if _, dup := d.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate roster id %q", p.ID)
		}
		d.byID[p.ID] = p
	}
	return d, nil
}

// Count returns the roster size.
func (d *Directory) Count() int {
	return len(d.patients)
}

// All returns every patient in load order.
func (d *Directory) All() []*Patient {
	out := make([]*Patient, len(d.patients))
	copy(out, d.patients)
	return out
}

// Get looks a patient up by id.
func (d *Directory) Get(id string) (*Patient, bool) {
	p, ok := d.byID[id]
	return p, ok
}

// FilterQuery holds the cohort filter predicates. Empty fields match all.
type FilterQuery struct {
	Search    string // case-insensitive substring of name or any condition
	AgeGroup  string // one of the AgeGroup* labels
	Condition string // exact case-insensitive condition label
	Insurance string // medicaid, medicare, private, unknown
}

// Filter returns the patients matching every set predicate, in load order.
func (d *Directory) Filter(q FilterQuery) []*Patient {
	var out []*Patient
	for _, p := range d.patients {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p *Patient, q FilterQuery) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		hit := strings.Contains(strings.ToLower(p.Name), needle)
		for _, c := range p.Conditions {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(c), needle)
		}
		if !hit {
			return false
		}
	}

	if q.AgeGroup != "" && AgeGroup(p.Age) != q.AgeGroup {
		return false
	}

	if q.Condition != "" && !p.HasCondition(q.Condition) {
		return false
	}

	if q.Insurance != "" && p.InsuranceType() != q.Insurance {
		return false
	}

	return true
}
