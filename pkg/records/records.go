// Package records models the group records file: entities, controlled
// transactions, benchmarks and per-entity local file settings.
//
// Records are read-only input to assembly. Numbers are decoded as
// json.Number so that amounts and benchmark cells keep the exact form the
// author wrote, and the free-form term maps of a transaction keep their key
// order through [ordered.Map].
package records

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/ordered"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// Records is the root of a group records file (data.json).
type Records struct {
	Group        Group         `json:"group"`
	Entities     []Entity      `json:"entities"`
	Transactions []Transaction `json:"transactions"`
	Benchmarks   []Benchmark   `json:"benchmarks"`
	LocalFiles   []LocalFile   `json:"local_files"`
}

// Group describes the multinational group the records belong to.
// A bare JSON string is accepted as the group name.
type Group struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Notes []string `json:"notes"`
}

// UnmarshalJSON accepts either an object or a plain name string.
func (g *Group) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*g = Group{ID: name, Name: name}
		return nil
	}
	type plain Group
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Group(p)
	return nil
}

// Entity is a legal entity of the group.
type Entity struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Jurisdiction string   `json:"jurisdiction"`
	Country      string   `json:"country"`
	FiscalYear   any      `json:"fiscal_year"`
	Notes        []string `json:"notes"`
}

// Location returns the jurisdiction, falling back to country.
func (e *Entity) Location() string {
	if e.Jurisdiction != "" {
		return e.Jurisdiction
	}
	return e.Country
}

// Transaction is a controlled transaction between two entities.
type Transaction struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	FromEntity            string       `json:"from_entity"`
	ToEntity              string       `json:"to_entity"`
	TransactionType       string       `json:"transaction_type"`
	Amount                any          `json:"amount"`
	Currency              string       `json:"currency"`
	TPMethod              string       `json:"tp_method"`
	TestedParty           string       `json:"tested_party"`
	FromEntityProfile     string       `json:"from_entity_profile"`
	ToEntityProfile       string       `json:"to_entity_profile"`
	Benchmark             string       `json:"benchmark"`
	ContractualTerms      *ordered.Map `json:"contractual_terms"`
	Characteristics       *ordered.Map `json:"characteristics"`
	EconomicCircumstances *ordered.Map `json:"economic_circumstances"`
	Notes                 []string     `json:"notes"`
}

// FormattedAmount renders the amount with thousands separators. A missing
// amount reads as zero.
func (t *Transaction) FormattedAmount() string {
	if t.Amount == nil {
		return "0"
	}
	return textfmt.Amount(t.Amount)
}

// Involves reports whether entityID is either side of the transaction.
func (t *Transaction) Involves(entityID string) bool {
	return t.FromEntity == entityID || t.ToEntity == entityID
}

// Counterparty returns the id of the side that is not entityID.
func (t *Transaction) Counterparty(entityID string) string {
	if t.FromEntity == entityID {
		return t.ToEntity
	}
	return t.FromEntity
}

// TestedProfile returns the functional profile of the tested party, or ""
// when the tested party is neither side.
func (t *Transaction) TestedProfile() string {
	switch t.TestedParty {
	case "":
		return ""
	case t.FromEntity:
		return t.FromEntityProfile
	case t.ToEntity:
		return t.ToEntityProfile
	}
	return ""
}

// IsFinancial reports whether the transaction type is a financial one.
func (t *Transaction) IsFinancial() bool {
	return IsFinancialType(t.TransactionType)
}

// Benchmark is an external comparables study.
type Benchmark struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Transactions []string `json:"transactions"`
	Tables       []Table  `json:"tables"`
}

// Table returns the benchmark table with the given id.
func (b *Benchmark) Table(id string) (*Table, bool) {
	for i := range b.Tables {
		if b.Tables[i].ID == id {
			return &b.Tables[i], true
		}
	}
	return nil, false
}

// Table is a benchmark table. Rows are keyed by transaction id and hold
// one value per column.
type Table struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Columns []string     `json:"columns"`
	Rows    *ordered.Map `json:"rows"`
}

// LocalFile holds per-entity document settings and review state.
type LocalFile struct {
	Entity              string                   `json:"entity"`
	FiscalYear          any                      `json:"fiscal_year"`
	Status              string                   `json:"status"`
	Title               string                   `json:"title"`
	Subtitle            string                   `json:"subtitle"`
	Meta                string                   `json:"meta"`
	CoveredTransactions []string                 `json:"covered_transactions"`
	SectionStatus       map[string]SectionStatus `json:"section_status"`
}

// SectionStatus is the review state of one section.
type SectionStatus struct {
	Reviewed  bool `json:"reviewed"`
	SignedOff bool `json:"signed_off"`
}

// Load reads and decodes a records file.
func Load(path string) (*Records, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "records file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read records %s", path)
	}
	return Parse(data, path)
}

// Parse decodes records from JSON. name identifies the source in errors.
func Parse(data []byte, name string) (*Records, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var r Records
	if err := dec.Decode(&r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed records JSON in %s", name)
	}
	return &r, nil
}

// FindEntity returns the entity with the given id. The error lists the
// ids that do exist.
func (r *Records) FindEntity(id string) (*Entity, error) {
	for i := range r.Entities {
		if r.Entities[i].ID == id {
			return &r.Entities[i], nil
		}
	}
	ids := make([]string, 0, len(r.Entities))
	for _, e := range r.Entities {
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeEntityNotFound, "entity %q not found in records (no entities defined)", id)
	}
	return nil, errors.New(errors.ErrCodeEntityNotFound, "entity %q not found in records; available entities: %s", id, strings.Join(ids, ", "))
}

// EntityName maps an entity id to its name, falling back to the id.
func (r *Records) EntityName(id string) string {
	for _, e := range r.Entities {
		if e.ID == id {
			if e.Name != "" {
				return e.Name
			}
			return id
		}
	}
	return id
}

// EntityTransactions returns every transaction the entity takes part in,
// in records order.
func (r *Records) EntityTransactions(entityID string) []*Transaction {
	var out []*Transaction
	for i := range r.Transactions {
		if r.Transactions[i].Involves(entityID) {
			out = append(out, &r.Transactions[i])
		}
	}
	return out
}

// Transaction looks up a transaction by id across the whole group.
func (r *Records) Transaction(id string) (*Transaction, bool) {
	for i := range r.Transactions {
		if r.Transactions[i].ID == id {
			return &r.Transactions[i], true
		}
	}
	return nil, false
}

// Benchmark looks up a benchmark by id.
func (r *Records) Benchmark(id string) (*Benchmark, bool) {
	for i := range r.Benchmarks {
		if r.Benchmarks[i].ID == id {
			return &r.Benchmarks[i], true
		}
	}
	return nil, false
}

// LocalFile returns the first local file entry for the entity.
func (r *Records) LocalFile(entityID string) (*LocalFile, bool) {
	for i := range r.LocalFiles {
		if r.LocalFiles[i].Entity == entityID {
			return &r.LocalFiles[i], true
		}
	}
	return nil, false
}

// CoveredTransactions returns the ids the entity's local file documents.
// It is nil when the entity has no local file entry or the entry lists none.
func (r *Records) CoveredTransactions(entityID string) []string {
	if lf, ok := r.LocalFile(entityID); ok {
		return lf.CoveredTransactions
	}
	return nil
}

// GroupName returns the group name or a placeholder.
func (r *Records) GroupName() string {
	if r.Group.Name != "" {
		return r.Group.Name
	}
	return "Unknown Group"
}
