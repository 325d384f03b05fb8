package contacts

import "slices"

// Directory maps contact names to records and remembers insertion order.
// It is not safe for concurrent use; embedders that share one across
// goroutines must guard every call with a single mutex.
type Directory struct {
	order   []string
	records map[string]*Record
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// AddRecord stores r under its name. A record already stored under that
// name is discarded entirely; the name keeps its original position.
func (d *Directory) AddRecord(r *Record) {
	key := r.Name()
	if _, exists := d.records[key]; !exists {
		d.order = append(d.order, key)
	}
	d.records[key] = r
}

// Find returns the record stored under name.
func (d *Directory) Find(name string) (*Record, bool) {
	r, ok := d.records[name]
	return r, ok
}

// Delete removes name and reports whether it was present.
func (d *Directory) Delete(name string) bool {
	if _, ok := d.records[name]; !ok {
		return false
	}
	delete(d.records, name)
	if i := slices.Index(d.order, name); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
	return true
}

// Len returns the number of contacts.
func (d *Directory) Len() int { return len(d.order) }

// Records lists the records in insertion order.
func (d *Directory) Records() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.records[name])
	}
	return out
}
