package doc

// Change sets one field. An empty Table addresses the parent document,
// otherwise Row indexes into that child table.
type Change struct {
	Table string
	Row   int
	Field string
	Value interface{}
}

// AddedRow appends a new row to a child table.
type AddedRow struct {
	Table string
	Row   Doc
}

// Patch is the result of a rule: the rows to append and the fields to set.
type Patch struct {
	Added   []AddedRow
	Changes []Change
}

// Set records a parent field change.
func (p *Patch) Set(field string, value interface{}) {
	p.Changes = append(p.Changes, Change{Field: field, Value: value})
}

// SetRow records a child row field change.
func (p *Patch) SetRow(table string, row int, field string, value interface{}) {
	p.Changes = append(p.Changes, Change{Table: table, Row: row, Field: field, Value: value})
}

// Append records a new child row.
func (p *Patch) Append(table string, row Doc) {
	p.Added = append(p.Added, AddedRow{Table: table, Row: row})
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Added) == 0 && len(p.Changes) == 0
}

// Merge appends the contents of other after p.
func (p *Patch) Merge(other Patch) {
	p.Added = append(p.Added, other.Added...)
	p.Changes = append(p.Changes, other.Changes...)
}

// Value returns the last value a patch assigns to a field, if any.
func (p Patch) Value(table string, row int, field string) (interface{}, bool) {
	for i := len(p.Changes) - 1; i >= 0; i-- {
		c := p.Changes[i]
		if c.Table == table && c.Field == field && (table == "" || c.Row == row) {
			return c.Value, true
		}
	}
	return nil, false
}

// Apply writes a patch into d. Added rows go in first so that changes may
// address them. Changes aimed at rows that do not exist are dropped.
func Apply(d Doc, p Patch) {
	for _, a := range p.Added {
		d.AddChild(a.Table, a.Row.Clone())
	}
	for _, c := range p.Changes {
		if c.Table == "" {
			d[c.Field] = c.Value
			continue
		}
		if row := d.Row(c.Table, c.Row); row != nil {
			row[c.Field] = c.Value
		}
	}
}
