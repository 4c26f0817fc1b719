// Package hooks binds the pricing, item and selector rules to live ERPNext
// records. Each controller plays the part of a form: it loads a document,
// reacts to field changes with rule patches and talks to the server through a
// Backend.
//
// Failures of calls that only refresh a derived field are logged at warn and
// leave the field as it was. Actions the user asked for return their error.
package hooks

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

// Backend is the server a form talks to.
type Backend interface {
	GetDoc(ctx context.Context, doctype, name string) (doc.Doc, error)
	// SaveDoc inserts d when it has no name and updates it otherwise. The
	// stored record is returned.
	SaveDoc(ctx context.Context, doctype string, d doc.Doc) (doc.Doc, error)
	GetList(ctx context.Context, doctype string, q doc.ListQuery) ([]doc.Doc, error)
	// Call runs a whitelisted server method and returns its "message".
	Call(ctx context.Context, method string, args map[string]interface{}) (json.RawMessage, error)
}

// Form is a document being edited.
type Form struct {
	Doctype string
	Doc     doc.Doc
	// Dirty is set once a patch changed the document after load or save.
	Dirty bool
}

// NewForm wraps an unsaved document.
func NewForm(doctype string, d doc.Doc) *Form {
	if d == nil {
		d = doc.Doc{}
	}
	return &Form{Doctype: doctype, Doc: d}
}

// LoadForm fetches a saved document.
func LoadForm(ctx context.Context, b Backend, doctype, name string) (*Form, error) {
	d, err := b.GetDoc(ctx, doctype, name)
	if err != nil {
		return nil, err
	}
	return &Form{Doctype: doctype, Doc: d}, nil
}

// IsNew reports whether the document has never been saved.
func (f *Form) IsNew() bool {
	return f.Doc.Name() == ""
}

// Apply writes a patch into the document.
func (f *Form) Apply(p doc.Patch) {
	if p.Empty() {
		return
	}
	doc.Apply(f.Doc, p)
	f.Dirty = true
}

// Set changes one parent field.
func (f *Form) Set(field string, value interface{}) {
	var p doc.Patch
	p.Set(field, value)
	f.Apply(p)
}

// SetRow changes one child row field.
func (f *Form) SetRow(table string, i int, field string, value interface{}) {
	var p doc.Patch
	p.SetRow(table, i, field, value)
	f.Apply(p)
}

// Save stores the document and replaces it with the server's copy.
func (f *Form) Save(ctx context.Context, b Backend) error {
	saved, err := b.SaveDoc(ctx, f.Doctype, f.Doc)
	if err != nil {
		return err
	}
	f.Doc = saved
	f.Dirty = false
	return nil
}

// SaveIfNeeded saves new or modified documents.
func (f *Form) SaveIfNeeded(ctx context.Context, b Backend) error {
	if !f.IsNew() && !f.Dirty {
		return nil
	}
	return f.Save(ctx, b)
}

// Reload discards local changes.
func (f *Form) Reload(ctx context.Context, b Backend) error {
	d, err := b.GetDoc(ctx, f.Doctype, f.Doc.Name())
	if err != nil {
		return err
	}
	f.Doc = d
	f.Dirty = false
	return nil
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
