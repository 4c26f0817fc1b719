package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
)

type recordedCall struct {
	Method string
	Args   map[string]interface{}
}

// fakeBackend is an in-memory server. Documents are keyed by doctype and
// name; methods answer through handlers.
type fakeBackend struct {
	docs    map[string]doc.Doc
	lists   map[string][]doc.Doc
	methods map[string]func(args map[string]interface{}) (interface{}, error)
	listErr map[string]error

	calls   []recordedCall
	queries map[string][]doc.ListQuery
	saves   []doc.Doc
	nextID  int
}

func newFake() *fakeBackend {
	return &fakeBackend{
		docs:    map[string]doc.Doc{},
		lists:   map[string][]doc.Doc{},
		methods: map[string]func(map[string]interface{}) (interface{}, error){},
		listErr: map[string]error{},
		queries: map[string][]doc.ListQuery{},
	}
}

func key(doctype, name string) string { return doctype + "/" + name }

func (f *fakeBackend) put(doctype string, d doc.Doc) {
	f.docs[key(doctype, d.Name())] = d.Clone()
}

func (f *fakeBackend) GetDoc(_ context.Context, doctype, name string) (doc.Doc, error) {
	d, ok := f.docs[key(doctype, name)]
	if !ok {
		return nil, fmt.Errorf("%s %s not found", doctype, name)
	}
	return d.Clone(), nil
}

func (f *fakeBackend) SaveDoc(_ context.Context, doctype string, d doc.Doc) (doc.Doc, error) {
	d = d.Clone()
	if d.Name() == "" {
		f.nextID++
		name := d.Str("item_code")
		if name == "" {
			name = fmt.Sprintf("%s-%04d", doctype, f.nextID)
		}
		d["name"] = name
	}
	f.saves = append(f.saves, d.Clone())
	f.put(doctype, d)
	return d.Clone(), nil
}

func (f *fakeBackend) GetList(_ context.Context, doctype string, q doc.ListQuery) ([]doc.Doc, error) {
	f.queries[doctype] = append(f.queries[doctype], q)
	if err := f.listErr[doctype]; err != nil {
		return nil, err
	}
	return f.lists[doctype], nil
}

func (f *fakeBackend) Call(_ context.Context, method string, args map[string]interface{}) (json.RawMessage, error) {
	f.calls = append(f.calls, recordedCall{Method: method, Args: args})
	h, ok := f.methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not allowed", method)
	}
	v, err := h(args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (f *fakeBackend) callsTo(method string) []recordedCall {
	var out []recordedCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
