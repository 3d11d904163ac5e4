// Package docstore is a small document store abstraction over JSON documents
// grouped in collections. Writes are atomic per document only.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

var ErrNotFound = errors.New("document not found")

// Document is a JSON compatible record. Values read back from a store are always
// the result of a JSON round trip: numbers are float64, times are RFC 3339 strings.
type Document map[string]any

// Filter selects documents whose top level fields equal the given values.
type Filter map[string]any

type Store interface {
	Get(ctx context.Context, collection, key string) (Document, error)
	Put(ctx context.Context, collection, key string, doc Document) error
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Delete(ctx context.Context, collection, key string) error
	Close() error
}

// Encode converts a tagged struct into a Document.
func Encode(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return doc, nil
}

// Decode fills out from doc using the json tags of out.
func Decode(doc Document, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("init document decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(doc)); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	return nil
}

// Matches reports whether doc satisfies filter. Filter values are compared after the
// same JSON round trip documents go through.
func Matches(doc Document, filter Filter) bool {
	if len(filter) == 0 {
		return true
	}

	normalized, err := normalize(filter)
	if err != nil {
		return false
	}

	for field, want := range normalized {
		got, ok := doc[field]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}

	return true
}

func normalize(filter Filter) (map[string]any, error) {
	data, err := json.Marshal(filter)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func marshal(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

func unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// prefixed namespaces every collection of a store.
type prefixed struct {
	Store
	prefix string
}

// WithPrefix returns a Store that prepends prefix to every collection name.
func WithPrefix(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &prefixed{Store: store, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, collection, key string) (Document, error) {
	return p.Store.Get(ctx, p.prefix+collection, key)
}

func (p *prefixed) Put(ctx context.Context, collection, key string, doc Document) error {
	return p.Store.Put(ctx, p.prefix+collection, key, doc)
}

func (p *prefixed) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	return p.Store.Query(ctx, p.prefix+collection, filter)
}

func (p *prefixed) Delete(ctx context.Context, collection, key string) error {
	return p.Store.Delete(ctx, p.prefix+collection, key)
}
