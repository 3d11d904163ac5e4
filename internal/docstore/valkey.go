package docstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/valkey-io/valkey-go"
)

type ValkeyOptions struct {
	Address  string
	Password string
}

// Valkey uses the same key layout as Redis.
type Valkey struct {
	client valkey.Client
}

func NewValkey(ctx context.Context, opts ValkeyOptions) (*Valkey, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{opts.Address},
		Password:    opts.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	return &Valkey{client: client}, nil
}

func (v *Valkey) Get(ctx context.Context, collection, key string) (Document, error) {
	cmd := v.client.B().Get().Key(documentKey(collection, key)).Build()

	data, err := v.client.Do(ctx, cmd).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get %s/%s: %w", collection, key, err)
	}

	return unmarshal(data)
}

func (v *Valkey) Put(ctx context.Context, collection, key string, doc Document) error {
	data, err := marshal(doc)
	if err != nil {
		return err
	}

	cmd := v.client.B().Set().
		Key(documentKey(collection, key)).
		Value(valkey.BinaryString(data)).
		Build()

	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set %s/%s: %w", collection, key, err)
	}

	return nil
}

func (v *Valkey) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		cmd := v.client.B().Scan().
			Cursor(cursor).
			Match(documentKey(collection, "*")).
			Count(scanCount).
			Build()

		entry, err := v.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("valkey scan %s: %w", collection, err)
		}
		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)

	result := make([]Document, 0, len(keys))
	for _, key := range keys {
		data, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
		if valkey.IsValkeyNil(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("valkey get %s: %w", key, err)
		}

		doc, err := unmarshal(data)
		if err != nil {
			return nil, err
		}
		if Matches(doc, filter) {
			result = append(result, doc)
		}
	}

	return result, nil
}

func (v *Valkey) Delete(ctx context.Context, collection, key string) error {
	cmd := v.client.B().Del().Key(documentKey(collection, key)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey del %s/%s: %w", collection, key, err)
	}
	return nil
}

func (v *Valkey) Close() error {
	v.client.Close()
	return nil
}
