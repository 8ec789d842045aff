package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	nats "github.com/nats-io/nats.go"
)

// NATS adapts a JetStream key-value bucket to the KV interface.
type NATS struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// DialNATS connects to url and binds the named bucket, creating it if
// it does not exist yet.
func DialNATS(url, bucket string) (*NATS, error) {
	if strings.TrimSpace(url) == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, nats.Name("flatconf"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		_ = conn.Drain()
		return nil, fmt.Errorf("init jetstream: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: bucket})
	}
	if err != nil {
		_ = conn.Drain()
		return nil, fmt.Errorf("bind bucket %s: %w", bucket, err)
	}
	return &NATS{conn: conn, kv: kv}, nil
}

func (n *NATS) Put(_ context.Context, key, value string) error {
	_, err := n.kv.PutString(key, value)
	return err
}

func (n *NATS) Get(_ context.Context, key string) (string, error) {
	entry, err := n.kv.Get(key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(entry.Value()), nil
}

func (n *NATS) Keys(_ context.Context, prefix string) ([]string, error) {
	all, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, k := range all {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (n *NATS) Delete(_ context.Context, key string) error {
	err := n.kv.Delete(key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close drains the connection.
func (n *NATS) Close() error {
	return n.conn.Drain()
}
