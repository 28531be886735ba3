// Package cache stores fetched response bodies keyed by their source URL
// for the lifetime of one widget instance. Entries are written only for
// successful responses and are never invalidated: a hit short-circuits
// network I/O even if the server state has since changed.
package cache

import (
	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
)

type Cache struct {
	db *badger.DB
}

// New wraps an existing badger handle, typically an on-disk store opened
// by the caller. Close closes the handle.
func New(db *badger.DB) *Cache {
	return &Cache{db: db}
}

// NewInMemory opens a private in-memory store, the default for widget use.
func NewInMemory() (*Cache, error) {
	db, err := badger.Open(
		badger.DefaultOptions("").
			WithInMemory(true).
			WithLogger(nil),
	)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key normalizes a source URL so that trivially different spellings of the
// same request share one entry.
func (c *Cache) Key(url string) string {
	normalized, err := purell.NormalizeURLString(
		url,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagsUnsafeNonGreedy,
	)
	if err != nil {
		return url
	}
	return normalized
}

func (c *Cache) Get(url string) (string, bool) {
	var body []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(c.Key(url)))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", false
	}
	return string(body), true
}

func (c *Cache) Put(url, body string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(c.Key(url)), []byte(body))
	})
}
