package concurrent

import "github.com/pkg/errors"

var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

func keyError[K comparable](sentinel error, key K) error {
	return errors.Wrapf(sentinel, "key %v", key)
}
