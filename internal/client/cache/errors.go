package cache

import (
	"errors"
	"fmt"
)

// ErrStorageFault is matched (errors.Is) by every *StorageFault.
var ErrStorageFault = errors.New("cache storage fault")

// StorageFault reports that the underlying store could not be read or
// written. It is distinct from absence: a Retrieve that returns a fault means
// the cache state is unknown, not empty.
type StorageFault struct {
	Op  string
	Key string
	Err error
}

func (f *StorageFault) Error() string {
	return fmt.Sprintf("cache %s %s: %v", f.Op, f.Key, f.Err)
}

func (f *StorageFault) Unwrap() error { return f.Err }

func (f *StorageFault) Is(target error) bool { return target == ErrStorageFault }
