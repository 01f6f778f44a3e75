package manifest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/hupe1980/smtgo/blobstore"
)

// Load reads the manifest named name from store. If name is a CURRENT
// pointer it is followed once. The returned string is the manifest's
// resolved name, against which artifact paths are resolved.
func Load(ctx context.Context, store blobstore.Store, name string, th blobstore.Throttle) (*Manifest, string, error) {
	if path.Base(name) == CurrentFileName {
		target, err := readPointer(ctx, store, name, th)
		if err != nil {
			return nil, "", err
		}
		name = target
	}

	data, release, err := blobstore.ReadAll(ctx, store, name, th)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, "", err
	}
	defer release()

	m, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return m, name, nil
}

func readPointer(ctx context.Context, store blobstore.Store, name string, th blobstore.Throttle) (string, error) {
	data, release, err := blobstore.ReadAll(ctx, store, name, th)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}
	defer release()

	target := strings.TrimSpace(string(data))
	if target == "" {
		return "", fmt.Errorf("%w: empty pointer %s", ErrInvalid, name)
	}
	if path.Base(target) == CurrentFileName {
		return "", fmt.Errorf("%w: pointer %s names another pointer", ErrInvalid, name)
	}
	return Resolve(name, target), nil
}

// Resolve returns the name of rel relative to the blob named base.
func Resolve(base, rel string) string {
	if strings.HasPrefix(rel, "/") {
		return strings.TrimPrefix(rel, "/")
	}
	return path.Join(path.Dir(base), rel)
}
