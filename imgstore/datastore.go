package imgstore

import (
	"bytes"
	"context"
	"errors"

	"slotfs/image"

	ds "github.com/ipfs/go-datastore"
	leveldb "github.com/ipfs/go-ds-leveldb"
	"go.uber.org/multierr"
)

var imagesKey = ds.NewKey("/images")

// DatastoreStore keeps an image under one key of a
// datastore, encoded the same way FileStore encodes it.
type DatastoreStore struct {
	D   ds.Datastore
	Key ds.Key
}

func NewDatastoreStore(d ds.Datastore, name string) *DatastoreStore {
	return &DatastoreStore{
		D:   d,
		Key: imagesKey.ChildString(name),
	}
}

// OpenLevelDB opens (or creates) a leveldb directory at path
// and stores the image named name in it.
func OpenLevelDB(path, name string) (*DatastoreStore, error) {
	d, err := leveldb.NewDatastore(path, nil)
	if err != nil {
		return nil, err
	}
	return NewDatastoreStore(d, name), nil
}

func (s *DatastoreStore) Load(ctx context.Context) (*image.Image, error) {
	b, err := s.D.Get(ctx, s.Key)
	if err != nil {
		if errors.Is(err, ds.ErrNotFound) {
			err = ErrNotInitialized
		}
		return nil, err
	}
	return decode(bytes.NewReader(b))
}

func (s *DatastoreStore) Save(ctx context.Context, img *image.Image) error {
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		return err
	}
	if err := s.D.Put(ctx, s.Key, buf.Bytes()); err != nil {
		return err
	}
	log.Debugf("saved %d slot image under %s", img.Capacity, s.Key)
	return s.D.Sync(ctx, s.Key)
}

// Close syncs and closes the underlying datastore
func (s *DatastoreStore) Close() error {
	return multierr.Append(
		s.D.Sync(context.Background(), s.Key),
		s.D.Close(),
	)
}
