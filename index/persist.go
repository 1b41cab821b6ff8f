package index

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/trialdex/core"
)

// Snapshot file layout: a MUS-encoded header (magic, format version,
// embedding model, dimension, item count, build timestamp) followed by one
// (trial key, vector) entry per slot in slot order, closed by a BLAKE2b-256
// checksum of everything before it. The identity map is implicit in entry
// order, so index and map can never be persisted out of sync.

const (
	snapshotMagic   = "TDXSNAP"
	snapshotVersion = 1
	checksumLen     = 32
)

// Save writes a snapshot to path atomically: the file is staged under a
// temporary name in the same directory and renamed into place, so a crash
// mid-write never clobbers the previous good file.
func Save(path string, s *Snapshot) error {
	size := snapshotSize(s)
	buf := make([]byte, size)
	n := marshalSnapshot(s, buf)
	if n != size {
		return ErrCorruptSnapshot
	}

	sum, err := checksum(buf)
	if err != nil {
		return err
	}
	buf = append(buf, sum...)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads a snapshot previously written by Save.
// A missing file returns (nil, nil): the caller starts without a snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if len(data) < checksumLen {
		return nil, ErrCorruptSnapshot
	}
	body, sum := data[:len(data)-checksumLen], data[len(data)-checksumLen:]
	expected, err := checksum(body)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sum, expected) {
		return nil, fmt.Errorf("%w: checksum mismatch at %s", ErrCorruptSnapshot, path)
	}

	return unmarshalSnapshot(body, path)
}

func marshalSnapshot(s *Snapshot, bs []byte) (n int) {
	meta := s.meta
	n = ord.String.Marshal(snapshotMagic, bs)
	n += varint.Int.Marshal(snapshotVersion, bs[n:])
	n += ord.String.Marshal(meta.EmbeddingModel, bs[n:])
	n += varint.Int.Marshal(meta.Dimension, bs[n:])
	n += varint.Int.Marshal(meta.ItemCount, bs[n:])
	n += varint.Int64.Marshal(meta.BuiltAt.UnixMicro(), bs[n:])

	for slot, key := range s.ids.Keys() {
		n += core.TrialKeyMUS.Marshal(key, bs[n:])
		n += marshalVector(s.index.vectorAt(slot), bs[n:])
	}
	return n
}

func snapshotSize(s *Snapshot) (size int) {
	meta := s.meta
	size = ord.String.Size(snapshotMagic)
	size += varint.Int.Size(snapshotVersion)
	size += ord.String.Size(meta.EmbeddingModel)
	size += varint.Int.Size(meta.Dimension)
	size += varint.Int.Size(meta.ItemCount)
	size += varint.Int64.Size(meta.BuiltAt.UnixMicro())

	for slot, key := range s.ids.Keys() {
		size += core.TrialKeyMUS.Size(key)
		size += sizeVector(s.index.vectorAt(slot))
	}
	return size
}

func unmarshalSnapshot(bs []byte, path string) (*Snapshot, error) {
	magic, n, err := ord.String.Unmarshal(bs)
	if err != nil || magic != snapshotMagic {
		return nil, ErrCorruptSnapshot
	}
	version, n1, err := varint.Int.Unmarshal(bs[n:])
	if err != nil || version != snapshotVersion {
		return nil, ErrCorruptSnapshot
	}
	n += n1

	var meta Metadata
	if meta.EmbeddingModel, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, ErrCorruptSnapshot
	}
	n += n1
	if meta.Dimension, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return nil, ErrCorruptSnapshot
	}
	n += n1
	if meta.ItemCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return nil, ErrCorruptSnapshot
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return nil, ErrCorruptSnapshot
	}
	n += n1
	meta.BuiltAt = time.UnixMicro(micros).UTC()
	meta.Location = path

	idx := NewFlatIndex(meta.Dimension)
	ids := NewIdentityMap()
	for i := 0; i < meta.ItemCount; i++ {
		key, n1, err := core.TrialKeyMUS.Unmarshal(bs[n:])
		if err != nil {
			return nil, ErrCorruptSnapshot
		}
		n += n1
		vector, n1, err := unmarshalVector(bs[n:])
		if err != nil {
			return nil, ErrCorruptSnapshot
		}
		n += n1

		slot, err := ids.Assign(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
		if err := idx.Add(slot, vector); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	}

	if ids.Len() != meta.ItemCount {
		return nil, ErrCorruptSnapshot
	}
	return newSnapshot(idx, ids, meta), nil
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, x := range v {
		n += raw.Float32.Marshal(x, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length < 0 {
		return nil, n, ErrCorruptSnapshot
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var n1 int
		if v[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, x := range v {
		size += raw.Float32.Size(x)
	}
	return size
}

func checksum(data []byte) ([]byte, error) {
	h, err := blake2b.New(checksumLen, nil)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}
