package store

import (
	"bytes"

	"github.com/elves/conslist/pkg/persistent/conslist"
	"github.com/elves/conslist/pkg/store/storedefs"
)

// Latest may be passed as the sequence number to GetList and GetScalars to
// get the most recent snapshot.
const Latest = 0

// PutList encodes l with c and stores it as a new snapshot of the named list.
func PutList[E any](s storedefs.Store, name string, l conslist.List[E], c conslist.ElementCodec[E]) (int, error) {
	var buf bytes.Buffer
	if err := conslist.Encode(&buf, l, c); err != nil {
		return 0, err
	}
	return s.AddSnapshot(name, buf.Bytes())
}

// GetList decodes a snapshot of the named list with c.
func GetList[E any](s storedefs.Store, name string, seq int, c conslist.ElementCodec[E]) (conslist.List[E], error) {
	data, err := load(s, name, seq)
	if err != nil {
		return conslist.Empty[E](), err
	}
	return conslist.Decode(bytes.NewReader(data), c)
}

// PutScalars stores l as a new snapshot of the named list.
func PutScalars[S conslist.Scalar](s storedefs.Store, name string, l conslist.ScalarList[S]) (int, error) {
	var buf bytes.Buffer
	if err := conslist.EncodeScalars(&buf, l); err != nil {
		return 0, err
	}
	return s.AddSnapshot(name, buf.Bytes())
}

// GetScalars decodes a snapshot of the named list.
func GetScalars[S conslist.Scalar](s storedefs.Store, name string, seq int) (conslist.ScalarList[S], error) {
	data, err := load(s, name, seq)
	if err != nil {
		return conslist.ScalarOf[S](), err
	}
	return conslist.DecodeScalars[S](bytes.NewReader(data))
}

func load(s storedefs.Store, name string, seq int) ([]byte, error) {
	if seq == Latest {
		snapshot, err := s.LastSnapshot(name)
		return snapshot.Data, err
	}
	return s.Snapshot(name, seq)
}
