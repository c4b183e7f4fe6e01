package frame

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
)

// metalayerTable is an ordered name->bytes table (§2 Glossary: "fixed" or
// "variable" metalayer), serialized as:
//
//	count u32
//	repeated: nameLen u16, name bytes, dataLen u32, data bytes
//
// Order is preserved (first-registration order) since fixed metalayers'
// sizes are frozen in that order and callers may rely on stable
// iteration.
type metalayerTable struct {
	names []string
	data  map[string][]byte
}

func newMetalayerTable() *metalayerTable {
	return &metalayerTable{data: make(map[string][]byte)}
}

func (t *metalayerTable) Has(name string) bool {
	_, ok := t.data[name]
	return ok
}

func (t *metalayerTable) Get(name string) ([]byte, bool) {
	v, ok := t.data[name]
	return v, ok
}

// Set adds or updates name. It reports whether name was newly added.
func (t *metalayerTable) Set(name string, value []byte) bool {
	_, existed := t.data[name]
	if !existed {
		t.names = append(t.names, name)
	}
	cp := append([]byte(nil), value...)
	t.data[name] = cp
	return !existed
}

// Delete removes name, reporting whether it existed.
func (t *metalayerTable) Delete(name string) bool {
	if _, ok := t.data[name]; !ok {
		return false
	}
	delete(t.data, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
	return true
}

func (t *metalayerTable) byteSize() int {
	n := 4
	for _, name := range t.names {
		n += 2 + len(name) + 4 + len(t.data[name])
	}
	return n
}

// entrySize returns the wire size of one name/value pair as stored by
// this table (nameLen u16 + name + dataLen u32 + data).
func (t *metalayerTable) entrySize(name string, value []byte) int {
	return 2 + len(name) + 4 + len(value)
}

func (t *metalayerTable) encode(dst []byte) (int, error) {
	if len(dst) < t.byteSize() {
		return 0, fmt.Errorf("%w: metalayer table needs %d bytes, got %d", errs.ErrInvalidArgument, t.byteSize(), len(dst))
	}

	off := 0
	le.PutUint32(dst[off:], uint32(len(t.names)))
	off += 4

	for _, name := range t.names {
		v := t.data[name]
		le.PutUint16(dst[off:], uint16(len(name)))
		off += 2
		off += copy(dst[off:], name)
		le.PutUint32(dst[off:], uint32(len(v)))
		off += 4
		off += copy(dst[off:], v)
	}

	return off, nil
}

func decodeMetalayerTable(src []byte) (*metalayerTable, int, error) {
	if len(src) < 4 {
		return nil, 0, fmt.Errorf("%w: metalayer table truncated", errs.ErrInvalidFormat)
	}

	t := newMetalayerTable()
	off := 0
	count := int(le.Uint32(src[off:]))
	off += 4

	for i := 0; i < count; i++ {
		if off+2 > len(src) {
			return nil, 0, fmt.Errorf("%w: metalayer table truncated at entry %d", errs.ErrInvalidFormat, i)
		}
		nameLen := int(le.Uint16(src[off:]))
		off += 2
		if off+nameLen > len(src) {
			return nil, 0, fmt.Errorf("%w: metalayer name truncated at entry %d", errs.ErrInvalidFormat, i)
		}
		name := string(src[off : off+nameLen])
		off += nameLen

		if off+4 > len(src) {
			return nil, 0, fmt.Errorf("%w: metalayer table truncated at entry %d", errs.ErrInvalidFormat, i)
		}
		dataLen := int(le.Uint32(src[off:]))
		off += 4
		if off+dataLen > len(src) {
			return nil, 0, fmt.Errorf("%w: metalayer data truncated at entry %d", errs.ErrInvalidFormat, i)
		}
		value := append([]byte(nil), src[off:off+dataLen]...)
		off += dataLen

		t.names = append(t.names, name)
		t.data[name] = value
	}

	return t, off, nil
}
