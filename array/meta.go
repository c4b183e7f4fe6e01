package array

import (
	"encoding/binary"
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// metaVersion is the envelope version byte SerializeMeta writes; a reader
// seeing a higher version than it understands rejects the record instead
// of guessing at its layout.
const metaVersion = 1

// ShapeMeta is the decoded form of the shape-metadata metalayer
// (format.ShapeMetaName): the array's shape/chunkshape/blockshape triple
// plus the item kind and optional fill value needed to reopen it as an
// Array rather than a plain super-chunk.
type ShapeMeta struct {
	ItemKind   format.ItemKind
	Shape      []int
	ChunkShape []int
	BlockShape []int
	FillValue  []byte // nil if the array has no explicit fill value
}

// SerializeMeta encodes m into the compact record described in §4.8:
// ndim (u8), shape[ndim] (i64), chunkshape[ndim] (i32), blockshape[ndim]
// (i32), wrapped in a version-prefixed envelope.
func (m ShapeMeta) SerializeMeta() ([]byte, error) {
	rank := len(m.Shape)
	if len(m.ChunkShape) != rank || len(m.BlockShape) != rank {
		return nil, fmt.Errorf("%w: shape/chunkshape/blockshape must share rank", errs.ErrShapeMismatch)
	}
	if rank > 255 {
		return nil, fmt.Errorf("%w: rank %d exceeds 255", errs.ErrInvalidShape, rank)
	}

	size := 2 + 8*rank + 4*rank + 4*rank + 1 + 1
	if m.FillValue != nil {
		size += len(m.FillValue)
	}
	out := make([]byte, size)

	out[0] = metaVersion
	out[1] = byte(rank)
	off := 2
	for _, v := range m.Shape {
		binary.LittleEndian.PutUint64(out[off:], uint64(v))
		off += 8
	}
	for _, v := range m.ChunkShape {
		binary.LittleEndian.PutUint32(out[off:], uint32(v))
		off += 4
	}
	for _, v := range m.BlockShape {
		binary.LittleEndian.PutUint32(out[off:], uint32(v))
		off += 4
	}
	out[off] = byte(m.ItemKind)
	off++
	if m.FillValue != nil {
		out[off] = 1
		off++
		off += copy(out[off:], m.FillValue)
	} else {
		out[off] = 0
		off++
	}

	return out[:off], nil
}

// DeserializeMeta decodes a record previously produced by SerializeMeta.
func DeserializeMeta(data []byte, itemWidth int) (ShapeMeta, error) {
	if len(data) < 2 {
		return ShapeMeta{}, fmt.Errorf("%w: shape metadata record truncated", errs.ErrInvalidFormat)
	}
	if data[0] != metaVersion {
		return ShapeMeta{}, fmt.Errorf("%w: shape metadata envelope version %d not recognized", errs.ErrUnknownVersion, data[0])
	}
	rank := int(data[1])
	off := 2

	need := off + 8*rank + 4*rank + 4*rank + 1 + 1
	if len(data) < need {
		return ShapeMeta{}, fmt.Errorf("%w: shape metadata record truncated", errs.ErrInvalidFormat)
	}

	shape := make([]int, rank)
	for i := 0; i < rank; i++ {
		shape[i] = int(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	}
	chunkShape := make([]int, rank)
	for i := 0; i < rank; i++ {
		chunkShape[i] = int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	blockShape := make([]int, rank)
	for i := 0; i < rank; i++ {
		blockShape[i] = int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	itemKind := format.ItemKind(data[off])
	off++

	var fillValue []byte
	if data[off] == 1 {
		off++
		if len(data) < off+itemWidth {
			return ShapeMeta{}, fmt.Errorf("%w: shape metadata fill value truncated", errs.ErrInvalidFormat)
		}
		fillValue = append([]byte(nil), data[off:off+itemWidth]...)
	}

	return ShapeMeta{
		ItemKind:   itemKind,
		Shape:      shape,
		ChunkShape: chunkShape,
		BlockShape: blockShape,
		FillValue:  fillValue,
	}, nil
}
