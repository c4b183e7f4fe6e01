// Package array implements the n-d array façade (§4.8): a thin layer on
// top of schunk.SuperChunk and ndim.Geometry that lets callers address
// data by n-dimensional coordinates instead of by chunk index, backed by
// the shape-metadata metalayer for Open/Save round trips.
package array

import (
	"fmt"
	"os"

	"github.com/ncdata/ncdata/chunk"
	"github.com/ncdata/ncdata/ctx"
	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
	"github.com/ncdata/ncdata/frame"
	"github.com/ncdata/ncdata/ndim"
	"github.com/ncdata/ncdata/schunk"
)

// Array is a super-chunk viewed as an n-dimensional, chunked buffer.
type Array struct {
	sc   *schunk.SuperChunk
	geom ndim.Geometry

	itemWidth int
	itemKind  format.ItemKind
	fillValue []byte

	cparams ctx.CParams
	dparams ctx.DParams

	// cache holds the most recently decompressed chunk. SetSliceBuffer
	// invalidates it when it rewrites the cached chunk; the reshape
	// operations replace the whole Array, cache included.
	cache struct {
		idx   int
		buf   []byte
		valid bool
	}
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func nChunksPerDim(g ndim.Geometry) []int {
	rank := len(g.Shape)
	n := make([]int, rank)
	for d := 0; d < rank; d++ {
		n[d] = g.ExtShape[d] / g.ChunkShape[d]
	}
	return n
}

// iterateCoords returns every coordinate in the C-order iteration of a
// shape-bounded grid (row-major, dimension 0 slowest-varying).
func iterateCoords(shape []int) [][]int {
	total := product(shape)
	coords := make([][]int, 0, total)
	coord := make([]int, len(shape))
	for i := 0; i < total; i++ {
		coords = append(coords, append([]int(nil), coord...))
		for d := len(shape) - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < shape[d] || shape[d] == 0 {
				break
			}
			coord[d] = 0
		}
	}
	return coords
}

// copyRegion copies an extent-shaped rectangle of itemWidth-byte items
// from src (addressed via srcStrides, offset by srcOrigin) to dst
// (addressed via dstStrides, offset by dstOrigin). It is the single
// primitive every array-level region copy (FromBuffer, ToBuffer,
// GetSlice, SetSliceBuffer) is built from.
func copyRegion(dst []byte, dstStrides, dstOrigin []int, src []byte, srcStrides, srcOrigin []int, extent []int, itemWidth int) {
	rank := len(extent)
	coord := make([]int, rank)
	var walk func(dim int)
	walk = func(dim int) {
		if dim == rank {
			so, do := 0, 0
			for d := 0; d < rank; d++ {
				so += (srcOrigin[d] + coord[d]) * srcStrides[d]
				do += (dstOrigin[d] + coord[d]) * dstStrides[d]
			}
			so *= itemWidth
			do *= itemWidth
			copy(dst[do:do+itemWidth], src[so:so+itemWidth])
			return
		}
		for i := 0; i < extent[dim]; i++ {
			coord[dim] = i
			walk(dim + 1)
		}
	}
	walk(0)
}

func chunkByteSize(g ndim.Geometry, itemWidth int) int {
	return product(g.ChunkShape) * itemWidth
}

func blockByteSize(g ndim.Geometry, itemWidth int) int {
	return product(g.BlockShape) * itemWidth
}

func chainArrays(chain filter.Chain) ([format.MaxFilters]format.FilterID, [format.MaxFilters]byte, error) {
	var filters [format.MaxFilters]format.FilterID
	var metas [format.MaxFilters]byte
	if len(chain.Steps) > format.MaxFilters {
		return filters, metas, fmt.Errorf("%w: filter chain has more than %d steps", errs.ErrInvalidArgument, format.MaxFilters)
	}
	for i, s := range chain.Steps {
		filters[i] = s.ID
		metas[i] = s.Meta
	}
	return filters, metas, nil
}

// newFromGeometry builds the backend, engine, and SuperChunk shared by
// every constructor, then fills each chunk's content by calling fill for
// every chunk coordinate in C order.
func newFromGeometry(g ndim.Geometry, itemKind format.ItemKind, itemWidth int, fillValue []byte, cparams ctx.CParams, dparams ctx.DParams, fill func(coord []int, chunkOrigin []int) []byte) (*Array, error) {
	filters, metas, err := chainArrays(cparams.Chain)
	if err != nil {
		return nil, err
	}

	backend := frame.NewContiguousFrame(itemWidth, chunkByteSize(g, itemWidth), blockByteSize(g, itemWidth), cparams.CodecID, cparams.Level, filters, metas)

	engine := chunk.Engine{Geometry: g, ItemKind: itemKind, FillValue: fillValue}
	sc := schunk.New(backend, engine, cparams, dparams)

	meta := ShapeMeta{ItemKind: itemKind, Shape: g.Shape, ChunkShape: g.ChunkShape, BlockShape: g.BlockShape, FillValue: fillValue}
	metaBytes, err := meta.SerializeMeta()
	if err != nil {
		return nil, err
	}
	if err := sc.SetMeta(format.ShapeMetaName, metaBytes); err != nil {
		return nil, err
	}

	for _, coord := range iterateCoords(nChunksPerDim(g)) {
		origin := make([]int, len(coord))
		for d, c := range coord {
			origin[d] = c * g.ChunkShape[d]
		}
		if err := sc.AppendChunk(fill(coord, origin)); err != nil {
			return nil, err
		}
	}

	return &Array{
		sc:        sc,
		geom:      g,
		itemWidth: itemWidth,
		itemKind:  itemKind,
		fillValue: fillValue,
		cparams:   cparams,
		dparams:   dparams,
	}, nil
}

// Zeros creates a new array whose every element is the zero value.
func Zeros(shape, chunkShape, blockShape []int, itemKind format.ItemKind, cparams ctx.CParams, dparams ctx.DParams) (*Array, error) {
	g, itemWidth, err := buildGeometry(shape, chunkShape, blockShape, itemKind, cparams)
	if err != nil {
		return nil, err
	}
	zero := make([]byte, chunkByteSize(g, itemWidth))
	return newFromGeometry(g, itemKind, itemWidth, nil, cparams, dparams, func(_, _ []int) []byte {
		return append([]byte(nil), zero...)
	})
}

// Full creates a new array whose every element equals fillValue
// (itemWidth bytes long).
func Full(shape, chunkShape, blockShape []int, itemKind format.ItemKind, fillValue []byte, cparams ctx.CParams, dparams ctx.DParams) (*Array, error) {
	g, itemWidth, err := buildGeometry(shape, chunkShape, blockShape, itemKind, cparams)
	if err != nil {
		return nil, err
	}
	if len(fillValue) != itemWidth {
		return nil, fmt.Errorf("%w: fill value is %d bytes, expected item width %d", errs.ErrInvalidArgument, len(fillValue), itemWidth)
	}
	full := make([]byte, chunkByteSize(g, itemWidth))
	for i := 0; i < len(full); i += itemWidth {
		copy(full[i:i+itemWidth], fillValue)
	}
	return newFromGeometry(g, itemKind, itemWidth, fillValue, cparams, dparams, func(_, _ []int) []byte {
		return append([]byte(nil), full...)
	})
}

// Uninit creates a new array without initializing element content beyond
// Go's own zero-value guarantee (there is no uninitialized memory to
// expose in this runtime, unlike the original's malloc-backed variant).
func Uninit(shape, chunkShape, blockShape []int, itemKind format.ItemKind, cparams ctx.CParams, dparams ctx.DParams) (*Array, error) {
	return Zeros(shape, chunkShape, blockShape, itemKind, cparams, dparams)
}

// FromBuffer creates a new array from a fully materialized, shape-extent
// source buffer (row-major, itemWidth bytes per item).
func FromBuffer(buf []byte, shape, chunkShape, blockShape []int, itemKind format.ItemKind, cparams ctx.CParams, dparams ctx.DParams) (*Array, error) {
	g, itemWidth, err := buildGeometry(shape, chunkShape, blockShape, itemKind, cparams)
	if err != nil {
		return nil, err
	}
	if want := product(shape) * itemWidth; len(buf) != want {
		return nil, fmt.Errorf("%w: buffer is %d bytes, expected %d for shape %v", errs.ErrShapeMismatch, len(buf), want, shape)
	}

	arrayStrides := rowMajorStrides(shape)
	chunkStrides := rowMajorStrides(g.ChunkShape)

	return newFromGeometry(g, itemKind, itemWidth, nil, cparams, dparams, func(_, origin []int) []byte {
		chunkBuf := make([]byte, chunkByteSize(g, itemWidth))
		extent := make([]int, len(origin))
		for d := range origin {
			extent[d] = g.ChunkShape[d]
			if origin[d]+extent[d] > shape[d] {
				extent[d] = shape[d] - origin[d]
			}
			if extent[d] < 0 {
				extent[d] = 0
			}
		}
		copyRegion(chunkBuf, chunkStrides, make([]int, len(origin)), buf, arrayStrides, origin, extent, itemWidth)
		return chunkBuf
	})
}

func buildGeometry(shape, chunkShape, blockShape []int, itemKind format.ItemKind, cparams ctx.CParams) (ndim.Geometry, int, error) {
	itemWidth := itemKind.Width()
	if itemWidth == 0 {
		itemWidth = cparams.ItemWidth
	}
	if itemWidth <= 0 {
		return ndim.Geometry{}, 0, fmt.Errorf("%w: item width must be > 0 for opaque item kind", errs.ErrInvalidItemWidth)
	}
	g, err := ndim.NewGeometry(shape, chunkShape, blockShape)
	if err != nil {
		return ndim.Geometry{}, 0, err
	}
	return g, itemWidth, nil
}

// Shape returns the array's logical extent.
func (a *Array) Shape() []int { return append([]int(nil), a.geom.Shape...) }

// ChunkShape returns the array's chunk extent.
func (a *Array) ChunkShape() []int { return append([]int(nil), a.geom.ChunkShape...) }

// BlockShape returns the array's block extent.
func (a *Array) BlockShape() []int { return append([]int(nil), a.geom.BlockShape...) }

// ItemKind returns the array's scalar item kind.
func (a *Array) ItemKind() format.ItemKind { return a.itemKind }

func (a *Array) invalidateCache(idx int) {
	if a.cache.valid && a.cache.idx == idx {
		a.cache.valid = false
	}
}

func (a *Array) getChunkCached(idx int) ([]byte, error) {
	if a.cache.valid && a.cache.idx == idx {
		return a.cache.buf, nil
	}
	buf, err := a.sc.GetChunk(idx)
	if err != nil {
		return nil, err
	}
	a.cache.idx = idx
	a.cache.buf = buf
	a.cache.valid = true
	return buf, nil
}

// ToBuffer decompresses the whole array into one shape-extent, row-major
// buffer.
func (a *Array) ToBuffer() ([]byte, error) {
	shape := a.geom.Shape
	out := make([]byte, product(shape)*a.itemWidth)
	arrayStrides := rowMajorStrides(shape)
	chunkStrides := rowMajorStrides(a.geom.ChunkShape)

	for i, coord := range iterateCoords(nChunksPerDim(a.geom)) {
		origin := make([]int, len(coord))
		extent := make([]int, len(coord))
		for d, c := range coord {
			origin[d] = c * a.geom.ChunkShape[d]
			extent[d] = a.geom.ChunkShape[d]
			if origin[d]+extent[d] > shape[d] {
				extent[d] = shape[d] - origin[d]
			}
		}
		chunkBuf, err := a.getChunkCached(i)
		if err != nil {
			return nil, err
		}
		copyRegion(out, arrayStrides, origin, chunkBuf, chunkStrides, make([]int, len(origin)), extent, a.itemWidth)
	}
	return out, nil
}

// GetSlice extracts the half-open [start, stop) hyperrectangle into a new
// densely packed buffer, per §4.7's slice-extraction algorithm.
func (a *Array) GetSlice(start, stop []int) ([]byte, error) {
	intersections, err := a.geom.IntersectChunks(start, stop)
	if err != nil {
		return nil, err
	}

	rank := len(start)
	outShape := make([]int, rank)
	for d := 0; d < rank; d++ {
		outShape[d] = stop[d] - start[d]
	}
	out := make([]byte, product(outShape)*a.itemWidth)
	outStrides := rowMajorStrides(outShape)
	chunkStrides := rowMajorStrides(a.geom.ChunkShape)

	for _, ix := range intersections {
		chunkBuf, err := a.getChunkCached(ix.ChunkIndex)
		if err != nil {
			return nil, err
		}
		extent := make([]int, rank)
		dstOrigin := make([]int, rank)
		for d := 0; d < rank; d++ {
			extent[d] = ix.LocalStop[d] - ix.LocalStart[d]
			dstOrigin[d] = ix.GlobalStart[d] - start[d]
		}
		copyRegion(out, outStrides, dstOrigin, chunkBuf, chunkStrides, ix.LocalStart, extent, a.itemWidth)
	}
	return out, nil
}

// SetSliceBuffer writes buf (densely packed, shaped like [start, stop))
// into the array, recompressing every chunk the range intersects.
func (a *Array) SetSliceBuffer(start, stop []int, buf []byte) error {
	intersections, err := a.geom.IntersectChunks(start, stop)
	if err != nil {
		return err
	}

	rank := len(start)
	srcShape := make([]int, rank)
	for d := 0; d < rank; d++ {
		srcShape[d] = stop[d] - start[d]
	}
	if want := product(srcShape) * a.itemWidth; len(buf) != want {
		return fmt.Errorf("%w: buffer is %d bytes, expected %d for range %v..%v", errs.ErrShapeMismatch, len(buf), want, start, stop)
	}
	srcStrides := rowMajorStrides(srcShape)
	chunkStrides := rowMajorStrides(a.geom.ChunkShape)

	for _, ix := range intersections {
		chunkBuf, err := a.getChunkCached(ix.ChunkIndex)
		if err != nil {
			return err
		}
		chunkBuf = append([]byte(nil), chunkBuf...)

		extent := make([]int, rank)
		srcOrigin := make([]int, rank)
		for d := 0; d < rank; d++ {
			extent[d] = ix.LocalStop[d] - ix.LocalStart[d]
			srcOrigin[d] = ix.GlobalStart[d] - start[d]
		}
		copyRegion(chunkBuf, chunkStrides, ix.LocalStart, buf, srcStrides, srcOrigin, extent, a.itemWidth)

		if err := a.sc.UpdateChunk(ix.ChunkIndex, chunkBuf); err != nil {
			return err
		}
		a.invalidateCache(ix.ChunkIndex)
	}
	return nil
}

// Copy returns an independent deep copy of a, sharing no storage.
func (a *Array) Copy() (*Array, error) {
	buf, err := a.ToBuffer()
	if err != nil {
		return nil, err
	}
	return FromBuffer(buf, a.geom.Shape, a.geom.ChunkShape, a.geom.BlockShape, a.itemKind, a.cparams, a.dparams)
}

// Save serializes the array (its ContiguousFrame backend) to path.
func (a *Array) Save(path string) error {
	cf, ok := a.sc.Backend().(*frame.ContiguousFrame)
	if !ok {
		return fmt.Errorf("%w: Save requires a contiguous-frame backend", errs.ErrUnsupported)
	}
	data, err := cf.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidStorage, err)
	}
	return nil
}

// Open reads back an array previously written with Save, using its
// shape-metadata metalayer to reconstruct the geometry.
func Open(path string, cparams ctx.CParams, dparams ctx.DParams) (*Array, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidStorage, err)
	}
	backend, err := frame.OpenContiguousFrame(data)
	if err != nil {
		return nil, err
	}

	metaBytes, ok := backend.GetMeta(format.ShapeMetaName)
	if !ok {
		return nil, fmt.Errorf("%w: frame has no %q shape metalayer, not array-shaped", errs.ErrInvalidFormat, format.ShapeMetaName)
	}
	meta, err := DeserializeMeta(metaBytes, backend.Typesize())
	if err != nil {
		return nil, err
	}

	g, err := ndim.NewGeometry(meta.Shape, meta.ChunkShape, meta.BlockShape)
	if err != nil {
		return nil, err
	}

	cparams.CodecID = backend.CodecID()
	cparams.Level = backend.CodecLevel()
	cparams.ItemWidth = backend.Typesize()
	cparams.ItemKind = meta.ItemKind

	engine := chunk.Engine{Geometry: g, ItemKind: meta.ItemKind, FillValue: meta.FillValue}
	sc := schunk.New(backend, engine, cparams, dparams)

	return &Array{
		sc:        sc,
		geom:      g,
		itemWidth: backend.Typesize(),
		itemKind:  meta.ItemKind,
		fillValue: meta.FillValue,
		cparams:   cparams,
		dparams:   dparams,
	}, nil
}
