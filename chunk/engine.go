package chunk

import (
	"context"
	"fmt"

	"github.com/ncdata/ncdata/block"
	"github.com/ncdata/ncdata/codec"
	"github.com/ncdata/ncdata/ctx"
	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
	"github.com/ncdata/ncdata/internal/hash"
	"github.com/ncdata/ncdata/internal/pool"
	"github.com/ncdata/ncdata/ndim"
)

// Chunk is one compressed, self-describing chunk (§4.4/§6): the encoded
// header, filter-chain table, block-offset table, and block stream,
// ready to append to a frame body.
type Chunk struct {
	Bytes []byte
}

// Engine splits chunk buffers into blocks per Geometry and dispatches
// their compression/decompression across a worker pool.
type Engine struct {
	Geometry  ndim.Geometry
	ItemKind  format.ItemKind
	FillValue []byte
}

// CompressChunk implements §4.4: partitions buf into blocks, compresses
// each independently (in parallel, bounded by cparams.NThreads), then
// compacts the results into one self-describing chunk.
func (e Engine) CompressChunk(buf []byte, cparams ctx.CParams) (Chunk, error) {
	if err := cparams.Validate(); err != nil {
		return Chunk{}, err
	}

	blocks, err := e.Geometry.Partition(buf, cparams.ItemWidth, e.FillValue)
	if err != nil {
		return Chunk{}, err
	}

	if cparams.Chain.Has(format.FilterDelta) {
		if err := filter.DeltaBlocks(blocks); err != nil {
			return Chunk{}, err
		}
	}

	c, err := codec.CreateCodec(cparams.CodecID, "")
	if err != nil {
		return Chunk{}, err
	}
	// Chunks shorter than MinStreamSize bypass the codec: NoneCodec never
	// beats the raw size, so every block is stored raw.
	if cparams.MinStreamSize > 0 && len(buf) < cparams.MinStreamSize {
		c = codec.NewNoneCodec()
	}

	pipeline := block.Pipeline{Chain: cparams.Chain, Codec: c, Level: cparams.Level}
	fctx := filter.Context{ItemWidth: cparams.ItemWidth, ItemKind: cparams.ItemKind, BlockShape: e.Geometry.BlockShape}

	blockSize := len(blocks[0]) // every block from Partition is uniform size
	stored := make([][]byte, len(blocks))

	compress := func(i int) error {
		sp, done := pool.GetScratch(blockSize)
		defer done()
		dst := make([]byte, 0, block.HeaderSize+blockSize)
		out, err := pipeline.CompressBlock(fctx, blocks[i], sp.Raw, sp.Filtered, dst)
		if err != nil {
			return err
		}
		stored[i] = out
		return nil
	}

	if cparams.NThreads == 1 {
		for i := range blocks {
			if err := compress(i); err != nil {
				return Chunk{}, err
			}
		}
	} else {
		pool := ctx.NewPool(context.Background(), cparams.NThreads)
		for i := range blocks {
			i := i
			pool.Go(func(_ context.Context) error {
				if pool.Cancelled() {
					return fmt.Errorf("%w: sibling block failed", errs.ErrCancelled)
				}
				return compress(i)
			})
		}
		if err := pool.Wait(); err != nil {
			return Chunk{}, err
		}
	}

	body, offsets := compactBlocks(stored)

	var filters [maxChainLen]format.FilterID
	var metas [maxChainLen]byte
	for i, step := range cparams.Chain.Steps {
		if i >= maxChainLen {
			return Chunk{}, fmt.Errorf("%w: filter chain has more than %d steps", errs.ErrInvalidArgument, maxChainLen)
		}
		filters[i] = step.ID
		metas[i] = step.Meta
	}

	useChecksum := true
	var sum uint64
	if useChecksum {
		sum = hash.Checksum(buf)
	}

	nblocks := len(blocks)
	tableSize := offsetTableSize(nblocks)
	headerTotal := HeaderSize + tableSize
	total := headerTotal + len(body)
	if useChecksum {
		total += 8
	}

	out := make([]byte, total)

	h := Header{
		NBytes:    uint32(len(buf)),
		BlockSize: uint32(blockSize),
		CBytes:    uint32(total),
		CodecID:   cparams.CodecID,
		Checksum:  useChecksum,
		Version:   format.FormatVersionMinor,
		Typesize:  uint32(cparams.ItemWidth),
		Filters:   filters,
		Metas:     metas,
	}
	if err := h.Encode(out[:HeaderSize]); err != nil {
		return Chunk{}, err
	}

	table := out[HeaderSize : HeaderSize+tableSize]
	for i, off := range offsets {
		le.PutUint32(table[i*4:], uint32(off))
	}

	copy(out[headerTotal:], body)
	if useChecksum {
		le.PutUint64(out[headerTotal+len(body):], sum)
	}

	return Chunk{Bytes: out}, nil
}

// DecompressChunk inverts CompressChunk, returning the chunk's logical
// ChunkShape-extent decompressed buffer (Assemble drops edge-block
// padding).
func (e Engine) DecompressChunk(c Chunk, dparams ctx.DParams) ([]byte, error) {
	buf := c.Bytes
	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if int(h.CBytes) != len(buf) {
		return nil, fmt.Errorf("%w: chunk declares %d bytes, got %d", errs.ErrInvalidFormat, h.CBytes, len(buf))
	}

	cd, err := codec.CreateCodec(h.CodecID, "")
	if err != nil {
		return nil, err
	}

	var chain filter.Chain
	for i := 0; i < maxChainLen; i++ {
		if h.Filters[i] == format.FilterIdentity {
			continue
		}
		chain.Steps = append(chain.Steps, filter.Step{ID: h.Filters[i], Meta: h.Metas[i]})
	}
	pipeline := block.Pipeline{Chain: chain, Codec: cd}
	fctx := filter.Context{ItemWidth: int(h.Typesize), ItemKind: e.ItemKind, BlockShape: e.Geometry.BlockShape}

	nblocks := int(product(e.Geometry.ExtChunkShape) / product(e.Geometry.BlockShape))
	tableSize := offsetTableSize(nblocks)
	headerTotal := HeaderSize + tableSize
	if headerTotal > len(buf) {
		return nil, fmt.Errorf("%w: chunk too short for %d blocks", errs.ErrInvalidFormat, nblocks)
	}

	table := buf[HeaderSize:headerTotal]
	offsets := make([]int, nblocks)
	for i := range offsets {
		offsets[i] = int(le.Uint32(table[i*4:]))
	}

	bodyEnd := len(buf)
	if h.Checksum {
		bodyEnd -= 8
	}
	body := buf[headerTotal:bodyEnd]

	blockSize := int(h.BlockSize)
	decoded := make([][]byte, nblocks)

	decompressOne := func(i int) error {
		start := offsets[i]
		var end int
		if i+1 < nblocks {
			end = offsets[i+1]
		} else {
			end = len(body)
		}
		if start < 0 || end > len(body) || start > end {
			return fmt.Errorf("%w: block %d offset range [%d,%d) invalid for body of %d bytes", errs.ErrInvalidFormat, i, start, end, len(body))
		}
		sp, done := pool.GetScratch(blockSize)
		defer done()
		out, err := pipeline.DecompressBlock(fctx, body[start:end], blockSize, sp.Raw, sp.Filtered)
		if err != nil {
			return err
		}
		decoded[i] = out
		return nil
	}

	if dparams.NThreads == 1 {
		for i := 0; i < nblocks; i++ {
			if err := decompressOne(i); err != nil {
				return nil, err
			}
		}
	} else {
		pool := ctx.NewPool(context.Background(), dparams.NThreads)
		for i := 0; i < nblocks; i++ {
			i := i
			pool.Go(func(_ context.Context) error { return decompressOne(i) })
		}
		if err := pool.Wait(); err != nil {
			return nil, err
		}
	}

	if chain.Has(format.FilterDelta) {
		if err := filter.UndeltaBlocks(decoded); err != nil {
			return nil, err
		}
	}

	reassembled, err := e.Geometry.Assemble(decoded, int(h.Typesize))
	if err != nil {
		return nil, err
	}

	if h.Checksum {
		got := hash.Checksum(reassembled)
		want := le.Uint64(buf[bodyEnd:])
		if got != want {
			return nil, fmt.Errorf("%w: chunk checksum mismatch", errs.ErrInvalidFormat)
		}
	}

	return reassembled, nil
}

// compactBlocks concatenates each block's stored (header+body) bytes and
// returns the concatenation plus each block's starting offset within it,
// implementing §4.4's "reserve worst-case, compact after completion" step
// as a single pass (blocks are held fully in memory here rather than
// written at pre-reserved offsets, which is equivalent for in-memory
// chunk assembly and avoids a second copy).
func compactBlocks(blocks [][]byte) ([]byte, []int) {
	offsets := make([]int, len(blocks))
	total := 0
	for i, b := range blocks {
		offsets[i] = total
		total += len(b)
	}

	body := make([]byte, total)
	for i, b := range blocks {
		copy(body[offsets[i]:], b)
	}

	return body, offsets
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

