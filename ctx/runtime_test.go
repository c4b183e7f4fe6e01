package ctx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/codec"
	"github.com/ncdata/ncdata/format"
)

type nopCodec struct{ id format.CodecID }

func (c nopCodec) ID() format.CodecID                        { return c.id }
func (nopCodec) Compress(d []byte, _ int) ([]byte, error)    { return d, nil }
func (nopCodec) Decompress(d []byte, _ int) ([]byte, error)  { return d, nil }

func TestRuntime_InitThenRegisterCodec(t *testing.T) {
	var rt Runtime
	require.NoError(t, rt.Init())
	defer rt.Close()

	id := format.CodecID(0x30)
	require.NoError(t, rt.RegisterCodec(id, nopCodec{id: id}))

	c, err := codec.GetCodec(id)
	require.NoError(t, err)
	require.Equal(t, id, c.ID())
}

func TestRuntime_RejectsUseBeforeInit(t *testing.T) {
	var rt Runtime
	err := rt.RegisterCodec(format.CodecID(0x31), nopCodec{id: format.CodecID(0x31)})
	require.Error(t, err)
}
