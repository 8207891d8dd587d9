package kd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/viant/sqlite-kdtree/matrix"
)

// Serialized layout:
//
//	magic "KDT1" | flags(uint8) | payload
//
// payload (zstd compressed when flagCompressed is set):
//
//	dim(uint32) n(uint32) labels(uint32)
//	[labelLen(uint32) label]*labels
//	[code(float64) features(float64[dim])]*n   in tree order
const (
	magic          = "KDT1"
	flagCompressed = 1 << 0
)

var errInvalid = errors.New("kd: invalid data")

// IsIndexBlob reports whether data carries the kd index header.
func IsIndexBlob(data []byte) bool {
	return len(data) >= len(magic)+1 && string(data[:len(magic)]) == magic
}

// MarshalBinary serializes the tree-ordered rows and the label table.
func (i *Index) MarshalBinary() ([]byte, error) {
	i.mu.RLock()
	payload := i.encodePayload()
	compress := i.compress
	i.mu.RUnlock()

	out := make([]byte, 0, len(magic)+1+len(payload))
	out = append(out, magic...)
	if !compress {
		out = append(out, 0)
		return append(out, payload...), nil
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("kd: zstd writer: %w", err)
	}
	defer enc.Close()
	out = append(out, flagCompressed)
	return enc.EncodeAll(payload, out), nil
}

func (i *Index) encodePayload() []byte {
	rows, cols := i.m.NumRows(), i.m.NumCols()
	symbols := i.labels.Symbols()
	size := 12 + rows*cols*8
	for _, s := range symbols {
		size += 4 + len(s)
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(i.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(rows))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(symbols)))
	for _, s := range symbols {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(s)))
		out = append(out, s...)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(i.m.Get(r, c)))
		}
	}
	return out
}

// UnmarshalBinary restores an index written by MarshalBinary. Rows are
// already in tree order and are not rebuilt.
func (i *Index) UnmarshalBinary(data []byte) error {
	if !IsIndexBlob(data) {
		return errInvalid
	}
	flags := data[len(magic)]
	payload := data[len(magic)+1:]
	if flags&flagCompressed != 0 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return fmt.Errorf("kd: zstd reader: %w", err)
		}
		defer dec.Close()
		if payload, err = dec.DecodeAll(payload, nil); err != nil {
			return fmt.Errorf("kd: decompress: %w", err)
		}
	}
	m, labels, dim, err := decodePayload(payload)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.m, i.labels, i.dim = m, labels, dim
	i.compress = flags&flagCompressed != 0
	return nil
}

func decodePayload(data []byte) (*matrix.Matrix, *matrix.Labels, int, error) {
	off := 0
	getU32 := func() (int, error) {
		if off+4 > len(data) {
			return 0, fmt.Errorf("%w: truncated header", errInvalid)
		}
		v := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		return int(v), nil
	}
	dim, err := getU32()
	if err != nil {
		return nil, nil, 0, err
	}
	rows, err := getU32()
	if err != nil {
		return nil, nil, 0, err
	}
	count, err := getU32()
	if err != nil {
		return nil, nil, 0, err
	}
	labels := matrix.NewLabels()
	for j := 0; j < count; j++ {
		l, err := getU32()
		if err != nil {
			return nil, nil, 0, err
		}
		if off+l > len(data) {
			return nil, nil, 0, fmt.Errorf("%w: truncated label", errInvalid)
		}
		labels.Code(string(data[off : off+l]))
		off += l
	}
	cols := dim + 1
	if rows == 0 {
		cols = 0
	}
	remaining := len(data) - off
	if cols > 0 && (rows > remaining/(cols*8) || remaining != rows*cols*8) {
		return nil, nil, 0, fmt.Errorf("%w: %d rows of %d columns do not match %d bytes", errInvalid, rows, cols, remaining)
	}
	if cols == 0 && remaining != 0 {
		return nil, nil, 0, fmt.Errorf("%w: %d trailing bytes", errInvalid, remaining)
	}
	m := matrix.New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, math.Float64frombits(binary.LittleEndian.Uint64(data[off:off+8])))
			off += 8
		}
	}
	return m, labels, dim, nil
}
