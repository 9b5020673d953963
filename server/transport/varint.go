// Package transport implements the wire codec and WebSocket listener
// described in §6: messages are little-endian variable-length-integer
// encoded, then base64-wrapped into WebSocket text frames.
package transport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// putUvarint appends x to buf using unsigned LEB128 (the same scheme
// encoding/binary.PutUvarint uses for a single value).
func putUvarint(buf *bytes.Buffer, x uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	buf.Write(tmp[:n])
}

func putString(buf *bytes.Buffer, s string) {
	putUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func putBytes(buf *bytes.Buffer, b []byte) {
	putUvarint(buf, uint64(len(b)))
	buf.Write(b)
}

func putFloat32(buf *bytes.Buffer, f float64) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(float32(f)))
	buf.Write(tmp[:])
}

func putFloat64(buf *bytes.Buffer, f float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
	buf.Write(tmp[:])
}

// reader wraps a byte slice with cursor-based varint/string/float readers,
// returning an error instead of panicking on truncated input (§7: transport
// errors are non-fatal per-client, never invariant violations).
type reader struct {
	b   []byte
	pos int
}

func newReader(b []byte) *reader { return &reader{b: b} }

func (r *reader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.b[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("truncated varint at offset %d", r.pos)
	}
	r.pos += n
	return v, nil
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.b) {
		return 0, fmt.Errorf("truncated message at offset %d", r.pos)
	}
	b := r.b[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) float32() (float32, error) {
	if r.pos+4 > len(r.b) {
		return 0, fmt.Errorf("truncated float at offset %d", r.pos)
	}
	bits := binary.LittleEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

func (r *reader) float64() (float64, error) {
	if r.pos+8 > len(r.b) {
		return 0, fmt.Errorf("truncated float64 at offset %d", r.pos)
	}
	bits := binary.LittleEndian.Uint64(r.b[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.b) {
		return nil, fmt.Errorf("truncated bytes at offset %d", r.pos)
	}
	b := r.b[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *reader) uint16() (uint16, error) {
	v, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func (r *reader) string() (string, error) {
	n, err := r.uvarint()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.b) {
		return "", fmt.Errorf("truncated string at offset %d", r.pos)
	}
	s := string(r.b[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) uint16Set() (map[uint16]struct{}, error) {
	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	out := make(map[uint16]struct{}, n)
	for i := uint64(0); i < n; i++ {
		v, err := r.uint16()
		if err != nil {
			return nil, err
		}
		out[v] = struct{}{}
	}
	return out, nil
}

func (r *reader) byteSet() (map[byte]struct{}, error) {
	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	out := make(map[byte]struct{}, n)
	for i := uint64(0); i < n; i++ {
		v, err := r.byte()
		if err != nil {
			return nil, err
		}
		out[v] = struct{}{}
	}
	return out, nil
}
