package transport

import (
	"bytes"
	"testing"
)

func encodeTestFrame(t *testing.T, keysDown, keysPressed, keysReleased []uint16, buttonsDown, buttonsPressed, buttonsReleased []byte, x, y float64) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteByte(0) // PlayerInput discriminator

	putUint16Set(&buf, keysDown)
	putUint16Set(&buf, keysPressed)
	putUint16Set(&buf, keysReleased)
	putByteSet(&buf, buttonsDown)
	putByteSet(&buf, buttonsPressed)
	putByteSet(&buf, buttonsReleased)
	putFloat32(&buf, x)
	putFloat32(&buf, y)
	return buf.Bytes()
}

func putUint16Set(buf *bytes.Buffer, vs []uint16) {
	putUvarint(buf, uint64(len(vs)))
	for _, v := range vs {
		putUvarint(buf, uint64(v))
	}
}

func putByteSet(buf *bytes.Buffer, vs []byte) {
	putUvarint(buf, uint64(len(vs)))
	for _, v := range vs {
		buf.WriteByte(v)
	}
}

func TestDecodeC2SRoundTrip(t *testing.T) {
	raw := encodeTestFrame(t,
		[]uint16{30, 31}, []uint16{32}, nil,
		[]byte{0}, nil, []byte{1},
		12.5, -3.25,
	)

	frame, err := decodeC2S(raw)
	if err != nil {
		t.Fatalf("decodeC2S: %v", err)
	}
	if _, ok := frame.KeysDown[30]; !ok {
		t.Error("expected key 30 down")
	}
	if _, ok := frame.KeysDown[31]; !ok {
		t.Error("expected key 31 down")
	}
	if _, ok := frame.KeysPressed[32]; !ok {
		t.Error("expected key 32 pressed")
	}
	if len(frame.KeysReleased) != 0 {
		t.Errorf("expected no keys released, got %v", frame.KeysReleased)
	}
	if _, ok := frame.ButtonsDown[0]; !ok {
		t.Error("expected button 0 down")
	}
	if _, ok := frame.ButtonsReleased[1]; !ok {
		t.Error("expected button 1 released")
	}
	if frame.MousePosition.X != 12.5 || frame.MousePosition.Y != -3.25 {
		t.Errorf("unexpected mouse position: %+v", frame.MousePosition)
	}
}

func TestDecodeC2SUnknownDiscriminator(t *testing.T) {
	if _, err := decodeC2S([]byte{7}); err == nil {
		t.Fatal("expected error for unknown discriminator")
	}
}

func TestDecodeC2STruncated(t *testing.T) {
	raw := encodeTestFrame(t, []uint16{1}, nil, nil, nil, nil, nil, 0, 0)
	if _, err := decodeC2S(raw[:len(raw)-2]); err == nil {
		t.Fatal("expected error for truncated frame")
	}
}
