// Package server exposes the scene to the browser renderer: a WebSocket
// feed of render buffers, an MJPEG camera preview, and a small JSON API.
package server

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/ayusman/tannenbaum/internal/scene"
)

// Wire format: every binary frame starts with a version byte and a frame
// type byte; all multi-byte values are big-endian, positions and colors
// are float32.
const (
	wireVersion = 1

	// FrameInit carries the static buffers sent once per connection:
	// entity counts, colors, and sizes.
	FrameInit = 0x01

	// FrameUpdate carries the per-frame dynamic buffers: pivot yaw, drag
	// flag, topper height, and the live particle and ornament positions.
	FrameUpdate = 0x02
)

// Envelope wraps the JSON control messages interleaved with the binary
// frames on the same socket.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// MsgState is the envelope type for status/gesture updates.
const MsgState = "state"

// StatePayload is the payload of a MsgState envelope.
type StatePayload struct {
	Status      string `json:"status"`
	Gesture     string `json:"gesture"`
	DragEnabled bool   `json:"dragEnabled"`
}

// Encoder builds wire frames into a reusable scratch buffer so the
// broadcast loop does not allocate per tick.
type Encoder struct {
	buf []byte
}

func (e *Encoder) reset(frameType byte) {
	e.buf = e.buf[:0]
	e.buf = append(e.buf, wireVersion, frameType)
}

func (e *Encoder) putUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) putFloat32(v float32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(v))
}

func (e *Encoder) putFloats(vs []float32) {
	for _, v := range vs {
		e.putFloat32(v)
	}
}

// EncodeInit encodes the static scene buffers. The returned slice is
// valid until the next Encode call.
func (e *Encoder) EncodeInit(v scene.View) []byte {
	e.reset(FrameInit)
	e.putUint32(uint32(len(v.ParticleSize)))
	e.putUint32(uint32(len(v.OrnamentSize)))
	e.putFloats(v.ParticleColor)
	e.putFloats(v.ParticleSize)
	e.putFloats(v.OrnamentColor)
	e.putFloats(v.OrnamentSize)
	return e.buf
}

// EncodeUpdate encodes the dynamic scene buffers. The returned slice is
// valid until the next Encode call.
func (e *Encoder) EncodeUpdate(v scene.View) []byte {
	e.reset(FrameUpdate)
	e.putFloat32(float32(v.PivotYaw))
	if v.DragEnabled {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
	e.putFloat32(float32(v.TopperY))
	e.putUint32(uint32(len(v.ParticlePos) / 3))
	e.putFloats(v.ParticlePos)
	e.putUint32(uint32(len(v.OrnamentPos) / 3))
	e.putFloats(v.OrnamentPos)
	e.putFloats(v.OrnamentAngle)
	return e.buf
}

// UpdateFrame is the decoded form of a FrameUpdate, used by tests and
// diagnostic tooling.
type UpdateFrame struct {
	PivotYaw      float32
	DragEnabled   bool
	TopperY       float32
	ParticlePos   []float32
	OrnamentPos   []float32
	OrnamentAngle []float32
}

type wireReader struct {
	data []byte
	off  int
	err  error
}

func (r *wireReader) uint32() uint32 {
	if r.err != nil {
		return 0
	}
	if r.off+4 > len(r.data) {
		r.err = fmt.Errorf("truncated frame at offset %d", r.off)
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *wireReader) float32() float32 {
	return math.Float32frombits(r.uint32())
}

func (r *wireReader) byte() byte {
	if r.err != nil {
		return 0
	}
	if r.off >= len(r.data) {
		r.err = fmt.Errorf("truncated frame at offset %d", r.off)
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *wireReader) floats(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = r.float32()
	}
	return out
}

// DecodeUpdate parses a FrameUpdate message.
func DecodeUpdate(data []byte) (*UpdateFrame, error) {
	r := &wireReader{data: data}

	if v := r.byte(); v != wireVersion {
		return nil, fmt.Errorf("unsupported wire version %d", v)
	}
	if ft := r.byte(); ft != FrameUpdate {
		return nil, fmt.Errorf("not an update frame: type %#x", ft)
	}

	f := &UpdateFrame{}
	f.PivotYaw = r.float32()
	f.DragEnabled = r.byte() == 1
	f.TopperY = r.float32()

	particles := int(r.uint32())
	if r.err != nil {
		return nil, r.err
	}
	f.ParticlePos = r.floats(3 * particles)

	ornaments := int(r.uint32())
	if r.err != nil {
		return nil, r.err
	}
	f.OrnamentPos = r.floats(3 * ornaments)
	f.OrnamentAngle = r.floats(ornaments)

	if r.err != nil {
		return nil, r.err
	}
	return f, nil
}
