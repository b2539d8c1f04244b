package asset

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

// exrPixel is the RGB value the test files carry at x, y. Every component is
// exact in half precision.
func exrPixel(x, y int) [3]float32 {
	return [3]float32{float32(x + 1), 0.5, float32(y) * 0.25}
}

func exrSample(name string, x, y int) float32 {
	p := exrPixel(x, y)
	switch name {
	case "G":
		return p[1]
	case "B":
		return p[2]
	default:
		return p[0]
	}
}

func writeEXRHeader(b *bytes.Buffer, c exrCompression, xMax, yMax int32, names ...string) {
	le := binary.LittleEndian
	b.Write(exrMagic)
	b.Write([]byte{2, 0, 0, 0})

	var chans bytes.Buffer
	for _, n := range names {
		chans.WriteString(n + "\x00")
		binary.Write(&chans, le, int32(1))
		chans.Write([]byte{0, 0, 0, 0})
		binary.Write(&chans, le, int32(1))
		binary.Write(&chans, le, int32(1))
	}
	chans.WriteByte(0)
	b.WriteString("channels\x00chlist\x00")
	binary.Write(b, le, uint32(chans.Len()))
	b.Write(chans.Bytes())

	b.WriteString("compression\x00compression\x00")
	binary.Write(b, le, uint32(1))
	b.WriteByte(byte(c))

	b.WriteString("dataWindow\x00box2i\x00")
	binary.Write(b, le, uint32(16))
	for _, v := range []int32{0, 0, xMax, yMax} {
		binary.Write(b, le, v)
	}
	b.WriteByte(0)
}

// exrHeaderOnly is a header with no offset table or pixel data.
func exrHeaderOnly(xMax, yMax int32) []byte {
	var b bytes.Buffer
	writeEXRHeader(&b, exrNone, xMax, yMax, "R")
	return b.Bytes()
}

// exrFile writes a scanline file of half channels in the given order.
func exrFile(t *testing.T, c exrCompression, w, h int, names ...string) []byte {
	t.Helper()
	var head bytes.Buffer
	writeEXRHeader(&head, c, int32(w-1), int32(h-1), names...)

	lines := c.lines()
	var offsets, blocks bytes.Buffer
	chunks := (h + lines - 1) / lines
	base := head.Len() + chunks*8
	for y0 := 0; y0 < h; y0 += lines {
		var raw []byte
		for y := y0; y < min(h, y0+lines); y++ {
			for _, n := range names {
				for x := 0; x < w; x++ {
					raw = binary.LittleEndian.AppendUint16(raw, float16.Fromfloat32(exrSample(n, x, y)).Bits())
				}
			}
		}
		data := exrCompress(t, c, raw)
		binary.Write(&offsets, binary.LittleEndian, uint64(base+blocks.Len()))
		binary.Write(&blocks, binary.LittleEndian, int32(y0))
		binary.Write(&blocks, binary.LittleEndian, int32(len(data)))
		blocks.Write(data)
	}
	head.Write(offsets.Bytes())
	head.Write(blocks.Bytes())
	return head.Bytes()
}

// exrCompress is the inverse of exrCompression.inflate.
func exrCompress(t *testing.T, c exrCompression, raw []byte) []byte {
	if c == exrNone || c > exrZIP {
		return raw
	}
	n := len(raw)
	half := (n + 1) / 2
	tmp := make([]byte, n)
	for i, v := range raw {
		if i%2 == 0 {
			tmp[i/2] = v
		} else {
			tmp[half+i/2] = v
		}
	}
	prev := tmp[0]
	for i := 1; i < n; i++ {
		cur := tmp[i]
		tmp[i] = byte(int(cur) - int(prev) + 128)
		prev = cur
	}

	var out []byte
	if c == exrRLE {
		for rest := tmp; len(rest) > 0; {
			k := min(len(rest), 127)
			out = append(out, byte(-k))
			out = append(out, rest[:k]...)
			rest = rest[k:]
		}
	} else {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, err := zw.Write(tmp)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		out = buf.Bytes()
	}
	if len(out) == len(raw) {
		return raw
	}
	return out
}

// pngHeaderOnly is a PNG signature and IHDR chunk declaring w x h.
func pngHeaderOnly(w, h uint32) []byte {
	ihdr := []byte("IHDR")
	ihdr = binary.BigEndian.AppendUint32(ihdr, w)
	ihdr = binary.BigEndian.AppendUint32(ihdr, h)
	ihdr = append(ihdr, 8, 6, 0, 0, 0)

	b := []byte("\x89PNG\r\n\x1a\n")
	b = binary.BigEndian.AppendUint32(b, 13)
	b = append(b, ihdr...)
	return binary.BigEndian.AppendUint32(b, crc32.ChecksumIEEE(ihdr))
}
