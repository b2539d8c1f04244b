package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
	"github.com/x448/float16"

	"scene-deck/internal/graph"
)

var exrMagic = []byte{0x76, 0x2f, 0x31, 0x01}

var errBadEXR = errors.New("malformed openexr file")

// Version flags of files this decoder does not read.
const (
	exrTiled     = 0x200
	exrDeep      = 0x800
	exrMultipart = 0x1000
)

type exrCompression byte

const (
	exrNone exrCompression = 0
	exrRLE  exrCompression = 1
	exrZIPS exrCompression = 2
	exrZIP  exrCompression = 3
)

// lines is the number of scanlines stored per chunk.
func (c exrCompression) lines() int {
	if c == exrZIP {
		return 16
	}
	return 1
}

type exrChannel struct {
	name string
	// kind is 0 for uint, 1 for half and 2 for float.
	kind int32
}

func (c exrChannel) size() int {
	if c.kind == 1 {
		return 2
	}
	return 4
}

func (c exrChannel) value(b []byte) float32 {
	switch c.kind {
	case 0:
		return float32(binary.LittleEndian.Uint32(b))
	case 1:
		return float16.Frombits(binary.LittleEndian.Uint16(b)).Float32()
	default:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
}

type exrHeader struct {
	channels    []exrChannel
	compression exrCompression
	xMin, yMin  int
	width       int
	height      int
}

// decodeEXR reads single-part scanline OpenEXR files stored uncompressed or
// with RLE, ZIPS or ZIP compression into linear RGB floats. A file with only
// a Y channel is read as grey.
func decodeEXR(data []byte) (*graph.Environment, error) {
	head, rest, err := parseEXRHeader(data)
	if err != nil {
		return nil, err
	}
	lines := head.compression.lines()
	chunks := (head.height + lines - 1) / lines
	if err := checkSize(head.width, head.height); err != nil {
		return nil, err
	}
	// Each chunk needs an 8-byte offset and an 8-byte block header.
	if len(rest) < 16*chunks {
		return nil, fmt.Errorf("%w: %d chunks in %d bytes", errBadEXR, chunks, len(rest))
	}

	rowBytes := 0
	for _, c := range head.channels {
		rowBytes += c.size() * head.width
	}
	slot := map[string]int{"R": 0, "G": 1, "B": 2}
	if !hasAny(head.channels, "R", "G", "B") {
		slot = map[string]int{"Y": -1}
	}

	pixels := make([]float32, head.width*head.height*3)
	for i := 0; i < chunks; i++ {
		off := binary.LittleEndian.Uint64(rest[i*8:])
		if off < 8 || off > uint64(len(data)-8) {
			return nil, fmt.Errorf("chunk %d offset: %w", i, errBadEXR)
		}
		block := data[off:]
		y := int(int32(binary.LittleEndian.Uint32(block))) - head.yMin
		size := int(binary.LittleEndian.Uint32(block[4:]))
		if y < 0 || y >= head.height || y%lines != 0 || size < 0 || size > len(block)-8 {
			return nil, fmt.Errorf("chunk %d header: %w", i, errBadEXR)
		}
		n := min(lines, head.height-y)
		raw, err := head.compression.inflate(block[8:8+size], n*rowBytes)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		for l := 0; l < n; l++ {
			row := raw[l*rowBytes:]
			for _, c := range head.channels {
				s, ok := slot[c.name]
				for x := 0; ok && x < head.width; x++ {
					v := c.value(row[x*c.size():])
					p := ((y+l)*head.width + x) * 3
					if s < 0 {
						pixels[p], pixels[p+1], pixels[p+2] = v, v, v
					} else {
						pixels[p+s] = v
					}
				}
				row = row[head.width*c.size():]
			}
		}
	}
	return &graph.Environment{
		Format: graph.EnvEXR,
		Width:  head.width,
		Height: head.height,
		Pixels: pixels,
	}, nil
}

// parseEXRHeader reads the attribute list and returns the bytes that follow
// it, starting with the chunk offset table.
func parseEXRHeader(data []byte) (exrHeader, []byte, error) {
	var head exrHeader
	if len(data) < 8 || !bytes.Equal(data[:4], exrMagic) {
		return head, nil, errBadEXR
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v&(exrTiled|exrDeep|exrMultipart) != 0 {
		return head, nil, fmt.Errorf("openexr version flags %#x: %w", v, ErrUnsupported)
	}
	compression := -1
	window := false
	rest := data[8:]
	for {
		name, ok := cstring(&rest)
		if !ok {
			return head, nil, errBadEXR
		}
		if name == "" {
			break
		}
		typ, ok := cstring(&rest)
		if !ok || len(rest) < 4 {
			return head, nil, errBadEXR
		}
		size := int(binary.LittleEndian.Uint32(rest))
		rest = rest[4:]
		if size < 0 || size > len(rest) {
			return head, nil, errBadEXR
		}
		value := rest[:size]
		rest = rest[size:]

		switch {
		case name == "channels" && typ == "chlist":
			chans, err := parseChannels(value)
			if err != nil {
				return head, nil, err
			}
			head.channels = chans
		case name == "compression" && size == 1:
			compression = int(value[0])
		case name == "dataWindow" && typ == "box2i" && size == 16:
			xMin := int(int32(binary.LittleEndian.Uint32(value[0:])))
			yMin := int(int32(binary.LittleEndian.Uint32(value[4:])))
			xMax := int(int32(binary.LittleEndian.Uint32(value[8:])))
			yMax := int(int32(binary.LittleEndian.Uint32(value[12:])))
			if xMax < xMin || yMax < yMin {
				return head, nil, errBadEXR
			}
			head.xMin, head.yMin = xMin, yMin
			head.width, head.height = xMax-xMin+1, yMax-yMin+1
			window = true
		}
	}
	if !window || len(head.channels) == 0 || compression < 0 {
		return head, nil, errBadEXR
	}
	if compression > int(exrZIP) {
		return head, nil, fmt.Errorf("openexr compression %d: %w", compression, ErrUnsupported)
	}
	head.compression = exrCompression(compression)
	return head, rest, nil
}

func parseChannels(b []byte) ([]exrChannel, error) {
	var chans []exrChannel
	for {
		name, ok := cstring(&b)
		if !ok {
			return nil, errBadEXR
		}
		if name == "" {
			return chans, nil
		}
		if len(b) < 16 {
			return nil, errBadEXR
		}
		kind := int32(binary.LittleEndian.Uint32(b))
		xs := int32(binary.LittleEndian.Uint32(b[8:]))
		ys := int32(binary.LittleEndian.Uint32(b[12:]))
		b = b[16:]
		if kind < 0 || kind > 2 {
			return nil, errBadEXR
		}
		if xs != 1 || ys != 1 {
			return nil, fmt.Errorf("openexr subsampled channel %q: %w", name, ErrUnsupported)
		}
		chans = append(chans, exrChannel{name: name, kind: kind})
	}
}

// inflate returns the want uncompressed bytes of one chunk. Chunks that
// would not shrink are stored as is.
func (c exrCompression) inflate(src []byte, want int) ([]byte, error) {
	if len(src) == want || c == exrNone {
		if len(src) != want {
			return nil, errBadEXR
		}
		return src, nil
	}
	var tmp []byte
	switch c {
	case exrRLE:
		var err error
		if tmp, err = unRLE(src, want); err != nil {
			return nil, err
		}
	default:
		zr, err := zlib.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadEXR, err)
		}
		defer zr.Close()
		tmp = make([]byte, want)
		if _, err := io.ReadFull(zr, tmp); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadEXR, err)
		}
	}
	for i := 1; i < len(tmp); i++ {
		tmp[i] = byte(int(tmp[i-1]) + int(tmp[i]) - 128)
	}
	// The two halves hold the even and odd bytes.
	out := make([]byte, want)
	half := (want + 1) / 2
	for i := range out {
		if i%2 == 0 {
			out[i] = tmp[i/2]
		} else {
			out[i] = tmp[half+i/2]
		}
	}
	return out, nil
}

func unRLE(src []byte, want int) ([]byte, error) {
	out := make([]byte, 0, want)
	for len(src) > 0 {
		n := int(int8(src[0]))
		src = src[1:]
		if n < 0 {
			if -n > len(src) || len(out)-n > want {
				return nil, errBadEXR
			}
			out = append(out, src[:-n]...)
			src = src[-n:]
			continue
		}
		if len(src) == 0 || len(out)+n+1 > want {
			return nil, errBadEXR
		}
		for i := 0; i <= n; i++ {
			out = append(out, src[0])
		}
		src = src[1:]
	}
	if len(out) != want {
		return nil, errBadEXR
	}
	return out, nil
}

func hasAny(chans []exrChannel, names ...string) bool {
	for _, c := range chans {
		for _, n := range names {
			if c.name == n {
				return true
			}
		}
	}
	return false
}

// cstring pops a NUL-terminated string off b.
func cstring(b *[]byte) (string, bool) {
	i := bytes.IndexByte(*b, 0)
	if i < 0 {
		return "", false
	}
	s := string((*b)[:i])
	*b = (*b)[i+1:]
	return s, true
}
