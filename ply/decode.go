// Package ply reads and writes ASCII PLY point clouds with x, y, z, r, g, b
// vertex columns.
package ply

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d/pointcloud/core"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	headerVertex = "element vertex"
	headerEnd    = "end_header"
	headerFormat = "format"

	// maxLineBytes bounds a single line held by the scanner.
	maxLineBytes = 1 << 20
	// maxPrealloc caps slice capacity taken from the declared vertex count.
	maxPrealloc = 1 << 20

	dataColumns = 6
)

// Options is the downsampling policy.
type Options struct {
	// Stride keeps every Stride-th data line. Values below 1 mean 1.
	Stride int
	// MaxPoints caps the output size. 0 or negative means unbounded.
	MaxPoints int
}

func (o Options) normalized() Options {
	if o.Stride < 1 {
		o.Stride = 1
	}
	if o.MaxPoints < 0 {
		o.MaxPoints = 0
	}
	return o
}

// EffectiveCount is how many samples a file declaring vertexCount vertices
// yields at most under o.
func (o Options) EffectiveCount(vertexCount int) int {
	if vertexCount <= 0 {
		return 0
	}
	o = o.normalized()
	n := vertexCount / o.Stride
	if vertexCount%o.Stride != 0 {
		n++
	}
	if o.MaxPoints > 0 && o.MaxPoints < n {
		n = o.MaxPoints
	}
	return n
}

// Header is what the decoder learned before end_header.
type Header struct {
	Format      string
	VertexCount int
	Comments    []string
}

// Load opens path and decodes it. See Decode.
func Load(path string, opts Options) (core.PointCloud, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.PointCloud{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return core.PointCloud{}, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return core.PointCloud{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer f.Close()

	return Decode(f, opts)
}

// Decode streams an ASCII PLY from r. Data lines are read as x z y r g b:
// the file's second and third columns are swapped to turn the Z-up source
// convention into Y-up. Lines with fewer than six tokens consume a stride
// slot but produce no sample. The result holds at most
// opts.EffectiveCount(VertexCount) samples and fewer if the input ends early.
func Decode(r io.Reader, opts Options) (core.PointCloud, error) {
	opts = opts.normalized()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	hdr, lineNo, err := readHeader(sc)
	if err != nil {
		return core.PointCloud{}, err
	}

	effective := opts.EffectiveCount(hdr.VertexCount)
	pc := core.NewPointCloud(max(0, min(effective, maxPrealloc)))

	readIndex := 0
	for len(pc.Positions) < effective && sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		idx := readIndex
		readIndex++
		if idx%opts.Stride != 0 {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < dataColumns {
			continue
		}

		sample, err := parseSample(fields, lineNo)
		if err != nil {
			return core.PointCloud{}, err
		}
		pc.Append(sample)
	}
	if err := sc.Err(); err != nil {
		return core.PointCloud{}, fmt.Errorf("ply: read: %w", err)
	}

	return pc, nil
}

// ReadHeader decodes only the header of r.
func ReadHeader(r io.Reader) (Header, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	hdr, _, err := readHeader(sc)
	return hdr, err
}

func readHeader(sc *bufio.Scanner) (Header, int, error) {
	var hdr Header
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		switch {
		case strings.HasPrefix(line, headerVertex):
			parts := strings.Fields(line)
			n, err := strconv.Atoi(parts[len(parts)-1])
			if err != nil {
				return hdr, lineNo, &ParseError{Line: lineNo, Token: parts[len(parts)-1], Err: ErrMalformedHeader}
			}
			hdr.VertexCount = n
		case strings.HasPrefix(line, headerFormat+" "):
			parts := strings.Fields(line)
			hdr.Format = parts[1]
			if hdr.Format != "ascii" {
				return hdr, lineNo, &ParseError{Line: lineNo, Token: hdr.Format, Err: ErrMalformedHeader}
			}
		case strings.HasPrefix(line, "comment"):
			hdr.Comments = append(hdr.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))
		case line == headerEnd:
			if hdr.VertexCount <= 0 {
				return hdr, lineNo, fmt.Errorf("%w: vertex count %d", ErrMalformedHeader, hdr.VertexCount)
			}
			return hdr, lineNo, nil
		}
	}
	if err := sc.Err(); err != nil {
		return hdr, lineNo, fmt.Errorf("ply: read header: %w", err)
	}
	return hdr, lineNo, fmt.Errorf("%w: no %s before end of input", ErrMalformedHeader, headerEnd)
}

func parseSample(fields []string, lineNo int) (core.PointSample, error) {
	var coords [3]float32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return core.PointSample{}, &ParseError{Line: lineNo, Token: fields[i], Err: ErrNumericParse}
		}
		coords[i] = float32(v)
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(fields[3+i], 10, 8)
		if err != nil {
			return core.PointSample{}, &ParseError{Line: lineNo, Token: fields[3+i], Err: ErrNumericParse}
		}
		rgb[i] = uint8(v)
	}

	return core.PointSample{
		Position: mgl32.Vec3{coords[0], coords[2], coords[1]},
		Color:    color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255},
	}, nil
}
