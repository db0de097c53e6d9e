package ply

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/gekko3d/pointcloud/core"
)

// Encode writes pc as an ASCII PLY that Decode reads back to the same
// positions: the Y/Z swap applied on load is undone on write.
func Encode(w io.Writer, pc core.PointCloud, comments ...string) error {
	n := pc.Len()
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	for _, c := range comments {
		fmt.Fprintf(bw, "comment %s\n", c)
	}
	fmt.Fprintf(bw, "%s %d\n", headerVertex, n)
	for _, axis := range []string{"x", "y", "z"} {
		fmt.Fprintf(bw, "property float %s\n", axis)
	}
	for _, ch := range []string{"red", "green", "blue"} {
		fmt.Fprintf(bw, "property uchar %s\n", ch)
	}
	fmt.Fprintln(bw, headerEnd)

	buf := make([]byte, 0, 96)
	for i := 0; i < n; i++ {
		p, c := pc.Positions[i], pc.Colors[i]
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, float64(p.X()), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(p.Z()), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(p.Y()), 'g', -1, 32)
		for _, ch := range []uint8{c.R, c.G, c.B} {
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, uint64(ch), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("ply: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ply: write: %w", err)
	}
	return nil
}
