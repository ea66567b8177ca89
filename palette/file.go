package palette

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const hexDigits = 6

// ReadHex reads a palette file containing one RRGGBB code per line. Codes
// are assigned to successive entries starting at index 0 and any entry
// without a code keeps its value from base. Blank lines are ignored.
//
// Older files were written as a single line with every code concatenated,
// so a line holding a multiple of six digits is split into separate codes.
func ReadHex(r io.Reader, base Palette) (Palette, error) {
	p := base
	i := 0

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimPrefix(strings.TrimSpace(s.Text()), "#")
		if line == "" {
			continue
		}

		codes := []string{line}
		if len(line) > hexDigits && len(line)%hexDigits == 0 {
			codes = codes[:0]
			for j := 0; j < len(line); j += hexDigits {
				codes = append(codes, line[j:j+hexDigits])
			}
		}

		for _, code := range codes {
			if i >= Size {
				return base, fmt.Errorf("%w: more than %d colors", ErrInvalidPalette, Size)
			}
			c, err := ParseHex(code)
			if err != nil {
				return base, fmt.Errorf("line %d: %w", i+1, err)
			}
			p[i] = c
			i++
		}
	}
	if err := s.Err(); err != nil {
		return base, err
	}

	return p, nil
}

// WriteHex writes the palette as one lowercase RRGGBB code per line. Alpha
// is not stored.
func WriteHex(w io.Writer, p Palette) error {
	bw := bufio.NewWriter(w)
	for _, c := range p {
		if _, err := bw.WriteString(c.Hex() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
