package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// converter is the external SVG converter binary.
var converter = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return Convert(context.Background(), svg, "pdf", 1)
}

// ToPNG converts SVG bytes to PNG; a scale of 2 doubles the resolution.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return Convert(context.Background(), svg, "png", scale)
}

// Available reports whether the converter is installed.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// Convert runs the converter on svg. format is "pdf" or "png"; scale only
// applies to PNG. A missing converter yields an UNSUPPORTED error.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	if format != "pdf" && format != "png" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot convert SVG to %q", format)
	}
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg; install it with `brew install librsvg` or `apt install librsvg2-bin`", format)
	}

	args := []string{"-f", format}
	if format == "png" {
		if scale <= 0 {
			scale = 1
		}
		args = append(args, "-z", fmt.Sprintf("%.2f", scale))
	}
	cmd := exec.CommandContext(ctx, converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", converter, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
