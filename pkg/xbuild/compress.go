package xbuild

import (
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

// CompressionFormats maps the supported formats to the file extension of the compressed artifact
var CompressionFormats = map[string]string{
	"xz": ".xz",
	"br": ".br",
}

func newCompressor(w io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case "xz":
		return xz.NewWriter(w)
	case "br":
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	default:
		return nil, eris.Errorf("unsupported compression format %s", format)
	}
}

// CompressArtifact writes a compressed copy of file next to it and returns the new file's path.
// The original artifact is kept.
func CompressArtifact(file, format string) (string, error) {
	ext, ok := CompressionFormats[format]
	if !ok {
		return "", eris.Errorf("unsupported compression format %s", format)
	}

	src, err := os.Open(file)
	if err != nil {
		return "", eris.Wrapf(err, "failed to open artifact %s", file)
	}
	defer src.Close()

	destPath := file + ext
	dest, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrapf(err, "failed to create %s", destPath)
	}

	writer, err := newCompressor(dest, format)
	if err != nil {
		dest.Close()
		return "", err
	}

	_, err = io.Copy(writer, src)
	if err != nil {
		writer.Close()
		dest.Close()
		return "", eris.Wrapf(err, "failed to compress %s", file)
	}

	err = writer.Close()
	if err != nil {
		dest.Close()
		return "", eris.Wrapf(err, "failed to finish %s", destPath)
	}

	err = dest.Close()
	if err != nil {
		return "", eris.Wrapf(err, "failed to close %s", destPath)
	}

	return destPath, nil
}
