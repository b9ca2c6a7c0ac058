package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/woozymasta/dds"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func main() {
	var (
		inPath   string
		outPath  string
		format   string
		mipLevel int
		dumpInfo bool
		compOnly bool
	)
	flag.StringVar(&inPath, "in", "", "input .dds file (may be wrapped in lz4, zstd or gzip)")
	flag.StringVar(&outPath, "out", "", "output file (default: input name with the format extension)")
	flag.StringVar(&format, "format", "", "output format: png|bmp|tiff (default: from -out extension, else png)")
	flag.IntVar(&mipLevel, "mip", 0, "mipmap level to export")
	flag.BoolVar(&dumpInfo, "info", false, "print header info and exit")
	flag.BoolVar(&compOnly, "compressed-only", false, "reject uncompressed pixel formats")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: dds2png -in <input.dds> [-out <output>] [-format png|bmp|tiff] [-mip N] [-info]")
		os.Exit(2)
	}

	if dumpInfo {
		if err := printInfo(os.Stdout, inPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	format = resolveFormat(format, outPath)
	if format == "" {
		fmt.Fprintln(os.Stderr, "unknown output format; use png, bmp or tiff")
		os.Exit(2)
	}
	if outPath == "" {
		outPath = defaultOutPath(inPath, format)
	}
	if mipLevel < 0 {
		fmt.Fprintln(os.Stderr, "-mip must be >= 0")
		os.Exit(2)
	}

	img, err := decodeLevel(inPath, mipLevel, &dds.Options{CompressedOnly: compOnly})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeImage(outPath, format, img); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveFormat(format, outPath string) string {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
		if format == "" {
			format = "png"
		}
	}

	switch format {
	case "png", "bmp":
		return format
	case "tif", "tiff":
		return "tiff"
	default:
		return ""
	}
}

func defaultOutPath(inPath, format string) string {
	base := inPath
	for _, ext := range []string{".gz", ".zst", ".lz4", ".dds"} {
		base = strings.TrimSuffix(base, ext)
	}

	return base + "." + format
}

func openDecoder(path string, opts *dds.Options) (*dds.Decoder, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not open input")
	}

	src, err := dds.OpenSource(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.Wrap(err, "could not open input stream")
	}

	release := func() {
		src.Close()
		_ = f.Close()
	}

	return dds.NewDecoder(src.Fetch, opts), release, nil
}

func decodeLevel(path string, level int, opts *dds.Options) (image.Image, error) {
	d, release, err := openDecoder(path, opts)
	if err != nil {
		return nil, err
	}
	defer release()

	levels, err := d.Levels()
	if err != nil {
		return nil, errors.Wrap(err, "could not read header")
	}
	if level >= levels {
		return nil, errors.Errorf("mipmap level %d out of range, file has %d", level, levels)
	}

	for i := 0; ; i++ {
		img, err := d.Decode()
		if err != nil {
			return nil, errors.Wrapf(err, "could not decode level %d", i)
		}
		if i == level {
			return img, nil
		}
	}
}

func printInfo(w io.Writer, path string) error {
	d, release, err := openDecoder(path, nil)
	if err != nil {
		return err
	}
	defer release()

	h, err := d.Header()
	if err != nil {
		return errors.Wrap(err, "could not read header")
	}
	codec, _ := d.Codec()
	levels, _ := d.Levels()

	fmt.Fprintf(w, "size:    %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(w, "codec:   %s\n", codec)
	if codec != dds.CodecMasked {
		fmt.Fprintf(w, "fourcc:  %q\n", dds.FourCCString(h.PixelFormat.FourCC))
	} else {
		pf := h.PixelFormat
		fmt.Fprintf(w, "bits:    %d\n", pf.RGBBitCount)
		fmt.Fprintf(w, "masks:   R=%08x G=%08x B=%08x A=%08x\n", pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask)
	}
	fmt.Fprintf(w, "mipmaps: %d\n", levels)
	for i := 0; i < levels; i++ {
		if n, err := d.SurfaceSize(i); err == nil {
			fmt.Fprintf(w, "  level %d: %d bytes\n", i, n)
		}
	}

	return nil
}

func writeImage(path, format string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create output")
	}

	switch format {
	case "bmp":
		err = bmp.Encode(f, img)
	case "tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "could not encode %s", format)
	}

	return errors.Wrap(f.Close(), "could not flush output")
}
