// Package assets converts the optional installer artwork into the formats
// the script compiler requires: icons as 256x256 .ico, the welcome page
// image as a 164x314 .bmp, and the license text copied alongside the
// script. All conversions write into the script output directory so the
// emitted script can reference them by bare filename.
package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
)

const (
	iconSize      = 256
	welcomeWidth  = 164
	welcomeHeight = 314
)

// PrepareIcon converts an image file into a single-entry 256x256 .ico in
// outDir and returns the written filename. Files that are already .ico
// are copied unchanged.
func PrepareIcon(srcPath, outDir, name string) (string, error) {
	dst := filepath.Join(outDir, name+".ico")
	if strings.EqualFold(filepath.Ext(srcPath), ".ico") {
		if err := copyFile(srcPath, dst); err != nil {
			return "", err
		}
		return dst, nil
	}

	img, err := loadImage(srcPath)
	if err != nil {
		return "", err
	}
	scaled := scale(img, iconSize, iconSize)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, scaled); err != nil {
		return "", fmt.Errorf("encoding icon image: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating icon file: %w", err)
	}
	defer f.Close()

	if err := writeICO(f, pngBuf.Bytes()); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	return dst, nil
}

// PrepareWelcomeBitmap converts an image file into the 164x314 .bmp the
// welcome and finish pages display, writes it into outDir and returns the
// written filename.
func PrepareWelcomeBitmap(srcPath, outDir string) (string, error) {
	img, err := loadImage(srcPath)
	if err != nil {
		return "", err
	}
	scaled := scale(img, welcomeWidth, welcomeHeight)

	dst := filepath.Join(outDir, "welcome.bmp")
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating bitmap file: %w", err)
	}
	defer f.Close()

	if err := bmp.Encode(f, scaled); err != nil {
		return "", fmt.Errorf("encoding %s: %w", dst, err)
	}
	return dst, nil
}

// PrepareLicense copies the license text into outDir under a fixed name,
// keeping the original extension so the compiler picks the right viewer.
func PrepareLicense(srcPath, outDir string) (string, error) {
	ext := filepath.Ext(srcPath)
	if ext == "" {
		ext = ".txt"
	}
	dst := filepath.Join(outDir, "license"+ext)
	if err := copyFile(srcPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// EstimatePayloadKB sums the file sizes below dir and returns the total in
// kilobytes, for the Add/Remove Programs EstimatedSize registration.
func EstimatePayloadKB(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measuring payload %s: %w", dir, err)
	}
	return total / 1024, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// scale resamples img to exactly w by h. CatmullRom is slow but the inputs
// are small one-off artwork files.
func scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// writeICO wraps PNG data in a single-entry ICO container. Width and
// height bytes of 0 mean 256 in the ICO directory format.
func writeICO(w io.Writer, pngData []byte) error {
	type iconDir struct {
		Reserved uint16
		Type     uint16
		Count    uint16
	}
	type iconDirEntry struct {
		Width       uint8
		Height      uint8
		ColorCount  uint8
		Reserved    uint8
		Planes      uint16
		BitCount    uint16
		BytesInRes  uint32
		ImageOffset uint32
	}

	if err := binary.Write(w, binary.LittleEndian, iconDir{Type: 1, Count: 1}); err != nil {
		return err
	}
	entry := iconDirEntry{
		Planes:      1,
		BitCount:    32,
		BytesInRes:  uint32(len(pngData)),
		ImageOffset: 6 + 16,
	}
	if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
		return err
	}
	_, err := w.Write(pngData)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}
