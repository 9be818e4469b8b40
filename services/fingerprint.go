package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"image"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage marks file data that cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid or unsupported image data")

// Fingerprint hashes the file content together with an upload-time salt, so
// the same bytes uploaded twice produce two distinct fingerprints. Returned
// as a 64-character hex digest.
func Fingerprint(data []byte, salt time.Time) string {
	h := sha256.New()
	h.Write(data)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(salt.UnixNano()))
	h.Write(ts[:])

	return hex.EncodeToString(h.Sum(nil))
}

// Dimensions probes the image header for width and height. Unsupported or
// corrupt data is not an error here; both results are nil.
func Dimensions(data []byte) (width, height *int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	return &cfg.Width, &cfg.Height
}

// Thumbnail derives a preview cropped to fill exactly targetWidth x
// targetHeight, encoded in the source format when the filename gives one away
// and JPEG otherwise.
func Thumbnail(data []byte, fileName string, targetWidth, targetHeight int) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	thumb := imaging.Fill(src, targetWidth, targetHeight, imaging.Center, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(fileName)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
