package slot

import (
	"bytes"
	"crypto/subtle"
	"encoding/hex"
	"sync"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// sealMagic prefixes every sealed payload, followed by the 32-byte digest
// of the plain bytes and the zstd stream.
var sealMagic = []byte("PCS1")

const digestSize = 32

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func codec() (*zstd.Encoder, *zstd.Decoder, error) {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil)
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
	})
	return encoder, decoder, codecErr
}

// Seal compresses data and prefixes it with its BLAKE3 digest.
func Seal(data []byte) ([]byte, error) {
	enc, _, err := codec()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create zstd codec")
	}
	sum := blake3.Sum256(data)
	out := make([]byte, 0, len(sealMagic)+digestSize+len(data)/2)
	out = append(out, sealMagic...)
	out = append(out, sum[:]...)
	return enc.EncodeAll(data, out), nil
}

// Unseal reverses [Seal], checking the digest.
func Unseal(sealed []byte) ([]byte, error) {
	_, dec, err := codec()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create zstd codec")
	}
	header := len(sealMagic) + digestSize
	if len(sealed) < header || !bytes.Equal(sealed[:len(sealMagic)], sealMagic) {
		return nil, errors.New(errors.ErrCodeCorruptSnapshot, "slot payload is not sealed")
	}
	data, err := dec.DecodeAll(sealed[header:], nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptSnapshot, err, "decompress slot payload")
	}
	sum := blake3.Sum256(data)
	if subtle.ConstantTimeCompare(sum[:], sealed[len(sealMagic):header]) != 1 {
		return nil, errors.New(errors.ErrCodeCorruptSnapshot, "slot payload checksum mismatch")
	}
	return data, nil
}

// Digest returns the hex BLAKE3 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
