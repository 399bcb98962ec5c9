package cache

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// codec serializes values for storage. Compression is optional; when it
// is enabled but fails (or does not shrink the payload), the codec falls
// back to uncompressed storage silently rather than failing the operation.
type codec struct {
	compression bool
	logger      zerolog.Logger
}

// encode marshals a value to JSON and optionally gzips it.
func (c codec) encode(value any) (data []byte, compressed bool, err error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false, err
	}

	if !c.compression {
		return raw, false, nil
	}

	packed, gzErr := gzipCompress(raw)
	if gzErr != nil {
		c.logger.Debug().Err(gzErr).Msg("Compression failed, storing uncompressed")
		return raw, false, nil
	}
	if len(packed) >= len(raw) {
		// Compression did not help for this payload.
		return raw, false, nil
	}

	return packed, true, nil
}

// decode returns the raw JSON payload of an entry.
func (c codec) decode(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}
	return gzipDecompress(data)
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
