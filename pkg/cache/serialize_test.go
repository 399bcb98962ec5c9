package cache

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCodec_EncodeDecode(t *testing.T) {
	c := codec{compression: false, logger: zerolog.Nop()}

	value := map[string]any{"title": "My Video", "views": float64(42)}

	data, compressed, err := c.encode(value)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if compressed {
		t.Error("compression disabled, data should not be compressed")
	}

	raw, err := c.decode(data, compressed)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(raw, data) {
		t.Error("decode of uncompressed data should be identity")
	}
}

func TestCodec_Compression(t *testing.T) {
	c := codec{compression: true, logger: zerolog.Nop()}

	// Large repetitive payload compresses well.
	value := strings.Repeat("portfolio content item ", 200)

	data, compressed, err := c.encode(value)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !compressed {
		t.Fatal("large repetitive payload should be stored compressed")
	}

	raw, err := c.decode(data, compressed)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !strings.Contains(string(raw), "portfolio content item") {
		t.Error("decoded payload does not match original")
	}
}

func TestCodec_CompressionSkippedWhenNotSmaller(t *testing.T) {
	c := codec{compression: true, logger: zerolog.Nop()}

	// Tiny payloads grow under gzip; the codec must fall back silently.
	data, compressed, err := c.encode("x")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if compressed {
		t.Error("tiny payload should be stored uncompressed")
	}
	if string(data) != `"x"` {
		t.Errorf("data = %s, want raw JSON", data)
	}
}

func TestCodec_EncodeUnserializable(t *testing.T) {
	c := codec{compression: false, logger: zerolog.Nop()}

	_, _, err := c.encode(make(chan int))
	if err == nil {
		t.Error("encode of a channel should fail")
	}
}

func TestCodec_DecodeCorruptCompressed(t *testing.T) {
	c := codec{compression: true, logger: zerolog.Nop()}

	_, err := c.decode([]byte("not gzip data"), true)
	if err == nil {
		t.Error("decode of corrupt compressed data should fail")
	}
}
