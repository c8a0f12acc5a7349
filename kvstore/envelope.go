package kvstore

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/memogo/codec"
)

const (
	// CompressThreshold is the serialized size in bytes above which a
	// document is gzip-compressed before the remote write.
	CompressThreshold = 100_000

	// MaxItemSize is the remote item-size ceiling in bytes (the DynamoDB
	// 400KB item limit). Documents whose compressed form still exceeds it
	// are not written.
	MaxItemSize = 400_000
)

// ErrTooLarge is returned when a document exceeds MaxItemSize even after
// compression.
var ErrTooLarge = errors.New("kvstore: compressed document exceeds item size limit")

// envelope is the wire wrapper for compressed documents.
type envelope struct {
	Compressed bool   `json:"_compressed"`
	Data       string `json:"data"`
}

// compressedProbe detects the envelope without decoding the payload.
type compressedProbe struct {
	Compressed bool `json:"_compressed"`
}

// EncodeDocument prepares a snapshot document for the remote tier.
//
// Documents at or below CompressThreshold are returned unchanged. Larger
// documents are gzip-compressed and base64-wrapped in the envelope form
// {"_compressed": true, "data": "<base64>"}. The returned bool reports
// whether compression was applied. If the compressed form still exceeds
// MaxItemSize, ErrTooLarge is returned and nothing should be written.
func EncodeDocument(doc []byte) ([]byte, bool, error) {
	if len(doc) <= CompressThreshold {
		return doc, false, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(doc); err != nil {
		return nil, false, fmt.Errorf("kvstore: compress document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, false, fmt.Errorf("kvstore: compress document: %w", err)
	}

	if buf.Len() > MaxItemSize {
		return nil, false, fmt.Errorf("%w: %d bytes compressed", ErrTooLarge, buf.Len())
	}

	wrapped, err := codec.Default.Marshal(envelope{
		Compressed: true,
		Data:       base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: wrap document: %w", err)
	}
	return wrapped, true, nil
}

// DecodeDocument reverses EncodeDocument: documents carrying the compression
// envelope are base64-decoded and gunzipped, anything else passes through
// unchanged.
func DecodeDocument(doc []byte) ([]byte, error) {
	var probe compressedProbe
	if err := codec.Default.Unmarshal(doc, &probe); err != nil || !probe.Compressed {
		return doc, nil
	}

	var env envelope
	if err := codec.Default.Unmarshal(doc, &env); err != nil {
		return nil, fmt.Errorf("kvstore: unwrap document: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("kvstore: decode document payload: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("kvstore: decompress document: %w", err)
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("kvstore: decompress document: %w", err)
	}
	return out, nil
}
