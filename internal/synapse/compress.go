package synapse

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/zstd"
)

// maybeDecompress returns the response body, zstd-decompressed when the
// miner answered with Content-Encoding: zstd.
func maybeDecompress(resp *resty.Response) ([]byte, error) {
	data := resp.Body()
	if !strings.Contains(strings.ToLower(resp.Header().Get("Content-Encoding")), "zstd") {
		return data, nil
	}

	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to create reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to decompress response: %w", err)
	}
	return out, nil
}
