package mermaid

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pipeviz/pipeviz/pkg/errors"
)

// Default service endpoints. Both services render the payload embedded in
// the URL itself; no server-side storage is involved.
const (
	DefaultLiveBase = "https://mermaid.live"
	DefaultInkBase  = "https://mermaid.ink"
)

// ValidImageFormats is the set of image formats mermaid.ink can render.
var ValidImageFormats = map[string]bool{
	"png":  true,
	"jpg":  true,
	"svg":  true,
	"webp": true,
	"pdf":  true,
}

// ValidateImageFormat checks that a format is supported by mermaid.ink.
func ValidateImageFormat(format string) error {
	if !ValidImageFormats[format] {
		return errors.New(errors.ErrCodeInvalidOutput, "invalid image format: %q (must be one of: png, jpg, svg, webp, pdf)", format)
	}
	return nil
}

// liveState is the JSON envelope mermaid.live expects in its URL fragment.
type liveState struct {
	Code         string `json:"code"`
	Mermaid      string `json:"mermaid"`
	UpdateEditor bool   `json:"updateEditor"`
}

// URLEncoder builds mermaid.live and mermaid.ink URLs for rendered documents.
// The zero value uses the default public endpoints; both methods are pure
// functions of their inputs.
type URLEncoder struct {
	LiveBase string // mermaid.live endpoint override
	InkBase  string // mermaid.ink endpoint override
}

func (e URLEncoder) liveBase() string {
	if e.LiveBase != "" {
		return strings.TrimRight(e.LiveBase, "/")
	}
	return DefaultLiveBase
}

func (e URLEncoder) inkBase() string {
	if e.InkBase != "" {
		return strings.TrimRight(e.InkBase, "/")
	}
	return DefaultInkBase
}

// LiveURL encodes doc into a mermaid.live URL. The document is wrapped in a
// JSON state envelope, deflated with zlib, and base64url-encoded into the
// pako fragment format the editor understands. The edit route is selected
// when editable is true, the read-only view route otherwise.
func (e URLEncoder) LiveURL(doc string, editable bool) (string, error) {
	payload, err := encodeLiveState(doc)
	if err != nil {
		return "", err
	}
	route := "view"
	if editable {
		route = "edit"
	}
	return fmt.Sprintf("%s/%s#pako:%s", e.liveBase(), route, payload), nil
}

// InkURL encodes doc into a mermaid.ink image URL for the given format.
// Unlike LiveURL, the raw document is encoded directly without a JSON
// envelope.
func (e URLEncoder) InkURL(doc, format string) (string, error) {
	if err := ValidateImageFormat(format); err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString([]byte(doc))
	return fmt.Sprintf("%s/img/%s?type=%s", e.inkBase(), payload, format), nil
}

func encodeLiveState(doc string) (string, error) {
	state, err := json.Marshal(liveState{Code: doc, Mermaid: "{}"})
	if err != nil {
		return "", fmt.Errorf("marshal live state: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("init deflate: %w", err)
	}
	if _, err := zw.Write(state); err != nil {
		return "", fmt.Errorf("deflate live state: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("deflate live state: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeLive reverses LiveURL: given a full URL or a bare pako fragment, it
// returns the embedded diagram document. Round-tripping an encoded URL must
// reproduce the original document exactly.
func DecodeLive(u string) (string, error) {
	payload := u
	if i := strings.Index(u, "#pako:"); i >= 0 {
		payload = u[i+len("#pako:"):]
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("inflate payload: %w", err)
	}
	defer zr.Close()

	inflated, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("inflate payload: %w", err)
	}

	var state liveState
	if err := json.Unmarshal(inflated, &state); err != nil {
		return "", fmt.Errorf("unmarshal live state: %w", err)
	}
	return state.Code, nil
}
