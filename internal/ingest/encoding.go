package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	apperrors "icdmap/internal/errors"
)

// Encoding names accepted in policies and configuration
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingWindows1252 = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder converts raw file bytes to UTF-8 text, failing when the input is not valid in its encoding.
type Decoder struct {
	Name   string
	decode func([]byte) ([]byte, error)
}

// Decode converts data to UTF-8
func (d Decoder) Decode(data []byte) ([]byte, error) {
	return d.decode(data)
}

// EncodingPolicy is an ordered list of decoders. The first that decodes the whole file wins.
type EncodingPolicy []Decoder

// StrictPolicy accepts UTF-8 only
func StrictPolicy() EncodingPolicy {
	p, _ := NewPolicy(EncodingUTF8)
	return p
}

// FallbackPolicy tries UTF-8, then Latin-1, then Windows-1252.
// Latin-1 accepts every byte, so Windows-1252 is only reached when Latin-1 is removed from the list.
func FallbackPolicy() EncodingPolicy {
	p, _ := NewPolicy(EncodingUTF8, EncodingLatin1, EncodingWindows1252)
	return p
}

// NewPolicy builds a policy from encoding names, in order
func NewPolicy(names ...string) (EncodingPolicy, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("encoding policy needs at least one encoding")
	}
	policy := make(EncodingPolicy, 0, len(names))
	for _, name := range names {
		d, err := DecoderFor(name)
		if err != nil {
			return nil, err
		}
		policy = append(policy, d)
	}
	return policy, nil
}

// Names returns the encoding names in try order
func (p EncodingPolicy) Names() []string {
	names := make([]string, len(p))
	for i, d := range p {
		names[i] = d.Name
	}
	return names
}

// DecoderFor returns the decoder for an encoding name. Common aliases are accepted.
func DecoderFor(name string) (Decoder, error) {
	switch normalizeName(name) {
	case "utf8":
		return Decoder{Name: EncodingUTF8, decode: decodeUTF8}, nil
	case "latin1", "iso88591", "l1":
		return Decoder{Name: EncodingLatin1, decode: charmapDecoder(charmap.ISO8859_1, nil)}, nil
	case "windows1252", "cp1252":
		return Decoder{Name: EncodingWindows1252, decode: charmapDecoder(charmap.Windows1252, windows1252Undefined)}, nil
	default:
		return Decoder{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownEncoding, name)
	}
}

// Decode tries each decoder in order and returns the text and the name of the encoding that worked.
// A leading UTF-8 byte order mark is dropped.
func (p EncodingPolicy) Decode(file string, data []byte) ([]byte, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var lastErr error
	for _, d := range p {
		out, err := d.Decode(data)
		if err == nil {
			return out, d.Name, nil
		}
		lastErr = fmt.Errorf("%s: %w", d.Name, err)
	}
	return nil, "", apperrors.NewDecodeError(file, p.Names(), lastErr)
}

func decodeUTF8(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, data)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// windows1252Undefined holds the bytes with no assigned character in code page 1252
var windows1252Undefined = map[byte]bool{0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

func charmapDecoder(cm *charmap.Charmap, undefined map[byte]bool) func([]byte) ([]byte, error) {
	return func(data []byte) ([]byte, error) {
		if undefined != nil {
			for i, b := range data {
				if undefined[b] {
					return nil, fmt.Errorf("byte 0x%02X at offset %d is undefined in %s", b, i, cm)
				}
			}
		}
		out, _, err := transform.Bytes(cm.NewDecoder(), data)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func normalizeName(name string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(name)))
}
