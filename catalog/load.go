package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
)

// Format is a catalog file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

var formatNames = map[Format]string{
	FormatYAML: "yaml",
	FormatJSON: "json",
	FormatTOML: "toml",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat returns the format named s ("yaml", "yml", "json", "toml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return 0, ErrUnknownFormat.With(slog.String("format", s))
	}
}

// file is the on-disk layout of a catalog.
type file struct {
	Outputs []OutputType `mapstructure:"outputs"`
	Groups  []Group      `mapstructure:"groups"`
}

// Load reads a catalog file. The format is chosen by file extension; files
// with an unknown extension are tried as JSON, YAML and TOML in turn.
func Load(ctx context.Context, path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return decodeBytes(ctx, data, f, opts...)
	}

	var errs []error

	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		c, err := decodeBytes(ctx, data, f, opts...)
		if err == nil {
			return c, nil
		}

		errs = append(errs, err)
	}

	return nil, ErrUnknownFormat.With(slog.String("path", path)).Wrap(errs[0])
}

// Decode reads a catalog in the given format from r.
func Decode(ctx context.Context, r io.Reader, format Format, opts ...Option) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return decodeBytes(ctx, data, format, opts...)
}

func decodeBytes(ctx context.Context, data []byte, format Format, opts ...Option) (*Catalog, error) {
	raw := map[string]any{}

	var err error

	switch format {
	case FormatYAML:
		err = yaml.UnmarshalContext(ctx, data, &raw)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, ErrUnknownFormat.With(slog.String("format", format.String()))
	}

	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", format.String()))
	}

	var f file

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", format.String()))
	}

	return New(f.Outputs, f.Groups, opts...)
}

// Encode writes the catalog in the given format.
func (c *Catalog) Encode(ctx context.Context, w io.Writer, format Format) error {
	doc := c.encodable()

	var (
		data []byte
		err  error
	)

	switch format {
	case FormatYAML:
		data, err = yaml.MarshalContext(ctx, doc, yaml.Indent(2))
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	case FormatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(doc)
		data = buf.Bytes()
	default:
		return ErrUnknownFormat.With(slog.String("format", format.String()))
	}

	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", format.String()))
	}

	if _, err := w.Write(data); err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}

type (
	encodedFile struct {
		Outputs []encodedOutput `json:"outputs"          toml:"outputs"          yaml:"outputs"`
		Groups  []encodedGroup  `json:"groups,omitempty" toml:"groups,omitempty" yaml:"groups,omitempty"`
	}

	encodedOutput struct {
		Label  string   `json:"label"            toml:"label"            yaml:"label"`
		Prefix string   `json:"prefix"           toml:"prefix"           yaml:"prefix"`
		Groups []string `json:"groups,omitempty" toml:"groups,omitempty" yaml:"groups,omitempty"`
	}

	encodedGroup struct {
		Name       string            `json:"name"       toml:"name"       yaml:"name"`
		Quantities []encodedQuantity `json:"quantities" toml:"quantities" yaml:"quantities"`
	}

	encodedQuantity struct {
		Code        any    `json:"code"                  toml:"code"                  yaml:"code"`
		Name        string `json:"name"                  toml:"name"                  yaml:"name"`
		Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
		TeX         string `json:"tex,omitempty"         toml:"tex,omitempty"         yaml:"tex,omitempty"`
	}
)

// encodable returns c with integer codes as numbers.
func (c *Catalog) encodable() encodedFile {
	var doc encodedFile

	for _, o := range c.outputs {
		doc.Outputs = append(doc.Outputs, encodedOutput(o))
	}

	for _, g := range c.groups {
		eg := encodedGroup{Name: g.Name}
		for _, q := range g.Quantities {
			var code any = q.Code
			if n, err := strconv.ParseInt(q.Code, 10, 64); err == nil {
				code = n
			}

			eg.Quantities = append(eg.Quantities, encodedQuantity{
				Code:        code,
				Name:        q.Name,
				Description: q.Description,
				TeX:         q.TeX,
			})
		}

		doc.Groups = append(doc.Groups, eg)
	}

	return doc
}
