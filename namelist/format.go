package namelist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the document in namelist syntax:
//
//	&group
//	  name = value, ...
//	/
//
// Groups are separated by a blank line. Entries whose value has not changed
// since parsing are written with their original text.
func (d *Document) Format(ctx context.Context, w io.Writer) error {
	indent := strings.Repeat(" ", d.indent)

	for i, g := range d.groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		if _, err := fmt.Fprintf(w, "&%s\n", g.name); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		for _, e := range g.entries {
			if _, err := fmt.Fprintf(w, "%s%s\n", indent, e); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		if _, err := fmt.Fprintln(w, "/"); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	d.logger.TraceContext(ctx, "format complete", slog.Int("group_count", len(d.groups)))

	return nil
}

// String returns the document in namelist syntax.
func (d *Document) String() string {
	var buf strings.Builder

	_ = d.Format(context.Background(), &buf)

	return buf.String()
}

// FormatJSON writes the document as a JSON object of groups, each an object
// of entries, in document order.
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	data, err := json.Marshal(jsonObject(d.mapSlice()))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if indent > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", strings.Repeat(" ", indent)); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		data = buf.Bytes()
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// FormatYAML writes the document as a YAML mapping of groups, each a mapping
// of entries, in document order. An indent of zero selects flow style.
func (d *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, d.mapSlice(), opts...)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := fmt.Fprint(w, string(data)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// mapSlice returns the document as ordered group -> entry -> native value.
func (d *Document) mapSlice() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(d.groups))

	for _, g := range d.groups {
		entries := make(yaml.MapSlice, 0, len(g.entries))
		for _, e := range g.entries {
			entries = append(entries, yaml.MapItem{Key: e.name, Value: e.Value.Native()})
		}

		out = append(out, yaml.MapItem{Key: g.name, Value: entries})
	}

	return out
}

// jsonObject encodes a yaml.MapSlice as a JSON object with keys in order.
type jsonObject yaml.MapSlice

func (o jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, item := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}

		var val any = item.Value
		if inner, ok := item.Value.(yaml.MapSlice); ok {
			val = jsonObject(inner)
		}

		data, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(data)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
