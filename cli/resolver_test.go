package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/nml/log"
)

type testApp struct {
	LogLevel string   `default:"info"`
	Indent   int      `default:"2"`
	Pretty   bool     `default:"true"  negatable:""`
	Scale    float64  `default:"1"`
	Tags     []string
}

func parseWith(t *testing.T, load func(io.Reader) (kong.Resolver, error), text string) testApp {
	t.Helper()

	r, err := load(strings.NewReader(text))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var app testApp

	parser, err := kong.New(&app, kong.Resolvers(r), kong.Exit(func(int) { t.Fatal("exit") }))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	return app
}

func TestResolveNamelist(t *testing.T) {
	load := resolveNamelist(context.Background(), baseConfig)

	app := parseWith(t, load, `
&other
  indent = 9
/
&config
  log_level = 'debug'
  indent = 4
  pretty = .false.
  scale = 2.5
  tags = 'a', 'b'
/
`)

	want := testApp{
		LogLevel: "debug",
		Indent:   4,
		Pretty:   false,
		Scale:    2.5,
		Tags:     []string{"a", "b"},
	}
	if diff := cmp.Diff(want, app); diff != "" {
		t.Errorf("resolved flags (-want +got):\n%s", diff)
	}
}

func TestResolveNamelistIgnoresBadInput(t *testing.T) {
	load := resolveNamelist(context.Background(), baseConfig)

	tests := []struct {
		name string
		text string
	}{
		{"no config group", "&other\n  indent = 4\n/\n"},
		{"parse error", "&config\n  indent = \n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := parseWith(t, load, tt.text)
			if app.Indent != 2 || app.LogLevel != "info" {
				t.Errorf("expected defaults, got %+v", app)
			}
		})
	}
}

func TestResolveTOML(t *testing.T) {
	load := resolveTOML(context.Background(), baseConfig)

	t.Run("table", func(t *testing.T) {
		app := parseWith(t, load, "indent = 8\n\n[config]\nlog-level = \"warn\"\nindent = 3\n")
		if app.LogLevel != "warn" || app.Indent != 3 {
			t.Errorf("unexpected flags %+v", app)
		}
	})

	t.Run("top level", func(t *testing.T) {
		app := parseWith(t, load, "log_level = \"error\"\npretty = false\n")
		if app.LogLevel != "error" || app.Pretty || app.Indent != 2 {
			t.Errorf("unexpected flags %+v", app)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if app := parseWith(t, load, "indent = = 3\n"); app.Indent != 2 {
			t.Errorf("expected default indent, got %d", app.Indent)
		}
	})
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{int64(42), "42"},
		{0.25, "0.25"},
		{true, true},
		{[]any{int64(1), "x"}, "1,x"},
	}

	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestLogScan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"--log-level", "debug", "fmt", "--log-format", "json"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=warn", "--log-caller", "--no-log-pretty"},
			want: logConfig{Level: "warn", Caller: true},
		},
		{
			name: "explicit booleans",
			args: []string{"--log-pretty=false", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
		{
			name: "after terminator",
			args: []string{"--", "--log-caller"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, f, tt.want)
			}
		})
	}
}
