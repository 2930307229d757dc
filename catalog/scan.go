package catalog

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// BaseFile is the diagnostics source that declares quantity codes.
const BaseFile = "Diagnostics_Base.F90"

// Diagnostics sources that compute no quantities of their own.
var ignoredSources = []string{
	"diagnostics_base.f90",
	"diagnostics_interface.f90",
	"diagnostics_adotgradb.f90",
	"diagnostics_mean_correction.f90",
}

var (
	// integer, parameter :: name = expr ! comment
	parameterPattern = regexp.MustCompile(
		`(?i)^\s*integer\s*,\s*parameter\s*::\s*([a-z_][a-z0-9_]*)\s*=\s*([^!]*?)\s*(?:!(.*))?$`,
	)
	includePattern = regexp.MustCompile(`(?i)^\s*include\s+['"]([^'"]+)['"]`)
	computePattern = regexp.MustCompile(`(?i)compute_quantity\s*\(\s*([a-z_][a-z0-9_]*)\s*\)`)
)

// Scan builds a catalog from the diagnostics sources in dir.
//
// Quantity codes are read from [BaseFile] and the files it includes, from
// declarations of the form
//
//	integer, parameter :: vr = v_offset + 1 ! radial velocity :tex: $v_r$
//
// where the right-hand side may refer to parameters declared earlier.
// Parameters whose name contains "off" are offsets and not quantities.
// Each other Diagnostics_<Group>.F90 file yields the group <Group> with the
// quantities it passes to compute_quantity.
func Scan(ctx context.Context, dir string, opts ...Option) (*Catalog, error) {
	s := &scanner{dir: dir, env: map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&s.cat)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ErrScan.Wrap(err).With(slog.String("dir", dir))
	}

	base := ""
	for _, e := range entries {
		if strings.EqualFold(e.Name(), BaseFile) {
			base = e.Name()
		}
	}

	if base == "" {
		return nil, ErrScan.With(slog.String("dir", dir), slog.String("missing", BaseFile))
	}

	if err := s.scanBase(ctx, base); err != nil {
		return nil, err
	}

	var groups []Group

	for _, e := range entries {
		name := e.Name()
		lower := strings.ToLower(name)

		if e.IsDir() || !strings.HasPrefix(lower, "diagnostics_") ||
			!strings.HasSuffix(lower, ".f90") || slices.Contains(ignoredSources, lower) {
			continue
		}

		g, err := s.scanGroup(ctx, name)
		if err != nil {
			return nil, err
		}

		if len(g.Quantities) > 0 {
			groups = append(groups, g)
		}
	}

	slices.SortFunc(groups, func(a, b Group) int { return strings.Compare(a.Name, b.Name) })

	s.cat.logger.DebugContext(ctx, "scan complete",
		slog.String("dir", dir),
		slog.Int("quantity_count", len(s.quantities)),
		slog.Int("group_count", len(groups)))

	return New(nil, groups, WithLogger(s.cat.logger))
}

type scanner struct {
	dir        string
	cat        Catalog // collects options
	env        map[string]any
	quantities map[string]Quantity // by lower-case name
}

func (s *scanner) scanBase(ctx context.Context, base string) error {
	s.quantities = map[string]Quantity{}

	return s.eachLine(base, func(line string, num int) error {
		if m := includePattern.FindStringSubmatch(line); m != nil {
			return s.eachLine(m[1], func(line string, num int) error {
				s.parameter(ctx, m[1], line, num)

				return nil
			})
		}

		s.parameter(ctx, base, line, num)

		return nil
	})
}

// parameter records one integer parameter declaration. Declarations whose
// value cannot be evaluated are logged and skipped.
func (s *scanner) parameter(ctx context.Context, file, line string, num int) {
	m := parameterPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}

	name := strings.ToLower(m[1])
	source := strings.ToLower(m[2])

	code, err := s.eval(source)
	if err != nil {
		s.cat.logger.WarnContext(ctx, "skip parameter",
			slog.String("file", file),
			slog.Int("line", num),
			slog.String("name", name),
			slog.String("error", err.Error()))

		return
	}

	s.env[name] = code

	if strings.Contains(name, "off") {
		return
	}

	desc, tex := splitComment(m[3])

	s.quantities[name] = Quantity{
		Code:        strconv.Itoa(code),
		Name:        name,
		Description: desc,
		TeX:         tex,
	}
}

func (s *scanner) eval(source string) (int, error) {
	program, err := expr.Compile(source, expr.Env(s.env), expr.AsInt())
	if err != nil {
		return 0, err
	}

	out, err := expr.Run(program, s.env)
	if err != nil {
		return 0, err
	}

	n, ok := out.(int)
	if !ok {
		return 0, ErrScan.With(slog.String("expression", source))
	}

	return n, nil
}

func (s *scanner) scanGroup(ctx context.Context, file string) (Group, error) {
	name := strings.TrimSuffix(file, filepath.Ext(file))
	_, name, _ = strings.Cut(name, "_")

	g := Group{Name: name}
	seen := map[string]bool{}

	err := s.eachLine(file, func(line string, _ int) error {
		if strings.HasPrefix(strings.TrimSpace(line), "!") {
			return nil
		}

		for _, m := range computePattern.FindAllStringSubmatch(line, -1) {
			key := strings.ToLower(m[1])

			q, ok := s.quantities[key]
			if !ok || seen[key] {
				continue
			}

			seen[key] = true
			g.Quantities = append(g.Quantities, q)
		}

		return nil
	})

	s.cat.logger.TraceContext(ctx, "scanned group",
		slog.String("group", g.Name),
		slog.Int("quantity_count", len(g.Quantities)))

	return g, err
}

func (s *scanner) eachLine(file string, fn func(line string, num int) error) error {
	path := filepath.Join(s.dir, file)

	f, err := os.Open(path)
	if err != nil {
		return ErrScan.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for num := 1; sc.Scan(); num++ {
		if err := fn(sc.Text(), num); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return ErrScan.Wrap(err).With(slog.String("path", path))
	}

	return nil
}
