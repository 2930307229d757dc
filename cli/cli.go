package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nml/cli/cmd"
	"github.com/ardnew/nml/pkg"
)

// CLI is the top-level command-line interface for nml.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Indent      int    `default:"2" help:"Indent width of namelist entries."                        placeholder:"N"`
	CatalogFile string `            help:"Quantity catalog file (YAML, JSON or TOML)." name:"catalog" placeholder:"FILE" type:"path"`

	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Fmt     cmd.Fmt     `cmd:"" help:"Reformat or convert namelist files"`
	Group   cmd.Group   `cmd:"" help:"List, add or remove groups"`
	Entry   cmd.Entry   `cmd:"" help:"Get, add, set or remove entries"`
	Select  cmd.Select  `cmd:"" help:"Add diagnostic quantities to an output list"`
	Catalog cmd.Catalog `cmd:"" help:"Inspect or build the quantity catalog"`

	Edit cmd.Edit `cmd:"" default:"withargs" help:"Edit a namelist file interactively"`
}

// Run executes the nml CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath("nml"),
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logging flags before kong reports anything.
	cli.Log.scan(args)

	options := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// Commands receive ctx as it is when they run, including the values
		// added after parsing.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		vars,
	}

	for _, ext := range configFormats {
		options = append(options, kong.Configuration(loader(ctx, ext), configPath(ext)))
	}

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithGlobals(ctx, cmd.Globals{
		Indent:  cli.Indent,
		Catalog: cli.CatalogFile,
	})

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// loader returns the configuration loader for files with extension ext.
func loader(ctx context.Context, ext string) kong.ConfigurationLoader {
	switch ext {
	case "toml":
		return resolveTOML(ctx, baseConfig)
	case "nml":
		return resolveNamelist(ctx, baseConfig)
	default:
		return kong.JSON
	}
}
