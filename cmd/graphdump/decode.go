package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/graphwire/archive"
	"github.com/wippyai/graphwire/schema"
	"github.com/wippyai/graphwire/source"
)

type decodeOptions struct {
	schemaFile   string
	message      string
	in           string
	format       string
	logLevel     string
	maxObjects   int
	maxContainer uint32
	owner        bool
	interactive  bool
}

func newDecodeCmd() *cobra.Command {
	var opts decodeOptions
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode one object graph and print it",
		Example: `  graphdump decode -s person.yaml -m Person --in person.bin
  graphdump decode -s person.yaml -m Person --format yaml < person.bin
  graphdump decode -s person.yaml -m Person --in person.bin -i`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.schemaFile, _ = cmd.Flags().GetString("schema")
			return runDecode(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.message, "message", "m", "", "root message name")
	f.StringVar(&opts.in, "in", "-", "input file, - for stdin")
	f.StringVarP(&opts.format, "format", "f", "tree", "output format: tree, yaml or msgpack")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.IntVar(&opts.maxObjects, "max-objects", 0, "maximum objects per graph, 0 for no limit")
	f.Uint32Var(&opts.maxContainer, "max-container", 0, "maximum array, string and dictionary length, 0 for no limit")
	f.BoolVar(&opts.owner, "owner", true, "accept objects owned by no field; without it such streams fail")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "browse the result in a terminal UI")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func runDecode(cmd *cobra.Command, opts decodeOptions) error {
	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg, err := loadRegistry(opts.schemaFile)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, opts.in)
	if err != nil {
		return err
	}
	defer closeIn()

	var owner *archive.Owner
	if opts.owner {
		owner = &archive.Owner{}
		defer owner.Close()
	}

	v, err := reg.Decode(source.NewReader(in), opts.message, owner,
		archive.WithLogger(logger),
		archive.WithMaxObjects(opts.maxObjects),
		archive.WithMaxContainerLen(opts.maxContainer),
	)
	if err != nil {
		return fmt.Errorf("decode %s: %w", opts.message, err)
	}
	g := reg.Generic(v)

	if opts.interactive {
		if !isTerminal(cmd.OutOrStdout()) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(opts.message, g)
	}
	return writeValue(cmd.OutOrStdout(), opts.format, opts.message, g)
}

func writeValue(w io.Writer, format, title string, g any) error {
	switch format {
	case "tree":
		_, err := io.WriteString(w, renderTree(title, g))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(g)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func loadRegistry(path string) (*schema.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	reg, err := schema.LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return reg, nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
