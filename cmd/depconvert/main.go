// Package main converts a single dependency analyzer document into a
// standardized graph from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/depscope/core/internal/converter"
	"github.com/depscope/core/internal/models"
	"github.com/depscope/core/internal/store"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatal(err)
	}
}

type options struct {
	in      string
	format  string
	out     string
	project string
	store   string
	pretty  bool
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("depconvert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "analyzer document to convert (required, - for stdin)")
	fs.StringVar(&opts.format, "type", "", "force a format: java, typescript or python (python also reads Django projects)")
	fs.StringVar(&opts.out, "out", "", "write the graph to this file instead of stdout")
	fs.StringVar(&opts.project, "project", "", "project name used when saving to -store")
	fs.StringVar(&opts.store, "store", "", "directory to save the graph in")
	fs.BoolVar(&opts.pretty, "pretty", false, "indent the output")
	fs.BoolVar(&opts.verbose, "v", false, "log skipped items")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.in == "" {
		return nil, errors.New("-in is required")
	}
	if opts.store != "" && opts.project == "" {
		return nil, errors.New("-project is required with -store")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelError
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	data, err := readInput(opts.in)
	if err != nil {
		return err
	}

	conv := converter.New(converter.WithLogger(logger))

	var graph *models.Graph
	if opts.format != "" {
		t, ok := converter.ParseDependencyType(opts.format)
		if !ok {
			return &converter.UnsupportedFormatError{Type: converter.DependencyType(opts.format)}
		}
		graph, err = conv.ConvertAs(t, data)
	} else {
		graph, err = conv.Convert(data)
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", opts.in, err)
	}

	if opts.store != "" {
		if err := store.NewFileStore(opts.store).Save(ctx, opts.project, graph); err != nil {
			return fmt.Errorf("save graph: %w", err)
		}
		logger.Info("graph saved", slog.String("project", opts.project), slog.String("dir", opts.store))
	}

	return writeGraph(opts, graph, stdout)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeGraph(opts *options, graph *models.Graph, stdout io.Writer) error {
	var (
		data []byte
		err  error
	)
	if opts.pretty {
		data, err = json.MarshalIndent(graph, "", "  ")
	} else {
		data, err = json.Marshal(graph)
	}
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	data = append(data, '\n')

	if opts.out == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
