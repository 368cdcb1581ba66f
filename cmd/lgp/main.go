// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

// Command lgp lists, verifies and extracts LGP archives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"text/tabwriter"

	"github.com/woozymasta/lgp"
	"github.com/woozymasta/pathrules"
)

// errInvalid signals a verify failure without an underlying error.
var errInvalid = errors.New("archive failed validity check")

const usage = `usage: lgp <command> [flags] archive.lgp

commands:
  list     print table of contents
  extract  write entries to a directory
  verify   check creator and terminator literals
`

// patternList collects repeated -include/-exclude flags.
type patternList []string

func (p *patternList) String() string { return strings.Join(*p, ",") }

func (p *patternList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	include patternList
	exclude patternList
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.Var(&c.include, "include", "include entries matching glob (repeatable)")
	fs.Var(&c.exclude, "exclude", "exclude entries matching glob (repeatable)")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
}

// rules converts include/exclude flags to ordered path rules.
func (c *commonFlags) rules() []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(c.include)+len(c.exclude))
	for _, p := range c.include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
	}
	for _, p := range c.exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
	}

	return rules
}

// logger returns a text logger on stderr.
func (c *commonFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "lgp:", err)
		}
		stop()
		os.Exit(1)
	}
}

// run dispatches one subcommand.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(strings.TrimSpace(usage))
	}

	var err error
	switch args[0] {
	case "list":
		err = runList(args[1:], stdout)
	case "extract":
		err = runExtract(ctx, args[1:], stdout)
	case "verify":
		err = runVerify(args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	// -h prints subcommand usage and is not a failure.
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}

	return err
}

// openArchive parses the single positional archive argument.
func openArchive(fs *flag.FlagSet, log *slog.Logger) (*lgp.Archive, error) {
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("%s: expected one archive path", fs.Name())
	}

	return lgp.OpenWithOptions(fs.Arg(0), lgp.ReaderOptions{Logger: log})
}

func runList(args []string, stdout io.Writer) error {
	var common commonFlags
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	common.register(fs)
	withDigest := fs.Bool("digest", false, "read payloads and print length and digest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openArchive(fs, common.logger())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	entries, err := lgp.SelectEntries(a.Entries(), common.rules(), pathrules.MatcherOptions{})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		if !*withDigest {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", e.Index, e.Path(), e.Offset, e.Check)
			continue
		}

		rec, err := a.ReadFile(e)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", e.Index, e.Path(), e.Offset, rec.Length, rec.Digest())
	}

	return tw.Flush()
}

func runExtract(ctx context.Context, args []string, stdout io.Writer) error {
	var common commonFlags
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	common.register(fs)
	out := fs.String("o", ".", "output directory")
	workers := fs.Int("workers", 0, "extraction workers (0 = GOMAXPROCS)")
	raw := fs.Bool("raw", false, "keep raw entry names")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := common.logger()
	a, err := openArchive(fs, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var count atomic.Int64
	err = a.Extract(ctx, *out, lgp.ExtractOptions{
		Rules:      common.rules(),
		MaxWorkers: *workers,
		RawNames:   *raw,
		OnEntryDone: func(lgp.Entry, int64, string) {
			count.Add(1)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "extracted %d entries to %s\n", count.Load(), *out)
	return nil
}

func runVerify(args []string, stdout io.Writer) error {
	var common commonFlags
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openArchive(fs, common.logger())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	fmt.Fprintf(stdout, "creator: %t\nterminator: %t\nentries: %d\n",
		a.CreatorValid(), a.TerminatorValid(), len(a.Entries()))
	if !a.IsValid() {
		return errInvalid
	}

	return nil
}
