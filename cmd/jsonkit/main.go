package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/pflag"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/assure"
	"github.com/reoring/jsonkit/codec"
	"github.com/reoring/jsonkit/query"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

const usageText = `jsonkit: inspect and reshape JSON documents

Usage:
  jsonkit fmt [FILE]                  re-render a document
  jsonkit get POINTER [FILE]          print the value at an RFC 6901 pointer
  jsonkit keep -k KEY... [FILE]       keep only the named fields
  jsonkit purge -k KEY... [FILE]      drop the named fields
  jsonkit purge-nulls [FILE]          drop null fields or elements
  jsonkit merge FILE FILE...          merge objects, last wins (--absent: first wins)
  jsonkit filter --where EXPR [FILE]  keep array elements matching EXPR
  jsonkit find --where EXPR [FILE]    print the first element matching EXPR
  jsonkit assure [checks] [FILE]      validate fields; prints the error envelope
  jsonkit diff FILE FILE              line diff of the normalized documents
  jsonkit patch DOC PATCH             apply an RFC 6902 patch (--merge: RFC 7386)

FILE defaults to standard input. Run "jsonkit CMD -h" for flags.
`

// errUsage marks errors that should exit with status 2.
var errUsage = errors.New("usage")

// errSilent exits with status 1 once the command has printed its result.
var errSilent = errors.New("failed")

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
	codec  *codec.Codec

	yamlIn  bool
	jsoncIn bool
	yamlOut bool
	compact bool
	color   bool
}

type command func(e *env, fs *pflag.FlagSet, args []string) error

type commonFlags struct {
	yamlIn     bool
	jsoncIn    bool
	yamlOut    bool
	compact    bool
	decimals   bool
	verbose    bool
	duplicates string
	maxDepth   int
	maxBytes   int64
	colorMode  string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&c.yamlIn, "yaml", false, "read YAML input")
	fs.BoolVar(&c.jsoncIn, "jsonc", false, "accept comments and trailing commas")
	fs.BoolVar(&c.yamlOut, "to-yaml", false, "write YAML output")
	fs.BoolVar(&c.compact, "compact", false, "write compact JSON")
	fs.BoolVar(&c.decimals, "decimals", false, "keep floating literals as exact decimals")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "log debug details to stderr")
	fs.StringVar(&c.duplicates, "duplicates", "warn", "duplicate key policy: ignore, warn or error")
	fs.IntVar(&c.maxDepth, "max-depth", 0, "maximum nesting depth (0: unlimited)")
	fs.Int64Var(&c.maxBytes, "max-bytes", 0, "maximum input size (0: unlimited)")
	fs.StringVar(&c.colorMode, "color", "auto", "colorize diff output: auto, always or never")
}

func (c *commonFlags) severity() (codec.Severity, error) {
	switch c.duplicates {
	case "ignore":
		return codec.Ignore, nil
	case "warn":
		return codec.Warn, nil
	case "error":
		return codec.Error, nil
	}
	return 0, fmt.Errorf("%w: unknown duplicate policy %q", errUsage, c.duplicates)
}

var commands = map[string]command{
	"fmt":         runFmt,
	"get":         runGet,
	"keep":        runKeep,
	"purge":       runPurge,
	"purge-nulls": runPurgeNulls,
	"merge":       runMerge,
	"filter":      runFilter,
	"find":        runFind,
	"assure":      runAssure,
	"diff":        runDiff,
	"patch":       runPatch,
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usageText)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "jsonkit: unknown command %q\n\n%s", name, usageText)
		return 2
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	err := cmd(e, fs, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.Is(err, errSilent):
		return 1
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "jsonkit %s: %v\n", name, err)
		return 2
	}
	fmt.Fprintf(stderr, "jsonkit %s: %v\n", name, err)
	return 1
}

// prepare parses flags and builds the codec and logger from them.
func (e *env) prepare(fs *pflag.FlagSet, args []string) ([]string, error) {
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	sev, err := common.severity()
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if common.verbose {
		level = slog.LevelDebug
	}
	e.log = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	e.codec = codec.New(
		codec.WithDuplicateKeys(sev),
		codec.WithMaxDepth(common.maxDepth),
		codec.WithMaxBytes(common.maxBytes),
		codec.WithDecimals(common.decimals),
		codec.WithLogger(e.log),
	)
	e.yamlIn, e.jsoncIn = common.yamlIn, common.jsoncIn
	e.yamlOut, e.compact = common.yamlOut, common.compact
	switch common.colorMode {
	case "always":
		e.color = true
	case "never":
		e.color = false
	case "auto":
		f, ok := e.stdout.(*os.File)
		e.color = ok && isatty.IsTerminal(f.Fd())
	default:
		return nil, fmt.Errorf("%w: unknown color mode %q", errUsage, common.colorMode)
	}
	return fs.Args(), nil
}

func (e *env) read(path string) (*jsonkit.Node, error) {
	var b []byte
	var err error
	if path == "" || path == "-" {
		b, err = io.ReadAll(e.stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, jsonkit.WrapError(jsonkit.CodeIOError, err)
	}
	e.log.Debug("input read", "path", path, "bytes", len(b))
	switch {
	case e.yamlIn:
		return e.codec.DecodeYAML(b)
	case e.jsoncIn:
		return e.codec.DecodeJSONC(b)
	}
	return e.codec.Decode(b)
}

func (e *env) write(n *jsonkit.Node) error {
	if e.yamlOut {
		s, err := e.codec.ToYAML(n)
		if err != nil {
			return err
		}
		_, err = io.WriteString(e.stdout, s)
		return err
	}
	if err := e.codec.Write(e.stdout, n, !e.compact); err != nil {
		return err
	}
	_, err := io.WriteString(e.stdout, "\n")
	return err
}

// optionalFile returns the single optional FILE argument.
func optionalFile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: expected at most one FILE, got %d arguments", errUsage, len(args))
}

func (e *env) readOptional(args []string) (*jsonkit.Node, error) {
	path, err := optionalFile(args)
	if err != nil {
		return nil, err
	}
	return e.read(path)
}

func runFmt(e *env, fs *pflag.FlagSet, args []string) error {
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	n, err := e.readOptional(rest)
	if err != nil {
		return err
	}
	return e.write(n)
}

func runGet(e *env, fs *pflag.FlagSet, args []string) error {
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing POINTER", errUsage)
	}
	p, err := jsonkit.ParsePointer(rest[0])
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	n, err := e.readOptional(rest[1:])
	if err != nil {
		return err
	}
	v := n.At(p)
	if v.IsMissing() {
		return fmt.Errorf("nothing at %s", p)
	}
	return e.write(v)
}

func runKeep(e *env, fs *pflag.FlagSet, args []string) error {
	var keys []string
	fs.StringSliceVarP(&keys, "key", "k", nil, "field to keep (repeatable, comma separated)")
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	n, err := e.readOptional(rest)
	if err != nil {
		return err
	}
	out, err := jsonkit.Keep(n, keys...)
	if err != nil {
		return err
	}
	return e.write(out)
}

func runPurge(e *env, fs *pflag.FlagSet, args []string) error {
	var keys []string
	fs.StringSliceVarP(&keys, "key", "k", nil, "field to drop (repeatable, comma separated)")
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	n, err := e.readOptional(rest)
	if err != nil {
		return err
	}
	out, err := jsonkit.Purge(n, keys...)
	if err != nil {
		return err
	}
	return e.write(out)
}

func runPurgeNulls(e *env, fs *pflag.FlagSet, args []string) error {
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	n, err := e.readOptional(rest)
	if err != nil {
		return err
	}
	out, err := jsonkit.PurgeNulls(n)
	if err != nil {
		return err
	}
	return e.write(out)
}

func runMerge(e *env, fs *pflag.FlagSet, args []string) error {
	var absent bool
	fs.BoolVar(&absent, "absent", false, "only add fields the target does not have")
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return fmt.Errorf("%w: merge needs at least two files", errUsage)
	}
	target, err := e.read(rest[0])
	if err != nil {
		return err
	}
	sources := make([]*jsonkit.Node, 0, len(rest)-1)
	for _, path := range rest[1:] {
		n, err := e.read(path)
		if err != nil {
			return err
		}
		sources = append(sources, n)
	}
	merge := jsonkit.Merge
	if absent {
		merge = jsonkit.MergeAbsent
	}
	out, err := merge(target, sources...)
	if err != nil {
		return err
	}
	return e.write(out)
}

func (e *env) predicate(fs *pflag.FlagSet, args []string) (*query.Predicate, *jsonkit.Node, error) {
	var where string
	fs.StringVarP(&where, "where", "w", "", "boolean expression over each element")
	rest, err := e.prepare(fs, args)
	if err != nil {
		return nil, nil, err
	}
	if where == "" {
		return nil, nil, fmt.Errorf("%w: --where is required", errUsage)
	}
	p, err := query.Compile(where)
	if err != nil {
		return nil, nil, err
	}
	n, err := e.readOptional(rest)
	if err != nil {
		return nil, nil, err
	}
	return p, n, nil
}

func runFilter(e *env, fs *pflag.FlagSet, args []string) error {
	p, n, err := e.predicate(fs, args)
	if err != nil {
		return err
	}
	out, err := query.Filter(n, p)
	if err != nil {
		return err
	}
	e.log.Debug("filtered", "kept", out.Len(), "total", n.Len())
	return e.write(out)
}

func runFind(e *env, fs *pflag.FlagSet, args []string) error {
	p, n, err := e.predicate(fs, args)
	if err != nil {
		return err
	}
	out, err := query.Find(n, p)
	if err != nil {
		return err
	}
	if out.IsMissing() {
		return fmt.Errorf("no element matches %q", p)
	}
	return e.write(out)
}

func runAssure(e *env, fs *pflag.FlagSet, args []string) error {
	var fields, absent, strs, prims []string
	fs.StringSliceVar(&fields, "fields", nil, "fields that must be present and not null")
	fs.StringSliceVar(&absent, "absent", nil, "fields that must not be present")
	fs.StringSliceVar(&strs, "strings", nil, "fields that must hold non-empty strings")
	fs.StringSliceVar(&prims, "primitives", nil, "fields that must hold scalar values")
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	n, err := e.readOptional(rest)
	if err != nil {
		return err
	}
	err = assure.All(
		func() error { return assure.Object(n) },
		func() error { return assure.Fields(n, fields...) },
		func() error { return assure.Absence(n, absent...) },
		func() error { return assure.NonEmptyStrings(n, strs...) },
		func() error { return assure.PrimitiveFields(n, prims...) },
	)
	if err == nil {
		_, werr := io.WriteString(e.stdout, `{"status":"ok"}`+"\n")
		return werr
	}
	je, ok := jsonkit.AsError(err)
	if !ok {
		return err
	}
	e.log.Debug("validation failed", "code", je.Code)
	e.compact = true
	if werr := e.write(je.Envelope()); werr != nil {
		return werr
	}
	return errSilent
}

func runDiff(e *env, fs *pflag.FlagSet, args []string) error {
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return fmt.Errorf("%w: diff needs exactly two files", errUsage)
	}
	a, err := e.read(rest[0])
	if err != nil {
		return err
	}
	b, err := e.read(rest[1])
	if err != nil {
		return err
	}
	if a.Equal(b) {
		return nil
	}
	at, err := e.codec.ToText(a, true)
	if err != nil {
		return err
	}
	bt, err := e.codec.ToText(b, true)
	if err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(at+"\n", bt+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	del := painter(e.color, color.FgRed)
	ins := painter(e.color, color.FgGreen)
	var sb strings.Builder
	for _, d := range diffs {
		prefix, paint := "  ", fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint = "- ", del
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+ ", ins
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(paint(prefix + strings.TrimSuffix(line, "\n")))
			sb.WriteByte('\n')
		}
	}
	if _, err := io.WriteString(e.stdout, sb.String()); err != nil {
		return err
	}
	return errSilent
}

func painter(on bool, attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func runPatch(e *env, fs *pflag.FlagSet, args []string) error {
	var merge bool
	fs.BoolVar(&merge, "merge", false, "treat PATCH as an RFC 7386 merge patch")
	rest, err := e.prepare(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return fmt.Errorf("%w: patch needs DOC and PATCH", errUsage)
	}
	doc, err := e.read(rest[0])
	if err != nil {
		return err
	}
	p, err := e.read(rest[1])
	if err != nil {
		return err
	}
	apply := e.codec.Patch
	if merge {
		apply = e.codec.MergePatch
	}
	out, err := apply(doc, p)
	if err != nil {
		return err
	}
	return e.write(out)
}
