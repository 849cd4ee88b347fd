// Package combine implements program commands working on selector documents.
package combine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"geocss/config"
	"geocss/fixture"
	"geocss/selector"
	"geocss/state"
)

// ErrMismatch is returned when combined selector differs from document
// expectation.
var ErrMismatch = errors.New("combined selector does not match expectation")

// Run loads selector documents from every source and combines selectors of
// each document into single canonical selector.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("combine")

	if cmd.NArg() == 0 {
		return errors.New("no input source has been specified")
	}
	forceCodePage(env, cmd.String("force-zip-cp"), log)

	format := env.Cfg.Combiner.Format
	if cmd.Bool("tree") {
		format = config.OutputFormatTree
	}
	opts := options{
		disjoin: cmd.Bool("or"),
		verify:  env.Cfg.Combiner.Verify,
		format:  format,
	}

	log.Info("Processing starting", zap.Stringer("run", env.RunID), zap.Strings("sources", cmd.Args().Slice()), zap.Bool("or", opts.disjoin), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	var failed, seq int
	for i, src := range cmd.Args().Slice() {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs, err := env.Loader.Load(src)
		if err != nil {
			return fmt.Errorf("unable to load %s: %w", src, err)
		}
		env.Rpt.Store(fmt.Sprintf("sources/%d-%s", i+1, config.SafeName(filepath.Base(src))), src)

		for _, doc := range docs {
			seq++
			if err := process(env, doc, seq, opts, cmd.Root().Writer, log); err != nil {
				if !errors.Is(err, ErrMismatch) {
					return err
				}
				failed++
				log.Error("Verification failed", zap.String("document", doc.Name), zap.Error(err))
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed verification: %w", failed, ErrMismatch)
	}
	return nil
}

// Since zip "standard" does not define file name encoding we may need to
// force archaic code page for old bundles
func forceCodePage(env *state.LocalEnv, cp string, log *zap.Logger) {
	if len(cp) == 0 {
		return
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		return
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully converting all non UTF-8 file names in bundles", zap.String("charset", n))
	env.Loader.SetCodePage(enc)
}

type options struct {
	disjoin bool
	verify  bool
	format  config.OutputFormat
}

// process combines single document, result is also stored in the report
// under document sequence number since names are not required to be unique.
func process(env *state.LocalEnv, doc *fixture.Document, seq int, opts options, out io.Writer, log *zap.Logger) error {
	var res selector.Selector
	if opts.disjoin {
		res = env.Combiner.OrAll(doc.Scope(), doc.Selectors...)
	} else {
		res = env.Combiner.AndAll(doc.Scope(), doc.Selectors...)
	}

	text := render(doc.Name, res, opts.format)
	env.Rpt.StoreData(fmt.Sprintf("results/%d-%s.txt", seq, slug.Make(doc.Name)), []byte(text))
	if _, err := io.WriteString(out, text); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	log.Debug("Document combined",
		zap.String("document", doc.Name),
		zap.Int("selectors", len(doc.Selectors)),
		zap.Stringer("result", res),
		zap.Stringer("specificity", res.Specificity()))

	if !opts.verify || doc.Expect == "" {
		return nil
	}
	if got := res.String(); got != doc.Expect {
		return fmt.Errorf("%s: got %q, expected %q: %w", doc.Name, got, doc.Expect, ErrMismatch)
	}
	return nil
}

func render(name string, s selector.Selector, format config.OutputFormat) string {
	var b strings.Builder
	switch format {
	case config.OutputFormatTree:
		fmt.Fprintf(&b, "%s:\n", name)
		b.WriteString(selector.Dump(s))
	default:
		fmt.Fprintf(&b, "%s\t%s\t(specificity %s)\n", name, s, s.Specificity())
	}
	return b.String()
}

// Scales prints scale ranges at which combined selectors of every document
// may match.
func Scales(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("scales")

	if cmd.NArg() == 0 {
		return errors.New("no input source has been specified")
	}
	forceCodePage(env, cmd.String("force-zip-cp"), log)

	var buf bytes.Buffer
	for _, src := range cmd.Args().Slice() {
		docs, err := env.Loader.Load(src)
		if err != nil {
			return fmt.Errorf("unable to load %s: %w", src, err)
		}
		for _, doc := range docs {
			ranges := selector.ScaleRanges(env.Combiner.AndAll(doc.Scope(), doc.Selectors...))
			log.Debug("Scale ranges collected", zap.String("document", doc.Name), zap.Int("count", len(ranges)))

			fmt.Fprintf(&buf, "%s:", doc.Name)
			if len(ranges) == 0 {
				buf.WriteString(" none")
			}
			for _, r := range ranges {
				fmt.Fprintf(&buf, " %s", r)
			}
			buf.WriteByte('\n')
		}
	}
	_, err := cmd.Root().Writer.Write(buf.Bytes())
	return err
}

// OutputConfiguration writes either default or actual configuration to the
// file named by the first argument or to stdout.
func OutputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := io.Writer(cmd.Root().Writer)
	if len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
