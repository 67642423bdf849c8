package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/golang/glog"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/l3x61/lx"
	"github.com/l3x61/lx/internal/config"
)

const helpText = `REPL commands:
  :env     Show the root scope
  :help    Show this text
  :quit    Exit the REPL
`

func red(s string) string {
	if !lx.EnableColor {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func newReplCmd(opts *options, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runREPL(cfg, stdin, stdout, stderr)
		},
	}
}

// lineReader yields one line of input per call and io.EOF at the end.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// scanReader reads piped input. It prints no prompts.
type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// isTerminal reports whether in is an interactive terminal.
func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runREPL runs one session over stdin. A terminal gets line editing, history
// and colors; anything else is read line by line without prompts.
func runREPL(cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	ip := lx.NewInterpreter()
	defer ip.Close()
	ip.Stdout = stdout
	ip.SetMaxDepth(cfg.MaxDepth)

	s := &session{ip: ip, cfg: cfg, out: stdout, errOut: stderr}
	if !isTerminal(stdin) {
		return s.loop(&scanReader{sc: bufio.NewScanner(stdin)})
	}

	lx.EnableColor = cfg.Color
	fmt.Fprintf(stdout, "lx %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := config.ExpandHome(cfg.History)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				glog.Warningf("cannot write history %s: %v", histPath, err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			ln.Close()
			glog.Flush()
			os.Exit(130)
		}
	}()

	s.history = ln
	return s.loop(ln)
}

// session is the read-eval-print loop over one Interpreter.
type session struct {
	ip      *lx.Interpreter
	cfg     *config.Config
	out     io.Writer
	errOut  io.Writer
	history *liner.State
}

// loop evaluates entries until end of input or :quit. Evaluation errors are
// reported and the loop carries on; only the exit native ends it with an
// error.
func (s *session) loop(r lineReader) error {
	for {
		code, ok := s.readByParseProbe(r)
		if !ok {
			if s.history != nil {
				fmt.Fprintln(s.out)
			}
			return nil
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return nil
			case ":env":
				fmt.Fprint(s.out, lx.FormatEnv(s.ip.Root))
			case ":help":
				fmt.Fprint(s.out, helpText)
			default:
				fmt.Fprintln(s.out, "unknown command. Type :help for commands.")
			}
			continue
		}

		if s.history != nil {
			s.history.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
		v, err := s.ip.EvalLine(code)
		if err != nil {
			var ee *lx.ExitError
			if errors.As(err, &ee) {
				return ee
			}
			fmt.Fprintln(s.errOut, red(strings.TrimRight(lx.WrapErrorWithName(err, "<repl>", code).Error(), "\n")))
			continue
		}
		fmt.Fprintln(s.out, lx.FormatValue(v))
	}
}

// readByParseProbe reads lines until they parse or fail for a reason other
// than running out of input. ok is false at end of input.
func (s *session) readByParseProbe(r lineReader) (code string, ok bool) {
	var b strings.Builder
	for {
		prompt := s.cfg.Prompt
		if b.Len() > 0 {
			prompt = s.cfg.Continuation
		}
		line, err := r.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C drops the pending entry.
			b.Reset()
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				glog.Warningf("reading input: %v", err)
			}
			if b.Len() > 0 {
				// Hand the partial entry over so its error gets reported.
				return b.String(), true
			}
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := lx.ParseInteractive(src); perr != nil && lx.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
