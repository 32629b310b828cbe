// Package repl implements the interactive top-level loop named in spec §6
// ("repl (interactive)"). It keeps one VM alive across lines the way the
// teacher's cmd_repl_compiled.go keeps one vm.VM alive across scanner
// lines, but reads with github.com/chzyer/readline (history, line editing)
// instead of a bare bufio.Scanner, and multi-line continuation is decided
// by a paren/bracket/brace balance check generalized from the teacher's
// isInputReady (brace-only, since nilan is C-like) to every bracket pair
// this reader recognizes.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"islisp/ast"
	"islisp/compiler"
	"islisp/lexer"
	"islisp/passes"
	"islisp/reader"
	"islisp/token"
	"islisp/value"
	"islisp/vm"
)

// Session pairs a live VM with the buffered input accumulated so far
// between complete top-level forms, plus the running set of names the
// unbound-variable pass should accept: the concurrency intrinsics and
// registered syscalls, widened by every top-level def the session has
// evaluated so far (a name defined in one line of the REPL must resolve
// when referenced on a later line, spec §8 scenario "a subsequent (inc 6)
// in the same VM").
type Session struct {
	VM      *vm.VM
	buffer  string
	globals map[string]bool
}

// NewSession builds a VM preloaded with the required built-in syscalls,
// matching the Builder usage runSrc/compileSrc exercise in the vm package's
// own tests.
func NewSession() *Session {
	v := vm.NewBuilder().DefaultLibs().Build()
	globals := passes.DefaultEnv()
	for _, name := range v.Syscalls.Names() {
		globals[name] = true
	}
	return &Session{VM: v, globals: globals}
}

// Run drives the interactive loop against out, reading from the terminal
// via readline (history, line editing, ^C handling).
func Run(out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("repl: starting readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(out, "islisp")
	sess := NewSession()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		ready, result := sess.Feed(line)
		if !ready {
			rl.SetPrompt("... ")
			continue
		}
		rl.SetPrompt(">>> ")

		if result.err != nil {
			printErrorChain(out, result.err)
			continue
		}
		fmt.Fprintln(out, result.value.String())
	}
}

type evalResult struct {
	value value.Value
	err   error
}

// Feed appends line to the pending buffer and, once the buffered text
// contains balanced brackets (isInputReady), reads/compiles/runs it as one
// batch of top-level forms against the session's persistent VM. ready is
// false while more lines are expected.
func (s *Session) Feed(line string) (ready bool, result evalResult) {
	if s.buffer != "" {
		s.buffer += "\n"
	}
	s.buffer += line

	toks, err := lexer.New(s.buffer).Scan()
	if err != nil {
		// An unterminated string/char is also "not ready yet"; only a
		// genuine lexing error unrelated to truncation is reported.
		if !looksLikeTruncation(err) {
			src := s.buffer
			s.buffer = ""
			return true, evalResult{err: fmt.Errorf("lexing %q: %w", src, err)}
		}
		return false, evalResult{}
	}
	if !isInputReady(toks) {
		return false, evalResult{}
	}

	src := s.buffer
	s.buffer = ""
	v, err := s.eval(src)
	return true, evalResult{value: v, err: err}
}

func (s *Session) eval(src string) (value.Value, error) {
	forms, err := reader.Read(src)
	if err != nil {
		return nil, err
	}
	n, err := ast.Build(forms)
	if err != nil {
		return nil, err
	}
	n, err = passes.ExpandMacros(n)
	if err != nil {
		return nil, err
	}
	if err := passes.CheckUnbound(n, cloneGlobals(s.globals)); err != nil {
		return nil, err
	}
	for _, name := range topLevelDefNames(n) {
		s.globals[name] = true
	}
	n, err = passes.Uniquify(n)
	if err != nil {
		return nil, err
	}
	lifted, err := passes.Lift(n)
	if err != nil {
		return nil, err
	}
	prog, err := passes.AssignLocals(lifted)
	if err != nil {
		return nil, err
	}
	bc, err := compiler.Compile(prog)
	if err != nil {
		return nil, err
	}
	s.VM.ImportJump(bc)
	out, err := s.VM.StepUntilValue()
	if err != nil {
		s.VM.ResetExec()
		return nil, err
	}
	return out, nil
}

// printErrorChain renders err the way spec §7 asks the driver to: "error:
// <message>" followed by one "caused by: …" line per wrapped cause.
func printErrorChain(out io.Writer, err error) {
	fmt.Fprintf(out, "error: %s\n", err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(out, "caused by: %s\n", cause.Error())
	}
}

func cloneGlobals(globals map[string]bool) map[string]bool {
	clone := make(map[string]bool, len(globals))
	for k, v := range globals {
		clone[k] = v
	}
	return clone
}

// topLevelDefNames returns the names bound by def forms at the top level of
// n (a single form, or the Do wrapping a batch of top-level forms), so
// later REPL submissions can see them in the unbound-variable env.
func topLevelDefNames(n ast.Node) []string {
	switch t := n.(type) {
	case ast.Def:
		return []string{t.Name}
	case ast.Do:
		var names []string
		for _, e := range t.Exprs {
			names = append(names, topLevelDefNames(e)...)
		}
		return names
	default:
		return nil
	}
}

// isInputReady reports whether toks contains no unclosed ( [ { or #{,
// generalizing the teacher's brace-only isInputReady(tokens) to every
// bracket pair the reader recognizes. Since #{ and { both close on a bare
// RBRACE, a single depth counter across all four opener kinds is enough.
func isInputReady(toks []token.Token) bool {
	depth := 0
	for _, t := range toks {
		switch t.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE, token.HASHLBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
		}
	}
	return depth <= 0
}

// looksLikeTruncation reports whether err is the kind of lexer failure a
// not-yet-finished multi-line string or character literal produces, as
// opposed to a genuine syntax error that should be reported immediately.
func looksLikeTruncation(err error) bool {
	re, ok := err.(*lexer.ReadError)
	if !ok {
		return false
	}
	return strings.HasPrefix(re.Message, "unterminated") ||
		strings.HasPrefix(re.Message, "expected a character after")
}
