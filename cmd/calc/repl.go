package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
	"nickandperla.net/scicalc/pkg/calc"
)

// rawKeys maps single key presses to command words in raw mode.
var rawKeys = map[byte]string{
	'.': ".", '+': "+", '-': "-", '*': "*", '/': "/", '^': "^", '%': "mod",
	'(': "(", ')': ")", '!': "!", '@': "sq",
	'r': "sqrt", 'l': "log", 'n': "ln", 'x': "exp", 'i': "inv", 'w': "pow10",
	's': "sin", 'o': "cos", 't': "tan", 'v': "2nd",
	'a': "abs", 'f': "floor", 'g': "ceil", '~': "neg",
	'p': "pi", 'e': "e", '?': "rand",
	'C': "MC", 'R': "MR", 'M': "M+", 'N': "M-", 'S': "MS",
	'd': "deg", 'D': "rad", 'k': "sci", 'K': "plain",
	'=': "=", 0x0d: "=", 0x0a: "=",
	'c': "C", 0x1b: "C",
	'h': "hist", 'H': "clearhist",
}

func printBanner(w io.Writer, nl string) {
	lines := []string{
		"scicalc (Ctrl+D to exit)",
		"",
		"Keys:",
		"  0-9 .  + - * / ^ % (mod)  ( )  ! @ (square)  ~ (negate)",
		"  r sqrt  l log  n ln  x e^  i 1/x  w 10^  s sin  o cos  t tan  v 2nd",
		"  a |x|  f floor  g ceil  p π  e e  ? rand",
		"  C MC  R MR  M M+  N M-  S MS   d deg  D rad  k sci  K plain",
		"  = or Enter evaluate  c or Esc clear  h history  H clear history",
		"",
	}
	for _, l := range lines {
		fmt.Fprint(w, l+nl)
	}
}

// screen serializes drawing between key handling and the reset timer.
type screen struct {
	mu     sync.Mutex
	w      io.Writer
	raw    bool
	engine *calc.Engine
}

func (s *screen) nl() string {
	if s.raw {
		return "\r\n"
	}
	return "\n"
}

func status(e *calc.Engine) string {
	parts := []string{e.AngleMode().String(), e.Notation().String()}
	if e.SecondFunction() {
		parts = append(parts, "2nd")
	}
	if e.Memory() != 0 {
		parts = append(parts, "M")
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// draw prints the two-line display. In raw mode the cursor returns to the
// first line so the next draw overwrites it.
func (s *screen) draw(d calc.Display) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := ""
	if s.engine != nil {
		st = status(s.engine)
	}
	if s.raw {
		fmt.Fprintf(s.w, "\r\x1b[2K%s\r\n\x1b[2K%s  %s\r\x1b[1A", d.Secondary, d.Primary, st)
		return
	}
	if d.Secondary != "" {
		fmt.Fprintln(s.w, d.Secondary)
	}
	fmt.Fprintf(s.w, "%s  %s\n", d.Primary, st)
}

// message prints text below the display and leaves room for a fresh draw.
func (s *screen) message(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw {
		fmt.Fprint(s.w, "\r\n\r\n"+strings.ReplaceAll(text, "\n", "\r\n")+"\r\n")
		return
	}
	fmt.Fprintln(s.w, text)
}

func (s *screen) show(results []result) {
	for _, r := range results {
		if r.message != "" {
			s.message(r.message)
		}
	}
	if len(results) > 0 {
		s.draw(results[len(results)-1].display)
	}
}

func runREPL(sc *screen) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Not a TTY, fall back to basic mode
		runBasicREPL(sc, os.Stdin)
		return
	}
	runRawREPL(sc)
}

// runBasicREPL reads whitespace-separated commands a line at a time.
func runBasicREPL(sc *screen, in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(sc.w, "> ")
		line, err := reader.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			results, runErr := run(sc.engine, line)
			sc.show(results)
			if runErr != nil {
				sc.message(fmt.Sprintf("Error: %v", runErr))
			}
		}
		if err != nil {
			fmt.Fprintln(sc.w)
			return
		}
	}
}

// runRawREPL maps single key presses to commands and redraws after each.
func runRawREPL(sc *screen) {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		runBasicREPL(sc, os.Stdin)
		return
	}
	defer term.Restore(fd, oldState)

	sc.raw = true
	printBanner(sc.w, sc.nl())
	sc.draw(sc.engine.Display())

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			break
		}
		b := buf[0]
		if b == 0x03 || b == 0x04 || b == 'q' { // Ctrl+C, Ctrl+D
			break
		}

		word, ok := rawKeys[b]
		if b >= '0' && b <= '9' {
			word, ok = string(b), true
		}
		if !ok {
			continue
		}
		results, _ := run(sc.engine, word)
		sc.show(results)
	}
	fmt.Fprint(sc.w, "\r\n\r\n")
}
