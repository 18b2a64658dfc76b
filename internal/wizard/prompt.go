package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ErrAbandoned is returned when input ends before the wizard finishes.
var ErrAbandoned = errors.New("cancelled")

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	blue   = color.New(color.FgHiBlue).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
)

// SecretReader reads one secret value without echoing it.
type SecretReader func() (string, error)

// TerminalSecretReader reads from the terminal behind f with echo disabled. It
// returns nil when f is not a terminal so callers fall back to plain lines.
func TerminalSecretReader(f *os.File) SecretReader {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

type prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret SecretReader
}

func (p *prompter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAbandoned
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) readSecret() (string, error) {
	if p.secret == nil {
		return p.readLine()
	}
	v, err := p.secret()
	p.printf("\n")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAbandoned, err)
	}
	return strings.TrimSpace(v), nil
}

type field struct {
	label    string
	def      string
	required bool
	secret   bool
	// reject lists values treated as empty, such as example placeholders.
	reject []string
}

func (p *prompter) ask(f field) (string, error) {
	suffix := ""
	switch {
	case f.def != "" && f.secret:
		suffix = " " + dim("[***]")
	case f.def != "":
		suffix = " " + dim("["+f.def+"]")
	case f.required:
		suffix = " " + red("(required)")
	}

	for {
		p.printf("  %s %s%s: ", blue(">"), f.label, suffix)
		var answer string
		var err error
		if f.secret {
			answer, err = p.readSecret()
		} else {
			answer, err = p.readLine()
		}
		if err != nil {
			return "", err
		}
		for _, r := range f.reject {
			if answer == r {
				answer = ""
			}
		}
		if answer == "" && f.def != "" {
			return f.def, nil
		}
		if answer == "" && f.required {
			p.printf("    %s\n", red("This field is required."))
			continue
		}
		return answer, nil
	}
}

func (p *prompter) askBool(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	p.printf("  %s %s %s: ", blue(">"), label, dim("["+hint+"]"))
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	if answer == "" {
		return def, nil
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "1", "true":
		return true, nil
	default:
		return false, nil
	}
}

func (p *prompter) askChoice(label string, choices []string, def string) (string, error) {
	for i, c := range choices {
		marker := ""
		if c == def {
			marker = " " + green("<- default")
		}
		p.printf("    %s %s%s\n", dim(strconv.Itoa(i+1)+")"), c, marker)
	}
	for {
		p.printf("  %s %s %s: ", blue(">"), label, dim(fmt.Sprintf("[1-%d]", len(choices))))
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" && def != "" {
			return def, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		for _, c := range choices {
			if answer == c {
				return c, nil
			}
		}
		p.printf("    %s\n", red(fmt.Sprintf("Pick 1-%d or type the value.", len(choices))))
	}
}

func (p *prompter) section(title string) {
	p.printf("\n  %s\n\n", bold(title))
}
