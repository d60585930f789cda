// Package input contains line readers used to get grammar text from the CLI
// or other sources of input.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads grammar text one line at a time.
type LineReader interface {

	// ReadLine reads the next line with surrounding whitespace removed. At
	// end of input it returns "" and io.EOF.
	ReadLine() (string, error)

	// AllowBlank sets whether ReadLine returns blank lines or skips them.
	AllowBlank(allow bool)

	Close() error
}

// DirectLineReader implements LineReader and reads lines from any generic
// input stream directly. It can be used generically with any io.Reader but
// does not sanitize the input of control and escape sequences.
//
// DirectLineReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectLineReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveLineReader implements LineReader and reads lines from stdin using
// a go implementation of the GNU Readline library. This keeps input clear of
// all typing and editing escape sequences and enables the use of line
// history. This should in general probably only be used when directly
// connecting to a TTY for input.
//
// InteractiveLineReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveLineReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectLineReader and initializes a buffered
// reader on the provided reader.
func NewDirectReader(r io.Reader) *DirectLineReader {
	return &DirectLineReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveLineReader and initializes
// readline. The returned InteractiveLineReader must have Close() called on it
// before disposal to properly teardown readline resources.
func NewInteractiveReader(prompt string) (*InteractiveLineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveLineReader{
		rl:     rl,
		prompt: prompt,
	}, nil
}

// Close cleans up resources associated with the DirectLineReader. It does not
// close the underlying reader.
func (dlr *DirectLineReader) Close() error {
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveLineReader.
func (ilr *InteractiveLineReader) Close() error {
	return ilr.rl.Close()
}

// ReadLine reads the next line. Unless blanks are allowed, this function is
// blocked on until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dlr *DirectLineReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dlr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && dlr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadLine reads the next line from stdin. Unless blanks are allowed, this
// function is blocked on until a line consisting of more than empty or
// whitespace-only input is read. An interrupt (Ctrl-C) is treated as the end
// of input.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (ilr *InteractiveLineReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ilr.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && ilr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (dlr *DirectLineReader) AllowBlank(allow bool) {
	dlr.blanksAllowed = allow
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (ilr *InteractiveLineReader) AllowBlank(allow bool) {
	ilr.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (ilr *InteractiveLineReader) SetPrompt(p string) {
	ilr.rl.SetPrompt(p)
	ilr.prompt = p
}

// GetPrompt gets the current prompt.
func (ilr *InteractiveLineReader) GetPrompt() string {
	return ilr.prompt
}

// ReadGrammar reads lines from r until the end of input and returns them as
// grammar text, one line per production. If stopAtBlank is set, a blank line
// also ends the grammar; otherwise blank lines are skipped.
func ReadGrammar(r LineReader, stopAtBlank bool) (string, error) {
	r.AllowBlank(stopAtBlank)

	var sb strings.Builder
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read grammar: %w", err)
		}
		if line == "" {
			break
		}

		sb.WriteString(line)
		sb.WriteRune('\n')
	}

	return sb.String(), nil
}
