package prompts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Nydauron/skatescore/isu"
)

// Prompter asks for segment metadata a file name does not carry. Every
// prompt repeats until it gets a usable answer and fails only when input
// runs out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Stdio prompts on stderr so stdout stays free for the export.
func Stdio() *Prompter {
	return New(os.Stdin, os.Stderr)
}

func (p *Prompter) ClassPrompt(filename string) (isu.Class, error) {
	for {
		userInput, err := p.Prompt(fmt.Sprintf("Class of %s (%s, or a name such as Ladies): ", filename, strings.Join(classAbbreviations, "/")))
		if err != nil {
			return "", err
		}
		if class, ok := classMapping[strings.ToUpper(userInput)]; ok {
			return class, nil
		}
		if class, err := isu.ParseClass(userInput); err == nil {
			return class, nil
		}
	}
}

func (p *Prompter) StartDatePrompt(filename string) (time.Time, error) {
	for {
		userInput, err := p.Prompt(fmt.Sprintf("Start date of %s (YYYY-MM-DD): ", filename))
		if err != nil {
			return time.Time{}, err
		}
		if date, err := time.Parse(time.DateOnly, userInput); err == nil {
			return date, nil
		}
	}
}

// ConfirmPrompt defaults to no.
func (p *Prompter) ConfirmPrompt(message string) (bool, error) {
	for {
		userInput, err := p.Prompt(message + " (y/N) ")
		if err != nil {
			return false, err
		}
		userInput = strings.ToLower(userInput)
		if userInput == "y" {
			return true, nil
		}
		if userInput == "n" || userInput == "" {
			return false, nil
		}
	}
}

func (p *Prompter) Prompt(message string) (string, error) {
	fmt.Fprint(p.out, message)
	input, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("no answer to %q: %w", strings.TrimSpace(message), err)
	}
	return strings.TrimSpace(input), nil
}
