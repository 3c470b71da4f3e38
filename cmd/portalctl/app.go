package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jobportal/jobportal-go/internal/client"
)

// readPassword is swapped out in tests so they never touch a terminal.
var readPassword = term.ReadPassword

type app struct {
	client *client.Client
	in     *bufio.Reader
	out    io.Writer
}

func newApp(c *client.Client, stdin io.Reader, stdout io.Writer) *app {
	return &app{client: c, in: bufio.NewReader(stdin), out: stdout}
}

// prompt reads one line of input after printing label.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptIfEmpty returns v, or asks for it when v is empty.
func (a *app) promptIfEmpty(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return a.prompt(label)
}

// password reads a password without echo.
func (a *app) password() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
