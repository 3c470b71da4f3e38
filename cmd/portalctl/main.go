// Command portalctl is a terminal client for the job portal API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/jobportal/jobportal-go/internal/client"
)

const usage = `usage: portalctl [-server URL] <command> [flags]

commands:
  register          create an account
  login             log in with email and password
  login-google      log in with a Google ID token
  logout            forget the stored session
  profile           show the logged-in user
  jobs              list job postings
  post-job          create a job posting
  delete-job ID     delete one of your job postings
  apply             apply to a job
  my-applications   list your applications
`

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":        cmdRegister,
	"login":           cmdLogin,
	"login-google":    cmdLoginGoogle,
	"logout":          cmdLogout,
	"profile":         cmdProfile,
	"jobs":            cmdJobs,
	"post-job":        cmdPostJob,
	"delete-job":      cmdDeleteJob,
	"apply":           cmdApply,
	"my-applications": cmdMyApplications,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("portalctl", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { fmt.Fprint(stdout, usage) }

	defaultServer := os.Getenv("PORTAL_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:5000"
	}
	server := fs.String("server", defaultServer, "API base URL")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (known: %v)", name, commandNames())
	}

	path, err := client.DefaultSessionPath()
	if err != nil {
		return err
	}

	a := newApp(client.New(*server, client.NewFileStore(path), nil), stdin, stdout)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	return cmd(ctx, a, fs.Args()[1:])
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
