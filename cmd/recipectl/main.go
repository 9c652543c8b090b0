// Command recipectl is a terminal client for the recipebox API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"recipebox/client"

	"github.com/urfave/cli/v3"
)

// env carries what every command needs. Commands read flags from the root.
type env struct {
	out io.Writer
}

func (e *env) session(cmd *cli.Command) (Session, string, error) {
	path := cmd.String("session")
	s, err := loadSession(path)
	if err != nil {
		return s, path, err
	}
	if flagServer := cmd.String("server"); cmd.IsSet("server") || s.Server == "" {
		s.Server = flagServer
	}
	return s, path, nil
}

func (e *env) api(cmd *cli.Command) (*client.API, Session, error) {
	s, _, err := e.session(cmd)
	if err != nil {
		return nil, s, err
	}
	return client.NewAPI(s.Server, nil).As(s.Email, s.Token), s, nil
}

func rootCmd(out io.Writer) *cli.Command {
	e := &env{out: out}
	return &cli.Command{
		Name:   "recipectl",
		Usage:  "Search, save and export recipes from the terminal",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:5001",
				Usage:   "Base URL of the recipebox server",
				Sources: cli.EnvVars("RECIPECTL_SERVER"),
			},
			&cli.StringFlag{
				Name:    "session",
				Value:   defaultSessionPath(),
				Usage:   "Path of the session file written by login",
				Sources: cli.EnvVars("RECIPECTL_SESSION"),
			},
		},
		Commands: []*cli.Command{
			e.registerCmd(),
			e.loginCmd(),
			e.logoutCmd(),
			e.whoamiCmd(),
			e.searchCmd(),
			e.savedCmd(),
			e.profileCmd(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "recipectl: %v\n", err)
		os.Exit(1)
	}
}
