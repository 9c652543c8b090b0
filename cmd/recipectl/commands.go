package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"recipebox/client"
	"recipebox/models"

	"github.com/urfave/cli/v3"
)

func (e *env) registerCmd() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Full name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pw, err := promptPassword(e.out, "Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword(e.out, "Confirm password: ")
			if err != nil {
				return err
			}
			in, err := client.ValidateRegistration(client.Registration{
				FullName:        cmd.String("name"),
				Email:           cmd.String("email"),
				Password:        pw,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return err
			}

			api, _, err := e.api(cmd)
			if err != nil {
				return err
			}
			email, err := api.Register(ctx, in.FullName, in.Email, in.Password)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Registered %s. Run `recipectl login --email %s` next.\n", email, email)
			return nil
		},
	}
}

func (e *env) loginCmd() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pw, err := promptPassword(e.out, "Password: ")
			if err != nil {
				return err
			}
			email, pw, err := client.ValidateLogin(cmd.String("email"), pw)
			if err != nil {
				return err
			}

			s, path, err := e.session(cmd)
			if err != nil {
				return err
			}
			res, err := client.NewAPI(s.Server, nil).Login(ctx, email, pw)
			if err != nil {
				return err
			}
			s.Email, s.Token = res.Email, res.Token
			if err := saveSession(path, s); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Logged in as %s\n", res.Email)
			return nil
		},
	}
}

func (e *env) logoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, path, err := e.session(cmd)
			if err != nil {
				return err
			}
			if err := client.NewAPI(s.Server, nil).Logout(ctx); err != nil {
				fmt.Fprintf(e.out, "server logout failed: %v\n", err)
			}
			s.Email, s.Token = "", ""
			if err := saveSession(path, s); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Logged out")
			return nil
		},
	}
}

func (e *env) whoamiCmd() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the account the server recognises",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			api, _, err := e.api(cmd)
			if err != nil {
				return err
			}
			email, err := api.CurrentUser(ctx)
			if err != nil {
				return err
			}
			if email == "" {
				fmt.Fprintln(e.out, "Not logged in")
				return nil
			}
			fmt.Fprintln(e.out, email)
			return nil
		},
	}
}

func (e *env) searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search recipes",
		ArgsUsage: "[term]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filter", Aliases: []string{"q"}, Usage: "Narrow results by title or tag"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			api, _, err := e.api(cmd)
			if err != nil {
				return err
			}
			list, err := api.Recipes(ctx, cmd.Args().First(), cmd.String("filter"))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPUBLISHER")
			for _, r := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Title, r.Publisher)
			}
			return tw.Flush()
		},
	}
}

func (e *env) printSaved(list []models.SavedRecipe) error {
	if len(list) == 0 {
		fmt.Fprintln(e.out, "You don't have any saved recipes")
		return nil
	}
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tIMAGE")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Title, r.Image)
	}
	return tw.Flush()
}

func requireLogin(s Session) error {
	if s.Email == "" && s.Token == "" {
		return errors.New("not logged in; run `recipectl login` first")
	}
	return nil
}

func (e *env) savedCmd() *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "Manage saved recipes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved recipes",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					api, s, err := e.api(cmd)
					if err != nil {
						return err
					}
					if err := requireLogin(s); err != nil {
						return err
					}
					list, err := api.Saved(ctx)
					if err != nil {
						return err
					}
					return e.printSaved(list)
				},
			},
			{
				Name:      "add",
				Usage:     "Save a recipe",
				ArgsUsage: "<recipe-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Recipe title"},
					&cli.StringFlag{Name: "image", Usage: "Recipe image URL"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return errors.New("recipe id is required")
					}
					api, s, err := e.api(cmd)
					if err != nil {
						return err
					}
					if err := requireLogin(s); err != nil {
						return err
					}
					list, err := api.Save(ctx, models.SavedRecipe{ID: id, Title: cmd.String("title"), Image: cmd.String("image")})
					if err != nil {
						return err
					}
					return e.printSaved(list)
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a saved recipe",
				ArgsUsage: "<recipe-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return errors.New("recipe id is required")
					}
					api, s, err := e.api(cmd)
					if err != nil {
						return err
					}
					if err := requireLogin(s); err != nil {
						return err
					}
					list, err := api.Remove(ctx, id)
					if err != nil {
						return err
					}
					return e.printSaved(list)
				},
			},
			{
				Name:  "export",
				Usage: "Download saved recipes as a PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "saved-recipes.pdf", Usage: "Output file"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					api, s, err := e.api(cmd)
					if err != nil {
						return err
					}
					if err := requireLogin(s); err != nil {
						return err
					}
					path := cmd.String("out")
					f, err := os.Create(path)
					if err != nil {
						return err
					}
					if err := api.ExportSaved(ctx, f); err != nil {
						f.Close()
						os.Remove(path)
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Wrote %s\n", path)
					return nil
				},
			},
		},
	}
}

func (e *env) profileCmd() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show or update your profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show your profile",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					api, s, err := e.api(cmd)
					if err != nil {
						return err
					}
					if err := requireLogin(s); err != nil {
						return err
					}
					p, err := api.Profile(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(e.out, "Name:   %s\nEmail:  %s\nAvatar: %s\n", p.FullName, p.Email, client.AvatarURL(api.BaseURL(), p.Avatar))
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Change your name or avatar",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New full name"},
					&cli.StringFlag{Name: "avatar", Usage: "Path of an image to upload"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					api, s, err := e.api(cmd)
					if err != nil {
						return err
					}
					if err := requireLogin(s); err != nil {
						return err
					}

					var name *string
					if cmd.IsSet("name") {
						v := cmd.String("name")
						name = &v
					}
					var avatar *client.AvatarFile
					if p := cmd.String("avatar"); p != "" {
						f, err := os.Open(p)
						if err != nil {
							return err
						}
						defer f.Close()
						avatar = &client.AvatarFile{Name: filepath.Base(p), Body: f}
					}
					if name == nil && avatar == nil {
						return errors.New("nothing to update; pass --name or --avatar")
					}

					acct, err := api.UpdateProfile(ctx, name, avatar)
					if err != nil {
						return err
					}
					p := models.ProfileOf(acct)
					fmt.Fprintf(e.out, "Updated %s (%s)\n", p.FullName, p.Avatar)
					return nil
				},
			},
		},
	}
}
