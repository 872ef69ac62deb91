// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/cocktailparty/internal/formatter"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write the example configuration to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "status",
				Usage:  "Show storage location, account count and the signed-in user",
				Action: r.SetupStatus,
			},
			{
				Name:  "reset",
				Usage: "Delete every account, session and favorites list",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm deletion",
					},
				},
				Action: r.SetupReset,
			},
		},
	}
}

// authCommand handles sign-in, sign-up and sign-out
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the local account session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in (prompts for missing fields)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted without echo when omitted)",
						Sources: cli.EnvVars("CPARTY_PASSWORD"),
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:    "register",
				Aliases: []string{"signup"},
				Usage:   "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Full name",
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted twice without echo when omitted)",
						Sources: cli.EnvVars("CPARTY_PASSWORD"),
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out; accounts and favorites are kept",
				Action: r.AuthLogout,
			},
			{
				Name:    "status",
				Aliases: []string{"whoami"},
				Usage:   "Show the signed-in account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the session state as JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// ingredientsCommand lists TheCocktailDB ingredients
func ingredientsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ingredients",
		Aliases: []string{"ing"},
		Usage:   "Browse ingredients",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every ingredient, sorted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Only show ingredients containing this text",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.IngredientsList,
			},
		},
	}
}

// cocktailsCommand searches and shows drinks
func cocktailsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "cocktails",
		Aliases: []string{"drinks"},
		Usage:   "Search cocktails",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Find cocktails made with an ingredient (requires sign-in)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "ingredient"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CocktailsSearch,
			},
			{
				Name:  "show",
				Usage: "Show the recipe of a cocktail",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CocktailsShow,
			},
			{
				Name:  "open",
				Usage: "Open the recipe page in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CocktailsOpen,
			},
		},
	}
}

// favoritesCommand manages the signed-in account's favorites
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage saved cocktails (requires sign-in)",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved cocktails",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Save a cocktail; name and thumbnail are looked up when omitted",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Cocktail name",
					},
					&cli.StringFlag{
						Name:  "thumb",
						Usage: "Thumbnail URL",
					},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a cocktail",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "toggle",
				Usage: "Save a cocktail, or remove it when already saved",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesToggle,
			},
			{
				Name:  "has",
				Usage: "Print yes when a cocktail is saved, no otherwise",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesHas,
			},
			{
				Name:  "export",
				Usage: "Export favorites to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
						Value:   formatter.FormatMarkdown,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file, or directory for markdown",
					},
					&cli.BoolFlag{
						Name:  "images",
						Usage: "Download thumbnails next to the markdown export",
					},
					&cli.BoolFlag{
						Name:  "recipes",
						Usage: "Look up measures and instructions for the markdown export",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent recipe lookups",
						Value: 3,
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to TheCocktailDB",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET relative to the API base URL, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload when another process changes the database",
			},
		},
		Action: r.TUI,
	}
}

// serveCommand runs the local JSON shell.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the session and favorites API on localhost",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from config)",
			},
		},
		Action: r.Serve,
	}
}
