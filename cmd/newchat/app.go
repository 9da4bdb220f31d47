package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/meszmate/newchat/internal/app"
	"github.com/meszmate/newchat/internal/config"
	"github.com/meszmate/newchat/internal/logging"
	"github.com/meszmate/newchat/internal/roster"
	"github.com/meszmate/newchat/internal/ui"
)

func makeApp() *cli.Command {
	return &cli.Command{
		Name:  "newchat",
		Usage: "Pick a contact to start a new chat",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override logging.level",
			},
		},
		Action: runPicker,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import contacts from a TOML file into the cache",
				ArgsUsage: "<file.toml>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "drop cached contacts missing from the file",
					},
				},
				Action: runImport,
			},
			{
				Name:   "themes",
				Usage:  "List available themes",
				Action: runThemes,
			},
			{
				Name:  "config",
				Usage: "Manage the configuration file",
				Commands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write the default configuration to --config or the default path",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "overwrite an existing file",
							},
						},
						Action: runConfigInit,
					},
				},
			},
		},
	}
}

// setup loads config and logging shared by every command
func setup(cmd *cli.Command) (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadFrom(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		logger.SetLevel(logging.ParseLevel(lvl))
	}
	return cfg, logger, nil
}

func runPicker(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	application, err := app.New(cfg, logger.Writer())
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer application.Close()

	// Selection intents leave the picker here
	application.Bus().OnOpenConversation(func(intent app.ConversationIntent) {
		logging.Info("conversation requested", "contact", intent.ContactID, "title", intent.Title)
	})
	application.Bus().OnCreateGroup(func() {
		logging.Info("group creation requested")
	})
	application.Bus().OnFetchFailed(func(err error) {
		logging.Error("contact page not loaded", "source", cfg.Contacts.Source, "err", err)
	})

	logging.Info("starting picker", "source", cfg.Contacts.Source, "account", cfg.General.Account)

	p := tea.NewProgram(
		ui.NewModel(application),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		logging.Error("program exited", "err", err)
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one contact file, got %d", cmd.Args().Len())
	}
	path := cmd.Args().First()

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	dir, err := roster.LoadFile(path)
	if err != nil {
		return err
	}
	logging.Debug("contact file read", "file", path, "entries", dir.Count())

	application, err := app.New(cfg, logger.Writer())
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer application.Close()

	res, err := application.ImportContacts(dir, cmd.Bool("replace"))
	if err != nil {
		return err
	}

	logging.Info("contacts imported", "file", path, "count", res.Imported, "total", res.Total, "account", cfg.General.Account)
	fmt.Printf("Imported %d contacts from %s into %s (%d cached)\n", res.Imported, filepath.Base(path), cfg.General.Account, res.Total)
	return nil
}

func runThemes(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	themes, err := ui.LoadThemes(cfg)
	if err != nil {
		logging.Warn("configured theme not available", "theme", cfg.UI.Theme, "err", err)
	}
	active := themes.CurrentName()

	for _, name := range themes.AvailableThemes() {
		marker := " "
		if name == active {
			marker = "*"
		}
		if err := themes.SetTheme(name); err != nil {
			return err
		}
		fmt.Printf("%s %-10s %s\n", marker, name, themes.Current().Description)
	}
	return nil
}

func runConfigInit(ctx context.Context, cmd *cli.Command) error {
	paths, err := config.GetPaths()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	path, err := config.Save(config.DefaultConfig(), cmd.String("config"), cmd.Bool("force"))
	if err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
