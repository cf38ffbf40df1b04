package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/terraincognita07/dosalabel/internal/cli"
	"github.com/terraincognita07/dosalabel/internal/config"
	"github.com/terraincognita07/dosalabel/internal/logger"
)

var version = "dev"

var CLI struct {
	Version kong.VersionFlag

	Serve        ServeCmd            `cmd:"" help:"Run the label web server." default:"1"`
	Render       cli.RenderCmd       `cmd:"" help:"Print a stored label in the terminal."`
	ResetState   cli.ResetStateCmd   `cmd:"" help:"Delete stored label state."`
	States       cli.StatesCmd       `cmd:"" help:"List workspaces with stored label state."`
	HashPassword cli.HashPasswordCmd `cmd:"" help:"Hash an operator password for OPERATOR_PASSWORD_HASH."`
	GenSecret    cli.GenSecretCmd    `cmd:"" help:"Generate a random SECRET_KEY."`
	Env          EnvCmd              `cmd:"" help:"List supported environment variables."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("dosalabel"),
		kong.Description("Bengali medication label editor and printer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": version},
	)

	if kctx.Command() == "env" {
		kctx.FatalIfErrorf(kctx.Run(&cli.Context{Stdout: os.Stdout}))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appLogger, closer, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = kctx.Run(&cli.Context{
		Config: cfg,
		Logger: appLogger,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
	})
	_ = closer.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// EnvCmd is handled before configuration loads so it works with a broken
// environment.
type EnvCmd struct{}

func (c *EnvCmd) Run(ctx *cli.Context) error {
	_, err := fmt.Fprint(ctx.Stdout, config.Usage())
	return err
}
