package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/actionindex"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/log"
)

func NewIndexCommand() *cli.Command {
	return &cli.Command{
		Name:    "index",
		Aliases: []string{"i"},
		Usage:   "Manage the action index",
		Commands: []*cli.Command{
			newIndexBuildCommand(),
			newIndexShowCommand(),
		},
	}
}

func newIndexBuildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Index an action module bundle and persist the result",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "actions",
				Aliases:  []string{"a"},
				Usage:    "Path to the action module bundle directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path to write the persisted index",
				Value:   "action-index.json",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("index")

			idx, err := actionindex.BuildFromDir(logger, command.String("actions"))
			if err != nil {
				return fmt.Errorf("failed to index bundle: %w", err)
			}

			if err := idx.Save(command.String("output")); err != nil {
				return err
			}

			logger.Info("Action index persisted",
				"actions", idx.Len(), "output", command.String("output"))

			return nil
		},
	}
}

func newIndexShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "List the contents of a persisted action index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "cache",
				Aliases: []string{"c"},
				Usage:   "Path to the persisted index",
				Value:   "action-index.json",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup("warn")

			idx := actionindex.Load(log.WithModule("index"), command.String("cache"))
			if idx == nil {
				_, _ = fmt.Fprintln(os.Stdout, "No usable action index found.")

				return nil
			}

			for _, fqName := range idx.FQNames() {
				def, _ := idx.Get(fqName)
				_, _ = fmt.Fprintf(os.Stdout, "%s  (%d inputs, hash %.12s)\n",
					fqName, len(def.Inputs), def.ScriptHash)
			}

			return nil
		},
	}
}
