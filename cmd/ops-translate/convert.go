package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/actionindex"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/config"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/emit"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/graph"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/log"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/translate"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/vro"
)

func NewConvertCommand() *cli.Command {
	return &cli.Command{
		Name:    "convert",
		Aliases: []string{"c"},
		Usage:   "Translate one workflow document into a playbook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "workflow",
				Aliases:  []string{"w"},
				Usage:    "Path to the workflow export document",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "actions",
				Aliases: []string{"a"},
				Usage:   "Path to the action module bundle directory",
			},
			&cli.StringFlag{
				Name:  "index-cache",
				Usage: "Path to a persisted action index (used when --actions is not given)",
			},
			&cli.StringFlag{
				Name:    "mappings",
				Aliases: []string{"m"},
				Usage:   "Path to the integration mappings allowlist (built-in defaults when omitted)",
			},
			&cli.StringFlag{
				Name:    "facts",
				Aliases: []string{"f"},
				Usage:   "Path to the configuration-availability facts file",
			},
			&cli.StringFlag{
				Name:  "lock-backend",
				Usage: "Lock synthesis backend: redis, consul, or file",
				Value: "redis",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output playbook path",
				Value:   "playbook.yml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("convert").With("run_id", uuid.New().String())

			mappings, err := loadMappings(command.String("mappings"))
			if err != nil {
				return err
			}

			facts, err := loadFacts(command.String("facts"))
			if err != nil {
				return err
			}

			engine, err := translate.New(logger, mappings, facts, command.String("lock-backend"))
			if err != nil {
				return err
			}

			idx, err := loadIndex(logger, command.String("actions"), command.String("index-cache"))
			if err != nil {
				return err
			}

			doc, err := vro.ParseWorkflowFile(command.String("workflow"))
			if err != nil {
				return err
			}

			g := graph.Parse(doc)
			logger.Info("Workflow parsed", "workflow", g.Name, "items", g.Len())

			result := engine.Translate(g, idx)

			output := command.String("output")
			if err := emit.WritePlaybook(output, result.WorkflowName, result.Tasks); err != nil {
				return err
			}

			logger.Info("Translation complete", "tasks", len(result.Tasks), "output", output)

			printUnresolved(result)

			return nil
		},
	}
}

func loadMappings(path string) (*config.Mappings, error) {
	if path == "" {
		return config.DefaultMappings(), nil
	}

	return config.LoadMappings(path)
}

func loadFacts(path string) (config.Facts, error) {
	if path == "" {
		return make(config.Facts), nil
	}

	return config.LoadFacts(path)
}

// loadIndex prefers a live bundle directory; a persisted cache is the
// fallback. Translation still works with no index at all — every call
// reference just lands in the unresolved list.
func loadIndex(logger *slog.Logger, actionsDir, cachePath string) (*actionindex.Index, error) {
	if actionsDir != "" {
		return actionindex.BuildFromDir(logger, actionsDir)
	}

	if cachePath != "" {
		return actionindex.Load(logger, cachePath), nil
	}

	return nil, nil
}

func printUnresolved(result *translate.Result) {
	if len(result.Unresolved) == 0 {
		return
	}

	_, _ = fmt.Fprintln(os.Stdout, "Unresolved action references:")

	items := make([]string, 0, len(result.Unresolved))
	for item := range result.Unresolved {
		items = append(items, item)
	}

	sort.Strings(items)

	for _, item := range items {
		_, _ = fmt.Fprintf(os.Stdout, "  %s: %s\n", item, strings.Join(result.Unresolved[item], ", "))
	}
}
