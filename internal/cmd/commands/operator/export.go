package operator

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/apigovau/service-catalogue/internal/cmd/base"
	"github.com/apigovau/service-catalogue/internal/config"
	"github.com/apigovau/service-catalogue/internal/db"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
	"github.com/apigovau/service-catalogue/pkg/catalogue/adapters/gormstore"
)

// ExportCommand writes every service description, full history included,
// as one JSON file per document. It reads the database directly: running
// it requires the same access as running migrations, so no additional
// authorization gate applies here.
type ExportCommand struct {
	*base.Command

	flagConfig string
	flagOut    string
}

func (c *ExportCommand) Synopsis() string {
	return "Export all service descriptions with full history"
}

func (c *ExportCommand) Help() string {
	return `Usage: service-catalogue operator export -config=<config-file> -out=<dir>

  Export every service description as a JSON file named <id>.json in the
  output directory.` +
		c.Flags().Help()
}

func (c *ExportCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("export", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "config.hcl",
		"Path to the configuration file.",
	)
	f.StringVar(
		&c.flagOut, "out", "catalogue-export",
		"Directory to write exported documents into.",
	)

	return f
}

func (c *ExportCommand) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	database, err := db.NewDB(cfg.Database, c.Log.Named("db"))
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing database: %v", err))
		return 1
	}

	repo := gormstore.NewRepository(database)
	count, err := exportAll(context.Background(), afero.NewOsFs(), c.flagOut, repo)
	if err != nil {
		ui.Error(fmt.Sprintf("error exporting service descriptions: %v", err))
		return 1
	}

	ui.Info(fmt.Sprintf("exported %d service descriptions to %s", count, c.flagOut))
	return 0
}

// exportAll writes every document in the repository to dir, one JSON file
// per document, and returns the number written.
func exportAll(ctx context.Context, fs afero.Fs, dir string, repo catalogue.Repository) (int, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("error creating output directory: %w", err)
	}

	docs, err := repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error reading service descriptions: %w", err)
	}

	for _, sd := range docs {
		data, err := json.MarshalIndent(sd, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("error marshaling %s: %w", sd.ID, err)
		}
		path := filepath.Join(dir, sd.ID+".json")
		if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
			return 0, fmt.Errorf("error writing %s: %w", path, err)
		}
	}

	return len(docs), nil
}
