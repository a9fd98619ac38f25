package cli

import (
	"github.com/sentinelsec/sentinel/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Groups service.WorkgroupService
	Assets service.AssetService

	// DefaultActor is recorded on mutations when --actor is not given.
	DefaultActor string

	actorOverride string
}

func (a *App) actor() string {
	if a.actorOverride != "" {
		return a.actorOverride
	}
	if a.DefaultActor != "" {
		return a.DefaultActor
	}
	return "unknown"
}

// NewRootCmd creates the top-level "sentinel" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sentinel",
		Short: "Security workgroup and asset tracker",
	}

	root.PersistentFlags().StringVar(&app.actorOverride, "actor", "", "Actor ID recorded on mutations")

	root.AddCommand(
		newGroupCmd(app),
		newAssetCmd(app),
	)

	return root
}
