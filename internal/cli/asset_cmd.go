package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentinelsec/sentinel/internal/cli/formatter"
	"github.com/sentinelsec/sentinel/internal/domain"
	"github.com/spf13/cobra"
)

func newAssetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage tracked assets",
	}

	cmd.AddCommand(
		newAssetAddCmd(app),
		newAssetInspectCmd(app),
		newAssetListCmd(app),
		newAssetAssignCmd(app),
		newAssetRemoveCmd(app),
	)

	return cmd
}

func newAssetAddCmd(app *App) *cobra.Command {
	var kind, criticality, groupID string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a new asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &domain.Asset{
				Name:        args[0],
				Kind:        domain.AssetKind(kind),
				Criticality: domain.Criticality(criticality),
			}
			if cmd.Flags().Changed("group") {
				a.WorkgroupID = &groupID
			}

			if err := app.Assets.Create(context.Background(), a); err != nil {
				return err
			}

			fmt.Printf("Registered asset %s (%s)\n", a.Name, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Asset kind (host|service|application|database|network)")
	cmd.Flags().StringVar(&criticality, "criticality", "", "Criticality (low|medium|high|critical)")
	cmd.Flags().StringVar(&groupID, "group", "", "Owning workgroup ID")

	return cmd
}

func newAssetInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show asset details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := app.Assets.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(a.Name), formatter.KindBadge(a.Kind)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID         "), formatter.TruncID(a.ID)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("CRITICALITY"), formatter.CriticalityPill(a.Criticality)))
			if a.WorkgroupID != nil {
				w, err := app.Groups.GetByID(ctx, *a.WorkgroupID)
				if err != nil {
					return err
				}
				b.WriteString(fmt.Sprintf("  %s  %s %s\n", formatter.Dim("WORKGROUP  "), w.Name, formatter.TruncID(w.ID)))
			} else {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("WORKGROUP  "), formatter.Dim("unassigned")))
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED    "), formatter.HumanTimestamp(a.UpdatedAt)))

			fmt.Print(formatter.RenderBox("Asset", b.String()))
			return nil
		},
	}
}

func newAssetListCmd(app *App) *cobra.Command {
	var groupID string
	var unassigned bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets in a workgroup, or unassigned ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if cmd.Flags().Changed("group") == unassigned {
				return fmt.Errorf("exactly one of --group and --unassigned is required")
			}

			var assets []*domain.Asset
			var err error
			if unassigned {
				assets, err = app.Assets.ListUnassigned(ctx)
			} else {
				assets, err = app.Assets.ListByWorkgroup(ctx, groupID)
			}
			if err != nil {
				return err
			}

			if len(assets) == 0 {
				fmt.Println(formatter.Dim("No assets."))
				return nil
			}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{
					formatter.TruncID(a.ID),
					a.Name,
					formatter.KindBadge(a.Kind),
					formatter.CriticalityPill(a.Criticality),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "KIND", "CRITICALITY"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&groupID, "group", "", "Workgroup ID")
	cmd.Flags().BoolVar(&unassigned, "unassigned", false, "List assets with no workgroup")

	return cmd
}

func newAssetAssignCmd(app *App) *cobra.Command {
	var groupID string
	var unassign bool

	cmd := &cobra.Command{
		Use:   "assign ID",
		Short: "Assign an asset to a workgroup, or detach it with --unassign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("group") == unassign {
				return fmt.Errorf("exactly one of --group and --unassign is required")
			}

			var target *string
			if !unassign {
				target = &groupID
			}
			if err := app.Assets.Assign(context.Background(), args[0], target); err != nil {
				return err
			}

			if target == nil {
				fmt.Printf("Unassigned asset %s\n", args[0])
			} else {
				fmt.Printf("Assigned asset %s to workgroup %s\n", args[0], *target)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&groupID, "group", "", "Workgroup ID")
	cmd.Flags().BoolVar(&unassign, "unassign", false, "Detach the asset from its workgroup")

	return cmd
}

func newAssetRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assets.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted asset %s\n", args[0])
			return nil
		},
	}
}
