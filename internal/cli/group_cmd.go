package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentinelsec/sentinel/internal/cli/formatter"
	"github.com/sentinelsec/sentinel/internal/domain"
	"github.com/sentinelsec/sentinel/internal/service"
	"github.com/spf13/cobra"
)

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage the workgroup hierarchy",
	}

	cmd.AddCommand(
		newGroupAddCmd(app),
		newGroupInspectCmd(app),
		newGroupUpdateCmd(app),
		newGroupMoveCmd(app),
		newGroupRemoveCmd(app),
		newGroupRootsCmd(app),
		newGroupChildrenCmd(app),
		newGroupAncestorsCmd(app),
		newGroupTreeCmd(app),
	)

	return cmd
}

func newGroupAddCmd(app *App) *cobra.Command {
	var parentID, description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a workgroup, at root level or under --parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			req := service.CreateWorkgroupRequest{
				Name:        args[0],
				Description: description,
				ActorID:     app.actor(),
			}

			var w *domain.Workgroup
			var err error
			if cmd.Flags().Changed("parent") {
				w, err = app.Groups.CreateChild(ctx, parentID, req)
			} else {
				w, err = app.Groups.CreateRoot(ctx, req)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Created workgroup %s (%s)\n", w.Name, w.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Parent workgroup ID")
	cmd.Flags().StringVar(&description, "desc", "", "Description")

	return cmd
}

func newGroupInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show workgroup details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := app.Groups.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			ancestors, err := app.Groups.Ancestors(ctx, w.ID)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(ancestors)+1)
			for _, a := range ancestors {
				names = append(names, a.Name)
			}
			names = append(names, w.Name)

			count, err := app.Groups.DescendantCount(ctx, w.ID)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(formatter.Breadcrumb(names) + "\n\n")
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID         "), formatter.TruncID(w.ID)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("VERSION    "), formatter.VersionBadge(w.Version)))
			if w.ParentID != nil {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("PARENT     "), formatter.TruncID(*w.ParentID)))
			} else {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("PARENT     "), formatter.Dim("root")))
			}
			if w.Description != "" {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("DESC       "), w.Description))
			}
			b.WriteString(fmt.Sprintf("  %s  %d\n", formatter.Dim("DESCENDANTS"), count))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED    "), formatter.HumanTimestamp(w.UpdatedAt)))

			children, err := app.Groups.ListChildren(ctx, w.ID)
			if err != nil {
				return err
			}
			if len(children) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Children"))
				b.WriteString("\n")
				rows := make([][]string, 0, len(children))
				for _, c := range children {
					rows = append(rows, []string{
						formatter.TruncID(c.ID),
						c.Name,
						formatter.VersionBadge(c.Version),
					})
				}
				b.WriteString(formatter.RenderTable([]string{"ID", "NAME", "VERSION"}, rows))
			}

			assets, err := app.Assets.ListByWorkgroup(ctx, w.ID)
			if err != nil {
				return err
			}
			if len(assets) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Assets"))
				b.WriteString("\n")
				rows := make([][]string, 0, len(assets))
				for _, a := range assets {
					rows = append(rows, []string{
						formatter.TruncID(a.ID),
						a.Name,
						formatter.KindBadge(a.Kind),
						formatter.CriticalityPill(a.Criticality),
					})
				}
				b.WriteString(formatter.RenderTable([]string{"ID", "NAME", "KIND", "CRITICALITY"}, rows))
			}

			fmt.Print(formatter.RenderBox("Workgroup", b.String()))
			return nil
		},
	}
}

func newGroupUpdateCmd(app *App) *cobra.Command {
	var name, description string
	var version int

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename a workgroup or edit its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.UpdateWorkgroupRequest{
				ID:              args[0],
				ExpectedVersion: version,
				ActorID:         app.actor(),
			}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("desc") {
				req.Description = &description
			}

			w, err := app.Groups.Update(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Updated workgroup %s, now at version %d\n", w.Name, w.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().IntVar(&version, "version", 0, "Expected current version")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func newGroupMoveCmd(app *App) *cobra.Command {
	var parentID string
	var toRoot bool
	var version int

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Reparent a workgroup under --to, or promote it with --to-root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("to") == toRoot {
				return fmt.Errorf("exactly one of --to and --to-root is required")
			}

			req := service.MoveWorkgroupRequest{
				ID:              args[0],
				ExpectedVersion: version,
				ActorID:         app.actor(),
			}
			if !toRoot {
				req.NewParentID = &parentID
			}

			w, err := app.Groups.Move(context.Background(), req)
			if err != nil {
				return err
			}

			if w.ParentID == nil {
				fmt.Printf("Moved workgroup %s to root level\n", w.Name)
			} else {
				fmt.Printf("Moved workgroup %s under %s\n", w.Name, *w.ParentID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&parentID, "to", "", "New parent workgroup ID")
	cmd.Flags().BoolVar(&toRoot, "to-root", false, "Move to root level")
	cmd.Flags().IntVar(&version, "version", 0, "Expected current version")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func newGroupRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a workgroup, promoting its children to its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Groups.Delete(context.Background(), args[0], app.actor())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted workgroup %s: %d children promoted, %d assets reassigned\n",
				args[0], result.ChildrenPromoted, result.AssetsReassigned)
			return nil
		},
	}
}

func newGroupRootsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "List root workgroups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := app.Groups.ListRoots(context.Background())
			if err != nil {
				return err
			}
			printWorkgroupTable(roots)
			return nil
		},
	}
}

func newGroupChildrenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "children ID",
		Short: "List the direct children of a workgroup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			children, err := app.Groups.ListChildren(context.Background(), args[0])
			if err != nil {
				return err
			}
			printWorkgroupTable(children)
			return nil
		},
	}
}

func newGroupAncestorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors ID",
		Short: "Show the path from the root down to a workgroup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := app.Groups.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			ancestors, err := app.Groups.Ancestors(ctx, w.ID)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(ancestors)+1)
			for _, a := range ancestors {
				names = append(names, a.Name)
			}
			names = append(names, w.Name)
			fmt.Println(formatter.Breadcrumb(names))
			return nil
		},
	}
}

func newGroupTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [ID]",
		Short: "Render a workgroup subtree, or every root when no ID is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var tops []*domain.Workgroup
			if len(args) == 1 {
				w, err := app.Groups.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				tops = []*domain.Workgroup{w}
			} else {
				roots, err := app.Groups.ListRoots(ctx)
				if err != nil {
					return err
				}
				tops = roots
			}

			var items []formatter.TreeItem
			for _, w := range tops {
				if err := collectTreeItems(ctx, app, w, 0, true, &items); err != nil {
					return err
				}
			}
			fmt.Print(formatter.RenderTree(items))
			return nil
		},
	}
}

// collectTreeItems walks the subtree depth-first, children in the service's
// name order, appending one TreeItem per workgroup.
func collectTreeItems(ctx context.Context, app *App, w *domain.Workgroup, level int, isLast bool, items *[]formatter.TreeItem) error {
	*items = append(*items, formatter.TreeItem{
		Name:   w.Name,
		ID:     w.ID,
		Level:  level,
		IsLast: isLast,
	})

	children, err := app.Groups.ListChildren(ctx, w.ID)
	if err != nil {
		return err
	}
	for i, c := range children {
		if err := collectTreeItems(ctx, app, c, level+1, i == len(children)-1, items); err != nil {
			return err
		}
	}
	return nil
}

func printWorkgroupTable(groups []*domain.Workgroup) {
	if len(groups) == 0 {
		fmt.Println(formatter.Dim("No workgroups."))
		return
	}
	rows := make([][]string, 0, len(groups))
	for _, w := range groups {
		rows = append(rows, []string{
			formatter.TruncID(w.ID),
			w.Name,
			formatter.VersionBadge(w.Version),
			formatter.HumanTimestamp(w.UpdatedAt),
		})
	}
	fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "VERSION", "UPDATED"}, rows))
}
