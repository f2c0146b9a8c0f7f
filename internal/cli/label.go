package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtrack-dev/subtrack/pkg/client"
)

func newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "label",
		Aliases: []string{"labels"},
		Short:   "Manage subscription labels",
	}

	cmd.AddCommand(newLabelListCmd())
	cmd.AddCommand(newLabelTreeCmd())
	cmd.AddCommand(newLabelCreateCmd())
	cmd.AddCommand(newLabelUpdateCmd())
	cmd.AddCommand(newLabelDeleteCmd())

	return cmd
}

func newLabelListCmd() *cobra.Command {
	var rootsOnly bool
	var parentID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var labels []*client.Label
			var err error
			switch {
			case rootsOnly:
				labels, err = apiClient.Labels().ListRoots(ctx)
			case cmd.Flags().Changed("parent"):
				labels, err = apiClient.Labels().ListChildren(ctx, parentID)
			default:
				labels, err = apiClient.Labels().List(ctx)
			}
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(labels)
			}

			table := NewTable("ID", "NAME", "COLOR", "PARENT", "SYSTEM", "USAGE")
			for _, l := range labels {
				parent := "-"
				if l.ParentID != nil {
					parent = strconv.FormatInt(*l.ParentID, 10)
				}
				system := ""
				if l.SystemLabel {
					system = "yes"
				}
				table.AddRow(
					strconv.FormatInt(l.ID, 10),
					truncate(l.Name, 40),
					l.Color,
					parent,
					system,
					strconv.FormatInt(l.UsageCount, 10),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&rootsOnly, "roots", false, "show only labels without a parent")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "show only children of this label")

	return cmd
}

func newLabelTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show labels as a hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			labels, err := apiClient.Labels().List(context.Background())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(labels)
			}

			children := make(map[int64][]*client.Label)
			var roots []*client.Label
			for _, l := range labels {
				if l.ParentID == nil {
					roots = append(roots, l)
				} else {
					children[*l.ParentID] = append(children[*l.ParentID], l)
				}
			}
			sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })

			var walk func(l *client.Label, depth int)
			walk = func(l *client.Label, depth int) {
				marker := ""
				if l.SystemLabel {
					marker = " (system)"
				}
				fmt.Printf("%s%s%s\n", strings.Repeat("  ", depth), l.Name, marker)

				kids := children[l.ID]
				sort.Slice(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
				for _, child := range kids {
					walk(child, depth+1)
				}
			}
			for _, root := range roots {
				walk(root, 0)
			}
			return nil
		},
	}
}

func newLabelCreateCmd() *cobra.Command {
	var color string
	var parentID int64

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.CreateLabelRequest{
				Name:  args[0],
				Color: color,
			}
			if cmd.Flags().Changed("parent") {
				req.ParentID = &parentID
			}

			l, err := apiClient.Labels().Create(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Created label %q (id %d)\n", l.Name, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "hex color (e.g. #FF6B6B)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "parent label id")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func newLabelUpdateCmd() *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a label's name or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid label id: %s", args[0])
			}

			var req client.UpdateLabelRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("color") {
				req.Color = &color
			}

			l, err := apiClient.Labels().Update(context.Background(), id, req)
			if err != nil {
				return err
			}

			fmt.Printf("Updated label %q (id %d)\n", l.Name, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new hex color")

	return cmd
}

func newLabelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid label id: %s", args[0])
			}

			if err := apiClient.Labels().Delete(context.Background(), id); err != nil {
				return err
			}

			fmt.Printf("Deleted label %d\n", id)
			return nil
		},
	}
}
