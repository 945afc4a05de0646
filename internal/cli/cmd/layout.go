package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/cli"
	"github.com/bnema/lexgrid/internal/cli/styles"
	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/ui/coordinator"
)

const (
	defaultShowWidth  = 80
	defaultShowHeight = 24
)

var (
	showJSON    bool
	showOutline bool
	showWidth   int
	showHeight  int

	splitDown     bool
	openPane      string
	moveFrom      string
	moveTo        string
	moveDuplicate bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect and edit the saved layout",
	Long: `Inspect and edit the layout saved for a window.

Every editing command restores the saved layout, applies one change and
saves the result.`,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved layout",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		out, err := a.RestoreUC.Execute(a.Ctx(), usecase.RestoreLayoutInput{WindowStateID: a.WindowStateID()})
		if err != nil {
			return fmt.Errorf("restore layout: %w", err)
		}

		switch {
		case showJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entity.StateFromLayout(out.Layout))
		case showOutline:
			fmt.Print(styles.DescribeLayout(out.Layout))
		default:
			fmt.Println(styles.RenderLayout(a.Theme, out.Layout, showWidth, showHeight))
		}
		if !out.Restored {
			fmt.Fprintln(os.Stderr, "no saved layout; showing the default")
		} else if out.DroppedTabs > 0 {
			fmt.Fprintf(os.Stderr, "%d tab(s) point to missing files and were dropped\n", out.DroppedTabs)
		}
		return nil
	},
}

var layoutResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the saved layout with a single empty pane",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		l, err := a.SaveUC.Reset(a.Ctx(), a.WindowStateID())
		if err != nil {
			return err
		}
		fmt.Print(styles.DescribeLayout(l))
		return nil
	},
}

var layoutSplitCmd = &cobra.Command{
	Use:   "split [pane-id]",
	Short: "Split a pane (the active one by default)",
	Long: `Split a pane to the right, or below with --down.

The new pane id is printed on success.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withWorkspace(func(ctx context.Context, c *coordinator.WorkspaceCoordinator) error {
			target := c.CurrentLayout().ActivePaneID
			if len(args) == 1 {
				target = entity.PaneID(args[0])
			}
			var newID entity.PaneID
			if splitDown {
				newID = c.SplitHorizontal(ctx, target)
			} else {
				newID = c.SplitVertical(ctx, target)
			}
			fmt.Println(newID)
			return nil
		})
	},
}

var layoutCloseCmd = &cobra.Command{
	Use:   "close <pane-id>",
	Short: "Close a pane",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withWorkspace(func(ctx context.Context, c *coordinator.WorkspaceCoordinator) error {
			c.ClosePane(ctx, entity.PaneID(args[0]))
			return nil
		})
	},
}

var layoutFocusCmd = &cobra.Command{
	Use:   "focus <n>",
	Short: "Focus the n-th pane (1-based, visual order)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid pane number %q", args[0])
		}
		return withWorkspace(func(ctx context.Context, c *coordinator.WorkspaceCoordinator) error {
			c.FocusPaneN(ctx, n-1)
			return nil
		})
	},
}

var layoutOpenCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open a file in a pane (the active one by default)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withWorkspace(func(ctx context.Context, c *coordinator.WorkspaceCoordinator) error {
			c.OpenFile(ctx, args[0], entity.PaneID(openPane))
			return nil
		})
	},
}

var layoutMoveCmd = &cobra.Command{
	Use:   "move <path>",
	Short: "Move a tab to another pane",
	Long: `Move the tab showing <path> from --from to --to. With --duplicate the
source keeps its tab. Without --from the path is opened in --to as if dropped
from a file tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if moveTo == "" {
			return fmt.Errorf("--to is required")
		}
		return withWorkspace(func(ctx context.Context, c *coordinator.WorkspaceCoordinator) error {
			c.MoveTab(ctx, usecase.MoveTabInput{
				TabPath:      args[0],
				SourcePaneID: entity.PaneID(moveFrom),
				TargetPaneID: entity.PaneID(moveTo),
				Duplicate:    moveDuplicate,
			})
			return nil
		})
	},
}

var layoutSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the persisted layout record",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		data, err := LayoutSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// LayoutSchema returns the JSON schema of the persisted layout record.
func LayoutSchema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&entity.LayoutState{})
	schema.ID = "https://github.com/bnema/lexgrid/layout.schema.json"
	schema.Title = "lexgrid window layout"
	return json.MarshalIndent(schema, "", "  ")
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutShowCmd, layoutResetCmd, layoutSplitCmd, layoutCloseCmd,
		layoutFocusCmd, layoutOpenCmd, layoutMoveCmd, layoutSchemaCmd)

	layoutShowCmd.Flags().BoolVar(&showJSON, "json", false, "output the persisted record as JSON")
	layoutShowCmd.Flags().BoolVar(&showOutline, "outline", false, "output one line per row with shares")
	layoutShowCmd.Flags().IntVar(&showWidth, "width", defaultShowWidth, "grid width in cells")
	layoutShowCmd.Flags().IntVar(&showHeight, "height", defaultShowHeight, "grid height in cells")

	layoutSplitCmd.Flags().BoolVar(&splitDown, "down", false, "split into a new row below")
	layoutOpenCmd.Flags().StringVar(&openPane, "pane", "", "target pane id")
	layoutMoveCmd.Flags().StringVar(&moveFrom, "from", "", "source pane id")
	layoutMoveCmd.Flags().StringVar(&moveTo, "to", "", "target pane id")
	layoutMoveCmd.Flags().BoolVar(&moveDuplicate, "duplicate", false, "keep the tab in the source pane")
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}

// withWorkspace restores the layout, runs fn and saves the result.
func withWorkspace(fn func(ctx context.Context, c *coordinator.WorkspaceCoordinator) error) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()
	ws, err := a.OpenWorkspace(ctx, false)
	if err != nil {
		return err
	}

	runErr := fn(ctx, ws.Coord)
	closeErr := ws.Close(ctx)
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}
	fmt.Fprint(os.Stderr, styles.DescribeLayout(ws.Coord.CurrentLayout()))
	return nil
}
