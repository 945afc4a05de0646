package cmd

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/lexgrid/internal/cli/model"
	"github.com/bnema/lexgrid/internal/infrastructure/config"
	"github.com/bnema/lexgrid/internal/logging"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Open the interactive layout inspector",
	Long: `Open the saved layout in an interactive grid.

Drag pane and row borders with the mouse to resize, click a pane to focus it.
Changes are saved as you go. Press ? for key bindings.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		ctx := a.Ctx()
		ws, err := a.OpenWorkspace(ctx, true)
		if err != nil {
			return err
		}

		if err := a.WatchConfig(func(cfg *config.Config) { ws.ApplyConfig(ctx, cfg) }); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("config changes will not apply until restart")
		}

		m := model.NewInspectorModel(ctx, a.Theme, ws.Coord)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
		_, runErr := p.Run()
		return errors.Join(runErr, ws.Close(ctx))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
