package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"apartment-search/internal/logger"
)

func newSearchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [key=value]...",
		Short: "Run one search and print the result page as JSON",
		Long: `Run one search through the same filter and executor as the API.

Keys are the API query parameters: name, state, bed, bath, page, size,
sortBy and order. Unknown keys are ignored.`,
		Example: `  apartment-search search name=oak state=tx bed=2
  apartment-search search page=1 size=5 sortBy=minRent order=desc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := criteriaFromArgs(args)
			if err != nil {
				return err
			}

			// Logs go to stderr so stdout stays valid JSON.
			log := logger.NewWithWriter(a.cfg.Log, cmd.ErrOrStderr())
			rt, err := a.newRuntime(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer rt.close()

			page, err := rt.search.Execute(cmd.Context(), rt.compiler.Compile(criteria))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(page)
		},
	}
	return cmd
}
