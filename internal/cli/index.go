package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"farc/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the persistent content index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build <root>",
	Short: "Index the content of files under a directory",
	Long: `Walk root and store the content of every eligible text file in the
index database. Entries for files that no longer exist are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.Open(loadConfig().Index, nil)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Build(cmd.Context(), absPath(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files\n", n)
		return nil
	},
}

var indexQueryCmd = &cobra.Command{
	Use:   "query <query>",
	Short: "Query indexed file contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.Open(loadConfig().Index, nil)
		if err != nil {
			return err
		}
		defer store.Close()

		scope, _ := cmd.Flags().GetString("scope")
		if scope != "" {
			scope = absPath(scope)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		byName, _ := cmd.Flags().GetBool("name")

		query := store.QueryContent
		if byName {
			query = store.QueryName
		}
		results, err := query(cmd.Context(), args[0], scope, limit)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
		}
		return nil
	},
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.Open(loadConfig().Index, nil)
		if err != nil {
			return err
		}
		defer store.Close()

		files, bytes, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d bytes\n", files, bytes)
		return nil
	},
}

func init() {
	indexQueryCmd.Flags().String("scope", "", "Restrict results to this directory subtree")
	indexQueryCmd.Flags().Int("limit", 0, "Maximum number of results (0 = unbounded)")
	indexQueryCmd.Flags().Bool("name", false, "Query file names instead of content")
	indexCmd.AddCommand(indexBuildCmd, indexQueryCmd, indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}
