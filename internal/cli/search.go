package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"farc/internal/config"
	"farc/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a directory tree",
}

var searchNameCmd = &cobra.Command{
	Use:   "name <root> <query>",
	Short: "Search by file name",
	Long: `Recursively search root for entries whose name matches the query.
Both files and directories are eligible matches.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := searchOptions(cmd, loadConfig().Search)
		if err != nil {
			return err
		}
		engine := search.NewEngine(nil)
		results, err := engine.SearchByName(cmd.Context(), absPath(args[0]), args[1], opts)
		if err != nil {
			return err
		}
		printResults(cmd, results)
		return nil
	},
}

var searchContentCmd = &cobra.Command{
	Use:   "content <root> <query>",
	Short: "Search file contents",
	Long: `Recursively search root for text files whose content matches the query.
Binary files and files over the configured size limit are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := searchOptions(cmd, loadConfig().Search)
		if err != nil {
			return err
		}
		exts, _ := cmd.Flags().GetStringSlice("ext")
		engine := search.NewEngine(nil)
		results, err := engine.SearchByContent(cmd.Context(), absPath(args[0]), args[1], exts, opts)
		if err != nil {
			return err
		}
		printResults(cmd, results)
		return nil
	},
}

func searchOptions(cmd *cobra.Command, defaults config.SearchConfig) (search.Options, error) {
	opts := search.Options{
		MaxResults:      defaults.MaxResults,
		IncludeHidden:   defaults.IncludeHidden,
		FileSizeLimit:   defaults.FileSizeLimit,
		ExcludePatterns: defaults.ExcludePatterns,
	}

	matchName, _ := cmd.Flags().GetString("match")
	mt, ok := search.ParseMatchType(matchName)
	if !ok {
		return opts, fmt.Errorf("unknown match type %q", matchName)
	}
	opts.MatchType = mt
	opts.CaseSensitive, _ = cmd.Flags().GetBool("case-sensitive")

	if cmd.Flags().Changed("max-results") {
		opts.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	if hidden, _ := cmd.Flags().GetBool("hidden"); hidden {
		opts.IncludeHidden = true
	}
	if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
		opts.ExcludePatterns = exclude
	}
	return opts, nil
}

func printResults(cmd *cobra.Command, results []search.Result) {
	for _, r := range results {
		fmt.Fprintln(cmd.OutOrStdout(), r.Path)
	}
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("match", "contains", "Match strategy (contains, starts-with, ends-with, exact, regex, glob)")
	cmd.Flags().Bool("case-sensitive", false, "Match case-sensitively")
	cmd.Flags().Int("max-results", 0, "Stop after this many results (0 = unbounded)")
	cmd.Flags().Bool("hidden", false, "Include hidden files and directories")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns excluded from the walk")
}

func init() {
	addSearchFlags(searchNameCmd)
	addSearchFlags(searchContentCmd)
	searchContentCmd.Flags().StringSlice("ext", nil, "Only consider files with these extensions")
	searchCmd.AddCommand(searchNameCmd, searchContentCmd)
	rootCmd.AddCommand(searchCmd)
}
