package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"farc/internal/fileinfo"
	"farc/internal/index"
	"farc/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and keep the index current",
	Long: `Poll dir for changes and print them. With --update-index, added and
modified files are re-indexed and deleted files are dropped from the
index. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		dir := absPath(args[0])

		var store *index.Store
		if update, _ := cmd.Flags().GetBool("update-index"); update {
			var err error
			store, err = index.Open(cfg.Index, nil)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		handler := watcher.ChangeHandlerFunc(func(changes *watcher.Changes) {
			report(cmd, "A", changes.Added)
			report(cmd, "M", changes.Modified)
			report(cmd, "D", changes.Deleted)
			if store == nil {
				return
			}
			if err := store.Apply(cmd.Context(), changes); err != nil {
				debugPrint("index update failed: %v", err)
			}
		})

		dw := watcher.NewDirectoryWatcher(dir, cfg.Watcher, handler, nil, debugPrint)
		dw.Start()
		defer dw.Stop()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		select {
		case <-sig:
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func report(cmd *cobra.Command, tag string, files []fileinfo.FileInfo) {
	for _, file := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tag, file.Path)
	}
}

func init() {
	watchCmd.Flags().Bool("update-index", false, "Apply detected changes to the content index")
	rootCmd.AddCommand(watchCmd)
}
