package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"farc/internal/archive"
	"farc/internal/jobs"
)

var compressCmd = &cobra.Command{
	Use:   "compress <source>... <dest>",
	Short: "Create an archive from files and directories",
	Long: `Create an archive containing the given sources. The format is taken
from the destination's extension unless -f overrides it. A single file
compressed to gzip, bzip2 or lz4 becomes a bare compressed stream;
multiple sources or directories are wrapped in a tar archive first.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, dest := args[:len(args)-1], args[len(args)-1]

		var format archive.Format
		if name, _ := cmd.Flags().GetString("format"); name != "" {
			f, ok := archive.ParseFormat(name)
			if !ok {
				return fmt.Errorf("unknown format %q", name)
			}
			format = f
		} else {
			f, ok := archive.FormatForPath(dest)
			if !ok {
				return fmt.Errorf("cannot determine format from %q; use -f", dest)
			}
			format = f
		}

		m := newJobManager()
		defer m.Close()
		snap := m.Wait(m.EnqueueCompress(absAll(sources), absPath(dest), format))
		if snap.Status != jobs.StatusCompleted {
			return fmt.Errorf("compress failed: %s", snap.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), snap.Output)
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <archive> [dest]",
	Short: "Extract an archive into a directory",
	Long: `Extract the archive into dest, creating it if needed. Without dest the
archive is extracted into the current directory. Existing files are
overwritten.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := "."
		if len(args) == 2 {
			dest = args[1]
		}
		m := newJobManager()
		defer m.Close()
		snap := m.Wait(m.EnqueueExtract(absPath(args[0]), absPath(dest)))
		if snap.Status != jobs.StatusCompleted {
			return fmt.Errorf("extract failed: %s", snap.Error)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List archive contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		manager := archive.NewManager(cfg.Archive, nil)
		items, err := manager.List(cmd.Context(), absPath(args[0]))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for _, item := range items {
			kind := "-"
			if item.IsDir {
				kind = "d"
			}
			modified := ""
			if !item.Modified.IsZero() {
				modified = item.Modified.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", kind, item.Size, modified, item.Name)
		}
		return w.Flush()
	},
}

var copyCmd = &cobra.Command{
	Use:   "cp <source>... <destdir>",
	Short: "Copy files and directories",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(args, false)
	},
}

var moveCmd = &cobra.Command{
	Use:   "mv <source>... <destdir>",
	Short: "Move files and directories",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(args, true)
	},
}

func runTransfer(args []string, move bool) error {
	sources, dest := absAll(args[:len(args)-1]), absPath(args[len(args)-1])
	m := newJobManager()
	defer m.Close()

	var j *jobs.Job
	if move {
		j = m.EnqueueMove(sources, dest)
	} else {
		j = m.EnqueueCopy(sources, dest)
	}
	snap := m.Wait(j)
	if snap.Status != jobs.StatusCompleted {
		if len(snap.Failures) > 0 {
			f := snap.Failures[0]
			return fmt.Errorf("%s: %s", f.TopSource, f.Error)
		}
		return fmt.Errorf("transfer failed: %s", snap.Error)
	}
	return nil
}

func newJobManager() *jobs.Manager {
	cfg := loadConfig()
	m := jobs.NewManager(archive.NewManager(cfg.Archive, nil))
	if debugMode {
		m.Subscribe(func() {
			for _, snap := range m.List() {
				if snap.Status == jobs.StatusRunning {
					debugPrint("job %d %s: %d/%d %s", snap.ID, snap.Type, snap.DoneFiles, snap.TotalFiles, snap.CurrentSource)
				}
			}
		})
	}
	return m
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func absAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = absPath(p)
	}
	return out
}

func init() {
	compressCmd.Flags().StringP("format", "f", "", "Archive format (zip, tar, gzip, bzip2, lz4, 7z)")
	rootCmd.AddCommand(compressCmd, extractCmd, listCmd, copyCmd, moveCmd)
}
