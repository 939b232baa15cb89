package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/psantana5/encoder-quality/internal/asset"
	"github.com/psantana5/encoder-quality/internal/sysinfo"
)

var (
	downloadJobs       int
	downloadRetries    int
	downloadAssetLists []string
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:     "download",
	Aliases: []string{"d"},
	Short:   "Download assets resources",
	Long: `Fetches the source files of the selected asset lists into the resources
directory. Files whose checksum already matches are skipped.`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntVarP(&downloadJobs, "jobs", "j", 2*sysinfo.LogicalCores(),
		"number of parallel jobs to use, 0 means all logical cores")
	downloadCmd.Flags().IntVar(&downloadRetries, "retries", 1, "number of retries before failing")
	downloadCmd.Flags().StringSliceVar(&downloadAssetLists, "asset-lists", nil, "asset lists to download")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger()

	jobs := downloadJobs
	if jobs <= 0 {
		jobs = sysinfo.LogicalCores()
	}

	library := asset.NewLibrary(assetsDir, log)
	lists, err := library.Match(downloadAssetLists)
	if err != nil {
		return err
	}

	downloader := &asset.Downloader{
		Jobs:    jobs,
		Retries: downloadRetries,
		Verify:  true,
		Log:     log,
	}
	for _, list := range lists {
		if err := downloader.DownloadList(ctx, list, resourcesDir); err != nil {
			return err
		}
	}
	return nil
}
