package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/encoder-quality/internal/asset"
)

var (
	listAssetLists []string
	listAssets     bool
	listCheck      bool
	listVerbose    bool
	listCatalog    string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "Show available asset lists and encoders",
	Long:    `Shows the asset lists found in the assets directories and the known encoders.`,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringSliceVar(&listAssetLists, "asset-lists", nil, "show only the asset lists given")
	listCmd.Flags().BoolVarP(&listAssets, "assets", "a", false, "show assets of asset lists")
	listCmd.Flags().BoolVarP(&listCheck, "check", "c", false, "check which encoders can be run successfully")
	listCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "show stdout and stderr of executed commands")
	listCmd.Flags().StringVar(&listCatalog, "encoder-catalog", "", "YAML file with extra encoder variants")
}

func runList(cmd *cobra.Command, args []string) error {
	log := newLogger()

	library := asset.NewLibrary(assetsDir, log)
	lists, err := library.Match(listAssetLists)
	if err != nil {
		return err
	}

	fmt.Println("Available asset lists:")
	listTable := tablewriter.NewWriter(os.Stdout)
	if listAssets {
		listTable.Header("List", "Asset", "Source", "Checksum")
		for _, list := range lists {
			for _, a := range list.Assets {
				listTable.Append(list.Name, a.Name, a.Source, a.Checksum)
			}
		}
	} else {
		listTable.Header("Name", "Description", "Assets")
		for _, list := range lists {
			listTable.Append(list.Name, list.Description, fmt.Sprintf("%d", len(list.Assets)))
		}
	}
	listTable.Render()

	registry, err := buildRegistry(listCatalog)
	if err != nil {
		return err
	}

	fmt.Println("\nAvailable encoders:")
	encTable := tablewriter.NewWriter(os.Stdout)
	if listCheck {
		encTable.Header("Name", "Codec", "Description", "Available")
		for _, enc := range registry.Encoders() {
			mark := "✗"
			if enc.Check(cmd.Context(), listVerbose) {
				mark = "✓"
			}
			encTable.Append(enc.Name(), enc.Codec().String(), enc.Description(), mark)
		}
	} else {
		encTable.Header("Name", "Codec", "Description")
		for _, enc := range registry.Encoders() {
			encTable.Append(enc.Name(), enc.Codec().String(), enc.Description())
		}
	}
	encTable.Render()

	return nil
}
