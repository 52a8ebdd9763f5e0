package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"adaptive-reader/cmd/reader/cmd/flags"
	"adaptive-reader/internal/app"
	"adaptive-reader/internal/app/export"
)

var (
	endpoint       string
	outputFilePath string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "only export this endpoint (ocr, tts, stt, nlp)")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 1000, "maximum number of records, newest first")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export relay invocation history to excel",
	Long: `Export relay invocation history to excel

- Reads the history store named in the configuration
- Newest invocations come first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := flags.Load()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, cleanup, err := app.InitializeHistoryStore(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := store.List(cmd.Context(), endpoint, limit)
		if err != nil {
			return err
		}

		if err := export.ToExcel(records, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, %d records, exported file path: %v\n", len(records), outputFilePath)
		return nil
	},
}
