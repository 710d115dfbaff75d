package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playmate/internal/recommend"
)

func newDirectCommand(ctx *commandContext) *cobra.Command {
	var (
		profile profileFlags
		model   string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "direct",
		Short: "Ask the model for five picks without checking the game catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := profile.profile()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			generator, err := ctx.textGenerator(model)
			if err != nil {
				return err
			}
			result, err := recommend.NewDirect(generator, logger).Recommend(cmd.Context(), recommend.CompileProfile(prof))
			if err != nil {
				return userFacingError(logger, err)
			}
			if jsonOut {
				return writeJSON(cmd, result)
			}
			printDirect(cmd.OutOrStdout(), result)
			return nil
		},
	}

	profile.register(cmd)
	cmd.Flags().StringVar(&model, "model", "", "Override llm.model for this run")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the reply as JSON")
	return cmd
}

func printDirect(out io.Writer, result *recommend.DirectResult) {
	rows := make([][]string, 0, len(result.Recommendations))
	for i, pick := range result.Recommendations {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			pick.Title,
			pick.Genre,
			strings.Join(pick.Platforms, ", "),
			pick.PriceRangeKRW,
			pick.WhyRecommended,
			pick.TimeFit,
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{header: "#", right: true},
		{header: "Title", maxWidth: 28},
		{header: "Genre", maxWidth: 16},
		{header: "Platforms", maxWidth: 24},
		{header: "Price (KRW)", maxWidth: 16},
		{header: "Why", maxWidth: 40},
		{header: "Time fit", maxWidth: 24},
	}, rows))
	for _, pick := range result.Recommendations {
		if pick.CautionOrNote != "" {
			fmt.Fprintf(out, "! %s: %s\n", pick.Title, pick.CautionOrNote)
		}
	}
	if result.Summary != "" {
		fmt.Fprintln(out, result.Summary)
	}
	fmt.Fprintln(out, result.PriceDisclaimer)
}
