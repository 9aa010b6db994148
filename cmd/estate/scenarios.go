package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Simplici0/estatecalc/internal/scenario"
)

func (c *cli) newScenariosCmd() *cobra.Command {
	var show string
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the bundled sample scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show != "" {
				sc, ok := scenario.Sample(show)
				if !ok {
					return fmt.Errorf("unknown sample %q", show)
				}
				body, err := sc.Marshal()
				if err != nil {
					return fmt.Errorf("encode sample: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}

			all, err := scenario.Samples()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, sc := range all {
				fmt.Fprintf(tw, "%s\t%s\n", sc.Name, sc.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "Print the YAML of the named sample")
	return cmd
}
