package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and list the method urls the server advertised",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.login(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", s)

			table := tablewriter.NewWriter(out)
			defer table.Close()

			table.Header([]string{"Method", "URL"})
			for _, method := range s.Paths().Methods() {
				url, _ := s.Paths().Get(method)
				_ = table.Append([]string{method, url})
			}

			return table.Render()
		},
	}
}
