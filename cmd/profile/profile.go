// Package profile implements the profile command, which writes and displays
// saved search profiles.
package profile

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/job-crawler/cmd/common"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/spf13/cobra"
)

const flagOut = "out"

// Command returns the profile command and its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved search profiles",
	}
	cmd.AddCommand(newCommand(), showCommand())
	return cmd
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "new",
		Short:   "Write a profile file from flags",
		Example: `  job-crawler profile new -k python,django -l Helsinki --out profile.txt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString(flagOut)
			p, err := common.ApplyProfileFlags(cmd, profile.New(nil, nil, false))
			if err != nil {
				return err
			}
			if err := profile.SaveFile(out, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile written to %s\n", out)
			return nil
		},
	}

	common.AddProfileFlags(cmd)
	cmd.Flags().StringP(flagOut, "o", "", "file to write")
	_ = cmd.MarkFlagRequired(flagOut)

	return cmd
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Display a profile file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.LoadFile(args[0])
			if err != nil {
				return err
			}
			render(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func render(w io.Writer, p profile.Profile) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Setting", "Value"})
	t.AppendRows([]table.Row{
		{"Keywords", listOrAny(p.Keywords)},
		{"Locations", listOrAny(p.Locations)},
		{"Search descriptions", yesNo(p.SearchDescription)},
		{"Require all keywords", yesNo(p.RequireAllKeywords)},
	})
	t.Render()
}

func listOrAny(values []string) string {
	if len(values) == 0 {
		return "(any)"
	}
	return strings.Join(values, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
