package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dshills/codementor/internal/client"
	"github.com/dshills/codementor/internal/output"
)

var (
	flagRemoteJSON  bool
	flagLimit       int
	flagDescription string
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Query the review service's records",
}

// remoteClient loads config and builds a client for the remote subcommands.
func remoteClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadConfig(buildOverrides(cmd))
	if err != nil {
		return nil, err
	}
	return newClient(cfg, newLogger(cfg.LogLevel, os.Stderr)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var remoteHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List reviews recorded by the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		entries, err := c.History(commandContext(cmd), flagLimit)
		if err != nil {
			fail(err)
			return nil
		}
		if flagRemoteJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		return output.WriteHistory(cmd.OutOrStdout(), entries, time.Now())
	},
}

var remoteProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		projects, err := c.Projects(commandContext(cmd))
		if err != nil {
			fail(err)
			return nil
		}
		out := cmd.OutOrStdout()
		if flagRemoteJSON {
			return writeJSON(out, projects)
		}
		if len(projects) == 0 {
			fmt.Fprintln(out, "No projects yet")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\tNAME\tREVIEWS\tAVG SCORE\tDESCRIPTION\n")
		for _, p := range projects {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\t%s\n", p.ID, p.Name, p.ReviewCount, p.AverageScore, p.Description)
		}
		return tw.Flush()
	},
}

var remoteProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var remoteProjectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		p, err := c.CreateProject(commandContext(cmd), args[0], flagDescription)
		if err != nil {
			fail(err)
			return nil
		}
		if flagRemoteJSON {
			return writeJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var remoteStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the service's aggregate statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		stats, err := c.Stats(commandContext(cmd))
		if err != nil {
			fail(err)
			return nil
		}
		out := cmd.OutOrStdout()
		if flagRemoteJSON {
			return writeJSON(out, stats)
		}
		fmt.Fprintf(out, "Total reviews:          %s\n", humanize.Comma(int64(stats.TotalReviews)))
		fmt.Fprintf(out, "Vulnerabilities found:  %s\n", humanize.Comma(int64(stats.TotalVulnerabilities)))
		fmt.Fprintf(out, "Average score:          %.0f\n", stats.AverageScore)
		fmt.Fprintf(out, "Critical issues:        %d\n", stats.CriticalIssues)
		return nil
	},
}

var remoteHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the service is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		h, err := c.Health(commandContext(cmd))
		if err != nil {
			fail(err)
			return nil
		}
		if flagRemoteJSON {
			return writeJSON(cmd.OutOrStdout(), h)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", c.BaseURL(), h.Status, h.Environment)
		return nil
	},
}

func init() {
	remoteCmd.AddCommand(remoteHistoryCmd)
	remoteCmd.AddCommand(remoteProjectsCmd)
	remoteCmd.AddCommand(remoteProjectCmd)
	remoteCmd.AddCommand(remoteStatsCmd)
	remoteCmd.AddCommand(remoteHealthCmd)
	remoteProjectCmd.AddCommand(remoteProjectCreateCmd)

	remoteCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Review service base URL")
	remoteCmd.PersistentFlags().BoolVar(&flagRemoteJSON, "json", false, "Print raw JSON")
	remoteHistoryCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of entries")
	remoteProjectCreateCmd.Flags().StringVar(&flagDescription, "description", "", "Project description")
}
