package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects and their counters",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var incCmd = &cobra.Command{
	Use:   "inc <project-id> <counter-id>",
	Short: "Increment a counter and cascade to linked counters",
	Args:  cobra.ExactArgs(2),
	RunE:  runInc,
}

var decCmd = &cobra.Command{
	Use:   "dec <project-id> <counter-id>",
	Short: "Decrement a counter",
	Args:  cobra.ExactArgs(2),
	RunE:  runDec,
}

var resetCmd = &cobra.Command{
	Use:   "reset <project-id> <counter-id>",
	Short: "Reset a counter and its linked counters to their minimums",
	Args:  cobra.ExactArgs(2),
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(listCmd, incCmd, decCmd, resetCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, closeStore, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	projects, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	}
	if len(projects) == 0 {
		fmt.Fprintln(out, "no projects")
		return nil
	}
	return printProjects(out, projects)
}

func runInc(cmd *cobra.Command, args []string) error {
	svc, closeStore, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := svc.IncrementCounter(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	return printChange(cmd.OutOrStdout(), res.Project, args[1], res.TriggeredCounterIDs)
}

func runDec(cmd *cobra.Command, args []string) error {
	svc, closeStore, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := svc.DecrementCounter(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	return printChange(cmd.OutOrStdout(), p, args[1], nil)
}

func runReset(cmd *cobra.Command, args []string) error {
	svc, closeStore, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := svc.ResetCounter(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	ids := make([]string, 0)
	for _, c := range p.Children(args[1]) {
		ids = append(ids, c.ID)
	}
	return printChange(cmd.OutOrStdout(), p, args[1], ids)
}

func printProjects(w io.Writer, projects []project.Project) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range projects {
		status := "active"
		if !p.IsActive {
			status = "completed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, status)
		for _, c := range p.Counters {
			fmt.Fprintf(tw, "  %s\n", counterLine(&p, &c))
		}
	}
	return tw.Flush()
}

func printChange(w io.Writer, p *project.Project, counterID string, affected []string) error {
	c, ok := p.Counter(counterID)
	if !ok {
		return fmt.Errorf("counter %q missing from result", counterID)
	}
	fmt.Fprintln(w, counterLine(p, c))
	for _, id := range affected {
		if child, ok := p.Counter(id); ok {
			fmt.Fprintf(w, "  -> %s\n", counterLine(p, child))
		}
	}
	return nil
}

func counterLine(p *project.Project, c *project.Counter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%d [%d..%d] step %d", c.ID, c.Name, c.Value, c.Min, c.Max, c.Step)
	if c.IsLinked() {
		target := *c.LinkedToCounterID
		if parent, ok := p.LinkTarget(*c); ok {
			target = parent.Name
		}
		trigger := 0
		if c.TriggerValue != nil {
			trigger = *c.TriggerValue
		}
		fmt.Fprintf(&b, " every %d of %s", trigger, target)
	}
	if c.IsManuallyDisabled {
		b.WriteString(" (disabled)")
	}
	return b.String()
}
