// Command toolstream provides maintenance utilities for tool catalogs and
// recorded traces.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolstream/catalog"
	"github.com/jonwraymond/toolstream/trace"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toolstream",
		Short: "Utilities for toolstream catalogs and traces",
	}
	root.AddCommand(newValidateCmd())
	root.AddCommand(newTraceCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var render bool
	cmd := &cobra.Command{
		Use:   "validate <catalog-file>",
		Short: "Check a tool catalog file and list the tools it declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tools\n", cat.Len())
			for _, name := range cat.Names() {
				tool, _ := cat.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s\n", name, tool.Description)
			}
			if render {
				fmt.Fprintln(cmd.OutOrStdout(), cat.PromptBlock())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "Also print the rendered available-tools block")
	return cmd
}

func newTraceCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "trace <trace-file>",
		Short: "Pretty-print a JSONL trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
			line := 0
			for scanner.Scan() {
				line++
				if len(scanner.Bytes()) == 0 {
					continue
				}
				var c trace.Complete
				if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
					return fmt.Errorf("line %d: %w", line, err)
				}
				fmt.Fprintf(out, "%s  %s\n", c.Timestamp.Format("2006-01-02 15:04:05"), c.ID)
				fmt.Fprintf(out, "  output: %s\n", c.FinalCleanOutput)
				if full {
					for _, ev := range c.Conversation {
						fmt.Fprintf(out, "  [%s] %s\n", ev.Role, ev.Content)
					}
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print the full tagged conversation for each trace")
	return cmd
}
