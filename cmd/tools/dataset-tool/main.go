// cmd/tools/dataset-tool/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/store"
	ld "campaign-builder/internal/workers/dataset/load-dataset"
	vd "campaign-builder/internal/workers/dataset/validate-dataset"
	gc "campaign-builder/internal/workers/outreach/generate-contacts"
	qc "campaign-builder/internal/workers/qualification/qualify-companies"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// env is shared by every subcommand. Storage is in-memory, so switching
// datasets or saving overrides never outlives the process.
type env struct {
	dir     string
	dataset string
	verbose bool

	log     logger.Logger
	kv      *store.MemoryStore
	manager *dataset.Manager
}

func (e *env) init(ctx context.Context) error {
	e.log = logger.NewNoOpLogger()
	if e.verbose {
		e.log = logger.NewStructured("debug", "console")
	}

	var source dataset.Source = dataset.Bundled()
	if e.dir != "" {
		source = dataset.NewDirSource(e.dir)
	}
	e.kv = store.NewMemoryStore()
	e.manager = dataset.NewManager(source, e.kv, dataset.DefaultName, e.log)

	if e.dataset == "" {
		return nil
	}
	if err := e.manager.Switch(ctx, e.dataset); err != nil {
		return fmt.Errorf("dataset %q could not be activated: %w", e.dataset, err)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:          "dataset-tool",
		Short:        "Inspect campaign-builder datasets and preview generated data",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&e.dir, "dir", "", "Dataset directory (defaults to the bundled datasets)")
	root.PersistentFlags().StringVar(&e.dataset, "dataset", "", "Dataset to activate before running the command")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newListCmd(e),
		newValidateCmd(e),
		newInspectCmd(e),
		newQualifyCmd(e),
		newContactsCmd(e),
	)
	return root
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := e.manager.ListDatasets(cmd.Context())
			if err != nil {
				return err
			}
			active := e.manager.ActiveDatasetName(cmd.Context())
			for _, name := range names {
				marker := " "
				if name == active {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

func newValidateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dataset...]",
		Short: "Validate datasets; all available datasets when none are named",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			names := args
			if len(names) == 0 {
				var err error
				if names, err = e.manager.ListDatasets(ctx); err != nil {
					return err
				}
			}

			h := vd.NewHandler(vd.LoadConfig(), e.manager, nil, e.log)
			failed := 0
			for _, name := range names {
				out := h.Execute(ctx, &vd.Input{DatasetName: name})
				if out.Valid {
					fmt.Fprintf(cmd.OutOrStdout(), "ok      %s\n", name)
					continue
				}
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "invalid %s\n", name)
				for _, problem := range out.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "        - %s\n", problem)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d datasets invalid", failed, len(names))
			}
			return nil
		},
	}
}

func newInspectCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the active dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := ld.NewHandler(ld.LoadConfig(), e.manager, store.NewOverrideStore(e.kv, e.log), nil, e.log)
			out, err := h.Execute(cmd.Context(), &ld.Input{})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "dataset\t%s\n", out.DatasetName)
			fmt.Fprintf(tw, "version\t%s\n", out.Config.Version)
			fmt.Fprintf(tw, "companies\t%d\n", len(out.Companies))
			fmt.Fprintf(tw, "agents\t%d\n", len(out.Agents))
			fmt.Fprintf(tw, "personas\t%d\n", len(out.Personas))
			fmt.Fprintf(tw, "persona categories\t%d\n", len(out.PersonaCategories))
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			tw = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "AGENT\tQUESTION TYPE\tTITLE")
			for _, a := range out.Agents {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.QuestionType, a.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full load-dataset output as JSON")
	return cmd
}

func newQualifyCmd(e *env) *cobra.Command {
	var input qc.Input

	cmd := &cobra.Command{
		Use:     "qualify",
		Short:   "Preview qualification results for an agent",
		Example: "  dataset-tool qualify --agent marketing-hiring --seed 42",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := qc.NewHandler(qc.LoadConfig(), e.manager, store.NewOverrideStore(e.kv, e.log), nil, e.log)
			out, err := h.Execute(cmd.Context(), &input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&input.AgentID, "agent", "", "Agent ID")
	cmd.Flags().StringSliceVar(&input.CompanyIDs, "companies", nil, "Company IDs forming the uploaded sample")
	cmd.Flags().Int64Var(&input.Seed, "seed", 0, "Random seed (0 seeds from the clock)")
	_ = cmd.MarkFlagRequired("agent")
	return cmd
}

func newContactsCmd(e *env) *cobra.Command {
	var (
		input gc.Input
		count int
	)

	cmd := &cobra.Command{
		Use:     "contacts",
		Short:   "Preview generated contacts",
		Example: "  dataset-tool contacts --companies acme-analytics,brightloop --persona \"Growth Hacker\" --count 2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("count") {
				input.Count = &count
			}
			h := gc.NewHandler(gc.LoadConfig(), e.manager, nil, e.log)
			out, err := h.Execute(cmd.Context(), &input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&input.CompanyID, "company", "", "Single company ID")
	cmd.Flags().StringSliceVar(&input.CompanyIDs, "companies", nil, "Company IDs for the batch form")
	cmd.Flags().StringArrayVar(&input.PersonaNames, "persona", nil, "Persona name (repeatable)")
	cmd.Flags().IntVar(&count, "count", 1, "Contacts per persona")
	cmd.Flags().Int64Var(&input.Seed, "seed", 0, "Random seed (0 seeds from the clock)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
