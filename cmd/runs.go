/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/hydro1d/output"
)

// RunsCmd inspects the run archive written by 1D --db
var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and plot archived runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		return ListRuns(os.Stdout, db)
	},
}

var runsPlotCmd = &cobra.Command{
	Use:   "plot <run id>",
	Short: "Plot a field of an archived snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		field, _ := cmd.Flags().GetString("field")
		index, _ := cmd.Flags().GetInt("snapshot")
		return PlotRun(os.Stdout, db, args[0], field, index)
	},
}

func init() {
	rootCmd.AddCommand(RunsCmd)
	RunsCmd.AddCommand(runsListCmd, runsPlotCmd)
	RunsCmd.PersistentFlags().String("db", output.DefaultStorePath, "SQLite run archive")
	runsPlotCmd.Flags().StringP("field", "f", "density", "Primitive variable to plot")
	runsPlotCmd.Flags().IntP("snapshot", "s", -1, "Snapshot to plot, negative counts back from the last")
}

func ListRuns(w io.Writer, db string) (err error) {
	var (
		st   *output.Store
		runs []output.RunMetadata
	)
	if st, err = output.OpenStore(db); err != nil {
		return
	}
	defer func() { _ = st.Close() }()
	if runs, err = st.Runs(); err != nil {
		return
	}
	fmt.Fprintf(w, "%-36s  %-20s  %-8s  %-20s  %6s  %5s  %s\n",
		"ID", "Started", "Status", "Case", "Cells", "Snaps", "Title")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-8s  %-20s  %6d  %5d  %s\n",
			r.ID, r.Started.Format("2006-01-02 15:04:05"), r.Status, r.Case, r.Cells, r.Snapshots, r.Title)
	}
	return
}

func PlotRun(w io.Writer, db, id, field string, index int) (err error) {
	var st *output.Store
	if st, err = output.OpenStore(db); err != nil {
		return
	}
	defer func() { _ = st.Close() }()
	meta, err := st.Run(id)
	if err != nil {
		return
	}
	snaps, err := st.Snapshots(meta.ID)
	if err != nil {
		return
	}
	if index < 0 {
		index += len(snaps)
	}
	if index < 0 || index >= len(snaps) {
		return fmt.Errorf("snapshot %d out of range, run %s has %d", index, meta.ID, len(snaps))
	}
	txt, err := output.Plot(snaps[index], field)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "%s: %s, %s\n", meta.ID, meta.Title, meta.Case)
	fmt.Fprintln(w, txt)
	return
}
