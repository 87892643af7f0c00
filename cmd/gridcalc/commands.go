package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/output"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/source"
)

func newEvalCmd() *cobra.Command {
	var cellsPath string
	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate one formula against an optional grid",
		Example: `  gridcalc eval "=(1+2)*3"
  gridcalc eval "=A1*2" --cells budget.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGrid(cellsPath)
			if err != nil {
				return err
			}
			text := args[0]
			if !strings.HasPrefix(text, models.FormulaPrefix) {
				text = models.FormulaPrefix + text
			}
			snap := formula.MapReader(g.Snapshot())
			logger.Debug().Str("expression", formula.Substitute(text, snap)).Msg("substituted")
			fmt.Fprintln(cmd.OutOrStdout(), formula.Evaluate(text, snap).String())
			return nil
		},
	}
	cmd.Flags().StringVar(&cellsPath, "cells", "", "Edit script or xlsx file providing referenced cells")
	addInputFlags(cmd.Flags())
	return cmd
}

func newRecalcCmd() *cobra.Command {
	var outputPath, format string
	cmd := &cobra.Command{
		Use:   "recalc <input>",
		Short: "Load a grid, recalculate it and print every cell",
		Long: `recalc reads an edit script (one "<A1 label> <raw text>" per line) or an
xlsx workbook, recalculates it and writes the cells as JSON, as an edit
script, or as an xlsx workbook when --output ends in .xlsx.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, rep, err := loadGrid(args[0])
			if err != nil {
				return err
			}

			if outputPath != "" && isWorkbook(outputPath) {
				if err := g.SaveWorkbook(outputPath, sheetName); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}
				return nil
			}

			var data []byte
			switch format {
			case "json":
				data, err = output.ToJSON(output.NewSheetView(g.Snapshot(), g.Bounds(), &rep), pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
			case "edits":
				var buf bytes.Buffer
				snap := g.Snapshot()
				edits := make([]models.Edit, 0, len(snap))
				for _, c := range output.NewSheetView(snap, g.Bounds(), nil).Cells {
					a, _ := ref.ParseAddress(c.Cell)
					edits = append(edits, models.Edit{Address: a, Raw: c.Raw})
				}
				if err := source.WriteEdits(&buf, edits); err != nil {
					return err
				}
				data = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
			default:
				return fmt.Errorf("invalid format: %s (must be json or edits)", format)
			}
			return writeOutput(cmd, data, outputPath)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, edits")
	addInputFlags(cmd.Flags())
	return cmd
}

func newWindowCmd() *cobra.Command {
	var top, left, height, width float64
	var rangeRef string
	var printArea bool
	cmd := &cobra.Command{
		Use:   "window [input]",
		Short: "Compute the rows and columns visible for a scroll position",
		Long: `window computes the block of rows and columns a renderer materializes for
a scroll position and lists the cells inside it. --range or --print-area
select a fixed block instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			g, _, err := loadGrid(path)
			if err != nil {
				return err
			}

			win := g.ComputeWindow(top, left, height, width)
			switch {
			case rangeRef != "":
				if win, err = source.ParseRange(rangeRef); err != nil {
					return err
				}
			case printArea:
				if !isWorkbook(path) {
					return fmt.Errorf("--print-area needs an xlsx input")
				}
				areas, err := source.ReadPrintAreas(path, sheetName)
				if err != nil {
					return err
				}
				if len(areas) == 0 {
					return fmt.Errorf("no print area defined in %s", path)
				}
				win = areas[0]
			}
			data, err := output.ToJSON(output.NewWindowView(g.Snapshot(), win), pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(cmd, data, "")
		},
	}
	cmd.Flags().Float64Var(&top, "top", 0, "Vertical scroll offset in pixels")
	cmd.Flags().Float64Var(&left, "left", 0, "Horizontal scroll offset in pixels")
	cmd.Flags().Float64Var(&height, "height", 600, "Visible height in pixels")
	cmd.Flags().Float64Var(&width, "width", 800, "Visible width in pixels")
	cmd.Flags().StringVar(&rangeRef, "range", "", "Fixed range such as A1:D10")
	cmd.Flags().BoolVar(&printArea, "print-area", false, "Use the first print area of an xlsx input")
	addInputFlags(cmd.Flags())
	return cmd
}

func newLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <column index>...",
		Short: "Print the column label of 0-based indexes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				col, err := strconv.Atoi(arg)
				if err != nil || col < 0 {
					return fmt.Errorf("invalid column index: %s", arg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), ref.ColumnLabel(col))
			}
			return nil
		},
	}
}

func newAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <label>...",
		Short: "Print the 0-based row and column of A1 labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				a, ok := ref.ParseAddress(arg)
				if !ok {
					return fmt.Errorf("invalid label: %s", arg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\n", arg, a.Row, a.Col)
			}
			return nil
		},
	}
}

type depsView struct {
	Cell          string     `json:"cell,omitempty"`
	Precedents    []string   `json:"precedents,omitempty"`
	Dependents    []string   `json:"dependents,omitempty"`
	AllDependents []string   `json:"all_dependents,omitempty"`
	Order         []string   `json:"order,omitempty"`
	Cycles        [][]string `json:"cycles,omitempty"`
}

func newDepsCmd() *cobra.Command {
	var cell string
	cmd := &cobra.Command{
		Use:   "deps <input>",
		Short: "Show formula dependencies and reference cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGrid(args[0])
			if err != nil {
				return err
			}
			graph := g.Dependencies()

			var view depsView
			if cell != "" {
				a, ok := ref.ParseAddress(cell)
				if !ok {
					return fmt.Errorf("invalid label: %s", cell)
				}
				view.Cell = cell
				view.Precedents = labels(graph.Precedents(a))
				view.Dependents = labels(graph.Dependents(a))
				view.AllDependents = labels(graph.AllDependents(a))
			} else {
				order, _ := graph.Order()
				view.Order = labels(order)
			}
			for _, group := range graph.Cycles() {
				view.Cycles = append(view.Cycles, labels(group))
			}

			data, err := output.ToJSON(view, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(cmd, data, "")
		},
	}
	cmd.Flags().StringVar(&cell, "cell", "", "Show the edges of one cell")
	addInputFlags(cmd.Flags())
	return cmd
}

func labels(addrs []models.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, ref.FormatAddress(a))
	}
	return out
}
