package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/opset/internal/catalog"
	"github.com/born-ml/opset/internal/registry"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered operators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listOperators(cmd.OutOrStdout(), a.catalog)
		},
	}
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe OPERATOR",
		Short: "Show the schema and documentation of an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return describeOperator(cmd.OutOrStdout(), a.catalog, args[0])
		},
	}
}

func listOperators(w io.Writer, cat *catalog.Catalog) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"NAME", "INPUTS", "OUTPUTS", "IN-PLACE", "DEVICES", "GRADIENT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, s := range cat.Operators.Schemas() {
		devices := make([]string, 0)
		for _, d := range cat.Operators.Devices(s.Name) {
			devices = append(devices, d.String())
		}
		table.Append([]string{
			s.Name,
			strconv.Itoa(s.NumInputs),
			strconv.Itoa(s.NumOutputs),
			formatInplace(s.Inplace),
			strings.Join(devices, ","),
			gradientStatus(cat, s.Name),
		})
	}
	table.Render()
	return nil
}

func describeOperator(w io.Writer, cat *catalog.Catalog, name string) error {
	s, err := cat.Operators.Schema(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n\n", s.Name)
	if s.Doc != "" {
		fmt.Fprintf(w, "%s\n\n", s.Doc)
	}
	fmt.Fprintf(w, "In-place: %s\n", formatInplace(s.Inplace))
	fmt.Fprintf(w, "Gradient: %s\n\n", gradientStatus(cat, s.Name))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"SLOT", "INDEX", "NAME", "DESCRIPTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	for i := 0; i < s.NumInputs; i++ {
		d, _ := s.InputDoc(i)
		table.Append([]string{"input", strconv.Itoa(i), d.Name, d.Description})
	}
	for i := 0; i < s.NumOutputs; i++ {
		d, _ := s.OutputDoc(i)
		table.Append([]string{"output", strconv.Itoa(i), d.Name, d.Description})
	}
	table.Render()
	return nil
}

func formatInplace(pairs []registry.InplacePair) string {
	if len(pairs) == 0 {
		return "-"
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%d->%d", p.Input, p.Output)
	}
	return strings.Join(parts, ",")
}

func gradientStatus(cat *catalog.Catalog, name string) string {
	_, err := cat.Gradients.ResolveGradient(name)
	switch {
	case err == nil:
		return "yes"
	case errors.Is(err, registry.ErrNoGradientDefined):
		return "none"
	default:
		return "error"
	}
}
