package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/LipidKey/pkg/adduct"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

var (
	// Flags for adducts subcommands
	listIonization string
	adductName     string
	mzValue        float64
	massValue      float64
)

func init() {
	adductsCmd.AddCommand(adductsListCmd)
	adductsCmd.AddCommand(adductsMassCmd)
	adductsCmd.AddCommand(adductsMZCmd)

	adductsCmd.PersistentFlags().StringVar(&positiveAdducts, "positive-adducts", "", "Custom positive adduct table (.csv, .yaml)")
	adductsCmd.PersistentFlags().StringVar(&negativeAdducts, "negative-adducts", "", "Custom negative adduct table (.csv, .yaml)")

	adductsListCmd.Flags().StringVar(&listIonization, "ionization", "", "Only list one ionization: positive or negative")

	adductsMassCmd.Flags().Float64Var(&mzValue, "mz", 0, "Observed m/z (required)")
	adductsMassCmd.Flags().StringVar(&adductName, "adduct", "", "Adduct name, e.g. [M+Na]+ (required)")
	adductsMassCmd.MarkFlagRequired("mz")
	adductsMassCmd.MarkFlagRequired("adduct")

	adductsMZCmd.Flags().Float64Var(&massValue, "mass", 0, "Neutral monoisotopic mass (required)")
	adductsMZCmd.Flags().StringVar(&adductName, "adduct", "", "Adduct name, e.g. [M+Na]+ (required)")
	adductsMZCmd.MarkFlagRequired("mass")
	adductsMZCmd.MarkFlagRequired("adduct")
}

var adductsCmd = &cobra.Command{
	Use:   "adducts",
	Short: "Inspect adduct tables and convert masses",
}

var adductsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List adducts in detection order",
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := loadTables()
		if err != nil {
			return err
		}

		ionizations := []core.Ionization{core.Positive, core.Negative}
		if listIonization != "" {
			ion, err := core.ParseIonization(listIonization)
			if err != nil {
				return err
			}
			ionizations = []core.Ionization{ion}
		}

		printAdducts(cmd.OutOrStdout(), tables, ionizations)
		return nil
	},
}

var adductsMassCmd = &cobra.Command{
	Use:   "mass",
	Short: "Neutral mass of an ion observed at --mz as --adduct",
	Example: `  lipidkey adducts mass --mz 782.567 --adduct "[M+Na]+"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := loadTables()
		if err != nil {
			return err
		}

		mass, ok := adduct.NewConverter(tables).NeutralMassFromMZ(mzValue, adductName)
		if !ok {
			return fmt.Errorf("unknown adduct '%s'", adductName)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.5f\n", mass)
		return nil
	},
}

var adductsMZCmd = &cobra.Command{
	Use:   "mz",
	Short: "m/z of a neutral --mass ionized as --adduct",
	Example: `  lipidkey adducts mz --mass 759.5778 --adduct "[M+H]+"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := loadTables()
		if err != nil {
			return err
		}

		mz, ok := adduct.NewConverter(tables).MZFromNeutralMass(massValue, adductName)
		if !ok {
			return fmt.Errorf("unknown adduct '%s'", adductName)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.5f\n", mz)
		return nil
	},
}

// printAdducts renders the adduct tables for the given ionizations
func printAdducts(w io.Writer, tables adduct.Tables, ionizations []core.Ionization) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Ionization", "#", "Adduct", "Mass shift", "Multimer", "Charge"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, ion := range ionizations {
		tbl, ok := tables.ForIonization(ion)
		if !ok {
			continue
		}
		for i, e := range tbl.Entries() {
			n := adduct.ParseNotation(e.Name)
			t.AppendRow(table.Row{ion, i + 1, e.Name, fmt.Sprintf("%.6f", e.MassShift), n.Multimer, n.Charge})
		}
		t.AppendSeparator()
	}

	t.Render()
}
