package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chrisdamba/foodcloud/internal/menu"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the menu catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		asJSON, _ := cmd.Flags().GetBool("json")

		catalog, cleanup, err := menu.Load(context.Background(), cfg)
		defer cleanup()
		if err != nil {
			return err
		}

		items := catalog.Filter(search, category)
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		fmt.Printf("Categories: %v\n\n", catalog.Categories())
		for _, item := range items {
			popular := ""
			if item.Popular {
				popular = " *popular*"
			}
			fmt.Printf("%3d  %-24s %-9s $%6s  %s  %s%s\n",
				item.ID, item.Name, item.Category, item.Price.StringFixed(2), item.Rating.StringFixed(1), item.Time, popular)
		}
		return nil
	},
}

func init() {
	menuCmd.Flags().String("search", "", "Filter by name or category")
	menuCmd.Flags().String("category", menu.AllCategories, "Only show this category")
	menuCmd.Flags().Bool("json", false, "Print JSON")
	rootCmd.AddCommand(menuCmd)
}
