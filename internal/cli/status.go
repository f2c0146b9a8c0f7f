package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtrack-dev/subtrack/pkg/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			subs, err := apiClient.Subscriptions().List(ctx, client.ListOptions{PageSize: 1})
			if err != nil {
				return err
			}
			labels, err := apiClient.Labels().List(ctx)
			if err != nil {
				return err
			}
			totals, err := apiClient.Subscriptions().TotalCosts(ctx)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(map[string]interface{}{
					"subscriptions": subs.TotalItems,
					"labels":        len(labels),
					"costs":         totals,
				})
			}

			fmt.Println("Subtrack Summary")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Subscriptions: %d\n", subs.TotalItems)
			fmt.Printf("  Labels:        %d\n", len(labels))
			for currency, costs := range totals {
				fmt.Printf("  %s spend:     %.2f/month, %.2f/year\n", currency, costs.Monthly, costs.Yearly)
			}
			return nil
		},
	}
}
