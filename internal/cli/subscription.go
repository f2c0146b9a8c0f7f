package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtrack-dev/subtrack/pkg/client"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"subscriptions", "sub", "subs"},
		Short:   "Manage subscriptions",
	}

	cmd.AddCommand(newSubscriptionListCmd())
	cmd.AddCommand(newSubscriptionGetCmd())
	cmd.AddCommand(newSubscriptionCreateCmd())
	cmd.AddCommand(newSubscriptionDeleteCmd())
	cmd.AddCommand(newSubscriptionCostsCmd())

	return cmd
}

func newSubscriptionListCmd() *cobra.Command {
	var status, currency, sortBy, order string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := client.ListOptions{
				Currency: currency,
				SortBy:   sortBy,
				Order:    order,
				Page:     page,
				PageSize: pageSize,
			}
			if status != "" {
				opts.Statuses = strings.Split(status, ",")
			}

			result, err := apiClient.Subscriptions().List(context.Background(), opts)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			table := NewTable("ID", "NAME", "PRICE", "FREQUENCY", "NEXT PAYMENT", "STATUS", "LABELS")
			for _, s := range result.Data {
				names := make([]string, 0, len(s.Labels))
				for _, l := range s.Labels {
					names = append(names, l.Name)
				}
				table.AddRow(
					strconv.FormatInt(s.ID, 10),
					truncate(s.Name, 30),
					fmt.Sprintf("%.2f %s", s.Price, s.Currency),
					s.PaymentFrequency,
					s.NextPaymentDate,
					s.Status,
					truncate(strings.Join(names, ", "), 40),
				)
			}
			table.Render()

			fmt.Printf("\nPage %d of %d (%d total)\n", result.Page, result.TotalPages, result.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (comma-separated)")
	cmd.Flags().StringVar(&currency, "currency", "", "filter by currency")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by: name, price, next_payment_date, created_at")
	cmd.Flags().StringVar(&order, "order", "asc", "sort order: asc, desc")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")

	return cmd
}

func newSubscriptionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid subscription id: %s", args[0])
			}

			s, err := apiClient.Subscriptions().Get(context.Background(), id)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(s)
			}

			fmt.Printf("Name:          %s\n", s.Name)
			fmt.Printf("Price:         %.2f %s\n", s.Price, s.Currency)
			fmt.Printf("Frequency:     %s\n", s.PaymentFrequency)
			fmt.Printf("Status:        %s\n", s.Status)
			fmt.Printf("First payment: %s\n", s.InitialPaymentDate)
			fmt.Printf("Next payment:  %s\n", s.NextPaymentDate)
			if s.PaymentMethod != "" {
				fmt.Printf("Method:        %s\n", s.PaymentMethod)
			}
			if s.URL != "" {
				fmt.Printf("URL:           %s\n", s.URL)
			}
			if len(s.Labels) > 0 {
				names := make([]string, 0, len(s.Labels))
				for _, l := range s.Labels {
					names = append(names, l.Name)
				}
				fmt.Printf("Labels:        %s\n", strings.Join(names, ", "))
			}
			if s.Notes != "" {
				fmt.Printf("Notes:         %s\n", s.Notes)
			}
			return nil
		},
	}
}

func newSubscriptionCreateCmd() *cobra.Command {
	var price float64
	var currency, initialDate, frequency, method, status, labelIDs string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.CreateSubscriptionRequest{
				Name:               args[0],
				Price:              price,
				Currency:           currency,
				InitialPaymentDate: initialDate,
				PaymentFrequency:   frequency,
				PaymentMethod:      method,
				Status:             status,
			}
			if labelIDs != "" {
				for _, raw := range strings.Split(labelIDs, ",") {
					id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid label id: %s", raw)
					}
					req.Labels = append(req.Labels, id)
				}
			}

			s, err := apiClient.Subscriptions().Create(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Created subscription %q (id %d), next payment %s\n", s.Name, s.ID, s.NextPaymentDate)
			return nil
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "price per billing cycle")
	cmd.Flags().StringVar(&currency, "currency", "USD", "currency: USD, JPY")
	cmd.Flags().StringVar(&initialDate, "initial-date", "", "first payment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "billing frequency: monthly, quarterly, yearly")
	cmd.Flags().StringVar(&method, "method", "", "payment method")
	cmd.Flags().StringVar(&status, "status", "", "status (default active)")
	cmd.Flags().StringVar(&labelIDs, "labels", "", "label ids (comma-separated)")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("initial-date")

	return cmd
}

func newSubscriptionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid subscription id: %s", args[0])
			}

			if err := apiClient.Subscriptions().Delete(context.Background(), id); err != nil {
				return err
			}

			fmt.Printf("Deleted subscription %d\n", id)
			return nil
		},
	}
}

func newSubscriptionCostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "costs [id]",
		Short: "Show costs for one subscription, or totals by currency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid subscription id: %s", args[0])
				}

				costs, err := apiClient.Subscriptions().Costs(ctx, id)
				if err != nil {
					return err
				}

				if getOutputFormat() != "table" {
					return printOutput(costs)
				}
				fmt.Printf("Monthly: %.2f\nYearly:  %.2f\n", costs.Monthly, costs.Yearly)
				return nil
			}

			totals, err := apiClient.Subscriptions().TotalCosts(ctx)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(totals)
			}

			table := NewTable("CURRENCY", "MONTHLY", "YEARLY")
			for currency, costs := range totals {
				table.AddRow(currency, fmt.Sprintf("%.2f", costs.Monthly), fmt.Sprintf("%.2f", costs.Yearly))
			}
			table.Render()
			return nil
		},
	}
}
