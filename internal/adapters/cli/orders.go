package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/mediator-go/internal/adapters/gateway"
	"github.com/andrescamacho/mediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/mediator-go/internal/application/logging"
	"github.com/andrescamacho/mediator-go/internal/application/orders/commands"
	"github.com/andrescamacho/mediator-go/internal/application/orders/queries"
	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/database"
	"github.com/andrescamacho/mediator-go/pkg/container"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// app bundles the wired dispatcher with the context commands run under
type app struct {
	mediator *mediator.Mediator
	ctx      context.Context
	close    func()
}

// newApp loads configuration, connects storage, and wires every handler
// into a fresh container behind a mediator
func newApp() (*app, error) {
	// Load config and connect to database
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Create adapters and register handlers
	orderRepo := persistence.NewGormOrderRepository(db)
	payments := gateway.NewPaymentsClient(&cfg.Payments, nil)
	registry := setup.NewHandlerRegistry(orderRepo, payments, nil)

	c := container.New()
	if err := registry.RegisterAll(c); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	m, err := mediator.FromContainer(c)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	// Commands run with the structured logger in context
	ctx := logging.WithLogger(context.Background(), logging.NewSlogLogger(&cfg.Logging))

	return &app{
		mediator: m,
		ctx:      ctx,
		close:    func() { database.Close(db) },
	}, nil
}

// NewPlaceCommand creates the place subcommand
func NewPlaceCommand() *cobra.Command {
	var (
		email     string
		sku       string
		quantity  int
		unitPrice int
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place and pay for a new order",
		Long: `Place a new order and charge the payment gateway.

The order is stored as PENDING, charged, and marked PAID once the
provider approves. A declined charge leaves the order PENDING.

Example:
  orders place --email ada@example.com --sku SKU-100 --quantity 2 --unit-price 1500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlaceOrder(email, sku, quantity, unitPrice)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Customer email [required]")
	cmd.Flags().StringVar(&sku, "sku", "", "Product SKU [required]")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Number of units")
	cmd.Flags().IntVar(&unitPrice, "unit-price", 0, "Unit price in cents [required]")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("unit-price")

	return cmd
}

// NewGetCommand creates the get subcommand
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetOrder(args[0])
		},
	}

	return cmd
}

// NewCancelCommand creates the cancel subcommand
func NewCancelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCancelOrder(args[0])
		},
	}

	return cmd
}

// NewListCommand creates the list subcommand
func NewListCommand() *cobra.Command {
	var (
		status string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long: `List orders with optional filtering, newest first.

Statuses:
  PENDING    - Placed but not paid
  PAID       - Payment captured
  CANCELLED  - Cancelled by the customer

Examples:
  orders list --limit 10
  orders list --status PAID`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListOrders(status, limit, offset)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of orders to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of orders to skip")

	return cmd
}

// runPlaceOrder executes the place command
func runPlaceOrder(email, sku string, quantity, unitPrice int) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	// Dispatch the command
	result, err := mediator.Send[*commands.PlaceOrderResult](app.ctx, app.mediator, &commands.PlaceOrderCommand{
		CustomerEmail:  email,
		SKU:            sku,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
	})
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	// Display result
	fmt.Printf("\nOrder placed\n")
	fmt.Printf("  ID:          %s\n", result.OrderID)
	fmt.Printf("  Status:      %s\n", result.Status)
	fmt.Printf("  Payment ref: %s\n", result.PaymentRef)
	fmt.Printf("  Total:       %s\n\n", formatCents(result.TotalCents))

	return nil
}

// runGetOrder executes the get command
func runGetOrder(orderID string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	// Dispatch the query
	details, err := mediator.Send[*queries.OrderDetails](app.ctx, app.mediator, &queries.GetOrderQuery{
		OrderID: orderID,
	})
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	// Display result
	displayOrderDetails(details)

	return nil
}

// runCancelOrder executes the cancel command
func runCancelOrder(orderID string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	// Dispatch the command
	if _, err := mediator.Send[mediator.Unit](app.ctx, app.mediator, &commands.CancelOrderCommand{
		OrderID: orderID,
	}); err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	fmt.Printf("Order %s cancelled\n", orderID)

	return nil
}

// runListOrders executes the list command
func runListOrders(status string, limit, offset int) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	// Build query
	query := &queries.ListOrdersQuery{
		Limit:  limit,
		Offset: offset,
	}
	if status != "" {
		query.Status = &status
	}

	// Dispatch the query
	response, err := mediator.Send[*queries.ListOrdersResponse](app.ctx, app.mediator, query)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	// Display results
	displayOrderList(response)

	return nil
}

// displayOrderDetails formats and displays a single order
func displayOrderDetails(details *queries.OrderDetails) {
	fmt.Printf("\nORDER %s\n", details.ID)
	fmt.Println("─────────────────────────────────────────────────────────────")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Customer:\t%s\n", details.CustomerEmail)
	fmt.Fprintf(w, "SKU:\t%s\n", details.SKU)
	fmt.Fprintf(w, "Quantity:\t%d\n", details.Quantity)
	fmt.Fprintf(w, "Unit price:\t%s\n", formatCents(details.UnitPriceCents))
	fmt.Fprintf(w, "Total:\t%s\n", formatCents(details.TotalCents))
	fmt.Fprintf(w, "Status:\t%s\n", details.Status)
	if details.PaymentRef != "" {
		fmt.Fprintf(w, "Payment ref:\t%s\n", details.PaymentRef)
	}
	fmt.Fprintf(w, "Created:\t%s\n", details.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:\t%s\n", details.UpdatedAt.Format("2006-01-02 15:04:05"))
	w.Flush()

	fmt.Println("─────────────────────────────────────────────────────────────")
}

// displayOrderList formats and displays an order listing
func displayOrderList(response *queries.ListOrdersResponse) {
	if len(response.Orders) == 0 {
		fmt.Println("No orders found")
		return
	}

	fmt.Printf("\nORDERS (%d)\n", response.Total)
	fmt.Println("─────────────────────────────────────────────────────────────")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tQty\tTotal\tStatus\tCreated")
	fmt.Fprintln(w, "──\t───\t───\t─────\t──────\t───────")

	for _, order := range response.Orders {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			order.ID,
			order.SKU,
			order.Quantity,
			formatCents(order.TotalCents),
			order.Status,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	w.Flush()
	fmt.Println("─────────────────────────────────────────────────────────────")
}

// formatCents formats a cent amount as dollars (e.g., 123456 -> "$1,234.56")
func formatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, addThousandsSeparator(cents/100), cents%100)
}

// addThousandsSeparator adds commas to a number (e.g., 1234567 -> "1,234,567")
func addThousandsSeparator(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Insert commas from right to left
	var result []byte
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
