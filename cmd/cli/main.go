package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/example/flowershop/internal/cart"
	"github.com/example/flowershop/internal/catalog"
	"github.com/example/flowershop/internal/client"
	"github.com/example/flowershop/internal/config"
	"github.com/example/flowershop/internal/i18n"
	"github.com/example/flowershop/internal/order"
	"github.com/example/flowershop/internal/session"
)

// app wires the client core against the configured backend and storage.
type app struct {
	bundle   *i18n.Bundle
	session  *session.Service
	catalog  *catalog.Service
	cart     *cart.Engine
	orders   *order.Service
	checkout *order.Checkout
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	st, err := cfg.OpenStorage(ctx)
	if err != nil {
		log.Fatalf("[CLI] Failed to open storage: %v", err)
	}

	tokens := session.NewTokenStore(st)
	c := client.New(cfg.BaseURL, cfg.RequestTimeout, tokens)
	cartEngine := cart.NewEngine(st, cart.Pricing{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		DeliveryFee:           cfg.DeliveryFee,
	})
	orders := order.NewService(c, st)

	a := &app{
		bundle:   i18n.NewBundle(ctx, st),
		session:  session.NewService(c, st, tokens),
		catalog:  catalog.NewService(c),
		cart:     cartEngine,
		orders:   orders,
		checkout: order.NewCheckout(orders, cartEngine),
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("[CLI] %v", err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println(a.bundle.T("common.done", nil))
		return nil
	case "products":
		return a.cmdProducts(ctx, args)
	case "search":
		return a.cmdSearch(ctx, args)
	case "categories":
		return a.cmdCategories(ctx)
	case "cart":
		return a.cmdCart(ctx, args)
	case "checkout":
		return a.cmdCheckout(ctx, args)
	case "orders":
		return a.cmdOrders(ctx)
	case "cancel":
		return a.cmdTransition(ctx, args, a.orders.Cancel)
	case "receive":
		return a.cmdTransition(ctx, args, a.orders.ConfirmReceipt)
	case "stats":
		return a.cmdStats(ctx)
	case "locale":
		return a.cmdLocale(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: flowershop <command> [args]

commands:
  login -email <email> -password <password>
  logout
  products [-category <id>] [-page N]
  search <keyword>
  categories
  cart list | add <product-id> [qty] | remove <product-id> | clear
  checkout -name <consignee> -phone <phone> -address <address> [-remark <text>]
  orders
  cancel <order-id>
  receive <order-id>
  stats
  locale [zh|en]`)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", a.bundle.T("common.welcome", nil), user.Nickname)
	return nil
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	category := fs.String("category", "", "filter by category id")
	page := fs.Int("page", 1, "page number")
	fs.Parse(args)

	result := a.catalog.ListProductsOrFallback(ctx, catalog.ListFilters{
		Page:       *page,
		CategoryID: *category,
	})
	a.printProducts(result.Products)
	fmt.Printf("(%d/%d)\n", result.Page, result.Total)
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search keyword is required")
	}
	result, err := a.catalog.SearchProducts(ctx, args[0], catalog.ListFilters{})
	if err != nil {
		return err
	}
	a.printProducts(result.Products)
	return nil
}

func (a *app) cmdCategories(ctx context.Context) error {
	locale := a.bundle.Locale()
	for _, c := range a.catalog.ListCategoriesOrFallback(ctx) {
		fmt.Printf("%-14s %s\n", c.ID, c.Name.Resolve(locale))
	}
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		lines, err := a.cart.Items(ctx)
		if err != nil {
			return err
		}
		a.printCart(ctx, lines)
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("cart add needs a product id")
		}
		qty := 1
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			qty = n
		}
		product, err := a.findProduct(ctx, args[1])
		if err != nil {
			return err
		}
		lines, err := a.cart.Add(ctx, *product, qty)
		if err != nil {
			return err
		}
		a.printCart(ctx, lines)
		return nil
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("cart remove needs a product id")
		}
		lines, err := a.cart.Remove(ctx, args[1])
		if err != nil {
			return err
		}
		a.printCart(ctx, lines)
		return nil
	case "clear":
		return a.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

// findProduct resolves a product id against the backend, falling back to
// the sample catalog so the cart works offline.
func (a *app) findProduct(ctx context.Context, id string) (*catalog.Product, error) {
	product, err := a.catalog.GetProduct(ctx, id)
	if err == nil {
		return product, nil
	}
	for _, p := range catalog.FallbackProducts() {
		if p.ID == id {
			log.Printf("[CLI] Backend lookup failed, using sample catalog: %v", err)
			return &p, nil
		}
	}
	return nil, err
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	name := fs.String("name", "", "consignee name")
	phone := fs.String("phone", "", "contact phone")
	address := fs.String("address", "", "delivery address")
	remark := fs.String("remark", "", "order remark")
	fs.Parse(args)

	info := order.DeliveryInfo{
		Consignee: *name,
		Phone:     *phone,
		Address:   *address,
		Remark:    *remark,
	}
	if info.Address == "" {
		if addr, found, err := a.session.DefaultAddress(ctx); err == nil && found {
			info.Consignee = addr.Name
			info.Phone = addr.Phone
			info.Address = addr.Region + " " + addr.Detail
		}
	}

	placed, err := a.checkout.PlaceOrder(ctx, info)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", a.bundle.T("order.placed", nil), placed.ID)
	if placed.Local {
		fmt.Println(a.bundle.T("order.placedLocal", nil))
	}
	fmt.Printf("%s: %s\n", a.bundle.T("cart.total", nil), formatCents(placed.TotalAmount))
	return nil
}

func (a *app) cmdOrders(ctx context.Context) error {
	orders, err := a.orders.ListOrHistory(ctx, order.ListFilters{})
	if err != nil {
		return err
	}
	locale := a.bundle.Locale()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, o := range orders {
		marker := ""
		if o.Local {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n",
			o.ID, marker, o.CreatedAt.Format("2006-01-02 15:04"),
			o.Status.Label(locale), formatCents(o.TotalAmount))
	}
	return w.Flush()
}

func (a *app) cmdTransition(ctx context.Context, args []string, fn func(context.Context, string) error) error {
	if len(args) == 0 {
		return fmt.Errorf("order id is required")
	}
	if err := fn(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println(a.bundle.T("common.done", nil))
	return nil
}

func (a *app) cmdStats(ctx context.Context) error {
	stats, err := a.orders.Stats(ctx)
	if err != nil {
		return err
	}
	locale := a.bundle.Locale()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", order.StatusPending.Label(locale), stats.Pending)
	fmt.Fprintf(w, "%s\t%d\n", order.StatusPaid.Label(locale), stats.Paid)
	fmt.Fprintf(w, "%s\t%d\n", order.StatusShipped.Label(locale), stats.Shipped)
	fmt.Fprintf(w, "%s\t%d\n", order.StatusDelivered.Label(locale), stats.Delivered)
	fmt.Fprintf(w, "%s\t%d\n", order.StatusCancelled.Label(locale), stats.Cancelled)
	return w.Flush()
}

func (a *app) cmdLocale(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println(a.bundle.Locale())
		return nil
	}
	if err := a.bundle.SetLocale(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println(a.bundle.T("common.done", nil))
	return nil
}

func (a *app) printProducts(products []catalog.Product) {
	locale := a.bundle.Locale()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %d\n",
			p.ID, p.Name.Resolve(locale), formatCents(p.Price),
			a.bundle.T("catalog.stock", nil), p.Stock)
	}
	w.Flush()
}

func (a *app) printCart(ctx context.Context, lines []cart.Line) {
	locale := a.bundle.Locale()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, line := range lines {
		fmt.Fprintf(w, "%s\tx%d\t%s\t%s\n",
			line.Name.Resolve(locale), line.Quantity, formatCents(line.Price*int64(line.Quantity)), line.ProductID)
	}
	w.Flush()

	totals, err := a.cart.Totals(ctx, false)
	if err != nil {
		return
	}
	fmt.Printf("%s: %s", a.bundle.T("cart.total", nil), formatCents(totals.Total))
	if totals.DeliveryFee > 0 {
		fmt.Printf(" (+%s %s)", formatCents(totals.DeliveryFee), a.bundle.T("cart.deliveryFee", nil))
	}
	fmt.Println()
}

func formatCents(cents int64) string {
	return fmt.Sprintf("¥%d.%02d", cents/100, cents%100)
}
