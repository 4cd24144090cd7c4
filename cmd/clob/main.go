package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openclob/clob"
)

const divider = "========================================"

func printBook(book *clob.GuardedBook) {
	bids, asks := book.Depth(5)

	fmt.Println("\n" + divider)
	fmt.Println("ORDER BOOK")
	fmt.Println(divider)

	// Asks highest to lowest so the ladder reads like a screen.
	fmt.Println("ASKS (Sell Orders):")
	if len(asks) > 0 {
		for i := len(asks) - 1; i >= 0; i-- {
			fmt.Printf("  %8d @ %s\n", asks[i].Quantity, asks[i].Price)
		}
	} else {
		fmt.Println("  (empty)")
	}

	fmt.Println(strings.Repeat("-", 40))

	fmt.Println("BIDS (Buy Orders):")
	if len(bids) > 0 {
		for _, lvl := range bids {
			fmt.Printf("  %8d @ %s\n", lvl.Quantity, lvl.Price)
		}
	} else {
		fmt.Println("  (empty)")
	}

	if spread, ok := book.Spread(); ok {
		fmt.Printf("\nSpread: %s\n", spread)
	}
	fmt.Print(divider + "\n\n")
}

func printTrades(trades []*clob.Trade) {
	if len(trades) == 0 {
		fmt.Println("\n(No trades executed)")
		return
	}

	fmt.Println("\nTRADES EXECUTED:")
	for _, trade := range trades {
		fmt.Printf("  %d @ %s\n", trade.Quantity, trade.Price)
	}
}

func printOrder(order *clob.Order) {
	priceStr := "MARKET"
	if order.Type == clob.Limit {
		priceStr = order.Price.String()
	}
	fmt.Printf("Placed: %s %d/%d @ %s (id=%s)\n",
		strings.ToUpper(order.Side.String()), order.Remaining, order.Quantity, priceStr, order.ID)
}

func printHelp() {
	fmt.Print(`
CLOB Demo - Commands:
  buy <qty> <price>   - Place a limit buy order
  sell <qty> <price>  - Place a limit sell order
  mbuy <qty>          - Place a market buy order
  msell <qty>         - Place a market sell order
  cancel <order-id>   - Cancel a resting order
  book                - Show order book
  help                - Show this help
  quit                - Exit

Examples:
  buy 100 10.50       - Buy 100 units at $10.50
  sell 50 10.75       - Sell 50 units at $10.75
  mbuy 25             - Market buy 25 units
`)
}

func parseQty(s string) (int64, error) {
	qty, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return qty, nil
}

func placeLimit(engine *clob.Engine, side clob.Side, qtyStr, priceStr string) error {
	qty, err := parseQty(qtyStr)
	if err != nil {
		return err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return fmt.Errorf("invalid price %q", priceStr)
	}

	order, err := clob.NewLimitOrder(side, qty, price)
	if err != nil {
		return err
	}

	trades, err := engine.Process(context.Background(), order)
	if err != nil {
		return err
	}

	printOrder(order)
	printTrades(trades)
	printBook(engine.Book())
	return nil
}

func placeMarket(engine *clob.Engine, side clob.Side, qtyStr string) error {
	qty, err := parseQty(qtyStr)
	if err != nil {
		return err
	}

	order, err := clob.NewMarketOrder(side, qty)
	if err != nil {
		return err
	}

	trades, err := engine.Process(context.Background(), order)
	if err != nil {
		return err
	}

	printOrder(order)
	printTrades(trades)
	printBook(engine.Book())
	return nil
}

func main() {
	book := clob.NewGuardedBook()
	engine := clob.NewEngine(book)

	fmt.Println("\nCentral Limit Order Book Demo")
	fmt.Println("Type 'help' for commands")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}

		parts := strings.Fields(strings.ToLower(strings.TrimSpace(scanner.Text())))
		if len(parts) == 0 {
			continue
		}

		var err error
		switch {
		case parts[0] == "quit":
			fmt.Println("Goodbye!")
			return
		case parts[0] == "help":
			printHelp()
		case parts[0] == "book":
			printBook(book)
		case parts[0] == "buy" && len(parts) == 3:
			err = placeLimit(engine, clob.Buy, parts[1], parts[2])
		case parts[0] == "sell" && len(parts) == 3:
			err = placeLimit(engine, clob.Sell, parts[1], parts[2])
		case parts[0] == "mbuy" && len(parts) == 2:
			err = placeMarket(engine, clob.Buy, parts[1])
		case parts[0] == "msell" && len(parts) == 2:
			err = placeMarket(engine, clob.Sell, parts[1])
		case parts[0] == "cancel" && len(parts) == 2:
			var removed *clob.Order
			removed, err = book.Remove(context.Background(), parts[1])
			if err == nil {
				if removed == nil {
					fmt.Printf("Order %s not found\n", parts[1])
				} else {
					fmt.Printf("Cancelled %s (%d remaining)\n", removed.ID, removed.Remaining)
				}
			}
		default:
			fmt.Println("Invalid command. Type 'help' for usage.")
		}

		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
