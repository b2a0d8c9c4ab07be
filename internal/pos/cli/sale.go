package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/merchpoint/pos/internal/pos/services"
)

// Sale interactively records a sale. Cart lines are entered one per line as
// "<product-id> <quantity> [size]"; an empty line closes the cart. The sale
// is saved locally first and synced in the background.
func (a *App) Sale(ctx context.Context) error {

	products, err := a.catalog.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(products) == 0 {
		fmt.Println("No products yet, use 'addproduct' first")
		return nil
	}

	fmt.Println("Catalog:")
	for _, p := range products {
		printProduct(p)
	}

	fmt.Println("Enter cart lines as: <product-id> <quantity> [size] (empty line to finish)")
	var lines []services.CartLine
	for {
		line, err := GetSimpleText(a.reader, "", os.Stdout)
		if err != nil {
			return err
		}
		if line == "" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			fmt.Println("Expected: <product-id> <quantity> [size]")
			continue
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil || qty <= 0 {
			fmt.Println("Quantity must be a positive whole number")
			continue
		}
		cl := services.CartLine{ProductID: parts[0], Quantity: qty}
		if len(parts) > 2 {
			cl.Size = parts[2]
		}
		lines = append(lines, cl)
	}

	payment, err := a.askPayment(ctx)
	if err != nil {
		return err
	}

	collected, err := GetFloat(a.reader, "Amount collected", 0, os.Stdout)
	if err != nil {
		return err
	}
	discount, err := GetFloat(a.reader, "Discount (empty for none)", 0, os.Stdout)
	if err != nil {
		return err
	}
	tip, err := GetFloat(a.reader, "Tip (empty for none)", 0, os.Stdout)
	if err != nil {
		return err
	}

	sale, err := a.checkout.RecordSale(ctx, lines, payment, collected, discount, tip)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Sale %s recorded, total %.2f\n", sale.ID, sale.Total)
	return nil
}

func (a *App) askPayment(ctx context.Context) (models.PaymentMethod, error) {
	s, err := GetSimpleText(a.reader, "Payment method (cash/card/venmo/other, empty for cash)", os.Stdout)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(s) {
	case "", "cash":
		return models.PaymentCash, nil
	case "card":
		return models.PaymentCard, nil
	case "venmo":
		return models.PaymentVenmo, nil
	default:
		return models.PaymentOther, nil
	}
}
