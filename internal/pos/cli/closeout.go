package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/merchpoint/pos/internal/pos/services"
)

func printCloseOut(c models.CloseOut) {
	fmt.Printf("  %s  %s  %q @ %q\n", c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04"), c.Name, c.Location)
	fmt.Printf("    %d sales, %d items, revenue %.2f (discounts %.2f, tips %.2f)\n",
		c.SaleCount, c.ItemCount, c.Revenue, c.Discounts, c.Tips)
	for method, amount := range c.ByPayment {
		fmt.Printf("    %-6s %.2f\n", method, amount)
	}
	fmt.Printf("    expected cash %.2f, counted %.2f\n", c.ExpectedCash, c.ActualCash)
}

// CloseOut aggregates every sale since the previous close-out into a summary
// and prompts for the cash count. Closing out also allows synced sales in
// the span to be removed from the device on the next sales sync.
func (a *App) CloseOut(ctx context.Context) error {

	name, err := GetSimpleText(a.reader, "Session name (e.g. the show)", os.Stdout)
	if err != nil {
		return err
	}
	location, err := GetSimpleText(a.reader, "Location", os.Stdout)
	if err != nil {
		return err
	}

	c, err := a.closeout.Create(ctx, name, location)
	if err != nil {
		if errors.Is(err, services.ErrNothingToClose) {
			fmt.Println("No sales since the previous close-out")
			return nil
		}
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Close-out %s created\n", c.ID)
	printCloseOut(*c)

	actual, err := GetFloat(a.reader, fmt.Sprintf("Cash counted (expected %.2f, empty to skip)", c.ExpectedCash), -1, os.Stdout)
	if err != nil {
		return err
	}
	if actual >= 0 {
		if err := a.closeout.UpdateDetails(ctx, c.ID, c.Name, c.Location, c.Notes, actual); err != nil {
			log.Println(err.Error())
			return err
		}
	}
	return nil
}

// CloseOuts lists past close-outs, newest first.
func (a *App) CloseOuts(ctx context.Context) error {
	all, err := a.closeout.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(all) == 0 {
		fmt.Println("No close-outs yet")
		return nil
	}
	for _, c := range all {
		printCloseOut(c)
	}
	return nil
}
