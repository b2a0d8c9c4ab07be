package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/merchpoint/pos/internal/pos/repositories/metadata"
)

// Settings shows the current user settings and offers a couple of in-place
// edits. Any change is pushed to the settings backend in the background.
func (a *App) Settings(ctx context.Context) error {

	current, err := a.settings.Get(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Currency: %s\n", current.Currency)
	fmt.Printf("Tip jar: %v\n", current.TipJarEnabled)
	methods := make([]string, 0, len(current.PaymentMethods))
	for _, m := range current.PaymentMethods {
		methods = append(methods, string(m))
	}
	fmt.Printf("Payment methods: %s\n", strings.Join(methods, ", "))
	if current.PendingSync {
		fmt.Println("(changes not yet synced)")
	}

	changed := false

	currency, err := GetSimpleText(a.reader, "Currency code (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if currency != "" && !strings.EqualFold(currency, current.Currency) {
		current.Currency = strings.ToUpper(currency)
		changed = true
	}

	tip, err := GetSimpleText(a.reader, "Tip jar on/off (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	switch strings.ToLower(tip) {
	case "on":
		changed = changed || !current.TipJarEnabled
		current.TipJarEnabled = true
	case "off":
		changed = changed || current.TipJarEnabled
		current.TipJarEnabled = false
	}

	if !changed {
		return nil
	}

	if err := a.settings.Update(ctx, current); err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Println("Settings saved")
	return nil
}

// SetLedger stores the remote sales ledger identifier. Sales cannot sync
// until one is configured.
func (a *App) SetLedger(ctx context.Context) error {
	return a.setMetadata(ctx, metadata.KeySalesLedgerID, "Sales ledger id")
}

// SetCatalog stores the remote product catalog identifier. Products cannot
// sync until one is configured.
func (a *App) SetCatalog(ctx context.Context) error {
	return a.setMetadata(ctx, metadata.KeyProductCatalogID, "Product catalog id")
}

// SignOut wipes the user settings record from the device after confirmation.
func (a *App) SignOut(ctx context.Context) error {
	sure, err := GetSimpleText(a.reader, "Remove the settings for this user from the device? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(sure, "yes") {
		fmt.Println("Kept")
		return nil
	}

	if err := a.settings.SignOut(ctx); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Signed out")
	return nil
}

func (a *App) setMetadata(ctx context.Context, key, prompt string) error {
	v, err := GetSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if v == "" {
		fmt.Println("Unchanged")
		return nil
	}

	if err := a.repos.Metadata.Set(ctx, key, v); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Saved")
	return nil
}
