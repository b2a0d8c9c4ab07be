package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/merchpoint/pos/internal/pos/models"
)

func printProduct(p models.Product) {
	stock := make([]string, 0, len(p.Inventory))
	if len(p.Sizes) > 0 {
		for _, size := range p.Sizes {
			stock = append(stock, fmt.Sprintf("%s:%d", size, p.Inventory[size]))
		}
	} else {
		stock = append(stock, fmt.Sprintf("%d", p.StockFor("")))
	}
	fmt.Printf("  %s  %-20s %8.2f  [%s]  %s\n", p.ID, p.Name, p.Price, strings.Join(stock, " "), p.Category)
}

// Products lists the catalog.
func (a *App) Products(ctx context.Context) error {
	all, err := a.catalog.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(all) == 0 {
		fmt.Println("The catalog is empty")
		return nil
	}
	for _, p := range all {
		printProduct(p)
	}
	return nil
}

// AddProduct interactively creates a product, or restocks an existing one
// when the operator enters a known id.
func (a *App) AddProduct(ctx context.Context) error {

	id, err := GetSimpleText(a.reader, "Product id (empty for a new product)", os.Stdout)
	if err != nil {
		return err
	}

	p := &models.Product{ID: id}
	if id != "" {
		if existing, err := a.repos.Products.GetByID(ctx, id); err == nil {
			p = existing
		}
	}

	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	if name != "" {
		p.Name = name
	}

	price, err := GetFloat(a.reader, "Price", p.Price, os.Stdout)
	if err != nil {
		return err
	}
	p.Price = price

	category, err := GetSimpleText(a.reader, "Category (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if category != "" {
		p.Category = category
	}

	sizes, err := GetSimpleText(a.reader, "Sizes, comma separated (empty for unsized)", os.Stdout)
	if err != nil {
		return err
	}
	if sizes != "" {
		p.Sizes = nil
		for _, s := range strings.Split(sizes, ",") {
			if s = strings.TrimSpace(s); s != "" {
				p.Sizes = append(p.Sizes, s)
			}
		}
	}

	if len(p.Sizes) > 0 {
		for _, size := range p.Sizes {
			qty, err := GetInt(a.reader, fmt.Sprintf("Stock for size %s", size), p.StockFor(size), os.Stdout)
			if err != nil {
				return err
			}
			p.Adjust(size, qty-p.StockFor(size))
		}
	} else {
		qty, err := GetInt(a.reader, "Stock", p.StockFor(""), os.Stdout)
		if err != nil {
			return err
		}
		p.Adjust("", qty-p.StockFor(""))
	}

	if err := a.catalog.Save(ctx, p); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Saved product %s\n", p.ID)
	return nil
}

// DelProduct deletes a product by id.
func (a *App) DelProduct(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Product id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("Nothing to delete")
		return nil
	}

	if err := a.catalog.Delete(ctx, id); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Deleted product %s\n", id)
	return nil
}
