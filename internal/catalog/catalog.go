// Package catalog reads menu seed files and imports them into the product store.
//
// A seed file is gzipped JSON lines, one product per line:
//
//	{"id":"croissant","name":"Butter Croissant","price":375,"imageUrl":"https://...","active":true}
//
// Prices are in cents. A missing "active" means the product is shown.
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"bakery-storefront/internal/model"
)

// Entry is one line of a seed file.
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Active      *bool  `json:"active"`
}

// Product converts the entry after validating it.
func (e Entry) Product() (*model.Product, error) {
	if strings.TrimSpace(e.ID) == "" {
		return nil, fmt.Errorf("product id is required")
	}
	active := e.Active == nil || *e.Active
	req := model.ProductRequest{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		ImageURL:    e.ImageURL,
		IsActive:    active,
	}
	if err := model.Validate(&req); err != nil {
		return nil, err
	}
	return &model.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}, nil
}

// Loader reads a menu seed from some location.
type Loader interface {
	// Load reads a gzipped JSON-lines menu and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// decode reads gzipped JSON lines from r. A product id that appears twice
// keeps its first position and its last contents.
func decode(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	index := make(map[string]int)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("line %d: invalid json: %w", lineNo, err)
		}
		product, err := entry.Product()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if i, seen := index[product.ID]; seen {
			products[i] = *product
			continue
		}
		index[product.ID] = len(products)
		products = append(products, *product)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	return products, nil
}
