package storage

import (
	"log"

	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/types"
)

// LoadCatalog fills the index from products.json and categories.json. A
// missing categories file is not fatal, the shop just renders without the
// sidebar counts.
func (d *DiskStorage) LoadCatalog(idx *catalog.Index) error {
	products := make([]*types.Product, 0)
	if err := d.LoadJson(&products, productsFile); err != nil {
		return err
	}
	idx.Upsert(products...)

	categories := make([]*types.Category, 0)
	if err := d.LoadJson(&categories, categoriesFile); err != nil {
		log.Printf("No categories file: %v", err)
		return nil
	}
	idx.SetCategories(categories...)
	return nil
}

func (d *DiskStorage) SaveCatalog(idx *catalog.Index) error {
	if err := d.SaveJson(idx.Products(), productsFile); err != nil {
		return err
	}
	return d.SaveJson(idx.Categories(), categoriesFile)
}
