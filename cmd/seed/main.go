package main

import (
	"flag"
	"log"

	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/storage"
	"github.com/matst80/slask-store/pkg/types"
)

var dataDir = flag.String("data", "data", "data directory to seed")
var fromDir = flag.String("from", "", "directory with existing products.json and categories.json to import")

func demoCategories() []*types.Category {
	return []*types.Category{
		{Id: 1, Name: types.LocalizedText{En: "Electronics", Ar: "إلكترونيات"}, Image: "/images/categories/electronics.png"},
		{Id: 2, Name: types.LocalizedText{En: "Fashion", Ar: "أزياء"}, Image: "/images/categories/fashion.png"},
		{Id: 3, Name: types.LocalizedText{En: "Home & Kitchen", Ar: "المنزل والمطبخ"}, Image: "/images/categories/home.png"},
	}
}

func demoProducts() []*types.Product {
	return []*types.Product{
		{
			Id:          1,
			Name:        types.LocalizedText{En: "Wireless Headphones", Ar: "سماعات لاسلكية"},
			Description: types.LocalizedText{En: "Over ear, 30 hour battery", Ar: "فوق الأذن، بطارية ٣٠ ساعة"},
			Price:       29900, OfferPrice: 19900, Stock: 25, CategoryId: 1,
			IsBestSeller: true,
			Attributes: []types.Attribute{
				{Label: types.LocalizedText{En: "Color", Ar: "اللون"}, Value: types.LocalizedText{En: "Black", Ar: "أسود"}},
			},
		},
		{
			Id:          2,
			Name:        types.LocalizedText{En: "Smart Watch", Ar: "ساعة ذكية"},
			Description: types.LocalizedText{En: "Heart rate and sleep tracking", Ar: "تتبع نبضات القلب والنوم"},
			Price:       49900, Stock: 12, CategoryId: 1,
		},
		{
			Id:          3,
			Name:        types.LocalizedText{En: "Cotton T-Shirt", Ar: "قميص قطني"},
			Description: types.LocalizedText{En: "Plain crew neck", Ar: "رقبة دائرية سادة"},
			Price:       4900, OfferPrice: 2900, Stock: 80, CategoryId: 2,
			IsBestSeller: true,
		},
		{
			Id:          4,
			Name:        types.LocalizedText{En: "Ceramic Mug Set", Ar: "طقم أكواب سيراميك"},
			Description: types.LocalizedText{En: "Set of four", Ar: "طقم من أربعة"},
			Price:       7900, Stock: 40, CategoryId: 3,
		},
	}
}

func main() {
	flag.Parse()

	idx := catalog.NewIndex()
	if *fromDir != "" {
		source := storage.NewDiskStorage(*fromDir)
		if err := source.LoadCatalog(idx); err != nil {
			log.Fatalf("Failed to load catalog from %s: %v", *fromDir, err)
		}
	} else {
		idx.Upsert(demoProducts()...)
		idx.SetCategories(demoCategories()...)
	}

	db := storage.NewDiskStorage(*dataDir)
	if err := db.SaveCatalog(idx); err != nil {
		log.Fatalf("Failed to save catalog: %v", err)
	}
	log.Printf("Seeded %d products into %s", idx.Len(), *dataDir)
}
