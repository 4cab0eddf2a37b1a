// cmd/seed_products/main.go
package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"quickcheckout/internal/infra/config"
)

// Seeds a small demo catalog so a fresh deployment has something to sell.
func main() {
	ctx := context.Background()

	cfg := config.Load()

	client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
	if err != nil {
		log.Fatalf("firestore.NewClient: %v", err)
	}
	defer client.Close()

	col := client.Collection("products")

	seed := []struct {
		Name         string
		RegularPrice int
		Stock        int
	}{
		{Name: "T-Shirt", RegularPrice: 30000, Stock: 50},
		{Name: "Jeans", RegularPrice: 80000, Stock: 30},
		{Name: "Sneakers", RegularPrice: 100000, Stock: 20},
	}

	batch := client.Batch()
	for _, p := range seed {
		ref := col.NewDoc()
		batch.Set(ref, map[string]any{
			"id":           ref.ID,
			"name":         p.Name,
			"regularPrice": p.RegularPrice,
			"stock":        p.Stock,
			"image":        "/placeholder.svg",
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		log.Fatalf("batch.Commit: %v", err)
	}
	log.Printf("✅ seeded %d products (project: %s)", len(seed), cfg.FirestoreProjectID)
}
