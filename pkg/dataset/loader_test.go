package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, fileOrders, `order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date
o1,c1,delivered,2018-01-01 10:30:00,2018-01-01 11:00:00,2018-01-03 08:00:00,2018-01-08 14:00:00,2018-01-15 00:00:00
o2,c2,shipped,2018-02-01 09:00:00,,,not-a-date,2018-02-20 00:00:00
`)
	writeFile(t, dir, fileItems, `order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value
o1,1,p1,s1,2018-01-02 00:00:00,49.90,8.10
o2,1,p2,s1,2018-02-02 00:00:00,120.00,15.00
`)
	writeFile(t, dir, filePayments, `order_id,payment_sequential,payment_type,payment_installments,payment_value
o1,1,credit_card,3,58.00
o2,1,boleto,1,135.00
`)
	writeFile(t, dir, fileCustomers, `customer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state
c1,u1,01000,sao paulo,SP
c2,u2,20000,rio de janeiro,RJ
`)
	writeFile(t, dir, fileProducts, `product_id,product_category_name
p1,brinquedos
p2,esporte_lazer
`)
	writeFile(t, dir, fileTranslations, `product_category_name,product_category_name_english
brinquedos,toys
`)
	writeFile(t, dir, fileReviews, `review_id,order_id,review_score
r1,o1,5
`)
	writeFile(t, dir, fileSellers, `seller_id,seller_city,seller_state
s1,campinas,SP
`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	ds, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Orders) != 2 || len(ds.Items) != 2 || len(ds.Payments) != 2 {
		t.Fatalf("unexpected row counts: %d orders, %d items, %d payments",
			len(ds.Orders), len(ds.Items), len(ds.Payments))
	}

	o1 := ds.Orders[0]
	want := time.Date(2018, 1, 1, 10, 30, 0, 0, time.UTC)
	if !o1.PurchaseTimestamp.Equal(want) {
		t.Fatalf("purchase timestamp: got %v, want %v", o1.PurchaseTimestamp, want)
	}

	// Missing and malformed dates load as zero, never as an error.
	o2 := ds.Orders[1]
	if !o2.ApprovedAt.IsZero() || !o2.DeliveredCustomerDate.IsZero() {
		t.Fatalf("optional dates should be zero: %+v", o2)
	}

	// Translated category wins, native name is the fallback.
	if ds.ProductByID["p1"].Category != "toys" {
		t.Fatalf("p1 category: got %q, want toys", ds.ProductByID["p1"].Category)
	}
	if ds.ProductByID["p2"].Category != "esporte_lazer" {
		t.Fatalf("p2 category: got %q, want native fallback", ds.ProductByID["p2"].Category)
	}

	if ds.CustomerByID["c1"].State != "SP" {
		t.Fatalf("customer index not built: %+v", ds.CustomerByID["c1"])
	}
	if len(ds.Reviews) != 1 || len(ds.Sellers) != 1 {
		t.Fatalf("optional tables not loaded: %d reviews, %d sellers", len(ds.Reviews), len(ds.Sellers))
	}
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	if err := os.Remove(filepath.Join(dir, fileOrders)); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}
}

func TestPurchaseBounds(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	ds, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	min, max := ds.PurchaseBounds()
	if min.Month() != time.January || max.Month() != time.February {
		t.Fatalf("unexpected bounds: [%v, %v]", min, max)
	}
}

func TestCache_ReturnsSameSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	cache, err := NewCache(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := cache.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("unchanged files should hit the cached snapshot")
	}

	reloaded, err := cache.Reload(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded == first {
		t.Fatal("Reload should produce a fresh snapshot")
	}
}
