package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"olist-insights/pkg/models"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

// Olist dataset file names.
const (
	fileOrders       = "orders_dataset.csv"
	fileItems        = "order_items_dataset.csv"
	filePayments     = "order_payments_dataset.csv"
	fileCustomers    = "customers_dataset.csv"
	fileProducts     = "products_dataset.csv"
	fileReviews      = "order_reviews_dataset.csv"
	fileSellers      = "sellers_dataset.csv"
	fileTranslations = "product_category_name_translation.csv"
)

// ErrMissingFile marks a required dataset file that does not resolve.
var ErrMissingFile = errors.New("dataset file missing")

// Load reads the Olist CSV files under dir into one immutable Dataset.
// Orders, items, payments, customers and products are required; reviews,
// sellers and the category translation table are loaded when present.
// Timestamp columns parse leniently: empty or malformed values become the
// zero time, never an error.
func Load(dir string) (*models.Dataset, error) {
	required := []string{fileOrders, fileItems, filePayments, fileCustomers, fileProducts}
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, name)
		}
	}

	bar := progressbar.Default(8, "loading datasets")
	ds := &models.Dataset{}

	translations := map[string]string{}
	if tbl, err := readTable(filepath.Join(dir, fileTranslations)); err == nil {
		for _, row := range tbl.rows {
			translations[tbl.get(row, "product_category_name")] = tbl.get(row, "product_category_name_english")
		}
	} else {
		log.WithFields(log.Fields{"file": fileTranslations, "err": err}).Warn("No category translations, using native names")
	}
	_ = bar.Add(1)

	tbl, err := readTable(filepath.Join(dir, fileOrders))
	if err != nil {
		return nil, err
	}
	for _, row := range tbl.rows {
		ds.Orders = append(ds.Orders, models.Order{
			ID:                    tbl.get(row, "order_id"),
			CustomerID:            tbl.get(row, "customer_id"),
			Status:                tbl.get(row, "order_status"),
			PurchaseTimestamp:     parseTime(tbl.get(row, "order_purchase_timestamp")),
			ApprovedAt:            parseTime(tbl.get(row, "order_approved_at")),
			DeliveredCarrierDate:  parseTime(tbl.get(row, "order_delivered_carrier_date")),
			DeliveredCustomerDate: parseTime(tbl.get(row, "order_delivered_customer_date")),
			EstimatedDeliveryDate: parseTime(tbl.get(row, "order_estimated_delivery_date")),
		})
	}
	_ = bar.Add(1)

	tbl, err = readTable(filepath.Join(dir, fileItems))
	if err != nil {
		return nil, err
	}
	for _, row := range tbl.rows {
		ds.Items = append(ds.Items, models.OrderItem{
			OrderID:      tbl.get(row, "order_id"),
			ProductID:    tbl.get(row, "product_id"),
			Price:        parseFloat(tbl.get(row, "price")),
			FreightValue: parseFloat(tbl.get(row, "freight_value")),
		})
	}
	_ = bar.Add(1)

	tbl, err = readTable(filepath.Join(dir, filePayments))
	if err != nil {
		return nil, err
	}
	for _, row := range tbl.rows {
		ds.Payments = append(ds.Payments, models.Payment{
			OrderID:      tbl.get(row, "order_id"),
			Type:         tbl.get(row, "payment_type"),
			Installments: parseInt(tbl.get(row, "payment_installments")),
			Value:        parseFloat(tbl.get(row, "payment_value")),
		})
	}
	_ = bar.Add(1)

	tbl, err = readTable(filepath.Join(dir, fileCustomers))
	if err != nil {
		return nil, err
	}
	for _, row := range tbl.rows {
		ds.Customers = append(ds.Customers, models.Customer{
			ID:    tbl.get(row, "customer_id"),
			City:  tbl.get(row, "customer_city"),
			State: tbl.get(row, "customer_state"),
		})
	}
	_ = bar.Add(1)

	tbl, err = readTable(filepath.Join(dir, fileProducts))
	if err != nil {
		return nil, err
	}
	for _, row := range tbl.rows {
		native := tbl.get(row, "product_category_name")
		ds.Products = append(ds.Products, models.Product{
			ID:             tbl.get(row, "product_id"),
			CategoryNative: native,
			Category:       canonicalCategory(native, translations),
		})
	}
	_ = bar.Add(1)

	if tbl, err = readTable(filepath.Join(dir, fileReviews)); err == nil {
		for _, row := range tbl.rows {
			ds.Reviews = append(ds.Reviews, models.Review{
				ID:      tbl.get(row, "review_id"),
				OrderID: tbl.get(row, "order_id"),
				Score:   parseInt(tbl.get(row, "review_score")),
			})
		}
	} else {
		log.WithFields(log.Fields{"file": fileReviews, "err": err}).Warn("Reviews not loaded")
	}
	_ = bar.Add(1)

	if tbl, err = readTable(filepath.Join(dir, fileSellers)); err == nil {
		for _, row := range tbl.rows {
			ds.Sellers = append(ds.Sellers, models.Seller{
				ID:    tbl.get(row, "seller_id"),
				City:  tbl.get(row, "seller_city"),
				State: tbl.get(row, "seller_state"),
			})
		}
	} else {
		log.WithFields(log.Fields{"file": fileSellers, "err": err}).Warn("Sellers not loaded")
	}
	_ = bar.Add(1)

	buildIndexes(ds)
	log.WithFields(log.Fields{
		"orders": len(ds.Orders), "items": len(ds.Items), "payments": len(ds.Payments),
		"customers": len(ds.Customers), "products": len(ds.Products),
	}).Info("Dataset loaded")
	return ds, nil
}

func buildIndexes(ds *models.Dataset) {
	ds.ProductByID = make(map[string]models.Product, len(ds.Products))
	for _, p := range ds.Products {
		ds.ProductByID[p.ID] = p
	}
	ds.CustomerByID = make(map[string]models.Customer, len(ds.Customers))
	for _, c := range ds.Customers {
		ds.CustomerByID[c.ID] = c
	}
}

func canonicalCategory(native string, translations map[string]string) string {
	if t, ok := translations[native]; ok && t != "" {
		return t
	}
	return native
}

// table pairs a header index with the data rows of one CSV file.
type table struct {
	header map[string]int
	rows   [][]string
}

func (t *table) get(row []string, col string) string {
	idx, ok := t.header[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", filepath.Base(path), err)
	}
	t := &table{header: make(map[string]int, len(head))}
	for i, col := range head {
		t.header[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Timestamp layouts seen in the Olist dumps, most specific first.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
