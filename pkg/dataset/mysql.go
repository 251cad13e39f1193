package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"olist-insights/pkg/models"

	_ "github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"
)

// Open accepts mariadb:// or mysql:// URLs as well as native driver DSNs.
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// LoadDB reads the Olist tables from a MySQL/MariaDB database into the
// same Dataset shape the CSV loader produces. Table names follow the
// Olist dump (orders, order_items, order_payments, customers, products,
// product_category_name_translation, order_reviews, sellers).
func LoadDB(ctx context.Context, db *sql.DB) (*models.Dataset, error) {
	ds := &models.Dataset{}

	translations := map[string]string{}
	rows, err := db.QueryContext(ctx, `SELECT product_category_name, product_category_name_english FROM product_category_name_translation`)
	if err == nil {
		for rows.Next() {
			var native, english sql.NullString
			if err := rows.Scan(&native, &english); err != nil {
				rows.Close()
				return nil, err
			}
			translations[native.String] = english.String
		}
		rows.Close()
	} else {
		log.WithFields(log.Fields{"err": err}).Warn("No category translations, using native names")
	}

	rows, err = db.QueryContext(ctx, `
		SELECT order_id, customer_id, order_status, order_purchase_timestamp,
		       order_approved_at, order_delivered_carrier_date,
		       order_delivered_customer_date, order_estimated_delivery_date
		FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	for rows.Next() {
		var o models.Order
		var status sql.NullString
		var purchase, approved, carrier, delivered, estimated sql.NullTime
		if err := rows.Scan(&o.ID, &o.CustomerID, &status, &purchase, &approved, &carrier, &delivered, &estimated); err != nil {
			rows.Close()
			return nil, err
		}
		o.Status = status.String
		o.PurchaseTimestamp = nullUTC(purchase)
		o.ApprovedAt = nullUTC(approved)
		o.DeliveredCarrierDate = nullUTC(carrier)
		o.DeliveredCustomerDate = nullUTC(delivered)
		o.EstimatedDeliveryDate = nullUTC(estimated)
		ds.Orders = append(ds.Orders, o)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	rows, err = db.QueryContext(ctx, `SELECT order_id, product_id, price, freight_value FROM order_items`)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Price, &it.FreightValue); err != nil {
			rows.Close()
			return nil, err
		}
		ds.Items = append(ds.Items, it)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	rows, err = db.QueryContext(ctx, `SELECT order_id, payment_type, payment_installments, payment_value FROM order_payments`)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	for rows.Next() {
		var p models.Payment
		var ptype sql.NullString
		if err := rows.Scan(&p.OrderID, &ptype, &p.Installments, &p.Value); err != nil {
			rows.Close()
			return nil, err
		}
		p.Type = ptype.String
		ds.Payments = append(ds.Payments, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	rows, err = db.QueryContext(ctx, `SELECT customer_id, customer_city, customer_state FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	for rows.Next() {
		var c models.Customer
		var city, state sql.NullString
		if err := rows.Scan(&c.ID, &city, &state); err != nil {
			rows.Close()
			return nil, err
		}
		c.City = city.String
		c.State = state.String
		ds.Customers = append(ds.Customers, c)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	rows, err = db.QueryContext(ctx, `SELECT product_id, product_category_name FROM products`)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	for rows.Next() {
		var id string
		var native sql.NullString
		if err := rows.Scan(&id, &native); err != nil {
			rows.Close()
			return nil, err
		}
		ds.Products = append(ds.Products, models.Product{
			ID:             id,
			CategoryNative: native.String,
			Category:       canonicalCategory(native.String, translations),
		})
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	rows, err = db.QueryContext(ctx, `SELECT review_id, order_id, review_score FROM order_reviews`)
	if err == nil {
		for rows.Next() {
			var r models.Review
			if err := rows.Scan(&r.ID, &r.OrderID, &r.Score); err != nil {
				rows.Close()
				return nil, err
			}
			ds.Reviews = append(ds.Reviews, r)
		}
		if err := closeRows(rows); err != nil {
			return nil, fmt.Errorf("load reviews: %w", err)
		}
	} else {
		log.WithFields(log.Fields{"err": err}).Warn("Reviews not loaded")
	}

	rows, err = db.QueryContext(ctx, `SELECT seller_id, seller_city, seller_state FROM sellers`)
	if err == nil {
		for rows.Next() {
			var s models.Seller
			var city, state sql.NullString
			if err := rows.Scan(&s.ID, &city, &state); err != nil {
				rows.Close()
				return nil, err
			}
			s.City = city.String
			s.State = state.String
			ds.Sellers = append(ds.Sellers, s)
		}
		if err := closeRows(rows); err != nil {
			return nil, fmt.Errorf("load sellers: %w", err)
		}
	} else {
		log.WithFields(log.Fields{"err": err}).Warn("Sellers not loaded")
	}

	buildIndexes(ds)
	log.WithFields(log.Fields{
		"orders": len(ds.Orders), "items": len(ds.Items), "payments": len(ds.Payments),
		"customers": len(ds.Customers), "products": len(ds.Products),
	}).Info("Dataset loaded from database")
	return ds, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

func nullUTC(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}
