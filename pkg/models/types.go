package models

import (
	"time"
)

/*
LOAD -> record shapes for the raw Olist tables. All optional date columns
use the zero time.Time when the source value is missing or unparseable.
*/

// Order statuses as they appear in orders_dataset.csv.
const (
	StatusCreated     = "created"
	StatusApproved    = "approved"
	StatusInvoiced    = "invoiced"
	StatusProcessing  = "processing"
	StatusShipped     = "shipped"
	StatusDelivered   = "delivered"
	StatusUnavailable = "unavailable"
	StatusCanceled    = "canceled"
)

// Payment types as they appear in order_payments_dataset.csv.
const (
	PaymentCreditCard = "credit_card"
	PaymentBoleto     = "boleto"
	PaymentVoucher    = "voucher"
	PaymentDebitCard  = "debit_card"
	PaymentNotDefined = "not_defined"
)

type Order struct {
	ID                    string    `json:"order_id"`
	CustomerID            string    `json:"customer_id"`
	Status                string    `json:"order_status"`
	PurchaseTimestamp     time.Time `json:"purchase_timestamp"`
	ApprovedAt            time.Time `json:"approved_at,omitempty"`
	DeliveredCarrierDate  time.Time `json:"delivered_carrier_date,omitempty"`
	DeliveredCustomerDate time.Time `json:"delivered_customer_date,omitempty"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date,omitempty"`
}

type OrderItem struct {
	OrderID      string  `json:"order_id"`
	ProductID    string  `json:"product_id"`
	Price        float64 `json:"price"`
	FreightValue float64 `json:"freight_value"`
}

type Payment struct {
	OrderID      string  `json:"order_id"`
	Type         string  `json:"payment_type"`
	Installments int     `json:"payment_installments"`
	Value        float64 `json:"payment_value"`
}

type Customer struct {
	ID    string `json:"customer_id"`
	City  string `json:"customer_city"`
	State string `json:"customer_state"`
}

// Product carries one canonical Category, resolved at load time from the
// translation table with a fallback to the native category name.
type Product struct {
	ID             string `json:"product_id"`
	CategoryNative string `json:"product_category_name"`
	Category       string `json:"category"`
}

type Review struct {
	ID      string `json:"review_id"`
	OrderID string `json:"order_id"`
	Score   int    `json:"review_score"`
}

type Seller struct {
	ID    string `json:"seller_id"`
	City  string `json:"seller_city"`
	State string `json:"seller_state"`
}

// Dataset is the immutable in-memory snapshot every analysis runs over.
// Index maps are built once at load time and must not be mutated.
type Dataset struct {
	Orders    []Order
	Items     []OrderItem
	Payments  []Payment
	Customers []Customer
	Products  []Product
	Reviews   []Review
	Sellers   []Seller

	ProductByID  map[string]Product
	CustomerByID map[string]Customer
}

// PurchaseBounds returns the min and max order purchase timestamps, the
// anchors for the date-range presets. Zero times when there are no orders.
func (d *Dataset) PurchaseBounds() (time.Time, time.Time) {
	var min, max time.Time
	for _, o := range d.Orders {
		if o.PurchaseTimestamp.IsZero() {
			continue
		}
		if min.IsZero() || o.PurchaseTimestamp.Before(min) {
			min = o.PurchaseTimestamp
		}
		if max.IsZero() || o.PurchaseTimestamp.After(max) {
			max = o.PurchaseTimestamp
		}
	}
	return min, max
}

/*
CONFIG -> user-selected filters, re-applied in full on every run.
*/

// Date-range presets, anchored on the dataset's max purchase timestamp.
const (
	RangeAll        = "all"
	RangeLastYear   = "last-year"
	RangeLast6Month = "last-6-months"
	RangeLast3Month = "last-3-months"
	RangeCustom     = "custom"
)

type FilterOptions struct {
	Range    string    `json:"range"`
	Start    time.Time `json:"start,omitempty"`
	End      time.Time `json:"end,omitempty"`
	Category string    `json:"category,omitempty"`
	State    string    `json:"state,omitempty"`
}

/*
COMPUTE -> derived rows handed to the presenter. Ordered slices with
stable column names; no rendering concerns here.
*/

type SalesOverview struct {
	TotalOrders   int     `json:"total_orders"`
	TotalSales    float64 `json:"total_sales"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

type MonthlySales struct {
	Month string  `json:"month"` // "2017-11"
	Total float64 `json:"total"`
}

type CategorySales struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	OrderCount int     `json:"order_count"`
}

type PaymentSummary struct {
	Type       string  `json:"payment_type"`
	TotalValue float64 `json:"total_value"`
	OrderCount int     `json:"order_count"`
	Percentage float64 `json:"percentage"`
	AvgValue   float64 `json:"avg_value"`
}

type InstallmentStat struct {
	Installments int     `json:"installments"`
	Count        int     `json:"count"`
	AvgValue     float64 `json:"avg_value"`
}

// Delivery status labels, ordered best to worst.
const (
	DeliveryVeryEarly = "Very Early"
	DeliveryEarly     = "Early"
	DeliveryOnTime    = "On Time"
	DeliveryLate      = "Late"
	DeliveryVeryLate  = "Very Late"
)

type DeliveryMetrics struct {
	Orders           int     `json:"orders"`
	AvgActualDays    float64 `json:"avg_actual_days"`
	AvgEstimatedDays float64 `json:"avg_estimated_days"`
	OnTimePct        float64 `json:"on_time_pct"`
}

type DeliveryStatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DeliveryDaysCount struct {
	Days  int `json:"days"`
	Count int `json:"count"`
}

type StateCount struct {
	State     string `json:"state"`
	Customers int    `json:"customers"`
}

type CityCount struct {
	City      string `json:"city"`
	Customers int    `json:"customers"`
}

type WeekdaySales struct {
	Month   string  `json:"month"`   // "January".."December"
	Weekday string  `json:"weekday"` // "Monday".."Sunday"
	Total   float64 `json:"total"`
}

type ReviewSummary struct {
	Reviews  int          `json:"reviews"`
	AvgScore float64      `json:"avg_score"`
	ByScore  []ScoreCount `json:"by_score"`
}

type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

/*
COMPUTE -> RFM segmentation output.
*/

// Segments ordered worst to best. Composite thresholds are fixed:
// [0,4] Bronze, (4,8] Silver, (8,12] Gold, (12,15] Platinum.
const (
	SegmentBronze   = "Bronze"
	SegmentSilver   = "Silver"
	SegmentGold     = "Gold"
	SegmentPlatinum = "Platinum"
)

type RFMRecord struct {
	CustomerID  string  `json:"customer_id"`
	RecencyDays int     `json:"recency_days"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	RScore      int     `json:"r_score"`
	FScore      int     `json:"f_score"`
	MScore      int     `json:"m_score"`
	Composite   int     `json:"rfm_score"`
	Segment     string  `json:"segment"`
}

type SegmentCount struct {
	Segment string `json:"segment"`
	Count   int    `json:"count"`
}

type SegmentProfile struct {
	Segment      string  `json:"segment"`
	Customers    int     `json:"customers"`
	AvgRecency   float64 `json:"avg_recency"`
	AvgFrequency float64 `json:"avg_frequency"`
	AvgMonetary  float64 `json:"avg_monetary"`
}
