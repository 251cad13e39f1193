package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"olist-insights/pkg/analytics"
	"olist-insights/pkg/config"
	"olist-insights/pkg/dataset"
	"olist-insights/pkg/handler"
	"olist-insights/pkg/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	dataDir := flag.String("data", "data", "Directory with the Olist CSV files")
	dsn := flag.String("dsn", os.Getenv("OLIST_DSN"), "Optional MySQL/MariaDB DSN; overrides -data when set")
	serve := flag.Bool("serve", false, "Serve the JSON API instead of printing a report")
	rangeOpt := flag.String("range", models.RangeAll, "Date range preset: all|last-year|last-6-months|last-3-months|custom")
	startOpt := flag.String("start", "", "Custom window start (YYYY-MM-DD)")
	endOpt := flag.String("end", "", "Custom window end (YYYY-MM-DD)")
	category := flag.String("category", "", "Product category filter")
	state := flag.String("state", "", "Customer state filter (2-letter code)")
	flag.Parse()

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	opts := models.FilterOptions{Range: *rangeOpt, Category: *category, State: *state}
	if *startOpt != "" || *endOpt != "" {
		opts.Range = models.RangeCustom
		if opts.Start, err = parseDate(*startOpt); err != nil {
			log.Fatalf("start: %v", err)
		}
		if opts.End, err = parseDate(*endOpt); err != nil {
			log.Fatalf("end: %v", err)
		}
		opts.End = opts.End.Add(24*time.Hour - time.Second)
	}

	if *serve {
		runServer(cfg, *dataDir, *dsn)
		return
	}

	ds, err := loadDataset(*dataDir, *dsn)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	printReport(analytics.BuildReport(ds, opts, cfg.TopN))
}

func loadDataset(dir, dsn string) (*models.Dataset, error) {
	if dsn != "" {
		db, dsnUsed, err := dataset.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		log.WithFields(log.Fields{"dsn": dsnUsed}).Info("Loading dataset from database")
		return dataset.LoadDB(context.Background(), db)
	}
	return dataset.Load(dir)
}

func runServer(cfg *config.Configuration, dir, dsn string) {
	var api *handler.API
	if dsn != "" {
		ds, err := loadDataset(dir, dsn)
		if err != nil {
			log.Fatalf("load dataset: %v", err)
		}
		api = handler.NewStatic(ds, cfg.TopN)
	} else {
		cache, err := dataset.NewCache(cfg.CacheSize)
		if err != nil {
			log.Fatalf("cache: %v", err)
		}
		// Fail fast on an unreadable data directory before binding the port.
		if _, err := cache.Load(dir); err != nil {
			log.Fatalf("load dataset: %v", err)
		}
		api = handler.New(cache, dir, cfg.TopN)
	}

	if cfg.Env != config.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	handler.InitRoutes(r, api)
	log.WithFields(log.Fields{"port": cfg.Port}).Info("Serving analytics API")
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date (expected YYYY-MM-DD)")
	}
	return time.Parse("2006-01-02", s)
}

func printReport(r *analytics.Report) {
	fmt.Printf("Window: %s .. %s\n\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))

	fmt.Printf("Sales: orders=%d total=%.2f avg_order=%.2f\n", r.Sales.TotalOrders, r.Sales.TotalSales, r.Sales.AvgOrderValue)
	for _, m := range r.MonthlyTrend {
		fmt.Printf("  %s ; %.2f\n", m.Month, m.Total)
	}
	fmt.Println("Top categories:")
	for _, c := range r.TopCategories {
		fmt.Printf("  %s ; total=%.2f ; orders=%d\n", c.Category, c.Total, c.OrderCount)
	}

	fmt.Printf("\nRFM customers=%d\n", len(r.RFM))
	if len(r.RFM) == 0 {
		fmt.Println("  insufficient data for RFM in this window")
	}
	for _, s := range r.Segments {
		fmt.Printf("  %s ; %d\n", s.Segment, s.Count)
	}
	for _, p := range r.Profiles {
		fmt.Printf("  %s ; recency=%.1f freq=%.1f monetary=%.2f\n", p.Segment, p.AvgRecency, p.AvgFrequency, p.AvgMonetary)
	}

	fmt.Println("\nPayments:")
	for _, p := range r.Payments {
		fmt.Printf("  %s ; total=%.2f ; orders=%d ; share=%.1f%%\n", p.Type, p.TotalValue, p.OrderCount, p.Percentage)
	}
	fmt.Println("Credit card installments:")
	for _, i := range r.Installments {
		fmt.Printf("  %dx ; count=%d ; avg=%.2f\n", i.Installments, i.Count, i.AvgValue)
	}

	fmt.Printf("\nDelivery: orders=%d avg_actual=%.1fd avg_estimated=%.1fd on_time=%.1f%%\n",
		r.Delivery.Orders, r.Delivery.AvgActualDays, r.Delivery.AvgEstimatedDays, r.Delivery.OnTimePct)
	for _, b := range r.DeliveryBins {
		fmt.Printf("  %s ; %d\n", b.Status, b.Count)
	}

	fmt.Println("\nCustomers by state:")
	for _, s := range r.States {
		fmt.Printf("  %s ; %d\n", s.State, s.Customers)
	}
	for _, c := range r.Cities {
		fmt.Printf("  %s ; %d\n", c.City, c.Customers)
	}

	fmt.Printf("\nReviews: count=%d avg_score=%.2f\n", r.Reviews.Reviews, r.Reviews.AvgScore)
}
