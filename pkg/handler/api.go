package handler

import (
	"fmt"
	"net/http"
	"time"

	"olist-insights/pkg/analytics"
	"olist-insights/pkg/dataset"
	"olist-insights/pkg/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// API serves the analytics pipeline over JSON. Each request resolves the
// dataset through the loader function, so a modtime-keyed cache re-reads
// changed files transparently.
type API struct {
	topN int
	load func() (*models.Dataset, error)
}

// New builds an API backed by the CSV directory behind cache.
func New(cache *dataset.Cache, dir string, topN int) *API {
	return &API{
		topN: topN,
		load: func() (*models.Dataset, error) { return cache.Load(dir) },
	}
}

// NewStatic builds an API over a fixed, already loaded Dataset (the
// database source, tests).
func NewStatic(ds *models.Dataset, topN int) *API {
	return &API{
		topN: topN,
		load: func() (*models.Dataset, error) { return ds, nil },
	}
}

const dateParamLayout = "2006-01-02"

var validRanges = map[string]bool{
	models.RangeAll:        true,
	models.RangeLastYear:   true,
	models.RangeLast6Month: true,
	models.RangeLast3Month: true,
	models.RangeCustom:     true,
}

func parseFilters(c *gin.Context) (models.FilterOptions, error) {
	opts := models.FilterOptions{
		Range:    c.DefaultQuery("range", models.RangeAll),
		Category: c.Query("category"),
		State:    c.Query("state"),
	}
	if !validRanges[opts.Range] {
		return opts, fmt.Errorf("unknown range %q", opts.Range)
	}
	if s := c.Query("start"); s != "" {
		ts, err := time.Parse(dateParamLayout, s)
		if err != nil {
			return opts, fmt.Errorf("bad start date %q", s)
		}
		opts.Start = ts
		opts.Range = models.RangeCustom
	}
	if s := c.Query("end"); s != "" {
		ts, err := time.Parse(dateParamLayout, s)
		if err != nil {
			return opts, fmt.Errorf("bad end date %q", s)
		}
		// Include the whole end day.
		opts.End = ts.Add(24*time.Hour - time.Second)
		opts.Range = models.RangeCustom
	}
	return opts, nil
}

// request resolves the dataset and the filter window for one call,
// writing the error response itself when something is off.
func (a *API) request(c *gin.Context) (*models.Dataset, models.FilterOptions, time.Time, time.Time, bool) {
	opts, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  err.Error(),
			"status": http.StatusBadRequest,
		})
		return nil, opts, time.Time{}, time.Time{}, false
	}
	ds, err := a.load()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("Dataset load failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "dataset unavailable",
			"status": http.StatusInternalServerError,
		})
		return nil, opts, time.Time{}, time.Time{}, false
	}
	minTS, maxTS := ds.PurchaseBounds()
	start, end := analytics.ResolveWindow(opts, minTS, maxTS)
	return ds, opts, start, end, true
}

func (a *API) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) OverviewHandler(c *gin.Context) {
	ds, opts, start, end, ok := a.request(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":    len(ds.Orders),
		"items":     len(ds.Items),
		"payments":  len(ds.Payments),
		"customers": len(ds.Customers),
		"products":  len(ds.Products),
		"reviews":   len(ds.Reviews),
		"sellers":   len(ds.Sellers),
		"filters":   opts,
		"start":     start,
		"end":       end,
	})
}
