package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"SheetSentinel/internal/collector"
	"SheetSentinel/internal/model"
	"SheetSentinel/internal/pipeline"
	"SheetSentinel/internal/report"
)

// LatestSource provides the most recent scheduled report.
type LatestSource interface {
	Latest() *model.Report
}

// Server exposes the analysis over HTTP.
type Server struct {
	Options  pipeline.Options
	Latest   LatestSource
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
	engine   *gin.Engine
}

// New creates a Server. latest and gatherer may be nil.
func New(opts pipeline.Options, latest LatestSource, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	s := &Server{
		Options:  opts,
		Latest:   latest,
		Gatherer: gatherer,
		Log:      log.With().Str("component", "server").Logger(),
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.accessLog())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.getHealth)

	api := s.engine.Group("/api/v1")
	api.POST("/analyze", s.analyze)
	api.GET("/report/latest", s.getLatest)

	if s.Gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getLatest(c *gin.Context) {
	var r *model.Report
	if s.Latest != nil {
		r = s.Latest.Latest()
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report available yet"})
		return
	}
	s.write(c, r)
}

func (s *Server) analyze(c *gin.Context) {
	opts, err := s.queryOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := collector.ParseCSV(http.MaxBytesReader(c.Writer, c.Request.Body, collector.MaxTableBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := pipeline.Run(table, opts)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	s.write(c, r)
}

func (s *Server) write(c *gin.Context, r *model.Report) {
	exp := report.NewExport(r)
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := exp.WriteCSV(c.Writer); err != nil {
			s.Log.Error().Err(err).Msg("write csv")
		}
		return
	}
	c.JSON(http.StatusOK, exp)
}

// queryOptions applies period and threshold overrides from the query string.
func (s *Server) queryOptions(c *gin.Context) (pipeline.Options, error) {
	opts := s.Options
	ints := []struct {
		key string
		dst *int
	}{
		{"sma_short", &opts.Indicators.SMAShort},
		{"sma_long", &opts.Indicators.SMALong},
		{"ema", &opts.Indicators.EMA},
		{"rsi", &opts.Indicators.RSI},
		{"bb_period", &opts.Indicators.BollingerPeriod},
	}
	for _, p := range ints {
		if v, ok := c.GetQuery(p.key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("%s: %w", p.key, err)
			}
			*p.dst = n
		}
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"bb_width", &opts.Indicators.BollingerWidth},
		{"overbought", &opts.Signal.Overbought},
		{"oversold", &opts.Signal.Oversold},
	}
	for _, p := range floats {
		if v, ok := c.GetQuery(p.key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, fmt.Errorf("%s: %w", p.key, err)
			}
			*p.dst = f
		}
	}
	if v, ok := c.GetQuery("extra_rsi"); ok {
		periods, err := parsePeriods(v)
		if err != nil {
			return opts, fmt.Errorf("extra_rsi: %w", err)
		}
		opts.Indicators.ExtraRSI = periods
	}
	if v, ok := c.GetQuery("reject_duplicates"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("reject_duplicates: %w", err)
		}
		opts.RejectDuplicates = b
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// parsePeriods reads a comma-separated list such as "7,28".
func parsePeriods(v string) ([]int, error) {
	var periods []int
	for _, f := range strings.Split(v, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		periods = append(periods, n)
	}
	return periods, nil
}
