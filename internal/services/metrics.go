package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain metrics
var (
	workpaperCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentaltax_workpaper_calculations_total",
		Help: "Workpaper calculations by outcome.",
	}, []string{"outcome"})

	taxReturnsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentaltax_tax_returns_generated_total",
		Help: "Tax returns generated by jurisdiction.",
	}, []string{"jurisdiction"})

	taxReturnLocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentaltax_tax_return_locks_total",
		Help: "Tax return lock attempts by result (locked, refused, not_complete).",
	}, []string{"result"})
)
