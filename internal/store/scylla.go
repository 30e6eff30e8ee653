package store

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

// SessionProvider hands out the live Scylla session (database.ScyllaManager).
type SessionProvider interface {
	Session() (*gocql.Session, error)
}

// maxCASAttempts bounds compare-and-set loops under contention.
const maxCASAttempts = 10

// Prices are stored as double in Scylla and rounded back to cents on read.
func priceFromDouble(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func priceToDouble(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
