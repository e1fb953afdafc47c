// Package identifier builds human-readable worker identifiers of the form
// PREFIX-RR-YY-NNNNNN.
package identifier

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"
)

// UnknownRegion is used when a home region is not in the table.
const UnknownRegion = "XX"

const (
	suffixMin  = 100000
	suffixSpan = 900000
)

var regionCodes = map[string]string{
	"andhra pradesh":    "AP",
	"arunachal pradesh": "AR",
	"assam":             "AS",
	"bihar":             "BR",
	"chhattisgarh":      "CG",
	"goa":               "GA",
	"gujarat":           "GJ",
	"haryana":           "HR",
	"himachal pradesh":  "HP",
	"jharkhand":         "JH",
	"karnataka":         "KA",
	"kerala":            "KL",
	"madhya pradesh":    "MP",
	"maharashtra":       "MH",
	"manipur":           "MN",
	"meghalaya":         "ML",
	"mizoram":           "MZ",
	"nagaland":          "NL",
	"odisha":            "OD",
	"punjab":            "PB",
	"rajasthan":         "RJ",
	"sikkim":            "SK",
	"tamil nadu":        "TN",
	"telangana":         "TG",
	"tripura":           "TR",
	"uttar pradesh":     "UP",
	"uttarakhand":       "UK",
	"west bengal":       "WB",
}

// RegionCode returns the two-letter code for a region name, or UnknownRegion.
// Lookup ignores case and surrounding whitespace.
func RegionCode(region string) string {
	if code, ok := regionCodes[strings.ToLower(strings.TrimSpace(region))]; ok {
		return code
	}
	return UnknownRegion
}

// Generator produces worker identifiers. The zero value is not usable; call New.
type Generator struct {
	prefix string
	now    func() time.Time
	rand   io.Reader
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for the year component.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom overrides the entropy source used for the numeric suffix.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// New returns a Generator using prefix as the fixed system prefix.
func New(prefix string, opts ...Option) *Generator {
	g := &Generator{prefix: prefix, now: time.Now, rand: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds an identifier for homeRegion. It never fails: if the
// entropy source errors the suffix falls back to a time-derived value.
func (g *Generator) Generate(homeRegion string) string {
	now := g.now()
	return fmt.Sprintf("%s-%s-%02d-%d", g.prefix, RegionCode(homeRegion), now.Year()%100, g.suffix(now))
}

func (g *Generator) suffix(now time.Time) int64 {
	n, err := rand.Int(g.rand, big.NewInt(suffixSpan))
	if err != nil {
		return suffixMin + now.UnixNano()%suffixSpan
	}
	return suffixMin + n.Int64()
}
