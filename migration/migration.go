// Package migration links legacy orders to customer profiles.
//
// GenerateReport only reads. MigrateAll is the only writer and refuses a
// report that no longer describes the current orders and profiles.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"

	"restaurant/fault"
	"restaurant/models"
)

// Reasons an order is not migratable.
const (
	ReasonAlreadyMigrated = "already_migrated"
	ReasonNoCustomerData  = "no_customer_data"
	ReasonNoMatch         = "no_matching_profile"
	ReasonLowConfidence   = "low_confidence"
)

type OrderLog interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	MarkOrdersMigrated(ctx context.Context, links map[string]string) (int, error)
}

type ProfileStore interface {
	ListCustomers(ctx context.Context) ([]models.CustomerProfile, error)
	AppendOrderHistory(ctx context.Context, profileID string, entry models.HistoryEntry) (bool, error)
}

type Match struct {
	OrderID             string  `json:"orderId"`
	CustomerName        string  `json:"customerName"`
	BestMatchProfileID  string  `json:"bestMatchProfileId,omitempty"`
	BestMatchConfidence float64 `json:"bestMatchConfidence"`
	Matches             int     `json:"matches"`
	Reason              string  `json:"reason,omitempty"`
}

type Report struct {
	GeneratedAt   time.Time `json:"generatedAt"`
	Fingerprint   string    `json:"fingerprint"`
	Threshold     float64   `json:"threshold"`
	TotalOrders   int       `json:"totalOrders"`
	Migratable    []Match   `json:"migratable"`
	NotMigratable []Match   `json:"notMigratable"`
}

type Result struct {
	Processed int `json:"processed"`
	Migrated  int `json:"migrated"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

type Migrator struct {
	orders    OrderLog
	profiles  ProfileStore
	threshold float64
	maxAge    time.Duration
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Migrator)

func WithThreshold(t float64) Option { return func(m *Migrator) { m.threshold = t } }

// WithMaxAge bounds how old a report MigrateAll still accepts. Zero disables the check.
func WithMaxAge(d time.Duration) Option { return func(m *Migrator) { m.maxAge = d } }

func WithClock(now func() time.Time) Option { return func(m *Migrator) { m.now = now } }

func New(orders OrderLog, profiles ProfileStore, logger *slog.Logger, opts ...Option) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Migrator{
		orders:    orders,
		profiles:  profiles,
		threshold: DefaultThreshold,
		maxAge:    15 * time.Minute,
		now:       time.Now,
		log:       logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Migrator) load(ctx context.Context) ([]models.Order, []models.CustomerProfile, error) {
	orders, err := m.orders.ListOrders(ctx)
	if err != nil {
		return nil, nil, err
	}
	profiles, err := m.profiles.ListCustomers(ctx)
	if err != nil {
		return nil, nil, err
	}
	return orders, profiles, nil
}

// fingerprint hashes what matching depends on: order ids with their customer
// fields and profile identity, plus the report time so it cannot be moved.
// Migration marks and order history are left out so a report stays valid
// across its own run.
func fingerprint(generatedAt time.Time, orders []models.Order, profiles []models.CustomerProfile) string {
	h := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.WriteString("\x1f")
		}
		_, _ = h.WriteString("\x1e")
	}

	write("t", strconv.FormatInt(generatedAt.UnixNano(), 10))

	sorted := slices.Clone(orders)
	slices.SortFunc(sorted, func(a, b models.Order) int { return strings.Compare(a.ID, b.ID) })
	for _, o := range sorted {
		write("o", o.ID, o.CustomerName, o.CustomerPhone, o.DeliveryAddress)
	}
	ps := slices.Clone(profiles)
	slices.SortFunc(ps, func(a, b models.CustomerProfile) int { return strings.Compare(a.ID, b.ID) })
	for _, p := range ps {
		write("p", p.ID, p.DisplayName, p.Phone)
		for _, a := range p.Addresses {
			write("a", a.Street, a.City)
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// GenerateReport classifies every order without writing anything.
func (m *Migrator) GenerateReport(ctx context.Context) (Report, error) {
	orders, profiles, err := m.load(ctx)
	if err != nil {
		return Report{}, err
	}

	generatedAt := m.now()
	report := Report{
		GeneratedAt:   generatedAt,
		Fingerprint:   fingerprint(generatedAt, orders, profiles),
		Threshold:     m.threshold,
		TotalOrders:   len(orders),
		Migratable:    []Match{},
		NotMigratable: []Match{},
	}
	for _, o := range orders {
		match := Match{OrderID: o.ID, CustomerName: o.CustomerName}
		if o.Migrated {
			match.BestMatchProfileID = o.MigratedToProfile
			match.Reason = ReasonAlreadyMigrated
			report.NotMigratable = append(report.NotMigratable, match)
			continue
		}
		m.classify(o, profiles, &match)
		if match.Reason != "" {
			report.NotMigratable = append(report.NotMigratable, match)
			continue
		}
		report.Migratable = append(report.Migratable, match)
	}

	m.log.Info("migration report generated",
		"orders", report.TotalOrders,
		"migratable", len(report.Migratable),
		"notMigratable", len(report.NotMigratable))
	return report, nil
}

// classify fills in the best profile for an order that is not yet migrated.
// A non-empty Reason means the order is not migratable.
func (m *Migrator) classify(o models.Order, profiles []models.CustomerProfile, match *Match) {
	if o.CustomerName == "" && o.CustomerPhone == "" && o.DeliveryAddress == "" {
		match.Reason = ReasonNoCustomerData
		return
	}
	best, n := bestCandidate(o, profiles)
	match.Matches = n
	match.BestMatchProfileID = best.profile.ID
	match.BestMatchConfidence = best.confidence
	switch {
	case n == 0:
		match.Reason = ReasonNoMatch
	case best.confidence < m.threshold:
		match.Reason = ReasonLowConfidence
	}
}

// MigrateAll links every migratable order of report to its profile. The
// report must be recent and match the current data, otherwise StaleReport.
// Each listed match is classified again and must name the same profile; an
// entry that does not is counted as an error and left alone. Per-order
// failures are counted and never stop the run.
func (m *Migrator) MigrateAll(ctx context.Context, report Report) (Result, error) {
	if m.maxAge > 0 && m.now().Sub(report.GeneratedAt) > m.maxAge {
		return Result{}, fault.New(fault.StaleReport, "report generated at %s is older than %s",
			report.GeneratedAt.Format(time.RFC3339), m.maxAge)
	}
	orders, profiles, err := m.load(ctx)
	if err != nil {
		return Result{}, err
	}
	if fp := fingerprint(report.GeneratedAt, orders, profiles); fp != report.Fingerprint {
		return Result{}, fault.New(fault.StaleReport, "orders or profiles changed since the report was generated")
	}

	byID := make(map[string]models.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	var (
		res   Result
		errs  *multierror.Error
		links = map[string]string{}
	)
	for _, match := range report.Migratable {
		res.Processed++
		o, ok := byID[match.OrderID]
		switch {
		case !ok:
			res.Errors++
			errs = multierror.Append(errs, fault.Missing("orders", match.OrderID))
			continue
		case o.Migrated, links[o.ID] != "":
			res.Skipped++
			continue
		}

		var check Match
		m.classify(o, profiles, &check)
		if check.Reason != "" || check.BestMatchProfileID != match.BestMatchProfileID {
			res.Errors++
			errs = multierror.Append(errs, fault.Invalid("order %s is not migratable to profile %q", o.ID, match.BestMatchProfileID))
			continue
		}

		entry := models.HistoryEntry{
			OrderID:   o.ID,
			Items:     o.Items,
			Total:     o.Total,
			Status:    o.Status,
			Timestamp: o.Timestamp,
			Migrated:  true,
		}
		if _, err := m.profiles.AppendOrderHistory(ctx, match.BestMatchProfileID, entry); err != nil {
			res.Errors++
			errs = multierror.Append(errs, fmt.Errorf("order %s: %w", o.ID, err))
			continue
		}
		links[o.ID] = match.BestMatchProfileID
	}

	if len(links) > 0 {
		marked, err := m.orders.MarkOrdersMigrated(ctx, links)
		if err != nil {
			res.Errors += len(links)
			errs = multierror.Append(errs, err)
		} else {
			res.Migrated = marked
			res.Skipped += len(links) - marked
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		m.log.Warn("migration finished with errors", "errors", res.Errors, "detail", err)
	}
	m.log.Info("migration finished",
		"processed", res.Processed,
		"migrated", res.Migrated,
		"skipped", res.Skipped,
		"errors", res.Errors)
	return res, nil
}
