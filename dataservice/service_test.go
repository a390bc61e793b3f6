package dataservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant/cache"
	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
)

var ist = time.FixedZone("IST", 5*3600+1800)

var epoch = time.Date(2026, 3, 3, 21, 0, 0, 0, ist)

type downRemote struct{}

func (downRemote) Source() store.Source { return store.Remote }

func (downRemote) Load(context.Context, string, any) error {
	return errors.New("connection refused")
}

func (downRemote) Apply(context.Context, string, store.Batch) error {
	return errors.New("connection refused")
}

type recordingAlerter struct {
	mu    sync.Mutex
	items []models.InventoryItem
}

func (r *recordingAlerter) StockAlert(_ context.Context, item models.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return nil
}

func (f fixture) alerts() []models.InventoryItem {
	f.svc.WaitAlerts()
	f.alerter.mu.Lock()
	defer f.alerter.mu.Unlock()
	return append([]models.InventoryItem(nil), f.alerter.items...)
}

type fixture struct {
	svc     *Service
	dir     string
	alerter *recordingAlerter
}

func newFixture(t *testing.T, remote store.Backend) fixture {
	t.Helper()
	dir := t.TempDir()
	local := store.NewJSONFileBackend(dir, store.Layout, nil)
	sel := store.NewSelector(remote, local, store.SelectorConfig{PreferRemote: remote != nil}, nil)

	n := 0
	alerter := &recordingAlerter{}
	svc := New(sel, cache.New(cache.WithClock(func() time.Time { return epoch })), nil,
		WithClock(func() time.Time { return epoch }),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithLocation(ist),
		WithAlerter(alerter),
	)
	return fixture{svc: svc, dir: dir, alerter: alerter}
}

func (f fixture) seed(t *testing.T, file, key string, records any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{key: records, "lastUpdated": epoch.Format(time.RFC3339)})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, file), raw, 0o644))
}

func TestDuplicateInventoryNameRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, _, err := f.svc.AddInventoryItem(ctx, InventoryInput{Name: "sugar", Unit: "kg", Current: 10, Minimum: 2})
	require.NoError(t, err)
	before, err := f.svc.ListInventory(ctx)
	require.NoError(t, err)

	_, _, err = f.svc.AddInventoryItem(ctx, InventoryInput{Name: "Sugar", Unit: "kg", Current: 4, Minimum: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrDuplicateConflict))

	after, err := f.svc.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestInventoryStockStatus(t *testing.T) {
	tests := []struct {
		current, minimum float64
		want             models.StockStatus
	}{
		{0, 5, models.OutOfStock},
		{3, 5, models.LowStock},
		{5, 5, models.LowStock},
		{10, 5, models.InStock},
	}
	ctx := context.Background()
	f := newFixture(t, nil)
	for i, tt := range tests {
		item, _, err := f.svc.AddInventoryItem(ctx, InventoryInput{
			Name: fmt.Sprintf("item %d", i), Current: tt.current, Minimum: fmt.Sprint(tt.minimum),
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, item.Status, "current=%v minimum=%v", tt.current, tt.minimum)
	}
	// only the scarce ones raise an alert
	assert.Len(t, f.alerts(), 3)
}

func TestInventoryRejectsNonNumericStock(t *testing.T) {
	f := newFixture(t, nil)
	_, _, err := f.svc.AddInventoryItem(context.Background(), InventoryInput{Name: "Rice", Current: "lots", Minimum: 1})
	assert.Equal(t, fault.Validation, fault.KindOf(err))
}

func TestAdjustStockBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	rice, _, err := f.svc.AddInventoryItem(ctx, InventoryInput{Name: "Rice", Current: 10, Minimum: 3})
	require.NoError(t, err)
	oil, _, err := f.svc.AddInventoryItem(ctx, InventoryInput{Name: "Oil", Current: 8, Minimum: 2})
	require.NoError(t, err)

	res, err := f.svc.AdjustStock(ctx, []StockUpdate{
		{ID: rice.ID, Delta: -8},
		{ID: oil.ID, Current: "0"},
		{ID: "missing", Delta: 1},
		{ID: rice.ID, Delta: "plenty"},
		{ID: oil.ID, Delta: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 3, res.Skipped)
	assert.True(t, res.Partial())

	items, err := f.svc.ListInventory(ctx)
	require.NoError(t, err)
	byName := map[string]models.InventoryItem{}
	for _, it := range items {
		byName[it.Name] = it
	}
	assert.Equal(t, 2.0, byName["Rice"].Current)
	assert.Equal(t, models.LowStock, byName["Rice"].Status)
	assert.Equal(t, models.OutOfStock, byName["Oil"].Status)
	assert.Len(t, f.alerts(), 2)
}

type blockingAlerter struct {
	started chan string
	release chan struct{}
}

func (b blockingAlerter) StockAlert(ctx context.Context, item models.InventoryItem) error {
	b.started <- item.Name
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSlowAlertDoesNotHoldTheWrite(t *testing.T) {
	f := newFixture(t, nil)
	alerter := blockingAlerter{started: make(chan string, 1), release: make(chan struct{})}
	f.svc.alerter = alerter

	ctx, cancel := context.WithCancel(context.Background())
	rice, _, err := f.svc.AddInventoryItem(ctx, InventoryInput{Name: "Rice", Current: 10, Minimum: 3})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.AdjustStock(ctx, []StockUpdate{{ID: rice.ID, Current: "0"}})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("AdjustStock waited on the alerter")
	}
	// the request ending must not cancel the notification
	cancel()
	assert.Equal(t, "Rice", <-alerter.started)

	close(alerter.release)
	f.svc.WaitAlerts()
}

func TestReadsAreCachedAndWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, res, err := ReadCollection[models.MenuItem](ctx, f.svc, store.Menu)
	require.NoError(t, err)
	assert.Equal(t, store.Local, res.Backend)

	_, res, err = ReadCollection[models.MenuItem](ctx, f.svc, store.Menu)
	require.NoError(t, err)
	assert.Equal(t, Cached, res.Backend)

	_, _, err = f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Idli", Category: "breakfast", Price: "40"})
	require.NoError(t, err)
	assert.False(t, f.svc.Cache().Has(store.Menu))

	menu, res, err := ReadCollection[models.MenuItem](ctx, f.svc, store.Menu)
	require.NoError(t, err)
	assert.Equal(t, store.Local, res.Backend)
	require.Len(t, menu, 1)
	assert.Equal(t, 40.0, menu[0].Price)
}

// racingRemote runs onLoad once in the middle of a menu read, after the
// snapshot it returns has been taken.
type racingRemote struct {
	items  []models.MenuItem
	onLoad func()
}

func (r *racingRemote) Source() store.Source { return store.Remote }

func (r *racingRemote) Load(_ context.Context, collection string, out any) error {
	if collection != store.Menu {
		return nil
	}
	snapshot := append([]models.MenuItem(nil), r.items...)
	if hook := r.onLoad; hook != nil {
		r.onLoad = nil
		hook()
	}
	*(out.(*[]models.MenuItem)) = snapshot
	return nil
}

func (r *racingRemote) Apply(_ context.Context, collection string, batch store.Batch) error {
	if collection == store.Menu {
		r.items = batch.Snapshot.([]models.MenuItem)
	}
	return nil
}

func TestReadOverlappingWriteIsNotCached(t *testing.T) {
	ctx := context.Background()
	remote := &racingRemote{}
	f := newFixture(t, remote)
	remote.onLoad = func() {
		_, _, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Idli", Category: "breakfast", Price: "40"})
		require.NoError(t, err)
	}

	menu, res, err := ReadCollection[models.MenuItem](ctx, f.svc, store.Menu)
	require.NoError(t, err)
	assert.Equal(t, store.Remote, res.Backend)
	assert.Empty(t, menu)
	assert.False(t, f.svc.Cache().Has(store.Menu))

	menu, res, err = ReadCollection[models.MenuItem](ctx, f.svc, store.Menu)
	require.NoError(t, err)
	assert.Equal(t, store.Remote, res.Backend)
	require.Len(t, menu, 1)
	assert.Equal(t, "Idli", menu[0].Name)
}

func TestCachedSliceIsACopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, _, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Vada", Category: "breakfast", Price: 30})
	require.NoError(t, err)

	menu, err := f.svc.ListMenu(ctx)
	require.NoError(t, err)
	menu[0].Name = "changed"

	again, err := f.svc.ListMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vada", again[0].Name)
}

func TestWritesFallBackToLocalFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, downRemote{})

	_, res, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Pongal", Category: "breakfast", Price: 55})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, store.Local, res.Backend)

	// a local-only reader over the same directory sees the record
	local := store.NewJSONFileBackend(f.dir, store.Layout, nil)
	reader := New(store.NewSelector(nil, local, store.SelectorConfig{}, nil), cache.New(), nil)
	menu, err := reader.ListMenu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Pongal", menu[0].Name)

	_, rr, err := ReadCollection[models.MenuItem](ctx, f.svc, store.Menu)
	require.NoError(t, err)
	assert.True(t, rr.Fallback)
}

func TestUpdateMenuPricesSkipsInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	dosa, _, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Dosa", Category: "mains", Price: 70})
	require.NoError(t, err)

	res, err := f.svc.UpdateMenuPrices(ctx, []PriceUpdate{
		{ID: dosa.ID, Price: "75.5"},
		{ID: "nope", Price: 10},
		{ID: dosa.ID, Price: "free"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Skipped)

	got, err := f.svc.GetMenuItem(ctx, dosa.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.5, got.Price)
}

func TestAvailabilityFiltersMenu(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	a, _, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Upma", Category: "breakfast", Price: 35})
	require.NoError(t, err)
	_, _, err = f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Poori", Category: "breakfast", Price: 45})
	require.NoError(t, err)

	res, err := f.svc.SetAvailability(ctx, map[string]bool{a.ID: false, "ghost": true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Skipped)

	menu, err := f.svc.AvailableMenu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Poori", menu[0].Name)
}

func TestRecomputeAnalyticsFromSeededOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, ist) }
	f.seed(t, "orders.json", "orders", []models.Order{
		{ID: "o1", Total: 150, Status: models.StatusPending, OrderType: models.Takeaway, Timestamp: day(2, 9),
			Items: []models.OrderItem{{ID: "dosa", Name: "Dosa", Price: 75, Quantity: 2}}},
		{ID: "o2", Total: 200, Status: models.StatusDelivered, OrderType: models.DineIn, Timestamp: day(2, 14),
			Items: []models.OrderItem{{ID: "thali", Name: "Thali", Price: 200, Quantity: 1}}},
		{ID: "o3", Total: 150, Status: models.StatusPending, OrderType: models.Takeaway, Timestamp: day(3, 20),
			Items: []models.OrderItem{{ID: "dosa", Name: "Dosa", Price: 75, Quantity: 2}}},
	})

	snap, res := f.svc.RecomputeAnalytics(ctx)
	require.True(t, res.Success, res.Warning)
	assert.Equal(t, 500.0, snap.RevenueAnalytics.TotalRevenue)
	assert.Equal(t, 3, snap.FullRecord.TotalOrders)
	assert.Equal(t, 2, snap.DailyAnalytics.Morning.Orders+snap.DailyAnalytics.Night.Orders)
	assert.Equal(t, 3, snap.DailyAnalytics.FullDay.Orders)

	stored, err := f.svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stored.RevenueAnalytics.TotalRevenue)
	assert.Equal(t, epoch.Unix(), stored.LastUpdated.Unix())
}

func TestOrderLifecycleKeepsAnalyticsCurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	order, res, err := f.svc.CreateOrder(ctx, OrderInput{
		OrderType:   models.DineIn,
		TableNumber: "4",
		Items: []OrderItemInput{
			{ID: "dosa", Name: "Dosa", Price: "75", Quantity: 2},
			{ID: "chai", Name: "Chai", Price: 15.5, Quantity: "1"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.Equal(t, 165.5, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)

	snap, err := f.svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 165.5, snap.RevenueAnalytics.TotalRevenue)

	_, _, err = f.svc.UpdateOrderStatus(ctx, order.ID, models.StatusReady)
	assert.Equal(t, fault.Validation, fault.KindOf(err))

	updated, _, err := f.svc.UpdateOrderStatus(ctx, order.ID, models.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, updated.Status)

	snap, err = f.svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"preparing": 1}, snap.FullRecord.StatusCounts)

	_, err = f.svc.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	snap, err = f.svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.FullRecord.TotalOrders)
	assert.Equal(t, 0.0, snap.FullRecord.AverageOrderValue)

	_, err = f.svc.DeleteOrder(ctx, order.ID)
	assert.True(t, errors.Is(err, fault.ErrNotFound))
}

func TestCreateOrderValidation(t *testing.T) {
	item := OrderItemInput{Name: "Dosa", Price: 75, Quantity: 1}
	tests := []struct {
		name string
		in   OrderInput
	}{
		{"no items", OrderInput{OrderType: models.Takeaway}},
		{"word quantity", OrderInput{OrderType: models.Takeaway, Items: []OrderItemInput{{Name: "Dosa", Price: 75, Quantity: "two"}}}},
		{"zero quantity", OrderInput{OrderType: models.Takeaway, Items: []OrderItemInput{{Name: "Dosa", Price: 75, Quantity: 0}}}},
		{"dine-in without table", OrderInput{OrderType: models.DineIn, Items: []OrderItemInput{item}}},
		{"delivery without address", OrderInput{OrderType: models.Delivery, Items: []OrderItemInput{item}}},
		{"unknown type", OrderInput{OrderType: "drone", Items: []OrderItemInput{item}}},
	}
	f := newFixture(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.CreateOrder(context.Background(), tt.in)
			assert.Equal(t, fault.Validation, fault.KindOf(err))
		})
	}
	orders, err := f.svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRecomputeFailureIsAWarning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	// a directory where the analytics file should be makes its write fail
	require.NoError(t, os.Mkdir(filepath.Join(f.dir, "analytics.json"), 0o755))

	order, res, err := f.svc.CreateOrder(ctx, OrderInput{
		OrderType: models.Takeaway,
		Items:     []OrderItemInput{{Name: "Chai", Price: 15, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Warning)

	got, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.Total)
}

func TestMarkOrdersMigrated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seed(t, "orders.json", "orders", []models.Order{
		{ID: "o1", Total: 10, Status: models.StatusDelivered, Timestamp: epoch},
		{ID: "o2", Total: 20, Status: models.StatusDelivered, Timestamp: epoch, Migrated: true, MigratedToProfile: "p9"},
	})

	n, err := f.svc.MarkOrdersMigrated(ctx, map[string]string{"o1": "p1", "o2": "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	o2, err := f.svc.GetOrder(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, "p9", o2.MigratedToProfile)
	o1, err := f.svc.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, o1.Migrated)
	assert.Equal(t, "p1", o1.MigratedToProfile)
}

func TestStaffAuthentication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	cred, _, err := f.svc.AddStaff(ctx, StaffInput{Username: "Asha", FullName: "Asha K", Role: RoleManager, Password: "tandoor42"})
	require.NoError(t, err)
	assert.Empty(t, cred.Password)

	_, _, err = f.svc.AddStaff(ctx, StaffInput{Username: "asha", Password: "another1"})
	assert.True(t, errors.Is(err, fault.ErrDuplicateConflict))

	got, err := f.svc.Authenticate(ctx, "ASHA", "tandoor42")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, got.ID)
	assert.Equal(t, RoleManager, got.Role)

	_, err = f.svc.Authenticate(ctx, "asha", "wrong")
	assert.Equal(t, fault.Validation, fault.KindOf(err))
	_, err = f.svc.Authenticate(ctx, "nobody", "tandoor42")
	assert.Equal(t, fault.Validation, fault.KindOf(err))

	staff, err := f.svc.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Empty(t, staff[0].Password)
}

func TestSpecialVariants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	dish, _, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Biryani", Category: "mains", Price: 220})
	require.NoError(t, err)

	sp, _, err := f.svc.AddSpecial(ctx, SpecialInput{Kind: models.SpecialDish, Title: "Biryani Friday", Day: "Friday", MenuItemID: dish.ID, Price: 180})
	require.NoError(t, err)
	require.NotNil(t, sp.Dish)
	assert.Nil(t, sp.Discount)
	assert.Equal(t, "friday", sp.Day)

	_, _, err = f.svc.AddSpecial(ctx, SpecialInput{Kind: models.SpecialDiscount, Title: "Happy hour", MenuItemID: dish.ID, Percent: 10})
	assert.Equal(t, fault.Validation, fault.KindOf(err))
	_, _, err = f.svc.AddSpecial(ctx, SpecialInput{Kind: models.SpecialDish, Title: "Ghost", MenuItemID: "missing", Price: 10})
	assert.Equal(t, fault.Validation, fault.KindOf(err))

	updated, _, err := f.svc.UpdateSpecial(ctx, sp.ID, SpecialInput{Kind: models.SpecialDiscount, Title: "Happy hour", Percent: "15"})
	require.NoError(t, err)
	assert.Nil(t, updated.Dish)
	assert.Equal(t, 15.0, updated.Discount.Percent)
}

func TestCombosRequireMenuItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	a, _, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Dosa", Category: "mains", Price: 70})
	require.NoError(t, err)
	b, _, err := f.svc.AddMenuItem(ctx, MenuItemInput{Name: "Coffee", Category: "drinks", Price: 25})
	require.NoError(t, err)

	_, _, err = f.svc.AddCombo(ctx, ComboInput{Name: "Breakfast", ItemIDs: []string{a.ID, "missing"}, Price: 80})
	assert.Equal(t, fault.Validation, fault.KindOf(err))

	combo, _, err := f.svc.AddCombo(ctx, ComboInput{Name: "Breakfast", ItemIDs: []string{a.ID, b.ID}, Price: 85})
	require.NoError(t, err)
	assert.True(t, combo.Active)

	_, _, err = f.svc.AddCombo(ctx, ComboInput{Name: "BREAKFAST", ItemIDs: []string{a.ID, b.ID}, Price: 85})
	assert.True(t, errors.Is(err, fault.ErrDuplicateConflict))
}

func TestActiveOffers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	past := epoch.Add(-48 * time.Hour)
	yesterday := epoch.Add(-24 * time.Hour)

	_, _, err := f.svc.AddOffer(ctx, OfferInput{Title: "Now", DiscountPercent: 10})
	require.NoError(t, err)
	_, _, err = f.svc.AddOffer(ctx, OfferInput{Title: "Expired", DiscountPercent: "20", ValidFrom: &past, ValidUntil: &yesterday})
	require.NoError(t, err)
	_, _, err = f.svc.AddOffer(ctx, OfferInput{Title: "Too much", DiscountPercent: 120})
	assert.Equal(t, fault.Validation, fault.KindOf(err))

	active, err := f.svc.ActiveOffers(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Now", active[0].Title)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	task, _, err := f.svc.AddTask(ctx, TaskInput{Title: "Clean tandoor", AssignedTo: "ravi"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskOpen, task.Status)

	_, _, err = f.svc.UpdateTask(ctx, task.ID, TaskInput{Status: "someday"})
	assert.Equal(t, fault.Validation, fault.KindOf(err))

	done, _, err := f.svc.UpdateTask(ctx, task.ID, TaskInput{Status: models.TaskDone})
	require.NoError(t, err)
	assert.Equal(t, "Clean tandoor", done.Title)
	assert.Equal(t, models.TaskDone, done.Status)
}

func TestAppendOrderHistoryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	p, _, err := f.svc.AddCustomer(ctx, CustomerInput{DisplayName: "Meera"})
	require.NoError(t, err)

	entry := models.HistoryEntry{OrderID: "o1", Total: 120, Migrated: true}
	ok, err := f.svc.AppendOrderHistory(ctx, p.ID, entry)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.svc.AppendOrderHistory(ctx, p.ID, entry)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := f.svc.GetCustomer(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.OrderHistory, 1)

	_, err = f.svc.AppendOrderHistory(ctx, "ghost", entry)
	assert.True(t, errors.Is(err, fault.ErrNotFound))
}

func TestReadNamed(t *testing.T) {
	f := newFixture(t, nil)
	records, res, err := f.svc.ReadNamed(context.Background(), store.Tasks)
	require.NoError(t, err)
	assert.Equal(t, store.Local, res.Backend)
	assert.Equal(t, []models.Task{}, records)

	_, _, err = f.svc.ReadNamed(context.Background(), store.Staff)
	assert.True(t, errors.Is(err, fault.ErrNotFound))
}
