package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdsync "sync"
	"testing"
	"time"

	"github.com/merchpoint/pos/internal/common"
	"github.com/merchpoint/pos/internal/logging"
	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/merchpoint/pos/internal/pos/repositories/metadata"
	"github.com/merchpoint/pos/internal/pos/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeRemote implements remote.Client and records every call. Error fields
// can be swapped between calls to simulate recovery.
// remoteCtxKey tags a context value so tests can observe which context a
// remote call ran under.
type remoteCtxKey struct{}

type fakeRemote struct {
	mu stdsync.Mutex

	salesErr    error
	productsErr error
	settingsErr error

	callOrder       []string
	appendedSales   [][]models.Sale
	products        [][]models.Product
	settingsCalls   int
	settingsCtxVals []any
}

func (f *fakeRemote) Ping(ctx context.Context) error { return nil }
func (f *fakeRemote) Close() error                   { return nil }

func (f *fakeRemote) AppendSales(ctx context.Context, ledgerID string, sales []models.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callOrder = append(f.callOrder, "sales")
	f.appendedSales = append(f.appendedSales, sales)
	return f.salesErr
}

func (f *fakeRemote) OverwriteProducts(ctx context.Context, catalogID string, products []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callOrder = append(f.callOrder, "products")
	f.products = append(f.products, products)
	return f.productsErr
}

func (f *fakeRemote) UpsertSettings(ctx context.Context, s *models.UserSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callOrder = append(f.callOrder, "settings")
	f.settingsCalls++
	f.settingsCtxVals = append(f.settingsCtxVals, ctx.Value(remoteCtxKey{}))
	return f.settingsErr
}

func (f *fakeRemote) order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.callOrder))
	copy(out, f.callOrder)
	return out
}

func (f *fakeRemote) calls(kind string) int {
	n := 0
	for _, c := range f.order() {
		if c == kind {
			n++
		}
	}
	return n
}

func (f *fakeRemote) setErr(kind string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch kind {
	case "sales":
		f.salesErr = err
	case "products":
		f.productsErr = err
	case "settings":
		f.settingsErr = err
	}
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fixture struct {
	e     *Engine
	repos *store.Repositories
	rc    *fakeRemote
}

func setupEngine(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	ctx := context.Background()

	repos, err := store.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	rc := &fakeRemote{}
	opts := Options{
		Sales:          repos.Sales,
		Products:       repos.Products,
		Settings:       repos.Settings,
		Metadata:       repos.Metadata,
		Remote:         rc,
		Logger:         testLogger(),
		RetryDelay:     25 * time.Millisecond,
		InterTaskDelay: time.Millisecond,
	}
	if mutate != nil {
		mutate(&opts)
	}

	return &fixture{e: New(opts), repos: repos, rc: rc}
}

func (f *fixture) configureRemoteIDs(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.repos.Metadata.Set(ctx, metadata.KeySalesLedgerID, "ledger-1"))
	require.NoError(t, f.repos.Metadata.Set(ctx, metadata.KeyProductCatalogID, "catalog-1"))
}

func (f *fixture) addSale(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.repos.Sales.CreateOrUpdate(context.Background(), &models.Sale{
		ID:            id,
		RecordedAt:    time.Now().UTC(),
		Items:         []models.LineItem{{ProductID: "p1", Name: "Tour Tee", Quantity: 1, UnitPrice: 25}},
		Total:         25,
		Collected:     25,
		PaymentMethod: models.PaymentCash,
	}))
}

func (f *fixture) addProduct(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.repos.Products.CreateOrUpdate(context.Background(), &models.Product{
		ID: id, Name: "Tour Tee", Price: 25, Inventory: map[string]int{"M": 5},
	}))
}

func (f *fixture) addPendingSettings(t *testing.T) {
	t.Helper()
	s := models.DefaultSettings()
	s.PendingSync = true
	require.NoError(t, f.repos.Settings.Save(context.Background(), s))
}

func waitIdle(t *testing.T, e *Engine) {
	t.Helper()
	require.Eventually(t, func() bool {
		st := e.Status().Current()
		return !st.Syncing && e.QueueLen() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestEnqueue_DeduplicatesByType(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	// offline, so nothing drains
	f.e.Enqueue(ctx, TaskSales)
	f.e.Enqueue(ctx, TaskSales)
	f.e.Enqueue(ctx, TaskProducts)

	assert.Equal(t, 2, f.e.QueueLen())
}

func TestDrain_PriorityOrder(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.addSale(t, "s1")
	f.addProduct(t, "p1")
	f.addPendingSettings(t)

	// enqueue in reverse priority while offline
	f.e.Enqueue(ctx, TaskSettings)
	f.e.Enqueue(ctx, TaskProducts)
	f.e.Enqueue(ctx, TaskSales)

	f.e.SetOnline(ctx, true)
	waitIdle(t, f.e)

	assert.Equal(t, []string{"sales", "products", "settings"}, f.rc.order())
}

func TestWentOnline_DrainsOfflineSales(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		f.addSale(t, id)
	}

	f.e.SetOnline(ctx, true)
	waitIdle(t, f.e)

	// one batch with all three sales
	require.Len(t, f.rc.appendedSales, 1)
	assert.Len(t, f.rc.appendedSales[0], 3)

	unsynced, err := f.repos.Sales.GetUnsynced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unsynced)

	st := f.e.Status().Current()
	assert.Equal(t, 0, st.PendingSales)
	assert.False(t, st.LastSync.IsZero())
	assert.Empty(t, st.Err)
}

func TestPermanentError_DroppedWithoutRetry(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	// catalog id configured remotely-wrong: backend answers "not found"
	require.NoError(t, f.repos.Metadata.Set(ctx, metadata.KeyProductCatalogID, "bad"))
	f.addProduct(t, "p1")
	f.rc.setErr("products", errors.New("Products sheet ID not found"))

	f.e.SetOnline(ctx, true)
	waitIdle(t, f.e)

	st := f.e.Status().Current()
	assert.Contains(t, st.Err, "not found")
	assert.True(t, st.PendingProducts)

	// no retry is scheduled
	time.Sleep(4 * f.e.retryDelay)
	assert.Equal(t, 1, f.rc.calls("products"))

	// a later manual enqueue is not swallowed
	f.e.Enqueue(ctx, TaskProducts)
	require.Eventually(t, func() bool { return f.rc.calls("products") == 2 }, time.Second, 5*time.Millisecond)
}

func TestMissingLedgerID_IsPermanent(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	f.addSale(t, "s1")
	f.e.SetOnline(ctx, true)
	waitIdle(t, f.e)

	st := f.e.Status().Current()
	assert.Contains(t, st.Err, "not found")
	assert.Equal(t, 1, st.PendingSales)
	// the adapter never reached the remote ledger
	assert.Zero(t, f.rc.calls("sales"))
}

func TestTransientError_RetriesAndRecovers(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.addPendingSettings(t)
	f.rc.setErr("settings", errors.New("request timed out"))

	f.e.SetOnline(ctx, true)

	require.Eventually(t, func() bool { return f.rc.calls("settings") == 1 }, time.Second, 5*time.Millisecond)
	st := f.e.Status().Current()
	assert.Contains(t, st.Err, "timed out")

	// let the backend recover; the fixed-delay retry resubmits
	f.rc.setErr("settings", nil)
	require.Eventually(t, func() bool { return f.rc.calls("settings") >= 2 }, time.Second, 5*time.Millisecond)
	waitIdle(t, f.e)

	got, err := f.repos.Settings.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.PendingSync)

	st = f.e.Status().Current()
	assert.False(t, st.PendingSettings)
	assert.Empty(t, st.Err)
	assert.False(t, st.LastSync.IsZero())
}

func TestAckLoss_ResubmitsSameSales(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.addSale(t, "s1")
	// the remote persisted the batch but the ack was lost
	f.rc.setErr("sales", errors.New("connection reset"))

	f.e.SetOnline(ctx, true)
	require.Eventually(t, func() bool { return f.rc.calls("sales") == 1 }, time.Second, 5*time.Millisecond)

	// local flag must remain false
	n, err := f.repos.Sales.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f.rc.setErr("sales", nil)
	require.Eventually(t, func() bool { return f.rc.calls("sales") >= 2 }, time.Second, 5*time.Millisecond)
	waitIdle(t, f.e)

	// the duplicate submission carries the same sale id for remote dedup
	require.GreaterOrEqual(t, len(f.rc.appendedSales), 2)
	assert.Equal(t, "s1", f.rc.appendedSales[0][0].ID)
	assert.Equal(t, "s1", f.rc.appendedSales[1][0].ID)

	n, err = f.repos.Sales.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSalesCleanup_OnlyClosedOutSynced(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.addSale(t, "closed")
	f.addSale(t, "open")

	closeout := models.BuildCloseOut("c1", time.Now().UTC(), []models.Sale{{ID: "closed"}})
	require.NoError(t, f.repos.CloseOuts.Create(ctx, closeout))

	f.e.SetOnline(ctx, true)
	waitIdle(t, f.e)

	// the closed-out sale is gone, the merely-synced one is kept
	_, err := f.repos.Sales.GetByID(ctx, "closed")
	assert.ErrorIs(t, err, common.ErrNotFound)

	kept, err := f.repos.Sales.GetByID(ctx, "open")
	require.NoError(t, err)
	assert.True(t, kept.Synced)
}

func TestRetry_SkippedWhenOfflineAtExpiry(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.addPendingSettings(t)
	f.rc.setErr("settings", errors.New("network failure"))

	f.e.SetOnline(ctx, true)
	require.Eventually(t, func() bool { return f.rc.calls("settings") == 1 }, time.Second, 5*time.Millisecond)

	// go offline before the retry fires
	f.e.SetOnline(ctx, false)
	f.rc.setErr("settings", nil)
	time.Sleep(4 * f.e.retryDelay)

	assert.Equal(t, 1, f.rc.calls("settings"))
	assert.Equal(t, 0, f.e.QueueLen())

	// the went-online handler picks the work back up from the dirty flag
	f.e.SetOnline(ctx, true)
	require.Eventually(t, func() bool { return f.rc.calls("settings") == 2 }, time.Second, 5*time.Millisecond)
}

func TestEnqueue_DuringDrainExitIsDrained(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.e.SetOnline(ctx, true)
	waitIdle(t, f.e)

	// hammer the moment the previous drain releases the loop; an enqueue
	// landing there must still end up drained, never stranded
	for i := 0; i < 500; i++ {
		f.e.Enqueue(ctx, TaskSales)
	}
	waitIdle(t, f.e)

	f.addSale(t, "s1")
	f.e.Enqueue(ctx, TaskSales)
	waitIdle(t, f.e)

	assert.Equal(t, 1, f.rc.calls("sales"))
	count, err := f.repos.Sales.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRetry_RunsUnderSchedulingContext(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.WithValue(context.Background(), remoteCtxKey{}, "drive-1")

	f.addPendingSettings(t)
	f.rc.setErr("settings", errors.New("request timed out"))

	f.e.SetOnline(ctx, true)
	require.Eventually(t, func() bool { return f.rc.calls("settings") == 1 }, time.Second, 5*time.Millisecond)

	f.rc.setErr("settings", nil)
	require.Eventually(t, func() bool { return f.rc.calls("settings") >= 2 }, time.Second, 5*time.Millisecond)
	waitIdle(t, f.e)

	f.rc.mu.Lock()
	vals := append([]any(nil), f.rc.settingsCtxVals...)
	f.rc.mu.Unlock()
	require.Len(t, vals, 2)
	assert.Equal(t, "drive-1", vals[0])
	// the retried call keeps the context of the drain that scheduled it
	assert.Equal(t, "drive-1", vals[1])
}

func TestTriggerSync_FailsFastOffline(t *testing.T) {
	f := setupEngine(t, nil)
	err := f.e.TriggerSync(context.Background())
	assert.ErrorIs(t, err, common.ErrOffline)
}

func TestTriggerSync_DrainsSynchronously(t *testing.T) {
	f := setupEngine(t, nil)
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.addSale(t, "s1")
	f.e.SetOnline(ctx, true)
	waitIdle(t, f.e)

	f.addSale(t, "s2")
	require.NoError(t, f.e.TriggerSync(ctx))

	// synchronous: by the time TriggerSync returns the batch is pushed
	assert.GreaterOrEqual(t, f.rc.calls("sales"), 2)
	n, err := f.repos.Sales.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDemoMode_NoRemoteCallsAndAllClear(t *testing.T) {
	f := setupEngine(t, func(o *Options) {
		o.DemoMode = func() bool { return true }
	})
	f.configureRemoteIDs(t)
	ctx := context.Background()

	f.addSale(t, "s1")
	f.addProduct(t, "p1")
	f.addPendingSettings(t)

	f.e.SetOnline(ctx, true)
	require.NoError(t, f.e.TriggerSync(ctx))
	f.e.Enqueue(ctx, TaskSales)
	waitIdle(t, f.e)

	assert.Empty(t, f.rc.order())

	st := f.e.Status().Current()
	assert.Equal(t, 0, st.PendingSales)
	assert.False(t, st.PendingProducts)
	assert.False(t, st.PendingSettings)
}

func TestRecomputePending_ReflectsDirtyFlags(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	f.addSale(t, "s1")
	f.addSale(t, "s2")
	f.addProduct(t, "p1")

	f.e.RecomputePending(ctx)

	st := f.e.Status().Current()
	assert.Equal(t, 2, st.PendingSales)
	assert.True(t, st.PendingProducts)
	assert.False(t, st.PendingSettings)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, isPermanent(errors.New("Products sheet ID not found")))
	assert.True(t, isPermanent(common.ErrNotConfigured))
	assert.False(t, isPermanent(errors.New("connection refused")))
	assert.False(t, isPermanent(errors.New("remote returned 500 Internal Server Error")))
}

func TestDispatch_UnknownTypeIsError(t *testing.T) {
	f := setupEngine(t, nil)
	err := f.e.dispatch(context.Background(), TaskType(99))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unhandled")
}
