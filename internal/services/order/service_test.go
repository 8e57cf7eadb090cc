package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"dinedate/internal/models"
	"dinedate/internal/repositories"
	"dinedate/internal/services/notification"
	"dinedate/internal/services/pricing"
	"dinedate/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory OrderRepository plus the wallet tables it
// shares a transaction boundary with. ExecuteInTransaction snapshots the
// whole store and restores it on error, mirroring a database rollback.
type fakeStore struct {
	orders  map[uint]*models.DateOrder
	apps    map[uint]*models.Application
	wallets map[uint]*models.Wallet
	txs     []models.Transaction

	nextOrder, nextApp, nextTx uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:  map[uint]*models.DateOrder{},
		apps:    map[uint]*models.Application{},
		wallets: map[uint]*models.Wallet{},
	}
}

func (f *fakeStore) seedWallet(userID uint, balance, escrow int64) {
	f.wallets[userID] = &models.Wallet{ID: userID, UserID: userID, Balance: balance, Escrow: escrow}
}

func (f *fakeStore) Create(order *models.DateOrder) error {
	f.nextOrder++
	order.ID = f.nextOrder
	order.CreatedAt = time.Now()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(id uint) (*models.DateOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) CountActiveByCreator(creatorID uint) (int64, error) {
	var n int64
	for _, o := range f.orders {
		if o.CreatorID == creatorID && o.Status == models.OrderStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountCompletedForUser(userID uint) (int64, error) {
	var n int64
	for _, o := range f.orders {
		if o.Status != models.OrderStatusCompleted {
			continue
		}
		if o.CreatorID == userID || (o.MatchedUserID != nil && *o.MatchedUserID == userID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) TransitionStatus(orderID uint, from, to models.OrderStatus, updates map[string]interface{}) (bool, error) {
	o, ok := f.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	for key, val := range updates {
		switch key {
		case "matched_user_id":
			id := val.(uint)
			o.MatchedUserID = &id
		case "matched_at":
			t := val.(time.Time)
			o.MatchedAt = &t
		case "completed_at":
			t := val.(time.Time)
			o.CompletedAt = &t
		case "auto_completed":
			o.AutoCompleted = val.(bool)
		}
	}
	return true, nil
}

func (f *fakeStore) FindMatchedBefore(cutoff time.Time, limit int) ([]models.DateOrder, error) {
	var out []models.DateOrder
	for _, o := range f.orders {
		if o.Status == models.OrderStatusMatched && o.DateTime.Before(cutoff) && len(out) < limit {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) FindActiveBefore(cutoff time.Time, limit int) ([]models.DateOrder, error) {
	var out []models.DateOrder
	for _, o := range f.orders {
		if o.Status == models.OrderStatusActive && o.DateTime.Before(cutoff) && len(out) < limit {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateApplication(app *models.Application) error {
	for _, existing := range f.apps {
		if existing.OrderID == app.OrderID && existing.ApplicantID == app.ApplicantID {
			return repositories.ErrDuplicateRecord
		}
	}
	f.nextApp++
	app.ID = f.nextApp
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeStore) GetApplication(id uint) (*models.Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) FindApplication(orderID, applicantID uint) (*models.Application, error) {
	for _, a := range f.apps {
		if a.OrderID == orderID && a.ApplicantID == applicantID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (f *fakeStore) ListApplications(orderID uint) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.apps {
		if a.OrderID == orderID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPendingApplications(orderID uint) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.apps {
		if a.OrderID == orderID && a.Status == models.ApplicationStatusPending {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateApplicationStatus(id uint, status models.ApplicationStatus) error {
	a, ok := f.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeStore) RejectPendingSiblings(orderID, acceptedID uint) error {
	for _, a := range f.apps {
		if a.OrderID == orderID && a.ID != acceptedID && a.Status == models.ApplicationStatusPending {
			a.Status = models.ApplicationStatusRejected
		}
	}
	return nil
}

func (f *fakeStore) Wallets() repositories.WalletRepository {
	return &fakeWalletView{store: f}
}

func (f *fakeStore) ExecuteInTransaction(fn func(repositories.OrderRepository) error) error {
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	orders  map[uint]*models.DateOrder
	apps    map[uint]*models.Application
	wallets map[uint]*models.Wallet
	txs     []models.Transaction

	nextOrder, nextApp, nextTx uint
}

func (f *fakeStore) snapshot() storeSnapshot {
	s := storeSnapshot{
		orders:    map[uint]*models.DateOrder{},
		apps:      map[uint]*models.Application{},
		wallets:   map[uint]*models.Wallet{},
		txs:       append([]models.Transaction(nil), f.txs...),
		nextOrder: f.nextOrder,
		nextApp:   f.nextApp,
		nextTx:    f.nextTx,
	}
	for k, v := range f.orders {
		cp := *v
		s.orders[k] = &cp
	}
	for k, v := range f.apps {
		cp := *v
		s.apps[k] = &cp
	}
	for k, v := range f.wallets {
		cp := *v
		s.wallets[k] = &cp
	}
	return s
}

func (f *fakeStore) restore(s storeSnapshot) {
	f.orders = s.orders
	f.apps = s.apps
	f.wallets = s.wallets
	f.txs = s.txs
	f.nextOrder = s.nextOrder
	f.nextApp = s.nextApp
	f.nextTx = s.nextTx
}

// fakeWalletView exposes the store's wallet tables through the
// WalletRepository interface, the way Wallets() shares the live
// transaction handle.
type fakeWalletView struct {
	store *fakeStore
}

func (v *fakeWalletView) Create(w *models.Wallet) error {
	if _, ok := v.store.wallets[w.UserID]; ok {
		return repositories.ErrDuplicateRecord
	}
	w.ID = w.UserID
	cp := *w
	v.store.wallets[w.UserID] = &cp
	return nil
}

func (v *fakeWalletView) GetByUserID(userID uint) (*models.Wallet, error) {
	w, ok := v.store.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (v *fakeWalletView) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	return v.GetByUserID(userID)
}

func (v *fakeWalletView) Save(w *models.Wallet) error {
	cp := *w
	v.store.wallets[w.UserID] = &cp
	return nil
}

func (v *fakeWalletView) CreateTransaction(tx *models.Transaction) error {
	if tx.OrderID != nil {
		for _, existing := range v.store.txs {
			if existing.UserID == tx.UserID && existing.OrderID != nil &&
				*existing.OrderID == *tx.OrderID && existing.Type == tx.Type {
				return repositories.ErrDuplicateRecord
			}
		}
	}
	v.store.nextTx++
	tx.ID = v.store.nextTx
	v.store.txs = append(v.store.txs, *tx)
	return nil
}

func (v *fakeWalletView) FindTransaction(userID, orderID uint, txType string) (*models.Transaction, error) {
	for i := range v.store.txs {
		tx := v.store.txs[i]
		if tx.UserID == userID && tx.OrderID != nil && *tx.OrderID == orderID && tx.Type == txType {
			cp := tx
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (v *fakeWalletView) ListTransactions(userID uint, limit, offset int) ([]models.Transaction, error) {
	var out []models.Transaction
	for i := len(v.store.txs) - 1; i >= 0; i-- {
		if v.store.txs[i].UserID == userID {
			out = append(out, v.store.txs[i])
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *fakeWalletView) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	snap := v.store.snapshot()
	if err := fn(v); err != nil {
		v.store.restore(snap)
		return err
	}
	return nil
}

// fakeUserRepo holds users and referral reward records in memory.
type fakeUserRepo struct {
	users   map[uint]*models.User
	rewards map[uint]*models.ReferralReward
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, rewards: map[uint]*models.ReferralReward{}}
}

func (f *fakeUserRepo) seed(u models.User) {
	cp := u
	f.users[u.ID] = &cp
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByPhone(phone string) (*models.User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByReferralCode(code string) (*models.User, error) {
	for _, u := range f.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) CreateReward(r *models.ReferralReward) error {
	if _, ok := f.rewards[r.ReferredID]; ok {
		return repositories.ErrDuplicateRecord
	}
	r.ID = uint(len(f.rewards) + 1)
	cp := *r
	f.rewards[r.ReferredID] = &cp
	return nil
}

func (f *fakeUserRepo) FindRewardByReferred(referredID uint) (*models.ReferralReward, error) {
	r, ok := f.rewards[referredID]
	if !ok {
		return nil, repositories.ErrRewardNotFound
	}
	cp := *r
	return &cp, nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID uint
	Event  string
}

func (n *recordingNotifier) Notify(_ context.Context, userID uint, event, _, _ string, _ map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{UserID: userID, Event: event})
	return nil
}

func (n *recordingNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Event == event {
			c++
		}
	}
	return c
}

type fixture struct {
	store    *fakeStore
	users    *fakeUserRepo
	ledger   wallet.Service
	notifier *recordingNotifier
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	users := newFakeUserRepo()
	notifier := &recordingNotifier{}
	ledger := wallet.NewService(store.Wallets(), wallet.NoopCache{})
	svc := NewService(store, users, ledger, pricing.NewResolver(pricing.DefaultCommission), notifier)
	return &fixture{store: store, users: users, ledger: ledger, notifier: notifier, svc: svc}
}

func (fx *fixture) seedOrder(t *testing.T, creatorID uint, comboPrice int64) *models.DateOrder {
	t.Helper()
	fx.users.seed(models.User{ID: creatorID, PlanTier: models.PlanTierVIP})
	order, err := fx.svc.Create(context.Background(), creatorID, CreateInput{
		RestaurantID: 5,
		ComboID:      9,
		ComboPrice:   comboPrice,
		DateTime:     time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return order
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes the charge split at creation", func(t *testing.T) {
		fx := newFixture(t)
		fx.users.seed(models.User{ID: 1, PlanTier: models.PlanTierFree})

		order, err := fx.svc.Create(ctx, 1, CreateInput{
			RestaurantID: 5,
			ComboID:      9,
			ComboPrice:   200000,
			DateTime:     time.Now().Add(24 * time.Hour),
		})
		require.NoError(t, err)

		assert.Equal(t, models.OrderStatusActive, order.Status)
		assert.Equal(t, int64(100000), order.CreatorCharge)
		assert.Equal(t, int64(100000), order.ApplicantCharge)
		assert.Equal(t, int64(170000), order.RestaurantPayout)
	})

	t.Run("rejects a past date time", func(t *testing.T) {
		fx := newFixture(t)
		fx.users.seed(models.User{ID: 1, PlanTier: models.PlanTierFree})

		_, err := fx.svc.Create(ctx, 1, CreateInput{
			RestaurantID: 5,
			ComboID:      9,
			ComboPrice:   200000,
			DateTime:     time.Now().Add(-time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("enforces the free tier cap of one active order", func(t *testing.T) {
		fx := newFixture(t)
		fx.users.seed(models.User{ID: 1, PlanTier: models.PlanTierFree})

		in := CreateInput{RestaurantID: 5, ComboID: 9, ComboPrice: 200000, DateTime: time.Now().Add(24 * time.Hour)}
		_, err := fx.svc.Create(ctx, 1, in)
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, 1, in)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("vip tier allows three active orders", func(t *testing.T) {
		fx := newFixture(t)
		fx.users.seed(models.User{ID: 1, PlanTier: models.PlanTierVIP})

		in := CreateInput{RestaurantID: 5, ComboID: 9, ComboPrice: 200000, DateTime: time.Now().Add(24 * time.Hour)}
		for i := 0; i < 3; i++ {
			_, err := fx.svc.Create(ctx, 1, in)
			require.NoError(t, err)
		}
		_, err := fx.svc.Create(ctx, 1, in)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("terminal orders free up the cap", func(t *testing.T) {
		fx := newFixture(t)
		fx.users.seed(models.User{ID: 1, PlanTier: models.PlanTierFree})

		in := CreateInput{RestaurantID: 5, ComboID: 9, ComboPrice: 200000, DateTime: time.Now().Add(24 * time.Hour)}
		order, err := fx.svc.Create(ctx, 1, in)
		require.NoError(t, err)
		_, err = fx.svc.Cancel(ctx, 1, order.ID)
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, 1, in)
		assert.NoError(t, err)
	})
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a pending application and notifies the creator", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)

		app, err := fx.svc.Apply(ctx, 2, order.ID, "hello")
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusPending, app.Status)
		assert.Equal(t, 1, fx.notifier.count(notification.EventApplicationReceived))
	})

	t.Run("creator cannot apply to their own order", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)

		_, err := fx.svc.Apply(ctx, 1, order.ID, "")
		assert.ErrorIs(t, err, ErrOwnOrder)
	})

	t.Run("duplicate application is rejected", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)

		_, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)
		_, err = fx.svc.Apply(ctx, 2, order.ID, "again")
		assert.ErrorIs(t, err, ErrDuplicateApplication)
	})

	t.Run("only active orders accept applications", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		_, err := fx.svc.Cancel(ctx, 1, order.ID)
		require.NoError(t, err)

		_, err = fx.svc.Apply(ctx, 2, order.ID, "")
		assert.ErrorIs(t, err, ErrOrderNotOpen)
	})
}

func TestListApplications(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	order := fx.seedOrder(t, 1, 200000)
	_, err := fx.svc.Apply(ctx, 2, order.ID, "")
	require.NoError(t, err)

	apps, err := fx.svc.ListApplications(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	_, err = fx.svc.ListApplications(ctx, 2, order.ID)
	assert.ErrorIs(t, err, ErrNotOrderOwner)
}

func TestAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("matches the order and escrows both charges", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		fx.store.seedWallet(1, 150000, 0)
		fx.store.seedWallet(2, 120000, 0)
		app, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)

		matched, err := fx.svc.Accept(ctx, 1, order.ID, app.ID)
		require.NoError(t, err)

		assert.Equal(t, models.OrderStatusMatched, matched.Status)
		require.NotNil(t, matched.MatchedUserID)
		assert.Equal(t, uint(2), *matched.MatchedUserID)
		assert.NotNil(t, matched.MatchedAt)

		creator := fx.store.wallets[1]
		applicant := fx.store.wallets[2]
		assert.Equal(t, int64(50000), creator.Balance)
		assert.Equal(t, int64(100000), creator.Escrow)
		assert.Equal(t, int64(20000), applicant.Balance)
		assert.Equal(t, int64(100000), applicant.Escrow)

		accepted, _ := fx.store.GetApplication(app.ID)
		assert.Equal(t, models.ApplicationStatusAccepted, accepted.Status)
		assert.Equal(t, 2, fx.notifier.count(notification.EventMatched))
	})

	t.Run("rejects pending siblings", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		fx.store.seedWallet(1, 150000, 0)
		fx.store.seedWallet(2, 120000, 0)
		winner, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)
		loser, err := fx.svc.Apply(ctx, 3, order.ID, "")
		require.NoError(t, err)

		_, err = fx.svc.Accept(ctx, 1, order.ID, winner.ID)
		require.NoError(t, err)

		rejected, _ := fx.store.GetApplication(loser.ID)
		assert.Equal(t, models.ApplicationStatusRejected, rejected.Status)
	})

	t.Run("insufficient applicant funds rolls everything back", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		fx.store.seedWallet(1, 150000, 0)
		fx.store.seedWallet(2, 40000, 0) // cannot cover the 100000 charge
		app, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)
		sibling, err := fx.svc.Apply(ctx, 3, order.ID, "")
		require.NoError(t, err)

		_, err = fx.svc.Accept(ctx, 1, order.ID, app.ID)
		assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)

		// Order still open, application still pending, no wallet moved,
		// no ledger rows written.
		got, _ := fx.store.GetByID(order.ID)
		assert.Equal(t, models.OrderStatusActive, got.Status)
		assert.Nil(t, got.MatchedUserID)

		pending, _ := fx.store.GetApplication(app.ID)
		assert.Equal(t, models.ApplicationStatusPending, pending.Status)
		pendingSibling, _ := fx.store.GetApplication(sibling.ID)
		assert.Equal(t, models.ApplicationStatusPending, pendingSibling.Status)

		assert.Equal(t, int64(150000), fx.store.wallets[1].Balance)
		assert.Equal(t, int64(0), fx.store.wallets[1].Escrow)
		assert.Equal(t, int64(40000), fx.store.wallets[2].Balance)
		assert.Empty(t, fx.store.txs)
		assert.Zero(t, fx.notifier.count(notification.EventMatched))
	})

	t.Run("insufficient creator funds rolls everything back", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		fx.store.seedWallet(1, 10000, 0)
		fx.store.seedWallet(2, 120000, 0)
		app, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)

		_, err = fx.svc.Accept(ctx, 1, order.ID, app.ID)
		assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)

		got, _ := fx.store.GetByID(order.ID)
		assert.Equal(t, models.OrderStatusActive, got.Status)
		assert.Empty(t, fx.store.txs)
	})

	t.Run("only the creator may accept", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		app, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)

		_, err = fx.svc.Accept(ctx, 2, order.ID, app.ID)
		assert.ErrorIs(t, err, ErrNotOrderOwner)
	})

	t.Run("application must belong to the order", func(t *testing.T) {
		fx := newFixture(t)
		first := fx.seedOrder(t, 1, 200000)
		second := fx.seedOrder(t, 1, 200000)
		app, err := fx.svc.Apply(ctx, 2, first.ID, "")
		require.NoError(t, err)

		_, err = fx.svc.Accept(ctx, 1, second.ID, app.ID)
		assert.ErrorIs(t, err, ErrApplicationMismatch)
	})

	t.Run("second accept conflicts", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		fx.store.seedWallet(1, 300000, 0)
		fx.store.seedWallet(2, 120000, 0)
		fx.store.seedWallet(3, 120000, 0)
		first, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)
		second, err := fx.svc.Apply(ctx, 3, order.ID, "")
		require.NoError(t, err)

		_, err = fx.svc.Accept(ctx, 1, order.ID, first.ID)
		require.NoError(t, err)
		_, err = fx.svc.Accept(ctx, 1, order.ID, second.ID)
		assert.ErrorIs(t, err, ErrStateConflict)

		// Exactly one application ever reaches accepted.
		w2 := fx.store.wallets[2]
		w3 := fx.store.wallets[3]
		assert.Equal(t, int64(100000), w2.Escrow)
		assert.Zero(t, w3.Escrow)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("creator cancels an open order", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)

		cancelled, err := fx.svc.Cancel(ctx, 1, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	})

	t.Run("only the creator may cancel", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)

		_, err := fx.svc.Cancel(ctx, 2, order.ID)
		assert.ErrorIs(t, err, ErrNotOrderOwner)
	})

	t.Run("matched order cannot be cancelled", func(t *testing.T) {
		fx := newFixture(t)
		order := fx.seedOrder(t, 1, 200000)
		fx.store.seedWallet(1, 150000, 0)
		fx.store.seedWallet(2, 120000, 0)
		app, err := fx.svc.Apply(ctx, 2, order.ID, "")
		require.NoError(t, err)
		_, err = fx.svc.Accept(ctx, 1, order.ID, app.ID)
		require.NoError(t, err)

		_, err = fx.svc.Cancel(ctx, 1, order.ID)
		assert.ErrorIs(t, err, ErrStateConflict)
	})
}
