// Package cartsync はローカルのカートキャッシュとリモートのカートサービスを同期する。
//
// 変更系の操作は「楽観的にキャッシュへ反映 → リモート呼び出し → 応答のカート全体で
// キャッシュを置き換え」の順で進む。失敗したら必ず全体を取り直す。整合性は
// 「最後に届いた応答が勝つ」。同時に走った操作は応答が遅く届いた方で上書きされる。
package cartsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"medkit/internal/apiclient"
)

const (
	DefaultRetryDelay = 3 * time.Second
	DefaultErrorTTL   = 5 * time.Second
)

// Remote はカートサービス。*apiclient.CartAPI がこれを満たす。
type Remote interface {
	Fetch(ctx context.Context, customerID string) (apiclient.CartDocument, error)
	Add(ctx context.Context, customerID string, in apiclient.CartLineInput) (apiclient.CartDocument, error)
	Update(ctx context.Context, customerID string, in apiclient.CartLineInput) (apiclient.CartDocument, error)
	Remove(ctx context.Context, customerID, productID, brandName string) (apiclient.CartDocument, error)
	Clear(ctx context.Context, customerID string) (apiclient.CartDocument, error)
}

type Options struct {
	// NETWORK エラー後に1回だけ取り直すまでの待ち
	RetryDelay time.Duration
	// エラー表示を自動で消すまでの時間
	ErrorTTL time.Duration
	Logger   *zap.Logger
}

type Synchronizer struct {
	remote   Remote
	identity Identity
	notifier Notifier
	log      *zap.Logger

	retryDelay time.Duration
	errorTTL   time.Duration

	mu        sync.Mutex
	items     []CartItem
	sessionID string
	loading   bool
	inFlight  *CartOperation
	lastErr   *CartError
	errTimer  *time.Timer
	retry     *time.Timer
	closed    bool
}

// DI
func New(remote Remote, identity Identity, notifier Notifier, opts Options) *Synchronizer {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.ErrorTTL <= 0 {
		opts.ErrorTTL = DefaultErrorTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(opts.Logger)
	}

	return &Synchronizer{
		remote:     remote,
		identity:   identity,
		notifier:   notifier,
		log:        opts.Logger.Named("cartsync"),
		retryDelay: opts.RetryDelay,
		errorTTL:   opts.ErrorTTL,
		items:      []CartItem{},
	}
}

// AddItem は未ログインならログイン誘導だけして nil を返す。
// キャッシュ上の在庫を超える数量はリモートを呼ばずに STOCK で失敗する。
func (s *Synchronizer) AddItem(ctx context.Context, item CartItem, quantity int) error {
	id, ok := s.identity.CustomerID()
	if !ok {
		s.notifier.LoginRequired()
		return nil
	}

	op := CartOperation{Kind: OpAdd, ProductID: item.ProductID, BrandName: item.BrandName, Quantity: quantity}
	if cerr := s.checkAdd(item, quantity); cerr != nil {
		return s.fail(ctx, id, op, cerr)
	}

	s.begin(op, func(items []CartItem) []CartItem {
		for i := range items {
			if items[i].matches(item.ProductID, item.BrandName) {
				items[i].Quantity += quantity
				return items
			}
		}
		// 新規の商品も先に見せる
		added := item
		added.Quantity = quantity
		return append(items, added)
	})
	defer s.end()

	doc, err := s.remote.Add(ctx, id, apiclient.CartLineInput{
		ProductID: item.ProductID,
		BrandName: item.BrandName,
		Quantity:  quantity,
	})
	if err != nil {
		return s.fail(ctx, id, op, Classify(err, "Failed to add item to cart"))
	}

	s.reconcile(doc)
	s.notifier.Notify(Notification{
		Level:   LevelSuccess,
		Title:   "Added to Cart",
		Message: fmt.Sprintf("%s added to cart", item.Name),
	})
	return nil
}

func (s *Synchronizer) UpdateQuantity(ctx context.Context, productID, brandName string, quantity int) error {
	id, ok := s.identity.CustomerID()
	if !ok {
		return nil
	}

	op := CartOperation{Kind: OpUpdate, ProductID: productID, BrandName: brandName, Quantity: quantity}
	if quantity < 1 {
		return s.fail(ctx, id, op, quantityError())
	}

	s.begin(op, func(items []CartItem) []CartItem {
		for i := range items {
			if items[i].matches(productID, brandName) {
				items[i].Quantity = quantity
			}
		}
		return items
	})
	defer s.end()

	doc, err := s.remote.Update(ctx, id, apiclient.CartLineInput{
		ProductID: productID,
		BrandName: brandName,
		Quantity:  quantity,
	})
	if err != nil {
		return s.fail(ctx, id, op, Classify(err, "Failed to update cart item"))
	}

	s.reconcile(doc)
	return nil
}

func (s *Synchronizer) RemoveItem(ctx context.Context, productID, brandName string) error {
	id, ok := s.identity.CustomerID()
	if !ok {
		return nil
	}

	op := CartOperation{Kind: OpRemove, ProductID: productID, BrandName: brandName}
	s.begin(op, func(items []CartItem) []CartItem {
		kept := items[:0]
		for _, it := range items {
			if !it.matches(productID, brandName) {
				kept = append(kept, it)
			}
		}
		return kept
	})
	defer s.end()

	doc, err := s.remote.Remove(ctx, id, productID, brandName)
	if err != nil {
		return s.fail(ctx, id, op, Classify(err, "Failed to remove item from cart"))
	}

	s.reconcile(doc)
	s.notifier.Notify(Notification{Level: LevelSuccess, Title: "Removed from Cart", Message: "Item removed from cart"})
	return nil
}

func (s *Synchronizer) Clear(ctx context.Context) error {
	id, ok := s.identity.CustomerID()
	if !ok {
		return nil
	}

	op := CartOperation{Kind: OpClear}
	s.begin(op, func([]CartItem) []CartItem { return []CartItem{} })
	defer s.end()

	doc, err := s.remote.Clear(ctx, id)
	if err != nil {
		return s.fail(ctx, id, op, Classify(err, "Failed to clear cart"))
	}

	s.reconcile(doc)
	s.notifier.Notify(Notification{Level: LevelSuccess, Title: "Cart Cleared", Message: "All items removed from cart"})
	return nil
}

// Refresh はサーバーから全体を取り直す。失敗は通知し、NETWORK なら1回だけ再試行を予約する。
func (s *Synchronizer) Refresh(ctx context.Context) error {
	id, ok := s.identity.CustomerID()
	if !ok {
		return nil
	}
	if cerr := s.refresh(ctx, id); cerr != nil {
		s.setError(cerr, true)
		return cerr
	}
	return nil
}

// Recover は顧客IDが決まった直後の初回読み込み。失敗はログだけ。
func (s *Synchronizer) Recover(ctx context.Context) {
	id, ok := s.identity.CustomerID()
	if !ok {
		return
	}
	if cerr := s.refresh(ctx, id); cerr != nil {
		s.log.Warn("cart recovery failed", zap.String("customer_id", id), zap.Error(cerr))
	}
}

// Close は予約中のタイマーを止める
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	if s.retry != nil {
		s.retry.Stop()
	}
}

// ---- 読み取り ----

func (s *Synchronizer) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Synchronizer) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Synchronizer) IsInCart(productID, brandName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.find(productID, brandName)
	return ok
}

// 無ければ 0
func (s *Synchronizer) QuantityOf(productID, brandName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.find(productID, brandName); ok {
		return it.Quantity
	}
	return 0
}

func (s *Synchronizer) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (s *Synchronizer) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// InFlight は実行中の操作。無ければ ok=false。
func (s *Synchronizer) InFlight() (CartOperation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		return CartOperation{}, false
	}
	return *s.inFlight, true
}

// Err は直近のエラー（期限切れなら nil）
func (s *Synchronizer) Err() *CartError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Synchronizer) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}

// ---- 内部 ----

func (s *Synchronizer) find(productID, brandName string) (CartItem, bool) {
	for _, it := range s.items {
		if it.matches(productID, brandName) {
			return it, true
		}
	}
	return CartItem{}, false
}

// 在庫チェックはキャッシュ優先。キャッシュに無ければ渡された在庫で見る。
func (s *Synchronizer) checkAdd(item CartItem, quantity int) *CartError {
	if quantity < 1 {
		return quantityError()
	}

	s.mu.Lock()
	stock := item.AvailableStock
	if cached, ok := s.find(item.ProductID, item.BrandName); ok {
		stock = cached.AvailableStock
	}
	s.mu.Unlock()

	if stock > 0 && quantity > stock {
		return stockError(stock)
	}
	return nil
}

func (s *Synchronizer) begin(op CartOperation, apply func([]CartItem) []CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = &op
	s.items = apply(s.items)
}

func (s *Synchronizer) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = nil
}

// 応答のカートでキャッシュを丸ごと置き換える
func (s *Synchronizer) reconcile(doc apiclient.CartDocument) {
	items := itemsFromDocument(doc)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.sessionID = doc.SessionID
}

func (s *Synchronizer) refresh(ctx context.Context, id string) *CartError {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	doc, err := s.remote.Fetch(ctx, id)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		return Classify(err, "Failed to fetch cart")
	}
	s.reconcile(doc)
	return nil
}

// 失敗時の共通処理: 取り直し → 通知と記録
func (s *Synchronizer) fail(ctx context.Context, id string, op CartOperation, cerr *CartError) error {
	s.log.Warn("cart operation failed",
		zap.String("op", string(op.Kind)),
		zap.String("product_id", op.ProductID),
		zap.String("brand", op.BrandName),
		zap.String("kind", string(cerr.Kind)),
		zap.String("message", cerr.Message))

	if rerr := s.refresh(ctx, id); rerr != nil {
		s.log.Warn("cart refresh after failure failed", zap.Error(rerr))
	}
	s.setError(cerr, true)
	return cerr
}

func (s *Synchronizer) setError(cerr *CartError, allowRetry bool) {
	s.mu.Lock()
	s.lastErr = cerr
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	s.errTimer = time.AfterFunc(s.errorTTL, func() { s.expire(cerr) })

	// 新しいエラーで古い再試行は取り消す。再試行自身の失敗は他の予約に触らない。
	if allowRetry {
		if s.retry != nil {
			s.retry.Stop()
			s.retry = nil
		}
		if cerr.Kind == KindNetwork && !s.closed {
			s.retry = time.AfterFunc(s.retryDelay, s.retryRefresh)
		}
	}
	s.mu.Unlock()

	s.notifier.Notify(Notification{Level: LevelError, Title: "Cart Error", Message: cerr.Message})
}

func (s *Synchronizer) expire(cerr *CartError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == cerr {
		s.lastErr = nil
	}
}

// 再試行は1回だけ。ここで失敗しても次は予約しない。
func (s *Synchronizer) retryRefresh() {
	s.mu.Lock()
	s.retry = nil
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	id, ok := s.identity.CustomerID()
	if !ok {
		return
	}
	if cerr := s.refresh(context.Background(), id); cerr != nil {
		s.setError(cerr, false)
		return
	}
	s.log.Debug("cart recovered after network error", zap.String("customer_id", id))
}
