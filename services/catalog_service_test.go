package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/abdur28/boarding-sky-sub000/cache"
	"github.com/abdur28/boarding-sky-sub000/inflight"
	"github.com/abdur28/boarding-sky-sub000/media"
	"github.com/abdur28/boarding-sky-sub000/models"
	"github.com/abdur28/boarding-sky-sub000/pricing"
)

const placeholder = "/placeholder.png"

func newCarOffers(t *testing.T, store *recordingStore, lc cache.ListCache) *CatalogService[models.CarOffer, *models.CarOffer] {
	t.Helper()
	return NewCatalogService[models.CarOffer](newTestDB(t), "car-offers", CatalogDeps{
		Placeholder: placeholder,
		Cleaner:     media.NewCleaner(store),
		Cache:       lc,
	})
}

func carOffer(images ...string) *models.CarOffer {
	return &models.CarOffer{
		Make:  "Toyota",
		Model: "Corolla",
		Seats: 5,
		Price: datatypes.NewJSONType(pricing.Breakdown{
			Components: map[string]float64{"baseRate": 100, "taxes": 15, "fees": 10},
		}),
		Images: datatypes.JSONSlice[string](images),
	}
}

func TestCatalogService_CreateComputesTotal(t *testing.T) {
	svc := newCarOffers(t, &recordingStore{}, nil)
	ctx := context.Background()

	in := carOffer()
	in.Price = datatypes.NewJSONType(pricing.Breakdown{
		Components: map[string]float64{"baseRate": 100, "taxes": 15, "fees": 10},
		Total:      999,
	})
	created, err := svc.Save(ctx, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	price := got.Price.Data()
	if price.Total != 125 {
		t.Fatalf("total = %v, want 125", price.Total)
	}
	if price.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", price.Currency)
	}
	if v, ok := price.Components["insurance"]; !ok || v != 0 {
		t.Fatalf("missing component not stored as zero: %v", price.Components)
	}
	if got.Status != models.OfferAvailable {
		t.Fatalf("status = %q, want available", got.Status)
	}
}

func TestCatalogService_CreateRejectsNegativeComponent(t *testing.T) {
	store := &recordingStore{}
	svc := newCarOffers(t, store, nil)

	in := carOffer()
	in.Price = datatypes.NewJSONType(pricing.Breakdown{Components: map[string]float64{"baseRate": -1}})
	if _, err := svc.Save(context.Background(), in); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	list, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected offer was stored")
	}
}

func TestCatalogService_DeleteCleansUpEveryImage(t *testing.T) {
	store := &recordingStore{}
	svc := newCarOffers(t, store, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, carOffer("/uploads/cars/a.png", "/uploads/cars/b.png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("create must not delete images")
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []string{"/uploads/cars/a.png", "/uploads/cars/b.png"}
	if !reflect.DeepEqual(store.deleted, want) {
		t.Fatalf("deleted = %v, want %v", store.deleted, want)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCatalogService_DeleteSkipsPlaceholder(t *testing.T) {
	store := &recordingStore{}
	svc := newCarOffers(t, store, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, carOffer(placeholder))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("placeholder-only record must not call the store, got %v", store.deleted)
	}
}

func TestCatalogService_DeleteMissing(t *testing.T) {
	store := &recordingStore{}
	svc := newCarOffers(t, store, nil)

	if err := svc.Delete(context.Background(), "does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("failed delete must not clean up images")
	}
}

func TestCatalogService_UpdateCleansReplacedImagesOnly(t *testing.T) {
	store := &recordingStore{}
	svc := newCarOffers(t, store, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, carOffer("/uploads/cars/old.png", "/uploads/cars/keep.png", placeholder))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	createdAt := created.CreatedAt

	upd := carOffer("/uploads/cars/keep.png", "/uploads/cars/new.png")
	upd.ID = created.ID
	if _, err := svc.Save(ctx, upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	want := []string{"/uploads/cars/old.png"}
	if !reflect.DeepEqual(store.deleted, want) {
		t.Fatalf("deleted = %v, want %v", store.deleted, want)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("createdAt changed: %v -> %v", createdAt, got.CreatedAt)
	}
	if !reflect.DeepEqual([]string(got.Images), []string{"/uploads/cars/keep.png", "/uploads/cars/new.png"}) {
		t.Fatalf("images = %v", got.Images)
	}
}

func TestCatalogService_UpdateUnchangedImagesMakesNoCall(t *testing.T) {
	store := &recordingStore{}
	svc := newCarOffers(t, store, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, carOffer("/uploads/cars/a.png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	upd := carOffer("/uploads/cars/a.png")
	upd.ID = created.ID
	upd.Model = "Yaris"
	if _, err := svc.Save(ctx, upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store called with %v", store.deleted)
	}
}

func TestCatalogService_StoreFailureKeepsCommittedChange(t *testing.T) {
	store := &recordingStore{err: errBoom}
	svc := newCarOffers(t, store, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, carOffer("/uploads/cars/a.png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete must succeed when cleanup fails: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("store calls = %d, want 1", store.calls)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record should stay deleted, got %v", err)
	}
}

func TestCatalogService_UpdateMissingRecord(t *testing.T) {
	svc := newCarOffers(t, &recordingStore{}, nil)

	upd := carOffer()
	upd.ID = "missing"
	if _, err := svc.Save(context.Background(), upd); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_ListCacheInvalidatedOnWrite(t *testing.T) {
	lc := cache.NewMemory(time.Minute)
	svc := newCarOffers(t, &recordingStore{}, lc)
	ctx := context.Background()

	if _, err := svc.Save(ctx, carOffer()); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("len = %d, want 1", len(first))
	}
	if _, ok, _ := lc.Get(ctx, "car-offers"); !ok {
		t.Fatalf("unfiltered list was not cached")
	}

	second := carOffer()
	second.Make = "Honda"
	second.Model = "Civic"
	if _, err := svc.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, _ := lc.Get(ctx, "car-offers"); ok {
		t.Fatalf("write did not invalidate the cached list")
	}

	list, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
}

// racingCache runs onFirstSet between the list query and the cache write.
type racingCache struct {
	*cache.Memory
	onFirstSet func()
	fired      bool
}

func (r *racingCache) Set(ctx context.Context, key string, gen int64, value []byte) error {
	if !r.fired {
		r.fired = true
		r.onFirstSet()
	}
	return r.Memory.Set(ctx, key, gen, value)
}

func TestCatalogService_ListDoesNotCacheAcrossWrite(t *testing.T) {
	lc := &racingCache{Memory: cache.NewMemory(time.Minute)}
	svc := newCarOffers(t, &recordingStore{}, lc)
	ctx := context.Background()

	if _, err := svc.Save(ctx, carOffer()); err != nil {
		t.Fatalf("save: %v", err)
	}
	lc.onFirstSet = func() {
		second := carOffer()
		second.Make = "Honda"
		if _, err := svc.Save(ctx, second); err != nil {
			t.Errorf("concurrent save: %v", err)
		}
	}

	first, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("len = %d, want 1 (read before the write)", len(first))
	}

	again, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("re-fetch after write returned %d offers, want 2", len(again))
	}
}

func TestCatalogService_ListFilter(t *testing.T) {
	svc := newCarOffers(t, &recordingStore{}, nil)
	ctx := context.Background()

	if _, err := svc.Save(ctx, carOffer()); err != nil {
		t.Fatalf("save: %v", err)
	}
	honda := carOffer()
	honda.Make = "Honda"
	honda.Model = "Civic"
	if _, err := svc.Save(ctx, honda); err != nil {
		t.Fatalf("save: %v", err)
	}

	list, err := svc.List(ctx, "hon")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Make != "Honda" {
		t.Fatalf("filter hon = %+v", list)
	}

	// underscore is literal, not a wildcard
	list, err = svc.List(ctx, "c_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("filter c_ matched %d rows", len(list))
	}
}

func TestCatalogService_DuplicateKeyIsConflict(t *testing.T) {
	db := newTestDB(t)
	users := NewCatalogService[models.User](db, "users", CatalogDeps{})
	ctx := context.Background()

	if _, err := users.Save(ctx, &models.User{Email: "a@example.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := users.Save(ctx, &models.User{Email: "A@example.com"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCatalogService_UpdateWhilePendingIsRejected(t *testing.T) {
	guard := inflight.NewMemoryGuard()
	store := &recordingStore{}
	svc := NewCatalogService[models.CarOffer](newTestDB(t), "car-offers", CatalogDeps{
		Placeholder: placeholder,
		Cleaner:     media.NewCleaner(store),
		Guard:       guard,
	})
	ctx := context.Background()

	created, err := svc.Save(ctx, carOffer("/uploads/cars/a.png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	release, err := guard.Acquire(ctx, "car-offers:"+created.ID)
	if err != nil {
		t.Fatalf("hold key: %v", err)
	}
	defer release()

	upd := carOffer()
	upd.ID = created.ID
	if _, err := svc.Save(ctx, upd); !errors.Is(err, inflight.ErrInProgress) {
		t.Fatalf("update: expected ErrInProgress, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, inflight.ErrInProgress) {
		t.Fatalf("delete: expected ErrInProgress, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("rejected submission cleaned images %v", store.deleted)
	}
}
