package api

import (
	"testing"

	"github.com/Trihalo/XeroAPI/internal/model"
	"github.com/Trihalo/XeroAPI/internal/store"
)

type countingReader struct {
	calls   int
	records []*model.InvoiceRecord
	onLoad  func()
}

func (r *countingReader) GetInvoices(opts store.InvoiceQueryOptions) ([]*model.InvoiceRecord, error) {
	r.calls++
	if r.onLoad != nil {
		r.onLoad()
	}
	return r.records, nil
}

func TestInvoiceCache_HitAndInvalidate(t *testing.T) {
	reader := &countingReader{records: []*model.InvoiceRecord{{Consultant: "Suzie Large"}}}
	cache := NewInvoiceCache(reader)

	for i := 0; i < 3; i++ {
		records, err := cache.Get("FY26", "Jul")
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("records: %+v", records)
		}
	}
	if reader.calls != 1 {
		t.Fatalf("repeated reads must hit cache, calls=%d", reader.calls)
	}

	cache.Invalidate()

	if _, err := cache.Get("FY26", "Jul"); err != nil {
		t.Fatal(err)
	}
	if reader.calls != 2 {
		t.Fatalf("invalidate must force reload, calls=%d", reader.calls)
	}
}

func TestInvoiceCache_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	reader := &countingReader{}
	cache := NewInvoiceCache(reader)

	// 加载过程中缓存被失效：该次结果不得回填
	reader.onLoad = func() {
		cache.Invalidate()
		reader.onLoad = nil
	}

	if _, err := cache.Get("FY26", "Jul"); err != nil {
		t.Fatal(err)
	}
	if reader.calls != 1 {
		t.Fatalf("calls=%d", reader.calls)
	}

	// 回填被丢弃，下一次 Get 必须重新加载
	if _, err := cache.Get("FY26", "Jul"); err != nil {
		t.Fatal(err)
	}
	if reader.calls != 2 {
		t.Fatalf("stale result must not be cached, calls=%d", reader.calls)
	}
}
