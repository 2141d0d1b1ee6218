package api

import (
	"fmt"
	"sync"

	"github.com/Trihalo/XeroAPI/internal/model"
	"github.com/Trihalo/XeroAPI/internal/store"
)

// InvoiceReader 发票数据读取接口，缓存层只依赖这个接口
type InvoiceReader interface {
	GetInvoices(opts store.InvoiceQueryOptions) ([]*model.InvoiceRecord, error)
}

// InvoiceCache 按 (fy, month) 维度缓存发票查询结果
// 失效采用代号（generation）机制：Invalidate 递增代号，
// 失效前发起的加载完成后发现代号已变则丢弃结果，不会用旧数据覆盖新数据。
type InvoiceCache struct {
	reader InvoiceReader

	mu      sync.Mutex
	gen     uint64
	entries map[string][]*model.InvoiceRecord
}

// NewInvoiceCache 创建发票缓存
func NewInvoiceCache(reader InvoiceReader) *InvoiceCache {
	return &InvoiceCache{
		reader:  reader,
		entries: make(map[string][]*model.InvoiceRecord),
	}
}

func cacheKey(fy, month string) string {
	return fmt.Sprintf("%s:%s", fy, month)
}

// Get 取某财年某月的发票，未命中时回源加载
func (c *InvoiceCache) Get(fy, month string) ([]*model.InvoiceRecord, error) {
	key := cacheKey(fy, month)

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	startGen := c.gen
	c.mu.Unlock()

	records, err := c.reader.GetInvoices(store.InvoiceQueryOptions{FinancialYear: &fy, Month: &month})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != startGen {
		// 加载期间缓存被失效过，结果照常返回但不回填
		return records, nil
	}
	c.entries[key] = records
	return records, nil
}

// Invalidate 清空缓存并递增代号
func (c *InvoiceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[string][]*model.InvoiceRecord)
}

// Generation 当前代号（测试用）
func (c *InvoiceCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
