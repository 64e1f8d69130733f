package repository

import (
	"fmt"
	"iter"

	"bizpilot-ledger/internal/model"
)

// SalesLedger is the append-only log of completed sales, newest first
type SalesLedger struct {
	sales []model.Sale
	seq   int64
}

func NewSalesLedger() *SalesLedger {
	return &SalesLedger{}
}

func (l *SalesLedger) NextSeq() int64 {
	return l.seq + 1
}

// Append puts sale at the head of the ledger. Only structural completeness
// is checked; the financial fields are the recorder's business.
func (l *SalesLedger) Append(sale model.Sale) error {
	if !sale.Complete() {
		return fmt.Errorf("%w: incomplete sale record", model.ErrValidation)
	}
	if sale.Seq == 0 {
		sale.Seq = l.NextSeq()
	}
	if sale.Seq > l.seq {
		l.seq = sale.Seq
	}
	l.sales = append(l.sales, sale)
	return nil
}

// All yields every sale, newest first
func (l *SalesLedger) All() iter.Seq[model.Sale] {
	return l.Recent(-1)
}

// Recent yields at most n sales, newest first. A negative n means no limit.
func (l *SalesLedger) Recent(n int) iter.Seq[model.Sale] {
	return func(yield func(model.Sale) bool) {
		sales := l.sales
		for i, count := len(sales)-1, 0; i >= 0; i, count = i-1, count+1 {
			if n >= 0 && count >= n {
				return
			}
			if !yield(sales[i]) {
				return
			}
		}
	}
}

func (l *SalesLedger) Len() int {
	return len(l.sales)
}
