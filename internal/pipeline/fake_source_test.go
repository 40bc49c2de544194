package pipeline

import (
	"context"
	"sync"

	"finboard/internal"
	"finboard/internal/dart"
)

// fakeSource answers from a fixed table; unknown selectors get "no data".
type fakeSource struct {
	mu        sync.Mutex
	responses map[internal.Selector][]internal.RawLineItem
	failures  map[internal.Selector]error
	calls     []internal.Selector
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		responses: map[internal.Selector][]internal.RawLineItem{},
		failures:  map[internal.Selector]error{},
	}
}

func (f *fakeSource) FetchStatements(_ context.Context, sel internal.Selector) ([]internal.RawLineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sel)
	if err, ok := f.failures[sel]; ok {
		return nil, err
	}
	if items, ok := f.responses[sel]; ok {
		return items, nil
	}
	return nil, &dart.SourceError{Status: dart.StatusNoData, Message: "조회된 데이타가 없습니다.", Selector: sel}
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func revenueItems(current, previous string) []internal.RawLineItem {
	return []internal.RawLineItem{
		{AccountName: "매출액", Division: internal.DivisionConsolidated, Statement: internal.StatementIncome, CurrentAmount: current, PriorAmount: previous},
	}
}

func item(account string, div internal.Division, st internal.StatementType, current, previous string) internal.RawLineItem {
	return internal.RawLineItem{AccountName: account, Division: div, Statement: st, CurrentAmount: current, PriorAmount: previous}
}
