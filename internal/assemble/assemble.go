// Package assemble composes classified transactions, transfer pairings,
// and balance assertions into an ordered output stream of ledger entries.
package assemble

import (
	"sort"
	"time"

	"github.com/skanbean-dev/skanbean/internal/model"
	"github.com/skanbean-dev/skanbean/internal/transfer"
)

// Item is one directive in the output stream: either a ledger entry or a
// balance assertion, never both.
type Item struct {
	Entry     *model.Entry
	Assertion *model.BalanceAssertion
}

// Date returns the directive's date.
func (i Item) Date() time.Time {
	if i.Entry != nil {
		return i.Entry.Date
	}
	return i.Assertion.Date
}

const (
	kindEntry     = 0
	kindAssertion = 1
)

type ordered struct {
	item Item
	kind int
	seq  int
}

// Options controls entry composition.
type Options struct {
	// PayeeFromDescription puts the description in the payee field with an
	// empty narration; otherwise the description becomes the narration.
	PayeeFromDescription bool
}

// Stream builds one balanced ledger entry per transaction, merging paired
// transfer legs into a single two-account entry, and interleaves balance
// assertions. The result is sorted by date ascending, stable on input
// order, with a day's assertions after that day's entries.
func Stream(txns []model.Transaction, pairs []transfer.Pair, assertions []model.BalanceAssertion, opts Options) []Item {
	pairedIn := make(map[int]int, len(pairs)) // incoming index -> pair slot
	pairedOut := make(map[int]int, len(pairs))
	for slot, p := range pairs {
		pairedOut[p.Out] = slot
		pairedIn[p.In] = slot
	}

	var items []ordered
	for i, txn := range txns {
		if _, ok := pairedIn[i]; ok {
			continue // merged into the outgoing leg's entry
		}
		var entry model.Entry
		if slot, ok := pairedOut[i]; ok {
			entry = mergedEntry(txns, pairs[slot], opts)
		} else {
			entry = singleEntry(txn, opts)
		}
		e := entry
		items = append(items, ordered{item: Item{Entry: &e}, kind: kindEntry, seq: i})
	}
	for i, a := range assertions {
		b := a
		items = append(items, ordered{item: Item{Assertion: &b}, kind: kindAssertion, seq: i})
	}

	sort.SliceStable(items, func(a, b int) bool {
		da, db := items[a].item.Date(), items[b].item.Date()
		if !da.Equal(db) {
			return da.Before(db)
		}
		if items[a].kind != items[b].kind {
			return items[a].kind < items[b].kind
		}
		return items[a].seq < items[b].seq
	})

	out := make([]Item, len(items))
	for i, o := range items {
		out[i] = o.item
	}
	return out
}

// singleEntry builds a two-posting entry: the source posting mirrored
// against the counter account, balanced by construction.
func singleEntry(txn model.Transaction, opts Options) model.Entry {
	entry := entryHeader(txn, opts)
	entry.Postings = []model.Posting{
		{Account: txn.Account, Amount: txn.Amount},
		{Account: txn.Counter, Amount: txn.Amount.Neg()},
	}
	return entry
}

// mergedEntry joins both legs of a paired transfer into one entry with a
// posting per real account and no synthetic counter account.
func mergedEntry(txns []model.Transaction, pair transfer.Pair, opts Options) model.Entry {
	out, in := txns[pair.Out], txns[pair.In]
	entry := entryHeader(out, opts)
	entry.Postings = []model.Posting{
		{Account: out.Account, Amount: out.Amount},
		{Account: in.Account, Amount: in.Amount},
	}
	return entry
}

func entryHeader(txn model.Transaction, opts Options) model.Entry {
	entry := model.Entry{Date: txn.Date}
	if opts.PayeeFromDescription {
		entry.Payee = txn.Description
	} else {
		entry.Narration = txn.Description
	}
	return entry
}
