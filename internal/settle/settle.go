// Package settle computes trip ledger balances and suggests the payments
// that bring every participant back to zero.
package settle

import (
	"math"
	"sort"

	"github.com/triptab/triptab/internal/domain"
)

// Tolerance below which a balance counts as settled. Amounts are currency
// values, so anything under a cent is rounding noise.
const Tolerance = 0.01

// ComputeBalances aggregates paid and owed totals per participant.
//
// Rules:
//   - Expenses marked settled are excluded entirely.
//   - The payer is credited the full expense amount.
//   - Each member of the split owes amount / len(split).
//   - An expense with an empty split contributes nothing.
//
// Every trip participant gets an entry, even with no activity. The nets of
// all entries sum to zero within Tolerance.
func ComputeBalances(participants []domain.Participant, expenses []domain.Expense) map[string]domain.Balance {
	balances := make(map[string]domain.Balance, len(participants))
	for _, p := range participants {
		balances[p.ID] = domain.Balance{ParticipantID: p.ID}
	}

	for _, e := range expenses {
		if e.Settled {
			continue
		}
		if len(e.SplitBetween) == 0 {
			continue
		}

		if b, ok := balances[e.PaidBy]; ok {
			b.Paid += e.Amount
			balances[e.PaidBy] = b
		}

		share := e.Amount / float64(len(e.SplitBetween))
		for _, pid := range e.SplitBetween {
			if b, ok := balances[pid]; ok {
				b.Owed += share
				balances[pid] = b
			}
		}
	}

	for id, b := range balances {
		b.Net = b.Paid - b.Owed
		balances[id] = b
	}

	return balances
}

// SuggestTransfers reduces the balances to a short list of payments using
// greedy matching: the largest debtor pays the largest creditor, repeat.
// Ties in magnitude keep the participants' input order, so output is
// deterministic for a given participant slice.
//
// Applying all transfers zeroes every net within Tolerance, and at most
// len(debtors)+len(creditors)-1 transfers are produced.
func SuggestTransfers(participants []domain.Participant, balances map[string]domain.Balance) []domain.Transfer {
	type position struct {
		id     string
		amount float64
	}

	var creditors, debtors []position
	for _, p := range participants {
		b, ok := balances[p.ID]
		if !ok {
			continue
		}
		switch {
		case b.Net > Tolerance:
			creditors = append(creditors, position{id: p.ID, amount: b.Net})
		case b.Net < -Tolerance:
			debtors = append(debtors, position{id: p.ID, amount: -b.Net})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	transfers := make([]domain.Transfer, 0, len(creditors)+len(debtors))
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		amount := math.Min(creditors[ci].amount, debtors[di].amount)
		transfers = append(transfers, domain.Transfer{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: round2(amount),
		})

		creditors[ci].amount -= amount
		debtors[di].amount -= amount
		if creditors[ci].amount <= Tolerance {
			ci++
		}
		if debtors[di].amount <= Tolerance {
			di++
		}
	}

	return transfers
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
