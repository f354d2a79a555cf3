package ledger

// SeedBalance is a test helper that seeds the spendable balance for an account
// when using the in-memory ledger.
func SeedBalance(l Ledger, code string, amount int64) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if _, exists := mem.accounts[code]; !exists {
			mem.accounts[code] = &account{}
		}
		mem.accounts[code].balance = amount
	}
}

// TotalSupply is a test helper that sums spendable and held funds across all
// accounts of the in-memory ledger. Conservation checks compare it before and
// after an operation.
func TotalSupply(l Ledger) int64 {
	mem, ok := l.(*inMemoryLedger)
	if !ok {
		return 0
	}
	mem.mu.RLock()
	defer mem.mu.RUnlock()
	var total int64
	for _, acc := range mem.accounts {
		total += acc.balance + acc.held
	}
	return total
}
