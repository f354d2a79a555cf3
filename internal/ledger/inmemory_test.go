package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryLedger_HoldAndRelease(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.EnsureAccount(ctx, "account:a"); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	SeedBalance(l, "account:a", 3)

	if err := l.Hold(ctx, "account:a", 1); err != nil {
		t.Fatalf("hold failed: %v", err)
	}

	balance, _ := l.Balance(ctx, "account:a")
	held, _ := l.HeldBalance(ctx, "account:a")
	if balance != 2 || held != 1 {
		t.Fatalf("expected balance 2 held 1, got %d/%d", balance, held)
	}
	if TotalSupply(l) != 3 {
		t.Fatalf("hold must not change total supply, got %d", TotalSupply(l))
	}

	if err := l.Release(ctx, "account:a", 1); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	balance, _ = l.Balance(ctx, "account:a")
	held, _ = l.HeldBalance(ctx, "account:a")
	if balance != 3 || held != 0 {
		t.Fatalf("expected balance 3 held 0, got %d/%d", balance, held)
	}
}

func TestInMemoryLedger_HoldInsufficientFunds(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "account:a")
	SeedBalance(l, "account:a", 3)

	if err := l.Hold(ctx, "account:a", 4); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	balance, _ := l.Balance(ctx, "account:a")
	if balance != 3 {
		t.Fatalf("failed hold must not mutate balance, got %d", balance)
	}
}

func TestInMemoryLedger_ReleaseBeyondHold(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "account:a")
	SeedBalance(l, "account:a", 5)
	if err := l.Hold(ctx, "account:a", 2); err != nil {
		t.Fatalf("hold: %v", err)
	}

	if err := l.Release(ctx, "account:a", 3); !errors.Is(err, ErrInsufficientHold) {
		t.Fatalf("expected insufficient held funds, got %v", err)
	}
}

func TestInMemoryLedger_TransferHeldMovesRealBalance(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "account:a")
	l.EnsureAccount(ctx, "suspense:payout")
	SeedBalance(l, "account:a", 3)

	if err := l.Hold(ctx, "account:a", 1); err != nil {
		t.Fatalf("hold: %v", err)
	}
	if err := l.TransferHeld(ctx, "account:a", "suspense:payout", 1); err != nil {
		t.Fatalf("transfer held: %v", err)
	}

	holderBalance, _ := l.Balance(ctx, "account:a")
	holderHeld, _ := l.HeldBalance(ctx, "account:a")
	suspenseBalance, _ := l.Balance(ctx, "suspense:payout")
	if holderBalance != 2 || holderHeld != 0 || suspenseBalance != 1 {
		t.Fatalf("unexpected balances %d/%d/%d", holderBalance, holderHeld, suspenseBalance)
	}
	if TotalSupply(l) != 3 {
		t.Fatalf("transfer must conserve supply, got %d", TotalSupply(l))
	}
}

func TestInMemoryLedger_MintAndBurn(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "account:a")

	res, err := l.Mint(ctx, "account:a", "client-1", 2_000)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if res.Balance != 2_000 {
		t.Fatalf("expected balance 2000, got %d", res.Balance)
	}

	if _, err := l.Mint(ctx, "account:a", "client-1", 2_000); !errors.Is(err, ErrDuplicateTransaction) {
		t.Fatalf("expected duplicate mint error, got %v", err)
	}

	if err := l.Burn(ctx, "account:a", 500); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if TotalSupply(l) != 1_500 {
		t.Fatalf("expected supply 1500 after burn, got %d", TotalSupply(l))
	}

	if err := l.Burn(ctx, "account:a", 5_000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds on over-burn, got %v", err)
	}
}

func TestInMemoryLedger_ConcurrentHolds(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "account:a")
	SeedBalance(l, "account:a", 100_000)

	const workers = 10
	const amount = int64(500)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := l.Hold(ctx, "account:a", amount); err != nil {
				t.Errorf("hold %s failed: %v", fmt.Sprintf("w-%d", i), err)
			}
		}(i)
	}
	wg.Wait()

	if TotalSupply(l) != 100_000 {
		t.Fatalf("ledger not balanced after concurrency, total=%d", TotalSupply(l))
	}
	held, _ := l.HeldBalance(ctx, "account:a")
	if held != workers*amount {
		t.Fatalf("expected held %d, got %d", workers*amount, held)
	}
}
