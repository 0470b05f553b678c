package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// datagen writes a synthetic ledger CSV with seeded background traffic
// plus injected laundering patterns (a cycle, a fan-in burst, a shell
// chain, and a velocity burst), for demos and load testing the engine.

func main() {
	var (
		accounts = flag.Int("accounts", 50, "number of background accounts")
		normal   = flag.Int("transactions", 400, "number of background transactions")
		seed     = flag.Int64("seed", 42, "random seed for deterministic generation")
		out      = flag.String("out", "ledger.csv", "output CSV path (\"-\" for stdout)")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	var b strings.Builder
	b.WriteString("transaction_id,sender_id,receiver_id,amount,timestamp\n")

	writeTx := func(sender, receiver string, amount float64, ts time.Time) {
		fmt.Fprintf(&b, "%s,%s,%s,%.2f,%s\n",
			uuid.New().String(), sender, receiver, amount, ts.Format("2006-01-02 15:04:05"))
	}

	accountID := func(i int) string { return fmt.Sprintf("ACC_%03d", i) }

	// Background traffic spread over 30 days.
	for i := 0; i < *normal; i++ {
		sender := accountID(rng.Intn(*accounts))
		receiver := accountID(rng.Intn(*accounts))
		for receiver == sender {
			receiver = accountID(rng.Intn(*accounts))
		}
		ts := base.Add(time.Duration(rng.Intn(30*24)) * time.Hour).Add(time.Duration(rng.Intn(3600)) * time.Second)
		writeTx(sender, receiver, 10+rng.Float64()*990, ts)
	}

	// Laundering loop: MULE_A -> MULE_B -> MULE_C -> MULE_A within an hour.
	loop := []string{"MULE_A", "MULE_B", "MULE_C"}
	for i := range loop {
		writeTx(loop[i], loop[(i+1)%len(loop)], 5000, base.Add(time.Duration(i*20)*time.Minute))
	}

	// Fan-in: 12 one-shot senders into a collector within 10 minutes.
	for i := 0; i < 12; i++ {
		writeTx(fmt.Sprintf("SMURF_%02d", i), "COLLECTOR", 450, base.Add(time.Duration(i)*time.Minute))
	}

	// Shell chain: low-activity pass-throughs.
	chain := []string{"ORIGIN", "SHELL_1", "SHELL_2", "SHELL_3", "EXIT_ACC"}
	for i := 0; i < len(chain)-1; i++ {
		writeTx(chain[i], chain[i+1], 9800, base.Add(time.Duration(i*6)*time.Hour))
	}

	// Velocity burst: 6 transfers in 40 minutes.
	for i := 0; i < 6; i++ {
		writeTx("BURSTER", accountID(rng.Intn(*accounts)), 120, base.Add(time.Duration(i*8)*time.Minute))
	}

	if *out == "-" {
		fmt.Print(b.String())
		return
	}
	if err := os.WriteFile(*out, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write ledger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote synthetic ledger to %s\n", *out)
}
