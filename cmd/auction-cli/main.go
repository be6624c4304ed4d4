package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"auction-ledger/internal/domain"
	"auction-ledger/internal/infrastructure/memory"
	"auction-ledger/internal/services"
	"auction-ledger/pkg/logger"
)

// ledger is what the prompt loop drives.
type ledger interface {
	AddItem(ctx context.Context, name string, startingPrice float64) domain.ItemSummary
	PlaceBid(ctx context.Context, itemName, bidderName string, amount float64) (*domain.Bid, error)
	ListItems(ctx context.Context) []domain.ItemSummary
}

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log := logger.NewWithLevel(level)
	svc := services.NewAuctionService(memory.NewCatalog(), nil, log)

	if err := run(context.Background(), os.Stdin, os.Stdout, svc); err != nil {
		fmt.Fprintf(os.Stderr, "auction-cli: %v\n", err)
		os.Exit(1)
	}
}

type session struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// ask prints a prompt and reads one line. ok is false on end of input.
func (s *session) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.scanner.Scan() {
		return "", false
	}
	return s.scanner.Text(), true
}

func run(ctx context.Context, in io.Reader, out io.Writer, l ledger) error {
	s := &session{scanner: bufio.NewScanner(in), out: out}

	fmt.Fprintln(out, "Auction Management System")
	fmt.Fprintln(out, "Commands: add, bid, show, quit")

	for {
		cmd, ok := s.ask("> ")
		if !ok {
			return s.scanner.Err()
		}

		switch strings.ToLower(strings.TrimSpace(cmd)) {
		case "add":
			if !addItem(ctx, s, l) {
				return s.scanner.Err()
			}
		case "bid":
			if !placeBid(ctx, s, l) {
				return s.scanner.Err()
			}
		case "show":
			fmt.Fprintln(out, domain.RenderListing(l.ListItems(ctx)))
		case "quit", "exit":
			return nil
		case "":
		default:
			fmt.Fprintf(out, "Unknown command %q. Commands: add, bid, show, quit\n", cmd)
		}
	}
}

func addItem(ctx context.Context, s *session, l ledger) bool {
	name, ok := s.ask("Item Name: ")
	if !ok {
		return false
	}
	priceText, ok := s.ask("Starting Price: ")
	if !ok {
		return false
	}

	price, err := domain.ParseAmount(priceText)
	if err != nil {
		fmt.Fprintln(s.out, domain.MsgInvalidStartingPrice)
		return true
	}

	l.AddItem(ctx, name, price)
	fmt.Fprintln(s.out, domain.MsgItemAdded)
	return true
}

func placeBid(ctx context.Context, s *session, l ledger) bool {
	itemName, ok := s.ask("Item Name: ")
	if !ok {
		return false
	}
	bidderName, ok := s.ask("Bidder Name: ")
	if !ok {
		return false
	}
	amountText, ok := s.ask("Bid Amount: ")
	if !ok {
		return false
	}

	amount, err := domain.ParseAmount(amountText)
	if err != nil {
		fmt.Fprintln(s.out, domain.MsgInvalidBidAmount)
		return true
	}

	_, err = l.PlaceBid(ctx, itemName, bidderName, amount)
	fmt.Fprintln(s.out, domain.BidMessage(err))
	return true
}
