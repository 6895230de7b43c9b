package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Simmypeet/Xpen/internal/config"
	"github.com/Simmypeet/Xpen/internal/model/backend"
	"github.com/Simmypeet/Xpen/internal/model/ledger"
	"github.com/Simmypeet/Xpen/internal/model/preference"
	"github.com/Simmypeet/Xpen/internal/model/reports"
)

const usage = `usage: xpen <command> [arguments]

commands:
  list                         list ledgers with balances
  create <name>                create a new ledger and select it
  use <name>                   select the working ledger
  add <amount> [-tag] [-note]  append a record to the working ledger
  history [-n count]           show the latest records with deltas
  report [period]              tag totals over week, month, year or all
  rename <name> <new-name>     rename a ledger
  delete <name>                delete a ledger and its records
`

func main() {
	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		log.Fatal("failed to init config:", err)
	}

	dataDir := conf.App().DataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal("failed to prepare data directory:", err)
	}

	pref, err := preference.LoadOrInit(filepath.Join(dataDir, preference.FileName))
	if err != nil {
		log.Fatal("failed to load preference:", err)
	}

	b, err := backend.New(dataDir)
	if err != nil {
		log.Fatal("failed to open backend:", err)
	}

	histPath := filepath.Join(dataDir, preference.HistoryFileName)
	hist, err := preference.LoadHistoryOrInit(histPath)
	if err != nil {
		log.Fatal("failed to load history:", err)
	}
	if hist.LastAccessedLedger != "" {
		if l, err := b.LedgerByName(hist.LastAccessedLedger); err == nil && l != nil {
			_ = b.SetCurrent(l)
		}
	}

	code := 0
	if err := run(b, pref, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "xpen:", err)
		code = 1
	}

	hist.LastAccessedLedger = ""
	if cur := b.Current(); cur != nil {
		hist.LastAccessedLedger = cur.Name()
	}
	if err := hist.Save(histPath); err != nil {
		fmt.Fprintln(os.Stderr, "xpen:", err)
	}
	if err := b.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "xpen:", err)
		code = 1
	}
	os.Exit(code)
}

func run(b *backend.Backend, pref preference.Preference, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return runList(b, pref)
	case "create":
		if len(rest) != 1 {
			return errors.New("create takes exactly one name")
		}
		l, err := b.Create(rest[0])
		if err != nil {
			return err
		}
		return b.SetCurrent(l)
	case "use":
		if len(rest) != 1 {
			return errors.New("use takes exactly one name")
		}
		l, err := requireLedger(b, rest[0])
		if err != nil {
			return err
		}
		return b.SetCurrent(l)
	case "add":
		return runAdd(b, pref, rest)
	case "history":
		return runHistory(b, pref, rest)
	case "report":
		period := ""
		if len(rest) > 0 {
			period = rest[0]
		}
		return runReport(b, pref, period)
	case "rename":
		if len(rest) != 2 {
			return errors.New("rename takes a name and a new name")
		}
		l, err := requireLedger(b, rest[0])
		if err != nil {
			return err
		}
		return b.Rename(l, rest[1])
	case "delete":
		if len(rest) != 1 {
			return errors.New("delete takes exactly one name")
		}
		l, err := requireLedger(b, rest[0])
		if err != nil {
			return err
		}
		return b.Delete(l)
	default:
		fmt.Print(usage)
		return errors.Errorf("unknown command %q", cmd)
	}
}

func requireLedger(b *backend.Backend, name string) (*ledger.Ledger, error) {
	l, err := b.LedgerByName(name)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, errors.Errorf("no ledger named %q", name)
	}
	return l, nil
}

func requireCurrent(b *backend.Backend) (*ledger.Ledger, error) {
	if cur := b.Current(); cur != nil {
		return cur, nil
	}
	return nil, errors.New("no ledger selected; run \"xpen use <name>\" first")
}

func runList(b *backend.Backend, pref preference.Preference) error {
	summaries, err := b.Summaries()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no ledgers yet")
		return nil
	}

	for _, s := range summaries {
		marker := " "
		if cur := b.Current(); cur != nil && cur.Name() == s.Name {
			marker = "*"
		}
		fmt.Printf("%s %-24s %s %s  %s\n",
			marker, s.Name, pref.Currency, s.Balance,
			s.LastModified.Format("02-01-2006 15:04:05"))
	}
	return nil
}

func runAdd(b *backend.Backend, pref preference.Preference, args []string) error {
	cur, err := requireCurrent(b)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("add takes an amount")
	}

	delta, err := decimal.NewFromString(args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid amount %q", args[0])
	}

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	tag := fs.String("tag", "", "record tag")
	note := fs.String("note", "", "record note")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	rec, err := cur.Append(*tag, delta, *note)
	if err != nil {
		return err
	}
	fmt.Printf("balance: %s %s\n", pref.Currency, rec.Balance)
	return nil
}

func runHistory(b *backend.Backend, pref preference.Preference, args []string) error {
	cur, err := requireCurrent(b)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	count := fs.Int("n", 10, "number of records")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cursor, err := ledger.FromLatest(cur)
	if err != nil {
		return err
	}
	for i := 0; i < *count; i++ {
		delta, err := cursor.Previous()
		if err != nil {
			return err
		}
		if delta == nil {
			break
		}

		diff := delta.Diff.String()
		if !delta.Diff.IsNegative() {
			diff = "+" + diff
		}
		tag := delta.Record.Tag
		if tag == "" {
			tag = "-"
		}
		fmt.Printf("%s  %s %-10s %-16s %s\n",
			delta.Record.Date.Format("02/01/2006 15:04"),
			pref.Currency, diff, tag, delta.Record.Note)
	}
	return nil
}

func runReport(b *backend.Backend, pref preference.Preference, period string) error {
	cur, err := requireCurrent(b)
	if err != nil {
		return err
	}

	report, err := reports.Generate(cur, period)
	if err != nil {
		return err
	}
	for _, rec := range report.Records {
		fmt.Printf("%-16s %s %s\n", rec.Tag, pref.Currency, rec.Amount)
	}
	fmt.Printf("%-16s %s %s\n", "total", pref.Currency, report.Total)
	return nil
}
