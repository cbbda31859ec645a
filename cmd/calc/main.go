package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/mairateam/calculators/internal/format"
	"github.com/mairateam/calculators/internal/ppc"
	"github.com/mairateam/calculators/internal/report"
	"github.com/mairateam/calculators/internal/scenario"
	"github.com/mairateam/calculators/internal/uniteconomics"
)

const version = "0.1.0"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type commandOptions struct {
	file     string
	currency string
	json     bool
	xlsx     string
}

type result struct {
	Inputs    any               `json:"inputs"`
	Outputs   map[string]any    `json:"outputs"`
	Currency  string            `json:"currency"`
	Formatted map[string]string `json:"formatted"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ppc":
		if err := runPPC(os.Args[2:], os.Stdout); err != nil {
			fail(err)
		}
	case "unit-economics":
		if err := runUnitEconomics(os.Args[2:], os.Stdout); err != nil {
			fail(err)
		}
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "calc - PPC projection and unit economics from the command line")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  calc ppc            -f inputs.yaml [-currency CZK] [-json] [-xlsx out.xlsx]")
	fmt.Fprintln(os.Stderr, "  calc unit-economics -f inputs.yaml [-currency CZK] [-json] [-xlsx out.xlsx]")
	fmt.Fprintln(os.Stderr, "  calc version")
}

func baseFlags(cmd string) (*flag.FlagSet, *commandOptions) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := &commandOptions{}
	fs.StringVar(&opts.file, "f", "", "path to inputs YAML")
	fs.StringVar(&opts.currency, "currency", "", "currency code (overrides the file)")
	fs.BoolVar(&opts.json, "json", false, "print JSON instead of text")
	fs.StringVar(&opts.xlsx, "xlsx", "", "also write the result as an Excel workbook")
	return fs, opts
}

func parseOptions(cmd string, args []string) (*commandOptions, error) {
	fs, opts := baseFlags(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.file) == "" {
		return nil, errors.New("-f is required")
	}
	return opts, nil
}

func runPPC(args []string, stdout io.Writer) error {
	opts, err := parseOptions("ppc", args)
	if err != nil {
		return err
	}
	doc, err := loadPPC(opts.file)
	if err != nil {
		return err
	}

	currency := pickCurrency(opts.currency, doc.Currency)
	in := doc.inputs()
	rep := report.PPC(in, ppc.Calculate(in), currency)
	if doc.Title != "" {
		rep.Title = doc.Title
	}
	if err := finiteInputs(rep); err != nil {
		return err
	}

	if opts.xlsx != "" {
		sc, err := scenario.NewPPC(rep.Title, "", currency, in)
		if err != nil {
			return err
		}
		if err := writeWorkbook(opts.xlsx, sc); err != nil {
			return err
		}
	}
	return render(stdout, opts.json, rep, result{Inputs: in, Outputs: rep.Values(), Currency: currency, Formatted: rep.Formatted()})
}

func runUnitEconomics(args []string, stdout io.Writer) error {
	opts, err := parseOptions("unit-economics", args)
	if err != nil {
		return err
	}
	doc, err := loadUnitEconomics(opts.file)
	if err != nil {
		return err
	}

	currency := pickCurrency(opts.currency, doc.Currency)
	rep := report.UnitEconomics(doc.Inputs, uniteconomics.Calculate(doc.Inputs), currency)
	if doc.Title != "" {
		rep.Title = doc.Title
	}
	if err := finiteInputs(rep); err != nil {
		return err
	}

	if opts.xlsx != "" {
		sc, err := scenario.NewUnitEconomics(rep.Title, "", currency, doc.Inputs)
		if err != nil {
			return err
		}
		if err := writeWorkbook(opts.xlsx, sc); err != nil {
			return err
		}
	}
	return render(stdout, opts.json, rep, result{Inputs: doc.Inputs, Outputs: rep.Values(), Currency: currency, Formatted: rep.Formatted()})
}

// finiteInputs rejects the YAML special values .nan and .inf.
func finiteInputs(rep report.Report) error {
	for _, l := range rep.Inputs {
		if l.Present && !l.Finite() {
			return fmt.Errorf("%s must be a number", l.Key)
		}
	}
	return nil
}

func pickCurrency(flagValue, fileValue string) string {
	for _, code := range []string{flagValue, fileValue} {
		if format.IsSupported(code) {
			return format.Normalize(code)
		}
	}
	return format.DefaultCurrency
}

func render(w io.Writer, asJSON bool, rep report.Report, res result) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "%s (%s)\n", rep.Title, rep.Currency)
	for _, l := range rep.Outputs {
		if !l.Present {
			continue
		}
		fmt.Fprintf(w, "  %-48s %s\n", l.Label, l.Display)
	}
	return nil
}

func writeWorkbook(path string, sc scenario.Scenario) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := scenario.WriteXLSX(f, sc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
