package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mairateam/calculators/internal/ppc"
	"github.com/mairateam/calculators/internal/uniteconomics"
)

// ppcFile uses pointers so a key left out of the file stays absent.
type ppcFile struct {
	Title        string   `yaml:"title"`
	Currency     string   `yaml:"currency"`
	SearchVolume *float64 `yaml:"searchVolume"`
	CTR          *float64 `yaml:"ctr"`
	CPC          *float64 `yaml:"cpc"`
	CVR          *float64 `yaml:"cvr"`
	AOV          *float64 `yaml:"aov"`
	Margin       *float64 `yaml:"margin"`
}

func (f ppcFile) inputs() ppc.Inputs {
	return ppc.Inputs{
		SearchVolume: optional(f.SearchVolume),
		CTR:          optional(f.CTR),
		CPC:          optional(f.CPC),
		CVR:          optional(f.CVR),
		AOV:          optional(f.AOV),
		Margin:       optional(f.Margin),
	}
}

func optional(v *float64) ppc.Optional {
	if v == nil {
		return ppc.None()
	}
	return ppc.Some(*v)
}

type unitEconomicsFile struct {
	Title    string `yaml:"title"`
	Currency string `yaml:"currency"`
	Inputs   uniteconomics.Inputs
}

// UnmarshalYAML reads the unit-economics keys from the same mapping as the
// title and currency. Missing keys are 0.
func (f *unitEconomicsFile) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Title                 string  `yaml:"title"`
		Currency              string  `yaml:"currency"`
		AOV                   float64 `yaml:"aov"`
		Tax                   float64 `yaml:"tax"`
		ReturnRate            float64 `yaml:"returnRate"`
		OtherCorrections      float64 `yaml:"otherCorrections"`
		GrossMargin           float64 `yaml:"grossMargin"`
		ShippingPerOrder      float64 `yaml:"shippingPerOrder"`
		HandlingPerOrder      float64 `yaml:"handlingPerOrder"`
		RepeatOrderMultiplier float64 `yaml:"repeatOrderMultiplier"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	f.Title = raw.Title
	f.Currency = raw.Currency
	f.Inputs = uniteconomics.Inputs{
		AOV:                   raw.AOV,
		Tax:                   raw.Tax,
		ReturnRate:            raw.ReturnRate,
		OtherCorrections:      raw.OtherCorrections,
		GrossMargin:           raw.GrossMargin,
		ShippingPerOrder:      raw.ShippingPerOrder,
		HandlingPerOrder:      raw.HandlingPerOrder,
		RepeatOrderMultiplier: raw.RepeatOrderMultiplier,
	}
	return nil
}

func loadPPC(path string) (ppcFile, error) {
	var f ppcFile
	if err := loadYAML(path, &f); err != nil {
		return ppcFile{}, err
	}
	return f, nil
}

func loadUnitEconomics(path string) (unitEconomicsFile, error) {
	var f unitEconomicsFile
	if err := loadYAML(path, &f); err != nil {
		return unitEconomicsFile{}, err
	}
	return f, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse inputs: %w", err)
	}
	return nil
}
