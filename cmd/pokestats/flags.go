package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/rootasjey/pokestats/internal/config"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

type StoreDriver string

var (
	_ pflag.Value = (*OutputFormat)(nil)
	_ pflag.Value = (*StoreDriver)(nil)

	allOutputFormats = []OutputFormat{OutputText, OutputJSON, OutputYAML}
	allStoreDrivers  = []StoreDriver{
		config.DriverFile,
		config.DriverMemory,
		config.DriverMySQL,
		config.DriverSQLite,
	}
)

func (o *OutputFormat) Set(val string) error {
	for _, format := range allOutputFormats {
		if val == string(format) {
			*o = format
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s", val)
}

func (o OutputFormat) String() string {
	return string(o)
}

func (o *OutputFormat) Type() string {
	return "format"
}

func (d *StoreDriver) Set(val string) error {
	for _, driver := range allStoreDrivers {
		if val == string(driver) {
			*d = driver
			return nil
		}
	}
	return fmt.Errorf("invalid store driver: %s", val)
}

func (d StoreDriver) String() string {
	return string(d)
}

func (d *StoreDriver) Type() string {
	return "driver"
}

func addOutputFlag(flags *pflag.FlagSet, output *OutputFormat) {
	*output = OutputText
	flags.VarP(output, "output", "o", fmt.Sprintf("output format. Possible values are %v", allOutputFormats))
}
