package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/adlookup/adlookup"
	"github.com/hashicorp/go-hclog"
	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

var opts struct {
	Config  string   `short:"c" long:"config" description:"Client configuration file (YAML)" required:"true"`
	Root    string   `short:"r" long:"root" description:"Search root in distinguished-name, canonical, or dotted-domain form"`
	Type    string   `short:"t" long:"type" description:"Object class to match" default:"user" choice:"user" choice:"contact" choice:"group" choice:"organizationalUnit"`
	Filter  string   `short:"f" long:"filter" description:"Explicit LDAP filter, suppresses the default filter"`
	Scope   string   `short:"s" long:"scope" description:"Search scope" default:"subtree" choice:"subtree" choice:"onelevel"`
	Attrs   []string `short:"a" long:"attr" description:"Attribute to return (repeatable, comma-delimited values accepted)"`
	Verbose bool     `short:"v" long:"verbose" description:"Log at debug level"`
	Args    struct {
		Identity string `positional-arg-name:"identity" description:"distinguished name or search term (wildcards allowed)"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	content, err := os.ReadFile(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", opts.Config, err)
	}
	var conf adlookup.ClientConfig
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", opts.Config, err)
	}
	level := hclog.Warn
	if opts.Verbose {
		level = hclog.Debug
	}
	conf.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "adlookup",
		Level:  level,
		Output: os.Stderr,
	})

	ctx := context.Background()
	client, err := adlookup.NewClient(ctx, &conf)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	lookupOpts := []adlookup.Option{
		adlookup.WithObjectClass(adlookup.ObjectClass(opts.Type)),
		adlookup.WithScope(adlookup.Scope(opts.Scope)),
	}
	if opts.Root != "" {
		lookupOpts = append(lookupOpts, adlookup.WithSearchBase(opts.Root))
	}
	if opts.Filter != "" {
		lookupOpts = append(lookupOpts, adlookup.WithFilter(opts.Filter))
	}
	if len(opts.Attrs) > 0 {
		lookupOpts = append(lookupOpts, adlookup.WithAttributes(opts.Attrs...))
	}

	records, err := client.Lookup(ctx, opts.Args.Identity, lookupOpts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
