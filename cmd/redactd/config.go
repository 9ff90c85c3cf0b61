// seehuhn.de/go/redact - a document redaction game engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Config holds the settings of the redaction server.
type Config struct {
	Port      int
	Catalog   string  // path of the mask catalog
	Docs      string  // directory holding the document images
	Width     int     // canvas width in pixels
	Height    int     // canvas height in pixels
	TimeLimit float64 // seconds per round
	Connected bool    // paint between consecutive pointer positions
}

// ParseFlags reads the configuration from the command line. Settings not
// given on the command line are taken from the environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("redactd", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "server port (env REDACT_PORT)")
	fs.StringVar(&cfg.Catalog, "c", "", "mask catalog JSON file (env REDACT_CATALOG)")
	fs.StringVar(&cfg.Docs, "d", "", "document image directory (env REDACT_DOCS)")
	fs.IntVar(&cfg.Width, "width", 1024, "canvas width")
	fs.IntVar(&cfg.Height, "height", 768, "canvas height")
	fs.Float64Var(&cfg.TimeLimit, "t", 0, "seconds per round (env REDACT_TIME_LIMIT)")
	fs.BoolVar(&cfg.Connected, "connected", false, "paint between consecutive pointer positions")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("REDACT_PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid REDACT_PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3319
		}
	}

	if cfg.Catalog == "" {
		cfg.Catalog = os.Getenv("REDACT_CATALOG")
	}
	if cfg.Catalog == "" {
		return Config{}, errors.New("mask catalog required (use -c or REDACT_CATALOG env)")
	}

	if cfg.Docs == "" {
		cfg.Docs = os.Getenv("REDACT_DOCS")
	}
	if cfg.Docs == "" {
		cfg.Docs = "."
	}

	if cfg.TimeLimit == 0 {
		if s := os.Getenv("REDACT_TIME_LIMIT"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Config{}, errors.New("invalid REDACT_TIME_LIMIT env variable")
			}
			cfg.TimeLimit = v
		}
	}
	if cfg.TimeLimit < 0 {
		return Config{}, fmt.Errorf("invalid time limit %g", cfg.TimeLimit)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("invalid canvas size %dx%d", cfg.Width, cfg.Height)
	}

	return cfg, nil
}
