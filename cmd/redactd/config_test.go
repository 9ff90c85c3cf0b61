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

import "testing"

func TestParseFlagsEnv(t *testing.T) {
	t.Setenv("REDACT_PORT", "9000")
	t.Setenv("REDACT_CATALOG", "masks.json")
	t.Setenv("REDACT_DOCS", "docs")
	t.Setenv("REDACT_TIME_LIMIT", "45")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	want := Config{Port: 9000, Catalog: "masks.json", Docs: "docs", Width: 1024, Height: 768, TimeLimit: 45}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestParseFlagsOverridesEnv(t *testing.T) {
	t.Setenv("REDACT_PORT", "9000")
	t.Setenv("REDACT_CATALOG", "env.json")

	cfg, err := ParseFlags([]string{"-p", "8080", "-c", "cli.json", "-connected", "-width", "640", "-height", "480"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || cfg.Catalog != "cli.json" || !cfg.Connected {
		t.Errorf("command line must override the environment: %+v", cfg)
	}
	if cfg.Docs != "." || cfg.Width != 640 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	t.Setenv("REDACT_CATALOG", "")
	t.Setenv("REDACT_PORT", "")
	if _, err := ParseFlags(nil); err == nil {
		t.Error("missing catalog accepted")
	}

	t.Setenv("REDACT_CATALOG", "masks.json")
	t.Setenv("REDACT_PORT", "http")
	if _, err := ParseFlags(nil); err == nil {
		t.Error("invalid port accepted")
	}

	t.Setenv("REDACT_PORT", "")
	if _, err := ParseFlags([]string{"-t", "-3"}); err == nil {
		t.Error("negative time limit accepted")
	}
}
