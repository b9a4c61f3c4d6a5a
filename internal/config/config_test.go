/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InstanceRole != "" {
		t.Errorf("expected zero-value config, got %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestLoadFromParsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{
		"instance_role": "master",
		"database_ip_port": "127.0.0.1:3000",
		"database_name": "default",
		"database_path": "/var/lib/distribuito",
		"instances": [{"ip_port": "10.0.0.2:3000"}, {"ip_port": "10.0.0.3:3000"}]
	}`
	if err := os.WriteFile(path, []byte(contents), 0o640); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsMaster() {
		t.Errorf("expected master role")
	}
	if len(cfg.PeerAddresses()) != 2 {
		t.Errorf("expected 2 peer addresses, got %v", cfg.PeerAddresses())
	}
}
