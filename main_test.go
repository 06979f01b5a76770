package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/automoto/doomerang-levelgen/config"
	"github.com/automoto/doomerang-levelgen/logger"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logger.Set(nil) })
	var stdout, stderr bytes.Buffer
	err := run(append([]string{"-log-level", "error", "-profile", "default"}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestGenerateAndExport(t *testing.T) {
	dir := t.TempDir()
	tmx := filepath.Join(dir, "level.tmx")
	png := filepath.Join(dir, "level.png")
	txt := filepath.Join(dir, "level.txt")

	for _, backend := range []string{"space", "world"} {
		t.Run(backend, func(t *testing.T) {
			_, err := runCLI(t, "-seed", "cli", "-chunks", "2", "-backend", backend,
				"-out", txt, "-tmx", tmx, "-png", png, "-scale", "1")
			if err != nil {
				t.Fatal(err)
			}
			data, err := os.ReadFile(txt)
			if err != nil {
				t.Fatal(err)
			}
			rows := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
			if len(rows) != 64 || len(rows[0]) != 128 {
				t.Errorf("ascii level is %d rows of %d", len(rows), len(rows[0]))
			}
			for _, p := range []string{tmx, png} {
				if st, err := os.Stat(p); err != nil || st.Size() == 0 {
					t.Errorf("%s not written: %v", p, err)
				}
			}
		})
	}

	out, err := runCLI(t, "-validate", tmx)
	if err != nil {
		t.Fatalf("exported level failed validation: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "level\tok") {
		t.Errorf("validate output %q", out)
	}
}

func TestStdoutIsDeterministic(t *testing.T) {
	a, err := runCLI(t, "-seed", "same", "-chunks", "1", "-mode", "structures")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := runCLI(t, "-seed", "same", "-chunks", "1", "-mode", "structures")
	if a != b {
		t.Error("same seed printed different levels")
	}
}

func TestRoom(t *testing.T) {
	out, err := runCLI(t, "-room", "20x15")
	if err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(rows) != 15 || len(rows[0]) != 20 {
		t.Errorf("room is %d rows of %d", len(rows), len(rows[0]))
	}
}

func TestValidateDirectoryReportsFailures(t *testing.T) {
	dir := t.TempDir()
	walled := `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="4" height="3" tilewidth="32" tileheight="32" infinite="0" nextlayerid="4" nextobjectid="3">
 <tileset firstgid="1" name="levelgen" tilewidth="32" tileheight="32" tilecount="1" columns="1">
  <tile id="0"><properties><property name="kind" value="solid"/></properties></tile>
 </tileset>
 <layer id="1" name="wg-tiles" width="4" height="3">
  <data encoding="csv">
0,1,0,0,
0,1,0,0,
1,1,1,1
</data>
 </layer>
 <objectgroup id="2" name="PlayerSpawn"><object id="1" x="16" y="32"><point/></object></objectgroup>
 <objectgroup id="3" name="FinishLine"><object id="2" x="112" y="32"><point/></object></objectgroup>
</map>
`
	if err := os.WriteFile(filepath.Join(dir, "walled.tmx"), []byte(walled), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "-validate", dir)
	if !errors.Is(err, errUntraversable) {
		t.Fatalf("error = %v, want errUntraversable", err)
	}
	if !strings.Contains(out, "walled\tUNTRAVERSABLE") {
		t.Errorf("validate output %q", out)
	}
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levelgen.yaml")
	if _, err := runCLI(t, "-seed", "dumped", "-profile", "floaty", "-write-config", path); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload written config: %v", err)
	}
	if cfg.Generation.Seed != "dumped" {
		t.Errorf("seed = %q", cfg.Generation.Seed)
	}
	p, err := cfg.Profile.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if p.RunSpeed != 260 || p.Gravity != 380 {
		t.Errorf("profile not carried into written config: %+v", p)
	}
}

func TestBadFlags(t *testing.T) {
	tests := [][]string{
		{"-backend", "gpu"},
		{"-chunks", "0"},
		{"-mode", "caves"},
		{"-room", "wide"},
	}
	for _, args := range tests {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v accepted", args)
		}
	}
}
