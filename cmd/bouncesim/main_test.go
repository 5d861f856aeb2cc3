package main

import (
	"errors"
	"testing"

	"github.com/san-kum/bouncesim/internal/storage"
)

func TestParseParam(t *testing.T) {
	tests := []struct {
		spec    string
		name    string
		values  []float64
		wantErr bool
	}{
		{"slop=0.25,0.5", "slop", []float64{0.25, 0.5}, false},
		{"iterations= 1, 2 ,4", "iterations", []float64{1, 2, 4}, false},
		{"slop", "", nil, true},
		{"=1,2", "", nil, true},
		{"slop=", "", nil, true},
		{"slop=a,1", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			name, values, err := parseParam(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.name || len(values) != len(tt.values) {
				t.Fatalf("got %s %v", name, values)
			}
			for i := range values {
				if values[i] != tt.values[i] {
					t.Errorf("value %d = %v, want %v", i, values[i], tt.values[i])
				}
			}
		})
	}
}

func TestResolveRunID(t *testing.T) {
	st := storage.New(t.TempDir())
	if _, err := resolveRunID(st, nil); !errors.Is(err, storage.ErrNoRuns) {
		t.Fatalf("empty store: err = %v, want ErrNoRuns", err)
	}

	if _, err := st.Save(storage.RunMetadata{Preset: "default"}, nil); err != nil {
		t.Fatal(err)
	}
	latest, err := st.Save(storage.RunMetadata{Preset: "crowd"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := resolveRunID(st, nil)
	if err != nil || got != latest {
		t.Errorf("no args: got %q, %v; want %q", got, err, latest)
	}
	got, err = resolveRunID(st, []string{"pinball_1"})
	if err != nil || got != "pinball_1" {
		t.Errorf("explicit id: got %q, %v", got, err)
	}
}
