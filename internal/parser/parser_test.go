package parser

import (
	"errors"
	"testing"
)

func TestOccasionStrategy(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantTag  string
		wantRef  string
		wantSeq  int
		wantErr  bool
	}{
		{"basic", "boda.ramo-de-rosas.1.jpg", "boda", "ramo-de-rosas", 1, false},
		{"multi digit sequence", "cumpleanos.girasoles.12.png", "cumpleanos", "girasoles", 12, false},
		{"webp extension", "aniversario.orquidea-blanca.3.webp", "aniversario", "orquidea-blanca", 3, false},
		{"missing sequence", "boda.ramo.jpg", "", "", 0, true},
		{"too many segments", "a.b.c.1.jpg", "", "", 0, true},
		{"zero sequence", "boda.ramo.0.jpg", "", "", 0, true},
		{"non numeric sequence", "boda.ramo.uno.jpg", "", "", 0, true},
		{"empty tag", ".ramo.1.jpg", "", "", 0, true},
	}

	var s OccasionStrategy
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Parse(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparsable) {
					t.Fatalf("Parse(%q) err = %v, want ErrUnparsable", tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.filename, err)
			}
			if got.Tag != tt.wantTag || got.Reference != tt.wantRef || got.Sequence != tt.wantSeq {
				t.Errorf("Parse(%q) = %+v, want tag=%q ref=%q seq=%d", tt.filename, got, tt.wantTag, tt.wantRef, tt.wantSeq)
			}
		})
	}
}

func TestProductTokenStrategy(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantRef  string
		wantSeq  int
		wantErr  bool
	}{
		{"basic", "product_42_1.jpg", "42", 1, false},
		{"with hash suffix", "product_42_2_a1b2c3d4e5f6.webp", "42", 2, false},
		{"large id", "product_900117_3.jpeg", "900117", 3, false},
		{"missing prefix", "42_1.jpg", "", 0, true},
		{"non numeric reference", "product_ramo_1.jpg", "", 0, true},
		{"zero sequence", "product_42_0.jpg", "", 0, true},
		{"uppercase hash rejected", "product_42_1_A1B2.jpg", "", 0, true},
	}

	var s ProductTokenStrategy
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Parse(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparsable) {
					t.Fatalf("Parse(%q) err = %v, want ErrUnparsable", tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.filename, err)
			}
			if got.Reference != tt.wantRef || got.Sequence != tt.wantSeq {
				t.Errorf("Parse(%q) = %+v, want ref=%q seq=%d", tt.filename, got, tt.wantRef, tt.wantSeq)
			}
			if got.Tag != "" {
				t.Errorf("Parse(%q) tag = %q, want empty", tt.filename, got.Tag)
			}
		})
	}
}
