package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/trunov/catalogpix/internal/entities"
)

type fakeDirectory struct {
	products []entities.Product
	searches []string
	created  []entities.Product
}

func (f *fakeDirectory) FindByID(_ context.Context, id int64) (entities.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return entities.Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
}

func (f *fakeDirectory) Search(_ context.Context, term string) ([]entities.Product, error) {
	f.searches = append(f.searches, term)
	var out []entities.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Slug), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDirectory) Create(_ context.Context, p entities.Product) (entities.Product, error) {
	f.created = append(f.created, p)
	f.products = append(f.products, p)
	return p, nil
}

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ramo-de-Peonías", "ramo de peonias"},
		{"orquídea_blanca", "orquidea blanca"},
		{"GIRASOLES!!", "girasoles"},
		{"  tulipán  ", "tulipan"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTerm(tt.in); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirectResolve(t *testing.T) {
	dir := &fakeDirectory{products: []entities.Product{{ID: 42, Name: "Ramo Clasico"}}}
	m := &Direct{Directory: dir}

	id, err := m.Resolve(context.Background(), entities.ParsedName{Reference: "42", Sequence: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
}

func TestDirectResolveUnknownID(t *testing.T) {
	dir := &fakeDirectory{}
	m := &Direct{Directory: dir}

	_, err := m.Resolve(context.Background(), entities.ParsedName{Reference: "7", Sequence: 1})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if len(dir.created) != 0 {
		t.Fatalf("created %d stubs without AutoCreate", len(dir.created))
	}
}

func TestDirectResolveAutoCreate(t *testing.T) {
	dir := &fakeDirectory{}
	m := &Direct{Directory: dir, AutoCreate: true, StubPriceCents: 2999}

	id, err := m.Resolve(context.Background(), entities.ParsedName{Reference: "7", Sequence: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if len(dir.created) != 1 {
		t.Fatalf("created %d stubs, want 1", len(dir.created))
	}
	stub := dir.created[0]
	if stub.Name == "" || stub.PriceCents != 2999 {
		t.Errorf("stub = %+v, want generated name and configured price", stub)
	}
}

func TestDirectResolveNonNumericReference(t *testing.T) {
	m := &Direct{Directory: &fakeDirectory{}}
	_, err := m.Resolve(context.Background(), entities.ParsedName{Reference: "ramo", Sequence: 1})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestFuzzyResolveFullPhrase(t *testing.T) {
	dir := &fakeDirectory{products: []entities.Product{
		{ID: 1, Name: "Ramo de Rosas Rojas", Slug: "ramo-de-rosas-rojas"},
		{ID: 2, Name: "Girasoles", Slug: "girasoles"},
	}}
	m := &Fuzzy{Directory: dir}

	id, err := m.Resolve(context.Background(), entities.ParsedName{Reference: "Girasoles", Sequence: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != 2 {
		t.Fatalf("id = %d, want 2", id)
	}
}

func TestFuzzyResolveFallsBackToWords(t *testing.T) {
	dir := &fakeDirectory{products: []entities.Product{
		{ID: 3, Name: "Orquidea Premium", Slug: "orquidea-premium"},
	}}
	m := &Fuzzy{Directory: dir}

	// The full phrase matches nothing; the significant word "orquidea"
	// does. Short words like "de" must not be tried.
	id, err := m.Resolve(context.Background(), entities.ParsedName{Reference: "caja-de-orquídea-azul", Sequence: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != 3 {
		t.Fatalf("id = %d, want 3", id)
	}
	for _, s := range dir.searches {
		if s == "de" {
			t.Errorf("searched insignificant word %q", s)
		}
	}
}

func TestFuzzyResolveNoMatch(t *testing.T) {
	m := &Fuzzy{Directory: &fakeDirectory{}}
	_, err := m.Resolve(context.Background(), entities.ParsedName{Reference: "tulipanes", Sequence: 1})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}
