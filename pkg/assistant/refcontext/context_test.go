package refcontext

import (
	"encoding/json"
	"testing"
)

func TestUpdateSetsAllTerms(t *testing.T) {
	ref := FileRef{Id: 42, Name: "report.pdf", Type: "document"}
	ctx := Update(Context{}, ref)

	for _, term := range Terms {
		got, ok := AsFileRef(ctx[term])
		if !ok {
			t.Fatalf("term %q not resolvable", term)
		}
		if got.Id != 42 || got.Name != "report.pdf" {
			t.Errorf("term %q = %+v, want id 42 report.pdf", term, got)
		}
	}
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	orig := Context{"this": FileRef{Id: 1, Name: "a.txt"}}
	_ = Update(orig, FileRef{Id: 2, Name: "b.txt"})

	got, _ := AsFileRef(orig["this"])
	if got.Id != 1 {
		t.Errorf("input context mutated: this = %+v", got)
	}
}

func TestUpdateOverwritesPreviousBinding(t *testing.T) {
	ctx := Update(Context{}, FileRef{Id: 1, Name: "old.pdf"})
	ctx = Update(ctx, FileRef{Id: 2, Name: "new.pdf"})

	got, _ := AsFileRef(ctx["it"])
	if got.Id != 2 {
		t.Errorf("it = %+v, want id 2", got)
	}
}

func TestSeed(t *testing.T) {
	tests := []struct {
		name    string
		history []Context
		wantId  int64
		empty   bool
	}{
		{
			name:    "latest non-empty wins",
			history: []Context{{}, {"this": FileRef{Id: 7}}, {"this": FileRef{Id: 3}}},
			wantId:  7,
		},
		{
			name:    "all empty yields empty context",
			history: []Context{{}, {}},
			empty:   true,
		},
		{
			name:  "no history yields empty context",
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Seed(tt.history)
			if tt.empty {
				if len(got) != 0 {
					t.Errorf("Seed() = %v, want empty", got)
				}
				return
			}
			ref, ok := AsFileRef(got["this"])
			if !ok || ref.Id != tt.wantId {
				t.Errorf("Seed()[this] = %+v, want id %d", ref, tt.wantId)
			}
		})
	}
}

func TestSeedUnionMergesNewestOverOldest(t *testing.T) {
	history := []Context{
		{"this": FileRef{Id: 9}},                          // newest
		{"this": FileRef{Id: 1}, "1": FileRef{Id: 5}},     // older
		{"the document": FileRef{Id: 2}},                  // oldest
	}

	got := SeedWithStrategy(history, "union")

	if ref, _ := AsFileRef(got["this"]); ref.Id != 9 {
		t.Errorf("this = %+v, want newest id 9", ref)
	}
	if ref, _ := AsFileRef(got["1"]); ref.Id != 5 {
		t.Errorf("1 = %+v, want id 5 carried from older turn", ref)
	}
	if ref, _ := AsFileRef(got["the document"]); ref.Id != 2 {
		t.Errorf("the document = %+v, want id 2", ref)
	}
}

func TestAsFileRefAfterJSONRoundTrip(t *testing.T) {
	ctx := Update(Context{}, FileRef{Id: 42, Name: "report.pdf", Type: "document"})

	raw, err := json.Marshal(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var restored Context
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatal(err)
	}

	got, ok := AsFileRef(restored["that file"])
	if !ok {
		t.Fatal("restored value not resolvable")
	}
	if got.Id != 42 || got.Name != "report.pdf" || got.Type != "document" {
		t.Errorf("restored ref = %+v", got)
	}
}

func TestAsFileRefVariants(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		wantId int64
		wantOk bool
	}{
		{"map with float64 id", map[string]interface{}{"id": float64(7), "name": "x.pdf"}, 7, true},
		{"map with string id", map[string]interface{}{"id": "12"}, 12, true},
		{"list takes first resolvable", []interface{}{map[string]interface{}{"id": float64(3)}}, 3, true},
		{"empty list", []interface{}{}, 0, false},
		{"plain string", "notes.txt", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsFileRef(tt.value)
			if ok != tt.wantOk || got.Id != tt.wantId {
				t.Errorf("AsFileRef(%v) = %+v, %v; want id %d, %v", tt.value, got, ok, tt.wantId, tt.wantOk)
			}
		})
	}
}
