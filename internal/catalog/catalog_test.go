package catalog

import (
	"strings"
	"testing"
)

func mustBuiltin(t *testing.T) *Catalog {
	t.Helper()
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	return c
}

func TestBuiltin_Categories(t *testing.T) {
	c := mustBuiltin(t)
	cats := c.Categories()
	if len(cats) != 19 {
		t.Fatalf("got %d categories, want 19", len(cats))
	}
	want := []string{"Volume Control", "Monitor Control", "System Control", "Window Management", "App Groups"}
	for i, name := range want {
		if cats[i].Name != name {
			t.Errorf("category %d = %q, want %q", i, cats[i].Name, name)
		}
	}
	for _, cat := range cats {
		if len(cat.Commands) == 0 {
			t.Errorf("category %q has no commands", cat.Name)
		}
		for _, cmd := range cat.Commands {
			if cmd.Category != cat.Name {
				t.Errorf("command %q category = %q, want %q", cmd.Name, cmd.Category, cat.Name)
			}
		}
	}
}

func TestFind(t *testing.T) {
	c := mustBuiltin(t)

	cmd, ok := c.Find("win hide")
	if !ok {
		t.Fatal("win hide not found")
	}
	if cmd.Category != "Window Management" {
		t.Errorf("category = %q", cmd.Category)
	}
	if len(cmd.Parameters) != 2 || cmd.Parameters[0].Type != ParamChoice || !cmd.Parameters[0].Required {
		t.Errorf("unexpected parameters: %+v", cmd.Parameters)
	}

	if _, ok := c.Find("WIN HIDE"); ok {
		t.Error("Find should be exact")
	}
	if _, ok := c.Find("nosuchcommand"); ok {
		t.Error("unexpected match")
	}
}

func TestSearch(t *testing.T) {
	c := mustBuiltin(t)

	results := c.Search("VOLUME")
	if len(results) == 0 {
		t.Fatal("expected volume commands")
	}
	for _, r := range results {
		if !strings.Contains(strings.ToLower(r.Name), "volume") && !strings.Contains(strings.ToLower(r.Description), "volume") {
			t.Errorf("%q does not mention volume", r.Name)
		}
	}

	if got := c.Search("   "); len(got) != 0 {
		t.Errorf("blank query returned %d results", len(got))
	}
	if got := c.Search("zzzz-nothing"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestResolveAndValidate(t *testing.T) {
	c := mustBuiltin(t)

	cmd, rest, ok := c.Resolve([]string{"win", "hide", "process", "Code.exe"})
	if !ok || cmd.Name != "win hide" {
		t.Fatalf("Resolve = %q, %v", cmd.Name, ok)
	}
	if len(rest) != 2 || rest[0] != "process" {
		t.Errorf("rest = %q", rest)
	}
	if err := cmd.Validate(rest); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := cmd.Validate([]string{"window", "x"}); err == nil {
		t.Error("expected choice error")
	}
	if err := cmd.Validate([]string{"title"}); err == nil {
		t.Error("expected missing argument error")
	}

	if _, _, ok := c.Resolve([]string{"frobnicate"}); ok {
		t.Error("unexpected resolve")
	}
}

func TestParse_Errors(t *testing.T) {
	bad := []string{
		"categories: [",
		"categories:\n  - name: A\n    commands:\n      - name: x\n        parameters:\n          - name: p\n            type: widget\n",
		"categories:\n  - name: A\n    commands:\n      - name: x\n      - name: x\n",
	}
	for _, doc := range bad {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for document:\n%s", doc)
		}
	}
}

func TestParse_RequiredDefaultsTrue(t *testing.T) {
	doc := "categories:\n  - name: A\n    commands:\n      - name: x\n        parameters:\n          - name: p\n          - name: q\n            required: false\n"
	c, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	cmd, _ := c.Find("x")
	if !cmd.Parameters[0].Required || cmd.Parameters[1].Required {
		t.Errorf("parameters = %+v", cmd.Parameters)
	}
	if cmd.Parameters[0].Type != ParamString {
		t.Errorf("default type = %q", cmd.Parameters[0].Type)
	}
}
