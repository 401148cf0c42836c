package envelope

import "testing"

func TestTextBuildsSingleTextPart(t *testing.T) {
	e := Text("hello")
	if len(e.Content) != 1 || e.Content[0].Type != "text" || e.Content[0].Text != "hello" {
		t.Fatalf("e = %+v", e)
	}
}

func TestJSONBuildsSingleJSONPart(t *testing.T) {
	e := JSON([]int{1, 2, 3})
	if len(e.Content) != 1 || e.Content[0].Type != "json" {
		t.Fatalf("e = %+v", e)
	}
	data, ok := e.Content[0].Data.([]int)
	if !ok || len(data) != 3 {
		t.Fatalf("Data = %v", e.Content[0].Data)
	}
}

func TestWithWarningsOmittedWhenEmpty(t *testing.T) {
	e := Text("hi").WithWarnings()
	if e.Warnings != nil {
		t.Fatalf("Warnings = %v, want nil for a no-arg call", e.Warnings)
	}
}

func TestWithWarningsSetWhenGiven(t *testing.T) {
	e := Text("hi").WithWarnings("stale cache")
	if len(e.Warnings) != 1 || e.Warnings[0] != "stale cache" {
		t.Fatalf("Warnings = %v", e.Warnings)
	}
}

func TestWithMetadataDoesNotMutateOriginal(t *testing.T) {
	base := Text("hi")
	withMD := base.WithMetadata(map[string]any{"k": "v"})
	if base.Metadata != nil {
		t.Fatalf("base.Metadata = %v, want nil (WithMetadata should return a copy)", base.Metadata)
	}
	if withMD.Metadata["k"] != "v" {
		t.Fatalf("withMD.Metadata = %v", withMD.Metadata)
	}
}
