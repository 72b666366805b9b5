package ports

import (
	"errors"
	"testing"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

func testShape() *Shape {
	return &Shape{Fields: []ShapeField{
		{Name: "target", Type: FieldString, Required: true, Enum: []string{"logs", "people", "courses"}},
		{Name: "keyword", Type: FieldString},
		{Name: "limit", Type: FieldNumber, Default: float64(20)},
		{Name: "issues_only", Type: FieldBool},
		{Name: "tags", Type: FieldStringList},
	}}
}

func TestShapeParseValid(t *testing.T) {
	out, err := testShape().Parse(`{"target":"logs","keyword":"fungus","limit":5,"issues_only":true,"tags":["turf","urgent"]}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out["target"] != "logs" || out["keyword"] != "fungus" {
		t.Fatalf("string fields: %v", out)
	}
	if out["limit"] != float64(5) || out["issues_only"] != true {
		t.Fatalf("scalar fields: %v", out)
	}
	tags, ok := out["tags"].([]string)
	if !ok || len(tags) != 2 || tags[0] != "turf" {
		t.Fatalf("tags: %v", out["tags"])
	}
}

func TestShapeParseStripsCodeFences(t *testing.T) {
	out, err := testShape().Parse("```json\n{\"target\":\"people\"}\n```")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out["target"] != "people" {
		t.Fatalf("fenced body not parsed: %v", out)
	}
}

func TestShapeParseOptionalDefaults(t *testing.T) {
	out, err := testShape().Parse(`{"target":"courses"}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out["keyword"] != "" {
		t.Fatalf("string default: %v", out["keyword"])
	}
	if out["limit"] != float64(20) {
		t.Fatalf("declared default ignored: %v", out["limit"])
	}
	if out["issues_only"] != false {
		t.Fatalf("bool default: %v", out["issues_only"])
	}
	if tags, ok := out["tags"].([]string); !ok || len(tags) != 0 {
		t.Fatalf("list default: %v", out["tags"])
	}
}

func TestShapeParseMissingRequired(t *testing.T) {
	_, err := testShape().Parse(`{"keyword":"fungus"}`)
	if !errors.Is(err, domain.ErrBadAIResponse) {
		t.Fatalf("want ErrBadAIResponse, got %v", err)
	}
}

func TestShapeParseEnumViolation(t *testing.T) {
	_, err := testShape().Parse(`{"target":"invoices"}`)
	if !errors.Is(err, domain.ErrBadAIResponse) {
		t.Fatalf("want ErrBadAIResponse, got %v", err)
	}
}

func TestShapeParseTypeMismatch(t *testing.T) {
	_, err := testShape().Parse(`{"target":"logs","limit":"twenty"}`)
	if !errors.Is(err, domain.ErrBadAIResponse) {
		t.Fatalf("want ErrBadAIResponse, got %v", err)
	}
}

func TestShapeParseUnparseableBody(t *testing.T) {
	_, err := testShape().Parse("I could not find anything relevant.")
	if !errors.Is(err, domain.ErrBadAIResponse) {
		t.Fatalf("want ErrBadAIResponse, got %v", err)
	}
}

func TestShapeParseNullTreatedAsMissing(t *testing.T) {
	out, err := testShape().Parse(`{"target":"logs","keyword":null}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out["keyword"] != "" {
		t.Fatalf("null should fall back to default: %v", out["keyword"])
	}
}
