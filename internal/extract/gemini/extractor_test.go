package gemini

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestExtractorExtractSkills(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"skills\": [\"Python\", \" sql \", \"\", \"machine learning\"]}\n```"}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	skills, err := extractor.ExtractSkills(context.Background(), "  Five years of Python and SQL.  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Python", "sql", "machine learning"}
	if !reflect.DeepEqual(skills, want) {
		t.Fatalf("unexpected skills: %v", skills)
	}

	if stub.lastMessage != "Five years of Python and SQL." {
		t.Fatalf("unexpected message: %q", stub.lastMessage)
	}
	if stub.lastSystem != systemPrompt || systemPrompt == "" {
		t.Fatalf("expected embedded system prompt to be sent")
	}
}

func TestExtractorRejectsEmptyText(t *testing.T) {
	stub := &stubGenerator{}
	extractor := NewExtractor(stub, nil, 0)

	if _, err := extractor.ExtractSkills(context.Background(), " \n "); err == nil {
		t.Fatal("expected error for empty text")
	}
	if stub.lastMessage != "" {
		t.Fatal("generator must not be called for empty text")
	}
}

func TestExtractorPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	extractor := NewExtractor(&stubGenerator{err: boom}, zap.NewNop(), 0)

	if _, err := extractor.ExtractSkills(context.Background(), "text"); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestExtractorLogsProviderFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	extractor := NewExtractor(&stubGenerator{response: `["go"]`}, zap.New(core), 10)

	if _, err := extractor.ExtractSkills(context.Background(), "a very long resume text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("gemini skill extraction request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["extract_provider"] != Provider || fields["extract_model"] != "stub-model" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["text_preview"] != "a very lon..." {
		t.Fatalf("unexpected preview: %v", fields["text_preview"])
	}
}

func TestParseSkills(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "array", raw: `["go", "docker"]`, want: []string{"go", "docker"}},
		{name: "object", raw: `{"skills": ["aws"]}`, want: []string{"aws"}},
		{name: "named objects", raw: `{"skills": [{"name": "linux"}, {"name": ""}]}`, want: []string{"linux"}},
		{name: "empty array", raw: `[]`, want: []string{}},
		{name: "non-string items", raw: `["go", 3, null, true]`, want: []string{"go", "3", "true"}},
		{name: "missing key", raw: `{"items": []}`, wantErr: true},
		{name: "scalar", raw: `"go"`, wantErr: true},
		{name: "not json", raw: `python, sql`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseSkills(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected skills: %v", got)
			}
		})
	}
}
