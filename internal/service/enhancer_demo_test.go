package service

import (
	"context"
	"strings"
	"testing"

	"prompt-polish/internal/domain"
)

func TestDemoEnhancer_StreamsAllSections(t *testing.T) {
	e := NewDemoEnhancer(0, &MockServiceLogger{})

	chunks, err := e.EnhanceStream(context.Background(), domain.EnhanceRequest{Prompt: "help me", Mode: "Reasoning"})
	if err != nil {
		t.Fatalf("EnhanceStream failed: %v", err)
	}

	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			t.Fatalf("unexpected stream error: %v", chunk.Err)
		}
		sb.WriteString(chunk.Text)
	}

	full := sb.String()
	if full != demoResponse {
		t.Fatal("expected reassembled stream to equal the canned response")
	}

	seg := domain.Segment(full)
	if seg.Scores.Clarity != 45 {
		t.Fatalf("expected clarity 45, got %d", seg.Scores.Clarity)
	}
	for _, tag := range []string{domain.TagWeaknesses, domain.TagImprovements, domain.TagVersionA, domain.TagVersionB, domain.TagVersionC} {
		if domain.Section(full, tag) == "" {
			t.Fatalf("expected section %s to be present", tag)
		}
	}
}

func TestDemoEnhancer_CancellationStopsStream(t *testing.T) {
	e := NewDemoEnhancer(0, &MockServiceLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	chunks, err := e.EnhanceStream(ctx, domain.EnhanceRequest{Prompt: "help me"})
	if err != nil {
		t.Fatalf("EnhanceStream failed: %v", err)
	}

	<-chunks
	cancel()

	// Drain; channel must close rather than block forever.
	for range chunks {
	}
}

func TestSystemInstruction_EmbedsMode(t *testing.T) {
	got := SystemInstruction("Creative")
	if !strings.Contains(got, `"Creative" optimization strategy`) {
		t.Fatalf("expected mode embedded in instruction, got %q", got)
	}

	def := SystemInstruction("")
	if !strings.Contains(def, `"Reasoning" optimization strategy`) {
		t.Fatal("expected empty mode to default to Reasoning")
	}
	for _, tag := range []string{"[ANALYSIS]", "[WEAKNESSES]", "[IMPROVEMENTS]", "[VERSION_A]", "[VERSION_B]", "[VERSION_C]"} {
		if !strings.Contains(def, tag) {
			t.Fatalf("expected instruction to require %s section", tag)
		}
	}
}
