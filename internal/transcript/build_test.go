package transcript

import (
	"reflect"
	"testing"

	"github.com/parleyhq/parley/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func userMsg(content string) models.Message {
	return models.Message{Content: content, SenderUserID: uintPtr(1)}
}

func botMsg(content, blob string) models.Message {
	return models.Message{Content: content, SenderBotID: uintPtr(1), BotTranscript: blob}
}

func TestBuild_SystemPromptLeads(t *testing.T) {
	got := Build(nil, userMsg("hi"), "You are helpful.")
	want := []Entry{System("You are helpful."), User("hi")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %v, want %v", got, want)
	}
}

func TestBuild_NoSystemPrompt(t *testing.T) {
	got := Build(nil, userMsg("hi"), "")
	if len(got) != 1 || got[0].Kind != KindUser {
		t.Errorf("Build = %v, want single user entry", got)
	}
}

func TestBuild_OrderPreserved(t *testing.T) {
	prior := []models.Message{userMsg("m1"), userMsg("m2"), userMsg("m3")}
	got := Build(prior, userMsg("m4"), "")

	want := []Entry{User("m1"), User("m2"), User("m3"), User("m4")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %v, want %v", got, want)
	}
}

func TestBuild_SplicesStoredHistoryInPlace(t *testing.T) {
	blob, err := Encode([]Entry{User("earlier question"), Assistant("earlier answer")})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	prior := []models.Message{
		userMsg("m1"),
		botMsg("earlier answer", blob),
		userMsg("m3"),
	}
	got := Build(prior, userMsg("m4"), "sys")

	want := []Entry{
		System("sys"),
		User("m1"),
		User("earlier question"),
		Assistant("earlier answer"),
		User("m3"),
		User("m4"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %v, want %v", got, want)
	}
}

func TestBuild_BotMessageWithoutBlob(t *testing.T) {
	prior := []models.Message{botMsg("a bot reply", "")}
	got := Build(prior, userMsg("next"), "")

	want := []Entry{Assistant("a bot reply"), User("next")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %v, want %v", got, want)
	}
}

func TestBuild_CorruptBlobFallsBackToContent(t *testing.T) {
	prior := []models.Message{botMsg("salvaged reply", "{not json")}
	got := Build(prior, userMsg("next"), "")

	want := []Entry{Assistant("salvaged reply"), User("next")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %v, want %v", got, want)
	}
}
