package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arlunn/munin/internal/llm"
	"github.com/arlunn/munin/internal/models"
	"github.com/arlunn/munin/internal/settings"
	"github.com/arlunn/munin/internal/vault"
)

// fakeClient scripts LLM replies per call.
type fakeClient struct {
	replies []string
	err     error
	calls   int
	lastMsg []llm.Message
}

func (f *fakeClient) Complete(_ context.Context, _ string, messages []llm.Message) (string, error) {
	f.lastMsg = messages
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.replies) {
		return "", errors.New("no more scripted replies")
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

func testService(t *testing.T, client llm.Client) (*Service, *vault.Vault) {
	t.Helper()
	dir := t.TempDir()
	v, err := vault.New(dir)
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	st, err := settings.Open(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(v, client, st, logger), v
}

func mkfile(t *testing.T, v *vault.Vault, rel, content string) {
	t.Helper()
	abs := filepath.Join(v.Root(), rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExecute_Search(t *testing.T) {
	s, v := testService(t, &fakeClient{})
	mkfile(t, v, "a.md", "sorting details")
	mkfile(t, v, "b.md", "other stuff")

	got := s.Execute(context.Background(), models.Command{Action: models.ActionSearch, Keyword: "sorting"})
	want := "I found matches in these files:\n- a.md"
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestExecute_SearchNoMatches(t *testing.T) {
	s, _ := testService(t, &fakeClient{})
	got := s.Execute(context.Background(), models.Command{Action: models.ActionSearch, Keyword: "absent"})
	if got != "No matches found for your search." {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_Read(t *testing.T) {
	s, v := testService(t, &fakeClient{})
	mkfile(t, v, "todo.md", "# To-Do List\n\n- [ ] test")

	got := s.Execute(context.Background(), models.Command{Action: models.ActionRead, Filename: "todo.md"})
	if !strings.HasPrefix(got, "Here's the content of todo.md:") {
		t.Errorf("reply = %q", got)
	}
	if !strings.Contains(got, "- [ ] test") {
		t.Errorf("reply missing file content: %q", got)
	}
}

func TestExecute_ReadMissingListsFiles(t *testing.T) {
	s, v := testService(t, &fakeClient{})
	mkfile(t, v, "exists.md", "x")

	got := s.Execute(context.Background(), models.Command{Action: models.ActionRead, Filename: "ghost.md"})
	if !strings.HasPrefix(got, "I couldn't find ghost.md in your vault.") {
		t.Errorf("reply = %q", got)
	}
	if !strings.Contains(got, "exists.md") {
		t.Errorf("reply should suggest available files: %q", got)
	}
}

func TestExecute_Write(t *testing.T) {
	s, v := testService(t, &fakeClient{})

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionWrite, Filename: "plan.md", Content: "new plan",
	})
	if got != "I've updated plan.md with your new content." {
		t.Errorf("reply = %q", got)
	}
	data, err := v.Read("plan.md")
	if err != nil || string(data) != "new plan" {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestExecute_WriteFallsBackToRoot(t *testing.T) {
	s, v := testService(t, &fakeClient{})

	s.Execute(context.Background(), models.Command{
		Action: models.ActionWrite, Filename: "missing-folder/plan.md", Content: "x",
	})
	if _, err := v.Read("plan.md"); err != nil {
		t.Errorf("expected fallback write at root: %v", err)
	}
}

func TestExecute_Append(t *testing.T) {
	s, v := testService(t, &fakeClient{})
	mkfile(t, v, "log.md", "start")

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionAppend, Filename: "log.md", Content: "more",
	})
	if got != "I've appended your content to log.md." {
		t.Errorf("reply = %q", got)
	}
	data, _ := v.Read("log.md")
	if string(data) != "start\nmore" {
		t.Errorf("file = %q", data)
	}
}

func TestExecute_Create(t *testing.T) {
	s, v := testService(t, &fakeClient{})

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionCreate, Filename: "fresh.md", Content: "hello",
	})
	if got != "I've created fresh.md with your content." {
		t.Errorf("reply = %q", got)
	}
	data, _ := v.Read("fresh.md")
	if string(data) != "hello" {
		t.Errorf("file = %q", data)
	}
}

func TestExecute_CreateExisting(t *testing.T) {
	s, v := testService(t, &fakeClient{})
	mkfile(t, v, "fresh.md", "old")

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionCreate, Filename: "fresh.md", Content: "new",
	})
	if got != "The file fresh.md already exists. Use 'write' to update it instead." {
		t.Errorf("reply = %q", got)
	}
	data, _ := v.Read("fresh.md")
	if string(data) != "old" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

func TestExecute_Assignment(t *testing.T) {
	s, v := testService(t, &fakeClient{})

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionAssignment, Assignment: "finish homework",
	})
	if got != `I've added "finish homework" to your to-do list.` {
		t.Errorf("reply = %q", got)
	}
	data, err := v.Read("todo.md")
	if err != nil {
		t.Fatalf("todo.md missing: %v", err)
	}
	want := "# To-Do List\n\n\n- [ ] finish homework"
	if string(data) != want {
		t.Errorf("todo.md = %q, want %q", data, want)
	}
}

func TestExecute_AssignmentAppendsToExisting(t *testing.T) {
	s, v := testService(t, &fakeClient{})
	mkfile(t, v, "todo.md", "# To-Do List\n\n- [ ] first")

	s.Execute(context.Background(), models.Command{
		Action: models.ActionAssignment, Assignment: "second",
	})
	data, _ := v.Read("todo.md")
	if string(data) != "# To-Do List\n\n- [ ] first\n- [ ] second" {
		t.Errorf("todo.md = %q", data)
	}
}

func TestExecute_GenerateNoteSaved(t *testing.T) {
	client := &fakeClient{replies: []string{"# 8.2 Selection Sort\n\nGenerated notes."}}
	s, v := testService(t, client)
	if err := os.MkdirAll(filepath.Join(v.Root(), "Algorithms"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := s.Execute(context.Background(), models.Command{
		Action:    models.ActionGenerateNote,
		Source:    "selection sort material",
		NoteTitle: "8.2 Selection Sort",
		Location:  "Algorithms",
	})
	if !strings.Contains(got, "Note saved as Algorithms/8.2 Selection Sort.md.") {
		t.Errorf("reply = %q", got)
	}
	data, err := v.Read("Algorithms/8.2 Selection Sort.md")
	if err != nil || !strings.Contains(string(data), "Generated notes.") {
		t.Errorf("note = %q, %v", data, err)
	}
}

func TestExecute_GenerateNoteNoLocation(t *testing.T) {
	client := &fakeClient{replies: []string{"# Generated\n\nBody."}}
	s, v := testService(t, client)

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionGenerateNote,
		Source: "material",
	})
	if got != "# Generated\n\nBody." {
		t.Errorf("reply = %q", got)
	}
	entries, _ := os.ReadDir(v.Root())
	if len(entries) != 0 {
		t.Errorf("vault should be untouched, has %d entries", len(entries))
	}
}

func TestExecute_GenerateNoteFolderMissing(t *testing.T) {
	client := &fakeClient{replies: []string{"content"}}
	s, _ := testService(t, client)

	got := s.Execute(context.Background(), models.Command{
		Action:    models.ActionGenerateNote,
		Source:    "material",
		NoteTitle: "Note",
		Location:  "nowhere",
	})
	if got != "Folder 'nowhere' not found in vault." {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_GenerateNoteUploadUnsupported(t *testing.T) {
	s, _ := testService(t, &fakeClient{})

	got := s.Execute(context.Background(), models.Command{
		Action:       models.ActionGenerateNote,
		UploadedFile: true,
	})
	if !strings.Contains(got, "File uploads aren't supported.") {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_SettingsShow(t *testing.T) {
	s, _ := testService(t, &fakeClient{})

	got := s.Execute(context.Background(), models.Command{Action: models.ActionSettings})
	if !strings.HasPrefix(got, "Here are your current settings:") {
		t.Errorf("reply = %q", got)
	}
	if !strings.Contains(got, `"theme": "default"`) {
		t.Errorf("reply missing settings JSON: %q", got)
	}
}

func TestExecute_SettingsSet(t *testing.T) {
	s, _ := testService(t, &fakeClient{})

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionSettings, Setting: "theme", Value: "dark",
	})
	if got != "I've set theme to dark." {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_SettingsSetInvalid(t *testing.T) {
	s, _ := testService(t, &fakeClient{})

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionSettings, Setting: "theme", Value: "neon",
	})
	if !strings.HasPrefix(got, "I couldn't change that setting:") {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_Vault(t *testing.T) {
	s, v := testService(t, &fakeClient{})
	mkfile(t, v, "sub/note.md", "x")

	got := s.Execute(context.Background(), models.Command{Action: models.ActionVault})
	if !strings.Contains(got, `"Root"`) || !strings.Contains(got, `"note.md"`) {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_Chat(t *testing.T) {
	client := &fakeClient{replies: []string{"Hello! How can I help?"}}
	s, _ := testService(t, client)

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionChat, Message: "hi",
	})
	if got != "Hello! How can I help?" {
		t.Errorf("reply = %q", got)
	}
	if len(client.lastMsg) != 2 || client.lastMsg[0].Role != "system" {
		t.Errorf("messages = %+v", client.lastMsg)
	}
}

func TestExecute_ChatAPIKeyError(t *testing.T) {
	client := &fakeClient{err: errors.New("llm: api error (status 401): Incorrect API key provided")}
	s, _ := testService(t, client)

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionChat, Message: "hi",
	})
	if got != "Error: There appears to be a problem with the API key. Please check your API key configuration." {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_ChatRateLimitError(t *testing.T) {
	client := &fakeClient{err: errors.New("llm: api error (status 429): Rate limit reached")}
	s, _ := testService(t, client)

	got := s.Execute(context.Background(), models.Command{
		Action: models.ActionChat, Message: "hi",
	})
	if got != "Error: Rate limit exceeded. Please try again in a few moments." {
		t.Errorf("reply = %q", got)
	}
}

func TestExecute_UnknownActionChats(t *testing.T) {
	client := &fakeClient{replies: []string{"sure"}}
	s, _ := testService(t, client)

	got := s.Execute(context.Background(), models.Command{
		Action: "dance", Content: "do a dance",
	})
	if got != "sure" {
		t.Errorf("reply = %q", got)
	}
}

func TestHandleMessage(t *testing.T) {
	client := &fakeClient{replies: []string{`{"action":"assignment","assignment":"buy milk"}`}}
	s, v := testService(t, client)

	got := s.HandleMessage(context.Background(), "add buy milk to my list")
	if got != `I've added "buy milk" to your to-do list.` {
		t.Errorf("reply = %q", got)
	}
	if _, err := v.Read("todo.md"); err != nil {
		t.Errorf("todo.md missing: %v", err)
	}
}
